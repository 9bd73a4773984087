// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package router

import (
	"io"
	"mime/multipart"
)

// FileField is a single uploaded file extracted from a multipart/form-data
// body, per spec.md §4.5: filename, content-type, size, and the raw bytes.
type FileField struct {
	Filename    string
	ContentType string
	Size        int64
	Header      map[string][]string
	content     []byte
}

// Bytes returns the file's content, read once into memory when the
// multipart body was parsed.
func (f *FileField) Bytes() []byte { return f.content }

// parseMultipart decodes a multipart/form-data body per spec.md §4.5's
// {fields, files} shape: "fields" holds plain field name -> string value,
// "files" holds field name -> *FileField (or []*FileField for repeated
// file inputs under the same name).
func parseMultipart(body io.Reader, boundary string, maxBodySize int64) (any, error) {
	fields := map[string]any{}
	files := map[string]any{}
	if boundary == "" {
		return map[string]any{"fields": fields, "files": files}, nil
	}

	reader := multipart.NewReader(body, boundary)
	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		name := part.FormName()
		if name == "" {
			part.Close()
			continue
		}

		if part.FileName() == "" {
			data, err := io.ReadAll(io.LimitReader(part, maxBodySize))
			part.Close()
			if err != nil {
				return nil, err
			}
			fields[name] = string(data)
			continue
		}

		data, err := io.ReadAll(io.LimitReader(part, maxBodySize))
		part.Close()
		if err != nil {
			return nil, err
		}
		file := &FileField{
			Filename:    part.FileName(),
			ContentType: part.Header.Get("Content-Type"),
			Size:        int64(len(data)),
			Header:      map[string][]string(part.Header),
			content:     data,
		}

		switch existing := files[name].(type) {
		case nil:
			files[name] = file
		case *FileField:
			files[name] = []*FileField{existing, file}
		case []*FileField:
			files[name] = append(existing, file)
		}
	}

	return map[string]any{"fields": fields, "files": files}, nil
}
