// Copyright 2025 lablink LLC
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

// Package source reads task records out of CSV or JSON task files.
package source

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"gitlab.com/tozd/go/errors"
)

// 🚫 ErrUnsupportedFormat is returned when a task file matches neither the
// CSV nor the JSON heuristics, or cannot be opened at all.
var ErrUnsupportedFormat = errors.New("unsupported task file format")

// 🚫 ErrNotFound signals that a requested task index exceeds the number of
// tasks in the file. Callers treat it as "nothing to do", not as a failure.
var ErrNotFound = errors.New("task not found")

// 📋 Format classifies a task file.
type Format int

const (
	FormatUnknown Format = iota
	FormatCSV
	FormatStructured // JSON, top-level object with a "tasks" array
)

// String returns a string representation of the format.
func (f Format) String() string {
	switch f {
	case FormatCSV:
		return "csv"
	case FormatStructured:
		return "structured"
	default:
		return "unknown"
	}
}

// 🔍 Detect classifies a task file. The extension wins when it is
// unambiguous (case-insensitive .json or .csv); otherwise the first
// non-whitespace content decides: a leading '{' means structured, a
// comma-bearing first line means CSV.
func Detect(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatStructured, nil
	case ".csv":
		return FormatCSV, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return FormatUnknown, errors.Errorf("%w: opening %s: %w", ErrUnsupportedFormat, path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimLeftFunc(scanner.Text(), unicode.IsSpace)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "{") {
			return FormatStructured, nil
		}
		if strings.Contains(line, ",") {
			return FormatCSV, nil
		}
		break
	}
	if err := scanner.Err(); err != nil {
		return FormatUnknown, errors.Errorf("%w: reading %s: %w", ErrUnsupportedFormat, path, err)
	}

	return FormatUnknown, errors.Errorf("%w: %s", ErrUnsupportedFormat, path)
}
