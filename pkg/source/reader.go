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

package source

import (
	"context"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/lablink/datasync/pkg/task"
)

// 🔌 Reader extracts task records from one task file. Indices are 1-based.
type Reader interface {
	// CountTasks returns the number of task records in the file.
	CountTasks(ctx context.Context) (int, error)

	// ReadTask returns the record at the given 1-based index, or an error
	// wrapping ErrNotFound when the index exceeds CountTasks.
	ReadTask(ctx context.Context, index int) (task.Record, error)

	// Label is "line" for CSV and "task" for structured input; used purely
	// for message formatting.
	Label() string
}

// 🏭 Open detects the format of the task file and returns the matching
// reader. The whole file is parsed up front; task files are small.
func Open(ctx context.Context, path string) (Reader, error) {
	format, err := Detect(path)
	if err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Debug().
		Str("path", path).
		Stringer("format", format).
		Msg("opening task file")

	switch format {
	case FormatCSV:
		return newCSVReader(path)
	case FormatStructured:
		return newJSONReader(path)
	default:
		return nil, errors.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}
