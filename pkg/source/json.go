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
	"encoding/json"
	"os"
	"strings"

	"gitlab.com/tozd/go/errors"

	"github.com/lablink/datasync/pkg/task"
)

// 📄 jsonReader reads the structured format: a top-level object carrying one
// named array of task objects. Field order is irrelevant, missing fields
// default to empty strings, extra fields are ignored.
type jsonReader struct {
	records []task.Record
}

func newJSONReader(path string) (*jsonReader, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading task file: %w", err)
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, errors.Errorf("%w: parsing %s: %w", ErrUnsupportedFormat, path, err)
	}

	raw, err := taskArray(top)
	if err != nil {
		return nil, errors.Errorf("%w: %s: %w", ErrUnsupportedFormat, path, err)
	}

	var records []task.Record
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, errors.Errorf("%w: decoding tasks in %s: %w", ErrUnsupportedFormat, path, err)
	}

	return &jsonReader{records: records}, nil
}

// taskArray picks the array of task objects out of the top-level object.
// The "tasks" key wins; without it, exactly one array-valued key must exist.
func taskArray(top map[string]json.RawMessage) (json.RawMessage, error) {
	if raw, ok := top["tasks"]; ok {
		return raw, nil
	}

	var found json.RawMessage
	count := 0
	for _, raw := range top {
		if strings.HasPrefix(strings.TrimSpace(string(raw)), "[") {
			found = raw
			count++
		}
	}
	switch count {
	case 1:
		return found, nil
	case 0:
		return nil, errors.New("no task array found")
	default:
		return nil, errors.New("multiple candidate task arrays, expected a single \"tasks\" key")
	}
}

func (r *jsonReader) CountTasks(ctx context.Context) (int, error) {
	return len(r.records), nil
}

func (r *jsonReader) ReadTask(ctx context.Context, index int) (task.Record, error) {
	if index < 1 || index > len(r.records) {
		return task.Record{}, errors.Errorf("%w: task %d", ErrNotFound, index)
	}
	return r.records[index-1], nil
}

func (r *jsonReader) Label() string { return "task" }
