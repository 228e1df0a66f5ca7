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

package source_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lablink/datasync/pkg/source"
	"github.com/lablink/datasync/pkg/task"
)

// writeFile drops content into a temp file with the given name.
func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		want    source.Format
		wantErr bool
	}{
		{name: "json_extension", file: "tasks.json", content: "whatever", want: source.FormatStructured},
		{name: "json_extension_uppercase", file: "tasks.JSON", content: "whatever", want: source.FormatStructured},
		{name: "csv_extension", file: "tasks.csv", content: "whatever", want: source.FormatCSV},
		{name: "sniff_brace", file: "tasks.txt", content: "  \n {\"tasks\": []}", want: source.FormatStructured},
		{name: "sniff_comma", file: "tasks.dat", content: "proj1,exp1,run1,,/src,data,copy,alice\n", want: source.FormatCSV},
		{name: "no_heuristic_matches", file: "tasks.txt", content: "just some text\n", wantErr: true},
		{name: "empty_file", file: "tasks", content: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, tt.file, tt.content)
			got, err := source.Detect(path)
			if tt.wantErr {
				require.ErrorIs(t, err, source.ErrUnsupportedFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetect_UnopenableFile(t *testing.T) {
	_, err := source.Detect(filepath.Join(t.TempDir(), "missing"))
	require.ErrorIs(t, err, source.ErrUnsupportedFormat)
}

func TestCSVReader_CountTasks(t *testing.T) {
	ctx := context.Background()

	// Six countable lines, one of them sparse (empty hierarchy fields) and
	// one a comment. The blank line and the indented line do not count.
	content := "proj1,exp1,run1,,/src,data,copy,alice\n" +
		"proj1,exp1,run2,,/src,data,copy,alice\n" +
		"#,this is a comment,,,,,,\n" +
		",,,,/src,data,,\n" +
		"\n" +
		"  proj2,exp1,,,/src,data,copy,bob\n" +
		"proj2,,,,qc,/src,copy,bob\n" +
		"proj3,,,,/src,out,skip,carol\n"

	r, err := source.Open(ctx, writeFile(t, "tasks.csv", content))
	require.NoError(t, err)
	assert.Equal(t, "line", r.Label())

	count, err := r.CountTasks(ctx)
	require.NoError(t, err)
	assert.Equal(t, 6, count)
}

func TestCSVReader_ReadTask(t *testing.T) {
	ctx := context.Background()

	content := "proj1,exp1,run1,,/src,data,dryrun,alice\n" +
		"#,comment line,,,,,,\n" +
		"proj2,,,,/other\n"

	r, err := source.Open(ctx, writeFile(t, "tasks.csv", content))
	require.NoError(t, err)

	rec, err := r.ReadTask(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, task.Record{
		Project:     "proj1",
		Experiment:  "exp1",
		Run:         "run1",
		Source:      "/src",
		Destination: "data",
		Operation:   "dryrun",
		Owner:       "alice",
	}, rec)

	// Comment lines surface as empty-project records; validation skips them.
	rec, err = r.ReadTask(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, task.Record{}, rec)

	// Missing trailing fields default to empty, not an error.
	rec, err = r.ReadTask(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, "proj2", rec.Project)
	assert.Equal(t, "/other", rec.Source)
	assert.Empty(t, rec.Destination)
	assert.Empty(t, rec.Owner)
}

func TestCSVReader_NotFound(t *testing.T) {
	ctx := context.Background()
	r, err := source.Open(ctx, writeFile(t, "tasks.csv", "proj1,exp1,,,/src,data,copy,alice\n"))
	require.NoError(t, err)

	for _, index := range []int{0, -1, 2, 100} {
		_, err := r.ReadTask(ctx, index)
		require.ErrorIs(t, err, source.ErrNotFound, "index %d", index)
	}
}

func TestJSONReader(t *testing.T) {
	ctx := context.Background()

	content := `{
		"tasks": [
			{"project": "proj1", "experiment": "exp1", "run": "run1", "source": "/src", "destination": "data", "option": "move", "owner": "alice", "extra": "ignored"},
			{"destination": "out", "option": "skip"}
		]
	}`

	r, err := source.Open(ctx, writeFile(t, "tasks.json", content))
	require.NoError(t, err)
	assert.Equal(t, "task", r.Label())

	count, err := r.CountTasks(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	rec, err := r.ReadTask(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "proj1", rec.Project)
	assert.Equal(t, "move", rec.Operation)

	// Missing fields default to empty strings.
	rec, err = r.ReadTask(ctx, 2)
	require.NoError(t, err)
	assert.Empty(t, rec.Project)
	assert.Equal(t, "out", rec.Destination)

	_, err = r.ReadTask(ctx, 3)
	require.ErrorIs(t, err, source.ErrNotFound)
}

func TestJSONReader_FallbackArrayKey(t *testing.T) {
	ctx := context.Background()

	content := `{"entries": [{"project": "p", "destination": "d", "option": "copy"}]}`
	r, err := source.Open(ctx, writeFile(t, "tasks.json", content))
	require.NoError(t, err)

	count, err := r.CountTasks(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestJSONReader_Malformed(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		content string
	}{
		{name: "not_json", content: "proj1,exp1"},
		{name: "no_array", content: `{"tasks": "nope"}`},
		{name: "ambiguous_arrays", content: `{"a": [], "b": []}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := source.Open(ctx, writeFile(t, "tasks.json", tt.content))
			require.ErrorIs(t, err, source.ErrUnsupportedFormat)
		})
	}
}
