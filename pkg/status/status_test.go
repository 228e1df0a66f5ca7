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

package status_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/lablink/datasync/pkg/status"
)

func TestFormatEntry(t *testing.T) {
	ts := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)

	line := status.FormatEntry(ts, "line", 3, status.VerdictSkipped, "project is required")
	assert.Contains(t, line, "2025-03-14 09:26:53")
	assert.Contains(t, line, "line 3")
	assert.Contains(t, line, "skipped")
	assert.Contains(t, line, "project is required")

	line = status.FormatEntry(ts, "task", 12, status.VerdictRejected, "unrecognized operation")
	assert.Contains(t, line, "task 12")
	assert.Contains(t, line, "rejected")
}

func TestPrinter_Entry(t *testing.T) {
	var buf bytes.Buffer
	p := status.NewPrinter(&buf)

	p.Entry("line", 1, status.VerdictWarning, "owner is empty")
	p.Entry("line", 2, status.VerdictOK, "transfer complete")

	out := buf.String()
	assert.Contains(t, out, "line 1")
	assert.Contains(t, out, "owner is empty")
	assert.Contains(t, out, "line 2")
	assert.Contains(t, out, "transfer complete")
}

func TestPrinter_Summary(t *testing.T) {
	var buf bytes.Buffer
	p := status.NewPrinter(&buf)

	p.Summary(4, 2, 1, 3)

	out := buf.String()
	assert.Contains(t, out, "Batch summary")
	assert.Contains(t, out, "Processed")
	assert.Contains(t, out, "Rejected")
}
