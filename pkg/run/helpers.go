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

package run

import (
	"context"
	"fmt"
	"io"

	"gitlab.com/tozd/go/errors"

	"github.com/lablink/datasync/pkg/status"
	"github.com/lablink/datasync/pkg/task"
)

// ✅ ValidateAll runs the validator over every record without executing
// anything. Callers decide the exit code from Report.Rejected; warnings and
// skips never make a file invalid.
func (c *Controller) ValidateAll(ctx context.Context) (*Report, error) {
	count, err := c.reader.CountTasks(ctx)
	if err != nil {
		return nil, errors.Errorf("counting tasks: %w", err)
	}
	if count == 0 {
		return nil, ErrNoTasks
	}

	label := c.reader.Label()
	report := &Report{}

	for index := 1; index <= count; index++ {
		rec, err := c.reader.ReadTask(ctx, index)
		if err != nil {
			return report, errors.Errorf("reading task %d: %w", index, err)
		}

		out := task.Validate(rec)
		for _, warning := range out.Warnings {
			c.printer.Entry(label, index, status.VerdictWarning, warning)
			report.Warnings++
		}

		switch out.Kind {
		case task.OutcomeValid:
			c.printer.Entry(label, index, status.VerdictOK, "valid")
		case task.OutcomeSkip:
			c.printer.Entry(label, index, status.VerdictSkipped, out.Reason)
		case task.OutcomeReject:
			c.printer.Entry(label, index, status.VerdictRejected, out.Reason)
		}
		report.add(TaskOutcome{Index: index, Kind: out.Kind, Message: out.Reason})
	}

	c.printer.Summary(report.Processed, report.Skipped, report.Rejected, report.Warnings)
	return report, nil
}

// 🛤️ PreviewAll prints the destination path each record would resolve to,
// one line per record, without touching the filesystem.
func (c *Controller) PreviewAll(ctx context.Context, w io.Writer) error {
	count, err := c.reader.CountTasks(ctx)
	if err != nil {
		return errors.Errorf("counting tasks: %w", err)
	}
	if count == 0 {
		return ErrNoTasks
	}

	label := c.reader.Label()
	for index := 1; index <= count; index++ {
		rec, err := c.reader.ReadTask(ctx, index)
		if err != nil {
			return errors.Errorf("reading task %d: %w", index, err)
		}

		path := task.BuildPath(rec)
		switch {
		case path == "":
			fmt.Fprintf(w, "%s %d: (no hierarchy)\n", label, index)
		case rec.Destination != "":
			fmt.Fprintf(w, "%s %d: %s/%s\n", label, index, path, rec.Destination)
		default:
			fmt.Fprintf(w, "%s %d: %s\n", label, index, path)
		}
	}
	return nil
}
