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

// Package status renders per-record outcome lines and the batch summary for
// the terminal.
package status

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog/log"
)

// 🎨 Display configuration
const (
	labelWidth   = 10 // width for "line N" / "task N"
	verdictWidth = 10 // width for the verdict column
	timeFormat   = "2006-01-02 15:04:05"
)

// 📊 Verdict is the user-facing classification of one status line.
type Verdict int

const (
	VerdictOK Verdict = iota
	VerdictWarning
	VerdictSkipped
	VerdictRejected
)

// String returns a string representation of the verdict.
func (v Verdict) String() string {
	switch v {
	case VerdictOK:
		return "ok"
	case VerdictWarning:
		return "warning"
	case VerdictSkipped:
		return "skipped"
	case VerdictRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// symbol returns the colored prefix for a verdict.
func (v Verdict) symbol() string {
	switch v {
	case VerdictOK:
		return color.GreenString("✓")
	case VerdictWarning:
		return color.YellowString("!")
	case VerdictSkipped:
		return color.HiBlackString("-")
	case VerdictRejected:
		return color.RedString("✗")
	default:
		return "?"
	}
}

// 📝 FormatEntry builds one status line: timestamp, symbol, "label N",
// verdict and message, in fixed-width columns.
func FormatEntry(ts time.Time, label string, index int, verdict Verdict, message string) string {
	position := fmt.Sprintf("%s %d", label, index)
	return fmt.Sprintf("%s %s %-*s %-*s %s",
		ts.Format(timeFormat),
		verdict.symbol(),
		labelWidth, position,
		verdictWidth, verdict.String(),
		message,
	)
}

// 🖨️ Printer writes status lines to a console writer. One task is active at
// a time per invocation; the mutex only guards against interleaved summary
// rendering.
type Printer struct {
	console io.Writer
	mu      sync.Mutex
	now     func() time.Time
}

// 🏭 NewPrinter creates a printer writing to the given console.
func NewPrinter(console io.Writer) *Printer {
	return &Printer{console: console, now: time.Now}
}

// Entry prints one record-level status line.
func (p *Printer) Entry(label string, index int, verdict Verdict, message string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.console, FormatEntry(p.now(), label, index, verdict, message))
}

// Summary renders the end-of-batch tally table.
func (p *Printer) Summary(processed, skipped, rejected, warnings int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	pterm.DefaultSection.WithWriter(p.console).Println("Batch summary")
	err := pterm.DefaultTable.WithWriter(p.console).WithData(pterm.TableData{
		{"Processed", fmt.Sprintf("%d", processed)},
		{"Skipped", fmt.Sprintf("%d", skipped)},
		{"Rejected", fmt.Sprintf("%d", rejected)},
		{"Warnings", fmt.Sprintf("%d", warnings)},
	}).Render()
	if err != nil {
		// The summary is decoration on top of the per-record lines already
		// printed; a render problem is not worth failing the batch over.
		log.Debug().Err(err).Msg("rendering summary table")
	}
}
