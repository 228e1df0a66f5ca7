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

package task

import "fmt"

// 📊 OutcomeKind is the three-tier validation result.
type OutcomeKind int

const (
	// OutcomeValid means the record passes all rules and can be executed.
	OutcomeValid OutcomeKind = iota
	// OutcomeSkip means the record is intentionally sparse or inconsistent;
	// it is excluded with a warning and never counts as an error.
	OutcomeSkip
	// OutcomeReject means the record is malformed (missing required fields
	// or unknown operation). Still non-fatal to a batch, but reported at
	// error level and tallied by callers.
	OutcomeReject
)

// String returns a string representation of the outcome kind.
func (k OutcomeKind) String() string {
	switch k {
	case OutcomeValid:
		return "valid"
	case OutcomeSkip:
		return "skip"
	case OutcomeReject:
		return "reject"
	default:
		return "unknown"
	}
}

// 🧾 Outcome carries the validation verdict for one record plus any
// non-blocking warnings collected along the way. Warnings are populated
// regardless of the verdict.
type Outcome struct {
	Kind     OutcomeKind
	Reason   string   // set for Skip and Reject
	Warnings []string // non-blocking, never affect Kind
}

// Validate applies the field-presence and hierarchy-consistency rules to a
// record. Rules are evaluated in order, first match wins; warnings are
// non-exclusive and always collected first.
//
// A record describes either a run-hierarchy task or an analysis-hierarchy
// task, never both.
func Validate(rec Record) Outcome {
	var warnings []string
	if rec.Source == "" {
		warnings = append(warnings, "source is empty, nothing will be transferred")
	}
	if rec.Owner == "" {
		warnings = append(warnings, "owner is empty")
	}

	out := Outcome{Kind: OutcomeValid, Warnings: warnings}

	switch {
	case rec.Project == "":
		out.Kind = OutcomeSkip
		out.Reason = "project is required"
	case rec.Run != "" && rec.Experiment == "":
		out.Kind = OutcomeSkip
		out.Reason = "run requires an experiment"
	case rec.Analysis != "" && (rec.Run != "" || rec.Experiment != ""):
		out.Kind = OutcomeSkip
		out.Reason = "analysis is incompatible with run/experiment"
	case rec.Destination == "" || rec.Operation == "":
		out.Kind = OutcomeReject
		out.Reason = "missing required fields: destination and operation must be set"
	default:
		if _, err := Resolve(rec.Operation); err != nil {
			out.Kind = OutcomeReject
			out.Reason = fmt.Sprintf("unrecognized operation %q", rec.Operation)
		}
	}

	return out
}
