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

// Package run decides which task records an invocation processes and drives
// them through validation and execution, one at a time.
package run

import (
	"context"
	"os"
	"strconv"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/lablink/datasync/pkg/executor"
	"github.com/lablink/datasync/pkg/settings"
	"github.com/lablink/datasync/pkg/source"
	"github.com/lablink/datasync/pkg/status"
	"github.com/lablink/datasync/pkg/task"
)

// 🚫 ErrNoTasks is returned when the task file holds no countable records
// outside cluster mode.
var ErrNoTasks = errors.New("no valid entries in task file")

// 🚫 ErrIndexOutOfRange is returned for an explicit task index outside
// [1, count]. A cluster-provided index beyond the count is NOT this error;
// that case is a graceful no-op.
var ErrIndexOutOfRange = errors.New("task index out of range")

// 🚦 State tracks where the controller is in its lifecycle.
type State int

const (
	StateIdle State = iota
	StateDispatch
	StateSingleTask
	StateAllTasks
	StateDone
)

// String returns a string representation of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDispatch:
		return "dispatch"
	case StateSingleTask:
		return "single-task"
	case StateAllTasks:
		return "all-tasks"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

// 🔌 Executor is the slice of the executor surface the controller needs.
type Executor interface {
	Execute(ctx context.Context, rec task.Record, directive task.Directive) (executor.Result, error)
}

// 📋 TaskOutcome records what happened to one task index.
type TaskOutcome struct {
	Index    int
	Kind     task.OutcomeKind
	Message  string
	Executed bool // true when the executor ran for this record
}

// 📊 Report aggregates a whole invocation.
type Report struct {
	Processed int // records that reached the executor
	Skipped   int // warn-and-skip records (including excluded sources)
	Rejected  int // hard-error records
	Warnings  int // non-blocking warnings across all records
	Outcomes  []TaskOutcome
}

// add folds one outcome into the tallies.
func (r *Report) add(out TaskOutcome) {
	r.Outcomes = append(r.Outcomes, out)
	switch out.Kind {
	case task.OutcomeValid:
		r.Processed++
	case task.OutcomeSkip:
		r.Skipped++
	case task.OutcomeReject:
		r.Rejected++
	}
}

// 🔧 Options contains the controller's collaborators.
type Options struct {
	Reader   source.Reader
	Executor Executor // may be nil for validate/preview-only use
	Settings *settings.Settings
	Printer  *status.Printer
}

// 🎮 Controller processes one task or all tasks of a single task file.
type Controller struct {
	reader   source.Reader
	executor Executor
	settings *settings.Settings
	printer  *status.Printer
	state    State
}

// 🏭 New creates a new controller with the given options.
func New(opts Options) (*Controller, error) {
	if opts.Reader == nil {
		return nil, errors.New("reader is required")
	}
	if opts.Settings == nil {
		return nil, errors.New("settings are required")
	}
	if opts.Printer == nil {
		return nil, errors.New("printer is required")
	}
	return &Controller{
		reader:   opts.Reader,
		executor: opts.Executor,
		settings: opts.Settings,
		printer:  opts.Printer,
		state:    StateIdle,
	}, nil
}

// State returns the controller's current lifecycle state.
func (c *Controller) State() State { return c.state }

// 🧭 ClusterIndex reads the 1-based task index from the configured cluster
// environment variable. The second return is false when the variable is
// absent or empty.
func ClusterIndex(s *settings.Settings) (int, bool, error) {
	raw, ok := os.LookupEnv(s.ClusterIndexVar)
	if !ok || raw == "" {
		return 0, false, nil
	}
	index, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false, errors.Errorf("parsing %s=%q: %w", s.ClusterIndexVar, raw, err)
	}
	return index, true, nil
}

// Dispatch selects the processing mode for this invocation: a cluster-
// provided index wins over everything, then the all flag, then the explicit
// index (default 1).
func (c *Controller) Dispatch(ctx context.Context, all bool, index int) (*Report, error) {
	c.state = StateDispatch
	logger := zerolog.Ctx(ctx)

	clusterIndex, inCluster, err := ClusterIndex(c.settings)
	if err != nil {
		return nil, err
	}

	switch {
	case inCluster:
		logger.Debug().Int("index", clusterIndex).Msg("cluster mode")
		return c.runCluster(ctx, clusterIndex)
	case all:
		logger.Debug().Msg("batch mode")
		return c.runAll(ctx)
	default:
		if index == 0 {
			index = 1
		}
		logger.Debug().Int("index", index).Msg("single-task mode")
		return c.runSingle(ctx, index)
	}
}

// runCluster processes the cluster-provided index. An index beyond the task
// count is a graceful no-op: cluster arrays routinely over-provision indices.
func (c *Controller) runCluster(ctx context.Context, index int) (*Report, error) {
	c.state = StateSingleTask
	defer func() { c.state = StateDone }()

	if index < 1 {
		return nil, errors.Errorf("%w: cluster index %d", ErrIndexOutOfRange, index)
	}

	count, err := c.reader.CountTasks(ctx)
	if err != nil {
		return nil, errors.Errorf("counting tasks: %w", err)
	}

	report := &Report{}
	if index > count {
		zerolog.Ctx(ctx).Info().
			Int("index", index).
			Int("count", count).
			Msg("no corresponding task for cluster index, nothing to do")
		return report, nil
	}

	if err := c.processOne(ctx, index, report); err != nil {
		return report, err
	}
	return report, nil
}

// runAll iterates every task in order. Skipped and rejected records never
// stop the batch; only fatal executor errors do.
func (c *Controller) runAll(ctx context.Context) (*Report, error) {
	c.state = StateAllTasks
	defer func() { c.state = StateDone }()

	count, err := c.reader.CountTasks(ctx)
	if err != nil {
		return nil, errors.Errorf("counting tasks: %w", err)
	}
	if count == 0 {
		return nil, ErrNoTasks
	}

	report := &Report{}
	for index := 1; index <= count; index++ {
		if err := c.processOne(ctx, index, report); err != nil {
			return report, err
		}
	}

	c.printer.Summary(report.Processed, report.Skipped, report.Rejected, report.Warnings)
	return report, nil
}

// runSingle processes one caller-supplied index. Out-of-range is a hard
// argument error here, unlike cluster mode.
func (c *Controller) runSingle(ctx context.Context, index int) (*Report, error) {
	c.state = StateSingleTask
	defer func() { c.state = StateDone }()

	count, err := c.reader.CountTasks(ctx)
	if err != nil {
		return nil, errors.Errorf("counting tasks: %w", err)
	}
	if count == 0 {
		return nil, ErrNoTasks
	}
	if index < 1 || index > count {
		return nil, errors.Errorf("%w: %d not in [1, %d]", ErrIndexOutOfRange, index, count)
	}

	report := &Report{}
	if err := c.processOne(ctx, index, report); err != nil {
		return report, err
	}
	return report, nil
}

// processOne drives a single record through exclusion, validation,
// resolution and execution. Only executor-fatal errors are returned.
func (c *Controller) processOne(ctx context.Context, index int, report *Report) error {
	if c.executor == nil {
		return errors.New("executor is required")
	}

	label := c.reader.Label()
	logger := zerolog.Ctx(ctx).With().Int(label, index).Logger()
	ctx = logger.WithContext(ctx)

	rec, err := c.reader.ReadTask(ctx, index)
	if err != nil {
		if errors.Is(err, source.ErrNotFound) {
			c.printer.Entry(label, index, status.VerdictSkipped, "no corresponding task")
			report.add(TaskOutcome{Index: index, Kind: task.OutcomeSkip, Message: "no corresponding task"})
			return nil
		}
		return errors.Errorf("reading task %d: %w", index, err)
	}

	if c.settings.Excluded(rec.Source) {
		c.printer.Entry(label, index, status.VerdictSkipped, "source excluded by pattern")
		report.add(TaskOutcome{Index: index, Kind: task.OutcomeSkip, Message: "source excluded by pattern"})
		return nil
	}

	out := task.Validate(rec)
	for _, warning := range out.Warnings {
		c.printer.Entry(label, index, status.VerdictWarning, warning)
		report.Warnings++
	}

	switch out.Kind {
	case task.OutcomeSkip:
		c.printer.Entry(label, index, status.VerdictSkipped, out.Reason)
		report.add(TaskOutcome{Index: index, Kind: task.OutcomeSkip, Message: out.Reason})
		return nil
	case task.OutcomeReject:
		c.printer.Entry(label, index, status.VerdictRejected, out.Reason)
		report.add(TaskOutcome{Index: index, Kind: task.OutcomeReject, Message: out.Reason})
		return nil
	}

	directive, err := task.Resolve(rec.Operation)
	if err != nil {
		// Unreachable after validation; kept as a guard against drift
		// between Validate and Resolve.
		return errors.Errorf("resolving operation for %s %d: %w", label, index, err)
	}

	result, err := c.executor.Execute(ctx, rec, directive)
	if err != nil {
		return errors.Errorf("executing %s %d: %w", label, index, err)
	}

	verdict := status.VerdictOK
	if result.Warning {
		verdict = status.VerdictWarning
		report.Warnings++
	}
	c.printer.Entry(label, index, verdict, result.Message)
	report.add(TaskOutcome{Index: index, Kind: task.OutcomeValid, Message: result.Message, Executed: true})
	return nil
}
