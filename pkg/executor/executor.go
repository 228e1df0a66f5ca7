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

// Package executor carries out resolved task directives against the
// filesystem and the external sync/archive tools.
package executor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/lablink/datasync/pkg/task"
)

// 🚫 ErrArchiveFailed marks a failed archive creation. Unlike every other
// per-task problem this one is fatal to the whole invocation: an archive is
// an all-or-nothing artifact, a half-written tarball must never be mistaken
// for a good one. Callers terminate on it instead of moving on.
var ErrArchiveFailed = errors.New("archive creation failed")

// 🔌 Syncer transfers a source tree to a destination directory. Flags are
// appended to the tool's base arguments and may be empty.
type Syncer interface {
	Sync(ctx context.Context, source, destination string, flags []string) error
}

// 🔌 Archiver packs a source tree into an archive at the output path.
type Archiver interface {
	Archive(ctx context.Context, source, output string) error
}

// 🔌 PermissionSetter applies a file mode to a path.
type PermissionSetter interface {
	SetMode(ctx context.Context, path string, mode os.FileMode) error
}

// 🔧 Options contains the executor's collaborators and the destination root.
type Options struct {
	// Root is the destination root directory; derived paths live under it.
	Root string
	// Syncer is the external transfer tool.
	Syncer Syncer
	// Archiver is the external archive tool.
	Archiver Archiver
	// Perms applies directory modes.
	Perms PermissionSetter
}

// 📋 Result reports what the executor did for one record.
type Result struct {
	Directive       task.DirectiveKind
	DestinationPath string // absolute destination directory
	ArchivePath     string // set for archive directives
	Message         string // human-readable outcome
	Warning         bool   // true when the outcome is a non-fatal degradation
}

// 🎮 Executor executes resolved directives one record at a time.
type Executor struct {
	root     string
	syncer   Syncer
	archiver Archiver
	perms    PermissionSetter
	now      func() time.Time
}

// 🏭 New creates a new executor with the given options.
func New(opts Options) (*Executor, error) {
	if opts.Syncer == nil {
		return nil, errors.New("syncer is required")
	}
	if opts.Archiver == nil {
		return nil, errors.New("archiver is required")
	}
	if opts.Perms == nil {
		return nil, errors.New("permission setter is required")
	}
	return &Executor{
		root:     opts.Root,
		syncer:   opts.Syncer,
		archiver: opts.Archiver,
		perms:    opts.Perms,
		now:      time.Now,
	}, nil
}

// Execute carries out one directive for a validated record. The destination
// directory is <root>/<BuildPath(rec)>/<rec.Destination>.
//
// Every outcome except archive failure is non-fatal: problems are reported
// through Result.Warning and Result.Message, and the returned error stays
// nil so that batch processing continues.
func (e *Executor) Execute(ctx context.Context, rec task.Record, directive task.Directive) (Result, error) {
	logger := zerolog.Ctx(ctx)

	destPath := filepath.Join(e.root, task.BuildPath(rec), rec.Destination)
	res := Result{Directive: directive.Kind, DestinationPath: destPath}

	logger.Debug().
		Str("destination", destPath).
		Stringer("directive", directive.Kind).
		Msg("executing task")

	if err := e.ensureDestination(destPath, directive); err != nil {
		if directive.Kind == task.DirectiveArchive {
			return res, errors.Errorf("%w: preparing %s: %w", ErrArchiveFailed, destPath, err)
		}
		res.Warning = true
		res.Message = fmt.Sprintf("cannot prepare destination %s: %v", destPath, err)
		return res, nil
	}

	switch directive.Kind {
	case task.DirectiveSkip:
		res.Message = "Skipping entry completely."
		return res, nil

	case task.DirectivePermissions:
		return e.setPermissions(ctx, destPath, res)

	case task.DirectiveArchive:
		return e.createArchive(ctx, rec.Source, destPath, res)

	case task.DirectiveTransfer:
		return e.transfer(ctx, rec.Source, destPath, directive, res)

	default:
		// Unreachable when the validator ran first.
		return res, errors.Errorf("%w: directive %d", task.ErrInvalidOperation, directive.Kind)
	}
}

// ensureDestination creates the destination directory. A permissions
// directive tolerates the path already existing as a non-directory; the
// warning is produced later when the mode cannot be applied.
func (e *Executor) ensureDestination(destPath string, directive task.Directive) error {
	if directive.Kind == task.DirectivePermissions {
		if info, err := os.Stat(destPath); err == nil && !info.IsDir() {
			return nil
		}
	}
	if err := os.MkdirAll(destPath, 0755); err != nil {
		return errors.Errorf("creating destination directory: %w", err)
	}
	return nil
}

func (e *Executor) setPermissions(ctx context.Context, destPath string, res Result) (Result, error) {
	info, err := os.Stat(destPath)
	if err != nil || !info.IsDir() {
		res.Warning = true
		res.Message = fmt.Sprintf("%s is not a directory, permissions not applied", destPath)
		return res, nil
	}
	if err := e.perms.SetMode(ctx, destPath, 0755); err != nil {
		res.Warning = true
		res.Message = fmt.Sprintf("setting permissions on %s: %v", destPath, err)
		return res, nil
	}
	res.Message = fmt.Sprintf("permissions set to rwxr-xr-x on %s", destPath)
	return res, nil
}

func (e *Executor) createArchive(ctx context.Context, source, destPath string, res Result) (Result, error) {
	if source == "" {
		res.Warning = true
		res.Message = "source is empty, no archive created"
		return res, nil
	}

	output := filepath.Join(destPath, fmt.Sprintf("%s_%s.tar.gz",
		filepath.Base(source), e.now().Format("20060102_150405")))
	res.ArchivePath = output

	if err := e.archiver.Archive(ctx, source, output); err != nil {
		return res, errors.Errorf("%w: %s: %w", ErrArchiveFailed, output, err)
	}

	res.Message = fmt.Sprintf("archive created at %s", output)
	return res, nil
}

func (e *Executor) transfer(ctx context.Context, source, destPath string, directive task.Directive, res Result) (Result, error) {
	if source == "" {
		res.Message = "source is empty, created destination directory only"
		return res, nil
	}

	var flags []string
	if directive.Flags != "" {
		flags = []string{directive.Flags}
	}

	if err := e.syncer.Sync(ctx, source, destPath, flags); err != nil {
		res.Warning = true
		res.Message = fmt.Sprintf("transfer from %s failed: %v", source, err)
		return res, nil
	}

	res.Message = fmt.Sprintf("transferred %s to %s", source, destPath)
	return res, nil
}
