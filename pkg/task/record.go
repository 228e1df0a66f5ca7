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

// Package task defines the task record model, validation rules, destination
// path derivation and operation resolution for datasync.
package task

import (
	"strings"

	"gitlab.com/tozd/go/errors"
)

// 🚫 ErrInvalidOperation is returned when an operation keyword is not one of
// the six recognized values.
var ErrInvalidOperation = errors.New("invalid operation")

// 📦 Record is one synchronization job description, materialized fresh from a
// single line (CSV) or element (JSON) of the task file. It is never mutated
// after construction.
type Record struct {
	Project     string `json:"project"`
	Experiment  string `json:"experiment"`
	Run         string `json:"run"`
	Analysis    string `json:"analysis"`
	Source      string `json:"source"`
	Destination string `json:"destination"` // destination name, not a full path
	Operation   string `json:"option"`      // operation keyword, see Resolve
	Owner       string `json:"owner"`
}

// FieldNames is the fixed CSV column order. JSON task objects use the same
// names as keys.
var FieldNames = []string{
	"project", "experiment", "run", "analysis",
	"source", "destination", "option", "owner",
}

// 🎯 DirectiveKind classifies what the executor has to do for a record.
type DirectiveKind int

const (
	// DirectiveSkip performs no action beyond destination directory creation.
	DirectiveSkip DirectiveKind = iota
	// DirectivePermissions sets the destination directory mode.
	DirectivePermissions
	// DirectiveArchive packs the source tree into a tarball at the destination.
	DirectiveArchive
	// DirectiveTransfer invokes the external sync tool with Flags appended.
	DirectiveTransfer
)

// String returns a string representation of the directive kind.
func (k DirectiveKind) String() string {
	switch k {
	case DirectiveSkip:
		return "skip"
	case DirectivePermissions:
		return "permissions"
	case DirectiveArchive:
		return "archive"
	case DirectiveTransfer:
		return "transfer"
	default:
		return "unknown"
	}
}

// 🧭 Directive is the resolved dispatch instruction for one record. Flags is
// only meaningful for DirectiveTransfer and may be empty (plain copy).
type Directive struct {
	Kind  DirectiveKind
	Flags string
}

// Resolve maps an operation keyword to its directive. Keywords are matched
// case-insensitively after trimming whitespace. Anything outside the six
// recognized values fails with ErrInvalidOperation.
func Resolve(keyword string) (Directive, error) {
	switch strings.ToLower(strings.TrimSpace(keyword)) {
	case "dryrun":
		return Directive{Kind: DirectiveTransfer, Flags: "--dry-run"}, nil
	case "copy":
		return Directive{Kind: DirectiveTransfer, Flags: ""}, nil
	case "move":
		return Directive{Kind: DirectiveTransfer, Flags: "--remove-source-files"}, nil
	case "archive":
		return Directive{Kind: DirectiveArchive}, nil
	case "permit":
		return Directive{Kind: DirectivePermissions}, nil
	case "skip":
		return Directive{Kind: DirectiveSkip}, nil
	default:
		return Directive{}, errors.Errorf("%w: %q", ErrInvalidOperation, keyword)
	}
}
