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

// Package settings manages the optional tool configuration file.
package settings

import (
	"context"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// Defaults applied by Validate when the corresponding field is unset.
const (
	DefaultSyncTool        = "rsync"
	DefaultArchiver        = "tar"
	DefaultClusterIndexVar = "SLURM_ARRAY_TASK_ID"
)

// DefaultSyncArgs are the archive-preserving, verbose, progress-reporting
// defaults passed to the sync tool before any per-operation flags.
var DefaultSyncArgs = []string{"-a", "--verbose", "--progress"}

// 🔌 Parser is the interface for settings parsers
type Parser interface {
	// 📝 Parse parses the settings from bytes
	Parse(ctx context.Context, data []byte) (*Settings, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 📚 Settings is the complete tool configuration. The zero value validates
// to working defaults; every field is optional in the file.
type Settings struct {
	// Root is the destination root directory all derived paths live under.
	Root string `json:"root,omitempty" yaml:"root,omitempty" hcl:"root,optional"`

	// SyncTool is the external transfer binary (default rsync).
	SyncTool string `json:"sync_tool,omitempty" yaml:"sync_tool,omitempty" hcl:"sync_tool,optional"`

	// SyncArgs are the base arguments always passed to the sync tool.
	SyncArgs []string `json:"sync_args,omitempty" yaml:"sync_args,omitempty" hcl:"sync_args,optional"`

	// Archiver is the external archive binary (default tar).
	Archiver string `json:"archiver,omitempty" yaml:"archiver,omitempty" hcl:"archiver,optional"`

	// ClusterIndexVar names the environment variable carrying the 1-based
	// cluster array task index (default SLURM_ARRAY_TASK_ID).
	ClusterIndexVar string `json:"cluster_index_var,omitempty" yaml:"cluster_index_var,omitempty" hcl:"cluster_index_var,optional"`

	// ExcludePatterns are doublestar globs; a task whose source matches any
	// of them is skipped before validation.
	ExcludePatterns []string `json:"exclude_patterns,omitempty" yaml:"exclude_patterns,omitempty" hcl:"exclude_patterns,optional"`

	// LogFile, when set, duplicates structured log output to a rotating file.
	LogFile string `json:"log_file,omitempty" yaml:"log_file,omitempty" hcl:"log_file,optional"`
}

// 🎯 Load loads settings from a file. An empty path yields defaults; a
// missing file at the default location is not an error either.
func Load(ctx context.Context, path string) (*Settings, error) {
	logger := zerolog.Ctx(ctx)

	s := &Settings{}
	if path == "" {
		if err := s.Validate(); err != nil {
			return nil, err
		}
		return s, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Debug().Str("path", path).Msg("no settings file, using defaults")
			if err := s.Validate(); err != nil {
				return nil, err
			}
			return s, nil
		}
		return nil, errors.Errorf("reading settings file: %w", err)
	}

	logger.Debug().Str("path", path).Msg("loading settings")

	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	s, err = p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing settings: %w", err)
	}

	if err := s.Validate(); err != nil {
		return nil, errors.Errorf("validating settings: %w", err)
	}

	return s, nil
}

// 🔍 Validate applies defaults and checks the configured values.
func (s *Settings) Validate() error {
	if s.SyncTool == "" {
		s.SyncTool = DefaultSyncTool
	}
	if len(s.SyncArgs) == 0 {
		s.SyncArgs = append([]string(nil), DefaultSyncArgs...)
	}
	if s.Archiver == "" {
		s.Archiver = DefaultArchiver
	}
	if s.ClusterIndexVar == "" {
		s.ClusterIndexVar = DefaultClusterIndexVar
	}
	if s.Root != "" {
		s.Root = filepath.Clean(s.Root)
	}

	for _, pattern := range s.ExcludePatterns {
		if !doublestar.ValidatePattern(pattern) {
			return errors.Errorf("invalid exclude pattern: %q", pattern)
		}
	}

	return nil
}

// 🚧 Excluded reports whether a task source matches any exclude pattern.
// Patterns were validated at load time, so match errors cannot occur.
func (s *Settings) Excluded(sourcePath string) bool {
	if sourcePath == "" {
		return false
	}
	for _, pattern := range s.ExcludePatterns {
		if ok, _ := doublestar.Match(pattern, sourcePath); ok {
			return true
		}
	}
	return false
}
