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

package executor

import (
	"context"
	"os"
	"path/filepath"

	"gitlab.com/tozd/go/errors"
)

// 🔄 ToolSyncer invokes an external sync binary (rsync by default) with the
// configured base arguments plus any per-operation flags.
type ToolSyncer struct {
	Bin      string   // e.g. "rsync"
	BaseArgs []string // e.g. ["-a", "--verbose", "--progress"]
}

func (s *ToolSyncer) Sync(ctx context.Context, source, destination string, flags []string) error {
	args := make([]string, 0, len(s.BaseArgs)+len(flags)+2)
	args = append(args, s.BaseArgs...)
	args = append(args, flags...)
	args = append(args, source, destination)

	if err := runCommand(ctx, s.Bin, args...); err != nil {
		return errors.Errorf("syncing %s: %w", source, err)
	}
	return nil
}

// 📦 ToolArchiver invokes an external archive binary (tar by default),
// packing the source's base name relative to its parent directory so the
// archive contains a single top-level entry.
type ToolArchiver struct {
	Bin string // e.g. "tar"
}

func (a *ToolArchiver) Archive(ctx context.Context, source, output string) error {
	args := []string{"-czf", output, "-C", filepath.Dir(source), filepath.Base(source)}
	if err := runCommand(ctx, a.Bin, args...); err != nil {
		return errors.Errorf("archiving %s: %w", source, err)
	}
	return nil
}

// 🔐 OSPermissionSetter applies modes through os.Chmod.
type OSPermissionSetter struct{}

func (OSPermissionSetter) SetMode(ctx context.Context, path string, mode os.FileMode) error {
	if err := os.Chmod(path, mode); err != nil {
		return errors.Errorf("chmod %s: %w", path, err)
	}
	return nil
}
