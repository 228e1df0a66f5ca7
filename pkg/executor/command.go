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
	"bufio"
	"context"
	"io"
	"os/exec"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

// 🏃 runCommand runs an external tool, streaming its stdout into debug-level
// and stderr into warn-level log output. No timeout is imposed; the tool
// runs to completion or failure.
func runCommand(ctx context.Context, name string, args ...string) error {
	logger := zerolog.Ctx(ctx).With().Str("tool", name).Logger()
	logger.Debug().Strs("args", args).Msg("invoking external tool")

	cmd := exec.CommandContext(ctx, name, args...)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return errors.Errorf("piping stdout: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return errors.Errorf("piping stderr: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return errors.Errorf("starting %s: %w", name, err)
	}

	g := new(errgroup.Group)
	g.Go(func() error {
		return drainLines(stdout, func(line string) { logger.Debug().Msg(line) })
	})
	g.Go(func() error {
		return drainLines(stderr, func(line string) { logger.Warn().Msg(line) })
	})

	// Both pipes must be drained before Wait closes them.
	pumpErr := g.Wait()

	if err := cmd.Wait(); err != nil {
		return errors.Errorf("%s: %w", name, err)
	}
	if pumpErr != nil {
		return errors.Errorf("reading %s output: %w", name, pumpErr)
	}
	return nil
}

func drainLines(r io.Reader, emit func(string)) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		emit(scanner.Text())
	}
	return scanner.Err()
}
