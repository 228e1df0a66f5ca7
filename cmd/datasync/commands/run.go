package commands

import (
	"strconv"

	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/lablink/datasync/cmd/datasync/opts"
	"github.com/lablink/datasync/pkg/executor"
	"github.com/lablink/datasync/pkg/run"
	"github.com/lablink/datasync/pkg/source"
)

// NewRunCmd creates a new run command
func NewRunCmd(o *opts.RootOpts) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "run <task-file> [index|all]",
		Short: "Process one task or all tasks from a task file",
		Long: `Run processes synchronization tasks from a CSV or JSON task file.
It will:
1. Detect the task file format
2. Pick one task (explicit index, cluster array index, or the first) or all
3. Validate each record and skip or reject inconsistent ones
4. Build the destination path and dispatch the declared operation

A cluster array index in the environment overrides the index argument.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			index := 0
			if len(args) == 2 {
				if args[1] == "all" {
					all = true
				} else {
					n, err := strconv.Atoi(args[1])
					if err != nil {
						return errors.Errorf("task index must be an integer or \"all\", got %q", args[1])
					}
					if n < 1 {
						// An explicit index is 1-based; only a truly absent
						// argument may fall back to the first task.
						return errors.Errorf("%w: task indices start at 1, got %d", run.ErrIndexOutOfRange, n)
					}
					index = n
				}
			}

			reader, err := source.Open(ctx, args[0])
			if err != nil {
				return err
			}

			exe, err := executor.New(executor.Options{
				Root: o.Settings.Root,
				Syncer: &executor.ToolSyncer{
					Bin:      o.Settings.SyncTool,
					BaseArgs: o.Settings.SyncArgs,
				},
				Archiver: &executor.ToolArchiver{Bin: o.Settings.Archiver},
				Perms:    executor.OSPermissionSetter{},
			})
			if err != nil {
				return errors.Errorf("creating executor: %w", err)
			}

			ctrl, err := run.New(run.Options{
				Reader:   reader,
				Executor: exe,
				Settings: o.Settings,
				Printer:  o.Printer,
			})
			if err != nil {
				return errors.Errorf("creating controller: %w", err)
			}

			if _, err := ctrl.Dispatch(ctx, all, index); err != nil {
				return errors.Errorf("processing tasks: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "process every task in the file")

	return cmd
}
