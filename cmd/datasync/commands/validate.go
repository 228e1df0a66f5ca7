package commands

import (
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/lablink/datasync/cmd/datasync/opts"
	"github.com/lablink/datasync/pkg/run"
	"github.com/lablink/datasync/pkg/source"
)

// NewValidateCmd creates a new validate command
func NewValidateCmd(o *opts.RootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <task-file>",
		Short: "Validate every record of a task file without executing anything",
		Long: `Validate runs the record rules over the whole task file and prints a
status line per record. Warnings and skipped records leave the exit code at
zero; the command fails only when at least one record is rejected as
malformed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			reader, err := source.Open(ctx, args[0])
			if err != nil {
				return err
			}

			ctrl, err := run.New(run.Options{
				Reader:   reader,
				Settings: o.Settings,
				Printer:  o.Printer,
			})
			if err != nil {
				return errors.Errorf("creating controller: %w", err)
			}

			report, err := ctrl.ValidateAll(ctx)
			if err != nil {
				return errors.Errorf("validating task file: %w", err)
			}
			if report.Rejected > 0 {
				return errors.Errorf("%d malformed record(s) in %s", report.Rejected, args[0])
			}
			return nil
		},
	}
}
