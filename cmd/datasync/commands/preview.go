package commands

import (
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/lablink/datasync/cmd/datasync/opts"
	"github.com/lablink/datasync/pkg/run"
	"github.com/lablink/datasync/pkg/source"
)

// NewPreviewCmd creates a new preview command
func NewPreviewCmd(o *opts.RootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "preview <task-file>",
		Short: "Print the destination structure each record would create",
		Args:  cobra.ExactArgs(1),
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

			return ctrl.PreviewAll(ctx, cmd.OutOrStdout())
		},
	}
}
