package commands

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/lablink/datasync/cmd/datasync/opts"
)

const csvTemplate = `#project,experiment,run,analysis,source,destination,option,owner
proj1,exp1,run1,,/data/proj1/exp1/run1,raw,copy,alice
proj1,exp1,run2,,/data/proj1/exp1/run2,raw,dryrun,alice
proj1,,,qc1,/data/proj1/qc1,results,archive,bob
proj2,,,,,incoming,permit,carol
proj2,,,,/data/proj2/staging,staging,skip,carol
`

const jsonTemplate = `{
  "tasks": [
    {
      "project": "proj1",
      "experiment": "exp1",
      "run": "run1",
      "analysis": "",
      "source": "/data/proj1/exp1/run1",
      "destination": "raw",
      "option": "copy",
      "owner": "alice"
    },
    {
      "project": "proj1",
      "analysis": "qc1",
      "source": "/data/proj1/qc1",
      "destination": "results",
      "option": "archive",
      "owner": "bob"
    }
  ]
}
`

// NewTemplateCmd creates a new template command
func NewTemplateCmd(o *opts.RootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "template <task-file>",
		Short: "Write an example task file",
		Long: `Template writes a commented example task file at the given path. The
format follows the file extension: .json produces the structured format,
anything else the CSV format. Existing files are never overwritten.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			if _, err := os.Stat(path); err == nil {
				return errors.Errorf("%s already exists, not overwriting", path)
			}

			content := csvTemplate
			if strings.EqualFold(filepath.Ext(path), ".json") {
				content = jsonTemplate
			}

			if err := os.WriteFile(path, []byte(content), 0644); err != nil {
				return errors.Errorf("writing template: %w", err)
			}

			cmd.Printf("template written to %s\n", path)
			return nil
		},
	}
}
