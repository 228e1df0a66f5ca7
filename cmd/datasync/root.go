package main

import (
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/lablink/datasync/cmd/datasync/commands"
	"github.com/lablink/datasync/cmd/datasync/opts"
	"github.com/lablink/datasync/pkg/settings"
	"github.com/lablink/datasync/pkg/status"
)

var (
	// Flags
	configFile string
	rootDir    string
	logFile    string
	debug      bool
)

// newRootCmd builds the datasync root command with all subcommands attached.
func newRootCmd() *cobra.Command {
	rootOpts := &opts.RootOpts{}

	cmd := &cobra.Command{
		Use:   "datasync",
		Short: "Dispatch declarative synchronization tasks to file operations",
		Long: `datasync reads synchronization task records from a CSV or JSON task file
and dispatches each one to a file operation (dry-run, copy, move, archive,
permission-set or skip), building destination paths from the task's
project/experiment/run/analysis hierarchy.

It processes a single task (by explicit index or a cluster-provided array
index), or every task in sequence.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			setupLogging("")
			ctx := zerolog.DefaultContextLogger.WithContext(cmd.Context())
			cmd.SetContext(ctx)

			s, err := settings.Load(ctx, configFile)
			if err != nil {
				return errors.Errorf("loading settings: %w", err)
			}

			if rootDir != "" {
				s.Root = rootDir
			}
			if s.Root != "" {
				abs, err := filepath.Abs(s.Root)
				if err != nil {
					return errors.Errorf("resolving destination root: %w", err)
				}
				s.Root = abs
			}

			if logFile != "" {
				s.LogFile = logFile
			}
			if s.LogFile != "" {
				setupLogging(s.LogFile)
				cmd.SetContext(zerolog.DefaultContextLogger.WithContext(cmd.Context()))
			}

			rootOpts.Settings = s
			rootOpts.Printer = status.NewPrinter(cmd.OutOrStdout())
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&configFile, "config", "c", ".datasync.yaml", "settings file path")
	cmd.PersistentFlags().StringVarP(&rootDir, "root", "r", "", "override destination root directory")
	cmd.PersistentFlags().StringVar(&logFile, "log-file", "", "duplicate structured logs to a rotating file")
	cmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug logging")

	cmd.AddCommand(
		commands.NewRunCmd(rootOpts),
		commands.NewValidateCmd(rootOpts),
		commands.NewPreviewCmd(rootOpts),
		commands.NewTemplateCmd(rootOpts),
	)

	return cmd
}

// setupLogging configures zerolog based on flags; a non-empty fileSink
// duplicates output to a rotating log file.
func setupLogging(fileSink string) {
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	var sink io.Writer = zerolog.ConsoleWriter{Out: os.Stderr}
	if fileSink != "" {
		sink = zerolog.MultiLevelWriter(sink, &lumberjack.Logger{
			Filename:   fileSink,
			MaxSize:    20, // megabytes
			MaxBackups: 5,
		})
	}

	log := zerolog.New(sink).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &log
}
