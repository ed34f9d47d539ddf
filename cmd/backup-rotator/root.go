package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/raoulx24/backup-rotator/internal/config"
	"github.com/raoulx24/backup-rotator/internal/logging"
)

type globalOptions struct {
	configPath string
	logLevel   string
	logFormat  string
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:   "backup-rotator",
		Short: "Daily, weekly and monthly backup rotation",
		Long: `backup-rotator keeps the most recent daily, weekly and monthly backups
out of a directory, an explicit file list or an S3 prefix, and deletes the rest.

Backups are classified oldest first. The first backup of a calendar month is
monthly, a backup more than six days after the last weekly (or monthly) is
weekly, and the first backup of any other day is daily.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "config file path")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&opts.logFormat, "log-format", "", "log format (text, json)")

	cmd.AddCommand(newRotateCmd(opts))
	cmd.AddCommand(newDaemonCmd(opts))
	cmd.AddCommand(newVersionCmd())
	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// loadConfig reads the config file, or returns defaults without one.
// Logging flags override the file.
func (o *globalOptions) loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if o.configPath != "" {
		loaded, err := config.Load(o.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
	}
	if o.logFormat != "" {
		cfg.Logging.Format = o.logFormat
	}
	return cfg, nil
}

func newLogger(cfg logging.Config, w io.Writer) (logging.Logger, error) {
	l, err := logging.New(cfg, w)
	if err != nil {
		return nil, fmt.Errorf("logging: %w", err)
	}
	return l, nil
}
