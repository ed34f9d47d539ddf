package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/raoulx24/backup-rotator/internal/executor"
	"github.com/raoulx24/backup-rotator/internal/plan"
	"github.com/raoulx24/backup-rotator/internal/retention"
	"github.com/raoulx24/backup-rotator/internal/telemetry"
)

type rotateOptions struct {
	format  string
	daily   int
	weekly  int
	monthly int
	policy  string
	dryRun  bool
}

func newRotateCmd(global *globalOptions) *cobra.Command {
	opts := &rotateOptions{}

	cmd := &cobra.Command{
		Use:   "rotate [FILES...]",
		Short: "Rotate backups once and exit",
		Long: `Rotate the given files, or the source from --config when no files are
given. Timestamps come from the file names when --format is set
(strftime, e.g. 'pg_%Y-%m-%d_%H-%M-%S.tar'), otherwise from modification
times.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRotate(cmd, global, opts, args)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.format, "format", "", "strftime format of the backup file names")
	f.IntVar(&opts.daily, "daily", 7, "daily backups to keep")
	f.IntVar(&opts.weekly, "weekly", 4, "weekly backups to keep")
	f.IntVar(&opts.monthly, "monthly", 12, "monthly backups to keep")
	f.StringVar(&opts.policy, "policy", "", "removal policy (idempotent, strict)")
	f.BoolVar(&opts.dryRun, "dry-run", false, "only print what would be removed")
	return cmd
}

func runRotate(cmd *cobra.Command, global *globalOptions, opts *rotateOptions, files []string) error {
	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()

	if len(files) == 0 && global.configPath == "" {
		fmt.Fprintln(out, "no backups given: pass files or --config")
		return nil
	}

	cfg, err := global.loadConfig()
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("format") {
		cfg.Source.Format = opts.format
	}
	if flags.Changed("daily") {
		cfg.Retention.Daily = opts.daily
	}
	if flags.Changed("weekly") {
		cfg.Retention.Weekly = opts.weekly
	}
	if flags.Changed("monthly") {
		cfg.Retention.Monthly = opts.monthly
	}
	if flags.Changed("policy") {
		cfg.Retention.Policy = opts.policy
	}
	if flags.Changed("dry-run") {
		cfg.Retention.DryRun = opts.dryRun
	}

	log, err := newLogger(cfg.Logging, errOut)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	shutdown, err := telemetry.Init(ctx, cfg.Tracing.Enabled, Version, errOut)
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdown(sctx)
	}()

	b, err := openBackend(ctx, cfg.Source)
	if err != nil {
		return err
	}
	defer b.Close()

	exec, err := b.newExecutor(cfg.Retention.Policy, log)
	if err != nil {
		return err
	}
	src, err := b.newSource(cfg.Source, files)
	if err != nil {
		return err
	}

	items, err := src.Artifacts(ctx)
	if err != nil {
		return err
	}

	green := color.New(color.FgGreen).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()

	engine := retention.New(cfg.Retention, exec, log, nil)
	engine.OnAction = func(a plan.Action, err error) {
		if err == nil {
			fmt.Fprintf(out, "%s %s\n", green(a.Kind.String()), a.Artifact.Path)
		}
	}

	rep, err := engine.Apply(ctx, items)
	if rep.DryRun {
		for _, a := range rep.Removed {
			fmt.Fprintf(out, "%s %s %s\n", yellow("would"), a.Kind.String(), a.Artifact.Path)
		}
	}
	if err != nil {
		var ae *executor.ActionError
		if errors.As(err, &ae) {
			fmt.Fprintf(errOut, "%s %s: %v\n", red("failed"), ae.Action, ae.Err)
			return fmt.Errorf("rotation aborted after %d removals", len(rep.Removed))
		}
		return err
	}

	fmt.Fprintf(out, "kept %d of %d (daily %d, weekly %d, monthly %d)\n",
		rep.Retained.Len(), rep.Total,
		len(rep.Retained.Daily), len(rep.Retained.Weekly), len(rep.Retained.Monthly))
	return nil
}
