package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/raoulx24/backup-rotator/internal/config"
	"github.com/raoulx24/backup-rotator/internal/logging"
	"github.com/raoulx24/backup-rotator/internal/mailbox"
	"github.com/raoulx24/backup-rotator/internal/metrics"
	"github.com/raoulx24/backup-rotator/internal/retention"
	"github.com/raoulx24/backup-rotator/internal/scheduler"
	"github.com/raoulx24/backup-rotator/internal/telemetry"
	"github.com/raoulx24/backup-rotator/internal/watcher"
	"github.com/raoulx24/backup-rotator/internal/worker"
)

func newDaemonCmd(global *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "daemon",
		Short: "Watch the configured source and rotate continuously",
		Long: `Run until interrupted. A rotation runs at startup, whenever a new backup
appears in a watched directory, and on retention.schedule. SIGHUP reloads
the config file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if global.configPath == "" {
				global.configPath = "config.yaml"
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runDaemon(ctx, global)
		},
	}
}

// daemon holds the long-running components so a reload can reach them.
type daemon struct {
	path    string
	cfg     *config.Config
	log     logging.Logger
	backend *backend

	mb      *mailbox.Mailbox[worker.Job]
	engine  *retention.Engine
	worker  *worker.Worker
	watcher *watcher.Watcher
	sched   *scheduler.Scheduler
}

func runDaemon(ctx context.Context, global *globalOptions) error {
	cfg, err := global.loadConfig()
	if err != nil {
		return err
	}
	log, err := newLogger(cfg.Logging, os.Stderr)
	if err != nil {
		return err
	}

	shutdown, err := telemetry.Init(ctx, cfg.Tracing.Enabled, Version, os.Stderr)
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

	d, err := newDaemon(global.configPath, cfg, b, log, metrics.New())
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error { return d.worker.Start(ctx) })

	if d.watcher != nil {
		g.Go(func() error { return d.watcher.Start(ctx) })
	}
	if cfg.Source.Kind != config.SourceDir || cfg.Source.Watch.Mode == "off" {
		d.mb.Put(worker.NewJob(worker.TriggerStartup))
	}

	if err := d.sched.Start(ctx, cfg.Retention.Schedule); err != nil {
		return err
	}

	if cfg.Metrics.Enabled {
		srv := metrics.NewServer(cfg.Metrics.Address, prometheus.DefaultGatherer)
		log.Info("serving metrics", "address", cfg.Metrics.Address)
		g.Go(func() error { return srv.Run(ctx) })
	}

	g.Go(func() error {
		hup := make(chan os.Signal, 1)
		signal.Notify(hup, syscall.SIGHUP)
		defer signal.Stop(hup)
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-hup:
				if err := d.reload(); err != nil {
					log.Error("config reload failed", "error", err)
				}
			}
		}
	})

	log.Info("daemon started", "source", cfg.Source.Kind, "config", global.configPath)
	err = g.Wait()
	log.Info("exit complete")
	return err
}

func newDaemon(path string, cfg *config.Config, b *backend, log logging.Logger, m *metrics.RetentionMetrics) (*daemon, error) {
	exec, err := b.newExecutor(cfg.Retention.Policy, log)
	if err != nil {
		return nil, err
	}
	src, err := b.newSource(cfg.Source, nil)
	if err != nil {
		return nil, err
	}

	d := &daemon{
		path:    path,
		cfg:     cfg,
		log:     log,
		backend: b,
		mb:      mailbox.New[worker.Job](),
	}
	d.engine = retention.New(cfg.Retention, exec, log, m)
	d.worker = worker.New(src, d.engine, d.mb, log)
	if cfg.Source.Kind == config.SourceDir {
		d.watcher = watcher.New(cfg.Source, b.fs, log, d.mb)
	}
	d.sched = scheduler.New(d.mb, log)
	return d, nil
}

// reload applies a new config file to the running components. The source
// kind and S3 connection settings cannot change without a restart.
func (d *daemon) reload() error {
	next, err := config.Load(d.path)
	if err != nil {
		return err
	}
	if next.Source.Kind != d.cfg.Source.Kind {
		return fmt.Errorf("source.kind changed from %s to %s, restart required", d.cfg.Source.Kind, next.Source.Kind)
	}

	exec, err := d.backend.newExecutor(next.Retention.Policy, d.log)
	if err != nil {
		return err
	}
	src, err := d.backend.newSource(next.Source, nil)
	if err != nil {
		return err
	}
	if err := d.sched.Reschedule(next.Retention.Schedule); err != nil {
		return err
	}

	d.engine.UpdateConfig(next.Retention, exec)
	d.worker.UpdateSource(src)
	if d.watcher != nil {
		d.watcher.UpdateConfig(next.Source)
	}
	d.cfg = next

	d.mb.Put(worker.NewJob(worker.TriggerReload))
	d.log.Info("config reloaded")
	return nil
}
