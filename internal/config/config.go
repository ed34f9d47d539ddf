package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/raoulx24/backup-rotator/internal/executor"
	"github.com/raoulx24/backup-rotator/internal/logging"
	"github.com/raoulx24/backup-rotator/internal/rotation"
)

type Config struct {
	Source    SourceConfig    `yaml:"source"`
	Retention RetentionConfig `yaml:"retention"`
	Logging   logging.Config  `yaml:"logging"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Tracing   TracingConfig   `yaml:"tracing"`
}

type SourceConfig struct {
	Kind    string      `yaml:"kind"`    // "dir" or "s3"
	Path    string      `yaml:"path"`    // directory for "dir"
	Pattern string      `yaml:"pattern"` // glob on the base name, e.g. "pg_*.tar"
	Format  string      `yaml:"format"`  // strftime; empty = modification time
	S3      S3Config    `yaml:"s3"`
	Watch   WatchConfig `yaml:"watch"`
}

type S3Config struct {
	Bucket          string `yaml:"bucket"`
	Prefix          string `yaml:"prefix"`
	Region          string `yaml:"region"`
	Endpoint        string `yaml:"endpoint"`
	AccessKeyID     string `yaml:"accessKeyID"`
	SecretAccessKey string `yaml:"secretAccessKey"`
	UsePathStyle    bool   `yaml:"usePathStyle"`
}

type WatchConfig struct {
	Mode            string        `yaml:"mode"`           // "auto", "poll", "fsnotify", "off"
	PollInterval    time.Duration `yaml:"pollInterval"`   // e.g. 30s
	DebounceWindow  time.Duration `yaml:"debounceWindow"` // e.g. 2s
	StabilityWindow time.Duration `yaml:"stabilityWindow"`
}

type RetentionConfig struct {
	rotation.Limits `yaml:",inline"`

	Policy   string `yaml:"policy"`   // "idempotent" or "strict"
	DryRun   bool   `yaml:"dryRun"`
	Schedule string `yaml:"schedule"` // cron, empty = no schedule
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Address string `yaml:"address"`
}

type TracingConfig struct {
	Enabled bool `yaml:"enabled"`
}

const (
	SourceDir = "dir"
	SourceS3  = "s3"
)

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Source: SourceConfig{
			Kind:    SourceDir,
			Pattern: "*",
			Watch: WatchConfig{
				Mode:            "auto",
				PollInterval:    30 * time.Second,
				DebounceWindow:  2 * time.Second,
				StabilityWindow: time.Second,
			},
		},
		Retention: RetentionConfig{
			Limits: rotation.Limits{Daily: 7, Weekly: 4, Monthly: 12},
			Policy: string(executor.Idempotent),
		},
		Logging: logging.Config{Level: "info", Format: "text"},
		Metrics: MetricsConfig{Address: ":9110"},
	}
}

// Validate reports every problem found, joined.
func (c *Config) Validate() error {
	var errs []error

	switch c.Source.Kind {
	case SourceDir:
		if c.Source.Path == "" {
			errs = append(errs, errors.New("source.path is required for kind dir"))
		}
	case SourceS3:
		if c.Source.S3.Bucket == "" {
			errs = append(errs, errors.New("source.s3.bucket is required for kind s3"))
		}
	default:
		errs = append(errs, fmt.Errorf("source.kind %q: want %q or %q", c.Source.Kind, SourceDir, SourceS3))
	}

	switch c.Source.Watch.Mode {
	case "", "off", "auto", "poll", "fsnotify":
	default:
		errs = append(errs, fmt.Errorf("source.watch.mode %q is unknown", c.Source.Watch.Mode))
	}

	l := c.Retention.Limits
	if l.Daily < 0 || l.Weekly < 0 || l.Monthly < 0 {
		errs = append(errs, fmt.Errorf("retention limits must be non-negative, got daily=%d weekly=%d monthly=%d", l.Daily, l.Weekly, l.Monthly))
	}
	if _, err := executor.ParsePolicy(c.Retention.Policy); err != nil {
		errs = append(errs, fmt.Errorf("retention.policy: %w", err))
	}
	if c.Retention.Schedule != "" {
		if _, err := cron.ParseStandard(c.Retention.Schedule); err != nil {
			errs = append(errs, fmt.Errorf("retention.schedule %q: %w", c.Retention.Schedule, err))
		}
	}

	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		errs = append(errs, fmt.Errorf("logging.level: %w", err))
	}

	return errors.Join(errs...)
}
