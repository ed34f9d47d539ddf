package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raoulx24/backup-rotator/internal/rotation"
)

const sample = `
source:
  kind: dir
  path: $(BACKUP_DIR)/pg
  pattern: "pg_*.tar"
  format: "pg_%Y-%m-%d_%H-%M-%S.tar"
  watch:
    mode: poll
    pollInterval: 10s
retention:
  daily: 3
  weekly: 2
  monthly: 1
  policy: strict
  schedule: "0 3 * * *"
logging:
  level: debug
  format: json
`

func TestParse(t *testing.T) {
	t.Setenv("BACKUP_DIR", "/srv/backups")

	cfg, err := Parse([]byte(sample))
	require.NoError(t, err)

	assert.Equal(t, "/srv/backups/pg", cfg.Source.Path)
	assert.Equal(t, "pg_*.tar", cfg.Source.Pattern)
	assert.Equal(t, "poll", cfg.Source.Watch.Mode)
	assert.Equal(t, 10*time.Second, cfg.Source.Watch.PollInterval)
	assert.Equal(t, 2*time.Second, cfg.Source.Watch.DebounceWindow, "defaults survive")
	assert.Equal(t, rotation.Limits{Daily: 3, Weekly: 2, Monthly: 1}, cfg.Retention.Limits)
	assert.Equal(t, "strict", cfg.Retention.Policy)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoad(t *testing.T) {
	t.Setenv("BACKUP_DIR", "/data")
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/data/pg", cfg.Source.Path)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestExpandUnsetVarIsEmpty(t *testing.T) {
	assert.Equal(t, "a//b", expandEnvVars("a/$(BACKUP_ROTATOR_SURELY_UNSET)/b"))
}

func TestMapEnvKey(t *testing.T) {
	if runtime.GOOS == "windows" {
		assert.Equal(t, "COMPUTERNAME", mapEnvKey("HOSTNAME"))
	} else {
		assert.Equal(t, "HOSTNAME", mapEnvKey("HOSTNAME"))
	}
	assert.Equal(t, "PGDATA", mapEnvKey("PGDATA"))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"ok", func(c *Config) {}, ""},
		{"missing path", func(c *Config) { c.Source.Path = "" }, "source.path"},
		{"bad kind", func(c *Config) { c.Source.Kind = "ftp" }, "source.kind"},
		{"s3 without bucket", func(c *Config) { c.Source.Kind = SourceS3 }, "source.s3.bucket"},
		{"negative limit", func(c *Config) { c.Retention.Weekly = -1 }, "non-negative"},
		{"bad policy", func(c *Config) { c.Retention.Policy = "maybe" }, "retention.policy"},
		{"bad schedule", func(c *Config) { c.Retention.Schedule = "every day" }, "retention.schedule"},
		{"bad watch mode", func(c *Config) { c.Source.Watch.Mode = "inotify" }, "watch.mode"},
		{"bad log level", func(c *Config) { c.Logging.Level = "chatty" }, "logging.level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			c.Source.Path = "/backups"
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParseRejectsInvalid(t *testing.T) {
	_, err := Parse([]byte("source:\n  kind: dir\n"))
	assert.ErrorContains(t, err, "source.path")

	_, err = Parse([]byte("source: [\n"))
	assert.ErrorContains(t, err, "unmarshalling yaml")
}
