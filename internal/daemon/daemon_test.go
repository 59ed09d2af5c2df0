package daemon

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docsmith/docsmith/internal/config"
	"github.com/docsmith/docsmith/internal/site"
)

func writeDaemonConfig(t *testing.T, interval string) string {
	t.Helper()
	dir := t.TempDir()
	stateDir := filepath.Join(dir, "state")
	body := fmt.Sprintf(`site_name: Daemon Test
docs_dir: docs
site_dir: site
nav:
  - Home: index.md
daemon:
  rebuild_interval: %s
  state_dir: %s
`, interval, stateDir)
	path := filepath.Join(dir, "mkdocs.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestNewRequiresDaemonSection(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mkdocs.yml")
	require.NoError(t, os.WriteFile(path, []byte("site_name: No Daemon\n"), 0o644))

	_, err := New(path, nil)
	assert.Error(t, err)
}

func TestNewOpensStateStore(t *testing.T) {
	path := writeDaemonConfig(t, "1m")

	d, err := New(path, nil)
	require.NoError(t, err)
	defer func() { _ = d.Stop(context.Background()) }()

	assert.Equal(t, time.Minute, d.interval)
	assert.NotNil(t, d.store)
	assert.FileExists(t, filepath.Join(filepath.Dir(path), "state", "state.db"))
}

func TestRunBuildInvokesBuilder(t *testing.T) {
	path := writeDaemonConfig(t, "1m")

	d, err := New(path, nil)
	require.NoError(t, err)
	defer func() { _ = d.Stop(context.Background()) }()

	var calls atomic.Int32
	d.build = func(_ context.Context, cfg *config.Config) (*site.Report, error) {
		calls.Add(1)
		assert.Equal(t, "Daemon Test", cfg.SiteName)
		return &site.Report{BuildID: "test", PagesRendered: 1}, nil
	}

	d.runBuild(context.Background())
	assert.Equal(t, int32(1), calls.Load())
}

func TestRunBuildSurvivesFailure(t *testing.T) {
	path := writeDaemonConfig(t, "1m")

	d, err := New(path, nil)
	require.NoError(t, err)
	defer func() { _ = d.Stop(context.Background()) }()

	d.build = func(context.Context, *config.Config) (*site.Report, error) {
		return nil, assert.AnError
	}

	// Must not panic or abort the daemon.
	d.runBuild(context.Background())
}

func TestReloadConfigSwapsConfiguration(t *testing.T) {
	path := writeDaemonConfig(t, "1m")

	d, err := New(path, nil)
	require.NoError(t, err)
	defer func() { _ = d.Stop(context.Background()) }()

	updated := `site_name: Renamed
nav:
  - Home: index.md
daemon:
  rebuild_interval: 1m
`
	require.NoError(t, os.WriteFile(path, []byte(updated), 0o644))
	d.reloadConfig()

	d.mu.RLock()
	defer d.mu.RUnlock()
	assert.Equal(t, "Renamed", d.cfg.SiteName)
}

func TestReloadConfigKeepsPreviousOnParseError(t *testing.T) {
	path := writeDaemonConfig(t, "1m")

	d, err := New(path, nil)
	require.NoError(t, err)
	defer func() { _ = d.Stop(context.Background()) }()

	require.NoError(t, os.WriteFile(path, []byte("site_name: [broken\n"), 0o644))
	d.reloadConfig()

	d.mu.RLock()
	defer d.mu.RUnlock()
	assert.Equal(t, "Daemon Test", d.cfg.SiteName)
}

func TestStartSchedulesPeriodicBuilds(t *testing.T) {
	path := writeDaemonConfig(t, "50ms")

	d, err := New(path, nil)
	require.NoError(t, err)

	var calls atomic.Int32
	d.build = func(context.Context, *config.Config) (*site.Report, error) {
		calls.Add(1)
		return &site.Report{}, nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, d.Start(ctx))

	assert.Eventually(t, func() bool { return calls.Load() >= 2 }, 3*time.Second, 20*time.Millisecond)
	require.NoError(t, d.Stop(context.Background()))
}

func TestStopBoundsSchedulerDrain(t *testing.T) {
	path := writeDaemonConfig(t, "20ms")

	d, err := New(path, nil)
	require.NoError(t, err)

	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	d.build = func(context.Context, *config.Config) (*site.Report, error) {
		once.Do(func() { close(started) })
		<-release
		return &site.Report{}, nil
	}
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, d.Start(ctx))
	<-started

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer stopCancel()
	err = d.Stop(stopCtx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRebuildInterval(t *testing.T) {
	tests := []struct {
		name     string
		interval string
		want     time.Duration
		wantErr  bool
	}{
		{"default when empty", "", DefaultRebuildInterval, false},
		{"explicit", "30s", 30 * time.Second, false},
		{"invalid", "soon", 0, true},
		{"negative", "-1m", 0, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := rebuildInterval(&config.DaemonConfig{RebuildInterval: tc.interval})
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}
