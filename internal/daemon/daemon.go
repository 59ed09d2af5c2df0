// Package daemon runs continuous builds: a periodic rebuild schedule,
// configuration hot-reload, optional git synchronization of the source
// checkout, and build event publishing.
package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/docsmith/docsmith/internal/config"
	siteerrors "github.com/docsmith/docsmith/internal/errors"
	"github.com/docsmith/docsmith/internal/gitsync"
	"github.com/docsmith/docsmith/internal/logfields"
	"github.com/docsmith/docsmith/internal/metrics"
	"github.com/docsmith/docsmith/internal/site"
	"github.com/docsmith/docsmith/internal/state"
)

// DefaultRebuildInterval applies when the daemon section gives none.
const DefaultRebuildInterval = 5 * time.Minute

// BuildFunc performs one site build. Replaceable in tests.
type BuildFunc func(ctx context.Context, cfg *config.Config) (*site.Report, error)

// Daemon owns the continuous-build loop.
type Daemon struct {
	configPath string
	recorder   metrics.Recorder

	mu       sync.RWMutex
	cfg      *config.Config
	interval time.Duration

	scheduler gocron.Scheduler
	jobID     string
	store     *state.Store
	publisher *Publisher
	syncer    *gitsync.Client
	watcher   *configWatcher
	build     BuildFunc
}

// New loads the configuration and prepares a daemon. The configuration
// must carry a daemon section.
func New(configPath string, recorder metrics.Recorder) (*Daemon, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if cfg.Daemon == nil {
		return nil, siteerrors.DaemonError("configuration has no daemon section")
	}
	cfg.ResolvePaths(filepath.Dir(configPath))

	interval, err := rebuildInterval(cfg.Daemon)
	if err != nil {
		return nil, err
	}

	stateDir := cfg.Daemon.StateDir
	if stateDir == "" {
		stateDir = config.DefaultStateDir
	}
	if !filepath.IsAbs(stateDir) {
		stateDir = filepath.Join(filepath.Dir(configPath), stateDir)
	}
	store, err := state.OpenDir(stateDir)
	if err != nil {
		return nil, err
	}

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		store.Close()
		return nil, siteerrors.DaemonError(fmt.Sprintf("create scheduler: %v", err))
	}

	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}

	d := &Daemon{
		configPath: configPath,
		recorder:   recorder,
		cfg:        cfg,
		interval:   interval,
		scheduler:  scheduler,
		store:      store,
	}
	d.build = d.runSiteBuild

	if ev := cfg.Daemon.Events; ev != nil && ev.Enabled {
		publisher, err := NewPublisher(ev.NATSURL, ev.Subject)
		if err != nil {
			store.Close()
			return nil, siteerrors.DaemonError(fmt.Sprintf("connect event broker: %v", err))
		}
		d.publisher = publisher
	}

	if cfg.Daemon.GitSync {
		root := filepath.Dir(configPath)
		d.syncer = gitsync.NewClient(root, cfg.RepoURL, cfg.Daemon.GitBranch)
	}

	return d, nil
}

// Start schedules periodic builds and begins watching the configuration
// file. The first build runs immediately.
func (d *Daemon) Start(ctx context.Context) error {
	job, err := d.scheduler.NewJob(
		gocron.DurationJob(d.interval),
		gocron.NewTask(d.runBuild, ctx),
		gocron.WithName("periodic-rebuild"),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		return siteerrors.DaemonError(fmt.Sprintf("schedule rebuild: %v", err))
	}
	d.jobID = job.ID().String()

	watcher, err := newConfigWatcher(d.configPath, d.reloadConfig)
	if err != nil {
		return err
	}
	d.watcher = watcher
	watcher.start(ctx)

	d.scheduler.Start()
	slog.Info("Daemon started",
		slog.Duration("rebuild_interval", d.interval),
		logfields.Path(d.configPath))
	return nil
}

// Stop shuts down the schedule, the watcher, and all connections. The
// scheduler drain waits for running builds; ctx bounds that wait.
func (d *Daemon) Stop(ctx context.Context) error {
	slog.Info("Stopping daemon")
	if d.watcher != nil {
		d.watcher.stop()
	}
	drained := make(chan error, 1)
	go func() { drained <- d.scheduler.Shutdown() }()

	var err error
	select {
	case err = <-drained:
	case <-ctx.Done():
		slog.Warn("Scheduler drain timed out", logfields.Error(ctx.Err()))
		err = ctx.Err()
	}
	if d.publisher != nil {
		d.publisher.Close()
	}
	if cerr := d.store.Close(); err == nil {
		err = cerr
	}
	return err
}

// runBuild performs one build cycle: optional git sync, then a site build,
// then event publishing.
func (d *Daemon) runBuild(ctx context.Context) {
	d.mu.RLock()
	cfg := d.cfg
	d.mu.RUnlock()

	var commit string
	if d.syncer != nil {
		if _, err := d.syncer.Sync(ctx); err != nil {
			slog.Error("Git sync failed, building existing checkout", logfields.Error(err))
		}
		commit = d.syncer.Head()
	}

	start := time.Now()
	report, err := d.build(ctx, cfg)
	if err != nil {
		slog.Error("Scheduled build failed", logfields.Error(err))
		d.publish(BuildEvent{
			Type:       EventBuildFailed,
			Timestamp:  time.Now().UTC(),
			DurationMS: time.Since(start).Milliseconds(),
			Commit:     commit,
			Error:      err.Error(),
		})
		return
	}

	slog.Info("Scheduled build finished",
		logfields.BuildID(report.BuildID),
		slog.Int("pages_rendered", report.PagesRendered),
		slog.Int("pages_skipped", report.PagesSkipped),
		logfields.DurationMS(float64(report.Duration.Milliseconds())))
	d.publish(BuildEvent{
		BuildID:       report.BuildID,
		Type:          EventBuildFinished,
		Timestamp:     time.Now().UTC(),
		PagesRendered: report.PagesRendered,
		PagesSkipped:  report.PagesSkipped,
		DurationMS:    report.Duration.Milliseconds(),
		Commit:        commit,
	})
}

func (d *Daemon) runSiteBuild(ctx context.Context, cfg *config.Config) (*site.Report, error) {
	builder := site.NewBuilder(cfg, site.Options{
		Store:    d.store,
		Recorder: d.recorder,
	})
	return builder.Build(ctx)
}

func (d *Daemon) publish(event BuildEvent) {
	if d.publisher == nil {
		return
	}
	if err := d.publisher.Publish(event); err != nil {
		slog.Warn("Event publish failed", logfields.Error(err))
	}
}

// reloadConfig re-reads the configuration file. A broken file keeps the
// previous configuration in effect.
func (d *Daemon) reloadConfig() {
	cfg, err := config.Load(d.configPath)
	if err != nil {
		slog.Error("Configuration reload failed, keeping previous configuration",
			logfields.Path(d.configPath), logfields.Error(err))
		return
	}
	if cfg.Daemon == nil {
		slog.Error("Reloaded configuration has no daemon section, keeping previous configuration")
		return
	}
	cfg.ResolvePaths(filepath.Dir(d.configPath))

	interval, err := rebuildInterval(cfg.Daemon)
	if err != nil {
		slog.Error("Invalid rebuild interval, keeping previous configuration", logfields.Error(err))
		return
	}

	d.mu.Lock()
	rescheduled := interval != d.interval
	d.cfg = cfg
	d.interval = interval
	d.mu.Unlock()

	if rescheduled && d.jobID != "" {
		if err := d.reschedule(interval); err != nil {
			slog.Error("Reschedule failed", logfields.Error(err))
		}
	}
	slog.Info("Configuration reloaded",
		logfields.Path(d.configPath),
		slog.Duration("rebuild_interval", interval))
}

func (d *Daemon) reschedule(interval time.Duration) error {
	for _, job := range d.scheduler.Jobs() {
		if job.ID().String() != d.jobID {
			continue
		}
		updated, err := d.scheduler.Update(
			job.ID(),
			gocron.DurationJob(interval),
			gocron.NewTask(d.runBuild, context.Background()),
			gocron.WithName("periodic-rebuild"),
		)
		if err != nil {
			return err
		}
		d.jobID = updated.ID().String()
		return nil
	}
	return nil
}

func rebuildInterval(dc *config.DaemonConfig) (time.Duration, error) {
	if dc.RebuildInterval == "" {
		return DefaultRebuildInterval, nil
	}
	interval, err := time.ParseDuration(dc.RebuildInterval)
	if err != nil {
		return 0, siteerrors.DaemonError(fmt.Sprintf("invalid rebuild_interval %q: %v", dc.RebuildInterval, err))
	}
	if interval <= 0 {
		return 0, siteerrors.DaemonError(fmt.Sprintf("rebuild_interval must be positive, got %q", dc.RebuildInterval))
	}
	return interval, nil
}
