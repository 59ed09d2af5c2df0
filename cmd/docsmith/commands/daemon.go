package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/docsmith/docsmith/internal/daemon"
	"github.com/docsmith/docsmith/internal/metrics"
)

// DaemonCmd implements the 'daemon' command.
type DaemonCmd struct{}

func (d *DaemonCmd) Run(_ *Global, root *CLI) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	recorder := metrics.NewPrometheusRecorder(prometheus.NewRegistry())
	dmn, err := daemon.New(root.Config, recorder)
	if err != nil {
		return fmt.Errorf("create daemon: %w", err)
	}

	if err := dmn.Start(ctx); err != nil {
		return err
	}
	slog.Info("Daemon running, waiting for shutdown signal")
	<-ctx.Done()

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer stopCancel()
	if err := dmn.Stop(stopCtx); err != nil {
		return fmt.Errorf("stop daemon: %w", err)
	}
	slog.Info("Daemon stopped")
	return nil
}
