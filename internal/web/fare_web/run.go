package fare_web

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"tarediiran-industries.com/fare-services/internal/common"
)

func Run(cfg Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry := prometheus.NewRegistry()
	if cfg.Settings.Web.TelemetryAddress != "" {
		telemetry := common.NewTelemetryServer(cfg.Settings.Web.TelemetryAddress)
		if err := telemetry.Start(); err != nil {
			return err
		}
		defer telemetry.Stop()
		registry = telemetry.GetRegistry()
	}

	server, err := NewFareWebServer(cfg.Settings.Web.ListenAddress, cfg.Settings.Output.DatabasePath, common.NewMetrics(registry))
	if err != nil {
		return err
	}

	return server.Serve(ctx)
}
