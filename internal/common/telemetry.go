package common

import (
	"fmt"
	"net"
	"net/http"
	"net/http/pprof"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	LinesIngestedTotal   prometheus.Counter
	UnknownCodesTotal    prometheus.Counter
	LineStops            *prometheus.GaugeVec
	StageDurationSeconds *prometheus.HistogramVec
	PriceLookupsTotal    *prometheus.CounterVec
}

func NewMetrics(registry *prometheus.Registry) *Metrics {
	metrics := &Metrics{
		LinesIngestedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "fare_lines_ingested_total",
				Help: "Line records merged into the fare database",
			},
		),
		UnknownCodesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "fare_unknown_codes_total",
				Help: "Distinct fare codes per import that are missing from the fare table and were priced at zero",
			},
		),
		LineStops: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "fare_line_stops",
				Help: "Number of stops of the last imported version of a line",
			},
			[]string{"line"},
		),
		StageDurationSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fare_stage_duration_seconds",
				Help:    "Time spent in each import stage",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"stage"},
		),
		PriceLookupsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fare_price_lookups_total",
				Help: "Price lookups served, by outcome",
			},
			[]string{"result"},
		),
	}

	registry.MustRegister(
		metrics.LinesIngestedTotal,
		metrics.UnknownCodesTotal,
		metrics.LineStops,
		metrics.StageDurationSeconds,
		metrics.PriceLookupsTotal,
	)

	return metrics
}

// Stage returns the duration observer for one import stage.
func (metrics *Metrics) Stage(stage string) prometheus.Observer {
	return metrics.StageDurationSeconds.WithLabelValues(stage)
}

// WriteTextfile dumps the registry in the node-exporter textfile format.
func WriteTextfile(path string, registry *prometheus.Registry) error {
	return prometheus.WriteToTextfile(path, registry)
}

type TelemetryServer struct {
	addr     string
	mux      *http.ServeMux
	registry *prometheus.Registry

	server   *http.Server
	listener net.Listener
}

func NewTelemetryServer(addr string) *TelemetryServer {
	telemetry := &TelemetryServer{
		addr:     addr,
		registry: prometheus.NewRegistry(),
		mux:      http.NewServeMux(),
	}

	telemetry.mux.Handle(
		"/metrics",
		promhttp.HandlerFor(telemetry.registry, promhttp.HandlerOpts{}),
	)

	buildInfo := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "fare_build_info",
			Help: "Build metadata",
		},
		[]string{"version", "git_commit"},
	)

	telemetry.registry.MustRegister(
		collectors.NewGoCollector(), // Go runtime metrics
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		buildInfo,
	)

	buildInfo.WithLabelValues(Version, GitCommit).Set(1)

	telemetry.mux.HandleFunc("/debug/pprof/", pprof.Index)
	telemetry.mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	telemetry.mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	telemetry.mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	telemetry.mux.HandleFunc("/debug/pprof/trace", pprof.Trace)

	return telemetry
}

func (telemetry *TelemetryServer) GetRegistry() *prometheus.Registry {
	return telemetry.registry
}

func (telemetry *TelemetryServer) Handler() http.Handler {
	return telemetry.mux
}

func (telemetry *TelemetryServer) Start() error {
	telemetry.server = &http.Server{
		Addr:              telemetry.addr,
		Handler:           telemetry.mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	listener, err := net.Listen("tcp", telemetry.addr)
	if err != nil {
		return err
	}

	telemetry.listener = listener

	go telemetry.server.Serve(telemetry.listener)

	fmt.Printf("Telemetry server started: %s\n", telemetry.addr)
	return nil
}

func (telemetry *TelemetryServer) Stop() error {
	if telemetry.server == nil {
		return nil
	}

	return telemetry.server.Close()
}
