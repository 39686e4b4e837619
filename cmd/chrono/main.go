package main

import (
	"fmt"
	"net/http"
	"os"
	"runtime"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/tickworks/chrono/pkg/telemetry"
)

const version = "0.1.0"

func main() {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "chrono: invalid configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "chrono: logger setup failed: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// If no arguments or "demo", launch the interactive TUI
	if len(os.Args) < 2 || os.Args[1] == "demo" {
		runDemo(cfg, logger)
		return
	}

	switch cmd := os.Args[1]; cmd {
	case "version":
		fmt.Printf("chrono v%s\n", version)
		fmt.Printf("Platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	case "help", "-h", "--help":
		usage()
	default:
		logger.Fatal("unknown command", zap.String("command", cmd))
	}
}

func runDemo(cfg *Config, logger *zap.Logger) {
	metrics := telemetry.InitMetrics(prometheus.DefaultRegisterer)

	if cfg.Metrics.Enabled {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			logger.Info("serving metrics", zap.String("addr", cfg.Metrics.Addr))
			if err := http.ListenAndServe(cfg.Metrics.Addr, mux); err != nil {
				logger.Warn("metrics server stopped", zap.Error(err))
			}
		}()
	}

	if err := startTUI(cfg, logger, metrics); err != nil {
		logger.Fatal("TUI error", zap.Error(err))
	}
}

func newLogger(cfg *Config) (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}

	zcfg := zap.NewProductionConfig()
	// The TUI owns stdout; keep log output on stderr
	zcfg.OutputPaths = []string{"stderr"}
	zcfg.Level = level
	return zcfg.Build()
}

func usage() {
	fmt.Fprintf(os.Stderr, `chrono - wall-clock and monotonic time arithmetic demo

Usage:
  chrono [demo]
      Launch the interactive demo (wall clock playground + stopwatch)

  chrono version
      Show version and platform information

  chrono help
      Show this help message

Configuration (environment):
  CHRONO_LOG_LEVEL            zap log level (default "info")
  CHRONO_TICK_INTERVAL        live clock refresh interval (default "250ms")
  CHRONO_TICK_BUFFER          tick delivery buffer size (default 16)
  CHRONO_STOPWATCH_RESOLUTION stopwatch refresh interval (default "50ms")
  CHRONO_METRICS_ENABLED      serve Prometheus metrics (default false)
  CHRONO_METRICS_ADDR         metrics listen address (default ":9184")

About:
  chrono is a time-arithmetic library for Go. The demo showcases the
  wall-clock playground (duration arithmetic with midnight wraparound
  and day-crossing detection) and a monotonic stopwatch with laps.
`)
}
