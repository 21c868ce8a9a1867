package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/aouyang1/go-linfit/internal/config"
	"github.com/aouyang1/go-linfit/internal/logger"
	"github.com/aouyang1/go-linfit/internal/metrics"
	"github.com/pkg/profile"
)

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 5 * time.Second
)

const usage = `Usage: linfit [flags] <command>

Commands:
  study        fit grade vs study hours and predict grades (default)
  sleep        fit daily energy vs sleep hours and predict energy
  experiment   sweep sample sizes of synthetic study data
  compare      compare the example table against random data
  interactive  edit points and refit the line after every change, optionally
               on another scenario: interactive [study|sleep]
  models       list stored models

Flags:
`

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("linfit", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "YAML configuration file, defaults to $"+config.EnvConfigPath)
	profileDir := fs.String("profile", "", "write a CPU profile into this directory")
	metricsAddr := fs.String("metrics-addr", "", "serve Prometheus metrics on this address, e.g. :9090")
	fs.Usage = func() {
		fmt.Fprint(fs.Output(), usage)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	cmd := cmdStudy
	var cmdArgs []string
	if fs.NArg() > 0 {
		cmd = fs.Arg(0)
		cmdArgs = fs.Args()[1:]
	}

	if err := logger.InitWithWriter(stderr); err != nil {
		fmt.Fprintf(stderr, "failed to initialize logging: %v\n", err)
		return 1
	}
	log := logger.Get()
	ctx := context.Background()

	cfg, err := config.Load(ctx, *configPath)
	if err != nil {
		fmt.Fprintf(stderr, "failed to load config: %v\n", err)
		return 1
	}
	if *metricsAddr != "" {
		cfg.MetricsAddr = *metricsAddr
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level, falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	if *profileDir != "" {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(*profileDir), profile.Quiet).Stop()
	}

	mgr := metrics.NewManager()
	if cfg.MetricsAddr != "" {
		srv := startMetricsServer(ctx, cfg.MetricsAddr, mgr, log)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Error(ctx, "metrics server shutdown failed", logger.Error(err))
			}
		}()
	}

	a, err := newApp(cfg, stdin, stdout,
		withLogger(log.Named("cli")),
		withMetrics(mgr),
	)
	if err != nil {
		fmt.Fprintf(stderr, "failed to initialize: %v\n", err)
		return 1
	}

	if err := a.run(ctx, cmd, cmdArgs); err != nil {
		if errors.Is(err, errUnknownCommand) {
			fmt.Fprintf(stderr, "%v\n\n", err)
			fs.Usage()
			return 2
		}
		log.Error(ctx, "command failed", logger.String("command", cmd), logger.Error(err))
		return 1
	}
	return 0
}

func startMetricsServer(ctx context.Context, addr string, mgr *metrics.Manager, log logger.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", mgr.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: readHeaderTimeout,
	}
	go func() {
		log.Info(ctx, "serving metrics", logger.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(ctx, "metrics server failed", logger.Error(err))
		}
	}()
	return srv
}
