// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Command ddpoa-engine runs the DDPoA consensus engine as a long-lived
// daemon: it dials the host runtime, reads on-chain settings, starts the
// peer overlay, and drives the engine's event loop until signaled to stop.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	luxlog "github.com/luxfi/log"

	"github.com/SINTEF-SE/Sawtooth-DDPOA/config"
	"github.com/SINTEF-SE/Sawtooth-DDPOA/engine"
	"github.com/SINTEF-SE/Sawtooth-DDPOA/hostdriver"
	"github.com/SINTEF-SE/Sawtooth-DDPOA/metrics"
	"github.com/SINTEF-SE/Sawtooth-DDPOA/overlay"
)

// version is overridden at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		connect     string
		component   string
		peerID      string
		peerAddr    string
		metricsOn   bool
		metricsAddr string
		verbosity   int
		showVersion bool
	)

	cmd := &cobra.Command{
		Use:          "ddpoa-engine",
		Short:        "DDPoA leader-rotating proof-of-authority consensus engine",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if showVersion {
				fmt.Println(version)
				return nil
			}
			if peerID == "" {
				return fmt.Errorf("--peer-id is required")
			}
			return run(runOpts{
				connect:     connect,
				component:   component,
				peerID:      peerID,
				peerAddr:    peerAddr,
				metricsOn:   metricsOn,
				metricsAddr: metricsAddr,
				verbosity:   verbosity,
			})
		},
	}

	cmd.Flags().StringVarP(&connect, "connect", "C", "tcp://localhost:5050", "host validator endpoint")
	cmd.Flags().StringVar(&component, "component", "tcp://localhost:4004", "host component endpoint")
	cmd.Flags().StringVar(&peerID, "peer-id", "", "this node's hex member key (required)")
	cmd.Flags().StringVar(&peerAddr, "peer-listen", fmt.Sprintf(":%d", config.PeerRPCPort), "address the peer overlay RPC service binds")
	cmd.Flags().BoolVar(&metricsOn, "metrics", true, "expose prometheus metrics")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", ":9090", "prometheus metrics listen address")
	cmd.Flags().CountVarP(&verbosity, "verbose", "v", "increase log verbosity (repeatable)")
	cmd.Flags().BoolVarP(&showVersion, "version", "V", false, "print version and exit")

	return cmd
}

type runOpts struct {
	connect     string
	component   string
	peerID      string
	peerAddr    string
	metricsOn   bool
	metricsAddr string
	verbosity   int
}

func run(opts runOpts) error {
	logger := luxlog.NewLogger("ddpoa-engine")
	logger.SetLevel(verbosityToLevel(opts.verbosity))

	logger.Info("connecting to host runtime", zap.String("connect", opts.connect), zap.String("component", opts.component))
	service, err := hostdriver.New(opts.connect, opts.peerID, logger)
	if err != nil {
		logger.Error("failed to connect to host runtime", zap.Error(err))
		return err
	}
	defer service.Close()

	m, err := setupMetrics(opts)
	if err != nil {
		logger.Error("failed to set up metrics", zap.Error(err))
		return err
	}

	comm := overlay.NewCommunicator(opts.peerID, logger)
	go func() {
		if err := comm.Serve(opts.peerAddr); err != nil {
			logger.Error("peer overlay RPC server exited", zap.Error(err))
		}
	}()
	defer comm.Stop()

	e := engine.New(opts.peerID, service, logger, m)
	if err := e.Start(comm, nil); err != nil {
		logger.Error("failed to start engine", zap.Error(err))
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	go func() {
		<-ctx.Done()
		logger.Info("shutdown signal received")
		e.Stop()
	}()

	e.Run(ctx)
	logger.Info("engine stopped")
	return nil
}

func setupMetrics(opts runOpts) (metrics.Metrics, error) {
	if !opts.metricsOn {
		return metrics.NoOp(), nil
	}
	registry := prometheus.NewRegistry()
	m, err := metrics.New("ddpoa", registry)
	if err != nil {
		return nil, err
	}
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
		_ = http.ListenAndServe(opts.metricsAddr, mux)
	}()
	return m, nil
}

// verbosityToLevel maps repeated -v flags onto slog levels, least verbose
// first: 0 => info, 1 => debug, 2+ => trace-equivalent (slog has no Trace
// level, so this bottoms out at Debug-4).
func verbosityToLevel(v int) slog.Level {
	switch {
	case v <= 0:
		return slog.LevelInfo
	case v == 1:
		return slog.LevelDebug
	default:
		return slog.LevelDebug - 4
	}
}
