package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nspcc-dev/moderation-contract/monitor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

const (
	metricsListenFlag = "metrics-listen"
	startHeightFlag   = "start-height"
	pollIntervalFlag  = "poll-interval"
)

var monitorCmd = &cli.Command{
	Name:  "monitor",
	Usage: "follow Moderation contract events and export Prometheus metrics",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    metricsListenFlag,
			Usage:   "listen address of the metrics HTTP server",
			Value:   ":9090",
			EnvVars: []string{"MODERATION_METRICS_LISTEN"},
		},
		&cli.UintFlag{
			Name:  startHeightFlag,
			Usage: "index of the first processed block, defaults to the current height",
		},
		&cli.DurationFlag{
			Name:  pollIntervalFlag,
			Usage: "interval between checks for new blocks",
			Value: time.Second,
		},
	},
	Action: runMonitor,
}

func runMonitor(cctx *cli.Context) error {
	log, err := loggerFromContext(cctx)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	h, err := contractAddress(cctx)
	if err != nil {
		return err
	}

	b, err := newRemoteBlockChain(cctx.String(rpcFlag), nil)
	if err != nil {
		return fmt.Errorf("init remote blockchain: %w", err)
	}
	defer b.close()

	start := b.currentBlock
	if cctx.IsSet(startHeightFlag) {
		start = uint32(cctx.Uint(startHeightFlag))
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m, err := monitor.New(monitor.Prm{
		Logger:       log,
		Blockchain:   b.rpc,
		Contract:     h,
		Registerer:   reg,
		StartHeight:  start,
		PollInterval: cctx.Duration(pollIntervalFlag),
	})
	if err != nil {
		return fmt.Errorf("init monitor: %w", err)
	}

	ctx, cancel := signal.NotifyContext(cctx.Context, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:              cctx.String(metricsListenFlag),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	srvErr := make(chan error, 1)
	go func() {
		log.Info("serving metrics", zap.String("address", srv.Addr))
		err := srv.ListenAndServe()
		if !errors.Is(err, http.ErrServerClosed) {
			srvErr <- err
		}
		close(srvErr)
	}()

	log.Info("monitoring Moderation contract", zap.Uint32("start", start))

	runErr := make(chan error, 1)
	go func() {
		runErr <- m.Run(ctx)
	}()

	select {
	case err = <-runErr:
	case err = <-srvErr:
		if err != nil {
			err = fmt.Errorf("metrics server: %w", err)
		}
		cancel()
		<-runErr
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if shutdownErr := srv.Shutdown(shutdownCtx); shutdownErr != nil {
		log.Warn("failed to shutdown metrics server", zap.Error(shutdownErr))
	}

	if errors.Is(err, context.Canceled) {
		log.Info("monitor stopped", zap.Uint32("next", m.Next()))
		return nil
	}

	return err
}
