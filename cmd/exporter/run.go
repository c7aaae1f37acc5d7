package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/vshulcz/rtl433-exporter/internal/adapters/collector/host"
	"github.com/vshulcz/rtl433-exporter/internal/adapters/gauges"
	"github.com/vshulcz/rtl433-exporter/internal/adapters/http/ginserver"
	"github.com/vshulcz/rtl433-exporter/internal/adapters/http/ginserver/middlewares"
	"github.com/vshulcz/rtl433-exporter/internal/adapters/repository/memory"
	"github.com/vshulcz/rtl433-exporter/internal/config"
	"github.com/vshulcz/rtl433-exporter/internal/ports"
	"github.com/vshulcz/rtl433-exporter/internal/services/monitor"
	"github.com/vshulcz/rtl433-exporter/internal/services/reading"
)

const (
	shutdownTimeout   = 5 * time.Second
	readHeaderTimeout = 5 * time.Second
)

type listenFunc func(network, address string) (net.Listener, error)

type exporter struct {
	logger  *zap.Logger
	gauges  *gauges.Registry
	devices *memory.Repo
	monitor *monitor.Monitor
	srv     *http.Server
	ln      net.Listener
}

// run wires everything, blocks until the input ends and then stops the HTTP server.
func run(ctx context.Context, cfg config.ExporterConfig, logger *zap.Logger, listen listenFunc, stdin io.Reader) error {
	logger.Info("settings loaded",
		zap.Int("port", cfg.Port),
		zap.String("metric_basename", cfg.MetricBasename),
		zap.Int64s("allowed_ids", cfg.AllowedIDs.IDs()),
		zap.String("input", cfg.Input),
		zap.String("log_level", cfg.LogLevel.String()),
		zap.Bool("strict_values", cfg.StrictValues),
		zap.Bool("host_metrics", cfg.HostMetrics),
		zap.Bool("runtime_metrics", cfg.RuntimeMetrics),
	)
	if cfg.AllowedIDs.Len() == 0 {
		logger.Warn("allow-list is empty, no reading will be published")
	}

	in, err := openInput(cfg.Input, stdin)
	if err != nil {
		return err
	}
	defer in.Close()

	addr := fmt.Sprintf(":%d", cfg.Port)
	ln, err := listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}

	e, err := newExporter(cfg, logger, ln)
	if err != nil {
		ln.Close()
		return err
	}
	logger.Info("server starting", zap.Int("port", cfg.Port), zap.String("addr", ln.Addr().String()))
	return e.Run(ctx, in)
}

func newExporter(cfg config.ExporterConfig, logger *zap.Logger, ln net.Listener) (*exporter, error) {
	var opts []gauges.Option
	if cfg.RuntimeMetrics {
		opts = append(opts, gauges.WithRuntimeCollectors())
	}
	if cfg.HostMetrics {
		opts = append(opts, gauges.WithCollector(host.New(cfg.MetricBasename, logger)))
	}
	reg, err := gauges.New(cfg.MetricBasename, opts...)
	if err != nil {
		return nil, fmt.Errorf("build gauges: %w", err)
	}

	devices := memory.New()
	parser := reading.New(cfg.AllowedIDs, logger)
	mon := monitor.New(parser, []ports.MeasurementSink{reg, devices},
		monitor.WithLogger(logger),
		monitor.WithStrictValues(cfg.StrictValues),
	)

	h := ginserver.NewHandler(reg.Gatherer(), devices, mon)
	r := ginserver.NewRouter(h, middlewares.ZapLogger(logger, "/metrics", "/ping"))

	return &exporter{
		logger:  logger,
		gauges:  reg,
		devices: devices,
		monitor: mon,
		srv:     &http.Server{Handler: r, ReadHeaderTimeout: readHeaderTimeout},
		ln:      ln,
	}, nil
}

// Run serves scrapes in the background while the monitor consumes in.
func (e *exporter) Run(ctx context.Context, in io.Reader) error {
	serveErr := make(chan error, 1)
	go func() {
		defer close(serveErr)
		if err := e.srv.Serve(e.ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			e.logger.Error("metrics server failed", zap.Error(err))
			serveErr <- err
		}
	}()

	runErr := e.monitor.Run(ctx, in)
	st := e.monitor.Stats()
	e.logger.Info("monitor stopped",
		zap.Int64("lines", st.Lines),
		zap.Int64("accepted", st.Accepted),
		zap.Int64("rejected", st.Rejected),
	)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.srv.Shutdown(shutdownCtx); err != nil {
		e.logger.Warn("server shutdown failed", zap.Error(err))
	}

	if err := <-serveErr; err != nil {
		return errors.Join(runErr, fmt.Errorf("serve: %w", err))
	}
	return runErr
}

func openInput(path string, stdin io.Reader) (io.ReadCloser, error) {
	if path == "" || path == config.StdinInput {
		return io.NopCloser(stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	return f, nil
}
