package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/vango-dev/reactor/internal/config"
	"github.com/vango-dev/reactor/internal/logging"
	"github.com/vango-dev/reactor/pkg/devtools"
	"github.com/vango-dev/reactor/pkg/reactive"
	"github.com/vango-dev/reactor/pkg/telemetry"
)

func serveCmd() *cobra.Command {
	var (
		dir      string
		port     int
		host     string
		interval time.Duration
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the demo on an event loop with the devtools inspector",
		Long: `Run the demo tree on an event loop, incrementing its counter on an
interval, and serve the devtools inspector.

Endpoints:
  /components  component tree
  /timeline    recorded events
  /ws          live event stream
  /metrics     prometheus metrics

Examples:
  reactor serve
  reactor serve --port=8080 --interval=250ms`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(dir)
			if err != nil {
				return err
			}
			if port != 0 {
				cfg.Devtools.Port = port
			}
			if host != "" {
				cfg.Devtools.Host = host
			}

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()
			return runServe(ctx, cfg, interval)
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", ".", "Directory holding the reactor config")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to serve devtools on (default from config)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from config)")
	cmd.Flags().DurationVarP(&interval, "interval", "i", time.Second, "Counter increment interval")

	return cmd
}

func runServe(ctx context.Context, cfg *config.Config, interval time.Duration) error {
	logger := logging.New(cfg.LogOptions())

	reg := prometheus.NewRegistry()
	hub := devtools.NewHub(cfg.Devtools.TimelineSize)
	loop := reactive.NewLoop(logger)

	opts := []reactive.Option{
		reactive.WithConfig(cfg.RuntimeConfig()),
		reactive.WithLogger(logger),
		reactive.WithDispatcher(loop),
		reactive.WithEventSink(hub),
		reactive.WithTracer(telemetry.NewTracer("reactor")),
	}
	if cfg.Metrics.Enabled {
		opts = append(opts, reactive.WithMetrics(telemetry.NewMetrics(
			telemetry.WithNamespace(cfg.Metrics.Namespace),
			telemetry.WithRegistry(reg),
		)))
	}
	rt := reactive.New(opts...)

	loopDone := make(chan error, 1)
	go func() { loopDone <- loop.Run(ctx) }()

	var d *demo
	err := loop.Do(ctx, func() error {
		var err error
		d, err = newDemo(rt, logWriter{logger})
		if err != nil {
			return err
		}
		return d.mount()
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr: cfg.DevtoolsAddress(),
		Handler: devtools.NewServer(hub, devtools.ServerOptions{
			Tree: func() ([]devtools.Node, error) {
				var nodes []devtools.Node
				err := loop.Do(ctx, func() error {
					nodes = []devtools.Node{devtools.Snapshot(d.app)}
					return nil
				})
				return nodes, err
			},
			Gatherer: reg,
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("devtools server failed", "error", err)
		}
	}()
	success("Devtools on http://%s", cfg.DevtoolsAddress())
	info("Press Ctrl+C to stop")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for running := true; running; {
		select {
		case <-ctx.Done():
			running = false
		case <-ticker.C:
			if err := loop.Do(ctx, func() error { d.Increment(); return nil }); err != nil && ctx.Err() == nil {
				logger.Warn("increment failed", "error", err)
			}
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	srv.Shutdown(shutdownCtx)
	hub.Close()
	loop.Close()
	<-loopDone

	return exportTimeline(shutdownCtx, cfg, hub, logger)
}

// exportTimeline uploads the hub's events when an export bucket is set.
func exportTimeline(ctx context.Context, cfg *config.Config, hub *devtools.Hub, logger *slog.Logger) error {
	exp := cfg.Devtools.Export
	if exp.Bucket == "" {
		return nil
	}
	client := s3.New(s3.Options{
		Region:      exp.Region,
		Credentials: aws.CredentialsProviderFunc(envCredentials),
	})
	key, err := devtools.NewS3Exporter(client, exp.Bucket, exp.Prefix).Export(ctx, hub.Timeline())
	if err != nil {
		return err
	}
	logger.Info("timeline exported", "bucket", exp.Bucket, "key", key)
	return nil
}

func envCredentials(context.Context) (aws.Credentials, error) {
	id, secret := os.Getenv("AWS_ACCESS_KEY_ID"), os.Getenv("AWS_SECRET_ACCESS_KEY")
	if id == "" || secret == "" {
		return aws.Credentials{}, fmt.Errorf("AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY must be set to export timelines")
	}
	return aws.Credentials{
		AccessKeyID:     id,
		SecretAccessKey: secret,
		SessionToken:    os.Getenv("AWS_SESSION_TOKEN"),
		Source:          "environment",
	}, nil
}

// logWriter sends demo hook output to the logger.
type logWriter struct {
	logger *slog.Logger
}

func (w logWriter) Write(p []byte) (int, error) {
	w.logger.Debug("hook", "line", string(p))
	return len(p), nil
}
