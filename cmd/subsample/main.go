// Command subsample builds reproducible, referentially consistent subsamples of
// a set of Parquet tables.
//
// Usage:
//
//	subsample -config subsample.yaml
//	subsample -input /data/full -output /data/sample -seed 7
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"

	"github.com/arloliu/subsample"
	"github.com/arloliu/subsample/internal/kvutil"
	"github.com/arloliu/subsample/internal/logging"
	"github.com/arloliu/subsample/internal/metrics"
	"github.com/arloliu/subsample/manifest"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML configuration file (optional)")
	input := flag.String("input", "", "Input directory, overrides inputDirectory")
	output := flag.String("output", "", "Output directory, overrides outputDirectory")
	seed := flag.Int64("seed", 0, "Random seed, overrides seed")
	logLevel := flag.String("log-level", "info", "Log level: debug, info, warn, error")
	logFormat := flag.String("log-format", "text", "Log format: text or json")
	flag.Parse()

	logger, err := logging.New(logging.Options{Level: *logLevel, Format: *logFormat})
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}

	cfg := subsample.DefaultConfig()
	if *configPath != "" {
		cfg, err = subsample.LoadConfig(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}

	// Only flags given on the command line override the file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "input":
			cfg.InputDirectory = *input
		case "output":
			cfg.OutputDirectory = *output
		case "seed":
			cfg.Seed = *seed
		}
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, &cfg, logger); err != nil {
		logger.Error("subsample failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *subsample.Config, logger subsample.Logger) error {
	registry := prometheus.NewRegistry()
	opts := []subsample.Option{
		subsample.WithLogger(logger),
		subsample.WithMetrics(metrics.NewPrometheus(registry, "subsample")),
	}

	if cfg.NATS.URL != "" {
		pub, closeConn, err := openPublisher(ctx, cfg.NATS, logger)
		switch {
		case err == nil:
			defer closeConn()
			opts = append(opts,
				subsample.WithPublisher(pub),
				subsample.WithHeartbeat(pub.KV(), cfg.NATS.HeartbeatInterval),
			)
		case kvutil.IsConnectivityError(err):
			logger.Warn("NATS unreachable, manifest will not be published", "url", cfg.NATS.URL, "error", err)
		default:
			return err
		}
	}

	runner, err := subsample.NewRunner(cfg, opts...)
	if err != nil {
		return err
	}

	start := time.Now()
	result, runErr := runner.Run(ctx)

	if cfg.Metrics.PushgatewayURL != "" {
		pusher := push.New(cfg.Metrics.PushgatewayURL, cfg.Metrics.Job).Gatherer(registry)
		if err := pusher.Push(); err != nil {
			logger.Warn("failed to push metrics", "url", cfg.Metrics.PushgatewayURL, "error", err)
		}
	}

	if runErr != nil {
		return runErr
	}

	for _, w := range result.Warnings {
		if errors.Is(w, subsample.ErrMissingOptionalInput) {
			logger.Warn("table skipped", "reason", w)
			continue
		}
		logger.Warn("run warning", "reason", w)
	}

	for _, s := range result.Tables {
		if s.Skipped {
			continue
		}
		logger.Info("table summary",
			"table", s.Table,
			"rowsRead", s.RowsRead,
			"rowsWritten", s.RowsWritten,
			"rowsDropped", s.RowsDropped,
		)
	}

	logger.Info("done",
		"runId", result.Manifest.RunID,
		"sizes", result.Manifest.Sizes,
		"duration", time.Since(start),
	)

	return nil
}

func openPublisher(ctx context.Context, cfg subsample.NATSConfig, logger subsample.Logger) (*manifest.KVPublisher, func(), error) {
	nc, err := nats.Connect(cfg.URL, nats.Timeout(cfg.Timeout))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, nil, fmt.Errorf("failed to get JetStream: %w", err)
	}

	openCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	pub, err := manifest.OpenKVPublisher(openCtx, js, cfg.Bucket, logger)
	if err != nil {
		nc.Close()
		return nil, nil, fmt.Errorf("failed to open manifest bucket: %w", err)
	}

	return pub, nc.Close, nil
}
