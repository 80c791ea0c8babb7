package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/neox5/esbox/internal/app"
	"github.com/neox5/esbox/internal/config"
	"github.com/neox5/esbox/internal/version"
	"github.com/urfave/cli/v3"
)

func main() {
	cmd := &cli.Command{
		Name:    "esbox",
		Usage:   "Prometheus exporter for Elasticsearch node and cluster statistics",
		Version: version.String(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   "config.yaml",
				Usage:   "path to configuration file",
				Sources: cli.EnvVars("ESBOX_CONFIG"),
			},
			&cli.BoolFlag{
				Name:    "debug",
				Usage:   "enable debug logging",
				Sources: cli.EnvVars("ESBOX_DEBUG"),
			},
			&cli.StringFlag{
				Name:    "es.url",
				Usage:   "elasticsearch URL, overrides the configuration file",
				Sources: cli.EnvVars("ESBOX_ES_URL"),
			},
			&cli.StringFlag{
				Name:    "metrics.prefix",
				Usage:   "prefix of the exposed metric names, overrides the configuration file",
				Sources: cli.EnvVars("ESBOX_METRICS_PREFIX"),
			},
			&cli.IntFlag{
				Name:    "web.port",
				Usage:   "port of the metrics endpoint, overrides the configuration file",
				Sources: cli.EnvVars("ESBOX_WEB_PORT"),
			},
		},
		Action: serve,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func serve(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")
	debug := cmd.Bool("debug")

	// Configure logging level
	logLevel := slog.LevelInfo
	if debug {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	slog.Info("starting esbox", "version", version.String(), "config", configPath)

	cfg, err := loadConfig(cmd, configPath)
	if err != nil {
		return err
	}

	application, err := app.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	// Setup graceful shutdown
	shutdownCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if application.Monitor != nil {
		application.Monitor.Run(shutdownCtx)
		defer application.Monitor.Wait()
	}

	slog.Info("scraping elasticsearch", "url", cfg.Elasticsearch.URL)

	// Start returns once shutdownCtx is cancelled
	if err := application.Server.Start(shutdownCtx); err != nil {
		stop()
		return fmt.Errorf("exporter: %w", err)
	}

	slog.Info("shutdown complete")
	return nil
}

// loadConfig reads the configuration file and applies the command line
// overrides. The default file may be absent; an explicit one may not.
func loadConfig(cmd *cli.Command, path string) (*config.Config, error) {
	load := config.LoadOrDefault
	if cmd.IsSet("config") {
		load = config.Load
	}
	cfg, err := load(path)
	if err != nil {
		return nil, err
	}

	if cmd.IsSet("es.url") {
		cfg.Elasticsearch.URL = cmd.String("es.url")
	}
	if cmd.IsSet("metrics.prefix") {
		cfg.Metrics.Prefix = cmd.String("metrics.prefix")
	}
	if cmd.IsSet("web.port") {
		cfg.Server.Port = int(cmd.Int("web.port"))
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	slog.Debug("configuration loaded",
		"elasticsearch", cfg.Elasticsearch.URL,
		"port", cfg.Server.Port,
		"path", cfg.Server.Path,
		"prefix", cfg.Metrics.Prefix)
	return cfg, nil
}
