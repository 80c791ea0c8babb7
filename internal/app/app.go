package app

import (
	"fmt"
	"log/slog"

	"github.com/neox5/esbox/internal/config"
	"github.com/neox5/esbox/internal/elasticsearch"
	"github.com/neox5/esbox/internal/exporter"
	"github.com/neox5/esbox/internal/monitor"
)

// App holds initialized application components.
type App struct {
	Config   *config.Config
	Client   *elasticsearch.Client
	Exporter *exporter.Exporter
	Server   *exporter.Server
	// Monitor is nil unless enabled in the settings.
	Monitor *monitor.Monitor
}

// New initializes the application from a resolved configuration.
func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		URL:                cfg.Elasticsearch.URL,
		Username:           cfg.Elasticsearch.Username,
		Password:           cfg.Elasticsearch.Password,
		Timeout:            cfg.Elasticsearch.Timeout,
		InsecureSkipVerify: cfg.Elasticsearch.InsecureSkipVerify,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create elasticsearch client: %w", err)
	}

	exp := exporter.New(client, cfg.Metrics, cfg.Settings.InternalMetrics.Enabled, logger)

	var mon *monitor.Monitor
	if cfg.Settings.Monitor.Enabled {
		mon, err = monitor.New(cfg.Settings.Monitor.Interval, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create monitor: %w", err)
		}
	}

	return &App{
		Config:   cfg,
		Client:   client,
		Exporter: exp,
		Server:   exporter.NewServer(cfg, exp, logger),
		Monitor:  mon,
	}, nil
}
