package es

import (
	"context"
	log "log/slog"
	"net/http"

	"github.com/elastic/go-elasticsearch/v8"

	"github.com/reeltracker/worker/internal/config"
	"github.com/reeltracker/worker/internal/pkg/logger"
)

var Client *elasticsearch.TypedClient

var Index string

// InitClient connects the transcript search index (C12). Disabled by
// default; the admin search endpoint returns an empty result set when
// this integration isn't configured.
func InitClient(cfg config.ElasticConfig) error {
	if !cfg.Enabled {
		return nil
	}
	Index = cfg.Index

	esCfg := elasticsearch.Config{
		Addresses: []string{cfg.Address},
		Transport: &logger.ESTransport{Transport: http.DefaultTransport},
	}

	client, err := elasticsearch.NewTypedClient(esCfg)
	if err != nil {
		return err
	}

	if _, err = client.Info().Do(context.Background()); err != nil {
		log.Error("cannot connect to elasticsearch", "err", err)
		return err
	}

	Client = client
	return nil
}
