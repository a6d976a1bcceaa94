package minio

import (
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/reeltracker/worker/internal/config"
)

var (
	// Client is the shared MinIO client used to archive extracted mp3s.
	Client *minio.Client
	Bucket string
)

// Init connects the durable audio archive (C13). Disabled by default;
// enrichment falls back to the local content-addressed file only.
func Init(cfg config.MinIOConfig) error {
	if !cfg.Enabled {
		return nil
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize minio client: %w", err)
	}

	if _, err = client.ListBuckets(context.Background()); err != nil {
		return fmt.Errorf("failed to connect to minio server: %w", err)
	}

	Client = client
	Bucket = cfg.Bucket
	return nil
}
