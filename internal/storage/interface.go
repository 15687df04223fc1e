package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/jaki95/spotify-scraper/config"
)

// Storage keeps downloaded media files. Paths are the values returned by
// MediaPath and are only meaningful to the Storage that produced them.
type Storage interface {
	// MediaPath returns where a media file with the given base name and
	// extension (including the dot) is stored.
	MediaPath(name, ext string) string

	GetWriter(ctx context.Context, path string) (io.WriteCloser, error)

	GetReader(ctx context.Context, path string) (io.ReadCloser, error)

	FileExists(ctx context.Context, path string) bool

	Remove(ctx context.Context, path string) error

	ListFiles(ctx context.Context, prefix string) ([]string, error)

	Close() error
}

// New builds the storage selected by cfg.Type.
func New(ctx context.Context, cfg config.StorageConfig) (Storage, error) {
	switch cfg.Type {
	case config.StorageLocal, "":
		return NewLocalFileStorage(cfg.OutputDir)
	case config.StorageGCS:
		return NewGCSStorage(ctx, cfg.Bucket, cfg.ObjectPrefix, cfg.CredentialsFile)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}
