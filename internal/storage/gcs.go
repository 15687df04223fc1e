package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// GCSStorage implements the Storage interface for Google Cloud Storage
type GCSStorage struct {
	client       *storage.Client
	bucket       string
	objectPrefix string
}

// NewGCSStorage creates a new GCSStorage instance
func NewGCSStorage(ctx context.Context, bucketName, objectPrefix, credentialsFile string) (*GCSStorage, error) {
	var client *storage.Client
	var err error

	if credentialsFile != "" {
		client, err = storage.NewClient(ctx, option.WithCredentialsFile(credentialsFile))
	} else {
		// Use application default credentials
		client, err = storage.NewClient(ctx)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client: %w", err)
	}

	return &GCSStorage{
		client:       client,
		bucket:       bucketName,
		objectPrefix: strings.Trim(objectPrefix, "/"),
	}, nil
}

// MediaPath returns the object name for a media file.
func (s *GCSStorage) MediaPath(name, ext string) string {
	return s.objectName(SanitizeName(name) + ext)
}

func (s *GCSStorage) objectName(name string) string {
	name = strings.TrimPrefix(name, "/")
	if s.objectPrefix == "" || strings.HasPrefix(name, s.objectPrefix+"/") {
		return name
	}
	return path.Join(s.objectPrefix, name)
}

// GetReader returns a reader for an object
func (s *GCSStorage) GetReader(ctx context.Context, objectPath string) (io.ReadCloser, error) {
	return s.client.Bucket(s.bucket).Object(s.objectName(objectPath)).NewReader(ctx)
}

// GetWriter returns a writer for an object. The object is committed on Close.
func (s *GCSStorage) GetWriter(ctx context.Context, objectPath string) (io.WriteCloser, error) {
	return s.client.Bucket(s.bucket).Object(s.objectName(objectPath)).NewWriter(ctx), nil
}

// FileExists checks if an object exists
func (s *GCSStorage) FileExists(ctx context.Context, objectPath string) bool {
	_, err := s.client.Bucket(s.bucket).Object(s.objectName(objectPath)).Attrs(ctx)
	return err == nil
}

func (s *GCSStorage) Remove(ctx context.Context, objectPath string) error {
	err := s.client.Bucket(s.bucket).Object(s.objectName(objectPath)).Delete(ctx)
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("failed to delete object %s: %w", objectPath, err)
	}
	return nil
}

// ListFiles lists objects under the prefix whose base name starts with prefix
func (s *GCSStorage) ListFiles(ctx context.Context, prefix string) ([]string, error) {
	query := &storage.Query{Prefix: s.objectName(prefix)}
	if s.objectPrefix != "" && prefix == "" {
		query.Prefix = s.objectPrefix + "/"
	}

	it := s.client.Bucket(s.bucket).Objects(ctx, query)

	var results []string
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error listing objects: %w", err)
		}

		// Skip directories (objects ending with /)
		if strings.HasSuffix(attrs.Name, "/") {
			continue
		}

		results = append(results, attrs.Name)
	}

	return results, nil
}

// Close closes the GCS client
func (s *GCSStorage) Close() error {
	return s.client.Close()
}
