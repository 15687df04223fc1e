package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalFileStorage implements the Storage interface for local filesystem
type LocalFileStorage struct {
	outputDir string
}

// NewLocalFileStorage creates the output directory if needed.
func NewLocalFileStorage(outputDir string) (*LocalFileStorage, error) {
	if err := os.MkdirAll(outputDir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", outputDir, err)
	}

	return &LocalFileStorage{
		outputDir: outputDir,
	}, nil
}

func (s *LocalFileStorage) MediaPath(name, ext string) string {
	return filepath.Join(s.outputDir, SanitizeName(name)+ext)
}

// GetReader returns a reader for the specified file
func (s *LocalFileStorage) GetReader(_ context.Context, path string) (io.ReadCloser, error) {
	return os.Open(path)
}

// GetWriter returns a writer for the specified file
func (s *LocalFileStorage) GetWriter(_ context.Context, path string) (io.WriteCloser, error) {
	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", filepath.Dir(path), err)
	}
	return os.Create(path)
}

// FileExists checks if a file exists
func (s *LocalFileStorage) FileExists(_ context.Context, path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (s *LocalFileStorage) Remove(_ context.Context, path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove %s: %w", path, err)
	}
	return nil
}

// ListFiles lists files in the output directory whose name starts with prefix
func (s *LocalFileStorage) ListFiles(_ context.Context, prefix string) ([]string, error) {
	files, err := os.ReadDir(s.outputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	var results []string
	for _, file := range files {
		if file.IsDir() {
			continue
		}

		if prefix != "" && !strings.HasPrefix(file.Name(), prefix) {
			continue
		}

		results = append(results, filepath.Join(s.outputDir, file.Name()))
	}

	return results, nil
}

func (s *LocalFileStorage) Close() error {
	return nil
}
