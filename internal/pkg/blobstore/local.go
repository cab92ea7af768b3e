package blobstore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/selcuk/alumnihub/internal/pkg/logger"
)

// LocalStorage stores blobs on the local filesystem under basePath and serves
// them through the router's static /uploads route.
type LocalStorage struct {
	basePath string // root directory for stored blobs
	baseURL  string // public URL prefix prepended to stored paths
}

// NewLocalStorage creates a new LocalStorage instance, ensuring basePath exists.
func NewLocalStorage(basePath, baseURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, os.ModePerm); err != nil {
		logger.Error().Err(err).Str("path", basePath).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	logger.Info().Str("path", basePath).Msg("Local storage directory ensured")

	return &LocalStorage{
		basePath: basePath,
		baseURL:  strings.TrimSuffix(baseURL, "/"),
	}, nil
}

// Upload stores the blob under the given path and returns its public URL.
func (ls *LocalStorage) Upload(_ context.Context, blobPath string, r io.Reader, _ string) (string, error) {
	cleanPath, err := ls.cleanPath(blobPath)
	if err != nil {
		return "", err
	}

	fullPath := filepath.Join(ls.basePath, filepath.FromSlash(cleanPath))
	if err := os.MkdirAll(filepath.Dir(fullPath), os.ModePerm); err != nil {
		return "", fmt.Errorf("failed to create blob directory: %w", err)
	}

	dst, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to create blob file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, r); err != nil {
		logger.Error().Err(err).Str("path", cleanPath).Msg("Failed to write blob")
		return "", fmt.Errorf("failed to write blob: %w", err)
	}

	return ls.PublicURL(cleanPath), nil
}

// UploadBytes stores raw bytes under the given path.
func (ls *LocalStorage) UploadBytes(ctx context.Context, blobPath string, data []byte, contentType string) (string, error) {
	return ls.Upload(ctx, blobPath, bytes.NewReader(data), contentType)
}

// Delete removes the blob stored under path.
func (ls *LocalStorage) Delete(_ context.Context, blobPath string) error {
	cleanPath, err := ls.cleanPath(blobPath)
	if err != nil {
		return err
	}

	fullPath := filepath.Join(ls.basePath, filepath.FromSlash(cleanPath))
	if err := os.Remove(fullPath); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("blob %s not found", cleanPath)
		}
		return fmt.Errorf("failed to delete blob: %w", err)
	}
	return nil
}

// Ping verifies the storage root is still accessible.
func (ls *LocalStorage) Ping(_ context.Context) error {
	if _, err := os.Stat(ls.basePath); err != nil {
		return fmt.Errorf("storage root unavailable: %w", err)
	}
	return nil
}

// PublicURL returns the public URL for a stored path.
func (ls *LocalStorage) PublicURL(blobPath string) string {
	return ls.baseURL + "/" + strings.TrimPrefix(blobPath, "/")
}

// cleanPath normalizes a blob path and rejects traversal outside the root.
func (ls *LocalStorage) cleanPath(blobPath string) (string, error) {
	cleaned := path.Clean("/" + strings.ReplaceAll(blobPath, "\\", "/"))
	cleaned = strings.TrimPrefix(cleaned, "/")
	if cleaned == "" || cleaned == "." || strings.HasPrefix(cleaned, "..") {
		return "", fmt.Errorf("invalid blob path %q", blobPath)
	}
	return cleaned, nil
}
