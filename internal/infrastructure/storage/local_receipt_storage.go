package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	appfinance "github.com/ndutagrace25/esperanza-internal/internal/application/finance"
	infraconfig "github.com/ndutagrace25/esperanza-internal/internal/infrastructure/config"
	"go.uber.org/zap"
)

var _ appfinance.ReceiptStorage = (*LocalReceiptStorage)(nil)

// LocalReceiptStorage stores receipt files on the local filesystem. Intended
// for development and single-machine deployments.
type LocalReceiptStorage struct {
	root    string
	baseURL string
	logger  *zap.Logger
}

// NewLocalReceiptStorage creates a filesystem-backed receipt store
func NewLocalReceiptStorage(cfg infraconfig.StorageConfig, logger *zap.Logger) (*LocalReceiptStorage, error) {
	if cfg.LocalPath == "" {
		return nil, errors.New("storage local path is required")
	}
	if err := os.MkdirAll(cfg.LocalPath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "/files"
	}

	return &LocalReceiptStorage{
		root:    cfg.LocalPath,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger.Named("storage"),
	}, nil
}

// UploadReceipt writes the receipt bytes under the given key and returns the
// URL path the file is served from
func (s *LocalReceiptStorage) UploadReceipt(ctx context.Context, key string, contentType string, data []byte) (string, error) {
	if key == "" {
		return "", errors.New("storage key is required")
	}

	// Reject keys that escape the storage root
	cleaned := filepath.Clean(key)
	if strings.HasPrefix(cleaned, "..") || filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("invalid storage key %q", key)
	}

	target := filepath.Join(s.root, cleaned)
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return "", fmt.Errorf("failed to create receipt directory: %w", err)
	}
	if err := os.WriteFile(target, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write receipt: %w", err)
	}

	s.logger.Debug("receipt stored", zap.String("path", target))
	return s.baseURL + "/" + filepath.ToSlash(cleaned), nil
}
