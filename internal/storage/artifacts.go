// Package storage keeps generated return documents on local disk.
package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// ArtifactStore writes and removes PDF receipts under a base directory.
type ArtifactStore struct {
	baseDir string
	logger  *zap.Logger
}

// NewArtifactStore creates the base directory if needed.
func NewArtifactStore(baseDir string, logger *zap.Logger) (*ArtifactStore, error) {
	if baseDir == "" {
		baseDir = filepath.Join("data", "retururi")
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create artifact directory: %w", err)
	}
	return &ArtifactStore{baseDir: baseDir, logger: logger}, nil
}

// SavePDF writes the receipt for a return and reports its path.
func (s *ArtifactStore) SavePDF(returnID string, data []byte) (string, error) {
	path := filepath.Join(s.baseDir, returnID+".pdf")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write pdf artifact: %w", err)
	}
	return path, nil
}

// ReadPDF reads a previously written receipt.
func (s *ArtifactStore) ReadPDF(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read pdf artifact: %w", err)
	}
	return data, nil
}

// RemovePDF deletes a receipt. A missing file is not an error; the record is
// already gone.
func (s *ArtifactStore) RemovePDF(path string) error {
	if path == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove pdf artifact: %w", err)
	}
	return nil
}
