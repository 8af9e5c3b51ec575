package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/straye-as/pipeline-api/internal/domain"
	"go.uber.org/zap"
)

// DocumentGateway stores conversion documents and returns their public URLs
type DocumentGateway struct {
	storage Storage
	maxSize int64
	logger  *zap.Logger
}

// NewDocumentGateway wraps a Storage backend. A maxSize of 0 disables the size check.
func NewDocumentGateway(storage Storage, maxSize int64, logger *zap.Logger) *DocumentGateway {
	return &DocumentGateway{storage: storage, maxSize: maxSize, logger: logger}
}

// Upload stores a single document and returns the URL it can be fetched from
func (g *DocumentGateway) Upload(ctx context.Context, doc domain.Document) (string, error) {
	if doc.Content == nil {
		return "", fmt.Errorf("%s document has no content", doc.Kind)
	}
	if g.maxSize > 0 && doc.Size > g.maxSize {
		return "", fmt.Errorf("%s document exceeds maximum size of %d bytes", doc.Kind, g.maxSize)
	}

	contentType := doc.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	storagePath, size, err := g.storage.Upload(ctx, doc.Filename, contentType, doc.Content)
	if err != nil {
		return "", fmt.Errorf("failed to store %s document: %w", doc.Kind, err)
	}

	g.logger.Info("Conversion document stored",
		zap.String("kind", string(doc.Kind)),
		zap.String("filename", doc.Filename),
		zap.String("storage_path", storagePath),
		zap.Int64("size", size),
	)
	return g.storage.URL(storagePath), nil
}

// Delete removes a document by the URL Upload returned
func (g *DocumentGateway) Delete(ctx context.Context, url string) error {
	storagePath, ok := strings.CutPrefix(url, g.storage.URL(""))
	if !ok || storagePath == "" {
		return fmt.Errorf("document url %s does not belong to this storage", url)
	}
	if err := g.storage.Delete(ctx, storagePath); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}

	g.logger.Info("Conversion document removed", zap.String("storage_path", storagePath))
	return nil
}
