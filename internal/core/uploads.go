package core

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// checkUpload validates size and, when typePrefix is set, the MIME type of u.
func checkUpload(u Upload, maxBytes int64, typePrefix string) error {
	if u.Reader == nil || u.Size <= 0 {
		return fmt.Errorf("%w: %q is empty", ErrInvalidUpload, u.Name)
	}
	if maxBytes > 0 && u.Size > maxBytes {
		return fmt.Errorf("%w: %q is %d bytes, limit is %d", ErrInvalidUpload, u.Name, u.Size, maxBytes)
	}
	if typePrefix != "" && !strings.HasPrefix(u.ContentType, typePrefix) {
		return fmt.Errorf("%w: %q has type %q", ErrInvalidUpload, u.Name, u.ContentType)
	}
	return nil
}

// signURL signs objectPath, returning "" and logging when signing fails.
func signURL(files FileStore, logger *zap.Logger, objectPath string) string {
	if objectPath == "" || files == nil {
		return ""
	}
	u, err := files.SignedURL(objectPath)
	if err != nil {
		logger.Warn("failed to sign storage URL", zap.String("path", objectPath), zap.Error(err))
		return ""
	}
	return u
}

// deleteObject removes a stored file, logging failures.
func deleteObject(ctx context.Context, files FileStore, logger *zap.Logger, objectPath string) {
	if objectPath == "" {
		return
	}
	if err := files.Delete(ctx, objectPath); err != nil {
		logger.Warn("failed to delete stored object", zap.String("path", objectPath), zap.Error(err))
	}
}
