// Package storage uploads member files to Firebase Storage and hands out
// short-lived signed URLs for reading them.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	gcs "cloud.google.com/go/storage"
	"github.com/google/uuid"
)

// ErrObjectNotFound is returned when deleting or signing a missing object.
var ErrObjectNotFound = errors.New("object not found")

// Object describes a stored file.
type Object struct {
	Path        string
	Name        string
	ContentType string
	Size        int64
}

// Bucket wraps a Firebase Storage bucket.
type Bucket struct {
	handle    *gcs.BucketHandle
	signedTTL time.Duration
}

// NewBucket wraps handle. Signed URLs live for signedTTL.
func NewBucket(handle *gcs.BucketHandle, signedTTL time.Duration) *Bucket {
	return &Bucket{handle: handle, signedTTL: signedTTL}
}

// Upload streams r to prefix/<uuid><ext> and returns the stored object.
func (b *Bucket) Upload(ctx context.Context, prefix, fileName, contentType string, r io.Reader) (*Object, error) {
	objectPath := ObjectPath(prefix, fileName)

	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	w := b.handle.Object(objectPath).NewWriter(ctx)
	w.ContentType = contentType
	w.Metadata = map[string]string{"originalName": fileName}

	size, err := io.Copy(w, r)
	if err != nil {
		w.Close()
		return nil, fmt.Errorf("io.Copy to %q: %w", objectPath, err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("Writer.Close %q: %w", objectPath, err)
	}
	return &Object{Path: objectPath, Name: fileName, ContentType: contentType, Size: size}, nil
}

// SignedURL returns a GET URL for objectPath valid for the configured TTL.
func (b *Bucket) SignedURL(objectPath string) (string, error) {
	if objectPath == "" {
		return "", ErrObjectNotFound
	}
	u, err := b.handle.SignedURL(objectPath, &gcs.SignedURLOptions{
		Scheme:  gcs.SigningSchemeV4,
		Method:  "GET",
		Expires: time.Now().Add(b.signedTTL),
	})
	if err != nil {
		return "", fmt.Errorf("SignedURL %q: %w", objectPath, err)
	}
	return u, nil
}

// Delete removes an object. Missing objects are reported as ErrObjectNotFound.
func (b *Bucket) Delete(ctx context.Context, objectPath string) error {
	err := b.handle.Object(objectPath).Delete(ctx)
	if errors.Is(err, gcs.ErrObjectNotExist) {
		return fmt.Errorf("%q: %w", objectPath, ErrObjectNotFound)
	}
	if err != nil {
		return fmt.Errorf("Object(%q).Delete: %w", objectPath, err)
	}
	return nil
}

// ObjectPath builds a collision-free object name under prefix, keeping the
// original extension so browsers pick the right viewer.
func ObjectPath(prefix, fileName string) string {
	ext := strings.ToLower(path.Ext(fileName))
	if len(ext) > 10 || strings.ContainsAny(ext, "/\\ ") {
		ext = ""
	}
	return path.Join(prefix, uuid.NewString()+ext)
}
