package db

import (
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var (
	// ErrNotFound is returned when a requested document does not exist.
	ErrNotFound = errors.New("document not found")
	// ErrAlreadyExists is returned when a create hits an existing document ID.
	ErrAlreadyExists = errors.New("document already exists")
)

// wrapErr classifies a Firestore error for kind/id and wraps it with context.
func wrapErr(err error, op, kind, id string) error {
	switch status.Code(err) {
	case codes.NotFound:
		return fmt.Errorf("%s '%s' not found: %w", kind, id, ErrNotFound)
	case codes.AlreadyExists:
		return fmt.Errorf("%s '%s' already exists: %w", kind, id, ErrAlreadyExists)
	}
	return fmt.Errorf("failed to %s %s '%s': %w", op, kind, id, err)
}

func isNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}
