package storage

import (
	"context"
)

// FileStorage defines the interface for object storage operations.
type FileStorage interface {
	// PutObject uploads body under objectKey, replacing any existing object.
	PutObject(ctx context.Context, objectKey string, contentType string, body []byte) error
}

// noopStorage drops every object. Used when no bucket is configured.
type noopStorage struct{}

// NewNoopStorage returns a FileStorage that stores nothing.
func NewNoopStorage() FileStorage {
	return noopStorage{}
}

func (noopStorage) PutObject(context.Context, string, string, []byte) error {
	return nil
}
