// Package blob stores uploaded artifacts.
package blob

import (
	"context"
	"errors"
	"io"
)

// ErrInvalidKey is returned for keys that are empty or escape the store root.
var ErrInvalidKey = errors.New("blob: invalid key")

// PutOptions controls how an object is written.
type PutOptions struct {
	Public      bool
	ContentType string
}

// Object describes a stored blob.
type Object struct {
	Key         string
	URL         string
	ContentType string
	Size        int64
}

// Store persists blobs under a key.
type Store interface {
	Put(ctx context.Context, key string, r io.Reader, opts PutOptions) (Object, error)
}
