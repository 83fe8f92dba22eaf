// Package files uploads binary objects to object storage and hands back
// download URLs in the hosted storage format.
package files

import (
	"context"
	"io"
)

// ObjectStore is an already-connected handle to one storage bucket.
type ObjectStore interface {
	// Bucket names the bucket objects are written to.
	Bucket() string
	// Put writes r to path, replacing any existing object.
	Put(ctx context.Context, path string, r io.Reader, contentType string) error
	// Delete removes the object at path. Returns domain.ErrNotFound when
	// there is none.
	Delete(ctx context.Context, path string) error
}
