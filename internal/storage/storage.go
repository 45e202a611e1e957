package storage

import (
	"context"
	"io"
	"time"
)

type Uploader interface {
	// Upload writes the object and returns its publicly retrievable URL.
	Upload(ctx context.Context, objectName string, contentType string, r io.Reader) (publicURL string, err error)
}

type Remover interface {
	Remove(ctx context.Context, objectName string) error
}

// ObjectInfo is the subset of object metadata the orphan sweeper needs.
type ObjectInfo struct {
	Name    string
	Created time.Time
}

type Lister interface {
	// List walks objects under prefix, invoking fn per object. A non-nil
	// error from fn stops the walk.
	List(ctx context.Context, prefix string, fn func(ObjectInfo) error) error
}
