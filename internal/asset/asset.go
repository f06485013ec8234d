// Package asset turns raw image bytes into assets the editor (and
// optionally a team bucket) can see.
package asset

import (
	"context"
	"errors"
)

var ErrImport = errors.New("asset import failed")

type ImportParams struct {
	// Path is a file on disk the editor can read.
	Path   string
	Folder string
	Name   string
}

// Handle identifies an imported asset. Opaque to callers beyond reporting
// and browser focus.
type Handle struct {
	Path string
	Name string
}

type Materializer interface {
	Import(context.Context, ImportParams) (*Handle, error)
}

type PublishParams struct {
	Name     string
	Data     []byte
	Metadata map[string]string
}

// Publisher shares a render outside the editor session. Publishing is best
// effort; a failed publish never fails the import.
type Publisher interface {
	Publish(context.Context, PublishParams) error
}

type Invalidator interface {
	Invalidate(context.Context, []string) error
}
