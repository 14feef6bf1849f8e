package ports

import (
	"context"

	"cardiodash/domain/core"
)

// SourceFetcher returns the raw CSV bytes of a named catalog source
type SourceFetcher interface {
	Fetch(ctx context.Context, name core.SourceName) ([]byte, error)
}

// SourceCatalog names the sources a SourceFetcher can serve
type SourceCatalog interface {
	Names() []core.SourceName
	// Resolve returns the canonical name, or core.ErrUnknownSource
	Resolve(name core.SourceName) (core.SourceName, error)
}
