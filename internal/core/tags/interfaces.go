package tags

import "context"

// Registry resolves tag names to tag entities, creating missing ones.
type Registry interface {
	// FindOrCreate returns the tag for name, creating it if absent.
	// The name is normalized (trimmed, lowercased) before lookup.
	FindOrCreate(ctx context.Context, name string) (*Tag, error)

	// FindOrCreateAll resolves a list of names, deduplicating after
	// normalization. Result order follows first occurrence in names.
	FindOrCreateAll(ctx context.Context, names []string) ([]Tag, error)

	// GetByName returns the tag with the given (normalized) name.
	GetByName(ctx context.Context, name string) (*Tag, error)
}

// Repository defines the data access interface for tags.
type Repository interface {
	// Upsert inserts the tag by normalized name or returns the existing
	// row. Implementations must be safe under concurrent upserts of the
	// same name.
	Upsert(ctx context.Context, name string) (*Tag, error)

	// GetByName returns the tag with the given normalized name, or
	// ErrNotFound.
	GetByName(ctx context.Context, name string) (*Tag, error)
}
