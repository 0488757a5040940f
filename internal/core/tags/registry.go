package tags

import (
	"context"
	"fmt"
	"strings"
)

// Tag name limits. Names beyond maxTagLength are rejected rather than
// truncated so the stored set stays predictable.
const maxTagLength = 140

type tagRegistry struct {
	repo Repository
}

// NewRegistry creates a tag registry backed by repo.
func NewRegistry(repo Repository) Registry {
	return &tagRegistry{repo: repo}
}

// Normalize maps a raw tag name to its canonical stored form: surrounding
// whitespace trimmed, a single leading '#' stripped, lowercased.
func Normalize(name string) string {
	name = strings.TrimSpace(name)
	name = strings.TrimPrefix(name, "#")
	return strings.ToLower(name)
}

func validate(name string) error {
	if name == "" {
		return &InvalidTagError{Name: name, Reason: "name is empty"}
	}
	if len(name) > maxTagLength {
		return &InvalidTagError{Name: name, Reason: fmt.Sprintf("name exceeds %d bytes", maxTagLength)}
	}
	return nil
}

func (r *tagRegistry) FindOrCreate(ctx context.Context, name string) (*Tag, error) {
	normalized := Normalize(name)
	if err := validate(normalized); err != nil {
		return nil, err
	}

	tag, err := r.repo.Upsert(ctx, normalized)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve tag %q: %w", normalized, err)
	}
	return tag, nil
}

func (r *tagRegistry) FindOrCreateAll(ctx context.Context, names []string) ([]Tag, error) {
	if len(names) == 0 {
		return nil, nil
	}

	// Deduplicate after normalization, preserving first-occurrence order.
	seen := make(map[string]bool, len(names))
	resolved := make([]Tag, 0, len(names))
	for _, name := range names {
		normalized := Normalize(name)
		if normalized == "" {
			// Blank entries in a tag list are ignored, not an error.
			continue
		}
		if seen[normalized] {
			continue
		}
		seen[normalized] = true

		tag, err := r.FindOrCreate(ctx, normalized)
		if err != nil {
			return nil, err
		}
		resolved = append(resolved, *tag)
	}

	return resolved, nil
}

func (r *tagRegistry) GetByName(ctx context.Context, name string) (*Tag, error) {
	normalized := Normalize(name)
	if err := validate(normalized); err != nil {
		return nil, err
	}
	return r.repo.GetByName(ctx, normalized)
}
