// Package classify selects which remote items form the next correction batch.
//
// Classification is a pure function over (listing, processed set): no clock,
// no I/O, no mutation. Identical inputs always produce the identical batch,
// and eligible items keep the relative order of the input listing so logs and
// audit trails stay reproducible.
package classify

import (
	"path/filepath"
	"strings"

	"cardwatch/internal/config"
	"cardwatch/internal/remote"
)

// Rules is the declarative filter configuration consumed by Classify.
type Rules struct {
	// markers are lowercase name substrings that exclude an item (answer
	// keys, never candidate cards).
	markers []string
	// extensions is the allowed extension set, lowercase, without dots.
	extensions map[string]struct{}
}

// NewRules builds Rules from an explicit marker list and extension list.
func NewRules(markers, extensions []string) Rules {
	r := Rules{extensions: make(map[string]struct{}, len(extensions))}
	for _, marker := range markers {
		if trimmed := strings.ToLower(strings.TrimSpace(marker)); trimmed != "" {
			r.markers = append(r.markers, trimmed)
		}
	}
	for _, ext := range extensions {
		trimmed := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(ext, ".")))
		if trimmed != "" {
			r.extensions[trimmed] = struct{}{}
		}
	}
	return r
}

// FromConfig builds Rules from the classify configuration section.
func FromConfig(cfg config.Classify) Rules {
	return NewRules(cfg.ExcludedMarkers, cfg.Extensions)
}

// Classify returns the ordered batch of unprocessed, eligible items. An item
// is included when its id is not in processed, its name contains no excluded
// marker, and its extension is recognized.
func (r Rules) Classify(listing []remote.Item, processed map[string]struct{}) []remote.Item {
	batch := make([]remote.Item, 0, len(listing))
	for _, item := range listing {
		if _, done := processed[item.ID]; done {
			continue
		}
		if r.excludedByMarker(item.Name) {
			continue
		}
		if !r.allowedExtension(item.Name) {
			continue
		}
		batch = append(batch, item)
	}
	return batch
}

func (r Rules) excludedByMarker(name string) bool {
	lower := strings.ToLower(name)
	for _, marker := range r.markers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

func (r Rules) allowedExtension(name string) bool {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	if ext == "" {
		return false
	}
	_, ok := r.extensions[ext]
	return ok
}
