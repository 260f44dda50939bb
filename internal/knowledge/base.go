// Package knowledge holds the read-only category taxonomy the pipeline
// classifies against, its loaders and the formatter that renders a category
// into a model context document.
package knowledge

import (
	"errors"
	"fmt"
	"strings"

	"ritcompass/internal/models"
)

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrEmptyKey         = errors.New("category key is empty")
	ErrDuplicateKey     = errors.New("duplicate category key")
)

// Base is an immutable, ordered mapping from category key to record.
// It is safe for concurrent use because nothing mutates it after New.
type Base struct {
	keys    []string
	records map[string]models.CategoryRecord
}

// New builds a Base from records, keeping their order. Keys must be unique
// and non-empty.
func New(records []models.CategoryRecord) (*Base, error) {
	b := &Base{
		keys:    make([]string, 0, len(records)),
		records: make(map[string]models.CategoryRecord, len(records)),
	}
	for i, rec := range records {
		key := strings.TrimSpace(rec.Key)
		if key == "" {
			return nil, fmt.Errorf("record %d: %w", i, ErrEmptyKey)
		}
		if _, exists := b.records[key]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateKey, key)
		}
		rec = rec.Clone()
		rec.Key = key
		b.keys = append(b.keys, key)
		b.records[key] = rec
	}
	return b, nil
}

// Get returns the record for key or an error wrapping ErrCategoryNotFound.
func (b *Base) Get(key string) (models.CategoryRecord, error) {
	rec, ok := b.records[key]
	if !ok {
		return models.CategoryRecord{}, fmt.Errorf("%w: %q", ErrCategoryNotFound, key)
	}
	return rec.Clone(), nil
}

// Keys returns category keys in load order.
func (b *Base) Keys() []string {
	return append([]string(nil), b.keys...)
}

// Categories returns all records in load order.
func (b *Base) Categories() []models.CategoryRecord {
	out := make([]models.CategoryRecord, 0, len(b.keys))
	for _, k := range b.keys {
		out = append(out, b.records[k].Clone())
	}
	return out
}

func (b *Base) Len() int {
	return len(b.keys)
}
