// Package store persists highlight records.
//
// Backends only store and return records; they never look at ranges.
// Anchoring happens after load, against the current render.
package store

import (
	"context"
	"errors"
	"slices"
	"strings"

	"github.com/dgallion1/docanchor/internal/highlight"
)

// ErrNotFound is returned when no highlight has the requested ID.
var ErrNotFound = errors.New("highlight not found")

// Store is implemented by every backend.
type Store interface {
	// Put inserts or replaces h.
	Put(ctx context.Context, h *highlight.Highlight) error
	Get(ctx context.Context, id string) (*highlight.Highlight, error)
	// ListByBook returns a book's highlights newest first, optionally
	// limited to one chapter.
	ListByBook(ctx context.Context, bookID string, chapter *int) ([]highlight.Highlight, error)
	UpdateNote(ctx context.Context, id string, note *string) (*highlight.Highlight, error)
	Delete(ctx context.Context, id string) error
	// DeleteByText removes every highlight in the book whose content
	// equals text and reports how many were removed.
	DeleteByText(ctx context.Context, bookID, text string) (int, error)
	Close() error
}

// sortNewestFirst orders by CreatedAt descending, ID breaking ties.
func sortNewestFirst(hs []highlight.Highlight) {
	slices.SortFunc(hs, func(a, b highlight.Highlight) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
}

func inChapter(h *highlight.Highlight, chapter *int) bool {
	return chapter == nil || h.Chapter.Idx == *chapter
}
