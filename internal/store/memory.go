package store

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/dgallion1/docanchor/internal/highlight"
)

// Memory keeps highlights in a go-cache. A zero ttl keeps them forever.
type Memory struct {
	cache *cache.Cache
}

func NewMemory(ttl time.Duration) *Memory {
	exp := cache.NoExpiration
	if ttl > 0 {
		exp = ttl
	}
	return &Memory{cache: cache.New(exp, 10*time.Minute)}
}

func (m *Memory) Put(_ context.Context, h *highlight.Highlight) error {
	if err := highlight.Validate(h); err != nil {
		return err
	}
	cp := *h
	m.cache.Set(h.ID, &cp, cache.DefaultExpiration)
	return nil
}

func (m *Memory) Get(_ context.Context, id string) (*highlight.Highlight, error) {
	x, found := m.cache.Get(id)
	if !found {
		return nil, ErrNotFound
	}
	cp := *x.(*highlight.Highlight)
	return &cp, nil
}

func (m *Memory) ListByBook(_ context.Context, bookID string, chapter *int) ([]highlight.Highlight, error) {
	var out []highlight.Highlight
	for _, item := range m.cache.Items() {
		h := item.Object.(*highlight.Highlight)
		if h.BookID == bookID && inChapter(h, chapter) {
			out = append(out, *h)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (m *Memory) UpdateNote(ctx context.Context, id string, note *string) (*highlight.Highlight, error) {
	h, err := m.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	h.Note = note
	h.UpdatedAt = time.Now().UTC()
	m.cache.Set(id, h, cache.DefaultExpiration)
	cp := *h
	return &cp, nil
}

func (m *Memory) Delete(_ context.Context, id string) error {
	if _, found := m.cache.Get(id); !found {
		return ErrNotFound
	}
	m.cache.Delete(id)
	return nil
}

func (m *Memory) DeleteByText(_ context.Context, bookID, text string) (int, error) {
	n := 0
	for id, item := range m.cache.Items() {
		h := item.Object.(*highlight.Highlight)
		if h.BookID == bookID && h.Content == text {
			m.cache.Delete(id)
			n++
		}
	}
	return n, nil
}

func (m *Memory) Close() error {
	m.cache.Flush()
	return nil
}
