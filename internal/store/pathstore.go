package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dgallion1/docanchor/internal/highlight"
	"github.com/dgallion1/docanchor/internal/pathstore"
)

// Pathstore keeps highlights in a pathstore key space:
//
//	docanchor/books/{bookID}/highlights/{id}  the record
//	docanchor/ids/{id}                        the owning book ID
type Pathstore struct {
	client *pathstore.Client
	ttl    time.Duration
}

func NewPathstore(client *pathstore.Client, ttl time.Duration) *Pathstore {
	return &Pathstore{client: client, ttl: ttl}
}

func bookPrefix(bookID string) string { return "docanchor/books/" + bookID + "/highlights" }

func recordKey(bookID, id string) string { return bookPrefix(bookID) + "/" + id }

func indexKey(id string) string { return "docanchor/ids/" + id }

func (p *Pathstore) node(value any) pathstore.NodeRequest {
	req := pathstore.NodeRequest{Value: value, MergeMode: "replace", Source: "docanchor"}
	if p.ttl > 0 {
		req.ExpiresAt = time.Now().Add(p.ttl).UTC().Format(time.RFC3339)
	}
	return req
}

func (p *Pathstore) Put(ctx context.Context, h *highlight.Highlight) error {
	if err := highlight.Validate(h); err != nil {
		return err
	}
	if err := p.client.PutNode(ctx, recordKey(h.BookID, h.ID), p.node(h)); err != nil {
		return err
	}
	return p.client.PutNode(ctx, indexKey(h.ID), p.node(h.BookID))
}

func (p *Pathstore) Get(ctx context.Context, id string) (*highlight.Highlight, error) {
	idx, err := p.client.GetNode(ctx, indexKey(id))
	if errors.Is(err, pathstore.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var bookID string
	if err := json.Unmarshal(idx.Value, &bookID); err != nil {
		return nil, fmt.Errorf("decode index for %s: %w", id, err)
	}
	node, err := p.client.GetNode(ctx, recordKey(bookID, id))
	if errors.Is(err, pathstore.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return decodeNode(node)
}

func decodeNode(n *pathstore.Node) (*highlight.Highlight, error) {
	var h highlight.Highlight
	if err := json.Unmarshal(n.Value, &h); err != nil {
		return nil, fmt.Errorf("decode %s: %w", n.Key, err)
	}
	return &h, nil
}

func (p *Pathstore) ListByBook(ctx context.Context, bookID string, chapter *int) ([]highlight.Highlight, error) {
	nodes, err := p.client.ListChildren(ctx, bookPrefix(bookID), 0)
	if err != nil {
		return nil, err
	}
	var out []highlight.Highlight
	for i := range nodes {
		h, err := decodeNode(&nodes[i])
		if err != nil {
			return nil, err
		}
		if inChapter(h, chapter) {
			out = append(out, *h)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (p *Pathstore) UpdateNote(ctx context.Context, id string, note *string) (*highlight.Highlight, error) {
	h, err := p.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	h.Note = note
	h.UpdatedAt = time.Now().UTC()
	if err := p.client.PutNode(ctx, recordKey(h.BookID, h.ID), p.node(h)); err != nil {
		return nil, err
	}
	return h, nil
}

func (p *Pathstore) Delete(ctx context.Context, id string) error {
	h, err := p.Get(ctx, id)
	if err != nil {
		return err
	}
	return p.remove(ctx, h.BookID, id)
}

func (p *Pathstore) DeleteByText(ctx context.Context, bookID, text string) (int, error) {
	hs, err := p.ListByBook(ctx, bookID, nil)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, h := range hs {
		if h.Content != text {
			continue
		}
		if err := p.remove(ctx, bookID, h.ID); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

func (p *Pathstore) remove(ctx context.Context, bookID, id string) error {
	if err := p.client.DeleteNode(ctx, recordKey(bookID, id), false); err != nil {
		return err
	}
	return p.client.DeleteNode(ctx, indexKey(id), false)
}

func (p *Pathstore) Close() error {
	p.client.Close()
	return nil
}
