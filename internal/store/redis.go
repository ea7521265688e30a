package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dgallion1/docanchor/internal/highlight"
)

const redisPrefix = "docanchor:"

// Redis stores each highlight as a JSON string and keeps a per-book set of IDs.
type Redis struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedis connects using a redis:// URL, falling back to treating the value
// as a plain address.
func NewRedis(ctx context.Context, redisURL string, ttl time.Duration) (*Redis, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		opt = &redis.Options{Addr: redisURL}
	}
	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &Redis{rdb: rdb, ttl: ttl}, nil
}

func highlightKey(id string) string { return redisPrefix + "highlight:" + id }

func bookKey(bookID string) string { return redisPrefix + "book:" + bookID + ":highlights" }

func (r *Redis) Put(ctx context.Context, h *highlight.Highlight) error {
	if err := highlight.Validate(h); err != nil {
		return err
	}
	data, err := json.Marshal(h)
	if err != nil {
		return fmt.Errorf("marshal highlight: %w", err)
	}
	_, err = r.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, highlightKey(h.ID), data, r.ttl)
		p.SAdd(ctx, bookKey(h.BookID), h.ID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("put highlight %s: %w", h.ID, err)
	}
	return nil
}

func (r *Redis) Get(ctx context.Context, id string) (*highlight.Highlight, error) {
	data, err := r.rdb.Get(ctx, highlightKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get highlight %s: %w", id, err)
	}
	var h highlight.Highlight
	if err := json.Unmarshal(data, &h); err != nil {
		return nil, fmt.Errorf("decode highlight %s: %w", id, err)
	}
	return &h, nil
}

func (r *Redis) ListByBook(ctx context.Context, bookID string, chapter *int) ([]highlight.Highlight, error) {
	ids, err := r.rdb.SMembers(ctx, bookKey(bookID)).Result()
	if err != nil {
		return nil, fmt.Errorf("list book %s: %w", bookID, err)
	}
	if len(ids) == 0 {
		return nil, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = highlightKey(id)
	}
	vals, err := r.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("load book %s: %w", bookID, err)
	}

	var out []highlight.Highlight
	var expired []any
	for i, v := range vals {
		s, ok := v.(string)
		if !ok {
			expired = append(expired, ids[i])
			continue
		}
		var h highlight.Highlight
		if err := json.Unmarshal([]byte(s), &h); err != nil {
			return nil, fmt.Errorf("decode highlight %s: %w", ids[i], err)
		}
		if inChapter(&h, chapter) {
			out = append(out, h)
		}
	}
	if len(expired) > 0 {
		r.rdb.SRem(ctx, bookKey(bookID), expired...)
	}
	sortNewestFirst(out)
	return out, nil
}

func (r *Redis) UpdateNote(ctx context.Context, id string, note *string) (*highlight.Highlight, error) {
	h, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	h.Note = note
	h.UpdatedAt = time.Now().UTC()
	if err := r.Put(ctx, h); err != nil {
		return nil, err
	}
	return h, nil
}

func (r *Redis) Delete(ctx context.Context, id string) error {
	h, err := r.Get(ctx, id)
	if err != nil {
		return err
	}
	return r.remove(ctx, h.BookID, id)
}

func (r *Redis) DeleteByText(ctx context.Context, bookID, text string) (int, error) {
	hs, err := r.ListByBook(ctx, bookID, nil)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, h := range hs {
		if h.Content != text {
			continue
		}
		if err := r.remove(ctx, bookID, h.ID); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

func (r *Redis) remove(ctx context.Context, bookID, id string) error {
	_, err := r.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Del(ctx, highlightKey(id))
		p.SRem(ctx, bookKey(bookID), id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete highlight %s: %w", id, err)
	}
	return nil
}

func (r *Redis) Close() error {
	return r.rdb.Close()
}
