package pathstore_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgallion1/docanchor/internal/pathstore"
	"github.com/dgallion1/docanchor/internal/pathstore/pathstoretest"
)

func TestClient_PutGetDelete(t *testing.T) {
	srv, kv := pathstoretest.NewServer()
	defer srv.Close()

	c := pathstore.NewClient(srv.URL, "secret")
	defer c.Close()
	ctx := context.Background()

	require.NoError(t, c.PutNode(ctx, "books/b1/h1", pathstore.NodeRequest{Value: map[string]int{"n": 1}}))

	node, err := c.GetNode(ctx, "books/b1/h1")
	require.NoError(t, err)
	assert.Equal(t, "books/b1/h1", node.Key)
	assert.JSONEq(t, `{"n":1}`, string(node.Value))

	nodes, err := c.ListChildren(ctx, "books/b1", 10)
	require.NoError(t, err)
	assert.Len(t, nodes, 1)

	require.NoError(t, c.DeleteNode(ctx, "books/b1/h1", false))
	require.NoError(t, c.DeleteNode(ctx, "books/b1/h1", false), "missing keys delete cleanly")

	_, err = c.GetNode(ctx, "books/b1/h1")
	assert.ErrorIs(t, err, pathstore.ErrNotFound)

	assert.Equal(t, "Bearer secret", kv.Authorizations()[0])
	assert.Equal(t, 0, kv.Len())
}

func TestClient_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := pathstore.NewClient(srv.URL, "k")
	c.SetRetryPolicy(0, 0)
	err := c.PutNode(context.Background(), "x", pathstore.NodeRequest{Value: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
	assert.Contains(t, err.Error(), "boom")
}

func TestClient_RetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, "busy", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c := pathstore.NewClient(srv.URL, "k")
	c.SetRetryPolicy(3, time.Millisecond)
	require.NoError(t, c.PutNode(context.Background(), "x", pathstore.NodeRequest{Value: 1}))
	assert.Equal(t, int32(3), calls.Load())
}

func TestClient_GivesUpAfterMaxRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := pathstore.NewClient(srv.URL, "k")
	c.SetRetryPolicy(2, time.Millisecond)
	_, err := c.GetNode(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 502")
	assert.Equal(t, int32(3), calls.Load())
}

func TestBackoff(t *testing.T) {
	for attempt := range 4 {
		d := pathstore.Backoff(100*time.Millisecond, attempt)
		floor := 100 * time.Millisecond << uint(attempt)
		assert.GreaterOrEqual(t, d, floor)
		assert.LessOrEqual(t, d, floor+floor/2+1)
	}
	assert.LessOrEqual(t, pathstore.Backoff(time.Second, 20), 45*time.Second)
}
