// Package pathstoretest provides an in-process pathstore for tests.
package pathstoretest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
)

// KV serves the subset of the pathstore API the client uses: exact keys
// under /kv/ and "/*" prefix scans.
type KV struct {
	mu   sync.Mutex
	data map[string]json.RawMessage
	auth []string
}

// NewServer starts a KV behind an httptest server.
func NewServer() (*httptest.Server, *KV) {
	kv := &KV{data: map[string]json.RawMessage{}}
	return httptest.NewServer(kv), kv
}

// Authorizations returns every Authorization header seen, in order.
func (f *KV) Authorizations() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.auth...)
}

// Len reports the number of stored keys.
func (f *KV) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.data)
}

type node struct {
	Key   string          `json:"key_path"`
	Value json.RawMessage `json:"value"`
}

func (f *KV) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.auth = append(f.auth, r.Header.Get("Authorization"))

	key := strings.TrimPrefix(r.URL.Path, "/kv/")
	switch r.Method {
	case http.MethodPut:
		var req struct {
			Value json.RawMessage `json:"value"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		f.data[key] = req.Value
		w.WriteHeader(http.StatusCreated)
	case http.MethodGet:
		if prefix, ok := strings.CutSuffix(key, "/*"); ok {
			nodes := []node{}
			for k, v := range f.data {
				if strings.HasPrefix(k, prefix+"/") {
					nodes = append(nodes, node{Key: k, Value: v})
				}
			}
			_ = json.NewEncoder(w).Encode(map[string]any{"nodes": nodes})
			return
		}
		v, ok := f.data[key]
		if !ok {
			http.NotFound(w, r)
			return
		}
		_ = json.NewEncoder(w).Encode(node{Key: key, Value: v})
	case http.MethodDelete:
		if _, ok := f.data[key]; !ok {
			http.NotFound(w, r)
			return
		}
		delete(f.data, key)
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}
