package api

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/dgallion1/docanchor/internal/scroll"
)

// handleScroll returns the scroll offset that centers a range the client
// has already measured.
func (s *Server) handleScroll(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Rect     scroll.Rect     `json:"rect"`
		Viewport scroll.Viewport `json:"viewport"`
	}
	if err := json.NewDecoder(io.LimitReader(r.Body, 64<<10)).Decode(&body); err != nil {
		jsonError(w, "invalid json body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if body.Viewport.Height < 0 {
		jsonError(w, "viewportHeight must not be negative", http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, map[string]float64{
		"scrollTo": scroll.Target(body.Rect.Top, body.Viewport),
	})
}
