package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dgallion1/docanchor/internal/anchor"
	"github.com/dgallion1/docanchor/internal/highlight"
)

type segmentResponse struct {
	Path  anchor.Path `json:"path"`
	Start int         `json:"start"`
	End   int         `json:"end"`
}

type placementResponse struct {
	Highlight highlight.Highlight `json:"highlight"`
	State     highlight.State     `json:"state"`
	Text      string              `json:"text"`
	Segments  []segmentResponse   `json:"segments,omitempty"`
	Error     string              `json:"error,omitempty"`
}

// handleAnchorChapter renders an uploaded chapter and resolves the book's
// stored highlights for that chapter against it. Each resolved highlight is
// returned with the text-node segments to paint; unresolvable ones come back
// orphaned with their stored content.
func (s *Server) handleAnchorChapter(w http.ResponseWriter, r *http.Request) {
	bookID := chi.URLParam(r, "bookID")
	chapterIdx, ok := chapterParam(w, r)
	if !ok {
		return
	}
	doc, ok := s.readChapter(w, r)
	if !ok {
		return
	}

	hs, err := s.store.ListByBook(r.Context(), bookID, &chapterIdx)
	if err != nil {
		s.log.Error("list highlights", "book_id", bookID, "error", err)
		jsonError(w, "failed to load highlights", http.StatusInternalServerError)
		return
	}

	container := doc.Container()
	surface := anchor.NewSurface()
	gen := surface.Mount(container)

	placements, err := highlight.Anchor(surface, hs, s.log.With("book_id", bookID, "chapter", chapterIdx))
	if err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	resp := make([]placementResponse, 0, len(placements))
	orphaned := 0
	for _, p := range placements {
		pr := placementResponse{Highlight: p.Highlight, State: p.State, Text: p.Text}
		if p.Anchored() {
			for _, seg := range anchor.Segments(p.Range) {
				pr.Segments = append(pr.Segments, segmentResponse{
					Path:  anchor.Encode(seg.Node, container),
					Start: seg.Start,
					End:   seg.End,
				})
			}
		} else {
			orphaned++
			pr.Error = p.Err.Error()
		}
		resp = append(resp, pr)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"title":      doc.Title,
		"generation": gen,
		"placements": resp,
		"resolved":   len(placements) - orphaned,
		"orphaned":   orphaned,
	})
}
