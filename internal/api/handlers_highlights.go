package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dgallion1/docanchor/internal/anchor"
	"github.com/dgallion1/docanchor/internal/highlight"
	"github.com/dgallion1/docanchor/internal/render"
	"github.com/dgallion1/docanchor/internal/store"
)

// handleCreateHighlight captures a selection made on an uploaded chapter.
// The selection must resolve against the chapter as rendered here.
func (s *Server) handleCreateHighlight(w http.ResponseWriter, r *http.Request) {
	bookID := chi.URLParam(r, "bookID")
	chapterIdx, ok := chapterParam(w, r)
	if !ok {
		return
	}
	doc, ok := s.readChapter(w, r)
	if !ok {
		return
	}

	var sel anchor.SerializedRange
	if err := json.Unmarshal([]byte(r.FormValue("selection")), &sel); err != nil {
		jsonError(w, "selection must be a serialized range: "+err.Error(), http.StatusBadRequest)
		return
	}

	in := highlight.CaptureInput{
		BookID: bookID,
		Color:  highlight.Color(r.FormValue("color")),
		Chapter: highlight.Chapter{
			Idx:   chapterIdx,
			Href:  r.FormValue("href"),
			Title: r.FormValue("title"),
		},
	}
	if in.Color == "" {
		in.Color = highlight.ColorYellow
	}
	if in.Chapter.Title == "" {
		in.Chapter.Title = doc.Title
	}
	if note := r.FormValue("note"); note != "" {
		in.Note = &note
	}
	if v := r.FormValue("page"); v != "" {
		page, err := strconv.Atoi(v)
		if err != nil {
			jsonError(w, "page must be an integer", http.StatusBadRequest)
			return
		}
		in.Page = page
	}

	surface := anchor.NewSurface()
	surface.Mount(doc.Container())
	lr, err := surface.Deserialize(sel)
	if err != nil {
		jsonError(w, "selection does not resolve in this chapter: "+err.Error(), http.StatusUnprocessableEntity)
		return
	}

	h, err := highlight.Capture(surface, lr, in)
	switch {
	case errors.Is(err, highlight.ErrEmptySelection):
		jsonError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	case errors.Is(err, highlight.ErrInvalidHighlight):
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	case err != nil:
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	// The record keeps the selection as the client captured it. Offsets are
	// clamped only when it is restored.
	h.Range = sel

	if err := s.store.Put(r.Context(), h); err != nil {
		s.log.Error("store highlight", "book_id", bookID, "error", err)
		jsonError(w, "failed to store highlight", http.StatusInternalServerError)
		return
	}
	s.log.Info("highlight captured", "highlight_id", h.ID, "book_id", bookID, "chapter", chapterIdx)

	writeJSON(w, http.StatusCreated, h)
}

func (s *Server) handleListHighlights(w http.ResponseWriter, r *http.Request) {
	bookID := chi.URLParam(r, "bookID")

	var chapter *int
	if v := r.URL.Query().Get("chapter"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			jsonError(w, "chapter must be a non-negative integer", http.StatusBadRequest)
			return
		}
		chapter = &n
	}

	hs, err := s.store.ListByBook(r.Context(), bookID, chapter)
	if err != nil {
		s.log.Error("list highlights", "book_id", bookID, "error", err)
		jsonError(w, "failed to list highlights", http.StatusInternalServerError)
		return
	}
	if hs == nil {
		hs = []highlight.Highlight{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"highlights": hs})
}

func (s *Server) handleUpdateNote(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var body struct {
		Note *string `json:"note"`
	}
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&body); err != nil {
		jsonError(w, "invalid json body: "+err.Error(), http.StatusBadRequest)
		return
	}

	h, err := s.store.UpdateNote(r.Context(), id, body.Note)
	if errors.Is(err, store.ErrNotFound) {
		jsonError(w, "highlight not found", http.StatusNotFound)
		return
	}
	if err != nil {
		s.log.Error("update note", "highlight_id", id, "error", err)
		jsonError(w, "failed to update note", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, h)
}

func (s *Server) handleDeleteHighlight(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	err := s.store.Delete(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		jsonError(w, "highlight not found", http.StatusNotFound)
		return
	}
	if err != nil {
		s.log.Error("delete highlight", "highlight_id", id, "error", err)
		jsonError(w, "failed to delete highlight", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleDeleteByText removes every highlight in a book with the given content.
func (s *Server) handleDeleteByText(w http.ResponseWriter, r *http.Request) {
	bookID := chi.URLParam(r, "bookID")
	text := r.URL.Query().Get("text")
	if text == "" {
		jsonError(w, "text query parameter is required", http.StatusBadRequest)
		return
	}
	n, err := s.store.DeleteByText(r.Context(), bookID, text)
	if err != nil {
		s.log.Error("delete by text", "book_id", bookID, "error", err)
		jsonError(w, "failed to delete highlights", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": n})
}

// readChapter renders the "file" part of a multipart upload. On failure it
// has already written the error response.
func (s *Server) readChapter(w http.ResponseWriter, r *http.Request) (*render.Document, bool) {
	// Limit total request size.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024) // extra 1MB for form overhead

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return nil, false
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return nil, false
	}
	defer file.Close()

	filename := sanitizeFilename(header.Filename)
	rd, err := render.ForFile(filename)
	if err != nil {
		jsonError(w, fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)), http.StatusBadRequest)
		return nil, false
	}
	if pdf, ok := rd.(*render.PDFRenderer); ok {
		pdf.FallbackPdftotext = s.cfg.PDFFallbackPdftotext
	}

	if header.Size > s.cfg.MaxUploadBytes {
		jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
		return nil, false
	}

	doc, err := rd.Render(io.LimitReader(file, s.cfg.MaxUploadBytes), filename)
	if err != nil {
		jsonError(w, "failed to render chapter: "+err.Error(), http.StatusUnprocessableEntity)
		return nil, false
	}
	return doc, true
}

func chapterParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	idx, err := strconv.Atoi(chi.URLParam(r, "chapterIdx"))
	if err != nil || idx < 0 {
		jsonError(w, "chapter index must be a non-negative integer", http.StatusBadRequest)
		return 0, false
	}
	return idx, true
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(name)
	// Remove any path separators that might have survived.
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
