package api

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgallion1/docanchor/internal/anchor"
	"github.com/dgallion1/docanchor/internal/config"
	"github.com/dgallion1/docanchor/internal/highlight"
	"github.com/dgallion1/docanchor/internal/store"
)

const testKey = "test-key"

const chapterHTML = `<html><head><title>Chapter 1</title></head><body><p>It was a bright cold day in April,</p><p>and the clocks were striking thirteen.</p></body></html>`

// The same chapter after an edit inserted a leading paragraph.
const editedHTML = `<html><body><p>Epigraph.</p><p>It was a bright cold day in April,</p><p>and the clocks were striking thirteen.</p></body></html>`

func newTestServer(t *testing.T) (*Server, store.Store) {
	t.Helper()
	st := store.NewMemory(0)
	t.Cleanup(func() { st.Close() })
	cfg := config.Config{APIKey: testKey, MaxUploadBytes: 1 << 20, StoreBackend: config.BackendMemory}
	return NewServer(st, slog.New(slog.DiscardHandler), cfg), st
}

func do(t *testing.T, s *Server, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	req.Header.Set("Authorization", "Bearer "+testKey)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func chapterUpload(t *testing.T, url, filename, content string, fields map[string]string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, url, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func createHighlight(t *testing.T, s *Server, selection string) highlight.Highlight {
	t.Helper()
	rec := do(t, s, chapterUpload(t, "/api/books/book-1/chapters/0/highlights", "ch01.html", chapterHTML, map[string]string{
		"selection": selection,
		"color":     "green",
		"note":      "opening",
		"page":      "3",
	}))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var h highlight.Highlight
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &h))
	return h
}

func TestHealth_NoAuth(t *testing.T) {
	s, _ := newTestServer(t)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestAuth(t *testing.T) {
	s, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/books/b/highlights", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/books/b/highlights", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateHighlight(t *testing.T) {
	s, _ := newTestServer(t)

	// body > p[0] > text, "bright cold day"
	h := createHighlight(t, s, `{"startContainerPath":[0,0],"startOffset":9,"endContainerPath":[0,0],"endOffset":24}`)
	assert.Equal(t, "bright cold day", h.Content)
	assert.Equal(t, "book-1", h.BookID)
	assert.Equal(t, highlight.ColorGreen, h.Color)
	assert.Equal(t, "Chapter 1", h.Chapter.Title)
	assert.Equal(t, 3, h.Page)
	require.NotNil(t, h.Note)
	assert.Equal(t, "opening", *h.Note)
}

func TestCreateHighlight_KeepsSubmittedOffsets(t *testing.T) {
	s, st := newTestServer(t)

	// endOffset overshoots the 34-unit paragraph as rendered here.
	h := createHighlight(t, s, `{"startContainerPath":[0,0],"startOffset":9,"endContainerPath":[0,0],"endOffset":500}`)
	assert.Equal(t, "bright cold day in April,", h.Content)
	assert.Equal(t, 500, h.Range.EndOffset)

	stored, err := st.Get(context.Background(), h.ID)
	require.NoError(t, err)
	assert.Equal(t, 9, stored.Range.StartOffset)
	assert.Equal(t, 500, stored.Range.EndOffset)
	assert.Equal(t, anchor.Path{0, 0}, stored.Range.EndPath)
}

func TestCreateHighlight_Rejections(t *testing.T) {
	s, _ := newTestServer(t)

	tests := []struct {
		name   string
		fields map[string]string
		file   string
		code   int
	}{
		{"unresolvable selection", map[string]string{
			"selection": `{"startContainerPath":[9],"startOffset":0,"endContainerPath":[0,0],"endOffset":2}`,
		}, "ch.html", http.StatusUnprocessableEntity},
		{"malformed selection", map[string]string{"selection": `nope`}, "ch.html", http.StatusBadRequest},
		{"bad color", map[string]string{
			"selection": `{"startContainerPath":[0,0],"startOffset":0,"endContainerPath":[0,0],"endOffset":2}`,
			"color":     "purple",
		}, "ch.html", http.StatusBadRequest},
		{"collapsed selection", map[string]string{
			"selection": `{"startContainerPath":[0,0],"startOffset":4,"endContainerPath":[0,0],"endOffset":4}`,
		}, "ch.html", http.StatusUnprocessableEntity},
		{"unsupported file", map[string]string{"selection": `{}`}, "ch.epub", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, chapterUpload(t, "/api/books/b/chapters/0/highlights", tt.file, chapterHTML, tt.fields))
			assert.Equal(t, tt.code, rec.Code, rec.Body.String())
		})
	}

	rec := do(t, s, chapterUpload(t, "/api/books/b/chapters/x/highlights", "ch.html", chapterHTML, nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListUpdateDelete(t *testing.T) {
	s, _ := newTestServer(t)
	h := createHighlight(t, s, `{"startContainerPath":[1,0],"startOffset":8,"endContainerPath":[1,0],"endOffset":14}`)
	assert.Equal(t, "clocks", h.Content)

	rec := do(t, s, httptest.NewRequest(http.MethodGet, "/api/books/book-1/highlights?chapter=0", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Highlights []highlight.Highlight `json:"highlights"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list.Highlights, 1)

	rec = do(t, s, httptest.NewRequest(http.MethodGet, "/api/books/book-1/highlights?chapter=4", nil))
	assert.JSONEq(t, `{"highlights":[]}`, rec.Body.String())

	rec = do(t, s, httptest.NewRequest(http.MethodGet, "/api/books/book-1/highlights?chapter=-1", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, httptest.NewRequest(http.MethodPut, "/api/highlights/"+h.ID+"/note", strings.NewReader(`{"note":"thirteen!"}`)))
	require.Equal(t, http.StatusOK, rec.Code)
	var updated highlight.Highlight
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	require.NotNil(t, updated.Note)
	assert.Equal(t, "thirteen!", *updated.Note)

	rec = do(t, s, httptest.NewRequest(http.MethodDelete, "/api/highlights/"+h.ID, nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, s, httptest.NewRequest(http.MethodDelete, "/api/highlights/"+h.ID, nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, s, httptest.NewRequest(http.MethodPut, "/api/highlights/"+h.ID+"/note", strings.NewReader(`{"note":null}`)))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteByText(t *testing.T) {
	s, _ := newTestServer(t)
	sel := `{"startContainerPath":[0,0],"startOffset":9,"endContainerPath":[0,0],"endOffset":24}`
	createHighlight(t, s, sel)
	createHighlight(t, s, sel)

	rec := do(t, s, httptest.NewRequest(http.MethodDelete, "/api/books/book-1/highlights", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, httptest.NewRequest(http.MethodDelete, "/api/books/book-1/highlights?text=bright+cold+day", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"deleted":2}`, rec.Body.String())
}

func TestAnchorChapter(t *testing.T) {
	s, _ := newTestServer(t)
	// Crosses from the first paragraph into the second.
	h := createHighlight(t, s, `{"startContainerPath":[0,0],"startOffset":28,"endContainerPath":[1,0],"endOffset":3}`)
	assert.Equal(t, "April,and", h.Content)

	type resp struct {
		Resolved   int `json:"resolved"`
		Orphaned   int `json:"orphaned"`
		Placements []struct {
			State    string `json:"state"`
			Text     string `json:"text"`
			Error    string `json:"error"`
			Segments []struct {
				Path  []int `json:"path"`
				Start int   `json:"start"`
				End   int   `json:"end"`
			} `json:"segments"`
		} `json:"placements"`
	}

	t.Run("same render resolves", func(t *testing.T) {
		rec := do(t, s, chapterUpload(t, "/api/books/book-1/chapters/0/anchor", "ch01.html", chapterHTML, nil))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var got resp
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, 1, got.Resolved)
		require.Len(t, got.Placements, 1)
		p := got.Placements[0]
		assert.Equal(t, "resolved", p.State)
		assert.Equal(t, "April,and", p.Text)
		require.Len(t, p.Segments, 2)
		assert.Equal(t, []int{0, 0}, p.Segments[0].Path)
		assert.Equal(t, 28, p.Segments[0].Start)
		assert.Equal(t, []int{1, 0}, p.Segments[1].Path)
		assert.Equal(t, 3, p.Segments[1].End)
	})

	t.Run("shape change shifts the anchor", func(t *testing.T) {
		rec := do(t, s, chapterUpload(t, "/api/books/book-1/chapters/0/anchor", "ch01.html", editedHTML, nil))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var got resp
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		require.Len(t, got.Placements, 1)
		// Paths are positional: the stored path now lands on different text.
		assert.Equal(t, "resolved", got.Placements[0].State)
		assert.NotEqual(t, "April,and", got.Placements[0].Text)
	})

	t.Run("missing nodes orphan", func(t *testing.T) {
		rec := do(t, s, chapterUpload(t, "/api/books/book-1/chapters/0/anchor", "ch01.txt", "one paragraph only", nil))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var got resp
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, 1, got.Orphaned)
		require.Len(t, got.Placements, 1)
		assert.Equal(t, "orphaned", got.Placements[0].State)
		assert.Equal(t, "April,and", got.Placements[0].Text, "orphans keep their stored content")
		assert.Contains(t, got.Placements[0].Error, "end boundary")
	})
}

func TestScroll(t *testing.T) {
	s, _ := newTestServer(t)

	rec := do(t, s, httptest.NewRequest(http.MethodPost, "/api/scroll",
		strings.NewReader(`{"rect":{"top":500,"left":0,"width":10,"height":20},"viewport":{"scrollY":600,"viewportHeight":800}}`)))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"scrollTo":700}`, rec.Body.String())

	rec = do(t, s, httptest.NewRequest(http.MethodPost, "/api/scroll", strings.NewReader(`{`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "ch01.html", sanitizeFilename("../../etc/ch01.html"))
	assert.Equal(t, "unnamed", sanitizeFilename(""))
}
