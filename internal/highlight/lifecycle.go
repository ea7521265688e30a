package highlight

import (
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dgallion1/docanchor/internal/anchor"
)

// State is where a highlight is in its lifecycle. Resolved and Orphaned are
// recomputed on every render and are never persisted.
type State int

const (
	StateCaptured State = iota
	StatePersisted
	StateResolved
	StateOrphaned
)

func (s State) String() string {
	switch s {
	case StateCaptured:
		return "captured"
	case StatePersisted:
		return "persisted"
	case StateResolved:
		return "resolved"
	case StateOrphaned:
		return "orphaned"
	default:
		return "unknown"
	}
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// CaptureInput carries the user-supplied fields of a new highlight.
type CaptureInput struct {
	BookID  string
	Color   Color
	Note    *string
	Chapter Chapter
	Page    int
}

// Capture turns a live selection on s into a new highlight. The range must
// belong to the mounted render, and it must cover some non-whitespace text.
func Capture(s *anchor.Surface, lr anchor.LiveRange, in CaptureInput) (*Highlight, error) {
	sr, err := s.Serialize(lr)
	if err != nil {
		return nil, err
	}
	content := anchor.Text(lr)
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptySelection
	}

	now := time.Now().UTC()
	h := &Highlight{
		ID:        uuid.NewString(),
		BookID:    in.BookID,
		Content:   content,
		Range:     sr,
		Color:     in.Color,
		Kind:      KindText,
		Note:      in.Note,
		Chapter:   in.Chapter,
		Page:      in.Page,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := Validate(h); err != nil {
		return nil, err
	}
	return h, nil
}

// Placement is one highlight's outcome on the current render.
type Placement struct {
	Highlight Highlight
	State     State
	// Range is valid only for StateResolved and only until the next Mount.
	Range anchor.LiveRange
	// Text is the anchored text when resolved, the stored content otherwise.
	Text string
	Err  error
}

func (p Placement) Anchored() bool {
	return p.State == StateResolved
}

// Anchor resolves every highlight against the mounted render. A highlight
// that cannot be resolved is returned orphaned, never dropped. The only error
// is anchor.ErrNotMounted.
func Anchor(s *anchor.Surface, hs []Highlight, log *slog.Logger) ([]Placement, error) {
	if _, _, err := s.Current(); err != nil {
		return nil, err
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	placements := make([]Placement, 0, len(hs))
	for _, h := range hs {
		lr, err := s.Deserialize(h.Range)
		if err != nil {
			if !errors.Is(err, anchor.ErrPathNotFound) {
				return nil, err
			}
			log.Warn("highlight orphaned", "highlight_id", h.ID, "book_id", h.BookID, "error", err)
			placements = append(placements, Placement{
				Highlight: h,
				State:     StateOrphaned,
				Text:      h.Content,
				Err:       err,
			})
			continue
		}
		log.Debug("highlight anchored", "highlight_id", h.ID, "range", h.Range.StartPath.String())
		placements = append(placements, Placement{
			Highlight: h,
			State:     StateResolved,
			Range:     lr,
			Text:      anchor.Text(lr),
		})
	}
	return placements, nil
}
