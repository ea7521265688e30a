// Package highlight is the reader-facing record built on top of anchor.
package highlight

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/dgallion1/docanchor/internal/anchor"
)

type Kind string

const KindText Kind = "text"

type Color string

const (
	ColorYellow Color = "yellow"
	ColorGreen  Color = "green"
	ColorBlue   Color = "blue"
)

var (
	ErrInvalidHighlight = errors.New("invalid highlight")
	ErrEmptySelection   = errors.New("selection is empty or whitespace")
)

// Chapter locates the rendered document a highlight belongs to.
type Chapter struct {
	Idx   int    `json:"idx" validate:"gte=0"`
	Href  string `json:"href,omitempty"`
	Title string `json:"title,omitempty"`
}

// Highlight is the persisted record. Content is the literal text at capture
// time and is what gets shown when the range can no longer be anchored.
type Highlight struct {
	ID        string                 `json:"id" validate:"required,uuid"`
	BookID    string                 `json:"bookId" validate:"required"`
	Content   string                 `json:"content" validate:"required"`
	Range     anchor.SerializedRange `json:"range"`
	Color     Color                  `json:"color" validate:"required,oneof=yellow green blue"`
	Kind      Kind                   `json:"kind" validate:"required,eq=text"`
	Note      *string                `json:"note"`
	Chapter   Chapter                `json:"chapter"`
	Page      int                    `json:"page,omitempty" validate:"gte=0"`
	CreatedAt time.Time              `json:"createdAt"`
	UpdatedAt time.Time              `json:"updatedAt"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks h against the record's constraints.
func Validate(h *Highlight) error {
	if h == nil {
		return fmt.Errorf("%w: nil", ErrInvalidHighlight)
	}
	err := validate.Struct(h)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidHighlight, err)
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag()))
	}
	return fmt.Errorf("%w: %s", ErrInvalidHighlight, strings.Join(fields, "; "))
}

// ForChapter keeps the highlights that belong to chapter idx, preserving order.
func ForChapter(hs []Highlight, idx int) []Highlight {
	var out []Highlight
	for _, h := range hs {
		if h.Chapter.Idx == idx {
			out = append(out, h)
		}
	}
	return out
}
