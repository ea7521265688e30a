// Package scroll plans the scroll offset that brings an anchored range into view.
package scroll

import (
	"fmt"

	"github.com/dgallion1/docanchor/internal/anchor"
)

// Viewport describes the scroll container at the moment of planning.
type Viewport struct {
	ScrollY float64 `json:"scrollY"`
	Height  float64 `json:"viewportHeight"`
}

// Rect is a range's bounding box relative to the viewport's top-left corner.
type Rect struct {
	Top    float64 `json:"top"`
	Left   float64 `json:"left"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Measurer is the host layout engine; it measures a live range in the current render.
type Measurer interface {
	BoundingRect(r anchor.LiveRange) (Rect, error)
}

// Target returns the scroll offset that centers a box whose top edge is top
// pixels below the viewport's top edge.
func Target(top float64, vp Viewport) float64 {
	return vp.ScrollY + top - vp.Height/2
}

// Plan measures r and returns its centering scroll target.
func Plan(r anchor.LiveRange, m Measurer, vp Viewport) (float64, error) {
	rect, err := m.BoundingRect(r)
	if err != nil {
		return 0, fmt.Errorf("measure range: %w", err)
	}
	return Target(rect.Top, vp), nil
}
