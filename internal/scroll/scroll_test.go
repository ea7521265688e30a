package scroll

import (
	"errors"
	"testing"

	"github.com/dgallion1/docanchor/internal/anchor"
	"github.com/dgallion1/docanchor/internal/doctree"
)

type fixedMeasurer struct {
	rect Rect
	err  error
	got  anchor.LiveRange
}

func (m *fixedMeasurer) BoundingRect(r anchor.LiveRange) (Rect, error) {
	m.got = r
	return m.rect, m.err
}

func TestTarget(t *testing.T) {
	tests := []struct {
		name string
		top  float64
		vp   Viewport
		want float64
	}{
		{"range below viewport", 800, Viewport{ScrollY: 200, Height: 600}, 700},
		{"range at viewport top", 0, Viewport{ScrollY: 1000, Height: 800}, 600},
		{"range above viewport", -400, Viewport{ScrollY: 1000, Height: 600}, 300},
		{"near document start", 100, Viewport{ScrollY: 0, Height: 600}, -200},
	}
	for _, tt := range tests {
		if got := Target(tt.top, tt.vp); got != tt.want {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.want, got)
		}
	}
}

func TestPlan_UsesMeasuredTop(t *testing.T) {
	txt := doctree.NewText("hello world")
	lr := anchor.LiveRange{StartNode: txt, EndNode: txt, EndOffset: 5}
	m := &fixedMeasurer{rect: Rect{Top: 800, Height: 20}}

	got, err := Plan(lr, m, Viewport{ScrollY: 200, Height: 600})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 700 {
		t.Errorf("expected 700, got %v", got)
	}
	if m.got.EndOffset != 5 {
		t.Errorf("expected measurer to receive the range")
	}
}

func TestPlan_MeasureError(t *testing.T) {
	boom := errors.New("not laid out")
	_, err := Plan(anchor.LiveRange{}, &fixedMeasurer{err: boom}, Viewport{})
	if !errors.Is(err, boom) {
		t.Errorf("expected wrapped measure error, got %v", err)
	}
}
