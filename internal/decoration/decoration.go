// Package decoration turns calculated page breaks into the visual spacers
// that push content to the next page frame inside the single continuous
// editable surface. Spacers are presentation only: they occupy no position
// in the document's address space, so offsets computed by the calculator
// stay valid after decoration. Everything downstream relies on that
// invariant.
package decoration

import "github.com/jobast/palimpsest/internal/paginate"

// Spacer is one non-editable, non-selectable region inserted immediately
// before the content at Position, exactly Height pixels tall.
type Spacer struct {
	Position int
	Height   float64
}

// Sink receives regenerated spacer sets. The editing surface implements it
// over whatever decoration mechanism it has; implementations must replace
// the previous set wholesale.
type Sink interface {
	SetSpacers([]Spacer)
}

// Layer owns the current spacer set for one surface. Regeneration always
// replaces the full set; breaks hold no identity across recalculations, so
// patching individual spacers would only invite drift.
type Layer struct {
	sink    Sink
	spacers []Spacer
}

// NewLayer creates a decoration layer writing to sink. A nil sink keeps the
// spacers readable (for export and tests) without a surface to decorate.
func NewLayer(sink Sink) *Layer {
	return &Layer{sink: sink}
}

// Regenerate rebuilds the spacer set from the break list and pushes it to
// the sink. Negative heights are clamped to zero; a malformed break must not
// poison the whole decoration pass.
func (l *Layer) Regenerate(breaks []paginate.PageBreak) []Spacer {
	spacers := make([]Spacer, 0, len(breaks))
	for _, b := range breaks {
		h := b.SpacerHeight
		if h < 0 {
			h = 0
		}
		spacers = append(spacers, Spacer{Position: b.Position, Height: h})
	}
	l.spacers = spacers
	if l.sink != nil {
		l.sink.SetSpacers(spacers)
	}
	return spacers
}

// Spacers returns the current spacer set.
func (l *Layer) Spacers() []Spacer {
	out := make([]Spacer, len(l.spacers))
	copy(out, l.spacers)
	return out
}

// TotalHeight returns the summed height of all current spacers, the extra
// scroll height decoration adds to the continuous surface.
func (l *Layer) TotalHeight() float64 {
	total := 0.0
	for _, s := range l.spacers {
		total += s.Height
	}
	return total
}
