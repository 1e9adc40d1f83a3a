package filler

// Layout holds the geometry rules of the usage chart. Narrow containers draw
// a full-size ring with labels further out; wide containers shrink the ring.
type Layout struct {
	MaxHeight       float64
	BreakpointWidth float64
	NarrowRatio     float64
	WideRatio       float64
	WideScale       float64
}

// DefaultLayout returns the geometry used by the practice feedback screen.
func DefaultLayout() Layout {
	return Layout{
		MaxHeight:       212,
		BreakpointWidth: 500,
		NarrowRatio:     0.5,
		WideRatio:       0.45,
		WideScale:       0.6,
	}
}

// Narrow reports whether width falls below the breakpoint.
func (l Layout) Narrow(width float64) bool {
	return width < l.BreakpointWidth
}

// ChartSize returns the ring diameter for a container of the given width.
func (l Layout) ChartSize(width float64) float64 {
	if l.Narrow(width) {
		return l.MaxHeight
	}
	return l.MaxHeight * l.WideScale
}

// LabelRadius returns how far labels sit from the center for a container of
// the given size.
func (l Layout) LabelRadius(width, height float64) float64 {
	if l.Narrow(width) {
		return clampRadius(height * l.NarrowRatio)
	}
	return clampRadius(height * l.WideRatio)
}
