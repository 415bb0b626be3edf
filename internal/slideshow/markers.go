package slideshow

// Marker is one pagination indicator, one per real post
type Marker struct {
	Index  int
	Active bool
}

func newMarkers(n int) []Marker {
	markers := make([]Marker, n)
	for i := range markers {
		markers[i].Index = i
	}
	if n > 0 {
		markers[0].Active = true
	}
	return markers
}

// Markers returns a copy of the pagination markers
func (e *Engine) Markers() []Marker {
	out := make([]Marker, len(e.markers))
	copy(out, e.markers)
	return out
}

// ActiveMarker returns the index of the active marker, or -1 when idle
func (e *Engine) ActiveMarker() int {
	for _, m := range e.markers {
		if m.Active {
			return m.Index
		}
	}
	return -1
}

// MarkerFor translates an internal slide index to marker space
func (e *Engine) MarkerFor(index int) int {
	return e.markerFor(index)
}

// markerFor maps an internal index to the marker of the post it shows.
// With infinite loop the strip is offset by the leading clone and wraps:
// index 0 is the last post, index N+1 the first, N+2 the second.
func (e *Engine) markerFor(index int) int {
	n := len(e.markers)
	if n == 0 {
		return -1
	}
	if !e.opts.InfiniteLoop {
		return index
	}
	return ((index-1)%n + n) % n
}

// recomputeMarker moves the active flag from the marker of prev to the
// marker of next
func (e *Engine) recomputeMarker(prev, next int) {
	p, n := e.markerFor(prev), e.markerFor(next)
	if p >= 0 && p < len(e.markers) {
		e.markers[p].Active = false
	}
	if n >= 0 && n < len(e.markers) {
		e.markers[n].Active = true
	}
}
