package slideshow

// SwipeThreshold is the drag distance in pixels that commits a swipe
const SwipeThreshold = 100

// dragState is the transient state of one drag gesture
type dragState struct {
	startX int
	lastX  int
	moved  bool
}

// liveDrag is the in-progress drag distance, positive when dragging right
func (e *Engine) liveDrag() int {
	if e.drag == nil || !e.drag.moved {
		return 0
	}
	return e.drag.lastX - e.drag.startX
}

// Dragging reports whether a gesture is in progress
func (e *Engine) Dragging() bool {
	return e.drag != nil
}

// TouchStart begins a drag at horizontal coordinate x. Any loop boundary is
// settled first so a neighbor is available on both sides.
func (e *Engine) TouchStart(x int) {
	if e.state == StateIdle {
		return
	}
	e.autoplay.cancel()
	e.SettleLoopBoundary(true)
	e.drag = &dragState{startX: x, lastX: x}
}

// TouchMove follows the pointer, rendering the strip under it without animation
func (e *Engine) TouchMove(x int) {
	if e.drag == nil {
		return
	}
	e.drag.lastX = x
	e.drag.moved = true
	e.emit(false, 0, false)
}

// TouchEnd finishes the gesture: a drag of at least SwipeThreshold commits
// to the adjacent slide, anything shorter snaps back to the current one.
func (e *Engine) TouchEnd() {
	if e.drag == nil {
		return
	}
	d := e.liveDrag()
	moved := e.drag.moved
	e.drag = nil
	if !moved {
		// A tap can land after the move it interrupted has arrived; replay
		// that move so the view still reports its end
		if e.state == StateTransitioning {
			e.animate(0)
		}
		return
	}

	committed := false
	if abs(d) >= SwipeThreshold {
		if d < 0 {
			committed = e.advance(d)
		} else {
			committed = e.retreat(d)
		}
	}
	if !committed {
		e.animate(0)
	}
}
