package slideshow

// autoplayTimer tracks the live autoplay schedule. The caller owns the actual
// clock and hands back the token it was given on every tick; a cancel
// invalidates every outstanding token.
type autoplayTimer struct {
	token  uint64
	active bool
}

func (t *autoplayTimer) start() {
	t.token++
	t.active = true
}

func (t *autoplayTimer) cancel() {
	if t.active {
		t.token++
	}
	t.active = false
}

// Autoplay returns the live autoplay token and whether autoplay is running
func (e *Engine) Autoplay() (uint64, bool) {
	return e.autoplay.token, e.autoplay.active
}

// AutoplayTick advances one slide if token is still live. It returns false
// once autoplay was cancelled, telling the caller to stop scheduling ticks.
func (e *Engine) AutoplayTick(token uint64) bool {
	if !e.autoplay.active || token != e.autoplay.token || e.state == StateIdle {
		return false
	}
	if e.drag != nil {
		return true
	}
	e.advance(0)
	return true
}

// StopAutoplay cancels autoplay for this engine until the next Load
func (e *Engine) StopAutoplay() {
	e.autoplay.cancel()
}
