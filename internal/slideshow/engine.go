package slideshow

import (
	"fmt"
	"time"

	"github.com/mmcdole/postdeck/internal/domain"
)

// State is the engine lifecycle state
type State int

const (
	StateIdle          State = iota // no slides rendered yet
	StateReady                      // slides rendered, index settled
	StateTransitioning              // an animated move is in flight
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateReady:
		return "ready"
	case StateTransitioning:
		return "transitioning"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Options configures one engine. InfiniteLoop, Autoplay and Interval are
// fixed for the engine's lifetime.
type Options struct {
	Transition   time.Duration // duration of an animated move
	InfiniteLoop bool
	Autoplay     bool
	Interval     time.Duration // autoplay period, required when Autoplay is set
}

// Validate reports missing or out of range options
func (o Options) Validate() error {
	if o.Transition < 0 {
		return fmt.Errorf("%w: negative transition %s", domain.ErrInvalidConfiguration, o.Transition)
	}
	if o.Autoplay && o.Interval <= 0 {
		return fmt.Errorf("%w: autoplay requires a positive interval", domain.ErrInvalidConfiguration)
	}
	return nil
}

// Slide is one renderable unit of the strip
type Slide struct {
	Post   domain.Post
	Marker int  // marker of the real post this slide shows
	Clone  bool // boundary duplicate used for the loop illusion
}

// Frame describes where the slide strip should be drawn
type Frame struct {
	Offset   int           // index*width - drag, in pixels
	Duration time.Duration // animation length when Animated
	Animated bool
	Settle   bool // unanimated loop boundary snap; jump, do not animate
}

// Engine is the slide position state machine. It is not safe for concurrent
// use; all calls are expected from a single event loop.
type Engine struct {
	opts  Options
	state State

	slides  []Slide
	markers []Marker
	index   int
	width   int

	drag     *dragState
	autoplay autoplayTimer

	frame   Frame
	onFrame func(Frame)
}

// NewEngine creates an idle engine for a viewport of width pixels
func NewEngine(opts Options, width int) (*Engine, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Engine{opts: opts, width: width}, nil
}

// OnFrame registers fn to receive every emitted frame
func (e *Engine) OnFrame(fn func(Frame)) {
	e.onFrame = fn
}

// Options returns the engine configuration
func (e *Engine) Options() Options { return e.opts }

// State returns the lifecycle state
func (e *Engine) State() State { return e.state }

// Index returns the current internal slide index
func (e *Engine) Index() int { return e.index }

// Total returns the slide count, clones included
func (e *Engine) Total() int { return len(e.slides) }

// Width returns the viewport width in pixels
func (e *Engine) Width() int { return e.width }

// Frame returns the most recently emitted frame
func (e *Engine) Frame() Frame { return e.frame }

// Slides returns the slide strip in display order
func (e *Engine) Slides() []Slide { return e.slides }

// Current returns the slide at the current index
func (e *Engine) Current() (Slide, bool) {
	if e.index < 0 || e.index >= len(e.slides) {
		return Slide{}, false
	}
	return e.slides[e.index], true
}

// PostCount returns the number of real posts
func (e *Engine) PostCount() int { return len(e.markers) }

// Load renders posts into slides and markers and makes the engine Ready.
// Zero posts leave the engine Idle and return domain.ErrEmptyResultSet.
func (e *Engine) Load(posts []domain.Post) error {
	e.Reset()
	if len(posts) == 0 {
		return domain.ErrEmptyResultSet
	}

	slides := make([]Slide, 0, len(posts)+2)
	for i, p := range posts {
		slides = append(slides, Slide{Post: p, Marker: i})
	}

	e.index = 0
	if e.opts.InfiniteLoop {
		first := slides[0]
		last := slides[len(slides)-1]
		first.Clone = true
		last.Clone = true
		slides = append([]Slide{last}, append(slides, first)...)
		e.index = 1
	}

	e.slides = slides
	e.markers = newMarkers(len(posts))
	e.state = StateReady
	e.emit(false, 0, false)

	if e.opts.Autoplay {
		e.autoplay.start()
	}
	return nil
}

// Reset discards slides and markers, cancels autoplay and returns to Idle
func (e *Engine) Reset() {
	e.slides = nil
	e.markers = nil
	e.index = 0
	e.drag = nil
	e.autoplay.cancel()
	e.state = StateIdle
	e.emit(false, 0, false)
}

// Advance moves one slide forward. user marks a user initiated move, which
// cancels autoplay. drag carries the leftover swipe distance so the finish
// animation is shortened. Returns false when the move is not possible.
func (e *Engine) Advance(user bool, drag int) bool {
	if e.state == StateIdle {
		return false
	}
	if user {
		e.autoplay.cancel()
	}
	return e.advance(drag)
}

func (e *Engine) advance(drag int) bool {
	if e.index == len(e.slides)-1 {
		if !e.opts.InfiniteLoop {
			return false
		}
		// On the trailing clone: jump the strip back to the real first
		// slide without animation, then keep moving forward from there.
		e.SettleLoopBoundary(false)
	}

	e.recomputeMarker(e.index, e.index+1)
	e.index++
	e.animate(drag)
	return true
}

// Retreat moves one slide backward. Retreating is always a user action.
func (e *Engine) Retreat(drag int) bool {
	if e.state == StateIdle {
		return false
	}
	e.autoplay.cancel()
	return e.retreat(drag)
}

func (e *Engine) retreat(drag int) bool {
	if e.index == 0 {
		if !e.opts.InfiniteLoop {
			return false
		}
		e.SettleLoopBoundary(false)
	}

	e.recomputeMarker(e.index, e.index-1)
	e.index--
	e.animate(drag)
	return true
}

// JumpTo navigates to the slide for marker. With infinite loop, jumps to a
// neighbor (including across either boundary) go through Advance/Retreat so
// the loop path is taken.
func (e *Engine) JumpTo(marker int) bool {
	if e.state == StateIdle || marker < 0 || marker >= len(e.markers) {
		return false
	}
	e.autoplay.cancel()

	if e.markerFor(e.index) == marker {
		// Already showing it; just re-center
		e.animate(0)
		return false
	}

	target := marker
	if e.opts.InfiniteLoop {
		target = marker + 1
		total := len(e.slides)
		if target == e.index+1 ||
			(e.index == total-1 && target == 2) ||
			(e.index == total-2 && target == 1) {
			return e.advance(0)
		}
		if target == e.index-1 || (e.index == 1 && target == total-2) {
			return e.retreat(0)
		}
	}

	e.recomputeMarker(e.index, target)
	e.index = target
	e.animate(0)
	return true
}

// TransitionEnd reports that the last animated move has visually finished
func (e *Engine) TransitionEnd() {
	if e.state != StateTransitioning {
		return
	}
	e.state = StateReady
	e.SettleLoopBoundary(false)
}

// SettleLoopBoundary snaps onto the slide with the same content on the
// opposite side of the strip, without animation: at or past the final slot
// the index drops by total-2, at or before the second slot it rises by
// total-2. fromGestureStart limits the snap to the clones themselves so both
// neighbors stay reachable by dragging. Returns true if the index changed.
func (e *Engine) SettleLoopBoundary(fromGestureStart bool) bool {
	if !e.opts.InfiniteLoop || e.state == StateIdle {
		return false
	}

	total := len(e.slides)
	if fromGestureStart && e.index != 0 && e.index != total-1 {
		return false
	}

	switch {
	case e.index >= total-1:
		e.index -= total - 2
	case e.index <= 1:
		e.index += total - 2
	default:
		return false
	}

	e.state = StateReady
	e.emit(false, 0, true)
	return true
}

// Resize records a new viewport width and re-renders in place without animation
func (e *Engine) Resize(width int) {
	e.width = width
	e.emit(false, 0, false)
}

// Render computes the strip offset for index at width with a pending drag
func Render(index, width, drag int) int {
	if width <= 0 {
		return -drag
	}
	return index*width - drag
}

// transitionFor shortens the configured duration in proportion to the
// distance already covered by a drag
func (e *Engine) transitionFor(drag int) time.Duration {
	d := e.opts.Transition
	if drag != 0 && e.width > 0 {
		covered := time.Duration(abs(drag)) * d / time.Duration(e.width)
		d -= covered
	}
	if d < 0 {
		d = 0
	}
	return d
}

// animate emits an animated frame toward the current index. Without a
// configured transition the move completes at once and is settled here.
func (e *Engine) animate(shorten int) {
	e.emit(true, shorten, false)
	if !e.frame.Animated {
		e.SettleLoopBoundary(false)
	}
}

func (e *Engine) emit(animated bool, shorten int, settle bool) {
	f := Frame{
		Offset: Render(e.index, e.width, e.liveDrag()),
		Settle: settle,
	}
	if animated && e.opts.Transition > 0 {
		f.Animated = true
		f.Duration = e.transitionFor(shorten)
		if e.state != StateIdle {
			e.state = StateTransitioning
		}
	}
	e.frame = f
	if e.onFrame != nil {
		e.onFrame(f)
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
