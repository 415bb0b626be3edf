package tui

import (
	"math"
	"time"

	"github.com/charmbracelet/harmonica"
	"github.com/mmcdole/postdeck/internal/slideshow"
)

const (
	animationFPS = 60

	// arrival tolerance in pixels and pixels per second
	arrivalDistance = 0.5
	arrivalVelocity = 4.0
)

// animator drives the strip position of one deck toward the latest engine
// frame with a critically damped spring
type animator struct {
	spring   harmonica.Spring
	pos      float64
	vel      float64
	target   float64
	active   bool // moving toward target
	ticking  bool // an animation tick is scheduled
	steps    int
	maxSteps int
}

// apply takes a frame from the engine. Unanimated frames jump; animated
// frames retarget the spring so the settle time roughly matches the
// requested duration.
func (a *animator) apply(f slideshow.Frame) {
	a.target = float64(f.Offset)
	if !f.Animated || f.Settle {
		a.pos = a.target
		a.vel = 0
		a.active = false
		return
	}

	d := f.Duration
	if d < time.Millisecond {
		d = time.Millisecond
	}
	// A critically damped spring is within ~0.25% after 6/ω seconds
	omega := 6 / d.Seconds()
	a.spring = harmonica.NewSpring(harmonica.FPS(animationFPS), omega, 1.0)
	a.active = true
	a.steps = 0
	a.maxSteps = int(math.Ceil(d.Seconds()*animationFPS))*2 + 1
}

// step advances one animation frame. It returns true once the target is
// reached, which ends the transition.
func (a *animator) step() bool {
	if !a.active {
		return false
	}
	a.pos, a.vel = a.spring.Update(a.pos, a.vel, a.target)
	a.steps++

	if (math.Abs(a.pos-a.target) < arrivalDistance && math.Abs(a.vel) < arrivalVelocity) || a.steps >= a.maxSteps {
		a.pos = a.target
		a.vel = 0
		a.active = false
		return true
	}
	return false
}

// needsTick reports whether a tick must be scheduled, and marks it scheduled
func (a *animator) needsTick() bool {
	if a.active && !a.ticking {
		a.ticking = true
		return true
	}
	return false
}

// position is the current strip offset in pixels
func (a *animator) position() int {
	return int(math.Round(a.pos))
}
