// Package slideshow implements the slide position state machine behind a
// post deck.
//
// An Engine tracks the current slide index over a linear strip of slides and
// turns every change into a Frame: the horizontal offset the strip should be
// scrolled to, whether it is an instant boundary snap, and how long the move
// should take. The presentation layer animates toward the frame and reports back
// with TransitionEnd when the move has visually finished.
//
// With infinite loop enabled the strip carries one clone of the last post in
// front and one clone of the first post at the end. Crossing onto a clone is
// animated normally; once the transition ends the engine settles, jumping
// without animation to the real slide with identical content so the deck
// appears circular. Moving on from a clone before the transition ended takes
// the same snap first.
//
// A Deck wraps one Engine together with its content source and a load
// generation counter, and is the handle callers use to change sources.
package slideshow
