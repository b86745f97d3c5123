package device

import (
	"errors"
	"image"
	"time"
)

// ErrTransientIO marks a transport-level failure (screenshot or input
// primitive). It is never handled inside the search core; the session
// runner applies its cooldown-and-retry policy instead.
var ErrTransientIO = errors.New("transient device I/O failure")

// Device is the minimal transport surface the bot drives. Every input
// primitive takes a settle delay that is slept after the gesture is
// issued, since the game exposes no signal for "UI finished animating".
type Device interface {
	// ID identifies the device for logging and progress keying
	// (e.g. "127.0.0.1:16384").
	ID() string

	// Screenshot captures the full screen.
	Screenshot() (image.Image, error)

	// Tap presses at (x, y).
	Tap(x, y int, settle time.Duration) error

	// Swipe drags from (x1, y1) to (x2, y2) over the given duration.
	Swipe(x1, y1, x2, y2 int, duration, settle time.Duration) error

	// SwipeHold drags and then holds at the end point before release,
	// preventing the list from flicking past the target.
	SwipeHold(x1, y1, x2, y2 int, duration, hold, settle time.Duration) error

	// PressBack issues the platform back action.
	PressBack(settle time.Duration) error
}
