package device

import (
	"fmt"
	"image"
	"time"

	"github.com/go-vgo/robotgo"
	"github.com/kbinani/screenshot"
)

// Desktop drives an emulator window shown on a host display, for setups
// where the emulator's ADB bridge is unavailable. Coordinates from the
// calibration config are treated as display-local and offset by the
// display origin before each gesture.
type Desktop struct {
	displayID int
	offsetX   int
	offsetY   int
}

// NewDesktop targets the given display index.
func NewDesktop(displayID int) (*Desktop, error) {
	if displayID < 0 || displayID >= screenshot.NumActiveDisplays() {
		return nil, fmt.Errorf("display %d not active", displayID)
	}
	x, y, _, _ := robotgo.GetDisplayBounds(displayID)
	return &Desktop{displayID: displayID, offsetX: x, offsetY: y}, nil
}

func (d *Desktop) ID() string {
	return fmt.Sprintf("display:%d", d.displayID)
}

func (d *Desktop) Screenshot() (image.Image, error) {
	bounds := screenshot.GetDisplayBounds(d.displayID)
	img, err := screenshot.CaptureRect(bounds)
	if err != nil {
		return nil, fmt.Errorf("%w: capture display %d: %v", ErrTransientIO, d.displayID, err)
	}
	return img, nil
}

func (d *Desktop) Tap(x, y int, settle time.Duration) error {
	robotgo.MoveMouse(x+d.offsetX, y+d.offsetY)
	robotgo.Click("left")
	time.Sleep(settle)
	return nil
}

func (d *Desktop) Swipe(x1, y1, x2, y2 int, duration, settle time.Duration) error {
	d.drag(x1, y1, x2, y2, 0)
	time.Sleep(settle)
	return nil
}

func (d *Desktop) SwipeHold(x1, y1, x2, y2 int, duration, hold, settle time.Duration) error {
	d.drag(x1, y1, x2, y2, hold)
	time.Sleep(settle)
	return nil
}

func (d *Desktop) drag(x1, y1, x2, y2 int, hold time.Duration) {
	robotgo.MoveMouse(x1+d.offsetX, y1+d.offsetY)
	robotgo.Toggle("left", "down")
	robotgo.MoveSmooth(x2+d.offsetX, y2+d.offsetY)
	if hold > 0 {
		time.Sleep(hold)
	}
	robotgo.Toggle("left", "up")
}

// PressBack sends Esc, which the common emulators map to Android back.
func (d *Desktop) PressBack(settle time.Duration) error {
	if err := robotgo.KeyTap("esc"); err != nil {
		return fmt.Errorf("%w: key tap: %v", ErrTransientIO, err)
	}
	time.Sleep(settle)
	return nil
}
