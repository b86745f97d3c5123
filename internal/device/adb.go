package device

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// ADB drives one Android device or emulator instance through the adb
// binary. All gestures go through `adb shell input`; screenshots come
// back as PNG over `adb exec-out screencap -p`.
type ADB struct {
	adbPath string
	serial  string
}

// NewADB binds a controller to a specific device serial. An empty
// serial auto-detects the first connected device.
func NewADB(adbPath, serial string) (*ADB, error) {
	if adbPath == "" {
		adbPath = "adb"
	}
	if serial == "" {
		devices, err := ListDevices(adbPath)
		if err != nil {
			return nil, err
		}
		if len(devices) == 0 {
			return nil, fmt.Errorf("no devices found: connect an emulator and run `adb connect`")
		}
		serial = devices[0]
	}
	a := &ADB{adbPath: adbPath, serial: serial}
	if !a.connected() {
		return nil, fmt.Errorf("device %s not found: run `adb devices` to check the connection", serial)
	}
	return a, nil
}

// ListDevices returns the serials of all connected devices.
func ListDevices(adbPath string) ([]string, error) {
	if adbPath == "" {
		adbPath = "adb"
	}
	out, err := exec.Command(adbPath, "devices").Output()
	if err != nil {
		return nil, fmt.Errorf("adb devices: %w", err)
	}

	var devices []string
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	for _, line := range lines[1:] { // skip "List of devices attached"
		fields := strings.Fields(line)
		if len(fields) >= 2 && fields[1] == "device" {
			devices = append(devices, fields[0])
		}
	}
	return devices, nil
}

func (a *ADB) connected() bool {
	devices, err := ListDevices(a.adbPath)
	if err != nil {
		return false
	}
	for _, d := range devices {
		if d == a.serial {
			return true
		}
	}
	return false
}

func (a *ADB) run(args ...string) error {
	full := append([]string{"-s", a.serial}, args...)
	if out, err := exec.Command(a.adbPath, full...).CombinedOutput(); err != nil {
		return fmt.Errorf("%w: adb %s: %v (%s)",
			ErrTransientIO, strings.Join(args, " "), err, strings.TrimSpace(string(out)))
	}
	return nil
}

func (a *ADB) ID() string {
	return a.serial
}

func (a *ADB) Screenshot() (image.Image, error) {
	out, err := exec.Command(a.adbPath, "-s", a.serial, "exec-out", "screencap", "-p").Output()
	if err != nil {
		return nil, fmt.Errorf("%w: screencap: %v", ErrTransientIO, err)
	}
	img, err := png.Decode(bytes.NewReader(out))
	if err != nil {
		return nil, fmt.Errorf("%w: decode screencap: %v", ErrTransientIO, err)
	}
	return img, nil
}

func (a *ADB) Tap(x, y int, settle time.Duration) error {
	if err := a.run("shell", "input", "tap", itoa(x), itoa(y)); err != nil {
		return err
	}
	time.Sleep(settle)
	return nil
}

func (a *ADB) Swipe(x1, y1, x2, y2 int, duration, settle time.Duration) error {
	err := a.run("shell", "input", "swipe",
		itoa(x1), itoa(y1), itoa(x2), itoa(y2),
		itoa(int(duration.Milliseconds())))
	if err != nil {
		return err
	}
	time.Sleep(settle)
	return nil
}

// SwipeHold extends the swipe duration by the hold time. `input swipe`
// keeps the pointer down for the whole duration, so a longer duration
// with the same travel acts as a drag-then-hold.
func (a *ADB) SwipeHold(x1, y1, x2, y2 int, duration, hold, settle time.Duration) error {
	return a.Swipe(x1, y1, x2, y2, duration+hold, settle)
}

// Android keycodes used by the bot.
const keycodeBack = 4

func (a *ADB) PressBack(settle time.Duration) error {
	if err := a.run("shell", "input", "keyevent", itoa(keycodeBack)); err != nil {
		return err
	}
	time.Sleep(settle)
	return nil
}

// ScreenSize queries the device resolution via `wm size`, falling back
// to a screenshot's dimensions when the output is unparseable.
func (a *ADB) ScreenSize() (int, int, error) {
	out, err := exec.Command(a.adbPath, "-s", a.serial, "shell", "wm", "size").Output()
	if err == nil {
		// Output format: "Physical size: 1080x1920"
		s := strings.TrimSpace(string(out))
		if i := strings.LastIndex(s, ": "); i >= 0 {
			var w, h int
			if _, err := fmt.Sscanf(s[i+2:], "%dx%d", &w, &h); err == nil {
				return w, h, nil
			}
		}
	}
	img, err := a.Screenshot()
	if err != nil {
		return 0, 0, err
	}
	b := img.Bounds()
	return b.Dx(), b.Dy(), nil
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
