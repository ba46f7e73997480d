package devices

import (
	"fmt"
	"image"
	"math"
	"runtime"
	"sync"
	"time"

	"github.com/kbinani/screenshot"
	"github.com/mobile-next/desktopcli/computer"
	"github.com/mobile-next/desktopcli/types"
	"github.com/mobile-next/desktopcli/utils"
)

const (
	// DefaultKeystrokeDelay is the pause between synthetic keystrokes outside
	// of the type action.
	DefaultKeystrokeDelay = 300 * time.Millisecond
)

// ScreenCapturer is the screen-capture capability used by the transport.
type ScreenCapturer interface {
	Capture() (image.Image, error)
	ScreenSize() (types.Size, error)
	Info() (*types.DisplayInfo, error)
}

// DesktopConfig selects the display and the keystroke delay of a Desktop.
type DesktopConfig struct {
	Display               int
	DefaultKeystrokeDelay time.Duration
}

// Desktop drives the local pointer, keyboard and screen. It implements
// computer.InputDevice and ScreenCapturer. Pressed keys and buttons are
// tracked so ReleaseAll can undo them on shutdown.
type Desktop struct {
	display int

	mu             sync.Mutex
	keystrokeDelay time.Duration
	pressedKeys    map[computer.Key]struct{}
	pressedButtons map[computer.Button]struct{}
}

var _ computer.InputDevice = (*Desktop)(nil)
var _ ScreenCapturer = (*Desktop)(nil)

func NewDesktop(cfg DesktopConfig) *Desktop {
	delay := cfg.DefaultKeystrokeDelay
	if delay <= 0 {
		delay = DefaultKeystrokeDelay
	}

	d := &Desktop{
		display:        cfg.Display,
		pressedKeys:    make(map[computer.Key]struct{}),
		pressedButtons: make(map[computer.Button]struct{}),
	}
	d.SetKeystrokeDelay(delay)
	return d
}

func (d *Desktop) KeystrokeDelay() time.Duration {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.keystrokeDelay
}

func (d *Desktop) SetKeystrokeDelay(delay time.Duration) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.keystrokeDelay = delay
	applyKeystrokeDelay(delay)
}

func (d *Desktop) bounds() (image.Rectangle, error) {
	n := screenshot.NumActiveDisplays()
	if n == 0 {
		return image.Rectangle{}, fmt.Errorf("no active displays found")
	}
	if d.display < 0 || d.display >= n {
		return image.Rectangle{}, fmt.Errorf("display %d not found, %d active display(s)", d.display, n)
	}
	return screenshot.GetDisplayBounds(d.display), nil
}

// screenPoint places p on the display whose bounds are given, rounding to
// the nearest pixel.
func screenPoint(bounds image.Rectangle, p computer.Point) (int, int) {
	return bounds.Min.X + int(math.Round(p.X)), bounds.Min.Y + int(math.Round(p.Y))
}

func delayMillis(delay time.Duration) int {
	return int(delay / time.Millisecond)
}

// Capture grabs the full configured display.
func (d *Desktop) Capture() (image.Image, error) {
	bounds, err := d.bounds()
	if err != nil {
		return nil, err
	}

	img, err := screenshot.CaptureRect(bounds)
	if err != nil {
		return nil, fmt.Errorf("error capturing display %d: %w", d.display, err)
	}

	utils.Verbose("Captured display %d (%dx%d)", d.display, bounds.Dx(), bounds.Dy())
	return img, nil
}

func (d *Desktop) ScreenSize() (types.Size, error) {
	bounds, err := d.bounds()
	if err != nil {
		return types.Size{}, err
	}
	return types.Size{Width: bounds.Dx(), Height: bounds.Dy()}, nil
}

func (d *Desktop) Info() (*types.DisplayInfo, error) {
	bounds, err := d.bounds()
	if err != nil {
		return nil, err
	}

	return &types.DisplayInfo{
		Index: d.display,
		Bounds: types.Rect{
			X:      bounds.Min.X,
			Y:      bounds.Min.Y,
			Width:  bounds.Dx(),
			Height: bounds.Dy(),
		},
		ScreenSize:     types.Size{Width: bounds.Dx(), Height: bounds.Dy()},
		ActiveDisplays: screenshot.NumActiveDisplays(),
		Platform:       runtime.GOOS + "/" + runtime.GOARCH,
		InputSupported: InputSupported,
	}, nil
}

func (d *Desktop) markKeys(keys []computer.Key, pressed bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, k := range keys {
		if pressed {
			d.pressedKeys[k] = struct{}{}
		} else {
			delete(d.pressedKeys, k)
		}
	}
}

func (d *Desktop) markButton(b computer.Button, pressed bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if pressed {
		d.pressedButtons[b] = struct{}{}
	} else {
		delete(d.pressedButtons, b)
	}
}

// Held returns the keys and buttons currently pressed through d.
func (d *Desktop) Held() ([]computer.Key, []computer.Button) {
	d.mu.Lock()
	defer d.mu.Unlock()

	keys := make([]computer.Key, 0, len(d.pressedKeys))
	for k := range d.pressedKeys {
		keys = append(keys, k)
	}
	buttons := make([]computer.Button, 0, len(d.pressedButtons))
	for b := range d.pressedButtons {
		buttons = append(buttons, b)
	}
	return keys, buttons
}

// ReleaseAll releases every key and button still held, e.g. after a drag
// that failed half way. Used as a shutdown hook.
func (d *Desktop) ReleaseAll() error {
	keys, buttons := d.Held()
	var errs []error

	for _, b := range buttons {
		if err := d.ReleaseButton(b); err != nil {
			errs = append(errs, fmt.Errorf("release %s button: %w", b, err))
		}
	}
	if len(keys) > 0 {
		if err := d.ReleaseKey(keys...); err != nil {
			errs = append(errs, fmt.Errorf("release keys: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("release failed with %d error(s): %v", len(errs), errs)
	}
	return nil
}
