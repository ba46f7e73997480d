// Package computertest provides in-memory input and screen devices for tests
// of packages built on top of the executor.
package computertest

import (
	"fmt"
	"image"
	"image/color"
	"strings"
	"sync"
	"time"

	"github.com/mobile-next/desktopcli/computer"
	"github.com/mobile-next/desktopcli/types"
)

// Device records every primitive it receives as a short string such as
// "move(960,540)" or "press(LeftCmd,C)".
type Device struct {
	mu     sync.Mutex
	events []string
	delay  time.Duration

	// Fail maps an operation name ("move", "press", "click", ...) to the
	// error it returns.
	Fail map[string]error
}

var _ computer.InputDevice = (*Device)(nil)

func NewDevice() *Device {
	return &Device{delay: 300 * time.Millisecond, Fail: map[string]error{}}
}

func (d *Device) record(name, format string, args ...interface{}) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, name+"("+fmt.Sprintf(format, args...)+")")
	return d.Fail[name]
}

// Events returns a copy of the recorded primitives.
func (d *Device) Events() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.events...)
}

func keyList(keys []computer.Key) string {
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = k.String()
	}
	return strings.Join(names, ",")
}

func (d *Device) MoveTo(p computer.Point) error {
	return d.record("move", "%g,%g", p.X, p.Y)
}

func (d *Device) PressKey(keys ...computer.Key) error {
	return d.record("press", "%s", keyList(keys))
}

func (d *Device) ReleaseKey(keys ...computer.Key) error {
	return d.record("release", "%s", keyList(keys))
}

func (d *Device) PressButton(b computer.Button) error   { return d.record("down", "%s", b) }
func (d *Device) ReleaseButton(b computer.Button) error { return d.record("up", "%s", b) }
func (d *Device) Click(b computer.Button) error         { return d.record("click", "%s", b) }
func (d *Device) DoubleClick(b computer.Button) error   { return d.record("dclick", "%s", b) }
func (d *Device) ScrollUp(n int) error                  { return d.record("scrollUp", "%d", n) }
func (d *Device) ScrollDown(n int) error                { return d.record("scrollDown", "%d", n) }
func (d *Device) ScrollLeft(n int) error                { return d.record("scrollLeft", "%d", n) }
func (d *Device) ScrollRight(n int) error               { return d.record("scrollRight", "%d", n) }
func (d *Device) Type(text string) error                { return d.record("type", "%s", text) }

func (d *Device) KeystrokeDelay() time.Duration {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.delay
}

func (d *Device) SetKeystrokeDelay(delay time.Duration) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.delay = delay
}

// Screen is a fixed-size solid display.
type Screen struct {
	Width, Height int
	Err           error
}

func NewScreen(width, height int) *Screen {
	return &Screen{Width: width, Height: height}
}

func (s *Screen) Capture() (image.Image, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	img := image.NewRGBA(image.Rect(0, 0, s.Width, s.Height))
	for y := 0; y < s.Height; y++ {
		for x := 0; x < s.Width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	return img, nil
}

func (s *Screen) ScreenSize() (types.Size, error) {
	if s.Err != nil {
		return types.Size{}, s.Err
	}
	return types.Size{Width: s.Width, Height: s.Height}, nil
}

func (s *Screen) Info() (*types.DisplayInfo, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return &types.DisplayInfo{
		Bounds:         types.Rect{Width: s.Width, Height: s.Height},
		ScreenSize:     types.Size{Width: s.Width, Height: s.Height},
		ActiveDisplays: 1,
		Platform:       "test",
		InputSupported: true,
	}, nil
}

// NoSleep is an executor sleeper that returns immediately.
func NoSleep(time.Duration) {}
