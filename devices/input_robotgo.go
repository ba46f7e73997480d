//go:build cgo

package devices

import (
	"fmt"
	"time"

	"github.com/go-vgo/robotgo"
	"github.com/mobile-next/desktopcli/computer"
	"github.com/mobile-next/desktopcli/utils"
)

// InputSupported reports whether this build can synthesize input events.
const InputSupported = true

func applyKeystrokeDelay(delay time.Duration) {
	// KeySleep paces key toggles; Type passes the delay to TypeStr itself
	robotgo.KeySleep = delayMillis(delay)
}

// MoveTo warps the pointer to p, relative to the configured display.
func (d *Desktop) MoveTo(p computer.Point) error {
	bounds, err := d.bounds()
	if err != nil {
		return err
	}

	x, y := screenPoint(bounds, p)
	utils.Verbose("robotgo move to %d,%d", x, y)
	robotgo.Move(x, y)
	return nil
}

func (d *Desktop) PressKey(keys ...computer.Key) error {
	names, err := keyNames(keys)
	if err != nil {
		return err
	}

	for i, name := range names {
		if err := robotgo.KeyToggle(name, "down"); err != nil {
			return fmt.Errorf("key down %s: %w", name, err)
		}
		d.markKeys(keys[i:i+1], true)
	}
	return nil
}

func (d *Desktop) ReleaseKey(keys ...computer.Key) error {
	names, err := keyNames(keys)
	if err != nil {
		return err
	}

	for i, name := range names {
		if err := robotgo.KeyToggle(name, "up"); err != nil {
			return fmt.Errorf("key up %s: %w", name, err)
		}
		d.markKeys(keys[i:i+1], false)
	}
	return nil
}

func (d *Desktop) PressButton(b computer.Button) error {
	name, err := buttonName(b)
	if err != nil {
		return err
	}
	if err := robotgo.Toggle(name); err != nil {
		return fmt.Errorf("%s button down: %w", b, err)
	}
	d.markButton(b, true)
	return nil
}

func (d *Desktop) ReleaseButton(b computer.Button) error {
	name, err := buttonName(b)
	if err != nil {
		return err
	}
	if err := robotgo.Toggle(name, "up"); err != nil {
		return fmt.Errorf("%s button up: %w", b, err)
	}
	d.markButton(b, false)
	return nil
}

func (d *Desktop) Click(b computer.Button) error {
	name, err := buttonName(b)
	if err != nil {
		return err
	}
	robotgo.Click(name, false)
	return nil
}

func (d *Desktop) DoubleClick(b computer.Button) error {
	name, err := buttonName(b)
	if err != nil {
		return err
	}
	robotgo.Click(name, true)
	return nil
}

func (d *Desktop) ScrollUp(n int) error {
	robotgo.ScrollDir(n, "up")
	return nil
}

func (d *Desktop) ScrollDown(n int) error {
	robotgo.ScrollDir(n, "down")
	return nil
}

func (d *Desktop) ScrollLeft(n int) error {
	robotgo.ScrollDir(n, "left")
	return nil
}

func (d *Desktop) ScrollRight(n int) error {
	robotgo.ScrollDir(n, "right")
	return nil
}

// Type types text with the current keystroke delay between characters.
func (d *Desktop) Type(text string) error {
	robotgo.TypeStr(text, 0, delayMillis(d.KeystrokeDelay()))
	return nil
}
