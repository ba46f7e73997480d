//go:build !cgo

package devices

import (
	"errors"
	"time"

	"github.com/mobile-next/desktopcli/computer"
)

// InputSupported reports whether this build can synthesize input events.
const InputSupported = false

var errNoInput = errors.New("input injection requires a cgo build")

func applyKeystrokeDelay(time.Duration) {}

func (d *Desktop) MoveTo(computer.Point) error { return errNoInput }
func (d *Desktop) PressKey(...computer.Key) error { return errNoInput }
func (d *Desktop) ReleaseKey(...computer.Key) error { return errNoInput }
func (d *Desktop) PressButton(computer.Button) error { return errNoInput }
func (d *Desktop) ReleaseButton(computer.Button) error { return errNoInput }
func (d *Desktop) Click(computer.Button) error { return errNoInput }
func (d *Desktop) DoubleClick(computer.Button) error { return errNoInput }
func (d *Desktop) ScrollUp(int) error { return errNoInput }
func (d *Desktop) ScrollDown(int) error { return errNoInput }
func (d *Desktop) ScrollLeft(int) error { return errNoInput }
func (d *Desktop) ScrollRight(int) error { return errNoInput }
func (d *Desktop) Type(string) error { return errNoInput }
