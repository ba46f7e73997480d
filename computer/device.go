package computer

import "time"

type Button int

const (
	ButtonLeft Button = iota
	ButtonRight
	ButtonMiddle
)

func (b Button) String() string {
	switch b {
	case ButtonLeft:
		return "left"
	case ButtonRight:
		return "right"
	case ButtonMiddle:
		return "middle"
	default:
		return "unknown"
	}
}

// InputDevice is the OS input-injection capability the executor drives.
// Implementations report failures as plain errors; the executor classifies
// them.
type InputDevice interface {
	MoveTo(p Point) error

	PressKey(keys ...Key) error
	ReleaseKey(keys ...Key) error

	PressButton(b Button) error
	ReleaseButton(b Button) error
	Click(b Button) error
	DoubleClick(b Button) error

	ScrollUp(amount int) error
	ScrollDown(amount int) error
	ScrollLeft(amount int) error
	ScrollRight(amount int) error

	Type(text string) error

	// KeystrokeDelay is the pause between synthetic keystrokes. It is device
	// wide, so callers must hold the device while changing it.
	KeystrokeDelay() time.Duration
	SetKeystrokeDelay(d time.Duration)
}
