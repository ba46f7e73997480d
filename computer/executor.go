package computer

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/mobile-next/desktopcli/utils"
	"github.com/sirupsen/logrus"
)

// Timing holds the fixed pauses inserted between primitive operations.
type Timing struct {
	// Settle follows a pointer move before the next button or scroll event.
	Settle time.Duration
	// DragPause separates press, move and release during a drag.
	DragPause time.Duration
	// Trailing ends every successful execution.
	Trailing time.Duration
	// Wait is the length of the wait action.
	Wait time.Duration
	// MoveTimeout bounds a single pointer move; zero disables the bound.
	MoveTimeout time.Duration
	// TypingKeystrokeDelay is applied while the type action runs.
	TypingKeystrokeDelay time.Duration
}

func DefaultTiming() Timing {
	return Timing{
		Settle:               100 * time.Millisecond,
		DragPause:            100 * time.Millisecond,
		Trailing:             300 * time.Millisecond,
		Wait:                 500 * time.Millisecond,
		MoveTimeout:          3000 * time.Millisecond,
		TypingKeystrokeDelay: 2 * time.Millisecond,
	}
}

// Admission decides what a second concurrent Execute call does.
type Admission string

const (
	// AdmissionQueue waits for the device, or for ctx to end.
	AdmissionQueue Admission = "queue"
	// AdmissionReject fails immediately with KindDeviceBusy.
	AdmissionReject Admission = "reject"
)

type Options struct {
	Timing         Timing
	Coordinates    CoordinatePolicy
	Admission      Admission
	ChordCacheSize int
	// Sleep replaces time.Sleep; tests use it to observe delays.
	Sleep func(time.Duration)
}

func DefaultOptions() Options {
	return Options{
		Timing:         DefaultTiming(),
		Coordinates:    PolicyDegrade,
		Admission:      AdmissionQueue,
		ChordCacheSize: DefaultChordCacheSize,
	}
}

// Executor owns an InputDevice and runs one request against it at a time.
type Executor struct {
	device InputDevice
	opts   Options
	keys   *KeyResolver
	slot   chan struct{}
	sleep  func(time.Duration)

	// stranded is the result channel of a move that outlived its timeout.
	// Only the slot holder reads or writes it.
	stranded chan error
}

func NewExecutor(device InputDevice, opts Options) *Executor {
	if opts.Coordinates == "" {
		opts.Coordinates = PolicyDegrade
	}
	if opts.Admission == "" {
		opts.Admission = AdmissionQueue
	}

	sleep := opts.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}

	return &Executor{
		device: device,
		opts:   opts,
		keys:   NewKeyResolver(opts.ChordCacheSize),
		slot:   make(chan struct{}, 1),
		sleep:  sleep,
	}
}

// Keys exposes the executor's key resolver.
func (e *Executor) Keys() *KeyResolver {
	return e.keys
}

type requestIDKey struct{}

// WithRequestID tags ctx so log lines of the execution carry id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// Execute runs req against the device. Parsing happens before the device is
// acquired, so malformed requests never wait. Once the effect sequence
// starts it runs to completion or to the first failing primitive; effects
// already issued are not rolled back.
func (e *Executor) Execute(ctx context.Context, req ComputerRequest, ec ExecutionContext) error {
	cmd, err := Parse(req, e.opts.Coordinates)
	if err != nil {
		return err
	}

	log := utils.WithFields(logrus.Fields{
		"requestId": RequestID(ctx),
		"action":    string(cmd.Action()),
	})

	if err := e.acquire(ctx); err != nil {
		return err
	}
	defer e.release()

	log.Debugf("executing %s with %d coordinate(s)", cmd.Action(), len(req.Coordinates))

	if err := e.run(log, cmd, ec); err != nil {
		log.Debugf("%s failed: %v", cmd.Action(), err)
		return err
	}

	e.sleep(e.opts.Timing.Trailing)
	return nil
}

func (e *Executor) acquire(ctx context.Context) error {
	if e.opts.Admission == AdmissionReject {
		select {
		case e.slot <- struct{}{}:
		default:
			return &Error{Kind: KindDeviceBusy, Err: fmt.Errorf("another request is driving the input device")}
		}
	} else {
		select {
		case e.slot <- struct{}{}:
		case <-ctx.Done():
			return &Error{Kind: KindDeviceBusy, Err: ctx.Err()}
		}
	}

	if err := e.awaitStrandedMove(ctx); err != nil {
		e.release()
		return err
	}
	return nil
}

// awaitStrandedMove holds a freshly acquired slot until a move abandoned by
// an earlier request has returned from the device.
func (e *Executor) awaitStrandedMove(ctx context.Context) error {
	if e.stranded == nil {
		return nil
	}

	if e.opts.Admission == AdmissionReject {
		select {
		case <-e.stranded:
		default:
			return &Error{Kind: KindDeviceBusy, Err: fmt.Errorf("a timed out pointer move is still running")}
		}
	} else {
		select {
		case <-e.stranded:
		case <-ctx.Done():
			return &Error{Kind: KindDeviceBusy, Err: ctx.Err()}
		}
	}

	e.stranded = nil
	return nil
}

func (e *Executor) release() {
	<-e.slot
}

func (e *Executor) run(log *logrus.Entry, cmd Command, ec ExecutionContext) error {
	switch c := cmd.(type) {
	case KeyCommand:
		return e.runKey(log, c)
	case TypeCommand:
		return e.runType(log, c)
	case MoveCommand:
		return e.runMove(log, c, ec)
	case ClickCommand:
		return e.runClick(log, c, ec)
	case DragCommand:
		return e.runDrag(log, c, ec)
	case ScrollCommand:
		return e.runScroll(log, c, ec)
	case WaitCommand:
		e.sleep(e.opts.Timing.Wait)
		return nil
	default:
		return invalidRequest("unsupported command %T", cmd)
	}
}

func (e *Executor) runKey(log *logrus.Entry, c KeyCommand) error {
	if strings.TrimSpace(c.Chord) == "" {
		log.Warn("key action without text; nothing pressed")
		return nil
	}

	keys, err := e.keys.ResolveChord(c.Chord)
	if err != nil {
		return err
	}

	if err := e.device.PressKey(keys...); err != nil {
		return deviceError("press key", err)
	}
	// released in press order, not reversed
	return deviceError("release key", e.device.ReleaseKey(keys...))
}

func (e *Executor) runType(log *logrus.Entry, c TypeCommand) error {
	if c.Text == "" {
		log.Warn("type action without text; nothing typed")
		return nil
	}

	text, enter := splitTrailingNewline(c.Text)

	return e.withKeystrokeDelay(e.opts.Timing.TypingKeystrokeDelay, func() error {
		if text != "" {
			if err := e.device.Type(text); err != nil {
				return deviceError("type", err)
			}
		}
		if !enter {
			return nil
		}
		if err := e.device.PressKey(KeyEnter); err != nil {
			return deviceError("press key", err)
		}
		return deviceError("release key", e.device.ReleaseKey(KeyEnter))
	})
}

// withKeystrokeDelay sets the device keystroke delay for the duration of fn
// and restores the previous value on every exit path.
func (e *Executor) withKeystrokeDelay(d time.Duration, fn func() error) error {
	previous := e.device.KeystrokeDelay()
	e.device.SetKeystrokeDelay(d)
	defer e.device.SetKeystrokeDelay(previous)

	return fn()
}

// splitTrailingNewline strips one trailing newline, or the two-character
// escape `\n`, and reports whether one was present.
func splitTrailingNewline(text string) (string, bool) {
	for _, suffix := range []string{"\r\n", "\n", `\n`} {
		if strings.HasSuffix(text, suffix) {
			return strings.TrimSuffix(text, suffix), true
		}
	}
	return text, false
}

func (e *Executor) runMove(log *logrus.Entry, c MoveCommand, ec ExecutionContext) error {
	if c.Target == nil {
		log.Warn(c.Fallback)
		return nil
	}

	if err := e.moveTo(*c.Target, ec); err != nil {
		return err
	}
	e.sleep(e.opts.Timing.Settle)
	return nil
}

func (e *Executor) runClick(log *logrus.Entry, c ClickCommand, ec ExecutionContext) error {
	if c.Fallback != "" {
		log.Warn(c.Fallback)
	}

	if c.Target != nil {
		if err := e.moveTo(*c.Target, ec); err != nil {
			return err
		}
		e.sleep(e.opts.Timing.Settle)
	}

	if c.Double {
		return deviceError("double click", e.device.DoubleClick(c.Button))
	}
	return deviceError("click", e.device.Click(c.Button))
}

func (e *Executor) runDrag(log *logrus.Entry, c DragCommand, ec ExecutionContext) error {
	if !c.Complete {
		// a previous failed drag may have left the button down
		log.Warn(c.Fallback)
		return deviceError("release button", e.device.ReleaseButton(ButtonLeft))
	}

	if err := e.moveTo(c.From, ec); err != nil {
		return err
	}
	e.sleep(e.opts.Timing.Settle)

	if err := e.device.PressButton(ButtonLeft); err != nil {
		return deviceError("press button", err)
	}
	e.sleep(e.opts.Timing.DragPause)

	if err := e.moveTo(c.To, ec); err != nil {
		return err
	}
	e.sleep(e.opts.Timing.DragPause)

	return deviceError("release button", e.device.ReleaseButton(ButtonLeft))
}

func (e *Executor) runScroll(log *logrus.Entry, c ScrollCommand, ec ExecutionContext) error {
	if !c.Complete {
		log.Warn(c.Fallback)
		return nil
	}

	if err := e.moveTo(c.Target, ec); err != nil {
		return err
	}
	e.sleep(e.opts.Timing.Settle)

	// positive dy scrolls up, positive dx scrolls right
	if amount := notches(c.DeltaY); amount > 0 {
		if err := e.scroll(c.DeltaY, amount, e.device.ScrollUp, e.device.ScrollDown); err != nil {
			return err
		}
	}
	if amount := notches(c.DeltaX); amount > 0 {
		if err := e.scroll(c.DeltaX, amount, e.device.ScrollRight, e.device.ScrollLeft); err != nil {
			return err
		}
	}
	return nil
}

func (e *Executor) scroll(delta float64, amount int, positive, negative func(int) error) error {
	if delta > 0 {
		return deviceError("scroll", positive(amount))
	}
	return deviceError("scroll", negative(amount))
}

// notches rounds |delta| to whole scroll steps. Any non-zero delta scrolls
// at least one step.
func notches(delta float64) int {
	if !finite(delta) || delta == 0 {
		return 0
	}
	return max(1, int(math.Round(math.Abs(delta))))
}

// moveTo resolves c and moves the pointer there, giving up after
// Timing.MoveTimeout. A move that times out keeps running in the background
// and the next request waits for it in acquire.
func (e *Executor) moveTo(c Coordinate, ec ExecutionContext) error {
	p, err := Resolve(c, ec)
	if err != nil {
		return err
	}

	timeout := e.opts.Timing.MoveTimeout
	if timeout <= 0 {
		return deviceError("move", e.device.MoveTo(p))
	}

	done := make(chan error, 1)
	go func() {
		done <- e.device.MoveTo(p)
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case err := <-done:
		return deviceError("move", err)
	case <-timer.C:
		e.stranded = done
		return &Error{
			Kind: KindDeviceTimeout,
			Op:   "move",
			Err:  fmt.Errorf("pointer move to (%.0f, %.0f) did not complete within %s", p.X, p.Y, timeout),
		}
	}
}
