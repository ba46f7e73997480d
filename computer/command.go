package computer

import "fmt"

// CoordinatePolicy decides what happens when a request carries the wrong
// number of coordinates for its action.
type CoordinatePolicy string

const (
	// PolicyDegrade runs a reduced fallback and logs a warning.
	PolicyDegrade CoordinatePolicy = "degrade"
	// PolicyStrict rejects the request with KindInvalidRequest.
	PolicyStrict CoordinatePolicy = "strict"
)

// Command is one of the concrete action variants produced by Parse.
type Command interface {
	Action() Action
	isCommand()
}

type KeyCommand struct {
	Chord string
}

type TypeCommand struct {
	Text string
}

// MoveCommand has a nil Target when the request was degraded.
type MoveCommand struct {
	Target   *Coordinate
	Fallback string
}

// ClickCommand covers left, right, middle and double clicks. A nil Target
// clicks at the current pointer position.
type ClickCommand struct {
	Kind     Action
	Button   Button
	Double   bool
	Target   *Coordinate
	Fallback string
}

// DragCommand is incomplete when the request lacked a second point; the
// executor then only releases the left button.
type DragCommand struct {
	From, To Coordinate
	Complete bool
	Fallback string
}

// ScrollCommand moves to Target and scrolls by DeltaX/DeltaY notches.
type ScrollCommand struct {
	Target         Coordinate
	DeltaX, DeltaY float64
	Complete       bool
	Fallback       string
}

type WaitCommand struct{}

func (KeyCommand) Action() Action { return ActionKey }
func (TypeCommand) Action() Action { return ActionType }
func (MoveCommand) Action() Action { return ActionMouseMove }
func (c ClickCommand) Action() Action { return c.Kind }
func (DragCommand) Action() Action { return ActionLeftClickDrag }
func (ScrollCommand) Action() Action { return ActionScroll }
func (WaitCommand) Action() Action { return ActionWait }

func (KeyCommand) isCommand() {}
func (TypeCommand) isCommand() {}
func (MoveCommand) isCommand() {}
func (ClickCommand) isCommand() {}
func (DragCommand) isCommand() {}
func (ScrollCommand) isCommand() {}
func (WaitCommand) isCommand() {}

var clickButtons = map[Action]struct {
	button Button
	double bool
}{
	ActionLeftClick:   {ButtonLeft, false},
	ActionRightClick:  {ButtonRight, false},
	ActionMiddleClick: {ButtonMiddle, false},
	ActionDoubleClick: {ButtonLeft, true},
}

// Parse validates req and converts it into its Command variant. The request
// is not modified; coordinates are copied out.
func Parse(req ComputerRequest, policy CoordinatePolicy) (Command, error) {
	n := len(req.Coordinates)

	switch req.Action {
	case ActionKey:
		return KeyCommand{Chord: req.Text}, nil

	case ActionType:
		return TypeCommand{Text: req.Text}, nil

	case ActionWait:
		return WaitCommand{}, nil

	case ActionMouseMove:
		if n == 1 {
			target := req.Coordinates[0]
			return MoveCommand{Target: &target}, nil
		}
		if err := checkPolicy(policy, req.Action, "exactly 1", n); err != nil {
			return nil, err
		}
		return MoveCommand{Fallback: fallbackMessage(req.Action, "exactly 1", n, "pointer not moved")}, nil

	case ActionLeftClick, ActionRightClick, ActionMiddleClick, ActionDoubleClick:
		b := clickButtons[req.Action]
		cmd := ClickCommand{Kind: req.Action, Button: b.button, Double: b.double}
		switch n {
		case 0:
		case 1:
			target := req.Coordinates[0]
			cmd.Target = &target
		default:
			if err := checkPolicy(policy, req.Action, "0 or 1", n); err != nil {
				return nil, err
			}
			cmd.Fallback = fallbackMessage(req.Action, "0 or 1", n, "clicking at current pointer position")
		}
		return cmd, nil

	case ActionLeftClickDrag:
		if n == 2 {
			return DragCommand{From: req.Coordinates[0], To: req.Coordinates[1], Complete: true}, nil
		}
		if err := checkPolicy(policy, req.Action, "exactly 2", n); err != nil {
			return nil, err
		}
		return DragCommand{Fallback: fallbackMessage(req.Action, "exactly 2", n, "releasing left button")}, nil

	case ActionScroll:
		if n == 2 {
			return ScrollCommand{
				Target:   req.Coordinates[0],
				DeltaX:   req.Coordinates[1].X,
				DeltaY:   req.Coordinates[1].Y,
				Complete: true,
			}, nil
		}
		if err := checkPolicy(policy, req.Action, "exactly 2", n); err != nil {
			return nil, err
		}
		return ScrollCommand{Fallback: fallbackMessage(req.Action, "exactly 2", n, "nothing scrolled")}, nil

	case "":
		return nil, invalidRequest("action is required")

	default:
		return nil, invalidRequest("unsupported action %q", req.Action)
	}
}

func checkPolicy(policy CoordinatePolicy, action Action, want string, got int) error {
	if policy != PolicyStrict {
		return nil
	}
	return invalidRequest("%s requires %s coordinates, got %d", action, want, got)
}

func fallbackMessage(action Action, want string, got int, fallback string) string {
	return fmt.Sprintf("%s expects %s coordinates, got %d; %s", action, want, got, fallback)
}
