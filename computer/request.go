// Package computer translates device-independent "computer use" requests
// into sequences of primitive input operations.
package computer

// Action names one of the supported request variants.
type Action string

const (
	ActionKey           Action = "key"
	ActionType          Action = "type"
	ActionMouseMove     Action = "mouse_move"
	ActionLeftClick     Action = "left_click"
	ActionLeftClickDrag Action = "left_click_drag"
	ActionRightClick    Action = "right_click"
	ActionMiddleClick   Action = "middle_click"
	ActionDoubleClick   Action = "double_click"
	ActionScroll        Action = "scroll"
	ActionWait          Action = "wait"
)

// Actions lists every supported action, in documentation order.
var Actions = []Action{
	ActionKey,
	ActionType,
	ActionMouseMove,
	ActionLeftClick,
	ActionLeftClickDrag,
	ActionRightClick,
	ActionMiddleClick,
	ActionDoubleClick,
	ActionScroll,
	ActionWait,
}

// CoordinateType tells how X and Y of a Coordinate are interpreted.
type CoordinateType string

const (
	// CoordinateScreen is absolute pixels.
	CoordinateScreen CoordinateType = "screen"
	// CoordinateNormal is relative to ExecutionContext.NormalFactor.
	CoordinateNormal CoordinateType = "normal"
)

type Coordinate struct {
	X    float64        `json:"x"`
	Y    float64        `json:"y"`
	Type CoordinateType `json:"type"`
}

// ComputerRequest is a single incoming command. Which fields matter depends on
// Action; see Parse.
type ComputerRequest struct {
	Action      Action       `json:"action"`
	Coordinates []Coordinate `json:"coordinates,omitempty"`
	Text        string       `json:"text,omitempty"`
}

// ExecutionContext is the per-call environment. It is never stored.
type ExecutionContext struct {
	ScreenWidth  int     `json:"screenWidth"`
	ScreenHeight int     `json:"screenHeight"`
	NormalFactor float64 `json:"normalFactor"`
}

// Point is a resolved pixel position.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}
