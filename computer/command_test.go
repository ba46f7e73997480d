package computer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func coords(n int) []Coordinate {
	out := make([]Coordinate, n)
	for i := range out {
		out[i] = Coordinate{X: float64(i + 1), Y: float64(i + 1), Type: CoordinateScreen}
	}
	return out
}

func TestParse_Variants(t *testing.T) {
	one := coords(1)[0]

	tests := []struct {
		name     string
		req      ComputerRequest
		expected Command
	}{
		{"key", ComputerRequest{Action: ActionKey, Text: "ctrl+c"}, KeyCommand{Chord: "ctrl+c"}},
		{"type", ComputerRequest{Action: ActionType, Text: "hi"}, TypeCommand{Text: "hi"}},
		{"wait ignores coordinates", ComputerRequest{Action: ActionWait, Coordinates: coords(2)}, WaitCommand{}},
		{"move", ComputerRequest{Action: ActionMouseMove, Coordinates: coords(1)}, MoveCommand{Target: &one}},
		{"left click in place", ComputerRequest{Action: ActionLeftClick}, ClickCommand{Kind: ActionLeftClick, Button: ButtonLeft}},
		{"right click", ComputerRequest{Action: ActionRightClick, Coordinates: coords(1)}, ClickCommand{Kind: ActionRightClick, Button: ButtonRight, Target: &one}},
		{"middle click", ComputerRequest{Action: ActionMiddleClick}, ClickCommand{Kind: ActionMiddleClick, Button: ButtonMiddle}},
		{"double click", ComputerRequest{Action: ActionDoubleClick}, ClickCommand{Kind: ActionDoubleClick, Button: ButtonLeft, Double: true}},
		{"drag", ComputerRequest{Action: ActionLeftClickDrag, Coordinates: coords(2)}, DragCommand{From: coords(2)[0], To: coords(2)[1], Complete: true}},
		{"scroll", ComputerRequest{Action: ActionScroll, Coordinates: []Coordinate{one, {X: -5, Y: 2}}}, ScrollCommand{Target: one, DeltaX: -5, DeltaY: 2, Complete: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, err := Parse(tt.req, PolicyStrict)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, cmd)
			assert.Equal(t, tt.req.Action, cmd.Action())
		})
	}
}

func TestParse_DegradedCardinality(t *testing.T) {
	tests := []struct {
		name string
		req  ComputerRequest
	}{
		{"move without point", ComputerRequest{Action: ActionMouseMove}},
		{"move with two points", ComputerRequest{Action: ActionMouseMove, Coordinates: coords(2)}},
		{"click with two points", ComputerRequest{Action: ActionLeftClick, Coordinates: coords(2)}},
		{"drag with one point", ComputerRequest{Action: ActionLeftClickDrag, Coordinates: coords(1)}},
		{"drag with three points", ComputerRequest{Action: ActionLeftClickDrag, Coordinates: coords(3)}},
		{"scroll with no points", ComputerRequest{Action: ActionScroll}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, err := Parse(tt.req, PolicyDegrade)
			require.NoError(t, err)

			switch c := cmd.(type) {
			case MoveCommand:
				assert.Nil(t, c.Target)
				assert.NotEmpty(t, c.Fallback)
			case ClickCommand:
				assert.Nil(t, c.Target)
				assert.NotEmpty(t, c.Fallback)
			case DragCommand:
				assert.False(t, c.Complete)
				assert.NotEmpty(t, c.Fallback)
			case ScrollCommand:
				assert.False(t, c.Complete)
				assert.NotEmpty(t, c.Fallback)
			default:
				t.Fatalf("unexpected command %T", cmd)
			}

			_, err = Parse(tt.req, PolicyStrict)
			assert.ErrorIs(t, err, ErrInvalidRequest)
		})
	}
}

func TestParse_InvalidAction(t *testing.T) {
	_, err := Parse(ComputerRequest{}, PolicyDegrade)
	assert.ErrorIs(t, err, ErrInvalidRequest)

	_, err = Parse(ComputerRequest{Action: "screenshot"}, PolicyDegrade)
	assert.ErrorIs(t, err, ErrInvalidRequest)
	assert.Contains(t, err.Error(), "screenshot")
}

func TestParse_EveryActionIsHandled(t *testing.T) {
	for _, action := range Actions {
		req := ComputerRequest{Action: action, Text: "a"}
		switch action {
		case ActionMouseMove:
			req.Coordinates = coords(1)
		case ActionLeftClickDrag, ActionScroll:
			req.Coordinates = coords(2)
		}

		cmd, err := Parse(req, PolicyStrict)
		require.NoError(t, err, action)
		assert.Equal(t, action, cmd.Action())
	}
}

func TestParse_CopiesCoordinates(t *testing.T) {
	req := ComputerRequest{Action: ActionMouseMove, Coordinates: coords(1)}
	cmd, err := Parse(req, PolicyDegrade)
	require.NoError(t, err)

	req.Coordinates[0].X = 999
	assert.Equal(t, float64(1), cmd.(MoveCommand).Target.X)
}
