package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/mobile-next/desktopcli/commands"
	"github.com/mobile-next/desktopcli/computer"
	"github.com/spf13/cobra"
)

var ioCmd = &cobra.Command{
	Use:   "io",
	Short: "Pointer and keyboard actions",
	Long:  `Runs one computer action against the local desktop through the same executor the server uses.`,
}

// parsePoint parses "x,y". With normal set the point is marked normalized.
func parsePoint(s string, normal bool) (computer.Coordinate, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return computer.Coordinate{}, fmt.Errorf("invalid coordinate format. Expected 'x,y', got '%s'", s)
	}

	x, errX := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	y, errY := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if errX != nil || errY != nil {
		return computer.Coordinate{}, fmt.Errorf("invalid coordinate values. x and y must be numbers. Got x='%s', y='%s'", parts[0], parts[1])
	}

	c := computer.Coordinate{X: x, Y: y, Type: computer.CoordinateScreen}
	if normal {
		c.Type = computer.CoordinateNormal
	}
	return c, nil
}

func parsePoints(args []string, normal bool) ([]computer.Coordinate, error) {
	points := make([]computer.Coordinate, 0, len(args))
	for _, arg := range args {
		p, err := parsePoint(arg, normal)
		if err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, nil
}

// clickAction maps --button and --double to a click action.
func clickAction(button string, double bool) (computer.Action, error) {
	switch strings.ToLower(button) {
	case "", "left":
		if double {
			return computer.ActionDoubleClick, nil
		}
		return computer.ActionLeftClick, nil
	case "right":
		if double {
			return "", fmt.Errorf("double click is only supported for the left button")
		}
		return computer.ActionRightClick, nil
	case "middle":
		if double {
			return "", fmt.Errorf("double click is only supported for the left button")
		}
		return computer.ActionMiddleClick, nil
	default:
		return "", fmt.Errorf("invalid button '%s'. Supported buttons are 'left', 'right' and 'middle'", button)
	}
}

func runAction(cmd *cobra.Command, req computer.ComputerRequest) error {
	setupEnvironment()

	execReq := commands.ExecuteRequest{ComputerRequest: req}
	if cmd.Flags().Changed("normal-factor") {
		execReq.NormalFactor = &ioNormalFactor
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	response, _ := commands.ExecuteCommand(ctx, execReq)
	return printResponse(response)
}

func pointsAction(action computer.Action) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		points, err := parsePoints(args, ioNormal)
		if err != nil {
			return printResponse(commands.NewErrorResponse(err))
		}
		return runAction(cmd, computer.ComputerRequest{Action: action, Coordinates: points})
	}
}

var ioKeyCmd = &cobra.Command{
	Use:   "key [chord]",
	Short: "Press a key chord",
	Long:  `Presses and releases a key chord such as "ctrl+c", "shift+Tab" or "page down".`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAction(cmd, computer.ComputerRequest{Action: computer.ActionKey, Text: args[0]})
	},
}

var ioTypeCmd = &cobra.Command{
	Use:   "type [text]",
	Short: "Type text",
	Long:  `Types text at the focused element. A trailing newline presses Enter.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAction(cmd, computer.ComputerRequest{Action: computer.ActionType, Text: args[0]})
	},
}

var ioMoveCmd = &cobra.Command{
	Use:   "move [x,y]",
	Short: "Move the pointer",
	Args:  cobra.ExactArgs(1),
	RunE:  pointsAction(computer.ActionMouseMove),
}

var ioClickCmd = &cobra.Command{
	Use:   "click [x,y]",
	Short: "Click a mouse button",
	Long:  `Clicks at the given point, or at the current pointer position when no point is given.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		action, err := clickAction(ioButton, ioDouble)
		if err != nil {
			return printResponse(commands.NewErrorResponse(err))
		}
		return pointsAction(action)(cmd, args)
	},
}

var ioDragCmd = &cobra.Command{
	Use:   "drag [x1,y1] [x2,y2]",
	Short: "Drag with the left button held",
	Args:  cobra.ExactArgs(2),
	RunE:  pointsAction(computer.ActionLeftClickDrag),
}

var ioScrollCmd = &cobra.Command{
	Use:   "scroll [x,y] [dx,dy]",
	Short: "Scroll at a point",
	Long:  `Moves to x,y and scrolls. Positive dy scrolls up, negative down; positive dx scrolls right, negative left.`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		target, err := parsePoint(args[0], ioNormal)
		if err != nil {
			return printResponse(commands.NewErrorResponse(err))
		}
		// the delta is never normalized
		delta, err := parsePoint(args[1], false)
		if err != nil {
			return printResponse(commands.NewErrorResponse(err))
		}
		return runAction(cmd, computer.ComputerRequest{
			Action:      computer.ActionScroll,
			Coordinates: []computer.Coordinate{target, delta},
		})
	},
}

var ioWaitCmd = &cobra.Command{
	Use:   "wait",
	Short: "Pause for the configured wait duration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAction(cmd, computer.ComputerRequest{Action: computer.ActionWait})
	},
}

func init() {
	rootCmd.AddCommand(ioCmd)

	ioCmd.AddCommand(ioKeyCmd, ioTypeCmd, ioMoveCmd, ioClickCmd, ioDragCmd, ioScrollCmd, ioWaitCmd)

	ioCmd.PersistentFlags().BoolVar(&ioNormal, "normal", false, "Treat coordinates as normalized (scaled by --normal-factor)")
	ioCmd.PersistentFlags().Float64Var(&ioNormalFactor, "normal-factor", 1000, "Normalization factor for --normal coordinates (default from config)")

	ioClickCmd.Flags().StringVar(&ioButton, "button", "left", "Mouse button: left, right or middle")
	ioClickCmd.Flags().BoolVar(&ioDouble, "double", false, "Double click (left button only)")
}
