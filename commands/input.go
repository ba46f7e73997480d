package commands

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/mobile-next/desktopcli/computer"
)

// ExecuteRequest is the /execute body. Screen dimensions default to the
// display size and NormalFactor to the configured factor when omitted.
type ExecuteRequest struct {
	ComputerRequest computer.ComputerRequest `json:"computerRequest"`
	ScreenWidth     *int                     `json:"screenWidth,omitempty"`
	ScreenHeight    *int                     `json:"screenHeight,omitempty"`
	NormalFactor    *float64                 `json:"normalFactor,omitempty"`

	// RequestID is assigned when empty.
	RequestID string `json:"-"`
}

type ExecuteResponse struct {
	Success   bool   `json:"success"`
	RequestID string `json:"requestId"`
}

// ExecuteCommand runs one computer action through the shared executor.
func ExecuteCommand(ctx context.Context, req ExecuteRequest) (*CommandResponse, string) {
	if req.RequestID == "" {
		req.RequestID = uuid.NewString()
	}

	e, err := current()
	if err != nil {
		return NewErrorResponse(err), req.RequestID
	}

	ec, err := executionContext(e, req)
	if err != nil {
		return NewErrorResponse(err), req.RequestID
	}

	ctx = computer.WithRequestID(ctx, req.RequestID)
	if err := e.Executor.Execute(ctx, req.ComputerRequest, ec); err != nil {
		return NewErrorResponse(err), req.RequestID
	}

	return NewSuccessResponse(ExecuteResponse{Success: true, RequestID: req.RequestID}), req.RequestID
}

func executionContext(e *Environment, req ExecuteRequest) (computer.ExecutionContext, error) {
	ec := computer.ExecutionContext{NormalFactor: e.Defaults.NormalFactor}
	if req.NormalFactor != nil {
		ec.NormalFactor = *req.NormalFactor
	}

	if req.ScreenWidth != nil && req.ScreenHeight != nil {
		ec.ScreenWidth = *req.ScreenWidth
		ec.ScreenHeight = *req.ScreenHeight
		return ec, nil
	}

	if !hasNormalCoordinates(req.ComputerRequest) {
		return ec, nil
	}

	if e.Screen == nil {
		return ec, fmt.Errorf("screen size is required for normal coordinates")
	}
	size, err := e.Screen.ScreenSize()
	if err != nil {
		return ec, fmt.Errorf("failed to get screen size: %w", err)
	}

	ec.ScreenWidth = size.Width
	ec.ScreenHeight = size.Height
	if req.ScreenWidth != nil {
		ec.ScreenWidth = *req.ScreenWidth
	}
	if req.ScreenHeight != nil {
		ec.ScreenHeight = *req.ScreenHeight
	}
	return ec, nil
}

func hasNormalCoordinates(req computer.ComputerRequest) bool {
	for _, c := range req.Coordinates {
		if c.Type == computer.CoordinateNormal {
			return true
		}
	}
	return false
}
