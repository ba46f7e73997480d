package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mobile-next/desktopcli/commands"
)

// HandlerFunc is the signature for JSON-RPC method handlers
type HandlerFunc func(ctx context.Context, params json.RawMessage) (interface{}, error)

// methodError carries a command failure together with its error kind.
type methodError struct {
	Message string `json:"error"`
	Code    string `json:"code,omitempty"`
}

func (e *methodError) Error() string {
	return e.Message
}

func fromResponse(resp *commands.CommandResponse) error {
	return &methodError{Message: resp.Error, Code: resp.Code}
}

// errorData is the JSON-RPC error data for err: the message alone, or the
// message and kind for executor failures.
func errorData(err error) interface{} {
	var me *methodError
	if errors.As(err, &me) && me.Code != "" {
		return me
	}
	return err.Error()
}

// methodRegistry maps method names to handlers, shared by /rpc and /ws.
func (s *Server) methodRegistry() map[string]HandlerFunc {
	return map[string]HandlerFunc{
		"execute":         handleExecute,
		"screenshot":      handleScreenshot,
		"display_info":    handleDisplayInfo,
		"server.shutdown": s.handleShutdown,
	}
}

// Execute dispatches a method call using the registry
func (s *Server) Execute(ctx context.Context, method string, params json.RawMessage) (interface{}, error) {
	handler, exists := s.methodRegistry()[method]
	if !exists {
		return nil, fmt.Errorf("method not found: %s", method)
	}

	return handler(ctx, params)
}

func handleExecute(ctx context.Context, params json.RawMessage) (interface{}, error) {
	if len(params) == 0 {
		return nil, fmt.Errorf("'params' is required with fields: computerRequest, screenWidth, screenHeight, normalFactor")
	}

	var req commands.ExecuteRequest
	if err := json.Unmarshal(params, &req); err != nil {
		return nil, fmt.Errorf("invalid parameters: %v. Expected fields: computerRequest, screenWidth, screenHeight, normalFactor", err)
	}
	req.RequestID = requestIDFrom(ctx)

	response, _ := commands.ExecuteCommand(ctx, req)
	if response.Status == "error" {
		return nil, fromResponse(response)
	}

	return response.Data, nil
}

// ScreenshotParams represents the parameters for the screenshot request
type ScreenshotParams struct {
	Format   string `json:"format,omitempty"`   // "png" or "jpeg"
	Quality  int    `json:"quality,omitempty"`  // 1-100, only used for JPEG
	MaxWidth int    `json:"maxWidth,omitempty"` // scale down wider captures
}

func handleScreenshot(_ context.Context, params json.RawMessage) (interface{}, error) {
	var screenshotParams ScreenshotParams
	if len(params) > 0 {
		if err := json.Unmarshal(params, &screenshotParams); err != nil {
			return nil, fmt.Errorf("invalid parameters: %v", err)
		}
	}

	response := commands.ScreenshotCommand(commands.ScreenshotRequest{
		Format:     screenshotParams.Format,
		Quality:    screenshotParams.Quality,
		MaxWidth:   screenshotParams.MaxWidth,
		OutputPath: "-",
	})
	if response.Status == "error" {
		return nil, fromResponse(response)
	}

	return response.Data, nil
}

func handleDisplayInfo(_ context.Context, _ json.RawMessage) (interface{}, error) {
	response := commands.DisplayInfoCommand()
	if response.Status == "error" {
		return nil, fromResponse(response)
	}
	return response.Data, nil
}

func (s *Server) handleShutdown(_ context.Context, _ json.RawMessage) (interface{}, error) {
	// respond before the listener closes
	go s.requestShutdown()
	return okResponse, nil
}
