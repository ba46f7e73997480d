package commands

import (
	"fmt"
	"sync"

	"github.com/mobile-next/desktopcli/computer"
	"github.com/mobile-next/desktopcli/devices"
	"github.com/mobile-next/desktopcli/utils"
)

// CommandResponse represents a standardized response format for all commands
type CommandResponse struct {
	Status string      `json:"status"`
	Data   interface{} `json:"data,omitempty"`
	Error  string      `json:"error,omitempty"`
	Code   string      `json:"code,omitempty"`
}

// NewSuccessResponse creates a success response
func NewSuccessResponse(data interface{}) *CommandResponse {
	return &CommandResponse{
		Status: "ok",
		Data:   data,
	}
}

// NewErrorResponse creates an error response. Errors from the executor carry
// their kind as Code.
func NewErrorResponse(err error) *CommandResponse {
	return &CommandResponse{
		Status: "error",
		Error:  err.Error(),
		Code:   string(computer.KindOf(err)),
	}
}

// Defaults fills request fields the caller left out.
type Defaults struct {
	NormalFactor      float64
	ScreenshotFormat  string
	ScreenshotQuality int
	MaxWidth          int
}

func DefaultDefaults() Defaults {
	return Defaults{
		NormalFactor:      1000,
		ScreenshotFormat:  utils.FormatPNG,
		ScreenshotQuality: utils.DefaultJPEGQuality,
	}
}

// Environment is what every command runs against. It is set once at startup
// via Setup by the cli before any local command or the server runs.
type Environment struct {
	Executor *computer.Executor
	Screen   devices.ScreenCapturer
	Defaults Defaults
}

var (
	envMu sync.RWMutex
	env   *Environment
)

func Setup(e *Environment) {
	envMu.Lock()
	defer envMu.Unlock()
	env = e
}

func current() (*Environment, error) {
	envMu.RLock()
	defer envMu.RUnlock()
	if env == nil {
		return nil, fmt.Errorf("commands are not initialized")
	}
	return env, nil
}
