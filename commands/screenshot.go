package commands

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mobile-next/desktopcli/utils"
)

// ScreenshotRequest represents the parameters for taking a screenshot
type ScreenshotRequest struct {
	Format     string `json:"format,omitempty"`     // "png" or "jpeg"
	Quality    int    `json:"quality,omitempty"`    // 1-100, only used for JPEG
	MaxWidth   int    `json:"maxWidth,omitempty"`   // scale down wider captures, 0 keeps full size
	OutputPath string `json:"outputPath,omitempty"` // file path, "-" for inline data, empty for default naming
}

// ScreenshotResponse carries the image and the real display dimensions,
// which callers need to compute coordinates regardless of scaling.
type ScreenshotResponse struct {
	Image    string `json:"image,omitempty"` // base64 encoded image data
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Format   string `json:"format"`
	FilePath string `json:"filePath,omitempty"`
}

// ScreenshotCommand captures the configured display
func ScreenshotCommand(req ScreenshotRequest) *CommandResponse {
	e, err := current()
	if err != nil {
		return NewErrorResponse(err)
	}
	if e.Screen == nil {
		return NewErrorResponse(fmt.Errorf("screen capture is not available"))
	}

	if req.Format == "" {
		req.Format = e.Defaults.ScreenshotFormat
	}
	req.Format = strings.ToLower(req.Format)
	if req.Format == "jpg" {
		req.Format = utils.FormatJPEG
	}
	if req.Format != utils.FormatPNG && req.Format != utils.FormatJPEG {
		return NewErrorResponse(fmt.Errorf("invalid format '%s'. Supported formats are 'png' and 'jpeg'", req.Format))
	}

	if req.Quality < 1 || req.Quality > 100 {
		req.Quality = e.Defaults.ScreenshotQuality
	}
	if req.MaxWidth <= 0 {
		req.MaxWidth = e.Defaults.MaxWidth
	}

	img, err := e.Screen.Capture()
	if err != nil {
		return NewErrorResponse(fmt.Errorf("error taking screenshot: %w", err))
	}

	bounds := img.Bounds()
	response := ScreenshotResponse{
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
		Format: req.Format,
	}

	imageBytes, err := utils.EncodeImage(utils.ScaleToWidth(img, req.MaxWidth), req.Format, req.Quality)
	if err != nil {
		return NewErrorResponse(fmt.Errorf("error encoding screenshot: %w", err))
	}

	if req.OutputPath == "-" {
		response.Image = base64.StdEncoding.EncodeToString(imageBytes)
		return NewSuccessResponse(response)
	}

	finalPath, err := screenshotPath(req.OutputPath, req.Format)
	if err != nil {
		return NewErrorResponse(err)
	}

	if err := os.WriteFile(finalPath, imageBytes, 0o600); err != nil {
		return NewErrorResponse(fmt.Errorf("error writing file: %w", err))
	}

	response.FilePath = finalPath
	return NewSuccessResponse(response)
}

func screenshotPath(outputPath, format string) (string, error) {
	if outputPath != "" {
		p, err := filepath.Abs(outputPath)
		if err != nil {
			return "", fmt.Errorf("invalid output path: %w", err)
		}
		return p, nil
	}

	extension := "png"
	if format == utils.FormatJPEG {
		extension = "jpg"
	}
	fileName := fmt.Sprintf("screenshot-%s.%s", time.Now().Format("20060102150405"), extension)
	p, err := filepath.Abs("./" + fileName)
	if err != nil {
		return "", fmt.Errorf("error creating default path: %w", err)
	}
	return p, nil
}

// DisplayInfoCommand describes the configured display
func DisplayInfoCommand() *CommandResponse {
	e, err := current()
	if err != nil {
		return NewErrorResponse(err)
	}
	if e.Screen == nil {
		return NewErrorResponse(fmt.Errorf("screen capture is not available"))
	}

	info, err := e.Screen.Info()
	if err != nil {
		return NewErrorResponse(fmt.Errorf("error getting display info: %w", err))
	}
	return NewSuccessResponse(info)
}
