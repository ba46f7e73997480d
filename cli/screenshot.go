package cli

import (
	"encoding/base64"
	"fmt"
	"os"

	"github.com/mobile-next/desktopcli/commands"
	"github.com/spf13/cobra"
)

var screenshotCmd = &cobra.Command{
	Use:   "screenshot",
	Short: "Take a screenshot of the desktop",
	Long:  `Captures the configured display and saves it locally as PNG or JPEG, or writes the image to stdout with '-o -'.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		setupEnvironment()

		req := commands.ScreenshotRequest{
			Format:     screenshotFormat,
			Quality:    screenshotJpegQuality,
			MaxWidth:   screenshotMaxWidth,
			OutputPath: screenshotOutputPath,
		}

		response := commands.ScreenshotCommand(req)

		// Handle stdout output for binary data
		if screenshotOutputPath == "-" && response.Status == "ok" {
			if screenshotResp, ok := response.Data.(commands.ScreenshotResponse); ok && screenshotResp.Image != "" {
				imageBytes, err := base64.StdEncoding.DecodeString(screenshotResp.Image)
				if err != nil {
					return fmt.Errorf("failed to decode image data: %w", err)
				}
				if _, err := os.Stdout.Write(imageBytes); err != nil {
					return fmt.Errorf("failed to write to stdout: %w", err)
				}
				return nil
			}
		}

		return printResponse(response)
	},
}

var displayCmd = &cobra.Command{
	Use:   "display",
	Short: "Show the configured display",
	Long:  `Prints the bounds and size of the display the executor drives, and whether input injection is available.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		setupEnvironment()
		return printResponse(commands.DisplayInfoCommand())
	},
}

func init() {
	rootCmd.AddCommand(screenshotCmd)
	rootCmd.AddCommand(displayCmd)

	screenshotCmd.Flags().StringVarP(&screenshotOutputPath, "output", "o", "", "Output file path for screenshot (e.g., screen.png, or '-' for stdout)")
	screenshotCmd.Flags().StringVarP(&screenshotFormat, "format", "f", "", "Output format for screenshot (png or jpeg, default from config)")
	screenshotCmd.Flags().IntVarP(&screenshotJpegQuality, "quality", "q", 0, "JPEG quality (1-100, only applies if format is jpeg)")
	screenshotCmd.Flags().IntVar(&screenshotMaxWidth, "max-width", 0, "Scale the image down to at most this width")
}
