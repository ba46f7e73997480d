package cli

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/mobile-next/desktopcli/commands"
	"github.com/mobile-next/desktopcli/computer"
	"github.com/mobile-next/desktopcli/config"
	"github.com/mobile-next/desktopcli/devices"
	"github.com/mobile-next/desktopcli/utils"
	"github.com/spf13/cobra"
)

var version = "dev"

// GetVersion returns the build version, set with -ldflags "-X".
func GetVersion() string {
	return version
}

var (
	appConfig    *config.Config
	shutdownHook = devices.NewShutdownHook()
	envOnce      sync.Once
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "desktopcli",
	Short: "Drive the local desktop over HTTP",
	Long:  `Executes pointer and keyboard actions and captures screenshots of the local desktop, locally or through an HTTP server.`,
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
}

func initConfig() error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	appConfig = cfg

	if err := utils.SetLevel(cfg.Log.Level); err != nil {
		return err
	}
	format := cfg.Log.Format
	if logFormat != "" {
		format = logFormat
	}
	if err := utils.SetFormat(format); err != nil {
		return err
	}
	if verbose {
		utils.SetVerbose(true)
	}

	return nil
}

// SetShutdownHook replaces the hook registry; main installs the one its
// signal handler runs.
func SetShutdownHook(hook *devices.ShutdownHook) {
	shutdownHook = hook
}

// setupEnvironment builds the desktop device and executor once and hands
// them to the commands package.
func setupEnvironment() {
	envOnce.Do(func() {
		desktop := devices.NewDesktop(devices.DesktopConfig{
			Display:               appConfig.Executor.Display,
			DefaultKeystrokeDelay: appConfig.DefaultKeystrokeDelay(),
		})
		shutdownHook.Register("desktop-input", desktop.ReleaseAll)

		commands.Setup(&commands.Environment{
			Executor: computer.NewExecutor(desktop, appConfig.ExecutorOptions()),
			Screen:   desktop,
			Defaults: commands.Defaults{
				NormalFactor:      appConfig.Executor.NormalFactor,
				ScreenshotFormat:  appConfig.Screenshot.Format,
				ScreenshotQuality: appConfig.Screenshot.Quality,
				MaxWidth:          appConfig.Screenshot.MaxWidth,
			},
		})
	})
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.desktopcli/config.ini)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: text or json (overrides config)")
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// printJson is a helper function to print JSON responses
func printJson(data interface{}) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		utils.Error("failed to marshal response: %v", err)
		return
	}
	fmt.Println(string(jsonData))
}

// printResponse prints response and turns an error status into an error.
func printResponse(response *commands.CommandResponse) error {
	printJson(response)
	if response.Status == "error" {
		return fmt.Errorf("%s", response.Error)
	}
	return nil
}
