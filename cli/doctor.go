package cli

import (
	"github.com/mobile-next/desktopcli/commands"
	"github.com/spf13/cobra"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Run system diagnostics",
	Long:  `Reports the platform, display and input backend for troubleshooting`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, source, err := appConfig.ResolveToken()
		if err != nil {
			source = "unavailable"
		}

		return printResponse(commands.DoctorCommand(commands.DoctorOptions{
			Version:     GetVersion(),
			ConfigPath:  appConfig.Path,
			TokenSource: string(source),
		}))
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		printJson(commands.NewSuccessResponse(map[string]string{"version": GetVersion()}))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(versionCmd)
}
