package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/mobile-next/desktopcli/config"
	"github.com/spf13/cobra"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authentication commands",
	Long:  `Commands for managing the bearer token the server requires.`,
}

var authTokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Manage the API token",
	Long:  `Manages the API token stored in the OS keyring. A token in the config file or DESKTOPCLI_SERVER_TOKEN takes precedence.`,
}

var authTokenSetCmd = &cobra.Command{
	Use:   "set [token]",
	Short: "Store an API token in the keyring",
	Long:  `Stores the given token, or one read from stdin with '-', or a newly generated one when no argument is given.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var token string
		switch {
		case len(args) == 0:
			generated, err := config.GenerateToken()
			if err != nil {
				return err
			}
			token = generated
			fmt.Println(token)
		case args[0] == "-":
			line, err := bufio.NewReader(os.Stdin).ReadString('\n')
			if err != nil && line == "" {
				return fmt.Errorf("failed to read token from stdin: %w", err)
			}
			token = strings.TrimSpace(line)
		default:
			token = args[0]
		}

		if err := config.StoreToken(token); err != nil {
			return err
		}

		fmt.Fprintln(os.Stderr, "Token stored in keyring.")
		return nil
	},
}

var authTokenClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the API token from the keyring",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		removed, err := config.ClearToken()
		if err != nil {
			return err
		}

		if !removed {
			fmt.Println("No token stored.")
			return nil
		}
		fmt.Println("Token removed.")
		return nil
	},
}

var authTokenStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show where the API token comes from",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, source, err := appConfig.ResolveToken()
		if err != nil {
			return err
		}

		printJson(map[string]interface{}{
			"enabled": source != config.TokenNone,
			"source":  source,
		})
		return nil
	},
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(authTokenCmd)
	authTokenCmd.AddCommand(authTokenSetCmd, authTokenClearCmd, authTokenStatusCmd)
}
