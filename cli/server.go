package cli

import (
	"fmt"

	"github.com/mobile-next/desktopcli/daemon"
	"github.com/mobile-next/desktopcli/server"
	"github.com/mobile-next/desktopcli/utils"
	"github.com/spf13/cobra"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Server management commands",
	Long:  `Commands for managing the desktopcli server.`,
}

var serverStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the desktopcli server",
	Long:  `Starts the HTTP server exposing /execute, /screenshot, /rpc and /ws.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		listenAddr := appConfig.Server.Listen
		if cmd.Flags().Changed("listen") {
			listenAddr, _ = cmd.Flags().GetString("listen")
		}

		// GetBool cannot fail for defined flags
		enableCORS := appConfig.Server.CORS
		if cmd.Flags().Changed("cors") {
			enableCORS, _ = cmd.Flags().GetBool("cors")
		}
		isDaemon, _ := cmd.Flags().GetBool("daemon")

		// the daemon child would only report a busy port in its log file
		if !daemon.IsChild() {
			if err := utils.CheckListenAddr(listenAddr); err != nil {
				return err
			}
		}

		if isDaemon && !daemon.IsChild() {
			_, err := daemon.Daemonize()
			if err != nil {
				return fmt.Errorf("failed to start daemon: %w", err)
			}

			fmt.Printf("Server daemon spawned, attempting to listen on %s\n", listenAddr)
			return nil
		}

		token, source, err := appConfig.ResolveToken()
		if err != nil {
			return err
		}
		utils.Verbose("API token source: %s", source)

		setupEnvironment()

		return server.StartServer(server.Config{
			Addr:       listenAddr,
			EnableCORS: enableCORS,
			Token:      token,
			Hook:       shutdownHook,
			Version:    GetVersion(),
		})
	},
}

var serverKillCmd = &cobra.Command{
	Use:   "kill",
	Short: "Stop the daemonized desktopcli server",
	Long:  `Connects to the server and sends a shutdown command via JSON-RPC.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := appConfig.Server.Listen
		if cmd.Flags().Changed("listen") {
			addr, _ = cmd.Flags().GetString("listen")
		}

		token, _, err := appConfig.ResolveToken()
		if err != nil {
			return err
		}

		if err := daemon.KillServer(addr, token); err != nil {
			return err
		}

		fmt.Printf("Server shutdown command sent successfully\n")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)

	// add server subcommands
	serverCmd.AddCommand(serverStartCmd)
	serverCmd.AddCommand(serverKillCmd)

	// server start flags
	serverStartCmd.Flags().String("listen", "", "Address to listen on (e.g., 'localhost:12000' or '0.0.0.0:13000')")
	serverStartCmd.Flags().Bool("cors", false, "Enable CORS support")
	serverStartCmd.Flags().BoolP("daemon", "d", false, "Run server in daemon mode (background)")

	// server kill flags
	serverKillCmd.Flags().String("listen", "", "Address of server to kill (default from config)")
}
