package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mobile-next/desktopcli/cli"
	"github.com/mobile-next/desktopcli/devices"
	"github.com/mobile-next/desktopcli/utils"
)

func main() {
	// hooks release held input and stop the server
	hook := devices.NewShutdownHook()
	cli.SetShutdownHook(hook)

	// setup signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// run command in goroutine
	done := make(chan error, 1)
	go func() {
		done <- cli.Execute()
	}()

	select {
	case sig := <-sigChan:
		utils.Info("Received %s, shutting down", sig)
		if err := hook.Shutdown(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		os.Exit(0)
	case err := <-done:
		// release anything a failed action left pressed
		if hookErr := hook.Shutdown(); hookErr != nil {
			fmt.Fprintln(os.Stderr, hookErr)
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
}
