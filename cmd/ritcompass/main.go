package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// @title RIT Compass API
// @version 1.0
// @description Turns questions about college processes into step-by-step timelines

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	root := &cobra.Command{
		Use:           "ritcompass",
		Short:         "Answers questions about college processes with step-by-step timelines",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(serveCMD(), seedCMD(), askCMD())

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}
