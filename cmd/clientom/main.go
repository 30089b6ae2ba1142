package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/SlnkoEnergy/Client-O-M/internal/interfaces/cli/server"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "clientom",
		Short: "Client O&M - customer complaint and ticket tracking portal",
		Long:  `Client O&M serves the customer-facing portal for filing solar plant complaints and tracking service ticket status.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
