package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/adbeam/adbeam/internal/interfaces/cli/migrate"
	"github.com/adbeam/adbeam/internal/interfaces/cli/server"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "adbeam",
		Short: "Adbeam - live session and delivery pacing engine",
		Long:  `Adbeam tracks overlay liveness sessions, ingests proof events and paces ad delivery to live streaming overlays.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
