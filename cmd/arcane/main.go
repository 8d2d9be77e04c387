package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/annalhq/arcane/internal/build"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "arcane",
		Short:   "A self-hosted personal content library",
		Long:    "Arcane — save, tag, collect, and search your links and notes.",
		Version: build.Version,
	}

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newMigrateCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
