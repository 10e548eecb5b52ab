package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var Version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:     "migrate",
		Short:   "Apply the enrollment database schema",
		Version: Version,
	}

	rootCmd.AddCommand(upCmd())
	rootCmd.AddCommand(seedCmd())
	rootCmd.AddCommand(listCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
