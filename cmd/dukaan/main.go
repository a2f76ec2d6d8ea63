package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "dukaan",
	Short: "Dukaan e-commerce API server",
	Long:  "Dukaan is a storefront REST API. Use this CLI to run the server and manage the database.",
}

func init() {
	// Server
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(routeListCmd)

	// Database
	rootCmd.AddCommand(dbIndexCmd)
	rootCmd.AddCommand(dbSeedCmd)
}
