// Package main provides the intake CLI: it stages documents, submits them as
// a batch, and renders the resulting eligibility report.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "intake",
	Short: "Eligibility report intake client",
	Long:  "Submit identity and income documents to the Eligibility Report API and render the derived eligibility report.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
