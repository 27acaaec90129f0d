// Package main provides the entry point for the Resume Verifier CLI and HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "resume_verifier",
	Short: "Resume verification and risk scoring",
	Long:  "Resume Verifier extracts structured facts from resume documents, cross-checks them against public sources (company registries, GitHub, LinkedIn, domain records), and produces a weighted trust score with ranked risk flags.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
