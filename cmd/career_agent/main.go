// Package main provides the entry point for the career advisor CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "career_agent",
	Short: "Career profile analysis agent",
	Long:  "career_agent reads a free-text professional profile, extracts skills and career signals with an LLM, optionally grounds the findings in live job-market search results, and writes a structured JSON report.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
