// Package main provides the entry point for the scheduling and evaluation
// HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "cfa-eval",
	Short: "Recurring-task scheduling and evaluation workflow server",
	Long:  "cfa-eval materializes recurring task and checklist instances, auto-schedules employee evaluations, and drives the evaluation review workflow via REST API.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
