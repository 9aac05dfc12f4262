// Package main provides the entry point for the syllabus auditor CLI and
// HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "syllabus_agent",
	Short: "Curriculum Aging Index auditor",
	Long:  "Syllabus Auditor grades course syllabi against current industry skill lists, tracks verified skill gaps per user, and generates learning guidance via REST API or CLI.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
