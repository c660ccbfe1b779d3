// Package main provides the entry point for the resume scorer CLI and HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "resume_scorer",
	Short: "Score resume sections against keyword lists",
	Long: `Resume Scorer extracts the SKILLS, EXPERIENCE, ACHIEVEMENTS and PROJECTS sections
from a resume (PDF, DOCX, HTML or plain text) and scores each one by keyword similarity.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
