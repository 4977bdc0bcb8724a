// Package main provides the pdf2words CLI: extract the vocabulary a reader
// does not yet know from a PDF book into study-deck word lists.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "pdf2words",
	Short: "Extract unknown vocabulary from a PDF book",
	Long: `pdf2words rasterizes the pages of a PDF book, recognizes their text with
OCR, and walks you through the words you have not seen before. Known words are
remembered across books; unknown words are collected with an example sentence
and an optional translation into files a deck builder can turn into study
cards.`,
}

// exitCode lets subcommands report a degraded-but-completed run (some pages
// skipped or failed) without aborting mid-command.
var exitCode int

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	os.Exit(exitCode)
}
