package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/japaniel/pdf2words/pkg/config"
	"github.com/japaniel/pdf2words/pkg/pipeline"
	"github.com/japaniel/pdf2words/pkg/session"
)

var extractCommand = &cobra.Command{
	Use:   "extract <book.pdf>",
	Short: "Run the extraction pipeline on one book",
	Long: `Runs the full pipeline on one book: rasterize -> recognize -> cache ->
tokenize -> classify -> export. Recognized text is cached next to the word
stores, so rerunning on the same book and page range never repeats OCR, and
words you already classified are never asked about again. Answer q (or press
Ctrl-C) at any point; progress made so far is kept and the rest is offered on
the next run.`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

var (
	extractConfigPath  string
	extractPages       string
	extractLanguages   []string
	extractDPI         int
	extractDataDir     string
	extractWordList    string
	extractWorkers     int
	extractTranslation bool
	extractVerbose     bool
)

func init() {
	extractCommand.Flags().StringVar(&extractConfigPath, "config", "", "Path to config.json (values can be overridden by other flags)")
	extractCommand.Flags().StringVarP(&extractPages, "pages", "p", "", `Page range to process, e.g. "16-241" or "3,7,10-12" (default: all pages)`)
	extractCommand.Flags().StringSliceVarP(&extractLanguages, "lang", "l", nil, "OCR language(s), e.g. eng")
	extractCommand.Flags().IntVar(&extractDPI, "dpi", 0, "Page render resolution")
	extractCommand.Flags().StringVarP(&extractDataDir, "data-dir", "d", "", "Directory for the text cache and word stores")
	extractCommand.Flags().StringVar(&extractWordList, "word-list", "", "Reference word list used to filter OCR misreads (optional)")
	extractCommand.Flags().IntVar(&extractWorkers, "workers", 0, "Parallel page recognition workers")
	extractCommand.Flags().BoolVarP(&extractTranslation, "translate", "t", false, "Prompt for an optional translation after each unknown word")
	extractCommand.Flags().BoolVarP(&extractVerbose, "verbose", "v", false, "Print detailed progress information")

	rootCmd.AddCommand(extractCommand)
}

func runExtract(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg := config.Default()
	if extractConfigPath != "" {
		loaded, err := config.Load(extractConfigPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	cfg.ApplyEnv()
	cfg.PDF = args[0]

	// Command-line flags take priority over config file and environment.
	if cmd.Flags().Changed("pages") {
		cfg.Pages = extractPages
	}
	if cmd.Flags().Changed("lang") {
		cfg.Languages = extractLanguages
	}
	if cmd.Flags().Changed("dpi") {
		cfg.DPI = extractDPI
	}
	if cmd.Flags().Changed("data-dir") {
		cfg.DataDir = extractDataDir
	}
	if cmd.Flags().Changed("word-list") {
		cfg.WordList = extractWordList
	}
	if cmd.Flags().Changed("workers") {
		cfg.Workers = extractWorkers
	}
	if cmd.Flags().Changed("translate") {
		cfg.AskTranslation = extractTranslation
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = extractVerbose
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	var logger *log.Logger
	if cfg.Verbose {
		logger = log.New(cmd.ErrOrStderr(), "", log.LstdFlags)
	}

	prompt := session.NewPrompt(cmd.InOrStdin(), cmd.OutOrStdout())
	prompt.AskTranslation = cfg.AskTranslation

	summary, err := pipeline.Run(ctx, cfg, pipeline.Deps{
		Decider: prompt,
		Logger:  logger,
	})
	printSummary(cmd, summary)
	if err != nil {
		return err
	}

	if !summary.Clean() {
		// Completed, but some pages could not contribute text.
		exitCode = 2
	}
	return nil
}

func printSummary(cmd *cobra.Command, s pipeline.Summary) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\n%s (pages %s)\n", s.Document, s.PageRange)
	if s.CacheHit {
		fmt.Fprintln(out, "recognized text: cached")
	} else {
		fmt.Fprintf(out, "recognized text: %d pages processed\n", s.PagesProcessed)
	}
	if len(s.PagesSkipped) > 0 {
		fmt.Fprintf(out, "pages skipped (out of range): %s\n", joinInts(s.PagesSkipped))
	}
	if len(s.PagesFailed) > 0 {
		fmt.Fprintf(out, "pages failed (no text recognized): %s\n", joinInts(s.PagesFailed))
	}
	fmt.Fprintf(out, "candidates offered: %d\n", s.Candidates)
	fmt.Fprintf(out, "newly known: %d, newly unknown: %d\n", s.NewKnown, s.NewUnknown)
	if s.Pending > 0 {
		fmt.Fprintf(out, "still pending (re-offered next run): %d\n", s.Pending)
	}
	if s.WordListPath != "" {
		fmt.Fprintf(out, "word list exported to %s\n", s.WordListPath)
	}
}

func joinInts(ns []int) string {
	parts := make([]string, len(ns))
	for i, n := range ns {
		parts[i] = fmt.Sprint(n)
	}
	return strings.Join(parts, ", ")
}
