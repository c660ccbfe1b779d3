package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-scorer/internal/fetch"
	"github.com/jonathan/resume-scorer/internal/ingestion"
	"github.com/jonathan/resume-scorer/internal/sections"
	"github.com/jonathan/resume-scorer/internal/types"
)

var extractCmd = &cobra.Command{
	Use:   "extract <file-or-url>",
	Short: "Extract the plain text of a resume and show which sections were found",
	Long: `Extract the text of a resume without scoring it.

With --out, the normalized text and its metadata are written to resume.txt and
resume.meta.json in that directory.`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

var (
	extractOutDir  string
	extractVerbose bool
)

func init() {
	extractCmd.Flags().StringVarP(&extractOutDir, "out", "o", "", "Directory to write resume.txt and resume.meta.json to")
	extractCmd.Flags().BoolVarP(&extractVerbose, "verbose", "v", false, "Print fetch details")
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return extractDocument(ctx, args[0], extractOutDir, extractVerbose, cmd.OutOrStdout())
}

func extractDocument(ctx context.Context, target, outDir string, verbose bool, out io.Writer) error {
	var doc *ingestion.Document
	var err error
	if isURL(target) {
		doc, err = ingestion.IngestFromURL(ctx, target, fetch.DefaultOptions(), verbose)
	} else {
		doc, err = ingestion.IngestFromFile(target)
	}
	if err != nil {
		return err
	}

	if outDir != "" {
		if err := ingestion.WriteOutput(outDir, doc); err != nil {
			return err
		}
	}

	meta := doc.Metadata
	_, _ = fmt.Fprintf(out, "Source: %s\n", meta.Source)
	_, _ = fmt.Fprintf(out, "Type:   %s\n", meta.MIME)
	if meta.Pages > 0 {
		_, _ = fmt.Fprintf(out, "Pages:  %d\n", meta.Pages)
	}
	_, _ = fmt.Fprintf(out, "Text:   %d characters\n", len(doc.Text))

	labels := make([]string, len(types.Categories))
	for i, c := range types.Categories {
		labels[i] = c.Label()
	}
	found := sections.ExtractAll(doc.Text, labels)
	for _, label := range labels {
		if n := len(found[label]); n > 0 {
			_, _ = fmt.Fprintf(out, "  %-13s %d characters\n", label, n)
		} else {
			_, _ = fmt.Fprintf(out, "  %-13s not found\n", label)
		}
	}
	if outDir != "" {
		_, _ = fmt.Fprintf(out, "Wrote text and metadata to %s\n", outDir)
	}
	return nil
}
