// Package observability provides formatted output utilities for the CLI.
package observability

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jonathan/resume-scorer/internal/pipeline"
	"github.com/jonathan/resume-scorer/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
	// previewLines caps how much section text is echoed in verbose mode
	previewLines = 3
)

// Printer handles formatted output for the CLI
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(title))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(strings.TrimRight(content, "\n"), "\n")
	for _, line := range lines {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

func truncate(line string) string {
	runes := []rune(line)
	if len(runes) > boxWidth-4 {
		return string(runes[:boxWidth-7]) + "..."
	}
	return line
}

// FormatPercent renders a score without trailing zeros, e.g. 42.5 or 100.
func FormatPercent(score float64) string {
	return strconv.FormatFloat(score, 'f', -1, 64)
}

// ScoreLines returns the report as "Skills Score: 42.5%" lines followed by the total.
func ScoreLines(report *types.ScoreReport) []string {
	if report == nil {
		return nil
	}
	lines := make([]string, 0, len(report.Sections)+1)
	for _, s := range report.Sections {
		lines = append(lines, fmt.Sprintf("%s Score: %s%%", s.Category.Title(), FormatPercent(s.Score)))
	}
	lines = append(lines, fmt.Sprintf("Total Score: %s%%", FormatPercent(report.Total)))
	return lines
}

// PrintScoreReport outputs the four section scores and the total.
func (p *Printer) PrintScoreReport(report *types.ScoreReport) {
	if report == nil {
		return
	}

	title := "RESUME SCORE"
	if report.Source != "" {
		title += ": " + report.Source
	}
	p.printBox(title, strings.Join(ScoreLines(report), "\n"))
}

// PrintSections outputs the start of every extracted section. Used in verbose mode.
func (p *Printer) PrintSections(report *types.ScoreReport) {
	if report == nil {
		return
	}

	var sb strings.Builder
	for i, s := range report.Sections {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(fmt.Sprintf("%s:\n", s.Category.Label()))
		if s.Text == "" {
			sb.WriteString("  (not found)\n")
			continue
		}
		lines := strings.Split(s.Text, "\n")
		for _, line := range lines[:min(len(lines), previewLines)] {
			sb.WriteString(fmt.Sprintf("  %s\n", line))
		}
		if len(lines) > previewLines {
			sb.WriteString(fmt.Sprintf("  ... and %d more lines\n", len(lines)-previewLines))
		}
	}

	p.printBox("EXTRACTED SECTIONS", sb.String())
}

// PrintKeywordSet outputs the keywords used for each category.
func (p *Printer) PrintKeywordSet(ks types.KeywordSet) {
	if ks == nil {
		return
	}

	var sb strings.Builder
	for _, c := range types.Categories {
		words, ok := ks[c.KeywordKey()]
		if !ok {
			continue
		}
		sb.WriteString(fmt.Sprintf("%s (%d):\n", c.KeywordKey(), len(words)))
		count := min(len(words), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", words[i]))
		}
		if len(words) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(words)-maxItemsToShow))
		}
	}

	p.printBox("KEYWORDS", sb.String())
}

// PrintBatchSummary outputs one line per scored file.
func (p *Printer) PrintBatchSummary(results []pipeline.FileResult) {
	if len(results) == 0 {
		return
	}

	var sb strings.Builder
	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			sb.WriteString(fmt.Sprintf("✗ %s: %v\n", r.Path, r.Err))
			continue
		}
		sb.WriteString(fmt.Sprintf("✓ %s: %s%%\n", r.Path, FormatPercent(r.Report.Total)))
	}
	sb.WriteString(fmt.Sprintf("\n%d scored, %d failed\n", len(results)-failed, failed))

	p.printBox("BATCH SUMMARY", sb.String())
}
