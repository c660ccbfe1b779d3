package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-scorer/internal/config"
	"github.com/jonathan/resume-scorer/internal/db"
	"github.com/jonathan/resume-scorer/internal/observability"
	"github.com/jonathan/resume-scorer/internal/pipeline"
	"github.com/jonathan/resume-scorer/internal/schemas"
	"github.com/jonathan/resume-scorer/internal/types"
	schemafiles "github.com/jonathan/resume-scorer/schemas"
)

var scoreCmd = &cobra.Command{
	Use:   "score <file-or-url>...",
	Short: "Score one or more resumes",
	Long: `Extract the four resume sections from each document and score them against the keyword set.

Documents may be local files (PDF, DOCX, HTML, TXT) or http(s) URLs. Several files are
scored concurrently (--parallel). Configuration can be loaded from a JSON file using --config;
command-line flags override config file values.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runScore,
}

var (
	scoreConfigPath string
	scoreKeywords   string
	scoreOutDir     string
	scoreJSON       bool
	scoreVerbose    bool
	scoreParallel   int
	scoreSave       bool
	scoreDBURL      string
)

func init() {
	scoreCmd.Flags().StringVar(&scoreConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	scoreCmd.Flags().StringVarP(&scoreKeywords, "keywords", "k", "", "Path to keyword set JSON (created with defaults if missing)")
	scoreCmd.Flags().StringVarP(&scoreOutDir, "out", "o", "", "Directory to write <name>.score.json reports to")
	scoreCmd.Flags().BoolVar(&scoreJSON, "json", false, "Print reports as JSON instead of a summary box")
	scoreCmd.Flags().BoolVarP(&scoreVerbose, "verbose", "v", false, "Print extracted sections and debug information")
	scoreCmd.Flags().IntVarP(&scoreParallel, "parallel", "p", 0, "Number of files scored concurrently")
	scoreCmd.Flags().BoolVar(&scoreSave, "save", false, "Store reports in the database (requires DATABASE_URL or --db-url)")
	scoreCmd.Flags().StringVar(&scoreDBURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")

	rootCmd.AddCommand(scoreCmd)
}

// scoreRun holds everything scoreAll needs; built from flags by runScore.
type scoreRun struct {
	pipeline *pipeline.Pipeline
	parallel int
	outDir   string
	asJSON   bool
	verbose  bool
	store    reportSaver
	errOut   io.Writer // per-document failures; defaults to os.Stderr
}

// reportSaver is the subset of *db.DB used to persist CLI results.
type reportSaver interface {
	SaveReport(ctx context.Context, report *types.ScoreReport) error
}

func runScore(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadSettings(cmd, scoreConfigPath, flagOverrides{
		"keywords": func(c *config.Config) { c.KeywordsPath = scoreKeywords },
		"verbose":  func(c *config.Config) { c.Verbose = scoreVerbose },
		"parallel": func(c *config.Config) { c.Parallel = scoreParallel },
		"db-url":   func(c *config.Config) { c.DatabaseURL = scoreDBURL },
	})
	if err != nil {
		return err
	}

	p, err := newPipeline(cfg, nil)
	if err != nil {
		return err
	}

	run := scoreRun{
		pipeline: p,
		parallel: cfg.Parallel,
		outDir:   scoreOutDir,
		asJSON:   scoreJSON,
		verbose:  cfg.Verbose,
		errOut:   cmd.ErrOrStderr(),
	}

	if scoreSave {
		if cfg.DatabaseURL == "" {
			return fmt.Errorf("--save requires DATABASE_URL or --db-url")
		}
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer database.Close()
		if err := database.EnsureSchema(ctx); err != nil {
			return err
		}
		run.store = database
	}

	return scoreAll(ctx, run, args, cmd.OutOrStdout())
}

func isURL(target string) bool {
	return strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://")
}

// scoreAll scores every target, prints the results and returns an error if any failed.
func scoreAll(ctx context.Context, run scoreRun, targets []string, out io.Writer) error {
	results := make([]pipeline.FileResult, len(targets))

	var paths []string
	var pathIdx []int
	for i, target := range targets {
		if !isURL(target) {
			paths = append(paths, target)
			pathIdx = append(pathIdx, i)
			continue
		}
		report, err := run.pipeline.ScoreDocument(ctx, pipeline.ScoreOptions{URL: target, Verbose: run.verbose})
		results[i] = pipeline.FileResult{Path: target, Report: report, Err: err}
	}

	if len(paths) > 0 {
		fileResults, err := run.pipeline.ScoreFiles(ctx, paths, run.parallel)
		if err != nil {
			return err
		}
		for j, r := range fileResults {
			results[pathIdx[j]] = r
		}
	}

	errOut := run.errOut
	if errOut == nil {
		errOut = os.Stderr
	}

	printer := observability.NewPrinter(out)
	names := make(reportNames)
	failed := 0
	for i := range results {
		r := &results[i]
		if r.Err == nil {
			r.Err = emitReport(ctx, run, printer, r.Report, names, out)
		}
		if r.Err != nil {
			failed++
			if len(results) > 1 {
				_, _ = fmt.Fprintf(errOut, "%s: %v\n", r.Path, r.Err)
			}
		}
	}

	if len(results) > 1 && !run.asJSON {
		printer.PrintBatchSummary(results)
	}

	if failed > 0 {
		if len(results) == 1 {
			return results[0].Err
		}
		return fmt.Errorf("%d of %d documents failed to score", failed, len(results))
	}
	return nil
}

// emitReport prints one report and writes/stores it as configured.
func emitReport(ctx context.Context, run scoreRun, printer *observability.Printer, report *types.ScoreReport, names reportNames, out io.Writer) error {
	if run.asJSON {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal report: %w", err)
		}
		if _, err := fmt.Fprintln(out, string(data)); err != nil {
			return err
		}
	} else {
		if run.verbose {
			printer.PrintSections(report)
		}
		printer.PrintScoreReport(report)
	}

	if run.outDir != "" {
		path, err := writeReport(run.outDir, names.claim(report.Source), report)
		if err != nil {
			return err
		}
		if run.verbose {
			log.Printf("[VERBOSE] Wrote report to %s", path)
		}
	}

	if run.store != nil {
		if err := run.store.SaveReport(ctx, report); err != nil {
			return fmt.Errorf("failed to save report: %w", err)
		}
	}
	return nil
}

// writeReport validates the report against its JSON schema and writes it to outDir/name.
func writeReport(outDir, name string, report *types.ScoreReport) (string, error) {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal report: %w", err)
	}
	if err := schemas.Validate(schemafiles.ScoreReport, data); err != nil {
		return "", fmt.Errorf("report failed schema validation: %w", err)
	}

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(outDir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	return path, nil
}

// reportFileName turns a source path or URL into "<name>.score.json".
func reportFileName(source string) string {
	name := filepath.Base(strings.TrimRight(source, "/"))
	name = strings.TrimSuffix(name, filepath.Ext(name))
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = "resume"
	}
	return name + ".score.json"
}

// reportNames hands out report file names that are unique within one run.
// The second "cv.score.json" becomes "cv-2.score.json", and so on.
type reportNames map[string]int

func (n reportNames) claim(source string) string {
	name := reportFileName(source)
	for {
		n[name]++
		count := n[name]
		if count == 1 {
			return name
		}
		candidate := fmt.Sprintf("%s-%d.score.json", strings.TrimSuffix(name, ".score.json"), count)
		if n[candidate] == 0 {
			n[candidate]++
			return candidate
		}
	}
}
