// Package pipeline orchestrates resume scoring: ingest a document, extract
// its sections, score each against the keyword set and assemble a report.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-scorer/internal/fetch"
	"github.com/jonathan/resume-scorer/internal/ingestion"
	"github.com/jonathan/resume-scorer/internal/scoring"
	"github.com/jonathan/resume-scorer/internal/sections"
	"github.com/jonathan/resume-scorer/internal/types"
)

// Stages reported to the Observer when a pass fails.
const (
	StageIngest   = "ingest"
	StageScore    = "score"
	StageValidate = "validate"
)

// DefaultParallelism bounds ScoreFiles when no limit is given.
const DefaultParallelism = 4

// ErrNoInput is returned when ScoreOptions names no document.
var ErrNoInput = errors.New("no document to score: set Data, Path or URL")

// Observer receives the outcome of every scoring pass.
type Observer interface {
	ObserveReport(report *types.ScoreReport, elapsed time.Duration)
	ObserveError(stage string)
}

// ProgressEvent represents a progress update during a scoring pass
type ProgressEvent struct {
	Step    string `json:"step"`
	Source  string `json:"source"`
	Message string `json:"message"`
}

// ProgressCallback is called when pipeline progress occurs
type ProgressCallback func(event ProgressEvent)

// ScoreOptions selects the document to score. Data wins over URL, URL over Path.
type ScoreOptions struct {
	Path string
	URL  string

	// Data holds an already-read document, e.g. an HTTP upload.
	Data   []byte
	Source string
	MIME   string

	Fetch      *fetch.Options
	Verbose    bool
	OnProgress ProgressCallback
}

// FileResult is the outcome of scoring one file in a batch.
type FileResult struct {
	Path   string
	Report *types.ScoreReport
	Err    error
}

// Pipeline scores documents with a fixed Scorer.
type Pipeline struct {
	// Verbose enables per-document logging for every pass.
	Verbose bool

	scorer   *scoring.Scorer
	observer Observer
	now      func() time.Time
}

// New creates a Pipeline. observer may be nil.
func New(scorer *scoring.Scorer, observer Observer) *Pipeline {
	return &Pipeline{
		scorer:   scorer,
		observer: observer,
		now:      time.Now,
	}
}

// Keywords returns the keyword set used for scoring.
func (p *Pipeline) Keywords() types.KeywordSet {
	return p.scorer.Keywords()
}

func emitProgress(opts *ScoreOptions, step, source, message string) {
	if opts != nil && opts.OnProgress != nil {
		opts.OnProgress(ProgressEvent{Step: step, Source: source, Message: message})
	}
}

func (p *Pipeline) fail(stage string, err error) error {
	if p.observer != nil {
		p.observer.ObserveError(stage)
	}
	return err
}

// ScoreDocument ingests the document described by opts and scores it.
func (p *Pipeline) ScoreDocument(ctx context.Context, opts ScoreOptions) (*types.ScoreReport, error) {
	start := p.now()
	opts.Verbose = opts.Verbose || p.Verbose

	doc, err := p.ingest(ctx, &opts)
	if err != nil {
		return nil, p.fail(StageIngest, err)
	}
	if opts.Verbose {
		log.Printf("[VERBOSE] Extracted %d characters from %s (%s, %d pages)",
			len(doc.Text), doc.Metadata.Source, doc.Metadata.MIME, doc.Metadata.Pages)
	}
	emitProgress(&opts, "ingest", doc.Metadata.Source,
		fmt.Sprintf("Extracted %d characters", len(doc.Text)))

	return p.score(ctx, doc.Metadata.Source, doc.Text, start, &opts)
}

func (p *Pipeline) ingest(ctx context.Context, opts *ScoreOptions) (*ingestion.Document, error) {
	switch {
	case opts.Data != nil:
		source := opts.Source
		if source == "" {
			source = opts.Path
		}
		doc, err := ingestion.Ingest(source, opts.MIME, opts.Data)
		if err != nil {
			return nil, fmt.Errorf("failed to extract text from %s: %w", source, err)
		}
		return doc, nil
	case opts.URL != "":
		doc, err := ingestion.IngestFromURL(ctx, opts.URL, opts.Fetch, opts.Verbose)
		if err != nil {
			return nil, fmt.Errorf("failed to ingest %s: %w", opts.URL, err)
		}
		return doc, nil
	case opts.Path != "":
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		doc, err := ingestion.IngestFromFile(opts.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to ingest %s: %w", opts.Path, err)
		}
		return doc, nil
	default:
		return nil, ErrNoInput
	}
}

// ScoreText scores already-extracted document text.
func (p *Pipeline) ScoreText(ctx context.Context, source, text string) (*types.ScoreReport, error) {
	return p.score(ctx, source, text, p.now(), nil)
}

func (p *Pipeline) score(ctx context.Context, source, text string, start time.Time, opts *ScoreOptions) (*types.ScoreReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, p.fail(StageScore, err)
	}

	report := &types.ScoreReport{
		ID:        uuid.New(),
		Source:    source,
		Sections:  make([]types.SectionScore, 0, len(types.Categories)),
		CreatedAt: p.now().UTC(),
	}

	scores := make([]float64, 0, len(types.Categories))
	for _, category := range types.Categories {
		body := sections.Extract(text, category.Label())
		score := p.scorer.ScoreSection(category, body)
		report.Sections = append(report.Sections, types.SectionScore{
			Category: category,
			Text:     body,
			Score:    score,
		})
		scores = append(scores, score)
		emitProgress(opts, "score", source, fmt.Sprintf("%s: %.2f%%", category.Title(), score))
	}
	report.Total = scoring.Average(scores...)

	if err := report.Validate(); err != nil {
		return nil, p.fail(StageValidate, fmt.Errorf("invalid score report: %w", err))
	}

	if p.observer != nil {
		p.observer.ObserveReport(report, p.now().Sub(start))
	}
	return report, nil
}

// ScoreFiles scores each path as an independent pass, at most limit at a time.
// Per-file failures are reported in the matching FileResult; the returned
// error is non-nil only when ctx is cancelled.
func (p *Pipeline) ScoreFiles(ctx context.Context, paths []string, limit int) ([]FileResult, error) {
	if limit <= 0 {
		limit = DefaultParallelism
	}

	results := make([]FileResult, len(paths))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, path := range paths {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			report, err := p.ScoreDocument(gCtx, ScoreOptions{Path: path})
			results[i] = FileResult{Path: path, Report: report, Err: err}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, ctx.Err()
}
