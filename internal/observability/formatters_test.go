package observability

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/resume-scorer/internal/pipeline"
	"github.com/jonathan/resume-scorer/internal/types"
	"github.com/stretchr/testify/assert"
)

func sampleReport() *types.ScoreReport {
	return &types.ScoreReport{
		ID:     uuid.New(),
		Source: "resume.pdf",
		Sections: []types.SectionScore{
			{Category: types.CategorySkills, Text: "python, react", Score: 42.5},
			{Category: types.CategoryExperience, Text: "built things\nled a team\nshipped\nhired", Score: 43.64},
			{Category: types.CategoryAchievements, Score: 0},
			{Category: types.CategoryProjects, Text: "platform", Score: 100},
		},
		Total:     46.54,
		CreatedAt: time.Now(),
	}
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "42.5", FormatPercent(42.5))
	assert.Equal(t, "100", FormatPercent(100))
	assert.Equal(t, "0", FormatPercent(0))
	assert.Equal(t, "43.64", FormatPercent(43.64))
}

func TestScoreLines(t *testing.T) {
	lines := ScoreLines(sampleReport())

	assert.Equal(t, []string{
		"Skills Score: 42.5%",
		"Experience Score: 43.64%",
		"Achievements Score: 0%",
		"Projects Score: 100%",
		"Total Score: 46.54%",
	}, lines)
	assert.Nil(t, ScoreLines(nil))
}

func TestPrintScoreReport(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintScoreReport(sampleReport())
	output := buf.String()

	assert.Contains(t, output, "RESUME SCORE: resume.pdf")
	assert.Contains(t, output, "Skills Score: 42.5%")
	assert.Contains(t, output, "Total Score: 46.54%")
}

func TestPrintScoreReport_Nil(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintScoreReport(nil)

	assert.Empty(t, buf.String())
}

func TestPrintSections(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintSections(sampleReport())
	output := buf.String()

	assert.Contains(t, output, "EXTRACTED SECTIONS")
	assert.Contains(t, output, "python, react")
	assert.Contains(t, output, "(not found)")
	assert.Contains(t, output, "... and 1 more lines")
	assert.NotContains(t, output, "hired")
}

func TestPrintKeywordSet(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintKeywordSet(types.DefaultKeywordSet())
	output := buf.String()

	assert.Contains(t, output, "SKILLS_KEYWORDS (6)")
	assert.Contains(t, output, "python")
	assert.Contains(t, output, "... and 2 more")
}

func TestPrintKeywordSet_SingleCategory(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintKeywordSet(types.DefaultKeywordSet().Only(types.CategoryProjects))
	output := buf.String()

	assert.Contains(t, output, "PROJECTS_KEYWORDS (6)")
	assert.NotContains(t, output, "SKILLS_KEYWORDS")
}

func TestPrintBatchSummary(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintBatchSummary([]pipeline.FileResult{
		{Path: "a.pdf", Report: sampleReport()},
		{Path: "b.pdf", Err: errors.New("file not found")},
	})
	output := buf.String()

	assert.Contains(t, output, "a.pdf: 46.54%")
	assert.Contains(t, output, "b.pdf: file not found")
	assert.Contains(t, output, "1 scored, 1 failed")
}

func TestPrintBox_TruncatesLongLines(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.printBox("TITLE", strings.Repeat("x", 200))

	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		assert.LessOrEqual(t, len([]rune(line)), boxWidth)
	}
	assert.Contains(t, buf.String(), "...")
}
