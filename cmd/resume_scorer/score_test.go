package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-scorer/internal/pipeline"
	"github.com/jonathan/resume-scorer/internal/schemas"
	"github.com/jonathan/resume-scorer/internal/scoring"
	"github.com/jonathan/resume-scorer/internal/types"
	schemafiles "github.com/jonathan/resume-scorer/schemas"
)

const sampleResume = "Jane Doe\nSKILLS\npython, react, node.js\nEXPERIENCE\ndeveloped and built a platform\n"

type savingStore struct {
	saved []*types.ScoreReport
	err   error
}

func (s *savingStore) SaveReport(_ context.Context, report *types.ScoreReport) error {
	if s.err != nil {
		return s.err
	}
	s.saved = append(s.saved, report)
	return nil
}

func testRun(t *testing.T) scoreRun {
	t.Helper()
	scorer, err := scoring.NewScorer(types.DefaultKeywordSet())
	require.NoError(t, err)
	return scoreRun{pipeline: pipeline.New(scorer, nil), parallel: 2}
}

func writeResume(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestScoreAll_SingleFile(t *testing.T) {
	path := writeResume(t, t.TempDir(), "jane.txt", sampleResume)
	var out bytes.Buffer

	err := scoreAll(context.Background(), testRun(t), []string{path}, &out)
	require.NoError(t, err)

	assert.Contains(t, out.String(), "RESUME SCORE: jane.txt")
	assert.Contains(t, out.String(), "Achievements Score: 0%")
	assert.NotContains(t, out.String(), "BATCH SUMMARY")
}

func TestScoreAll_JSON(t *testing.T) {
	path := writeResume(t, t.TempDir(), "jane.txt", sampleResume)
	run := testRun(t)
	run.asJSON = true
	var out bytes.Buffer

	require.NoError(t, scoreAll(context.Background(), run, []string{path}, &out))

	var report types.ScoreReport
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))
	assert.Equal(t, "jane.txt", report.Source)
	assert.Len(t, report.Sections, 4)
}

func TestScoreAll_WritesSchemaValidReports(t *testing.T) {
	dir := t.TempDir()
	path := writeResume(t, dir, "jane.txt", sampleResume)
	run := testRun(t)
	run.outDir = filepath.Join(dir, "out")
	var out bytes.Buffer

	require.NoError(t, scoreAll(context.Background(), run, []string{path}, &out))

	written := filepath.Join(run.outDir, "jane.score.json")
	require.FileExists(t, written)
	data, err := os.ReadFile(written)
	require.NoError(t, err)
	assert.NoError(t, schemas.Validate(schemafiles.ScoreReport, data))
}

func TestScoreAll_BatchWithFailure(t *testing.T) {
	dir := t.TempDir()
	good := writeResume(t, dir, "a.txt", sampleResume)
	missing := filepath.Join(dir, "missing.pdf")
	var out bytes.Buffer
	run := testRun(t)
	run.errOut = &bytes.Buffer{}

	err := scoreAll(context.Background(), run, []string{good, missing}, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 documents failed to score")
	assert.Contains(t, out.String(), "BATCH SUMMARY")
	assert.Contains(t, out.String(), "1 scored, 1 failed")
}

func TestScoreAll_JSONBatchReportsFailures(t *testing.T) {
	dir := t.TempDir()
	good := writeResume(t, dir, "a.txt", sampleResume)
	missing := filepath.Join(dir, "missing.pdf")
	run := testRun(t)
	run.asJSON = true
	var out, errOut bytes.Buffer
	run.errOut = &errOut

	err := scoreAll(context.Background(), run, []string{good, missing}, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 documents failed to score")

	assert.Contains(t, errOut.String(), missing+": failed to ingest")
	assert.Contains(t, errOut.String(), "file not found")
	assert.NotContains(t, errOut.String(), good)

	var report types.ScoreReport
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))
	assert.Equal(t, "a.txt", report.Source)
}

func TestScoreAll_DuplicateNamesDoNotOverwrite(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "x"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "y"), 0755))
	first := writeResume(t, filepath.Join(dir, "x"), "cv.txt", sampleResume)
	second := writeResume(t, filepath.Join(dir, "y"), "cv.txt", "SKILLS\npython")

	run := testRun(t)
	run.outDir = filepath.Join(dir, "out")
	run.errOut = &bytes.Buffer{}

	require.NoError(t, scoreAll(context.Background(), run, []string{first, second}, &bytes.Buffer{}))

	entries, err := os.ReadDir(run.outDir)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.FileExists(t, filepath.Join(run.outDir, "cv.score.json"))
	assert.FileExists(t, filepath.Join(run.outDir, "cv-2.score.json"))
}

func TestReportNames_Claim(t *testing.T) {
	names := make(reportNames)
	assert.Equal(t, "cv.score.json", names.claim("x/cv.txt"))
	assert.Equal(t, "cv-2.score.json", names.claim("y/cv.pdf"))
	assert.Equal(t, "cv-2-2.score.json", names.claim("cv-2.docx"))
	assert.Equal(t, "cv-3.score.json", names.claim("cv.docx"))
	assert.Equal(t, "jane.score.json", names.claim("jane.pdf"))
}

func TestScoreAll_SingleFailureReturnsCause(t *testing.T) {
	var out bytes.Buffer

	err := scoreAll(context.Background(), testRun(t), []string{filepath.Join(t.TempDir(), "nope.txt")}, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "file not found")
}

func TestScoreAll_URL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte(sampleResume))
	}))
	defer srv.Close()

	path := writeResume(t, t.TempDir(), "local.txt", sampleResume)
	var out bytes.Buffer

	require.NoError(t, scoreAll(context.Background(), testRun(t), []string{srv.URL + "/cv.txt", path}, &out))
	assert.Contains(t, out.String(), "2 scored, 0 failed")
}

func TestScoreAll_SavesReports(t *testing.T) {
	path := writeResume(t, t.TempDir(), "jane.txt", sampleResume)
	store := &savingStore{}
	run := testRun(t)
	run.store = store
	var out bytes.Buffer

	require.NoError(t, scoreAll(context.Background(), run, []string{path}, &out))
	require.Len(t, store.saved, 1)
	assert.Equal(t, "jane.txt", store.saved[0].Source)
}

func TestScoreAll_SaveFailure(t *testing.T) {
	path := writeResume(t, t.TempDir(), "jane.txt", sampleResume)
	run := testRun(t)
	run.store = &savingStore{err: errors.New("connection reset")}
	var out bytes.Buffer

	err := scoreAll(context.Background(), run, []string{path}, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to save report")
}

func TestReportFileName(t *testing.T) {
	tests := map[string]string{
		"resume.pdf":                      "resume.score.json",
		"/tmp/jane.doe.docx":              "jane.doe.score.json",
		"https://example.com/cv/jane.pdf": "jane.score.json",
		"https://example.com/":            "example.score.json",
		"":                                "resume.score.json",
	}
	for source, expected := range tests {
		assert.Equal(t, expected, reportFileName(source), source)
	}
}

func TestIsURL(t *testing.T) {
	assert.True(t, isURL("https://example.com/a.pdf"))
	assert.True(t, isURL("http://example.com"))
	assert.False(t, isURL("resume.pdf"))
	assert.False(t, isURL("ftp://example.com/a.pdf"))
}
