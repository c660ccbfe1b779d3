// Package schemas holds the JSON Schema documents for persisted and emitted artifacts.
package schemas

import "embed"

// Schema file names.
const (
	KeywordSet  = "keyword_set.schema.json"
	ScoreReport = "score_report.schema.json"
)

// Files contains every *.schema.json document in this directory.
//
//go:embed *.schema.json
var Files embed.FS
