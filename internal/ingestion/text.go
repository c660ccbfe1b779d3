package ingestion

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var excessiveBlankLines = regexp.MustCompile(`\n\n\n+`)

// NormalizeText normalizes line endings and trailing whitespace while keeping
// every line's leading characters intact, so section headers stay at line starts.
func NormalizeText(content string) string {
	if content == "" {
		return ""
	}

	// 1. Normalize line endings (CRLF → LF)
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	// 2. Trim trailing whitespace per line
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}

	// 3. Reduce consecutive blank lines to one
	result := excessiveBlankLines.ReplaceAllString(strings.Join(lines, "\n"), "\n\n")

	return strings.TrimSpace(result)
}

// Document is the plain-text form of an ingested resume.
type Document struct {
	Text     string
	Metadata *Metadata
}

// Ingest extracts and normalizes text from raw document bytes.
// An empty mime triggers detection from the source name and content.
func Ingest(source, mime string, data []byte) (*Document, error) {
	if mime == "" {
		mime = DetectMIME(source, data)
	}

	text, pages, err := ExtractText(mime, data)
	if err != nil {
		return nil, err
	}

	metadata := NewMetadata(source, mime, data)
	metadata.Pages = pages

	return &Document{
		Text:     NormalizeText(text),
		Metadata: metadata,
	}, nil
}

// IngestFromFile reads a resume file and returns its normalized text with metadata
func IngestFromFile(path string) (*Document, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("file not found: %w", err)
		}
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	return Ingest(filepath.Base(path), "", content)
}

// WriteOutput writes the extracted text and metadata next to each other in outDir
func WriteOutput(outDir string, doc *Document) error {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	textPath := filepath.Join(outDir, "resume.txt")
	if err := os.WriteFile(textPath, []byte(doc.Text), 0644); err != nil {
		return fmt.Errorf("failed to write text file: %w", err)
	}

	metaPath := filepath.Join(outDir, "resume.meta.json")
	metaJSON, err := doc.Metadata.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}
	if err := os.WriteFile(metaPath, metaJSON, 0644); err != nil {
		return fmt.Errorf("failed to write metadata file: %w", err)
	}

	return nil
}
