package ingestion

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"path"

	"github.com/jonathan/resume-scorer/internal/fetch"
)

// ErrHTTPRequestFailed is returned when a resume cannot be downloaded
var ErrHTTPRequestFailed = fmt.Errorf("HTTP request failed")

// IngestFromURL downloads a resume and extracts its text. The document type
// comes from the response Content-Type, falling back to the URL path and content sniffing.
func IngestFromURL(ctx context.Context, urlStr string, opts *fetch.Options, verbose bool) (*Document, error) {
	result, err := fetch.URL(ctx, urlStr, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrHTTPRequestFailed, err)
	}
	if result.StatusCode < 200 || result.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: %s returned status %d", ErrHTTPRequestFailed, urlStr, result.StatusCode)
	}
	if verbose {
		log.Printf("[VERBOSE] Fetched %s: %d bytes (%s)", urlStr, len(result.Body), result.ContentType)
	}

	mimeType := NormalizeMIME(result.ContentType)
	if mimeType == "" || mimeType == "application/octet-stream" {
		name := urlStr
		if u, err := url.Parse(urlStr); err == nil {
			name = path.Base(u.Path)
		}
		mimeType = DetectMIME(name, result.Body)
	}

	doc, err := Ingest(urlStr, mimeType, result.Body)
	if err != nil {
		return nil, err
	}
	if verbose {
		log.Printf("[VERBOSE] Extracted text: %d chars", len(doc.Text))
	}
	return doc, nil
}
