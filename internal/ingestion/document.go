package ingestion

import (
	"bytes"
	"fmt"
	"html"
	"log"
	"mime"
	"net/http"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

// Supported MIME types.
const (
	MIMEPlain = "text/plain"
	MIMEPDF   = "application/pdf"
	MIMEDocx  = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MIMEHTML  = "text/html"
)

var extensionTypes = map[string]string{
	".pdf":  MIMEPDF,
	".docx": MIMEDocx,
	".html": MIMEHTML,
	".htm":  MIMEHTML,
	".txt":  MIMEPlain,
	".text": MIMEPlain,
	".md":   MIMEPlain,
}

// DetectMIME returns the document type based on the file extension, falling
// back to content sniffing. Parameters such as charset are dropped.
func DetectMIME(name string, data []byte) string {
	if t, ok := extensionTypes[strings.ToLower(filepath.Ext(name))]; ok {
		return t
	}
	return NormalizeMIME(http.DetectContentType(data))
}

// NormalizeMIME strips parameters from a Content-Type value.
func NormalizeMIME(contentType string) string {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	return mediaType
}

// ExtractText returns the raw text of a document and, for PDFs, the page count.
// Pages are concatenated in order and pages without extractable text contribute nothing.
func ExtractText(mimeType string, data []byte) (string, int, error) {
	switch NormalizeMIME(mimeType) {
	case MIMEPlain:
		return string(data), 0, nil
	case MIMEPDF:
		return extractPDFText(data)
	case MIMEDocx:
		text, err := extractDocxText(data)
		return text, 0, err
	case MIMEHTML:
		text, err := extractHTMLText(data)
		return text, 0, err
	default:
		return "", 0, &UnsupportedTypeError{MIME: mimeType}
	}
}

func extractPDFText(data []byte) (text string, pages int, err error) {
	// The PDF reader panics on some malformed documents
	defer func() {
		if r := recover(); r != nil {
			err = &ExtractionError{MIME: MIMEPDF, Message: fmt.Sprintf("malformed pdf: %v", r)}
		}
	}()

	pdfReader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", 0, &ExtractionError{MIME: MIMEPDF, Message: "failed to read pdf", Cause: err}
	}

	var textBuilder strings.Builder
	numPages := pdfReader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := pdfReader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			log.Printf("[ingestion] No text extracted from pdf page %d: %v", i, err)
			continue
		}
		textBuilder.WriteString(pageText)
	}
	return textBuilder.String(), numPages, nil
}

var (
	docxParagraphEnd = regexp.MustCompile(`</w:p>|<w:br[^>]*/>|<w:cr[^>]*/>`)
	docxTab          = regexp.MustCompile(`<w:tab[^>]*/>`)
	xmlTag           = regexp.MustCompile(`<[^>]+>`)
)

func extractDocxText(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &ExtractionError{MIME: MIMEDocx, Message: "failed to parse docx", Cause: err}
	}
	defer func() { _ = doc.Close() }()

	// Content is the raw document.xml body
	content := doc.Editable().GetContent()
	content = docxParagraphEnd.ReplaceAllString(content, "\n")
	content = docxTab.ReplaceAllString(content, "\t")
	content = xmlTag.ReplaceAllString(content, "")
	return html.UnescapeString(content), nil
}

// blockElements end a line when rendered as text.
const blockElements = "p, div, li, tr, section, article, header, footer, h1, h2, h3, h4, h5, h6, dt, dd, pre, blockquote"

func extractHTMLText(data []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return "", &ExtractionError{MIME: MIMEHTML, Message: "failed to parse HTML", Cause: err}
	}

	doc.Find("script, style, noscript, template").Remove()
	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find(blockElements).Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml("\n")
	})

	body := doc.Find("body")
	if body.Length() == 0 {
		body = doc.Selection
	}

	lines := strings.Split(body.Text(), "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n"), nil
}
