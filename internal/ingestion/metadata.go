package ingestion

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// Metadata describes an ingested resume document
type Metadata struct {
	Source    string `json:"source,omitempty"` // File path, upload name, or URL
	MIME      string `json:"mime"`
	Pages     int    `json:"pages,omitempty"` // PDF page count
	Bytes     int    `json:"bytes"`
	Timestamp string `json:"timestamp"` // RFC3339 format
	Hash      string `json:"hash"`      // SHA256 hex digest of the raw document
}

// NewMetadata creates a new Metadata instance with current timestamp
func NewMetadata(source, mime string, data []byte) *Metadata {
	return &Metadata{
		Source:    source,
		MIME:      mime,
		Bytes:     len(data),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Hash:      computeHash(data),
	}
}

// computeHash computes SHA256 hash of content and returns hex string
func computeHash(content []byte) string {
	hash := sha256.Sum256(content)
	return hex.EncodeToString(hash[:])
}

// ToJSON marshals Metadata to pretty-printed JSON
func (m *Metadata) ToJSON() ([]byte, error) {
	jsonBytes, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal metadata to JSON: %w", err)
	}
	return jsonBytes, nil
}
