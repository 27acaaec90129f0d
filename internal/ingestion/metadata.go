package ingestion

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// DocumentMeta identifies an ingested resume document. The hash is computed
// over the extracted text, so the same resume uploaded under different
// filenames maps to the same fingerprint.
type DocumentMeta struct {
	Filename   string `json:"filename,omitempty"`
	Hash       string `json:"hash"` // SHA256 hex digest of extracted text
	Bytes      int    `json:"bytes"`
	IngestedAt string `json:"ingested_at"` // RFC3339
}

// NewDocumentMeta fingerprints extracted resume text.
func NewDocumentMeta(text, filename string) *DocumentMeta {
	sum := sha256.Sum256([]byte(text))
	return &DocumentMeta{
		Filename:   filename,
		Hash:       hex.EncodeToString(sum[:]),
		Bytes:      len(text),
		IngestedAt: time.Now().UTC().Format(time.RFC3339),
	}
}

// ToJSON marshals the metadata as indented JSON.
func (m *DocumentMeta) ToJSON() ([]byte, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal document metadata: %w", err)
	}
	return data, nil
}
