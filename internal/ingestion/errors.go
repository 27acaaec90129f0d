package ingestion

import "fmt"

var (
	// ErrUnsupportedFormat is returned when a document extension has no extractor.
	ErrUnsupportedFormat = fmt.Errorf("unsupported document format")
	// ErrEmptyDocument is returned when extraction produces no usable text.
	ErrEmptyDocument = fmt.Errorf("document contains no extractable text")
	// ErrDocumentTooLarge is returned when a document exceeds MaxDocumentBytes.
	ErrDocumentTooLarge = fmt.Errorf("document exceeds size limit")
)
