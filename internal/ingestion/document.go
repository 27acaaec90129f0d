package ingestion

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"code.sajari.com/docconv"
)

// MaxDocumentBytes caps how much of an uploaded document is read.
const MaxDocumentBytes = 10 << 20

// binaryExtensions are the formats handed to docconv for conversion.
var binaryExtensions = map[string]bool{
	".pdf":  true,
	".docx": true,
	".doc":  true,
	".rtf":  true,
	".odt":  true,
}

// ExtractText pulls plain text out of an uploaded document. The extension of
// filename selects the extractor: binary formats go through docconv, .txt and
// .md are read directly.
func ExtractText(r io.Reader, filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	limited := io.LimitReader(r, MaxDocumentBytes+1)

	switch {
	case binaryExtensions[ext]:
		res, err := docconv.Convert(limited, docconv.MimeTypeByExtension(filename), true)
		if err != nil {
			return "", fmt.Errorf("failed to convert document: %w", err)
		}
		return requireText(res.Body)
	case ext == ".txt" || ext == ".md":
		content, err := io.ReadAll(limited)
		if err != nil {
			return "", fmt.Errorf("failed to read document: %w", err)
		}
		if len(content) > MaxDocumentBytes {
			return "", ErrDocumentTooLarge
		}
		return requireText(string(content))
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
}

// ExtractFile is the path-based variant of ExtractText used by the CLI.
func ExtractFile(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("file not found: %w", err)
		}
		return "", fmt.Errorf("failed to stat file: %w", err)
	}
	if info.Size() > MaxDocumentBytes {
		return "", ErrDocumentTooLarge
	}

	ext := strings.ToLower(filepath.Ext(path))
	if binaryExtensions[ext] {
		res, err := docconv.ConvertPath(path)
		if err != nil {
			return "", fmt.Errorf("failed to convert document: %w", err)
		}
		return requireText(res.Body)
	}

	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return ExtractText(f, path)
}

func requireText(body string) (string, error) {
	if strings.TrimSpace(body) == "" {
		return "", ErrEmptyDocument
	}
	return body, nil
}
