// Package parser converts uploaded contract files into a cleaned flat
// text plus page-offset metadata for formats that carry pages.
package parser

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/contractiq/contractiq/internal/contract"
)

// Parser converts raw contract bytes into a Document.
type Parser interface {
	Parse(r io.Reader, filename string) (*contract.Document, error)
}

// minDocumentChars guards against uploads whose text extraction
// produced nothing usable.
const minDocumentChars = 100

// SupportedExtensions lists file extensions this service can handle.
var SupportedExtensions = map[string]bool{
	".txt":  true,
	".md":   true,
	".html": true,
	".htm":  true,
	".pdf":  true,
	".docx": true,
}

// PDFFallbackPdftotext enables shelling out to pdftotext when the Go
// PDF library cannot extract text. Set once at startup.
var PDFFallbackPdftotext = true

// ForFile returns the appropriate parser for a filename.
func ForFile(filename string) (Parser, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".txt":
		return &TextParser{}, nil
	case ".md", ".markdown":
		return &MarkdownParser{}, nil
	case ".html", ".htm":
		return &HTMLParser{}, nil
	case ".pdf":
		return &PDFParser{FallbackPdftotext: PDFFallbackPdftotext}, nil
	case ".docx":
		return &DOCXParser{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

// validate rejects documents too short to be a contract.
func validate(doc *contract.Document) (*contract.Document, error) {
	if len(strings.TrimSpace(doc.Text)) < minDocumentChars {
		return nil, fmt.Errorf("extracted text too short (%d chars)", len(doc.Text))
	}
	return doc, nil
}
