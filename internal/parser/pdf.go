package parser

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/contractiq/contractiq/internal/contract"
	pdflib "github.com/ledongthuc/pdf"
)

// PDFParser handles PDF files. It tries the Go library first, then
// falls back to pdftotext if available. Per-page extraction feeds the
// character-to-page map used for clause locations.
type PDFParser struct {
	FallbackPdftotext bool
}

func (p *PDFParser) Parse(r io.Reader, filename string) (*contract.Document, error) {
	// The pdf library requires a ReadSeeker+size, so write to a temp file.
	tmp, err := os.CreateTemp("", "contractiq-pdf-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	tmp.Close()

	pages, err := extractPDFPages(tmpPath)
	if err != nil && p.FallbackPdftotext {
		pages, err = extractPdftotextPages(tmpPath)
	}
	if err != nil {
		return nil, fmt.Errorf("extract pdf text: %w", err)
	}

	return validate(assemblePages(pages))
}

// assemblePages cleans each page, concatenates them, and records the
// character range each page occupies in the final text.
func assemblePages(pages []string) *contract.Document {
	doc := &contract.Document{}
	var sb strings.Builder
	for i, page := range pages {
		cleaned := CleanText(page)
		if cleaned == "" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString(" ")
		}
		start := sb.Len()
		sb.WriteString(cleaned)
		doc.Pages = append(doc.Pages, contract.PageRange{
			Number: i + 1,
			Start:  start,
			End:    sb.Len(),
		})
	}
	doc.Text = sb.String()
	doc.NumPages = len(pages)
	return doc
}

func extractPDFPages(path string) ([]string, error) {
	f, reader, err := pdflib.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	numPages := reader.NumPage()
	pages := make([]string, 0, numPages)
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			pages = append(pages, "")
			continue
		}
		pages = append(pages, text)
	}
	return pages, nil
}

func extractPdftotextPages(path string) ([]string, error) {
	cmd := exec.Command("pdftotext", "-layout", path, "-")
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("pdftotext: %w", err)
	}
	// pdftotext separates pages with form feeds.
	return strings.Split(string(out), "\f"), nil
}
