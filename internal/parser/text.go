package parser

import (
	"bufio"
	"io"
	"strings"

	"github.com/contractiq/contractiq/internal/contract"
)

// TextParser handles plain text files.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) (*contract.Document, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var sb strings.Builder
	for scanner.Scan() {
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return validate(&contract.Document{
		Text:     CleanText(sb.String()),
		NumPages: 1,
	})
}
