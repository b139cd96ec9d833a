// Package windower is the window source: it slices a (question,
// document) pair into overlapping fixed-length token windows with
// per-token character offsets and role tags, matching the layout the
// scoring model was trained with.
package windower

import (
	"fmt"
	"hash/fnv"
	"strings"
	"unicode"

	"github.com/contractiq/contractiq/internal/contract"
	"github.com/contractiq/contractiq/internal/qa"
)

// Word-level vocabulary convention shared with the model server.
// Specials follow the BERT ids; everything else hashes into the
// remaining id space.
const (
	padID = 0
	clsID = 101
	sepID = 102

	vocabSize    = 30522
	reservedIDs  = 1000
	specialCount = 3 // [CLS] + 2x[SEP] per window
)

// Config controls window geometry.
type Config struct {
	MaxLength int // total window length in token positions
	Stride    int // token overlap between consecutive windows
}

// DefaultConfig mirrors the tuning the model expects.
func DefaultConfig() Config {
	return Config{MaxLength: 512, Stride: 128}
}

// Windower produces qa.Windows for questions over a document.
type Windower struct {
	cfg Config
}

// New creates a Windower, falling back to defaults for zero fields.
func New(cfg Config) *Windower {
	if cfg.MaxLength <= 0 {
		cfg.MaxLength = 512
	}
	if cfg.Stride <= 0 {
		cfg.Stride = 128
	}
	return &Windower{cfg: cfg}
}

type token struct {
	text  string
	start int
	end   int
}

// Windows implements qa.Source. Consecutive windows overlap by Stride
// context tokens; the question is repeated in full in every window.
func (wr *Windower) Windows(questionIndex int, question string, doc *contract.Document) ([]*qa.Window, error) {
	qTokens := tokenize(question)
	ctxTokens := tokenize(doc.Text)
	if len(ctxTokens) == 0 {
		return nil, fmt.Errorf("document has no tokenizable text")
	}

	capacity := wr.cfg.MaxLength - len(qTokens) - specialCount
	if capacity <= 0 {
		return nil, fmt.Errorf("question consumes the whole window (%d tokens, max_length %d)", len(qTokens), wr.cfg.MaxLength)
	}

	step := capacity - wr.cfg.Stride
	if step < 1 {
		step = capacity
	}

	var windows []*qa.Window
	for start := 0; ; start += step {
		end := start + capacity
		if end > len(ctxTokens) {
			end = len(ctxTokens)
		}
		windows = append(windows, wr.build(questionIndex, len(windows), qTokens, ctxTokens[start:end]))
		if end == len(ctxTokens) {
			break
		}
	}
	return windows, nil
}

// build lays out one window: [CLS] question [SEP] context [SEP] pad...
// Position 0 is the null-answer position by convention.
func (wr *Windower) build(questionIndex, windowIndex int, qTokens, ctxTokens []token) *qa.Window {
	n := wr.cfg.MaxLength
	w := &qa.Window{
		Question:      questionIndex,
		Index:         windowIndex,
		TokenIDs:      make([]int64, 0, n),
		AttentionMask: make([]int64, 0, n),
		Offsets:       make([]qa.Offset, 0, n),
		Roles:         make([]qa.Role, 0, n),
	}

	push := func(id int64, role qa.Role, off qa.Offset, attend int64) {
		w.TokenIDs = append(w.TokenIDs, id)
		w.AttentionMask = append(w.AttentionMask, attend)
		w.Offsets = append(w.Offsets, off)
		w.Roles = append(w.Roles, role)
	}

	push(clsID, qa.RoleQuestion, qa.Offset{}, 1)
	for _, t := range qTokens {
		push(tokenID(t.text), qa.RoleQuestion, qa.Offset{}, 1)
	}
	push(sepID, qa.RoleQuestion, qa.Offset{}, 1)
	for _, t := range ctxTokens {
		push(tokenID(t.text), qa.RoleContext, qa.Offset{Start: t.start, End: t.end, Valid: true}, 1)
	}
	push(sepID, qa.RoleQuestion, qa.Offset{}, 1)
	for len(w.TokenIDs) < n {
		push(padID, qa.RolePad, qa.Offset{}, 0)
	}
	return w
}

// tokenize splits text into whitespace-delimited tokens with exact
// byte offsets into the source.
func tokenize(text string) []token {
	var tokens []token
	start := -1
	for i, r := range text {
		if unicode.IsSpace(r) {
			if start >= 0 {
				tokens = append(tokens, token{text: text[start:i], start: start, end: i})
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		tokens = append(tokens, token{text: text[start:], start: start, end: len(text)})
	}
	return tokens
}

// tokenID maps a token to its stable vocabulary id.
func tokenID(text string) int64 {
	h := fnv.New64a()
	h.Write([]byte(strings.ToLower(text)))
	return int64(reservedIDs + h.Sum64()%uint64(vocabSize-reservedIDs))
}
