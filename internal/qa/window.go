// Package qa implements the extraction core: batch scheduling across
// question windows, span decoding from scorer logits, and cross-window
// answer aggregation.
package qa

// Role tags a token position within a window.
type Role uint8

const (
	RoleQuestion Role = iota // question tokens and special markers
	RoleContext              // document text; the only selectable role
	RolePad                  // padding to window length
)

// Offset maps a token position back to a character range of the source
// text. Valid is false for specials, question tokens and padding.
type Offset struct {
	Start int
	End   int
	Valid bool
}

// Window is one overlapping slice of (question, document) sized to the
// scorer input limit. Produced once per question by the window source
// and read-only thereafter.
type Window struct {
	Question int // question index, 0..40
	Index    int // window index within the question

	TokenIDs      []int64
	AttentionMask []int64
	Offsets       []Offset
	Roles         []Role
}

// Key identifies a window across the whole document run.
type Key struct {
	Question int
	Window   int
}

// Key returns the window's composite identity.
func (w *Window) Key() Key {
	return Key{Question: w.Question, Window: w.Index}
}

// PageLookup maps a character offset to a 1-based page number. A nil
// lookup or a 0 result means the page is unknown.
type PageLookup func(charOffset int) int

// CandidateSpan is a validated candidate answer decoded from one
// window.
type CandidateSpan struct {
	Text       string
	CharStart  int
	CharEnd    int
	Page       int
	Score      float64 // raw logit sum, used for dedup ranking
	Confidence float64 // sigmoid of the delta over the null score
}
