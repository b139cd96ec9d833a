package parser

import (
	"regexp"
	"strings"
)

var (
	pageOfRe    = regexp.MustCompile(`(?i)Page\s+\d+\s+of\s+\d+`)
	pageNumRe   = regexp.MustCompile(`(?i)\bPage\s+\d+\b`)
	ruleLineRe  = regexp.MustCompile(`(?m)^\s*[-=]+\s*$`)
	zeroWidthRe = regexp.MustCompile("[\u200B\u200C\u200D\uFEFF]")
)

var quoteReplacer = strings.NewReplacer(
	"“", `"`, "”", `"`,
	"‘", "'", "’", "'",
)

// CleanText strips extraction artifacts and normalizes whitespace so
// downstream character offsets index into a stable, single-spaced
// text.
func CleanText(text string) string {
	text = zeroWidthRe.ReplaceAllString(text, "")
	text = quoteReplacer.Replace(text)
	text = pageOfRe.ReplaceAllString(text, "")
	text = pageNumRe.ReplaceAllString(text, "")
	text = ruleLineRe.ReplaceAllString(text, "")
	return strings.Join(strings.Fields(text), " ")
}
