// Package textnorm canonicalizes raw filing text for the downstream address
// and legal-structure matchers. OCR output arrives with mixed line endings,
// wrapped lines, and irregular whitespace; every matcher in the pipeline
// assumes one of the canonical forms produced here.
package textnorm

import (
	"regexp"
	"strings"
)

var (
	lineBreakRun  = regexp.MustCompile(`[\r\n]+`)
	whitespaceRun = regexp.MustCompile(`\s{2,}`)
	commaSpacing  = regexp.MustCompile(`\s*,\s*`)
	blankLineRun  = regexp.MustCompile(`\n[ \t]*(?:\n[ \t]*)+`)
	wrappedLine   = regexp.MustCompile(`([a-z])\n([a-z])`)
)

// NormalizeWhitespace flattens text onto a single line: line-break runs become
// one space, whitespace runs collapse to one space, ends are trimmed.
// Idempotent: NormalizeWhitespace(NormalizeWhitespace(t)) == NormalizeWhitespace(t).
func NormalizeWhitespace(text string) string {
	out := lineBreakRun.ReplaceAllString(text, " ")
	out = whitespaceRun.ReplaceAllString(out, " ")
	return strings.TrimSpace(out)
}

// CleanForAddressExtraction is NormalizeWhitespace plus comma spacing fixed to
// exactly ", ", the form the address patterns expect.
func CleanForAddressExtraction(text string) string {
	out := NormalizeWhitespace(text)
	out = commaSpacing.ReplaceAllString(out, ", ")
	return strings.TrimSpace(out)
}

// NormalizeForLegalParsing keeps the document's paragraph structure while
// repairing OCR line-wrap damage: line endings become \n, blank-line runs
// collapse to a single paragraph break, and a line broken mid-sentence (a
// lowercase letter, a break, another lowercase letter) is rejoined with a
// space. Intentional paragraph breaks survive.
func NormalizeForLegalParsing(text string) string {
	out := strings.ReplaceAll(text, "\r\n", "\n")
	out = strings.ReplaceAll(out, "\r", "\n")
	out = blankLineRun.ReplaceAllString(out, "\n\n")
	out = wrappedLine.ReplaceAllString(out, "$1 $2")
	return strings.TrimSpace(out)
}

// ExtractBetweenMarkers returns the text between the first occurrence of
// startMarker and the following occurrence of endMarker. Markers match
// case-insensitively. If endMarker never appears, everything after startMarker
// is returned. If startMarker never appears, ok is false.
func ExtractBetweenMarkers(text, startMarker, endMarker string) (string, bool) {
	// Markers are located with a case-folding regex over the original text.
	// Lowercasing a copy and reusing its indexes is not safe: some runes
	// change byte length under ToLower and the offsets drift.
	startPat := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(startMarker))
	start := startPat.FindStringIndex(text)
	if start == nil {
		return "", false
	}
	rest := text[start[1]:]
	if endMarker != "" {
		endPat := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(endMarker))
		if end := endPat.FindStringIndex(rest); end != nil {
			rest = rest[:end[0]]
		}
	}
	return strings.TrimSpace(rest), true
}
