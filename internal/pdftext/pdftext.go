// Package pdftext converts filing PDFs to plain text for the parse pipeline.
// It shells out to pdftotext and degrades to a printable-byte scan when the
// tool is missing or the PDF has no text layer (common for courthouse scans).
package pdftext

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"unicode"
)

const (
	maxPDFBytes = 20 * 1024 * 1024
	maxTextRun  = 48000

	// Printable runs shorter than this are PDF structure noise, not content.
	minRunBytes = 24
)

// Kentucky circuit court civil case numbers: two-digit year, CI, serial.
var (
	civilCasePattern   = regexp.MustCompile(`\b(\d{2}-CI-\d{4,6})\b`)
	labeledCasePattern = regexp.MustCompile(`(?i)\bcase\s*(?:no\.?|number|#)?\s*[:#-]?\s*([A-Za-z0-9]{2,12}-[A-Za-z0-9]{2,12})\b`)
)

type ExtractionResult struct {
	Text      string
	Method    string
	Truncated bool
}

// ExtractFile pulls text from one filing PDF. pdftotext keeps the page layout
// so captions stay line-structured; the byte fallback loses layout but still
// feeds the parsers something to chew on.
func ExtractFile(ctx context.Context, path string) (ExtractionResult, error) {
	info, err := os.Stat(path)
	if err != nil {
		return ExtractionResult{}, err
	}
	if info.Size() > maxPDFBytes {
		return ExtractionResult{}, fmt.Errorf("pdf too large: %d bytes", info.Size())
	}

	if text, err := runPdfToText(ctx, path); err == nil && strings.TrimSpace(text) != "" {
		return truncateExtraction(text, "pdftotext"), nil
	}

	blob, err := os.ReadFile(path)
	if err != nil {
		return ExtractionResult{}, err
	}
	fallback := extractPrintableText(blob)
	if strings.TrimSpace(fallback) == "" {
		return ExtractionResult{}, errors.New("no extractable text found")
	}
	return truncateExtraction(fallback, "byte-fallback"), nil
}

func runPdfToText(ctx context.Context, path string) (string, error) {
	cmd := exec.CommandContext(ctx, "pdftotext", "-layout", path, "-")
	out, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func extractPrintableText(blob []byte) string {
	var runs []string
	var b strings.Builder
	flush := func() {
		s := strings.TrimSpace(b.String())
		if len(s) >= minRunBytes {
			runs = append(runs, s)
		}
		b.Reset()
	}
	for _, c := range blob {
		r := rune(c)
		if unicode.IsPrint(r) || r == '\n' || r == '\t' || r == '\r' {
			b.WriteRune(r)
			continue
		}
		flush()
	}
	flush()
	joined := strings.Join(runs, "\n")
	joined = strings.ReplaceAll(joined, "\x00", "")
	return strings.TrimSpace(joined)
}

func truncateExtraction(text, method string) ExtractionResult {
	trimmed := strings.TrimSpace(text)
	if len(trimmed) <= maxTextRun {
		return ExtractionResult{Text: trimmed, Method: method}
	}
	prefix := trimmed[:maxTextRun]
	// Avoid cutting in the middle of a rune sequence.
	prefix = string(bytes.Runes([]byte(prefix)))
	return ExtractionResult{
		Text:      prefix + "\n\n[TRUNCATED]",
		Method:    method,
		Truncated: true,
	}
}

// ExtractCaseNumber finds the circuit court case number in filing text. The
// CI-form pattern wins over the generic labeled form because clerk stamps
// sometimes carry unrelated reference numbers.
func ExtractCaseNumber(text string) string {
	s := strings.TrimSpace(text)
	if s == "" {
		return ""
	}
	if len(s) > 8000 {
		s = s[:8000]
	}
	if m := civilCasePattern.FindStringSubmatch(s); len(m) == 2 {
		return m[1]
	}
	if m := labeledCasePattern.FindStringSubmatch(s); len(m) == 2 {
		return strings.TrimSpace(m[1])
	}
	return ""
}
