// Package notify renders classified leads into a bounded set of display
// blocks for a Slack-style webhook. Three numbers are the binding contract
// with the chat API and are never exceeded: header text 150 characters,
// section text 3000 characters, 50 blocks per message.
package notify

import (
	"encoding/json"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	BlockTypeHeader  = "header"
	BlockTypeSection = "section"
	BlockTypeDivider = "divider"

	MaxHeaderChars  = 150
	MaxSectionChars = 3000
	MaxBlocks       = 50

	// Room left in each section so a flush boundary is never off by a
	// separator's width.
	sectionSafetyMargin = 50
)

// Block is one display block. Emoji only applies to headers.
type Block struct {
	Type  string `json:"type"`
	Text  string `json:"text,omitempty"`
	Emoji bool   `json:"emoji,omitempty"`
}

// Message is a ready-to-post webhook payload. Truncated reports the one lossy
// case: the block-count cap dropped trailing content.
type Message struct {
	FallbackText string  `json:"fallback_text"`
	Blocks       []Block `json:"blocks"`
	Truncated    bool    `json:"truncated,omitempty"`
}

// MarshalJSON renders the block in the chat API's wire shape.
func (b Block) MarshalJSON() ([]byte, error) {
	switch b.Type {
	case BlockTypeHeader:
		return json.Marshal(map[string]any{
			"type": "header",
			"text": map[string]any{"type": "plain_text", "text": b.Text, "emoji": b.Emoji},
		})
	case BlockTypeDivider:
		return json.Marshal(map[string]any{"type": "divider"})
	default:
		return json.Marshal(map[string]any{
			"type": "section",
			"text": map[string]any{"type": "mrkdwn", "text": b.Text},
		})
	}
}

var spaceRun = regexp.MustCompile(`[ \t]{2,}`)

// Sanitize strips control characters (newlines and tabs survive) and the
// degree-sign artifact OCR leaves in scanned filings, then collapses runs of
// spaces and tabs.
func Sanitize(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range s {
		if r == '\n' || r == '\t' {
			sb.WriteRune(r)
			continue
		}
		if r < 0x20 || r == 0x7f || r == '°' {
			continue
		}
		sb.WriteRune(r)
	}
	return spaceRun.ReplaceAllString(sb.String(), " ")
}

// capText hard-limits s to max bytes, marking the cut with an ellipsis. The
// cut backs up to a rune boundary so the result stays valid UTF-8.
func capText(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	suffix := ""
	if max > 3 {
		cut = max - 3
		suffix = "..."
	}
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + suffix
}
