package notify

import (
	"fmt"
	"strings"

	"github.com/bluegrassdata/lienwatch/internal/classify"
)

// Per-field render caps. Fields are capped before packing so that a fully
// rendered lead always fits a single section block; the packing step itself
// never cuts a lead's text.
const (
	maxNameChars    = 120
	maxCaseChars    = 40
	maxAddressChars = 160
	maxReasonChars  = 200
	maxConcernChars = 400
	maxNotesChars   = 200
	maxLinksChars   = 900
)

var groupOrder = []struct {
	Overall classify.Overall
	Title   string
}{
	{classify.OverallGood, "🔥 Hot leads"},
	{classify.OverallReview, "🔎 Needs review"},
	{classify.OverallBad, "🗑️ Disqualified"},
}

// Format renders leads grouped by overall score into a bounded block list.
// Empty groups get no header. The only lossy path is the block-count cap,
// which is reported through Message.Truncated.
func Format(leads []classify.ClassifiedLead) Message {
	grouped := map[classify.Overall][]classify.ClassifiedLead{}
	for _, lead := range leads {
		grouped[lead.Classification.OverallScore] = append(grouped[lead.Classification.OverallScore], lead)
	}

	var blocks []Block
	for _, group := range groupOrder {
		members := grouped[group.Overall]
		if len(members) == 0 {
			continue
		}
		if len(blocks) > 0 {
			blocks = append(blocks, Block{Type: BlockTypeDivider})
		}
		header := fmt.Sprintf("%s (%d)", group.Title, len(members))
		blocks = append(blocks, Block{
			Type:  BlockTypeHeader,
			Text:  capText(Sanitize(header), MaxHeaderChars),
			Emoji: true,
		})
		blocks = append(blocks, packSections(members)...)
	}

	msg := Message{
		FallbackText: capText(fmt.Sprintf("Lis Pendens leads: %d hot, %d review, %d disqualified",
			len(grouped[classify.OverallGood]), len(grouped[classify.OverallReview]), len(grouped[classify.OverallBad])), MaxHeaderChars),
		Blocks: blocks,
	}
	if len(msg.Blocks) > MaxBlocks {
		msg.Blocks = msg.Blocks[:MaxBlocks]
		msg.Truncated = true
	}
	return msg
}

// packSections concatenates rendered leads into section blocks, flushing
// whenever the next lead would push the running buffer past the ceiling
// minus the safety margin.
func packSections(leads []classify.ClassifiedLead) []Block {
	var blocks []Block
	var buf strings.Builder
	for _, lead := range leads {
		text := renderLead(lead)
		if buf.Len() > 0 && buf.Len()+2+len(text) > MaxSectionChars-sectionSafetyMargin {
			blocks = append(blocks, Block{Type: BlockTypeSection, Text: buf.String()})
			buf.Reset()
		}
		if buf.Len() > 0 {
			buf.WriteString("\n\n")
		}
		buf.WriteString(text)
	}
	if buf.Len() > 0 {
		blocks = append(blocks, Block{Type: BlockTypeSection, Text: buf.String()})
	}
	return blocks
}

func renderLead(lead classify.ClassifiedLead) string {
	c := lead.Classification
	var sb strings.Builder

	fmt.Fprintf(&sb, "*%s vs %s*\n",
		capText(Sanitize(lead.Parse.Plaintiff.Name), maxNameChars),
		capText(Sanitize(lead.Parse.Defendant.Name), maxNameChars))
	if lead.CaseNumber != "" {
		fmt.Fprintf(&sb, "Case %s\n", capText(Sanitize(lead.CaseNumber), maxCaseChars))
	}
	if addr := lead.Parse.PropertyAddress; addr != nil {
		fmt.Fprintf(&sb, "Property: %s (%s)\n", capText(Sanitize(addr.Cleaned), maxAddressChars), addr.Quality)
	} else {
		sb.WriteString("Property: address not found\n")
	}
	if c.StopReason != "" {
		fmt.Fprintf(&sb, "Verdict: %s (%s)", c.OverallScore, capText(Sanitize(c.StopReason), maxReasonChars))
	} else {
		fmt.Fprintf(&sb, "Verdict: %s", c.OverallScore)
	}
	if len(c.Concerns) > 0 {
		fmt.Fprintf(&sb, "\nConcerns: %s", capText(Sanitize(strings.Join(c.Concerns, "; ")), maxConcernChars))
	}
	if len(c.Notes) > 0 {
		fmt.Fprintf(&sb, "\nNotes: %s", capText(Sanitize(strings.Join(c.Notes, "; ")), maxNotesChars))
	}
	if len(lead.Links) > 0 {
		var links []string
		for _, l := range lead.Links {
			links = append(links, fmt.Sprintf("<%s|%s>", l.URL, l.Label))
		}
		fmt.Fprintf(&sb, "\n%s", capText(strings.Join(links, "  |  "), maxLinksChars))
	}

	// Field caps keep any one lead well under the section ceiling; the cap
	// here only matters if a future field forgets its own.
	return capText(sb.String(), MaxSectionChars-sectionSafetyMargin)
}
