// Package report renders one classified lead as a markdown work sheet, an
// HTML page for the operator view, and a printable PDF.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/bluegrassdata/lienwatch/internal/classify"
)

// BuildMarkdown renders the lead sheet an acquisitions agent works from:
// verdict first, then the level-by-level reasoning, then the raw parse
// details for verification.
func BuildMarkdown(lead classify.ClassifiedLead) string {
	c := lead.Classification
	var b strings.Builder

	fmt.Fprintf(&b, "# Lis Pendens Lead Sheet\n\n")
	if lead.CaseNumber != "" {
		fmt.Fprintf(&b, "- Case: %s\n", lead.CaseNumber)
	}
	fmt.Fprintf(&b, "- Lead ID: %s\n", lead.ID)
	fmt.Fprintf(&b, "- Classified: %s\n\n", lead.CreatedAt.Format(time.RFC3339))

	fmt.Fprintf(&b, "## Verdict\n\n")
	fmt.Fprintf(&b, "Overall: **%s**\n", c.OverallScore)
	if c.StopReason != "" {
		fmt.Fprintf(&b, "Stopped early: %s\n", c.StopReason)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "## Classification Levels\n\n")
	appendLevel(&b, "Level 1: Plaintiff", c.Level1)
	appendLevel(&b, "Level 2: Defendant", c.Level2)
	appendLevel(&b, "Level 3: Equity", c.Level3)
	appendLevel(&b, "Level 4: Property", c.Level4)

	if len(c.Concerns) > 0 {
		fmt.Fprintf(&b, "## Concerns\n\n")
		for _, concern := range c.Concerns {
			fmt.Fprintf(&b, "- %s\n", concern)
		}
		b.WriteString("\n")
	}
	if len(c.Notes) > 0 {
		fmt.Fprintf(&b, "## Notes\n\n")
		for _, note := range c.Notes {
			fmt.Fprintf(&b, "- %s\n", note)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "## Parties\n\n")
	p, d := lead.Parse.Plaintiff, lead.Parse.Defendant
	fmt.Fprintf(&b, "| Role | Name | Type | Good lead |\n")
	fmt.Fprintf(&b, "|---|---|---|---|\n")
	fmt.Fprintf(&b, "| Plaintiff | %s | %s | %v |\n", tableCell(p.Name), p.Type, p.IsGoodLead)
	fmt.Fprintf(&b, "| Defendant | %s | %s | %v |\n\n", tableCell(d.Name), d.Type, d.IsGoodLead)

	fmt.Fprintf(&b, "## Property\n\n")
	if addr := lead.Parse.PropertyAddress; addr != nil {
		fmt.Fprintf(&b, "- Address: %s\n", addr.Cleaned)
		fmt.Fprintf(&b, "- Quality: `%s` (score %d)\n", addr.Quality, addr.Score)
		if len(addr.Reasons) > 0 {
			fmt.Fprintf(&b, "- Signals: %s\n", strings.Join(addr.Reasons, ", "))
		}
	} else {
		fmt.Fprintf(&b, "- No property address found in the filing.\n")
	}
	if m := lead.Parse.MailingAddress; m != nil {
		fmt.Fprintf(&b, "- Defendant mailing address: %s\n", m.Cleaned)
	}
	b.WriteString("\n")

	if len(lead.Links) > 0 {
		fmt.Fprintf(&b, "## Lookups\n\n")
		for _, link := range lead.Links {
			fmt.Fprintf(&b, "- [%s](%s)\n", link.Label, link.URL)
		}
		b.WriteString("\n")
	}

	return b.String()
}

func appendLevel(b *strings.Builder, title string, r classify.LevelResult) {
	fmt.Fprintf(b, "### %s\n\n", title)
	fmt.Fprintf(b, "- Score: `%s`\n", r.Score)
	fmt.Fprintf(b, "- Note: %s\n\n", r.Note)
}

func tableCell(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "|", `\|`), "\n", " ")
}
