package report

import (
	"strings"
	"testing"
	"time"

	"github.com/bluegrassdata/lienwatch/internal/address"
	"github.com/bluegrassdata/lienwatch/internal/classify"
	"github.com/bluegrassdata/lienwatch/internal/docparse"
	"github.com/bluegrassdata/lienwatch/internal/party"
)

func sampleLead() classify.ClassifiedLead {
	return classify.ClassifiedLead{
		ID:         "lead-1",
		DocumentID: "doc-1",
		CaseNumber: "26-CI-01234",
		Parse: docparse.ParseResult{
			Plaintiff: party.Plaintiff{Name: "Wells Fargo Bank, N.A.", Type: party.PlaintiffBank, IsGoodLead: true},
			Defendant: party.Defendant{Name: "John and Jane Smith", Type: party.DefendantCouple, IsGoodLead: true},
			PropertyAddress: &address.Candidate{
				Cleaned: "123 Main Street, Lexington, KY 40508",
				Score:   100,
				Quality: address.QualityHigh,
				Reasons: []string{"has_street_number", "has_street_type"},
			},
		},
		Classification: classify.Classification{
			Level1:       classify.LevelResult{Score: classify.ScoreGood, Note: "Plaintiff is a foreclosing lender (bank)"},
			Level2:       classify.LevelResult{Score: classify.ScoreGood, Note: "Defendants are a couple - likely owner-occupants"},
			Level3:       classify.LevelResult{Score: classify.ScoreNeedsLookup, Note: "No purchase date on file - PVA lookup needed"},
			Level4:       classify.LevelResult{Score: classify.ScoreNeedsLookup, Note: "No neighborhood or bedroom data - PVA lookup needed"},
			OverallScore: classify.OverallReview,
			Concerns:     []string{"No purchase date on file - PVA lookup needed"},
		},
		Links: []classify.Link{
			{Label: "PVA property search", URL: "https://fayettepva.com/property-search/?search=123"},
		},
		CreatedAt: time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestBuildMarkdownSections(t *testing.T) {
	md := BuildMarkdown(sampleLead())

	for _, want := range []string{
		"# Lis Pendens Lead Sheet",
		"- Case: 26-CI-01234",
		"Overall: **review**",
		"### Level 1: Plaintiff",
		"### Level 4: Property",
		"| Plaintiff | Wells Fargo Bank, N.A. | bank | true |",
		"123 Main Street, Lexington, KY 40508",
		"[PVA property search](https://fayettepva.com/property-search/?search=123)",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q", want)
		}
	}
}

func TestBuildMarkdownMissingAddress(t *testing.T) {
	lead := sampleLead()
	lead.Parse.PropertyAddress = nil
	md := BuildMarkdown(lead)
	if !strings.Contains(md, "No property address found") {
		t.Error("missing-address fallback absent")
	}
}

func TestBuildMarkdownEscapesTableCells(t *testing.T) {
	lead := sampleLead()
	lead.Parse.Plaintiff.Name = "Odd | Name\nBank"
	md := BuildMarkdown(lead)
	if !strings.Contains(md, `Odd \| Name Bank`) {
		t.Errorf("cell not escaped:\n%s", md)
	}
}

func TestRenderHTML(t *testing.T) {
	html, err := RenderHTML(BuildMarkdown(sampleLead()))
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if !strings.Contains(html, "<h1") || !strings.Contains(html, "Lis Pendens Lead Sheet") {
		t.Error("heading not rendered")
	}
	if !strings.Contains(html, "<table") {
		t.Error("GFM table not rendered")
	}
	if !strings.HasPrefix(html, "<!doctype html>") {
		t.Error("not a standalone document")
	}
}
