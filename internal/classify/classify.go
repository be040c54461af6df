// Package classify scores a parsed filing into a tiered sales lead. Four
// ordered levels run as a small state machine: plaintiff, defendant, equity,
// property quality. A bad plaintiff or defendant terminates the run and marks
// the remaining levels skipped; the equity and property levels never
// short-circuit each other. All failure is expressed as data, never as an
// error.
package classify

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/bluegrassdata/lienwatch/internal/docparse"
	"github.com/bluegrassdata/lienwatch/internal/party"
)

type LevelScore string

const (
	ScoreGood        LevelScore = "good"
	ScoreBad         LevelScore = "bad"
	ScoreUnknown     LevelScore = "unknown"
	ScoreNeedsLookup LevelScore = "needs_lookup"
	ScoreSkipped     LevelScore = "skipped"
)

type Overall string

const (
	OverallGood   Overall = "good"
	OverallReview Overall = "review"
	OverallBad    Overall = "bad"
)

// EquityThresholdYears is how long an owner must have held the property
// before we assume meaningful equity.
const EquityThresholdYears = 5

// LevelResult is one level's verdict. Note is always human-readable.
type LevelResult struct {
	Score LevelScore `json:"score"`
	Note  string     `json:"note"`
}

// Facts are the optional externally supplied property facts. The zero value
// means nothing was looked up: nil purchase date, empty grade, zero counts.
type Facts struct {
	PurchaseDate      *time.Time `json:"purchase_date,omitempty"`
	NeighborhoodGrade string     `json:"neighborhood_grade,omitempty"`
	Bedrooms          int        `json:"bedrooms,omitempty"`
	Bathrooms         float64    `json:"bathrooms,omitempty"`
}

// Classification is the full four-level outcome. If Level1 or Level2 is bad,
// every later level carries the skipped sentinel, OverallScore is bad, and
// StopReason names the failed level.
type Classification struct {
	Level1       LevelResult `json:"level1"`
	Level2       LevelResult `json:"level2"`
	Level3       LevelResult `json:"level3"`
	Level4       LevelResult `json:"level4"`
	OverallScore Overall     `json:"overall_score"`
	StopReason   string      `json:"stop_reason,omitempty"`
	Concerns     []string    `json:"concerns,omitempty"`
	Notes        []string    `json:"notes,omitempty"`
}

type levelInput struct {
	parse docparse.ParseResult
	facts Facts
	now   time.Time
}

// Level definitions, in evaluation order. A terminal level's bad verdict
// skips everything after it; non-terminal levels are always evaluated once
// reached.
type levelDef struct {
	Name     string
	Terminal bool
	Evaluate func(levelInput) LevelResult
}

var levels = []levelDef{
	{"Level 1", true, evalPlaintiff},
	{"Level 2", true, evalDefendant},
	{"Level 3", false, evalEquity},
	{"Level 4", false, evalProperty},
}

// Evaluate runs the state machine over one parse result plus whatever facts
// the caller looked up. Pure: same inputs, same classification.
func Evaluate(parse docparse.ParseResult, facts Facts) Classification {
	return evaluateAt(parse, facts, time.Now())
}

func evaluateAt(parse docparse.ParseResult, facts Facts, now time.Time) Classification {
	in := levelInput{parse: parse, facts: facts, now: now}

	results := make([]LevelResult, len(levels))
	failedAt := -1
	for i, lvl := range levels {
		if failedAt >= 0 {
			results[i] = LevelResult{
				Score: ScoreSkipped,
				Note:  fmt.Sprintf("Skipped - %s failed", levels[failedAt].Name),
			}
			continue
		}
		results[i] = lvl.Evaluate(in)
		if lvl.Terminal && results[i].Score == ScoreBad {
			failedAt = i
		}
	}

	c := Classification{
		Level1:   results[0],
		Level2:   results[1],
		Level3:   results[2],
		Level4:   results[3],
		Concerns: append([]string(nil), parse.Plaintiff.Concerns...),
	}

	if failedAt >= 0 {
		c.OverallScore = OverallBad
		c.StopReason = fmt.Sprintf("%s: %s", levels[failedAt].Name, results[failedAt].Note)
		return c
	}

	c.OverallScore = OverallGood
	for i, r := range results {
		if r.Score == ScoreGood {
			continue
		}
		c.OverallScore = OverallReview
		if i >= 2 {
			c.Concerns = append(c.Concerns, r.Note)
		}
	}
	return c
}

func evalPlaintiff(in levelInput) LevelResult {
	p := in.parse.Plaintiff
	if p.IsGoodLead {
		return LevelResult{ScoreGood, fmt.Sprintf("Plaintiff is a foreclosing lender (%s)", p.Type)}
	}
	switch p.Type {
	case party.PlaintiffHOA:
		return LevelResult{ScoreBad, "HOA foreclosure - small lien, unlikely equity sale"}
	case party.PlaintiffGovernment:
		return LevelResult{ScoreBad, "Government action - tax or code lien, not a lender foreclosure"}
	case party.PlaintiffLLC:
		return LevelResult{ScoreBad, "LLC plaintiff - private lender or investor dispute"}
	}
	return LevelResult{ScoreUnknown, fmt.Sprintf("Plaintiff type unclear (%s)", p.Type)}
}

func evalDefendant(in levelInput) LevelResult {
	d := in.parse.Defendant
	if !d.IsGoodLead {
		return LevelResult{ScoreBad, fmt.Sprintf("Defendant is a business entity (%s), not a homeowner", d.Type)}
	}
	switch d.Type {
	case party.DefendantCouple:
		return LevelResult{ScoreGood, "Defendants are a couple - likely owner-occupants"}
	case party.DefendantTrust:
		return LevelResult{ScoreGood, "Defendant is a trust - often an estate with equity"}
	case party.DefendantIndividual:
		return LevelResult{ScoreGood, "Defendant is an individual owner"}
	}
	return LevelResult{ScoreGood, "Defendant accepted"}
}

func evalEquity(in levelInput) LevelResult {
	purchased := in.facts.PurchaseDate
	if purchased == nil {
		return LevelResult{ScoreNeedsLookup, "No purchase date on file - PVA lookup needed"}
	}
	cutoff := in.now.AddDate(-EquityThresholdYears, 0, 0)
	if purchased.After(cutoff) {
		return LevelResult{ScoreBad, fmt.Sprintf("Purchased within %d years - likely little equity", EquityThresholdYears)}
	}
	years := int(in.now.Sub(*purchased).Hours() / (24 * 365.25))
	return LevelResult{ScoreGood, fmt.Sprintf("Owned roughly %d years - equity likely", years)}
}

// Neighborhood grades that make a property worth chasing on their own, and
// the grades that rule it out.
var (
	goodGrades = map[string]bool{"A+": true, "A": true, "A-": true, "B+": true, "B": true, "B-": true}
	badGrades  = map[string]bool{"C+": true, "C": true, "C-": true, "D+": true, "D": true, "D-": true, "F": true}
)

const (
	minGoodBedrooms = 3
	maxGoodBedrooms = 5
)

func evalProperty(in levelInput) LevelResult {
	grade := in.facts.NeighborhoodGrade
	beds := in.facts.Bedrooms
	if grade == "" && beds == 0 {
		return LevelResult{ScoreNeedsLookup, "No neighborhood or bedroom data - PVA lookup needed"}
	}
	if goodGrades[grade] {
		return LevelResult{ScoreGood, fmt.Sprintf("Desirable neighborhood (grade %s)", grade)}
	}
	if beds >= minGoodBedrooms && beds <= maxGoodBedrooms {
		return LevelResult{ScoreGood, fmt.Sprintf("%d bedrooms - family-sized home", beds)}
	}
	if badGrades[grade] {
		return LevelResult{ScoreBad, fmt.Sprintf("Weak neighborhood (grade %s)", grade)}
	}
	return LevelResult{ScoreUnknown, "Property data inconclusive"}
}

// ClassifiedLead is the externally visible unit: one scored lead per filing.
// Created once after classification and never mutated.
type ClassifiedLead struct {
	ID             string               `json:"id"`
	DocumentID     string               `json:"document_id"`
	CaseNumber     string               `json:"case_number,omitempty"`
	Parse          docparse.ParseResult `json:"parse"`
	Classification Classification       `json:"classification"`
	Links          []Link               `json:"links,omitempty"`
	CreatedAt      time.Time            `json:"created_at"`
}

// NewLead classifies a parse result and wraps it with identity and lookup
// links. The address-quality fallback from link generation lands in the
// classification notes, never in the scores.
func NewLead(documentID, caseNumber string, parse docparse.ParseResult, facts Facts) ClassifiedLead {
	classification := Evaluate(parse, facts)
	links, note := LookupLinks(parse.Defendant, parse.PropertyAddress)
	if note != "" {
		classification.Notes = append(classification.Notes, note)
	}
	return ClassifiedLead{
		ID:             uuid.NewString(),
		DocumentID:     documentID,
		CaseNumber:     caseNumber,
		Parse:          parse,
		Classification: classification,
		Links:          links,
		CreatedAt:      time.Now().UTC(),
	}
}
