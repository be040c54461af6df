// Package address finds address-shaped substrings in filing text and scores
// each one for plausibility. Legal boilerplate is full of strings that look
// like addresses ("south of Main Street", "Fayette Circuit Court"), so
// extraction is deliberately loose and scoring does the filtering: a hard veto
// list rejects known non-address phrases, then additive signals build the
// score for everything else.
package address

import (
	"regexp"
	"strings"
	"sync"

	"github.com/bluegrassdata/lienwatch/internal/textnorm"
)

type Quality string

const (
	QualityHigh   Quality = "high"
	QualityMedium Quality = "medium"
	QualityLow    Quality = "low"
)

// Reason tags attached to a scored candidate, in evaluation order.
const (
	ReasonNonAddressPhrase = "matched_non_address_phrase"
	ReasonStreetNumber     = "has_street_number"
	ReasonStreetType       = "has_street_type"
	ReasonCityMatch        = "city_match"
	ReasonStateMatch       = "state_match"
	ReasonZIP              = "has_zip"
)

// Candidate is an immutable scored address candidate. Quality and
// IsLikelyAddress are pure functions of Score.
type Candidate struct {
	Raw             string   `json:"raw"`
	Cleaned         string   `json:"cleaned"`
	Score           int      `json:"score"`
	Quality         Quality  `json:"quality"`
	IsLikelyAddress bool     `json:"is_likely_address"`
	Reasons         []string `json:"reasons,omitempty"`
}

// Config holds the fixed scoring targets. City and state matches are bonus
// signals, not requirements; out-of-town addresses still score on structure.
type Config struct {
	City  string
	State string
}

const streetTypes = `Street|St|Avenue|Ave|Road|Rd|Drive|Dr|Lane|Ln|Court|Ct|Circle|Cir|Boulevard|Blvd|Way|Place|Pl|Trail|Trl|Parkway|Pkwy|Terrace|Ter|Pike|Highway|Hwy|Loop|Cove|Square|Sq`

// Extraction patterns, most specific first. All feed the same dedupe set, so
// order only affects which raw form is kept for a given cleaned form.
var extractPatterns = []*regexp.Regexp{
	// Full form: number, street, city, state, ZIP.
	regexp.MustCompile(`(?i)\b\d{1,6}\s+(?:(?:N|S|E|W|North|South|East|West)\.?\s+)?[A-Za-z][A-Za-z0-9.'\- ]{0,40}?\s+(?:` + streetTypes + `)\.?(?:\s*,?\s*(?:Apt|Apartment|Unit|Suite|Ste|#)\.?\s*[A-Za-z0-9\-]+)?\s*,\s*[A-Za-z .]+,\s*[A-Za-z]{2,20}\.?\s*\d{5}(?:-\d{4})?`),
	// Street with unit but no city suffix.
	regexp.MustCompile(`(?i)\b\d{1,6}\s+(?:(?:N|S|E|W|North|South|East|West)\.?\s+)?[A-Za-z][A-Za-z0-9.'\- ]{0,40}?\s+(?:` + streetTypes + `)\.?\s*,?\s*(?:Apt|Apartment|Unit|Suite|Ste|#)\.?\s*[A-Za-z0-9\-]+`),
	// Bare street line.
	regexp.MustCompile(`(?i)\b\d{1,6}\s+(?:(?:N|S|E|W|North|South|East|West)\.?\s+)?[A-Za-z][A-Za-z0-9.'\- ]{0,40}?\s+(?:` + streetTypes + `)\b\.?`),
}

// Phrases that disqualify a candidate outright. Ordered (tag, matcher) pairs
// so tests can enumerate the table.
var nonAddressPhrases = []struct {
	Tag     string
	Matcher *regexp.Regexp
}{
	{"directional_relative", regexp.MustCompile(`(?i)\b(?:north|south|east|west)\s+of\b`)},
	{"court_reference", regexp.MustCompile(`(?i)\b(?:circuit|district|family|supreme)\s+court\b`)},
	{"legal_party", regexp.MustCompile(`(?i)\b(?:plaintiff|defendant)s?\b`)},
	{"filing_language", regexp.MustCompile(`(?i)\b(?:filed|docket|case\s*no|versus|notice\s+of)\b`)},
}

var (
	streetNumberStart = regexp.MustCompile(`^\d{1,6}\s`)
	streetTypeToken   = regexp.MustCompile(`(?i)\b(?:` + streetTypes + `)\b`)
	zipToken          = regexp.MustCompile(`\b\d{5}(?:-\d{4})?\b`)
)

// Extract finds candidate addresses in text, deduplicated by cleaned form
// (first occurrence keeps its raw form), each scored against cfg. Later,
// looser patterns never re-match a span an earlier pattern already claimed, so
// a bare street line does not shadow its own full-address match.
func Extract(text string, cfg Config) []Candidate {
	cleaned := textnorm.CleanForAddressExtraction(text)
	seen := map[string]bool{}
	var covered [][2]int
	var out []Candidate
	for _, pat := range extractPatterns {
		for _, span := range pat.FindAllStringIndex(cleaned, -1) {
			if overlapsAny(covered, span[0], span[1]) {
				continue
			}
			covered = append(covered, [2]int{span[0], span[1]})
			c := ScoreCandidate(cleaned[span[0]:span[1]], cfg)
			key := strings.ToLower(c.Cleaned)
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, c)
		}
	}
	return out
}

func overlapsAny(spans [][2]int, start, end int) bool {
	for _, s := range spans {
		if start < s[1] && end > s[0] {
			return true
		}
	}
	return false
}

// ScoreCandidate scores one raw candidate. The veto table short-circuits;
// positive signals are only evaluated for candidates that survive it.
func ScoreCandidate(raw string, cfg Config) Candidate {
	c := Candidate{
		Raw:     raw,
		Cleaned: textnorm.CleanForAddressExtraction(raw),
	}
	for _, phrase := range nonAddressPhrases {
		if phrase.Matcher.MatchString(c.Cleaned) {
			c.Score = 0
			c.Quality = QualityLow
			c.IsLikelyAddress = false
			c.Reasons = []string{ReasonNonAddressPhrase}
			return c
		}
	}

	if streetNumberStart.MatchString(c.Cleaned) {
		c.Score += 40
		c.Reasons = append(c.Reasons, ReasonStreetNumber)
	}
	if streetTypeToken.MatchString(c.Cleaned) {
		c.Score += 30
		c.Reasons = append(c.Reasons, ReasonStreetType)
	}
	if cfg.City != "" && containsToken(c.Cleaned, cfg.City) {
		c.Score += 10
		c.Reasons = append(c.Reasons, ReasonCityMatch)
	}
	if cfg.State != "" && matchesState(c.Cleaned, cfg.State) {
		c.Score += 10
		c.Reasons = append(c.Reasons, ReasonStateMatch)
	}
	if zipToken.MatchString(c.Cleaned) {
		c.Score += 10
		c.Reasons = append(c.Reasons, ReasonZIP)
	}

	c.Quality = qualityFor(c.Score)
	c.IsLikelyAddress = c.Score >= 50
	return c
}

func qualityFor(score int) Quality {
	switch {
	case score >= 80:
		return QualityHigh
	case score >= 50:
		return QualityMedium
	default:
		return QualityLow
	}
}

var stateNames = map[string]string{
	"KY": "Kentucky", "TN": "Tennessee", "OH": "Ohio", "IN": "Indiana",
	"WV": "West Virginia", "VA": "Virginia", "IL": "Illinois", "MO": "Missouri",
}

// matchesState accepts either the two-letter abbreviation or the full state
// name, whichever form cfg supplies.
func matchesState(text, state string) bool {
	if containsToken(text, state) {
		return true
	}
	upper := strings.ToUpper(strings.TrimSpace(state))
	if full, ok := stateNames[upper]; ok {
		return containsToken(text, full)
	}
	for abbr, full := range stateNames {
		if strings.EqualFold(full, state) {
			return containsToken(text, abbr)
		}
	}
	return false
}

// tokenPatterns memoizes the per-token matchers. Tokens come from the fixed
// scoring config (city, state forms), so the map stays a handful of entries
// instead of recompiling on every candidate.
var tokenPatterns sync.Map

func containsToken(text, token string) bool {
	token = strings.TrimSpace(token)
	cached, ok := tokenPatterns.Load(token)
	if !ok {
		re := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(token) + `\b`)
		cached, _ = tokenPatterns.LoadOrStore(token, re)
	}
	return cached.(*regexp.Regexp).MatchString(text)
}

// FilterIgnored drops candidates whose cleaned form exactly matches an ignore
// list entry, case-insensitively and whitespace-normalized. Useful for
// excluding the courthouse and filer office addresses that appear on every
// filing. No-op for an empty list.
func FilterIgnored(candidates []Candidate, ignore []string) []Candidate {
	if len(ignore) == 0 {
		return candidates
	}
	ignored := make(map[string]bool, len(ignore))
	for _, entry := range ignore {
		ignored[strings.ToLower(textnorm.CleanForAddressExtraction(entry))] = true
	}
	var out []Candidate
	for _, c := range candidates {
		if ignored[strings.ToLower(c.Cleaned)] {
			continue
		}
		out = append(out, c)
	}
	return out
}

// Best returns the highest-scoring candidate, first occurrence winning ties,
// or nil for an empty list.
func Best(candidates []Candidate) *Candidate {
	var best *Candidate
	for i := range candidates {
		if best == nil || candidates[i].Score > best.Score {
			best = &candidates[i]
		}
	}
	return best
}
