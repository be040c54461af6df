// Package party extracts and classifies the filing parties from legally
// normalized Lis Pendens text. Extraction never fails: a document with no
// recognizable caption yields the Unknown sentinels, and classification
// degrades to the unknown types.
package party

import (
	"regexp"
	"strings"
)

const (
	UnknownPlaintiffName = "Unknown Plaintiff"
	UnknownDefendantName = "Unknown Defendant"

	minNameLen = 3
	maxNameLen = 199
)

const MultiPlaintiffConcern = "Multiple plaintiffs - potential second mortgage"

// Plaintiff is the filing party bringing the action.
type Plaintiff struct {
	Name       string        `json:"name"`
	Type       PlaintiffType `json:"type"`
	IsGoodLead bool          `json:"is_good_lead"`
	Concerns   []string      `json:"concerns,omitempty"`
}

// Defendant is the property owner named in the action. MailingAddress is the
// raw phrase captured from "residing at"/"whose address is" wording, if any;
// it is scored separately from the property address downstream.
type Defendant struct {
	Name           string        `json:"name"`
	Type           DefendantType `json:"type"`
	IsGoodLead     bool          `json:"is_good_lead"`
	MailingAddress string        `json:"mailing_address,omitempty"`
}

// Caption structural patterns, tried in order; the first pattern whose capture
// survives suffix trimming and the length check wins.
var plaintiffPatterns = []*regexp.Regexp{
	// Name block terminated by a ", Plaintiff" label on the same line.
	regexp.MustCompile(`(?im)^\s*(?:in re:?\s*)?(.{3,220}?),?\s+plaintiffs?\s*[,.]?\s*$`),
	// Explicit "Plaintiff:" label.
	regexp.MustCompile(`(?i)plaintiffs?\s*:\s*(.{3,220}?)\s*(?:\n|$)`),
	// Caption "Name v. Name".
	regexp.MustCompile(`(?m)^(.{3,220}?)\s+v\.\s+\S`),
	// Caption "Name vs Name".
	regexp.MustCompile(`(?im)^(.{3,220}?)\s+vs\.?\s+\S`),
}

var defendantPatterns = []*regexp.Regexp{
	// Name block terminated by a ", Defendant" label.
	regexp.MustCompile(`(?is)\bvs?\.?\s+(.{3,220}?),?\s+defendants?\b`),
	// Explicit "Defendant:" label.
	regexp.MustCompile(`(?i)defendants?\s*:\s*(.{3,220}?)\s*(?:\n|$)`),
	// Caption "Name v. Name".
	regexp.MustCompile(`(?i)\sv\.\s+(.{3,220}?)\s*(?:[,\n]|$)`),
	// Caption "Name vs Name".
	regexp.MustCompile(`(?i)\bvs\.?\s+(.{3,220}?)\s*(?:[,\n]|$)`),
}

var (
	plaintiffSuffix = regexp.MustCompile(`(?i)[,\s]*plaintiffs?[,.]?\s*$`)
	rePrefix        = regexp.MustCompile(`(?i)^re:?\s*`)
	defendantSuffix = regexp.MustCompile(`(?i)[,\s]*defendants?[,.]?\s*$`)
	etAlSuffix      = regexp.MustCompile(`(?i)[,\s]*et\.?\s+al\.?[,.]?\s*$`)
	versusSplit     = regexp.MustCompile(`(?i)\b(?:vs\.?|versus)\b`)
	conjunctionSep  = regexp.MustCompile(`(?i)\s+and\s+|\s*&\s*`)
	mailingPhrase   = regexp.MustCompile(`(?i)(?:residing at|whose address is)\s+([^.;\n]{5,150})`)
)

// ParsePlaintiff extracts and classifies the plaintiff from legally
// normalized text. Never fails; returns the Unknown sentinel when no
// structural pattern matches.
func ParsePlaintiff(legalText string) Plaintiff {
	name, ok := firstCapture(legalText, plaintiffPatterns, cleanPlaintiffName)
	if !ok {
		p := Plaintiff{Name: UnknownPlaintiffName, Type: PlaintiffUnknown}
		p.Concerns = plaintiffConcerns(legalText)
		return p
	}
	return Plaintiff{
		Name:       name,
		Type:       classifyPlaintiffType(name),
		IsGoodLead: isGoodPlaintiff(name),
		Concerns:   plaintiffConcerns(legalText),
	}
}

// ParseDefendant mirrors ParsePlaintiff for the defendant side and captures
// the mailing-address phrase when the filing includes one.
func ParseDefendant(legalText string) Defendant {
	d := Defendant{Name: UnknownDefendantName, Type: DefendantUnknown, IsGoodLead: true}
	if name, ok := firstCapture(legalText, defendantPatterns, cleanDefendantName); ok {
		d.Name = name
		d.Type = classifyDefendantType(name)
		d.IsGoodLead = isGoodDefendant(name)
	}
	if m := mailingPhrase.FindStringSubmatch(legalText); len(m) == 2 {
		d.MailingAddress = strings.TrimSpace(m[1])
	}
	return d
}

func firstCapture(text string, patterns []*regexp.Regexp, clean func(string) string) (string, bool) {
	for _, pat := range patterns {
		m := pat.FindStringSubmatch(text)
		if len(m) < 2 {
			continue
		}
		name := clean(m[1])
		if len(name) >= minNameLen && len(name) <= maxNameLen {
			return name, true
		}
	}
	return "", false
}

func cleanPlaintiffName(raw string) string {
	name := strings.TrimSpace(raw)
	name = rePrefix.ReplaceAllString(name, "")
	name = plaintiffSuffix.ReplaceAllString(name, "")
	return strings.Trim(strings.TrimSpace(name), ",")
}

func cleanDefendantName(raw string) string {
	name := strings.TrimSpace(raw)
	name = defendantSuffix.ReplaceAllString(name, "")
	name = etAlSuffix.ReplaceAllString(name, "")
	return strings.Trim(strings.TrimSpace(name), ",")
}

// plaintiffConcerns flags filings whose caption names two or more
// lender-shaped plaintiffs before the versus token: a second lender usually
// means a second mortgage eating the equity.
func plaintiffConcerns(legalText string) []string {
	loc := versusSplit.FindStringIndex(legalText)
	if loc == nil {
		return nil
	}
	lenders := 0
	for _, segment := range conjunctionSep.Split(legalText[:loc[0]], -1) {
		if goodPlaintiffPattern.MatchString(segment) {
			lenders++
		}
	}
	if lenders >= 2 {
		return []string{MultiPlaintiffConcern}
	}
	return nil
}
