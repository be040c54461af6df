package address

import (
	"strings"
	"testing"
)

var lexington = Config{City: "Lexington", State: "KY"}

func TestScoreCandidateFullAddress(t *testing.T) {
	c := ScoreCandidate("123 Main Street, Lexington, KY 40508", lexington)
	if c.Quality != QualityHigh {
		t.Fatalf("quality = %s, want high (score %d)", c.Quality, c.Score)
	}
	if c.Score < 80 {
		t.Fatalf("score = %d, want >= 80", c.Score)
	}
	if !c.IsLikelyAddress {
		t.Fatal("expected IsLikelyAddress=true")
	}
	for _, want := range []string{ReasonStreetNumber, ReasonStreetType, ReasonCityMatch, ReasonStateMatch, ReasonZIP} {
		if !hasReason(c, want) {
			t.Fatalf("missing reason %s in %v", want, c.Reasons)
		}
	}
}

func TestScoreCandidateStreetOnly(t *testing.T) {
	c := ScoreCandidate("456 Oak Avenue", lexington)
	if c.Quality != QualityMedium {
		t.Fatalf("quality = %s, want medium (score %d)", c.Quality, c.Score)
	}
	if c.Score < 50 || c.Score >= 80 {
		t.Fatalf("score = %d, want [50,80)", c.Score)
	}
}

func TestScoreCandidateNonAddressPhrases(t *testing.T) {
	for _, raw := range []string{
		"south of Main Street",
		"200 Fayette Circuit Court",
		"123 Main Street where Plaintiff filed",
	} {
		c := ScoreCandidate(raw, lexington)
		if c.IsLikelyAddress {
			t.Fatalf("%q: expected rejection", raw)
		}
		if c.Score != 0 || c.Quality != QualityLow {
			t.Fatalf("%q: score=%d quality=%s, want 0/low", raw, c.Score, c.Quality)
		}
		if !hasReason(c, ReasonNonAddressPhrase) {
			t.Fatalf("%q: reasons = %v, want %s", raw, c.Reasons, ReasonNonAddressPhrase)
		}
	}
}

func TestScoreCandidateStateFullName(t *testing.T) {
	c := ScoreCandidate("789 Elm Drive, Lexington, Kentucky 40502", lexington)
	if !hasReason(c, ReasonStateMatch) {
		t.Fatalf("full state name not matched: %v", c.Reasons)
	}
}

func TestContainsTokenMemoized(t *testing.T) {
	// Repeated scoring reuses the cached matcher; behavior must not drift
	// between the compile and cache-hit paths.
	for i := 0; i < 3; i++ {
		if !containsToken("123 Main Street, Lexington, KY", "Lexington") {
			t.Fatalf("pass %d: city token not matched", i)
		}
		if containsToken("42 Lexingtons Way", "Lexington") {
			t.Fatalf("pass %d: word boundary lost", i)
		}
		if !containsToken("123 Main Street, LEXINGTON, KY", "lexington") {
			t.Fatalf("pass %d: case-insensitive match lost", i)
		}
	}
}

func TestExtractDeduplicatesByCleanedForm(t *testing.T) {
	text := "the property at 123 Main Street,\r\nLexington, KY 40508, also known as 123   Main Street, Lexington, KY 40508"
	got := Extract(text, lexington)
	count := 0
	for _, c := range got {
		if strings.HasPrefix(strings.ToLower(c.Cleaned), "123 main street") {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("expected 1 deduplicated candidate, got %d (%v)", count, got)
	}
}

func TestExtractFindsPartialAddress(t *testing.T) {
	got := Extract("commonly known as 456 Oak Avenue, together with all improvements", lexington)
	if len(got) == 0 {
		t.Fatal("expected at least one candidate")
	}
	if got[0].Quality != QualityMedium {
		t.Fatalf("quality = %s, want medium", got[0].Quality)
	}
}

func TestFilterIgnored(t *testing.T) {
	cands := []Candidate{
		ScoreCandidate("123 Main Street, Lexington, KY 40508", lexington),
		ScoreCandidate("456 Oak Avenue", lexington),
	}

	got := FilterIgnored(cands, []string{"123  MAIN  STREET, lexington, ky 40508"})
	if len(got) != 1 || got[0].Cleaned != "456 Oak Avenue" {
		t.Fatalf("unexpected filter result: %+v", got)
	}

	// Empty ignore list is a no-op.
	if got := FilterIgnored(cands, nil); len(got) != len(cands) {
		t.Fatalf("nil ignore list should be a no-op, got %d", len(got))
	}

	// Result is always a subset of the input.
	for _, g := range got {
		found := false
		for _, c := range cands {
			if c.Cleaned == g.Cleaned {
				found = true
			}
		}
		if !found {
			t.Fatalf("filter invented candidate %q", g.Cleaned)
		}
	}
}

func TestBest(t *testing.T) {
	if Best(nil) != nil {
		t.Fatal("Best(nil) should be nil")
	}

	first := ScoreCandidate("456 Oak Avenue", lexington)
	second := ScoreCandidate("789 Elm Drive", lexington)
	high := ScoreCandidate("123 Main Street, Lexington, KY 40508", lexington)

	got := Best([]Candidate{first, second, high})
	if got == nil || got.Cleaned != high.Cleaned {
		t.Fatalf("Best = %+v, want the high-scoring candidate", got)
	}

	// Equal scores: first-listed wins.
	got = Best([]Candidate{first, second})
	if got == nil || got.Cleaned != first.Cleaned {
		t.Fatalf("tie should resolve to first candidate, got %+v", got)
	}
}

func TestNonAddressTableEntriesAllReject(t *testing.T) {
	samples := map[string]string{
		"directional_relative": "a tract north of Tates Creek Road",
		"court_reference":      "Fayette Circuit Court",
		"legal_party":          "Defendant resides at the property",
		"filing_language":      "Notice of lis pendens filed",
	}
	for _, entry := range nonAddressPhrases {
		sample, ok := samples[entry.Tag]
		if !ok {
			t.Fatalf("no sample for veto table entry %q", entry.Tag)
		}
		if !entry.Matcher.MatchString(sample) {
			t.Fatalf("veto entry %q did not match its sample %q", entry.Tag, sample)
		}
	}
}

func hasReason(c Candidate, tag string) bool {
	for _, r := range c.Reasons {
		if r == tag {
			return true
		}
	}
	return false
}
