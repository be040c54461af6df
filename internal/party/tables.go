package party

import "regexp"

// Plaintiff and defendant types are classified by ordered (tag, matcher)
// tables; first match wins. Order is load-bearing: a national bank's name
// usually also contains "Company", so lender vocabularies sit ahead of the
// generic corporate suffixes.

type PlaintiffType string

const (
	PlaintiffBank             PlaintiffType = "bank"
	PlaintiffCreditUnion      PlaintiffType = "credit_union"
	PlaintiffMortgageServicer PlaintiffType = "mortgage_servicer"
	PlaintiffHOA              PlaintiffType = "hoa"
	PlaintiffGovernment       PlaintiffType = "government"
	PlaintiffLLC              PlaintiffType = "llc"
	PlaintiffIndividual       PlaintiffType = "individual"
	PlaintiffUnknown          PlaintiffType = "unknown"
)

type DefendantType string

const (
	DefendantIndividual DefendantType = "individual"
	DefendantCouple     DefendantType = "couple"
	DefendantTrust      DefendantType = "trust"
	DefendantLLC        DefendantType = "llc"
	DefendantUnknown    DefendantType = "unknown"
)

var plaintiffTypeTable = []struct {
	Type    PlaintiffType
	Matcher *regexp.Regexp
}{
	{PlaintiffBank, regexp.MustCompile(`(?i)\bbank\b|\bbanc[a-z]*\b|\bn\.?a\.(?:\s|$|,)|\bsavings\b`)},
	{PlaintiffCreditUnion, regexp.MustCompile(`(?i)credit union|\bf\.?c\.?u\.?\b`)},
	{PlaintiffMortgageServicer, regexp.MustCompile(`(?i)\bmortgage\b|\bservicing\b|\bhome loans?\b|\blending\b|\bloan trust\b|\bfinancial\b|\bfunding\b`)},
	{PlaintiffHOA, regexp.MustCompile(`(?i)\bhomeowners?\b|\bhome owners?\b|\bh\.?o\.?a\.?\b|\bcondominium\b|\bcondo\b|\bproperty owners?\b|\bassociation\b|council of co-?owners`)},
	{PlaintiffGovernment, regexp.MustCompile(`(?i)\bcity of\b|\bcounty\b|\bcommonwealth\b|\bstate of\b|\bunited states\b|\bdepartment of\b|\bhousing authority\b|\binternal revenue\b`)},
	{PlaintiffLLC, regexp.MustCompile(`(?i)\bllc\b|\bl\.l\.c\.?\b|\binc\.?(?:\s|$|,)|\bcorp(?:oration)?\b|\bcompany\b|\bltd\.?\b|\bl\.?p\.?(?:\s|$)`)},
}

// goodPlaintiffPattern marks lender-shaped plaintiffs, the filings worth
// chasing: a foreclosing lender usually means a homeowner with equity.
var goodPlaintiffPattern = regexp.MustCompile(`(?i)\bbank\b|\bbanc[a-z]*\b|credit union|\bmortgage\b|\blender\b|\blending\b|\bloan\b|\bsavings\b|\bhome loans?\b|\bn\.?a\.(?:\s|$|,)|\bf\.?c\.?u\.?\b`)

// badPlaintiffTable disqualifies a plaintiff outright regardless of lender
// vocabulary. A lender name that incidentally contains one of these keywords
// loses: that precedence is deliberate and matches production behavior.
var badPlaintiffTable = []struct {
	Tag     string
	Matcher *regexp.Regexp
}{
	{"hoa", regexp.MustCompile(`(?i)\bhomeowners?\b|\bhome owners?\b|\bh\.?o\.?a\.?\b|\bcondominium\b|\bassociation\b|council of co-?owners`)},
	{"government", regexp.MustCompile(`(?i)\bcity of\b|\bcounty\b|\bcommonwealth\b|\bstate of\b|\bunited states\b|\bdepartment of\b|\bhousing authority\b|\binternal revenue\b`)},
	{"contractor", regexp.MustCompile(`(?i)\bconstruction\b|\bcontracting\b|\bcontractors?\b|\bbuilders?\b|\broofing\b|\bplumbing\b|\bpaving\b|\bremodeling\b|\bmechanical\b|\bservices\b`)},
}

var defendantTypeTable = []struct {
	Type    DefendantType
	Matcher *regexp.Regexp
}{
	{DefendantTrust, regexp.MustCompile(`(?i)\btrust\b|\btrustees?\b|\brevocable\b|\birrevocable\b`)},
	{DefendantCouple, regexp.MustCompile(`^[A-Z][\w.'\-]*(?:\s+[\w.'\-]+)*?\s+(?:and|AND|&)\s+[A-Z]`)},
	{DefendantLLC, regexp.MustCompile(`(?i)\bllc\b|\bl\.l\.c\.?\b|\binc\.?(?:\s|$|,)|\bcorp(?:oration)?\b|\bcompany\b|\bltd\.?\b|\blp\b`)},
}

// businessEntityPattern drives defendant goodness: a corporate defendant is
// not a homeowner lead.
var businessEntityPattern = regexp.MustCompile(`(?i)\bllc\b|\binc\.?(?:\s|$|,)|\bcorp(?:oration)?\b|\bcompany\b|\bltd\.?\b|\blp\b`)

// personNamePattern accepts "First Last" (two or more capitalized words) and
// "Last, First" shapes.
var (
	personNamePattern    = regexp.MustCompile(`^[A-Z][A-Za-z.'\-]+(?:\s+[A-Z][A-Za-z.'\-]*)+$`)
	lastFirstNamePattern = regexp.MustCompile(`^[A-Z][A-Za-z'\-]+,\s*[A-Z][A-Za-z.'\-]+`)
)

func classifyPlaintiffType(name string) PlaintiffType {
	for _, entry := range plaintiffTypeTable {
		if entry.Matcher.MatchString(name) {
			return entry.Type
		}
	}
	if !matchesBadPlaintiff(name) && looksLikePersonName(name) {
		return PlaintiffIndividual
	}
	return PlaintiffUnknown
}

// isGoodPlaintiff requires a lender-vocabulary hit AND no disqualifier.
// Both checks run against the raw name, independent of the assigned type.
func isGoodPlaintiff(name string) bool {
	return goodPlaintiffPattern.MatchString(name) && !matchesBadPlaintiff(name)
}

func matchesBadPlaintiff(name string) bool {
	for _, entry := range badPlaintiffTable {
		if entry.Matcher.MatchString(name) {
			return true
		}
	}
	return false
}

func classifyDefendantType(name string) DefendantType {
	for _, entry := range defendantTypeTable {
		if entry.Matcher.MatchString(name) {
			return entry.Type
		}
	}
	return DefendantIndividual
}

func isGoodDefendant(name string) bool {
	return !businessEntityPattern.MatchString(name)
}

func looksLikePersonName(name string) bool {
	return personNamePattern.MatchString(name) || lastFirstNamePattern.MatchString(name)
}
