package classify

import (
	"net/url"

	"github.com/bluegrassdata/lienwatch/internal/address"
	"github.com/bluegrassdata/lienwatch/internal/party"
)

// Link is a generated external search URL an agent can follow by hand.
type Link struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

const (
	pvaSearchBase   = "https://fayettepva.com/property-search/?search="
	courtSearchBase = "https://kcoj.kycourts.net/CourtNet/Search/Index?query="
	webSearchBase   = "https://www.google.com/search?q="
)

const lowQualityLinkNote = "Address quality low - lookup links use defendant name only"

// LookupLinks builds the PVA, court-records, and web-search links for a lead.
// The PVA link searches by address when its quality is high or medium;
// otherwise it falls back to the defendant name and the returned note records
// that fallback. Court and web searches always key on the defendant.
func LookupLinks(defendant party.Defendant, addr *address.Candidate) ([]Link, string) {
	note := ""
	pvaQuery := defendant.Name
	if addr != nil && (addr.Quality == address.QualityHigh || addr.Quality == address.QualityMedium) {
		pvaQuery = addr.Cleaned
	} else {
		note = lowQualityLinkNote
	}

	links := []Link{
		{Label: "PVA property search", URL: pvaSearchBase + url.QueryEscape(pvaQuery)},
		{Label: "Court records", URL: courtSearchBase + url.QueryEscape(defendant.Name)},
		{Label: "Web search", URL: webSearchBase + url.QueryEscape(defendant.Name+" Lexington KY")},
	}
	return links, note
}
