package propertydata

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/bluegrassdata/lienwatch/internal/classify"
)

// Parcel-card fields as the PVA renders them. Parsing runs over the page
// text with tags stripped, so layout churn in the markup does not matter as
// long as the labels survive.
var (
	tagPattern      = regexp.MustCompile(`<[^>]*>`)
	saleDatePattern = regexp.MustCompile(`(?i)\b(?:last\s+)?(?:sale|deed|transfer)\s+date\W{0,10}(\d{1,2}/\d{1,2}/\d{4})`)
	gradePattern    = regexp.MustCompile(`(?i)\bneighborhood\s+(?:grade|rating)\W{0,10}([A-F][+-]?)(?:\s|$|<)`)
	bedroomPattern  = regexp.MustCompile(`(?i)\bbed(?:room)?s?\W{0,10}(\d{1,2})\b`)
	bathroomPattern = regexp.MustCompile(`(?i)\bbath(?:room)?s?\W{0,10}(\d{1,2}(?:\.\d)?)\b`)

	noResultPattern = regexp.MustCompile(`(?i)no\s+(?:results|records|parcels)\s+found`)
)

// parseParcelPage pulls whatever facts the parcel card carries. Missing
// fields stay at their zero value; only a no-results page is an error.
func parseParcelPage(pageHTML string) (classify.Facts, error) {
	text := tagPattern.ReplaceAllString(pageHTML, " ")

	if noResultPattern.MatchString(text) {
		return classify.Facts{}, fmt.Errorf("no parcel found")
	}

	var facts classify.Facts
	if m := saleDatePattern.FindStringSubmatch(text); len(m) == 2 {
		if ts, err := time.Parse("1/2/2006", m[1]); err == nil {
			facts.PurchaseDate = &ts
		}
	}
	if m := gradePattern.FindStringSubmatch(text); len(m) == 2 {
		facts.NeighborhoodGrade = strings.ToUpper(m[1])
	}
	if m := bedroomPattern.FindStringSubmatch(text); len(m) == 2 {
		facts.Bedrooms, _ = strconv.Atoi(m[1])
	}
	if m := bathroomPattern.FindStringSubmatch(text); len(m) == 2 {
		facts.Bathrooms, _ = strconv.ParseFloat(m[1], 64)
	}
	return facts, nil
}
