package leadstore

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/bluegrassdata/lienwatch/internal/classify"
	"github.com/bluegrassdata/lienwatch/internal/docparse"
	"github.com/bluegrassdata/lienwatch/internal/party"
)

func openTestStore(t *testing.T, path string) *Store {
	t.Helper()
	s, err := Open(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testLead(id string, overall classify.Overall, created time.Time) classify.ClassifiedLead {
	return classify.ClassifiedLead{
		ID:         id,
		DocumentID: "doc-" + id,
		CaseNumber: "26-CI-01234",
		Parse: docparse.ParseResult{
			Plaintiff: party.Plaintiff{Name: "Wells Fargo Bank", Type: party.PlaintiffBank, IsGoodLead: true},
			Defendant: party.Defendant{Name: "John Smith", Type: party.DefendantIndividual, IsGoodLead: true},
		},
		Classification: classify.Classification{OverallScore: overall},
		CreatedAt:      created,
	}
}

func TestSaveAndGetLead(t *testing.T) {
	s := openTestStore(t, filepath.Join(t.TempDir(), "leads.db"))

	lead := testLead("lead-1", classify.OverallGood, time.Now().UTC())
	if err := s.SaveLead(lead); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, ok := s.GetLead("lead-1")
	if !ok {
		t.Fatal("lead not found")
	}
	if got.Parse.Plaintiff.Name != "Wells Fargo Bank" || got.Classification.OverallScore != classify.OverallGood {
		t.Errorf("got %+v", got)
	}

	if _, ok := s.GetLead("absent"); ok {
		t.Error("absent lead must not be found")
	}
}

func TestSaveLeadRequiresID(t *testing.T) {
	s := openTestStore(t, filepath.Join(t.TempDir(), "leads.db"))
	if err := s.SaveLead(classify.ClassifiedLead{}); err == nil {
		t.Fatal("expected an error for an empty lead id")
	}
}

func TestListLeadsFilterAndOrder(t *testing.T) {
	s := openTestStore(t, filepath.Join(t.TempDir(), "leads.db"))

	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	s.SaveLead(testLead("lead-1", classify.OverallGood, base))
	s.SaveLead(testLead("lead-2", classify.OverallBad, base.Add(time.Hour)))
	s.SaveLead(testLead("lead-3", classify.OverallGood, base.Add(2*time.Hour)))

	all := s.ListLeads("")
	if len(all) != 3 {
		t.Fatalf("all = %d, want 3", len(all))
	}
	if all[0].ID != "lead-3" || all[2].ID != "lead-1" {
		t.Errorf("order = %s,%s,%s, want newest first", all[0].ID, all[1].ID, all[2].ID)
	}

	good := s.ListLeads(classify.OverallGood)
	if len(good) != 2 {
		t.Fatalf("good = %d, want 2", len(good))
	}
	for _, lead := range good {
		if lead.Classification.OverallScore != classify.OverallGood {
			t.Errorf("filter leaked %s", lead.Classification.OverallScore)
		}
	}
}

func TestLeadsSurviveReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "leads.db")

	s, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.SaveLead(testLead("lead-1", classify.OverallReview, time.Now().UTC())); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	reopened := openTestStore(t, path)
	got, ok := reopened.GetLead("lead-1")
	if !ok {
		t.Fatal("lead lost across reopen")
	}
	if got.Classification.OverallScore != classify.OverallReview {
		t.Errorf("overall = %s", got.Classification.OverallScore)
	}
}

func TestDocumentRoundTrip(t *testing.T) {
	s := openTestStore(t, filepath.Join(t.TempDir(), "leads.db"))

	doc := Document{
		ID:        "doc-1",
		Method:    "pdftotext",
		Truncated: true,
		Text:      "NOTICE OF LIS PENDENS",
		CreatedAt: time.Now().UTC(),
	}
	if err := s.SaveDocument(doc); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, ok, err := s.GetDocument("doc-1")
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if got.Text != doc.Text || !got.Truncated || got.Method != "pdftotext" {
		t.Errorf("got %+v", got)
	}

	if _, ok, err := s.GetDocument("absent"); err != nil || ok {
		t.Errorf("absent document: ok=%v err=%v", ok, err)
	}
}
