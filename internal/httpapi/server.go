// Package httpapi serves the lead pipeline over HTTP: document submission,
// lead listing and retrieval, lead-sheet rendering, and webhook notification.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bluegrassdata/lienwatch/internal/address"
	"github.com/bluegrassdata/lienwatch/internal/classify"
	"github.com/bluegrassdata/lienwatch/internal/docparse"
	"github.com/bluegrassdata/lienwatch/internal/leadstore"
	"github.com/bluegrassdata/lienwatch/internal/notify"
	"github.com/bluegrassdata/lienwatch/internal/pdftext"
	"github.com/bluegrassdata/lienwatch/internal/propertydata"
	"github.com/bluegrassdata/lienwatch/internal/report"
)

// Notifier delivers a formatted message to the chat channel.
type Notifier interface {
	Send(ctx context.Context, msg notify.Message) error
}

type Server struct {
	store    *leadstore.Store
	facts    propertydata.Source
	notifier Notifier
	parseCfg docparse.Config
}

// NewServer wires the API. facts and notifier may be nil: lookups then stay
// needs_lookup and POST /v1/notify reports the channel unavailable.
func NewServer(store *leadstore.Store, facts propertydata.Source, notifier Notifier, parseCfg docparse.Config) http.Handler {
	s := &Server{store: store, facts: facts, notifier: notifier, parseCfg: parseCfg}
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/documents", s.handleDocuments)
	mux.HandleFunc("/v1/leads", s.handleLeads)
	mux.HandleFunc("/v1/leads/", s.handleLeadByID)
	mux.HandleFunc("/v1/notify", s.handleNotify)
	mux.HandleFunc("/v1/health", s.handleHealth)
	return mux
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeAPIError(w http.ResponseWriter, err error) {
	var ae *Error
	if errors.As(err, &ae) {
		writeJSON(w, ae.Status, map[string]any{
			"ok": false,
			"error": map[string]any{
				"code":      ae.Code,
				"message":   ae.Message,
				"transient": ae.Transient,
			},
		})
		return
	}
	writeJSON(w, 500, map[string]any{
		"ok": false,
		"error": map[string]any{
			"code":      CodeInternal,
			"message":   err.Error(),
			"transient": true,
		},
	})
}

func readBody(r *http.Request) ([]byte, error) {
	if r.Body == nil {
		return []byte("{}"), nil
	}
	blob, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}
	if len(blob) == 0 {
		blob = []byte("{}")
	}
	return blob, nil
}

func methodOnly(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return false
	}
	return true
}

func (s *Server) handleDocuments(w http.ResponseWriter, r *http.Request) {
	if !methodOnly(w, r, http.MethodPost) {
		return
	}
	blob, err := readBody(r)
	if err != nil {
		writeAPIError(w, NewValidationJSONError(err))
		return
	}
	var req struct {
		Text       string `json:"text"`
		Path       string `json:"path"`
		SourcePath string `json:"source_path"`
		Lookup     bool   `json:"lookup"`
	}
	if err := json.Unmarshal(blob, &req); err != nil {
		writeAPIError(w, NewValidationJSONError(err))
		return
	}

	doc := leadstore.Document{
		ID:         uuid.NewString(),
		SourcePath: req.SourcePath,
		Method:     "inline",
		Text:       req.Text,
		CreatedAt:  time.Now().UTC(),
	}
	if strings.TrimSpace(doc.Text) == "" {
		if strings.TrimSpace(req.Path) == "" {
			writeAPIError(w, NewValidationError("text or path is required"))
			return
		}
		extracted, err := pdftext.ExtractFile(r.Context(), req.Path)
		if err != nil {
			writeAPIError(w, NewValidationError("extract pdf: "+err.Error()))
			return
		}
		doc.Text = extracted.Text
		doc.Method = extracted.Method
		doc.Truncated = extracted.Truncated
		if doc.SourcePath == "" {
			doc.SourcePath = req.Path
		}
	}

	lead := s.classifyDocument(r.Context(), doc, req.Lookup)

	if err := s.store.SaveDocument(doc); err != nil {
		writeAPIError(w, NewInternalError("save document: "+err.Error()))
		return
	}
	if err := s.store.SaveLead(lead); err != nil {
		writeAPIError(w, NewInternalError("save lead: "+err.Error()))
		return
	}

	writeJSON(w, 200, map[string]any{"ok": true, "lead": lead})
}

// classifyDocument runs the full pipeline for one document. The external
// fact lookup is best-effort: a failed lookup leaves the equity and property
// levels at needs_lookup rather than failing the submission.
func (s *Server) classifyDocument(ctx context.Context, doc leadstore.Document, lookup bool) classify.ClassifiedLead {
	parsed := docparse.Parse(ctx, doc.Text, s.parseCfg)

	var facts classify.Facts
	if lookup && s.facts != nil && parsed.PropertyAddress != nil && parsed.PropertyAddress.Quality != address.QualityLow {
		got, err := s.facts.Lookup(ctx, parsed.PropertyAddress.Cleaned)
		if err != nil {
			log.Printf("property lookup failed for %q: %v", parsed.PropertyAddress.Cleaned, err)
		} else {
			facts = got
		}
	}

	return classify.NewLead(doc.ID, pdftext.ExtractCaseNumber(doc.Text), parsed, facts)
}

func (s *Server) handleLeads(w http.ResponseWriter, r *http.Request) {
	if !methodOnly(w, r, http.MethodGet) {
		return
	}
	overall := classify.Overall(strings.TrimSpace(r.URL.Query().Get("overall")))
	switch overall {
	case "", classify.OverallGood, classify.OverallReview, classify.OverallBad:
	default:
		writeAPIError(w, NewValidationError("overall must be good, review, or bad"))
		return
	}
	writeJSON(w, 200, map[string]any{"leads": s.store.ListLeads(overall)})
}

func (s *Server) handleLeadByID(w http.ResponseWriter, r *http.Request) {
	if !methodOnly(w, r, http.MethodGet) {
		return
	}
	path := strings.TrimPrefix(r.URL.Path, "/v1/leads/")
	wantReport := strings.HasSuffix(path, "/report")
	id := strings.TrimSuffix(strings.TrimSuffix(path, "/report"), "/")
	if id == "" {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	lead, ok := s.store.GetLead(id)
	if !ok {
		writeAPIError(w, NewNotFoundError("lead not found"))
		return
	}
	if !wantReport {
		writeJSON(w, 200, map[string]any{"lead": lead})
		return
	}

	markdown := report.BuildMarkdown(lead)
	if r.URL.Query().Get("format") == "html" {
		rendered, err := report.RenderHTML(markdown)
		if err != nil {
			writeAPIError(w, NewInternalError("render report: "+err.Error()))
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(rendered))
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	_, _ = w.Write([]byte(markdown))
}

func (s *Server) handleNotify(w http.ResponseWriter, r *http.Request) {
	if !methodOnly(w, r, http.MethodPost) {
		return
	}
	blob, err := readBody(r)
	if err != nil {
		writeAPIError(w, NewValidationJSONError(err))
		return
	}
	var req struct {
		Overall string   `json:"overall"`
		LeadIDs []string `json:"lead_ids"`
		DryRun  bool     `json:"dry_run"`
	}
	if err := json.Unmarshal(blob, &req); err != nil {
		writeAPIError(w, NewValidationJSONError(err))
		return
	}

	var leads []classify.ClassifiedLead
	if len(req.LeadIDs) > 0 {
		for _, id := range req.LeadIDs {
			lead, ok := s.store.GetLead(id)
			if !ok {
				writeAPIError(w, NewNotFoundError("lead not found: "+id))
				return
			}
			leads = append(leads, lead)
		}
	} else {
		leads = s.store.ListLeads(classify.Overall(strings.TrimSpace(req.Overall)))
	}
	if len(leads) == 0 {
		writeAPIError(w, NewValidationError("no leads to notify"))
		return
	}

	msg := notify.Format(leads)
	if !req.DryRun {
		if s.notifier == nil {
			writeAPIError(w, NewUnavailableError("no webhook configured"))
			return
		}
		if err := s.notifier.Send(r.Context(), msg); err != nil {
			writeAPIError(w, NewUnavailableError("webhook delivery: "+err.Error()))
			return
		}
	}

	// Truncated is the one lossy path in formatting; callers must see it.
	writeJSON(w, 200, map[string]any{
		"ok":        true,
		"sent":      !req.DryRun,
		"leads":     len(leads),
		"blocks":    len(msg.Blocks),
		"truncated": msg.Truncated,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !methodOnly(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, 200, map[string]any{
		"status": "ok",
		"leads":  len(s.store.ListLeads("")),
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}
