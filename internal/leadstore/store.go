// Package leadstore persists documents and classified leads. Leads live in an
// in-memory index for serving and are written through to SQLite, so a restart
// reloads the full lead history. Document text is SQLite-only; it is read
// rarely and can be large.
package leadstore

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/bluegrassdata/lienwatch/internal/classify"
)

// Document is one ingested filing: where it came from, how its text was
// extracted, and the text itself.
type Document struct {
	ID         string    `json:"id"`
	SourcePath string    `json:"source_path,omitempty"`
	Method     string    `json:"method"`
	Truncated  bool      `json:"truncated,omitempty"`
	Text       string    `json:"text"`
	CreatedAt  time.Time `json:"created_at"`
}

const schema = `
CREATE TABLE IF NOT EXISTS documents (
	document_id TEXT PRIMARY KEY,
	source_path TEXT NOT NULL DEFAULT '',
	method      TEXT NOT NULL DEFAULT '',
	truncated   INTEGER NOT NULL DEFAULT 0,
	raw_text    TEXT NOT NULL DEFAULT '',
	created_at  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS leads (
	lead_id     TEXT PRIMARY KEY,
	document_id TEXT NOT NULL,
	case_number TEXT NOT NULL DEFAULT '',
	overall     TEXT NOT NULL,
	payload     TEXT NOT NULL,
	created_at  TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS leads_overall ON leads (overall);
`

type Store struct {
	db    *sqlx.DB
	mu    sync.RWMutex
	leads map[string]classify.ClassifiedLead
}

func Open(dbPath string) (*Store, error) {
	db, err := sqlx.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	s := &Store{db: db, leads: map[string]classify.ClassifiedLead{}}
	if err := s.loadLeads(); err != nil {
		db.Close()
		return nil, fmt.Errorf("load leads: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) loadLeads() error {
	rows, err := s.db.Query("SELECT payload FROM leads")
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return err
		}
		var lead classify.ClassifiedLead
		if err := json.Unmarshal([]byte(payload), &lead); err != nil {
			return fmt.Errorf("corrupt lead payload: %w", err)
		}
		s.leads[lead.ID] = lead
	}
	return rows.Err()
}

func (s *Store) SaveDocument(doc Document) error {
	if doc.ID == "" {
		return fmt.Errorf("document id is required")
	}
	_, err := s.db.Exec(`INSERT OR REPLACE INTO documents (document_id, source_path, method, truncated, raw_text, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		doc.ID, doc.SourcePath, doc.Method, boolToInt(doc.Truncated), doc.Text,
		doc.CreatedAt.UTC().Format(time.RFC3339Nano))
	return err
}

func (s *Store) GetDocument(id string) (Document, bool, error) {
	var doc Document
	var truncated int
	var createdAt string
	err := s.db.QueryRow(`SELECT document_id, source_path, method, truncated, raw_text, created_at
		FROM documents WHERE document_id = ?`, id).
		Scan(&doc.ID, &doc.SourcePath, &doc.Method, &truncated, &doc.Text, &createdAt)
	if err == sql.ErrNoRows {
		return Document{}, false, nil
	}
	if err != nil {
		return Document{}, false, err
	}
	doc.Truncated = truncated != 0
	doc.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	return doc, true, nil
}

// SaveLead writes through: the SQLite row lands first, the in-memory index
// only updates once the row is durable.
func (s *Store) SaveLead(lead classify.ClassifiedLead) error {
	if lead.ID == "" {
		return fmt.Errorf("lead id is required")
	}
	payload, err := json.Marshal(lead)
	if err != nil {
		return fmt.Errorf("marshal lead: %w", err)
	}
	_, err = s.db.Exec(`INSERT OR REPLACE INTO leads (lead_id, document_id, case_number, overall, payload, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		lead.ID, lead.DocumentID, lead.CaseNumber, string(lead.Classification.OverallScore),
		string(payload), lead.CreatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.leads[lead.ID] = lead
	s.mu.Unlock()
	return nil
}

func (s *Store) GetLead(id string) (classify.ClassifiedLead, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	lead, ok := s.leads[id]
	return lead, ok
}

// ListLeads returns leads newest first, optionally filtered by overall
// score. An empty filter returns everything.
func (s *Store) ListLeads(overall classify.Overall) []classify.ClassifiedLead {
	s.mu.RLock()
	out := make([]classify.ClassifiedLead, 0, len(s.leads))
	for _, lead := range s.leads {
		if overall != "" && lead.Classification.OverallScore != overall {
			continue
		}
		out = append(out, lead)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
