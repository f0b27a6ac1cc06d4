package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/hyperifyio/answerscope/internal/pipeline"
)

// Store persists scan results and their supporting evidence in SQLite so
// repeat scans for the same brand can be compared over time.
type Store struct {
	db *sql.DB
}

// Open opens (and creates if missing) the SQLite database at path and
// configures WAL mode for concurrent readers.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite open: %w", err)
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("sqlite exec %s: %w", pragma, err)
		}
	}
	s := &Store{db: db}
	if err := s.migrate(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

const migration = `
CREATE TABLE IF NOT EXISTS scans (
	id           TEXT PRIMARY KEY,
	keyword      TEXT NOT NULL,
	url          TEXT NOT NULL,
	brand_name   TEXT NOT NULL DEFAULT '',
	las_score    INTEGER NOT NULL,
	trust_score  INTEGER NOT NULL,
	source_type  TEXT NOT NULL DEFAULT '',
	result       TEXT NOT NULL,
	created_at   DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS citations (
	id       TEXT PRIMARY KEY,
	scan_id  TEXT NOT NULL REFERENCES scans(id),
	position INTEGER NOT NULL,
	url      TEXT NOT NULL,
	title    TEXT NOT NULL DEFAULT '',
	domain   TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS prompt_observations (
	id                TEXT PRIMARY KEY,
	scan_id           TEXT NOT NULL REFERENCES scans(id),
	source_type       TEXT NOT NULL DEFAULT '',
	fetch_mode        TEXT NOT NULL DEFAULT '',
	confidence        TEXT NOT NULL DEFAULT '',
	extraction_method TEXT NOT NULL DEFAULT '',
	clean_char_count  INTEGER NOT NULL DEFAULT 0,
	source_char_count INTEGER NOT NULL DEFAULT 0,
	created_at        DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_scans_keyword ON scans(keyword);
CREATE INDEX IF NOT EXISTS idx_scans_created_at ON scans(created_at);
CREATE INDEX IF NOT EXISTS idx_citations_scan_id ON citations(scan_id);
CREATE INDEX IF NOT EXISTS idx_prompt_observations_scan_id ON prompt_observations(scan_id);
`

func (s *Store) migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, migration); err != nil {
		return fmt.Errorf("sqlite migrate: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// SaveScan persists a complete scan result plus its citation and
// prompt-observation rows, and returns the new scan id.
func (s *Store) SaveScan(ctx context.Context, brandName string, res pipeline.Result) (string, error) {
	payload, err := json.Marshal(res)
	if err != nil {
		return "", fmt.Errorf("marshal scan result: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	id := uuid.New().String()
	now := time.Now().UTC()
	_, err = tx.ExecContext(ctx,
		`INSERT INTO scans (id, keyword, url, brand_name, las_score, trust_score, source_type, result, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, res.Keyword, res.URL, brandName, res.LASScore, res.TrustScore,
		res.Overview.SourceType, string(payload), now,
	)
	if err != nil {
		return "", fmt.Errorf("insert scan: %w", err)
	}

	for _, c := range res.Citations {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO citations (id, scan_id, position, url, title, domain) VALUES (?, ?, ?, ?, ?, ?)`,
			uuid.New().String(), id, c.Position, c.URL, c.Title, c.Domain,
		)
		if err != nil {
			return "", fmt.Errorf("insert citation: %w", err)
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO prompt_observations
		 (id, scan_id, source_type, fetch_mode, confidence, extraction_method, clean_char_count, source_char_count, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		uuid.New().String(), id,
		res.Overview.SourceType, res.Overview.FetchMode, res.Overview.Confidence,
		res.Extraction.Method, res.Extraction.CleanCharCount, res.Extraction.SourceCharCount, now,
	)
	if err != nil {
		return "", fmt.Errorf("insert observation: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit scan: %w", err)
	}
	return id, nil
}

// ScanRecord is one row of scan history.
type ScanRecord struct {
	ID         string    `json:"id"`
	Keyword    string    `json:"keyword"`
	URL        string    `json:"url"`
	BrandName  string    `json:"brand_name"`
	LASScore   int       `json:"las_score"`
	TrustScore int       `json:"trust_score"`
	SourceType string    `json:"source_type"`
	CreatedAt  time.Time `json:"created_at"`
}

// History lists the most recent scans, optionally filtered by keyword.
func (s *Store) History(ctx context.Context, keyword string, limit int) ([]ScanRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `SELECT id, keyword, url, brand_name, las_score, trust_score, source_type, created_at
	          FROM scans`
	args := []any{}
	if keyword != "" {
		query += ` WHERE keyword = ?`
		args = append(args, keyword)
	}
	query += ` ORDER BY created_at DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var out []ScanRecord
	for rows.Next() {
		var r ScanRecord
		if err := rows.Scan(&r.ID, &r.Keyword, &r.URL, &r.BrandName, &r.LASScore, &r.TrustScore, &r.SourceType, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// LoadScan returns the stored result payload for a scan id.
func (s *Store) LoadScan(ctx context.Context, id string) (pipeline.Result, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `SELECT result FROM scans WHERE id = ?`, id).Scan(&payload)
	if err != nil {
		return pipeline.Result{}, fmt.Errorf("load scan %s: %w", id, err)
	}
	var res pipeline.Result
	if err := json.Unmarshal([]byte(payload), &res); err != nil {
		return pipeline.Result{}, fmt.Errorf("decode scan %s: %w", id, err)
	}
	return res, nil
}
