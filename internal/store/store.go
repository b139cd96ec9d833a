// Package store persists documents and their clause assessments in
// SQLite.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/contractiq/contractiq/internal/contract"
	"github.com/contractiq/contractiq/internal/cuad"
	"github.com/contractiq/contractiq/internal/risk"
)

// ErrNotFound is returned when a document does not exist.
var ErrNotFound = errors.New("document not found")

// Store wraps the SQLite database.
type Store struct {
	db *sql.DB
}

// Open creates (if needed) and opens the database at path. ":memory:"
// opens an in-memory database for tests.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
		// WAL mode for better concurrency between workers and readers.
		path += "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS documents (
			doc_id TEXT PRIMARY KEY,
			filename TEXT NOT NULL,
			upload_timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
			num_pages INTEGER,
			overall_risk_score REAL,
			overall_risk_level TEXT,
			status TEXT DEFAULT 'pending'
		)`,
		`CREATE TABLE IF NOT EXISTS extracted_clauses (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			doc_id TEXT NOT NULL,
			clause_type TEXT NOT NULL,
			extracted_text TEXT,
			confidence REAL,
			found INTEGER NOT NULL DEFAULT 0,
			risk_score REAL,
			risk_level TEXT,
			reliability_flag TEXT,
			page_number INTEGER,
			char_start INTEGER,
			char_end INTEGER,
			FOREIGN KEY (doc_id) REFERENCES documents(doc_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_clauses_doc ON extracted_clauses(doc_id)`,
	}
	for _, stmt := range schema {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// DocumentMeta is a row from the documents table.
type DocumentMeta struct {
	DocID        string    `json:"doc_id"`
	Filename     string    `json:"filename"`
	UploadedAt   time.Time `json:"upload_timestamp"`
	NumPages     int       `json:"num_pages"`
	OverallScore float64   `json:"overall_risk_score"`
	OverallLevel string    `json:"overall_risk_level"`
	Status       string    `json:"status"`
}

// CreateDocument registers an uploaded document.
func (s *Store) CreateDocument(ctx context.Context, docID, filename string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO documents (doc_id, filename, status) VALUES (?, ?, 'pending')
		 ON CONFLICT(doc_id) DO UPDATE SET filename = excluded.filename, status = 'pending'`,
		docID, filename)
	if err != nil {
		return fmt.Errorf("create document: %w", err)
	}
	return nil
}

// SetStatus updates a document's processing status.
func (s *Store) SetStatus(ctx context.Context, docID, status string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE documents SET status = ? WHERE doc_id = ?`, status, docID)
	if err != nil {
		return fmt.Errorf("set status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// GetDocument fetches document metadata.
func (s *Store) GetDocument(ctx context.Context, docID string) (*DocumentMeta, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT doc_id, filename, upload_timestamp, COALESCE(num_pages, 0),
		        COALESCE(overall_risk_score, 0), COALESCE(overall_risk_level, ''), status
		 FROM documents WHERE doc_id = ?`, docID)
	var m DocumentMeta
	err := row.Scan(&m.DocID, &m.Filename, &m.UploadedAt, &m.NumPages,
		&m.OverallScore, &m.OverallLevel, &m.Status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get document: %w", err)
	}
	return &m, nil
}

// ListDocuments returns all documents, newest first.
func (s *Store) ListDocuments(ctx context.Context) ([]DocumentMeta, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT doc_id, filename, upload_timestamp, COALESCE(num_pages, 0),
		        COALESCE(overall_risk_score, 0), COALESCE(overall_risk_level, ''), status
		 FROM documents ORDER BY upload_timestamp DESC`)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var docs []DocumentMeta
	for rows.Next() {
		var m DocumentMeta
		if err := rows.Scan(&m.DocID, &m.Filename, &m.UploadedAt, &m.NumPages,
			&m.OverallScore, &m.OverallLevel, &m.Status); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docs = append(docs, m)
	}
	return docs, rows.Err()
}

// DeleteDocument removes a document and its clause rows.
func (s *Store) DeleteDocument(ctx context.Context, docID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM extracted_clauses WHERE doc_id = ?`, docID); err != nil {
		return fmt.Errorf("delete clauses: %w", err)
	}
	res, err := tx.ExecContext(ctx,
		`DELETE FROM documents WHERE doc_id = ?`, docID)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return tx.Commit()
}

// SaveAnalysis stores the complete analysis for a document, replacing
// any previous clause rows, in one transaction.
func (s *Store) SaveAnalysis(ctx context.Context, a *contract.Analysis) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`UPDATE documents SET num_pages = ?, overall_risk_score = ?, overall_risk_level = ?, status = 'completed'
		 WHERE doc_id = ?`,
		a.NumPages, a.OverallScore, string(a.OverallLevel), a.DocID); err != nil {
		return fmt.Errorf("update document: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM extracted_clauses WHERE doc_id = ?`, a.DocID); err != nil {
		return fmt.Errorf("clear clauses: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO extracted_clauses
		 (doc_id, clause_type, extracted_text, confidence, found, risk_score, risk_level, reliability_flag, page_number, char_start, char_end)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, c := range a.Clauses {
		if _, err := stmt.ExecContext(ctx,
			a.DocID,
			string(c.Extraction.ClauseType),
			c.Extraction.Text,
			c.Extraction.Confidence,
			c.Extraction.Found,
			c.Risk.Score,
			string(c.Risk.Level),
			string(c.Risk.Flag),
			c.Extraction.Page,
			c.Extraction.CharStart,
			c.Extraction.CharEnd,
		); err != nil {
			return fmt.Errorf("insert clause %s: %w", c.Extraction.ClauseType, err)
		}
	}

	return tx.Commit()
}

// GetAnalysis reassembles a stored analysis in fixed clause order.
func (s *Store) GetAnalysis(ctx context.Context, docID string) (*contract.Analysis, error) {
	meta, err := s.GetDocument(ctx, docID)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT clause_type, COALESCE(extracted_text, ''), confidence, found,
		        risk_score, risk_level, COALESCE(reliability_flag, ''),
		        COALESCE(page_number, 0), COALESCE(char_start, 0), COALESCE(char_end, 0)
		 FROM extracted_clauses WHERE doc_id = ?`, docID)
	if err != nil {
		return nil, fmt.Errorf("load clauses: %w", err)
	}
	defer rows.Close()

	byType := make(map[cuad.ClauseType]contract.ClauseResult, cuad.Count)
	for rows.Next() {
		var (
			ctype, level, flag string
			c                  contract.ClauseResult
		)
		if err := rows.Scan(&ctype, &c.Extraction.Text, &c.Extraction.Confidence, &c.Extraction.Found,
			&c.Risk.Score, &level, &flag,
			&c.Extraction.Page, &c.Extraction.CharStart, &c.Extraction.CharEnd); err != nil {
			return nil, fmt.Errorf("scan clause: %w", err)
		}
		ct := cuad.ClauseType(ctype)
		c.Extraction.ClauseType = ct
		c.Risk.ClauseType = ct
		c.Risk.Level = contract.RiskLevel(level)
		c.Risk.Flag = contract.ReliabilityFlag(flag)
		byType[ct] = c
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	a := &contract.Analysis{
		DocID:        meta.DocID,
		Filename:     meta.Filename,
		NumPages:     meta.NumPages,
		OverallScore: meta.OverallScore,
		OverallLevel: contract.RiskLevel(meta.OverallLevel),
		CreatedAt:    meta.UploadedAt,
	}
	for _, ct := range cuad.All {
		if c, ok := byType[ct]; ok {
			a.Clauses = append(a.Clauses, c)
		}
	}
	a.Summary = risk.Summarize(a.Clauses)
	return a, nil
}
