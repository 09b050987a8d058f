package tracking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
)

// SQLStore reads dossiers from the document_statuses table.
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore {
	if db == nil {
		panic("tracking: db required")
	}
	return &SQLStore{db: db}
}

// OpenSQLStore connects with the lib/pq driver.
func OpenSQLStore(ctx context.Context, dsn string) (*SQLStore, error) {
	connector, err := pq.NewConnector(dsn)
	if err != nil {
		return nil, fmt.Errorf("tracking: parse dsn: %w", err)
	}
	db := sql.OpenDB(connector)
	db.SetMaxOpenConns(5)
	db.SetConnMaxIdleTime(5 * time.Minute)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("tracking: ping: %w", err)
	}
	return &SQLStore{db: db}, nil
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}

func (s *SQLStore) Lookup(ctx context.Context, id string) (DocumentStatus, error) {
	key := normalizeID(id)
	if key == "" {
		return DocumentStatus{}, ErrNotFound
	}

	var (
		doc                DocumentStatus
		status             string
		submitted, updated time.Time
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, citizen_name, procedure_name, status, submitted_at, updated_at
		FROM document_statuses WHERE upper(id) = $1`, key).Scan(
		&doc.ID, &doc.CitizenName, &doc.ProcedureName, &status, &submitted, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return DocumentStatus{}, ErrNotFound
	}
	if err != nil {
		return DocumentStatus{}, fmt.Errorf("tracking: lookup %s: %w", key, err)
	}
	doc.Status = Status(status)
	doc.StatusLabel = doc.Status.Label()
	doc.SubmittedDate = submitted.Format(time.DateOnly)
	doc.UpdatedDate = updated.Format(time.DateOnly)
	return doc, nil
}
