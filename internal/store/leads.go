// Package store persists lead records in Postgres and caches the latest
// record per session in Redis.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"bizplan-workers/internal/models"
)

var ErrLeadNotFound = errors.New("lead not found")

type LeadStore interface {
	SaveLead(ctx context.Context, record *models.LeadRecord) error
	LatestLead(ctx context.Context, sessionID string) (*models.LeadRecord, error)
}

// PostgresLeadStore reads and writes the lead_signals table.
type PostgresLeadStore struct {
	db *sql.DB
}

func NewPostgresLeadStore(db *sql.DB) *PostgresLeadStore {
	return &PostgresLeadStore{db: db}
}

const insertLeadQuery = `
	INSERT INTO lead_signals (
		id, session_id, email, company, signals, lead_score,
		model_score, breakdown, model, attempts, created_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

const latestLeadQuery = `
	SELECT id, session_id, email, company, signals, lead_score,
		model_score, breakdown, model, attempts, created_at
	FROM lead_signals
	WHERE session_id = $1
	ORDER BY created_at DESC
	LIMIT 1`

const insertAuditQuery = `
	INSERT INTO audit_log (id, entity_type, entity_id, action, details, created_at)
	VALUES ($1, $2, $3, $4, $5, $6)`

// SaveLead assigns ID and CreatedAt when they are empty.
func (s *PostgresLeadStore) SaveLead(ctx context.Context, record *models.LeadRecord) error {
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	signalsJSON, err := json.Marshal(record.Signals)
	if err != nil {
		return fmt.Errorf("marshal signals: %w", err)
	}
	breakdownJSON, err := json.Marshal(record.Breakdown)
	if err != nil {
		return fmt.Errorf("marshal breakdown: %w", err)
	}

	_, err = s.db.ExecContext(ctx, insertLeadQuery,
		record.ID,
		record.SessionID,
		nullString(record.Email),
		nullString(record.Company),
		signalsJSON,
		record.LeadScore,
		record.ModelScore,
		breakdownJSON,
		nullString(record.Model),
		record.Attempts,
		record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert lead: %w", err)
	}
	return nil
}

func (s *PostgresLeadStore) LatestLead(ctx context.Context, sessionID string) (*models.LeadRecord, error) {
	var (
		record        models.LeadRecord
		email         sql.NullString
		company       sql.NullString
		model         sql.NullString
		signalsJSON   []byte
		breakdownJSON []byte
	)

	err := s.db.QueryRowContext(ctx, latestLeadQuery, sessionID).Scan(
		&record.ID,
		&record.SessionID,
		&email,
		&company,
		&signalsJSON,
		&record.LeadScore,
		&record.ModelScore,
		&breakdownJSON,
		&model,
		&record.Attempts,
		&record.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrLeadNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query latest lead: %w", err)
	}

	if err := json.Unmarshal(signalsJSON, &record.Signals); err != nil {
		return nil, fmt.Errorf("decode signals: %w", err)
	}
	if len(breakdownJSON) > 0 {
		if err := json.Unmarshal(breakdownJSON, &record.Breakdown); err != nil {
			return nil, fmt.Errorf("decode breakdown: %w", err)
		}
	}
	record.Email = email.String
	record.Company = company.String
	record.Model = model.String

	return &record, nil
}

// RecordAudit writes an audit_log row for a lead.
func (s *PostgresLeadStore) RecordAudit(ctx context.Context, leadID, action string, details map[string]interface{}) error {
	detailsJSON, err := json.Marshal(details)
	if err != nil {
		return fmt.Errorf("marshal audit details: %w", err)
	}
	_, err = s.db.ExecContext(ctx, insertAuditQuery,
		uuid.New().String(),
		"lead_signals",
		leadID,
		action,
		detailsJSON,
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
