package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kiranshivaraju/medconsensus/pkg/models"
)

// PostgresStore implements the Store interface using pgx/v5.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgresStore.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Ping checks database connectivity.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// RecordAudit inserts one audit row. A zero ID or CreatedAt is filled in.
func (s *PostgresStore) RecordAudit(ctx context.Context, a *models.SynthesisAudit) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO synthesis_audits (id, request_id, operation, provider, model, outcome, error_message, duration_ms, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		a.ID, a.RequestID, a.Operation, a.Provider, a.Model, a.Outcome, a.ErrorMessage, a.DurationMS, a.CreatedAt)
	if err != nil {
		return fmt.Errorf("record audit: %w", err)
	}
	return nil
}

// ListAudits returns audit rows matching filter, newest first.
func (s *PostgresStore) ListAudits(ctx context.Context, filter AuditFilter) ([]*models.SynthesisAudit, error) {
	var (
		where []string
		args  []any
	)
	if filter.Operation != "" {
		args = append(args, filter.Operation)
		where = append(where, fmt.Sprintf("operation = $%d", len(args)))
	}
	if filter.Outcome != "" {
		args = append(args, filter.Outcome)
		where = append(where, fmt.Sprintf("outcome = $%d", len(args)))
	}
	if !filter.Since.IsZero() {
		args = append(args, filter.Since)
		where = append(where, fmt.Sprintf("created_at >= $%d", len(args)))
	}

	query := `SELECT id, request_id, operation, provider, model, outcome, error_message, duration_ms, created_at
		FROM synthesis_audits`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	args = append(args, filter.limit())
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", len(args))

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list audits: %w", err)
	}
	defer rows.Close()

	var out []*models.SynthesisAudit
	for rows.Next() {
		var a models.SynthesisAudit
		if err := rows.Scan(&a.ID, &a.RequestID, &a.Operation, &a.Provider, &a.Model,
			&a.Outcome, &a.ErrorMessage, &a.DurationMS, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan audit: %w", err)
		}
		out = append(out, &a)
	}
	return out, rows.Err()
}

// GetAudit returns one audit row by ID.
func (s *PostgresStore) GetAudit(ctx context.Context, id uuid.UUID) (*models.SynthesisAudit, error) {
	var a models.SynthesisAudit
	err := s.pool.QueryRow(ctx,
		`SELECT id, request_id, operation, provider, model, outcome, error_message, duration_ms, created_at
		 FROM synthesis_audits WHERE id = $1`, id,
	).Scan(&a.ID, &a.RequestID, &a.Operation, &a.Provider, &a.Model,
		&a.Outcome, &a.ErrorMessage, &a.DurationMS, &a.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get audit: %w", err)
	}
	return &a, nil
}

var _ Store = (*PostgresStore)(nil)
