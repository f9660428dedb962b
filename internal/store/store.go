package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/kiranshivaraju/medconsensus/pkg/models"
)

var ErrNotFound = errors.New("resource not found")

// Store is the data access interface for the synthesis audit log.
type Store interface {
	Ping(ctx context.Context) error
	RecordAudit(ctx context.Context, audit *models.SynthesisAudit) error
	ListAudits(ctx context.Context, filter AuditFilter) ([]*models.SynthesisAudit, error)
	GetAudit(ctx context.Context, id uuid.UUID) (*models.SynthesisAudit, error)
}

// AuditFilter narrows ListAudits. Zero fields do not filter.
type AuditFilter struct {
	Operation string
	Outcome   string
	Since     time.Time
	Limit     int
}

const (
	defaultAuditLimit = 50
	maxAuditLimit     = 500
)

// limit returns the effective row limit.
func (f AuditFilter) limit() int {
	switch {
	case f.Limit <= 0:
		return defaultAuditLimit
	case f.Limit > maxAuditLimit:
		return maxAuditLimit
	default:
		return f.Limit
	}
}
