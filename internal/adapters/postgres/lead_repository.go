package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/arch-mania/takanekaitori-prod/internal/core/domain"
	"github.com/arch-mania/takanekaitori-prod/internal/core/port"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the part of *pgxpool.Pool the repository needs.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type LeadRepository struct {
	db DB
}

var _ port.LeadRepositoryPort = (*LeadRepository)(nil)

func NewLeadRepository(db DB) *LeadRepository {
	return &LeadRepository{db: db}
}

const leadsSchema = `
CREATE TABLE IF NOT EXISTS leads (
    id              UUID PRIMARY KEY,
    form_kind       VARCHAR(32)  NOT NULL,
    property_id     VARCHAR(64)  NOT NULL DEFAULT '',
    property_title  TEXT         NOT NULL DEFAULT '',
    assigned_agent  TEXT         NOT NULL DEFAULT '',
    inquiry_type    VARCHAR(64)  NOT NULL,
    inquiry_content TEXT         NOT NULL DEFAULT '',
    name            TEXT         NOT NULL,
    email           VARCHAR(320) NOT NULL,
    phone           VARCHAR(32)  NOT NULL DEFAULT '',
    message         TEXT         NOT NULL DEFAULT '',
    created_at      TIMESTAMPTZ  NOT NULL
);
CREATE INDEX IF NOT EXISTS leads_created_at_idx ON leads (created_at DESC);
CREATE INDEX IF NOT EXISTS leads_property_id_idx ON leads (property_id);`

// EnsureSchema creates the leads table on first start.
func (r *LeadRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, leadsSchema); err != nil {
		return fmt.Errorf("LeadRepository: failed to create schema: %w", err)
	}
	return nil
}

func (r *LeadRepository) Save(ctx context.Context, lead *domain.Lead) error {
	query := `INSERT INTO leads (id, form_kind, property_id, property_title, assigned_agent, inquiry_type,
                   inquiry_content, name, email, phone, message, created_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := r.db.Exec(ctx, query,
		lead.ID, string(lead.FormKind), lead.PropertyID, lead.PropertyTitle, lead.AssignedAgent, lead.InquiryType,
		lead.InquiryContent, lead.Name, lead.Email, lead.Phone, lead.Message, lead.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("LeadRepository: failed to insert lead %s: %w", lead.ID, err)
	}
	return nil
}

// GetByID returns nil, nil for unknown or malformed ids.
func (r *LeadRepository) GetByID(ctx context.Context, id string) (*domain.Lead, error) {
	leadID, err := uuid.Parse(id)
	if err != nil {
		return nil, nil
	}

	query := `SELECT id, form_kind, property_id, property_title, assigned_agent, inquiry_type,
                     inquiry_content, name, email, phone, message, created_at
              FROM leads WHERE id = $1`

	var lead domain.Lead
	var kind string
	err = r.db.QueryRow(ctx, query, leadID).Scan(
		&lead.ID, &kind, &lead.PropertyID, &lead.PropertyTitle, &lead.AssignedAgent, &lead.InquiryType,
		&lead.InquiryContent, &lead.Name, &lead.Email, &lead.Phone, &lead.Message, &lead.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("LeadRepository: failed to load lead %s: %w", id, err)
	}
	lead.FormKind = domain.FormKind(kind)
	return &lead, nil
}
