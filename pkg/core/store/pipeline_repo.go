package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"rei_analyzer/pkg/core/deal"
)

// PipelineRepo stores the acquisition workflow records that hang off a deal:
// seller/agent contacts, offers, and the status history trail.
//
// Schema assumption:
//
//	CREATE TABLE IF NOT EXISTS deal_contacts (
//	  id TEXT PRIMARY KEY,
//	  deal_id TEXT NOT NULL,
//	  name TEXT NOT NULL,
//	  role TEXT,
//	  phone TEXT,
//	  email TEXT,
//	  notes TEXT,
//	  created_at TIMESTAMPTZ NOT NULL
//	);
//	CREATE TABLE IF NOT EXISTS deal_offers (
//	  id TEXT PRIMARY KEY,
//	  deal_id TEXT NOT NULL,
//	  amount DOUBLE PRECISION NOT NULL,
//	  status TEXT NOT NULL,
//	  submitted_at TIMESTAMPTZ NOT NULL,
//	  responded_at TIMESTAMPTZ,
//	  notes TEXT
//	);
//	CREATE TABLE IF NOT EXISTS deal_status_history (
//	  id TEXT PRIMARY KEY,
//	  deal_id TEXT NOT NULL,
//	  from_status TEXT NOT NULL,
//	  to_status TEXT NOT NULL,
//	  changed_at TIMESTAMPTZ NOT NULL
//	);
type PipelineRepo struct {
	pool *pgxpool.Pool
}

// Contact is a person attached to a deal.
type Contact struct {
	ID        string    `json:"id"`
	DealID    string    `json:"deal_id"`
	Name      string    `json:"name"`
	Role      string    `json:"role"` // listing_agent, seller, lender, inspector
	Phone     string    `json:"phone,omitempty"`
	Email     string    `json:"email,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Offer is a submitted purchase offer on a deal.
type Offer struct {
	ID          string     `json:"id"`
	DealID      string     `json:"deal_id"`
	Amount      float64    `json:"amount"`
	Status      string     `json:"status"` // submitted, countered, accepted, rejected, withdrawn
	SubmittedAt time.Time  `json:"submitted_at"`
	RespondedAt *time.Time `json:"responded_at,omitempty"`
	Notes       string     `json:"notes,omitempty"`
}

// StatusChange is one recorded pipeline transition.
type StatusChange struct {
	ID         string    `json:"id"`
	DealID     string    `json:"deal_id"`
	FromStatus string    `json:"from_status"`
	ToStatus   string    `json:"to_status"`
	ChangedAt  time.Time `json:"changed_at"`
}

// NewPipelineRepo creates the repository on the given pool.
func NewPipelineRepo(pool *pgxpool.Pool) *PipelineRepo {
	return &PipelineRepo{pool: pool}
}

// AddContact stores a contact, assigning an ID when absent.
func (r *PipelineRepo) AddContact(ctx context.Context, c *Contact) error {
	if r.pool == nil {
		return fmt.Errorf("database pool not initialized")
	}
	if c.DealID == "" || c.Name == "" {
		return fmt.Errorf("contact requires a deal ID and a name")
	}
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO deal_contacts (id, deal_id, name, role, phone, email, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	if _, err := r.pool.Exec(ctx, query, c.ID, c.DealID, c.Name, c.Role, c.Phone, c.Email, c.Notes, c.CreatedAt); err != nil {
		return fmt.Errorf("failed to add contact: %w", err)
	}
	return nil
}

// Contacts lists a deal's contacts, oldest first.
func (r *PipelineRepo) Contacts(ctx context.Context, dealID string) ([]*Contact, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("database pool not initialized")
	}
	query := `
		SELECT id, deal_id, name, role, phone, email, notes, created_at
		FROM deal_contacts WHERE deal_id = $1 ORDER BY created_at
	`
	rows, err := r.pool.Query(ctx, query, dealID)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	defer rows.Close()

	var out []*Contact
	for rows.Next() {
		var c Contact
		if err := rows.Scan(&c.ID, &c.DealID, &c.Name, &c.Role, &c.Phone, &c.Email, &c.Notes, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan contact: %w", err)
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}

// SubmitOffer stores a new offer in submitted status.
func (r *PipelineRepo) SubmitOffer(ctx context.Context, dealID string, amount float64, notes string) (*Offer, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("database pool not initialized")
	}
	if dealID == "" || amount <= 0 {
		return nil, fmt.Errorf("offer requires a deal ID and positive amount")
	}

	o := &Offer{
		ID:          uuid.New().String(),
		DealID:      dealID,
		Amount:      amount,
		Status:      "submitted",
		SubmittedAt: time.Now(),
		Notes:       notes,
	}
	query := `
		INSERT INTO deal_offers (id, deal_id, amount, status, submitted_at, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	if _, err := r.pool.Exec(ctx, query, o.ID, o.DealID, o.Amount, o.Status, o.SubmittedAt, o.Notes); err != nil {
		return nil, fmt.Errorf("failed to submit offer: %w", err)
	}
	return o, nil
}

// ResolveOffer records the seller's response on an open offer.
func (r *PipelineRepo) ResolveOffer(ctx context.Context, offerID string, status string) error {
	if r.pool == nil {
		return fmt.Errorf("database pool not initialized")
	}
	switch status {
	case "countered", "accepted", "rejected", "withdrawn":
	default:
		return fmt.Errorf("invalid offer resolution %q", status)
	}

	query := `UPDATE deal_offers SET status = $2, responded_at = $3 WHERE id = $1 AND status = 'submitted'`
	tag, err := r.pool.Exec(ctx, query, offerID, status, time.Now())
	if err != nil {
		return fmt.Errorf("failed to resolve offer %s: %w", offerID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("no open offer with id %s", offerID)
	}
	return nil
}

// Offers lists a deal's offers, newest first.
func (r *PipelineRepo) Offers(ctx context.Context, dealID string) ([]*Offer, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("database pool not initialized")
	}
	query := `
		SELECT id, deal_id, amount, status, submitted_at, responded_at, notes
		FROM deal_offers WHERE deal_id = $1 ORDER BY submitted_at DESC
	`
	rows, err := r.pool.Query(ctx, query, dealID)
	if err != nil {
		return nil, fmt.Errorf("failed to list offers: %w", err)
	}
	defer rows.Close()

	var out []*Offer
	for rows.Next() {
		var o Offer
		if err := rows.Scan(&o.ID, &o.DealID, &o.Amount, &o.Status, &o.SubmittedAt, &o.RespondedAt, &o.Notes); err != nil {
			return nil, fmt.Errorf("failed to scan offer: %w", err)
		}
		out = append(out, &o)
	}
	return out, rows.Err()
}

// RecordTransition appends a status change to the history trail.
func (r *PipelineRepo) RecordTransition(ctx context.Context, dealID string, from, to deal.Status) error {
	if r.pool == nil {
		return fmt.Errorf("database pool not initialized")
	}
	query := `
		INSERT INTO deal_status_history (id, deal_id, from_status, to_status, changed_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := r.pool.Exec(ctx, query, uuid.New().String(), dealID, string(from), string(to), time.Now()); err != nil {
		return fmt.Errorf("failed to record transition: %w", err)
	}
	return nil
}

// History returns a deal's transitions, oldest first.
func (r *PipelineRepo) History(ctx context.Context, dealID string) ([]*StatusChange, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("database pool not initialized")
	}
	query := `
		SELECT id, deal_id, from_status, to_status, changed_at
		FROM deal_status_history WHERE deal_id = $1 ORDER BY changed_at
	`
	rows, err := r.pool.Query(ctx, query, dealID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	defer rows.Close()

	var out []*StatusChange
	for rows.Next() {
		var s StatusChange
		if err := rows.Scan(&s.ID, &s.DealID, &s.FromStatus, &s.ToStatus, &s.ChangedAt); err != nil {
			return nil, fmt.Errorf("failed to scan status change: %w", err)
		}
		out = append(out, &s)
	}
	return out, rows.Err()
}
