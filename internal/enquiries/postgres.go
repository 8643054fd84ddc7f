package enquiries

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// querier is the slice of pgxpool.Pool the repository needs. pgxmock
// satisfies it in tests.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
}

// PostgresRepository stores enquiries in the relational database.
type PostgresRepository struct {
	db querier
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	if pool == nil {
		panic("enquiries: pgx pool required")
	}
	return &PostgresRepository{db: pool}
}

// NewPostgresRepositoryWithDB allows injecting a mock database for testing.
func NewPostgresRepositoryWithDB(db querier) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create validates the request and inserts a new row with status "new".
func (r *PostgresRepository) Create(ctx context.Context, req *SubmitEnquiryRequest) (*Enquiry, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	e := &Enquiry{
		ID:          uuid.New().String(),
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		Requirement: req.Requirement,
		SubmittedAt: req.SubmittedAtOrNow(),
		Status:      StatusNew,
	}

	query := `
		INSERT INTO enquiries (id, name, email, phone, requirement, submitted_at, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`
	if err := r.db.QueryRow(ctx, query,
		e.ID,
		e.Name,
		e.Email,
		e.Phone,
		e.Requirement,
		e.SubmittedAt,
		e.Status,
	).Scan(&e.CreatedAt, &e.UpdatedAt); err != nil {
		return nil, fmt.Errorf("enquiries: insert failed: %w", err)
	}

	return e, nil
}

// GetByID fetches a single enquiry.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Enquiry, error) {
	query := `
		SELECT id, name, email, phone, requirement, submitted_at, status,
		       notes, follow_up_at, created_at, updated_at
		FROM enquiries
		WHERE id = $1
	`
	var e Enquiry
	if err := r.db.QueryRow(ctx, query, id).Scan(
		&e.ID,
		&e.Name,
		&e.Email,
		&e.Phone,
		&e.Requirement,
		&e.SubmittedAt,
		&e.Status,
		&e.Notes,
		&e.FollowUpAt,
		&e.CreatedAt,
		&e.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrEnquiryNotFound
		}
		return nil, fmt.Errorf("enquiries: select failed: %w", err)
	}
	return &e, nil
}

// Stats aggregates collection counts plus the latest submissions.
func (r *PostgresRepository) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{RecentEnquiries: []RecentEnquiry{}}

	countQuery := `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE status = 'new'),
		       COUNT(*) FILTER (WHERE status = 'contacted')
		FROM enquiries
	`
	if err := r.db.QueryRow(ctx, countQuery).Scan(
		&stats.TotalEnquiries,
		&stats.NewEnquiries,
		&stats.ContactedEnquiries,
	); err != nil {
		return nil, fmt.Errorf("enquiries: count failed: %w", err)
	}

	recentQuery := `
		SELECT id, name, status, submitted_at
		FROM enquiries
		ORDER BY submitted_at DESC
		LIMIT $1
	`
	rows, err := r.db.Query(ctx, recentQuery, recentLimit)
	if err != nil {
		return nil, fmt.Errorf("enquiries: recent failed: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var re RecentEnquiry
		if err := rows.Scan(&re.ID, &re.Name, &re.Status, &re.SubmittedAt); err != nil {
			return nil, fmt.Errorf("enquiries: scan recent: %w", err)
		}
		stats.RecentEnquiries = append(stats.RecentEnquiries, re)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("enquiries: recent rows: %w", err)
	}

	return stats, nil
}

// Ping reports whether the store is reachable.
func (r *PostgresRepository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}
