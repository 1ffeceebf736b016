package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mlutsenko/prevet/internal/model"
)

// PostgresStore implements Store on the original validation-tracker schema:
// tables visitors, cta_clicks, and interviews, each keyed by the tool name.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects to the validation database.
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	if dsn == "" {
		return nil, ErrMissingDSN
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect validation store: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping validation store: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

// Close releases the connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

func (s *PostgresStore) CountVisits(ctx context.Context, tool string) (int, error) {
	return s.countByTool(ctx, "visitors", tool)
}

func (s *PostgresStore) CountCTAClicks(ctx context.Context, tool string) (int, error) {
	return s.countByTool(ctx, "cta_clicks", tool)
}

// countByTool counts rows for a tool. The table name is one of the two
// fixed collection names above, never caller input.
func (s *PostgresStore) countByTool(ctx context.Context, table, tool string) (int, error) {
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE tool = $1`, table)

	var count int
	if err := s.pool.QueryRow(ctx, query, tool).Scan(&count); err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return count, nil
}

func (s *PostgresStore) ListInterviews(ctx context.Context, tool string) ([]model.Interview, error) {
	query := `
		SELECT tool, contact_name, interview_date, pain_score, would_pay, payment_amount, urgency, COALESCE(notes, '')
		FROM interviews
		WHERE tool = $1
		ORDER BY interview_date, contact_name
	`

	rows, err := s.pool.Query(ctx, query, tool)
	if err != nil {
		return nil, fmt.Errorf("query interviews: %w", err)
	}
	defer rows.Close()

	var interviews []model.Interview
	for rows.Next() {
		var iv model.Interview
		var urgency string
		if err := rows.Scan(&iv.Tool, &iv.Contact, &iv.Date, &iv.PainScore, &iv.WouldPay, &iv.PaymentAmount, &urgency, &iv.Notes); err != nil {
			return nil, fmt.Errorf("scan interview: %w", err)
		}
		iv.Urgency = model.Urgency(urgency)
		interviews = append(interviews, iv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read interviews: %w", err)
	}
	return interviews, nil
}

func (s *PostgresStore) AddInterview(ctx context.Context, iv model.Interview) error {
	query := `
		INSERT INTO interviews (tool, contact_name, interview_date, pain_score, would_pay, payment_amount, urgency, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := s.pool.Exec(ctx, query,
		iv.Tool, iv.Contact, iv.Date, iv.PainScore, iv.WouldPay, iv.PaymentAmount, string(iv.Urgency), iv.Notes,
	)
	if err != nil {
		return fmt.Errorf("insert interview: %w", err)
	}
	return nil
}

func (s *PostgresStore) RecordVisit(ctx context.Context, tool string, at time.Time) error {
	return s.insertEvent(ctx, "visitors", tool, at)
}

func (s *PostgresStore) RecordCTAClick(ctx context.Context, tool string, at time.Time) error {
	return s.insertEvent(ctx, "cta_clicks", tool, at)
}

func (s *PostgresStore) insertEvent(ctx context.Context, table, tool string, at time.Time) error {
	query := fmt.Sprintf(`INSERT INTO %s (tool, recorded_at) VALUES ($1, $2)`, table)

	if _, err := s.pool.Exec(ctx, query, tool, at); err != nil {
		return fmt.Errorf("insert into %s: %w", table, err)
	}
	return nil
}
