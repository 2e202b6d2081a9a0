package activity

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

const listRecordsSQL = `SELECT id, admin_name, admin_role, action, school, description, ip, occurred_at
FROM activity_logs
ORDER BY occurred_at DESC, id DESC
LIMIT $1`

const insertRecordSQL = `INSERT INTO activity_logs (admin_name, admin_role, action, school, description, ip, occurred_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id, admin_name, admin_role, action, school, description, ip, occurred_at`

// querier is the slice of *pgxpool.Pool the source uses.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresSource reads and appends activity records in the activity_logs table.
type PostgresSource struct {
	pool  querier
	limit int
	now   func() time.Time
}

// NewPostgresSource returns a source listing at most limit records.
func NewPostgresSource(pool *pgxpool.Pool, limit int) *PostgresSource {
	if limit <= 0 {
		limit = 500
	}
	return &PostgresSource{pool: pool, limit: limit, now: time.Now}
}

// List returns the newest records first.
func (s *PostgresSource) List(ctx context.Context) ([]Record, error) {
	rows, err := s.pool.Query(ctx, listRecordsSQL, s.limit)
	if err != nil {
		return nil, fmt.Errorf("activity: query records: %w", err)
	}
	records, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Record, error) {
		return scanRecord(row)
	})
	if err != nil {
		return nil, fmt.Errorf("activity: scan records: %w", err)
	}
	return records, nil
}

// Append inserts entry and returns the stored record.
func (s *PostgresSource) Append(ctx context.Context, entry Entry) (Record, error) {
	draft := entry.toRecord(0, s.now)
	row := s.pool.QueryRow(ctx, insertRecordSQL,
		draft.Admin,
		draft.Role,
		draft.Action,
		draft.School,
		draft.Description,
		pgtype.Text{String: draft.IP, Valid: draft.IP != ""},
		pgtype.Timestamptz{Time: draft.Timestamp.UTC(), Valid: true},
	)
	rec, err := scanRecord(row)
	if err != nil {
		return Record{}, fmt.Errorf("activity: insert record: %w", err)
	}
	return rec, nil
}

func scanRecord(row pgx.Row) (Record, error) {
	var (
		rec Record
		ip  pgtype.Text
		at  pgtype.Timestamptz
	)
	if err := row.Scan(&rec.ID, &rec.Admin, &rec.Role, &rec.Action, &rec.School, &rec.Description, &ip, &at); err != nil {
		return Record{}, err
	}
	if ip.Valid {
		rec.IP = ip.String
	}
	if at.Valid {
		rec.Timestamp = at.Time.Local()
	}
	if rec.School == "" {
		rec.School = NoSchool
	}
	return rec, nil
}

var (
	_ Source   = (*PostgresSource)(nil)
	_ Appender = (*PostgresSource)(nil)
)
