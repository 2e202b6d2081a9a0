package activity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRow yields one activity_logs row in column order.
type fakeRow struct {
	id          int64
	admin       string
	role        string
	action      string
	school      string
	description string
	ip          pgtype.Text
	at          pgtype.Timestamptz
	err         error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*dest[0].(*int64) = r.id
	*dest[1].(*string) = r.admin
	*dest[2].(*string) = r.role
	*dest[3].(*string) = r.action
	*dest[4].(*string) = r.school
	*dest[5].(*string) = r.description
	*dest[6].(*pgtype.Text) = r.ip
	*dest[7].(*pgtype.Timestamptz) = r.at
	return nil
}

type fakeRows struct {
	pgx.Rows
	rows   []fakeRow
	next   int
	closed bool
}

func (r *fakeRows) Next() bool {
	if r.next >= len(r.rows) {
		return false
	}
	r.next++
	return true
}

func (r *fakeRows) Scan(dest ...any) error { return r.rows[r.next-1].Scan(dest...) }
func (r *fakeRows) Err() error             { return nil }
func (r *fakeRows) Close()                 { r.closed = true }

type fakeQuerier struct {
	rows     *fakeRows
	row      fakeRow
	queryErr error
	sql      string
	args     []any
}

func (q *fakeQuerier) Query(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
	q.sql, q.args = sql, args
	if q.queryErr != nil {
		return nil, q.queryErr
	}
	return q.rows, nil
}

func (q *fakeQuerier) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	q.sql, q.args = sql, args
	return q.row
}

func TestScanRecordNullIPAndEmptySchool(t *testing.T) {
	at := time.Date(2024, 2, 15, 15, 45, 0, 0, time.UTC)
	rec, err := scanRecord(fakeRow{
		id: 7, admin: "Jane Smith", role: "Admin", action: "Employee Transfer",
		description: "Approved transfer", at: pgtype.Timestamptz{Time: at, Valid: true},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), rec.ID)
	assert.False(t, rec.HasIP())
	assert.Equal(t, NoSchool, rec.School)
	assert.True(t, rec.Timestamp.Equal(at))
}

func TestScanRecordKeepsIPAndSchool(t *testing.T) {
	rec, err := scanRecord(fakeRow{
		id: 1, admin: "John Doe", action: "Login", school: "School A",
		ip: pgtype.Text{String: "192.168.1.1", Valid: true},
	})
	require.NoError(t, err)
	assert.True(t, rec.HasIP())
	assert.Equal(t, "192.168.1.1", rec.IP)
	assert.Equal(t, "School A", rec.School)
	assert.True(t, rec.Timestamp.IsZero())
}

func TestPostgresSourceList(t *testing.T) {
	rows := &fakeRows{rows: []fakeRow{
		{id: 2, admin: "Jane Smith", action: "Employee Transfer", school: "School A"},
		{id: 1, admin: "John Doe", action: "Login", ip: pgtype.Text{String: "192.168.1.1", Valid: true}},
	}}
	q := &fakeQuerier{rows: rows}
	src := &PostgresSource{pool: q, limit: 25, now: time.Now}

	records, err := src.List(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, int64(2), records[0].ID)
	assert.Equal(t, NoSchool, records[1].School)
	assert.True(t, rows.closed)
	assert.Equal(t, []any{25}, q.args)
}

func TestPostgresSourceListWrapsQueryError(t *testing.T) {
	boom := errors.New("conn refused")
	src := &PostgresSource{pool: &fakeQuerier{queryErr: boom}, limit: 10, now: time.Now}
	_, err := src.List(context.Background())
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "activity: query records")
}

func TestPostgresSourceAppend(t *testing.T) {
	now := time.Date(2024, 2, 16, 8, 30, 0, 0, time.UTC)
	q := &fakeQuerier{row: fakeRow{id: 9, admin: "admin", action: "Login", at: pgtype.Timestamptz{Time: now, Valid: true}}}
	src := &PostgresSource{pool: q, limit: 10, now: func() time.Time { return now }}

	rec, err := src.Append(context.Background(), Entry{Admin: "admin", Role: "Admin", Action: "Login"})
	require.NoError(t, err)
	assert.Equal(t, int64(9), rec.ID)
	assert.Equal(t, NoSchool, rec.School)

	require.Len(t, q.args, 7)
	assert.Equal(t, pgtype.Text{}, q.args[5], "missing IP is stored as NULL")
	assert.Equal(t, pgtype.Timestamptz{Time: now, Valid: true}, q.args[6])
}

func TestPostgresSourceAppendWrapsScanError(t *testing.T) {
	boom := errors.New("unique violation")
	src := &PostgresSource{pool: &fakeQuerier{row: fakeRow{err: boom}}, limit: 10, now: time.Now}
	_, err := src.Append(context.Background(), Entry{Admin: "admin", Action: "Login"})
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "activity: insert record")
}
