package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hirewire/pulse/internal/domain/model"
)

// Schema applied on startup. The events table is owned upstream in
// production; creating it here keeps local and test databases usable.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS events (
    event_id     TEXT PRIMARY KEY,
    workspace_id TEXT NOT NULL,
    event_name   TEXT NOT NULL,
    ts           TIMESTAMPTZ NOT NULL,
    user_id      TEXT,
    company      TEXT,
    stage        TEXT
);
CREATE INDEX IF NOT EXISTS events_workspace_ts_idx ON events (workspace_id, ts);

CREATE TABLE IF NOT EXISTS leads (
    lead_id    TEXT PRIMARY KEY,
    email      TEXT NOT NULL,
    name       TEXT,
    company    TEXT,
    created_at TIMESTAMPTZ NOT NULL
);
`

// PostgresStore implements Store on a pgx connection pool.
type PostgresStore struct {
	pool           *pgxpool.Pool
	maxConns       int32
	connectTimeout time.Duration
}

// NewPostgresStore parses dsn, connects a pool, pings it, and ensures
// the schema exists.
func NewPostgresStore(ctx context.Context, dsn string, opts ...PostgresOption) (*PostgresStore, error) {
	s := &PostgresStore{
		maxConns:       10,
		connectTimeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}

	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse pgxpool config: %w", err)
	}
	cfg.MaxConns = s.maxConns
	cfg.ConnConfig.ConnectTimeout = s.connectTimeout

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, s.connectTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	if _, err := pool.Exec(pingCtx, schemaSQL); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	s.pool = pool
	return s, nil
}

// Close releases the connection pool.
func (s *PostgresStore) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// QueryEvents implements Store.
func (s *PostgresStore) QueryEvents(ctx context.Context, q Query) ([]model.Event, error) {
	sql, args, err := buildEventQuery(q)
	if err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var events []model.Event
	for rows.Next() {
		var e model.Event
		if err := rows.Scan(&e.EventID, &e.WorkspaceID, &e.EventName, &e.TS, &e.UserID, &e.Company, &e.Stage); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read events: %w", err)
	}
	return events, nil
}

// InsertEvent implements Store. Optional dimensions are stored as NULL
// rather than empty strings.
func (s *PostgresStore) InsertEvent(ctx context.Context, e model.Event) error {
	if e.WorkspaceID == "" {
		return ErrMissingWorkspace
	}
	if e.EventName == "" {
		return ErrMissingEventName
	}
	const sql = `
INSERT INTO events (event_id, workspace_id, event_name, ts, user_id, company, stage)
VALUES ($1, $2, $3, $4, NULLIF($5, ''), NULLIF($6, ''), NULLIF($7, ''))`
	if _, err := s.pool.Exec(ctx, sql, e.EventID, e.WorkspaceID, e.EventName, e.TS.UTC(), e.UserID, e.Company, e.Stage); err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

// InsertLead implements Store.
func (s *PostgresStore) InsertLead(ctx context.Context, l model.Lead) error {
	const sql = `
INSERT INTO leads (lead_id, email, name, company, created_at)
VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), $5)`
	if _, err := s.pool.Exec(ctx, sql, l.LeadID, l.Email, l.Name, l.Company, l.CreatedAt.UTC()); err != nil {
		return fmt.Errorf("insert lead: %w", err)
	}
	return nil
}

// buildEventQuery renders a Query into SQL and bind args. COALESCE keeps
// nullable dimension columns scannable into plain strings.
func buildEventQuery(q Query) (string, []any, error) {
	if err := q.validate(); err != nil {
		return "", nil, err
	}

	var b strings.Builder
	b.WriteString(`SELECT event_id, workspace_id, event_name, ts,
       COALESCE(user_id, ''), COALESCE(company, ''), COALESCE(stage, '')
FROM events
WHERE workspace_id = $1 AND ts >= $2 AND ts < $3`)
	args := []any{q.WorkspaceID, q.Start.UTC(), q.End.UTC()}

	if len(q.EventNames) > 0 {
		args = append(args, q.EventNames)
		fmt.Fprintf(&b, " AND event_name = ANY($%d)", len(args))
	}
	if q.UserID != "" {
		args = append(args, q.UserID)
		fmt.Fprintf(&b, " AND user_id = $%d", len(args))
	}
	if q.Company != "" {
		args = append(args, q.Company)
		fmt.Fprintf(&b, " AND company = $%d", len(args))
	}
	if q.OrderDesc {
		b.WriteString(" ORDER BY ts DESC")
	}
	if q.Limit > 0 {
		fmt.Fprintf(&b, " LIMIT %d", q.Limit)
	}
	return b.String(), args, nil
}
