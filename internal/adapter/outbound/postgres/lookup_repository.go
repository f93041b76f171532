package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/0xsj/overwatch-pkg/types"

	"github.com/0xsj/overwatch-follows/internal/domain/model"
	"github.com/0xsj/overwatch-follows/internal/port/outbound/repository"
)

// DB is the subset of *pgxpool.Pool the repository uses.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

const createLookupsTable = `
	CREATE TABLE IF NOT EXISTS follows_lookups (
		id TEXT PRIMARY KEY,
		handle TEXT NOT NULL,
		did TEXT NOT NULL DEFAULT '',
		pds_endpoint TEXT NOT NULL DEFAULT '',
		follow_count INTEGER NOT NULL DEFAULT 0,
		outcome TEXT NOT NULL,
		failed_step TEXT NOT NULL DEFAULT '',
		error TEXT NOT NULL DEFAULT '',
		duration_ms BIGINT NOT NULL,
		occurred_at TIMESTAMPTZ NOT NULL
	)`

const insertLookup = `
	INSERT INTO follows_lookups
		(id, handle, did, pds_endpoint, follow_count, outcome, failed_step, error, duration_ms, occurred_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	ON CONFLICT (id) DO NOTHING`

const selectRecentLookups = `
	SELECT id, handle, did, pds_endpoint, follow_count, outcome, failed_step, error, duration_ms, occurred_at
	FROM follows_lookups
	ORDER BY occurred_at DESC
	LIMIT $1`

// lookupRepository implements repository.LookupRepository.
type lookupRepository struct {
	db DB
}

// NewLookupRepository creates a new LookupRepository.
func NewLookupRepository(db DB) repository.LookupRepository {
	return &lookupRepository{db: db}
}

// EnsureSchema creates the follows_lookups table if it does not exist.
func EnsureSchema(ctx context.Context, db DB) error {
	if _, err := db.Exec(ctx, createLookupsTable); err != nil {
		return fmt.Errorf("create follows_lookups: %w", err)
	}
	return nil
}

func (r *lookupRepository) Create(ctx context.Context, lookup *model.Lookup) error {
	_, err := r.db.Exec(ctx, insertLookup,
		lookup.ID().String(),
		lookup.Handle().String(),
		lookup.DID().String(),
		lookup.PDSEndpoint(),
		lookup.FollowCount(),
		lookup.Outcome().String(),
		lookup.FailedStep(),
		lookup.ErrorMessage(),
		lookup.Duration().Milliseconds(),
		lookup.OccurredAt().Time(),
	)
	if err != nil {
		return fmt.Errorf("insert lookup: %w", err)
	}
	return nil
}

func (r *lookupRepository) ListRecent(ctx context.Context, limit int) ([]*model.Lookup, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := r.db.Query(ctx, selectRecentLookups, limit)
	if err != nil {
		return nil, fmt.Errorf("select lookups: %w", err)
	}
	defer rows.Close()

	lookups := make([]*model.Lookup, 0, limit)
	for rows.Next() {
		var row lookupRow
		if err := rows.Scan(
			&row.ID,
			&row.Handle,
			&row.DID,
			&row.PDSEndpoint,
			&row.FollowCount,
			&row.Outcome,
			&row.FailedStep,
			&row.Error,
			&row.DurationMS,
			&row.OccurredAt,
		); err != nil {
			return nil, fmt.Errorf("scan lookup: %w", err)
		}

		lookup, err := row.toModel()
		if err != nil {
			return nil, err
		}
		lookups = append(lookups, lookup)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate lookups: %w", err)
	}

	return lookups, nil
}

// lookupRow mirrors a follows_lookups row.
type lookupRow struct {
	ID          string
	Handle      string
	DID         string
	PDSEndpoint string
	FollowCount int
	Outcome     string
	FailedStep  string
	Error       string
	DurationMS  int64
	OccurredAt  time.Time
}

func (r lookupRow) toModel() (*model.Lookup, error) {
	id, err := types.ParseID(r.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid lookup id %q: %w", r.ID, err)
	}

	outcome := model.LookupOutcome(r.Outcome)
	if !outcome.IsValid() {
		return nil, fmt.Errorf("invalid lookup outcome %q", r.Outcome)
	}

	return model.ReconstructLookup(
		id,
		model.Handle(r.Handle),
		model.DID(r.DID),
		r.PDSEndpoint,
		r.FollowCount,
		outcome,
		r.FailedStep,
		r.Error,
		time.Duration(r.DurationMS)*time.Millisecond,
		types.FromTime(r.OccurredAt),
	), nil
}
