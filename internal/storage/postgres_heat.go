package storage

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	apperrors "kartlap/internal/errors"
	"kartlap/pkg/contracts/domain"
	"kartlap/pkg/postgres"
)

const schema = `
CREATE TABLE IF NOT EXISTS heats (
	track       TEXT        NOT NULL,
	session_id  TEXT        NOT NULL,
	record      JSONB       NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (track, session_id)
)`

type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PostgresHeatRepository persists heats in the heats table
type PostgresHeatRepository struct {
	db     querier
	logger *slog.Logger
}

// NewPostgresHeatRepository creates a repository on an open pool
func NewPostgresHeatRepository(pool *pgxpool.Pool, logger *slog.Logger) *PostgresHeatRepository {
	return newPostgresHeatRepository(pool, logger)
}

func newPostgresHeatRepository(db querier, logger *slog.Logger) *PostgresHeatRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresHeatRepository{db: db, logger: logger.With(slog.String("component", "postgres_heat_repo"))}
}

// Migrate creates the heats table when it does not exist.
func (r *PostgresHeatRepository) Migrate(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, schema); err != nil {
		return apperrors.NewStorageError("heat repo: Migrate", err)
	}
	return nil
}

// Save upserts the heat record.
func (r *PostgresHeatRepository) Save(ctx context.Context, heat *domain.Heat) error {
	if err := domain.ValidateSessionID(heat.SessionID); err != nil {
		return err
	}
	data, err := json.Marshal(heat.Record())
	if err != nil {
		return apperrors.NewStorageError("heat repo: Save: encode", err)
	}

	_, err = r.db.Exec(ctx, `
		INSERT INTO heats (track, session_id, record)
		VALUES ($1, $2, $3)
		ON CONFLICT (track, session_id)
		DO UPDATE SET record = EXCLUDED.record, updated_at = now()`,
		string(heat.Track), heat.SessionID, data)
	if err != nil {
		return r.wrap("Save", err)
	}

	r.logger.InfoContext(ctx, "Heat saved",
		slog.String("track", string(heat.Track)),
		slog.String("session_id", heat.SessionID))
	return nil
}

// Load reads one heat. Missing rows yield an error wrapping
// domain.ErrRecordNotFound.
func (r *PostgresHeatRepository) Load(ctx context.Context, track domain.Track, sessionID string) (*domain.Heat, error) {
	var data []byte
	err := r.db.QueryRow(ctx,
		`SELECT record FROM heats WHERE track = $1 AND session_id = $2`,
		string(track), sessionID).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			ref := domain.HeatRef{Track: track, SessionID: sessionID}
			return nil, apperrors.NewNotFoundError("heat "+ref.String(), domain.ErrRecordNotFound)
		}
		return nil, r.wrap("Load", err)
	}
	return domain.DecodeHeat(data)
}

// List returns every stored heat reference ordered by track and session.
func (r *PostgresHeatRepository) List(ctx context.Context) ([]domain.HeatRef, error) {
	rows, err := r.db.Query(ctx, `SELECT track, session_id FROM heats ORDER BY track, session_id`)
	if err != nil {
		return nil, r.wrap("List", err)
	}
	defer rows.Close()

	refs := []domain.HeatRef{}
	for rows.Next() {
		var track, sessionID string
		if err := rows.Scan(&track, &sessionID); err != nil {
			return nil, r.wrap("List: scan", err)
		}
		refs = append(refs, domain.HeatRef{Track: domain.Track(track), SessionID: sessionID})
	}
	if err := rows.Err(); err != nil {
		return nil, r.wrap("List", err)
	}
	return refs, nil
}

// Delete removes one heat.
func (r *PostgresHeatRepository) Delete(ctx context.Context, track domain.Track, sessionID string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM heats WHERE track = $1 AND session_id = $2`, string(track), sessionID)
	if err != nil {
		return r.wrap("Delete", err)
	}
	if tag.RowsAffected() == 0 {
		ref := domain.HeatRef{Track: track, SessionID: sessionID}
		return apperrors.NewNotFoundError("heat "+ref.String(), domain.ErrRecordNotFound)
	}
	return nil
}

func (r *PostgresHeatRepository) wrap(op string, err error) error {
	appErr := apperrors.NewStorageError("heat repo: "+op, err)
	if postgres.IsUndefinedTable(err) {
		appErr.WithContext("hint", "run migrations")
	}
	return appErr
}
