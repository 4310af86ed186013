package archive

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/1990jr/mindelo-lausanne-time-bridge/internal/domain/insight"
)

const schema = `
CREATE TABLE IF NOT EXISTS insight_history (
	id         BIGSERIAL PRIMARY KEY,
	day        DATE NOT NULL,
	lang       TEXT NOT NULL,
	mode       TEXT NOT NULL,
	model      TEXT NOT NULL,
	content    JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS insight_history_lang_created_idx ON insight_history (lang, created_at DESC);
`

// PostgresArchive implements insight.Archive using pgx.
type PostgresArchive struct {
	pool *pgxpool.Pool
}

// NewPostgresArchive constructs the archive.
func NewPostgresArchive(pool *pgxpool.Pool) *PostgresArchive {
	return &PostgresArchive{pool: pool}
}

// EnsureSchema creates the history table when it does not exist yet.
func (a *PostgresArchive) EnsureSchema(ctx context.Context) error {
	if _, err := a.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure insight_history schema: %w", err)
	}
	return nil
}

// Append stores one final document.
func (a *PostgresArchive) Append(ctx context.Context, entry insight.ArchiveEntry) error {
	content, err := json.Marshal(entry.Content)
	if err != nil {
		return err
	}
	_, err = a.pool.Exec(ctx, `
		INSERT INTO insight_history (day, lang, mode, model, content, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, entry.Day, entry.Lang, string(entry.Mode), entry.Model, content, entry.CreatedAt)
	return err
}

// Recent lists the newest entries, optionally for one language.
func (a *PostgresArchive) Recent(ctx context.Context, lang string, limit int) ([]insight.ArchiveEntry, error) {
	rows, err := a.pool.Query(ctx, `
		SELECT id, to_char(day, 'YYYY-MM-DD'), lang, mode, model, content, created_at
		FROM insight_history
		WHERE $1 = '' OR lang = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`, lang, limit)
	if err != nil {
		return nil, err
	}
	entries, err := pgx.CollectRows(rows, scanEntry)
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func scanEntry(row pgx.CollectableRow) (insight.ArchiveEntry, error) {
	var (
		entry   insight.ArchiveEntry
		mode    string
		content []byte
	)
	if err := row.Scan(&entry.ID, &entry.Day, &entry.Lang, &mode, &entry.Model, &content, &entry.CreatedAt); err != nil {
		return insight.ArchiveEntry{}, err
	}
	entry.Mode = insight.Mode(mode)
	if err := json.Unmarshal(content, &entry.Content); err != nil {
		return insight.ArchiveEntry{}, fmt.Errorf("decode archived content %d: %w", entry.ID, err)
	}
	return entry, nil
}

var _ insight.Archive = (*PostgresArchive)(nil)
