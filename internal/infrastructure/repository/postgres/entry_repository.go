package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/jobyaari/trendpipe/internal/core/domain"
)

// EntryRepository persists pipeline entries per stage. It mirrors the
// stage-file contract: Save replaces the whole stage, Load returns the
// stage snapshot or a typed missing-data error.
type EntryRepository struct {
	db *sql.DB
}

func NewEntryRepository(db *sql.DB) *EntryRepository {
	return &EntryRepository{db: db}
}

func OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

func (r *EntryRepository) EnsureSchema(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across concurrent pipeline runs.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026083001)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS pipeline_entries (
	stage TEXT NOT NULL,
	position INTEGER NOT NULL,
	keyword TEXT NOT NULL,
	interest_score INTEGER NOT NULL DEFAULT 0,
	category TEXT NOT NULL DEFAULT '',
	confidence TEXT NOT NULL DEFAULT '',
	reasoning TEXT NOT NULL DEFAULT '',
	search_summary TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL,
	approval TEXT NOT NULL DEFAULT '',
	related_queries TEXT NOT NULL DEFAULT '',
	top_regions TEXT NOT NULL DEFAULT '',
	geo TEXT NOT NULL DEFAULT '',
	links JSONB NOT NULL DEFAULT '{}'::jsonb,
	date_extracted TIMESTAMPTZ,
	categorized_at TIMESTAMPTZ,
	content_generated_at TIMESTAMPTZ,
	published_at TIMESTAMPTZ,
	PRIMARY KEY (stage, keyword)
);

CREATE INDEX IF NOT EXISTS idx_pipeline_entries_stage ON pipeline_entries(stage, position);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

// Save replaces the stage snapshot atomically. Ordering is preserved
// through the position column.
func (r *EntryRepository) Save(ctx context.Context, stage domain.StageData, entries []domain.Entry) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM pipeline_entries WHERE stage = $1`, string(stage)); err != nil {
		return fmt.Errorf("clear stage %s: %w", stage, err)
	}

	for i, e := range entries {
		links, err := json.Marshal(e.Links)
		if err != nil {
			return fmt.Errorf("marshal links: %w", err)
		}

		_, err = tx.ExecContext(ctx, `
INSERT INTO pipeline_entries (
	stage, position, keyword, interest_score, category, confidence, reasoning, search_summary,
	status, approval, related_queries, top_regions, geo, links,
	date_extracted, categorized_at, content_generated_at, published_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)
`,
			string(stage), i, e.Keyword, e.InterestScore, string(e.Category), string(e.Confidence),
			e.Reasoning, e.SearchSummary, string(e.Status), string(e.Approval),
			e.RelatedQueries, e.TopRegions, e.Geo, links,
			nullTime(e.DateExtracted), nullTime(e.CategorizedAt),
			nullTime(e.ContentGeneratedAt), nullTime(e.PublishedAt),
		)
		if err != nil {
			return fmt.Errorf("insert entry %q: %w", e.Keyword, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save tx: %w", err)
	}
	return nil
}

func (r *EntryRepository) Load(ctx context.Context, stage domain.StageData) ([]domain.Entry, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT keyword, interest_score, category, confidence, reasoning, search_summary,
	status, approval, related_queries, top_regions, geo, links,
	date_extracted, categorized_at, content_generated_at, published_at
FROM pipeline_entries
WHERE stage = $1
ORDER BY position
`, string(stage))
	if err != nil {
		return nil, fmt.Errorf("query stage %s: %w", stage, err)
	}
	defer rows.Close()

	var entries []domain.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate stage %s: %w", stage, err)
	}
	if len(entries) == 0 {
		return nil, domain.WrapError(domain.ErrStageDataMissing, "load stage",
			fmt.Errorf("no rows for stage %s", stage))
	}
	return entries, nil
}

func scanEntry(rows *sql.Rows) (domain.Entry, error) {
	var (
		e           domain.Entry
		category    string
		confidence  string
		status      string
		approval    string
		linksRaw    []byte
		extracted   sql.NullTime
		categorized sql.NullTime
		generated   sql.NullTime
		published   sql.NullTime
	)

	err := rows.Scan(
		&e.Keyword, &e.InterestScore, &category, &confidence, &e.Reasoning, &e.SearchSummary,
		&status, &approval, &e.RelatedQueries, &e.TopRegions, &e.Geo, &linksRaw,
		&extracted, &categorized, &generated, &published,
	)
	if err != nil {
		return domain.Entry{}, fmt.Errorf("scan entry: %w", err)
	}

	if category != "" {
		e.Category, err = domain.ParseCategory(category)
		if err != nil {
			return domain.Entry{}, err
		}
	}
	if confidence != "" {
		e.Confidence, err = domain.ParseConfidence(confidence)
		if err != nil {
			return domain.Entry{}, err
		}
	}
	e.Status, err = domain.ParseStatus(status)
	if err != nil {
		return domain.Entry{}, err
	}
	e.Approval = domain.Approval(approval)

	if err := json.Unmarshal(linksRaw, &e.Links); err != nil {
		return domain.Entry{}, fmt.Errorf("unmarshal links: %w", err)
	}

	e.DateExtracted = timeOrZero(extracted)
	e.CategorizedAt = timeOrZero(categorized)
	e.ContentGeneratedAt = timeOrZero(generated)
	e.PublishedAt = timeOrZero(published)
	return e, nil
}

func nullTime(t time.Time) sql.NullTime {
	if t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

func timeOrZero(t sql.NullTime) time.Time {
	if !t.Valid {
		return time.Time{}
	}
	return t.Time.UTC()
}
