package tm

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq" // postgres driver
)

// CorpusProvider is the boundary to the persistence collaborator. The
// matcher itself never touches storage; callers fetch a snapshot for a
// series, match against it, and signal usage for the entries they reused.
type CorpusProvider interface {
	FetchCorpus(ctx context.Context, seriesID string) ([]Entry, error)
	IncrementUsage(ctx context.Context, entryID string) error
}

// PostgresProvider implements CorpusProvider over a tm_entries table.
type PostgresProvider struct {
	db *sql.DB
}

// NewPostgresProvider opens a pooled connection and verifies it with a ping.
func NewPostgresProvider(databaseURL string) (*PostgresProvider, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("database URL is required")
	}

	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresProvider{db: db}, nil
}

// FetchCorpus reads the translation-memory snapshot for one series.
func (p *PostgresProvider) FetchCorpus(ctx context.Context, seriesID string) ([]Entry, error) {
	const query = `
		SELECT id, source_text, target_text, COALESCE(context, ''), usage_count
		FROM tm_entries
		WHERE series_id = $1
		ORDER BY usage_count DESC, id`

	rows, err := p.db.QueryContext(ctx, query, seriesID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch corpus for series %s: %w", seriesID, err)
	}
	defer rows.Close()

	var corpus []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.SourceText, &e.TargetText, &e.Context, &e.UsageCount); err != nil {
			return nil, fmt.Errorf("failed to scan tm entry: %w", err)
		}
		corpus = append(corpus, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate corpus: %w", err)
	}
	return corpus, nil
}

// IncrementUsage bumps an entry's usage counter.
func (p *PostgresProvider) IncrementUsage(ctx context.Context, entryID string) error {
	const query = `UPDATE tm_entries SET usage_count = usage_count + 1 WHERE id = $1`
	res, err := p.db.ExecContext(ctx, query, entryID)
	if err != nil {
		return fmt.Errorf("failed to increment usage for entry %s: %w", entryID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("tm entry %s not found", entryID)
	}
	return nil
}

// Close releases the connection pool.
func (p *PostgresProvider) Close() error {
	return p.db.Close()
}
