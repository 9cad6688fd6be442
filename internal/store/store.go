// Package store persists adaptation output: a variant cache keyed by
// (template, language, formality), generated refinements with token usage,
// and an append-only experiment log. The adaptation core never touches the
// store; the command layer decides when to read and write.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
	_ "modernc.org/sqlite"

	"github.com/valpere/promptadapt/internal/culture"
	"github.com/valpere/promptadapt/internal/prompt"
)

type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS variants (
		id TEXT PRIMARY KEY,
		template_id TEXT NOT NULL,
		language TEXT NOT NULL,
		formality TEXT NOT NULL,
		content TEXT NOT NULL,
		notes TEXT NOT NULL,
		refined BOOLEAN DEFAULT FALSE,
		usage_count INTEGER DEFAULT 1,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		last_used TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(template_id, language, formality)
	);

	CREATE TABLE IF NOT EXISTS generations (
		id TEXT PRIMARY KEY,
		variant_key TEXT NOT NULL,
		model TEXT NOT NULL,
		text TEXT NOT NULL,
		tokens_in INTEGER DEFAULT 0,
		tokens_out INTEGER DEFAULT 0,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(variant_key, model)
	);

	-- experiments is append-only: runs are created, completed, never
	-- deleted.
	CREATE TABLE IF NOT EXISTS experiments (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		config TEXT NOT NULL,
		status TEXT DEFAULT 'running',
		started_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		completed_at TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS experiment_results (
		id TEXT PRIMARY KEY,
		experiment_id TEXT NOT NULL,
		variant_key TEXT NOT NULL,
		score REAL,
		rating TEXT,
		report TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (experiment_id) REFERENCES experiments(id)
	);

	CREATE INDEX IF NOT EXISTS idx_variant_lookup ON variants(template_id, language, formality);
	CREATE INDEX IF NOT EXISTS idx_generation_lookup ON generations(variant_key);
	CREATE INDEX IF NOT EXISTS idx_results_experiment ON experiment_results(experiment_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// SaveVariant caches an adapted variant, replacing any previous entry for
// the same (template, language, formality) key.
func (s *Store) SaveVariant(ctx context.Context, v prompt.Variant) error {
	notes, err := json.Marshal(v.Notes)
	if err != nil {
		return fmt.Errorf("failed to encode notes: %w", err)
	}

	id := fmt.Sprintf("var_%d", time.Now().UnixNano())
	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO variants (id, template_id, language, formality, content, notes, refined, usage_count, created_at, last_used) VALUES (?, ?, ?, ?, ?, ?, ?, 1, ?, ?)`,
		id, v.TemplateID, v.Language, string(v.Formality), normalizeText(v.Content), string(notes), v.Refined, v.CreatedAt, time.Now())
	return err
}

// GetVariant returns a cached variant and bumps its usage counter.
func (s *Store) GetVariant(ctx context.Context, templateID, lang string, f culture.Formality) (*prompt.Variant, bool, error) {
	var (
		content   string
		notesJSON string
		refined   bool
		createdAt time.Time
	)

	err := s.db.QueryRowContext(ctx,
		`SELECT content, notes, refined, created_at FROM variants WHERE template_id = ? AND language = ? AND formality = ?`,
		templateID, lang, string(f)).Scan(&content, &notesJSON, &refined, &createdAt)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var notes []string
	if err := json.Unmarshal([]byte(notesJSON), &notes); err != nil {
		return nil, false, fmt.Errorf("failed to decode notes: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`UPDATE variants SET usage_count = usage_count + 1, last_used = ? WHERE template_id = ? AND language = ? AND formality = ?`,
		time.Now(), templateID, lang, string(f))

	return &prompt.Variant{
		TemplateID: templateID,
		Language:   lang,
		Formality:  f,
		Content:    content,
		Notes:      notes,
		Refined:    refined,
		CreatedAt:  createdAt,
	}, true, err
}

// SaveGeneration records refined text and its token usage for a variant.
func (s *Store) SaveGeneration(ctx context.Context, variantKey, model, text string, tokensIn, tokensOut int) error {
	id := fmt.Sprintf("gen_%d", time.Now().UnixNano())
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO generations (id, variant_key, model, text, tokens_in, tokens_out) VALUES (?, ?, ?, ?, ?, ?)`,
		id, variantKey, model, normalizeText(text), tokensIn, tokensOut)
	return err
}

// GetGeneration returns the stored refinement for a variant key, if any.
func (s *Store) GetGeneration(ctx context.Context, variantKey string) (text, model string, ok bool, err error) {
	err = s.db.QueryRowContext(ctx,
		`SELECT text, model FROM generations WHERE variant_key = ? ORDER BY created_at DESC LIMIT 1`,
		variantKey).Scan(&text, &model)
	if err == sql.ErrNoRows {
		return "", "", false, nil
	}
	if err != nil {
		return "", "", false, err
	}
	return text, model, true, nil
}

// CreateExperiment logs the start of an evaluation run. config is stored as
// JSON for reproducibility.
func (s *Store) CreateExperiment(ctx context.Context, id, name string, config any) error {
	cfg, err := json.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to encode experiment config: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO experiments (id, name, config) VALUES (?, ?, ?)`,
		id, name, string(cfg))
	return err
}

// CompleteExperiment marks a run finished with the given status.
func (s *Store) CompleteExperiment(ctx context.Context, id, status string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE experiments SET status = ?, completed_at = ? WHERE id = ?`,
		status, time.Now(), id)
	return err
}

// AddExperimentResult appends one scored variant to an experiment.
func (s *Store) AddExperimentResult(ctx context.Context, experimentID, variantKey string, score float64, ratingLabel, reportJSON string) error {
	id := fmt.Sprintf("%s_%s", experimentID, variantKey)
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO experiment_results (id, experiment_id, variant_key, score, rating, report) VALUES (?, ?, ?, ?, ?, ?)`,
		id, experimentID, variantKey, score, ratingLabel, reportJSON)
	return err
}

// ExperimentEntry is a row from the experiments table.
type ExperimentEntry struct {
	ID          string
	Name        string
	Status      string
	StartedAt   time.Time
	CompletedAt sql.NullTime
}

// ListExperiments returns all experiment runs, newest first.
func (s *Store) ListExperiments(ctx context.Context) ([]ExperimentEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, status, started_at, completed_at FROM experiments ORDER BY started_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []ExperimentEntry
	for rows.Next() {
		var e ExperimentEntry
		if err := rows.Scan(&e.ID, &e.Name, &e.Status, &e.StartedAt, &e.CompletedAt); err != nil {
			return nil, err
		}
		results = append(results, e)
	}
	return results, rows.Err()
}

// VariantEntry is a row from the variants cache.
type VariantEntry struct {
	ID         string
	TemplateID string
	Language   string
	Formality  string
	Refined    bool
	UsageCount int
	LastUsed   time.Time
	Content    string
}

// ListVariants returns all cached variants ordered by most recently used.
func (s *Store) ListVariants(ctx context.Context) ([]VariantEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, template_id, language, formality, refined, usage_count, last_used, content FROM variants ORDER BY last_used DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []VariantEntry
	for rows.Next() {
		var e VariantEntry
		if err := rows.Scan(&e.ID, &e.TemplateID, &e.Language, &e.Formality, &e.Refined, &e.UsageCount, &e.LastUsed, &e.Content); err != nil {
			return nil, err
		}
		results = append(results, e)
	}
	return results, rows.Err()
}

// CacheStats summarises variant cache usage.
type CacheStats struct {
	TotalVariants    int
	RefinedVariants  int
	TotalUsage       int
	TotalGenerations int
}

// Stats returns summary statistics for the variant cache.
func (s *Store) Stats(ctx context.Context) (*CacheStats, error) {
	stats := &CacheStats{}

	err := s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN refined THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(usage_count), 0)
		FROM variants`).Scan(
		&stats.TotalVariants,
		&stats.RefinedVariants,
		&stats.TotalUsage,
	)
	if err != nil {
		return nil, err
	}

	err = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM generations`).Scan(&stats.TotalGenerations)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// DeleteVariant removes a cached variant by row ID.
func (s *Store) DeleteVariant(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM variants WHERE id = ?`, id)
	return err
}

// ClearVariants removes all cached variants and generations.
func (s *Store) ClearVariants(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM variants`)
	if err != nil {
		return 0, err
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM generations`); err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *Store) Close() error {
	return s.db.Close()
}

// normalizeText trims whitespace and applies Unicode NFC normalization so
// cached text compares consistently.
func normalizeText(text string) string {
	return norm.NFC.String(strings.TrimSpace(text))
}
