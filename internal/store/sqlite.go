// Package store provides the durable layers of the studio: a SQLite database
// for presets and the brand kit, and a filesystem store for generated assets.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"teestudio/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS user_presets (
	name TEXT PRIMARY KEY,
	options TEXT NOT NULL,
	position INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS brand_kit (
	id INTEGER PRIMARY KEY CHECK (id = 1),
	logo BLOB,
	logo_mime TEXT,
	apply_watermark INTEGER NOT NULL DEFAULT 0
);
`

// SQLiteStore implements domain.StudioRepository on a local SQLite file.
type SQLiteStore struct {
	db *sql.DB
}

// Open opens (and if needed creates) the database at path.
func Open(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("setting pragma %q: %w", p, err)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("applying schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

// LoadPresets returns all saved presets in their stored order.
func (s *SQLiteStore) LoadPresets(ctx context.Context) ([]domain.UserPreset, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, options FROM user_presets ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("querying presets: %w", err)
	}
	defer rows.Close()

	var presets []domain.UserPreset
	for rows.Next() {
		var name, raw string
		if err := rows.Scan(&name, &raw); err != nil {
			return nil, fmt.Errorf("scanning preset: %w", err)
		}
		var opts domain.MockupOptions
		if err := json.Unmarshal([]byte(raw), &opts); err != nil {
			return nil, fmt.Errorf("decoding preset %q: %w", name, err)
		}
		presets = append(presets, domain.UserPreset{Name: name, Options: opts})
	}
	return presets, rows.Err()
}

// SavePresets replaces the stored preset list wholesale.
func (s *SQLiteStore) SavePresets(ctx context.Context, presets []domain.UserPreset) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM user_presets`); err != nil {
		return fmt.Errorf("clearing presets: %w", err)
	}
	for i, p := range presets {
		raw, err := json.Marshal(p.Options)
		if err != nil {
			return fmt.Errorf("encoding preset %q: %w", p.Name, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO user_presets (name, options, position) VALUES (?, ?, ?)`,
			p.Name, string(raw), i); err != nil {
			return fmt.Errorf("inserting preset %q: %w", p.Name, err)
		}
	}
	return tx.Commit()
}

// LoadBrandKit returns the stored brand kit, or a zero kit if none is saved.
func (s *SQLiteStore) LoadBrandKit(ctx context.Context) (domain.BrandKit, error) {
	var (
		logo  []byte
		mime  sql.NullString
		apply bool
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT logo, logo_mime, apply_watermark FROM brand_kit WHERE id = 1`).
		Scan(&logo, &mime, &apply)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.BrandKit{}, nil
	}
	if err != nil {
		return domain.BrandKit{}, fmt.Errorf("querying brand kit: %w", err)
	}

	kit := domain.BrandKit{ApplyWatermark: apply}
	if len(logo) > 0 {
		kit.Logo = &domain.DesignFile{Data: logo, MimeType: mime.String}
	}
	return kit, nil
}

// SaveBrandKit overwrites the single brand kit row.
func (s *SQLiteStore) SaveBrandKit(ctx context.Context, kit domain.BrandKit) error {
	var (
		logo []byte
		mime string
	)
	if kit.Logo != nil {
		logo = kit.Logo.Data
		mime = kit.Logo.MimeType
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO brand_kit (id, logo, logo_mime, apply_watermark) VALUES (1, ?, ?, ?)
ON CONFLICT (id) DO UPDATE SET logo = excluded.logo, logo_mime = excluded.logo_mime, apply_watermark = excluded.apply_watermark`,
		logo, mime, kit.ApplyWatermark)
	if err != nil {
		return fmt.Errorf("saving brand kit: %w", err)
	}
	return nil
}
