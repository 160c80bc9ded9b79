// apps/go-server/internal/catalog/catalog.go
//
// Puzzle catalog backed by SQLite.
// Puzzles are validated before they are stored, so every body in the table
// builds a valid entry index. The bundled puzzles are seeded on open.

package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/cryptic/apps/go-server/assets"
	"github.com/robalobadob/cryptic/apps/go-server/internal/puzzle"
)

// ErrNotFound is returned when a puzzle id is unknown.
var ErrNotFound = errors.New("puzzle not found")

// Summary is one catalog row without its body.
type Summary struct {
	ID        string `json:"id"`
	Rows      int    `json:"rows"`
	Cols      int    `json:"cols"`
	Entries   int    `json:"entries"`
	Source    string `json:"source"`
	CreatedAt string `json:"createdAt"`
}

// Catalog stores puzzle JSON keyed by id.
type Catalog struct {
	db *sql.DB
}

// Open opens the database at path, applies migrations and seeds the bundled
// puzzles.
func Open(ctx context.Context, path string) (*Catalog, error) {
	db, err := openDB(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate catalog: %w", err)
	}
	c := &Catalog{db: db}
	if err := c.Seed(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return c, nil
}

// Close closes the database.
func (c *Catalog) Close() error { return c.db.Close() }

// Seed imports every embedded puzzle that is not already present.
func (c *Catalog) Seed(ctx context.Context) error {
	ids, err := assets.PuzzleIDs()
	if err != nil {
		return fmt.Errorf("list embedded puzzles: %w", err)
	}
	for _, id := range ids {
		raw, err := assets.ReadPuzzle(id)
		if err != nil {
			return fmt.Errorf("read embedded puzzle %s: %w", id, err)
		}
		p, err := puzzle.Parse(raw)
		if err != nil {
			log.Warn().Err(err).Str("puzzle", id).Msg("skip invalid embedded puzzle")
			continue
		}
		res, err := c.db.ExecContext(ctx, `
			INSERT OR IGNORE INTO puzzles (id, grid_rows, grid_cols, entry_count, body, source)
			VALUES (?, ?, ?, ?, ?, 'embedded')`,
			p.ID, p.Rows(), p.Cols(), len(p.Index.Entries()), string(raw))
		if err != nil {
			return fmt.Errorf("seed %s: %w", id, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			log.Info().Str("puzzle", p.ID).Msg("seeded puzzle")
		}
	}
	return nil
}

// Put validates raw puzzle JSON and stores it, replacing any puzzle with the
// same id. Validation failures wrap puzzle.ErrInvalid.
func (c *Catalog) Put(ctx context.Context, raw []byte) (*puzzle.Puzzle, error) {
	p, err := puzzle.Parse(raw)
	if err != nil {
		return nil, err
	}
	_, err = c.db.ExecContext(ctx, `
		INSERT INTO puzzles (id, grid_rows, grid_cols, entry_count, body, source)
		VALUES (?, ?, ?, ?, ?, 'import')
		ON CONFLICT(id) DO UPDATE SET
			grid_rows=excluded.grid_rows, grid_cols=excluded.grid_cols, entry_count=excluded.entry_count,
			body=excluded.body, source=excluded.source`,
		p.ID, p.Rows(), p.Cols(), len(p.Index.Entries()), string(raw))
	if err != nil {
		return nil, fmt.Errorf("store puzzle %s: %w", p.ID, err)
	}
	return p, nil
}

// Raw returns the stored JSON of puzzle id.
func (c *Catalog) Raw(ctx context.Context, id string) ([]byte, error) {
	var body string
	err := c.db.QueryRowContext(ctx, `SELECT body FROM puzzles WHERE id=?`, id).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("query puzzle %s: %w", id, err)
	}
	return []byte(body), nil
}

// IDs lists puzzle ids in ascending order.
func (c *Catalog) IDs(ctx context.Context) ([]string, error) {
	rows, err := c.db.QueryContext(ctx, `SELECT id FROM puzzles ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// List returns summaries ordered by id.
func (c *Catalog) List(ctx context.Context) ([]Summary, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT id, grid_rows, grid_cols, entry_count, source, created_at
		FROM puzzles ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Summary{}
	for rows.Next() {
		var s Summary
		if err := rows.Scan(&s.ID, &s.Rows, &s.Cols, &s.Entries, &s.Source, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Delete removes puzzle id.
func (c *Catalog) Delete(ctx context.Context, id string) error {
	res, err := c.db.ExecContext(ctx, `DELETE FROM puzzles WHERE id=?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}
