package catalog

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/cryptic/apps/go-server/assets"
	"github.com/robalobadob/cryptic/apps/go-server/internal/puzzle"
)

// Source supplies raw puzzle JSON by id.
type Source interface {
	IDs(ctx context.Context) ([]string, error)
	Raw(ctx context.Context, id string) ([]byte, error)
}

// Embedded serves the puzzles bundled with the binary.
type Embedded struct{}

func (Embedded) IDs(context.Context) ([]string, error) { return assets.PuzzleIDs() }

func (Embedded) Raw(_ context.Context, id string) ([]byte, error) {
	b, err := assets.ReadPuzzle(id)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return b, err
}

// File serves a single puzzle file for any requested id.
type File struct {
	Path string
}

func (f File) IDs(ctx context.Context) ([]string, error) {
	p, err := Fetch(ctx, f, "")
	if err != nil {
		return nil, err
	}
	return []string{p.ID}, nil
}

func (f File) Raw(context.Context, string) ([]byte, error) {
	b, err := os.ReadFile(f.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, f.Path)
	}
	return b, err
}

// Fetch reads and validates puzzle id from src.
func Fetch(ctx context.Context, src Source, id string) (*puzzle.Puzzle, error) {
	raw, err := src.Raw(ctx, id)
	if err != nil {
		return nil, err
	}
	return puzzle.Parse(raw)
}

// Load is Fetch with the placeholder substituted on any failure. The failure
// is logged, never returned.
func Load(ctx context.Context, src Source, id string) *puzzle.Puzzle {
	if src == nil {
		log.Warn().Str("puzzle", id).Msg("no puzzle source, serving placeholder")
		return puzzle.Placeholder()
	}
	p, err := Fetch(ctx, src, id)
	if err != nil {
		log.Warn().Err(err).Str("puzzle", id).Msg("puzzle load failed, serving placeholder")
		return puzzle.Placeholder()
	}
	return p
}
