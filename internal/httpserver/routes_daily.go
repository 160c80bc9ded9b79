// apps/go-server/internal/httpserver/routes_daily.go
//
// Puzzle listing and the daily puzzle.
//   - GET /puzzles        → catalog summaries (ids only for plain sources)
//   - GET /puzzles/daily  → today's puzzle id
//
// The daily id is the puzzle dated today when one exists, otherwise a
// deterministic pick from the catalog based on date + salt.

package httpserver

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/cryptic/apps/go-server/internal/catalog"
	"github.com/robalobadob/cryptic/apps/go-server/internal/daily"
)

// summaryLister is implemented by *catalog.Catalog.
type summaryLister interface {
	List(ctx context.Context) ([]catalog.Summary, error)
}

func (s *Server) mountPuzzles(r chi.Router) {
	r.Get("/puzzles", s.handleListPuzzles)
	r.Get("/puzzles/daily", s.handleDaily)
}

// dailyID returns today's date key and puzzle id.
func (s *Server) dailyID(ctx context.Context) (date, id string, err error) {
	now := s.now()
	date = daily.DateKey(now)
	if s.puzzles == nil {
		return date, "", daily.ErrEmpty
	}
	id, err = daily.PuzzleID(ctx, s.puzzles, s.cfg.DailySalt, now)
	return date, id, err
}

func (s *Server) handleListPuzzles(w http.ResponseWriter, r *http.Request) {
	if l, ok := s.puzzles.(summaryLister); ok {
		list, err := l.List(r.Context())
		if err != nil {
			hlog.FromRequest(r).Error().Err(err).Msg("list puzzles")
			writeError(w, http.StatusInternalServerError, "db_error")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"puzzles": list})
		return
	}
	out := []catalog.Summary{}
	if s.puzzles != nil {
		ids, err := s.puzzles.IDs(r.Context())
		if err != nil {
			hlog.FromRequest(r).Error().Err(err).Msg("list puzzle ids")
			writeError(w, http.StatusInternalServerError, "source_error")
			return
		}
		for _, id := range ids {
			out = append(out, catalog.Summary{ID: id})
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"puzzles": out})
}

func (s *Server) handleDaily(w http.ResponseWriter, r *http.Request) {
	date, id, err := s.dailyID(r.Context())
	if err != nil {
		hlog.FromRequest(r).Warn().Err(err).Msg("no daily puzzle")
		writeError(w, http.StatusNotFound, "no_puzzles")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"date": date, "puzzleId": id})
}
