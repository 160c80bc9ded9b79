// apps/go-server/internal/httpserver/routes_admin.go
//
// Puzzle import, guarded by HTTP basic auth against a bcrypt hash
// (ADMIN_USER / ADMIN_PASSWORD_HASH). Without a hash the routes answer 503.
//   - POST   /admin/puzzles       body: puzzle JSON → validated and stored
//   - DELETE /admin/puzzles/{id}

package httpserver

import (
	"crypto/subtle"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"
	"golang.org/x/crypto/bcrypt"

	"github.com/robalobadob/cryptic/apps/go-server/internal/catalog"
	"github.com/robalobadob/cryptic/apps/go-server/internal/puzzle"
)

const maxPuzzleSize = 1 << 20

func (s *Server) mountAdmin(r chi.Router) {
	r.Route("/admin", func(r chi.Router) {
		r.Use(s.requireAdmin)
		r.Post("/puzzles", s.handleImport)
		r.Delete("/puzzles/{id}", s.handleDeletePuzzle)
	})
}

// requireAdmin checks basic-auth credentials.
func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.admin == nil || s.cfg.AdminPasswordHash == "" {
			writeError(w, http.StatusServiceUnavailable, "import_disabled")
			return
		}
		user, pw, ok := r.BasicAuth()
		if !ok || subtle.ConstantTimeCompare([]byte(user), []byte(s.cfg.AdminUser)) != 1 ||
			!checkPassword(s.cfg.AdminPasswordHash, pw) {
			w.Header().Set("WWW-Authenticate", `Basic realm="cryptic-admin"`)
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// checkPassword is a bcrypt verifier.
func checkPassword(hash, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}

type importRes struct {
	ID      string `json:"id"`
	Rows    int    `json:"rows"`
	Cols    int    `json:"cols"`
	Entries int    `json:"entries"`
}

type invalidRes struct {
	Error  string `json:"error"`
	Detail string `json:"detail"`
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxPuzzleSize))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "too_large")
		return
	}
	// Validate first so bad data is a 422, not a storage failure.
	if _, err := puzzle.Parse(raw); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, invalidRes{Error: "invalid_puzzle", Detail: err.Error()})
		return
	}
	p, err := s.admin.Put(r.Context(), raw)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("import puzzle")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	hlog.FromRequest(r).Info().Str("puzzle", p.ID).Msg("puzzle imported")
	writeJSON(w, http.StatusCreated, importRes{ID: p.ID, Rows: p.Rows(), Cols: p.Cols(), Entries: len(p.Index.Entries())})
}

func (s *Server) handleDeletePuzzle(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	err := s.admin.Delete(r.Context(), id)
	if errors.Is(err, catalog.ErrNotFound) {
		writeError(w, http.StatusNotFound, "puzzle_not_found")
		return
	}
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Str("puzzle", id).Msg("delete puzzle")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
