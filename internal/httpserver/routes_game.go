// apps/go-server/internal/httpserver/routes_game.go
//
// Game endpoints. POST /game/new starts a session; the rest act on the
// session named by the request's token and reply with the transition's
// Update plus a fresh View:
//   - GET  /game          → current view
//   - POST /game/select   {entryId, row?, col?}
//   - POST /game/advance  {delta}
//   - POST /game/click    {row, col}
//   - POST /game/key      {key}        browser key names ("ArrowLeft", "a")
//   - POST /game/hint     {kind}       definition | analysis | letter
//   - POST /game/giveup   {entryId?}   defaults to the active entry
//   - POST /game/restart
//   - GET  /game/share    → {text}
//   - DELETE /game        → end the session

package httpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/cryptic/apps/go-server/internal/catalog"
	"github.com/robalobadob/cryptic/apps/go-server/internal/game"
	"github.com/robalobadob/cryptic/apps/go-server/internal/puzzle"
)

var errEntryNotFound = errors.New("entry_not_found")

func (s *Server) mountGame(r chi.Router) {
	r.With(s.limitNewGames).Post("/game/new", s.handleNewGame)

	r.Group(func(r chi.Router) {
		r.Use(s.withSession)
		r.Get("/game", s.handleGetGame)
		r.Delete("/game", s.handleEndGame)
		r.Post("/game/select", s.handleSelect)
		r.Post("/game/advance", s.handleAdvance)
		r.Post("/game/click", s.handleClick)
		r.Post("/game/key", s.handleKey)
		r.Post("/game/hint", s.handleHint)
		r.Post("/game/giveup", s.handleGiveUp)
		r.Post("/game/restart", s.handleRestart)
		r.Get("/game/share", s.handleShare)
	})
}

// newGameReq/Res payloads for POST /game/new.
type newGameReq struct {
	PuzzleID string `json:"puzzleId"` // empty → today's puzzle
}
type newGameRes struct {
	GameID    string    `json:"gameId"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	View      game.View `json:"view"`
}

// moveRes is the reply to every session transition.
type moveRes struct {
	Update game.Update `json:"update"`
	View   game.View   `json:"view"`
}

// handleNewGame creates a session on the requested (or daily) puzzle.
// An unknown explicit id is a 404; any other load failure serves the
// placeholder puzzle.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}

	p, err := s.resolvePuzzle(r.Context(), req.PuzzleID)
	if err != nil {
		writeError(w, http.StatusNotFound, "puzzle_not_found")
		return
	}

	sess := game.New(p, game.WithNotifier(s.events.Notifier()))
	if _, err := s.store.Save(r.Context(), sess); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("save session")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	tok, exp, err := s.signToken(sess.ID)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("sign token")
		writeError(w, http.StatusInternalServerError, "sign_failed")
		return
	}
	s.setTokenCookie(w, tok, exp)

	hlog.FromRequest(r).Info().
		Str("gameId", sess.ID).
		Str("puzzle", p.ID).
		Bool("placeholder", p.IsPlaceholder()).
		Msg("game started")
	writeJSON(w, http.StatusOK, newGameRes{GameID: sess.ID, Token: tok, ExpiresAt: exp, View: sess.View()})
}

func (s *Server) resolvePuzzle(ctx context.Context, id string) (*puzzle.Puzzle, error) {
	if id == "" {
		_, today, err := s.dailyID(ctx)
		if err != nil {
			return catalog.Load(ctx, nil, ""), nil
		}
		return catalog.Load(ctx, s.puzzles, today), nil
	}
	if s.puzzles == nil {
		return catalog.Load(ctx, nil, id), nil
	}
	p, err := catalog.Fetch(ctx, s.puzzles, id)
	switch {
	case err == nil:
		return p, nil
	case errors.Is(err, catalog.ErrNotFound):
		return nil, err
	}
	zerolog.Ctx(ctx).Warn().Err(err).Str("puzzle", id).Msg("puzzle load failed, serving placeholder")
	return puzzle.Placeholder(), nil
}

// apply runs fn under the session lock, publishes the update to event
// subscribers and writes the reply.
func (s *Server) apply(w http.ResponseWriter, r *http.Request, fn func(sess *game.Session) (game.Update, error)) {
	rec := recordFrom(r)
	var res moveRes
	err := rec.Do(func(sess *game.Session) error {
		u, err := fn(sess)
		if err != nil {
			return err
		}
		res = moveRes{Update: u, View: sess.View()}
		return nil
	})
	switch {
	case errors.Is(err, errEntryNotFound):
		writeError(w, http.StatusNotFound, errEntryNotFound.Error())
		return
	case err != nil:
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if res.Update.Changed() {
		s.events.Publish(rec.ID(), "update", res.Update)
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	var v game.View
	_ = recordFrom(r).Do(func(sess *game.Session) error {
		v = sess.View()
		return nil
	})
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) handleEndGame(w http.ResponseWriter, r *http.Request) {
	_ = s.store.Delete(r.Context(), recordFrom(r).ID())
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

type selectReq struct {
	EntryID string `json:"entryId"`
	Row     *int   `json:"row"`
	Col     *int   `json:"col"`
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	var req selectReq
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	s.apply(w, r, func(sess *game.Session) (game.Update, error) {
		e := sess.Puzzle.Index.Entry(req.EntryID)
		if e == nil {
			return game.Update{}, errEntryNotFound
		}
		var at *puzzle.Coord
		if req.Row != nil && req.Col != nil {
			at = &puzzle.Coord{Row: *req.Row, Col: *req.Col}
		}
		return sess.SelectEntry(e, at), nil
	})
}

type advanceReq struct {
	Delta int `json:"delta"`
}

func (s *Server) handleAdvance(w http.ResponseWriter, r *http.Request) {
	var req advanceReq
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	s.apply(w, r, func(sess *game.Session) (game.Update, error) {
		return sess.Advance(req.Delta), nil
	})
}

type clickReq struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (s *Server) handleClick(w http.ResponseWriter, r *http.Request) {
	var req clickReq
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	s.apply(w, r, func(sess *game.Session) (game.Update, error) {
		return sess.Click(puzzle.Coord{Row: req.Row, Col: req.Col}), nil
	})
}

type keyReq struct {
	Key string `json:"key"`
}

func (s *Server) handleKey(w http.ResponseWriter, r *http.Request) {
	var req keyReq
	if err := decodeBody(r, &req); err != nil || req.Key == "" {
		writeError(w, http.StatusBadRequest, "bad_key")
		return
	}
	s.apply(w, r, func(sess *game.Session) (game.Update, error) {
		return sess.HandleKey(req.Key), nil
	})
}

type hintReq struct {
	Kind game.HintKind `json:"kind"`
}

func (s *Server) handleHint(w http.ResponseWriter, r *http.Request) {
	var req hintReq
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	switch req.Kind {
	case game.HintDefinition, game.HintAnalysis, game.HintLetter:
	default:
		writeError(w, http.StatusBadRequest, "bad_hint")
		return
	}
	s.apply(w, r, func(sess *game.Session) (game.Update, error) {
		return sess.Hint(req.Kind), nil
	})
}

type giveUpReq struct {
	EntryID string `json:"entryId"`
}

func (s *Server) handleGiveUp(w http.ResponseWriter, r *http.Request) {
	var req giveUpReq
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	s.apply(w, r, func(sess *game.Session) (game.Update, error) {
		if req.EntryID == "" {
			return sess.GiveUp(), nil
		}
		e := sess.Puzzle.Index.Entry(req.EntryID)
		if e == nil {
			return game.Update{}, errEntryNotFound
		}
		return sess.RevealEntry(e), nil
	})
}

func (s *Server) handleRestart(w http.ResponseWriter, r *http.Request) {
	s.apply(w, r, func(sess *game.Session) (game.Update, error) {
		return sess.Restart(), nil
	})
}

func (s *Server) handleShare(w http.ResponseWriter, r *http.Request) {
	var text string
	_ = recordFrom(r).Do(func(sess *game.Session) error {
		text = sess.Share()
		return nil
	})
	writeJSON(w, http.StatusOK, map[string]string{"text": text})
}
