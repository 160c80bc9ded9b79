// apps/go-server/internal/httpserver/token.go
//
// Game session tokens.
// POST /game/new signs an HS256 JWT carrying the session id ("sid"). The
// token is returned in the body and set as an HttpOnly cookie; later requests
// present it as "Authorization: Bearer <token>" or via the cookie.

package httpserver

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/robalobadob/cryptic/apps/go-server/internal/store"
)

var errBadToken = errors.New("invalid token")

// ctxRecordKey is the context key for the request's *store.Record.
type ctxRecordKey struct{}

func (s *Server) tokenTTL() time.Duration {
	if s.cfg.SessionTTL > 0 {
		return s.cfg.SessionTTL
	}
	return 12 * time.Hour
}

// signToken creates an HS256 JWT for session id.
func (s *Server) signToken(sid string) (string, time.Time, error) {
	now := s.now()
	exp := now.Add(s.tokenTTL())
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sid": sid,
		"exp": exp.Unix(),
		"iat": now.Unix(),
	})
	ss, err := t.SignedString([]byte(s.cfg.JWTSecret))
	return ss, exp, err
}

// parseToken verifies tok and returns its session id.
func (s *Server) parseToken(tok string) (string, error) {
	claims := jwt.MapClaims{}
	t, err := jwt.ParseWithClaims(tok, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !t.Valid {
		return "", errBadToken
	}
	sid, _ := claims["sid"].(string)
	if sid == "" {
		return "", errBadToken
	}
	return sid, nil
}

// setTokenCookie writes the session cookie with appropriate security attributes.
func (s *Server) setTokenCookie(w http.ResponseWriter, token string, exp time.Time) {
	sameSite := http.SameSiteLaxMode
	if s.cfg.Production {
		sameSite = http.SameSiteNoneMode // required for third-party contexts when Secure
	}
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName(),
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.cfg.Production,
		SameSite: sameSite,
		Expires:  exp,
	})
}

func (s *Server) cookieName() string {
	if s.cfg.CookieName != "" {
		return s.cfg.CookieName
	}
	return "cryptic_token"
}

// bearerOrCookie extracts a bearer token from the Authorization header or
// the session cookie. EventSource clients cannot set headers, so ?token= is
// accepted too.
func (s *Server) bearerOrCookie(r *http.Request) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	if c, err := r.Cookie(s.cookieName()); err == nil {
		return c.Value
	}
	return r.URL.Query().Get("token")
}

// withSession enforces a valid token for a live session and injects the
// session record into the request context.
func (s *Server) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tok := s.bearerOrCookie(r)
		if tok == "" {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		sid, err := s.parseToken(tok)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid_token")
			return
		}
		rec, err := s.store.Get(r.Context(), sid)
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "game_not_found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "store_error")
			return
		}
		ctx := context.WithValue(r.Context(), ctxRecordKey{}, rec)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// recordFrom returns the session record placed by withSession.
func recordFrom(r *http.Request) *store.Record {
	rec, _ := r.Context().Value(ctxRecordKey{}).(*store.Record)
	return rec
}
