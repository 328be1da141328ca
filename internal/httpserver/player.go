// internal/httpserver/player.go
//
// Player identity for game routes.
//
// A player is an opaque UUID carried in an HS256 JWT (subject claim), read
// from "Authorization: Bearer <token>" or the player cookie. withPlayer mints
// a token for first-time visitors; requirePlayer rejects requests without a
// valid one. There are no accounts: the token only links finished games to
// the same browser or API client.

package httpserver

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const playerCookieName = "termo_player"

type ctxPlayerKey struct{}

// playerID returns the player placed in the request context, if any.
func playerID(r *http.Request) string {
	id, _ := r.Context().Value(ctxPlayerKey{}).(string)
	return id
}

// signPlayerToken creates an HS256 token for id, valid for cfg.JWTExpiry.
func (s *Server) signPlayerToken(id string) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(s.cfg.JWTExpiry)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   id,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	ss, err := t.SignedString([]byte(s.cfg.JWTSecret))
	return ss, exp, err
}

// parsePlayerToken validates tok and returns its subject.
func (s *Server) parsePlayerToken(tok string) (string, bool) {
	claims := &jwt.RegisteredClaims{}
	t, err := jwt.ParseWithClaims(tok, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !t.Valid || claims.Subject == "" {
		return "", false
	}
	return claims.Subject, true
}

// bearerOrCookie extracts a bearer token from Authorization header or the player cookie.
func bearerOrCookie(r *http.Request) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	if c, err := r.Cookie(playerCookieName); err == nil {
		return c.Value
	}
	return ""
}

// withPlayer puts the caller's player ID in the context, minting a new
// player (cookie + X-Player-Token header) when the request carries none.
func (s *Server) withPlayer() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := s.parsePlayerToken(bearerOrCookie(r))
			if !ok {
				id = uuid.NewString()
				tok, exp, err := s.signPlayerToken(id)
				if err != nil {
					log.Error().Err(err).Msg("sign player token")
					writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "sign_failed"})
					return
				}
				http.SetCookie(w, &http.Cookie{
					Name:     playerCookieName,
					Value:    tok,
					Path:     "/",
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
					Expires:  exp,
				})
				w.Header().Set("X-Player-Token", tok)
			}
			ctx := context.WithValue(r.Context(), ctxPlayerKey{}, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// requirePlayer enforces a valid player token.
func (s *Server) requirePlayer() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := s.parsePlayerToken(bearerOrCookie(r))
			if !ok {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
				return
			}
			ctx := context.WithValue(r.Context(), ctxPlayerKey{}, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
