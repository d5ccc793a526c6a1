package http

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/svthalia/concrexit-sub001/internal/logger"
)

// withAdminToken rejects requests whose bearer token does not equal the
// configured admin token with 401 Unauthorized.
func (h *Handler) withAdminToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			log.Err(ErrEmptyAuthorizationHeader).Str("func", "*Handler.withAdminToken").Send()
			http.Error(w, ErrEmptyAuthorizationHeader.Error(), http.StatusUnauthorized)
			return
		}

		token, err := getTokenFromAuthHeader(authHeader)
		if err != nil {
			log.Err(err).Str("func", "*Handler.withAdminToken").Send()
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}

		if subtle.ConstantTimeCompare([]byte(token), []byte(h.settings.AdminToken)) != 1 {
			log.Warn().Str("func", "*Handler.withAdminToken").Msg("admin token rejected")
			http.Error(w, ErrInvalidToken.Error(), http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// getTokenFromAuthHeader extracts the token of a "<scheme> <token>" header.
func getTokenFromAuthHeader(authHeader string) (string, error) {
	parts := strings.Split(authHeader, " ")
	if len(parts) < 2 {
		return "", ErrInvalidAuthorizationHeader
	}

	token := parts[1]
	if token == "" {
		return "", ErrEmptyToken
	}

	return token, nil
}
