// ABOUTME: Bearer-token middleware guarding the authenticated API routes
// ABOUTME: The token must belong to the user holding the active session

package api

import (
	"net/http"
	"strings"
)

// extractBearerToken pulls a bearer token out of the Authorization header.
// Returns the token and an error message (empty if successful).
func extractBearerToken(authHeader string) (string, string) {
	if authHeader == "" {
		return "", "missing authorization header"
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", "invalid authorization header format"
	}
	token := strings.TrimPrefix(authHeader, "Bearer ")
	if token == "" {
		return "", "empty token"
	}
	return token, ""
}

// requireSession verifies the bearer token and checks that it was issued for
// the user holding the active session. There is one session per process, so
// a valid token for a logged-out user is still rejected.
func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, errMsg := extractBearerToken(r.Header.Get("Authorization"))
		if errMsg != "" {
			s.writeError(w, http.StatusUnauthorized, errMsg)
			return
		}

		userID, err := s.auth.VerifyToken(token)
		if err != nil {
			s.writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		current := s.auth.CurrentUser()
		if current == nil || current.ID != userID {
			s.writeError(w, http.StatusUnauthorized, "no active session for token")
			return
		}

		next.ServeHTTP(w, r)
	})
}
