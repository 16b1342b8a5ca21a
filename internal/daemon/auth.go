package daemon

import (
	"net/http"
	"strings"
)

// requireAuth wraps next with bearer-token validation. An empty token
// disables authentication and every request passes through.
func (s *apiServer) requireAuth(token string, next http.HandlerFunc) http.HandlerFunc {
	if token == "" {
		return next
	}
	return func(w http.ResponseWriter, r *http.Request) {
		presented, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || presented != token {
			s.writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next(w, r)
	}
}
