package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"bloodaid/internal/policy"
	"bloodaid/pkg/types"

	"github.com/sirupsen/logrus"
)

// Context key types to avoid collisions
type contextKey string

const contextKeyEmail contextKey = "email"

const accessTokenCookieName = "bloodaid_access_token"

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (s *Service) LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		s.logger.WithFields(logrus.Fields{
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      rw.statusCode,
			"duration_ms": time.Since(started).Milliseconds(),
		}).Info("http request")
	})
}

// RequireAuth resolves the caller's credential to a verified email
// and stores it on the request context. The credential comes from the
// Authorization header, falling back to the encrypted session cookie
// set by login.
func (s *Service) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		credential := bearerToken(r)

		if credential == "" {
			cookie, err := r.Cookie(accessTokenCookieName)
			if err == nil {
				if err := s.cookie.Decode(accessTokenCookieName, cookie.Value, &credential); err != nil {
					s.logger.WithError(err).Debug("failed to decrypt access token cookie")
				}
			}
		}

		if credential == "" {
			s.respondError(w, types.ErrUnauthorized)
			return
		}

		email, err := s.verifier.Verify(r.Context(), credential)
		if err != nil {
			s.logger.WithError(err).Debug("credential verification failed")
			s.respondError(w, types.ErrUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), contextKeyEmail, email)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin gates the admin route group. Runs after RequireAuth.
func (s *Service) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		caller, err := s.caller(r)
		if err != nil {
			s.respondError(w, err)
			return
		}

		if err := policy.Authorize(caller.Role, policy.ActionManageAccounts); err != nil {
			s.respondError(w, err)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Service) StripTrailingSlash(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path

		if path != "/" && strings.HasSuffix(path, "/") {
			newPath := strings.TrimSuffix(path, "/")
			newURL := *r.URL
			newURL.Path = newPath

			http.Redirect(w, r, newURL.String(), http.StatusMovedPermanently)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}
