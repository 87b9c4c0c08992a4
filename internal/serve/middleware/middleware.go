package middleware

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/estatemarket/estate-frontend/internal/serve/auth"
)

// SessionMiddleware loads the signed session cookie and stores the
// resulting session in the request context. Requests without a valid
// cookie proceed with an anonymous session.
func SessionMiddleware(sessionManager *auth.SessionManager) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
			session := sessionManager.Load(req)
			next.ServeHTTP(rw, req.WithContext(auth.WithSession(req.Context(), session)))
		})
	}
}

// RequireSession redirects anonymous requests to the login page. It
// must run after SessionMiddleware.
func RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
		session := auth.SessionFromContext(req.Context())
		if !session.LoggedIn() {
			http.Redirect(rw, req, "/", http.StatusFound)
			return
		}
		next.ServeHTTP(rw, req)
	})
}

// RecoverHandler converts panics into a 500 response instead of
// tearing down the connection.
func RecoverHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
		defer func() {
			if r := recover(); r != nil {
				logrus.WithField("panic", r).Error("panic while serving request")
				http.Error(rw, "An error occurred while processing this request.", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(rw, req)
	})
}
