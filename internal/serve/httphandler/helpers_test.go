package httphandler

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/estatemarket/estate-frontend/internal/serve/auth"
	"github.com/estatemarket/estate-frontend/internal/serve/render"
)

const testAccount = "0x00000000000000000000000000000000000000aa"

func newTestPageWriter(t *testing.T) PageWriter {
	t.Helper()

	sessionManager, err := auth.NewSessionManager("test-secret", 0)
	require.NoError(t, err)
	renderer, err := render.NewRenderer()
	require.NoError(t, err)

	return PageWriter{SessionManager: sessionManager, Renderer: renderer}
}

// newSessionRequest builds a request carrying the given session in its
// context, the way the session middleware would. A nil form means no body.
func newSessionRequest(method, target string, form url.Values, session *auth.Session) *http.Request {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	return req.WithContext(auth.WithSession(req.Context(), session))
}

// sessionFromRecorder loads the session a handler persisted into the
// response cookies, so tests can assert on the account and queued flashes.
func sessionFromRecorder(t *testing.T, sessionManager *auth.SessionManager, rec *httptest.ResponseRecorder) *auth.Session {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Value != "" {
			req.AddCookie(cookie)
		}
	}
	return sessionManager.Load(req)
}
