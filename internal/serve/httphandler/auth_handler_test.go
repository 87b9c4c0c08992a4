package httphandler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/estatemarket/estate-frontend/internal/serve/auth"
	"github.com/estatemarket/estate-frontend/internal/services"
	"github.com/estatemarket/estate-frontend/internal/validators"
)

func newAuthHandler(t *testing.T, mRPCService *services.MockRPCService) AuthHandler {
	t.Helper()
	return AuthHandler{
		PageWriter: newTestPageWriter(t),
		RPCService: mRPCService,
		Validator:  validators.NewValidator(),
	}
}

func TestAuthHandlerIndex(t *testing.T) {
	handler := newAuthHandler(t, &services.MockRPCService{})

	session := &auth.Session{}
	session.Flash(auth.FlashDanger, "Login failed: wrong password or unknown account.")
	rec := httptest.NewRecorder()

	handler.Index(rec, newSessionRequest(http.MethodGet, "/", nil, session))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Sign in")
	assert.Contains(t, rec.Body.String(), "Login failed: wrong password or unknown account.")
}

func TestAuthHandlerLogin(t *testing.T) {
	address := common.HexToAddress(testAccount)

	t.Run("successful_unlock_starts_session", func(t *testing.T) {
		mRPCService := &services.MockRPCService{}
		mRPCService.On("UnlockAccount", address, "secret-pass").Return(nil).Once()
		defer mRPCService.AssertExpectations(t)
		handler := newAuthHandler(t, mRPCService)

		form := url.Values{"public_key": {testAccount}, "password": {"secret-pass"}}
		rec := httptest.NewRecorder()
		handler.Login(rec, newSessionRequest(http.MethodPost, "/login", form, &auth.Session{}))

		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/dashboard", rec.Header().Get("Location"))

		saved := sessionFromRecorder(t, handler.SessionManager, rec)
		assert.Equal(t, address.Hex(), saved.Account)
		flashes := saved.ConsumeFlashes()
		require.Len(t, flashes, 1)
		assert.Equal(t, auth.FlashSuccess, flashes[0].Level)
	})

	t.Run("malformed_address_never_reaches_the_node", func(t *testing.T) {
		mRPCService := &services.MockRPCService{}
		handler := newAuthHandler(t, mRPCService)

		form := url.Values{"public_key": {"not-an-address"}, "password": {"secret-pass"}}
		rec := httptest.NewRecorder()
		handler.Login(rec, newSessionRequest(http.MethodPost, "/login", form, &auth.Session{}))

		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/", rec.Header().Get("Location"))
		mRPCService.AssertNotCalled(t, "UnlockAccount")

		saved := sessionFromRecorder(t, handler.SessionManager, rec)
		assert.False(t, saved.LoggedIn())
		flashes := saved.ConsumeFlashes()
		require.Len(t, flashes, 1)
		assert.Equal(t, auth.FlashDanger, flashes[0].Level)
	})

	t.Run("refused_unlock_flashes_and_returns_to_entry_page", func(t *testing.T) {
		mRPCService := &services.MockRPCService{}
		mRPCService.On("UnlockAccount", address, "wrong-pass").Return(services.ErrUnlockFailed).Once()
		defer mRPCService.AssertExpectations(t)
		handler := newAuthHandler(t, mRPCService)

		form := url.Values{"public_key": {testAccount}, "password": {"wrong-pass"}}
		rec := httptest.NewRecorder()
		handler.Login(rec, newSessionRequest(http.MethodPost, "/login", form, &auth.Session{}))

		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/", rec.Header().Get("Location"))

		saved := sessionFromRecorder(t, handler.SessionManager, rec)
		assert.False(t, saved.LoggedIn())
		flashes := saved.ConsumeFlashes()
		require.Len(t, flashes, 1)
		assert.Contains(t, flashes[0].Message, "wrong password or unknown account")
	})

	t.Run("node_failure_is_flashed", func(t *testing.T) {
		mRPCService := &services.MockRPCService{}
		mRPCService.On("UnlockAccount", address, "secret-pass").Return(errors.New("connection refused")).Once()
		defer mRPCService.AssertExpectations(t)
		handler := newAuthHandler(t, mRPCService)

		form := url.Values{"public_key": {testAccount}, "password": {"secret-pass"}}
		rec := httptest.NewRecorder()
		handler.Login(rec, newSessionRequest(http.MethodPost, "/login", form, &auth.Session{}))

		assert.Equal(t, http.StatusFound, rec.Code)
		saved := sessionFromRecorder(t, handler.SessionManager, rec)
		flashes := saved.ConsumeFlashes()
		require.Len(t, flashes, 1)
		assert.Contains(t, flashes[0].Message, "connection refused")
	})
}

func TestAuthHandlerRegister(t *testing.T) {
	t.Run("weak_password_is_rejected_locally", func(t *testing.T) {
		mRPCService := &services.MockRPCService{}
		handler := newAuthHandler(t, mRPCService)

		form := url.Values{"password": {"short"}}
		rec := httptest.NewRecorder()
		handler.Register(rec, newSessionRequest(http.MethodPost, "/register", form, &auth.Session{}))

		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/", rec.Header().Get("Location"))
		mRPCService.AssertNotCalled(t, "NewAccount")

		saved := sessionFromRecorder(t, handler.SessionManager, rec)
		flashes := saved.ConsumeFlashes()
		require.Len(t, flashes, 1)
		assert.Contains(t, flashes[0].Message, "Password is too weak")
	})

	t.Run("strong_password_creates_an_account", func(t *testing.T) {
		address := common.HexToAddress(testAccount)
		mRPCService := &services.MockRPCService{}
		mRPCService.On("NewAccount", "Str0ng&Secret#1").Return(address, nil).Once()
		defer mRPCService.AssertExpectations(t)
		handler := newAuthHandler(t, mRPCService)

		form := url.Values{"password": {"Str0ng&Secret#1"}}
		rec := httptest.NewRecorder()
		handler.Register(rec, newSessionRequest(http.MethodPost, "/register", form, &auth.Session{}))

		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/", rec.Header().Get("Location"))

		saved := sessionFromRecorder(t, handler.SessionManager, rec)
		assert.False(t, saved.LoggedIn(), "registration must not auto-login")
		flashes := saved.ConsumeFlashes()
		require.Len(t, flashes, 1)
		assert.Contains(t, flashes[0].Message, address.Hex())
	})

	t.Run("node_failure_is_flashed", func(t *testing.T) {
		mRPCService := &services.MockRPCService{}
		mRPCService.On("NewAccount", "Str0ng&Secret#1").Return(common.Address{}, errors.New("keystore unavailable")).Once()
		defer mRPCService.AssertExpectations(t)
		handler := newAuthHandler(t, mRPCService)

		form := url.Values{"password": {"Str0ng&Secret#1"}}
		rec := httptest.NewRecorder()
		handler.Register(rec, newSessionRequest(http.MethodPost, "/register", form, &auth.Session{}))

		saved := sessionFromRecorder(t, handler.SessionManager, rec)
		flashes := saved.ConsumeFlashes()
		require.Len(t, flashes, 1)
		assert.Contains(t, flashes[0].Message, "keystore unavailable")
	})
}

func TestAuthHandlerDashboard(t *testing.T) {
	handler := newAuthHandler(t, &services.MockRPCService{})

	session := &auth.Session{Account: testAccount}
	rec := httptest.NewRecorder()
	handler.Dashboard(rec, newSessionRequest(http.MethodGet, "/dashboard", nil, session))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Signed in as "+testAccount)
}

func TestAuthHandlerLogout(t *testing.T) {
	handler := newAuthHandler(t, &services.MockRPCService{})

	session := &auth.Session{Account: testAccount}
	rec := httptest.NewRecorder()
	handler.Logout(rec, newSessionRequest(http.MethodGet, "/logout", nil, session))

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, auth.SessionCookieName, cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.Negative(t, cookies[0].MaxAge)
}
