package httphandler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-playground/validator/v10"

	"github.com/estatemarket/estate-frontend/internal/serve/auth"
	"github.com/estatemarket/estate-frontend/internal/services"
	"github.com/estatemarket/estate-frontend/internal/validators"
)

// AuthHandler serves the entry page and the account lifecycle routes. Account
// credentials never touch this process beyond forwarding them to the node;
// the session only records which address unlocked successfully.
type AuthHandler struct {
	PageWriter
	RPCService services.RPCService
	Validator  *validator.Validate
}

type loginRequest struct {
	PublicKey string `validate:"required,eth_addr"`
	Password  string `validate:"required"`
}

type registerRequest struct {
	Password string `validate:"required,strong_password"`
}

// Index renders the entry page with the sign-in and register forms.
func (h AuthHandler) Index(w http.ResponseWriter, r *http.Request) {
	session := auth.SessionFromContext(r.Context())
	h.renderPage(w, session, "login.html", nil)
}

// Login asks the node to unlock the submitted account. On success the account
// becomes the session identity; on any failure the user lands back on the
// entry page with the reason flashed.
func (h AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	session := auth.SessionFromContext(r.Context())

	reqBody := loginRequest{
		PublicKey: r.PostFormValue("public_key"),
		Password:  r.PostFormValue("password"),
	}
	if !h.validateForm(session, reqBody) {
		h.redirect(w, r, session, "/")
		return
	}

	address := common.HexToAddress(reqBody.PublicKey)
	if err := h.RPCService.UnlockAccount(address, reqBody.Password); err != nil {
		if errors.Is(err, services.ErrUnlockFailed) {
			session.Flash(auth.FlashDanger, "Login failed: wrong password or unknown account.")
		} else {
			session.Flash(auth.FlashDanger, fmt.Sprintf("Login failed: %s", err))
		}
		h.redirect(w, r, session, "/")
		return
	}

	session.Account = address.Hex()
	session.Flash(auth.FlashSuccess, "You are signed in.")
	h.redirect(w, r, session, "/dashboard")
}

// Register asks the node to create a new account secured by the submitted
// password and flashes the generated address. It does not sign the user in.
func (h AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	session := auth.SessionFromContext(r.Context())

	reqBody := registerRequest{Password: r.PostFormValue("password")}
	if !h.validateForm(session, reqBody) {
		h.redirect(w, r, session, "/")
		return
	}

	address, err := h.RPCService.NewAccount(reqBody.Password)
	if err != nil {
		session.Flash(auth.FlashDanger, fmt.Sprintf("Could not create the account: %s", err))
		h.redirect(w, r, session, "/")
		return
	}

	session.Flash(auth.FlashSuccess, fmt.Sprintf("Account created: %s. Sign in with it above.", address.Hex()))
	h.redirect(w, r, session, "/")
}

// Dashboard is the landing page after login.
func (h AuthHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	session := auth.SessionFromContext(r.Context())
	h.renderPage(w, session, "dashboard.html", nil)
}

// Logout drops the session unconditionally.
func (h AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.SessionManager.Clear(w)
	http.Redirect(w, r, "/", http.StatusFound)
}

// validateForm runs the struct validation rules and flashes every field
// failure. It reports whether the form passed.
func (h AuthHandler) validateForm(session *auth.Session, reqBody any) bool {
	err := h.Validator.Struct(reqBody)
	if err == nil {
		return true
	}

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		for _, msg := range validators.ParseValidationError(validationErrs) {
			session.Flash(auth.FlashDanger, msg)
		}
	} else {
		session.Flash(auth.FlashDanger, "Invalid form input.")
	}
	return false
}
