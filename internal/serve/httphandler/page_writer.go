package httphandler

import (
	"fmt"
	"math/big"
	"net/http"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/estatemarket/estate-frontend/internal/serve/auth"
	"github.com/estatemarket/estate-frontend/internal/serve/render"
)

// PageWriter bundles the session manager and renderer every page handler
// needs. Save must run before any body or redirect write, so both helpers
// persist the session first.
type PageWriter struct {
	SessionManager *auth.SessionManager
	Renderer       *render.Renderer
}

func (p PageWriter) renderPage(w http.ResponseWriter, session *auth.Session, name string, data any) {
	page := render.PageData{
		Account: session.Account,
		Flashes: session.ConsumeFlashes(),
		Data:    data,
	}
	if err := p.SessionManager.Save(w, session); err != nil {
		logrus.WithError(err).Error("saving session")
	}
	if err := p.Renderer.Render(w, name, page); err != nil {
		logrus.WithError(err).WithField("template", name).Error("rendering page")
	}
}

func (p PageWriter) redirect(w http.ResponseWriter, r *http.Request, session *auth.Session, url string) {
	if err := p.SessionManager.Save(w, session); err != nil {
		logrus.WithError(err).Error("saving session")
	}
	http.Redirect(w, r, url, http.StatusFound)
}

// parseID parses a non-negative decimal integer form field, as used for
// estate and ad identifiers and sizes.
func parseID(value string) (*big.Int, error) {
	value = strings.TrimSpace(value)
	n, ok := new(big.Int).SetString(value, 10)
	if !ok || n.Sign() < 0 {
		return nil, fmt.Errorf("not a non-negative integer: %q", value)
	}
	return n, nil
}

// parseUint8Field parses a small status or type code.
func parseUint8Field(value string) (uint8, error) {
	n, err := strconv.ParseUint(strings.TrimSpace(value), 10, 8)
	if err != nil {
		return 0, fmt.Errorf("not a code between 0 and 255: %q", value)
	}
	return uint8(n), nil
}

// parseBoolFlag parses an integer flag field; any non-zero value is true.
func parseBoolFlag(value string) (bool, error) {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return false, fmt.Errorf("not an integer flag: %q", value)
	}
	return n != 0, nil
}
