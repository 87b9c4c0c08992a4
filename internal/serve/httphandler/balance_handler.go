package httphandler

import (
	"fmt"
	"net/http"

	"github.com/ethereum/go-ethereum/common"

	"github.com/estatemarket/estate-frontend/internal/serve/auth"
	"github.com/estatemarket/estate-frontend/internal/services"
	"github.com/estatemarket/estate-frontend/internal/wei"
)

// BalanceHandler serves the two balance pages. A failed query still renders
// the page, with the balance absent and the failure flashed.
type BalanceHandler struct {
	PageWriter
	RPCService      services.RPCService
	ContractService services.ContractService
}

type balancePage struct {
	BalanceType string
	Balance     string
}

// AccountBalance shows the native-currency balance of the session account.
func (h BalanceHandler) AccountBalance(w http.ResponseWriter, r *http.Request) {
	session := auth.SessionFromContext(r.Context())

	page := balancePage{BalanceType: "account"}
	balance, err := h.RPCService.GetBalance(common.HexToAddress(session.Account))
	if err != nil {
		session.Flash(auth.FlashDanger, fmt.Sprintf("Could not fetch the account balance: %s", err))
	} else {
		page.Balance = wei.FormatEther(balance)
	}
	h.renderPage(w, session, "balance.html", page)
}

// ContractBalance shows the balance the contract holds for the session
// account.
func (h BalanceHandler) ContractBalance(w http.ResponseWriter, r *http.Request) {
	session := auth.SessionFromContext(r.Context())

	page := balancePage{BalanceType: "contract"}
	balance, err := h.ContractService.GetBalance(common.HexToAddress(session.Account))
	if err != nil {
		session.Flash(auth.FlashDanger, fmt.Sprintf("Could not fetch the contract balance: %s", err))
	} else {
		page.Balance = wei.FormatEther(balance)
	}
	h.renderPage(w, session, "balance.html", page)
}
