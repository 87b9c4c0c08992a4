package httphandler

import (
	"fmt"
	"net/http"

	"github.com/ethereum/go-ethereum/common"

	"github.com/estatemarket/estate-frontend/internal/serve/auth"
	"github.com/estatemarket/estate-frontend/internal/services"
	"github.com/estatemarket/estate-frontend/internal/wei"
)

// TransactionHandler serves the seven transacting forms. Every POST follows
// the same shape: parse and convert the form fields, submit the transaction
// with the session account as the sender, and either re-render the form with
// the failure flashed or flash the transaction hash and redirect to the
// dashboard. Submission success means accepted for broadcast, not mined.
type TransactionHandler struct {
	PageWriter
	ContractService services.ContractService
}

func (h TransactionHandler) sender(session *auth.Session) common.Address {
	return common.HexToAddress(session.Account)
}

// invalidInput flashes a conversion failure and re-renders the form. The
// action is never attempted.
func (h TransactionHandler) invalidInput(w http.ResponseWriter, session *auth.Session, formName, field string, err error) {
	session.Flash(auth.FlashDanger, fmt.Sprintf("Invalid %s: %s", field, err))
	h.renderPage(w, session, formName, nil)
}

// submitFailed flashes the node or contract failure verbatim and re-renders
// the form.
func (h TransactionHandler) submitFailed(w http.ResponseWriter, session *auth.Session, formName string, err error) {
	session.Flash(auth.FlashDanger, err.Error())
	h.renderPage(w, session, formName, nil)
}

// submitted flashes the transaction hash and lands back on the dashboard.
func (h TransactionHandler) submitted(w http.ResponseWriter, r *http.Request, session *auth.Session, txHash common.Hash) {
	session.Flash(auth.FlashSuccess, fmt.Sprintf("Transaction %s submitted.", txHash.Hex()))
	h.redirect(w, r, session, "/dashboard")
}

func (h TransactionHandler) SendETHForm(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, auth.SessionFromContext(r.Context()), "send_eth.html", nil)
}

func (h TransactionHandler) SendETH(w http.ResponseWriter, r *http.Request) {
	session := auth.SessionFromContext(r.Context())

	amount, err := wei.ParseEther(r.PostFormValue("amount"))
	if err != nil {
		h.invalidInput(w, session, "send_eth.html", "amount", err)
		return
	}

	txHash, err := h.ContractService.ToPay(h.sender(session), amount)
	if err != nil {
		h.submitFailed(w, session, "send_eth.html", err)
		return
	}
	h.submitted(w, r, session, txHash)
}

func (h TransactionHandler) WithdrawForm(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, auth.SessionFromContext(r.Context()), "withdraw.html", nil)
}

func (h TransactionHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	session := auth.SessionFromContext(r.Context())

	amount, err := wei.ParseEther(r.PostFormValue("amount"))
	if err != nil {
		h.invalidInput(w, session, "withdraw.html", "amount", err)
		return
	}

	txHash, err := h.ContractService.Withdraw(h.sender(session), amount)
	if err != nil {
		h.submitFailed(w, session, "withdraw.html", err)
		return
	}
	h.submitted(w, r, session, txHash)
}

func (h TransactionHandler) CreateEstateForm(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, auth.SessionFromContext(r.Context()), "create_estate.html", nil)
}

func (h TransactionHandler) CreateEstate(w http.ResponseWriter, r *http.Request) {
	session := auth.SessionFromContext(r.Context())

	size, err := parseID(r.PostFormValue("size"))
	if err != nil {
		h.invalidInput(w, session, "create_estate.html", "size", err)
		return
	}
	physicalAddress := r.PostFormValue("address")
	if physicalAddress == "" {
		h.invalidInput(w, session, "create_estate.html", "address", fmt.Errorf("must not be empty"))
		return
	}
	estateType, err := parseUint8Field(r.PostFormValue("es_type"))
	if err != nil {
		h.invalidInput(w, session, "create_estate.html", "type code", err)
		return
	}

	txHash, err := h.ContractService.CreateEstate(h.sender(session), size, physicalAddress, estateType)
	if err != nil {
		h.submitFailed(w, session, "create_estate.html", err)
		return
	}
	h.submitted(w, r, session, txHash)
}

func (h TransactionHandler) CreateAdForm(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, auth.SessionFromContext(r.Context()), "create_ad.html", nil)
}

func (h TransactionHandler) CreateAd(w http.ResponseWriter, r *http.Request) {
	session := auth.SessionFromContext(r.Context())

	estateID, err := parseID(r.PostFormValue("id_estate"))
	if err != nil {
		h.invalidInput(w, session, "create_ad.html", "estate ID", err)
		return
	}
	price, err := wei.ParseEther(r.PostFormValue("price"))
	if err != nil {
		h.invalidInput(w, session, "create_ad.html", "price", err)
		return
	}

	txHash, err := h.ContractService.CreateAd(h.sender(session), estateID, price)
	if err != nil {
		h.submitFailed(w, session, "create_ad.html", err)
		return
	}
	h.submitted(w, r, session, txHash)
}

// BuyEstateForm renders the purchase form together with the current ads, so
// the user can pick an ad ID without leaving the page.
func (h TransactionHandler) BuyEstateForm(w http.ResponseWriter, r *http.Request) {
	session := auth.SessionFromContext(r.Context())

	ads, err := h.ContractService.GetAds()
	if err != nil {
		session.Flash(auth.FlashDanger, fmt.Sprintf("Could not fetch the ads: %s", err))
		ads = nil
	}
	h.renderPage(w, session, "buy_estate.html", adsPage{Ads: ads})
}

func (h TransactionHandler) BuyEstate(w http.ResponseWriter, r *http.Request) {
	session := auth.SessionFromContext(r.Context())

	adID, err := parseID(r.PostFormValue("id_ad"))
	if err != nil {
		session.Flash(auth.FlashDanger, fmt.Sprintf("Invalid ad ID: %s", err))
		h.renderPage(w, session, "buy_estate.html", adsPage{})
		return
	}

	txHash, err := h.ContractService.BuyEstate(h.sender(session), adID)
	if err != nil {
		session.Flash(auth.FlashDanger, err.Error())
		h.renderPage(w, session, "buy_estate.html", adsPage{})
		return
	}
	h.submitted(w, r, session, txHash)
}

func (h TransactionHandler) UpdateStatusForm(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, auth.SessionFromContext(r.Context()), "update_status.html", nil)
}

func (h TransactionHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	session := auth.SessionFromContext(r.Context())

	estateID, err := parseID(r.PostFormValue("id_estate"))
	if err != nil {
		h.invalidInput(w, session, "update_status.html", "estate ID", err)
		return
	}
	isActive, err := parseBoolFlag(r.PostFormValue("new_status"))
	if err != nil {
		h.invalidInput(w, session, "update_status.html", "status", err)
		return
	}

	txHash, err := h.ContractService.UpdateEstateStatus(h.sender(session), estateID, isActive)
	if err != nil {
		h.submitFailed(w, session, "update_status.html", err)
		return
	}
	h.submitted(w, r, session, txHash)
}

func (h TransactionHandler) UpdateAdStatusForm(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, auth.SessionFromContext(r.Context()), "update_ad_status.html", nil)
}

func (h TransactionHandler) UpdateAdStatus(w http.ResponseWriter, r *http.Request) {
	session := auth.SessionFromContext(r.Context())

	adID, err := parseID(r.PostFormValue("id_ad"))
	if err != nil {
		h.invalidInput(w, session, "update_ad_status.html", "ad ID", err)
		return
	}
	status, err := parseUint8Field(r.PostFormValue("new_status"))
	if err != nil {
		h.invalidInput(w, session, "update_ad_status.html", "status code", err)
		return
	}

	txHash, err := h.ContractService.UpdateAdStatus(h.sender(session), adID, status)
	if err != nil {
		h.submitFailed(w, session, "update_ad_status.html", err)
		return
	}
	h.submitted(w, r, session, txHash)
}
