package httphandler

import (
	"fmt"
	"net/http"

	"github.com/estatemarket/estate-frontend/internal/entities"
	"github.com/estatemarket/estate-frontend/internal/serve/auth"
	"github.com/estatemarket/estate-frontend/internal/services"
)

// ListingHandler serves the public estate and ad listings. Both are fetched
// fresh from the contract on every request; a failed fetch renders an empty
// listing with the failure flashed.
type ListingHandler struct {
	PageWriter
	ContractService services.ContractService
}

type estatesPage struct {
	Estates []entities.Estate
}

type adsPage struct {
	Ads []entities.Ad
}

func (h ListingHandler) EstatesInfo(w http.ResponseWriter, r *http.Request) {
	session := auth.SessionFromContext(r.Context())

	estates, err := h.ContractService.GetEstates()
	if err != nil {
		session.Flash(auth.FlashDanger, fmt.Sprintf("Could not fetch the estates: %s", err))
		estates = nil
	}
	h.renderPage(w, session, "estates_info.html", estatesPage{Estates: estates})
}

func (h ListingHandler) AdsInfo(w http.ResponseWriter, r *http.Request) {
	session := auth.SessionFromContext(r.Context())

	ads, err := h.ContractService.GetAds()
	if err != nil {
		session.Flash(auth.FlashDanger, fmt.Sprintf("Could not fetch the ads: %s", err))
		ads = nil
	}
	h.renderPage(w, session, "ads_info.html", adsPage{Ads: ads})
}
