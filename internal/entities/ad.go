package entities

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/estatemarket/estate-frontend/internal/wei"
)

// Ad is the read-only projection of a sale advertisement held by the
// marketplace contract. Price is denominated in wei.
type Ad struct {
	ID       *big.Int
	EstateID *big.Int
	Price    *big.Int
	Seller   common.Address
	Status   uint8
}

// PriceEther renders the ad price in the display unit for templates.
func (a Ad) PriceEther() string {
	return wei.FormatEther(a.Price)
}
