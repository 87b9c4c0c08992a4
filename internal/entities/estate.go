package entities

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Estate is the read-only projection of an estate record held by the
// marketplace contract. It is fetched fresh on every request and never cached.
type Estate struct {
	ID              *big.Int
	Size            *big.Int
	PhysicalAddress string
	EstateType      uint8
	Owner           common.Address
	IsActive        bool
}
