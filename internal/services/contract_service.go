package services

import (
	_ "embed"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/estatemarket/estate-frontend/internal/entities"
)

// DefaultContractABI is the marketplace contract interface the gateway binds
// to when no override is supplied through configuration.
//
//go:embed contract_abi.json
var DefaultContractABI string

// ContractService is the typed gateway to the marketplace contract. Read
// operations run as eth_call against the latest state; mutating operations
// are submitted as transactions with the given account as the sending
// identity. Ownership, pricing and status rules are enforced by the contract
// itself, not here.
type ContractService interface {
	GetEstates() ([]entities.Estate, error)
	GetAds() ([]entities.Ad, error)
	GetBalance(account common.Address) (*big.Int, error)
	ToPay(from common.Address, amount *big.Int) (common.Hash, error)
	Withdraw(from common.Address, amount *big.Int) (common.Hash, error)
	CreateEstate(from common.Address, size *big.Int, physicalAddress string, estateType uint8) (common.Hash, error)
	CreateAd(from common.Address, estateID, price *big.Int) (common.Hash, error)
	BuyEstate(from common.Address, adID *big.Int) (common.Hash, error)
	UpdateEstateStatus(from common.Address, estateID *big.Int, isActive bool) (common.Hash, error)
	UpdateAdStatus(from common.Address, adID *big.Int, status uint8) (common.Hash, error)
}

type contractService struct {
	rpcService      RPCService
	contractAddress common.Address
	contractABI     abi.ABI
}

var _ ContractService = (*contractService)(nil)

func NewContractService(rpcService RPCService, contractAddress common.Address, abiJSON string) (*contractService, error) {
	if rpcService == nil {
		return nil, errors.New("rpcService is required")
	}
	if contractAddress == (common.Address{}) {
		return nil, errors.New("contractAddress is required")
	}

	parsedABI, err := abi.JSON(strings.NewReader(abiJSON))
	if err != nil {
		return nil, fmt.Errorf("parsing contract ABI: %w", err)
	}

	return &contractService{
		rpcService:      rpcService,
		contractAddress: contractAddress,
		contractABI:     parsedABI,
	}, nil
}

// estateRecord matches the components of the getEstates output tuple.
type estateRecord struct {
	Id            *big.Int
	Size          *big.Int
	EstateAddress string
	EstateType    uint8
	Owner         common.Address
	IsActive      bool
}

// adRecord matches the components of the getAds output tuple.
type adRecord struct {
	Id       *big.Int
	EstateId *big.Int
	Price    *big.Int
	Seller   common.Address
	Status   uint8
}

func (s *contractService) GetEstates() ([]entities.Estate, error) {
	out, err := s.call(nil, "getEstates")
	if err != nil {
		return nil, fmt.Errorf("calling getEstates: %w", err)
	}

	records := *abi.ConvertType(out[0], new([]estateRecord)).(*[]estateRecord)
	estates := make([]entities.Estate, 0, len(records))
	for _, rec := range records {
		estates = append(estates, entities.Estate{
			ID:              rec.Id,
			Size:            rec.Size,
			PhysicalAddress: rec.EstateAddress,
			EstateType:      rec.EstateType,
			Owner:           rec.Owner,
			IsActive:        rec.IsActive,
		})
	}
	return estates, nil
}

func (s *contractService) GetAds() ([]entities.Ad, error) {
	out, err := s.call(nil, "getAds")
	if err != nil {
		return nil, fmt.Errorf("calling getAds: %w", err)
	}

	records := *abi.ConvertType(out[0], new([]adRecord)).(*[]adRecord)
	ads := make([]entities.Ad, 0, len(records))
	for _, rec := range records {
		ads = append(ads, entities.Ad{
			ID:       rec.Id,
			EstateID: rec.EstateId,
			Price:    rec.Price,
			Seller:   rec.Seller,
			Status:   rec.Status,
		})
	}
	return ads, nil
}

// GetBalance returns the contract-held balance of the account. The account is
// the execution context of the call, mirroring how the contract's balance
// accessor resolves msg.sender.
func (s *contractService) GetBalance(account common.Address) (*big.Int, error) {
	out, err := s.call(&account, "getBalance")
	if err != nil {
		return nil, fmt.Errorf("calling getBalance: %w", err)
	}
	return *abi.ConvertType(out[0], new(*big.Int)).(**big.Int), nil
}

// ToPay deposits the attached amount into the contract for the account.
func (s *contractService) ToPay(from common.Address, amount *big.Int) (common.Hash, error) {
	return s.transact(from, amount, "toPay", from)
}

func (s *contractService) Withdraw(from common.Address, amount *big.Int) (common.Hash, error) {
	return s.transact(from, nil, "withdraw", amount)
}

func (s *contractService) CreateEstate(from common.Address, size *big.Int, physicalAddress string, estateType uint8) (common.Hash, error) {
	return s.transact(from, nil, "createEstate", size, physicalAddress, estateType)
}

func (s *contractService) CreateAd(from common.Address, estateID, price *big.Int) (common.Hash, error) {
	return s.transact(from, nil, "createAd", estateID, price)
}

func (s *contractService) BuyEstate(from common.Address, adID *big.Int) (common.Hash, error) {
	return s.transact(from, nil, "buyEstate", adID)
}

func (s *contractService) UpdateEstateStatus(from common.Address, estateID *big.Int, isActive bool) (common.Hash, error) {
	return s.transact(from, nil, "updateEstateStatus", estateID, isActive)
}

func (s *contractService) UpdateAdStatus(from common.Address, adID *big.Int, status uint8) (common.Hash, error) {
	return s.transact(from, nil, "updateAdStatus", adID, status)
}

func (s *contractService) call(from *common.Address, method string, args ...any) ([]any, error) {
	data, err := s.contractABI.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("packing %s arguments: %w", method, err)
	}

	to := s.contractAddress
	raw, err := s.rpcService.Call(entities.RPCTransactionParams{From: from, To: &to, Data: data})
	if err != nil {
		return nil, err
	}

	out, err := s.contractABI.Unpack(method, raw)
	if err != nil {
		return nil, fmt.Errorf("unpacking %s result: %w", method, err)
	}
	return out, nil
}

func (s *contractService) transact(from common.Address, value *big.Int, method string, args ...any) (common.Hash, error) {
	data, err := s.contractABI.Pack(method, args...)
	if err != nil {
		return common.Hash{}, fmt.Errorf("packing %s arguments: %w", method, err)
	}

	to := s.contractAddress
	params := entities.RPCTransactionParams{From: &from, To: &to, Data: data}
	if value != nil {
		params.Value = (*hexutil.Big)(value)
	}

	txHash, err := s.rpcService.SendTransaction(params)
	if err != nil {
		return common.Hash{}, fmt.Errorf("submitting %s transaction: %w", method, err)
	}
	return txHash, nil
}
