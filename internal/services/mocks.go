package services

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/mock"

	"github.com/estatemarket/estate-frontend/internal/entities"
)

// MockRPCService is a mock implementation of RPCService
type MockRPCService struct {
	mock.Mock
}

var _ RPCService = (*MockRPCService)(nil)

func (m *MockRPCService) UnlockAccount(address common.Address, password string) error {
	args := m.Called(address, password)
	return args.Error(0)
}

func (m *MockRPCService) NewAccount(password string) (common.Address, error) {
	args := m.Called(password)
	return args.Get(0).(common.Address), args.Error(1)
}

func (m *MockRPCService) GetBalance(address common.Address) (*big.Int, error) {
	args := m.Called(address)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*big.Int), args.Error(1)
}

func (m *MockRPCService) Call(params entities.RPCTransactionParams) ([]byte, error) {
	args := m.Called(params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockRPCService) SendTransaction(params entities.RPCTransactionParams) (common.Hash, error) {
	args := m.Called(params)
	return args.Get(0).(common.Hash), args.Error(1)
}

// MockContractService is a mock implementation of ContractService
type MockContractService struct {
	mock.Mock
}

var _ ContractService = (*MockContractService)(nil)

func (m *MockContractService) GetEstates() ([]entities.Estate, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.Estate), args.Error(1)
}

func (m *MockContractService) GetAds() ([]entities.Ad, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.Ad), args.Error(1)
}

func (m *MockContractService) GetBalance(account common.Address) (*big.Int, error) {
	args := m.Called(account)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*big.Int), args.Error(1)
}

func (m *MockContractService) ToPay(from common.Address, amount *big.Int) (common.Hash, error) {
	args := m.Called(from, amount)
	return args.Get(0).(common.Hash), args.Error(1)
}

func (m *MockContractService) Withdraw(from common.Address, amount *big.Int) (common.Hash, error) {
	args := m.Called(from, amount)
	return args.Get(0).(common.Hash), args.Error(1)
}

func (m *MockContractService) CreateEstate(from common.Address, size *big.Int, physicalAddress string, estateType uint8) (common.Hash, error) {
	args := m.Called(from, size, physicalAddress, estateType)
	return args.Get(0).(common.Hash), args.Error(1)
}

func (m *MockContractService) CreateAd(from common.Address, estateID, price *big.Int) (common.Hash, error) {
	args := m.Called(from, estateID, price)
	return args.Get(0).(common.Hash), args.Error(1)
}

func (m *MockContractService) BuyEstate(from common.Address, adID *big.Int) (common.Hash, error) {
	args := m.Called(from, adID)
	return args.Get(0).(common.Hash), args.Error(1)
}

func (m *MockContractService) UpdateEstateStatus(from common.Address, estateID *big.Int, isActive bool) (common.Hash, error) {
	args := m.Called(from, estateID, isActive)
	return args.Get(0).(common.Hash), args.Error(1)
}

func (m *MockContractService) UpdateAdStatus(from common.Address, adID *big.Int, status uint8) (common.Hash, error) {
	args := m.Called(from, adID, status)
	return args.Get(0).(common.Hash), args.Error(1)
}
