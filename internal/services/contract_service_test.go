package services

import (
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/estatemarket/estate-frontend/internal/entities"
)

var (
	testContractAddress = common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3")
	testAccount         = common.HexToAddress("0x71C7656EC7ab88b098defB751B7401B5f6d8976F")
)

func newTestContractService(t *testing.T, mockRPCService *MockRPCService) *contractService {
	t.Helper()

	contractService, err := NewContractService(mockRPCService, testContractAddress, DefaultContractABI)
	require.NoError(t, err)
	return contractService
}

func TestNewContractService(t *testing.T) {
	_, err := NewContractService(nil, testContractAddress, DefaultContractABI)
	assert.ErrorContains(t, err, "rpcService is required")

	_, err = NewContractService(&MockRPCService{}, common.Address{}, DefaultContractABI)
	assert.ErrorContains(t, err, "contractAddress is required")

	_, err = NewContractService(&MockRPCService{}, testContractAddress, `{not-an-abi`)
	assert.ErrorContains(t, err, "parsing contract ABI")
}

func TestGetEstates(t *testing.T) {
	mockRPCService := &MockRPCService{}
	contractService := newTestContractService(t, mockRPCService)

	records := []estateRecord{
		{
			Id:            big.NewInt(1),
			Size:          big.NewInt(120),
			EstateAddress: "42 Baker Street",
			EstateType:    2,
			Owner:         testAccount,
			IsActive:      true,
		},
		{
			Id:            big.NewInt(2),
			Size:          big.NewInt(64),
			EstateAddress: "7 Main Square",
			EstateType:    0,
			Owner:         testAccount,
			IsActive:      false,
		},
	}
	encoded, err := contractService.contractABI.Methods["getEstates"].Outputs.Pack(records)
	require.NoError(t, err)

	callData, err := contractService.contractABI.Pack("getEstates")
	require.NoError(t, err)

	mockRPCService.
		On("Call", mock.MatchedBy(func(params entities.RPCTransactionParams) bool {
			return params.From == nil && *params.To == testContractAddress && assert.ObjectsAreEqual(hexutil.Bytes(callData), params.Data)
		})).
		Return(encoded, nil).
		Once()
	defer mockRPCService.AssertExpectations(t)

	estates, err := contractService.GetEstates()
	require.NoError(t, err)
	require.Len(t, estates, 2)

	assert.Zero(t, estates[0].ID.Cmp(big.NewInt(1)))
	assert.Equal(t, "42 Baker Street", estates[0].PhysicalAddress)
	assert.Equal(t, uint8(2), estates[0].EstateType)
	assert.True(t, estates[0].IsActive)
	assert.Equal(t, testAccount, estates[0].Owner)
	assert.False(t, estates[1].IsActive)
}

func TestGetAds(t *testing.T) {
	mockRPCService := &MockRPCService{}
	contractService := newTestContractService(t, mockRPCService)

	records := []adRecord{
		{
			Id:       big.NewInt(7),
			EstateId: big.NewInt(1),
			Price:    big.NewInt(1_500_000_000_000_000_000),
			Seller:   testAccount,
			Status:   1,
		},
	}
	encoded, err := contractService.contractABI.Methods["getAds"].Outputs.Pack(records)
	require.NoError(t, err)

	mockRPCService.On("Call", mock.Anything).Return(encoded, nil).Once()
	defer mockRPCService.AssertExpectations(t)

	ads, err := contractService.GetAds()
	require.NoError(t, err)
	require.Len(t, ads, 1)

	assert.Zero(t, ads[0].ID.Cmp(big.NewInt(7)))
	assert.Zero(t, ads[0].EstateID.Cmp(big.NewInt(1)))
	assert.Equal(t, "1.5", ads[0].PriceEther())
	assert.Equal(t, uint8(1), ads[0].Status)
}

func TestGetAdsCallFailure(t *testing.T) {
	mockRPCService := &MockRPCService{}
	contractService := newTestContractService(t, mockRPCService)

	mockRPCService.On("Call", mock.Anything).Return(nil, errors.New("node unreachable")).Once()
	defer mockRPCService.AssertExpectations(t)

	_, err := contractService.GetAds()
	assert.ErrorContains(t, err, "node unreachable")
}

func TestContractGetBalance(t *testing.T) {
	mockRPCService := &MockRPCService{}
	contractService := newTestContractService(t, mockRPCService)

	encoded, err := contractService.contractABI.Methods["getBalance"].Outputs.Pack(big.NewInt(42))
	require.NoError(t, err)

	mockRPCService.
		On("Call", mock.MatchedBy(func(params entities.RPCTransactionParams) bool {
			// The session account is the execution context of the call.
			return params.From != nil && *params.From == testAccount
		})).
		Return(encoded, nil).
		Once()
	defer mockRPCService.AssertExpectations(t)

	balance, err := contractService.GetBalance(testAccount)
	require.NoError(t, err)
	assert.Zero(t, balance.Cmp(big.NewInt(42)))
}

func TestToPay(t *testing.T) {
	mockRPCService := &MockRPCService{}
	contractService := newTestContractService(t, mockRPCService)

	amount := big.NewInt(2_000_000_000_000_000_000)
	expectedData, err := contractService.contractABI.Pack("toPay", testAccount)
	require.NoError(t, err)

	txHash := common.HexToHash("0x88df016429689c079f3b2f6ad39fa052532c56795b733da78a91ebe6a713944b")
	mockRPCService.
		On("SendTransaction", mock.MatchedBy(func(params entities.RPCTransactionParams) bool {
			return *params.From == testAccount &&
				*params.To == testContractAddress &&
				(*big.Int)(params.Value).Cmp(amount) == 0 &&
				assert.ObjectsAreEqual(hexutil.Bytes(expectedData), params.Data)
		})).
		Return(txHash, nil).
		Once()
	defer mockRPCService.AssertExpectations(t)

	got, err := contractService.ToPay(testAccount, amount)
	require.NoError(t, err)
	assert.Equal(t, txHash, got)
}

func TestWithdrawCarriesNoValue(t *testing.T) {
	mockRPCService := &MockRPCService{}
	contractService := newTestContractService(t, mockRPCService)

	amount := big.NewInt(1_000_000_000_000_000_000)
	txHash := common.HexToHash("0x01")
	mockRPCService.
		On("SendTransaction", mock.MatchedBy(func(params entities.RPCTransactionParams) bool {
			return params.Value == nil && *params.From == testAccount
		})).
		Return(txHash, nil).
		Once()
	defer mockRPCService.AssertExpectations(t)

	_, err := contractService.Withdraw(testAccount, amount)
	require.NoError(t, err)
}

func TestTransactOperationsPackArguments(t *testing.T) {
	txHash := common.HexToHash("0x02")

	testCases := []struct {
		name         string
		invoke       func(s *contractService) (common.Hash, error)
		expectedData func(s *contractService) ([]byte, error)
	}{
		{
			name: "createEstate",
			invoke: func(s *contractService) (common.Hash, error) {
				return s.CreateEstate(testAccount, big.NewInt(120), "42 Baker Street", 2)
			},
			expectedData: func(s *contractService) ([]byte, error) {
				return s.contractABI.Pack("createEstate", big.NewInt(120), "42 Baker Street", uint8(2))
			},
		},
		{
			name: "createAd",
			invoke: func(s *contractService) (common.Hash, error) {
				return s.CreateAd(testAccount, big.NewInt(1), big.NewInt(1_500_000_000_000_000_000))
			},
			expectedData: func(s *contractService) ([]byte, error) {
				return s.contractABI.Pack("createAd", big.NewInt(1), big.NewInt(1_500_000_000_000_000_000))
			},
		},
		{
			name: "buyEstate",
			invoke: func(s *contractService) (common.Hash, error) {
				return s.BuyEstate(testAccount, big.NewInt(7))
			},
			expectedData: func(s *contractService) ([]byte, error) {
				return s.contractABI.Pack("buyEstate", big.NewInt(7))
			},
		},
		{
			name: "updateEstateStatus",
			invoke: func(s *contractService) (common.Hash, error) {
				return s.UpdateEstateStatus(testAccount, big.NewInt(1), false)
			},
			expectedData: func(s *contractService) ([]byte, error) {
				return s.contractABI.Pack("updateEstateStatus", big.NewInt(1), false)
			},
		},
		{
			name: "updateAdStatus",
			invoke: func(s *contractService) (common.Hash, error) {
				return s.UpdateAdStatus(testAccount, big.NewInt(7), 2)
			},
			expectedData: func(s *contractService) ([]byte, error) {
				return s.contractABI.Pack("updateAdStatus", big.NewInt(7), uint8(2))
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mockRPCService := &MockRPCService{}
			contractService := newTestContractService(t, mockRPCService)

			expected, err := tc.expectedData(contractService)
			require.NoError(t, err)

			mockRPCService.
				On("SendTransaction", mock.MatchedBy(func(params entities.RPCTransactionParams) bool {
					return assert.ObjectsAreEqual(hexutil.Bytes(expected), params.Data)
				})).
				Return(txHash, nil).
				Once()
			defer mockRPCService.AssertExpectations(t)

			got, err := tc.invoke(contractService)
			require.NoError(t, err)
			assert.Equal(t, txHash, got)
		})
	}
}

func TestTransactSubmissionFailure(t *testing.T) {
	mockRPCService := &MockRPCService{}
	contractService := newTestContractService(t, mockRPCService)

	mockRPCService.
		On("SendTransaction", mock.Anything).
		Return(common.Hash{}, errors.New("insufficient funds for gas * price + value")).
		Once()
	defer mockRPCService.AssertExpectations(t)

	_, err := contractService.ToPay(testAccount, big.NewInt(1))
	assert.ErrorContains(t, err, "insufficient funds")
}
