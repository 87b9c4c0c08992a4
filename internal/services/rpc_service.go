package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/estatemarket/estate-frontend/internal/entities"
	"github.com/estatemarket/estate-frontend/internal/metrics"
	"github.com/estatemarket/estate-frontend/internal/utils"
)

// ErrUnlockFailed is returned when the node answers an unlock request with
// false instead of an RPC error.
var ErrUnlockFailed = errors.New("node refused to unlock the account")

// RPCService is the thin client for the blockchain node's JSON-RPC endpoint.
// It covers node-managed account operations (the geth personal namespace),
// native balance queries, and the generic read/write primitives the contract
// gateway is built on. Every method performs exactly one request; timeouts
// come from the injected HTTP client.
type RPCService interface {
	UnlockAccount(address common.Address, password string) error
	NewAccount(password string) (common.Address, error)
	GetBalance(address common.Address) (*big.Int, error)
	Call(params entities.RPCTransactionParams) ([]byte, error)
	SendTransaction(params entities.RPCTransactionParams) (common.Hash, error)
}

type rpcService struct {
	rpcURL         string
	httpClient     utils.HTTPClient
	metricsService metrics.MetricsService
}

var _ RPCService = (*rpcService)(nil)

func NewRPCService(rpcURL string, httpClient utils.HTTPClient, metricsService metrics.MetricsService) (*rpcService, error) {
	if rpcURL == "" {
		return nil, errors.New("rpcURL is required")
	}
	if httpClient == nil {
		return nil, errors.New("httpClient is required")
	}
	if metricsService == nil {
		return nil, errors.New("metricsService is required")
	}

	return &rpcService{
		rpcURL:         rpcURL,
		httpClient:     httpClient,
		metricsService: metricsService,
	}, nil
}

// UnlockAccount asks the node to unlock the account with the given password
// for the node's default unlock duration.
func (r *rpcService) UnlockAccount(address common.Address, password string) error {
	// A null duration keeps the node's default unlock window.
	resultBytes, err := r.sendRPCRequest("personal_unlockAccount", []any{address, password, nil})
	if err != nil {
		return fmt.Errorf("sending personal_unlockAccount request: %w", err)
	}

	var unlocked bool
	if err := json.Unmarshal(resultBytes, &unlocked); err != nil {
		return fmt.Errorf("parsing personal_unlockAccount result JSON: %w", err)
	}
	if !unlocked {
		return ErrUnlockFailed
	}
	return nil
}

// NewAccount asks the node to generate a new account secured by the given
// password and returns its address.
func (r *rpcService) NewAccount(password string) (common.Address, error) {
	resultBytes, err := r.sendRPCRequest("personal_newAccount", []any{password})
	if err != nil {
		return common.Address{}, fmt.Errorf("sending personal_newAccount request: %w", err)
	}

	var address common.Address
	if err := json.Unmarshal(resultBytes, &address); err != nil {
		return common.Address{}, fmt.Errorf("parsing personal_newAccount result JSON: %w", err)
	}
	return address, nil
}

// GetBalance returns the native-currency balance of the account in wei.
func (r *rpcService) GetBalance(address common.Address) (*big.Int, error) {
	resultBytes, err := r.sendRPCRequest("eth_getBalance", []any{address, "latest"})
	if err != nil {
		return nil, fmt.Errorf("sending eth_getBalance request: %w", err)
	}

	var balance hexutil.Big
	if err := json.Unmarshal(resultBytes, &balance); err != nil {
		return nil, fmt.Errorf("parsing eth_getBalance result JSON: %w", err)
	}
	return (*big.Int)(&balance), nil
}

// Call executes a read-only contract call against the latest state.
func (r *rpcService) Call(params entities.RPCTransactionParams) ([]byte, error) {
	resultBytes, err := r.sendRPCRequest("eth_call", []any{params, "latest"})
	if err != nil {
		return nil, fmt.Errorf("sending eth_call request: %w", err)
	}

	var output hexutil.Bytes
	if err := json.Unmarshal(resultBytes, &output); err != nil {
		return nil, fmt.Errorf("parsing eth_call result JSON: %w", err)
	}
	return output, nil
}

// SendTransaction submits a state-changing transaction signed by the node
// with the sending account and returns its hash. Success means accepted for
// broadcast, not mined.
func (r *rpcService) SendTransaction(params entities.RPCTransactionParams) (common.Hash, error) {
	resultBytes, err := r.sendRPCRequest("eth_sendTransaction", []any{params})
	if err != nil {
		return common.Hash{}, fmt.Errorf("sending eth_sendTransaction request: %w", err)
	}

	var txHash common.Hash
	if err := json.Unmarshal(resultBytes, &txHash); err != nil {
		return common.Hash{}, fmt.Errorf("parsing eth_sendTransaction result JSON: %w", err)
	}
	return txHash, nil
}

func (r *rpcService) sendRPCRequest(method string, params []any) (json.RawMessage, error) {
	startTime := time.Now()
	r.metricsService.IncRPCRequests(method)
	defer func() {
		duration := time.Since(startTime).Seconds()
		r.metricsService.ObserveRPCRequestDuration(method, duration)
	}()

	payload := map[string]any{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  method,
		"params":  params,
	}
	jsonData, err := json.Marshal(payload)
	if err != nil {
		r.metricsService.IncRPCRequestErrors(method, "marshal_error")
		return nil, fmt.Errorf("marshaling payload: %w", err)
	}

	resp, err := r.httpClient.Post(r.rpcURL, "application/json", bytes.NewBuffer(jsonData))
	if err != nil {
		r.metricsService.IncRPCRequestErrors(method, "network_error")
		return nil, fmt.Errorf("sending POST request to RPC URL: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		r.metricsService.IncRPCRequestErrors(method, "read_error")
		return nil, fmt.Errorf("unmarshaling RPC response: %w", err)
	}

	var res struct {
		Result json.RawMessage    `json:"result"`
		Error  *entities.RPCError `json:"error"`
	}
	if err := json.Unmarshal(body, &res); err != nil {
		r.metricsService.IncRPCRequestErrors(method, "unmarshal_error")
		return nil, fmt.Errorf("parsing RPC response JSON: %w", err)
	}
	if res.Error != nil {
		r.metricsService.IncRPCRequestErrors(method, "rpc_error")
		return nil, fmt.Errorf("RPC request failed: %w", res.Error)
	}
	return res.Result, nil
}
