package evm

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
	"go.uber.org/zap"
)

// Approver decides whether the wallet user accepts a request.
// Returning an error rejects it, as if the user declined in the wallet UI.
type Approver func(ctx context.Context, method string) error

// DevWallet is a local private-key wallet speaking the provider methods
// wallet_connect, eth_requestAccounts and eth_signTypedData_v4.
type DevWallet struct {
	signer   *ClientSigner
	chainIDs map[string]struct{}
	approve  Approver
	logger   *zap.Logger

	mu        sync.Mutex
	connected bool
}

// DevWalletOption configures a DevWallet
type DevWalletOption func(*DevWallet)

// WithApprover sets the function consulted before every request
func WithApprover(approve Approver) DevWalletOption {
	return func(w *DevWallet) {
		w.approve = approve
	}
}

// WithWalletLogger sets the logger
func WithWalletLogger(logger *zap.Logger) DevWalletOption {
	return func(w *DevWallet) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// NewDevWallet creates a wallet for signer that accepts domains of the given chains.
func NewDevWallet(signer *ClientSigner, chainIDs []int64, opts ...DevWalletOption) *DevWallet {
	w := &DevWallet{
		signer:   signer,
		chainIDs: make(map[string]struct{}, len(chainIDs)),
		approve:  func(context.Context, string) error { return nil },
		logger:   zap.NewNop(),
	}
	for _, id := range chainIDs {
		w.chainIDs[big.NewInt(id).String()] = struct{}{}
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Address returns the wallet account
func (w *DevWallet) Address() string {
	return w.signer.Address()
}

// NewServer returns a JSON-RPC server exposing the wallet methods.
// The server can be mounted as an http.Handler.
func (w *DevWallet) NewServer() (*rpc.Server, error) {
	server := rpc.NewServer()
	if err := server.RegisterName("wallet", &walletAPI{w: w}); err != nil {
		return nil, fmt.Errorf("failed to register wallet namespace: %w", err)
	}
	if err := server.RegisterName("eth", &ethAPI{w: w}); err != nil {
		return nil, fmt.Errorf("failed to register eth namespace: %w", err)
	}
	return server, nil
}

// DialInProc returns a provider handle talking to the wallet in-process.
func (w *DevWallet) DialInProc() (*rpc.Client, error) {
	server, err := w.NewServer()
	if err != nil {
		return nil, err
	}
	return rpc.DialInProc(server), nil
}

func (w *DevWallet) connect(ctx context.Context) error {
	if err := w.approve(ctx, "wallet_connect"); err != nil {
		return err
	}
	w.mu.Lock()
	w.connected = true
	w.mu.Unlock()
	w.logger.Info("dev wallet connected", zap.String("address", w.Address()))
	return nil
}

func (w *DevWallet) isConnected() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.connected
}

func (w *DevWallet) signTypedData(ctx context.Context, account string, document string) (hexutil.Bytes, error) {
	if !w.isConnected() {
		return nil, fmt.Errorf("wallet is not connected")
	}
	if !strings.EqualFold(account, w.Address()) {
		return nil, fmt.Errorf("unknown account %s", account)
	}

	var typedData apitypes.TypedData
	if err := json.Unmarshal([]byte(document), &typedData); err != nil {
		return nil, fmt.Errorf("invalid typed data: %w", err)
	}
	if typedData.Domain.ChainId == nil {
		return nil, fmt.Errorf("typed data domain has no chainId")
	}
	chainID := (*big.Int)(typedData.Domain.ChainId).String()
	if _, ok := w.chainIDs[chainID]; !ok {
		return nil, fmt.Errorf("chain %s is not supported by this wallet", chainID)
	}

	if err := w.approve(ctx, "eth_signTypedData_v4"); err != nil {
		return nil, err
	}

	signature, err := w.signer.SignAPITypedData(ctx, typedData)
	if err != nil {
		return nil, err
	}
	w.logger.Info("dev wallet signed typed data",
		zap.String("primaryType", typedData.PrimaryType),
		zap.String("chainId", chainID),
	)
	return signature, nil
}

// walletAPI serves the wallet_* namespace
type walletAPI struct {
	w *DevWallet
}

// ConnectResult is returned by wallet_connect
type ConnectResult struct {
	Accounts []ConnectedAccount `json:"accounts"`
}

// ConnectedAccount is one account authorized by wallet_connect
type ConnectedAccount struct {
	Address string `json:"address"`
}

// Connect handles wallet_connect
func (api *walletAPI) Connect(ctx context.Context) (*ConnectResult, error) {
	if err := api.w.connect(ctx); err != nil {
		return nil, err
	}
	return &ConnectResult{
		Accounts: []ConnectedAccount{{Address: api.w.Address()}},
	}, nil
}

// ethAPI serves the eth_* namespace
type ethAPI struct {
	w *DevWallet
}

// RequestAccounts handles eth_requestAccounts
func (api *ethAPI) RequestAccounts(ctx context.Context) ([]string, error) {
	if !api.w.isConnected() {
		if err := api.w.connect(ctx); err != nil {
			return nil, err
		}
	}
	return []string{api.w.Address()}, nil
}

// SignTypedData_v4 handles eth_signTypedData_v4
func (api *ethAPI) SignTypedData_v4(ctx context.Context, account string, typedData string) (hexutil.Bytes, error) {
	return api.w.signTypedData(ctx, account, typedData)
}
