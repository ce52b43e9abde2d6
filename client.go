package spendpermission

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Wallet provider methods
const (
	MethodWalletConnect      = "wallet_connect"
	MethodEthRequestAccounts = "eth_requestAccounts"
	MethodEthSignTypedDataV4 = "eth_signTypedData_v4"
)

// DefaultAppName is the application name reported to the wallet
const DefaultAppName = "Base Spend Permission"

// DefaultNetwork is Base Sepolia
const DefaultNetwork Network = "eip155:84532"

// Client sequences the single-screen flow: connect, build, sign, display.
// It owns the Session and rejects overlapping invocations of the same action.
type Client struct {
	mu sync.RWMutex

	sdk     *SDK
	network Network
	spender string
	token   string

	// network pattern -> mechanism
	mechanisms map[Network]PermissionMechanism

	session *Session
	guard   *OperationGuard
	logger  *zap.Logger

	afterConnectHooks     []AfterConnectHook
	onConnectFailureHooks []OnConnectFailureHook
	beforeCreateHooks     []BeforeCreateHook
	afterCreateHooks      []AfterCreateHook
	onCreateFailureHooks  []OnCreateFailureHook
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithSpender sets the backend wallet allowed to spend
func WithSpender(address string) ClientOption {
	return func(c *Client) {
		c.spender = address
	}
}

// WithToken sets the ERC-20 token the allowance is denominated in
func WithToken(address string) ClientOption {
	return func(c *Client) {
		c.token = address
	}
}

// WithNetwork sets the CAIP-2 network permissions are created for
func WithNetwork(network Network) ClientOption {
	return func(c *Client) {
		c.network = network
	}
}

// WithMechanism registers a permission mechanism for a network pattern at creation time
func WithMechanism(network Network, mechanism PermissionMechanism) ClientOption {
	return func(c *Client) {
		c.mechanisms[network] = mechanism
	}
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(logger *zap.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithSession replaces the session the client starts with
func WithSession(session *Session) ClientOption {
	return func(c *Client) {
		if session != nil {
			c.session = session
		}
	}
}

// NewClient creates a client around an initialized SDK.
// A nil sdk is accepted: the client then reports not_initialized on every action.
func NewClient(sdk *SDK, opts ...ClientOption) *Client {
	c := &Client{
		sdk:        sdk,
		network:    DefaultNetwork,
		mechanisms: make(map[Network]PermissionMechanism),
		session:    NewSession(),
		guard:      NewOperationGuard(),
		logger:     zap.NewNop(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// RegisterMechanism registers a permission mechanism for a network pattern
func (c *Client) RegisterMechanism(network Network, mechanism PermissionMechanism) *Client {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mechanisms[network] = mechanism
	return c
}

// Session returns the client's session
func (c *Client) Session() *Session {
	return c.session
}

// Network returns the network permissions are created for
func (c *Client) Network() Network {
	return c.network
}

// Spender returns the configured spender address
func (c *Client) Spender() string {
	return c.spender
}

// State returns a snapshot of the session including in-flight flags
func (c *Client) State() SessionState {
	state := c.session.snapshot()
	state.Connecting = c.guard.Busy(OperationConnect)
	state.Creating = c.guard.Busy(OperationCreate)
	state.Initialized = c.sdk.GetProvider() != nil
	return state
}

// Connect requests a wallet connection and adopts the first authorized address
// as the session account.
//
// An empty address list leaves a previously connected account in place.
func (c *Client) Connect(ctx context.Context) (Account, error) {
	provider := c.sdk.GetProvider()
	if provider == nil {
		c.logger.Error("connect requested before SDK initialization")
		return "", NewPermissionError(ErrCodeNotInitialized, "SDK not initialized. Please refresh the page.", nil)
	}

	ok, done := c.guard.TryStart(OperationConnect)
	if !ok {
		return "", NewPermissionError(ErrCodeOperationInProgress, "a connection request is already pending", nil)
	}
	defer c.guard.Finish(OperationConnect, done)

	hookCtx := ConnectContext{
		Ctx:       ctx,
		SessionID: c.session.ID(),
		Timestamp: time.Now(),
	}

	account, err := c.requestAccount(ctx, provider)
	if err != nil {
		c.logger.Error("error connecting wallet", zap.String("session", hookCtx.SessionID), zap.Error(err))
		failure := ConnectFailureContext{
			ConnectContext: hookCtx,
			Error:          err,
			Duration:       time.Since(hookCtx.Timestamp),
		}
		for _, hook := range c.onConnectFailureHooks {
			hook(failure)
		}
		return "", err
	}

	c.session.setAccount(account)
	c.logger.Info("connected account", zap.String("session", hookCtx.SessionID), zap.String("account", string(account)))

	result := ConnectResultContext{
		ConnectContext: hookCtx,
		Account:        account,
		Duration:       time.Since(hookCtx.Timestamp),
	}
	for _, hook := range c.afterConnectHooks {
		if err := hook(result); err != nil {
			c.logger.Warn("after-connect hook failed", zap.Error(err))
		}
	}

	return account, nil
}

func (c *Client) requestAccount(ctx context.Context, provider Provider) (Account, error) {
	var connectResult json.RawMessage
	if err := provider.CallContext(ctx, &connectResult, MethodWalletConnect); err != nil {
		return "", wrapPermissionError(ErrCodeProviderRejected, "wallet connection was not approved", err)
	}

	var accounts []string
	if err := provider.CallContext(ctx, &accounts, MethodEthRequestAccounts); err != nil {
		return "", wrapPermissionError(ErrCodeProviderRejected, "account request was not approved", err)
	}
	if len(accounts) == 0 || accounts[0] == "" {
		return "", NewPermissionError(ErrCodeNoAccounts, "wallet returned no accounts", nil)
	}

	return Account(accounts[0]), nil
}

// CreatePermission builds a spend permission for the connected account and
// asks the wallet to sign it. Every call draws a new salt and start time.
//
// Preconditions are checked in order and no provider request is issued when
// one fails: spender configured, token configured, positive allowance,
// SDK initialized, wallet connected, no permission created yet.
func (c *Client) CreatePermission(ctx context.Context, allowance string) (*SignedPermission, error) {
	if c.spender == "" {
		return nil, NewPermissionError(ErrCodeMissingSpender,
			"Please set the spender address (BACKEND_WALLET_ADDRESS).", nil)
	}
	if c.token == "" {
		return nil, NewPermissionError(ErrCodeMissingToken,
			"Please set the token address (REWARDS_CONTRACT_ADDRESS).", nil)
	}

	mechanism := c.mechanism()
	if mechanism == nil {
		return nil, NewPermissionError(ErrCodeUnsupportedNetwork,
			fmt.Sprintf("no permission mechanism registered for network %s", c.network), nil)
	}

	if _, err := mechanism.ParseAllowance(allowance); err != nil {
		return nil, &PermissionError{
			Code:    ErrCodeInvalidAllowance,
			Message: "Enter a valid allowance.",
			Details: map[string]interface{}{"allowance": allowance},
			Err:     err,
		}
	}

	provider := c.sdk.GetProvider()
	if provider == nil {
		c.logger.Error("create permission requested before SDK initialization")
		return nil, NewPermissionError(ErrCodeNotInitialized, "SDK not initialized. Please refresh the page.", nil)
	}

	account, connected := c.session.Account()
	if !connected {
		return nil, NewPermissionError(ErrCodeNotConnected, "Connect a wallet before creating a permission.", nil)
	}

	ok, done := c.guard.TryStart(OperationCreate)
	if !ok {
		return nil, NewPermissionError(ErrCodeOperationInProgress, "a permission request is already pending", nil)
	}
	defer c.guard.Finish(OperationCreate, done)

	// Checked under the guard so two sequential clicks cannot both pass
	if c.session.Permission() != nil {
		return nil, NewPermissionError(ErrCodeAlreadyCreated, "a permission was already created in this session", nil)
	}

	request := PermissionRequest{
		Account:   string(account),
		Spender:   c.spender,
		Token:     c.token,
		Allowance: allowance,
	}
	hookCtx := CreateContext{
		Ctx:       ctx,
		SessionID: c.session.ID(),
		Request:   request,
		Timestamp: time.Now(),
	}

	permission, err := mechanism.BuildPermission(ctx, request)
	if err != nil {
		err = wrapPermissionError(ErrCodeBuildFailed, "failed to build spend permission", err)
		c.createFailed(hookCtx, err)
		return nil, err
	}
	hookCtx.Permission = permission

	for _, hook := range c.beforeCreateHooks {
		result, err := hook(hookCtx)
		if err != nil {
			c.logger.Warn("before-create hook failed", zap.Error(err))
			continue
		}
		if result != nil && result.Abort {
			err := NewPermissionError(ErrCodeAbortedByHook, result.Reason, nil)
			c.createFailed(hookCtx, err)
			return nil, err
		}
	}

	signature, err := mechanism.SignPermission(ctx, provider, permission)
	if err != nil {
		if ErrorCode(err) == "" {
			err = wrapPermissionError(ErrCodeProviderRejected, "signature request was not approved", err)
		}
		c.createFailed(hookCtx, err)
		return nil, err
	}

	signed := SignedPermission{
		Permission: permission,
		Signature:  signature,
	}
	c.session.setPermission(signed)

	c.logger.Info("spend permission created",
		zap.String("session", hookCtx.SessionID),
		zap.String("account", permission.Account),
		zap.String("spender", permission.Spender),
		zap.String("token", permission.Token),
		zap.String("allowance", permission.Allowance),
		zap.Uint64("start", permission.Start),
		zap.String("salt", permission.Salt),
	)

	result := CreateResultContext{
		CreateContext: hookCtx,
		Result:        signed,
		Duration:      time.Since(hookCtx.Timestamp),
	}
	for _, hook := range c.afterCreateHooks {
		if err := hook(result); err != nil {
			c.logger.Warn("after-create hook failed", zap.Error(err))
		}
	}

	return &signed, nil
}

func (c *Client) createFailed(hookCtx CreateContext, err error) {
	c.logger.Error("error creating permission", zap.String("session", hookCtx.SessionID), zap.Error(err))
	failure := CreateFailureContext{
		CreateContext: hookCtx,
		Error:         err,
		Duration:      time.Since(hookCtx.Timestamp),
	}
	for _, hook := range c.onCreateFailureHooks {
		hook(failure)
	}
}

func (c *Client) mechanism() PermissionMechanism {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return findByNetwork(c.mechanisms, c.network)
}
