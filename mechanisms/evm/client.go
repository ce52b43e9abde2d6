package evm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"

	spendpermission "github.com/base-spend-permission/go"
)

// maxSaltDraws bounds how often a colliding salt is redrawn
const maxSaltDraws = 3

// SpendPermissionClient implements spendpermission.PermissionMechanism for EVM chains.
// It shapes SpendPermission messages and requests eth_signTypedData_v4 signatures.
type SpendPermissionClient struct {
	network  string
	config   NetworkConfig
	decimals int
	now      func() time.Time
	random   io.Reader

	mu    sync.Mutex
	salts map[string]struct{}
}

// ClientOption configures a SpendPermissionClient
type ClientOption func(*SpendPermissionClient)

// WithDecimals sets the token decimal scale used to convert allowances
func WithDecimals(decimals int) ClientOption {
	return func(c *SpendPermissionClient) {
		c.decimals = decimals
	}
}

// WithClock sets the time source for the start field
func WithClock(now func() time.Time) ClientOption {
	return func(c *SpendPermissionClient) {
		if now != nil {
			c.now = now
		}
	}
}

// WithRandom sets the randomness source for salts. It must be cryptographically secure
// outside of tests.
func WithRandom(r io.Reader) ClientOption {
	return func(c *SpendPermissionClient) {
		c.random = r
	}
}

// WithVerifyingContract overrides the permission manager address of the domain
func WithVerifyingContract(address string) ClientOption {
	return func(c *SpendPermissionClient) {
		c.config.VerifyingContract = address
	}
}

// NewSpendPermissionClient creates a client for a supported network
func NewSpendPermissionClient(network string, opts ...ClientOption) (*SpendPermissionClient, error) {
	config, err := GetNetworkConfig(network)
	if err != nil {
		return nil, err
	}

	c := &SpendPermissionClient{
		network:  network,
		config:   *config,
		decimals: DefaultDecimals,
		now:      time.Now,
		salts:    make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}

	if !IsValidAddress(c.config.VerifyingContract) {
		return nil, fmt.Errorf("invalid verifying contract: %s", c.config.VerifyingContract)
	}
	c.config.VerifyingContract = NormalizeAddress(c.config.VerifyingContract)
	return c, nil
}

// Family returns the CAIP family pattern
func (c *SpendPermissionClient) Family() spendpermission.Network {
	return FamilyEIP155
}

// ChainID returns the chain id placed in every signing domain
func (c *SpendPermissionClient) ChainID() *big.Int {
	return new(big.Int).Set(c.config.ChainID)
}

// Decimals returns the token decimal scale
func (c *SpendPermissionClient) Decimals() int {
	return c.decimals
}

// ParseAllowance converts a positive decimal amount to base units
func (c *SpendPermissionClient) ParseAllowance(allowance string) (string, error) {
	value, err := ParseUnits(allowance, c.decimals)
	if err != nil {
		return "", err
	}
	if value.Sign() <= 0 {
		return "", fmt.Errorf("allowance must be positive: %s", allowance)
	}
	if value.Cmp(MaxUint160) > 0 {
		return "", fmt.Errorf("allowance exceeds uint160: %s", allowance)
	}
	return value.String(), nil
}

// BuildPermission assembles a SpendPermission with a fresh salt and start time
func (c *SpendPermissionClient) BuildPermission(
	ctx context.Context,
	request spendpermission.PermissionRequest,
) (spendpermission.SpendPermission, error) {
	addresses := []struct{ name, value string }{
		{"account", request.Account},
		{"spender", request.Spender},
		{"token", request.Token},
	}
	for _, address := range addresses {
		if !IsValidAddress(address.value) {
			return spendpermission.SpendPermission{}, fmt.Errorf("invalid %s address: %q", address.name, address.value)
		}
	}

	allowance, err := c.ParseAllowance(request.Allowance)
	if err != nil {
		return spendpermission.SpendPermission{}, err
	}

	salt, err := c.nextSalt()
	if err != nil {
		return spendpermission.SpendPermission{}, err
	}

	return spendpermission.SpendPermission{
		Account:   NormalizeAddress(request.Account),
		Spender:   NormalizeAddress(request.Spender),
		Token:     NormalizeAddress(request.Token),
		Allowance: allowance,
		Period:    DefaultPeriod,
		Start:     uint64(c.now().Unix()),
		End:       MaxUint48,
		Salt:      salt.String(),
		ExtraData: EmptyExtraData,
	}, nil
}

// nextSalt draws a salt that has not been issued by this client before
func (c *SpendPermissionClient) nextSalt() (*big.Int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := 0; i < maxSaltDraws; i++ {
		salt, err := CreateSalt(c.random)
		if err != nil {
			return nil, err
		}
		key := salt.String()
		if _, used := c.salts[key]; used {
			continue
		}
		c.salts[key] = struct{}{}
		return salt, nil
	}
	return nil, fmt.Errorf("random source returned %d colliding salts", maxSaltDraws)
}

// TypedData returns the eth_signTypedData_v4 document for a permission
func (c *SpendPermissionClient) TypedData(permission spendpermission.SpendPermission) TypedData {
	return SpendPermissionTypedData(permission, c.config.ChainID, c.config.VerifyingContract)
}

// EncodeTypedData returns the JSON document sent to the wallet, validated against its schema
func (c *SpendPermissionClient) EncodeTypedData(permission spendpermission.SpendPermission) ([]byte, error) {
	document, err := json.Marshal(c.TypedData(permission))
	if err != nil {
		return nil, fmt.Errorf("failed to encode typed data: %w", err)
	}

	if result := ValidateTypedDataJSON(document); !result.Valid {
		return nil, fmt.Errorf("typed data does not match schema: %s", strings.Join(result.Errors, "; "))
	}
	return document, nil
}

// SignPermission requests a typed-data signature from the provider.
// The provider decides how and whether to sign; this method only relays the request.
func (c *SpendPermissionClient) SignPermission(
	ctx context.Context,
	provider spendpermission.Provider,
	permission spendpermission.SpendPermission,
) (string, error) {
	document, err := c.EncodeTypedData(permission)
	if err != nil {
		return "", &spendpermission.PermissionError{
			Code:    spendpermission.ErrCodeBuildFailed,
			Message: "failed to encode typed data",
			Err:     err,
		}
	}

	var signature string
	err = provider.CallContext(ctx, &signature, spendpermission.MethodEthSignTypedDataV4, permission.Account, string(document))
	if err != nil {
		return "", &spendpermission.PermissionError{
			Code:    spendpermission.ErrCodeProviderRejected,
			Message: "signature request was not approved",
			Err:     err,
		}
	}

	if decoded, err := hexutil.Decode(signature); err != nil || len(decoded) == 0 {
		if err == nil {
			err = fmt.Errorf("empty signature")
		}
		return "", &spendpermission.PermissionError{
			Code:    spendpermission.ErrCodeInvalidSignatureResponse,
			Message: "wallet returned a malformed signature",
			Details: map[string]interface{}{"signature": signature},
			Err:     err,
		}
	}

	return signature, nil
}
