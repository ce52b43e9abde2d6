package spendpermission

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/rpc"
)

// Headers sent with every provider request so the wallet can identify the app
const (
	HeaderAppName     = "X-App-Name"
	HeaderAppChainIDs = "X-App-Chain-Ids"
)

// SDKConfig configures the wallet SDK client
type SDKConfig struct {
	AppName     string
	ChainIDs    []int64
	ProviderURL string
}

// SDK is the wallet SDK client. It owns the provider handle.
type SDK struct {
	config   SDKConfig
	provider Provider
	rpc      *rpc.Client
}

// NewSDK constructs the SDK and dials the wallet provider at config.ProviderURL.
// http(s), ws(s) and IPC endpoints are supported.
func NewSDK(ctx context.Context, config SDKConfig) (*SDK, error) {
	if config.ProviderURL == "" {
		return nil, fmt.Errorf("wallet provider url is required")
	}
	if len(config.ChainIDs) == 0 {
		return nil, fmt.Errorf("at least one chain id is required")
	}

	client, err := rpc.DialOptions(ctx, config.ProviderURL,
		rpc.WithHeader(HeaderAppName, config.AppName),
		rpc.WithHeader(HeaderAppChainIDs, formatChainIDs(config.ChainIDs)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to dial wallet provider: %w", err)
	}

	return &SDK{
		config:   config,
		provider: client,
		rpc:      client,
	}, nil
}

// NewSDKWithProvider constructs the SDK around an existing provider handle,
// for example an in-process wallet.
func NewSDKWithProvider(config SDKConfig, provider Provider) (*SDK, error) {
	if provider == nil {
		return nil, fmt.Errorf("provider is required")
	}
	if len(config.ChainIDs) == 0 {
		return nil, fmt.Errorf("at least one chain id is required")
	}
	return &SDK{
		config:   config,
		provider: provider,
	}, nil
}

// GetProvider returns the provider handle
func (s *SDK) GetProvider() Provider {
	if s == nil {
		return nil
	}
	return s.provider
}

// Config returns the configuration the SDK was created with
func (s *SDK) Config() SDKConfig {
	return s.config
}

// Close releases the underlying RPC connection, if the SDK dialed one
func (s *SDK) Close() {
	if s != nil && s.rpc != nil {
		s.rpc.Close()
	}
}

func formatChainIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ",")
}
