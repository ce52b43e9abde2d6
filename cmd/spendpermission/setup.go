package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	spendpermission "github.com/base-spend-permission/go"
	"github.com/base-spend-permission/go/config"
	"github.com/base-spend-permission/go/internal/logger"
	"github.com/base-spend-permission/go/mechanisms/evm"
	evmsigners "github.com/base-spend-permission/go/signers/evm"
)

var devWalletFlag = cli.BoolFlag{
	Name:  "dev-wallet",
	Usage: "use an in-process local key wallet instead of WALLET_PROVIDER_URL",
}

// loadConfig reads and validates the configuration and initializes the logger.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := logger.InitLogger(cfg.Stage); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// newSDK connects to the wallet provider. It returns a nil SDK, not an error,
// when no provider is configured: the client then reports not_initialized.
func newSDK(ctx context.Context, cfg *config.Config, devWallet bool, approve evmsigners.Approver) (*spendpermission.SDK, error) {
	sdkConfig := spendpermission.SDKConfig{
		AppName:     cfg.AppName,
		ChainIDs:    cfg.ChainIDs(),
		ProviderURL: cfg.ProviderURL,
	}

	if devWallet || cfg.DevWalletKey != "" {
		wallet, err := newDevWallet(cfg, approve)
		if err != nil {
			return nil, err
		}
		provider, err := wallet.DialInProc()
		if err != nil {
			return nil, err
		}
		logger.Info("using in-process dev wallet", zap.String("address", wallet.Address()))
		return spendpermission.NewSDKWithProvider(sdkConfig, provider)
	}

	if cfg.ProviderURL == "" {
		logger.Warn("no wallet provider configured; actions will report not_initialized",
			zap.String("env", config.EnvProviderURL))
		return nil, nil
	}

	return spendpermission.NewSDK(ctx, sdkConfig)
}

func newDevWallet(cfg *config.Config, approve evmsigners.Approver) (*evmsigners.DevWallet, error) {
	var (
		signer *evmsigners.ClientSigner
		err    error
	)
	if cfg.DevWalletKey != "" {
		signer, err = evmsigners.NewClientSignerFromPrivateKey(cfg.DevWalletKey)
	} else {
		signer, err = evmsigners.NewRandomClientSigner()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create dev wallet signer: %w", err)
	}

	opts := []evmsigners.DevWalletOption{evmsigners.WithWalletLogger(logger.Named("devwallet"))}
	if approve != nil {
		opts = append(opts, evmsigners.WithApprover(approve))
	}
	return evmsigners.NewDevWallet(signer, cfg.ChainIDs(), opts...), nil
}

// newClient wires the spend permission client for cfg on top of sdk.
func newClient(cfg *config.Config, sdk *spendpermission.SDK, opts ...spendpermission.ClientOption) (*spendpermission.Client, error) {
	opts = append([]spendpermission.ClientOption{
		spendpermission.WithSpender(cfg.Spender),
		spendpermission.WithToken(cfg.Token),
		spendpermission.WithNetwork(spendpermission.Network(cfg.Network)),
		spendpermission.WithLogger(logger.Named("client")),
	}, opts...)

	client := spendpermission.NewClient(sdk, opts...)
	if _, err := evm.RegisterClient(client, cfg.Network, evm.WithDecimals(cfg.TokenDecimals)); err != nil {
		return nil, fmt.Errorf("failed to register evm mechanism: %w", err)
	}
	return client, nil
}
