// Package config loads the runtime configuration from the environment.
// A .env file in the working directory is loaded first when present.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	spendpermission "github.com/base-spend-permission/go"
	"github.com/base-spend-permission/go/mechanisms/evm"
)

// Environment variable names
const (
	EnvSpender        = "BACKEND_WALLET_ADDRESS"
	EnvToken          = "REWARDS_CONTRACT_ADDRESS"
	EnvProviderURL    = "WALLET_PROVIDER_URL"
	EnvAppName        = "APP_NAME"
	EnvNetwork        = "NETWORK"
	EnvTokenDecimals  = "TOKEN_DECIMALS"
	EnvListenAddr     = "LISTEN_ADDR"
	EnvStage          = "STAGE"
	EnvDevWalletKey   = "DEV_WALLET_PRIVATE_KEY"
	legacyEnvPrefix   = "VITE_"
	defaultListenAddr = ":8080"
)

// Stages select the log encoder
const (
	StageLocal = "local"
	StageDev   = "dev"
	StageProd  = "prod"
)

// Config is the validated runtime configuration
type Config struct {
	Spender       string
	Token         string
	ProviderURL   string
	AppName       string
	Network       string
	TokenDecimals int
	ListenAddr    string
	Stage         string
	DevWalletKey  string
}

// Load reads .env (if present) and the environment into a Config.
// It does not validate; call Validate before use.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}
	return FromLookup(os.LookupEnv)
}

// FromLookup builds a Config from a lookup function such as os.LookupEnv.
func FromLookup(lookup func(string) (string, bool)) (*Config, error) {
	get := func(name string) string {
		if v, ok := lookup(name); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
		if v, ok := lookup(legacyEnvPrefix + name); ok {
			return strings.TrimSpace(v)
		}
		return ""
	}

	cfg := &Config{
		Spender:       get(EnvSpender),
		Token:         get(EnvToken),
		ProviderURL:   get(EnvProviderURL),
		AppName:       get(EnvAppName),
		Network:       get(EnvNetwork),
		TokenDecimals: evm.DefaultDecimals,
		ListenAddr:    get(EnvListenAddr),
		Stage:         get(EnvStage),
		DevWalletKey:  get(EnvDevWalletKey),
	}

	if cfg.AppName == "" {
		cfg.AppName = spendpermission.DefaultAppName
	}
	if cfg.Network == "" {
		cfg.Network = string(spendpermission.DefaultNetwork)
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = defaultListenAddr
	}
	if cfg.Stage == "" {
		cfg.Stage = StageLocal
	}

	if raw := get(EnvTokenDecimals); raw != "" {
		decimals, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", EnvTokenDecimals, raw, err)
		}
		cfg.TokenDecimals = decimals
	}

	return cfg, nil
}

// Validate checks required fields. All problems are reported together.
func (c *Config) Validate() error {
	var errs []error

	switch {
	case c.Spender == "":
		errs = append(errs, fmt.Errorf("%s is required", EnvSpender))
	case !evm.IsValidAddress(c.Spender):
		errs = append(errs, fmt.Errorf("%s is not a valid address: %s", EnvSpender, c.Spender))
	}

	switch {
	case c.Token == "":
		errs = append(errs, fmt.Errorf("%s is required", EnvToken))
	case !evm.IsValidAddress(c.Token):
		errs = append(errs, fmt.Errorf("%s is not a valid address: %s", EnvToken, c.Token))
	}

	if !evm.IsValidNetwork(c.Network) {
		errs = append(errs, fmt.Errorf("%s %q is not supported", EnvNetwork, c.Network))
	}
	if c.TokenDecimals < 0 || c.TokenDecimals > 77 {
		errs = append(errs, fmt.Errorf("%s must be between 0 and 77, got %d", EnvTokenDecimals, c.TokenDecimals))
	}

	switch c.Stage {
	case StageLocal, StageDev, StageProd:
	default:
		errs = append(errs, fmt.Errorf("%s must be one of %s, %s, %s", EnvStage, StageLocal, StageDev, StageProd))
	}

	return errors.Join(errs...)
}

// ChainIDs returns the chain ids the wallet SDK is configured with
func (c *Config) ChainIDs() []int64 {
	return evm.ChainIDs(c.Network)
}
