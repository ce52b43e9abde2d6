package evm

import (
	"context"
	"math/big"
)

// ClientEvmSigner defines the interface for a local EVM signer.
// The development wallet uses it to answer eth_signTypedData_v4.
type ClientEvmSigner interface {
	// Address returns the signer's Ethereum address
	Address() string

	// SignTypedData signs EIP-712 typed data
	SignTypedData(ctx context.Context, domain TypedDataDomain, types map[string][]TypedDataField, primaryType string, message map[string]interface{}) ([]byte, error)
}

// TypedDataDomain represents the EIP-712 domain separator
type TypedDataDomain struct {
	Name              string   `json:"name"`
	Version           string   `json:"version"`
	ChainID           *big.Int `json:"chainId"`
	VerifyingContract string   `json:"verifyingContract"`
}

// TypedDataField represents a field in EIP-712 typed data
type TypedDataField struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// TypedData is the document passed as the second eth_signTypedData_v4 parameter
type TypedData struct {
	Domain      TypedDataDomain             `json:"domain"`
	Types       map[string][]TypedDataField `json:"types"`
	PrimaryType string                      `json:"primaryType"`
	Message     interface{}                 `json:"message"`
}

// NetworkConfig contains network-specific configuration
type NetworkConfig struct {
	ChainID           *big.Int
	Name              string
	VerifyingContract string
}
