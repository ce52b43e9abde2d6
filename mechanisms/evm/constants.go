package evm

import (
	"math/big"
)

const (
	// Family pattern served by this mechanism
	FamilyEIP155 = "eip155:*"

	// Default token decimals (ETH-style 18 decimal tokens)
	DefaultDecimals = 18

	// PrimaryTypeSpendPermission is the EIP-712 primary type signed by the wallet
	PrimaryTypeSpendPermission = "SpendPermission"

	// EIP-712 domain of the Spend Permission Manager contract
	SpendPermissionManagerName    = "Spend Permission Manager"
	SpendPermissionManagerVersion = "1"

	// SpendPermissionManagerAddress is the verifying contract of the signed payload.
	// It is only placed in the domain; this module never calls it. The
	// literal is not EIP-55 cased, SpendPermissionDomain checksums it.
	SpendPermissionManagerAddress = "0x1853210821cC5302F477BA5686d62019d9Cb967d"

	// DefaultPeriod is the allowance window: 30 days in seconds
	DefaultPeriod = 2592000

	// MaxUint48 is the largest uint48 value, used as "no expiry" for end
	MaxUint48 = 281474976710655

	// SaltSize is the number of random bytes drawn for a salt
	SaltSize = 32

	// EmptyExtraData is the hex encoding of an empty bytes value
	EmptyExtraData = "0x"
)

var (
	// Network chain IDs
	ChainIDBase        = big.NewInt(8453)
	ChainIDBaseSepolia = big.NewInt(84532)

	// MaxUint160 bounds the allowance field
	MaxUint160 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 160), big.NewInt(1))

	// Network configurations, keyed by CAIP-2 identifier and legacy name
	NetworkConfigs = map[string]NetworkConfig{
		// Base Mainnet
		"eip155:8453": {
			ChainID:           ChainIDBase,
			Name:              "Base",
			VerifyingContract: SpendPermissionManagerAddress,
		},
		"base": {
			ChainID:           ChainIDBase,
			Name:              "Base",
			VerifyingContract: SpendPermissionManagerAddress,
		},
		// Base Sepolia Testnet
		"eip155:84532": {
			ChainID:           ChainIDBaseSepolia,
			Name:              "Base Sepolia",
			VerifyingContract: SpendPermissionManagerAddress,
		},
		"base-sepolia": {
			ChainID:           ChainIDBaseSepolia,
			Name:              "Base Sepolia",
			VerifyingContract: SpendPermissionManagerAddress,
		},
	}

	// EIP712DomainTypes defines the EIP-712 domain type of the permission manager.
	EIP712DomainTypes = []TypedDataField{
		{Name: "name", Type: "string"},
		{Name: "version", Type: "string"},
		{Name: "chainId", Type: "uint256"},
		{Name: "verifyingContract", Type: "address"},
	}

	// SpendPermissionTypes defines the SpendPermission struct.
	// Field order and widths MUST match the on-chain SpendPermissionManager.
	SpendPermissionTypes = []TypedDataField{
		{Name: "account", Type: "address"},
		{Name: "spender", Type: "address"},
		{Name: "token", Type: "address"},
		{Name: "allowance", Type: "uint160"},
		{Name: "period", Type: "uint48"},
		{Name: "start", Type: "uint48"},
		{Name: "end", Type: "uint48"},
		{Name: "salt", Type: "uint256"},
		{Name: "extraData", Type: "bytes"},
	}
)

// GetSpendPermissionEIP712Types returns the complete EIP-712 types map for
// SpendPermission signing.
// Use this function instead of defining types locally to ensure consistency.
func GetSpendPermissionEIP712Types() map[string][]TypedDataField {
	return map[string][]TypedDataField{
		"EIP712Domain":             EIP712DomainTypes,
		PrimaryTypeSpendPermission: SpendPermissionTypes,
	}
}
