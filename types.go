package spendpermission

import (
	"encoding/json"
	"fmt"
	"math/big"
	"strings"
)

// Network represents a blockchain network identifier in CAIP-2 format
// Format: namespace:reference (e.g., "eip155:84532" for Base Sepolia)
type Network string

// Parse splits the network into namespace and reference components
func (n Network) Parse() (namespace, reference string, err error) {
	parts := strings.Split(string(n), ":")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid network format: %s", n)
	}
	return parts[0], parts[1], nil
}

// Match checks if this network matches a pattern (supports wildcards)
// e.g., "eip155:1" matches "eip155:*" and "eip155:*" matches "eip155:1"
func (n Network) Match(pattern Network) bool {
	if n == pattern {
		return true
	}

	nStr := string(n)
	patternStr := string(pattern)

	if strings.HasSuffix(patternStr, ":*") {
		prefix := strings.TrimSuffix(patternStr, "*")
		return strings.HasPrefix(nStr, prefix)
	}

	if strings.HasSuffix(nStr, ":*") {
		prefix := strings.TrimSuffix(nStr, "*")
		return strings.HasPrefix(patternStr, prefix)
	}

	return false
}

// Account is the address of the connected wallet.
type Account string

// Short renders the account the way the UI shows it: 0x1234...abcd
func (a Account) Short() string {
	return ShortAddress(string(a))
}

// SpendPermission is the message signed by the wallet.
// Field order matches the SpendPermission EIP-712 struct and the hand-off output.
type SpendPermission struct {
	Account   string `json:"account"`   // Delegator address (hex)
	Spender   string `json:"spender"`   // Backend wallet allowed to spend (hex)
	Token     string `json:"token"`     // ERC-20 contract address (hex)
	Allowance string `json:"allowance"` // uint160 in token base units as decimal string
	Period    uint64 `json:"period"`    // Seconds per allowance window
	Start     uint64 `json:"start"`     // Unix timestamp
	End       uint64 `json:"end"`       // Unix timestamp, max uint48 for no expiry
	Salt      string `json:"salt"`      // uint256 as decimal string
	ExtraData string `json:"extraData"` // Hex bytes, "0x" when empty
}

// SaltHex returns the salt as 64 lowercase hex characters without prefix.
func (p SpendPermission) SaltHex() string {
	salt, ok := new(big.Int).SetString(p.Salt, 10)
	if !ok {
		return ""
	}
	return fmt.Sprintf("%064x", salt)
}

// SignedPermission pairs a permission with the wallet signature over its typed data.
type SignedPermission struct {
	Permission SpendPermission `json:"permission"`
	Signature  string          `json:"signature"`
}

// PermissionRequest carries the inputs of a single "Create Permission" action.
type PermissionRequest struct {
	Account   string
	Spender   string
	Token     string
	Allowance string // Human-entered decimal amount in whole token units
}

// SessionState is a read-only view of a Session for rendering.
type SessionState struct {
	ID          string            `json:"id"`
	Account     Account           `json:"account,omitempty"`
	Connected   bool              `json:"connected"`
	Connecting  bool              `json:"connecting"`
	Creating    bool              `json:"creating"`
	Permission  *SignedPermission `json:"permission,omitempty"`
	Initialized bool              `json:"initialized"`
}

// MarshalIndent renders the permission as the two-space indented JSON object
// expected by the backend scripts.
func (p SpendPermission) MarshalIndent() ([]byte, error) {
	return json.MarshalIndent(p, "", "  ")
}

// ShortAddress abbreviates a hex address to its first 6 and last 4 characters.
func ShortAddress(address string) string {
	if len(address) <= 10 {
		return address
	}
	return address[:6] + "..." + address[len(address)-4:]
}
