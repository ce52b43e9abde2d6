package evm

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// GetNetworkConfig returns the configuration for a CAIP-2 or legacy network name.
func GetNetworkConfig(network string) (*NetworkConfig, error) {
	if config, ok := NetworkConfigs[network]; ok {
		return &config, nil
	}
	return nil, fmt.Errorf("unsupported network: %s", network)
}

// IsValidNetwork reports whether a network has a known configuration.
func IsValidNetwork(network string) bool {
	_, ok := NetworkConfigs[network]
	return ok
}

// IsValidAddress reports whether s is a 0x-prefixed 20-byte hex address.
func IsValidAddress(s string) bool {
	return strings.HasPrefix(s, "0x") && common.IsHexAddress(s)
}

// NormalizeAddress returns the EIP-55 checksummed form of an address.
func NormalizeAddress(s string) string {
	return common.HexToAddress(s).Hex()
}

// BytesToHex encodes bytes as a 0x-prefixed hex string.
func BytesToHex(b []byte) string {
	return hexutil.Encode(b)
}

// HexToBytes decodes a 0x-prefixed hex string. "0x" decodes to an empty slice.
func HexToBytes(s string) ([]byte, error) {
	if s == "0x" || s == "0X" {
		return []byte{}, nil
	}
	return hexutil.Decode(s)
}

// CreateSalt draws SaltSize random bytes from r and interprets them as a
// big-endian unsigned integer.
func CreateSalt(r io.Reader) (*big.Int, error) {
	if r == nil {
		r = rand.Reader
	}
	buf := make([]byte, SaltSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, fmt.Errorf("failed to read random salt: %w", err)
	}
	return new(big.Int).SetBytes(buf), nil
}

// ParseUnits converts a decimal amount in whole token units into base units
// at the given decimal scale, e.g. ParseUnits("0.00009", 18) = 90000000000000.
//
// The conversion is exact: more fractional digits than decimals is an error
// unless the extra digits are zeros.
func ParseUnits(amount string, decimals int) (*big.Int, error) {
	if decimals < 0 {
		return nil, fmt.Errorf("invalid decimals: %d", decimals)
	}

	s := strings.TrimSpace(amount)
	if strings.HasPrefix(s, "-") {
		return nil, fmt.Errorf("amount cannot be negative: %s", amount)
	}
	s = strings.TrimPrefix(s, "+")

	whole, frac, _ := strings.Cut(s, ".")
	if whole == "" && frac == "" {
		return nil, fmt.Errorf("invalid amount: %q", amount)
	}
	if !isDigits(whole) || !isDigits(frac) {
		return nil, fmt.Errorf("invalid amount: %q", amount)
	}

	if len(frac) > decimals {
		if strings.TrimRight(frac[decimals:], "0") != "" {
			return nil, fmt.Errorf("amount %s has more than %d decimal places", amount, decimals)
		}
		frac = frac[:decimals]
	}
	frac += strings.Repeat("0", decimals-len(frac))

	digits := whole + frac
	if digits == "" {
		digits = "0"
	}
	value, ok := new(big.Int).SetString(digits, 10)
	if !ok {
		return nil, fmt.Errorf("invalid amount: %q", amount)
	}
	return value, nil
}

// FormatUnits renders base units as a decimal amount without trailing zeros.
func FormatUnits(value *big.Int, decimals int) string {
	if value == nil {
		return "0"
	}
	sign := ""
	v := new(big.Int).Set(value)
	if v.Sign() < 0 {
		sign = "-"
		v.Neg(v)
	}

	digits := v.String()
	if decimals <= 0 {
		return sign + digits
	}
	if len(digits) <= decimals {
		digits = strings.Repeat("0", decimals-len(digits)+1) + digits
	}

	whole := digits[:len(digits)-decimals]
	frac := strings.TrimRight(digits[len(digits)-decimals:], "0")
	if frac == "" {
		return sign + whole
	}
	return sign + whole + "." + frac
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
