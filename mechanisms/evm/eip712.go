package evm

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"

	spendpermission "github.com/base-spend-permission/go"
)

// HashTypedData hashes EIP-712 typed data
//
// This function creates the EIP-712 hash that should be signed or verified.
// The hash is computed as: keccak256("\x19\x01" + domainSeparator + structHash)
//
// Args:
//
//	domain: The EIP-712 domain separator parameters
//	types: The type definitions for the structured data
//	primaryType: The name of the primary type being hashed
//	message: The message data to hash
//
// Returns:
//
//	32-byte hash suitable for signing or verification
//	error if hashing fails
func HashTypedData(
	domain TypedDataDomain,
	types map[string][]TypedDataField,
	primaryType string,
	message map[string]interface{},
) ([]byte, error) {
	typedData := ToAPITypedData(domain, types, primaryType, message)
	return HashAPITypedData(typedData)
}

// ToAPITypedData converts our typed-data representation to go-ethereum apitypes.
// The EIP712Domain type is added when missing.
func ToAPITypedData(
	domain TypedDataDomain,
	types map[string][]TypedDataField,
	primaryType string,
	message map[string]interface{},
) apitypes.TypedData {
	typedData := apitypes.TypedData{
		Types:       make(apitypes.Types),
		PrimaryType: primaryType,
		Domain: apitypes.TypedDataDomain{
			Name:              domain.Name,
			Version:           domain.Version,
			ChainId:           (*math.HexOrDecimal256)(domain.ChainID),
			VerifyingContract: domain.VerifyingContract,
		},
		Message: message,
	}

	for typeName, fields := range types {
		typedFields := make([]apitypes.Type, len(fields))
		for i, field := range fields {
			typedFields[i] = apitypes.Type{
				Name: field.Name,
				Type: field.Type,
			}
		}
		typedData.Types[typeName] = typedFields
	}

	if _, exists := typedData.Types["EIP712Domain"]; !exists {
		typedData.Types["EIP712Domain"] = []apitypes.Type{
			{Name: "name", Type: "string"},
			{Name: "version", Type: "string"},
			{Name: "chainId", Type: "uint256"},
			{Name: "verifyingContract", Type: "address"},
		}
	}

	return typedData
}

// HashAPITypedData computes the EIP-712 digest of an apitypes document.
func HashAPITypedData(typedData apitypes.TypedData) ([]byte, error) {
	dataHash, err := typedData.HashStruct(typedData.PrimaryType, typedData.Message)
	if err != nil {
		return nil, fmt.Errorf("failed to hash struct: %w", err)
	}

	domainSeparator, err := typedData.HashStruct("EIP712Domain", typedData.Domain.Map())
	if err != nil {
		return nil, fmt.Errorf("failed to hash domain: %w", err)
	}

	// 0x19 0x01 <domainSeparator> <dataHash>
	rawData := []byte{0x19, 0x01}
	rawData = append(rawData, domainSeparator...)
	rawData = append(rawData, dataHash...)
	return crypto.Keccak256(rawData), nil
}

// SpendPermissionDomain returns the permission manager domain for a chain.
// The verifying contract is rendered in EIP-55 checksum form.
func SpendPermissionDomain(chainID *big.Int, verifyingContract string) TypedDataDomain {
	return TypedDataDomain{
		Name:              SpendPermissionManagerName,
		Version:           SpendPermissionManagerVersion,
		ChainID:           new(big.Int).Set(chainID),
		VerifyingContract: NormalizeAddress(verifyingContract),
	}
}

// SpendPermissionTypedData assembles the eth_signTypedData_v4 document for a permission.
func SpendPermissionTypedData(permission spendpermission.SpendPermission, chainID *big.Int, verifyingContract string) TypedData {
	return TypedData{
		Domain:      SpendPermissionDomain(chainID, verifyingContract),
		Types:       GetSpendPermissionEIP712Types(),
		PrimaryType: PrimaryTypeSpendPermission,
		Message:     permission,
	}
}

// SpendPermissionMessage converts a permission into typed values for hashing.
func SpendPermissionMessage(permission spendpermission.SpendPermission) (map[string]interface{}, error) {
	allowance, ok := new(big.Int).SetString(permission.Allowance, 10)
	if !ok {
		return nil, fmt.Errorf("invalid allowance: %s", permission.Allowance)
	}
	salt, ok := new(big.Int).SetString(permission.Salt, 10)
	if !ok {
		return nil, fmt.Errorf("invalid salt: %s", permission.Salt)
	}
	extraData, err := HexToBytes(permission.ExtraData)
	if err != nil {
		return nil, fmt.Errorf("invalid extraData: %w", err)
	}

	// Ensure addresses are checksummed
	return map[string]interface{}{
		"account":   common.HexToAddress(permission.Account).Hex(),
		"spender":   common.HexToAddress(permission.Spender).Hex(),
		"token":     common.HexToAddress(permission.Token).Hex(),
		"allowance": allowance,
		"period":    new(big.Int).SetUint64(permission.Period),
		"start":     new(big.Int).SetUint64(permission.Start),
		"end":       new(big.Int).SetUint64(permission.End),
		"salt":      salt,
		"extraData": extraData,
	}, nil
}

// HashSpendPermission hashes a SpendPermission message for the permission manager domain.
//
// Returns:
//
//	32-byte hash suitable for signing or verification
//	error if hashing fails
func HashSpendPermission(
	permission spendpermission.SpendPermission,
	chainID *big.Int,
	verifyingContract string,
) ([]byte, error) {
	message, err := SpendPermissionMessage(permission)
	if err != nil {
		return nil, err
	}
	domain := SpendPermissionDomain(chainID, verifyingContract)
	return HashTypedData(domain, GetSpendPermissionEIP712Types(), PrimaryTypeSpendPermission, message)
}
