package spendpermission

import (
	"context"
)

// Provider is the wallet provider handle obtained from the SDK.
// Requests are JSON-RPC calls such as wallet_connect, eth_requestAccounts
// and eth_signTypedData_v4. The result is decoded into result.
//
// *rpc.Client from go-ethereum satisfies this interface.
type Provider interface {
	CallContext(ctx context.Context, result interface{}, method string, args ...interface{}) error
}

// ============================================================================
// Mechanism Interfaces
// ============================================================================

// PermissionMechanism is implemented by chain-family specific permission builders.
// The EVM implementation lives in mechanisms/evm.
type PermissionMechanism interface {
	// Family returns the CAIP family pattern this mechanism serves.
	//
	// Examples:
	//   - EVM mechanisms return "eip155:*"
	Family() Network

	// BuildPermission assembles a new SpendPermission for the request.
	// It draws a fresh salt and start time on every call.
	//
	// Args:
	//   ctx: Context for cancellation
	//   request: Validated request inputs
	//
	// Returns:
	//   The unsigned permission or an error if the inputs cannot be encoded
	BuildPermission(ctx context.Context, request PermissionRequest) (SpendPermission, error)

	// SignPermission asks the provider for a typed-data signature over the permission.
	// The returned signature is a 0x-prefixed hex string.
	SignPermission(ctx context.Context, provider Provider, permission SpendPermission) (string, error)

	// ParseAllowance converts a human-entered decimal amount into base units.
	// It is used for precondition checks before any provider request.
	ParseAllowance(allowance string) (string, error)
}
