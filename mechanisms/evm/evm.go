// Package evm provides EVM support for spend permissions.
// It shapes the SpendPermission EIP-712 message of the Spend Permission
// Manager and relays eth_signTypedData_v4 requests to the wallet provider.
package evm

import (
	spendpermission "github.com/base-spend-permission/go"
)

// RegisterClient creates a SpendPermissionClient for network and registers it
// with the spend permission client under the same network identifier.
func RegisterClient(
	client *spendpermission.Client,
	network string,
	opts ...ClientOption,
) (*SpendPermissionClient, error) {
	mechanism, err := NewSpendPermissionClient(network, opts...)
	if err != nil {
		return nil, err
	}
	client.RegisterMechanism(spendpermission.Network(network), mechanism)
	return mechanism, nil
}

// ChainIDs returns the chain ids of the given networks, skipping unknown ones.
// The result is what the wallet SDK is configured with.
func ChainIDs(networks ...string) []int64 {
	ids := make([]int64, 0, len(networks))
	for _, network := range networks {
		if config, err := GetNetworkConfig(network); err == nil {
			ids = append(ids, config.ChainID.Int64())
		}
	}
	return ids
}
