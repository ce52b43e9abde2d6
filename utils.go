package spendpermission

// findByNetwork finds an implementation registered for a network.
// This supports pattern matching for networks (e.g., "eip155:*")
func findByNetwork[T any](networkMap map[Network]T, network Network) T {
	var zero T

	// Try exact match first
	if impl, exists := networkMap[network]; exists {
		return impl
	}

	// Try pattern matching
	for registeredNetwork, impl := range networkMap {
		if network.Match(registeredNetwork) || registeredNetwork.Match(network) {
			return impl
		}
	}

	return zero
}
