package mcp

import "fmt"

// requireNonNegative unwraps a required integer argument.
func requireNonNegative(key string, val *int) (int, error) {
	if val == nil {
		return 0, fmt.Errorf("%s parameter is required", key)
	}
	if *val < 0 {
		return 0, fmt.Errorf("%s cannot be negative", key)
	}
	return *val, nil
}

// clamp limits n to [lo, hi].
func clamp(n, lo, hi int) int {
	return max(lo, min(n, hi))
}
