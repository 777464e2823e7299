/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"fmt"
)

// humanReadableSize formats a byte count with SI prefixes.
func humanReadableSize(bytes int64) string {
	const unit = 1000

	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}

	value := float64(bytes)
	for _, prefix := range "kMGTP" {
		value /= unit
		if value < unit {
			return fmt.Sprintf("%.1f %cB", value, prefix)
		}
	}

	return fmt.Sprintf("%.1f EB", value/unit)
}
