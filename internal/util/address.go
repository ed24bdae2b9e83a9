// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package util holds small cross-cutting helpers shared by the scoring
// engine and its callers.
package util

// AddressBrief truncates a long address to "first4...last4" for log lines,
// grounded on original_source/util/src/blockchain.rs's address_brief.
func AddressBrief(address string) string {
	if len(address) <= 10 {
		return address
	}
	return address[:4] + "..." + address[len(address)-4:]
}
