package utils

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// FormatUnits converts a smallest-unit integer into a decimal string with the
// given number of decimals, without going through floating point.
// Example: amount=1500000000000000000, decimals=18 => "1.5"
func FormatUnits(amount *big.Int, decimals uint8) string {
	if amount == nil || amount.Sign() == 0 {
		return "0"
	}
	return decimal.NewFromBigInt(amount, -int32(decimals)).String()
}

// ParseUnits parses a base-10 smallest-unit string (as returned by block
// explorers) and formats it with FormatUnits.
func ParseUnits(raw string, decimals uint8) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "0", nil
	}
	amount, ok := new(big.Int).SetString(raw, 10)
	if !ok {
		return "", fmt.Errorf("invalid integer amount %q", raw)
	}
	return FormatUnits(amount, decimals), nil
}
