package util

import (
	"strconv"
	"strings"
)

// ParseIntDefault parses string to int or returns default if empty/invalid.
func ParseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}

// StripExchangeSuffix removes a trailing exchange qualifier such as ".NS"
// or ".BO" from a ticker symbol. "RELIANCE.NS" becomes "RELIANCE".
func StripExchangeSuffix(symbol string) string {
	if i := strings.IndexByte(symbol, '.'); i > 0 {
		return symbol[:i]
	}
	return symbol
}
