// Package anonymizer keeps identity data out of log output.
package anonymizer

import (
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/sha3"
)

// Fingerprint returns a short Keccak-256 digest of value, stable across runs,
// so that log lines about the same document number can be correlated.
func Fingerprint(value string) string {
	if value == "" {
		return ""
	}
	d := sha3.NewLegacyKeccak256()
	d.Write([]byte(value))
	return hex.EncodeToString(d.Sum(nil)[:8])
}

// Mask replaces all but the last visible characters of value with '*'.
func Mask(value string, visible int) string {
	if visible < 0 {
		visible = 0
	}
	if len(value) <= visible {
		return strings.Repeat("*", len(value))
	}
	return strings.Repeat("*", len(value)-visible) + value[len(value)-visible:]
}
