package auth

import (
	"crypto/md5" //nolint:gosec
	"encoding/hex"
)

// Fingerprint maps a raw device descriptor (usually a User-Agent) to the
// deviceId stored in short tokens. Empty input is valid.
//
// The digest must never change: every issued short token and every stored
// deviceId was computed with it.
func Fingerprint(rawDevice string) string {
	sum := md5.Sum([]byte(rawDevice)) //nolint:gosec
	return hex.EncodeToString(sum[:])
}
