package pipeline

import (
	"crypto/sha256"
	"encoding/hex"
)

// Checksum returns the hex-encoded sha256 of the raw upload. Callers can use
// it to skip re-analysis of a file they have already seen.
func Checksum(buf []byte) string {
	sum := sha256.Sum256(buf)
	return hex.EncodeToString(sum[:])
}
