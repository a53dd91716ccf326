package hashing

import (
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
)

// FingerprintLength is the length of a hex-encoded SHA-256 digest.
const FingerprintLength = 64

// Fingerprint returns the lowercase hex SHA-256 digest of data.
// Byte-identical input always yields byte-identical output; the dedup
// and verification flows rely on that.
func Fingerprint(data []byte) string {
	digest := sha256.Sum256(data)
	return hex.EncodeToString(digest[:])
}

// IsFingerprint reports whether s looks like a valid fingerprint:
// exactly 64 lowercase hex characters.
func IsFingerprint(s string) bool {
	if len(s) != FingerprintLength {
		return false
	}
	for _, c := range s {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}

// CalculateSHA512 returns the hex SHA-512 digest of data. The ledger
// validator expects addresses and payload digests in SHA-512.
func CalculateSHA512(data []byte) string {
	digest := sha512.Sum512(data)
	return hex.EncodeToString(digest[:])
}

func CalculateSHA512FromStr(str string) string {
	return CalculateSHA512([]byte(str))
}
