package registryfamily

import (
	"sync"

	"doc-anchor/internal/hashing"
)

var (
	familyHash = ""

	calcOnce sync.Once
)

func initHashVars() {
	calcOnce.Do(func() {
		familyHash = hashing.CalculateSHA512FromStr(FamilyName)
	})
}

// GetDocAddress derives the state address holding the registry entry of a
// fingerprint: 6 chars of the family hash followed by 64 chars of the
// fingerprint hash, 70 hex chars in total as the validator requires.
func GetDocAddress(fingerprint string) (address string) {
	initHashVars()

	fingerprintHash := hashing.CalculateSHA512FromStr(fingerprint)

	return familyHash[0:6] + fingerprintHash[0:64]
}
