package registryfamily_test

import (
	"testing"

	"doc-anchor/internal/hashing"
	"doc-anchor/internal/ledger/registryfamily"

	"github.com/stretchr/testify/assert"
)

func TestGetDocAddress(t *testing.T) {
	fingerprint := hashing.Fingerprint([]byte("some diploma"))

	addr := registryfamily.GetDocAddress(fingerprint)
	assert.Equal(t, len(addr), 70)
	t.Log(addr)
}

func TestGetDocAddressStable(t *testing.T) {
	fingerprint := hashing.Fingerprint([]byte("some diploma"))

	first := registryfamily.GetDocAddress(fingerprint)
	second := registryfamily.GetDocAddress(fingerprint)
	assert.Equal(t, first, second)

	other := registryfamily.GetDocAddress(hashing.Fingerprint([]byte("other doc")))
	assert.NotEqual(t, first, other)
	// same family prefix for all registry entries
	assert.Equal(t, first[0:6], other[0:6])
}
