package ledger

import (
	"testing"

	"doc-anchor/internal/hashing"
	"doc-anchor/internal/keymanager"
	"doc-anchor/internal/ledger/registryfamily"

	"github.com/fxamacker/cbor"
	"github.com/hyperledger/sawtooth-sdk-go/protobuf/transaction_pb2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"
)

func TestNewRegistrationTransaction(t *testing.T) {
	keys, err := keymanager.GenerateKeys()
	require.NoError(t, err)

	fingerprint := hashing.Fingerprint([]byte("attestation"))
	txn, err := NewRegistrationTransaction(fingerprint, "ATTESTATION", keys.GetSigner())
	require.NoError(t, err)

	assert.Len(t, txn.GetDocAddress(), 70)
	assert.NotEmpty(t, txn.GetTransactionID())

	var header transaction_pb2.TransactionHeader
	require.NoError(t, proto.Unmarshal(txn.transaction.Header, &header))
	assert.Equal(t, registryfamily.FamilyName, header.FamilyName)
	assert.Equal(t, registryfamily.FamilyVersion, header.FamilyVersion)
	assert.Equal(t, []string{txn.GetDocAddress()}, header.Inputs)
	assert.Equal(t, []string{txn.GetDocAddress()}, header.Outputs)
	assert.Equal(t, hashing.CalculateSHA512(txn.transaction.Payload), header.PayloadSha512)

	payload := make(map[interface{}]interface{})
	require.NoError(t, cbor.Unmarshal(txn.transaction.Payload, &payload))
	assert.Equal(t, fingerprint, payload["fingerprint"])
	assert.Equal(t, "ATTESTATION", payload["docType"])
	assert.Equal(t, string(registryfamily.ActionRegister), payload["action"])
	assert.Equal(t, keys.PublicKey.AsHex(), payload["registrant"])
}
