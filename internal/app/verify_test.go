package app_test

import (
	"context"
	"strings"
	"testing"

	"doc-anchor/internal/app"
	"doc-anchor/internal/hashing"
	"doc-anchor/internal/ledger"
	"doc-anchor/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyRoundTrip(t *testing.T) {
	index, anchor, blobs := newFakeIndex(), newFakeAnchor(), newFakeBlobs()
	a := newTestApp(index, anchor, blobs)

	doc, err := a.RegisterDocument(context.Background(), diplomaRequest("diploma content b1"))
	require.NoError(t, err)

	result, err := a.VerifyDocumentContent(context.Background(), []byte("diploma content b1"))
	require.NoError(t, err)

	assert.Equal(t, model.VerificationAuthentic, result.Status)
	assert.True(t, result.Authentic())
	assert.True(t, result.Indexed)
	assert.Equal(t, doc.ID, result.Record.ID)
	assert.Equal(t, "DIPLOMA", result.Record.DocType)
	assert.Equal(t, doc.Fingerprint, result.Fingerprint)
}

func TestVerifyUnknownContent(t *testing.T) {
	a := newTestApp(newFakeIndex(), newFakeAnchor(), newFakeBlobs())

	result, err := a.VerifyDocumentContent(context.Background(), []byte("arbitrary unseen bytes b3"))
	require.NoError(t, err)

	assert.Equal(t, model.VerificationNotAuthentic, result.Status)
	assert.False(t, result.Authentic())
}

func TestVerifyLedgerIsTheTruth(t *testing.T) {
	index, anchor, blobs := newFakeIndex(), newFakeAnchor(), newFakeBlobs()
	a := newTestApp(index, anchor, blobs)

	_, err := a.RegisterDocument(context.Background(), diplomaRequest("diploma content b1"))
	require.NoError(t, err)

	// the local record alone never certifies authenticity
	anchor.forceAbsent = true
	result, err := a.VerifyDocumentContent(context.Background(), []byte("diploma content b1"))
	require.NoError(t, err)
	assert.Equal(t, model.VerificationNotAuthentic, result.Status)
}

func TestVerifyInconclusiveOnLedgerFailure(t *testing.T) {
	index, anchor, blobs := newFakeIndex(), newFakeAnchor(), newFakeBlobs()
	a := newTestApp(index, anchor, blobs)

	_, err := a.RegisterDocument(context.Background(), diplomaRequest("diploma content b1"))
	require.NoError(t, err)

	anchor.existsErr = ledger.ErrUnavailable
	result, err := a.VerifyDocumentContent(context.Background(), []byte("diploma content b1"))
	require.NoError(t, err)

	// inconclusive, never a confident negative
	assert.Equal(t, model.VerificationInconclusive, result.Status)
	assert.NotEqual(t, model.VerificationNotAuthentic, result.Status)
	assert.False(t, result.Authentic())
}

func TestVerifyAnchoredButNotIndexed(t *testing.T) {
	index, anchor, blobs := newFakeIndex(), newFakeAnchor(), newFakeBlobs()
	fingerprint := hashing.Fingerprint([]byte("anchored elsewhere"))
	anchor.anchored[fingerprint] = ledger.Details{DocType: "ATTESTATION", Registrant: "02remote"}
	a := newTestApp(index, anchor, blobs)

	result, err := a.VerifyDocumentContent(context.Background(), []byte("anchored elsewhere"))
	require.NoError(t, err)

	assert.Equal(t, model.VerificationAuthentic, result.Status)
	assert.False(t, result.Indexed)
	// enrichment comes from the registry entry
	assert.Equal(t, "ATTESTATION", result.Record.DocType)
}

func TestVerifyFingerprintMode(t *testing.T) {
	index, anchor, blobs := newFakeIndex(), newFakeAnchor(), newFakeBlobs()
	a := newTestApp(index, anchor, blobs)

	doc, err := a.RegisterDocument(context.Background(), diplomaRequest("diploma content b1"))
	require.NoError(t, err)

	// the claimed fingerprint is normalized before lookup
	claimed := "  " + strings.ToUpper(doc.Fingerprint) + " "
	result, err := a.VerifyFingerprint(context.Background(), claimed)
	require.NoError(t, err)
	assert.Equal(t, model.VerificationAuthentic, result.Status)
	assert.Equal(t, doc.Fingerprint, result.Fingerprint)
}

func TestVerifyFingerprintMalformed(t *testing.T) {
	a := newTestApp(newFakeIndex(), newFakeAnchor(), newFakeBlobs())

	var validation app.ValidationError
	_, err := a.VerifyFingerprint(context.Background(), "not-a-fingerprint")
	assert.ErrorAs(t, err, &validation)

	_, err = a.VerifyFingerprint(context.Background(), "")
	assert.ErrorAs(t, err, &validation)
}

func TestVerifyEmptyContent(t *testing.T) {
	a := newTestApp(newFakeIndex(), newFakeAnchor(), newFakeBlobs())

	var validation app.ValidationError
	_, err := a.VerifyDocumentContent(context.Background(), nil)
	assert.ErrorAs(t, err, &validation)
}
