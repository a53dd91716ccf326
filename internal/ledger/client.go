/**
 * Copyright 2018 Intel Corporation
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 * ------------------------------------------------------------------------------
 */

// based on https://github.com/hyperledger/sawtooth-sdk-go/blob/21f3d02d2446b6a91a945c93a8b94b1ddf616841/examples/intkey_go/src/sawtooth_intkey_client/intkey_client.go

package ledger

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io/ioutil"
	"net/http"
	"strings"
	"time"

	"doc-anchor/internal/ledger/registryfamily"

	"github.com/fxamacker/cbor"
	"github.com/hyperledger/sawtooth-sdk-go/protobuf/batch_pb2"
	"github.com/hyperledger/sawtooth-sdk-go/protobuf/transaction_pb2"
	"github.com/hyperledger/sawtooth-sdk-go/signing"
	"go.uber.org/zap"
	"google.golang.org/protobuf/proto"
	"gopkg.in/yaml.v3"
)

const (
	batchSubmitAPI         string = "batches"
	batchStatusAPI         string = "batch_statuses"
	stateAPI               string = "state"
	statusAPI              string = "status"
	contentTypeOctetStream string = "application/octet-stream"

	statusCommitted = "COMMITTED"
	statusInvalid   = "INVALID"

	// how long the REST API is asked to hold a status poll open
	statusPollWait uint = 5
)

// Config is the ledger endpoint configuration, injected once at startup.
type Config struct {
	RestAPIAddr string
	// RequestTimeout bounds one REST API round-trip.
	RequestTimeout time.Duration
	// SubmitTimeout bounds waiting for commit confirmation of a batch.
	SubmitTimeout time.Duration
}

// Client talks to the validator REST API. It is the only component that
// knows the ledger technology; everything above it sees register/exists/
// details on fingerprints.
type Client struct {
	logger        *zap.Logger
	url           string
	submitTimeout time.Duration
	httpClient    *http.Client
	signer        *signing.Signer
}

func NewClient(logger *zap.Logger, cfg Config, signer *signing.Signer) *Client {
	url := cfg.RestAPIAddr
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		url = "http://" + url
	}

	return &Client{
		logger:        logger,
		url:           url,
		submitTimeout: cfg.SubmitTimeout,
		httpClient:    &http.Client{Timeout: cfg.RequestTimeout},
		signer:        signer,
	}
}

// Register anchors the fingerprint on the ledger and blocks until the
// batch commits. It returns the transaction ID as the ledger reference.
// A rejection caused by an already present registry entry surfaces as
// ErrAlreadyAnchored so that callers can treat it as a conflict instead
// of a hard failure.
func (c *Client) Register(ctx context.Context, fingerprint string, docType string) (ledgerRef string, err error) {

	transaction, err := NewRegistrationTransaction(fingerprint, docType, c.signer)
	if err != nil {
		return "", err
	}

	rawBatchList, err := createBatchList(
		[]*transaction_pb2.Transaction{&transaction.transaction}, c.signer)
	if err != nil {
		return "", errors.New("unable to construct batch list: " + err.Error())
	}
	batchID := rawBatchList.Batches[0].HeaderSignature
	batchList, err := proto.Marshal(&rawBatchList)
	if err != nil {
		return "", errors.New("unable to serialize batch list: " + err.Error())
	}

	body, statusCode, err := c.sendRequest(ctx, batchSubmitAPI, batchList, contentTypeOctetStream)
	if err != nil {
		return "", err
	}
	// 5xx means the REST API could not serve the request (validator
	// unreachable); only a 4xx is a verdict on the batch itself
	if statusCode >= 500 {
		return "", fmt.Errorf("%w: batch submit responded with status %d: %s", ErrUnavailable, statusCode, string(body))
	}
	if statusCode >= 400 {
		return "", fmt.Errorf("%w: batch submit responded with status %d: %s", ErrRejected, statusCode, string(body))
	}

	c.logger.Debug("batch submitted", zap.String("batchID", batchID), zap.String("fingerprint", fingerprint))

	deadline := time.Now().Add(c.submitTimeout)
	for time.Now().Before(deadline) {
		status, message, err := c.getStatus(ctx, batchID, statusPollWait)
		if err != nil {
			return "", err
		}

		switch status {
		case statusCommitted:
			return transaction.GetTransactionID(), nil

		case statusInvalid:
			anchored, existsErr := c.Exists(ctx, fingerprint)
			if existsErr == nil && anchored {
				return "", fmt.Errorf("%w: %s", ErrAlreadyAnchored, fingerprint)
			}
			return "", fmt.Errorf("%w: %s", ErrRejected, message)
		}
		// PENDING or UNKNOWN, keep polling until the deadline
	}

	return "", fmt.Errorf("%w: batch %s not committed within %s", ErrUnavailable, batchID, c.submitTimeout)
}

// Exists answers whether the fingerprint has ever been anchored. A false
// result is a confident negative only when the query itself succeeded;
// transport failures surface as ErrUnavailable.
func (c *Client) Exists(ctx context.Context, fingerprint string) (bool, error) {
	addr := registryfamily.GetDocAddress(fingerprint)

	body, statusCode, err := c.sendRequest(ctx, stateAPI+"/"+addr, nil, "")
	if err != nil {
		return false, err
	}

	switch statusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	}

	return false, fmt.Errorf("%w: state query responded with status %d: %s", ErrUnavailable, statusCode, string(body))
}

// Details returns the registry entry stored for the fingerprint.
func (c *Client) Details(ctx context.Context, fingerprint string) (Details, error) {
	addr := registryfamily.GetDocAddress(fingerprint)

	body, statusCode, err := c.sendRequest(ctx, stateAPI+"/"+addr, nil, "")
	if err != nil {
		return Details{}, err
	}

	switch {
	case statusCode == http.StatusNotFound:
		return Details{}, ErrNotFound
	case statusCode >= 400:
		return Details{}, fmt.Errorf("%w: state query responded with status %d: %s", ErrUnavailable, statusCode, string(body))
	}

	var state stateResponse
	if err := yaml.Unmarshal(body, &state); err != nil {
		return Details{}, errors.New("failed to unmarshal the state response: " + err.Error())
	}

	rawEntry, err := base64.StdEncoding.DecodeString(state.Data)
	if err != nil {
		return Details{}, errors.New("failed to decode the state payload: " + err.Error())
	}

	var entry registeredDoc
	if err := cbor.Unmarshal(rawEntry, &entry); err != nil {
		return Details{}, errors.New("failed to unmarshal the registry entry: " + err.Error())
	}

	return Details{
		DocType:      entry.DocType,
		Registrant:   entry.Registrant,
		RegisteredAt: time.Unix(entry.RegisteredAt, 0).UTC(),
	}, nil
}

// Info reports the validator status endpoint response, used by the tech
// endpoint to check reachability.
func (c *Client) Info(ctx context.Context) (string, error) {
	body, statusCode, err := c.sendRequest(ctx, statusAPI, nil, "")
	if err != nil {
		return "", err
	}
	if statusCode >= 400 {
		return "", fmt.Errorf("%w: status endpoint responded with %d", ErrUnavailable, statusCode)
	}

	return string(body), nil
}

func (c *Client) getStatus(ctx context.Context, batchID string, wait uint) (status string, message string, err error) {

	apiSuffix := fmt.Sprintf("%s?id=%s&wait=%d", batchStatusAPI, batchID, wait)
	body, statusCode, err := c.sendRequest(ctx, apiSuffix, nil, "")
	if err != nil {
		return "", "", err
	}
	if statusCode >= 400 {
		return "", "", fmt.Errorf("%w: batch status responded with %d", ErrUnavailable, statusCode)
	}

	var parsed batchStatusResponse
	if err := yaml.Unmarshal(body, &parsed); err != nil {
		return "", "", errors.New("failed to unmarshal the batch status: " + err.Error())
	}
	if len(parsed.Data) == 0 {
		return "", "", errors.New("batch status response holds no entries")
	}

	entry := parsed.Data[0]
	if len(entry.InvalidTransactions) > 0 {
		message = entry.InvalidTransactions[0].Message
	}

	return entry.Status, message, nil
}

func (c *Client) sendRequest(ctx context.Context, apiSuffix string, data []byte, contentType string) (body []byte, statusCode int, err error) {

	url := fmt.Sprintf("%s/%s", c.url, apiSuffix)

	var request *http.Request
	if len(data) > 0 {
		request, err = http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(data))
		if request != nil {
			request.Header.Set("Content-Type", contentType)
		}
	} else {
		request, err = http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	}
	if err != nil {
		return nil, 0, errors.New("failed to build the request: " + err.Error())
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: failed to connect to the REST API: %v", ErrUnavailable, err)
	}
	defer response.Body.Close()

	body, err = ioutil.ReadAll(response.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: error reading the response: %v", ErrUnavailable, err)
	}

	return body, response.StatusCode, nil
}

func createBatchList(
	transactions []*transaction_pb2.Transaction, signer *signing.Signer) (batch_pb2.BatchList, error) {

	// Get list of TransactionHeader signatures
	transactionSignatures := []string{}
	for _, transaction := range transactions {
		transactionSignatures =
			append(transactionSignatures, transaction.HeaderSignature)
	}

	// Construct BatchHeader
	rawBatchHeader := batch_pb2.BatchHeader{
		SignerPublicKey: signer.GetPublicKey().AsHex(),
		TransactionIds:  transactionSignatures,
	}
	batchHeader, err := proto.Marshal(&rawBatchHeader)
	if err != nil {
		return batch_pb2.BatchList{}, errors.New(
			"unable to serialize batch header: " + err.Error())
	}

	// Signature of BatchHeader
	batchHeaderSignature := hex.EncodeToString(
		signer.Sign(batchHeader))

	// Construct Batch
	batch := batch_pb2.Batch{
		Header:          batchHeader,
		Transactions:    transactions,
		HeaderSignature: batchHeaderSignature,
	}

	// Construct BatchList
	return batch_pb2.BatchList{
		Batches: []*batch_pb2.Batch{&batch},
	}, nil
}
