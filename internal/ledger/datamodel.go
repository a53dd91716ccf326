package ledger

import "time"

// registeredDoc is the CBOR payload the registry transaction family keeps
// at the fingerprint address.
type registeredDoc struct {
	Fingerprint  string `cbor:"fingerprint"`
	DocType      string `cbor:"docType"`
	Registrant   string `cbor:"registrant"`
	RegisteredAt int64  `cbor:"registeredAt"`
}

// Details is the read enrichment returned for an anchored fingerprint.
type Details struct {
	DocType      string
	Registrant   string
	RegisteredAt time.Time
}

type stateResponse struct {
	Data string `yaml:"data"`
}

type batchStatusResponse struct {
	Data []struct {
		ID                  string `yaml:"id"`
		Status              string `yaml:"status"`
		InvalidTransactions []struct {
			ID      string `yaml:"id"`
			Message string `yaml:"message"`
		} `yaml:"invalid_transactions"`
	} `yaml:"data"`
}
