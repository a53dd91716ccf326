package keymanager

import (
	"crypto/ecdsa"
	"crypto/rand"
	"encoding/hex"
	"errors"

	"github.com/btcsuite/btcd/btcec"
	"github.com/hyperledger/sawtooth-sdk-go/signing"
	cache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

const appKeyCacheKey = "app"

type Keys struct {
	PrivateKey signing.PrivateKey
	PublicKey  signing.PublicKey
}

func (k Keys) GetSigner() *signing.Signer {
	cryptoFactory := signing.NewCryptoFactory(signing.NewSecp256k1Context())
	return cryptoFactory.NewSigner(k.PrivateKey)
}

// KeyManager hands out the application signing key used to sign ledger
// transactions. The key comes from configuration when provided, otherwise
// one is generated at first use; either way it is cached for the process
// lifetime.
type KeyManager struct {
	logger        *zap.Logger
	privateKeyHex string
	keyCache      *cache.Cache
}

func NewKeyManager(logger *zap.Logger, privateKeyHex string) KeyManager {
	return KeyManager{
		logger:        logger,
		privateKeyHex: privateKeyHex,
		keyCache:      cache.New(cache.NoExpiration, cache.NoExpiration),
	}
}

func (m KeyManager) GetAppKeys() (Keys, error) {
	if cached, ok := m.keyCache.Get(appKeyCacheKey); ok {
		return cached.(Keys), nil
	}

	var keys Keys
	var err error
	if m.privateKeyHex != "" {
		keys, err = keysFromHex(m.privateKeyHex)
	} else {
		m.logger.Warn("no app key configured, generating an ephemeral one")
		keys, err = GenerateKeys()
	}
	if err != nil {
		return Keys{}, err
	}

	m.keyCache.SetDefault(appKeyCacheKey, keys)
	return keys, nil
}

// source: https://github.com/ethereum/go-ethereum/blob/86d547707965685cef732aa28c15e6811ea98408/crypto/secp256k1/secp256_test.go#L19
func GenerateKeys() (Keys, error) {
	key, err := ecdsa.GenerateKey(btcec.S256(), rand.Reader)
	if err != nil {
		return Keys{}, errors.New("failed to generate the keys: " + err.Error())
	}

	privkey := make([]byte, 32)
	blob := key.D.Bytes()
	copy(privkey[32-len(blob):], blob)

	// the public key comes from the signing context so that it matches
	// the compressed form the signer reports
	private := signing.NewSecp256k1PrivateKey(privkey)
	public := signing.NewSecp256k1Context().GetPublicKey(private)

	return Keys{
		PrivateKey: private,
		PublicKey:  public,
	}, nil
}

func keysFromHex(privateKeyHex string) (Keys, error) {
	raw, err := hex.DecodeString(privateKeyHex)
	if err != nil {
		return Keys{}, errors.New("invalid app private key: " + err.Error())
	}
	if len(raw) != 32 {
		return Keys{}, errors.New("invalid app private key: expected 32 bytes")
	}

	private := signing.NewSecp256k1PrivateKey(raw)
	context := signing.NewSecp256k1Context()
	public := context.GetPublicKey(private)

	return Keys{
		PrivateKey: private,
		PublicKey:  public,
	}, nil
}
