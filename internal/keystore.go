package internal

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"webpay/config"
	"webpay/services"

	"github.com/youmark/pkcs8"
)

const (
	keyMerchant = "merchant private key"
	keyGateway  = "gateway public key"
)

// KeyLoadError is returned when key material cannot be read or decoded.
// It is not retried automatically; the next call after the material is fixed loads it again.
type KeyLoadError struct {
	Key string
	Err error
}

func (e *KeyLoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Key, e.Err)
}

func (e *KeyLoadError) Unwrap() error {
	return e.Err
}

// FileSource reads key material from a file path.
type FileSource string

func (f FileSource) Read() ([]byte, error) {
	if f == "" {
		return nil, fmt.Errorf("%w: key path", config.ErrConfigurationMissing)
	}
	return os.ReadFile(string(f))
}

// StaticSource serves key material already held in memory, e.g. fetched from a secret store.
type StaticSource []byte

func (s StaticSource) Read() ([]byte, error) {
	if len(s) == 0 {
		return nil, fmt.Errorf("%w: key material", config.ErrConfigurationMissing)
	}
	return s, nil
}

// KeyStore loads the merchant signing key and the gateway verification key on first
// use and keeps them for the life of the process.
type KeyStore struct {
	merchantSource services.KeySource
	password       string
	gatewaySource  services.KeySource

	mutex       sync.Mutex
	merchantKey atomic.Pointer[rsa.PrivateKey]
	gatewayKey  atomic.Pointer[rsa.PublicKey]
}

func NewKeyStore(merchantSource services.KeySource, password string, gatewaySource services.KeySource) *KeyStore {
	return &KeyStore{
		merchantSource: merchantSource,
		password:       password,
		gatewaySource:  gatewaySource,
	}
}

// NewFileKeyStore creates a key store reading the files named in the gateway configuration.
func NewFileKeyStore(conf *config.Gateway) *KeyStore {
	return NewKeyStore(FileSource(conf.MerchantKeyPath), conf.MerchantKeyPassword, FileSource(conf.CertificatePath))
}

// MerchantPrivateKey returns the merchant RSA key, reading and decoding it on the first call.
func (k *KeyStore) MerchantPrivateKey() (*rsa.PrivateKey, error) {
	if key := k.merchantKey.Load(); key != nil {
		return key, nil
	}
	k.mutex.Lock()
	defer k.mutex.Unlock()
	if key := k.merchantKey.Load(); key != nil {
		return key, nil
	}

	key, err := k.loadPrivateKey()
	if err != nil {
		return nil, &KeyLoadError{Key: keyMerchant, Err: err}
	}
	k.merchantKey.Store(key)
	return key, nil
}

// GatewayPublicKey returns the public key of the gateway certificate, reading it on the first call.
func (k *KeyStore) GatewayPublicKey() (*rsa.PublicKey, error) {
	if key := k.gatewayKey.Load(); key != nil {
		return key, nil
	}
	k.mutex.Lock()
	defer k.mutex.Unlock()
	if key := k.gatewayKey.Load(); key != nil {
		return key, nil
	}

	key, err := k.loadPublicKey()
	if err != nil {
		return nil, &KeyLoadError{Key: keyGateway, Err: err}
	}
	k.gatewayKey.Store(key)
	return key, nil
}

// Invalidate drops both cached keys, so the next call reads the sources again.
// Use it when key material is rotated without restarting the process.
func (k *KeyStore) Invalidate() {
	k.mutex.Lock()
	defer k.mutex.Unlock()
	k.merchantKey.Store(nil)
	k.gatewayKey.Store(nil)
}

func (k *KeyStore) loadPrivateKey() (*rsa.PrivateKey, error) {
	if k.merchantSource == nil {
		return nil, fmt.Errorf("%w: merchant key source", config.ErrConfigurationMissing)
	}
	data, err := k.merchantSource.Read()
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, fmt.Errorf("no PEM block found")
	}
	return parsePrivateKey(block, k.password)
}

func (k *KeyStore) loadPublicKey() (*rsa.PublicKey, error) {
	if k.gatewaySource == nil {
		return nil, fmt.Errorf("%w: gateway certificate source", config.ErrConfigurationMissing)
	}
	data, err := k.gatewaySource.Read()
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, fmt.Errorf("no PEM block found")
	}
	if block.Type != "CERTIFICATE" {
		return nil, fmt.Errorf("unexpected PEM type %q", block.Type)
	}
	cert, err := x509.ParseCertificate(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("parse certificate: %w", err)
	}
	key, ok := cert.PublicKey.(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("certificate key is %T, not RSA", cert.PublicKey)
	}
	return key, nil
}

func parsePrivateKey(block *pem.Block, password string) (*rsa.PrivateKey, error) {
	switch block.Type {
	case "ENCRYPTED PRIVATE KEY":
		if password == "" {
			return nil, fmt.Errorf("key is encrypted, password not set")
		}
		key, err := pkcs8.ParsePKCS8PrivateKeyRSA(block.Bytes, []byte(password))
		if err != nil {
			return nil, fmt.Errorf("decrypt pkcs8: %w", err)
		}
		return key, nil
	case "PRIVATE KEY":
		key, err := pkcs8.ParsePKCS8PrivateKeyRSA(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("parse pkcs8: %w", err)
		}
		return key, nil
	case "RSA PRIVATE KEY":
		der := block.Bytes
		// legacy OpenSSL "Proc-Type: 4,ENCRYPTED" keys
		if x509.IsEncryptedPEMBlock(block) {
			if password == "" {
				return nil, fmt.Errorf("key is encrypted, password not set")
			}
			var err error
			der, err = x509.DecryptPEMBlock(block, []byte(password))
			if err != nil {
				if errors.Is(err, x509.IncorrectPasswordError) {
					return nil, fmt.Errorf("wrong password: %w", err)
				}
				return nil, fmt.Errorf("decrypt: %w", err)
			}
		}
		key, err := x509.ParsePKCS1PrivateKey(der)
		if err != nil {
			return nil, fmt.Errorf("parse pkcs1: %w", err)
		}
		return key, nil
	default:
		return nil, fmt.Errorf("unexpected PEM type %q", block.Type)
	}
}
