package internal

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"sync"
	"sync/atomic"
	"testing"
	"time"
	"webpay/config"
	"webpay/entity"

	"github.com/stretchr/testify/require"
)

const testMerchantNumber = "8888"

type testKeys struct {
	merchant    *rsa.PrivateKey
	merchantPem []byte
	gateway     *rsa.PrivateKey
	gatewayCert []byte
}

var (
	fixtureOnce sync.Once
	fixture     testKeys
)

// keys generates one merchant key and one gateway key with certificate per test run.
func keys(t *testing.T) testKeys {
	t.Helper()
	fixtureOnce.Do(func() {
		merchant, err := rsa.GenerateKey(rand.Reader, 2048)
		if err != nil {
			panic(err)
		}
		gateway, err := rsa.GenerateKey(rand.Reader, 2048)
		if err != nil {
			panic(err)
		}
		fixture = testKeys{
			merchant: merchant,
			merchantPem: pem.EncodeToMemory(&pem.Block{
				Type:  "RSA PRIVATE KEY",
				Bytes: x509.MarshalPKCS1PrivateKey(merchant),
			}),
			gateway:     gateway,
			gatewayCert: certificatePem(gateway.Public(), gateway),
		}
	})
	return fixture
}

func certificatePem(public any, signer any) []byte {
	template := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "gpe.test"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(24 * time.Hour),
	}
	der, err := x509.CreateCertificate(rand.Reader, template, template, public, signer)
	if err != nil {
		panic(err)
	}
	return pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})
}

func ecdsaCertificatePem(t *testing.T) []byte {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	return certificatePem(key.Public(), key)
}

func testGateway() *config.Gateway {
	return &config.Gateway{
		PayUrl:         "https://pay.test/pgw/order.do",
		MerchantNumber: testMerchantNumber,
	}
}

func testKeyStore(t *testing.T) *KeyStore {
	t.Helper()
	k := keys(t)
	return NewKeyStore(StaticSource(k.merchantPem), "", StaticSource(k.gatewayCert))
}

// gatewayResponse builds callback fields signed the way the gateway signs them.
func gatewayResponse(t *testing.T, prCode, srCode, merchantNumber string) entity.ResponseParams {
	t.Helper()
	k := keys(t)
	params := entity.ResponseParams{
		entity.FieldOperation:   "CREATE_ORDER",
		entity.FieldOrderNumber: "12345678",
		entity.FieldPrCode:      prCode,
		entity.FieldSrCode:      srCode,
		entity.FieldResultText:  "OK",
	}
	text := responseDigestText(params)
	digest, err := Sign(k.gateway, text)
	require.NoError(t, err)
	digest1, err := Sign(k.gateway, text+"|"+merchantNumber)
	require.NoError(t, err)
	params[entity.FieldDigest] = digest
	params[entity.FieldDigest1] = digest1
	return params
}

type countingSource struct {
	data  []byte
	err   error
	reads atomic.Int32
}

func (c *countingSource) Read() ([]byte, error) {
	c.reads.Add(1)
	if c.err != nil {
		return nil, c.err
	}
	return c.data, nil
}
