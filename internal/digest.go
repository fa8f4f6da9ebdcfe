package internal

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha1"
	"fmt"
	"strings"

	"github.com/golang-module/dongle"
)

const digestSeparator = "|"

// Canonicalize joins field values in the given order with "|".
// Values are not escaped, so a value containing "|" shifts the field boundaries
// of the signed text.
func Canonicalize(values ...string) string {
	return strings.Join(values, digestSeparator)
}

// Sign returns the base64 RSA-SHA1 signature of text on a single line.
func Sign(key *rsa.PrivateKey, text string) (string, error) {
	if key == nil {
		return "", fmt.Errorf("sign: private key not set")
	}
	hash := sha1.Sum([]byte(text))
	signature, err := rsa.SignPKCS1v15(rand.Reader, key, crypto.SHA1, hash[:])
	if err != nil {
		return "", fmt.Errorf("sign: %w", err)
	}
	encoder := dongle.Encode.FromBytes(signature).ByBase64()
	if encoder.Error != nil {
		return "", fmt.Errorf("encode signature: %w", encoder.Error)
	}
	return singleLine(encoder.ToString()), nil
}

// Verify checks a base64 RSA-SHA1 signature of text. Malformed encoding and
// signature mismatch are both reported as false.
func Verify(key *rsa.PublicKey, signature, text string) bool {
	if key == nil {
		return false
	}
	signature = singleLine(signature)
	if signature == "" {
		return false
	}
	decoder := dongle.Decode.FromString(signature).ByBase64()
	if decoder.Error != nil {
		return false
	}
	raw := decoder.ToBytes()
	if len(raw) == 0 {
		return false
	}
	hash := sha1.Sum([]byte(text))
	return rsa.VerifyPKCS1v15(key, crypto.SHA1, hash[:], raw) == nil
}

func singleLine(s string) string {
	return strings.NewReplacer("\r", "", "\n", "").Replace(s)
}
