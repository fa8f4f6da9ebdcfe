package internal

import (
	"crypto/rsa"
	"webpay/config"
	"webpay/entity"
)

// PublicKeyProvider is the part of KeyStore needed to verify callbacks.
type PublicKeyProvider interface {
	GatewayPublicKey() (*rsa.PublicKey, error)
}

// ResponseVerifier authenticates gateway callbacks.
type ResponseVerifier struct {
	merchantNumber string
	keys           PublicKeyProvider
}

func NewResponseVerifier(conf *config.Gateway, keys PublicKeyProvider) *ResponseVerifier {
	return &ResponseVerifier{
		merchantNumber: conf.MerchantNumber,
		keys:           keys,
	}
}

// IsSuccessfulAndAuthentic reports whether both signatures verify and the payment
// succeeded. An inauthentic callback, a declined payment and an unloadable gateway
// key all give false.
func (v *ResponseVerifier) IsSuccessfulAndAuthentic(params entity.ResponseParams) bool {
	outcome, err := v.Verify(params)
	return err == nil && outcome == entity.OutcomeSuccess
}

// Verify checks DIGEST and DIGEST1 before looking at the result codes.
// The error is only set when the gateway key cannot be loaded.
func (v *ResponseVerifier) Verify(params entity.ResponseParams) (entity.Outcome, error) {
	key, err := v.keys.GatewayPublicKey()
	if err != nil {
		return entity.OutcomeInauthentic, err
	}

	text := responseDigestText(params)
	if !Verify(key, params.Get(entity.FieldDigest), text) {
		return entity.OutcomeInauthentic, nil
	}
	// DIGEST1 binds the response to this merchant
	if !Verify(key, params.Get(entity.FieldDigest1), Canonicalize(text, v.merchantNumber)) {
		return entity.OutcomeInauthentic, nil
	}

	if params.Get(entity.FieldPrCode) == "0" && params.Get(entity.FieldSrCode) == "0" {
		return entity.OutcomeSuccess, nil
	}
	return entity.OutcomeDeclined, nil
}

func responseDigestText(params entity.ResponseParams) string {
	return Canonicalize(
		params.Get(entity.FieldOperation),
		params.Get(entity.FieldOrderNumber),
		params.Get(entity.FieldPrCode),
		params.Get(entity.FieldSrCode),
		params.Get(entity.FieldResultText),
	)
}
