package internal

import (
	"crypto/rsa"
	"fmt"
	"net/url"
	"strconv"
	"webpay/config"
	"webpay/entity"
)

const (
	operationCreateOrder = "CREATE_ORDER"
	depositFlag          = "1"
)

// PrivateKeyProvider is the part of KeyStore needed to sign requests.
type PrivateKeyProvider interface {
	MerchantPrivateKey() (*rsa.PrivateKey, error)
}

type field struct {
	name  string
	value string
}

// RequestBuilder creates signed redirect URLs to the gateway pay page.
type RequestBuilder struct {
	payUrl         string
	merchantNumber string
	keys           PrivateKeyProvider
}

func NewRequestBuilder(conf *config.Gateway, keys PrivateKeyProvider) *RequestBuilder {
	return &RequestBuilder{
		payUrl:         conf.PayUrl,
		merchantNumber: conf.MerchantNumber,
		keys:           keys,
	}
}

// BuildRedirectUrl returns the pay page URL for a CREATE_ORDER operation.
// The order values are passed to the gateway unchecked.
func (b *RequestBuilder) BuildRedirectUrl(order entity.OrderContext, redirectBackUrl string) (string, error) {
	if b.payUrl == "" {
		return "", fmt.Errorf("%w: pay url", config.ErrConfigurationMissing)
	}
	if b.merchantNumber == "" {
		return "", fmt.Errorf("%w: merchant number", config.ErrConfigurationMissing)
	}
	key, err := b.keys.MerchantPrivateKey()
	if err != nil {
		return "", err
	}

	fields := b.orderFields(order, redirectBackUrl)
	digest, err := Sign(key, digestText(fields))
	if err != nil {
		return "", err
	}

	query := url.Values{}
	for _, f := range fields {
		query.Set(f.name, f.value)
	}
	query.Set(entity.FieldDigest, digest)

	return fmt.Sprintf("%s?%s", b.payUrl, query.Encode()), nil
}

// orderFields lists the request fields in the order the gateway signs them.
func (b *RequestBuilder) orderFields(order entity.OrderContext, redirectBackUrl string) []field {
	return []field{
		{"MERCHANTNUMBER", b.merchantNumber},
		{"OPERATION", operationCreateOrder},
		{"ORDERNUMBER", order.OrderNumber()},
		{"AMOUNT", strconv.FormatInt(order.AmountInCents(), 10)},
		{"CURRENCY", order.CurrencyCode()},
		{"DEPOSITFLAG", depositFlag},
		{"URL", redirectBackUrl},
	}
}

func digestText(fields []field) string {
	values := make([]string, len(fields))
	for i, f := range fields {
		values[i] = f.value
	}
	return Canonicalize(values...)
}
