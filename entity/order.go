// Package entity defines data models for the webpay gateway client.
package entity

// OrderContext is implemented by any payment-bearing entity of the host application.
// The gateway client does not validate these values: the implementer guarantees a
// unique, non-empty order number with characters the gateway accepts, a non-negative
// amount, and a currency code the merchant account supports.
type OrderContext interface {
	OrderNumber() string
	// AmountInCents returns the amount in minor currency units.
	AmountInCents() int64
	// CurrencyCode returns the ISO 4217 code, numeric (e.g. "203") or alpha.
	CurrencyCode() string
}

// Order is a plain OrderContext for hosts that have no entity of their own.
type Order struct {
	Number   string `json:"order_number" bson:"order_number"`
	Amount   int64  `json:"amount" bson:"amount"`
	Currency string `json:"currency" bson:"currency"`
}

func (o Order) OrderNumber() string {
	return o.Number
}

func (o Order) AmountInCents() int64 {
	return o.Amount
}

func (o Order) CurrencyCode() string {
	return o.Currency
}
