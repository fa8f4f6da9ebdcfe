package services

import (
	"context"
	"webpay/entity"
)

type LogHandler interface {
	Debug(text string)
	Info(text string)
	Warn(text string)
	Error(text string, err error)
}

type Database interface {
	WriteLogMessage(ctx context.Context, data Data) error
	SavePaymentResult(ctx context.Context, result *entity.PaymentResult) error
	GetPaymentResult(ctx context.Context, orderNumber string) (*entity.PaymentResult, error)
}

type Data interface {
	DataType() string
}

// KeySource provides raw PEM key material, from a file or a secret store.
type KeySource interface {
	Read() ([]byte, error)
}

type Payments interface {
	PayUrl(ctx context.Context, order entity.OrderContext, redirectBackUrl string) (string, error)
	Notify(ctx context.Context, params entity.ResponseParams) (entity.Outcome, error)
}
