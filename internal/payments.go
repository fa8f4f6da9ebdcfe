package internal

import (
	"context"
	"fmt"
	"time"
	"webpay/entity"
	"webpay/services"
)

// Payments connects the request builder and the response verifier to the host:
// it logs, counts and stores every operation.
type Payments struct {
	builder  *RequestBuilder
	verifier *ResponseVerifier
	database services.Database
	logger   services.LogHandler
}

func NewPayments(builder *RequestBuilder, verifier *ResponseVerifier) *Payments {
	return &Payments{
		builder:  builder,
		verifier: verifier,
	}
}

func (p *Payments) SetDatabase(database services.Database) {
	p.database = database
}

func (p *Payments) SetLogger(logger services.LogHandler) {
	p.logger = logger
}

// PayUrl returns the signed pay page URL for the order.
func (p *Payments) PayUrl(_ context.Context, order entity.OrderContext, redirectBackUrl string) (string, error) {
	payUrl, err := p.builder.BuildRedirectUrl(order, redirectBackUrl)
	if err != nil {
		redirectRequests.WithLabelValues("error").Inc()
		p.logError(fmt.Sprintf("pay url: order %s", secret(order.OrderNumber())), err)
		return "", err
	}
	redirectRequests.WithLabelValues("ok").Inc()
	p.logInfo(fmt.Sprintf("pay url: order %s; amount %d %s", secret(order.OrderNumber()), order.AmountInCents(), order.CurrencyCode()))
	return payUrl, nil
}

// Notify verifies a gateway callback and stores its result.
// An inauthentic callback is not an error.
func (p *Payments) Notify(ctx context.Context, params entity.ResponseParams) (entity.Outcome, error) {
	start := time.Now()
	orderNumber := params.Get(entity.FieldOrderNumber)

	outcome, err := p.verifier.Verify(params)
	callbackDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		callbackRequests.WithLabelValues("error").Inc()
		p.logError(fmt.Sprintf("notify: order %s", secret(orderNumber)), err)
		return outcome, err
	}
	callbackRequests.WithLabelValues(outcome.String()).Inc()

	text := fmt.Sprintf("notify: order %s; operation %s; prcode %s; srcode %s; %s",
		secret(orderNumber),
		params.Get(entity.FieldOperation),
		params.Get(entity.FieldPrCode),
		params.Get(entity.FieldSrCode),
		outcome)
	if outcome == entity.OutcomeInauthentic {
		p.logWarn(text)
	} else {
		p.logInfo(text)
	}

	if p.database != nil {
		result := &entity.PaymentResult{
			OrderNumber: orderNumber,
			Operation:   params.Get(entity.FieldOperation),
			PrCode:      params.Get(entity.FieldPrCode),
			SrCode:      params.Get(entity.FieldSrCode),
			ResultText:  params.Get(entity.FieldResultText),
			Outcome:     outcome.String(),
			Time:        time.Now(),
		}
		if e := p.database.SavePaymentResult(ctx, result); e != nil {
			p.logError("save payment result", e)
		}
	}

	return outcome, nil
}

func (p *Payments) logInfo(text string) {
	if p.logger != nil {
		p.logger.Info(text)
	}
}

func (p *Payments) logWarn(text string) {
	if p.logger != nil {
		p.logger.Warn(text)
	}
}

func (p *Payments) logError(text string, err error) {
	if p.logger != nil {
		p.logger.Error(text, err)
	}
}

func secret(some string) string {
	if len(some) > 5 {
		return fmt.Sprintf("%s***", some[0:5])
	}
	if some == "" {
		return "?"
	}
	return "***"
}
