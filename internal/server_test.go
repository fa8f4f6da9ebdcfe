package internal

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"webpay/config"
	"webpay/entity"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPayments struct {
	order    entity.OrderContext
	redirect string
	params   entity.ResponseParams
	outcome  entity.Outcome
	err      error
}

func (s *stubPayments) PayUrl(_ context.Context, order entity.OrderContext, redirectBackUrl string) (string, error) {
	s.order = order
	s.redirect = redirectBackUrl
	if s.err != nil {
		return "", s.err
	}
	return "https://pay.test/pgw/order.do?DIGEST=x", nil
}

func (s *stubPayments) Notify(_ context.Context, params entity.ResponseParams) (entity.Outcome, error) {
	s.params = params
	return s.outcome, s.err
}

func newTestRouter(payments *stubPayments) *httprouter.Router {
	server := NewServer(&config.Config{})
	server.SetLogger(&recordingLogger{})
	server.SetPaymentsService(payments)
	router := httprouter.New()
	server.Register(router)
	return router
}

func TestServer_PayOrder(t *testing.T) {
	payments := &stubPayments{}
	router := newTestRouter(payments)

	req := httptest.NewRequest(http.MethodGet, "/pay/ORD1?amount=1000&currency=203&url="+url.QueryEscape("https://x/cb"), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "https://pay.test/pgw/order.do?DIGEST=x", rec.Header().Get("Location"))
	require.NotNil(t, payments.order)
	assert.Equal(t, "ORD1", payments.order.OrderNumber())
	assert.EqualValues(t, 1000, payments.order.AmountInCents())
	assert.Equal(t, "203", payments.order.CurrencyCode())
	assert.Equal(t, "https://x/cb", payments.redirect)
}

func TestServer_PayOrderInvalidAmount(t *testing.T) {
	router := newTestRouter(&stubPayments{})

	req := httptest.NewRequest(http.MethodGet, "/pay/ORD1?amount=ten", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_PayOrderError(t *testing.T) {
	router := newTestRouter(&stubPayments{err: errors.New("key")})

	req := httptest.NewRequest(http.MethodGet, "/pay/ORD1?amount=1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestServer_NotifyQuery(t *testing.T) {
	payments := &stubPayments{outcome: entity.OutcomeSuccess}
	router := newTestRouter(payments)

	query := url.Values{
		"OPERATION":   {"CREATE_ORDER"},
		"ORDERNUMBER": {"ORD1"},
		"PRCODE":      {"0"},
		"SRCODE":      {"0"},
		"DIGEST":      {"abc+/="},
	}
	req := httptest.NewRequest(http.MethodGet, "/notify?"+query.Encode(), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "abc+/=", payments.params.Get("DIGEST"))
	assert.Equal(t, "", payments.params.Get("RESULTTEXT"))

	var body notifyResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ORD1", body.Order)
	assert.Equal(t, "success", body.Outcome)
}

func TestServer_NotifyForm(t *testing.T) {
	payments := &stubPayments{outcome: entity.OutcomeInauthentic}
	router := newTestRouter(payments)

	form := url.Values{"ORDERNUMBER": {"ORD2"}, "PRCODE": {"0"}}
	req := httptest.NewRequest(http.MethodPost, "/notify", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ORD2", payments.params.Get("ORDERNUMBER"))
	assert.Contains(t, rec.Body.String(), `"outcome":"inauthentic"`)
}

func TestServer_NotifyKeyError(t *testing.T) {
	router := newTestRouter(&stubPayments{err: &KeyLoadError{Key: keyGateway, Err: errors.New("denied")}})

	req := httptest.NewRequest(http.MethodGet, "/notify?ORDERNUMBER=1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestServer_Metrics(t *testing.T) {
	router := newTestRouter(&stubPayments{})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
