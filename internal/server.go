package internal

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"webpay/config"
	"webpay/entity"
	"webpay/services"

	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	payOrder      = "/pay/:order_number"
	paymentNotify = "/notify"
	metrics       = "/metrics"
)

type notifyResponse struct {
	Order   string `json:"order"`
	Outcome string `json:"outcome"`
}

type Server struct {
	conf       *config.Config
	httpServer *http.Server
	payments   services.Payments
	logger     services.LogHandler
}

func NewServer(conf *config.Config) *Server {

	server := Server{
		conf: conf,
	}

	router := httprouter.New()
	server.Register(router)
	server.httpServer = &http.Server{
		Handler: router,
	}

	return &server
}

func (s *Server) Register(router *httprouter.Router) {
	router.GET(payOrder, s.payOrder)
	router.GET(paymentNotify, s.paymentNotify)
	router.POST(paymentNotify, s.paymentNotify)
	router.Handler(http.MethodGet, metrics, promhttp.Handler())
}

func (s *Server) SetPaymentsService(payments services.Payments) {
	s.payments = payments
}

func (s *Server) SetLogger(logger services.LogHandler) {
	s.logger = logger
}

func (s *Server) Start() error {
	if s.conf == nil {
		return fmt.Errorf("configuration not loaded")
	}

	serverAddress := fmt.Sprintf("%s:%s", s.conf.Listen.BindIP, s.conf.Listen.Port)
	listener, err := net.Listen("tcp", serverAddress)
	if err != nil {
		return err
	}

	if s.conf.Listen.TLS {
		s.logger.Info(fmt.Sprintf("starting https TLS on %s", serverAddress))
		err = s.httpServer.ServeTLS(listener, s.conf.Listen.CertFile, s.conf.Listen.KeyFile)
	} else {
		s.logger.Info(fmt.Sprintf("starting http on %s", serverAddress))
		err = s.httpServer.Serve(listener)
	}

	return err
}

// payOrder redirects the payer to the gateway pay page.
// Query: amount (minor units), currency, url (redirect back).
func (s *Server) payOrder(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx := WithRequestID(r.Context())
	reqID := GetRequestID(ctx)

	orderNumber := ps.ByName("order_number")
	if orderNumber == "" {
		s.logger.Warn(fmt.Sprintf("[%s] empty order number", reqID))
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	query := r.URL.Query()
	amount, err := strconv.ParseInt(query.Get("amount"), 10, 64)
	if err != nil {
		s.logger.Warn(fmt.Sprintf("[%s] invalid amount: %s; %v", reqID, query.Get("amount"), err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	order := entity.Order{
		Number:   orderNumber,
		Amount:   amount,
		Currency: query.Get("currency"),
	}
	payUrl, err := s.payments.PayUrl(ctx, order, query.Get("url"))
	if err != nil {
		s.logger.Error(fmt.Sprintf("[%s] pay order %s", reqID, secret(orderNumber)), err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, payUrl, http.StatusFound)
}

// paymentNotify accepts the gateway result either as query parameters or as a form body.
func (s *Server) paymentNotify(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx := WithRequestID(r.Context())
	reqID := GetRequestID(ctx)

	if err := r.ParseForm(); err != nil {
		s.logger.Error(fmt.Sprintf("[%s] payment notify: parse form", reqID), err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	params := entity.ResponseParamsFromValues(r.Form)
	outcome, err := s.payments.Notify(ctx, params)
	if err != nil {
		s.logger.Error(fmt.Sprintf("[%s] payment notify: verify", reqID), err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	err = json.NewEncoder(w).Encode(notifyResponse{
		Order:   params.Get(entity.FieldOrderNumber),
		Outcome: outcome.String(),
	})
	if err != nil {
		s.logger.Error(fmt.Sprintf("[%s] payment notify: write response", reqID), err)
	}
}
