package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/dmehra2102/payment-relay/internal/relay/application"
	"github.com/dmehra2102/payment-relay/internal/relay/domain"
)

const (
	idempotencyHeader = "Idempotency-Key"
	requestTimeout    = 15 * time.Second
)

type Handler struct {
	log     *slog.Logger
	service *application.Service
	tracer  trace.Tracer
}

func NewHandler(log *slog.Logger, service *application.Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
		tracer:  otel.Tracer("relay-http"),
	}
}

func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))

	r.Post("/create-order", h.createOrder)
	r.Post("/verify-payment", h.verifyPayment)
	r.Get("/", h.health)

	return r
}

type createOrderReq struct {
	Amount    *float64         `json:"amount"`
	Currency  string           `json:"currency"`
	Receipt   string           `json:"receipt"`
	UserData  map[string]any   `json:"userData"`
	CartItems []map[string]any `json:"cartItems"`
}

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "CreateOrder")
	defer span.End()

	var req createOrderReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			h.writeError(w, r, domain.ErrAmountRequired)
			return
		}
		h.writeErrorStatus(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Amount == nil {
		h.writeError(w, r, domain.ErrAmountRequired)
		return
	}

	res, err := h.service.CreateOrder(ctx, application.CreateOrderInput{
		Amount:         *req.Amount,
		Currency:       req.Currency,
		Receipt:        req.Receipt,
		UserData:       req.UserData,
		CartItems:      req.CartItems,
		IdempotencyKey: r.Header.Get(idempotencyHeader),
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, createOrderResp{
		Success:  true,
		OrderID:  res.OrderID,
		Amount:   res.AmountMinor,
		Currency: res.Currency,
	})
}

type verifyPaymentReq struct {
	OrderID   string `json:"orderId"`
	PaymentID string `json:"paymentId"`
	Signature string `json:"signature"`
}

func (h *Handler) verifyPayment(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "VerifyPayment")
	defer span.End()

	var req verifyPaymentReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			h.writeError(w, r, domain.ErrMissingPaymentData)
			return
		}
		h.writeErrorStatus(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	err := h.service.ConfirmPayment(ctx, application.ConfirmPaymentInput{
		OrderID:   req.OrderID,
		PaymentID: req.PaymentID,
		Signature: req.Signature,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResp{Success: true, Message: "Payment verified successfully!"})
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("Payment relay server is running"))
}

// writeError maps guard failures to 4xx with their message. Anything
// else is a downstream failure: logged with the correlation id, returned
// as a generic envelope so internal detail never reaches the client.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrAmountRequired),
		errors.Is(err, domain.ErrMissingPaymentData),
		errors.Is(err, domain.ErrBadSignature):
		h.writeErrorStatus(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrOrderNotFound):
		h.writeErrorStatus(w, r, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrAlreadyPaid),
		errors.Is(err, domain.ErrDuplicateRequest):
		h.writeErrorStatus(w, r, http.StatusConflict, err.Error())
	default:
		h.log.Error("request failed", "err", err, "request_id", requestID(r), "path", r.URL.Path)
		h.writeErrorStatus(w, r, http.StatusInternalServerError, "internal error")
	}
}

func (h *Handler) writeErrorStatus(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, status, errorResp{
		Success:   false,
		Error:     msg,
		RequestID: requestID(r),
	})
}

// requestID returns the chi request id, minting one when the middleware
// is not in front (direct handler tests, internal callers).
func requestID(r *http.Request) string {
	if id := middleware.GetReqID(r.Context()); id != "" {
		return id
	}
	return uuid.NewString()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type createOrderResp struct {
	Success  bool   `json:"success"`
	OrderID  string `json:"orderId"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

type messageResp struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type errorResp struct {
	Success   bool   `json:"success"`
	Error     string `json:"error"`
	RequestID string `json:"requestId,omitempty"`
}
