package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dmehra2102/payment-relay/internal/relay/domain"
)

type Service struct {
	log     *slog.Logger
	gateway Gateway
	store   OrderStore
	dedupe  Deduper // nil disables idempotency-key handling
	now     func() time.Time
}

func NewService(log *slog.Logger, gateway Gateway, store OrderStore, dedupe Deduper) *Service {
	return &Service{
		log:     log,
		gateway: gateway,
		store:   store,
		dedupe:  dedupe,
		now:     time.Now,
	}
}

type CreateOrderInput struct {
	Amount         float64
	Currency       string
	Receipt        string
	UserData       map[string]any
	CartItems      []map[string]any
	IdempotencyKey string
}

type CreateOrderResult struct {
	OrderID     string
	AmountMinor int64
	Currency    string
}

// CreateOrder asks the gateway for a new monetary order and persists the
// resulting record. The stored amount stays in major units; the result
// echoes the gateway's minor-unit amount.
func (s *Service) CreateOrder(ctx context.Context, in CreateOrderInput) (CreateOrderResult, error) {
	if in.Amount <= 0 {
		return CreateOrderResult{}, domain.ErrAmountRequired
	}

	if s.dedupe != nil && in.IdempotencyKey != "" {
		seen, err := s.dedupe.Seen(ctx, in.IdempotencyKey)
		if err != nil {
			return CreateOrderResult{}, fmt.Errorf("idempotency check: %w", err)
		}
		if seen {
			return CreateOrderResult{}, domain.ErrDuplicateRequest
		}
	}

	currency := in.Currency
	if currency == "" {
		currency = domain.DefaultCurrency
	}
	receipt := in.Receipt
	if receipt == "" {
		receipt = fmt.Sprintf("rcpt_%d", s.now().UnixMilli())
	}

	minor := domain.MinorUnits(in.Amount, currency)
	gw, err := s.gateway.CreateOrder(ctx, minor, currency, receipt)
	if err != nil {
		return CreateOrderResult{}, fmt.Errorf("gateway create order: %w", err)
	}

	order := domain.NewOrder(gw.ID, in.Amount, currency, receipt, in.UserData, in.CartItems, s.now())
	if err := s.store.Create(ctx, order); err != nil {
		return CreateOrderResult{}, fmt.Errorf("store order %s: %w", gw.ID, err)
	}

	s.log.Info("order created", "order_id", gw.ID, "amount_minor", gw.AmountMinor, "currency", gw.Currency)
	return CreateOrderResult{OrderID: gw.ID, AmountMinor: gw.AmountMinor, Currency: gw.Currency}, nil
}

type ConfirmPaymentInput struct {
	OrderID   string
	PaymentID string
	Signature string
}

// ConfirmPayment verifies the gateway signature and marks the order paid.
// The transition is rejected for unknown or already-paid orders.
func (s *Service) ConfirmPayment(ctx context.Context, in ConfirmPaymentInput) error {
	if in.OrderID == "" || in.PaymentID == "" {
		return domain.ErrMissingPaymentData
	}

	if !s.gateway.VerifySignature(in.OrderID, in.PaymentID, in.Signature) {
		s.log.Warn("signature mismatch", "order_id", in.OrderID, "payment_id", in.PaymentID)
		return domain.ErrBadSignature
	}

	if err := s.store.MarkPaid(ctx, in.OrderID, in.PaymentID, in.Signature, s.now()); err != nil {
		return err
	}

	s.log.Info("payment confirmed", "order_id", in.OrderID, "payment_id", in.PaymentID)
	return nil
}
