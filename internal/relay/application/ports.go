package application

import (
	"context"
	"time"

	"github.com/dmehra2102/payment-relay/internal/relay/domain"
)

// GatewayOrder is the gateway's echo of a created order. AmountMinor is
// in minor units, as the gateway reports it.
type GatewayOrder struct {
	ID          string
	AmountMinor int64
	Currency    string
}

type Gateway interface {
	CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string) (GatewayOrder, error)
	VerifySignature(orderID, paymentID, signature string) bool
}

type OrderStore interface {
	Create(ctx context.Context, o domain.Order) error
	// MarkPaid transitions an order created -> paid. Returns
	// domain.ErrOrderNotFound or domain.ErrAlreadyPaid when the guard fails.
	MarkPaid(ctx context.Context, orderID, paymentID, signature string, paidAt time.Time) error
	Get(ctx context.Context, orderID string) (domain.Order, error)
}

// Deduper reports whether an idempotency key has already been consumed.
type Deduper interface {
	Seen(ctx context.Context, key string) (bool, error)
}
