package application

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmehra2102/payment-relay/internal/relay/domain"
)

type fakeGateway struct {
	createCalls  int
	gotAmount    int64
	gotCurrency  string
	gotReceipt   string
	order        GatewayOrder
	err          error
	signatureOK  bool
	verifyCalled bool
}

func (f *fakeGateway) CreateOrder(_ context.Context, amountMinor int64, currency, receipt string) (GatewayOrder, error) {
	f.createCalls++
	f.gotAmount = amountMinor
	f.gotCurrency = currency
	f.gotReceipt = receipt
	if f.err != nil {
		return GatewayOrder{}, f.err
	}
	return f.order, nil
}

func (f *fakeGateway) VerifySignature(orderID, paymentID, signature string) bool {
	f.verifyCalled = true
	return f.signatureOK
}

type fakeStore struct {
	created      []domain.Order
	createErr    error
	markPaidErr  error
	markCalls    int
	gotOrderID   string
	gotPaymentID string
	gotSignature string
}

func (f *fakeStore) Create(_ context.Context, o domain.Order) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, o)
	return nil
}

func (f *fakeStore) MarkPaid(_ context.Context, orderID, paymentID, signature string, _ time.Time) error {
	f.markCalls++
	f.gotOrderID = orderID
	f.gotPaymentID = paymentID
	f.gotSignature = signature
	return f.markPaidErr
}

func (f *fakeStore) Get(_ context.Context, orderID string) (domain.Order, error) {
	return domain.Order{}, domain.ErrOrderNotFound
}

type fakeDeduper struct {
	seen bool
	err  error
	keys []string
}

func (f *fakeDeduper) Seen(_ context.Context, key string) (bool, error) {
	f.keys = append(f.keys, key)
	return f.seen, f.err
}

func newTestService(gw *fakeGateway, st *fakeStore, dd Deduper) *Service {
	svc := NewService(slog.New(slog.DiscardHandler), gw, st, dd)
	svc.now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }
	return svc
}

func TestCreateOrder(t *testing.T) {
	gw := &fakeGateway{order: GatewayOrder{ID: "order_abc", AmountMinor: 50000, Currency: "INR"}}
	st := &fakeStore{}
	svc := newTestService(gw, st, nil)

	res, err := svc.CreateOrder(context.Background(), CreateOrderInput{
		Amount:    500,
		UserData:  map[string]any{"name": "asha"},
		CartItems: []map[string]any{{"sku": "b-1"}},
	})
	require.NoError(t, err)

	// Gateway gets minor units, response echoes them back.
	assert.Equal(t, int64(50000), gw.gotAmount)
	assert.Equal(t, "INR", gw.gotCurrency, "currency defaults to INR")
	assert.Equal(t, "rcpt_1748779200000", gw.gotReceipt, "receipt generated from timestamp")
	assert.Equal(t, CreateOrderResult{OrderID: "order_abc", AmountMinor: 50000, Currency: "INR"}, res)

	// The stored record keeps the major-unit amount.
	require.Len(t, st.created, 1)
	stored := st.created[0]
	assert.Equal(t, "order_abc", stored.OrderID)
	assert.Equal(t, 500.0, stored.Amount)
	assert.Equal(t, domain.StatusCreated, stored.Status)
	assert.Equal(t, "2025-06-01T12:00:00Z", stored.CreatedAt)
	assert.Equal(t, map[string]any{"name": "asha"}, stored.UserData)
}

func TestCreateOrderMissingAmount(t *testing.T) {
	gw := &fakeGateway{}
	st := &fakeStore{}
	svc := newTestService(gw, st, nil)

	for _, amount := range []float64{0, -5} {
		_, err := svc.CreateOrder(context.Background(), CreateOrderInput{Amount: amount})
		require.ErrorIs(t, err, domain.ErrAmountRequired)
	}
	assert.Zero(t, gw.createCalls, "no gateway call without a valid amount")
	assert.Empty(t, st.created)
}

func TestCreateOrderExplicitFieldsKept(t *testing.T) {
	gw := &fakeGateway{order: GatewayOrder{ID: "order_jpy", AmountMinor: 1200, Currency: "JPY"}}
	st := &fakeStore{}
	svc := newTestService(gw, st, nil)

	_, err := svc.CreateOrder(context.Background(), CreateOrderInput{
		Amount:   1200,
		Currency: "JPY",
		Receipt:  "rcpt_custom",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1200), gw.gotAmount, "zero-decimal currency is not multiplied")
	assert.Equal(t, "rcpt_custom", gw.gotReceipt)
}

func TestCreateOrderGatewayFailure(t *testing.T) {
	gw := &fakeGateway{err: errors.New("BAD_REQUEST_ERROR: key mismatch")}
	st := &fakeStore{}
	svc := newTestService(gw, st, nil)

	_, err := svc.CreateOrder(context.Background(), CreateOrderInput{Amount: 500})
	require.Error(t, err)
	assert.Empty(t, st.created, "no record without a gateway order")
}

func TestCreateOrderStoreFailure(t *testing.T) {
	gw := &fakeGateway{order: GatewayOrder{ID: "order_abc", AmountMinor: 50000, Currency: "INR"}}
	st := &fakeStore{createErr: errors.New("firestore unavailable")}
	svc := newTestService(gw, st, nil)

	_, err := svc.CreateOrder(context.Background(), CreateOrderInput{Amount: 500})
	require.Error(t, err)
}

func TestCreateOrderIdempotency(t *testing.T) {
	gw := &fakeGateway{order: GatewayOrder{ID: "order_abc", AmountMinor: 50000, Currency: "INR"}}
	st := &fakeStore{}
	dd := &fakeDeduper{seen: true}
	svc := newTestService(gw, st, dd)

	_, err := svc.CreateOrder(context.Background(), CreateOrderInput{Amount: 500, IdempotencyKey: "k-1"})
	require.ErrorIs(t, err, domain.ErrDuplicateRequest)
	assert.Equal(t, []string{"k-1"}, dd.keys)
	assert.Zero(t, gw.createCalls, "duplicate key must not reach the gateway")

	// Without a key the deduper stays out of the path.
	dd.keys = nil
	_, err = svc.CreateOrder(context.Background(), CreateOrderInput{Amount: 500})
	require.NoError(t, err)
	assert.Empty(t, dd.keys)
}

func TestConfirmPayment(t *testing.T) {
	gw := &fakeGateway{signatureOK: true}
	st := &fakeStore{}
	svc := newTestService(gw, st, nil)

	err := svc.ConfirmPayment(context.Background(), ConfirmPaymentInput{
		OrderID:   "order_abc",
		PaymentID: "pay_123",
		Signature: "sig_xyz",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, st.markCalls)
	assert.Equal(t, "order_abc", st.gotOrderID)
	assert.Equal(t, "pay_123", st.gotPaymentID)
	assert.Equal(t, "sig_xyz", st.gotSignature)
}

func TestConfirmPaymentMissingData(t *testing.T) {
	gw := &fakeGateway{signatureOK: true}
	st := &fakeStore{}
	svc := newTestService(gw, st, nil)

	tests := []ConfirmPaymentInput{
		{},
		{OrderID: "order_abc"},
		{PaymentID: "pay_123"},
	}
	for _, in := range tests {
		err := svc.ConfirmPayment(context.Background(), in)
		require.ErrorIs(t, err, domain.ErrMissingPaymentData)
	}
	assert.Zero(t, st.markCalls)
	assert.False(t, gw.verifyCalled, "validation precedes signature check")
}

func TestConfirmPaymentBadSignature(t *testing.T) {
	gw := &fakeGateway{signatureOK: false}
	st := &fakeStore{}
	svc := newTestService(gw, st, nil)

	err := svc.ConfirmPayment(context.Background(), ConfirmPaymentInput{
		OrderID:   "order_abc",
		PaymentID: "pay_123",
		Signature: "forged",
	})
	require.ErrorIs(t, err, domain.ErrBadSignature)
	assert.Zero(t, st.markCalls, "no store write on signature mismatch")
}

func TestConfirmPaymentStoreGuards(t *testing.T) {
	for _, sentinel := range []error{domain.ErrOrderNotFound, domain.ErrAlreadyPaid} {
		gw := &fakeGateway{signatureOK: true}
		st := &fakeStore{markPaidErr: sentinel}
		svc := newTestService(gw, st, nil)

		err := svc.ConfirmPayment(context.Background(), ConfirmPaymentInput{
			OrderID:   "order_abc",
			PaymentID: "pay_123",
			Signature: "sig_xyz",
		})
		require.ErrorIs(t, err, sentinel)
	}
}
