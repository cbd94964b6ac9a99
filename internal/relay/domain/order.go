package domain

import "time"

type OrderStatus string

const (
	StatusCreated OrderStatus = "created"
	StatusPaid    OrderStatus = "paid"
)

// Order is the single persisted entity, one document per gateway order,
// keyed by the gateway-assigned order id. Amount holds the major-unit
// value as submitted by the client; the minor-unit value only travels to
// the gateway and is never stored.
type Order struct {
	OrderID   string           `firestore:"orderId" json:"orderId"`
	Amount    float64          `firestore:"amount" json:"amount"`
	Currency  string           `firestore:"currency" json:"currency"`
	Receipt   string           `firestore:"receipt" json:"receipt"`
	UserData  map[string]any   `firestore:"userData" json:"userData,omitempty"`
	CartItems []map[string]any `firestore:"cartItems" json:"cartItems,omitempty"`
	Status    OrderStatus      `firestore:"status" json:"status"`
	CreatedAt string           `firestore:"createdAt" json:"createdAt"`

	// Set only by payment confirmation.
	PaymentID string `firestore:"paymentId,omitempty" json:"paymentId,omitempty"`
	Signature string `firestore:"signature,omitempty" json:"signature,omitempty"`
	PaidAt    string `firestore:"paidAt,omitempty" json:"paidAt,omitempty"`
}

func NewOrder(orderID string, amount float64, currency, receipt string, userData map[string]any, cartItems []map[string]any, now time.Time) Order {
	return Order{
		OrderID:   orderID,
		Amount:    amount,
		Currency:  currency,
		Receipt:   receipt,
		UserData:  userData,
		CartItems: cartItems,
		Status:    StatusCreated,
		CreatedAt: now.UTC().Format(time.RFC3339),
	}
}
