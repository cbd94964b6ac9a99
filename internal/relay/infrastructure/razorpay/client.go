package razorpay

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"

	rzpsdk "github.com/razorpay/razorpay-go"

	"github.com/dmehra2102/payment-relay/internal/relay/application"
)

// Client adapts the official Razorpay SDK to the application's Gateway
// port. The SDK does not take a context, so calls run in a goroutine and
// the context deadline bounds how long the caller waits.
type Client struct {
	log       *slog.Logger
	sdk       *rzpsdk.Client
	keySecret string
}

func NewClient(log *slog.Logger, keyID, keySecret string) *Client {
	return &Client{
		log:       log,
		sdk:       rzpsdk.NewClient(keyID, keySecret),
		keySecret: keySecret,
	}
}

func (c *Client) CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string) (application.GatewayOrder, error) {
	data := map[string]interface{}{
		"amount":   amountMinor,
		"currency": currency,
		"receipt":  receipt,
	}

	type result struct {
		body map[string]interface{}
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		body, err := c.sdk.Order.Create(data, nil)
		ch <- result{body: body, err: err}
	}()

	select {
	case <-ctx.Done():
		return application.GatewayOrder{}, ctx.Err()
	case res := <-ch:
		if res.err != nil {
			return application.GatewayOrder{}, fmt.Errorf("razorpay order create: %w", res.err)
		}
		return parseOrder(res.body)
	}
}

func parseOrder(body map[string]interface{}) (application.GatewayOrder, error) {
	id, ok := body["id"].(string)
	if !ok || id == "" {
		return application.GatewayOrder{}, fmt.Errorf("razorpay response missing order id")
	}
	currency, _ := body["currency"].(string)
	amount, err := toInt64(body["amount"])
	if err != nil {
		return application.GatewayOrder{}, fmt.Errorf("razorpay response amount: %w", err)
	}
	return application.GatewayOrder{ID: id, AmountMinor: amount, Currency: currency}, nil
}

func toInt64(v interface{}) (int64, error) {
	switch n := v.(type) {
	case float64:
		return int64(n), nil
	case int64:
		return n, nil
	case json.Number:
		return n.Int64()
	default:
		return 0, fmt.Errorf("unexpected numeric type %T", v)
	}
}

// VerifySignature checks the checkout callback signature: HMAC-SHA256 of
// "<order_id>|<payment_id>" keyed with the API secret, hex encoded.
func (c *Client) VerifySignature(orderID, paymentID, signature string) bool {
	if signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(c.keySecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
