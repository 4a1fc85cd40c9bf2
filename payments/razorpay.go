package payments

import (
	"context"
	"fmt"

	razorpay "github.com/razorpay/razorpay-go"
)

// RazorpayGateway implements Gateway on top of the Razorpay REST API.
type RazorpayGateway struct {
	client *razorpay.Client
}

// NewRazorpayGateway creates a gateway client from API credentials.
func NewRazorpayGateway(keyID, keySecret string) *RazorpayGateway {
	return &RazorpayGateway{
		client: razorpay.NewClient(keyID, keySecret),
	}
}

// CreateOrder creates a gateway-side order for the given minor-unit amount.
func (g *RazorpayGateway) CreateOrder(ctx context.Context, in CreateOrderInput) (*GatewayOrder, error) {
	capture := 0
	if in.AutoCapture {
		capture = 1
	}
	data := map[string]interface{}{
		"amount":          in.Amount,
		"currency":        in.Currency,
		"receipt":         in.Receipt,
		"payment_capture": capture,
	}

	body, err := g.client.Order.Create(data, nil)
	if err != nil {
		return nil, fmt.Errorf("razorpay order create: %w", err)
	}

	order := &GatewayOrder{
		ID:       asString(body["id"]),
		Amount:   asInt64(body["amount"]),
		Currency: asString(body["currency"]),
		Receipt:  asString(body["receipt"]),
		Status:   asString(body["status"]),
	}
	if order.ID == "" {
		return nil, fmt.Errorf("razorpay order create: response missing order id")
	}
	return order, nil
}

// CapturePayment finalizes an authorized charge so funds actually move.
func (g *RazorpayGateway) CapturePayment(ctx context.Context, paymentID string, amount int64, currency string) (*GatewayCapture, error) {
	data := map[string]interface{}{
		"currency": currency,
	}

	body, err := g.client.Payment.Capture(paymentID, int(amount), data, nil)
	if err != nil {
		return nil, fmt.Errorf("razorpay payment capture: %w", err)
	}

	return &GatewayCapture{
		ID:       asString(body["id"]),
		OrderID:  asString(body["order_id"]),
		Amount:   asInt64(body["amount"]),
		Currency: asString(body["currency"]),
		Status:   asString(body["status"]),
	}, nil
}

// Razorpay responses decode into map[string]interface{}; numbers arrive as
// float64 and ids as strings.
func asString(v interface{}) string {
	s, _ := v.(string)
	return s
}

func asInt64(v interface{}) int64 {
	switch n := v.(type) {
	case float64:
		return int64(n)
	case int64:
		return n
	case int:
		return int64(n)
	default:
		return 0
	}
}
