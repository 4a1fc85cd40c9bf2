package payments

import "context"

// GatewayOrder is the gateway's representation of a pending charge, created
// before the payer authorizes payment. Returned to the caller for the
// client-side confirmation step.
type GatewayOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"` // minor units
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

// GatewayCapture is the gateway's confirmation of a finalized charge.
type GatewayCapture struct {
	ID       string `json:"id"`       // gateway payment id
	OrderID  string `json:"order_id"` // gateway order the payment belongs to
	Amount   int64  `json:"amount"`   // minor units
	Currency string `json:"currency"`
	Status   string `json:"status"`
}

// CreateOrderInput carries the parameters for a gateway-side order.
type CreateOrderInput struct {
	Amount      int64 // minor units
	Currency    string
	Receipt     string // human-readable reference, the local order id
	AutoCapture bool   // capture is a separate explicit step when false
}

// Gateway abstracts the external payment provider. Only order creation and
// capture are depended on; all other gateway behavior is opaque.
type Gateway interface {
	CreateOrder(ctx context.Context, in CreateOrderInput) (*GatewayOrder, error)
	CapturePayment(ctx context.Context, paymentID string, amount int64, currency string) (*GatewayCapture, error)
}
