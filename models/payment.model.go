package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Payment status values. Only the Pending -> Completed transition is
// exercised by the capture flow; Failed and Refunded are reserved.
const (
	PaymentStatusPending   = "Pending"
	PaymentStatusCompleted = "Completed"
	PaymentStatusFailed    = "Failed"
	PaymentStatusRefunded  = "Refunded"
)

// PaymentRecord represents one payment attempt against one order.
// Records are never deleted; they are retained for audit and refund reference.
type PaymentRecord struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	OrderID          string             `bson:"order_id" json:"order_id"` // owned by the order subsystem
	Amount           float64            `bson:"amount" json:"amount"`     // major currency units
	Status           string             `bson:"status" json:"status"`
	GatewayOrderID   string             `bson:"gateway_order_id" json:"gateway_order_id"` // unique, immutable once set
	GatewayPaymentID string             `bson:"gateway_payment_id,omitempty" json:"gateway_payment_id,omitempty"`
	CapturedAmount   float64            `bson:"captured_amount,omitempty" json:"captured_amount,omitempty"` // set only when Completed
	CreatedAt        time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt        time.Time          `bson:"updated_at" json:"updated_at"`
}
