package payments

import (
	"context"
	"fmt"

	"go-payments/models"
)

// Service coordinates the payment gateway and the payment record store.
// The gateway call and the local write are not atomic: a crash between
// gateway success and persistence leaves the gateway side ahead of the local
// record. Creation is idempotent on the gateway order id so a retried call
// does not duplicate records; inconsistencies found at capture time are
// surfaced as errors, never repaired.
type Service struct {
	Gateway  Gateway
	Store    Store
	Currency string
}

// NewService wires a payment service. currency is the fixed ISO code sent
// with every gateway call (e.g. "INR").
func NewService(gateway Gateway, store Store, currency string) *Service {
	return &Service{
		Gateway:  gateway,
		Store:    store,
		Currency: currency,
	}
}

// CreatePaymentOrder creates a gateway-side order for totalAmount (major
// units) and persists a Pending record tied to orderID. The returned gateway
// order is handed to the client-side confirmation step. Auto-capture is
// disabled; capture is a separate explicit step.
func (s *Service) CreatePaymentOrder(ctx context.Context, orderID string, totalAmount float64) (*GatewayOrder, error) {
	if orderID == "" {
		return nil, fmt.Errorf("%w: order id is required", ErrInvalidArgument)
	}
	if totalAmount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidArgument)
	}

	order, err := s.Gateway.CreateOrder(ctx, CreateOrderInput{
		Amount:      MinorUnits(totalAmount),
		Currency:    s.Currency,
		Receipt:     orderID,
		AutoCapture: false,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPaymentOrderCreationFailed, err)
	}

	record := models.PaymentRecord{
		OrderID:        orderID,
		Amount:         totalAmount, // major units; the gateway holds minor units
		Status:         models.PaymentStatusPending,
		GatewayOrderID: order.ID,
	}
	if err := s.Store.UpsertPending(ctx, record); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPaymentOrderCreationFailed, err)
	}

	return order, nil
}

// CapturePayment captures the charge identified by the gateway payment id
// and transitions the matching local record to Completed. The local record
// is resolved by the gateway order id echoed in the capture confirmation;
// when the gateway omits it, paymentID itself is used as the lookup key.
//
// A PaymentRecordNotFound failure means the external charge is captured with
// no matching local record; callers must treat that as requiring manual
// reconciliation.
func (s *Service) CapturePayment(ctx context.Context, paymentID string, amount float64) (*GatewayCapture, error) {
	if paymentID == "" {
		return nil, fmt.Errorf("%w: payment id is required", ErrInvalidArgument)
	}
	if amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidArgument)
	}

	capture, err := s.Gateway.CapturePayment(ctx, paymentID, MinorUnits(amount), s.Currency)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPaymentCaptureFailed, err)
	}

	lookupKey := capture.OrderID
	if lookupKey == "" {
		lookupKey = paymentID
	}

	if _, err := s.Store.CompleteCapture(ctx, lookupKey, paymentID, amount); err != nil {
		if err == ErrPaymentRecordNotFound || err == ErrPaymentAlreadyCaptured {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrPaymentCaptureFailed, err)
	}

	return capture, nil
}

// GetPayment returns the record created for a gateway order.
func (s *Service) GetPayment(ctx context.Context, gatewayOrderID string) (*models.PaymentRecord, error) {
	if gatewayOrderID == "" {
		return nil, fmt.Errorf("%w: gateway order id is required", ErrInvalidArgument)
	}
	return s.Store.FindByGatewayOrderID(ctx, gatewayOrderID)
}

// ListPayments returns every payment attempt recorded against an order.
func (s *Service) ListPayments(ctx context.Context, orderID string) ([]models.PaymentRecord, error) {
	if orderID == "" {
		return nil, fmt.Errorf("%w: order id is required", ErrInvalidArgument)
	}
	return s.Store.FindByOrderID(ctx, orderID)
}
