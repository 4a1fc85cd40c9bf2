package payments

import (
	"errors"
	"net/http"
)

// Sentinel errors for the payment flow. Callers classify failures with
// errors.Is; the underlying gateway or store error is attached via %w
// wrapping where available.
var (
	// ErrInvalidArgument means a required input was missing or non-positive.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrPaymentOrderCreationFailed means the gateway or the store failed
	// while creating a payment order. Nothing is retried automatically.
	ErrPaymentOrderCreationFailed = errors.New("payment order creation failed")

	// ErrPaymentRecordNotFound means a capture succeeded at the gateway but
	// no local record matched. The external charge is captured without a
	// matching local record; reconciliation must happen out-of-band.
	ErrPaymentRecordNotFound = errors.New("payment record not found")

	// ErrPaymentAlreadyCaptured means a matching record exists but is no
	// longer Pending. The conditional update gives at-most-once capture
	// semantics under concurrent capture calls.
	ErrPaymentAlreadyCaptured = errors.New("payment already captured")

	// ErrPaymentCaptureFailed means the gateway capture call or the local
	// update failed for any other reason.
	ErrPaymentCaptureFailed = errors.New("payment capture failed")
)

// HTTPStatus maps a payment error to the status code the HTTP surface
// should respond with.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, ErrPaymentRecordNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrPaymentAlreadyCaptured):
		return http.StatusConflict
	case errors.Is(err, ErrPaymentOrderCreationFailed), errors.Is(err, ErrPaymentCaptureFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
