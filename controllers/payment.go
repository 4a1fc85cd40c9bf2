// controllers/payment.go
package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"go-payments/middleware"
	"go-payments/payments"
	"go-payments/utils"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
	razorpayutils "github.com/razorpay/razorpay-go/utils"
)

// PaymentController handles payment-related requests
type PaymentController struct {
	Service      *payments.Service
	EmailService *utils.EmailService
}

// NewPaymentController creates a new PaymentController
func NewPaymentController(service *payments.Service, emailService *utils.EmailService) *PaymentController {
	return &PaymentController{
		Service:      service,
		EmailService: emailService,
	}
}

// CreatePaymentOrder creates a gateway order for an existing order and
// persists a pending payment record
func (pc *PaymentController) CreatePaymentOrder(w http.ResponseWriter, r *http.Request) {
	_, ok := r.Context().Value(middleware.UserContextKey).(*utils.Claims)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req struct {
		OrderID string  `json:"order_id"`
		Amount  float64 `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	order, err := pc.Service.CreatePaymentOrder(ctx, req.OrderID, req.Amount)
	if err != nil {
		http.Error(w, err.Error(), payments.HTTPStatus(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(order)
}

// CapturePayment captures an authorized charge and completes the matching
// payment record. The client-side checkout supplies the gateway payment id
// and, when available, the gateway order id and signature for verification.
func (pc *PaymentController) CapturePayment(w http.ResponseWriter, r *http.Request) {
	claims, ok := r.Context().Value(middleware.UserContextKey).(*utils.Claims)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req struct {
		PaymentID string  `json:"payment_id"`
		OrderID   string  `json:"order_id"`
		Signature string  `json:"signature"`
		Amount    float64 `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	// Verify the checkout callback signature when the client supplies one.
	if req.Signature != "" {
		params := map[string]interface{}{
			"razorpay_order_id":   req.OrderID,
			"razorpay_payment_id": req.PaymentID,
		}
		if !razorpayutils.VerifyPaymentSignature(params, req.Signature, os.Getenv("RAZORPAY_KEY_SECRET")) {
			http.Error(w, "Invalid payment signature", http.StatusBadRequest)
			return
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	capture, err := pc.Service.CapturePayment(ctx, req.PaymentID, req.Amount)
	if err != nil {
		http.Error(w, err.Error(), payments.HTTPStatus(err))
		return
	}

	// Send the receipt asynchronously; a mail failure must not fail the capture.
	go func(email string) {
		subject := "Payment Received"
		content := fmt.Sprintf("Your payment of %.2f has been received and captured successfully.<br>Payment reference: <strong>%s</strong>", req.Amount, capture.ID)
		if err := pc.EmailService.SendEmail(email, subject, content); err != nil {
			log.Printf("Failed to send receipt to %s: %v", email, err)
		}
	}(claims.Email)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(capture)
}

// GetPayment retrieves the payment record for a gateway order
func (pc *PaymentController) GetPayment(w http.ResponseWriter, r *http.Request) {
	_, ok := r.Context().Value(middleware.UserContextKey).(*utils.Claims)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	record, err := pc.Service.GetPayment(ctx, vars["gatewayOrderId"])
	if err != nil {
		http.Error(w, err.Error(), payments.HTTPStatus(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(record)
}

// ListPayments retrieves all payment attempts recorded against an order
func (pc *PaymentController) ListPayments(w http.ResponseWriter, r *http.Request) {
	_, ok := r.Context().Value(middleware.UserContextKey).(*utils.Claims)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	records, err := pc.Service.ListPayments(ctx, vars["orderId"])
	if err != nil {
		http.Error(w, err.Error(), payments.HTTPStatus(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(records)
}
