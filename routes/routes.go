// routes/routes.go
package routes

import (
	"go-payments/controllers"
	"go-payments/middleware"

	"github.com/gorilla/mux"
)

// RegisterRoutes sets up all the routes for the application
func RegisterRoutes(router *mux.Router, userController *controllers.UserController, paymentController *controllers.PaymentController) {
	// Public routes
	router.HandleFunc("/register", userController.Register).Methods("POST")
	router.HandleFunc("/login", userController.Login).Methods("POST")

	// Protected routes
	protected := router.PathPrefix("/").Subrouter()
	protected.Use(middleware.AuthMiddleware)
	protected.HandleFunc("/profile", userController.GetProfile).Methods("GET")

	// Payment routes
	payment := router.PathPrefix("/payments").Subrouter()
	payment.Use(middleware.AuthMiddleware)
	payment.HandleFunc("/order", paymentController.CreatePaymentOrder).Methods("POST")
	payment.HandleFunc("/capture", paymentController.CapturePayment).Methods("POST")
	payment.HandleFunc("/order/{orderId}", paymentController.ListPayments).Methods("GET")
	payment.HandleFunc("/{gatewayOrderId}", paymentController.GetPayment).Methods("GET")
}
