// main.go
package main

import (
	"context"
	"fmt"
	"go-payments/controllers"
	"go-payments/payments"
	"go-payments/routes"
	"go-payments/utils"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables from .env file
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found. Proceeding with environment variables.")
	}

	// Set the JWT secret key
	utils.JwtKey = []byte(os.Getenv("JWT_SECRET"))

	// Initialize EmailService
	emailService := utils.NewEmailService()

	// Connect to MongoDB
	client := utils.ConnectDB()
	defer func() {
		if err = client.Disconnect(context.TODO()); err != nil {
			log.Fatal(err)
		}
	}()

	// Initialize the payment record store
	store := payments.NewMongoStore(client)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := store.EnsureIndexes(ctx); err != nil {
		cancel()
		log.Fatal(err)
	}
	cancel()

	// Initialize the payment gateway and service
	currency := os.Getenv("PAYMENT_CURRENCY")
	if currency == "" {
		currency = "INR"
	}
	gateway := payments.NewRazorpayGateway(os.Getenv("RAZORPAY_KEY_ID"), os.Getenv("RAZORPAY_KEY_SECRET"))
	paymentService := payments.NewService(gateway, store, currency)

	// Initialize controllers
	userController := controllers.NewUserController(client)
	paymentController := controllers.NewPaymentController(paymentService, emailService)

	// Set up the router
	router := mux.NewRouter()
	// Register routes
	routes.RegisterRoutes(router, userController, paymentController)

	// Start the server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}
	fmt.Printf("Server is running on port %s\n", port)
	log.Fatal(http.ListenAndServe(":"+port, router))
}
