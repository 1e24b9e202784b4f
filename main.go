// main.go
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"tastepos/controllers"
	"tastepos/routes"
	"tastepos/services"
	"tastepos/store"
	"tastepos/utils"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

func main() {
	// Load environment variables from .env file
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found. Proceeding with environment variables.")
	}

	// Set the JWT secret key
	utils.JwtKey = []byte(os.Getenv("JWT_SECRET"))

	// Connect to MongoDB
	client := utils.ConnectDB()
	defer func() {
		if err = client.Disconnect(context.TODO()); err != nil {
			log.Fatal(err)
		}
	}()

	// The unique transaction_id index is the webhook dedup mechanism; the
	// server must not start without it.
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	if err := store.EnsureIndexes(ctx, client); err != nil {
		cancel()
		log.Fatalf("Failed to create indexes: %v", err)
	}
	cancel()

	// Initialize stores
	orderStore := store.NewOrderStore(client)
	paymentLedger := store.NewPaymentLedger(client)
	unmatchedStore := store.NewUnmatchedStore(client)
	settingsStore := store.NewSettingsStore(client)
	configStore := store.NewConfigStore(client)
	adminStore := store.NewAdminStore(client)

	// Initialize EmailService; nil when Postmark is not configured
	emailService := utils.NewEmailService()
	notifier := services.NewAlertNotifier(emailService, settingsStore, orderStore, paymentLedger)
	matcher := services.NewPaymentMatcher(orderStore, paymentLedger, unmatchedStore, settingsStore, notifier)

	// Mail the reconciliation summary at end of day
	scheduler := cron.New()
	if _, err := scheduler.AddFunc("0 22 * * *", notifier.SendDailySummary); err != nil {
		log.Fatalf("Failed to schedule daily summary: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	// Initialize controllers
	webhookController := controllers.NewWebhookController(paymentLedger, matcher)
	paymentsController := controllers.NewPaymentsController(paymentLedger, orderStore, unmatchedStore)
	soundboxController := controllers.NewSoundboxController(configStore, settingsStore)
	authController := controllers.NewAuthController(adminStore)
	healthController := controllers.NewHealthController(client)

	// Set up the router
	router := mux.NewRouter()
	routes.RegisterRoutes(router, webhookController, paymentsController, soundboxController, authController, healthController)

	// Start the server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8002"
	}
	fmt.Printf("Server is running on port %s\n", port)
	log.Fatal(http.ListenAndServe(":"+port, router))
}
