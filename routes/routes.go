// routes/routes.go
package routes

import (
	"tastepos/controllers"
	"tastepos/middleware"

	"github.com/gorilla/mux"
)

// RegisterRoutes sets up all the routes for the application
func RegisterRoutes(router *mux.Router, webhookController *controllers.WebhookController, paymentsController *controllers.PaymentsController, soundboxController *controllers.SoundboxController, authController *controllers.AuthController, healthController *controllers.HealthController) {
	// Health routes
	router.HandleFunc("/", healthController.Root).Methods("GET")
	router.HandleFunc("/health", healthController.Health).Methods("GET")
	router.HandleFunc("/ping", healthController.Ping).Methods("GET")

	// Auth routes
	router.HandleFunc("/api/auth/check-admin", authController.CheckAdmin).Methods("GET")
	router.HandleFunc("/api/auth/signup", authController.Signup).Methods("POST")
	router.HandleFunc("/api/auth/login", authController.Login).Methods("POST")
	router.HandleFunc("/api/auth/logout", authController.Logout).Methods("POST")

	// Provider webhook; unauthenticated, the provider only knows this URL
	router.HandleFunc("/api/webhook/soundbox", webhookController.HandleSoundboxWebhook).Methods("POST")
	router.HandleFunc("/api/webhook/soundbox/test", webhookController.TestWebhook).Methods("POST")

	// Dashboard reads, polled by the operator UI
	router.HandleFunc("/api/payments/history", paymentsController.GetPaymentHistory).Methods("GET")
	router.HandleFunc("/api/payments/unmatched", paymentsController.GetUnmatchedPayments).Methods("GET")
	router.HandleFunc("/api/payments/stats", paymentsController.GetPaymentStats).Methods("GET")

	// Soundbox configuration reads
	router.HandleFunc("/api/soundbox/config", soundboxController.GetConfig).Methods("GET")
	router.HandleFunc("/api/soundbox/settings", soundboxController.GetSettings).Methods("GET")

	// Operator actions require a valid session
	operator := router.PathPrefix("/api").Subrouter()
	operator.Use(middleware.AuthMiddleware)
	operator.HandleFunc("/payments/unmatched/{id}/resolve", paymentsController.ResolveUnmatched).Methods("POST")
	operator.HandleFunc("/payments/{transactionId}/match/{orderId}", paymentsController.ManualMatch).Methods("POST")
	operator.HandleFunc("/payments/{orderId}/mark-cash", paymentsController.MarkCash).Methods("POST")
	operator.HandleFunc("/payments/{orderId}", paymentsController.CancelOrder).Methods("DELETE")
	operator.HandleFunc("/soundbox/config", soundboxController.CreateConfig).Methods("POST")
	operator.HandleFunc("/soundbox/config", soundboxController.UpdateConfig).Methods("PUT")
	operator.HandleFunc("/soundbox/config", soundboxController.Disconnect).Methods("DELETE")
	operator.HandleFunc("/soundbox/test-connection", soundboxController.TestConnection).Methods("POST")
	operator.HandleFunc("/soundbox/settings", soundboxController.UpdateSettings).Methods("PUT")
}
