/**
 * @description
 * This file sets up the HTTP router for the marketplace-service. It defines
 * the API endpoints, associates them with their corresponding handlers, and
 * applies the middleware stack: logging, panic recovery, timeouts, CORS,
 * authentication and the per-surface rate limits.
 *
 * @dependencies
 * - net/http: Standard Go library for HTTP functionality.
 * - github.com/go-chi/chi/v5: A lightweight and idiomatic router for Go.
 * - github.com/go-chi/cors: CORS middleware for the browser frontend.
 */

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/choiceproperties/marketplace-service/internal/app"
	"github.com/choiceproperties/marketplace-service/internal/config"
)

// Routes creates and returns the router for the marketplace service.
func Routes(h *Handlers, limiter app.RateLimiter, cfg config.Config) http.Handler {
	r := chi.NewRouter()

	// Add standard middleware for logging, panic recovery, and timeouts.
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           300, // Maximum value not ignored by any major browsers
	}))

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("healthy"))
	})

	applicationLimit := RateLimitMiddleware(limiter, "applications",
		cfg.SubmissionRateLimit, time.Duration(cfg.SubmissionRateLimitWindowMinutes)*time.Minute)
	paymentLimit := RateLimitMiddleware(limiter, "payments",
		cfg.PaymentRateLimit, time.Duration(cfg.PaymentRateLimitWindowMinutes)*time.Minute)
	newsletterLimit := RateLimitMiddleware(limiter, "newsletter",
		cfg.NewsletterRateLimit, time.Duration(cfg.NewsletterRateLimitWindowMinutes)*time.Minute)

	auth := AuthMiddleware(cfg.JWTSecret)
	optionalAuth := OptionalAuthMiddleware(cfg.JWTSecret)

	r.Route("/api", func(r chi.Router) {
		r.Route("/applications", func(r chi.Router) {
			// Public intake and lookups; identity attached when present.
			r.With(optionalAuth, applicationLimit).Post("/submit", h.SubmitApplicationHandler)
			r.Get("/get/{applicationID}", h.GetApplicationHandler)
			r.Get("/status/{applicationID}", h.GetApplicationHandler)

			r.With(auth).Get("/user/{userID}", h.GetUserApplicationsHandler)

			r.Group(func(r chi.Router) {
				r.Use(auth, AdminOnly)
				r.Get("/all", h.ListApplicationsHandler)
				r.Put("/update/{applicationID}", h.UpdateApplicationStatusHandler)
			})
		})

		r.Route("/payments", func(r chi.Router) {
			r.With(optionalAuth, paymentLimit).Post("/initiate", h.InitiatePaymentHandler)
			r.With(paymentLimit).Post("/process", h.ProcessPaymentHandler)
			r.Get("/status/{transactionID}", h.GetPaymentStatusHandler)

			r.With(auth).Get("/user/{userID}", h.GetUserPaymentsHandler)
			r.With(auth, AdminOnly).Get("/all", h.ListPaymentsHandler)
		})

		r.Route("/newsletter", func(r chi.Router) {
			r.With(newsletterLimit).Post("/subscribe", h.SubscribeHandler)
			r.With(newsletterLimit).Post("/unsubscribe", h.UnsubscribeHandler)
			r.With(newsletterLimit).Put("/preferences", h.UpdatePreferencesHandler)
			r.Get("/get/{email}", h.GetSubscriberHandler)

			r.With(auth, AdminOnly).Get("/all", h.ListSubscribersHandler)
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Use(auth)

			// The same path position carries a user id for list/read-all and a
			// notification id for read/delete, so the pattern shares one name.
			r.Get("/{id}", h.ListNotificationsHandler)
			r.Put("/{id}/read", h.MarkNotificationReadHandler)
			r.Put("/{id}/read-all", h.MarkAllNotificationsReadHandler)
			r.Delete("/{id}", h.DeleteNotificationHandler)

			r.With(AdminOnly).Post("/send/bulk", h.SendBulkNotificationsHandler)
		})

		// Admin dashboard aliases used by the back-office frontend.
		r.Route("/admin", func(r chi.Router) {
			r.Use(auth, AdminOnly)

			r.Get("/stats", h.DashboardStatsHandler)
			r.Get("/export", h.ExportHandler)
			r.Get("/applications", h.ListApplicationsHandler)
			r.Put("/applications/{applicationID}/status", h.UpdateApplicationStatusHandler)
			r.Get("/payments", h.ListPaymentsHandler)
			r.Get("/subscribers", h.ListSubscribersHandler)
		})
	})

	return r
}
