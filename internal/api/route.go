package api

import (
	v1 "github.com/SANJIKS/sos-backend-sub001/internal/api/v1"
	"github.com/gofiber/fiber/v2"
)

const prefixV1 = "api/v1/"

func SetupRoutes(app *fiber.App, handler *v1.Handler) {
	app.Get("/ping", handler.Pong)
	app.Get("/health", handler.Health)

	app.Post(prefixV1+"donations", handler.CreateDonation)
	app.Get(prefixV1+"donations", handler.GetDonations)

	// Static segments before the :uuid wildcard.
	app.Get(prefixV1+"donations/stats", handler.GetStats)
	app.Get(prefixV1+"donations/my-stats", handler.GetMyStats)

	app.Get(prefixV1+"donations/:uuid", handler.GetDonation)
	app.Post(prefixV1+"donations/:uuid/cancel", handler.CancelSubscription)
	app.Post(prefixV1+"donations/:uuid/pause", handler.PauseSubscription)
	app.Post(prefixV1+"donations/:uuid/resume", handler.ResumeSubscription)
	app.Get(prefixV1+"donations/:uuid/consents", handler.GetConsentLog)
	app.Post(prefixV1+"donations/:uuid/consents/verify", handler.VerifyConsent)

	app.Post(prefixV1+"payments/callback", handler.PaymentCallback)
}
