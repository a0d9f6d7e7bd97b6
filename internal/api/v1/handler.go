package v1

import (
	"context"
	"strings"
	"time"

	"github.com/SANJIKS/sos-backend-sub001/internal/api/contract"
	"github.com/SANJIKS/sos-backend-sub001/internal/api/validator"
	"github.com/SANJIKS/sos-backend-sub001/internal/auth"
	"github.com/SANJIKS/sos-backend-sub001/internal/constants"
	"github.com/SANJIKS/sos-backend-sub001/internal/metrics"
	"github.com/SANJIKS/sos-backend-sub001/internal/service"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type Handler struct {
	logger        *zap.Logger
	donations     service.DonationService
	subscriptions service.SubscriptionService
	results       service.GatewayResultService
	XValidator    validator.IXValidator
	metrics       *metrics.Metrics
	dbHealth      *metrics.DatabaseMetricsCollector
}

func NewHandler(logger *zap.Logger, donations service.DonationService, subscriptions service.SubscriptionService,
	results service.GatewayResultService, XValidator validator.IXValidator, m *metrics.Metrics,
	dbHealth *metrics.DatabaseMetricsCollector) *Handler {
	return &Handler{
		logger:        logger,
		donations:     donations,
		subscriptions: subscriptions,
		results:       results,
		XValidator:    XValidator,
		metrics:       m,
		dbHealth:      dbHealth,
	}
}

func (h *Handler) Pong(c *fiber.Ctx) error {
	return c.SendString("pong")
}

func (h *Handler) Health(c *fiber.Ctx) error {
	if err := h.dbHealth.HealthCheck(); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status":    "degraded",
			"timestamp": time.Now().Unix(),
		})
	}

	return c.JSON(fiber.Map{
		"status":    "healthy",
		"timestamp": time.Now().Unix(),
	})
}

func (h *Handler) CreateDonation(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var request CreateDonationRequest
	if err := c.BodyParser(&request); err != nil {
		h.logger.Warn("Failed to parse body",
			zap.Error(err),
			zap.String("body", string(c.Body())))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"code":    constants.ErrCodeInvalidRequestBody,
			"message": constants.GetErrorMessage(constants.ErrCodeInvalidRequestBody),
		})
	}

	p := auth.FromContext(c)

	cmd := service.CreateDonationCommand{
		Amount:          request.Amount,
		Currency:        request.Currency,
		DonationType:    request.DonationType,
		PaymentMethod:   request.PaymentMethod,
		DonorEmail:      request.DonorEmail,
		DonorPhone:      request.DonorPhone,
		DonorFullName:   request.DonorFullName,
		DonorComment:    request.DonorComment,
		ConsentAccepted: request.ConsentAccepted,
		ConsentText:     request.ConsentText,
		Meta:            requestMeta(c),
	}
	if p.Authenticated {
		cmd.UserID = &p.UserID
	}

	resp, err := h.donations.CreateDonationTx(ctx, cmd)
	if err != nil {
		h.logger.Error("Failed to create donation",
			zap.Error(err),
			zap.String("donorEmail", request.DonorEmail),
			zap.String("donationType", request.DonationType),
		)

		return err
	}

	h.logger.Info("Donation received successfully",
		zap.String("uuid", resp.UUID),
		zap.String("code", resp.DonationCode),
	)

	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *Handler) GetDonations(c *fiber.Ctx) error {
	p := auth.FromContext(c)

	query := service.GetDonationsQuery{
		Limit:              c.QueryInt("limit", 20),
		Offset:             c.QueryInt("offset", 0),
		Status:             c.Query("status"),
		DonationType:       c.Query("donation_type"),
		SubscriptionStatus: c.Query("subscription_status"),
	}
	if raw := c.Query("is_recurring"); raw != "" {
		recurring := queryFlag(raw)
		query.IsRecurring = &recurring
	}

	resp, err := h.donations.GetDonations(p, query)
	if err != nil {
		return err
	}

	return c.JSON(resp)
}

// queryFlag maps "true", "1" and "yes" to true; any other value is false.
func queryFlag(raw string) bool {
	switch strings.ToLower(raw) {
	case "true", "1", "yes":
		return true
	default:
		return false
	}
}

func (h *Handler) GetDonation(c *fiber.Ctx) error {
	p := auth.FromContext(c)

	resp, err := h.donations.GetDonation(p, c.Params("uuid"))
	if err != nil {
		return err
	}

	return c.JSON(resp)
}

func (h *Handler) GetStats(c *fiber.Ctx) error {
	resp, err := h.donations.GetStats()
	if err != nil {
		return err
	}

	return c.JSON(resp)
}

func (h *Handler) GetMyStats(c *fiber.Ctx) error {
	p := auth.FromContext(c)

	resp, err := h.donations.GetUserStats(p)
	if err != nil {
		return err
	}

	return c.JSON(resp)
}

func (h *Handler) CancelSubscription(c *fiber.Ctx) error {
	return h.subscriptionAction(c, h.subscriptions.Cancel)
}

func (h *Handler) PauseSubscription(c *fiber.Ctx) error {
	return h.subscriptionAction(c, h.subscriptions.Pause)
}

func (h *Handler) ResumeSubscription(c *fiber.Ctx) error {
	return h.subscriptionAction(c, h.subscriptions.Resume)
}

func (h *Handler) GetConsentLog(c *fiber.Ctx) error {
	p := auth.FromContext(c)

	resp, err := h.donations.GetConsentLog(p, c.Params("uuid"))
	if err != nil {
		return err
	}

	return c.JSON(resp)
}

func (h *Handler) VerifyConsent(c *fiber.Ctx) error {
	var request VerifyConsentRequest

	responseError := h.XValidator.Validator(&request, constants.MessageErrorFormat, c)
	if responseError.Code != "" {
		h.logger.Warn("Error Validator", zap.Any("request", request))
		responseError.Code = constants.ErrCodeValidationFailed
		return c.JSON(responseError)
	}

	p := auth.FromContext(c)

	cmd := service.VerifyConsentCommand{
		DonationUUID: c.Params("uuid"),
		Token:        request.Token,
	}

	resp, err := h.donations.VerifyConsent(p, cmd)
	if err != nil {
		return err
	}

	return c.JSON(resp)
}

func (h *Handler) PaymentCallback(c *fiber.Ctx) error {
	var request PaymentCallbackRequest

	responseError := h.XValidator.Validator(&request, constants.MessageErrorFormat, c)
	if responseError.Code != "" {
		h.logger.Error("Error Validator", zap.Any("request", request))
		responseError.Code = constants.ErrCodeValidationFailed
		return c.JSON(responseError)
	}

	cmd := service.GatewayCallbackCommand{
		DonationUUID:          request.DonationUUID,
		TransactionID:         request.TransactionID,
		ExternalTransactionID: request.ExternalTransactionID,
		Status:                request.Status,
		Amount:                request.Amount,
		Currency:              request.Currency,
		PaymentMethod:         request.PaymentMethod,
		Gateway:               request.Gateway,
		ErrorCode:             request.ErrorCode,
		ErrorMessage:          request.ErrorMessage,
		RawResponse:           request.RawResponse,
	}

	resp, err := h.results.Apply(c.UserContext(), cmd)
	if err != nil {
		h.logger.Error("Failed to apply gateway callback",
			zap.Error(err),
			zap.String("transactionID", request.TransactionID),
		)

		return err
	}

	h.logger.Info("Gateway callback applied",
		zap.String("transactionID", resp.TransactionID),
		zap.String("status", resp.Status),
	)

	return c.JSON(contract.Response{Code: "success", Result: resp})
}

func (h *Handler) subscriptionAction(c *fiber.Ctx,
	action func(ctx context.Context, p auth.Principal, cmd service.SubscriptionActionCommand) (service.SubscriptionActionResponse, error)) error {
	var request SubscriptionActionRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&request); err != nil {
			h.logger.Warn("Failed to parse body", zap.Error(err))
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"code":    constants.ErrCodeInvalidRequestBody,
				"message": constants.GetErrorMessage(constants.ErrCodeInvalidRequestBody),
			})
		}
	}

	p := auth.FromContext(c)

	cmd := service.SubscriptionActionCommand{
		DonationUUID: c.Params("uuid"),
		ConsentText:  request.ConsentText,
		Meta:         requestMeta(c),
	}

	resp, err := action(c.UserContext(), p, cmd)
	if err != nil {
		return err
	}

	return c.JSON(resp)
}

func requestMeta(c *fiber.Ctx) service.RequestMeta {
	headers := map[string]string{}
	c.Request().Header.VisitAll(func(key, value []byte) {
		headers[string(key)] = string(value)
	})

	return service.RequestMeta{
		IPAddress: c.IP(),
		UserAgent: c.Get(fiber.HeaderUserAgent),
		SessionID: c.Get("X-Session-Id"),
		Referrer:  c.Get(fiber.HeaderReferer),
		Headers:   headers,
	}
}
