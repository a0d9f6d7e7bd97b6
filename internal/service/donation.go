package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/SANJIKS/sos-backend-sub001/internal/auth"
	"github.com/SANJIKS/sos-backend-sub001/internal/constants"
	"github.com/SANJIKS/sos-backend-sub001/internal/metrics"
	"github.com/SANJIKS/sos-backend-sub001/internal/model"
	"github.com/SANJIKS/sos-backend-sub001/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const maxCodeAttempts = 3

type DonationService interface {
	CreateDonationTx(ctx context.Context, cmd CreateDonationCommand) (CreateDonationResponse, error)
	GetDonation(p auth.Principal, donationUUID string) (DonationDetailView, error)
	GetDonations(p auth.Principal, query GetDonationsQuery) (GetDonationsResponse, error)
	GetStats() (StatsResponse, error)
	GetUserStats(p auth.Principal) (StatsResponse, error)
	GetConsentLog(p auth.Principal, donationUUID string) (GetConsentLogResponse, error)
	VerifyConsent(p auth.Principal, cmd VerifyConsentCommand) (VerifyConsentResponse, error)
}

type donation struct {
	donationRepo repository.DonationRepository
	txRepo       repository.TransactionRepository
	consentSvc   ConsentService
	validator    DonationValidator
	access       AccessResolver
	txManager    repository.TxManager
	metrics      *metrics.Metrics
	logger       *zap.Logger
}

func NewDonationService(donationRepo repository.DonationRepository, txRepo repository.TransactionRepository,
	consentSvc ConsentService, validator DonationValidator, access AccessResolver, txManager repository.TxManager,
	m *metrics.Metrics, logger *zap.Logger) DonationService {
	return &donation{donationRepo: donationRepo, txRepo: txRepo, consentSvc: consentSvc, validator: validator,
		access: access, txManager: txManager, metrics: m, logger: logger}
}

func (d *donation) CreateDonationTx(ctx context.Context, cmd CreateDonationCommand) (CreateDonationResponse, error) {
	// The permission check runs before validation: an anonymous subscription
	// attempt is rejected as such even when other fields are also invalid.
	donationType := model.DonationType(strings.TrimSpace(cmd.DonationType))
	if !d.access.CanCreate(donationType, cmd.UserID != nil) {
		d.logger.Warn("Anonymous caller attempted to open a subscription",
			zap.String("donationType", string(donationType)))
		return CreateDonationResponse{}, NewServiceError(constants.ErrCodeAuthRequired, AuthRequiredError{Frequency: donationType})
	}

	input, err := d.validator.ValidateDonation(cmd)
	if err != nil {
		return CreateDonationResponse{}, err
	}

	now := time.Now().UTC()

	record := model.Donation{
		UUID:          uuid.New(),
		DonationCode:  model.NewDonationCode(),
		UserID:        cmd.UserID,
		DonorEmail:    input.DonorEmail,
		DonorPhone:    input.DonorPhone,
		DonorFullName: input.DonorFullName,
		Amount:        input.Amount,
		Currency:      input.Currency,
		DonationType:  input.DonationType,
		PaymentMethod: input.PaymentMethod,
		DonorComment:  input.DonorComment,
		Status:        model.DonationStatusPending,
		IsRecurring:   input.DonationType.IsRecurring(),
		IPAddress:     cmd.Meta.IPAddress,
		UserAgent:     cmd.Meta.UserAgent,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	// Subscriptions start pending with the first charge scheduled one period
	// out. RecurringActive stays false until the first payment lands.
	if record.IsRecurring {
		pending := model.SubscriptionStatusPending
		record.SubscriptionStatus = &pending
		if next, ok := AddBillingInterval(input.DonationType, now); ok {
			record.NextPaymentDate = &next
		}
	}

	auditOK := true

	err = d.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := d.createWithFreshCode(ctx, &record); err != nil {
			return err
		}

		// One-time donations carry no recurring consent, so there is nothing
		// to log.
		if !record.IsRecurring {
			return nil
		}

		consentText := input.ConsentText
		if consentText == "" {
			consentText = defaultGrantText(&record)
		}

		entry := d.consentSvc.BuildEntry(&record, model.ConsentTypeGranted, consentText, cmd.Meta)
		if err := d.consentSvc.Append(ctx, entry); err != nil {
			// Losing the evidence must not lose the donation. The failure is
			// suppressed and the caller learns the trail has a gap.
			d.logger.Error("Consent write failed on create",
				zap.String("uuid", record.UUID.String()),
				zap.Error(err))
			d.metrics.RecordConsentWriteFailure()
			auditOK = false
			return nil
		}

		d.metrics.RecordConsentEntry(string(model.ConsentTypeGranted))
		return nil
	})

	if err != nil {
		d.metrics.RecordDonationCreationError()
		d.logger.Error("Donation transaction failed",
			zap.String("donorEmail", input.DonorEmail),
			zap.Error(err))
		return CreateDonationResponse{}, err
	}

	d.metrics.RecordDonationCreated(string(input.DonationType), string(input.Currency))
	d.logger.Info("Donation created",
		zap.String("uuid", record.UUID.String()),
		zap.String("code", record.DonationCode),
		zap.String("donationType", string(input.DonationType)),
		zap.Bool("auditWriteOK", auditOK))

	resp := CreateDonationResponse{
		DonationID:   record.ID,
		UUID:         record.UUID.String(),
		DonationCode: record.DonationCode,
		Status:       string(record.Status),
		AuditWriteOK: auditOK,
	}
	if record.SubscriptionStatus != nil {
		resp.SubscriptionStatus = string(*record.SubscriptionStatus)
	}
	if record.NextPaymentDate != nil {
		resp.NextPaymentDate = record.NextPaymentDate.UTC().Format(time.RFC3339)
	}

	return resp, nil
}

// defaultGrantText is the consent wording recorded when the client does not
// supply its own.
func defaultGrantText(d *model.Donation) string {
	return fmt.Sprintf("I agree to automatic %s charges of %s %s in support of the foundation "+
		"and understand I can cancel the subscription at any time.",
		frequencyLabel(d.DonationType), d.Amount.StringFixed(2), d.Currency)
}

// createWithFreshCode retries the insert with a regenerated donation code when
// the code collides. Any other failure is passed through.
func (d *donation) createWithFreshCode(ctx context.Context, record *model.Donation) error {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		err := d.donationRepo.Create(ctx, record)
		if err == nil {
			return nil
		}

		if errors.Is(err, repository.ErrDonationDuplicate) {
			d.logger.Warn("Donation code collision, regenerating",
				zap.String("code", record.DonationCode),
				zap.Int("attempt", attempt+1))
			record.DonationCode = model.NewDonationCode()
			continue
		}

		d.logger.Error("Failed to create donation", zap.Error(err))
		return NewServiceError(ErrCodeDatabase, err)
	}

	return NewServiceError(constants.ErrCodeOperationFailed, repository.ErrDonationDuplicate)
}

func (d *donation) GetDonation(p auth.Principal, donationUUID string) (DonationDetailView, error) {
	record, err := d.loadVisible(p, donationUUID)
	if err != nil {
		return DonationDetailView{}, err
	}

	transactions, err := d.txRepo.ListByDonationID(record.ID)
	if err != nil {
		d.logger.Error("Failed to load donation transactions",
			zap.String("uuid", donationUUID),
			zap.Error(err))
		return DonationDetailView{}, NewServiceError(ErrCodeDatabase, err)
	}

	return buildDonationDetail(record, transactions), nil
}

func (d *donation) GetDonations(p auth.Principal, query GetDonationsQuery) (GetDonationsResponse, error) {
	if !p.Authenticated {
		return GetDonationsResponse{}, NewServiceError(constants.ErrCodePermissionDenied, ErrPermissionDenied)
	}

	limit := query.Limit
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	offset := query.Offset
	if offset < 0 {
		offset = 0
	}

	filter := repository.DonationFilter{
		Status:             query.Status,
		DonationType:       query.DonationType,
		SubscriptionStatus: query.SubscriptionStatus,
		IsRecurring:        query.IsRecurring,
	}

	var (
		records []model.Donation
		total   int
		err     error
	)

	if p.Admin {
		records, err = d.donationRepo.ListAll(filter, limit, offset)
		if err == nil {
			total, err = d.donationRepo.CountAll(filter)
		}
	} else {
		records, err = d.donationRepo.ListForOwner(p.UserID, p.Email, filter, limit, offset)
		if err == nil {
			total, err = d.donationRepo.CountForOwner(p.UserID, p.Email, filter)
		}
	}

	if err != nil {
		d.logger.Error("Failed to list donations",
			zap.Int64("userID", p.UserID),
			zap.Error(err))
		return GetDonationsResponse{}, NewServiceError(ErrCodeDatabase, err)
	}

	return buildDonationList(records, total), nil
}

func (d *donation) GetStats() (StatsResponse, error) {
	stats, err := d.donationRepo.GetStats()
	if err != nil {
		d.logger.Error("Failed to collect donation stats", zap.Error(err))
		return StatsResponse{}, NewServiceError(ErrCodeDatabase, err)
	}

	return buildStatsResponse(stats), nil
}

func (d *donation) GetUserStats(p auth.Principal) (StatsResponse, error) {
	if !p.Authenticated {
		return StatsResponse{}, NewServiceError(constants.ErrCodePermissionDenied, ErrPermissionDenied)
	}

	stats, err := d.donationRepo.GetUserStats(p.UserID, p.Email)
	if err != nil {
		d.logger.Error("Failed to collect donor stats",
			zap.Int64("userID", p.UserID),
			zap.Error(err))
		return StatsResponse{}, NewServiceError(ErrCodeDatabase, err)
	}

	return buildStatsResponse(stats), nil
}

func (d *donation) GetConsentLog(p auth.Principal, donationUUID string) (GetConsentLogResponse, error) {
	record, err := d.loadVisible(p, donationUUID)
	if err != nil {
		return GetConsentLogResponse{}, err
	}

	return d.consentSvc.GetLog(record)
}

func (d *donation) VerifyConsent(p auth.Principal, cmd VerifyConsentCommand) (VerifyConsentResponse, error) {
	record, err := d.loadVisible(p, cmd.DonationUUID)
	if err != nil {
		return VerifyConsentResponse{}, err
	}

	return d.consentSvc.Verify(record, cmd.Token)
}

func (d *donation) loadVisible(p auth.Principal, donationUUID string) (*model.Donation, error) {
	record, err := d.donationRepo.GetByUUID(donationUUID)
	if err != nil {
		if errors.Is(err, repository.ErrDonationNotFound) {
			return nil, NewServiceError(constants.ErrCodeDonationNotFound, err)
		}

		d.logger.Error("Failed to load donation", zap.String("uuid", donationUUID), zap.Error(err))
		return nil, NewServiceError(ErrCodeDatabase, err)
	}

	if !d.access.CanView(p, record) {
		return nil, NewServiceError(constants.ErrCodePermissionDenied, ErrPermissionDenied)
	}

	return record, nil
}

func buildDonationList(records []model.Donation, total int) GetDonationsResponse {
	resp := GetDonationsResponse{Total: int64(total)}
	for i := range records {
		resp.Donations = append(resp.Donations, buildDonationView(&records[i]))
	}
	return resp
}

func buildDonationView(d *model.Donation) DonationView {
	view := DonationView{
		UUID:               d.UUID.String(),
		DonationCode:       d.DonationCode,
		Amount:             d.Amount.StringFixed(2),
		Currency:           string(d.Currency),
		DonationType:       string(d.DonationType),
		PaymentMethod:      d.PaymentMethod,
		Status:             string(d.Status),
		DonorFullName:      d.DonorFullName,
		DonorComment:       d.DonorComment,
		IsRecurring:        d.IsRecurring,
		CreatedAt:          d.CreatedAt.UTC().Format(time.RFC3339),
		CanCancel:          d.CanCancelSubscription(),
		CanPause:           d.CanPauseSubscription(),
		CanResume:          d.CanResumeSubscription(),
		CanDownloadReceipt: d.CanDownloadReceipt(),
	}

	if d.SubscriptionStatus != nil {
		view.SubscriptionStatus = string(*d.SubscriptionStatus)
	}
	if d.NextPaymentDate != nil {
		view.NextPaymentDate = d.NextPaymentDate.UTC().Format(time.RFC3339)
	}

	return view
}

func buildDonationDetail(d *model.Donation, transactions []model.DonationTransaction) DonationDetailView {
	detail := DonationDetailView{DonationView: buildDonationView(d)}

	for i := range transactions {
		detail.Transactions = append(detail.Transactions, buildTransactionView(&transactions[i]))
	}

	return detail
}

func buildTransactionView(tx *model.DonationTransaction) TransactionView {
	view := TransactionView{
		TransactionID:         tx.TransactionID,
		ExternalTransactionID: tx.ExternalTransactionID,
		TransactionType:       string(tx.TransactionType),
		Amount:                tx.Amount.StringFixed(2),
		Currency:              string(tx.Currency),
		Status:                string(tx.Status),
		Gateway:               tx.Gateway,
		ErrorCode:             tx.ErrorCode,
		ErrorMessage:          tx.ErrorMessage,
		CreatedAt:             tx.CreatedAt.UTC().Format(time.RFC3339),
	}

	if tx.ProcessedAt != nil {
		view.ProcessedAt = tx.ProcessedAt.UTC().Format(time.RFC3339)
	}

	return view
}

func buildStatsResponse(stats *repository.DonationStats) StatsResponse {
	resp := StatsResponse{
		TotalDonations:      stats.TotalCount,
		CompletedDonations:  stats.CompletedCount,
		ActiveSubscriptions: stats.ActiveSubscriptions,
	}

	for _, row := range stats.TotalsByCurrency {
		resp.ByCurrency = append(resp.ByCurrency, CurrencyTotalView{
			Currency: string(row.Currency),
			Count:    row.Count,
			Total:    row.Total.StringFixed(2),
		})
	}

	return resp
}
