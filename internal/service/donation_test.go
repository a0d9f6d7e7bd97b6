package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/SANJIKS/sos-backend-sub001/internal/auth"
	"github.com/SANJIKS/sos-backend-sub001/internal/constants"
	"github.com/SANJIKS/sos-backend-sub001/internal/metrics"
	"github.com/SANJIKS/sos-backend-sub001/internal/mocks"
	"github.com/SANJIKS/sos-backend-sub001/internal/model"
	"github.com/SANJIKS/sos-backend-sub001/internal/repository"
	"github.com/SANJIKS/sos-backend-sub001/internal/service"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// Prometheus collectors register globally, so the package shares one instance.
var testMetrics = metrics.NewMetrics()

func assertServiceError(t *testing.T, err error, code string) {
	t.Helper()

	var svcErr service.Error
	require.True(t, errors.As(err, &svcErr), "expected a service error, got %v", err)
	assert.Equal(t, code, svcErr.Code)
}

func newDonationService(donationRepo *mocks.DonationRepository, txRepo *mocks.TransactionRepository,
	consentSvc *mocks.ConsentService, txManager *mocks.TxManager) service.DonationService {
	return service.NewDonationService(donationRepo, txRepo, consentSvc, service.NewDonationValidator(),
		service.NewAccessResolver(), txManager, testMetrics, zap.NewNop())
}

func TestDonation_CreateDonationTx(t *testing.T) {
	consentEntry := &model.ConsentLog{ConsentType: model.ConsentTypeGranted}

	t.Run("creates a one time donation without consent entries", func(t *testing.T) {
		mockRepo := &mocks.DonationRepository{}
		mockConsent := &mocks.ConsentService{}
		mockTxManager := &mocks.TxManager{}

		svc := newDonationService(mockRepo, &mocks.TransactionRepository{}, mockConsent, mockTxManager)

		mockTxManager.On("WithTx", mock.Anything, mock.Anything).Return(nil)

		mockRepo.On("Create", mock.Anything, mock.MatchedBy(func(d *model.Donation) bool {
			return d.Status == model.DonationStatusPending &&
				!d.IsRecurring &&
				d.SubscriptionStatus == nil &&
				d.NextPaymentDate == nil &&
				d.UserID == nil &&
				len(d.DonationCode) == 12 &&
				d.DonorEmail == "donor@example.com"
		})).Return(nil)

		resp, err := svc.CreateDonationTx(context.Background(), validCreateCommand())

		require.NoError(t, err)
		assert.Equal(t, "pending", resp.Status)
		assert.Len(t, resp.DonationCode, 12)
		assert.NotEmpty(t, resp.UUID)
		assert.Empty(t, resp.SubscriptionStatus)
		assert.Empty(t, resp.NextPaymentDate)
		assert.True(t, resp.AuditWriteOK)
		mockRepo.AssertExpectations(t)
		mockConsent.AssertNotCalled(t, "BuildEntry")
		mockConsent.AssertNotCalled(t, "Append")
	})

	t.Run("recurring donation starts with a pending subscription", func(t *testing.T) {
		mockRepo := &mocks.DonationRepository{}
		mockConsent := &mocks.ConsentService{}
		mockTxManager := &mocks.TxManager{}

		svc := newDonationService(mockRepo, &mocks.TransactionRepository{}, mockConsent, mockTxManager)

		userID := int64(42)
		cmd := validCreateCommand()
		cmd.DonationType = "monthly"
		cmd.UserID = &userID

		mockTxManager.On("WithTx", mock.Anything, mock.Anything).Return(nil)

		mockRepo.On("Create", mock.Anything, mock.MatchedBy(func(d *model.Donation) bool {
			return d.IsRecurring &&
				d.SubscriptionStatus != nil &&
				*d.SubscriptionStatus == model.SubscriptionStatusPending &&
				!d.RecurringActive &&
				d.NextPaymentDate != nil &&
				d.UserID != nil && *d.UserID == 42
		})).Return(nil)

		mockConsent.On("BuildEntry", mock.Anything, model.ConsentTypeGranted,
			"I agree to the donation terms", mock.Anything).Return(consentEntry)
		mockConsent.On("Append", mock.Anything, consentEntry).Return(nil)

		resp, err := svc.CreateDonationTx(context.Background(), cmd)

		require.NoError(t, err)
		assert.Equal(t, "pending", resp.SubscriptionStatus)
		assert.NotEmpty(t, resp.NextPaymentDate)
		mockRepo.AssertExpectations(t)
		mockConsent.AssertExpectations(t)
	})

	t.Run("composes the grant text when none is supplied", func(t *testing.T) {
		mockRepo := &mocks.DonationRepository{}
		mockConsent := &mocks.ConsentService{}
		mockTxManager := &mocks.TxManager{}

		svc := newDonationService(mockRepo, &mocks.TransactionRepository{}, mockConsent, mockTxManager)

		userID := int64(42)
		cmd := validCreateCommand()
		cmd.DonationType = "monthly"
		cmd.UserID = &userID
		cmd.ConsentText = ""

		mockTxManager.On("WithTx", mock.Anything, mock.Anything).Return(nil)
		mockRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

		mockConsent.On("BuildEntry", mock.Anything, model.ConsentTypeGranted,
			mock.MatchedBy(func(text string) bool {
				return strings.Contains(text, "monthly") &&
					strings.Contains(text, "100.00") &&
					strings.Contains(text, "KGS")
			}), mock.Anything).Return(consentEntry)
		mockConsent.On("Append", mock.Anything, consentEntry).Return(nil)

		_, err := svc.CreateDonationTx(context.Background(), cmd)

		require.NoError(t, err)
		mockConsent.AssertExpectations(t)
	})

	t.Run("rejects an anonymous subscription", func(t *testing.T) {
		mockRepo := &mocks.DonationRepository{}
		mockConsent := &mocks.ConsentService{}
		mockTxManager := &mocks.TxManager{}

		svc := newDonationService(mockRepo, &mocks.TransactionRepository{}, mockConsent, mockTxManager)

		// The amount is also invalid; the auth rejection still wins.
		cmd := validCreateCommand()
		cmd.DonationType = "monthly"
		cmd.Amount = "nope"

		_, err := svc.CreateDonationTx(context.Background(), cmd)

		assertServiceError(t, err, constants.ErrCodeAuthRequired)
		mockRepo.AssertNotCalled(t, "Create")
		mockTxManager.AssertNotCalled(t, "WithTx")
	})

	t.Run("validation failure stops before the database", func(t *testing.T) {
		mockRepo := &mocks.DonationRepository{}
		mockConsent := &mocks.ConsentService{}
		mockTxManager := &mocks.TxManager{}

		svc := newDonationService(mockRepo, &mocks.TransactionRepository{}, mockConsent, mockTxManager)

		cmd := validCreateCommand()
		cmd.Amount = "not-a-number"

		_, err := svc.CreateDonationTx(context.Background(), cmd)

		assertServiceError(t, err, constants.ErrCodeValidationFailed)
		mockRepo.AssertNotCalled(t, "Create")
	})

	t.Run("regenerates the code on a collision", func(t *testing.T) {
		mockRepo := &mocks.DonationRepository{}
		mockConsent := &mocks.ConsentService{}
		mockTxManager := &mocks.TxManager{}

		svc := newDonationService(mockRepo, &mocks.TransactionRepository{}, mockConsent, mockTxManager)

		mockTxManager.On("WithTx", mock.Anything, mock.Anything).Return(nil)
		mockRepo.On("Create", mock.Anything, mock.Anything).Return(repository.ErrDonationDuplicate).Once()
		mockRepo.On("Create", mock.Anything, mock.Anything).Return(nil).Once()

		resp, err := svc.CreateDonationTx(context.Background(), validCreateCommand())

		require.NoError(t, err)
		assert.True(t, resp.AuditWriteOK)
		mockRepo.AssertExpectations(t)
	})

	t.Run("gives up after exhausting code attempts", func(t *testing.T) {
		mockRepo := &mocks.DonationRepository{}
		mockConsent := &mocks.ConsentService{}
		mockTxManager := &mocks.TxManager{}

		svc := newDonationService(mockRepo, &mocks.TransactionRepository{}, mockConsent, mockTxManager)

		mockTxManager.On("WithTx", mock.Anything, mock.Anything).Return(nil)
		mockRepo.On("Create", mock.Anything, mock.Anything).Return(repository.ErrDonationDuplicate).Times(3)

		_, err := svc.CreateDonationTx(context.Background(), validCreateCommand())

		assertServiceError(t, err, constants.ErrCodeOperationFailed)
		mockConsent.AssertNotCalled(t, "Append")
	})

	t.Run("database failure rolls the donation back", func(t *testing.T) {
		mockRepo := &mocks.DonationRepository{}
		mockConsent := &mocks.ConsentService{}
		mockTxManager := &mocks.TxManager{}

		svc := newDonationService(mockRepo, &mocks.TransactionRepository{}, mockConsent, mockTxManager)

		mockTxManager.On("WithTx", mock.Anything, mock.Anything).Return(nil)
		mockRepo.On("Create", mock.Anything, mock.Anything).Return(errors.New("connection lost"))

		_, err := svc.CreateDonationTx(context.Background(), validCreateCommand())

		assertServiceError(t, err, service.ErrCodeDatabase)
		mockConsent.AssertNotCalled(t, "Append")
	})

	t.Run("consent write failure does not lose the donation", func(t *testing.T) {
		mockRepo := &mocks.DonationRepository{}
		mockConsent := &mocks.ConsentService{}
		mockTxManager := &mocks.TxManager{}

		svc := newDonationService(mockRepo, &mocks.TransactionRepository{}, mockConsent, mockTxManager)

		userID := int64(42)
		cmd := validCreateCommand()
		cmd.DonationType = "monthly"
		cmd.UserID = &userID

		mockTxManager.On("WithTx", mock.Anything, mock.Anything).Return(nil)
		mockRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

		mockConsent.On("BuildEntry", mock.Anything, model.ConsentTypeGranted,
			mock.Anything, mock.Anything).Return(consentEntry)
		mockConsent.On("Append", mock.Anything, consentEntry).Return(errors.New("consent table down"))

		resp, err := svc.CreateDonationTx(context.Background(), cmd)

		require.NoError(t, err)
		assert.False(t, resp.AuditWriteOK)
		assert.Equal(t, "pending", resp.Status)
	})
}

func TestDonation_GetDonation(t *testing.T) {
	ownerID := int64(42)
	donationUUID := uuid.New()

	record := &model.Donation{
		ID:           1,
		UUID:         donationUUID,
		DonationCode: "ABC123XYZ456",
		UserID:       &ownerID,
		DonorEmail:   "donor@example.com",
		Amount:       decimal.NewFromInt(100),
		Currency:     model.CurrencyKGS,
		DonationType: model.DonationTypeOneTime,
		Status:       model.DonationStatusCompleted,
		CreatedAt:    time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC),
	}

	t.Run("owner sees the donation with its payment history", func(t *testing.T) {
		mockRepo := &mocks.DonationRepository{}
		mockTxRepo := &mocks.TransactionRepository{}
		svc := newDonationService(mockRepo, mockTxRepo, &mocks.ConsentService{}, &mocks.TxManager{})

		mockRepo.On("GetByUUID", donationUUID.String()).Return(record, nil)

		processedAt := time.Date(2025, time.March, 1, 12, 5, 0, 0, time.UTC)
		mockTxRepo.On("ListByDonationID", int64(1)).Return([]model.DonationTransaction{
			{
				TransactionID:   "txn-001",
				TransactionType: model.TransactionTypePayment,
				Amount:          decimal.NewFromInt(100),
				Currency:        model.CurrencyKGS,
				Status:          model.TransactionStatusSuccess,
				Gateway:         "paygate",
				CreatedAt:       time.Date(2025, time.March, 1, 12, 1, 0, 0, time.UTC),
				ProcessedAt:     &processedAt,
			},
		}, nil)

		p := auth.Principal{UserID: 42, Authenticated: true}
		view, err := svc.GetDonation(p, donationUUID.String())

		require.NoError(t, err)
		assert.Equal(t, donationUUID.String(), view.UUID)
		assert.Equal(t, "100.00", view.Amount)
		assert.Equal(t, "KGS", view.Currency)
		assert.Equal(t, "2025-03-01T12:00:00Z", view.CreatedAt)
		assert.False(t, view.CanCancel)
		assert.True(t, view.CanDownloadReceipt)
		require.Len(t, view.Transactions, 1)
		assert.Equal(t, "txn-001", view.Transactions[0].TransactionID)
		assert.Equal(t, "payment", view.Transactions[0].TransactionType)
		assert.Equal(t, "success", view.Transactions[0].Status)
		assert.Equal(t, "2025-03-01T12:05:00Z", view.Transactions[0].ProcessedAt)
	})

	t.Run("unknown uuid", func(t *testing.T) {
		mockRepo := &mocks.DonationRepository{}
		svc := newDonationService(mockRepo, &mocks.TransactionRepository{}, &mocks.ConsentService{}, &mocks.TxManager{})

		mockRepo.On("GetByUUID", donationUUID.String()).
			Return((*model.Donation)(nil), repository.ErrDonationNotFound)

		p := auth.Principal{UserID: 42, Authenticated: true}
		_, err := svc.GetDonation(p, donationUUID.String())

		assertServiceError(t, err, constants.ErrCodeDonationNotFound)
	})

	t.Run("stranger is denied", func(t *testing.T) {
		mockRepo := &mocks.DonationRepository{}
		svc := newDonationService(mockRepo, &mocks.TransactionRepository{}, &mocks.ConsentService{}, &mocks.TxManager{})

		mockRepo.On("GetByUUID", donationUUID.String()).Return(record, nil)

		p := auth.Principal{UserID: 7, Email: "other@example.com", Authenticated: true}
		_, err := svc.GetDonation(p, donationUUID.String())

		assertServiceError(t, err, constants.ErrCodePermissionDenied)
	})

	t.Run("active subscription exposes manage flags", func(t *testing.T) {
		mockRepo := &mocks.DonationRepository{}
		mockTxRepo := &mocks.TransactionRepository{}
		svc := newDonationService(mockRepo, mockTxRepo, &mocks.ConsentService{}, &mocks.TxManager{})

		active := model.SubscriptionStatusActive
		next := time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC)
		sub := &model.Donation{
			ID:                 2,
			UUID:               donationUUID,
			UserID:             &ownerID,
			Amount:             decimal.NewFromInt(100),
			DonationType:       model.DonationTypeMonthly,
			IsRecurring:        true,
			RecurringActive:    true,
			SubscriptionStatus: &active,
			NextPaymentDate:    &next,
			CreatedAt:          time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC),
		}

		mockRepo.On("GetByUUID", donationUUID.String()).Return(sub, nil)
		mockTxRepo.On("ListByDonationID", int64(2)).Return([]model.DonationTransaction{}, nil)

		p := auth.Principal{UserID: 42, Authenticated: true}
		view, err := svc.GetDonation(p, donationUUID.String())

		require.NoError(t, err)
		assert.Equal(t, "active", view.SubscriptionStatus)
		assert.Equal(t, "2025-04-01T00:00:00Z", view.NextPaymentDate)
		assert.True(t, view.CanCancel)
		assert.True(t, view.CanPause)
		assert.False(t, view.CanResume)
		assert.Empty(t, view.Transactions)
	})

	t.Run("payment history failure surfaces as database error", func(t *testing.T) {
		mockRepo := &mocks.DonationRepository{}
		mockTxRepo := &mocks.TransactionRepository{}
		svc := newDonationService(mockRepo, mockTxRepo, &mocks.ConsentService{}, &mocks.TxManager{})

		mockRepo.On("GetByUUID", donationUUID.String()).Return(record, nil)
		mockTxRepo.On("ListByDonationID", int64(1)).
			Return([]model.DonationTransaction(nil), errors.New("connection lost"))

		p := auth.Principal{UserID: 42, Authenticated: true}
		_, err := svc.GetDonation(p, donationUUID.String())

		assertServiceError(t, err, service.ErrCodeDatabase)
	})
}

func TestDonation_GetDonations(t *testing.T) {
	records := []model.Donation{
		{UUID: uuid.New(), Amount: decimal.NewFromInt(100), Currency: model.CurrencyKGS,
			Status: model.DonationStatusCompleted, CreatedAt: time.Now()},
		{UUID: uuid.New(), Amount: decimal.NewFromInt(50), Currency: model.CurrencyKGS,
			Status: model.DonationStatusPending, CreatedAt: time.Now()},
	}

	t.Run("unauthenticated caller is denied", func(t *testing.T) {
		mockRepo := &mocks.DonationRepository{}
		svc := newDonationService(mockRepo, &mocks.TransactionRepository{}, &mocks.ConsentService{}, &mocks.TxManager{})

		_, err := svc.GetDonations(auth.Principal{}, service.GetDonationsQuery{})

		assertServiceError(t, err, constants.ErrCodePermissionDenied)
		mockRepo.AssertNotCalled(t, "ListForOwner")
	})

	t.Run("owner lists own donations with default paging", func(t *testing.T) {
		mockRepo := &mocks.DonationRepository{}
		svc := newDonationService(mockRepo, &mocks.TransactionRepository{}, &mocks.ConsentService{}, &mocks.TxManager{})

		mockRepo.On("ListForOwner", int64(42), "donor@example.com", repository.DonationFilter{}, 20, 0).
			Return(records, nil)
		mockRepo.On("CountForOwner", int64(42), "donor@example.com", repository.DonationFilter{}).Return(2, nil)

		p := auth.Principal{UserID: 42, Email: "donor@example.com", Authenticated: true}
		resp, err := svc.GetDonations(p, service.GetDonationsQuery{})

		require.NoError(t, err)
		assert.Equal(t, int64(2), resp.Total)
		require.Len(t, resp.Donations, 2)
		assert.Equal(t, "100.00", resp.Donations[0].Amount)
		mockRepo.AssertExpectations(t)
	})

	t.Run("filters pass through to the repository", func(t *testing.T) {
		mockRepo := &mocks.DonationRepository{}
		svc := newDonationService(mockRepo, &mocks.TransactionRepository{}, &mocks.ConsentService{}, &mocks.TxManager{})

		recurring := true
		filter := repository.DonationFilter{
			Status:             "completed",
			DonationType:       "monthly",
			SubscriptionStatus: "active",
			IsRecurring:        &recurring,
		}

		mockRepo.On("ListForOwner", int64(42), "", filter, 20, 0).Return([]model.Donation{}, nil)
		mockRepo.On("CountForOwner", int64(42), "", filter).Return(0, nil)

		p := auth.Principal{UserID: 42, Authenticated: true}
		_, err := svc.GetDonations(p, service.GetDonationsQuery{
			Status:             "completed",
			DonationType:       "monthly",
			SubscriptionStatus: "active",
			IsRecurring:        &recurring,
		})

		require.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("limit is capped at one hundred", func(t *testing.T) {
		mockRepo := &mocks.DonationRepository{}
		svc := newDonationService(mockRepo, &mocks.TransactionRepository{}, &mocks.ConsentService{}, &mocks.TxManager{})

		mockRepo.On("ListForOwner", int64(42), "", repository.DonationFilter{}, 100, 0).
			Return([]model.Donation{}, nil)
		mockRepo.On("CountForOwner", int64(42), "", repository.DonationFilter{}).Return(0, nil)

		p := auth.Principal{UserID: 42, Authenticated: true}
		_, err := svc.GetDonations(p, service.GetDonationsQuery{Limit: 1000})

		require.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("admin lists everything", func(t *testing.T) {
		mockRepo := &mocks.DonationRepository{}
		svc := newDonationService(mockRepo, &mocks.TransactionRepository{}, &mocks.ConsentService{}, &mocks.TxManager{})

		mockRepo.On("ListAll", repository.DonationFilter{}, 20, 0).Return(records, nil)
		mockRepo.On("CountAll", repository.DonationFilter{}).Return(2, nil)

		p := auth.Principal{UserID: 1, Authenticated: true, Admin: true}
		resp, err := svc.GetDonations(p, service.GetDonationsQuery{})

		require.NoError(t, err)
		assert.Equal(t, int64(2), resp.Total)
		mockRepo.AssertNotCalled(t, "ListForOwner")
	})

	t.Run("list failure surfaces as database error", func(t *testing.T) {
		mockRepo := &mocks.DonationRepository{}
		svc := newDonationService(mockRepo, &mocks.TransactionRepository{}, &mocks.ConsentService{}, &mocks.TxManager{})

		mockRepo.On("ListForOwner", int64(42), "", repository.DonationFilter{}, 20, 0).
			Return([]model.Donation(nil), errors.New("connection lost"))

		p := auth.Principal{UserID: 42, Authenticated: true}
		_, err := svc.GetDonations(p, service.GetDonationsQuery{})

		assertServiceError(t, err, service.ErrCodeDatabase)
	})
}

func TestDonation_Stats(t *testing.T) {
	stats := &repository.DonationStats{
		TotalCount:          10,
		CompletedCount:      7,
		ActiveSubscriptions: 3,
		TotalsByCurrency: []repository.CurrencyTotal{
			{Currency: model.CurrencyKGS, Count: 5, Total: decimal.NewFromInt(5000)},
			{Currency: model.CurrencyUSD, Count: 2, Total: decimal.NewFromInt(90)},
		},
	}

	t.Run("maps totals by currency", func(t *testing.T) {
		mockRepo := &mocks.DonationRepository{}
		svc := newDonationService(mockRepo, &mocks.TransactionRepository{}, &mocks.ConsentService{}, &mocks.TxManager{})

		mockRepo.On("GetStats").Return(stats, nil)

		resp, err := svc.GetStats()

		require.NoError(t, err)
		assert.Equal(t, int64(10), resp.TotalDonations)
		assert.Equal(t, int64(7), resp.CompletedDonations)
		assert.Equal(t, int64(3), resp.ActiveSubscriptions)
		require.Len(t, resp.ByCurrency, 2)
		assert.Equal(t, "KGS", resp.ByCurrency[0].Currency)
		assert.Equal(t, "5000.00", resp.ByCurrency[0].Total)
	})

	t.Run("user stats require authentication", func(t *testing.T) {
		mockRepo := &mocks.DonationRepository{}
		svc := newDonationService(mockRepo, &mocks.TransactionRepository{}, &mocks.ConsentService{}, &mocks.TxManager{})

		_, err := svc.GetUserStats(auth.Principal{})

		assertServiceError(t, err, constants.ErrCodePermissionDenied)
		mockRepo.AssertNotCalled(t, "GetUserStats")
	})

	t.Run("user stats are scoped to the caller", func(t *testing.T) {
		mockRepo := &mocks.DonationRepository{}
		svc := newDonationService(mockRepo, &mocks.TransactionRepository{}, &mocks.ConsentService{}, &mocks.TxManager{})

		mockRepo.On("GetUserStats", int64(42), "donor@example.com").Return(stats, nil)

		p := auth.Principal{UserID: 42, Email: "donor@example.com", Authenticated: true}
		resp, err := svc.GetUserStats(p)

		require.NoError(t, err)
		assert.Equal(t, int64(10), resp.TotalDonations)
		mockRepo.AssertExpectations(t)
	})
}

func TestDonation_ConsentAccess(t *testing.T) {
	ownerID := int64(42)
	donationUUID := uuid.New()
	record := &model.Donation{ID: 9, UUID: donationUUID, UserID: &ownerID}

	t.Run("consent log goes through the visibility check", func(t *testing.T) {
		mockRepo := &mocks.DonationRepository{}
		mockConsent := &mocks.ConsentService{}
		svc := newDonationService(mockRepo, &mocks.TransactionRepository{}, mockConsent, &mocks.TxManager{})

		mockRepo.On("GetByUUID", donationUUID.String()).Return(record, nil)
		mockConsent.On("GetLog", record).
			Return(service.GetConsentLogResponse{DonationUUID: donationUUID.String()}, nil)

		p := auth.Principal{UserID: 42, Authenticated: true}
		resp, err := svc.GetConsentLog(p, donationUUID.String())

		require.NoError(t, err)
		assert.Equal(t, donationUUID.String(), resp.DonationUUID)

		_, err = svc.GetConsentLog(auth.Principal{UserID: 7, Authenticated: true}, donationUUID.String())
		assertServiceError(t, err, constants.ErrCodePermissionDenied)
	})

	t.Run("verify forwards the token for a visible donation", func(t *testing.T) {
		mockRepo := &mocks.DonationRepository{}
		mockConsent := &mocks.ConsentService{}
		svc := newDonationService(mockRepo, &mocks.TransactionRepository{}, mockConsent, &mocks.TxManager{})

		mockRepo.On("GetByUUID", donationUUID.String()).Return(record, nil)
		mockConsent.On("Verify", record, "sometoken").
			Return(service.VerifyConsentResponse{Valid: true, ConsentType: "granted"}, nil)

		p := auth.Principal{UserID: 42, Authenticated: true}
		resp, err := svc.VerifyConsent(p, service.VerifyConsentCommand{
			DonationUUID: donationUUID.String(),
			Token:        "sometoken",
		})

		require.NoError(t, err)
		assert.True(t, resp.Valid)
		mockConsent.AssertExpectations(t)
	})
}
