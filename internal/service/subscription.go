package service

import (
	"context"
	"errors"
	"time"

	"github.com/SANJIKS/sos-backend-sub001/internal/auth"
	"github.com/SANJIKS/sos-backend-sub001/internal/constants"
	"github.com/SANJIKS/sos-backend-sub001/internal/metrics"
	"github.com/SANJIKS/sos-backend-sub001/internal/model"
	"github.com/SANJIKS/sos-backend-sub001/internal/repository"
	"go.uber.org/zap"
)

type SubscriptionService interface {
	Cancel(ctx context.Context, p auth.Principal, cmd SubscriptionActionCommand) (SubscriptionActionResponse, error)
	Pause(ctx context.Context, p auth.Principal, cmd SubscriptionActionCommand) (SubscriptionActionResponse, error)
	Resume(ctx context.Context, p auth.Principal, cmd SubscriptionActionCommand) (SubscriptionActionResponse, error)
}

type subscription struct {
	donationRepo repository.DonationRepository
	consentSvc   ConsentService
	access       AccessResolver
	txManager    repository.TxManager
	metrics      *metrics.Metrics
	logger       *zap.Logger
}

func NewSubscriptionService(donationRepo repository.DonationRepository, consentSvc ConsentService,
	access AccessResolver, txManager repository.TxManager, m *metrics.Metrics, logger *zap.Logger) SubscriptionService {
	return &subscription{donationRepo: donationRepo, consentSvc: consentSvc, access: access,
		txManager: txManager, metrics: m, logger: logger}
}

func (s *subscription) Cancel(ctx context.Context, p auth.Principal, cmd SubscriptionActionCommand) (SubscriptionActionResponse, error) {
	donation, err := s.loadManaged(p, cmd.DonationUUID, "cancel")
	if err != nil {
		return SubscriptionActionResponse{}, err
	}

	if !donation.CanCancelSubscription() {
		s.metrics.RecordSubscriptionTransition("cancel", "rejected")
		return SubscriptionActionResponse{}, NewServiceError(constants.ErrCodeInvalidSubscription,
			StateError{Current: *donation.SubscriptionStatus, Action: "cancel"})
	}

	from := *donation.SubscriptionStatus
	cancelled := model.SubscriptionStatusCancelled
	donation.SubscriptionStatus = &cancelled
	donation.RecurringActive = false
	donation.NextPaymentDate = nil

	return s.applyTransition(ctx, donation, from, "cancel", model.ConsentTypeRevoked, cmd)
}

func (s *subscription) Pause(ctx context.Context, p auth.Principal, cmd SubscriptionActionCommand) (SubscriptionActionResponse, error) {
	donation, err := s.loadManaged(p, cmd.DonationUUID, "pause")
	if err != nil {
		return SubscriptionActionResponse{}, err
	}

	if !donation.CanPauseSubscription() {
		s.metrics.RecordSubscriptionTransition("pause", "rejected")
		return SubscriptionActionResponse{}, NewServiceError(constants.ErrCodeInvalidSubscription,
			StateError{Current: *donation.SubscriptionStatus, Action: "pause"})
	}

	from := *donation.SubscriptionStatus
	paused := model.SubscriptionStatusPaused
	donation.SubscriptionStatus = &paused
	donation.RecurringActive = false
	donation.NextPaymentDate = nil

	return s.applyTransition(ctx, donation, from, "pause", model.ConsentTypeModified, cmd)
}

func (s *subscription) Resume(ctx context.Context, p auth.Principal, cmd SubscriptionActionCommand) (SubscriptionActionResponse, error) {
	donation, err := s.loadManaged(p, cmd.DonationUUID, "resume")
	if err != nil {
		return SubscriptionActionResponse{}, err
	}

	if !donation.CanResumeSubscription() {
		s.metrics.RecordSubscriptionTransition("resume", "rejected")
		return SubscriptionActionResponse{}, NewServiceError(constants.ErrCodeInvalidSubscription,
			StateError{Current: *donation.SubscriptionStatus, Action: "resume"})
	}

	from := *donation.SubscriptionStatus
	active := model.SubscriptionStatusActive
	donation.SubscriptionStatus = &active
	donation.RecurringActive = true

	// The schedule restarts from the resume moment. The old next payment date
	// is stale after an arbitrary pause, so it is not carried over.
	if next, ok := AddBillingInterval(donation.DonationType, time.Now().UTC()); ok {
		donation.NextPaymentDate = &next
	}

	return s.applyTransition(ctx, donation, from, "resume", model.ConsentTypeGranted, cmd)
}

// loadManaged fetches the donation and runs every check that does not depend
// on the target state: existence, ownership, then whether it is recurring at
// all. The order is fixed so callers always get the most specific error.
func (s *subscription) loadManaged(p auth.Principal, donationUUID, action string) (*model.Donation, error) {
	donation, err := s.donationRepo.GetByUUID(donationUUID)
	if err != nil {
		if errors.Is(err, repository.ErrDonationNotFound) {
			return nil, NewServiceError(constants.ErrCodeDonationNotFound, err)
		}

		s.logger.Error("Failed to load donation", zap.String("uuid", donationUUID), zap.Error(err))
		return nil, NewServiceError(ErrCodeDatabase, err)
	}

	if !s.access.CanManage(p, donation) {
		s.logger.Warn("Subscription action denied",
			zap.String("action", action),
			zap.String("uuid", donationUUID),
			zap.Int64("userID", p.UserID))
		return nil, NewServiceError(constants.ErrCodePermissionDenied, ErrPermissionDenied)
	}

	if !donation.IsRecurring || donation.SubscriptionStatus == nil {
		return nil, NewServiceError(constants.ErrCodeNotRecurring, ErrNotRecurring)
	}

	return donation, nil
}

func (s *subscription) applyTransition(ctx context.Context, donation *model.Donation, from model.SubscriptionStatus,
	action string, consentType model.ConsentType, cmd SubscriptionActionCommand) (SubscriptionActionResponse, error) {
	auditOK := true

	consentText := cmd.ConsentText
	if consentText == "" {
		consentText = defaultTransitionText(action)
	}

	err := s.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := s.donationRepo.UpdateSubscriptionState(ctx, donation, from); err != nil {
			if errors.Is(err, repository.ErrNoRowsAffected) {
				s.logger.Warn("Subscription transition lost the race",
					zap.String("action", action),
					zap.String("uuid", donation.UUID.String()),
					zap.String("from", string(from)))
				return NewServiceError(constants.ErrCodeInvalidSubscription, s.stateAfterRace(donation, from, action))
			}

			s.logger.Error("Failed to update subscription state", zap.Error(err))
			return NewServiceError(ErrCodeDatabase, err)
		}

		entry := s.consentSvc.BuildEntry(donation, consentType, consentText, cmd.Meta)
		if err := s.consentSvc.Append(ctx, entry); err != nil {
			// The transition must not fail because evidence could not be
			// written. The gap is counted and surfaced to the caller.
			s.logger.Error("Consent write failed during transition",
				zap.String("action", action),
				zap.String("uuid", donation.UUID.String()),
				zap.Error(err))
			s.metrics.RecordConsentWriteFailure()
			auditOK = false
			return nil
		}

		s.metrics.RecordConsentEntry(string(consentType))
		return nil
	})

	if err != nil {
		var svcErr Error
		if errors.As(err, &svcErr) && svcErr.Code == constants.ErrCodeInvalidSubscription {
			s.metrics.RecordSubscriptionTransition(action, "conflict")
		}
		return SubscriptionActionResponse{}, err
	}

	s.metrics.RecordSubscriptionTransition(action, "accepted")
	s.logger.Info("Subscription transition applied",
		zap.String("action", action),
		zap.String("uuid", donation.UUID.String()),
		zap.String("from", string(from)),
		zap.String("to", string(*donation.SubscriptionStatus)))

	resp := SubscriptionActionResponse{
		UUID:               donation.UUID.String(),
		SubscriptionStatus: string(*donation.SubscriptionStatus),
		AuditWriteOK:       auditOK,
	}
	if donation.NextPaymentDate != nil {
		resp.NextPaymentDate = donation.NextPaymentDate.UTC().Format(time.RFC3339)
	}

	return resp, nil
}

// stateAfterRace names the state a lost guarded update actually found. The
// guard only reports zero rows, so the row is read back for the real status;
// if that read fails too, the state loaded at the start of the call is used.
func (s *subscription) stateAfterRace(donation *model.Donation, from model.SubscriptionStatus, action string) error {
	current := from
	if fresh, err := s.donationRepo.GetByUUID(donation.UUID.String()); err == nil && fresh.SubscriptionStatus != nil {
		current = *fresh.SubscriptionStatus
	}
	return StateError{Current: current, Action: action}
}

func defaultTransitionText(action string) string {
	switch action {
	case "cancel":
		return "Recurring donation cancelled at donor request"
	case "pause":
		return "Recurring donation paused at donor request"
	case "resume":
		return "Recurring donation resumed at donor request"
	default:
		return "Recurring donation updated at donor request"
	}
}
