package service

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/SANJIKS/sos-backend-sub001/internal/model"
	"github.com/SANJIKS/sos-backend-sub001/internal/repository"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// deviceInfoHeaders are the request headers captured into a granted entry's
// device map, keyed by the name they are stored under.
var deviceInfoHeaders = []struct {
	header string
	key    string
}{
	{"User-Agent", "user_agent"},
	{"Accept-Language", "accept_language"},
	{"Accept-Encoding", "accept_encoding"},
	{"DNT", "do_not_track"},
	{"Sec-Fetch-Site", "sec_fetch_site"},
	{"Sec-Fetch-Mode", "sec_fetch_mode"},
	{"Sec-Fetch-Dest", "sec_fetch_dest"},
}

type ConsentService interface {
	BuildEntry(donation *model.Donation, consentType model.ConsentType, consentText string,
		meta RequestMeta) *model.ConsentLog
	Append(ctx context.Context, entry *model.ConsentLog) error
	GetLog(donation *model.Donation) (GetConsentLogResponse, error)
	Verify(donation *model.Donation, token string) (VerifyConsentResponse, error)
}

type consent struct {
	consentRepo repository.ConsentLogRepository
	logger      *zap.Logger
}

func NewConsentService(consentRepo repository.ConsentLogRepository, logger *zap.Logger) ConsentService {
	return &consent{consentRepo: consentRepo, logger: logger}
}

// BuildEntry assembles one audit event. Only a granted entry is a fresh
// consent gesture, so only a granted entry carries the confirmation token,
// session, referrer and device fingerprint; revocations and modifications are
// management actions attributed by IP and user agent alone.
func (c *consent) BuildEntry(donation *model.Donation, consentType model.ConsentType, consentText string,
	meta RequestMeta) *model.ConsentLog {
	now := time.Now().UTC()

	entry := &model.ConsentLog{
		DonationID:         donation.ID,
		ConsentType:        consentType,
		RecurringFrequency: string(donation.DonationType),
		ConsentText:        consentText,
		IPAddress:          meta.IPAddress,
		UserAgent:          meta.UserAgent,
		CreatedAt:          now,
	}

	if consentType == model.ConsentTypeGranted {
		entry.ConfirmationToken = ComputeConsentToken(donation.UUID.String(), donation.DonorEmail, now)
		entry.SessionID = meta.SessionID
		entry.Referrer = meta.Referrer
		entry.DeviceInfo = deviceInfoFromHeaders(meta.Headers)
	}

	return entry
}

func (c *consent) Append(ctx context.Context, entry *model.ConsentLog) error {
	return c.consentRepo.Create(ctx, entry)
}

func (c *consent) GetLog(donation *model.Donation) (GetConsentLogResponse, error) {
	entries, err := c.consentRepo.ListByDonationID(donation.ID)
	if err != nil {
		c.logger.Error("Failed to load consent log",
			zap.String("donationUUID", donation.UUID.String()),
			zap.Error(err))
		return GetConsentLogResponse{}, NewServiceError(ErrCodeDatabase, err)
	}

	resp := GetConsentLogResponse{DonationUUID: donation.UUID.String()}
	for _, entry := range entries {
		resp.Entries = append(resp.Entries, ConsentEntryView{
			ConsentType:        string(entry.ConsentType),
			RecurringFrequency: entry.RecurringFrequency,
			ConsentText:        entry.ConsentText,
			ConfirmationToken:  entry.ConfirmationToken,
			IPAddress:          entry.IPAddress,
			SessionID:          entry.SessionID,
			Referrer:           entry.Referrer,
			DeviceInfo:         entry.DeviceInfo,
			CreatedAt:          entry.CreatedAt.Format(time.RFC3339),
		})
	}

	return resp, nil
}

// Verify checks a confirmation token against the donation's granted entries.
// Revoked and modified entries carry no token and never match; a miss is a
// valid answer, not an error.
func (c *consent) Verify(donation *model.Donation, token string) (VerifyConsentResponse, error) {
	entries, err := c.consentRepo.ListByDonationID(donation.ID)
	if err != nil {
		c.logger.Error("Failed to load consent log for verification",
			zap.String("donationUUID", donation.UUID.String()),
			zap.Error(err))
		return VerifyConsentResponse{}, NewServiceError(ErrCodeDatabase, err)
	}

	if token == "" {
		return VerifyConsentResponse{Valid: false}, nil
	}

	for _, entry := range entries {
		if entry.ConsentType != model.ConsentTypeGranted || entry.ConfirmationToken == "" {
			continue
		}

		if subtle.ConstantTimeCompare([]byte(entry.ConfirmationToken), []byte(token)) == 1 {
			return VerifyConsentResponse{
				Valid:       true,
				ConsentType: string(entry.ConsentType),
				CreatedAt:   entry.CreatedAt.Format(time.RFC3339),
			}, nil
		}
	}

	return VerifyConsentResponse{Valid: false}, nil
}

/// ComputeConsentToken derives the confirmation token for one consent event:
// sha256 over the donation uuid, the lowercased donor email and the event
// timestamp in UTC.
func ComputeConsentToken(donationUUID, donorEmail string, at time.Time) string {
	payload := fmt.Sprintf("%s:%s:%s", donationUUID, strings.ToLower(donorEmail), at.UTC().Format(time.RFC3339Nano))
	sum := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:])
}

func deviceInfoFromHeaders(headers map[string]string) datatypes.JSONMap {
	info := datatypes.JSONMap{}

	for _, h := range deviceInfoHeaders {
		value := headerValue(headers, h.header)
		if value == "" {
			continue
		}

		info[h.key] = value
	}

	return info
}

func headerValue(headers map[string]string, name string) string {
	if headers == nil {
		return ""
	}

	if v, ok := headers[name]; ok {
		return v
	}

	for k, v := range headers {
		if strings.EqualFold(k, name) {
			return v
		}
	}

	return ""
}
