package mocks

import (
	"context"
	"time"

	"github.com/SANJIKS/sos-backend-sub001/internal/model"
	"github.com/SANJIKS/sos-backend-sub001/internal/repository"
	"github.com/stretchr/testify/mock"
)

type DonationRepository struct {
	mock.Mock
}

func (m *DonationRepository) Create(ctx context.Context, donation *model.Donation) error {
	args := m.Called(ctx, donation)
	return args.Error(0)
}

func (m *DonationRepository) Update(ctx context.Context, donation *model.Donation) error {
	args := m.Called(ctx, donation)
	return args.Error(0)
}

func (m *DonationRepository) UpdateSubscriptionState(ctx context.Context, donation *model.Donation, from model.SubscriptionStatus) error {
	args := m.Called(ctx, donation, from)
	return args.Error(0)
}

func (m *DonationRepository) GetByUUID(uuid string) (*model.Donation, error) {
	args := m.Called(uuid)
	return args.Get(0).(*model.Donation), args.Error(1)
}

func (m *DonationRepository) ListForOwner(userID int64, email string, filter repository.DonationFilter, limit, offset int) ([]model.Donation, error) {
	args := m.Called(userID, email, filter, limit, offset)
	return args.Get(0).([]model.Donation), args.Error(1)
}

func (m *DonationRepository) CountForOwner(userID int64, email string, filter repository.DonationFilter) (int, error) {
	args := m.Called(userID, email, filter)
	return args.Int(0), args.Error(1)
}

func (m *DonationRepository) ListAll(filter repository.DonationFilter, limit, offset int) ([]model.Donation, error) {
	args := m.Called(filter, limit, offset)
	return args.Get(0).([]model.Donation), args.Error(1)
}

func (m *DonationRepository) CountAll(filter repository.DonationFilter) (int, error) {
	args := m.Called(filter)
	return args.Int(0), args.Error(1)
}

func (m *DonationRepository) ListDueSubscriptions(asOf time.Time, limit int) ([]model.Donation, error) {
	args := m.Called(asOf, limit)
	return args.Get(0).([]model.Donation), args.Error(1)
}

func (m *DonationRepository) GetStats() (*repository.DonationStats, error) {
	args := m.Called()
	return args.Get(0).(*repository.DonationStats), args.Error(1)
}

func (m *DonationRepository) GetUserStats(userID int64, email string) (*repository.DonationStats, error) {
	args := m.Called(userID, email)
	return args.Get(0).(*repository.DonationStats), args.Error(1)
}
