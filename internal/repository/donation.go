package repository

import (
	"context"
	"errors"
	"time"

	"github.com/SANJIKS/sos-backend-sub001/internal/model"
	"github.com/go-sql-driver/mysql"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var ErrDonationNotFound = errors.New("DONATION_NOT_FOUND")
var ErrDonationDuplicate = errors.New("DONATION_DUPLICATE")
var ErrNoRowsAffected = errors.New("NO_ROWS_AFFECTED")

type CurrencyTotal struct {
	Currency model.Currency  `json:"currency"`
	Count    int64           `json:"count"`
	Total    decimal.Decimal `json:"total"`
}

type DonationStats struct {
	TotalCount          int64
	CompletedCount      int64
	ActiveSubscriptions int64
	TotalsByCurrency    []CurrencyTotal
}

// DonationFilter narrows list queries. Zero values mean "no constraint";
// IsRecurring is a pointer so false is a real filter, not the default.
type DonationFilter struct {
	Status             string
	DonationType       string
	SubscriptionStatus string
	IsRecurring        *bool
}

type DonationRepository interface {
	Create(ctx context.Context, donation *model.Donation) error
	Update(ctx context.Context, donation *model.Donation) error
	UpdateSubscriptionState(ctx context.Context, donation *model.Donation, from model.SubscriptionStatus) error
	GetByUUID(uuid string) (*model.Donation, error)
	ListForOwner(userID int64, email string, filter DonationFilter, limit, offset int) ([]model.Donation, error)
	CountForOwner(userID int64, email string, filter DonationFilter) (int, error)
	ListAll(filter DonationFilter, limit, offset int) ([]model.Donation, error)
	CountAll(filter DonationFilter) (int, error)
	ListDueSubscriptions(asOf time.Time, limit int) ([]model.Donation, error)
	GetStats() (*DonationStats, error)
	GetUserStats(userID int64, email string) (*DonationStats, error)
}

type Donation struct {
	db *gorm.DB
}

func NewDonationRepository(db *gorm.DB) DonationRepository {
	return &Donation{db: db}
}

func (d *Donation) Create(ctx context.Context, donation *model.Donation) error {
	db := GetTx(ctx, d.db)
	err := db.Create(donation).Error
	if err == nil {
		return nil
	}

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
		return ErrDonationDuplicate
	}

	return err
}

func (d *Donation) Update(ctx context.Context, donation *model.Donation) error {
	db := GetTx(ctx, d.db)
	return db.Model(donation).Where("id = ?", donation.ID).Updates(donation).Error
}

// UpdateSubscriptionState persists a subscription transition only when the row
// still holds the state the caller read. Concurrent transitions race on the
// WHERE clause and exactly one wins; losers get ErrNoRowsAffected.
func (d *Donation) UpdateSubscriptionState(ctx context.Context, donation *model.Donation, from model.SubscriptionStatus) error {
	db := GetTx(ctx, d.db)

	result := db.Model(&model.Donation{}).
		Where("id = ? AND subscription_status = ?", donation.ID, from).
		Updates(map[string]interface{}{
			"subscription_status": donation.SubscriptionStatus,
			"recurring_active":    donation.RecurringActive,
			"next_payment_date":   donation.NextPaymentDate,
		})

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrNoRowsAffected
	}

	return nil
}

func (d *Donation) GetByUUID(uuid string) (*model.Donation, error) {
	var donation model.Donation

	err := d.db.Where("uuid = ?", uuid).First(&donation).Error
	if err == nil {
		return &donation, nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrDonationNotFound
	}

	return nil, err
}

// ListForOwner returns the donations a donor can see: rows linked to their
// account plus anonymous rows carrying their email.
func (d *Donation) ListForOwner(userID int64, email string, filter DonationFilter, limit, offset int) ([]model.Donation, error) {
	var donations []model.Donation

	err := applyDonationFilter(d.ownerScope(userID, email), filter).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&donations).Error
	if err != nil {
		return nil, err
	}

	return donations, nil
}

func (d *Donation) CountForOwner(userID int64, email string, filter DonationFilter) (int, error) {
	var count int64

	err := applyDonationFilter(d.ownerScope(userID, email), filter).
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	return int(count), nil
}

func (d *Donation) ListAll(filter DonationFilter, limit, offset int) ([]model.Donation, error) {
	var donations []model.Donation

	err := applyDonationFilter(d.db.Model(&model.Donation{}), filter).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&donations).Error
	if err != nil {
		return nil, err
	}

	return donations, nil
}

func (d *Donation) CountAll(filter DonationFilter) (int, error) {
	var count int64

	err := applyDonationFilter(d.db.Model(&model.Donation{}), filter).
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	return int(count), nil
}

func (d *Donation) ownerScope(userID int64, email string) *gorm.DB {
	return d.db.Model(&model.Donation{}).
		Where("user_id = ? OR (user_id IS NULL AND LOWER(donor_email) = LOWER(?))", userID, email)
}

func applyDonationFilter(scope *gorm.DB, filter DonationFilter) *gorm.DB {
	if filter.Status != "" {
		scope = scope.Where("status = ?", filter.Status)
	}
	if filter.DonationType != "" {
		scope = scope.Where("donation_type = ?", filter.DonationType)
	}
	if filter.SubscriptionStatus != "" {
		scope = scope.Where("subscription_status = ?", filter.SubscriptionStatus)
	}
	if filter.IsRecurring != nil {
		scope = scope.Where("is_recurring = ?", *filter.IsRecurring)
	}
	return scope
}

func (d *Donation) ListDueSubscriptions(asOf time.Time, limit int) ([]model.Donation, error) {
	var donations []model.Donation

	err := d.db.Where("is_recurring = ? AND recurring_active = ? AND subscription_status = ? AND next_payment_date <= ?",
		true, true, model.SubscriptionStatusActive, asOf).
		Order("next_payment_date ASC").
		Limit(limit).
		Find(&donations).Error
	if err != nil {
		return nil, err
	}

	return donations, nil
}

func (d *Donation) GetStats() (*DonationStats, error) {
	return d.collectStats(d.db.Model(&model.Donation{}))
}

func (d *Donation) GetUserStats(userID int64, email string) (*DonationStats, error) {
	scope := d.db.Model(&model.Donation{}).
		Where("user_id = ? OR (user_id IS NULL AND LOWER(donor_email) = LOWER(?))", userID, email)

	return d.collectStats(scope)
}

func (d *Donation) collectStats(scope *gorm.DB) (*DonationStats, error) {
	stats := &DonationStats{}

	if err := scope.Session(&gorm.Session{}).Count(&stats.TotalCount).Error; err != nil {
		return nil, err
	}

	if err := scope.Session(&gorm.Session{}).
		Where("status = ?", model.DonationStatusCompleted).
		Count(&stats.CompletedCount).Error; err != nil {
		return nil, err
	}

	if err := scope.Session(&gorm.Session{}).
		Where("recurring_active = ? AND subscription_status = ?", true, model.SubscriptionStatusActive).
		Count(&stats.ActiveSubscriptions).Error; err != nil {
		return nil, err
	}

	err := scope.Session(&gorm.Session{}).
		Select("currency, COUNT(*) as count, COALESCE(SUM(amount), 0) as total").
		Where("status = ?", model.DonationStatusCompleted).
		Group("currency").
		Scan(&stats.TotalsByCurrency).Error
	if err != nil {
		return nil, err
	}

	return stats, nil
}
