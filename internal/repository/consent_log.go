package repository

import (
	"context"

	"github.com/SANJIKS/sos-backend-sub001/internal/model"
	"gorm.io/gorm"
)

// ConsentLogRepository is append-only on purpose: consent evidence is written
// once and read back newest first. There is no update and no delete.
type ConsentLogRepository interface {
	Create(ctx context.Context, entry *model.ConsentLog) error
	ListByDonationID(donationID int64) ([]model.ConsentLog, error)
}

type ConsentLog struct {
	db *gorm.DB
}

func NewConsentLogRepository(db *gorm.DB) ConsentLogRepository {
	return &ConsentLog{db: db}
}

func (c *ConsentLog) Create(ctx context.Context, entry *model.ConsentLog) error {
	db := GetTx(ctx, c.db)
	return db.Create(entry).Error
}

func (c *ConsentLog) ListByDonationID(donationID int64) ([]model.ConsentLog, error) {
	var entries []model.ConsentLog

	err := c.db.Where("donation_id = ?", donationID).
		Order("created_at DESC, id DESC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}

	return entries, nil
}
