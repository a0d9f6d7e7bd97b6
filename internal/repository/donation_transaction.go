package repository

import (
	"context"
	"errors"
	"time"

	"github.com/SANJIKS/sos-backend-sub001/internal/model"
	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

var ErrTransactionNotFound = errors.New("TRANSACTION_NOT_FOUND")
var ErrTransactionExisted = errors.New("TRANSACTION_ALREADY_EXISTS")

type TransactionRepository interface {
	Create(ctx context.Context, tx *model.DonationTransaction) error
	MarkProcessed(ctx context.Context, tx *model.DonationTransaction, processedAt time.Time) error
	GetByTransactionID(transactionID string) (*model.DonationTransaction, error)
	ListByDonationID(donationID int64) ([]model.DonationTransaction, error)
}

type Transaction struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &Transaction{db: db}
}

func (t *Transaction) Create(ctx context.Context, tx *model.DonationTransaction) error {
	db := GetTx(ctx, t.db)
	err := db.Create(tx).Error
	if err == nil {
		return nil
	}

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
		return ErrTransactionExisted
	}

	return err
}

// MarkProcessed seals the transaction with its final status. The WHERE clause
// skips rows already sealed, so a replayed callback cannot rewrite history.
func (t *Transaction) MarkProcessed(ctx context.Context, tx *model.DonationTransaction, processedAt time.Time) error {
	db := GetTx(ctx, t.db)

	result := db.Model(&model.DonationTransaction{}).
		Where("id = ? AND processed_at IS NULL", tx.ID).
		Updates(map[string]interface{}{
			"status":           tx.Status,
			"gateway_response": tx.GatewayResponse,
			"error_message":    tx.ErrorMessage,
			"processed_at":     processedAt,
		})

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrNoRowsAffected
	}

	return nil
}

func (t *Transaction) GetByTransactionID(transactionID string) (*model.DonationTransaction, error) {
	var tx model.DonationTransaction

	err := t.db.Where("transaction_id = ?", transactionID).First(&tx).Error
	if err == nil {
		return &tx, nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTransactionNotFound
	}

	return nil, err
}

func (t *Transaction) ListByDonationID(donationID int64) ([]model.DonationTransaction, error) {
	var txs []model.DonationTransaction

	err := t.db.Where("donation_id = ?", donationID).
		Order("created_at DESC").
		Find(&txs).Error
	if err != nil {
		return nil, err
	}

	return txs, nil
}
