package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type TransactionStatus string

const (
	TransactionStatusPending  TransactionStatus = "pending"
	TransactionStatusSuccess  TransactionStatus = "success"
	TransactionStatusFailed   TransactionStatus = "failed"
	TransactionStatusRefunded TransactionStatus = "refunded"
)

type TransactionType string

const (
	TransactionTypePayment    TransactionType = "payment"
	TransactionTypeRefund     TransactionType = "refund"
	TransactionTypeChargeback TransactionType = "chargeback"
)

// DonationTransaction records one payment attempt against a donation.
// TransactionID is the gateway-side identifier and is unique so replayed
// callbacks collide instead of double-recording. ExternalTransactionID keeps
// whatever secondary reference the gateway reports alongside it.
type DonationTransaction struct {
	ID                    int64             `gorm:"primaryKey;autoIncrement;column:id;<-:create"`
	DonationID            int64             `gorm:"column:donation_id;index;<-:create"`
	TransactionID         string            `gorm:"column:transaction_id;type:varchar(64);uniqueIndex;<-:create"`
	ExternalTransactionID string            `gorm:"column:external_transaction_id;type:varchar(64)"`
	TransactionType       TransactionType   `gorm:"column:transaction_type;type:varchar(20);<-:create"`
	Amount                decimal.Decimal   `gorm:"column:amount;type:decimal(12,2)"`
	Currency              Currency          `gorm:"column:currency;type:varchar(3)"`
	Status                TransactionStatus `gorm:"column:status;type:varchar(20);index"`
	PaymentMethod         string            `gorm:"column:payment_method;type:varchar(20)"`
	Gateway               string            `gorm:"column:payment_gateway;type:varchar(32)"`

	GatewayResponse datatypes.JSONMap `gorm:"column:gateway_response"`
	ErrorCode       string            `gorm:"column:error_code;type:varchar(64)"`
	ErrorMessage    string            `gorm:"column:error_message;type:text"`

	CreatedAt   time.Time  `gorm:"column:created_at;<-:create"`
	ProcessedAt *time.Time `gorm:"column:processed_at"`
}

func (DonationTransaction) TableName() string {
	return "donation_transactions"
}

func (t *DonationTransaction) IsProcessed() bool {
	return t.ProcessedAt != nil
}
