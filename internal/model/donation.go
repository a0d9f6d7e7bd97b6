package model

import (
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type DonationType string

const (
	DonationTypeOneTime   DonationType = "one_time"
	DonationTypeMonthly   DonationType = "monthly"
	DonationTypeQuarterly DonationType = "quarterly"
	DonationTypeYearly    DonationType = "yearly"
)

// IsRecurring reports whether the type carries a payment cadence.
func (t DonationType) IsRecurring() bool {
	return t == DonationTypeMonthly || t == DonationTypeQuarterly || t == DonationTypeYearly
}

type DonationStatus string

const (
	DonationStatusPending    DonationStatus = "pending"
	DonationStatusProcessing DonationStatus = "processing"
	DonationStatusCompleted  DonationStatus = "completed"
	DonationStatusFailed     DonationStatus = "failed"
	DonationStatusCancelled  DonationStatus = "cancelled"
	DonationStatusRefunded   DonationStatus = "refunded"
)

type SubscriptionStatus string

const (
	SubscriptionStatusPending   SubscriptionStatus = "pending"
	SubscriptionStatusActive    SubscriptionStatus = "active"
	SubscriptionStatusPaused    SubscriptionStatus = "paused"
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"
)

type Currency string

const (
	CurrencyKGS Currency = "KGS"
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencyRUB Currency = "RUB"
)

const (
	PaymentMethodBankCard      = "bank_card"
	PaymentMethodBankTransfer  = "bank_transfer"
	PaymentMethodMobilePayment = "mobile_payment"
)

type Donation struct {
	ID           int64     `gorm:"primaryKey;autoIncrement;column:id;<-:create"`
	UUID         uuid.UUID `gorm:"column:uuid;type:char(36);uniqueIndex;<-:create"`
	DonationCode string    `gorm:"column:donation_code;type:varchar(12);uniqueIndex;<-:create"`

	UserID *int64 `gorm:"column:user_id;index"`

	DonorEmail    string `gorm:"column:donor_email;type:varchar(255);index"`
	DonorPhone    string `gorm:"column:donor_phone;type:varchar(20)"`
	DonorFullName string `gorm:"column:donor_full_name;type:varchar(255)"`

	Amount        decimal.Decimal `gorm:"column:amount;type:decimal(12,2)"`
	Currency      Currency        `gorm:"column:currency;type:varchar(3)"`
	DonationType  DonationType    `gorm:"column:donation_type;type:varchar(20)"`
	PaymentMethod string          `gorm:"column:payment_method;type:varchar(20)"`
	DonorComment  string          `gorm:"column:donor_comment;type:text"`

	Status DonationStatus `gorm:"column:status;type:varchar(20);index"`

	IsRecurring        bool                `gorm:"column:is_recurring;index"`
	RecurringActive    bool                `gorm:"column:recurring_active"`
	SubscriptionStatus *SubscriptionStatus `gorm:"column:subscription_status;type:varchar(20)"`
	FirstPaymentDate   *time.Time          `gorm:"column:first_payment_date"`
	NextPaymentDate    *time.Time          `gorm:"column:next_payment_date;index"`

	IPAddress string `gorm:"column:ip_address;type:varchar(45)"`
	UserAgent string `gorm:"column:user_agent;type:text"`

	CreatedAt          time.Time  `gorm:"column:created_at;index;<-:create"`
	UpdatedAt          time.Time  `gorm:"column:updated_at"`
	PaymentCompletedAt *time.Time `gorm:"column:payment_completed_at"`

	Transactions []DonationTransaction `gorm:"foreignKey:DonationID"`
}

func (Donation) TableName() string {
	return "donations"
}

const donationCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// NewDonationCode returns a random 12-character code used as the donor-facing
// reference on receipts and support requests.
func NewDonationCode() string {
	b := make([]byte, 12)
	for i := range b {
		b[i] = donationCodeAlphabet[rand.Intn(len(donationCodeAlphabet))]
	}
	return string(b)
}

func (d *Donation) SubscriptionStatusIs(s SubscriptionStatus) bool {
	return d.SubscriptionStatus != nil && *d.SubscriptionStatus == s
}

func (d *Donation) IsSubscriptionActive() bool {
	return d.IsRecurring && d.RecurringActive && d.SubscriptionStatusIs(SubscriptionStatusActive)
}

func (d *Donation) CanCancelSubscription() bool {
	if !d.IsRecurring || d.SubscriptionStatus == nil {
		return false
	}
	return !d.SubscriptionStatusIs(SubscriptionStatusCancelled)
}

func (d *Donation) CanPauseSubscription() bool {
	return d.IsRecurring && d.SubscriptionStatusIs(SubscriptionStatusActive)
}

func (d *Donation) CanResumeSubscription() bool {
	return d.IsRecurring && d.SubscriptionStatusIs(SubscriptionStatusPaused)
}

func (d *Donation) CanDownloadReceipt() bool {
	return d.Status == DonationStatusCompleted ||
		d.Status == DonationStatusProcessing ||
		d.Status == DonationStatusRefunded
}
