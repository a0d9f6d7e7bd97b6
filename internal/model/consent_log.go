package model

import (
	"time"

	"gorm.io/datatypes"
)

type ConsentType string

const (
	ConsentTypeGranted  ConsentType = "granted"
	ConsentTypeRevoked  ConsentType = "revoked"
	ConsentTypeModified ConsentType = "modified"
)

// ConsentLog is append-only evidence of a donor's consent to recurring
// charges. Every column is create-only; rows are never updated or deleted.
type ConsentLog struct {
	ID          int64       `gorm:"primaryKey;autoIncrement;column:id;<-:create"`
	DonationID  int64       `gorm:"column:donation_id;index;<-:create"`
	ConsentType ConsentType `gorm:"column:consent_type;type:varchar(20);index;<-:create"`

	RecurringFrequency string `gorm:"column:recurring_frequency;type:varchar(20);<-:create"`
	ConsentText        string `gorm:"column:consent_text;type:text;<-:create"`

	IPAddress string `gorm:"column:ip_address;type:varchar(45);<-:create"`
	UserAgent string `gorm:"column:user_agent;type:text;<-:create"`
	SessionID string `gorm:"column:session_id;type:varchar(255);<-:create"`

	ConfirmationToken string            `gorm:"column:confirmation_token;type:varchar(255);index;<-:create"`
	Referrer          string            `gorm:"column:referrer;type:varchar(512);<-:create"`
	DeviceInfo        datatypes.JSONMap `gorm:"column:device_info;<-:create"`

	CreatedAt time.Time `gorm:"column:created_at;index;<-:create"`
}

func (ConsentLog) TableName() string {
	return "consent_log"
}
