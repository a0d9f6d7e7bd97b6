package service

import "time"

type CreateDonationCommand struct {
	Amount          string
	Currency        string
	DonationType    string
	PaymentMethod   string
	DonorEmail      string
	DonorPhone      string
	DonorFullName   string
	DonorComment    string
	ConsentAccepted bool
	ConsentText     string

	UserID *int64
	Meta   RequestMeta
}

type GetDonationsQuery struct {
	Limit              int
	Offset             int
	Status             string
	DonationType       string
	SubscriptionStatus string
	IsRecurring        *bool
}

// RequestMeta carries the client fingerprint recorded alongside consent
// evidence: address, agent, session, referrer and the headers device info is
// extracted from.
type RequestMeta struct {
	IPAddress string
	UserAgent string
	SessionID string
	Referrer  string
	Headers   map[string]string
}

type SubscriptionActionCommand struct {
	DonationUUID string
	ConsentText  string
	Meta         RequestMeta
}

// ChargeSubscriptionCommand is the queue message the recurring publisher emits
// for every due subscription. PeriodStart pins the billing period so retries
// of the same message stay idempotent at the gateway.
type ChargeSubscriptionCommand struct {
	DonationID   int64     `json:"donation_id"`
	DonationUUID string    `json:"donation_uuid"`
	DonationCode string    `json:"donation_code"`
	Amount       string    `json:"amount"`
	Currency     string    `json:"currency"`
	PeriodStart  time.Time `json:"period_start"`
}

type GatewayCallbackCommand struct {
	DonationUUID          string
	TransactionID         string
	ExternalTransactionID string
	Status                string
	Amount                string
	Currency              string
	PaymentMethod         string
	Gateway               string
	ErrorCode             string
	ErrorMessage          string
	RawResponse           map[string]interface{}
}

type VerifyConsentCommand struct {
	DonationUUID string
	Token        string
}
