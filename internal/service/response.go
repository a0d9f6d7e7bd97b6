package service

type CreateDonationResponse struct {
	DonationID         int64  `json:"donation_id"`
	UUID               string `json:"uuid"`
	DonationCode       string `json:"donation_code"`
	Status             string `json:"status"`
	SubscriptionStatus string `json:"subscription_status,omitempty"`
	NextPaymentDate    string `json:"next_payment_date,omitempty"`
	AuditWriteOK       bool   `json:"audit_write_ok"`
}

type GetDonationsResponse struct {
	Donations []DonationView `json:"donations"`
	Total     int64          `json:"total"`
}

type DonationView struct {
	UUID               string `json:"uuid"`
	DonationCode       string `json:"donation_code"`
	Amount             string `json:"amount"`
	Currency           string `json:"currency"`
	DonationType       string `json:"donation_type"`
	PaymentMethod      string `json:"payment_method"`
	Status             string `json:"status"`
	DonorFullName      string `json:"donor_full_name,omitempty"`
	DonorComment       string `json:"donor_comment,omitempty"`
	IsRecurring        bool   `json:"is_recurring"`
	SubscriptionStatus string `json:"subscription_status,omitempty"`
	NextPaymentDate    string `json:"next_payment_date,omitempty"`
	CreatedAt          string `json:"created_at"`
	CanCancel          bool   `json:"can_cancel"`
	CanPause           bool   `json:"can_pause"`
	CanResume          bool   `json:"can_resume"`
	CanDownloadReceipt bool   `json:"can_download_receipt"`
}

// DonationDetailView is the single-donation read: the list shape plus the
// payment attempts recorded against it.
type DonationDetailView struct {
	DonationView
	Transactions []TransactionView `json:"transactions"`
}

type TransactionView struct {
	TransactionID         string `json:"transaction_id"`
	ExternalTransactionID string `json:"external_transaction_id,omitempty"`
	TransactionType       string `json:"transaction_type"`
	Amount                string `json:"amount"`
	Currency              string `json:"currency"`
	Status                string `json:"status"`
	Gateway               string `json:"gateway,omitempty"`
	ErrorCode             string `json:"error_code,omitempty"`
	ErrorMessage          string `json:"error_message,omitempty"`
	CreatedAt             string `json:"created_at"`
	ProcessedAt           string `json:"processed_at,omitempty"`
}

type SubscriptionActionResponse struct {
	UUID               string `json:"uuid"`
	SubscriptionStatus string `json:"subscription_status"`
	NextPaymentDate    string `json:"next_payment_date,omitempty"`
	AuditWriteOK       bool   `json:"audit_write_ok"`
}

type ConsentEntryView struct {
	ConsentType        string                 `json:"consent_type"`
	RecurringFrequency string                 `json:"recurring_frequency"`
	ConsentText        string                 `json:"consent_text"`
	ConfirmationToken  string                 `json:"confirmation_token,omitempty"`
	IPAddress          string                 `json:"ip_address"`
	SessionID          string                 `json:"session_id,omitempty"`
	Referrer           string                 `json:"referrer,omitempty"`
	DeviceInfo         map[string]interface{} `json:"device_info,omitempty"`
	CreatedAt          string                 `json:"created_at"`
}

type GetConsentLogResponse struct {
	DonationUUID string             `json:"donation_uuid"`
	Entries      []ConsentEntryView `json:"entries"`
}

type VerifyConsentResponse struct {
	Valid       bool   `json:"valid"`
	ConsentType string `json:"consent_type,omitempty"`
	CreatedAt   string `json:"created_at,omitempty"`
}

type CurrencyTotalView struct {
	Currency string `json:"currency"`
	Count    int64  `json:"count"`
	Total    string `json:"total"`
}

type StatsResponse struct {
	TotalDonations      int64               `json:"total_donations"`
	CompletedDonations  int64               `json:"completed_donations"`
	ActiveSubscriptions int64               `json:"active_subscriptions"`
	ByCurrency          []CurrencyTotalView `json:"by_currency"`
}

type CallbackResponse struct {
	TransactionID string `json:"transaction_id"`
	Status        string `json:"status"`
}
