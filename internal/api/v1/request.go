package v1

type CreateDonationRequest struct {
	Amount          string `json:"amount"`
	Currency        string `json:"currency"`
	DonationType    string `json:"donation_type"`
	PaymentMethod   string `json:"payment_method"`
	DonorEmail      string `json:"donor_email"`
	DonorPhone      string `json:"donor_phone"`
	DonorFullName   string `json:"donor_full_name"`
	DonorComment    string `json:"donor_comment"`
	ConsentAccepted bool   `json:"consent_accepted"`
	ConsentText     string `json:"consent_text"`
}

type SubscriptionActionRequest struct {
	ConsentText string `json:"consent_text"`
}

type VerifyConsentRequest struct {
	Token string `json:"token" validate:"required,len=64,hexadecimal"`
}

type PaymentCallbackRequest struct {
	DonationUUID          string                 `json:"donation_uuid" validate:"required,uuid4"`
	TransactionID         string                 `json:"transaction_id" validate:"required"`
	ExternalTransactionID string                 `json:"external_transaction_id"`
	Status                string                 `json:"status" validate:"required"`
	Amount                string                 `json:"amount" validate:"required,amount"`
	Currency              string                 `json:"currency" validate:"required,currency"`
	PaymentMethod         string                 `json:"payment_method"`
	Gateway               string                 `json:"gateway"`
	ErrorCode             string                 `json:"error_code"`
	ErrorMessage          string                 `json:"error_message"`
	RawResponse           map[string]interface{} `json:"raw_response"`
}
