package paygate

type ChargeRequest struct {
	DonationCode   string `json:"donation_code"`
	Amount         string `json:"amount"`
	Currency       string `json:"currency"`
	PaymentMethod  string `json:"payment_method"`
	IdempotencyKey string `json:"idempotency_key"`
}
