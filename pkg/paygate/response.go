package paygate

import "time"

type Response struct {
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
	TrackID string `json:"x_track_id,omitempty"`
	Result  Result `json:"result,omitempty"`
}

type Result struct {
	TransactionID   string    `json:"transaction_id"`
	Status          string    `json:"status"`
	TransactionTime time.Time `json:"transaction_time"`
}
