package models

import "time"

// StoredBatch is a persisted batch summary row as read back from the store.
type StoredBatch struct {
	BatchID          string    `json:"batch_id"`
	CreatedAt        time.Time `json:"created_at"`
	TotalInstruments int       `json:"total_instruments"`
	TotalStrategies  int       `json:"total_strategies"`
	TotalOutcomes    int       `json:"total_outcomes"`
	ExpectedOutcomes int       `json:"expected_outcomes"`
	FailedOutcomes   int       `json:"failed_outcomes"`
}
