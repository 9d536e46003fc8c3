package models

// ScanRequest triggers an on-demand scan cycle. Empty lists fall back to the
// configured defaults.
type ScanRequest struct {
	Instruments []string `json:"instruments" validate:"omitempty,dive,min=1"`
	Strategies  []string `json:"strategies" validate:"omitempty,dive,min=1"`
}

// BatchesRequest queries recent batch summaries.
type BatchesRequest struct {
	Limit int `query:"limit" default:"10" validate:"gte=1,lte=100"`
}
