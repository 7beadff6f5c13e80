package requests

import "github.com/dromic-parser/app/models"

// TransformRequest carries one extracted document's rows, in original page
// order. Order is significant: the reconstruction depends on it.
type TransformRequest struct {
	Rows    []models.LocationRow `json:"rows" binding:"required,min=1,max=50000"`
	Options TransformOptions     `json:"options,omitempty"`
}

// TransformOptions selects strategy and column wiring per request. Unset
// fields fall back to the server configuration.
type TransformOptions struct {
	// Strategy is "cumsum" (default) or "counter".
	Strategy string `json:"strategy,omitempty"`

	// PayloadColumns is the input column order, used by the counter
	// strategy to auto-detect its counting column.
	PayloadColumns []string `json:"payload_columns,omitempty"`

	// CountColumn overrides counting-column detection.
	CountColumn string `json:"count_column,omitempty"`

	// SumColumn enables sentence-case province recovery in the cumsum
	// strategy.
	SumColumn string `json:"sum_column,omitempty"`

	// QueueReviews persists unmatched and dangling rows to the review
	// store when one is configured.
	QueueReviews bool `json:"queue_reviews,omitempty"`
}

// ReviewUpdateRequest closes out one review record.
type ReviewUpdateRequest struct {
	Status string `json:"status" binding:"required,oneof=pending resolved ignored"`
}
