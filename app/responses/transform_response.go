package responses

import (
	"github.com/dromic-parser/app/models"
	"github.com/dromic-parser/app/services"
)

// TransformResponse returns the code-augmented rows of one run.
type TransformResponse struct {
	RunID            string               `json:"run_id"`
	Strategy         string               `json:"strategy"`
	Results          []models.ResolvedRow `json:"results"`
	Stats            services.RunStats    `json:"stats"`
	ReviewsQueued    int                  `json:"reviews_queued,omitempty"`
	ProcessingTimeMs int64                `json:"processing_time_ms"`
}

// ReviewListResponse lists pending review records.
type ReviewListResponse struct {
	Reviews []models.ResolutionReview `json:"reviews"`
	Total   int                       `json:"total"`
	Limit   int64                     `json:"limit"`
}

// ErrorResponse is the uniform error envelope.
type ErrorResponse struct {
	Error   string      `json:"error"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// HealthCheckResponse reports service liveness.
type HealthCheckResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Uptime    string            `json:"uptime"`
	Version   string            `json:"version"`
	Services  map[string]string `json:"services"`
}

// GazetteerStatsResponse reports the loaded reference table's shape.
type GazetteerStatsResponse struct {
	Entries        int `json:"entries"`
	Regions        int `json:"regions"`
	Provinces      int `json:"provinces"`
	Municipalities int `json:"municipalities"`
	Barangays      int `json:"barangays"`
}
