package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Review statuses.
const (
	ReviewStatusPending  = "pending"
	ReviewStatusResolved = "resolved"
	ReviewStatusIgnored  = "ignored"
)

// ResolutionReview is a row queued for manual review: a dangling
// municipality group member or a location that could not be matched to a
// P-code. Persisted so reviewers can audit a run after the fact.
type ResolutionReview struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	RunID    string             `bson:"run_id" json:"run_id"`
	RowIndex int                `bson:"row_index" json:"row_index"`

	RawText      string `bson:"raw_text" json:"raw_text"`
	Region       string `bson:"region,omitempty" json:"region,omitempty"`
	Province     string `bson:"province,omitempty" json:"province,omitempty"`
	Municipality string `bson:"municipality,omitempty" json:"municipality,omitempty"`
	Barangay     string `bson:"barangay,omitempty" json:"barangay,omitempty"`
	Level        Level  `bson:"level" json:"level"`

	Flags  []string `bson:"flags" json:"flags"`
	Status string   `bson:"status" json:"status"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
