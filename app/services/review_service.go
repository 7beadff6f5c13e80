package services

import (
	"context"
	"time"

	"github.com/dromic-parser/app/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const reviewCollection = "resolution_reviews"

// ReviewService persists rows that need a human look: unmatched locations
// and dangling municipality groups. A nil database degrades to log-only,
// so the pipeline runs unchanged without Mongo.
type ReviewService struct {
	col    *mongo.Collection
	logger *zap.Logger
}

// NewReviewService builds the review sink. db may be nil.
func NewReviewService(db *mongo.Database, logger *zap.Logger) *ReviewService {
	rs := &ReviewService{logger: logger}
	if db != nil {
		rs.col = db.Collection(reviewCollection)
	}
	return rs
}

// RecordRun queues the reviewable rows of one run. Persistence failures
// are logged, never propagated: review records are an audit aid, not part
// of the transform contract.
func (rs *ReviewService) RecordRun(ctx context.Context, runID string, rows []models.ResolvedRow) int {
	var docs []interface{}
	now := time.Now()
	for i, row := range rows {
		if !row.Label.HasFlag(models.FlagUnmatchedLocation) && !row.Label.HasFlag(models.FlagDanglingGroup) {
			continue
		}
		docs = append(docs, models.ResolutionReview{
			RunID:        runID,
			RowIndex:     i,
			RawText:      row.Row.RawText,
			Region:       row.Label.Region,
			Province:     row.Label.Province,
			Municipality: row.Label.Municipality,
			Barangay:     row.Label.Barangay,
			Level:        row.Label.Level,
			Flags:        row.Label.Flags,
			Status:       models.ReviewStatusPending,
			CreatedAt:    now,
		})
	}
	if len(docs) == 0 {
		return 0
	}

	if rs.col == nil {
		rs.logger.Info("Review sink disabled; reviewable rows not persisted",
			zap.String("run_id", runID),
			zap.Int("count", len(docs)))
		return len(docs)
	}

	if _, err := rs.col.InsertMany(ctx, docs); err != nil {
		rs.logger.Error("Failed to persist review records",
			zap.String("run_id", runID),
			zap.Error(err))
		return len(docs)
	}
	rs.logger.Info("Queued rows for review",
		zap.String("run_id", runID),
		zap.Int("count", len(docs)))
	return len(docs)
}

// ListPending returns pending review records, newest first.
func (rs *ReviewService) ListPending(ctx context.Context, limit int64) ([]models.ResolutionReview, error) {
	if rs.col == nil {
		return nil, nil
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)
	cur, err := rs.col.Find(ctx, bson.M{"status": models.ReviewStatusPending}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var reviews []models.ResolutionReview
	if err := cur.All(ctx, &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

// Resolve marks one review record handled.
func (rs *ReviewService) Resolve(ctx context.Context, id string, status string) error {
	if rs.col == nil {
		return nil
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	_, err = rs.col.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"status": status}})
	return err
}
