package controllers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dromic-parser/app/config"
	"github.com/dromic-parser/app/requests"
	"github.com/dromic-parser/app/responses"
	"github.com/dromic-parser/app/services"
	"github.com/dromic-parser/internal/hierarchy"
)

// TransformController handles the extraction pipeline endpoints.
type TransformController struct {
	extraction *services.ExtractionService
	reviews    *services.ReviewService
	logger     *zap.Logger
}

// NewTransformController builds the controller.
func NewTransformController(extraction *services.ExtractionService, reviews *services.ReviewService, logger *zap.Logger) *TransformController {
	return &TransformController{
		extraction: extraction,
		reviews:    reviews,
		logger:     logger,
	}
}

// Transform runs one document's rows through reconstruction and
// resolution.
func (tc *TransformController) Transform(c *gin.Context) {
	var req requests.TransformRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, responses.ErrorResponse{
			Error:   "INVALID_REQUEST",
			Message: "Malformed request body: " + err.Error(),
		})
		return
	}

	startTime := time.Now()
	opts := tc.buildOptions(req.Options)

	resolved, stats, err := tc.extraction.Transform(c.Request.Context(), req.Rows, opts)
	if err != nil {
		if isInputShapeError(err) {
			// Nothing useful could be produced from this row sequence.
			c.JSON(http.StatusUnprocessableEntity, responses.ErrorResponse{
				Error:   "INVALID_INPUT",
				Message: err.Error(),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, responses.ErrorResponse{
			Error:   "TRANSFORM_ERROR",
			Message: err.Error(),
		})
		return
	}

	queued := 0
	if req.Options.QueueReviews {
		ctx, cancel := context.WithTimeout(c.Request.Context(), config.RequestTimeout())
		defer cancel()
		queued = tc.reviews.RecordRun(ctx, stats.RunID, resolved)
	}

	c.JSON(http.StatusOK, responses.TransformResponse{
		RunID:            stats.RunID,
		Strategy:         string(opts.Strategy),
		Results:          resolved,
		Stats:            *stats,
		ReviewsQueued:    queued,
		ProcessingTimeMs: time.Since(startTime).Milliseconds(),
	})
}

// ListReviews returns pending review records.
func (tc *TransformController) ListReviews(c *gin.Context) {
	limit, err := strconv.ParseInt(c.DefaultQuery("limit", "100"), 10, 64)
	if err != nil || limit <= 0 {
		limit = 100
	}

	reviews, err := tc.reviews.ListPending(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, responses.ErrorResponse{
			Error:   "REVIEW_STORE_ERROR",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, responses.ReviewListResponse{
		Reviews: reviews,
		Total:   len(reviews),
		Limit:   limit,
	})
}

// ResolveReview marks a review record handled.
func (tc *TransformController) ResolveReview(c *gin.Context) {
	var req requests.ReviewUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, responses.ErrorResponse{
			Error:   "INVALID_REQUEST",
			Message: "Malformed request body: " + err.Error(),
		})
		return
	}

	id := c.Param("id")
	if err := tc.reviews.Resolve(c.Request.Context(), id, req.Status); err != nil {
		c.JSON(http.StatusInternalServerError, responses.ErrorResponse{
			Error:   "REVIEW_STORE_ERROR",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":     id,
		"status": req.Status,
	})
}

// GazetteerStats reports the loaded reference table's shape.
func (tc *TransformController) GazetteerStats(c *gin.Context) {
	stats := tc.extraction.GazetteerStats()
	c.JSON(http.StatusOK, responses.GazetteerStatsResponse{
		Entries:        stats.Entries,
		Regions:        stats.Regions,
		Provinces:      stats.Provinces,
		Municipalities: stats.Municipalities,
		Barangays:      stats.Barangays,
	})
}

// HealthCheck reports service liveness.
func (tc *TransformController) HealthCheck(c *gin.Context) {
	uptime := time.Since(tc.extraction.GetStartTime())

	c.JSON(http.StatusOK, responses.HealthCheckResponse{
		Status:    "healthy",
		Timestamp: time.Now().Format(time.RFC3339),
		Uptime:    uptime.String(),
		Version:   "1.0.0",
		Services: map[string]string{
			"extraction": "healthy",
			"gazetteer":  "healthy",
		},
	})
}

// buildOptions merges per-request options over the server configuration.
func (tc *TransformController) buildOptions(o requests.TransformOptions) services.TransformOptions {
	opts := services.TransformOptions{
		Strategy:       hierarchy.Strategy(config.C.Strategy),
		PayloadColumns: config.C.Columns.Payload,
		SumColumn:      config.C.Columns.Sum,
	}
	if o.Strategy != "" {
		opts.Strategy = hierarchy.Strategy(o.Strategy)
	}
	if len(o.PayloadColumns) > 0 {
		opts.PayloadColumns = o.PayloadColumns
	}
	if o.CountColumn != "" {
		opts.CountColumn = o.CountColumn
	}
	if o.SumColumn != "" {
		opts.SumColumn = o.SumColumn
	}
	return opts
}

func isInputShapeError(err error) bool {
	return errors.Is(err, hierarchy.ErrEmptyInput) ||
		errors.Is(err, hierarchy.ErrNoRegionRows) ||
		errors.Is(err, hierarchy.ErrNoCountingColumn)
}
