package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dromic-parser/app/models"
	"github.com/dromic-parser/helpers/utils"
	"github.com/dromic-parser/internal/gazetteer"
	"github.com/dromic-parser/internal/hierarchy"
	"github.com/dromic-parser/internal/resolver"
	"go.uber.org/zap"
)

// ExtractionService runs one document's rows through the full pipeline:
// hierarchy reconstruction, then code resolution. It holds only the shared
// read-only gazetteer and stateless stages, so a single instance serves
// concurrent runs.
type ExtractionService struct {
	gaz           *gazetteer.Index
	reconstructor *hierarchy.Reconstructor
	resolver      *resolver.Resolver
	logger        *zap.Logger
	startTime     time.Time
}

// TransformOptions selects the reconstruction strategy and column wiring
// for one run.
type TransformOptions struct {
	Strategy hierarchy.Strategy

	// PayloadColumns is the column order for counter-strategy counting
	// column detection; CountColumn overrides detection.
	PayloadColumns []string
	CountColumn    string

	// SumColumn enables sentence-case province recovery in the
	// forward-fill strategy.
	SumColumn string
}

// RunStats summarizes one transform run for callers and logs.
type RunStats struct {
	RunID   string `json:"run_id"`
	RowsIn  int    `json:"rows_in"`
	RowsOut int    `json:"rows_out"`

	ExactMatches     int `json:"exact_matches"`
	FuzzyMatches     int `json:"fuzzy_matches"`
	Unmatched        int `json:"unmatched"`
	RegionBackfilled int `json:"region_backfilled"`
	DanglingGroups   int `json:"dangling_rows"`
}

// NewExtractionService wires the pipeline stages over the loaded gazetteer.
func NewExtractionService(gaz *gazetteer.Index, opts resolver.Options, logger *zap.Logger) *ExtractionService {
	return &ExtractionService{
		gaz:           gaz,
		reconstructor: hierarchy.New(gaz, logger),
		resolver:      resolver.New(gaz, logger, opts),
		logger:        logger,
		startTime:     time.Now(),
	}
}

// Transform reconstructs and resolves one document's rows. Row order is
// preserved end to end. The context is consulted between stages only; the
// stages themselves never block.
func (es *ExtractionService) Transform(ctx context.Context, rows []models.LocationRow, opts TransformOptions) ([]models.ResolvedRow, *RunStats, error) {
	runID := utils.GenerateUUID()

	labeled, err := es.reconstruct(rows, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("hierarchy reconstruction: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	resolved := es.resolver.Resolve(labeled)

	stats := &RunStats{
		RunID:   runID,
		RowsIn:  len(rows),
		RowsOut: len(resolved),
	}
	for _, row := range resolved {
		switch {
		case row.Label.HasFlag(models.FlagExactMatch):
			stats.ExactMatches++
		case row.Label.HasFlag(models.FlagFuzzyMatch):
			stats.FuzzyMatches++
		case row.Label.HasFlag(models.FlagUnmatchedLocation):
			stats.Unmatched++
		}
		if row.Label.HasFlag(models.FlagRegionBackfilled) {
			stats.RegionBackfilled++
		}
		if row.Label.HasFlag(models.FlagDanglingGroup) {
			stats.DanglingGroups++
		}
	}

	es.logger.Info("Transform run complete",
		zap.String("run_id", runID),
		zap.Int("rows_in", stats.RowsIn),
		zap.Int("rows_out", stats.RowsOut),
		zap.Int("exact", stats.ExactMatches),
		zap.Int("fuzzy", stats.FuzzyMatches),
		zap.Int("unmatched", stats.Unmatched))

	return resolved, stats, nil
}

func (es *ExtractionService) reconstruct(rows []models.LocationRow, opts TransformOptions) ([]models.HierarchyRow, error) {
	switch opts.Strategy {
	case hierarchy.StrategyCounter:
		return es.reconstructor.Counter(rows, hierarchy.CounterOptions{
			PayloadColumns: opts.PayloadColumns,
			CountColumn:    opts.CountColumn,
		})
	case hierarchy.StrategyCumSum, "":
		return es.reconstructor.CumSum(rows, hierarchy.CumSumOptions{
			SumColumn: opts.SumColumn,
		})
	default:
		return nil, fmt.Errorf("unknown strategy %q", opts.Strategy)
	}
}

// GazetteerStats reports the loaded reference table's shape.
type GazetteerStats struct {
	Entries        int
	Regions        int
	Provinces      int
	Municipalities int
	Barangays      int
}

func (es *ExtractionService) GazetteerStats() GazetteerStats {
	return GazetteerStats{
		Entries:        es.gaz.Size(),
		Regions:        es.gaz.CountAtLevel(models.LevelRegion),
		Provinces:      es.gaz.CountAtLevel(models.LevelProvince),
		Municipalities: es.gaz.CountAtLevel(models.LevelMunicipality),
		Barangays:      es.gaz.CountAtLevel(models.LevelBarangay),
	}
}

// GetStartTime reports when the service was constructed, for health checks.
func (es *ExtractionService) GetStartTime() time.Time {
	return es.startTime
}
