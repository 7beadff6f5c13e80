package hierarchy

import (
	"errors"
	"strings"

	"github.com/dromic-parser/internal/gazetteer"
	"github.com/dromic-parser/internal/normalizer"
	"go.uber.org/zap"
)

// Input-shape errors. These are the only fatal conditions: nothing useful
// can be produced from the sequence. All other anomalies degrade to
// partial output with quality flags.
var (
	ErrEmptyInput       = errors.New("empty input sequence")
	ErrNoRegionRows     = errors.New("no region identifiers found in sequence")
	ErrNoCountingColumn = errors.New("no numeric column with all values present and non-zero")
)

// Strategy selects how hierarchy levels are inferred from the row stream.
type Strategy string

const (
	// StrategyCounter infers municipality/barangay groups from a running
	// sum reconciled against each municipality's declared total. Used when
	// only marker presence/absence is available.
	StrategyCounter Strategy = "counter"

	// StrategyCumSum relies on marker-presence headers plus cumulative-sum
	// recovery of mixed-case province headers, with forward-fill.
	StrategyCumSum Strategy = "cumsum"
)

// Reconstructor assigns a hierarchy level to every retained row of an
// extracted sequence and propagates ancestor names downward. It holds only
// read-only reference state and a logger, so one instance serves any
// number of concurrent runs; the per-run state lives in the strategy
// functions' accumulators.
type Reconstructor struct {
	gaz    *gazetteer.Index
	logger *zap.Logger
}

// New builds a Reconstructor over the loaded gazetteer.
func New(gaz *gazetteer.Index, logger *zap.Logger) *Reconstructor {
	return &Reconstructor{gaz: gaz, logger: logger}
}

// Row classification predicates, evaluated in documented precedence order:
// grand total > HUC > region > province-case > detail. A row matching an
// earlier rule never falls through to a later one.

// isGrandTotal matches the report-wide aggregate row, which is removed
// before reconstruction and excluded from the upper-case province rule.
func isGrandTotal(raw string) bool {
	return strings.Contains(strings.ToUpper(raw), "GRAND TOTAL")
}

// matchHUC reports whether the row names a Highly Urbanized City belonging
// to the current region. HUC rows occupy the Province slot and set
// Municipality to the same name; they have no province-level descendants.
func (r *Reconstructor) matchHUC(raw, regionCode string) bool {
	if regionCode == "" {
		return false
	}
	owner, ok := r.gaz.HUCRegion(strings.ToUpper(strings.TrimSpace(raw)))
	return ok && owner == regionCode
}

// matchRegion resolves the row text against the known region header
// identifiers ("REGION IV-A", "CALABARZON", "NCR", ...).
func (r *Reconstructor) matchRegion(raw string) (code string, ok bool) {
	entry, ok := r.gaz.RegionByIdentifier(strings.ToUpper(strings.TrimSpace(raw)))
	if !ok {
		return "", false
	}
	return entry.Code, true
}

// isProvinceCase is the casing heuristic: a fully upper-case row that is
// not the grand total and did not match a higher-precedence rule is a
// province header in this source layout.
func isProvinceCase(raw string) bool {
	return normalizer.IsUpperCase(strings.TrimSpace(raw)) && !isGrandTotal(raw)
}
