package models

// GazetteerEntry is one administrative unit from the static reference
// table. Entries are loaded once at process start and never mutated; the
// loaded set is safely shared read-only across concurrent extraction runs.
type GazetteerEntry struct {
	// Code is the canonical hierarchical P-code, unique per entry at its
	// level (e.g. "PH0402100000" for Tagaytay City).
	Code string `json:"code"`

	// Name is the canonical English display name.
	Name string `json:"name"`

	// NormalizedKey is the precomputed normalized form used for matching.
	// Unique within (Level, ParentCode); on reference-data collisions the
	// first-loaded entry wins.
	NormalizedKey string `json:"normalized_key"`

	// ParentCode is the code of the immediately enclosing unit; regions
	// carry the country code.
	ParentCode string `json:"parent_code"`

	Level Level `json:"level"`

	// IsHUC marks province-level entries that are Highly Urbanized Cities.
	IsHUC bool `json:"is_huc,omitempty"`

	// Aliases are alternate header spellings seen in reports
	// (e.g. "CALABARZON" for Region IV-A).
	Aliases []string `json:"aliases,omitempty"`
}

// MatchStrategy records how a level was resolved to a code.
type MatchStrategy string

const (
	MatchStrategyExact    MatchStrategy = "exact"
	MatchStrategyFuzzy    MatchStrategy = "fuzzy"
	MatchStrategyBackfill MatchStrategy = "backfill"
	MatchStrategyNone     MatchStrategy = "none"
)

// LevelMatch is the resolution outcome for one hierarchy level. An empty
// Code means the level could not be matched exactly or fuzzily above the
// acceptance threshold; it is an explicit output state, never an error.
type LevelMatch struct {
	Code string `json:"code,omitempty"`
	Name string `json:"name,omitempty"`

	// Score is the token-set ratio (0-100) that accepted the match; 100
	// for exact matches.
	Score int `json:"score,omitempty"`

	// Confidence is the Jaro-Winkler similarity of the normalized keys,
	// recorded for diagnostics only.
	Confidence float64 `json:"confidence,omitempty"`

	Strategy MatchStrategy `json:"strategy"`
}

// Matched reports whether a code was assigned.
func (m LevelMatch) Matched() bool { return m.Code != "" }

// Resolution holds the per-level match results for one row.
type Resolution struct {
	Region       LevelMatch `json:"region"`
	Province     LevelMatch `json:"province"`
	Municipality LevelMatch `json:"municipality"`
	Barangay     LevelMatch `json:"barangay"`
}

// ResolvedRow is the final output unit: the original row, its hierarchy
// label, and the per-level codes. Payload values pass through unchanged.
type ResolvedRow struct {
	Row   LocationRow    `json:"row"`
	Label HierarchyLabel `json:"label"`
	Codes Resolution     `json:"codes"`
}
