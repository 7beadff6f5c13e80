package models

import (
	"strconv"
	"strings"
)

// Level identifies the administrative granularity of a reconstructed row.
type Level string

const (
	LevelRegion       Level = "Region"
	LevelProvince     Level = "Province"
	LevelMunicipality Level = "Municipality"
	LevelBarangay     Level = "Barangay"
)

// ADM0 constants; every P-coded row is implicitly under the country level.
const (
	CountryCode = "PH"
	CountryName = "Philippines"
)

// LocationRow is one extracted table row, exactly as the PDF-extraction
// collaborator produced it. Order of rows is significant: the hierarchy
// reconstruction depends on the original page sequence and rows must never
// be reordered before reconstruction.
type LocationRow struct {
	// RawText is the unprocessed location cell content. May be empty or a
	// page-break artifact (the literal string "None").
	RawText string `json:"raw_text"`

	// Marker is the sub-total value present only on rows carrying an
	// aggregate. Nil means the row is a detail row under the most recently
	// seen marker row.
	Marker *float64 `json:"marker,omitempty"`

	// Payload holds all other extracted cells keyed by column name, passed
	// through untouched. Numeric cells keep their raw string form; use
	// PayloadNumber to read them.
	Payload map[string]string `json:"payload,omitempty"`
}

// PayloadNumber parses a payload cell as a number, tolerating thousands
// separators. A lone dash is report shorthand for zero. Returns false for
// blank, missing or non-numeric cells.
func (r LocationRow) PayloadNumber(column string) (float64, bool) {
	raw, ok := r.Payload[column]
	if !ok {
		return 0, false
	}
	raw = strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if raw == "" || raw == "None" || raw == "nan" {
		return 0, false
	}
	if raw == "-" {
		return 0, true
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// MarkerPresent reports whether this row carries an aggregate value.
func (r LocationRow) MarkerPresent() bool {
	return r.Marker != nil
}

// HierarchyLabel is attached to a LocationRow after reconstruction.
// Ancestor names are forward-propagated: once a level has been seen its
// name stays populated for all descendant rows until a sibling at that
// level (or higher) replaces it. Empty string means the level has not been
// seen yet.
type HierarchyLabel struct {
	Level        Level  `json:"level"`
	Region       string `json:"region,omitempty"`
	Province     string `json:"province,omitempty"`
	Municipality string `json:"municipality,omitempty"`
	Barangay     string `json:"barangay,omitempty"`

	// IsHUC marks rows whose Province slot is occupied by a Highly
	// Urbanized City. HUC rows set Municipality to the same name and have
	// no province-level descendants.
	IsHUC bool `json:"is_huc,omitempty"`

	// Flags carries row-level data-quality annotations (see QualityFlag).
	Flags []string `json:"flags,omitempty"`
}

// HasFlag reports whether the label carries the given quality flag.
func (l HierarchyLabel) HasFlag(flag QualityFlag) bool {
	for _, f := range l.Flags {
		if f == string(flag) {
			return true
		}
	}
	return false
}

// HierarchyRow is a LocationRow with its reconstructed label, the unit of
// output of the Hierarchy Reconstructor and input of the Code Resolver.
type HierarchyRow struct {
	Row   LocationRow    `json:"row"`
	Label HierarchyLabel `json:"label"`
}

// QualityFlag annotates rows with recoverable data-quality anomalies.
type QualityFlag string

const (
	// FlagDanglingGroup marks every row of a municipality group whose
	// cumulative sum never reached the declared sub-total before the group
	// was force-closed by the end of its province/region scope.
	FlagDanglingGroup QualityFlag = "DANGLING_GROUP"

	// FlagSentenceCaseProvince marks a province header recovered by
	// cumulative-sum reconciliation rather than the upper-case rule.
	FlagSentenceCaseProvince QualityFlag = "SENTENCE_CASE_PROVINCE"

	// FlagHUCCollapsed marks rows where Province and Municipality collapse
	// to the same Highly Urbanized City.
	FlagHUCCollapsed QualityFlag = "HUC_COLLAPSED"

	FlagExactMatch        QualityFlag = "EXACT_MATCH"
	FlagFuzzyMatch        QualityFlag = "FUZZY_MATCH"
	FlagRegionBackfilled  QualityFlag = "REGION_BACKFILLED"
	FlagUnmatchedLocation QualityFlag = "UNMATCHED_LOCATION"
)
