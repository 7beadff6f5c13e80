package hierarchy

import (
	"sort"
	"strconv"
	"strings"

	"github.com/dromic-parser/app/models"
	"github.com/dromic-parser/internal/normalizer"
	"go.uber.org/zap"
)

// CumSumOptions configures the forward-fill strategy.
type CumSumOptions struct {
	// SumColumn names a payload column holding per-row totals, used to
	// recover province headers that the source printed in sentence case
	// instead of the expected upper case. Empty disables the recovery pass.
	SumColumn string
}

// cumsumRow is the working annotation attached to each retained input row
// while the passes run. Fields are filled top-down: region first, then
// province, municipality, barangay.
type cumsumRow struct {
	row models.LocationRow
	raw string

	region     string
	regionCode string
	province   string
	muni       string
	barangay   string

	isRegionHeader   bool
	isProvinceHeader bool
	isHUC            bool
	sentenceCase     bool
}

// CumSum reconstructs the hierarchy when marker presence distinguishes
// municipality rows from barangay rows. Header rows (region and non-HUC
// province) are consumed into ancestor state and dropped from the output;
// HUC rows survive as their own municipality-level row. Runs as a sequence
// of passes over an annotated copy of the input, each pass filling one
// hierarchy level before the next reads it.
func (r *Reconstructor) CumSum(rows []models.LocationRow, opts CumSumOptions) ([]models.HierarchyRow, error) {
	if len(rows) == 0 {
		return nil, ErrEmptyInput
	}

	// Grand-total rows are report-wide aggregates; drop before anything
	// else so the upper-case rule never sees them. Blank rows stay for
	// now: they still separate groups during forward-fill.
	work := make([]*cumsumRow, 0, len(rows))
	for _, row := range rows {
		raw := strings.TrimSpace(row.RawText)
		if isGrandTotal(raw) {
			continue
		}
		work = append(work, &cumsumRow{row: row, raw: raw})
	}

	if !r.fillRegions(work) {
		return nil, ErrNoRegionRows
	}
	r.markProvinceHeaders(work)
	if opts.SumColumn != "" {
		r.recoverSentenceCaseProvinces(work, opts.SumColumn)
	}
	r.fillProvinces(work)
	r.fillMunicipalities(work)

	out := r.emit(work)
	r.logger.Info("Forward-fill reconstruction complete",
		zap.Int("rows_in", len(rows)),
		zap.Int("rows_out", len(out)))
	return out, nil
}

// fillRegions resolves region header rows and forward-fills the region
// down every following row. Reports whether any region was found.
func (r *Reconstructor) fillRegions(work []*cumsumRow) bool {
	var (
		region string
		code   string
		seen   bool
	)
	for _, w := range work {
		if entry, ok := r.gaz.RegionByIdentifier(strings.ToUpper(w.raw)); ok {
			region = w.raw
			code = entry.Code
			seen = true
			w.isRegionHeader = true
		}
		w.region = region
		w.regionCode = code
	}
	return seen
}

// markProvinceHeaders identifies province-level header rows: region-aware
// HUC names, and upper-case rows naming a known province of the current
// region.
func (r *Reconstructor) markProvinceHeaders(work []*cumsumRow) {
	for _, w := range work {
		if w.isRegionHeader || w.regionCode == "" {
			continue
		}
		upper := strings.ToUpper(w.raw)
		if owner, ok := r.gaz.HUCRegion(upper); ok && owner == w.regionCode {
			w.isProvinceHeader = true
			w.isHUC = true
			w.province = w.raw
			continue
		}
		if r.gaz.IsProvinceOfRegion(upper, w.regionCode) && normalizer.IsUpperCase(w.raw) {
			w.isProvinceHeader = true
			w.province = w.raw
		}
	}
}

// recoverSentenceCaseProvinces is the second province pass: a row naming a
// known province of its region, but printed in sentence case, is accepted
// as a province header when the totals of the rows below it sum exactly to
// its own total. A later row naming another province with at least half
// the candidate's total ends the scan, so one province's descendants are
// never summed into another's.
func (r *Reconstructor) recoverSentenceCaseProvinces(work []*cumsumRow, sumColumn string) {
	recovered := 0
	for i, w := range work {
		if w.isProvinceHeader || w.isRegionHeader || w.regionCode == "" {
			continue
		}
		if !r.gaz.IsProvinceOfRegion(strings.ToUpper(w.raw), w.regionCode) {
			continue
		}
		total, ok := w.row.PayloadNumber(sumColumn)
		if !ok || total <= 0 {
			continue
		}

		var cumsum float64
		for _, below := range work[i+1:] {
			if below.regionCode != w.regionCode {
				break
			}
			if normalizer.IsBlank(below.raw) {
				continue
			}
			v, ok := below.row.PayloadNumber(sumColumn)
			if !ok || v <= 0 {
				continue
			}
			if r.gaz.IsProvinceOfRegion(strings.ToUpper(below.raw), w.regionCode) && v >= total*0.5 {
				break
			}
			cumsum += v
			if cumsum == total {
				w.isProvinceHeader = true
				w.province = w.raw
				w.sentenceCase = true
				recovered++
				break
			}
			if cumsum > total {
				break
			}
		}
	}
	if recovered > 0 {
		r.logger.Debug("Recovered sentence-case province headers", zap.Int("count", recovered))
	}
}

// fillProvinces forward-fills the province within each region. HUC rows
// keep their own province but never become the carried value, so the rows
// below a HUC stay with the surrounding province.
func (r *Reconstructor) fillProvinces(work []*cumsumRow) {
	var (
		carry       string
		carrySent   bool
		carryRegion string
	)
	for _, w := range work {
		if w.regionCode != carryRegion {
			carry = ""
			carrySent = false
			carryRegion = w.regionCode
		}
		switch {
		case w.isHUC:
			// province already set to the HUC's own name
		case w.isProvinceHeader:
			carry = w.province
			carrySent = w.sentenceCase
		default:
			w.province = carry
			w.sentenceCase = carrySent
		}
	}
}

// fillMunicipalities forward-fills the municipality within each
// (region, province) group. HUC rows and marker-bearing rows open a new
// municipality; everything else inherits the last one seen in its own
// group. The carry is kept per group, not per contiguous run: a HUC row
// interleaved into a province's rows sits in its own group and must not
// disturb the surrounding province's municipality.
func (r *Reconstructor) fillMunicipalities(work []*cumsumRow) {
	type group struct {
		region, province string
	}
	carry := make(map[group]string)

	for _, w := range work {
		g := group{w.regionCode, w.province}
		switch {
		case w.isHUC:
			w.muni = w.raw
			carry[g] = w.raw
		case w.row.MarkerPresent() && !w.isRegionHeader && !w.isProvinceHeader:
			w.muni = w.raw
			carry[g] = w.raw
		default:
			w.muni = carry[g]
		}
	}
}

// rowValues serializes a row's marker and payload cells in column order,
// so rows differing only in their measures never compare as duplicates.
func rowValues(row models.LocationRow) string {
	var b strings.Builder
	if row.Marker != nil {
		b.WriteString(strconv.FormatFloat(*row.Marker, 'g', -1, 64))
	}
	cols := make([]string, 0, len(row.Payload))
	for col := range row.Payload {
		cols = append(cols, col)
	}
	sort.Strings(cols)
	for _, col := range cols {
		b.WriteByte('\x1f')
		b.WriteString(col)
		b.WriteByte('=')
		b.WriteString(row.Payload[col])
	}
	return b.String()
}

// emit assigns barangays, drops the consumed header and artifact rows,
// deduplicates, and labels each surviving row with its level.
func (r *Reconstructor) emit(work []*cumsumRow) []models.HierarchyRow {
	type dedupeKey struct {
		region, province, muni, barangay, raw string

		// Measures are part of row identity: the same location can appear
		// once per incident, and those rows must all survive.
		values string
	}
	seen := make(map[dedupeKey]bool)

	var out []models.HierarchyRow
	for _, w := range work {
		if w.isRegionHeader {
			continue
		}
		if w.isProvinceHeader && !w.isHUC {
			continue
		}
		// Page-break artifacts.
		if normalizer.IsBlank(w.raw) {
			continue
		}

		if !w.isHUC && !w.row.MarkerPresent() {
			w.barangay = w.raw
		}

		key := dedupeKey{w.region, w.province, w.muni, w.barangay, w.raw, rowValues(w.row)}
		if seen[key] {
			continue
		}
		seen[key] = true

		label := models.HierarchyLabel{
			Region:       w.region,
			Province:     w.province,
			Municipality: w.muni,
			Barangay:     w.barangay,
			IsHUC:        w.isHUC,
		}
		switch {
		case w.barangay != "":
			label.Level = models.LevelBarangay
		case w.muni != "":
			label.Level = models.LevelMunicipality
		default:
			// No level can be assigned; the row carries no hierarchy signal.
			continue
		}
		if w.isHUC {
			label.Flags = append(label.Flags, string(models.FlagHUCCollapsed))
		}
		if w.sentenceCase {
			label.Flags = append(label.Flags, string(models.FlagSentenceCaseProvince))
		}

		out = append(out, models.HierarchyRow{Row: w.row, Label: label})
	}
	return out
}
