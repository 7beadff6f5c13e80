package hierarchy

import (
	"math"
	"strings"

	"github.com/dromic-parser/app/models"
	"github.com/dromic-parser/internal/normalizer"
	"go.uber.org/zap"
)

// CounterOptions configures the counter strategy.
type CounterOptions struct {
	// PayloadColumns is the column order of the extracted table, used to
	// auto-detect the counting signal: the first column whose present
	// values are all non-zero. Blank cells are skipped, matching the
	// extraction collaborator's sparse headers.
	PayloadColumns []string

	// CountColumn overrides auto-detection when the caller knows the
	// counting column.
	CountColumn string
}

// counterState is the explicit fold accumulator: current ancestor names
// plus the open municipality group being reconciled.
type counterState struct {
	region     string
	regionCode string
	province   string

	inGroup      bool
	target       float64
	running      float64
	groupMembers []int // indices into the output slice, for dangling flags
}

// Counter reconstructs the hierarchy when only marker presence/absence is
// available. Rows are partitioned into municipality groups: the first
// detail row after a province opens a group with its marker (or counting
// column) value as the target total; following rows accumulate the
// counting column until the running sum rounds to the target, which closes
// the group. Groups force-closed by a higher-level header or the end of
// input keep their rows labeled Barangay and carry DANGLING_GROUP flags —
// no retroactive relabeling.
func (r *Reconstructor) Counter(rows []models.LocationRow, opts CounterOptions) ([]models.HierarchyRow, error) {
	if len(rows) == 0 {
		return nil, ErrEmptyInput
	}

	countCol := opts.CountColumn
	if countCol == "" {
		var err error
		if countCol, err = detectCountingColumn(rows, opts.PayloadColumns); err != nil {
			return nil, err
		}
	}
	r.logger.Debug("Counter strategy counting column", zap.String("column", countCol))

	var (
		out        []models.HierarchyRow
		st         counterState
		seenRegion bool
	)

	closeGroup := func(dangling bool) {
		if st.inGroup && dangling {
			for _, i := range st.groupMembers {
				out[i].Label.Flags = append(out[i].Label.Flags, string(models.FlagDanglingGroup))
			}
			r.logger.Warn("Municipality group never reached its declared total",
				zap.String("municipality", out[st.groupMembers[0]].Label.Municipality),
				zap.Float64("target", st.target),
				zap.Float64("running", st.running))
		}
		st.inGroup = false
		st.target = 0
		st.running = 0
		st.groupMembers = nil
	}

	var municipality string

	for _, row := range rows {
		raw := strings.TrimSpace(row.RawText)

		switch {
		case normalizer.IsBlank(raw):
			// Page-break artifact; an open group cannot continue across it.
			closeGroup(true)
			continue

		case isGrandTotal(raw):
			closeGroup(true)
			continue

		case r.matchHUC(raw, st.regionCode):
			closeGroup(true)
			// One-row exception: the HUC occupies the Province slot and is
			// its own Municipality, but does not become the running parent.
			out = append(out, models.HierarchyRow{
				Row: row,
				Label: models.HierarchyLabel{
					Level:        models.LevelProvince,
					Region:       st.region,
					Province:     raw,
					Municipality: raw,
					IsHUC:        true,
					Flags:        []string{string(models.FlagHUCCollapsed)},
				},
			})

		default:
			if code, ok := r.matchRegion(raw); ok {
				closeGroup(true)
				st.region = raw
				st.regionCode = code
				st.province = ""
				municipality = ""
				seenRegion = true
				out = append(out, models.HierarchyRow{
					Row:   row,
					Label: models.HierarchyLabel{Level: models.LevelRegion, Region: raw},
				})
				continue
			}

			if isProvinceCase(raw) {
				closeGroup(true)
				st.province = raw
				municipality = ""
				out = append(out, models.HierarchyRow{
					Row: row,
					Label: models.HierarchyLabel{
						Level:    models.LevelProvince,
						Region:   st.region,
						Province: raw,
					},
				})
				continue
			}

			if !st.inGroup {
				// New municipality; its declared total becomes the target.
				municipality = raw
				st.inGroup = true
				st.running = 0
				if row.Marker != nil {
					st.target = *row.Marker
				} else if v, ok := row.PayloadNumber(countCol); ok {
					st.target = v
				} else {
					st.target = 0
				}
				out = append(out, models.HierarchyRow{
					Row: row,
					Label: models.HierarchyLabel{
						Level:        models.LevelMunicipality,
						Region:       st.region,
						Province:     st.province,
						Municipality: raw,
					},
				})
				st.groupMembers = append(st.groupMembers, len(out)-1)
				continue
			}

			if v, ok := row.PayloadNumber(countCol); ok {
				st.running += v
			}
			out = append(out, models.HierarchyRow{
				Row: row,
				Label: models.HierarchyLabel{
					Level:        models.LevelBarangay,
					Region:       st.region,
					Province:     st.province,
					Municipality: municipality,
					Barangay:     raw,
				},
			})
			st.groupMembers = append(st.groupMembers, len(out)-1)

			if st.running > 0 && math.Round(st.running) == math.Round(st.target) {
				closeGroup(false)
			}
		}
	}
	closeGroup(true)

	if !seenRegion {
		return nil, ErrNoRegionRows
	}

	r.logger.Info("Counter reconstruction complete",
		zap.Int("rows_in", len(rows)),
		zap.Int("rows_out", len(out)))
	return out, nil
}

// detectCountingColumn returns the first payload column whose present
// values are all numeric and non-zero, the precondition of the counter
// strategy.
func detectCountingColumn(rows []models.LocationRow, columns []string) (string, error) {
	for _, col := range columns {
		any := false
		ok := true
		for _, row := range rows {
			v, present := row.PayloadNumber(col)
			if !present {
				continue
			}
			any = true
			if v == 0 {
				ok = false
				break
			}
		}
		if any && ok {
			return col, nil
		}
	}
	return "", ErrNoCountingColumn
}
