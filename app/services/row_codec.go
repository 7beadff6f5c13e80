package services

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dromic-parser/app/config"
	"github.com/dromic-parser/app/models"
)

// Output columns prepended before the pass-through payload columns.
var hierarchyColumns = []string{
	"Region", "Province", "Municipality", "Barangay", "Level",
	"Region_PCODE", "Province_PCODE", "Municipality_PCODE", "Barangay_PCODE",
	"Flags",
}

// DecodeRows reads an extracted table from CSV into the row model. The
// location and marker columns are pulled out by the configured names;
// everything else passes through as payload. Marker cells that are blank,
// a dash, or an extraction artifact ("None", "nan") mean no marker.
func DecodeRows(r io.Reader, cols config.ColumnsCfg) ([]models.LocationRow, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read input header: %w", err)
	}
	locIdx, markerIdx := -1, -1
	for i, h := range header {
		switch strings.TrimSpace(h) {
		case cols.Location:
			locIdx = i
		case cols.Marker:
			markerIdx = i
		}
	}
	if locIdx < 0 {
		return nil, fmt.Errorf("input has no %q column", cols.Location)
	}

	var rows []models.LocationRow
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read input row: %w", err)
		}

		row := models.LocationRow{Payload: make(map[string]string)}
		for i, cell := range rec {
			if i >= len(header) {
				break
			}
			switch i {
			case locIdx:
				row.RawText = cell
			case markerIdx:
				row.Marker = parseMarker(cell)
			default:
				row.Payload[strings.TrimSpace(header[i])] = cell
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// EncodeRows writes resolved rows as CSV: hierarchy columns first, then
// the payload columns in the given order, original values untouched.
func EncodeRows(w io.Writer, rows []models.ResolvedRow, payloadColumns []string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(append(append([]string{}, hierarchyColumns...), payloadColumns...)); err != nil {
		return fmt.Errorf("write output header: %w", err)
	}

	for _, row := range rows {
		rec := []string{
			row.Label.Region,
			row.Label.Province,
			row.Label.Municipality,
			row.Label.Barangay,
			string(row.Label.Level),
			row.Codes.Region.Code,
			row.Codes.Province.Code,
			row.Codes.Municipality.Code,
			row.Codes.Barangay.Code,
			strings.Join(row.Label.Flags, "|"),
		}
		for _, col := range payloadColumns {
			rec = append(rec, row.Row.Payload[col])
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write output row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func parseMarker(cell string) *float64 {
	s := strings.ReplaceAll(strings.TrimSpace(cell), ",", "")
	if s == "" || s == "-" || s == "None" || s == "nan" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}
