package hierarchy

import (
	"strings"
	"testing"

	"github.com/dromic-parser/app/models"
	"github.com/dromic-parser/internal/gazetteer"
	"go.uber.org/zap"
)

// Reference table used by both strategy test suites: one region with three
// provinces, one of them a Highly Urbanized City.
const testGazetteerCSV = `pcode,name,normalized_key,parent_pcode,level,is_huc,aliases
PH04,CALABARZON,,,region,,REGION IV-A
PH0421,CAVITE,,PH04,province,,
PH0434,LAGUNA,,PH04,province,,
PH0456,QUEZON,,PH04,province,,
PH0460,LUCENA CITY,,PH04,province,1,
`

func newTestReconstructor(t *testing.T) *Reconstructor {
	t.Helper()
	idx, err := gazetteer.Load(strings.NewReader(testGazetteerCSV), zap.NewNop())
	if err != nil {
		t.Fatalf("load test gazetteer: %v", err)
	}
	return New(idx, zap.NewNop())
}

func markerRow(text string, marker float64, payload map[string]string) models.LocationRow {
	return models.LocationRow{RawText: text, Marker: &marker, Payload: payload}
}

func detailRow(text string, payload map[string]string) models.LocationRow {
	return models.LocationRow{RawText: text, Payload: payload}
}
