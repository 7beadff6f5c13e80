package gazetteer

import (
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/dromic-parser/app/models"
)

const testCSV = `pcode,name,normalized_key,parent_pcode,level,is_huc,aliases
PH04,Region IV-A,,PH,region,,CALABARZON
PH0421,Cavite,,PH04,province,,
PH0434,Laguna,,PH04,province,,
PH0460,Lucena City,,PH04,province,1,
PH042114,Tagaytay City,,PH0421,municipality,,
PH04211401,Sungay,,PH042114,barangay,,
`

func loadTestIndex(t *testing.T, csvData string) *Index {
	t.Helper()
	idx, err := Load(strings.NewReader(csvData), zap.NewNop())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return idx
}

func TestLoad_Counts(t *testing.T) {
	idx := loadTestIndex(t, testCSV)

	if got := idx.Size(); got != 6 {
		t.Errorf("Size() = %d, want 6", got)
	}
	counts := map[models.Level]int{
		models.LevelRegion:       1,
		models.LevelProvince:     3,
		models.LevelMunicipality: 1,
		models.LevelBarangay:     1,
	}
	for level, want := range counts {
		if got := idx.CountAtLevel(level); got != want {
			t.Errorf("CountAtLevel(%s) = %d, want %d", level, got, want)
		}
	}
}

func TestLookupExact(t *testing.T) {
	idx := loadTestIndex(t, testCSV)

	tests := []struct {
		name     string
		level    models.Level
		key      string
		parent   string
		wantCode string
	}{
		{"scoped province", models.LevelProvince, "cavite", "PH04", "PH0421"},
		{"global province", models.LevelProvince, "cavite", "", "PH0421"},
		{"region alias", models.LevelRegion, "calabarzon", "", "PH04"},
		{"wrong scope", models.LevelProvince, "cavite", "PH99", ""},
		{"unknown key", models.LevelProvince, "batangas", "PH04", ""},
		{"empty key", models.LevelProvince, "", "PH04", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := idx.LookupExact(tt.level, tt.key, tt.parent)
			got := ""
			if e != nil {
				got = e.Code
			}
			if got != tt.wantCode {
				t.Errorf("LookupExact(%s, %q, %q) = %q, want %q",
					tt.level, tt.key, tt.parent, got, tt.wantCode)
			}
		})
	}
}

func TestLoad_DuplicateKeyKeepsFirst(t *testing.T) {
	dup := testCSV + "PH0499,Cavite,,PH04,province,,\n"
	idx := loadTestIndex(t, dup)

	e := idx.LookupExact(models.LevelProvince, "cavite", "PH04")
	if e == nil || e.Code != "PH0421" {
		t.Fatalf("duplicate key resolved to %+v, want first-loaded PH0421", e)
	}
	if idx.Entry("PH0499") != nil {
		t.Error("dropped duplicate entry should not be indexed by code")
	}
}

func TestHUCRegion(t *testing.T) {
	idx := loadTestIndex(t, testCSV)

	tests := []struct {
		name   string
		query  string
		wantOK bool
	}{
		{"canonical name", "LUCENA CITY", true},
		{"without city suffix", "LUCENA", true},
		{"mixed case with spaces", "  lucena city ", true},
		{"plain province is not a HUC", "CAVITE", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, ok := idx.HUCRegion(tt.query)
			if ok != tt.wantOK {
				t.Fatalf("HUCRegion(%q) ok = %v, want %v", tt.query, ok, tt.wantOK)
			}
			if ok && code != "PH04" {
				t.Errorf("HUCRegion(%q) = %q, want PH04", tt.query, code)
			}
		})
	}
}

func TestRegionByIdentifier(t *testing.T) {
	idx := loadTestIndex(t, testCSV)

	for _, ident := range []string{"REGION IV-A", "CALABARZON", " calabarzon "} {
		if e, ok := idx.RegionByIdentifier(ident); !ok || e.Code != "PH04" {
			t.Errorf("RegionByIdentifier(%q) = %v, %v; want PH04", ident, e, ok)
		}
	}
	if _, ok := idx.RegionByIdentifier("REGION XIII"); ok {
		t.Error("unknown region identifier should not resolve")
	}
}

func TestIsProvinceOfRegion(t *testing.T) {
	idx := loadTestIndex(t, testCSV)

	if !idx.IsProvinceOfRegion("LAGUNA", "PH04") {
		t.Error("LAGUNA should be a province of PH04")
	}
	if !idx.IsProvinceOfRegion("LUCENA CITY", "PH04") {
		t.Error("a HUC occupies the province level of its region")
	}
	if idx.IsProvinceOfRegion("LAGUNA", "PH05") {
		t.Error("LAGUNA should not belong to PH05")
	}
}

func TestCandidates_LoadOrder(t *testing.T) {
	idx := loadTestIndex(t, testCSV)

	got := idx.Candidates(models.LevelProvince, "PH04")
	want := []string{"PH0421", "PH0434", "PH0460"}
	if len(got) != len(want) {
		t.Fatalf("Candidates returned %d entries, want %d", len(got), len(want))
	}
	for i, e := range got {
		if e.Code != want[i] {
			t.Errorf("Candidates[%d] = %s, want %s", i, e.Code, want[i])
		}
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		csv  string
	}{
		{"missing required column", "pcode,name,level\nPH04,Region IV-A,region\n"},
		{"unknown level", "pcode,name,normalized_key,parent_pcode,level,is_huc,aliases\nPH04,Region IV-A,,PH,galaxy,,\n"},
		{"no data rows", "pcode,name,normalized_key,parent_pcode,level,is_huc,aliases\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(strings.NewReader(tt.csv), zap.NewNop()); err == nil {
				t.Error("Load() expected error, got nil")
			}
		})
	}
}
