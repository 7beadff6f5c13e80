package hierarchy

import (
	"errors"
	"testing"

	"github.com/dromic-parser/app/models"
)

func TestCounter_GroupClosure(t *testing.T) {
	r := newTestReconstructor(t)

	rows := []models.LocationRow{
		detailRow("REGION IV-A", nil),
		detailRow("CAVITE", nil),
		markerRow("Tagaytay City", 120, nil),
		detailRow("Sungay", map[string]string{"Families": "70"}),
		detailRow("Iruhin East", map[string]string{"Families": "50"}),
	}

	got, err := r.Counter(rows, CounterOptions{PayloadColumns: []string{"Families"}})
	if err != nil {
		t.Fatalf("Counter returned error: %v", err)
	}
	if len(got) != 5 {
		t.Fatalf("got %d rows, want 5", len(got))
	}

	expected := []struct {
		level        models.Level
		region       string
		province     string
		municipality string
		barangay     string
	}{
		{models.LevelRegion, "REGION IV-A", "", "", ""},
		{models.LevelProvince, "REGION IV-A", "CAVITE", "", ""},
		{models.LevelMunicipality, "REGION IV-A", "CAVITE", "Tagaytay City", ""},
		{models.LevelBarangay, "REGION IV-A", "CAVITE", "Tagaytay City", "Sungay"},
		{models.LevelBarangay, "REGION IV-A", "CAVITE", "Tagaytay City", "Iruhin East"},
	}
	for i, want := range expected {
		l := got[i].Label
		if l.Level != want.level || l.Region != want.region || l.Province != want.province ||
			l.Municipality != want.municipality || l.Barangay != want.barangay {
			t.Errorf("row %d: got %+v, want %+v", i, l, want)
		}
		if l.HasFlag(models.FlagDanglingGroup) {
			t.Errorf("row %d: unexpected dangling flag on a closed group", i)
		}
	}
}

func TestCounter_SequentialGroups(t *testing.T) {
	r := newTestReconstructor(t)

	rows := []models.LocationRow{
		detailRow("REGION IV-A", nil),
		detailRow("CAVITE", nil),
		markerRow("Tagaytay City", 50, nil),
		detailRow("Sungay", map[string]string{"Families": "20"}),
		detailRow("Iruhin East", map[string]string{"Families": "15"}),
		detailRow("Iruhin West", map[string]string{"Families": "15"}),
		markerRow("Silang", 10, nil),
		detailRow("Biga", map[string]string{"Families": "10"}),
	}

	got, err := r.Counter(rows, CounterOptions{PayloadColumns: []string{"Families"}})
	if err != nil {
		t.Fatalf("Counter returned error: %v", err)
	}

	// 20+15+15 = 50 closes the first group on the third barangay.
	for i := 3; i <= 5; i++ {
		if got[i].Label.Municipality != "Tagaytay City" || got[i].Label.Level != models.LevelBarangay {
			t.Errorf("row %d: got %+v, want barangay under Tagaytay City", i, got[i].Label)
		}
		if got[i].Label.HasFlag(models.FlagDanglingGroup) {
			t.Errorf("row %d: closed group wrongly flagged dangling", i)
		}
	}
	if got[6].Label.Level != models.LevelMunicipality || got[6].Label.Municipality != "Silang" {
		t.Errorf("row after a closed group should open a new municipality, got %+v", got[6].Label)
	}
	if got[7].Label.Municipality != "Silang" {
		t.Errorf("barangay after new group got municipality %q, want Silang", got[7].Label.Municipality)
	}
}

func TestCounter_DanglingGroup(t *testing.T) {
	r := newTestReconstructor(t)

	// Barangay values sum to 110, never reaching the declared 120.
	rows := []models.LocationRow{
		detailRow("REGION IV-A", nil),
		detailRow("CAVITE", nil),
		markerRow("Tagaytay City", 120, nil),
		detailRow("Sungay", map[string]string{"Families": "70"}),
		detailRow("Iruhin East", map[string]string{"Families": "40"}),
	}

	got, err := r.Counter(rows, CounterOptions{PayloadColumns: []string{"Families"}})
	if err != nil {
		t.Fatalf("Counter returned error: %v", err)
	}

	for i := 2; i < 5; i++ {
		l := got[i].Label
		if !l.HasFlag(models.FlagDanglingGroup) {
			t.Errorf("row %d (%s): missing dangling flag", i, got[i].Row.RawText)
		}
		// Labels are never revised retroactively.
		if i == 2 && l.Level != models.LevelMunicipality {
			t.Errorf("group opener relabeled to %s", l.Level)
		}
		if i > 2 && l.Level != models.LevelBarangay {
			t.Errorf("row %d relabeled to %s", i, l.Level)
		}
	}
}

func TestCounter_BlankRowForceClosesGroup(t *testing.T) {
	r := newTestReconstructor(t)

	rows := []models.LocationRow{
		detailRow("REGION IV-A", nil),
		detailRow("CAVITE", nil),
		markerRow("Tagaytay City", 120, nil),
		detailRow("Sungay", map[string]string{"Families": "70"}),
		detailRow("None", nil), // page break
		markerRow("Silang", 30, nil),
		detailRow("Biga", map[string]string{"Families": "30"}),
	}

	got, err := r.Counter(rows, CounterOptions{PayloadColumns: []string{"Families"}})
	if err != nil {
		t.Fatalf("Counter returned error: %v", err)
	}
	if len(got) != 6 {
		t.Fatalf("got %d rows, want 6 (page-break row dropped)", len(got))
	}

	if !got[2].Label.HasFlag(models.FlagDanglingGroup) || !got[3].Label.HasFlag(models.FlagDanglingGroup) {
		t.Error("interrupted group should carry dangling flags")
	}
	if got[4].Label.Level != models.LevelMunicipality || got[4].Label.Municipality != "Silang" {
		t.Errorf("row after page break should open a new group, got %+v", got[4].Label)
	}
	if got[5].Label.HasFlag(models.FlagDanglingGroup) {
		t.Error("closed group after page break should not be flagged")
	}
}

func TestCounter_HUCDoesNotLeak(t *testing.T) {
	r := newTestReconstructor(t)

	rows := []models.LocationRow{
		detailRow("REGION IV-A", nil),
		detailRow("QUEZON", nil),
		markerRow("LUCENA CITY", 50, nil),
		markerRow("Sariaya", 30, nil),
		detailRow("Concepcion", map[string]string{"Families": "30"}),
	}

	got, err := r.Counter(rows, CounterOptions{PayloadColumns: []string{"Families"}})
	if err != nil {
		t.Fatalf("Counter returned error: %v", err)
	}

	huc := got[2].Label
	if huc.Level != models.LevelProvince || !huc.IsHUC {
		t.Fatalf("HUC row: got %+v", huc)
	}
	if huc.Province != "LUCENA CITY" || huc.Municipality != "LUCENA CITY" {
		t.Errorf("HUC should occupy both Province and Municipality, got %+v", huc)
	}
	if !huc.HasFlag(models.FlagHUCCollapsed) {
		t.Error("HUC row missing collapse flag")
	}

	// The HUC is a one-row exception: the next municipality still belongs
	// to the surrounding province.
	if got[3].Label.Province != "QUEZON" {
		t.Errorf("municipality after HUC got province %q, want QUEZON", got[3].Label.Province)
	}
	if got[4].Label.Municipality != "Sariaya" {
		t.Errorf("barangay after HUC got municipality %q, want Sariaya", got[4].Label.Municipality)
	}
}

func TestCounter_GrandTotalDropped(t *testing.T) {
	r := newTestReconstructor(t)

	rows := []models.LocationRow{
		detailRow("REGION IV-A", nil),
		detailRow("CAVITE", nil),
		markerRow("Tagaytay City", 70, nil),
		detailRow("Sungay", map[string]string{"Families": "70"}),
		markerRow("GRAND TOTAL", 9999, nil),
	}

	got, err := r.Counter(rows, CounterOptions{PayloadColumns: []string{"Families"}})
	if err != nil {
		t.Fatalf("Counter returned error: %v", err)
	}
	for _, h := range got {
		if h.Row.RawText == "GRAND TOTAL" {
			t.Fatal("grand total row survived reconstruction")
		}
	}
	if len(got) != 4 {
		t.Errorf("got %d rows, want 4", len(got))
	}
}

func TestCounter_InputShapeErrors(t *testing.T) {
	r := newTestReconstructor(t)

	t.Run("EmptyInput", func(t *testing.T) {
		_, err := r.Counter(nil, CounterOptions{PayloadColumns: []string{"Families"}})
		if !errors.Is(err, ErrEmptyInput) {
			t.Errorf("got %v, want ErrEmptyInput", err)
		}
	})

	t.Run("NoRegionRows", func(t *testing.T) {
		rows := []models.LocationRow{
			markerRow("Tagaytay City", 70, nil),
			detailRow("Sungay", map[string]string{"Families": "70"}),
		}
		_, err := r.Counter(rows, CounterOptions{PayloadColumns: []string{"Families"}})
		if !errors.Is(err, ErrNoRegionRows) {
			t.Errorf("got %v, want ErrNoRegionRows", err)
		}
	})

	t.Run("NoCountingColumn", func(t *testing.T) {
		rows := []models.LocationRow{
			detailRow("REGION IV-A", nil),
			detailRow("Sungay", map[string]string{"Families": "0"}),
		}
		_, err := r.Counter(rows, CounterOptions{PayloadColumns: []string{"Families"}})
		if !errors.Is(err, ErrNoCountingColumn) {
			t.Errorf("got %v, want ErrNoCountingColumn", err)
		}
	})
}

func TestDetectCountingColumn(t *testing.T) {
	rows := []models.LocationRow{
		detailRow("A", map[string]string{"Zeroes": "0", "Sparse": "", "Good": "1,204"}),
		detailRow("B", map[string]string{"Zeroes": "5", "Sparse": "3", "Good": "7"}),
		detailRow("C", map[string]string{"Zeroes": "2", "Good": "2"}),
	}

	// "Zeroes" is disqualified by its zero value; "Sparse" qualifies because
	// missing cells are skipped, and it comes before "Good".
	col, err := detectCountingColumn(rows, []string{"Zeroes", "Sparse", "Good"})
	if err != nil {
		t.Fatalf("detectCountingColumn returned error: %v", err)
	}
	if col != "Sparse" {
		t.Errorf("got column %q, want Sparse", col)
	}
}

func TestCounter_CountColumnOverride(t *testing.T) {
	r := newTestReconstructor(t)

	rows := []models.LocationRow{
		detailRow("REGION IV-A", nil),
		detailRow("CAVITE", nil),
		markerRow("Tagaytay City", 100, nil),
		detailRow("Sungay", map[string]string{"Families": "70", "Persons": "100"}),
	}

	got, err := r.Counter(rows, CounterOptions{
		PayloadColumns: []string{"Families", "Persons"},
		CountColumn:    "Persons",
	})
	if err != nil {
		t.Fatalf("Counter returned error: %v", err)
	}
	// Persons closes the group exactly; Families would have left it dangling.
	if got[2].Label.HasFlag(models.FlagDanglingGroup) {
		t.Error("group should have closed on the overridden column")
	}
}
