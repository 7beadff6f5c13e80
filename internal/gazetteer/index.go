package gazetteer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dromic-parser/app/models"
	"github.com/dromic-parser/internal/normalizer"
	"go.uber.org/zap"
)

// Index is the in-memory reference table of the administrative hierarchy:
// country -> region -> province/HUC -> municipality/city -> barangay.
// It is loaded once at process start and never mutated afterwards, so it
// can be shared read-only across any number of concurrent extraction runs
// without locking.
type Index struct {
	logger *zap.Logger

	entries []*models.GazetteerEntry
	byCode  map[string]*models.GazetteerEntry

	// exactScoped is keyed by (level, parent code, normalized key);
	// exactGlobal by (level, normalized key). First-loaded entry wins on
	// reference-data collisions.
	exactScoped map[scopeKey]*models.GazetteerEntry
	exactGlobal map[levelKey]*models.GazetteerEntry

	// Alias keys are consulted after the primary keys, so an alias never
	// shadows another entry's canonical name.
	aliasScoped map[scopeKey]*models.GazetteerEntry
	aliasGlobal map[levelKey]*models.GazetteerEntry

	scoped map[scope][]*models.GazetteerEntry
	global map[models.Level][]*models.GazetteerEntry

	// Reconstruction reference sets derived from the loaded entries.
	regionIdents      map[string]*models.GazetteerEntry // upper identifier -> region
	provincesByRegion map[string]map[string]bool        // region code -> upper province names
	hucRegion         map[string]string                 // upper HUC name -> region code
}

type scope struct {
	level  models.Level
	parent string
}

type scopeKey struct {
	level  models.Level
	parent string
	key    string
}

type levelKey struct {
	level models.Level
	key   string
}

// expected CSV header of the reference file.
var csvHeader = []string{"pcode", "name", "normalized_key", "parent_pcode", "level", "is_huc", "aliases"}

// LoadFile loads the reference CSV from disk. See Load for the format.
func LoadFile(path string, logger *zap.Logger) (*Index, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gazetteer: %w", err)
	}
	defer f.Close()
	return Load(f, logger)
}

// Load reads the reference table from r. One row per administrative unit:
// pcode, canonical English name, precomputed normalized key (computed at
// load when blank), parent pcode, level, HUC flag, and optional
// pipe-separated header aliases. The index is immutable once Load returns.
func Load(r io.Reader, logger *zap.Logger) (*Index, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read gazetteer header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, required := range []string{"pcode", "name", "parent_pcode", "level"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("gazetteer header missing column %q", required)
		}
	}

	idx := &Index{
		logger:            logger,
		byCode:            make(map[string]*models.GazetteerEntry),
		exactScoped:       make(map[scopeKey]*models.GazetteerEntry),
		exactGlobal:       make(map[levelKey]*models.GazetteerEntry),
		aliasScoped:       make(map[scopeKey]*models.GazetteerEntry),
		aliasGlobal:       make(map[levelKey]*models.GazetteerEntry),
		scoped:            make(map[scope][]*models.GazetteerEntry),
		global:            make(map[models.Level][]*models.GazetteerEntry),
		regionIdents:      make(map[string]*models.GazetteerEntry),
		provincesByRegion: make(map[string]map[string]bool),
		hucRegion:         make(map[string]string),
	}

	field := func(rec []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read gazetteer row: %w", err)
		}

		level, err := parseLevel(field(rec, "level"))
		if err != nil {
			return nil, err
		}

		entry := &models.GazetteerEntry{
			Code:          field(rec, "pcode"),
			Name:          field(rec, "name"),
			NormalizedKey: field(rec, "normalized_key"),
			ParentCode:    field(rec, "parent_pcode"),
			Level:         level,
			IsHUC:         isTruthy(field(rec, "is_huc")),
		}
		if entry.Code == "" || entry.Name == "" {
			continue
		}
		if entry.NormalizedKey == "" {
			entry.NormalizedKey = normalizer.Normalize(entry.Name)
		}
		if aliases := field(rec, "aliases"); aliases != "" {
			for _, a := range strings.Split(aliases, "|") {
				if a = strings.TrimSpace(a); a != "" {
					entry.Aliases = append(entry.Aliases, a)
				}
			}
		}

		idx.add(entry)
	}

	if len(idx.entries) == 0 {
		return nil, errors.New("gazetteer is empty")
	}
	idx.buildReference()

	logger.Info("Gazetteer loaded",
		zap.Int("entries", len(idx.entries)),
		zap.Int("regions", len(idx.global[models.LevelRegion])),
		zap.Int("hucs", len(idx.hucRegion)))
	return idx, nil
}

func (idx *Index) add(entry *models.GazetteerEntry) {
	sk := scopeKey{entry.Level, entry.ParentCode, entry.NormalizedKey}
	if prev, dup := idx.exactScoped[sk]; dup {
		// Data-quality warning, not fatal: first-loaded entry wins.
		idx.logger.Warn("Duplicate gazetteer key under same parent",
			zap.String("key", entry.NormalizedKey),
			zap.String("kept", prev.Code),
			zap.String("dropped", entry.Code))
		return
	}

	idx.entries = append(idx.entries, entry)
	idx.byCode[entry.Code] = entry
	idx.exactScoped[sk] = entry

	lk := levelKey{entry.Level, entry.NormalizedKey}
	if _, ok := idx.exactGlobal[lk]; !ok {
		idx.exactGlobal[lk] = entry
	}

	sc := scope{entry.Level, entry.ParentCode}
	idx.scoped[sc] = append(idx.scoped[sc], entry)
	idx.global[entry.Level] = append(idx.global[entry.Level], entry)

	for _, alias := range entry.Aliases {
		ak := normalizer.Normalize(alias)
		if ak == "" || ak == entry.NormalizedKey {
			continue
		}
		ask := scopeKey{entry.Level, entry.ParentCode, ak}
		if _, ok := idx.aliasScoped[ask]; !ok {
			idx.aliasScoped[ask] = entry
		}
		alk := levelKey{entry.Level, ak}
		if _, ok := idx.aliasGlobal[alk]; !ok {
			idx.aliasGlobal[alk] = entry
		}
	}
}

// buildReference derives the reconstruction reference sets: region header
// identifiers, province name lists per region, and the HUC ownership map.
func (idx *Index) buildReference() {
	for _, region := range idx.global[models.LevelRegion] {
		idx.regionIdents[strings.ToUpper(region.Name)] = region
		for _, alias := range region.Aliases {
			idx.regionIdents[strings.ToUpper(alias)] = region
		}
	}

	for _, prov := range idx.global[models.LevelProvince] {
		set, ok := idx.provincesByRegion[prov.ParentCode]
		if !ok {
			set = make(map[string]bool)
			idx.provincesByRegion[prov.ParentCode] = set
		}
		upper := strings.ToUpper(prov.Name)
		set[upper] = true
		for _, alias := range prov.Aliases {
			set[strings.ToUpper(alias)] = true
		}

		if prov.IsHUC {
			idx.hucRegion[upper] = prov.ParentCode
			// Reports flip between "X CITY" and bare "X" for the same HUC.
			if strings.HasSuffix(upper, " CITY") {
				idx.hucRegion[strings.TrimSuffix(upper, " CITY")] = prov.ParentCode
			} else {
				idx.hucRegion[upper+" CITY"] = prov.ParentCode
			}
			for _, alias := range prov.Aliases {
				idx.hucRegion[strings.ToUpper(alias)] = prov.ParentCode
			}
		}
	}
}

// LookupExact returns the entry whose normalized key (or one of its
// normalized aliases) equals key within the (level, parentCode) scope, or
// nil. An empty parentCode searches the whole level; collisions resolve to
// the first-loaded entry.
func (idx *Index) LookupExact(level models.Level, key, parentCode string) *models.GazetteerEntry {
	if key == "" {
		return nil
	}
	if parentCode == "" {
		lk := levelKey{level, key}
		if e := idx.exactGlobal[lk]; e != nil {
			return e
		}
		return idx.aliasGlobal[lk]
	}
	sk := scopeKey{level, parentCode, key}
	if e := idx.exactScoped[sk]; e != nil {
		return e
	}
	return idx.aliasScoped[sk]
}

// Candidates returns the entries at level under parentCode in load order,
// the candidate set for fuzzy matching. Empty parentCode means the whole
// level. Callers must not mutate the returned slice.
func (idx *Index) Candidates(level models.Level, parentCode string) []*models.GazetteerEntry {
	if parentCode == "" {
		return idx.global[level]
	}
	return idx.scoped[scope{level, parentCode}]
}

// Entry returns the entry with the given code, or nil.
func (idx *Index) Entry(code string) *models.GazetteerEntry {
	return idx.byCode[code]
}

// RegionByIdentifier resolves an upper-cased report header ("REGION IV-A",
// "CALABARZON", "NCR") to its region entry.
func (idx *Index) RegionByIdentifier(upper string) (*models.GazetteerEntry, bool) {
	e, ok := idx.regionIdents[strings.ToUpper(strings.TrimSpace(upper))]
	return e, ok
}

// IsProvinceOfRegion reports whether the upper-cased name is a known
// province (or HUC) of the region with the given code.
func (idx *Index) IsProvinceOfRegion(upperName, regionCode string) bool {
	set, ok := idx.provincesByRegion[regionCode]
	return ok && set[strings.ToUpper(strings.TrimSpace(upperName))]
}

// HUCRegion returns the owning region code when the upper-cased name is a
// known Highly Urbanized City.
func (idx *Index) HUCRegion(upperName string) (string, bool) {
	code, ok := idx.hucRegion[strings.ToUpper(strings.TrimSpace(upperName))]
	return code, ok
}

// Size returns the number of loaded entries.
func (idx *Index) Size() int { return len(idx.entries) }

// CountAtLevel returns the number of entries at the given level.
func (idx *Index) CountAtLevel(level models.Level) int {
	return len(idx.global[level])
}

func parseLevel(s string) (models.Level, error) {
	switch strings.ToLower(s) {
	case "region", "adm1", "1":
		return models.LevelRegion, nil
	case "province", "adm2", "2":
		return models.LevelProvince, nil
	case "municipality", "city", "adm3", "3":
		return models.LevelMunicipality, nil
	case "barangay", "adm4", "4":
		return models.LevelBarangay, nil
	}
	return "", fmt.Errorf("unknown gazetteer level %q", s)
}

func isTruthy(s string) bool {
	switch strings.ToLower(s) {
	case "1", "true", "yes", "y":
		return true
	}
	return false
}
