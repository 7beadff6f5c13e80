package resolver

import (
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/xrash/smetrics"
	"go.uber.org/zap"

	"github.com/dromic-parser/app/models"
	"github.com/dromic-parser/internal/gazetteer"
	"github.com/dromic-parser/internal/normalizer"
)

const (
	// DefaultThreshold is the documented fuzzy acceptance cutoff: a
	// candidate scoring exactly the threshold is accepted, one point below
	// is rejected.
	DefaultThreshold = 80

	defaultCacheSize = 4096

	jaroWinklerBoost  = 0.7
	jaroWinklerPrefix = 4
)

// Options tunes the resolver. Zero values fall back to the defaults.
type Options struct {
	Threshold int
	CacheSize int
}

// Resolver maps reconstructed hierarchy names to canonical codes against a
// loaded gazetteer. Resolution is deterministic for a fixed gazetteer: ties
// in fuzzy score are broken by gazetteer load order.
type Resolver struct {
	gaz       *gazetteer.Index
	logger    *zap.Logger
	threshold int

	// Same (level, parent, key) triples repeat for every row under the
	// same ancestors, so match results are memoized per run scope.
	cache *lru.Cache[cacheKey, models.LevelMatch]
}

type cacheKey struct {
	level  models.Level
	parent string
	key    string
}

// New builds a Resolver over the gazetteer.
func New(gaz *gazetteer.Index, logger *zap.Logger, opts Options) *Resolver {
	if opts.Threshold <= 0 {
		opts.Threshold = DefaultThreshold
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = defaultCacheSize
	}
	cache, _ := lru.New[cacheKey, models.LevelMatch](opts.CacheSize)
	return &Resolver{
		gaz:       gaz,
		logger:    logger,
		threshold: opts.Threshold,
		cache:     cache,
	}
}

// Resolve maps every row's hierarchy names to codes, preserving order.
func (r *Resolver) Resolve(rows []models.HierarchyRow) []models.ResolvedRow {
	out := make([]models.ResolvedRow, 0, len(rows))
	for _, h := range rows {
		out = append(out, r.ResolveRow(h))
	}
	return out
}

// ResolveRow runs the top-down matching cascade for a single row. Each
// level is scoped to the parent code resolved above it; a level that fails
// to resolve leaves every descendant level unresolved, never matched
// against a wrong-parent candidate set. The one exception is the region
// fallback: a province may match level-wide when the region header was
// missing or garbled, and its parent then backfills the region.
func (r *Resolver) ResolveRow(h models.HierarchyRow) models.ResolvedRow {
	var (
		res        models.Resolution
		backfilled bool
	)

	res.Region = r.matchLevel(models.LevelRegion, h.Label.Region, "")

	// Province scope: the resolved region, or level-wide when the region
	// itself is unresolved.
	res.Province = r.matchLevel(models.LevelProvince, h.Label.Province, res.Region.Code)
	if res.Province.Matched() && !res.Region.Matched() {
		if prov := r.gaz.Entry(res.Province.Code); prov != nil {
			if region := r.gaz.Entry(prov.ParentCode); region != nil {
				res.Region = models.LevelMatch{
					Code:     region.Code,
					Name:     region.Name,
					Strategy: models.MatchStrategyBackfill,
				}
				backfilled = true
			}
		}
	}

	if res.Province.Matched() {
		res.Municipality = r.matchLevel(models.LevelMunicipality, h.Label.Municipality, res.Province.Code)
	} else {
		res.Municipality = models.LevelMatch{Strategy: models.MatchStrategyNone}
	}

	if res.Municipality.Matched() {
		res.Barangay = r.matchLevel(models.LevelBarangay, h.Label.Barangay, res.Municipality.Code)
	} else {
		res.Barangay = models.LevelMatch{Strategy: models.MatchStrategyNone}
	}

	label := h.Label
	switch r.ownLevelMatch(label.Level, res).Strategy {
	case models.MatchStrategyExact:
		label.Flags = append(label.Flags, string(models.FlagExactMatch))
	case models.MatchStrategyFuzzy:
		label.Flags = append(label.Flags, string(models.FlagFuzzyMatch))
	default:
		label.Flags = append(label.Flags, string(models.FlagUnmatchedLocation))
		r.logger.Debug("Unresolved location",
			zap.String("level", string(label.Level)),
			zap.String("raw", h.Row.RawText))
	}
	if backfilled {
		label.Flags = append(label.Flags, string(models.FlagRegionBackfilled))
	}

	return models.ResolvedRow{Row: h.Row, Label: label, Codes: res}
}

func (r *Resolver) ownLevelMatch(level models.Level, res models.Resolution) models.LevelMatch {
	switch level {
	case models.LevelRegion:
		return res.Region
	case models.LevelProvince:
		return res.Province
	case models.LevelMunicipality:
		return res.Municipality
	default:
		return res.Barangay
	}
}

// matchLevel resolves one name within the (level, parentCode) scope:
// exact lookup on the normalized key first, then the best token-set score
// over the scoped candidates, accepted at or above the threshold.
func (r *Resolver) matchLevel(level models.Level, name, parentCode string) models.LevelMatch {
	key := normalizer.Normalize(name)
	if key == "" {
		return models.LevelMatch{Strategy: models.MatchStrategyNone}
	}

	ck := cacheKey{level, parentCode, key}
	if m, ok := r.cache.Get(ck); ok {
		return m
	}

	m := r.lookup(level, key, parentCode)
	r.cache.Add(ck, m)
	return m
}

func (r *Resolver) lookup(level models.Level, key, parentCode string) models.LevelMatch {
	if e := r.gaz.LookupExact(level, key, parentCode); e != nil {
		return models.LevelMatch{
			Code:       e.Code,
			Name:       e.Name,
			Score:      100,
			Confidence: 1,
			Strategy:   models.MatchStrategyExact,
		}
	}

	var (
		best      *models.GazetteerEntry
		bestScore int
	)
	for _, cand := range r.gaz.Candidates(level, parentCode) {
		// Strictly greater: on ties the first-loaded candidate stands.
		if score := TokenSetRatio(key, cand.NormalizedKey); score > bestScore {
			best = cand
			bestScore = score
		}
	}
	if best == nil || bestScore < r.threshold {
		return models.LevelMatch{Strategy: models.MatchStrategyNone}
	}
	return models.LevelMatch{
		Code:       best.Code,
		Name:       best.Name,
		Score:      bestScore,
		Confidence: smetrics.JaroWinkler(key, best.NormalizedKey, jaroWinklerBoost, jaroWinklerPrefix),
		Strategy:   models.MatchStrategyFuzzy,
	}
}
