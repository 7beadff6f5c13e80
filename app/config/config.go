package config

import (
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// MatchingCfg tunes the code resolver.
type MatchingCfg struct {
	// FuzzyThreshold is the token-set score (0-100) at which a fuzzy
	// candidate is accepted. A candidate scoring exactly the threshold
	// passes.
	FuzzyThreshold int `yaml:"fuzzy_threshold" json:"fuzzy_threshold"`
	CacheSize      int `yaml:"cache_size" json:"cache_size"`
}

// ColumnsCfg names the table columns of the extracted input.
type ColumnsCfg struct {
	Location string   `yaml:"location" json:"location"`
	Marker   string   `yaml:"marker" json:"marker"`
	Sum      string   `yaml:"sum" json:"sum"`
	Payload  []string `yaml:"payload" json:"payload"`
}

// ExtractCfg is the application configuration, loaded once at startup.
type ExtractCfg struct {
	// Strategy selects the hierarchy reconstruction: "cumsum" or "counter".
	Strategy      string      `yaml:"strategy" json:"strategy"`
	GazetteerPath string      `yaml:"gazetteer_path" json:"gazetteer_path"`
	Matching      MatchingCfg `yaml:"matching" json:"matching"`
	Columns       ColumnsCfg  `yaml:"columns" json:"columns"`
}

var C ExtractCfg

func Load(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(b, &C); err != nil {
		return err
	}
	// ENV overrides
	if v := os.Getenv("EXTRACT_STRATEGY"); v != "" {
		C.Strategy = v
	}
	if v := os.Getenv("FUZZY_THRESHOLD"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			C.Matching.FuzzyThreshold = n
		}
	}
	ApplyDefaults()
	return nil
}

// ApplyDefaults fills unset fields. Callers that skip Load (tests, the
// batch CLI) may call it directly.
func ApplyDefaults() {
	if C.Strategy == "" {
		C.Strategy = "cumsum"
	}
	if C.Matching.FuzzyThreshold == 0 {
		C.Matching.FuzzyThreshold = 80
	}
	if C.Matching.CacheSize == 0 {
		C.Matching.CacheSize = 4096
	}
	if C.Columns.Location == "" {
		C.Columns.Location = "Location"
	}
	if C.Columns.Marker == "" {
		C.Columns.Marker = "Sub-total"
	}
	if C.Columns.Sum == "" {
		C.Columns.Sum = "Affected_Persons"
	}
}

func RequestTimeout() time.Duration { return 1500 * time.Millisecond }
