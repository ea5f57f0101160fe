package config

import (
	"encoding/json"
	"os"
	"time"

	"wandermap/internal/flagx"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Values are
// copied into the runtime Config afterwards; the timeout is given in
// seconds.
type JsonConfig struct {
	APIBaseURL        string `json:"api_base_url"`
	SiteBaseURL       string `json:"site_base_url"`
	SessionDBPath     string `json:"session_db_path"`
	RequestTimeoutSec int    `json:"request_timeout_sec"`
}

// parseJson overlays Config with values loaded from a JSON file. The file
// path comes from the -c/-config flags; with no path the function is a
// no-op. Read or unmarshal errors panic, matching the flag stage.
//
// Only fields actually present in the file override the defaults.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.APIBaseURL != "" {
		cfg.APIBaseURL = jc.APIBaseURL
	}
	if jc.SiteBaseURL != "" {
		cfg.SiteBaseURL = jc.SiteBaseURL
	}
	if jc.SessionDBPath != "" {
		cfg.SessionDBPath = jc.SessionDBPath
	}
	if jc.RequestTimeoutSec > 0 {
		cfg.RequestTimeout = time.Duration(jc.RequestTimeoutSec) * time.Second
	}
}
