package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/useraccounts/internal/flagx"
	"github.com/dmitrijs2005/useraccounts/internal/timex"
)

// JsonConfig is the on-disk shape of the config file. Durations accept
// strings such as "30m" or integer nanoseconds. Absent fields leave the
// current value untouched.
type JsonConfig struct {
	EndpointAddrGRPC *string         `json:"endpoint_addr_grpc"`
	DatabaseDSN      *string         `json:"database_dsn"`
	SessionTTL       *timex.Duration `json:"session_ttl"`
	LogLevel         *string         `json:"log_level"`
	DefaultPageLimit *int            `json:"default_page_limit"`
	MaxPageLimit     *int            `json:"max_page_limit"`
}

// parseJson overlays values from the file named by -c/-config. Without the
// flag nothing is loaded; an unreadable or invalid file panics.
func parseJson(config *Config) {
	path := flagx.JsonConfigFlags()
	if path == "" {
		return
	}

	file, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.EndpointAddrGRPC != nil {
		config.EndpointAddrGRPC = *c.EndpointAddrGRPC
	}
	if c.DatabaseDSN != nil {
		config.DatabaseDSN = *c.DatabaseDSN
	}
	if c.SessionTTL != nil {
		config.SessionTTL = c.SessionTTL.Duration
	}
	if c.LogLevel != nil {
		config.LogLevel = *c.LogLevel
	}
	if c.DefaultPageLimit != nil {
		config.DefaultPageLimit = *c.DefaultPageLimit
	}
	if c.MaxPageLimit != nil {
		config.MaxPageLimit = *c.MaxPageLimit
	}
}
