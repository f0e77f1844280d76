package server

import (
	"os"
	"strings"
	"time"
)

// Config configures the HTTP service.
type Config struct {
	Addr         string
	AllowOrigins []string

	// SessionTTL is how long an idle session is kept before it is dropped.
	SessionTTL time.Duration

	// MaxSessions caps concurrently held sessions.
	MaxSessions int
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		Addr: ":8080",
		AllowOrigins: []string{
			"http://localhost:3000",
			"http://localhost:5173",
		},
		SessionTTL:  2 * time.Hour,
		MaxSessions: 1000,
	}
}

// ConfigFromEnv reads CAREERPATH_HTTP_ADDR and CAREERPATH_CORS_ORIGINS
// (comma-separated) over the defaults.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	if v := strings.TrimSpace(os.Getenv("CAREERPATH_HTTP_ADDR")); v != "" {
		cfg.Addr = v
	}
	if v := strings.TrimSpace(os.Getenv("CAREERPATH_CORS_ORIGINS")); v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		cfg.AllowOrigins = origins
	}
	return cfg
}
