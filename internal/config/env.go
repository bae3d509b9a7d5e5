package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Environment variables that override file settings
const (
	EnvDSN            = "EZQUERY_DSN"
	EnvProfile        = "EZQUERY_PROFILE"
	EnvHistoryBackend = "EZQUERY_HISTORY_BACKEND"
	EnvRemote         = "EZQUERY_REMOTE"
	EnvDefaultLimit   = "EZQUERY_DEFAULT_LIMIT"
)

// envProfileName names the ad-hoc profile built from EZQUERY_DSN
const envProfileName = "env"

// ApplyEnv loads an optional .env file from the working directory, then
// overlays EZQUERY_* variables onto c. Values are not persisted.
func (c *Config) ApplyEnv() error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return err
	}

	if v := os.Getenv(EnvDSN); v != "" {
		p, err := ParseDSN(envProfileName, v)
		if err != nil {
			return err
		}
		c.upsertProfile(p)
		c.DefaultProfile = envProfileName
	}
	if v := os.Getenv(EnvProfile); v != "" {
		c.DefaultProfile = v
	}
	if v := os.Getenv(EnvHistoryBackend); v != "" {
		c.HistoryBackend = v
	}
	if v := os.Getenv(EnvRemote); v != "" {
		c.Remote = v
	}
	if v := os.Getenv(EnvDefaultLimit); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.DefaultLimit = n
		}
	}
	return nil
}

func (c *Config) upsertProfile(p Profile) {
	for i := range c.Profiles {
		if c.Profiles[i].Name == p.Name {
			c.Profiles[i] = p
			return
		}
	}
	c.Profiles = append(c.Profiles, p)
}
