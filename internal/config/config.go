// internal/config/config.go
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/adrg/xdg"
)

// Config represents the application configuration
type Config struct {
	DefaultProfile string    `toml:"default_profile"`
	DefaultLimit   int       `toml:"default_limit"`
	MaxLimit       int       `toml:"max_limit"`
	MaxHistory     int       `toml:"max_history"`
	HistoryBackend string    `toml:"history_backend"` // file, sqlite, keyring, memory
	HistoryPath    string    `toml:"history_path,omitempty"`
	ExportDir      string    `toml:"export_dir"`
	QueryTimeout   Duration  `toml:"query_timeout"`
	GatewayAddr    string    `toml:"gateway_addr"`
	Remote         string    `toml:"remote,omitempty"` // gateway base URL; empty runs locally
	Profiles       []Profile `toml:"profiles"`
	Theme          Theme     `toml:"theme_colors"`
	Keys           KeyMap    `toml:"keys"`

	path string
}

// Duration is a time.Duration written as "30s" in TOML
type Duration struct {
	time.Duration
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// Theme defines the color palette
type Theme struct {
	TextPrimary   string `toml:"text_primary"`
	TextSecondary string `toml:"text_secondary"`
	TextFaint     string `toml:"text_faint"`
	Accent        string `toml:"accent"`
	Success       string `toml:"success"`
	Error         string `toml:"error"`
	Highlight     string `toml:"highlight"`
	Warning       string `toml:"warning"`
	BgPrimary     string `toml:"bg_primary"`
	BgSecondary   string `toml:"bg_secondary"`
	BorderColor   string `toml:"border_color"`
}

// KeyMap defines key bindings
type KeyMap struct {
	Execute      []string `toml:"execute"`
	Exit         []string `toml:"exit"`
	Export       []string `toml:"export"`
	History      []string `toml:"history"`
	ClearHistory []string `toml:"clear_history"`
	NextPage     []string `toml:"next_page"`
	PrevPage     []string `toml:"prev_page"`
}

// DefaultConfig returns a config with default values
func DefaultConfig() *Config {
	return &Config{
		DefaultLimit:   100,
		MaxLimit:       1000,
		MaxHistory:     10,
		HistoryBackend: "file",
		ExportDir:      "",
		QueryTimeout:   Duration{30 * time.Second},
		GatewayAddr:    ":8080",
		Profiles:       []Profile{},
		Theme: Theme{
			// Nord
			TextPrimary:   "#D8DEE9",
			TextSecondary: "#81A1C1",
			TextFaint:     "#4C566A",
			Accent:        "#88C0D0",
			Success:       "#A3BE8C",
			Error:         "#BF616A",
			Highlight:     "#8FBCBB",
			Warning:       "#D08770",
			BgPrimary:     "#2E3440",
			BgSecondary:   "#3B4252",
			BorderColor:   "#4C566A",
		},
		Keys: KeyMap{
			Execute:      []string{"ctrl+d", "ctrl+enter"},
			Exit:         []string{"ctrl+c"},
			Export:       []string{"ctrl+e"},
			History:      []string{"ctrl+r"},
			ClearHistory: []string{"ctrl+x"},
			NextPage:     []string{"pgdown"},
			PrevPage:     []string{"pgup"},
		},
	}
}

// ConfigPath returns the XDG-compliant config file path
func ConfigPath() (string, error) {
	return xdg.ConfigFile("ezquery/config.toml")
}

// Load loads the config from the XDG path, creating it on first run
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom loads the config at path, creating a default file if missing.
// Missing sections are back-filled with defaults and written back.
func LoadFrom(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := DefaultConfig()
		cfg.path = path
		if err := cfg.Save(); err != nil {
			return nil, err
		}
		return cfg, nil
	}

	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, err
	}
	cfg.path = path

	if cfg.fillDefaults() {
		// Best effort; in-memory defaults still apply if this fails
		_ = cfg.Save()
	}

	cfg.decryptPasswords()
	return &cfg, nil
}

// fillDefaults populates zero-valued settings and reports whether any changed
func (c *Config) fillDefaults() bool {
	d := DefaultConfig()
	updated := false

	if c.DefaultLimit <= 0 {
		c.DefaultLimit = d.DefaultLimit
		updated = true
	}
	if c.MaxLimit <= 0 {
		c.MaxLimit = d.MaxLimit
		updated = true
	}
	if c.MaxHistory <= 0 {
		c.MaxHistory = d.MaxHistory
		updated = true
	}
	if c.HistoryBackend == "" {
		c.HistoryBackend = d.HistoryBackend
		updated = true
	}
	if c.QueryTimeout.Duration <= 0 {
		c.QueryTimeout = d.QueryTimeout
		updated = true
	}
	if c.GatewayAddr == "" {
		c.GatewayAddr = d.GatewayAddr
		updated = true
	}
	if c.Theme.TextPrimary == "" {
		c.Theme = d.Theme
		updated = true
	}
	if len(c.Keys.Execute) == 0 {
		c.Keys = d.Keys
		updated = true
	}
	return updated
}

// Path returns the file this config was loaded from
func (c *Config) Path() string {
	return c.path
}

// Save writes the config to disk
func (c *Config) Save() error {
	path := c.path
	if path == "" {
		p, err := ConfigPath()
		if err != nil {
			return err
		}
		path = p
		c.path = p
	}

	// Ensure directory exists with secure permissions
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer f.Close()

	c.encryptPasswords()
	return toml.NewEncoder(f).Encode(c)
}

func (c *Config) decryptPasswords() {
	needsKey := false
	for _, p := range c.Profiles {
		if p.EncryptedPassword != "" || p.EncryptedSSHPassword != "" {
			needsKey = true
			break
		}
	}
	if !needsKey {
		return
	}

	key, err := GetMasterKey()
	if err != nil {
		return
	}
	for i := range c.Profiles {
		if c.Profiles[i].EncryptedPassword != "" {
			if plain, err := Decrypt(c.Profiles[i].EncryptedPassword, key); err == nil {
				c.Profiles[i].Password = plain
			}
		}
		if c.Profiles[i].EncryptedSSHPassword != "" {
			if plain, err := Decrypt(c.Profiles[i].EncryptedSSHPassword, key); err == nil {
				c.Profiles[i].SSHPassword = plain
			}
		}
	}
}

func (c *Config) encryptPasswords() {
	needsKey := false
	for _, p := range c.Profiles {
		if p.Password != "" || p.SSHPassword != "" {
			needsKey = true
			break
		}
	}
	if !needsKey {
		return
	}

	key, err := GetMasterKey()
	if err != nil {
		return
	}
	for i := range c.Profiles {
		if c.Profiles[i].Password != "" {
			if enc, err := Encrypt(c.Profiles[i].Password, key); err == nil {
				c.Profiles[i].EncryptedPassword = enc
			}
		}
		if c.Profiles[i].SSHPassword != "" {
			if enc, err := Encrypt(c.Profiles[i].SSHPassword, key); err == nil {
				c.Profiles[i].EncryptedSSHPassword = enc
			}
		}
	}
}
