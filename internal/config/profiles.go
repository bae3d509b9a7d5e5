// internal/config/profiles.go
package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/nhath/ezquery/internal/db"
)

// Profile represents a database connection profile
type Profile struct {
	Name     string `toml:"name"`
	Type     string `toml:"type"` // postgres, mysql, sqlite
	Host     string `toml:"host,omitempty"`
	Port     int    `toml:"port,omitempty"`
	User     string `toml:"user,omitempty"`
	Database string `toml:"database"`
	// Password is kept in memory only
	Password string `toml:"-"`
	// EncryptedPassword is what the config file holds
	EncryptedPassword string `toml:"password,omitempty"`

	SSHHost     string `toml:"ssh_host,omitempty"`
	SSHPort     int    `toml:"ssh_port,omitempty"`
	SSHUser     string `toml:"ssh_user,omitempty"`
	SSHPassword string `toml:"-"`
	SSHKeyPath  string `toml:"ssh_key_path,omitempty"`

	EncryptedSSHPassword string `toml:"ssh_password,omitempty"`
}

// GetProfile retrieves a profile by name
func (c *Config) GetProfile(name string) (*Profile, error) {
	for i := range c.Profiles {
		if c.Profiles[i].Name == name {
			return &c.Profiles[i], nil
		}
	}
	return nil, fmt.Errorf("profile not found: %s", name)
}

// AddProfile adds a new profile to the config
func (c *Config) AddProfile(p Profile) error {
	for _, existing := range c.Profiles {
		if existing.Name == p.Name {
			return fmt.Errorf("profile already exists: %s", p.Name)
		}
	}
	c.Profiles = append(c.Profiles, p)
	return c.Save()
}

// DeleteProfile removes a profile from the config
func (c *Config) DeleteProfile(name string) error {
	for i := range c.Profiles {
		if c.Profiles[i].Name == name {
			c.Profiles = append(c.Profiles[:i], c.Profiles[i+1:]...)
			return c.Save()
		}
	}
	return fmt.Errorf("profile not found: %s", name)
}

// ListProfiles returns all profile names
func (c *Config) ListProfiles() []string {
	names := make([]string, len(c.Profiles))
	for i, p := range c.Profiles {
		names[i] = p.Name
	}
	return names
}

// DriverType maps the profile type onto a db driver
func (p *Profile) DriverType() (db.DriverType, error) {
	switch p.Type {
	case "postgres", "postgresql":
		return db.Postgres, nil
	case "mysql":
		return db.MySQL, nil
	case "sqlite", "":
		return db.SQLite, nil
	default:
		return "", fmt.Errorf("unsupported profile type: %s", p.Type)
	}
}

// ConnectParams builds driver connection parameters from the profile
func (p *Profile) ConnectParams(logger *zap.Logger) db.ConnectParams {
	params := db.ConnectParams{
		Host:     p.Host,
		Port:     p.Port,
		User:     p.User,
		Password: p.Password,
		Database: p.Database,
	}
	if p.SSHHost != "" {
		params.SSHConfig = &db.SSHConfig{
			Host:     p.SSHHost,
			Port:     p.SSHPort,
			User:     p.SSHUser,
			Password: p.SSHPassword,
			KeyPath:  p.SSHKeyPath,
			Logger:   logger,
		}
	}
	return params
}

// BuildDSN renders the profile as a URI for display. The password is never
// included.
func (p *Profile) BuildDSN() string {
	switch p.Type {
	case "postgres", "mysql":
		return fmt.Sprintf("%s://%s@%s:%d/%s", p.Type, p.User, p.Host, p.Port, p.Database)
	case "sqlite", "":
		return fmt.Sprintf("sqlite://%s", p.Database)
	default:
		return ""
	}
}

// ParseDSN parses a connection string into a Profile
func ParseDSN(name, dsn string) (Profile, error) {
	p := Profile{Name: name}

	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		if err := p.fromURL(dsn, "postgres", 5432); err != nil {
			return p, err
		}
	case strings.HasPrefix(dsn, "mysql://"):
		if err := p.fromURL(dsn, "mysql", 3306); err != nil {
			return p, err
		}
	default:
		// sqlite:///path/to.db, file:test.db or a bare path
		p.Type = "sqlite"
		path := strings.TrimPrefix(dsn, "sqlite://")
		p.Database = strings.TrimPrefix(path, "file:")
	}

	return p, nil
}

func (p *Profile) fromURL(dsn, typ string, defaultPort int) error {
	u, err := url.Parse(dsn)
	if err != nil {
		return err
	}
	p.Type = typ
	p.Host = u.Hostname()
	p.Port = defaultPort
	if port := u.Port(); port != "" {
		if p.Port, err = strconv.Atoi(port); err != nil {
			return fmt.Errorf("invalid port %q: %w", port, err)
		}
	}
	p.User = u.User.Username()
	p.Password, _ = u.User.Password()
	p.Database = strings.TrimPrefix(u.Path, "/")
	return nil
}
