package app

import (
	"fmt"
	"strings"
	"time"

	coreconfig "github.com/m3rciful/ticketbot/core/config"
	coredatabase "github.com/m3rciful/ticketbot/core/database"
	"github.com/m3rciful/ticketbot/internal/booking"
)

// Storage drivers.
const (
	DriverJSON     = "json"
	DriverPostgres = "postgres"
)

// StorageConfig selects where confirmed bookings are kept.
type StorageConfig struct {
	Driver string `yaml:"driver" envconfig:"STORAGE_DRIVER"`
	// Path is the JSON file used by the json driver.
	Path string `yaml:"path" envconfig:"STORAGE_PATH"`
}

// BookingConfig tunes the booking dialog.
type BookingConfig struct {
	Airlines []string `yaml:"airlines" envconfig:"BOOKING_AIRLINES"`
	// SessionTTLMinutes drops conversations idle for longer; 0 keeps them until /cancel.
	SessionTTLMinutes int `yaml:"session_ttl_minutes" envconfig:"BOOKING_SESSION_TTL_MINUTES"`
}

// Config is the ticket bot configuration: the core settings plus the booking specific sections.
type Config struct {
	coreconfig.Config `yaml:",inline"`

	Storage  StorageConfig       `yaml:"storage"`
	Database coredatabase.Config `yaml:"database"`
	Booking  BookingConfig       `yaml:"booking"`
}

// CoreConfig exposes the embedded core configuration.
func (c *Config) CoreConfig() *coreconfig.Config {
	if c == nil {
		return nil
	}
	return &c.Config
}

// UsesDatabase reports whether bookings live in postgres.
func (c *Config) UsesDatabase() bool {
	return c != nil && c.Storage.Driver == DriverPostgres
}

// SessionTTL returns the idle conversation timeout, zero when disabled.
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.Booking.SessionTTLMinutes) * time.Minute
}

// Load reads the YAML file at path, overlays the environment and validates the result.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := coreconfig.Decode(path, &cfg); err != nil {
		return nil, err
	}
	if err := coreconfig.Normalize(&cfg.Config); err != nil {
		return nil, err
	}
	if err := normalize(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func normalize(cfg *Config) error {
	driver := strings.ToLower(strings.TrimSpace(cfg.Storage.Driver))
	switch driver {
	case "", "file", DriverJSON:
		driver = DriverJSON
	case "pg", "postgresql", DriverPostgres:
		driver = DriverPostgres
	default:
		return fmt.Errorf("invalid storage.driver %q; allowed: json, postgres", cfg.Storage.Driver)
	}
	cfg.Storage.Driver = driver

	cfg.Storage.Path = strings.TrimSpace(cfg.Storage.Path)
	if cfg.Storage.Path == "" {
		cfg.Storage.Path = booking.DefaultPath
	}

	if driver == DriverPostgres {
		if strings.TrimSpace(cfg.Database.Host) == "" || strings.TrimSpace(cfg.Database.Name) == "" {
			return fmt.Errorf("database.host and database.name are required when storage.driver is 'postgres'")
		}
		if cfg.Database.Port == "" {
			cfg.Database.Port = "5432"
		}
	}

	airlines := cfg.Booking.Airlines[:0]
	for _, a := range cfg.Booking.Airlines {
		if trimmed := strings.TrimSpace(a); trimmed != "" {
			airlines = append(airlines, trimmed)
		}
	}
	cfg.Booking.Airlines = airlines

	if cfg.Booking.SessionTTLMinutes < 0 {
		return fmt.Errorf("booking.session_ttl_minutes must be >= 0")
	}
	return nil
}
