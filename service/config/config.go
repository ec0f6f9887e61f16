package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// public
const (
	DefaultPath     = "config/default.yaml"
	UnmappedSector  = "UNMAPPED"
	DefaultExchange = "XNSE"
)

// private
const (
	defaultHost        = "127.0.0.1"
	defaultPort        = 8501
	defaultSQLitePath  = "stock_analysis.db"
	defaultRankSize    = 10
	defaultLeadersSize = 5
	defaultMonthlySize = 5
	defaultWorkers     = 4
	defaultAvTimeout   = 30 * time.Second
)

//go:embed sectors.yaml
var defaultSectors []byte

type Config struct {
	Server       ServerConfig       `yaml:"server"`
	Database     DatabaseConfig     `yaml:"database"`
	Report       ReportConfig       `yaml:"report"`
	Ingest       IngestConfig       `yaml:"ingest"`
	AlphaVantage AlphaVantageConfig `yaml:"alpha_vantage"`
	Sectors      map[string]string  `yaml:"sectors"`
}

type ServerConfig struct {
	Host         string   `yaml:"host"`
	Port         int      `yaml:"port"`
	AllowOrigins []string `yaml:"allow_origins"`
}

type DatabaseConfig struct {
	Driver string `yaml:"driver"` // postgres or sqlite
	URL    string `yaml:"url"`
	Path   string `yaml:"path"`
}

type ReportConfig struct {
	DefaultPeriod string `yaml:"default_period"`
	RankSize      int    `yaml:"rank_size"`
	LeadersSize   int    `yaml:"leaders_size"`
	MonthlySize   int    `yaml:"monthly_size"`
}

type IngestConfig struct {
	Dir      string `yaml:"dir"`
	Workers  int    `yaml:"workers"`
	Exchange string `yaml:"exchange"` // MIC of the trading calendar
}

type AlphaVantageConfig struct {
	APIKey  string        `yaml:"api_key"`
	Timeout time.Duration `yaml:"timeout"`
}

// Load reads the yaml file at path (a missing file is fine), then .env, then environment
// overrides, fills defaults and validates.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if err := yaml.Unmarshal(defaultSectors, &cfg.Sectors); err != nil {
		return nil, fmt.Errorf("failed to parse embedded sector mapping: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			log.Printf("config file %s not found, using defaults", path)
		case err != nil:
			return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
		default:
			if err := cfg.merge(data); err != nil {
				return nil, err
			}
		}
	}

	// load in environment variables from .env file
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf(".env not loaded: %v", err)
	}

	cfg.applyEnv()
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// merge overlays file values; sectors in the file extend and override the embedded mapping
func (c *Config) merge(data []byte) error {
	sectors := c.Sectors
	c.Sectors = nil

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config from YAML: %w", err)
	}

	for symbol, sector := range c.Sectors {
		sectors[strings.ToUpper(symbol)] = sector
	}
	c.Sectors = sectors
	return nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.Database.URL = v
		if c.Database.Driver == "" {
			c.Database.Driver = "postgres"
		}
	}
	if v := os.Getenv("DATABASE_DRIVER"); v != "" {
		c.Database.Driver = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv("ALPHAVANTAGE_API_KEY"); v != "" {
		c.AlphaVantage.APIKey = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		} else {
			log.Printf("ignoring PORT=%q: %v", v, err)
		}
	}
}

func (c *Config) applyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = defaultHost
	}
	if c.Server.Port == 0 {
		c.Server.Port = defaultPort
	}
	if len(c.Server.AllowOrigins) == 0 {
		c.Server.AllowOrigins = []string{"http://localhost:3000", "http://localhost:8501"}
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "sqlite"
	}
	if c.Database.Driver == "sqlite" && c.Database.Path == "" {
		c.Database.Path = defaultSQLitePath
	}
	if c.Report.RankSize == 0 {
		c.Report.RankSize = defaultRankSize
	}
	if c.Report.LeadersSize == 0 {
		c.Report.LeadersSize = defaultLeadersSize
	}
	if c.Report.MonthlySize == 0 {
		c.Report.MonthlySize = defaultMonthlySize
	}
	if c.Ingest.Workers == 0 {
		c.Ingest.Workers = defaultWorkers
	}
	if c.Ingest.Exchange == "" {
		c.Ingest.Exchange = DefaultExchange
	}
	if c.AlphaVantage.Timeout == 0 {
		c.AlphaVantage.Timeout = defaultAvTimeout
	}
}

// Validate performs basic configuration validation
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port number: %d", c.Server.Port)
	}

	switch c.Database.Driver {
	case "postgres":
		if c.Database.URL == "" {
			return fmt.Errorf("database url cannot be empty for postgres")
		}
	case "sqlite":
		if c.Database.Path == "" {
			return fmt.Errorf("database path cannot be empty for sqlite")
		}
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}

	if c.Report.RankSize < 0 || c.Report.LeadersSize < 0 || c.Report.MonthlySize < 0 {
		return fmt.Errorf("report sizes cannot be negative")
	}
	if c.Ingest.Workers < 1 {
		return fmt.Errorf("ingest workers must be at least 1")
	}
	return nil
}

// DSN is the connection string for the configured driver
func (c *Config) DSN() string {
	if c.Database.Driver == "postgres" {
		return c.Database.URL
	}
	return c.Database.Path
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// SectorOf returns the configured sector for a symbol, or UnmappedSector
func (c *Config) SectorOf(symbol string) string {
	if sector, ok := c.Sectors[strings.ToUpper(symbol)]; ok {
		return sector
	}
	return UnmappedSector
}
