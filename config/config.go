// Package config loads application settings from a .env file and environment variables.
// Environment variables always take precedence over .env file values.
package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/padraicbc/raceprogram/program"
)

// Config holds all application configuration.
type Config struct {
	// PostgreSQL – either set DatabaseURL directly, or the individual fields.
	DatabaseURL string
	DBUser      string
	DBPass      string
	DBHost      string
	DBPort      string
	DBName      string
	DBSSLMode   string

	// JWT signing secret (required in production).
	JWTSecret string

	// ProgramID is the identity race accounts must be owned by.
	ProgramID program.Pubkey

	// MaxPlayers and MaxText size the slots checked by cmd/migrate.
	MaxPlayers int
	MaxText    int

	// Server
	Debug      bool
	Port       string
	TLSDomains []string

	// MySQL – used only by cmd/migrate.
	MySQLDSN string
}

// Load reads configuration from a .env file (if present) and then from
// environment variables. Environment variables always win.
func Load() *Config {
	cfg, err := load(newViper())
	if err != nil {
		log.Fatal(err)
	}
	return cfg
}

func load(v *viper.Viper) (*Config, error) {
	// Defaults
	v.SetDefault("DB_USER", "race")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_NAME", "racedata")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("PORT", ":9000")
	v.SetDefault("TLS_DOMAINS", "")
	v.SetDefault("DEBUG", false)
	v.SetDefault("MAX_PLAYERS", 32)
	v.SetDefault("MAX_TEXT", 128)

	cfg := &Config{
		DatabaseURL: v.GetString("DATABASE_URL"),
		DBUser:      v.GetString("DB_USER"),
		DBPass:      v.GetString("DB_PASS"),
		DBHost:      v.GetString("DB_HOST"),
		DBPort:      v.GetString("DB_PORT"),
		DBName:      v.GetString("DB_NAME"),
		DBSSLMode:   v.GetString("DB_SSLMODE"),
		JWTSecret:   v.GetString("JWT_SECRET"),
		MaxPlayers:  v.GetInt("MAX_PLAYERS"),
		MaxText:     v.GetInt("MAX_TEXT"),
		Debug:       v.GetBool("DEBUG"),
		Port:        v.GetString("PORT"),
		TLSDomains:  splitTrimmed(v.GetString("TLS_DOMAINS")),
		MySQLDSN:    v.GetString("MYSQL_DSN"),
	}

	programID := v.GetString("PROGRAM_ID")
	if programID == "" {
		return nil, fmt.Errorf("config: PROGRAM_ID must be set")
	}
	id, err := program.ParsePubkey(programID)
	if err != nil {
		return nil, fmt.Errorf("config: PROGRAM_ID: %w", err)
	}
	cfg.ProgramID = id

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// PostgresDSN returns the full PostgreSQL connection string.
// DATABASE_URL takes precedence over individual fields.
func (c *Config) PostgresDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser,
		c.DBPass,
		c.DBHost,
		c.DBPort,
		c.DBName,
		c.DBSSLMode,
	)
}

// JWTKey returns the JWT signing key as a byte slice.
func (c *Config) JWTKey() []byte {
	return []byte(c.JWTSecret)
}

// SlotSize is the account capacity a fully joined race needs.
func (c *Config) SlotSize() int {
	return program.MaxRecordSize(c.MaxPlayers, c.MaxText)
}

func (c *Config) validate() error {
	if c.DatabaseURL == "" && c.DBPass == "" {
		return fmt.Errorf("config: DATABASE_URL or DB_PASS must be set")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("config: JWT_SECRET must be set")
	}
	if c.MaxPlayers < 0 || c.MaxPlayers > 256 {
		return fmt.Errorf("config: MAX_PLAYERS must be between 0 and 256, got %d", c.MaxPlayers)
	}
	if c.MaxText < 0 {
		return fmt.Errorf("config: MAX_TEXT must not be negative")
	}
	return nil
}

func newViper() *viper.Viper {
	// Silently load .env – OK if the file doesn't exist (production uses real env vars).
	if err := godotenv.Load(); err != nil {
		log.Println("config: no .env file found, using environment variables only")
	}

	v := viper.New()
	v.AutomaticEnv()
	return v
}

func splitTrimmed(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
