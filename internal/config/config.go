package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
)

const (
	HasherBcrypt = "bcrypt"
	HasherPlain  = "plain"

	defaultEnvFile = ".env"
	dateLayout     = "2006-01-02"
)

type Config struct {
	Env      string `mapstructure:"ENV"`
	LogLevel string `mapstructure:"LOG_LEVEL"`

	Doctors       int    `mapstructure:"DOCTORS"`
	Patients      int    `mapstructure:"PATIENTS"`
	Seed          int64  `mapstructure:"SEED"`
	ReferenceDate string `mapstructure:"REFERENCE_DATE"`
	OutputDir     string `mapstructure:"OUTPUT_DIR"`
	OutputFormat  string `mapstructure:"OUTPUT_FORMAT"`

	PasswordHasher string `mapstructure:"PASSWORD_HASHER"`
	BcryptCost     int    `mapstructure:"BCRYPT_COST"`

	Port               string        `mapstructure:"PORT"`
	SandboxSigningKey  string        `mapstructure:"SANDBOX_SIGNING_KEY"`
	SandboxIssuer      string        `mapstructure:"SANDBOX_ISSUER"`
	RegenerateSchedule string        `mapstructure:"REGENERATE_SCHEDULE"`
	BodyLimit          string        `mapstructure:"BODY_LIMIT"`
	RequestTimeout     time.Duration `mapstructure:"REQUEST_TIMEOUT"`

	DatabaseURL   string `mapstructure:"DATABASE_URL"`
	DBMaxConns    int32  `mapstructure:"DB_MAX_CONNS"`
	DBMinConns    int32  `mapstructure:"DB_MIN_CONNS"`
	MongoURI      string `mapstructure:"MONGO_URI"`
	MongoDatabase string `mapstructure:"MONGO_DATABASE"`
}

// flagKeys maps command-line flag names onto config keys. Only flags present
// on the command's FlagSet are bound.
var flagKeys = map[string]string{
	"doctors":        "DOCTORS",
	"patients":       "PATIENTS",
	"seed":           "SEED",
	"reference-date": "REFERENCE_DATE",
	"out":            "OUTPUT_DIR",
	"dir":            "OUTPUT_DIR",
	"format":         "OUTPUT_FORMAT",
	"hasher":         "PASSWORD_HASHER",
	"bcrypt-cost":    "BCRYPT_COST",
	"port":           "PORT",
	"schedule":       "REGENERATE_SCHEDULE",
	"database-url":   "DATABASE_URL",
	"uri":            "MONGO_URI",
	"database":       "MONGO_DATABASE",
	"log-level":      "LOG_LEVEL",
}

// Load reads configuration from, in increasing precedence: defaults, the
// env file, the process environment and explicitly set flags. An empty
// envFile means an optional ./.env; a named file must exist.
func Load(envFile string, flags *pflag.FlagSet) (*Config, error) {
	if err := loadEnvFile(envFile); err != nil {
		return nil, err
	}

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("ENV", "production")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DOCTORS", 10)
	v.SetDefault("PATIENTS", 100)
	v.SetDefault("SEED", 0)
	v.SetDefault("REFERENCE_DATE", "")
	v.SetDefault("OUTPUT_DIR", ".")
	v.SetDefault("OUTPUT_FORMAT", "json")
	v.SetDefault("PASSWORD_HASHER", HasherBcrypt)
	v.SetDefault("BCRYPT_COST", bcrypt.MinCost)
	v.SetDefault("PORT", "8000")
	v.SetDefault("SANDBOX_SIGNING_KEY", "")
	v.SetDefault("SANDBOX_ISSUER", "ehr-fixtures")
	v.SetDefault("REGENERATE_SCHEDULE", "")
	v.SetDefault("BODY_LIMIT", "64K")
	v.SetDefault("REQUEST_TIMEOUT", 30*time.Second)
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("DB_MAX_CONNS", 4)
	v.SetDefault("DB_MIN_CONNS", 1)
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DATABASE", "ehr")

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.PasswordHasher = strings.ToLower(cfg.PasswordHasher)
	cfg.OutputFormat = strings.ToLower(cfg.OutputFormat)
	return cfg, nil
}

func loadEnvFile(path string) error {
	optional := path == ""
	if optional {
		path = defaultEnvFile
	}
	err := godotenv.Load(path)
	if err == nil || (optional && errors.Is(err, os.ErrNotExist)) {
		return nil
	}
	return fmt.Errorf("load env file %s: %w", path, err)
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// Reference parses REFERENCE_DATE. The zero time means "today".
func (c *Config) Reference() (time.Time, error) {
	if c.ReferenceDate == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(dateLayout, c.ReferenceDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("REFERENCE_DATE must be YYYY-MM-DD, got %q", c.ReferenceDate)
	}
	return t, nil
}

// Validate checks the generation settings every command depends on.
func (c *Config) Validate() error {
	if c.Doctors < 1 {
		return fmt.Errorf("DOCTORS must be at least 1, got %d", c.Doctors)
	}
	if c.Patients < 1 {
		return fmt.Errorf("PATIENTS must be at least 1, got %d", c.Patients)
	}
	if c.OutputFormat != "json" && c.OutputFormat != "yaml" {
		return fmt.Errorf("OUTPUT_FORMAT must be \"json\" or \"yaml\", got %q", c.OutputFormat)
	}
	switch c.PasswordHasher {
	case HasherPlain:
	case HasherBcrypt:
		if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
			return fmt.Errorf("BCRYPT_COST must be between %d and %d, got %d", bcrypt.MinCost, bcrypt.MaxCost, c.BcryptCost)
		}
	default:
		return fmt.Errorf("PASSWORD_HASHER must be %q or %q, got %q", HasherBcrypt, HasherPlain, c.PasswordHasher)
	}
	if _, err := c.Reference(); err != nil {
		return err
	}
	if c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("DB_MIN_CONNS (%d) must not exceed DB_MAX_CONNS (%d)", c.DBMinConns, c.DBMaxConns)
	}
	return nil
}
