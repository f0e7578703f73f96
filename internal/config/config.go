package config

import (
	"encoding/hex"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"

	"citas-medicas-server/internal/models"
)

// Config holds all configuration for our application
type Config struct {
	Port        string `mapstructure:"PORT"`
	Origin      string `mapstructure:"ORIGIN"`
	Environment string `mapstructure:"ENV"`
	LogLevel    string `mapstructure:"LOG_LEVEL"`
	LogFormat   string `mapstructure:"LOG_FORMAT"`

	BcryptCost           int    `mapstructure:"BCRYPT_COST"`
	AppointmentPolicy    string `mapstructure:"APPOINTMENT_POLICY"`
	PaymentEncryptionKey string `mapstructure:"PAYMENT_ENCRYPTION_KEY"`

	LoginRateLimitRPS   float64 `mapstructure:"LOGIN_RATE_LIMIT_RPS"`
	LoginRateLimitBurst int     `mapstructure:"LOGIN_RATE_LIMIT_BURST"`

	// TrustedProxies is a comma separated list of IPs or CIDRs whose
	// X-Forwarded-For header is believed. Empty means the socket peer only.
	TrustedProxies string `mapstructure:"TRUSTED_PROXIES"`

	Database DatabaseConfig `mapstructure:",squash"`
}

// DatabaseConfig holds database connection details
type DatabaseConfig struct {
	Host            string        `mapstructure:"DB_HOST"`
	Port            string        `mapstructure:"DB_PORT"`
	Username        string        `mapstructure:"DB_USER"`
	Password        string        `mapstructure:"DB_PASSWORD"`
	Name            string        `mapstructure:"DB_NAME"`
	MaxConns        int           `mapstructure:"DB_MAX_CONNS"`
	MaxIdleConns    int           `mapstructure:"DB_MAX_IDLE_CONNS"`
	ConnMaxLifetime time.Duration `mapstructure:"DB_CONN_MAX_LIFETIME"`
}

var defaults = map[string]any{
	"PORT":                   "3000",
	"ORIGIN":                 "*",
	"ENV":                    "development",
	"LOG_LEVEL":              "info",
	"LOG_FORMAT":             "json",
	"BCRYPT_COST":            10,
	"APPOINTMENT_POLICY":     string(models.PolicyPermissive),
	"PAYMENT_ENCRYPTION_KEY": "",
	"LOGIN_RATE_LIMIT_RPS":   0,
	"LOGIN_RATE_LIMIT_BURST": 10,
	"TRUSTED_PROXIES":        "",
	"DB_HOST":                "localhost",
	"DB_PORT":                "3306",
	"DB_USER":                "root",
	"DB_PASSWORD":            "",
	"DB_NAME":                "citasmedicas",
	"DB_MAX_CONNS":           10,
	"DB_MAX_IDLE_CONNS":      5,
	"DB_CONN_MAX_LIFETIME":   "1h",
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	for key, value := range defaults {
		v.SetDefault(key, value)
		// Bind explicitly so Unmarshal sees keys that only exist in the environment
		_ = v.BindEnv(key)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.AppointmentPolicy = strings.ToLower(strings.TrimSpace(cfg.AppointmentPolicy))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration is usable before the server starts.
func (c *Config) Validate() error {
	if _, err := models.ParseAppointmentPolicy(c.AppointmentPolicy); err != nil {
		return fmt.Errorf("invalid APPOINTMENT_POLICY: %w", err)
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("BCRYPT_COST must be between %d and %d, got %d", bcrypt.MinCost, bcrypt.MaxCost, c.BcryptCost)
	}
	if c.Database.MaxConns < 1 {
		return fmt.Errorf("DB_MAX_CONNS must be positive, got %d", c.Database.MaxConns)
	}
	if c.LoginRateLimitRPS < 0 {
		return fmt.Errorf("LOGIN_RATE_LIMIT_RPS must not be negative")
	}
	if _, err := c.PaymentKey(); err != nil {
		return err
	}
	for _, p := range c.TrustedProxyList() {
		if net.ParseIP(p) != nil {
			continue
		}
		if _, _, err := net.ParseCIDR(p); err != nil {
			return fmt.Errorf("TRUSTED_PROXIES: %q is neither an IP nor a CIDR", p)
		}
	}
	return nil
}

// TrustedProxyList splits TRUSTED_PROXIES. It returns nil when unset.
func (c *Config) TrustedProxyList() []string {
	var out []string
	for _, p := range strings.Split(c.TrustedProxies, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Policy returns the parsed appointment transition policy.
func (c *Config) Policy() models.AppointmentPolicy {
	p, err := models.ParseAppointmentPolicy(c.AppointmentPolicy)
	if err != nil {
		return models.PolicyPermissive
	}
	return p
}

// PaymentKey decodes PAYMENT_ENCRYPTION_KEY. A nil key means card fields are
// stored as received.
func (c *Config) PaymentKey() ([]byte, error) {
	if c.PaymentEncryptionKey == "" {
		return nil, nil
	}
	key, err := hex.DecodeString(c.PaymentEncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("PAYMENT_ENCRYPTION_KEY is not valid hex: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("PAYMENT_ENCRYPTION_KEY must be 32 bytes (64 hex chars), got %d bytes", len(key))
	}
	return key, nil
}

// IsDev reports whether the server runs with development defaults.
func (c *Config) IsDev() bool {
	return c.Environment == "development"
}

// DSN builds the MySQL data source name.
//
// clientFoundRows makes UPDATE report matched rows instead of changed rows,
// so re-applying the same estado is not mistaken for a missing appointment.
func (d DatabaseConfig) DSN() string {
	mc := mysql.NewConfig()
	mc.User = d.Username
	mc.Passwd = d.Password
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(d.Host, d.Port)
	mc.DBName = d.Name
	mc.ClientFoundRows = true
	mc.ParseTime = true
	mc.Loc = time.Local
	mc.Params = map[string]string{"charset": "utf8mb4"}
	return mc.FormatDSN()
}
