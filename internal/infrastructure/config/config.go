package config

import (
	"time"

	"github.com/slikapay/payment-engine/internal/domain/entity"
	"github.com/slikapay/payment-engine/internal/infrastructure/adapter/database"
)

// Config holds all configuration for the application
type Config struct {
	Environment string          `mapstructure:"environment"`
	Server      ServerConfig    `mapstructure:"server"`
	Database    DatabaseConfig  `mapstructure:"database"`
	Logger      LoggerConfig    `mapstructure:"logger"`
	Gateway     GatewayConfig   `mapstructure:"gateway"`
	Payment     PaymentConfig   `mapstructure:"payment"`
	Merchants   MerchantsConfig `mapstructure:"merchants"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host              string        `mapstructure:"host"`
	Port              int           `mapstructure:"port"`
	ReadTimeout       time.Duration `mapstructure:"readTimeout"`       // seconds
	WriteTimeout      time.Duration `mapstructure:"writeTimeout"`      // seconds
	IdleTimeout       time.Duration `mapstructure:"idleTimeout"`       // seconds
	ReadHeaderTimeout time.Duration `mapstructure:"readHeaderTimeout"` // seconds
	ShutdownTimeout   time.Duration `mapstructure:"shutdownTimeout"`   // seconds
}

// DatabaseConfig contains database connection settings
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Username        string        `mapstructure:"username"`
	Password        string        `mapstructure:"password"`
	Database        string        `mapstructure:"database"`
	SSLMode         string        `mapstructure:"sslMode"`
	MaxOpenConns    int           `mapstructure:"maxOpenConns"`
	MaxIdleConns    int           `mapstructure:"maxIdleConns"`
	ConnMaxLifetime time.Duration `mapstructure:"connMaxLifetime"` // minutes
	ConnMaxIdleTime time.Duration `mapstructure:"connMaxIdleTime"` // minutes
	QueryTimeout    time.Duration `mapstructure:"queryTimeout"`    // seconds
	LogLevel        string        `mapstructure:"logLevel"`
	RetryAttempts   int           `mapstructure:"retryAttempts"`
	RetryDelay      time.Duration `mapstructure:"retryDelay"` // seconds
}

// ToAdapterConfig converts to the database adapter's own config type
func (d *DatabaseConfig) ToAdapterConfig() *database.Config {
	return &database.Config{
		Host:            d.Host,
		Port:            d.Port,
		Username:        d.Username,
		Password:        d.Password,
		Database:        d.Database,
		SSLMode:         d.SSLMode,
		MaxOpenConns:    d.MaxOpenConns,
		MaxIdleConns:    d.MaxIdleConns,
		ConnMaxLifetime: d.ConnMaxLifetime,
		ConnMaxIdleTime: d.ConnMaxIdleTime,
		QueryTimeout:    d.QueryTimeout,
		LogLevel:        d.LogLevel,
		RetryAttempts:   d.RetryAttempts,
		RetryDelay:      d.RetryDelay,
	}
}

// LoggerConfig contains logger settings
type LoggerConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// GatewayConfig contains payment gateway client settings
type GatewayConfig struct {
	BaseURL        string        `mapstructure:"baseUrl"`
	APIKey         string        `mapstructure:"apiKey"`
	Secret         string        `mapstructure:"secret"`
	OrderPrefix    string        `mapstructure:"orderPrefix"`
	RetryAttempts  int           `mapstructure:"retryAttempts"`
	RetryBaseDelay time.Duration `mapstructure:"retryBaseDelay"` // milliseconds
	RatePause      time.Duration `mapstructure:"ratePause"`      // milliseconds
	CreateTimeout  time.Duration `mapstructure:"createTimeout"`  // seconds
	StatusTimeout  time.Duration `mapstructure:"statusTimeout"`  // seconds
	RefundTimeout  time.Duration `mapstructure:"refundTimeout"`  // seconds
	HealthTimeout  time.Duration `mapstructure:"healthTimeout"`  // seconds
}

// PaymentConfig contains payment processing settings
type PaymentConfig struct {
	MaxAmountMinor      int64 `mapstructure:"maxAmountMinor"`
	HistoryDefaultLimit int   `mapstructure:"historyDefaultLimit"`
	HistoryMaxLimit     int   `mapstructure:"historyMaxLimit"`
	QRSize              int   `mapstructure:"qrSize"`
}

// MerchantProfileConfig is one merchant profile as configured
type MerchantProfileConfig struct {
	MerchantID  string `mapstructure:"merchantId"`
	TerminalID  string `mapstructure:"terminalId"`
	Currency    string `mapstructure:"currency"`
	Language    string `mapstructure:"language"`
	SuccessURL  string `mapstructure:"successUrl"`
	CancelURL   string `mapstructure:"cancelUrl"`
	CallbackURL string `mapstructure:"callbackUrl"`
}

// ToEntity converts a configured profile to the domain type
func (m *MerchantProfileConfig) ToEntity() entity.MerchantProfile {
	return entity.MerchantProfile{
		MerchantID:  m.MerchantID,
		TerminalID:  m.TerminalID,
		Currency:    m.Currency,
		Language:    m.Language,
		SuccessURL:  m.SuccessURL,
		CancelURL:   m.CancelURL,
		CallbackURL: m.CallbackURL,
	}
}

// MerchantsConfig contains the merchant profiles served to the engine
type MerchantsConfig struct {
	// Default applies to any owner without an explicit profile
	Default *MerchantProfileConfig `mapstructure:"default"`
	// Profiles maps owner ids to their specific gateway credentials
	Profiles map[string]MerchantProfileConfig `mapstructure:"profiles"`
}
