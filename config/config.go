package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Session  SessionConfig  `mapstructure:"session"`
	AES      AESConfig      `mapstructure:"aes"`
	Gateway  GatewayConfig  `mapstructure:"gateway"`
	Wallet   WalletConfig   `mapstructure:"wallet"`
	Kafka    KafkaConfig    `mapstructure:"kafka"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug, release, test
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Addr returns the Redis address string.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// JWTConfig covers admin back-office tokens.
type JWTConfig struct {
	Secret string        `mapstructure:"secret"`
	Expiry time.Duration `mapstructure:"expiry"`
	Issuer string        `mapstructure:"issuer"`
}

// SessionConfig covers player session tokens issued by the auth provider.
type SessionConfig struct {
	Secret string `mapstructure:"secret"`
}

type AESConfig struct {
	Key string `mapstructure:"key"` // 32-byte hex-encoded key for AES-256
}

// GatewayConfig holds PIX gateway connection settings. Keys here act as a
// fallback when no credentials are stored in the database.
type GatewayConfig struct {
	BaseURL         string        `mapstructure:"base_url"`
	PublicKey       string        `mapstructure:"public_key"`
	SecretKey       string        `mapstructure:"secret_key"`
	WebhookToken    string        `mapstructure:"webhook_token"`
	CallbackBaseURL string        `mapstructure:"callback_base_url"`
	Timeout         time.Duration `mapstructure:"timeout"`
}

// WalletConfig holds the business rules for balance operations.
type WalletConfig struct {
	MinDeposit    string `mapstructure:"min_deposit"`
	MinWithdrawal string `mapstructure:"min_withdrawal"`
	FeeRate       string `mapstructure:"fee_rate"`
	BonusUSD      string `mapstructure:"bonus_usd"`
	USDBRLRate    string `mapstructure:"usd_brl_rate"`
}

// MinDepositAmount parses the minimum deposit into a decimal.
func (w WalletConfig) MinDepositAmount() decimal.Decimal {
	return decimal.RequireFromString(w.MinDeposit)
}

// MinWithdrawalAmount parses the minimum withdrawal into a decimal.
func (w WalletConfig) MinWithdrawalAmount() decimal.Decimal {
	return decimal.RequireFromString(w.MinWithdrawal)
}

// FeeRateAmount parses the withdrawal fee rate into a decimal.
func (w WalletConfig) FeeRateAmount() decimal.Decimal {
	return decimal.RequireFromString(w.FeeRate)
}

// BonusAmount converts the USD-denominated bonus into local currency.
func (w WalletConfig) BonusAmount() decimal.Decimal {
	usd := decimal.RequireFromString(w.BonusUSD)
	rate := decimal.RequireFromString(w.USDBRLRate)
	return usd.Mul(rate).Round(2)
}

type KafkaConfig struct {
	Enabled bool     `mapstructure:"enabled"`
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Pretty bool   `mapstructure:"pretty"` // human-readable output (dev only)
}

// Load reads configuration from file and environment variables.
// Environment variables override file values. Prefix: CWP_ (Casino Wallet Platform).
// Nested keys use underscore: CWP_DATABASE_HOST, CWP_JWT_SECRET, etc.
func Load(path string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.dbname", "casino_wallet")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 20)
	v.SetDefault("database.min_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "30m")
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.expiry", "24h")
	v.SetDefault("jwt.issuer", "casino-wallet-platform")
	v.SetDefault("session.secret", "")
	v.SetDefault("aes.key", "")
	v.SetDefault("gateway.base_url", "https://app.for4payments.com.br/api/v1")
	v.SetDefault("gateway.public_key", "")
	v.SetDefault("gateway.secret_key", "")
	v.SetDefault("gateway.webhook_token", "")
	v.SetDefault("gateway.callback_base_url", "")
	v.SetDefault("gateway.timeout", "15s")
	v.SetDefault("wallet.min_deposit", "30")
	v.SetDefault("wallet.min_withdrawal", "50")
	v.SetDefault("wallet.fee_rate", "0.10")
	v.SetDefault("wallet.bonus_usd", "136.05")
	v.SetDefault("wallet.usd_brl_rate", "5.58")
	v.SetDefault("kafka.enabled", false)
	v.SetDefault("kafka.brokers", []string{"localhost:9092"})
	v.SetDefault("kafka.topic", "wallet.ledger")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)

	// File config
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables: CWP_DATABASE_HOST -> database.host
	v.SetEnvPrefix("CWP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Config file is optional, env vars can suffice
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}
