package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Etcd     EtcdConfig     `mapstructure:"etcd"`
	Redis    RedisConfig    `mapstructure:"redis"`
	MySQL    MySQLConfig    `mapstructure:"mysql"`
	MongoDB  MongoDBConfig  `mapstructure:"mongodb"`
	Gateway  GatewayConfig  `mapstructure:"gateway"`
	Log      LogConfig      `mapstructure:"log"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Checkout CheckoutConfig `mapstructure:"checkout"`
}

// ServerConfig describes the gRPC storefront listener.
type ServerConfig struct {
	Name    string `mapstructure:"name"`
	Port    int    `mapstructure:"port"`
	Host    string `mapstructure:"host"`
	Enabled bool   `mapstructure:"enabled"`
}

type EtcdConfig struct {
	Endpoints   []string      `mapstructure:"endpoints"`
	DialTimeout time.Duration `mapstructure:"dial_timeout"`
	Prefix      string        `mapstructure:"prefix"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
	// OrderCache mirrors placed orders into redis for other services.
	OrderCache bool `mapstructure:"order_cache"`
}

type MySQLConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	Username     string `mapstructure:"username"`
	Password     string `mapstructure:"password"`
	Database     string `mapstructure:"database"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
}

type MongoDBConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	URI        string `mapstructure:"uri"`
	Database   string `mapstructure:"database"`
	Collection string `mapstructure:"collection"`
}

type GatewayConfig struct {
	Port           int      `mapstructure:"port"`
	Host           string   `mapstructure:"host"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type LogConfig struct {
	Level       string   `mapstructure:"level"`
	Encoding    string   `mapstructure:"encoding"`
	OutputPaths []string `mapstructure:"output_paths"`
}

// StorageConfig selects the key/value backend holding carts, favorites,
// order history and preferences.
type StorageConfig struct {
	Backend   string `mapstructure:"backend"` // memory, redis, etcd
	Namespace string `mapstructure:"namespace"`
}

type CheckoutConfig struct {
	TaxRate         float64       `mapstructure:"tax_rate"`
	PickupMinutes   int           `mapstructure:"pickup_minutes"`
	DeliveryMinutes int           `mapstructure:"delivery_minutes"`
	ProcessingDelay time.Duration `mapstructure:"processing_delay"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
	// SinkTimeout bounds each background delivery to the audit, archive and
	// cache sinks.
	SinkTimeout time.Duration `mapstructure:"sink_timeout"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.name", "storefront-service")
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 50053)
	v.SetDefault("server.enabled", true)
	v.SetDefault("gateway.host", "0.0.0.0")
	v.SetDefault("gateway.port", 8080)
	v.SetDefault("gateway.allowed_origins", []string{"*"})
	v.SetDefault("etcd.dial_timeout", 5*time.Second)
	v.SetDefault("etcd.prefix", "/services/")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("mongodb.collection", "audit_logs")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "json")
	v.SetDefault("log.output_paths", []string{"stdout"})
	v.SetDefault("storage.backend", "memory")
	v.SetDefault("storage.namespace", "brewBuddy")
	v.SetDefault("checkout.tax_rate", 0.08)
	v.SetDefault("checkout.pickup_minutes", 15)
	v.SetDefault("checkout.delivery_minutes", 30)
	v.SetDefault("checkout.processing_delay", 2*time.Second)
	v.SetDefault("checkout.request_timeout", 10*time.Second)
	v.SetDefault("checkout.sink_timeout", 5*time.Second)
}

// Load reads the YAML file at configPath. An empty path skips the file and
// uses defaults plus BREWBUDDY_* environment overrides.
func Load(configPath string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("BREWBUDDY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")

		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Default returns the configuration used when no file is supplied.
func Default() *Config {
	v := viper.New()
	setDefaults(v)

	var config Config
	// defaults always decode
	_ = v.Unmarshal(&config)
	return &config
}

// Validate rejects settings the storefront cannot run with.
func (c *Config) Validate() error {
	if c.Checkout.TaxRate < 0 {
		return fmt.Errorf("invalid config: checkout.tax_rate must not be negative")
	}
	if c.Checkout.ProcessingDelay < 0 {
		return fmt.Errorf("invalid config: checkout.processing_delay must not be negative")
	}
	if c.Checkout.RequestTimeout <= 0 {
		return fmt.Errorf("invalid config: checkout.request_timeout must be positive")
	}
	// checkout runs inside the request, so the delay has to fit in it
	if c.Checkout.ProcessingDelay >= c.Checkout.RequestTimeout {
		return fmt.Errorf("invalid config: checkout.processing_delay (%s) must be shorter than checkout.request_timeout (%s)",
			c.Checkout.ProcessingDelay, c.Checkout.RequestTimeout)
	}
	return nil
}

func (c *MySQLConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.Username, c.Password, c.Host, c.Port, c.Database)
}

func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func (c *GatewayConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
