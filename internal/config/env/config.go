package env

import (
	"fmt"
	"strings"
	"time"

	"github.com/AliOraei78/MusicLibrarySystem/internal/constant"

	"github.com/spf13/viper"
)

type Config struct {
	App struct {
		Name string `mapstructure:"name"`
	} `mapstructure:"app"`
	Web struct {
		Port    int  `mapstructure:"port"`
		Prefork bool `mapstructure:"prefork"`
		Cors    struct {
			AllowOrigins string `mapstructure:"allow_origins"`
			MaxAge       int    `mapstructure:"max_age"` // seconds a browser may cache a preflight
		} `mapstructure:"cors"`
	} `mapstructure:"web"`
	Log struct {
		Level int `mapstructure:"level"`
	} `mapstructure:"log"`
	Database struct {
		DSN       string `mapstructure:"dsn"`
		ReportDSN string `mapstructure:"report_dsn"`
		Pool      struct {
			Idle     int `mapstructure:"idle"`
			Max      int `mapstructure:"max"`
			Lifetime int `mapstructure:"lifetime"`
		} `mapstructure:"pool"`
		Log struct {
			Level int `mapstructure:"level"`
		} `mapstructure:"log"`
	} `mapstructure:"database"`
	Redis struct {
		Address  string `mapstructure:"address"`
		Password string `mapstructure:"password"`
		DB       int    `mapstructure:"db"`
		Pool     struct {
			Size        int `mapstructure:"size"`
			MinIdle     int `mapstructure:"min_idle"`
			MaxIdle     int `mapstructure:"max_idle"`
			Lifetime    int `mapstructure:"lifetime"`
			IdleTimeout int `mapstructure:"idle_timeout"`
		} `mapstructure:"pool"`
	} `mapstructure:"redis"`
	Cache struct {
		Backend constant.CacheBackend `mapstructure:"backend"`
		TTL     int                   `mapstructure:"ttl"`
	} `mapstructure:"cache"`
	Monitoring struct {
		Otel struct {
			Host string `mapstructure:"host"`
		} `mapstructure:"otel"`
	} `mapstructure:"monitoring"`
}

func NewConfig() *Config {
	config := viper.New()

	// Set configuration file details
	config.SetConfigName("config")
	config.SetConfigType("yml")
	config.AddConfigPath("./../")
	config.AddConfigPath("./")

	config.SetDefault("web.cors.max_age", 600)
	config.SetDefault("cache.backend", string(constant.CacheBackendMemory))
	config.SetDefault("cache.ttl", 300)

	// DATABASE_DSN overrides database.dsn and so on
	config.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	config.AutomaticEnv()

	// Read the configuration file
	if err := config.ReadInConfig(); err != nil {
		panic(fmt.Errorf("fatal error reading config file: %w", err))
	}

	// Unmarshal into the Config struct
	cfg := new(Config)
	if err := config.Unmarshal(cfg); err != nil {
		panic(fmt.Errorf("fatal error unmarshaling config: %w", err))
	}

	return cfg
}

// GetReportDSN falls back to the primary DSN when no report database is configured.
func (c *Config) GetReportDSN() string {
	if c.Database.ReportDSN != "" {
		return c.Database.ReportDSN
	}
	return c.Database.DSN
}

func (c *Config) GetCacheTTL() time.Duration {
	return time.Duration(c.Cache.TTL) * time.Second
}
