package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Games    GamesConfig    `mapstructure:"games"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug, release
}

type DatabaseConfig struct {
	Driver string `mapstructure:"driver"` // postgres, sqlite
	DSN    string `mapstructure:"dsn"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type GamesConfig struct {
	SubmitLockSeconds   int `mapstructure:"submitLockSeconds"`
	RulesetCacheSeconds int `mapstructure:"rulesetCacheSeconds"`
	SearchLimit         int `mapstructure:"searchLimit"`
}

func (g GamesConfig) SubmitLockTTL() time.Duration {
	if g.SubmitLockSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(g.SubmitLockSeconds) * time.Second
}

func (g GamesConfig) RulesetCacheTTL() time.Duration {
	if g.RulesetCacheSeconds <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(g.RulesetCacheSeconds) * time.Second
}

var GlobalConfig *Config

func LoadConfig(path string) {
	viper.SetConfigFile(path)
	viper.SetConfigType("yaml")
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.mode", "debug")
	viper.SetDefault("database.driver", "postgres")
	viper.SetDefault("games.searchLimit", 10)

	if err := viper.ReadInConfig(); err != nil {
		log.Fatalf("Error reading config file, %s", err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		log.Fatalf("Unable to decode into struct, %v", err)
	}
	GlobalConfig = &cfg
}
