package config

import (
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Game     GameConfig     `mapstructure:"game"`
}

type ServerConfig struct {
	HTTPAddress    string `mapstructure:"http_address"`
	RPCAddress     string `mapstructure:"rpc_address"`
	MetricsAddress string `mapstructure:"metrics_address"`
}

type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
}

type GameConfig struct {
	RandomSeed  int64 `mapstructure:"random_seed"`
	Debug       bool  `mapstructure:"debug"`
	IdleTimeout int   `mapstructure:"idle_timeout_seconds"`
}

func LoadConfig(path string) (config *Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetDefault("server.http_address", ":8080")
	viper.SetDefault("server.rpc_address", ":8081")
	viper.SetDefault("server.metrics_address", ":9100")
	viper.SetDefault("game.idle_timeout_seconds", 120)

	viper.AutomaticEnv()

	err = viper.ReadInConfig()
	if err != nil {
		return
	}

	err = viper.Unmarshal(&config)
	return
}
