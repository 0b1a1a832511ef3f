package config

import "github.com/spf13/viper"

type Config struct {
	ServerPort     string `mapstructure:"SERVER_PORT"`
	RedisAddr      string `mapstructure:"REDIS_ADDR"`
	RedisPassword  string `mapstructure:"REDIS_PASSWORD"`
	MaxUploadBytes int    `mapstructure:"MAX_UPLOAD_BYTES"`
}

func Load() Config {
	viper.AutomaticEnv()
	viper.SetDefault("SERVER_PORT", ":8080")
	viper.SetDefault("REDIS_ADDR", "")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("MAX_UPLOAD_BYTES", 16<<20)

	var cfg Config
	_ = viper.Unmarshal(&cfg)
	return cfg
}
