package config

import "github.com/spf13/viper"

type Config struct {
	ServerAddress string `mapstructure:"SERVER_ADDRESS"`
	DatabasePath  string `mapstructure:"DATABASE_PATH"`
	GeminiAPIKey  string `mapstructure:"GEMINI_API_KEY"`
	MachineID     int64  `mapstructure:"MACHINE_ID"`

	// AllowClosedChat keeps messaging open on terminal negotiations
	// (post-deal logistics chat). On by default.
	AllowClosedChat bool `mapstructure:"ALLOW_CLOSED_CHAT"`
}

// Load reads the configuration from the environment. Defaults cover local
// development; .env / SSM loading happens before this in main.
func Load() (cfg Config, err error) {
	viper.SetDefault("SERVER_ADDRESS", ":7070")
	viper.SetDefault("DATABASE_PATH", "database.db")
	viper.SetDefault("GEMINI_API_KEY", "")
	viper.SetDefault("MACHINE_ID", 1)
	viper.SetDefault("ALLOW_CLOSED_CHAT", true)
	viper.AutomaticEnv()

	err = viper.Unmarshal(&cfg)
	return
}
