package config

import "github.com/spf13/viper"

type Config struct {
	App struct {
		Env      string
		LogLevel string `mapstructure:"log_level"`
	} `mapstructure:"app"`

	Database struct {
		Path string
	} `mapstructure:"database"`

	Scenario struct {
		Dir string
	} `mapstructure:"scenario"`
}

// Load reads configuration from an optional file, with BAKE_* environment
// variables taking precedence.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("BAKE")
	v.AutomaticEnv()

	v.SetDefault("app.env", "prod")
	v.SetDefault("app.log_level", "info")
	v.SetDefault("database.path", "bake-tracker.db")

	var c Config
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return c, err
		}
	}
	if err := v.Unmarshal(&c); err != nil {
		return c, err
	}
	return c, nil
}
