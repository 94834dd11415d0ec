package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	AppName string
	AppEnv  string
	AppPort int

	LogLevel string

	// DataDir overrides the platform app-data directory when set.
	DataDir string

	// External toolchain (optional; defaults resolve from PATH).
	PlaywrightCmd string
	SidecarCmd    string
	SidecarDir    string
}

func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("APP_NAME", "baystate-scraper-runner")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_PORT", 8274)
	v.SetDefault("LOG_LEVEL", "info")

	v.SetDefault("PLAYWRIGHT_CMD", "playwright")
	v.SetDefault("SIDECAR_CMD", "python3")

	return v
}

func NewConfig(v *viper.Viper) (Config, error) {
	cfg := Config{
		AppName: v.GetString("APP_NAME"),
		AppEnv:  v.GetString("APP_ENV"),
		AppPort: v.GetInt("APP_PORT"),

		LogLevel: v.GetString("LOG_LEVEL"),

		DataDir: v.GetString("DATA_DIR"),

		PlaywrightCmd: v.GetString("PLAYWRIGHT_CMD"),
		SidecarCmd:    v.GetString("SIDECAR_CMD"),
		SidecarDir:    v.GetString("SIDECAR_DIR"),
	}

	if cfg.AppPort <= 0 || cfg.AppPort > 65535 {
		return Config{}, fmt.Errorf("invalid APP_PORT %d", cfg.AppPort)
	}
	if strings.TrimSpace(cfg.PlaywrightCmd) == "" {
		return Config{}, fmt.Errorf("invalid PLAYWRIGHT_CMD (empty)")
	}
	if strings.TrimSpace(cfg.SidecarCmd) == "" {
		return Config{}, fmt.Errorf("invalid SIDECAR_CMD (empty)")
	}

	return cfg, nil
}
