package config

import (
	"os"

	pkgcfg "github.com/gramseva/panchayat-backend/pkg/config"
)

type Config struct {
	ServiceName string
	ServerPort  int

	DatabaseURL string

	JWTSecret     []byte
	RefreshSecret []byte
}

func Load() *Config {
	return &Config{
		ServiceName: pkgcfg.EnvDefault("SERVICE_NAME", "auth"),
		ServerPort:  pkgcfg.EnvIntDefault("SERVER_PORT", 8081),

		DatabaseURL: os.Getenv("DATABASE_URL"),

		JWTSecret:     []byte(os.Getenv("JWT_SECRET")),
		RefreshSecret: []byte(os.Getenv("REFRESH_SECRET")),
	}
}

func (c *Config) MustValidate() {
	pkgcfg.MustNonEmpty(c.DatabaseURL, "DATABASE_URL")
	pkgcfg.MustNonEmptyBytes(c.JWTSecret, "JWT_SECRET")
	pkgcfg.MustNonEmptyBytes(c.RefreshSecret, "REFRESH_SECRET")
}
