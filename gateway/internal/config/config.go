package config

import (
	"os"

	pkgcfg "github.com/gramseva/panchayat-backend/pkg/config"
)

type Config struct {
	ListenAddr string
	AuthURL    string
	ContentURL string
	SearchURL  string
	JWTSecret  []byte
}

func Load() *Config {
	return &Config{
		ListenAddr: pkgcfg.EnvDefault("GATEWAY_ADDR", ":8080"),
		AuthURL:    os.Getenv("AUTH_URL"),
		ContentURL: os.Getenv("CONTENT_URL"),
		SearchURL:  os.Getenv("SEARCH_URL"),
		JWTSecret:  []byte(os.Getenv("JWT_SECRET")),
	}
}

func (c *Config) MustValidate() {
	pkgcfg.MustNonEmpty(c.AuthURL, "AUTH_URL")
	pkgcfg.MustNonEmpty(c.ContentURL, "CONTENT_URL")
	pkgcfg.MustNonEmpty(c.SearchURL, "SEARCH_URL")
	pkgcfg.MustNonEmptyBytes(c.JWTSecret, "JWT_SECRET")
}
