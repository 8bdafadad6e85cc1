package config

import (
	"os"

	pkgcfg "github.com/gramseva/panchayat-backend/pkg/config"
)

type Config struct {
	ServiceName string
	ServerPort  int
	LogLevel    string

	DatabaseURL string

	JWTAccessSecret []byte

	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
	DriveScope         string
	DriveFolderName    string

	TokenEncryptionKey string
	FrontendURL        string

	KafkaBrokers []string
}

func Load() Config {
	return Config{
		ServiceName: pkgcfg.EnvDefault("SERVICE_NAME", "content"),
		ServerPort:  pkgcfg.EnvIntDefault("SERVER_PORT", 8080),
		LogLevel:    pkgcfg.EnvDefault("LOG_LEVEL", "info"),

		DatabaseURL: os.Getenv("DATABASE_URL"),

		JWTAccessSecret: []byte(os.Getenv("JWT_SECRET")),

		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		GoogleRedirectURL:  os.Getenv("GOOGLE_REDIRECT_URL"),
		DriveScope:         pkgcfg.EnvDefault("GOOGLE_DRIVE_SCOPE", "https://www.googleapis.com/auth/drive.file"),
		DriveFolderName:    pkgcfg.EnvDefault("DRIVE_FOLDER_NAME", "Panchayat Documents"),

		TokenEncryptionKey: os.Getenv("TOKEN_ENCRYPTION_KEY"),
		FrontendURL:        pkgcfg.EnvDefault("FRONTEND_URL", "http://localhost:3000"),

		KafkaBrokers: pkgcfg.CSV(os.Getenv("KAFKA_BROKERS")),
	}
}

// MustValidate fails the process on missing required configuration.
// The encryption key in particular must never be generated in-process.
func (c Config) MustValidate() {
	pkgcfg.MustNonEmpty(c.DatabaseURL, "DATABASE_URL")
	pkgcfg.MustNonEmptyBytes(c.JWTAccessSecret, "JWT_SECRET")
	pkgcfg.MustNonEmpty(c.GoogleClientID, "GOOGLE_CLIENT_ID")
	pkgcfg.MustNonEmpty(c.GoogleClientSecret, "GOOGLE_CLIENT_SECRET")
	pkgcfg.MustNonEmpty(c.GoogleRedirectURL, "GOOGLE_REDIRECT_URL")
	pkgcfg.MustNonEmpty(c.TokenEncryptionKey, "TOKEN_ENCRYPTION_KEY")
	pkgcfg.MustOneOf(c.LogLevel, "LOG_LEVEL", []string{"debug", "info", "warn", "error"})
}
