package config

import (
	"log"
	"os"

	pkgcfg "github.com/gramseva/panchayat-backend/pkg/config"
)

type Config struct {
	ServiceName string
	ServerPort  int

	ESURL      string
	ESUser     string
	ESPassword string
	ESIndex    string

	KafkaBrokers []string
	KafkaGroupID string
}

func Load() *Config {
	return &Config{
		ServiceName: pkgcfg.EnvDefault("SERVICE_NAME", "search"),
		ServerPort:  pkgcfg.EnvIntDefault("SERVER_PORT", 8082),

		ESURL:      pkgcfg.EnvDefault("ES_URL", "http://localhost:9200"),
		ESUser:     os.Getenv("ES_USER"),
		ESPassword: os.Getenv("ES_PASSWORD"),
		ESIndex:    pkgcfg.EnvDefault("ES_INDEX", "documents"),

		KafkaBrokers: pkgcfg.CSV(os.Getenv("KAFKA_BROKERS")),
		KafkaGroupID: pkgcfg.EnvDefault("KAFKA_GROUP_ID", "search-indexer"),
	}
}

func (c *Config) MustValidate() {
	pkgcfg.MustNonEmpty(c.ESURL, "ES_URL")
	if len(c.KafkaBrokers) == 0 {
		log.Fatalf("missing required env KAFKA_BROKERS")
	}
}
