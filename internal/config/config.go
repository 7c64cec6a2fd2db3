package config

import (
	"fmt"
	"net/url"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	StoreMemory    = "memory"
	StoreSQLite    = "sqlite"
	StorePostgres  = "postgres"
	StoreFirestore = "firestore"
)

var validStores = []string{StoreMemory, StoreSQLite, StorePostgres, StoreFirestore}

type Config struct {
	Port     string
	LogLevel string

	// Storage
	Store       string
	SQLitePath  string
	DatabaseURL string
	ProjectID   string
	CacheSize   int

	// AMQP, disabled when AMQPURL is empty
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	DefaultIntervals int
}

// New reads the configuration from the environment. A .env file, when
// present, is loaded first and never overrides variables already set.
func New() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:     getEnv("PORT", "8080"),
		LogLevel: getEnv("LOGLEVEL", "info"),

		Store:       getEnv("STORE", StoreMemory),
		SQLitePath:  getEnv("SQLITEPATH", "./data/ledger.db"),
		DatabaseURL: getEnv("DATABASEURL", ""),
		ProjectID:   getEnv("PROJECTID", ""),
		CacheSize:   getEnvInt("CACHESIZE", 0),

		AMQPURL:      getEnv("AMQPURL", ""),
		AMQPExchange: getEnv("AMQPEXCHANGE", "ledger"),
		AMQPQueue:    getEnv("AMQPQUEUE", "user_messages"),

		DefaultIntervals: getEnvInt("DEFAULTINTERVALS", 24),
	}
}

// Validate reports every configuration problem at once.
func (c *Config) Validate() error {
	var problems []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		problems = append(problems, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if !slices.Contains(validStores, c.Store) {
		problems = append(problems, fmt.Sprintf("invalid store '%s': must be one of %v", c.Store, validStores))
	}
	switch c.Store {
	case StoreSQLite:
		if c.SQLitePath == "" {
			problems = append(problems, "SQLITEPATH cannot be empty when using the sqlite store")
		}
	case StorePostgres:
		if c.DatabaseURL == "" {
			problems = append(problems, "DATABASEURL is required when using the postgres store")
		}
	case StoreFirestore:
		if c.ProjectID == "" {
			problems = append(problems, "PROJECTID is required when using the firestore store")
		}
	}

	if c.CacheSize < 0 {
		problems = append(problems, fmt.Sprintf("invalid cache size %d: must not be negative", c.CacheSize))
	}

	if c.AMQPURL != "" {
		if u, err := url.Parse(c.AMQPURL); err != nil {
			problems = append(problems, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if u.Scheme != "amqp" && u.Scheme != "amqps" {
			problems = append(problems, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", u.Scheme))
		}
		if c.AMQPExchange == "" {
			problems = append(problems, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			problems = append(problems, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.DefaultIntervals < 1 {
		problems = append(problems, fmt.Sprintf("invalid default intervals %d: must be at least 1", c.DefaultIntervals))
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}
