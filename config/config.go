package config

import (
	"encoding/json"
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Salon data.
	DataDir  string `mapstructure:"DATA_DIR"`
	Timezone string `mapstructure:"SALON_TZ"`

	// Availability engine.
	SlotGranularityMin int    `mapstructure:"SLOT_GRANULARITY_MIN"`
	SearchWindowDays   int    `mapstructure:"SEARCH_WINDOW_DAYS"`
	PartyStrategy      string `mapstructure:"PARTY_STRATEGY"` // "parallel" or "sequential"

	// Workflow backend (booking operations + calendar busy lookups).
	WorkflowBaseURL        string `mapstructure:"WORKFLOW_BASE_URL"`
	WorkflowUser           string `mapstructure:"WORKFLOW_USER"`
	WorkflowPass           string `mapstructure:"WORKFLOW_PASS"`
	WorkflowTimeoutSec     int    `mapstructure:"WORKFLOW_TIMEOUT_SEC"`
	WorkflowPathBook       string `mapstructure:"WORKFLOW_PATH_BOOK"`
	WorkflowPathReschedule string `mapstructure:"WORKFLOW_PATH_RESCHEDULE"`
	WorkflowPathCancel     string `mapstructure:"WORKFLOW_PATH_CANCEL"`
	WorkflowPathFind       string `mapstructure:"WORKFLOW_PATH_FIND"`
	WorkflowPathBusy       string `mapstructure:"WORKFLOW_PATH_BUSY"`

	// Staff id -> backing calendar id, as a JSON object string.
	CalendarMapJSON string `mapstructure:"CALENDAR_MAP"`

	// Redis configuration.
	RedisAddr      string `mapstructure:"REDIS_ADDR"`
	RedisPassword  string `mapstructure:"REDIS_PASSWORD"`
	RedisSessionDB int    `mapstructure:"REDIS_SESSION_DB"`
	RedisQueryDB   int    `mapstructure:"REDIS_QUERY_DB"`

	SessionTTLMin int `mapstructure:"SESSION_TTL_MIN"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("DATA_DIR", "db/salon")
	viper.SetDefault("SALON_TZ", "Europe/Madrid")
	viper.SetDefault("SLOT_GRANULARITY_MIN", 30)
	viper.SetDefault("SEARCH_WINDOW_DAYS", 7)
	viper.SetDefault("PARTY_STRATEGY", "parallel")
	viper.SetDefault("WORKFLOW_BASE_URL", "")
	viper.SetDefault("WORKFLOW_TIMEOUT_SEC", 3)
	viper.SetDefault("WORKFLOW_PATH_BOOK", "/api/booking/book")
	viper.SetDefault("WORKFLOW_PATH_RESCHEDULE", "/api/booking/reschedule")
	viper.SetDefault("WORKFLOW_PATH_CANCEL", "/api/booking/cancel")
	viper.SetDefault("WORKFLOW_PATH_FIND", "/api/booking/find-by-phone")
	viper.SetDefault("WORKFLOW_PATH_BUSY", "/api/calendar/busy")
	viper.SetDefault("CALENDAR_MAP", "{}")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_SESSION_DB", 0)
	viper.SetDefault("REDIS_QUERY_DB", 1)
	viper.SetDefault("SESSION_TTL_MIN", 30)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

// CalendarMap decodes the staff -> backing calendar id mapping.
func CalendarMap() map[string]string {
	out := make(map[string]string)
	raw := AppConfig.CalendarMapJSON
	if raw == "" {
		return out
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		log.Printf("Ignoring malformed CALENDAR_MAP: %v", err)
		return map[string]string{}
	}
	return out
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
