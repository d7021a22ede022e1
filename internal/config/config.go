package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr           string
	LogLevel           string
	LogFormat          string
	ShutdownTimeout    time.Duration
	CORSAllowedOrigins []string

	// Dataset and map boundary sources.
	DataPath               string
	DataTable              string
	BoundariesPath         string
	BoundariesNameProperty string

	// Filter and aggregation behavior.
	TopNCounties     int
	MapSelectionMode string
	MapSelectionLive bool
	MaxSessions      int
	ResultCacheSize  int

	// Snapshot publishing.
	KafkaBrokers       []string
	KafkaSnapshotTopic string
	KafkaEnabled       bool
	PublishTimeout     time.Duration
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	publishTimeout, err := time.ParseDuration(sharedcfg.EnvOrDefault("PUBLISH_TIMEOUT", "5s"))
	if err != nil || publishTimeout <= 0 {
		return nil, errors.New("invalid PUBLISH_TIMEOUT")
	}

	topN, err := parseIntInRange("TOP_N_COUNTIES", 10, 1, 50)
	if err != nil {
		return nil, err
	}
	maxSessions, err := parseIntInRange("MAX_SESSIONS", 1000, 1, 1_000_000)
	if err != nil {
		return nil, err
	}
	cacheSize, err := parseIntInRange("RESULT_CACHE_SIZE", 256, 0, 1_000_000)
	if err != nil {
		return nil, err
	}

	live, err := parseBool("MAP_SELECTION_LIVE", true)
	if err != nil {
		return nil, err
	}

	var brokers []string
	if raw := os.Getenv("KAFKA_BROKERS"); raw != "" {
		brokers = sharedcfg.ParseBrokers(raw)
	}
	kafkaEnabled := len(brokers) > 0
	if v := os.Getenv("KAFKA_ENABLED"); v != "" {
		kafkaEnabled = v == "true"
	}

	cfg := &Config{
		HTTPAddr:           sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:           sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:          sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout:    shutdownTimeout,
		CORSAllowedOrigins: splitList(sharedcfg.EnvOrDefault("CORS_ALLOWED_ORIGINS", "*")),

		DataPath:               sharedcfg.EnvOrDefault("DATA_PATH", "data/cal_fire_damage.csv"),
		DataTable:              sharedcfg.EnvOrDefault("DATA_TABLE", "damage_inspections"),
		BoundariesPath:         os.Getenv("BOUNDARIES_PATH"),
		BoundariesNameProperty: sharedcfg.EnvOrDefault("BOUNDARIES_NAME_PROPERTY", "CountyName"),

		TopNCounties:     topN,
		MapSelectionMode: strings.ToLower(sharedcfg.EnvOrDefault("MAP_SELECTION_MODE", "union")),
		MapSelectionLive: live,
		MaxSessions:      maxSessions,
		ResultCacheSize:  cacheSize,

		KafkaBrokers:       brokers,
		KafkaSnapshotTopic: sharedcfg.EnvOrDefault("KAFKA_SNAPSHOT_TOPIC", "wildfire-dashboard-snapshots"),
		KafkaEnabled:       kafkaEnabled,
		PublishTimeout:     publishTimeout,
	}

	if cfg.DataPath == "" {
		return nil, errors.New("DATA_PATH is required")
	}
	if cfg.MapSelectionMode != "union" && cfg.MapSelectionMode != "replace" {
		return nil, errors.New("MAP_SELECTION_MODE must be union or replace")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is not set")
	}
	if cfg.KafkaEnabled && cfg.KafkaSnapshotTopic == "" {
		return nil, errors.New("KAFKA_SNAPSHOT_TOPIC is required")
	}

	return cfg, nil
}

func parseIntInRange(key string, def, lo, hi int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < lo || n > hi {
		return 0, errors.New("invalid " + key + ": must be an integer between " + strconv.Itoa(lo) + " and " + strconv.Itoa(hi))
	}
	return n, nil
}

func parseBool(key string, def bool) (bool, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, errors.New("invalid " + key)
	}
	return b, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
