package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, "data/cal_fire_damage.csv", cfg.DataPath)
	assert.Equal(t, "damage_inspections", cfg.DataTable)
	assert.Empty(t, cfg.BoundariesPath)
	assert.Equal(t, "CountyName", cfg.BoundariesNameProperty)
	assert.Equal(t, 10, cfg.TopNCounties)
	assert.Equal(t, "union", cfg.MapSelectionMode)
	assert.True(t, cfg.MapSelectionLive)
	assert.Equal(t, 1000, cfg.MaxSessions)
	assert.Equal(t, 256, cfg.ResultCacheSize)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.False(t, cfg.KafkaEnabled)
	assert.Equal(t, "wildfire-dashboard-snapshots", cfg.KafkaSnapshotTopic)
	assert.Equal(t, 5*time.Second, cfg.PublishTimeout)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("DATA_PATH", "/data/dins.xlsx")
	t.Setenv("DATA_TABLE", "inspections")
	t.Setenv("BOUNDARIES_PATH", "/data/counties.geojson")
	t.Setenv("BOUNDARIES_NAME_PROPERTY", "NAME")
	t.Setenv("TOP_N_COUNTIES", "5")
	t.Setenv("MAP_SELECTION_MODE", "Replace")
	t.Setenv("MAP_SELECTION_LIVE", "false")
	t.Setenv("MAX_SESSIONS", "20")
	t.Setenv("RESULT_CACHE_SIZE", "0")
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("KAFKA_SNAPSHOT_TOPIC", "snapshots")
	t.Setenv("PUBLISH_TIMEOUT", "2s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, "/data/dins.xlsx", cfg.DataPath)
	assert.Equal(t, "inspections", cfg.DataTable)
	assert.Equal(t, "/data/counties.geojson", cfg.BoundariesPath)
	assert.Equal(t, "NAME", cfg.BoundariesNameProperty)
	assert.Equal(t, 5, cfg.TopNCounties)
	assert.Equal(t, "replace", cfg.MapSelectionMode)
	assert.False(t, cfg.MapSelectionLive)
	assert.Equal(t, 20, cfg.MaxSessions)
	assert.Equal(t, 0, cfg.ResultCacheSize)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.True(t, cfg.KafkaEnabled)
	assert.Equal(t, "snapshots", cfg.KafkaSnapshotTopic)
	assert.Equal(t, 2*time.Second, cfg.PublishTimeout)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"SHUTDOWN_TIMEOUT", "not-a-duration"},
		{"SHUTDOWN_TIMEOUT", "-1s"},
		{"PUBLISH_TIMEOUT", "bad"},
		{"PUBLISH_TIMEOUT", "0s"},
		{"TOP_N_COUNTIES", "0"},
		{"TOP_N_COUNTIES", "ten"},
		{"TOP_N_COUNTIES", "51"},
		{"MAX_SESSIONS", "0"},
		{"RESULT_CACHE_SIZE", "-1"},
		{"MAP_SELECTION_LIVE", "maybe"},
		{"MAP_SELECTION_MODE", "intersect"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}

func TestLoad_KafkaEnabledWithoutBrokers(t *testing.T) {
	t.Setenv("KAFKA_ENABLED", "true")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "KAFKA_BROKERS")
}

func TestLoad_KafkaExplicitlyDisabled(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "localhost:9092")
	t.Setenv("KAFKA_ENABLED", "false")
	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
}
