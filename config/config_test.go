package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ORDERS_SOURCE", "")
	t.Setenv("KAFKA_BROKERS", "")
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("STATUS_TICK_SECONDS", "")
	t.Setenv("ARRIVAL_TICK_SECONDS", "")
	t.Setenv("ARRIVAL_SEQUENCE_START", "")

	cfg := Load()

	assert.Equal(t, "generated", cfg.Orders.Source)
	assert.Equal(t, 5*time.Second, cfg.Simulation.StatusInterval)
	assert.Equal(t, 10*time.Second, cfg.Simulation.ArrivalInterval)
	assert.Equal(t, 20, cfg.Simulation.SequenceStart)
	assert.True(t, cfg.Simulation.Enabled)
	assert.Empty(t, cfg.Kafka.Brokers)
	assert.Empty(t, cfg.Redis.Addr)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ORDERS_SOURCE", "file")
	t.Setenv("ORDERS_PATH", "/tmp/orders.json")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("STATUS_TICK_SECONDS", "1")
	t.Setenv("SIMULATION_ENABLED", "false")
	t.Setenv("SIMULATION_SEED", "99")
	t.Setenv("REDIS_DB", "not-a-number")

	cfg := Load()

	assert.Equal(t, "file", cfg.Orders.Source)
	assert.Equal(t, "/tmp/orders.json", cfg.Orders.Path)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, time.Second, cfg.Simulation.StatusInterval)
	assert.False(t, cfg.Simulation.Enabled)
	assert.Equal(t, int64(99), cfg.Simulation.Seed)
	assert.Equal(t, int64(99), cfg.Orders.Seed)
	assert.Equal(t, 0, cfg.Redis.DB)
}
