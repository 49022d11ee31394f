package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func validConfig() Config {
	return Config{
		Relay: RelayConfig{
			Host: "127.0.0.1",
			Port: 7420,
			Room: "arena-1",
		},
		Simulation: SimulationConfig{
			TickInterval:     50 * time.Millisecond,
			SwitchInterval:   800 * time.Millisecond,
			ComboResetWindow: 2 * time.Second,
		},
		Arena: ArenaConfig{
			HalfWidth: 50,
			HalfDepth: 50,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

func TestValidConfig(t *testing.T) {
	cfg := validConfig()
	assert.NoError(t, cfg.Validate())
}

func TestRelayAddr(t *testing.T) {
	cfg := validConfig()
	assert.Equal(t, "127.0.0.1:7420", cfg.Relay.Addr())
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yaml")
	err := os.WriteFile(path, []byte(`
relay:
  host: relay.example.internal
  port: 9100
  room: scrims
simulation:
  tick_interval: 25ms
  switch_interval: 500ms
  combo_reset_window: 3s
  lua_instruction_limit: 100000
arena:
  half_width: 30
  half_depth: 40
logging:
  level: debug
  format: console
`), 0644)
	require.NoError(t, err)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "relay.example.internal", cfg.Relay.Host)
	assert.Equal(t, 9100, cfg.Relay.Port)
	assert.Equal(t, "scrims", cfg.Relay.Room)
	assert.Equal(t, 25*time.Millisecond, cfg.Simulation.TickInterval)
	assert.Equal(t, 100000, cfg.Simulation.LuaInstructionLimit)
	assert.Equal(t, 30.0, cfg.Arena.HalfWidth)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "minimal.yaml")
	err := os.WriteFile(path, []byte("relay:\n  room: arena-2\n"), 0644)
	require.NoError(t, err)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "arena-2", cfg.Relay.Room)
	assert.Equal(t, 7420, cfg.Relay.Port)
	assert.Equal(t, 50*time.Millisecond, cfg.Simulation.TickInterval)
	assert.Equal(t, 800*time.Millisecond, cfg.Simulation.SwitchInterval)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadInvalidPath(t *testing.T) {
	_, err := Load("/nonexistent/path.yaml")
	assert.Error(t, err)
}

func TestValidateRelayHostEmpty(t *testing.T) {
	cfg := validConfig()
	cfg.Relay.Host = ""
	assert.Error(t, cfg.Validate())
}

func TestValidateRelayRoomEmpty(t *testing.T) {
	cfg := validConfig()
	cfg.Relay.Room = ""
	assert.Error(t, cfg.Validate())
}

func TestValidateRelayPort(t *testing.T) {
	cfg := validConfig()
	cfg.Relay.Port = 0
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Relay.Port = 65536
	assert.Error(t, cfg.Validate())
}

func TestValidateTickInterval(t *testing.T) {
	cfg := validConfig()
	cfg.Simulation.TickInterval = 0
	assert.Error(t, cfg.Validate())
}

func TestValidateComboResetWindow(t *testing.T) {
	cfg := validConfig()
	cfg.Simulation.ComboResetWindow = 0
	assert.Error(t, cfg.Validate())
}

func TestValidateNegativeInstructionLimit(t *testing.T) {
	cfg := validConfig()
	cfg.Simulation.LuaInstructionLimit = -1
	assert.Error(t, cfg.Validate())
}

func TestValidateArenaDimensions(t *testing.T) {
	cfg := validConfig()
	cfg.Arena.HalfWidth = 0
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Arena.HalfDepth = -5
	assert.Error(t, cfg.Validate())
}

func TestValidateLoggingLevel(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error"} {
		cfg := validConfig()
		cfg.Logging.Level = level
		assert.NoError(t, cfg.Validate(), "level %q should be valid", level)
	}
	cfg := validConfig()
	cfg.Logging.Level = "trace"
	assert.Error(t, cfg.Validate())
}

func TestValidateLoggingFormat(t *testing.T) {
	for _, format := range []string{"json", "console"} {
		cfg := validConfig()
		cfg.Logging.Format = format
		assert.NoError(t, cfg.Validate(), "format %q should be valid", format)
	}
	cfg := validConfig()
	cfg.Logging.Format = "xml"
	assert.Error(t, cfg.Validate())
}

// Property-based tests

func TestPropertyValidPortRange(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		port := rapid.IntRange(1, 65535).Draw(t, "port")
		cfg := validConfig()
		cfg.Relay.Port = port
		err := cfg.Validate()
		if err != nil {
			t.Fatalf("valid port %d rejected: %v", port, err)
		}
	})
}

func TestPropertyInvalidPortRange(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		// Generate ports outside valid range
		port := rapid.OneOf(
			rapid.IntRange(-1000, 0),
			rapid.IntRange(65536, 100000),
		).Draw(t, "port")
		cfg := validConfig()
		cfg.Relay.Port = port
		err := cfg.Validate()
		if err == nil {
			t.Fatalf("invalid port %d accepted", port)
		}
	})
}

func TestPropertyPositiveIntervalsAccepted(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		tickMs := rapid.IntRange(1, 1000).Draw(t, "tick_ms")
		comboMs := rapid.IntRange(1, 10000).Draw(t, "combo_ms")
		cfg := validConfig()
		cfg.Simulation.TickInterval = time.Duration(tickMs) * time.Millisecond
		cfg.Simulation.ComboResetWindow = time.Duration(comboMs) * time.Millisecond
		err := cfg.Validate()
		if err != nil {
			t.Fatalf("valid intervals tick=%dms combo=%dms rejected: %v", tickMs, comboMs, err)
		}
	})
}

func TestPropertyAddrContainsHostAndPort(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		host := rapid.StringMatching(`[a-z]{3,10}`).Draw(t, "host")
		port := rapid.IntRange(1, 65535).Draw(t, "port")

		r := RelayConfig{Host: host, Port: port, Room: "arena-1"}

		addr := r.Addr()
		assert.Contains(t, addr, host)
		assert.Contains(t, addr, ":")
	})
}
