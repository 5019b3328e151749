package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Display.Port != "/dev/ttyUSB0" || cfg.Display.ChartPage != 2 || cfg.Display.MediaPage != 3 {
		t.Errorf("display defaults = %+v", cfg.Display)
	}
	if strings.Join(cfg.Market.Symbols, ",") != "ACN,^GSPC,^IXIC" || cfg.Market.Fields["^IXIC"] != "tNAS" {
		t.Errorf("market defaults = %+v", cfg.Market)
	}
	if cfg.MQTT.RetryDelay != 5*time.Second || cfg.MQTT.ClientID != "DesktopBuddy" {
		t.Errorf("mqtt defaults = %+v", cfg.MQTT)
	}
	if cfg.Schedule.HousekeepingHour != 2 || cfg.Schedule.TickClose != "15:35" {
		t.Errorf("schedule defaults = %+v", cfg.Schedule)
	}
}

func TestLoad_YAMLOverridesDefaults(t *testing.T) {
	path := writeFile(t, "config.yaml", `
display:
  port: /dev/ttyS3
  chart_page: 0
market:
  symbols: [MSFT]
  fields:
    MSFT: tAcn
  chart_symbol: MSFT
  timezone: America/New_York
  open: "09:30"
  close: "16:00"
schedule:
  tick: "*/2 * * * *"
  tick_close: "16:05"
  housekeeping_hour: 0
mqtt:
  retry_delay: 30s
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Display.Port != "/dev/ttyS3" || cfg.Display.ChartPage != 0 || cfg.Display.Baud != 115200 {
		t.Errorf("display = %+v", cfg.Display)
	}
	if len(cfg.Market.Symbols) != 1 || cfg.Market.ChartSymbol != "MSFT" {
		t.Errorf("market = %+v", cfg.Market)
	}
	if cfg.Schedule.HousekeepingHour != 0 || cfg.Schedule.DimStartHour != 23 {
		t.Errorf("schedule = %+v", cfg.Schedule)
	}
	if cfg.MQTT.RetryDelay != 30*time.Second {
		t.Errorf("retry delay = %v", cfg.MQTT.RetryDelay)
	}
	cfg.Gateway.Token = "t"
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestLoad_BadYAML(t *testing.T) {
	path := writeFile(t, "config.yaml", "display: [\n")
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("DISPLAY_PORT", "/dev/ttyACM0")
	t.Setenv("MQTT_USERNAME", "hass.mqtt")
	t.Setenv("MQTT_PASSWORD", "pw")
	t.Setenv("HA_TOKEN", "token")
	t.Setenv("SQLITE_PATH", "")
	t.Setenv("HOUSEKEEPING_HOUR", "4")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Display.Port != "/dev/ttyACM0" || cfg.MQTT.Username != "hass.mqtt" || cfg.MQTT.Password != "pw" {
		t.Errorf("env overrides not applied: %+v %+v", cfg.Display, cfg.MQTT)
	}
	if cfg.Gateway.Token != "token" || cfg.Schedule.HousekeepingHour != 4 {
		t.Errorf("gateway/schedule = %+v %+v", cfg.Gateway, cfg.Schedule)
	}
	if cfg.Database.SQLitePath != "" {
		t.Errorf("empty SQLITE_PATH should disable recording, got %q", cfg.Database.SQLitePath)
	}
}

func TestLoadEnvFile(t *testing.T) {
	if err := LoadEnvFile(filepath.Join(t.TempDir(), ".env")); err != nil {
		t.Errorf("missing .env: %v", err)
	}

	t.Setenv("HA_TOKEN", "placeholder")
	os.Unsetenv("HA_TOKEN")
	t.Setenv("MQTT_PASSWORD", "from-shell")

	path := writeFile(t, ".env", "HA_TOKEN=abc123\nMQTT_PASSWORD=from-file\n")
	if err := LoadEnvFile(path); err != nil {
		t.Fatal(err)
	}
	if got := os.Getenv("HA_TOKEN"); got != "abc123" {
		t.Errorf("HA_TOKEN = %q", got)
	}
	if got := os.Getenv("MQTT_PASSWORD"); got != "from-shell" {
		t.Errorf("existing variable overwritten: %q", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"no token", func(c *Config) { c.Gateway.Token = "" }, "gateway.token"},
		{"no port", func(c *Config) { c.Display.Port = "" }, "display.port"},
		{"no symbols", func(c *Config) { c.Market.Symbols = nil }, "market.symbols"},
		{"unmapped symbol", func(c *Config) { c.Market.Symbols = append(c.Market.Symbols, "MSFT") }, "MSFT"},
		{"bad zone", func(c *Config) { c.Market.Timezone = "Mars/Olympus" }, "market.timezone"},
		{"bad open", func(c *Config) { c.Market.Open = "8:3x" }, "market.open"},
		{"close before open", func(c *Config) { c.Market.Close = "08:00" }, "market.close"},
		{"tick close early", func(c *Config) { c.Schedule.TickClose = "14:00" }, "tick_close"},
		{"bad tick", func(c *Config) { c.Schedule.Tick = "every minute" }, "schedule.tick"},
		{"bad hour", func(c *Config) { c.Schedule.HousekeepingHour = 24 }, "housekeeping_hour"},
		{"bad brightness", func(c *Config) { c.Schedule.DimBrightness = 101 }, "dim_brightness"},
		{"no broker", func(c *Config) { c.MQTT.Broker = "" }, "mqtt.broker"},
		{"no clock", func(c *Config) { c.Clock.Servers = nil }, "clock.servers"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Gateway.Token = "t"
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("err = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}
