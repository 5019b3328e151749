package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"DeskDisplay/internal/collector"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Display struct {
		Port       string `yaml:"port"`
		Baud       int    `yaml:"baud"`
		QuotesPage int    `yaml:"quotes_page"`
		ChartPage  int    `yaml:"chart_page"`
		MediaPage  int    `yaml:"media_page"`
	} `yaml:"display"`
	Market struct {
		Symbols     []string          `yaml:"symbols"`
		Fields      map[string]string `yaml:"fields"`
		ChartSymbol string            `yaml:"chart_symbol"`
		Timezone    string            `yaml:"timezone"`
		Open        string            `yaml:"open"`
		Close       string            `yaml:"close"`
		BaseURL     string            `yaml:"base_url"`
		Proxy       string            `yaml:"proxy"`
	} `yaml:"market"`
	Schedule struct {
		Tick             string `yaml:"tick"`
		TickClose        string `yaml:"tick_close"`
		HousekeepingHour int    `yaml:"housekeeping_hour"`
		DimStartHour     int    `yaml:"dim_start_hour"`
		DimEndHour       int    `yaml:"dim_end_hour"`
		DimBrightness    int    `yaml:"dim_brightness"`
		FullBrightness   int    `yaml:"full_brightness"`
	} `yaml:"schedule"`
	MQTT struct {
		Broker            string        `yaml:"broker"`
		ClientID          string        `yaml:"client_id"`
		Username          string        `yaml:"username"`
		Password          string        `yaml:"password"`
		RetryDelay        time.Duration `yaml:"retry_delay"`
		MediaPrefix       string        `yaml:"media_prefix"`
		PowerTopic        string        `yaml:"power_topic"`
		PowerCommandTopic string        `yaml:"power_command_topic"`
	} `yaml:"mqtt"`
	Gateway struct {
		BaseURL     string `yaml:"base_url"`
		Token       string `yaml:"token"`
		MediaEntity string `yaml:"media_entity"`
		LightEntity string `yaml:"light_entity"`
	} `yaml:"gateway"`
	Clock struct {
		Servers []string `yaml:"servers"`
	} `yaml:"clock"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
}

// Default returns the configuration for the office desk unit.
func Default() *Config {
	cfg := &Config{}
	cfg.Display.Port = "/dev/ttyUSB0"
	cfg.Display.Baud = 115200
	cfg.Display.QuotesPage = 0
	cfg.Display.ChartPage = 2
	cfg.Display.MediaPage = 3

	cfg.Market.Symbols = []string{"ACN", "^GSPC", "^IXIC"}
	cfg.Market.Fields = map[string]string{"ACN": "tAcn", "^GSPC": "tSP", "^IXIC": "tNAS"}
	cfg.Market.ChartSymbol = "ACN"
	cfg.Market.Timezone = "America/Chicago"
	cfg.Market.Open = "08:30"
	cfg.Market.Close = "15:00"
	cfg.Market.BaseURL = "https://query1.finance.yahoo.com"

	cfg.Schedule.Tick = "@every 60s"
	cfg.Schedule.TickClose = "15:35"
	cfg.Schedule.HousekeepingHour = 2
	cfg.Schedule.DimStartHour = 23
	cfg.Schedule.DimEndHour = 6
	cfg.Schedule.DimBrightness = 2
	cfg.Schedule.FullBrightness = 100

	cfg.MQTT.Broker = "tcp://homeassistant.local:1883"
	cfg.MQTT.ClientID = "DesktopBuddy"
	cfg.MQTT.RetryDelay = 5 * time.Second
	cfg.MQTT.MediaPrefix = "homeassistant/media_player"
	cfg.MQTT.PowerTopic = "stat/OfficeHeatPlug/POWER"
	cfg.MQTT.PowerCommandTopic = "cmnd/OfficeHeatPlug/Power"

	cfg.Gateway.BaseURL = "http://homeassistant.local:8123"
	cfg.Gateway.MediaEntity = "media_player.sonos_5"
	cfg.Gateway.LightEntity = "light.office_dimmer"

	cfg.Clock.Servers = []string{"pool.ntp.org", "time.nist.gov"}
	cfg.Database.SQLitePath = "data/deskdisplay.db"
	return cfg
}

// LoadEnvFile loads secrets from a dotenv file into the environment. A
// missing file is not an error; variables already set are kept.
func LoadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// Load reads config from a YAML file over the defaults, then applies
// environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("DISPLAY_PORT"); v != "" {
		cfg.Display.Port = v
	}
	if v := os.Getenv("MARKET_TIMEZONE"); v != "" {
		cfg.Market.Timezone = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Market.Proxy = v
	}
	if v := os.Getenv("SCHEDULE_TICK"); v != "" {
		cfg.Schedule.Tick = v
	}
	if v := os.Getenv("HOUSEKEEPING_HOUR"); v != "" {
		if h, err := strconv.Atoi(v); err == nil {
			cfg.Schedule.HousekeepingHour = h
		}
	}
	if v := os.Getenv("MQTT_BROKER"); v != "" {
		cfg.MQTT.Broker = v
	}
	if v := os.Getenv("MQTT_USERNAME"); v != "" {
		cfg.MQTT.Username = v
	}
	if v := os.Getenv("MQTT_PASSWORD"); v != "" {
		cfg.MQTT.Password = v
	}
	if v := os.Getenv("HA_BASE_URL"); v != "" {
		cfg.Gateway.BaseURL = v
	}
	if v := os.Getenv("HA_TOKEN"); v != "" {
		cfg.Gateway.Token = v
	}
	if v, ok := os.LookupEnv("SQLITE_PATH"); ok {
		cfg.Database.SQLitePath = v
	}

	return cfg, nil
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if c.Display.Port == "" {
		return fmt.Errorf("display.port is required")
	}
	if c.Display.Baud <= 0 {
		return fmt.Errorf("display.baud must be positive")
	}
	if len(c.Market.Symbols) == 0 {
		return fmt.Errorf("market.symbols must not be empty")
	}
	for _, s := range c.Market.Symbols {
		if c.Market.Fields[s] == "" {
			return fmt.Errorf("market.fields has no field for %s", s)
		}
	}
	if c.Market.ChartSymbol == "" {
		return fmt.Errorf("market.chart_symbol is required")
	}
	if _, err := time.LoadLocation(c.Market.Timezone); err != nil {
		return fmt.Errorf("market.timezone: %w", err)
	}
	open, err := collector.ParseClock(c.Market.Open)
	if err != nil {
		return fmt.Errorf("market.open: %w", err)
	}
	closeAt, err := collector.ParseClock(c.Market.Close)
	if err != nil {
		return fmt.Errorf("market.close: %w", err)
	}
	if closeAt <= open {
		return fmt.Errorf("market.close must be after market.open")
	}
	tickClose, err := collector.ParseClock(c.Schedule.TickClose)
	if err != nil {
		return fmt.Errorf("schedule.tick_close: %w", err)
	}
	if tickClose < closeAt {
		return fmt.Errorf("schedule.tick_close must not be before market.close")
	}
	if _, err := cron.ParseStandard(c.Schedule.Tick); err != nil {
		return fmt.Errorf("schedule.tick: %w", err)
	}
	for name, h := range map[string]int{
		"housekeeping_hour": c.Schedule.HousekeepingHour,
		"dim_start_hour":    c.Schedule.DimStartHour,
		"dim_end_hour":      c.Schedule.DimEndHour,
	} {
		if h < 0 || h > 23 {
			return fmt.Errorf("schedule.%s must be 0-23", name)
		}
	}
	for name, b := range map[string]int{
		"dim_brightness":  c.Schedule.DimBrightness,
		"full_brightness": c.Schedule.FullBrightness,
	} {
		if b < 0 || b > 100 {
			return fmt.Errorf("schedule.%s must be 0-100", name)
		}
	}
	if c.MQTT.Broker == "" {
		return fmt.Errorf("mqtt.broker is required")
	}
	if c.MQTT.MediaPrefix == "" {
		return fmt.Errorf("mqtt.media_prefix is required")
	}
	if c.Gateway.BaseURL == "" {
		return fmt.Errorf("gateway.base_url is required")
	}
	if c.Gateway.Token == "" {
		return fmt.Errorf("gateway.token is required (set HA_TOKEN)")
	}
	if len(c.Clock.Servers) == 0 {
		return fmt.Errorf("clock.servers must not be empty")
	}
	return nil
}
