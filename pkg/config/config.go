package config

import (
	"flag"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the static configuration surface, loaded once at process
// start. The derived identity sets are immutable afterwards; nothing here
// is package-level mutable state.
type Config struct {
	Server struct {
		Address   string    `yaml:"address"`
		Port      int       `yaml:"port"`
		DBPath    string    `yaml:"db_path"`
		CacheSize SizeBytes `yaml:"cache_size"`
	} `yaml:"server"`
	Slack struct {
		TeamID        string   `yaml:"team_id"`
		AppID         string   `yaml:"app_id"`
		Channels      []string `yaml:"channels"`
		Agents        []string `yaml:"agents"`
		WorkspaceURL  string   `yaml:"workspace_url"`
		APIURL        string   `yaml:"api_url"`
		BotToken      string   `yaml:"bot_token"`
		SigningSecret string   `yaml:"signing_secret"`
		Timeout       Duration `yaml:"timeout"`
	} `yaml:"slack"`
	Security struct {
		RateLimit struct {
			RPS   float64 `yaml:"rps"`
			Burst int     `yaml:"burst"`
		} `yaml:"rate_limit"`
	} `yaml:"security"`
	Logging struct {
		Level string `yaml:"level"`
	} `yaml:"logging"`
	Digest struct {
		Enabled bool   `yaml:"enabled"`
		Cron    string `yaml:"cron"`
	} `yaml:"digest"`
}

// Addr returns host:port for the HTTP server.
func (c *Config) Addr() string {
	addr := c.Server.Address
	if addr == "" {
		addr = "0.0.0.0"
	}
	p := c.Server.Port
	if p == 0 {
		p = 8080
	}
	return fmt.Sprintf("%s:%d", addr, p)
}

// Load reads and parses a YAML config file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ParseCommandFlags defines and parses command-line flags and returns
// their values along with a map indicating which flags were explicitly
// set.
func ParseCommandFlags() (addr string, dbPath string, cfgPath string, setFlags map[string]bool) {
	addrPtr := flag.String("addr", ":8080", "HTTP listen address")
	dbPtr := flag.String("db", "./.database", "Pebble DB path")
	cfgPtr := flag.String("config", "./config.yaml", "Path to config file")
	flag.Parse()
	setFlags = map[string]bool{}
	flag.Visit(func(f *flag.Flag) { setFlags[f.Name] = true })
	return *addrPtr, *dbPtr, *cfgPtr, setFlags
}

// LoadEnvOverrides applies KEEPNOTE_* environment overrides onto cfg and
// reports whether any env vars were used.
func LoadEnvOverrides(cfg *Config) bool {
	envUsed := false
	parseList := func(v string) []string {
		if v == "" {
			return nil
		}
		parts := []string{}
		for _, p := range strings.Split(v, ",") {
			if s := strings.TrimSpace(p); s != "" {
				parts = append(parts, s)
			}
		}
		return parts
	}

	if v := os.Getenv("KEEPNOTE_ADDR"); v != "" {
		envUsed = true
		if h, p, err := net.SplitHostPort(v); err == nil {
			cfg.Server.Address = h
			if pi, err := strconv.Atoi(p); err == nil {
				cfg.Server.Port = pi
			}
		} else {
			cfg.Server.Address = v
		}
	}
	if v := os.Getenv("KEEPNOTE_DB_PATH"); v != "" {
		envUsed = true
		cfg.Server.DBPath = v
	}
	if v := os.Getenv("KEEPNOTE_TEAM_ID"); v != "" {
		envUsed = true
		cfg.Slack.TeamID = v
	}
	if v := os.Getenv("KEEPNOTE_APP_ID"); v != "" {
		envUsed = true
		cfg.Slack.AppID = v
	}
	if v := os.Getenv("KEEPNOTE_CHANNEL_IDS"); v != "" {
		envUsed = true
		cfg.Slack.Channels = parseList(v)
	}
	if v := os.Getenv("KEEPNOTE_AGENT_IDS"); v != "" {
		envUsed = true
		cfg.Slack.Agents = parseList(v)
	}
	if v := os.Getenv("KEEPNOTE_WORKSPACE_URL"); v != "" {
		envUsed = true
		cfg.Slack.WorkspaceURL = v
	}
	if v := os.Getenv("KEEPNOTE_API_URL"); v != "" {
		envUsed = true
		cfg.Slack.APIURL = v
	}
	if v := os.Getenv("KEEPNOTE_BOT_TOKEN"); v != "" {
		envUsed = true
		cfg.Slack.BotToken = v
	}
	if v := os.Getenv("KEEPNOTE_SIGNING_SECRET"); v != "" {
		envUsed = true
		cfg.Slack.SigningSecret = v
	}
	if v := os.Getenv("KEEPNOTE_RATE_RPS"); v != "" {
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			envUsed = true
			cfg.Security.RateLimit.RPS = f
		}
	}
	if v := os.Getenv("KEEPNOTE_RATE_BURST"); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			envUsed = true
			cfg.Security.RateLimit.Burst = n
		}
	}
	if v := os.Getenv("KEEPNOTE_LOG_LEVEL"); v != "" {
		envUsed = true
		cfg.Logging.Level = v
	}
	if v := os.Getenv("KEEPNOTE_DIGEST_CRON"); v != "" {
		envUsed = true
		cfg.Digest.Enabled = true
		cfg.Digest.Cron = v
	}
	return envUsed
}

// LoadEffective loads config from the given path and applies environment
// overrides. A missing file is not fatal; env and flags may carry the
// whole configuration.
func LoadEffective(path string) (*Config, bool, error) {
	cfg, err := Load(path)
	if err != nil {
		cfg = &Config{}
	}
	envUsed := LoadEnvOverrides(cfg)
	return cfg, envUsed, nil
}

// ResolveConfigPath decides the config file path using the flag-provided
// value and the KEEPNOTE_CONFIG env var when the flag was not set.
func ResolveConfigPath(flagPath string, flagSet bool) string {
	if flagSet {
		return flagPath
	}
	if p := os.Getenv("KEEPNOTE_CONFIG"); p != "" {
		return p
	}
	return flagPath
}
