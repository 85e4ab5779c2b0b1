package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/adrg/xdg"
	yaml "gopkg.in/yaml.v3"
)

// HumanPlayer marks a side played from the console.
const HumanPlayer = "human"

const configRelPath = "cheese-checkers/config.yaml"

type OracleConfig struct {
	BaseURL    string `yaml:"base_url"`
	APIKey     string `yaml:"api_key"`
	Model      string `yaml:"model"`
	TimeoutSec int    `yaml:"timeout_sec"`
}

type RobotConfig struct {
	Mode          string `yaml:"mode"`
	WSURL         string `yaml:"ws_url"`
	AckTimeoutSec int    `yaml:"ack_timeout_sec"`
}

type AppConfig struct {
	Red      string   `yaml:"red"`
	Black    string   `yaml:"black"`
	Depth    int      `yaml:"depth"`
	Layout   string   `yaml:"layout"`
	Tokens   []string `yaml:"tokens"`
	Blockade string   `yaml:"blockade"`
	Seed     int64    `yaml:"seed"`
	MaxPlies int      `yaml:"max_plies"`

	Oracle OracleConfig `yaml:"oracle"`
	Robot  RobotConfig  `yaml:"robot"`

	RedisURL    string `yaml:"redis_url"`
	CacheTTLSec int    `yaml:"cache_ttl_sec"`
	DatabaseURL string `yaml:"database_url"`
	MessagesDir string `yaml:"messages_dir"`

	// Source is the config file that was read, if any.
	Source string `yaml:"-"`
}

func Default() *AppConfig {
	return &AppConfig{
		Red:         HumanPlayer,
		Black:       "minimax3",
		Layout:      "classic",
		Blockade:    "tie",
		Oracle:      OracleConfig{BaseURL: "https://api.openai.com/v1", Model: "gpt-4o-mini", TimeoutSec: 20},
		Robot:       RobotConfig{Mode: "none", AckTimeoutSec: 120},
		CacheTTLSec: 86400,
	}
}

// Load applies defaults, then the YAML file at path (or CHECKERS_CONFIG, or
// the XDG config location when present), then environment variables.
func Load(path string) (*AppConfig, error) {
	cfg := Default()

	file, err := resolvePath(path)
	if err != nil {
		return nil, err
	}
	if file != "" {
		raw, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", file, err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", file, err)
		}
		cfg.Source = file
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func resolvePath(path string) (string, error) {
	if p := strings.TrimSpace(path); p != "" {
		return p, nil
	}
	if p := strings.TrimSpace(os.Getenv("CHECKERS_CONFIG")); p != "" {
		return p, nil
	}
	p, err := xdg.SearchConfigFile(configRelPath)
	if err != nil {
		// no config file is fine
		return "", nil
	}
	return p, nil
}

// DefaultPath is where a user config file would live.
func DefaultPath() (string, error) {
	return xdg.ConfigFile(configRelPath)
}

func (cfg *AppConfig) applyEnv() error {
	setString(&cfg.Red, "CHECKERS_RED")
	setString(&cfg.Black, "CHECKERS_BLACK")
	setString(&cfg.Layout, "CHECKERS_LAYOUT")
	setString(&cfg.Blockade, "CHECKERS_BLOCKADE")
	if v := strings.TrimSpace(os.Getenv("CHECKERS_TOKENS")); v != "" {
		cfg.Tokens = splitList(v)
	}
	if err := setInt(&cfg.Depth, "CHECKERS_DEPTH"); err != nil {
		return err
	}
	if err := setInt(&cfg.MaxPlies, "CHECKERS_MAX_PLIES"); err != nil {
		return err
	}
	if v := strings.TrimSpace(os.Getenv("CHECKERS_SEED")); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("CHECKERS_SEED: %w", err)
		}
		cfg.Seed = n
	}

	setString(&cfg.Oracle.BaseURL, "ORACLE_BASE_URL")
	setString(&cfg.Oracle.APIKey, "ORACLE_API_KEY")
	setString(&cfg.Oracle.Model, "ORACLE_MODEL")
	if err := setInt(&cfg.Oracle.TimeoutSec, "ORACLE_TIMEOUT_SEC"); err != nil {
		return err
	}

	setString(&cfg.Robot.Mode, "ROBOT_MODE")
	setString(&cfg.Robot.WSURL, "ROBOT_WS_URL")
	if cfg.Robot.WSURL != "" && os.Getenv("ROBOT_MODE") == "" && (cfg.Robot.Mode == "" || cfg.Robot.Mode == "none") {
		cfg.Robot.Mode = "ws"
	}

	setString(&cfg.RedisURL, "REDIS_URL")
	if err := setInt(&cfg.CacheTTLSec, "CACHE_TTL_SEC"); err != nil {
		return err
	}
	setString(&cfg.DatabaseURL, "DATABASE_URL")
	setString(&cfg.MessagesDir, "MESSAGES_DIR")
	return nil
}

// Validate checks values that do not depend on other packages.
func (cfg *AppConfig) Validate() error {
	var errs []error
	if strings.TrimSpace(cfg.Red) == "" {
		errs = append(errs, errors.New("red player is required"))
	}
	if strings.TrimSpace(cfg.Black) == "" {
		errs = append(errs, errors.New("black player is required"))
	}
	if cfg.Depth < 0 || cfg.Depth > 12 {
		errs = append(errs, fmt.Errorf("depth %d out of range 0-12", cfg.Depth))
	}
	if cfg.MaxPlies < 0 {
		errs = append(errs, fmt.Errorf("max plies must not be negative"))
	}
	if cfg.Oracle.TimeoutSec <= 0 {
		errs = append(errs, fmt.Errorf("oracle timeout must be positive"))
	}
	return errors.Join(errs...)
}

// IsHuman reports whether name designates a console player.
func IsHuman(name string) bool {
	return strings.EqualFold(strings.TrimSpace(name), HumanPlayer)
}

func setString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.FieldsFunc(v, func(r rune) bool { return r == ',' || r == ' ' }) {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
