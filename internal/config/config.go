package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	EnvDev   = "dev"
	EnvProd  = "prod"
	EnvLocal = "local"
)

// Config is the merged application configuration
type Config struct {
	Env      string         `mapstructure:"env" yaml:"env"`
	DataDir  string         `mapstructure:"data_dir" yaml:"data_dir"`
	DBPath   string         `mapstructure:"db_path" yaml:"db_path"`
	Log      LogConfig      `mapstructure:"log" yaml:"log"`
	Pomodoro PomodoroConfig `mapstructure:"pomodoro" yaml:"pomodoro"`
}

// LogConfig controls where and how much the application logs
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"` // overrides the env default when set
	File  string `mapstructure:"file" yaml:"file"`   // empty means <data_dir>/nextup.log
}

// PomodoroConfig holds timer lengths in minutes
type PomodoroConfig struct {
	WorkMinutes       int `mapstructure:"work_minutes" yaml:"work_minutes"`
	ShortBreakMinutes int `mapstructure:"short_break_minutes" yaml:"short_break_minutes"`
	LongBreakMinutes  int `mapstructure:"long_break_minutes" yaml:"long_break_minutes"`
	LongBreakEvery    int `mapstructure:"long_break_every" yaml:"long_break_every"`
}

// DefaultConfig returns the configuration used when nothing is set
func DefaultConfig() *Config {
	return &Config{
		Env: EnvProd,
		Pomodoro: PomodoroConfig{
			WorkMinutes:       25,
			ShortBreakMinutes: 5,
			LongBreakMinutes:  15,
			LongBreakEvery:    4,
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/nextup/config.yaml
func DefaultPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "nextup", "config.yaml")
}

// Load builds the configuration from defaults, a .env file in the working
// directory, the YAML file at path (DefaultPath when empty) and NEXTUP_*
// environment variables, later sources winning
func Load(path string) (*Config, error) {
	_ = godotenv.Load(".env")

	cfg := DefaultConfig()

	v := viper.New()
	setDefaults(v, cfg)
	v.SetEnvPrefix("NEXTUP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path == "" {
		path = DefaultPath()
	}
	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("env", cfg.Env)
	v.SetDefault("data_dir", cfg.DataDir)
	v.SetDefault("db_path", cfg.DBPath)
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.file", cfg.Log.File)
	v.SetDefault("pomodoro.work_minutes", cfg.Pomodoro.WorkMinutes)
	v.SetDefault("pomodoro.short_break_minutes", cfg.Pomodoro.ShortBreakMinutes)
	v.SetDefault("pomodoro.long_break_minutes", cfg.Pomodoro.LongBreakMinutes)
	v.SetDefault("pomodoro.long_break_every", cfg.Pomodoro.LongBreakEvery)
}

// Validate rejects values the application cannot run with
func (c *Config) Validate() error {
	switch c.Env {
	case EnvDev, EnvProd, EnvLocal:
	default:
		return fmt.Errorf("unknown env: %s", c.Env)
	}

	p := c.Pomodoro
	if p.WorkMinutes <= 0 || p.ShortBreakMinutes <= 0 || p.LongBreakMinutes <= 0 || p.LongBreakEvery <= 0 {
		return fmt.Errorf("pomodoro durations must be positive: %+v", p)
	}
	return nil
}

// WriteDefault writes the default configuration as YAML to path
func WriteDefault(path string) error {
	data, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
