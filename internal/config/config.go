// Package config loads go-efficia-monitor settings from defaults, the
// optional ~/.go-efficia-monitor/config.toml file and EFFICIA_* variables.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/penwyp/go-efficia-monitor/internal/core/constants"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

const (
	configName = "config"
	configType = "toml"
	envPrefix  = "EFFICIA"

	fileMode       = 0o600
	dirMode        = 0o700
	tempPattern    = ".config-*.toml.tmp"
	databaseFile   = "activity.db"
	logFileRelPath = "logs/app.log"
)

// Keys understood in the config file and as EFFICIA_<KEY> variables.
const (
	KeyAPIURL          = "api.url"
	KeyAPITimeout      = "api.timeout"
	KeyRefreshInterval = "dashboard.refresh_interval"
	KeyTimezone        = "dashboard.timezone"
	KeyServerListen    = "server.listen"
	KeyServerDatabase  = "server.database"
	KeyLogLevel        = "log.level"
	KeyLogFile         = "log.file"
)

// ErrInvalid marks a configuration value that cannot be used.
var ErrInvalid = errors.New("invalid configuration")

// Config is the effective configuration.
type Config struct {
	APIURL          string
	APITimeout      time.Duration
	RefreshInterval time.Duration
	Timezone        string
	ListenAddr      string
	DatabasePath    string
	LogLevel        string
	LogFile         string

	// Source is the config file that was read, empty when none was found.
	Source string
}

// fileSchema is the on-disk TOML layout.
type fileSchema struct {
	API       apiSchema       `toml:"api"`
	Dashboard dashboardSchema `toml:"dashboard"`
	Server    serverSchema    `toml:"server"`
	Log       logSchema       `toml:"log"`
}

type apiSchema struct {
	URL     string `toml:"url"`
	Timeout string `toml:"timeout"`
}

type dashboardSchema struct {
	RefreshInterval string `toml:"refresh_interval"`
	Timezone        string `toml:"timezone"`
}

type serverSchema struct {
	Listen   string `toml:"listen"`
	Database string `toml:"database"`
}

type logSchema struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// Dir returns the local state directory, ~/.go-efficia-monitor.
func Dir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(homeDir, constants.AppDirName), nil
}

// DefaultPath returns the default config file location.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configName+"."+configType), nil
}

// Default returns the built-in configuration.
func Default() (*Config, error) {
	dir, err := Dir()
	if err != nil {
		return nil, err
	}
	return &Config{
		APIURL:          constants.DefaultAPIURL,
		APITimeout:      constants.DefaultFetchTimeout,
		RefreshInterval: constants.DefaultRefreshInterval,
		Timezone:        "Local",
		ListenAddr:      constants.DefaultListenAddr,
		DatabasePath:    filepath.Join(dir, databaseFile),
		LogLevel:        "info",
		LogFile:         filepath.Join(dir, logFileRelPath),
	}, nil
}

// Load builds the effective configuration. An empty path searches the
// state directory and tolerates a missing file; an explicit path must exist.
func Load(path string) (*Config, error) {
	defaults, err := Default()
	if err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetConfigType(configType)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyAPIURL, defaults.APIURL)
	v.SetDefault(KeyAPITimeout, defaults.APITimeout)
	v.SetDefault(KeyRefreshInterval, defaults.RefreshInterval)
	v.SetDefault(KeyTimezone, defaults.Timezone)
	v.SetDefault(KeyServerListen, defaults.ListenAddr)
	v.SetDefault(KeyServerDatabase, defaults.DatabasePath)
	v.SetDefault(KeyLogLevel, defaults.LogLevel)
	v.SetDefault(KeyLogFile, defaults.LogFile)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		v.SetConfigName(configName)
		v.AddConfigPath(dir)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg := &Config{
		APIURL:          v.GetString(KeyAPIURL),
		APITimeout:      v.GetDuration(KeyAPITimeout),
		RefreshInterval: v.GetDuration(KeyRefreshInterval),
		Timezone:        v.GetString(KeyTimezone),
		ListenAddr:      v.GetString(KeyServerListen),
		DatabasePath:    expandHome(v.GetString(KeyServerDatabase)),
		LogLevel:        v.GetString(KeyLogLevel),
		LogFile:         expandHome(v.GetString(KeyLogFile)),
		Source:          v.ConfigFileUsed(),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the values that would otherwise fail later at runtime.
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %s must be an http(s) URL, got %q", ErrInvalid, KeyAPIURL, c.APIURL)
	}
	if c.APITimeout <= 0 {
		return fmt.Errorf("%w: %s must be positive", ErrInvalid, KeyAPITimeout)
	}
	if c.RefreshInterval < constants.MinRefreshInterval {
		return fmt.Errorf("%w: %s must be at least %s", ErrInvalid, KeyRefreshInterval, constants.MinRefreshInterval)
	}
	if c.Timezone != "" {
		if _, err := time.LoadLocation(c.Timezone); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalid, KeyTimezone, err)
		}
	}
	if c.ListenAddr == "" {
		return fmt.Errorf("%w: %s is empty", ErrInvalid, KeyServerListen)
	}
	return nil
}

// Encode renders c as TOML in the config file layout.
func (c *Config) Encode() ([]byte, error) {
	data, err := toml.Marshal(c.schema())
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return data, nil
}

// Write stores c at path atomically. An existing file is only replaced
// when overwrite is set.
func Write(path string, c *Config, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file %s already exists", path)
		}
	}

	data, err := c.Encode()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), dirMode); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	tempFile, err := os.CreateTemp(filepath.Dir(path), tempPattern)
	if err != nil {
		return fmt.Errorf("create temp config file: %w", err)
	}

	tempName := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("write temp config file: %w", err)
	}
	if err := tempFile.Chmod(fileMode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp config file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp config file: %w", err)
	}
	if err := os.Rename(tempName, path); err != nil {
		return fmt.Errorf("replace config file: %w", err)
	}

	cleanup = false
	return nil
}

func (c *Config) schema() fileSchema {
	return fileSchema{
		API: apiSchema{
			URL:     c.APIURL,
			Timeout: c.APITimeout.String(),
		},
		Dashboard: dashboardSchema{
			RefreshInterval: c.RefreshInterval.String(),
			Timezone:        c.Timezone,
		},
		Server: serverSchema{
			Listen:   c.ListenAddr,
			Database: c.DatabasePath,
		},
		Log: logSchema{
			Level: c.LogLevel,
			File:  c.LogFile,
		},
	}
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if homeDir, err := os.UserHomeDir(); err == nil {
			return filepath.Join(homeDir, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
