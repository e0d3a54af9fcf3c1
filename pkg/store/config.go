package store

import (
	"fmt"
	"os"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

const (
	defaultPath    = "~/.retailers"
	defaultTimeout = 10 * time.Second
)

// Config carries the settings shared by the CLI and the UI.
type Config interface {
	// BasePath is the directory of the local store.
	BasePath() string
	// Backend is the base URL of the remote retailer API. Empty selects the
	// local store.
	Backend() string
	Timeout() time.Duration
	LogLevel() string
	LogPath() string
}

// LoadConfig reads .retailers.yaml from RETAILERS_CONFIG_PATH or the working
// directory, then applies RETAILERS_* environment overrides.
func LoadConfig() (Config, error) {
	v := viper.New()
	v.SetDefault("path", defaultPath)
	v.SetDefault("backend", "")
	v.SetDefault("timeout", defaultTimeout)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_path", "")
	v.SetConfigName(".retailers") // .yaml is implicit
	v.SetEnvPrefix("RETAILERS")
	v.AutomaticEnv()

	if override := os.Getenv("RETAILERS_CONFIG_PATH"); override != "" {
		v.AddConfigPath(override)
	}
	v.AddConfigPath("./")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("store: read config: %w", err)
		}
	}

	path, err := homedir.Expand(v.GetString("path"))
	if err != nil {
		return nil, fmt.Errorf("store: expand path: %w", err)
	}
	logPath, err := homedir.Expand(v.GetString("log_path"))
	if err != nil {
		return nil, fmt.Errorf("store: expand log path: %w", err)
	}
	timeout := v.GetDuration("timeout")
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &fileConfig{
		Path:     path,
		Remote:   v.GetString("backend"),
		Wait:     timeout,
		Level:    v.GetString("log_level"),
		LogsPath: logPath,
	}, nil
}

type fileConfig struct {
	Path     string        `json:"path"`
	Remote   string        `json:"backend"`
	Wait     time.Duration `json:"timeout"`
	Level    string        `json:"log_level"`
	LogsPath string        `json:"log_path"`
}

func (f *fileConfig) BasePath() string       { return f.Path }
func (f *fileConfig) Backend() string        { return f.Remote }
func (f *fileConfig) Timeout() time.Duration { return f.Wait }
func (f *fileConfig) LogLevel() string       { return f.Level }
func (f *fileConfig) LogPath() string        { return f.LogsPath }
