package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Mode selects where the console gets its data from.
type Mode string

const (
	ModeMock Mode = "mock"
	ModeLive Mode = "live"
)

// ErrInvalidMode is returned for any mode other than mock or live.
var ErrInvalidMode = errors.New("invalid mode")

// ParseMode validates a mode value read from configuration.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeMock:
		return ModeMock, nil
	case ModeLive:
		return ModeLive, nil
	}
	return "", fmt.Errorf("%w %q (expected %q or %q)", ErrInvalidMode, s, ModeMock, ModeLive)
}

// Config keys.
const (
	KeyMode         = "mode"
	KeyAPIBase      = "api_base"
	KeyMediaBase    = "media_base"
	KeyTimeout      = "timeout"
	KeyPollInterval = "poll_interval"
	KeyEventLimit   = "event_limit"
	KeyMockBatch    = "mock_batch"
	KeyUsername     = "username"
	KeyPassword     = "password"
	KeyToken        = "token"
	KeyLogLevel     = "log_level"
	KeyLogFormat    = "log_format"
)

// Config is read once at start-up and passed to the components that need it.
type Config struct {
	Mode         Mode
	APIBase      string
	MediaBase    string
	Timeout      time.Duration
	PollInterval time.Duration
	EventLimit   int
	MockBatch    int
	Username     string
	Password     string
	Token        string
	LogLevel     string
	LogFormat    string
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyMode, string(ModeMock))
	v.SetDefault(KeyAPIBase, "http://127.0.0.1:8000")
	v.SetDefault(KeyMediaBase, "http://127.0.0.1:8000")
	v.SetDefault(KeyTimeout, 15*time.Second)
	v.SetDefault(KeyPollInterval, 2500*time.Millisecond)
	v.SetDefault(KeyEventLimit, 200)
	v.SetDefault(KeyMockBatch, 60)
	v.SetDefault(KeyUsername, "admin@rada.ai")
	v.SetDefault(KeyPassword, "admin123")
	v.SetDefault(KeyToken, "")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "console")
}

// InitConfig reads in config file and ENV variables if set.
func InitConfig(cfgFile string) {
	// A missing .env is normal.
	_ = godotenv.Load()

	SetDefaults(viper.GetViper())

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		// Search config in home directory with name ".rada-console" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".rada-console")
	}

	viper.SetEnvPrefix("rada")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	_ = viper.ReadInConfig()
}

// Load builds a validated Config from the global viper instance.
func Load() (*Config, error) {
	return FromViper(viper.GetViper())
}

// FromViper builds a validated Config from v.
func FromViper(v *viper.Viper) (*Config, error) {
	mode, err := ParseMode(v.GetString(KeyMode))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Mode:         mode,
		APIBase:      strings.TrimRight(v.GetString(KeyAPIBase), "/"),
		MediaBase:    strings.TrimRight(v.GetString(KeyMediaBase), "/"),
		Timeout:      v.GetDuration(KeyTimeout),
		PollInterval: v.GetDuration(KeyPollInterval),
		EventLimit:   v.GetInt(KeyEventLimit),
		MockBatch:    v.GetInt(KeyMockBatch),
		Username:     v.GetString(KeyUsername),
		Password:     v.GetString(KeyPassword),
		Token:        v.GetString(KeyToken),
		LogLevel:     v.GetString(KeyLogLevel),
		LogFormat:    v.GetString(KeyLogFormat),
	}

	if cfg.Mode == ModeLive && cfg.APIBase == "" {
		return nil, errors.New("api_base is required in live mode")
	}
	if cfg.PollInterval <= 0 {
		return nil, fmt.Errorf("poll_interval must be positive, got %s", cfg.PollInterval)
	}
	if cfg.Timeout <= 0 {
		return nil, fmt.Errorf("timeout must be positive, got %s", cfg.Timeout)
	}
	if cfg.EventLimit <= 0 {
		return nil, fmt.Errorf("event_limit must be positive, got %d", cfg.EventLimit)
	}
	if cfg.MockBatch <= 0 {
		return nil, fmt.Errorf("mock_batch must be positive, got %d", cfg.MockBatch)
	}

	return cfg, nil
}

// SaveToken updates the config file with the new access token
func SaveToken(token string) error {
	viper.Set(KeyToken, token)

	// Ensure the file exists before writing
	if err := viper.WriteConfig(); err != nil {
		// If file doesn't exist, create it
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return viper.SafeWriteConfig()
		}
		// If it exists but failed to write, try writing to default path
		home, _ := os.UserHomeDir()
		path := filepath.Join(home, ".rada-console.yaml")
		return viper.WriteConfigAs(path)
	}
	return nil
}
