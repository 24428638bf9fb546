package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	"github.com/getmockd/queuestub/pkg/portpool"
)

// Environment variable names.
const (
	EnvPrefix    = "QUEUESTUB"
	EnvHTTPPort  = EnvPrefix + "_HTTP_PORT"
	EnvLogLevel  = EnvPrefix + "_LOG_LEVEL"
	EnvLogFormat = EnvPrefix + "_LOG_FORMAT"
)

// Config keys, shared by the config file and the environment.
const (
	keyHTTPPort       = "http_port"
	keyLogLevel       = "log_level"
	keyLogFormat      = "log_format"
	keyPortRangeStart = "port_range_start"
	keyPortRangeEnd   = "port_range_end"
)

// ErrInvalidPort is returned when a configured port is not in 1-65535.
var ErrInvalidPort = errors.New("config: invalid port")

// Config holds queuestub settings.
type Config struct {
	// HTTPPort is the raw fixed-port override. Empty means "use the pool".
	HTTPPort string `mapstructure:"http_port"`

	// LogLevel is debug, info, warn or error.
	LogLevel string `mapstructure:"log_level"`

	// LogFormat is text or json.
	LogFormat string `mapstructure:"log_format"`

	// PortRangeStart and PortRangeEnd bound the port pool.
	PortRangeStart int `mapstructure:"port_range_start"`
	PortRangeEnd   int `mapstructure:"port_range_end"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		LogLevel:       "info",
		LogFormat:      "text",
		PortRangeStart: portpool.DefaultRangeStart,
		PortRangeEnd:   portpool.DefaultRangeEnd,
	}
}

func newViper() *viper.Viper {
	v := viper.New()

	d := Default()
	v.SetDefault(keyLogLevel, d.LogLevel)
	v.SetDefault(keyLogFormat, d.LogFormat)
	v.SetDefault(keyPortRangeStart, d.PortRangeStart)
	v.SetDefault(keyPortRangeEnd, d.PortRangeEnd)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	// No default for the port override, so it has to be bound explicitly
	// to show up in Unmarshal.
	_ = v.BindEnv(keyHTTPPort)

	return v
}

// Load reads the environment and, if path is not empty, the config file at path.
// Environment variables take precedence over the file.
func Load(path string) (*Config, error) {
	v := newViper()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	if _, _, err := FixedPortFromEnv(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the port override and the pool range.
func (c *Config) Validate() error {
	if _, _, err := c.FixedPort(); err != nil {
		return err
	}
	if _, err := portpool.New(c.PortRangeStart, c.PortRangeEnd); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// FixedPort returns the port override, if one is configured.
func (c *Config) FixedPort() (port int, ok bool, err error) {
	raw := strings.TrimSpace(c.HTTPPort)
	if raw == "" {
		return 0, false, nil
	}
	port, err = ParsePort(raw)
	if err != nil {
		return 0, false, fmt.Errorf("%s: %w", keyHTTPPort, err)
	}
	return port, true, nil
}

// Pool returns the process-wide pool when the configured range is the
// default one, and a private pool otherwise.
func (c *Config) Pool() (*portpool.Pool, error) {
	if c.PortRangeStart == portpool.DefaultRangeStart && c.PortRangeEnd == portpool.DefaultRangeEnd {
		return portpool.Default(), nil
	}
	return portpool.New(c.PortRangeStart, c.PortRangeEnd)
}

// FixedPortFromEnv reads only the QUEUESTUB_HTTP_PORT override.
// ok is false when the variable is unset. A variable that is set but empty
// or not a valid port is an error.
func FixedPortFromEnv() (port int, ok bool, err error) {
	if _, present := os.LookupEnv(EnvHTTPPort); !present {
		return 0, false, nil
	}
	v := newViper()
	port, err = ParsePort(strings.TrimSpace(v.GetString(keyHTTPPort)))
	if err != nil {
		return 0, false, fmt.Errorf("%s: %w", EnvHTTPPort, err)
	}
	return port, true, nil
}

// ParsePort parses a decimal TCP port in 1-65535.
func ParsePort(s string) (int, error) {
	port, err := strconv.Atoi(s)
	if err != nil || port < 1 || port > 65535 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPort, s)
	}
	return port, nil
}
