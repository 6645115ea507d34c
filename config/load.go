package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. ONESHOT_NET_READ_TIMEOUT.
const EnvPrefix = "ONESHOT"

// NewViper returns a viper instance pre-populated with defaults and environment bindings.
// If path isn't empty, the file is read as well; its format is guessed by the extension.
func NewViper(path string) (*viper.Viper, error) {
	v := viper.New()
	setDefaults(v, Default())
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if len(path) > 0 {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	return v, nil
}

// FromViper decodes and validates the config.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := new(Config)
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}

	return cfg, cfg.Validate()
}

// Load is a shorthand for NewViper followed by FromViper.
func Load(path string) (*Config, error) {
	v, err := NewViper(path)
	if err != nil {
		return nil, err
	}

	return FromViper(v)
}

// setDefaults registers every key, otherwise AutomaticEnv wouldn't know about them.
func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("uri.request_line_size", d.URI.RequestLineSize)
	v.SetDefault("headers.number", d.Headers.Number)
	v.SetDefault("headers.line_size", d.Headers.LineSize)
	v.SetDefault("body.max_size", d.Body.MaxSize)
	v.SetDefault("net.read_buffer_size", d.NET.ReadBufferSize)
	v.SetDefault("net.read_timeout", d.NET.ReadTimeout)
	v.SetDefault("net.write_timeout", d.NET.WriteTimeout)
	v.SetDefault("net.accept_loop_interrupt_period", d.NET.AcceptLoopInterruptPeriod)
	v.SetDefault("net.max_connections", d.NET.MaxConnections)
	v.SetDefault("static.root", d.Static.Root)
	v.SetDefault("static.default_document", d.Static.DefaultDocument)
	v.SetDefault("cgi.enabled", d.CGI.Enabled)
	v.SetDefault("cgi.timeout", d.CGI.Timeout)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
}
