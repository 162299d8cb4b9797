// Package config resolves server settings from flags, RENTDOCS_* environment
// variables and an optional config file, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const EnvPrefix = "RENTDOCS"

const (
	KeyInput       = "input"
	KeyAddr        = "addr"
	KeyBaseUrl     = "base-url"
	KeyDebounce    = "debounce"
	KeyCorsOrigins = "cors-origins"
	KeyMetrics     = "metrics"
)

type Config struct {
	// Input is the document to serve and watch; empty serves the embedded
	// catalog.
	Input       string
	Addr        string
	BaseUrl     string
	Debounce    time.Duration
	CorsOrigins []string
	Metrics     bool
}

func Default() Config {
	return Config{
		Addr:     ":8080",
		BaseUrl:  "/",
		Debounce: 100 * time.Millisecond,
		Metrics:  true,
	}
}

// New returns a viper instance preloaded with defaults and environment
// bindings.
func New() *viper.Viper {
	def := Default()

	v := viper.New()
	v.SetDefault(KeyInput, def.Input)
	v.SetDefault(KeyAddr, def.Addr)
	v.SetDefault(KeyBaseUrl, def.BaseUrl)
	v.SetDefault(KeyDebounce, def.Debounce)
	v.SetDefault(KeyCorsOrigins, []string{})
	v.SetDefault(KeyMetrics, def.Metrics)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	return v
}

// RegisterFlags declares the server flags on fs.
func RegisterFlags(fs *pflag.FlagSet) {
	def := Default()

	fs.StringP(KeyInput, "i", def.Input, "API document to serve and watch (default: embedded catalog)")
	fs.String(KeyAddr, def.Addr, "HTTP listen address")
	fs.String(KeyBaseUrl, def.BaseUrl, "base URL of the documentation pages")
	fs.Duration(KeyDebounce, def.Debounce, "delay before reloading a changed document")
	fs.StringSlice(KeyCorsOrigins, nil, "allowed CORS origins (default: any)")
	fs.Bool(KeyMetrics, def.Metrics, "expose prometheus metrics on /metrics")
}

// Load binds fs, reads configFile when given and returns the resolved
// configuration.
func Load(v *viper.Viper, fs *pflag.FlagSet, configFile string) (Config, error) {
	if fs != nil {
		if err := v.BindPFlags(fs); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file %q: %w", configFile, err)
		}
	}

	cfg := Config{
		Input:       v.GetString(KeyInput),
		Addr:        v.GetString(KeyAddr),
		BaseUrl:     v.GetString(KeyBaseUrl),
		Debounce:    v.GetDuration(KeyDebounce),
		CorsOrigins: splitList(v.GetStringSlice(KeyCorsOrigins)),
		Metrics:     v.GetBool(KeyMetrics),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// splitList also accepts "a,b" coming from a single environment variable.
func splitList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, item := range in {
		for part := range strings.SplitSeq(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Addr) == "" {
		errs = append(errs, errors.New("addr must not be empty"))
	}
	if c.Debounce <= 0 {
		errs = append(errs, fmt.Errorf("debounce must be positive, got %v", c.Debounce))
	}
	if !strings.HasPrefix(c.BaseUrl, "/") {
		errs = append(errs, fmt.Errorf("base-url must start with '/', got %q", c.BaseUrl))
	}
	return errors.Join(errs...)
}
