package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

func Init(root *cobra.Command) {
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	_ = godotenv.Load(".env")
	if root != nil {
		_ = viper.BindPFlags(root.PersistentFlags())
	}
	setDefaults()
}

func setDefaults() {
	viper.SetDefault(KeyLogLevel, "info")
	viper.SetDefault(KeyTransport, TransportStdio)
	viper.SetDefault(KeyHTTPAddr, "0.0.0.0:8000")
	viper.SetDefault(KeyHTTPEndpoint, "/mcp")
}

func BaseURL() string      { return viper.GetString(KeyBaseURL) }
func APIKey() string       { return viper.GetString(KeyAPIKey) }
func LogLevel() string     { return viper.GetString(KeyLogLevel) }
func Transport() string    { return viper.GetString(KeyTransport) }
func HTTPAddr() string     { return viper.GetString(KeyHTTPAddr) }
func HTTPEndpoint() string { return viper.GetString(KeyHTTPEndpoint) }

// Upstream holds the knowledge-base API location and credential. It is read
// once at startup and never mutated.
type Upstream struct {
	BaseURL string
	APIKey  string
}

// LoadUpstream reads and validates the upstream settings. Every problem is
// reported in the returned error so a misconfigured process fails once.
func LoadUpstream() (Upstream, error) {
	cfg := Upstream{
		BaseURL: strings.TrimRight(strings.TrimSpace(BaseURL()), "/"),
		APIKey:  strings.TrimSpace(APIKey()),
	}

	var errs []error
	if cfg.BaseURL == "" {
		errs = append(errs, fmt.Errorf("%s is required (env %s)", KeyBaseURL, envName(KeyBaseURL)))
	} else if err := checkBaseURL(cfg.BaseURL); err != nil {
		errs = append(errs, err)
	}
	if cfg.APIKey == "" {
		errs = append(errs, fmt.Errorf("%s is required (env %s)", KeyAPIKey, envName(KeyAPIKey)))
	}
	if len(errs) > 0 {
		return Upstream{}, errors.Join(errs...)
	}
	return cfg, nil
}

func checkBaseURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", KeyBaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid %s %q: scheme must be http or https", KeyBaseURL, raw)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid %s %q: missing host", KeyBaseURL, raw)
	}
	return nil
}

func envName(key string) string {
	return strings.ToUpper(strings.ReplaceAll(key, "-", "_"))
}
