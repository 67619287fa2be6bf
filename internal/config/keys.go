package config

// Keys double as flag names; the environment variable is the upper-cased key
// with dashes replaced by underscores (base-url -> BASE_URL).
const (
	KeyBaseURL      = "base-url"
	KeyAPIKey       = "api-key"
	KeyLogLevel     = "log-level"
	KeyTransport    = "transport"
	KeyHTTPAddr     = "http-addr"
	KeyHTTPEndpoint = "http-endpoint"
)
