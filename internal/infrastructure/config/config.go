package config

type Config struct {
	// Global configuration
	App       AppConfig       `mapstructure:"app"`
	Http      HttpConfig      `mapstructure:"http"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Cors      CorsConfig      `mapstructure:"cors"`

	// Domain configuration
	Storage   StorageConfig   `mapstructure:"storage"`
	Auth      AuthConfig      `mapstructure:"auth"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Log       LogConfig       `mapstructure:"log"`
}
