package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App         AppConfig
	MeteoSIX    MeteoSIXConfig
	Kafka       KafkaConfig
	Minio       MinioConfig
	Redis       RedisConfig
	Scheduler   SchedulerConfig
	Engine      EngineConfig
	Indices     IndicesConfig
	API         APIConfig
	HealthCheck HealthCheckConfig
}

type AppConfig struct {
	Name            string        `mapstructure:"name"`
	Env             string        `mapstructure:"env"`
	LogLevel        string        `mapstructure:"log_level"`
	Port            int           `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type MeteoSIXConfig struct {
	BaseURL     string        `mapstructure:"base_url"`
	APIKey      string        `mapstructure:"api_key"`
	Lang        string        `mapstructure:"lang"`
	LocationIDs []string      `mapstructure:"location_ids"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

type KafkaConfig struct {
	Broker       string `mapstructure:"broker"`
	Topic        string `mapstructure:"topic"`
	GroupID      string `mapstructure:"group_id"`
	RequiredAcks int16  `mapstructure:"required_acks"`
	MaxRetries   int    `mapstructure:"max_retries"`
}

type MinioConfig struct {
	Endpoint  string        `mapstructure:"endpoint"`
	AccessKey string        `mapstructure:"access_key"`
	SecretKey string        `mapstructure:"secret_key"`
	Bucket    string        `mapstructure:"bucket"`
	UseSSL    bool          `mapstructure:"use_ssl"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

type RedisConfig struct {
	Host     string        `mapstructure:"host"`
	Port     int           `mapstructure:"port"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

type SchedulerConfig struct {
	PollInterval time.Duration `mapstructure:"poll_interval"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

// EngineConfig tunes normalization and scoring behavior.
type EngineConfig struct {
	// Interval is the fixed grid step of a normalized series.
	Interval time.Duration `mapstructure:"interval"`
	// MaxGapIntervals is the largest run of missing grid points filled by
	// linear interpolation; larger gaps stay explicitly missing.
	MaxGapIntervals int `mapstructure:"max_gap_intervals"`
	// Workers bounds the scoring fan-out; 0 means one per CPU core.
	Workers int `mapstructure:"workers"`
	// DownsampleMethod is "nearest" or "average".
	DownsampleMethod string `mapstructure:"downsample_method"`
}

// IndicesConfig carries every formula coefficient, band boundary and default
// weight as external configuration. Users retune behavior here or through
// per-profile threshold overrides; no constant is embedded in the formulas.
type IndicesConfig struct {
	Thresholds        map[string]float64 `mapstructure:"thresholds"`
	DayQualityWeights map[string]float64 `mapstructure:"day_quality_weights"`
}

type APIConfig struct {
	BasePath           string        `mapstructure:"base_path"`
	CorsAllowedOrigins []string      `mapstructure:"cors_allowed_origins"`
	RateLimit          int           `mapstructure:"rate_limit"`
	RateLimitWindow    time.Duration `mapstructure:"rate_limit_window"`
}

type HealthCheckConfig struct {
	Timeout      time.Duration `mapstructure:"timeout"`
	Interval     time.Duration `mapstructure:"interval"`
	StartupDelay time.Duration `mapstructure:"startup_delay"`
}

func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/weather-insights/")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	overrideFromEnv(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// DefaultIndices returns the built-in index parameter set without reading
// any config file. Used by tests and as the fallback catalog configuration.
func DefaultIndices() IndicesConfig {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	_ = v.Unmarshal(&cfg)
	return cfg.Indices
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "weather-insights")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.port", 8080)
	v.SetDefault("app.shutdown_timeout", "30s")

	v.SetDefault("meteosix.base_url", "https://servizos.meteogalicia.gal/apiv5")
	v.SetDefault("meteosix.api_key", "")
	v.SetDefault("meteosix.lang", "gl")
	// Place identifiers resolved through /findPlaces.
	v.SetDefault("meteosix.location_ids", []string{
		"71913", "71857", "71867", "71911", "71820",
	})
	v.SetDefault("meteosix.timeout", "30s")

	v.SetDefault("kafka.broker", "kafka:9093")
	v.SetDefault("kafka.topic", "weather-samples-raw")
	v.SetDefault("kafka.group_id", "weather-insights-group")
	v.SetDefault("kafka.required_acks", 1)
	v.SetDefault("kafka.max_retries", 3)

	v.SetDefault("minio.endpoint", "minio:9000")
	v.SetDefault("minio.access_key", "minioadmin")
	v.SetDefault("minio.secret_key", "minioadmin")
	v.SetDefault("minio.bucket", "weather-series")
	v.SetDefault("minio.use_ssl", false)
	v.SetDefault("minio.timeout", "30s")

	v.SetDefault("redis.host", "redis")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.timeout", "5s")

	v.SetDefault("scheduler.poll_interval", "10m")
	v.SetDefault("scheduler.timeout", "5m")

	v.SetDefault("engine.interval", "1h")
	v.SetDefault("engine.max_gap_intervals", 3)
	v.SetDefault("engine.workers", 0)
	v.SetDefault("engine.downsample_method", "nearest")

	v.SetDefault("indices.day_quality_weights", map[string]float64{
		"temperature":   0.40,
		"wind_speed":    0.25,
		"precipitation": 0.25,
		"visibility":    0.10,
	})

	v.SetDefault("indices.thresholds", map[string]float64{
		// Day-quality comfort ranges: full comfort inside [lo, hi], linear
		// falloff to zero over the falloff width.
		"temperature_optimal_lo":   17,
		"temperature_optimal_hi":   24,
		"temperature_falloff":      12,
		"wind_speed_optimal_lo":    0,
		"wind_speed_optimal_hi":    15,
		"wind_speed_falloff":       30,
		"precipitation_optimal_lo": 0,
		"precipitation_optimal_hi": 0.1,
		"precipitation_falloff":    4,
		"visibility_optimal_lo":    8000,
		"visibility_optimal_hi":    60000,
		"visibility_falloff":       7000,

		// Clothing rule bands over wind-chill-adjusted temperature.
		"wind_chill_factor":          0.10,
		"rain_flag_threshold":        0.2,
		"clothing_insulated_below":   0,
		"clothing_windproof_below":   10,
		"clothing_light_layer_below": 18,
		"clothing_exposure_scale":    3.0,
		"clothing_rain_penalty":      15,

		// Cold-shock coefficients and risk band boundaries.
		"cold_shock_ref_temp":      22,
		"cold_shock_temp_coef":     6,
		"cold_shock_wind_coef":     1.2,
		"cold_shock_humidity_coef": 0.2,
		"cold_shock_base_minutes":  30,
		"cold_shock_minutes_slope": 0.25,
		"cold_shock_moderate_min":  30,
		"cold_shock_high_min":      55,
		"cold_shock_severe_min":    80,

		// Maritime visibility scoring and quality band boundaries.
		"visibility_clear_distance": 10000,
		"visibility_cloud_penalty":  0.15,
		"visibility_precip_penalty": 6,
		"visibility_poor_min":       25,
		"visibility_reduced_min":    50,
		"visibility_clear_min":      75,

		// Day-quality recommendation band boundaries.
		"day_quality_fair_min":      40,
		"day_quality_good_min":      65,
		"day_quality_excellent_min": 82,
	})

	v.SetDefault("api.base_path", "/api/v1")
	v.SetDefault("api.cors_allowed_origins", []string{"*"})
	v.SetDefault("api.rate_limit", 100)
	v.SetDefault("api.rate_limit_window", "1m")

	v.SetDefault("healthcheck.timeout", "10s")
	v.SetDefault("healthcheck.interval", "30s")
	v.SetDefault("healthcheck.startup_delay", "30s")
}

func overrideFromEnv(v *viper.Viper) {
	if apiKey := os.Getenv("METEOSIX_API_KEY"); apiKey != "" {
		v.Set("meteosix.api_key", apiKey)
	}
	if broker := os.Getenv("KAFKA_BROKER"); broker != "" {
		v.Set("kafka.broker", broker)
	}
	if topic := os.Getenv("KAFKA_SAMPLES_TOPIC"); topic != "" {
		v.Set("kafka.topic", topic)
	}
	if groupID := os.Getenv("KAFKA_GROUP_ID"); groupID != "" {
		v.Set("kafka.group_id", groupID)
	}
	if endpoint := os.Getenv("MINIO_ENDPOINT"); endpoint != "" {
		v.Set("minio.endpoint", endpoint)
	}
	if accessKey := os.Getenv("MINIO_ACCESS_KEY"); accessKey != "" {
		v.Set("minio.access_key", accessKey)
	}
	if secretKey := os.Getenv("MINIO_SECRET_KEY"); secretKey != "" {
		v.Set("minio.secret_key", secretKey)
	}
	if bucket := os.Getenv("MINIO_BUCKET"); bucket != "" {
		v.Set("minio.bucket", bucket)
	}
	if host := os.Getenv("REDIS_HOST"); host != "" {
		v.Set("redis.host", host)
	}
	if password := os.Getenv("REDIS_PASSWORD"); password != "" {
		v.Set("redis.password", password)
	}
	if env := os.Getenv("APP_ENV"); env != "" {
		v.Set("app.env", env)
	}
	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		v.Set("app.log_level", logLevel)
	}
}

func validateConfig(cfg *Config) error {
	if cfg.MeteoSIX.BaseURL == "" {
		return fmt.Errorf("MeteoSIX base URL must not be empty")
	}
	if cfg.Kafka.Broker == "" {
		return fmt.Errorf("Kafka broker must not be empty")
	}
	if cfg.Kafka.Topic == "" {
		return fmt.Errorf("Kafka topic must not be empty")
	}
	if cfg.Minio.Endpoint == "" {
		return fmt.Errorf("Minio endpoint must not be empty")
	}
	if cfg.Minio.Bucket == "" {
		return fmt.Errorf("Minio bucket must not be empty")
	}
	if cfg.Redis.Host == "" {
		return fmt.Errorf("Redis host must not be empty")
	}
	if cfg.Engine.Interval <= 0 {
		return fmt.Errorf("engine interval must be positive")
	}
	if cfg.Engine.MaxGapIntervals < 0 {
		return fmt.Errorf("engine max gap intervals must not be negative")
	}
	if cfg.Engine.DownsampleMethod != "nearest" && cfg.Engine.DownsampleMethod != "average" {
		return fmt.Errorf("engine downsample method must be nearest or average")
	}
	if cfg.Scheduler.PollInterval <= 0 {
		return fmt.Errorf("scheduler poll interval must be positive")
	}
	for name, value := range cfg.Indices.DayQualityWeights {
		if value < 0 {
			return fmt.Errorf("default day quality weight %s must not be negative", name)
		}
	}
	return nil
}
