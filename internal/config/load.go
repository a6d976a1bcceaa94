package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// ConfigError is fatal at startup: bad or missing configuration.
type ConfigError struct {
	Key string
	Err error
}

func (e *ConfigError) Error() string {
	if e.Key == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("config: %s: %v", e.Key, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// Load resolves the typed configuration from the environment. Unknown
// environment keys are ignored, matching the teacher's viper.Unmarshal
// pattern but reading from the process environment instead of a YAML
// file, as spec.md §4.7/§6 require.
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	bind := func(key, env string) {
		_ = v.BindEnv(key, env)
	}

	bind("database_url", "DATABASE_URL")
	v.SetDefault("worker_interval_hours", 6)
	bind("worker_interval_hours", "WORKER_INTERVAL_HOURS")
	v.SetDefault("worker_reels_limit", 50)
	bind("worker_reels_limit", "WORKER_REELS_LIMIT")
	v.SetDefault("audio_dir", "audio")
	bind("audio_dir", "AUDIO_DIR")
	v.SetDefault("test_mode", false)
	bind("test_mode", "TEST_MODE")

	bind("session_token", "SESSION_TOKEN")
	bind("csrf_token", "CSRF_TOKEN")
	bind("username", "USERNAME")
	bind("password", "PASSWORD")
	bind("proxy", "PROXY")
	v.SetDefault("session_file", "session.json")
	bind("session_file", "SESSION_FILE")
	v.SetDefault("request_timeout_seconds", 30)
	bind("request_timeout_seconds", "UPSTREAM_REQUEST_TIMEOUT_SECONDS")
	v.SetDefault("retry_budget", 3)
	bind("retry_budget", "UPSTREAM_RETRY_BUDGET")

	v.SetDefault("ffmpeg_path", "ffmpeg")
	bind("ffmpeg_path", "FFMPEG_PATH")
	v.SetDefault("ffprobe_path", "ffprobe")
	bind("ffprobe_path", "FFPROBE_PATH")
	v.SetDefault("whisper_path", "whisper")
	bind("whisper_path", "WHISPER_PATH")
	bind("whisper_model", "WHISPER_MODEL")

	v.SetDefault("kafka_enabled", false)
	bind("kafka_enabled", "KAFKA_ENABLED")
	bind("kafka_brokers", "KAFKA_BROKERS")
	v.SetDefault("kafka_topic", "reeltracker.events")
	bind("kafka_topic", "KAFKA_TOPIC")

	v.SetDefault("elastic_enabled", false)
	bind("elastic_enabled", "ELASTIC_ENABLED")
	bind("elastic_address", "ELASTIC_ADDRESS")
	v.SetDefault("elastic_index", "video_transcriptions")
	bind("elastic_index", "ELASTIC_INDEX")

	v.SetDefault("minio_enabled", false)
	bind("minio_enabled", "MINIO_ENABLED")
	bind("minio_endpoint", "MINIO_ENDPOINT")
	bind("minio_access_key", "MINIO_ACCESS_KEY")
	bind("minio_secret_key", "MINIO_SECRET_KEY")
	v.SetDefault("minio_bucket", "reeltracker-audio")
	bind("minio_bucket", "MINIO_BUCKET")
	v.SetDefault("minio_use_ssl", true)
	bind("minio_use_ssl", "MINIO_USE_SSL")

	v.SetDefault("mongo_enabled", false)
	bind("mongo_enabled", "MONGO_ENABLED")
	bind("mongo_url", "MONGO_URL")
	v.SetDefault("mongo_database", "reeltracker")
	bind("mongo_database", "MONGO_DATABASE")

	bind("redis_addr", "REDIS_ADDR")
	bind("redis_password", "REDIS_PASSWORD")
	v.SetDefault("redis_db", 0)
	bind("redis_db", "REDIS_DB")

	bind("admin_token", "ADMIN_TOKEN")
	v.SetDefault("admin_port", 8081)
	bind("admin_port", "ADMIN_PORT")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, &ConfigError{Err: fmt.Errorf("failed to unmarshal configuration: %w", err)}
	}
	cfg.Upstream = UpstreamConfig{
		SessionToken:          v.GetString("session_token"),
		CSRFToken:             v.GetString("csrf_token"),
		Username:              v.GetString("username"),
		Password:              v.GetString("password"),
		Proxy:                 v.GetString("proxy"),
		SessionFile:           v.GetString("session_file"),
		RequestTimeoutSeconds: v.GetInt("request_timeout_seconds"),
		RetryBudget:           v.GetInt("retry_budget"),
	}
	cfg.LibPath = LibPathConfig{
		FFmpeg:       v.GetString("ffmpeg_path"),
		FFprobe:      v.GetString("ffprobe_path"),
		Whisper:      v.GetString("whisper_path"),
		WhisperModel: v.GetString("whisper_model"),
	}
	cfg.Kafka = KafkaConfig{
		Enabled: v.GetBool("kafka_enabled"),
		Brokers: v.GetStringSlice("kafka_brokers"),
		Topic:   v.GetString("kafka_topic"),
	}
	cfg.Elastic = ElasticConfig{
		Enabled: v.GetBool("elastic_enabled"),
		Address: v.GetString("elastic_address"),
		Index:   v.GetString("elastic_index"),
	}
	cfg.MinIO = MinIOConfig{
		Enabled:   v.GetBool("minio_enabled"),
		Endpoint:  v.GetString("minio_endpoint"),
		AccessKey: v.GetString("minio_access_key"),
		SecretKey: v.GetString("minio_secret_key"),
		Bucket:    v.GetString("minio_bucket"),
		UseSSL:    v.GetBool("minio_use_ssl"),
	}
	cfg.Mongo = MongoConfig{
		Enabled:  v.GetBool("mongo_enabled"),
		URL:      v.GetString("mongo_url"),
		Database: v.GetString("mongo_database"),
	}
	cfg.Redis = RedisConfig{
		Addr:     v.GetString("redis_addr"),
		Password: v.GetString("redis_password"),
		DB:       v.GetInt("redis_db"),
	}
	cfg.AdminToken = v.GetString("admin_token")
	cfg.AdminPort = v.GetInt("admin_port")

	if cfg.DatabaseURL == "" {
		return nil, &ConfigError{Key: "DATABASE_URL", Err: fmt.Errorf("required")}
	}
	if !cfg.Upstream.HasCredentials() {
		return nil, &ConfigError{Key: "SESSION_TOKEN/USERNAME+PASSWORD", Err: fmt.Errorf("at least one credential mode must be configured")}
	}
	if cfg.AudioDir == "" {
		return nil, &ConfigError{Key: "AUDIO_DIR", Err: fmt.Errorf("must not be empty")}
	}

	return &cfg, nil
}
