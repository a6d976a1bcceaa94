package config

// Config is the process-wide typed configuration, resolved once at
// startup from the environment. Unknown environment keys are ignored
// so this process can share an env file with sibling services.
type Config struct {
	DatabaseURL string `mapstructure:"database_url"`

	WorkerIntervalHours int    `mapstructure:"worker_interval_hours"`
	ReelsLimit          int    `mapstructure:"worker_reels_limit"`
	AudioDir            string `mapstructure:"audio_dir"`
	TestMode            bool   `mapstructure:"test_mode"`

	Upstream UpstreamConfig `mapstructure:",squash"`
	LibPath  LibPathConfig  `mapstructure:",squash"`

	Kafka   KafkaConfig   `mapstructure:",squash"`
	Elastic ElasticConfig `mapstructure:",squash"`
	MinIO   MinIOConfig   `mapstructure:",squash"`
	Mongo   MongoConfig   `mapstructure:",squash"`
	Redis   RedisConfig   `mapstructure:",squash"`

	AdminToken string `mapstructure:"admin_token"`
	AdminPort  int    `mapstructure:"admin_port"`
}

// UpstreamConfig configures the Upstream Client's credentials and
// transport. Mode precedence is SessionFile -> SessionToken -> Username/Password.
type UpstreamConfig struct {
	SessionToken  string `mapstructure:"session_token"`
	CSRFToken     string `mapstructure:"csrf_token"`
	Username      string `mapstructure:"username"`
	Password      string `mapstructure:"password"`
	Proxy         string `mapstructure:"proxy"`
	SessionFile   string `mapstructure:"session_file"`
	RequestTimeoutSeconds int `mapstructure:"request_timeout_seconds"`
	RetryBudget           int `mapstructure:"retry_budget"`
}

// LibPathConfig locates the local binaries the Media Enricher shells
// out to. The extractor and transcriber are opaque per spec — these
// are just paths to whatever satisfies "URL -> mp3" and "mp3 -> text".
type LibPathConfig struct {
	FFmpeg       string `mapstructure:"ffmpeg_path"`
	FFprobe      string `mapstructure:"ffprobe_path"`
	Whisper      string `mapstructure:"whisper_path"`
	WhisperModel string `mapstructure:"whisper_model"`
}

type KafkaConfig struct {
	Enabled bool     `mapstructure:"kafka_enabled"`
	Brokers []string `mapstructure:"kafka_brokers"`
	Topic   string   `mapstructure:"kafka_topic"`
}

type ElasticConfig struct {
	Enabled bool   `mapstructure:"elastic_enabled"`
	Address string `mapstructure:"elastic_address"`
	Index   string `mapstructure:"elastic_index"`
}

type MinIOConfig struct {
	Enabled   bool   `mapstructure:"minio_enabled"`
	Endpoint  string `mapstructure:"minio_endpoint"`
	AccessKey string `mapstructure:"minio_access_key"`
	SecretKey string `mapstructure:"minio_secret_key"`
	Bucket    string `mapstructure:"minio_bucket"`
	UseSSL    bool   `mapstructure:"minio_use_ssl"`
}

type MongoConfig struct {
	Enabled  bool   `mapstructure:"mongo_enabled"`
	URL      string `mapstructure:"mongo_url"`
	Database string `mapstructure:"mongo_database"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"redis_addr"`
	Password string `mapstructure:"redis_password"`
	DB       int    `mapstructure:"redis_db"`
}

// HasCredentials reports whether at least one supported credential
// mode is configured, per spec.md §6 ("at least one of SESSION_TOKEN
// or USERNAME+PASSWORD must be present").
func (c UpstreamConfig) HasCredentials() bool {
	if c.SessionToken != "" {
		return true
	}
	return c.Username != "" && c.Password != ""
}
