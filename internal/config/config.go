package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig
	DB         DBConfig
	Store      StoreConfig
	JWT        JWTConfig
	Storage    StorageConfig
	S3         S3Config
	GCS        GCSConfig
	Upload     UploadConfig
	Log        LogConfig
	CORS       CORSConfig
	Email      EmailConfig
	Resilience ResilienceConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	Environment     string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`

	// MaxLifetime recycles pooled connections; zero keeps them forever.
	MaxLifetime time.Duration `mapstructure:"max_lifetime"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// StoreConfig selects the order/upload persistence backend.
type StoreConfig struct {
	Driver            string `mapstructure:"driver"` // postgres | firestore
	FirestoreProject  string `mapstructure:"firestore_project"`
	OrdersCollection  string `mapstructure:"orders_collection"`
	UploadsCollection string `mapstructure:"uploads_collection"`
}

// JWTConfig holds JWT signing and expiry settings.
type JWTConfig struct {
	Secret             string        `mapstructure:"secret"`
	AccessTokenExpiry  time.Duration `mapstructure:"access_expiry"`
	RefreshTokenExpiry time.Duration `mapstructure:"refresh_expiry"`
	Issuer             string        `mapstructure:"issuer"`
}

// StorageConfig selects the object storage backend.
type StorageConfig struct {
	Driver        string        `mapstructure:"driver"` // s3 | gcs
	PresignExpiry time.Duration `mapstructure:"presign_expiry"`
}

// S3Config holds AWS S3 settings.
type S3Config struct {
	Region    string `mapstructure:"region"`
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
}

// GCSConfig holds Google Cloud Storage (Firebase Storage) settings.
type GCSConfig struct {
	Bucket          string `mapstructure:"bucket"`
	CredentialsFile string `mapstructure:"credentials_file"`
	SignerEmail     string `mapstructure:"signer_email"`
}

// UploadConfig holds customer document upload limits.
type UploadConfig struct {
	MaxFileSizeMB int64 `mapstructure:"max_file_size_mb"`
}

// MaxBytes returns the upload size limit in bytes.
func (u UploadConfig) MaxBytes() int64 {
	return u.MaxFileSizeMB * 1024 * 1024
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// EmailConfig holds back-office notification settings.
type EmailConfig struct {
	Provider      string `mapstructure:"provider"`
	Region        string `mapstructure:"region"`
	FromAddress   string `mapstructure:"from_address"`
	FromName      string `mapstructure:"from_name"`
	NotifyTo      string `mapstructure:"notify_to"`
	BackofficeURL string `mapstructure:"backoffice_url"`
}

// ResilienceConfig holds retry and circuit breaker settings for storage calls.
type ResilienceConfig struct {
	RetryMaxAttempts    int           `mapstructure:"retry_max_attempts"`
	RetryInitialBackoff time.Duration `mapstructure:"retry_initial_backoff"`
	RetryMaxBackoff     time.Duration `mapstructure:"retry_max_backoff"`
	BreakerEnabled      bool          `mapstructure:"breaker_enabled"`
	BreakerMinRequests  uint32        `mapstructure:"breaker_min_requests"`
	BreakerFailureRatio float64       `mapstructure:"breaker_failure_ratio"`
	BreakerOpenTimeout  time.Duration `mapstructure:"breaker_open_timeout"`
}

// Load reads configuration from environment variables with the JURIDICO_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("JURIDICO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "juridico")
	v.SetDefault("db.password", "juridico_secret")
	v.SetDefault("db.name", "juridico_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)
	v.SetDefault("db.max_lifetime", "30m")

	// Store defaults
	v.SetDefault("store.driver", "postgres")
	v.SetDefault("store.firestore_project", "")
	v.SetDefault("store.orders_collection", "orders")
	v.SetDefault("store.uploads_collection", "order_uploads")

	// JWT defaults
	v.SetDefault("jwt.secret", "change-me-in-production")
	v.SetDefault("jwt.access_expiry", "15m")
	v.SetDefault("jwt.refresh_expiry", "168h")
	v.SetDefault("jwt.issuer", "juridico")

	// Object storage defaults
	v.SetDefault("storage.driver", "s3")
	v.SetDefault("storage.presign_expiry", "1h")
	v.SetDefault("s3.region", "sa-east-1")
	v.SetDefault("s3.bucket", "juridico-documents")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("gcs.bucket", "")
	v.SetDefault("gcs.credentials_file", "")
	v.SetDefault("gcs.signer_email", "")

	// Upload defaults
	v.SetDefault("upload.max_file_size_mb", 5)

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Email defaults
	v.SetDefault("email.provider", "noop")
	v.SetDefault("email.region", "sa-east-1")
	v.SetDefault("email.from_address", "noreply@juridico.local")
	v.SetDefault("email.from_name", "Jurídico")
	v.SetDefault("email.notify_to", "")
	v.SetDefault("email.backoffice_url", "http://localhost:3000/admin")

	// Resilience defaults
	v.SetDefault("resilience.retry_max_attempts", 3)
	v.SetDefault("resilience.retry_initial_backoff", "200ms")
	v.SetDefault("resilience.retry_max_backoff", "2s")
	v.SetDefault("resilience.breaker_enabled", true)
	v.SetDefault("resilience.breaker_min_requests", 10)
	v.SetDefault("resilience.breaker_failure_ratio", 0.5)
	v.SetDefault("resilience.breaker_open_timeout", "30s")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                      "JURIDICO_SERVER_PORT",
		"server.read_timeout":              "JURIDICO_SERVER_READ_TIMEOUT",
		"server.write_timeout":             "JURIDICO_SERVER_WRITE_TIMEOUT",
		"server.shutdown_timeout":          "JURIDICO_SERVER_SHUTDOWN_TIMEOUT",
		"server.environment":               "JURIDICO_SERVER_ENVIRONMENT",
		"db.host":                          "JURIDICO_DB_HOST",
		"db.port":                          "JURIDICO_DB_PORT",
		"db.user":                          "JURIDICO_DB_USER",
		"db.password":                      "JURIDICO_DB_PASSWORD",
		"db.name":                          "JURIDICO_DB_NAME",
		"db.sslmode":                       "JURIDICO_DB_SSLMODE",
		"db.max_open":                      "JURIDICO_DB_MAX_OPEN",
		"db.max_idle":                      "JURIDICO_DB_MAX_IDLE",
		"db.max_lifetime":                  "JURIDICO_DB_MAX_LIFETIME",
		"store.driver":                     "JURIDICO_STORE_DRIVER",
		"store.firestore_project":          "JURIDICO_STORE_FIRESTORE_PROJECT",
		"store.orders_collection":          "JURIDICO_STORE_ORDERS_COLLECTION",
		"store.uploads_collection":         "JURIDICO_STORE_UPLOADS_COLLECTION",
		"jwt.secret":                       "JURIDICO_JWT_SECRET",
		"jwt.access_expiry":                "JURIDICO_JWT_ACCESS_EXPIRY",
		"jwt.refresh_expiry":               "JURIDICO_JWT_REFRESH_EXPIRY",
		"jwt.issuer":                       "JURIDICO_JWT_ISSUER",
		"storage.driver":                   "JURIDICO_STORAGE_DRIVER",
		"storage.presign_expiry":           "JURIDICO_STORAGE_PRESIGN_EXPIRY",
		"s3.region":                        "JURIDICO_S3_REGION",
		"s3.bucket":                        "JURIDICO_S3_BUCKET",
		"s3.endpoint":                      "JURIDICO_S3_ENDPOINT",
		"s3.access_key":                    "JURIDICO_S3_ACCESS_KEY",
		"s3.secret_key":                    "JURIDICO_S3_SECRET_KEY",
		"gcs.bucket":                       "JURIDICO_GCS_BUCKET",
		"gcs.credentials_file":             "JURIDICO_GCS_CREDENTIALS_FILE",
		"gcs.signer_email":                 "JURIDICO_GCS_SIGNER_EMAIL",
		"upload.max_file_size_mb":          "JURIDICO_UPLOAD_MAX_FILE_SIZE_MB",
		"log.level":                        "JURIDICO_LOG_LEVEL",
		"log.format":                       "JURIDICO_LOG_FORMAT",
		"cors.allowed_origins":             "JURIDICO_CORS_ALLOWED_ORIGINS",
		"email.provider":                   "JURIDICO_EMAIL_PROVIDER",
		"email.region":                     "JURIDICO_EMAIL_REGION",
		"email.from_address":               "JURIDICO_EMAIL_FROM_ADDRESS",
		"email.from_name":                  "JURIDICO_EMAIL_FROM_NAME",
		"email.notify_to":                  "JURIDICO_EMAIL_NOTIFY_TO",
		"email.backoffice_url":             "JURIDICO_EMAIL_BACKOFFICE_URL",
		"resilience.retry_max_attempts":    "JURIDICO_RESILIENCE_RETRY_MAX_ATTEMPTS",
		"resilience.retry_initial_backoff": "JURIDICO_RESILIENCE_RETRY_INITIAL_BACKOFF",
		"resilience.retry_max_backoff":     "JURIDICO_RESILIENCE_RETRY_MAX_BACKOFF",
		"resilience.breaker_enabled":       "JURIDICO_RESILIENCE_BREAKER_ENABLED",
		"resilience.breaker_min_requests":  "JURIDICO_RESILIENCE_BREAKER_MIN_REQUESTS",
		"resilience.breaker_failure_ratio": "JURIDICO_RESILIENCE_BREAKER_FAILURE_RATIO",
		"resilience.breaker_open_timeout":  "JURIDICO_RESILIENCE_BREAKER_OPEN_TIMEOUT",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Hosting platforms set a PORT env var. Use it if JURIDICO_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("JURIDICO_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:            serverPort,
		ReadTimeout:     v.GetDuration("server.read_timeout"),
		WriteTimeout:    v.GetDuration("server.write_timeout"),
		ShutdownTimeout: v.GetDuration("server.shutdown_timeout"),
		Environment:     v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),

		MaxLifetime: v.GetDuration("db.max_lifetime"),
	}
	cfg.Store = StoreConfig{
		Driver:            strings.ToLower(v.GetString("store.driver")),
		FirestoreProject:  v.GetString("store.firestore_project"),
		OrdersCollection:  v.GetString("store.orders_collection"),
		UploadsCollection: v.GetString("store.uploads_collection"),
	}
	cfg.JWT = JWTConfig{
		Secret:             v.GetString("jwt.secret"),
		AccessTokenExpiry:  v.GetDuration("jwt.access_expiry"),
		RefreshTokenExpiry: v.GetDuration("jwt.refresh_expiry"),
		Issuer:             v.GetString("jwt.issuer"),
	}
	cfg.Storage = StorageConfig{
		Driver:        strings.ToLower(v.GetString("storage.driver")),
		PresignExpiry: v.GetDuration("storage.presign_expiry"),
	}
	cfg.S3 = S3Config{
		Region:    v.GetString("s3.region"),
		Bucket:    v.GetString("s3.bucket"),
		Endpoint:  v.GetString("s3.endpoint"),
		AccessKey: v.GetString("s3.access_key"),
		SecretKey: v.GetString("s3.secret_key"),
	}
	cfg.GCS = GCSConfig{
		Bucket:          v.GetString("gcs.bucket"),
		CredentialsFile: v.GetString("gcs.credentials_file"),
		SignerEmail:     v.GetString("gcs.signer_email"),
	}
	cfg.Upload = UploadConfig{
		MaxFileSizeMB: v.GetInt64("upload.max_file_size_mb"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}

	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{AllowedOrigins: corsOrigins}

	cfg.Email = EmailConfig{
		Provider:      v.GetString("email.provider"),
		Region:        v.GetString("email.region"),
		FromAddress:   v.GetString("email.from_address"),
		FromName:      v.GetString("email.from_name"),
		NotifyTo:      v.GetString("email.notify_to"),
		BackofficeURL: v.GetString("email.backoffice_url"),
	}
	cfg.Resilience = ResilienceConfig{
		RetryMaxAttempts:    v.GetInt("resilience.retry_max_attempts"),
		RetryInitialBackoff: v.GetDuration("resilience.retry_initial_backoff"),
		RetryMaxBackoff:     v.GetDuration("resilience.retry_max_backoff"),
		BreakerEnabled:      v.GetBool("resilience.breaker_enabled"),
		BreakerMinRequests:  v.GetUint32("resilience.breaker_min_requests"),
		BreakerFailureRatio: v.GetFloat64("resilience.breaker_failure_ratio"),
		BreakerOpenTimeout:  v.GetDuration("resilience.breaker_open_timeout"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Store.Driver {
	case "postgres":
	case "firestore":
		if c.Store.FirestoreProject == "" {
			return fmt.Errorf("config: store.firestore_project is required for the firestore driver")
		}
	default:
		return fmt.Errorf("config: unknown store.driver %q", c.Store.Driver)
	}

	switch c.Storage.Driver {
	case "s3":
	case "gcs":
		if c.GCS.Bucket == "" {
			return fmt.Errorf("config: gcs.bucket is required for the gcs storage driver")
		}
	default:
		return fmt.Errorf("config: unknown storage.driver %q", c.Storage.Driver)
	}

	if c.Upload.MaxFileSizeMB <= 0 {
		return fmt.Errorf("config: upload.max_file_size_mb must be positive")
	}
	return nil
}
