package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Site     SiteConfig     `mapstructure:"site"`
	Log      LogConfig      `mapstructure:"log"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	OSS      OSSConfig      `mapstructure:"oss"`
	OAuth    OAuthConfig    `mapstructure:"oauth"`
	Email    EmailConfig    `mapstructure:"email"`
	Queue    QueueConfig    `mapstructure:"queue"`
	CORS     CORSConfig     `mapstructure:"cors"`
	Access   AccessConfig   `mapstructure:"access"`
	Payment  PaymentConfig  `mapstructure:"payment"`
	Cron     CronConfig     `mapstructure:"cron"`
	Upload   UploadConfig   `mapstructure:"upload"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

type SiteConfig struct {
	Name          string `mapstructure:"name"`
	PublicURL     string `mapstructure:"public_url"`
	OperatorEmail string `mapstructure:"operator_email"`
}

type LogConfig struct {
	Level   string `mapstructure:"level"`
	Console bool   `mapstructure:"console"`
}

type DatabaseConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	Username     string `mapstructure:"username"`
	Password     string `mapstructure:"password"`
	Database     string `mapstructure:"database"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

type JWTConfig struct {
	Secret      string `mapstructure:"secret"`
	ExpireHours int    `mapstructure:"expire_hours"`
}

type OSSConfig struct {
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	AccessKeySecret string `mapstructure:"access_key_secret"`
	BucketName      string `mapstructure:"bucket_name"`
	CDNDomain       string `mapstructure:"cdn_domain"`
}

type OAuthConfig struct {
	Google GoogleOAuthConfig `mapstructure:"google"`
}

type GoogleOAuthConfig struct {
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	RedirectURI  string `mapstructure:"redirect_uri"`
}

type EmailConfig struct {
	SMTPHost string `mapstructure:"smtp_host"`
	SMTPPort int    `mapstructure:"smtp_port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

type QueueConfig struct {
	NotificationQueue string `mapstructure:"notification_queue"`
	MaxWorkers        int    `mapstructure:"max_workers"`
	MaxAttempts       int    `mapstructure:"max_attempts"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	AllowedMethods []string `mapstructure:"allowed_methods"`
	AllowedHeaders []string `mapstructure:"allowed_headers"`
}

// AccessConfig seeds the pricing catalog and tunes the connection-access flow.
// Tiers and the free fallback are copied into the database on first start;
// after that the admin back-office owns them.
type AccessConfig struct {
	Tiers                     []TierConfig `mapstructure:"tiers"`
	FreeAccessFallbackEnabled bool         `mapstructure:"free_access_fallback_enabled"`
	FreeAccessDurationMinutes int          `mapstructure:"free_access_duration_minutes"`

	// ReviewGuardWhenPending sets review_requested even when another review
	// placeholder is already pending for the user.
	ReviewGuardWhenPending   bool `mapstructure:"review_guard_when_pending"`
	PendingOrderReuseMinutes int  `mapstructure:"pending_order_reuse_minutes"`
	ReviewLockSeconds        int  `mapstructure:"review_lock_seconds"`
}

type TierConfig struct {
	ID           string `mapstructure:"id"`
	Label        string `mapstructure:"label"`
	Price        int64  `mapstructure:"price"`
	DurationDays int    `mapstructure:"duration_days"`
	Enabled      bool   `mapstructure:"enabled"`
}

type PaymentConfig struct {
	BaseURL          string  `mapstructure:"base_url"`
	KeyID            string  `mapstructure:"key_id"`
	KeySecret        string  `mapstructure:"key_secret"`
	Currency         string  `mapstructure:"currency"`
	TimeoutSeconds   int     `mapstructure:"timeout_seconds"`
	OrdersPerMinute  float64 `mapstructure:"orders_per_minute"`
	OrderBurst       int     `mapstructure:"order_burst"`
	AbandonAfterMins int     `mapstructure:"abandon_after_minutes"`
}

type CronConfig struct {
	AbandonOrdersSchedule string `mapstructure:"abandon_orders_schedule"`
}

type UploadConfig struct {
	MaxSize           int64    `mapstructure:"max_size"`
	AllowedExtensions []string `mapstructure:"allowed_extensions"`
}

func Load(configPath string) (*Config, error) {
	// .env is optional and only fills variables that are not already set
	_ = godotenv.Load()

	// config.local.yaml carries real secrets and is not committed
	dir := filepath.Dir(configPath)
	localConfigPath := filepath.Join(dir, "config.local.yaml")

	if _, err := os.Stat(localConfigPath); err == nil {
		configPath = localConfigPath
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	// secrets usually come from the environment; viper only maps env vars
	// onto keys it already knows
	for _, key := range []string{
		"database.password",
		"redis.password",
		"jwt.secret",
		"oss.access_key_id",
		"oss.access_key_secret",
		"oauth.google.client_id",
		"oauth.google.client_secret",
		"email.password",
		"payment.key_id",
		"payment.key_secret",
	} {
		v.SetDefault(key, "")
	}

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("log.level", "info")
	v.SetDefault("queue.notification_queue", "notification_jobs")
	v.SetDefault("queue.max_workers", 2)
	v.SetDefault("queue.max_attempts", 3)
	v.SetDefault("access.free_access_duration_minutes", 30)
	v.SetDefault("access.pending_order_reuse_minutes", 15)
	v.SetDefault("access.review_lock_seconds", 10)
	v.SetDefault("payment.base_url", "https://api.razorpay.com")
	v.SetDefault("payment.currency", "INR")
	v.SetDefault("payment.timeout_seconds", 15)
	v.SetDefault("payment.orders_per_minute", 6)
	v.SetDefault("payment.order_burst", 3)
	v.SetDefault("payment.abandon_after_minutes", 60)
	v.SetDefault("cron.abandon_orders_schedule", "@every 10m")
	v.SetDefault("upload.max_size", 5*1024*1024)
	v.SetDefault("upload.allowed_extensions", []string{".jpg", ".jpeg", ".png", ".webp"})
}
