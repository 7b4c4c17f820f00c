package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string        `mapstructure:"APP_PORT"`
	Env               string        `mapstructure:"ENV"`
	LogLevel          string        `mapstructure:"LOG_LEVEL"`
	ClientURL         string        `mapstructure:"CLIENT_URL"`
	MaxRequestsPerMin int           `mapstructure:"MAX_REQUESTS_PER_MIN"`
	DatabaseURL       string        `mapstructure:"DATABASE_URL"`
	DatabaseName      string        `mapstructure:"DATABASE_NAME"`
	JWTSecret         string        `mapstructure:"JWT_SECRET"`
	TokenTTL          time.Duration `mapstructure:"TOKEN_TTL"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB  int    `mapstructure:"REDIS_CACHE_DB"`
	RedisAuthDB   int    `mapstructure:"REDIS_AUTH_DB"`
	RedisOTPDB    int    `mapstructure:"REDIS_OTP_DB"`
	RedisQueueDB  int    `mapstructure:"REDIS_QUEUE_DB"`

	// Patient phone verification.
	OTPTTL             time.Duration `mapstructure:"OTP_TTL"`
	DefaultCountryCode string        `mapstructure:"DEFAULT_COUNTRY_CODE"`

	// Appointments.
	ClinicTimezone          string        `mapstructure:"CLINIC_TIMEZONE"`
	AppointmentReminderLead time.Duration `mapstructure:"APPOINTMENT_REMINDER_LEAD"`

	// SMS delivery ("log" or "twilio").
	SMSProvider       string `mapstructure:"SMS_PROVIDER"`
	TwilioAccountSID  string `mapstructure:"TWILIO_ACCOUNT_SID"`
	TwilioAuthToken   string `mapstructure:"TWILIO_AUTH_TOKEN"`
	TwilioPhoneNumber string `mapstructure:"TWILIO_PHONE_NUMBER"`

	// Cloudinary (doctor profile pictures).
	CloudinaryCloudName string `mapstructure:"CLOUDINARY_CLOUD_NAME"`
	CloudinaryAPIKey    string `mapstructure:"CLOUDINARY_API_KEY"`
	CloudinaryAPISecret string `mapstructure:"CLOUDINARY_API_SECRET"`

	// Video call signaling relay.
	SignalingBackend         string `mapstructure:"SIGNALING_BACKEND"`
	SignalingMaxMessageBytes int64  `mapstructure:"SIGNALING_MAX_MESSAGE_BYTES"`
	SignalingRequireAuth     bool   `mapstructure:"SIGNALING_REQUIRE_AUTH"`
}

var AppConfig Config

// SetDefaults registers the default value of every key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CLIENT_URL", "http://localhost:5173")
	v.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	v.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	v.SetDefault("DATABASE_NAME", "telecare")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("TOKEN_TTL", "168h")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_CACHE_DB", 0)
	v.SetDefault("REDIS_AUTH_DB", 1)
	v.SetDefault("REDIS_OTP_DB", 2)
	v.SetDefault("REDIS_QUEUE_DB", 3)
	v.SetDefault("OTP_TTL", "10m")
	v.SetDefault("DEFAULT_COUNTRY_CODE", "+91")
	v.SetDefault("CLINIC_TIMEZONE", "Asia/Kolkata")
	v.SetDefault("APPOINTMENT_REMINDER_LEAD", "15m")
	v.SetDefault("SMS_PROVIDER", "log")
	v.SetDefault("TWILIO_ACCOUNT_SID", "")
	v.SetDefault("TWILIO_AUTH_TOKEN", "")
	v.SetDefault("TWILIO_PHONE_NUMBER", "")
	v.SetDefault("CLOUDINARY_CLOUD_NAME", "")
	v.SetDefault("CLOUDINARY_API_KEY", "")
	v.SetDefault("CLOUDINARY_API_SECRET", "")
	v.SetDefault("SIGNALING_BACKEND", "memory")
	v.SetDefault("SIGNALING_MAX_MESSAGE_BYTES", 64*1024)
	v.SetDefault("SIGNALING_REQUIRE_AUTH", false)
}

// Load reads configuration into a Config using the given viper instance.
func Load(v *viper.Viper) (Config, error) {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	// Automatically use environment variables where available.
	v.AutomaticEnv()
	SetDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, err
		}
		log.Println("No config file found, using environment variables only")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func LoadConfig() {
	// A missing .env is normal outside local development.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg, err := Load(viper.GetViper())
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.JWTSecret == "" {
		if cfg.Env == "production" {
			log.Fatal("JWT_SECRET must be set in production")
		}
		cfg.JWTSecret = "telecare-dev-secret"
	}
	AppConfig = cfg
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
