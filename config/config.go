package config

import (
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port       int    `envconfig:"PORT" default:"3000"`
	AppURL     string `envconfig:"APP_URL"`
	DataDir    string `envconfig:"DATA_DIR" default:"data"`
	LeadsFile  string `envconfig:"LEADS_FILE" default:"leads.jsonl"`
	SiteDir    string `envconfig:"SITE_DIR" default:"site"`
	AdminToken string `envconfig:"ADMIN_TOKEN"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"text"`

	RazorpayKeyID          string `envconfig:"RAZORPAY_KEY_ID"`
	RazorpayKeySecret      string `envconfig:"RAZORPAY_KEY_SECRET"`
	RazorpayPlanID         string `envconfig:"RAZORPAY_PLAN_ID"`
	RazorpayWebhookSecret  string `envconfig:"RAZORPAY_WEBHOOK_SECRET"`
	SubscriptionTotalCount int    `envconfig:"SUBSCRIPTION_TOTAL_COUNT" default:"12"`

	// Kafka (comma-separated brokers, empty disables publishing)
	KafkaBrokers      string `envconfig:"KAFKA_BROKERS"`
	KafkaLeadTopic    string `envconfig:"KAFKA_LEAD_TOPIC" default:"leads"`
	KafkaPaymentTopic string `envconfig:"KAFKA_PAYMENT_TOPIC" default:"payments"`

	SMTPHost      string `envconfig:"SMTP_HOST" default:"smtp.gmail.com"`
	SMTPPort      int    `envconfig:"SMTP_PORT" default:"587"`
	SMTPUser      string `envconfig:"SMTP_USER"`
	SMTPPass      string `envconfig:"SMTP_PASS"`
	EmailFrom     string `envconfig:"EMAIL_FROM"`
	NotifyEmailTo string `envconfig:"NOTIFY_EMAIL_TO"`

	// Reporting mirror, disabled while DB_HOST is empty
	DBHost     string `envconfig:"DB_HOST"`
	DBPort     string `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" default:"postgres"`
	DBPassword string `envconfig:"DB_PASSWORD"`
	DBName     string `envconfig:"DB_NAME" default:"postgres"`
	DBSSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
}

// LoadConfig reads an optional .env file and decodes the environment.
func LoadConfig() (Config, error) {
	// Try loading .env from different locations
	envLocations := []string{
		".env",           // project root
		"config/.env",    // config subdirectory
		"../config/.env", // one level up
	}

	envLoaded := false
	for _, location := range envLocations {
		if err := godotenv.Load(location); err == nil {
			envLoaded = true
			break
		}
	}

	if !envLoaded {
		log.Println("No .env file found, using environment variables")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("error decoding environment: %w", err)
	}
	return cfg, nil
}

// LeadsPath is the location of the append-only lead log.
func (c Config) LeadsPath() string {
	return filepath.Join(c.DataDir, c.LeadsFile)
}

// BaseURL is the public address used to build checkout return URLs.
func (c Config) BaseURL() string {
	if c.AppURL != "" {
		return strings.TrimRight(c.AppURL, "/")
	}
	return fmt.Sprintf("http://localhost:%d", c.Port)
}

// Brokers splits KafkaBrokers, dropping blanks.
func (c Config) Brokers() []string {
	var brokers []string
	for _, b := range strings.Split(c.KafkaBrokers, ",") {
		if b := strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

// MirrorEnabled reports whether the Postgres reporting mirror is configured.
func (c Config) MirrorEnabled() bool {
	return c.DBHost != ""
}

// NotifyEnabled reports whether new-lead emails can be sent.
func (c Config) NotifyEnabled() bool {
	return c.SMTPUser != "" && c.SMTPPass != "" && c.NotifyEmailTo != ""
}

func (c Config) GetDBConnString() string {
	return "host=" + c.DBHost +
		" port=" + c.DBPort +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" sslmode=" + c.DBSSLMode
}
