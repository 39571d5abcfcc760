package config

import (
	"fmt"
	"time"
	_ "time/tzdata" // containers often ship without zoneinfo

	"github.com/spf13/viper"
)

// The service runs as a pod with its settings injected as environment
// variables; the defaults below match the docker-compose stack with LocalStack.

type Config struct {
	DBHost               string `mapstructure:"DB_HOST"`
	DBPort               string `mapstructure:"DB_PORT"`
	DBUser               string `mapstructure:"DB_USER"`
	DBPassword           string `mapstructure:"DB_PASSWORD"`
	DBName               string `mapstructure:"DB_NAME"`
	ServerPort           string `mapstructure:"SERVER_PORT"`
	IsLocalDev           bool   `mapstructure:"IS_LOCAL_DEV"`
	Timezone             string `mapstructure:"TIMEZONE"`
	JWTSecret            string `mapstructure:"JWT_SECRET"`
	AWSRegion            string `mapstructure:"AWS_REGION"`
	AWSEndpoint          string `mapstructure:"AWS_ENDPOINT"`
	TimesheetSQSQueueURL string `mapstructure:"TIMESHEET_SQS_QUEUE_URL"`
	EmailSQSQueueURL     string `mapstructure:"EMAIL_SQS_QUEUE_URL"`
	TimesheetAPIURL      string `mapstructure:"TIMESHEET_API_URL"`
	EmailSender          string `mapstructure:"EMAIL_SENDER"`
	EmailDomain          string `mapstructure:"EMAIL_DOMAIN"`
	OTelExporter         string `mapstructure:"OTEL_EXPORTER"`
	OTelEndpoint         string `mapstructure:"OTEL_ENDPOINT"`
}

// LoadConfig reads configuration from environment variables.
func LoadConfig() (config Config, err error) {
	v := viper.New()
	setDefaults(v)

	// Read in environment variables that match the keys.
	v.AutomaticEnv()

	err = v.Unmarshal(&config)
	if err != nil {
		return
	}
	if _, err = config.Location(); err != nil {
		return
	}
	return
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("DB_HOST", "db")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "user")
	v.SetDefault("DB_PASSWORD", "password")
	v.SetDefault("DB_NAME", "attendance_db")
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("IS_LOCAL_DEV", false)
	v.SetDefault("TIMEZONE", "Asia/Tokyo")
	v.SetDefault("JWT_SECRET", "change-me")
	v.SetDefault("AWS_REGION", "us-east-1")
	v.SetDefault("AWS_ENDPOINT", "http://localstack:4566")
	v.SetDefault("TIMESHEET_SQS_QUEUE_URL", "http://localstack:4566/000000000000/timesheet-queue")
	v.SetDefault("EMAIL_SQS_QUEUE_URL", "http://localstack:4566/000000000000/email-queue")
	v.SetDefault("TIMESHEET_API_URL", "http://localhost:8081/")
	v.SetDefault("EMAIL_SENDER", "timeclock@attendance-service.com")
	v.SetDefault("EMAIL_DOMAIN", "factory.com")
	v.SetDefault("OTEL_EXPORTER", "otlp")
	v.SetDefault("OTEL_ENDPOINT", "jaeger:4317")
}

// Location resolves the single time zone all attendance dates are kept in.
func (c Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}
