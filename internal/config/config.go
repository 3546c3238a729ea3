package config

import (
	"fmt"
	"os"
)

type Config struct {
	Port            string
	SupabaseURL     string
	SupabaseAnonKey string
	MongoDBURI      string
	MongoDBName     string

	RedisAddr     string
	RedisPassword string

	AWSRegion string
	EmailFrom string

	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string

	AutomationWebhookURL string

	WhopAPIBaseURL    string
	WhopAPIKey        string
	WhopWebhookSecret string

	Environment string
	LogLevel    string
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:            getEnvWithDefault("PORT", "8080"),
		SupabaseURL:     os.Getenv("SUPABASE_URL"),
		SupabaseAnonKey: os.Getenv("SUPABASE_URL_ANON_KEY"),
		MongoDBURI:      os.Getenv("MONGODB_URI"),
		MongoDBName:     getEnvWithDefault("MONGODB_NAME", "adminportal"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		AWSRegion: getEnvWithDefault("AWS_REGION", "us-east-1"),
		EmailFrom: os.Getenv("EMAIL_FROM"),

		CloudinaryCloudName: os.Getenv("CLOUDINARY_CLOUD_NAME"),
		CloudinaryAPIKey:    os.Getenv("CLOUDINARY_API_KEY"),
		CloudinaryAPISecret: os.Getenv("CLOUDINARY_API_SECRET"),

		AutomationWebhookURL: os.Getenv("AUTOMATION_WEBHOOK_URL"),

		WhopAPIBaseURL:    getEnvWithDefault("WHOP_API_BASE_URL", "https://api.whop.com/v1"),
		WhopAPIKey:        os.Getenv("WHOP_API_KEY"),
		WhopWebhookSecret: os.Getenv("WHOP_WEBHOOK_SECRET"),

		Environment: getEnvWithDefault("ENVIRONMENT", "development"),
		LogLevel:    getEnvWithDefault("LOG_LEVEL", "info"),
	}

	// Validate required fields
	if cfg.SupabaseURL == "" {
		return nil, fmt.Errorf("SUPABASE_URL is required")
	}
	if cfg.SupabaseAnonKey == "" {
		return nil, fmt.Errorf("SUPABASE_URL_ANON_KEY is required")
	}
	if cfg.MongoDBURI == "" {
		return nil, fmt.Errorf("MONGODB_URI is required")
	}
	if cfg.WhopWebhookSecret == "" {
		return nil, fmt.Errorf("WHOP_WEBHOOK_SECRET is required")
	}

	return cfg, nil
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}
