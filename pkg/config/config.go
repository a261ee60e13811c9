package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App      App      `yaml:"app"`
	Database Database `yaml:"database"`
	Webhook  Webhook  `yaml:"webhook"`
	Allows   Allows   `yaml:"allows"`
}

type App struct {
	Name string `yaml:"name"`
	Port string `yaml:"port"`
	Host string `yaml:"host"`
	Env  string `yaml:"env"`
}

type Database struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
	User string `yaml:"user"`
	Pass string `yaml:"pass"`
	Name string `yaml:"name"`
}

// Webhook holds the Meta webhook credentials. VerifyToken answers the
// subscription handshake; AppSecret signs delivery payloads.
type Webhook struct {
	VerifyToken string `yaml:"verify_token"`
	AppSecret   string `yaml:"app_secret"`
}

type Allows struct {
	Methods []string `yaml:"methods"`
	Origins []string `yaml:"origins"`
	Headers []string `yaml:"headers"`
}

func InitConfig() *Config {
	var configs Config
	file_name, _ := filepath.Abs("./config.yaml")
	yaml_file, _ := os.ReadFile(file_name)
	yaml.Unmarshal(yaml_file, &configs)

	// Override with environment variables if they exist (for Docker)
	if dbHost := os.Getenv("DB_HOST"); dbHost != "" {
		configs.Database.Host = dbHost
	}
	if dbPort := os.Getenv("DB_PORT"); dbPort != "" {
		configs.Database.Port = dbPort
	}
	if dbUser := os.Getenv("DB_USER"); dbUser != "" {
		configs.Database.User = dbUser
	}
	if dbPassword := os.Getenv("DB_PASSWORD"); dbPassword != "" {
		configs.Database.Pass = dbPassword
	}
	if dbName := os.Getenv("DB_NAME"); dbName != "" {
		configs.Database.Name = dbName
	}

	// Override app configuration with environment variables
	if appHost := os.Getenv("APP_HOST"); appHost != "" {
		configs.App.Host = appHost
	}
	if appPort := os.Getenv("APP_PORT"); appPort != "" {
		configs.App.Port = appPort
	}
	if appName := os.Getenv("APP_NAME"); appName != "" {
		configs.App.Name = appName
	}
	if appEnv := os.Getenv("APP_ENV"); appEnv != "" {
		configs.App.Env = appEnv
	}

	// Webhook credentials come from the Meta App Dashboard
	if verifyToken := os.Getenv("WHATSAPP_WEBHOOK_VERIFY_TOKEN"); verifyToken != "" {
		configs.Webhook.VerifyToken = verifyToken
	}
	if appSecret := os.Getenv("WHATSAPP_APP_SECRET"); appSecret != "" {
		configs.Webhook.AppSecret = appSecret
	} else if appSecret := os.Getenv("META_APP_SECRET"); appSecret != "" {
		configs.Webhook.AppSecret = appSecret
	}

	return &configs
}

// IsProduction reports whether the service runs with production policies
// (signature verification fails closed).
func (a App) IsProduction() bool {
	return a.Env == "production" || a.Env == "prod"
}
