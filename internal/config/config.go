package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config represents the application configuration
type Config struct {
	Server        ServerConfig        `json:"server"`
	AWS           AWSConfig           `json:"aws"`
	Storage       StorageConfig       `json:"storage"`
	Template      TemplateConfig      `json:"template"`
	Render        RenderConfig        `json:"render"`
	Notifications NotificationsConfig `json:"notifications"`
	Logging       LoggingConfig       `json:"logging"`
	Offline       OfflineConfig       `json:"offline"`
}

// ServerConfig represents the local HTTP listener
type ServerConfig struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

// AWSConfig selects region, credentials and an optional endpoint override
type AWSConfig struct {
	Region          string `json:"region"`
	Endpoint        string `json:"endpoint"`
	AccessKeyID     string `json:"access_key_id"`
	SecretAccessKey string `json:"secret_access_key"`
}

// StorageConfig names the certificate table and bucket
type StorageConfig struct {
	Table  string `json:"table"`
	Bucket string `json:"bucket"`
}

// TemplateConfig
type TemplateConfig struct {
	Dir string `json:"dir"`
}

// RenderConfig configures the headless browser
type RenderConfig struct {
	BrowserBin string `json:"browser_bin"`
	NoSandbox  bool   `json:"no_sandbox"`
}

// NotificationsConfig
type NotificationsConfig struct {
	TopicARN string `json:"topic_arn"`
}

// LoggingConfig
type LoggingConfig struct {
	Level string `json:"level"`
}

// OfflineConfig toggles local execution mode
type OfflineConfig struct {
	Enabled bool   `json:"enabled"`
	PDFPath string `json:"pdf_path"`
}

// Default returns the configuration used when nothing overrides it
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 3000,
		},
		AWS: AWSConfig{
			Region: "us-east-1",
		},
		Storage: StorageConfig{
			Table:  "users_certificate",
			Bucket: "certificate-issuer",
		},
		Template: TemplateConfig{
			Dir: "template",
		},
		Render: RenderConfig{
			NoSandbox: true,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Offline: OfflineConfig{
			PDFPath: "./certificate.pdf",
		},
	}
}

// LoadConfig loads configuration from file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	config := Default()

	if configPath != "" {
		if data, err := os.ReadFile(configPath); err == nil {
			if err := json.Unmarshal(data, config); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}

	overrideWithEnv(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func overrideWithEnv(config *Config) {
	if host := os.Getenv("SERVER_HOST"); host != "" {
		config.Server.Host = host
	}
	if port := os.Getenv("SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if region := os.Getenv("AWS_REGION"); region != "" {
		config.AWS.Region = region
	}
	if endpoint := os.Getenv("AWS_ENDPOINT_URL"); endpoint != "" {
		config.AWS.Endpoint = endpoint
	}
	if key := os.Getenv("AWS_ACCESS_KEY_ID"); key != "" {
		config.AWS.AccessKeyID = key
	}
	if secret := os.Getenv("AWS_SECRET_ACCESS_KEY"); secret != "" {
		config.AWS.SecretAccessKey = secret
	}

	if table := os.Getenv("CERTIFICATE_TABLE"); table != "" {
		config.Storage.Table = table
	}
	if bucket := os.Getenv("CERTIFICATE_BUCKET"); bucket != "" {
		config.Storage.Bucket = bucket
	}
	if dir := os.Getenv("CERTIFICATE_TEMPLATE_DIR"); dir != "" {
		config.Template.Dir = dir
	}

	if bin := os.Getenv("CHROME_BIN"); bin != "" {
		config.Render.BrowserBin = bin
	}
	if v, ok := envBool("CHROME_NO_SANDBOX"); ok {
		config.Render.NoSandbox = v
	}

	if topic := os.Getenv("CERTIFICATE_TOPIC_ARN"); topic != "" {
		config.Notifications.TopicARN = topic
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if v, ok := envBool("IS_OFFLINE"); ok {
		config.Offline.Enabled = v
	}
	if path := os.Getenv("OFFLINE_PDF_PATH"); path != "" {
		config.Offline.PDFPath = path
	}
}

// envBool reports the parsed value of key. Any non-empty value that is not
// a recognised boolean counts as true, so IS_OFFLINE=yes enables offline mode.
func envBool(key string) (bool, bool) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return false, false
	}
	if v, err := strconv.ParseBool(raw); err == nil {
		return v, true
	}
	return true, true
}

// Validate checks the settings every binary needs
func (c *Config) Validate() error {
	if c.Storage.Table == "" {
		return fmt.Errorf("storage table is required")
	}
	if c.Storage.Bucket == "" {
		return fmt.Errorf("storage bucket is required")
	}
	if c.Template.Dir == "" {
		return fmt.Errorf("template dir is required")
	}
	return nil
}

// OfflinePDFPath returns where rendered PDFs are copied, empty when not offline
func (c *Config) OfflinePDFPath() string {
	if !c.Offline.Enabled {
		return ""
	}
	return c.Offline.PDFPath
}

// GetServerAddr returns the server address
func (c *ServerConfig) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
