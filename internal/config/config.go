package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config содержит конфигурацию для Adventure Server.
// Никаких глобальных переменных: конфиг собирается в main и передается
// компонентам явно.
type Config struct {
	// Настройки сервера
	Env      string `envconfig:"APP_ENV" default:"development"`
	Port     string `envconfig:"SERVER_PORT" default:"8000"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// Настройки PostgreSQL
	DBHost     string        `envconfig:"DB_HOST" default:"localhost"`
	DBPort     string        `envconfig:"DB_PORT" default:"5432"`
	DBUser     string        `envconfig:"DB_USER" required:"true"`
	DBPassword string        `envconfig:"DB_PASSWORD" required:"true"`
	DBName     string        `envconfig:"DB_NAME" required:"true"`
	DBSSLMode  string        `envconfig:"DB_SSL_MODE" default:"disable"`
	DBMaxConns int32         `envconfig:"DB_MAX_CONNECTIONS" default:"10"`
	DBTimeout  time.Duration `envconfig:"DB_CONNECT_TIMEOUT" default:"10s"`

	// Настройки AI API
	AIClientType string        `envconfig:"AI_CLIENT_TYPE" default:"openai"` // openai или ollama
	AIAPIKey     string        `envconfig:"AI_API_KEY"`
	AIBaseURL    string        `envconfig:"AI_BASE_URL" default:"https://openrouter.ai/api/v1"`
	AIModel      string        `envconfig:"AI_MODEL" default:"deepseek/deepseek-chat-v3-0324:free"`
	AITimeout    time.Duration `envconfig:"AI_TIMEOUT" default:"120s"`

	// Директория с системными промтами
	PromptsDir string `envconfig:"PROMPTS_DIR" default:"prompts"`

	// Настройки CORS
	CORSAllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

// GetDSN возвращает строку подключения (DSN) для PostgreSQL
func (c *Config) GetDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode)
}

// LoadConfig загружает конфигурацию из переменных окружения
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("ошибка загрузки конфигурации: %w", err)
	}
	return &cfg, nil
}
