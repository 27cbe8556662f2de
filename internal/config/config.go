package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config содержит конфигурацию клиента StoryTime API.
// Разрешается один раз при старте процесса и внедряется явно - никаких
// разбросанных по коду констант с базовым URL.
type Config struct {
	// Базовый URL бэкенда (без завершающего слеша)
	APIBaseURL string `envconfig:"STORY_API_BASE_URL" default:"https://api.story-time.mikeboe.com"`
	// Таймаут одного HTTP запроса. Генерация истории может быть долгой.
	RequestTimeout time.Duration `envconfig:"STORY_API_REQUEST_TIMEOUT" default:"90s"`
	// Окно debounce для автосохранения в мастерской
	AutoSaveDebounce time.Duration `envconfig:"STORY_AUTOSAVE_DEBOUNCE" default:"2s"`
	LogLevel         string        `envconfig:"LOG_LEVEL" default:"info"`

	// Токены авторизации. Секреты - в логи не выводить.
	AccessToken  string `envconfig:"STORY_ACCESS_TOKEN"`
	RefreshToken string `envconfig:"STORY_REFRESH_TOKEN"`
}

// StoriesBaseURL возвращает корень API историй.
func (c *Config) StoriesBaseURL() string {
	return strings.TrimSuffix(c.APIBaseURL, "/") + "/stories"
}

// LoadConfig загружает конфигурацию из переменных окружения.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("ошибка загрузки конфигурации клиента: %w", err)
	}

	if _, err := url.ParseRequestURI(cfg.APIBaseURL); err != nil {
		return nil, fmt.Errorf("некорректный STORY_API_BASE_URL %q: %w", cfg.APIBaseURL, err)
	}

	return &cfg, nil
}
