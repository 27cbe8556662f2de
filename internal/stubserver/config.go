package stubserver

import (
	"fmt"
	"log"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config - конфигурация стаб-сервера.
// Читается из config.yml, при его отсутствии - из переменных окружения.
type Config struct {
	Port           string        `yaml:"port" env:"STUB_SERVER_PORT" env-default:"8090"`
	GenerateDelay  time.Duration `yaml:"generate_delay" env:"STUB_GENERATE_DELAY" env-default:"300ms"`
	LogLevel       string        `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
	ConfigFilePath string        `yaml:"-" env:"STUB_CONFIG_PATH" env-default:"config.yml"`
}

// LoadConfig загружает конфигурацию стаба.
func LoadConfig() (*Config, error) {
	var cfg Config

	// Сначала узнаем путь к файлу конфига из окружения
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("ошибка чтения окружения: %w", err)
	}

	if err := cleanenv.ReadConfig(cfg.ConfigFilePath, &cfg); err != nil {
		log.Printf("Предупреждение: не удалось прочитать файл конфигурации '%s': %v. Используются переменные окружения.", cfg.ConfigFilePath, err)
	}

	return &cfg, nil
}
