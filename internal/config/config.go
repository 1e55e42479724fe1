package config

import (
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config корневая структура конфигурации приложения.
// Содержит настройки движка, шины событий и метрик.

type Config struct {
	Engine   EngineConfig   `yaml:"engine"`
	EventBus EventBusConfig `yaml:"eventbus"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

type EngineConfig struct {
	GridSize  int    `yaml:"grid_size"`
	SearchCap int    `yaml:"search_cap"` // максимум раскрытий BFS за один тик
	WinMode   string `yaml:"win_mode"`   // "strict" или "parked"
}

type EventBusConfig struct {
	URL       string `yaml:"url"`    // nats://..., пусто = in-memory шина
	Stream    string `yaml:"stream"` // имя JetStream стрима
	Retention int    `yaml:"retention_hours"`
}

type MetricsConfig struct {
	Port int `yaml:"port"`
}

// GetGridSize возвращает размер доски с поддержкой fallback значений
func (e *EngineConfig) GetGridSize() int {
	return getIntWithEnvFallback(e.GridSize, "PUZZLE_GRID_SIZE", 8)
}

// GetSearchCap возвращает лимит раскрытий поиска пути.
// 0 в конфиге означает "вычислить из размера доски".
func (e *EngineConfig) GetSearchCap() int {
	return getIntWithEnvFallback(e.SearchCap, "PUZZLE_SEARCH_CAP", 0)
}

// GetWinMode возвращает режим победы ("strict" по умолчанию)
func (e *EngineConfig) GetWinMode() string {
	if e.WinMode != "" {
		return e.WinMode
	}
	if mode := os.Getenv("PUZZLE_WIN_MODE"); mode != "" {
		return mode
	}
	return "strict"
}

// GetMetricsPort возвращает Prometheus метрики порт с поддержкой fallback значений
func (m *MetricsConfig) GetMetricsPort() int {
	return getIntWithEnvFallback(m.Port, "PUZZLE_METRICS_PORT", 2112)
}

// getIntWithEnvFallback возвращает значение с приоритетом: config -> env -> default
func getIntWithEnvFallback(configVal int, envVar string, defaultVal int) int {
	// Если значение задано в конфиге и больше 0, используем его
	if configVal > 0 {
		return configVal
	}

	// Пробуем прочитать из environment variable
	if envVal := os.Getenv(envVar); envVal != "" {
		if v, err := strconv.Atoi(envVal); err == nil && v > 0 {
			return v
		}
	}

	// Используем дефолтное значение
	return defaultVal
}

// Load читает YAML файл конфигурации.
// Если path == "", пытается прочитать из ENV PUZZLE_CONFIG или возвращает nil, nil.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("PUZZLE_CONFIG")
		if path == "" {
			return nil, nil // конфиг не задан — использовать дефолты
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
