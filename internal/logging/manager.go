package logging

import (
	"fmt"
	"sync"
)

// LoggerManager управляет множественными логгерами для разных компонентов
type LoggerManager struct {
	mu      sync.RWMutex
	loggers map[string]*Logger
}

var (
	globalManager *LoggerManager
	managerOnce   sync.Once
)

// GetLoggerManager возвращает глобальный менеджер логгеров
func GetLoggerManager() *LoggerManager {
	managerOnce.Do(func() {
		globalManager = &LoggerManager{
			loggers: make(map[string]*Logger),
		}
	})
	return globalManager
}

// GetLogger возвращает логгер для компонента, создавая его при необходимости
func (lm *LoggerManager) GetLogger(component string) (*Logger, error) {
	lm.mu.RLock()
	if logger, exists := lm.loggers[component]; exists {
		lm.mu.RUnlock()
		return logger, nil
	}
	lm.mu.RUnlock()

	// Создаем новый логгер под write lock
	lm.mu.Lock()
	defer lm.mu.Unlock()

	// Проверяем еще раз на случай race condition
	if logger, exists := lm.loggers[component]; exists {
		return logger, nil
	}

	logger, err := NewLogger(component)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger for %s: %w", component, err)
	}

	lm.loggers[component] = logger
	return logger, nil
}

// MustGetLogger возвращает логгер или логгер по умолчанию при ошибке
func (lm *LoggerManager) MustGetLogger(component string) *Logger {
	logger, err := lm.GetLogger(component)
	if err != nil {
		if defaultLogger != nil {
			return defaultLogger
		}
		// Fallback: логгер только в stdout, без файла
		return &Logger{
			minConsoleLevel: INFO,
			minFileLevel:    ERROR,
		}
	}
	return logger
}

// CloseAll закрывает все логгеры
func (lm *LoggerManager) CloseAll() error {
	lm.mu.Lock()
	defer lm.mu.Unlock()

	var firstErr error
	for component, logger := range lm.loggers {
		if err := logger.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("close logger %s: %w", component, err)
		}
	}
	lm.loggers = make(map[string]*Logger)
	return firstErr
}

// ListComponents возвращает имена компонентов с активными логгерами
func (lm *LoggerManager) ListComponents() []string {
	lm.mu.RLock()
	defer lm.mu.RUnlock()

	components := make([]string, 0, len(lm.loggers))
	for component := range lm.loggers {
		components = append(components, component)
	}
	return components
}

// GetComponentLogger сокращение для получения логгера компонента.
// Пока логирование процесса не инициализировано (InitDefaultLogger),
// возвращается молчаливый логгер: компоненты можно конструировать
// до инициализации без побочных файлов.
func GetComponentLogger(component string) *Logger {
	if defaultLogger == nil {
		return &Logger{}
	}
	return GetLoggerManager().MustGetLogger(component)
}

// GetEngineLogger возвращает логгер движка головоломки
func GetEngineLogger() *Logger {
	return GetComponentLogger("engine")
}

// GetPathLogger возвращает логгер поиска пути
func GetPathLogger() *Logger {
	return GetComponentLogger("path")
}

// GetEventLogger возвращает логгер шины событий
func GetEventLogger() *Logger {
	return GetComponentLogger("events")
}
