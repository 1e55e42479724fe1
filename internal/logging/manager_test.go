package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetComponentLogger_SilentBeforeInit(t *testing.T) {
	require.Nil(t, defaultLogger, "Тест рассчитан на неинициализированное логирование")

	log := GetComponentLogger("engine")
	require.NotNil(t, log)
	assert.NotPanics(t, func() {
		log.Debug("сообщение %d", 1)
		log.Error("сообщение %d", 2)
	}, "Молчаливый логгер должен принимать сообщения без побочных эффектов")

	_, err := os.Stat("logs")
	assert.True(t, os.IsNotExist(err), "До инициализации файлы логов не создаются")
}

func TestLoggerManager_CachesPerComponent(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	defer func() { _ = os.Chdir(wd) }()

	lm := GetLoggerManager()
	first, err := lm.GetLogger("engine")
	require.NoError(t, err)
	second, err := lm.GetLogger("engine")
	require.NoError(t, err)
	assert.Same(t, first, second, "Повторный запрос возвращает закэшированный логгер")

	_, err = lm.GetLogger("path")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"engine", "path"}, lm.ListComponents())

	entries, err := filepath.Glob(filepath.Join("logs", "*.log"))
	require.NoError(t, err)
	assert.Len(t, entries, 2, "По файлу на компонент")

	require.NoError(t, lm.CloseAll())
	assert.Empty(t, lm.ListComponents(), "CloseAll сбрасывает кэш")
}
