package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/annel0/grid-puzzle/internal/config"
	"github.com/annel0/grid-puzzle/internal/eventbus"
	"github.com/annel0/grid-puzzle/internal/logging"
	"github.com/annel0/grid-puzzle/internal/puzzle"
	"github.com/annel0/grid-puzzle/internal/vec"
)

func main() {
	// Инициализируем систему логирования
	if err := logging.InitDefaultLogger("server"); err != nil {
		log.Fatalf("❌ Ошибка инициализации логирования: %v", err)
	}
	defer logging.CloseDefaultLogger()
	defer func() { _ = logging.GetLoggerManager().CloseAll() }()

	logging.Info("🧩 Запуск симуляционного ядра головоломки...")

	// === КОНФИГУРАЦИЯ ===
	cfg, err := config.Load("")
	if err != nil {
		logging.Error("Ошибка чтения конфигурации: %v", err)
		os.Exit(1)
	}
	if cfg == nil {
		cfg = &config.Config{}
	}

	mapPath := os.Getenv("PUZZLE_MAP")
	if len(os.Args) > 1 {
		mapPath = os.Args[1]
	}
	if mapPath == "" {
		logging.Error("Не указана карта: PUZZLE_MAP или первый аргумент")
		os.Exit(1)
	}

	// === ШИНА СОБЫТИЙ ===
	var bus eventbus.EventBus
	if cfg.EventBus.URL != "" {
		jsBus, err := eventbus.NewJetStreamBus(cfg.EventBus.URL, cfg.EventBus.Stream,
			time.Duration(cfg.EventBus.Retention)*time.Hour)
		if err != nil {
			logging.Error("Ошибка подключения к NATS (%s), падаем на in-memory шину: %v", cfg.EventBus.URL, err)
			bus = eventbus.NewMemoryBus(1024)
		} else {
			defer jsBus.Close()
			bus = jsBus
		}
	} else {
		bus = eventbus.NewMemoryBus(1024)
	}
	eventbus.Init(bus)

	if err := eventbus.StartLoggingListener(bus); err != nil {
		logging.Warn("LoggingListener не запущен: %v", err)
	}

	exporter := eventbus.NewMetricsExporter(bus)
	exporter.StartHTTP(fmt.Sprintf(":%d", cfg.Metrics.GetMetricsPort()))
	defer exporter.Stop()

	// === ДВИЖОК ===
	engine := puzzle.NewPuzzleEngine(puzzle.EngineOptions{
		GridSize:  cfg.Engine.GetGridSize(),
		SearchCap: cfg.Engine.GetSearchCap(),
		WinMode:   puzzle.ParseWinMode(cfg.Engine.GetWinMode()),
		Bus:       bus,
		Callbacks: puzzle.Callbacks{
			OnElementSelected: func(id puzzle.ElementID) {
				fmt.Printf("  -> выбрана фигура %d\n", id)
			},
			OnMoveStart: func(id puzzle.ElementID, path []vec.Vec2) {
				fmt.Printf("  -> фигура %d: маршрут из %d шагов\n", id, len(path))
			},
			OnMoveStep: func(id puzzle.ElementID, cell vec.Vec2) {
				fmt.Printf("  -> фигура %d в (%d,%d)\n", id, cell.X, cell.Y)
			},
			OnElementRevealed: func(id puzzle.ElementID) {
				fmt.Printf("  -> элемент %d открыт\n", id)
			},
			OnElementExited: func(id puzzle.ElementID) {
				fmt.Printf("  -> фигура %d покинула доску\n", id)
			},
			OnPuzzleCompleted: func() {
				fmt.Println("  🏆 Головоломка решена!")
			},
		},
	})

	mapData, err := puzzle.LoadMapFile(mapPath)
	if err != nil {
		logging.Error("Ошибка чтения карты: %v", err)
		os.Exit(1)
	}
	if err := engine.LoadMap(mapData); err != nil {
		logging.Error("Ошибка загрузки карты: %v", err)
		os.Exit(1)
	}

	logging.Info("Сессия %s, карта %s", engine.Session(), mapPath)
	fmt.Println(engine.GetStats())
	fmt.Println("Команды: select <id> | move <x> <y> | cancel | stats | quit")

	// === КОМАНДНЫЙ ЦИКЛ ===
	// Здесь драйвер заменяет слой анимации: каждый шаг маршрута
	// фиксируется немедленно.
	scanner := bufio.NewScanner(os.Stdin)
	for engine.State() != puzzle.StateCompleted {
		fmt.Printf("[%s]> ", engine.State())
		if !scanner.Scan() {
			break
		}
		runCommand(engine, strings.Fields(scanner.Text()))
	}

	fmt.Println(engine.GetStats())
	logging.Info("Завершение работы")
}

func runCommand(engine *puzzle.PuzzleEngine, fields []string) {
	if len(fields) == 0 {
		return
	}
	switch fields[0] {
	case "select":
		if len(fields) != 2 {
			fmt.Println("использование: select <id>")
			return
		}
		id, err := strconv.ParseUint(fields[1], 10, 64)
		if err != nil {
			fmt.Println("некорректный id")
			return
		}
		if !engine.SelectElement(puzzle.ElementID(id)) {
			fmt.Println("выбор отклонён")
		}
	case "move":
		if len(fields) != 3 {
			fmt.Println("использование: move <x> <y>")
			return
		}
		x, errX := strconv.Atoi(fields[1])
		y, errY := strconv.Atoi(fields[2])
		if errX != nil || errY != nil {
			fmt.Println("некорректные координаты")
			return
		}
		path := engine.MoveElementTo(vec.Vec2{X: x, Y: y})
		if len(path) == 0 {
			fmt.Println("хода нет")
			return
		}
		// Фиксируем шаги без анимационных пауз
		for engine.StepCompleted() {
		}
	case "cancel":
		if !engine.CancelMove() {
			fmt.Println("отменять нечего")
		}
	case "stats":
		fmt.Println(engine.GetStats())
	case "quit":
		os.Exit(0)
	default:
		fmt.Println("неизвестная команда")
	}
}
