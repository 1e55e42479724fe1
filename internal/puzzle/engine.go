package puzzle

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/annel0/grid-puzzle/internal/eventbus"
	"github.com/annel0/grid-puzzle/internal/logging"
	"github.com/annel0/grid-puzzle/internal/vec"
	"github.com/google/uuid"
)

// EngineState — состояние конечного автомата движка
type EngineState uint8

const (
	StateReady     EngineState = iota // выбора нет
	StateSelected                     // выбрана подвижная фигура
	StateMoving                       // идёт исполнение маршрута
	StateCompleted                    // терминальное: головоломка решена
)

// String возвращает строковое представление состояния
func (s EngineState) String() string {
	switch s {
	case StateReady:
		return "ready"
	case StateSelected:
		return "selected"
	case StateMoving:
		return "moving"
	case StateCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// Callbacks — колбэки для слоя представления. Любое поле может быть nil.
// Движок вызывает их синхронно в момент фиксации соответствующего
// изменения состояния.
type Callbacks struct {
	OnElementSelected func(id ElementID)
	OnMoveStart       func(id ElementID, path []vec.Vec2)
	OnMoveStep        func(id ElementID, cell vec.Vec2)
	OnElementRevealed func(id ElementID)
	OnElementExited   func(id ElementID)
	OnPuzzleCompleted func()
}

// EngineOptions — параметры создания движка
type EngineOptions struct {
	GridSize  int              // 0 = взять из дескриптора карты (или 8)
	SearchCap int              // 0 = вычислить из размера доски
	WinMode   WinMode          // Strict по умолчанию
	Session   string           // пусто = сгенерировать UUID
	Bus       eventbus.EventBus // nil = события только через колбэки
	Callbacks Callbacks
}

// PuzzleEngine — оркестратор сессии: загрузка карты, выбор фигуры,
// перемещение и небольшой конечный автомат. Исполнение однопоточное
// и событийное; темп отдельных шагов задаёт внешний слой анимации,
// вызывая StepCompleted по одному разу на пройденную клетку.
type PuzzleEngine struct {
	reg     *ElementRegistry
	planner *PathPlanner
	reveal  *RevealEngine
	gates   *GateExitEngine

	state    EngineState
	selected ElementID
	path     []vec.Vec2
	pathPos  int
	moves    uint64

	opts    EngineOptions
	session string
	bus     eventbus.EventBus
	cb      Callbacks
	log     *logging.Logger
}

// NewPuzzleEngine создаёт движок; карта загружается отдельно через LoadMap
func NewPuzzleEngine(opts EngineOptions) *PuzzleEngine {
	session := opts.Session
	if session == "" {
		session = uuid.NewString()
	}
	return &PuzzleEngine{
		state:   StateReady,
		opts:    opts,
		session: session,
		bus:     opts.Bus,
		cb:      opts.Callbacks,
		log:     logging.GetEngineLogger(),
	}
}

// Session возвращает идентификатор сессии
func (pe *PuzzleEngine) Session() string {
	return pe.session
}

// LoadMap строит реестр из дескриптора карты. Любая ошибка данных
// (выход за границы, перекрытие) фатальна для карты: загрузка
// прерывается, прежняя сессия не затрагивается.
func (pe *PuzzleEngine) LoadMap(md *MapData) error {
	size := md.GridSize
	if size <= 0 {
		size = pe.opts.GridSize
	}
	if size <= 0 {
		size = 8
	}

	reg := NewElementRegistry(size)

	for _, g := range md.Gates {
		dir, err := ParseDirection(g.Direction)
		if err != nil {
			return fmt.Errorf("выход %d: %v: %w", g.ID, err, ErrInvalidMapData)
		}
		e := &Element{
			ID:        ElementID(g.ID),
			Kind:      KindGate,
			Color:     g.Color,
			Position:  g.Position.Vec(),
			Direction: dir,
			Length:    g.Length,
		}
		if err := reg.AddElement(e); err != nil {
			return err
		}
	}

	for _, r := range md.Rocks {
		e := &Element{
			ID:       ElementID(r.ID),
			Kind:     KindRock,
			Shape:    SingleCell(),
			Position: r.Position.Vec(),
		}
		if err := reg.AddElement(e); err != nil {
			return err
		}
	}

	for _, b := range md.Blocks {
		shape, err := ResolveShape(b)
		if err != nil {
			return err
		}
		e := &Element{
			ID:       ElementID(b.ID),
			Kind:     KindBlock,
			Color:    b.Color,
			Shape:    shape,
			Position: b.Position.Vec(),
			Layer:    b.Layer,
			Movable:  b.Layer == 0,
		}
		if err := reg.AddElement(e); err != nil {
			return err
		}
	}

	pe.reg = reg
	pe.planner = NewPathPlanner(size, pe.opts.SearchCap)
	pe.reveal = NewRevealEngine(reg)
	pe.gates = NewGateExitEngine(reg, pe.opts.WinMode)
	pe.state = StateReady
	pe.selected = 0
	pe.path = nil
	pe.pathPos = 0
	pe.moves = 0

	metricBlocksRemaining.Set(float64(len(reg.MovableBlocks())))
	pe.log.Info("Карта загружена: %s", reg.GetStats())
	return nil
}

// Registry отдаёт реестр для чтения слоем представления
func (pe *PuzzleEngine) Registry() *ElementRegistry {
	return pe.reg
}

// State возвращает текущее состояние автомата
func (pe *PuzzleEngine) State() EngineState {
	return pe.state
}

// SelectedID возвращает выбранную фигуру, если выбор есть
func (pe *PuzzleEngine) SelectedID() (ElementID, bool) {
	if pe.state == StateSelected || pe.state == StateMoving {
		return pe.selected, true
	}
	return 0, false
}

// Moves возвращает число начатых перемещений за сессию
func (pe *PuzzleEngine) Moves() uint64 {
	return pe.moves
}

// SelectElement выбирает подвижную фигуру. Допустим из Ready/Selected;
// неизвестный, неподвижный или движущийся элемент — no-op (false).
func (pe *PuzzleEngine) SelectElement(id ElementID) bool {
	if pe.reg == nil || (pe.state != StateReady && pe.state != StateSelected) {
		return false
	}
	e, ok := pe.reg.Get(id)
	if !ok || e.Kind != KindBlock || !e.Movable || e.Layer != 0 {
		pe.log.Debug("Выбор отклонён: элемент %d", id)
		return false
	}

	pe.selected = id
	pe.state = StateSelected
	pe.log.Debug("Выбрана фигура %d в %v", id, e.Position)

	if pe.cb.OnElementSelected != nil {
		pe.cb.OnElementSelected(id)
	}
	pe.publish(EventSelected, ElementEventPayload{ID: id})
	return true
}

// MoveElementTo планирует маршрут выбранной фигуры к target.
// Пустой маршрут — no-op, выбор сохраняется. Непустой переводит
// автомат в Moving; фиксацию шагов ведёт StepCompleted.
func (pe *PuzzleEngine) MoveElementTo(target vec.Vec2) []vec.Vec2 {
	if pe.reg == nil || pe.state != StateSelected {
		return nil
	}
	e, ok := pe.reg.Get(pe.selected)
	if !ok {
		pe.repair()
		return nil
	}

	path := pe.planner.FindPath(pe.reg, e, target)
	if len(path) == 0 {
		pe.log.Debug("Фигура %d: хода к %v нет", e.ID, target)
		return nil
	}

	pe.path = path
	pe.pathPos = 0
	pe.state = StateMoving
	pe.moves++
	metricMoves.Inc()
	pe.log.Debug("Фигура %d: маршрут из %d шагов к %v", e.ID, len(path), path[len(path)-1])

	if pe.cb.OnMoveStart != nil {
		pe.cb.OnMoveStart(e.ID, path)
	}
	pe.publish(EventMoveStart, MoveStartPayload{ID: e.ID, Path: path})
	return path
}

// StepCompleted фиксирует один пройденный шаг маршрута: обновление
// GridIndex, затем проход RevealEngine, затем GateExitEngine.
// Вызывается внешним слоем анимации по одному разу на клетку.
// Возвращает true, пока в маршруте остаются шаги.
func (pe *PuzzleEngine) StepCompleted() bool {
	if pe.state != StateMoving || pe.pathPos >= len(pe.path) {
		return false
	}

	next := pe.path[pe.pathPos]
	if err := pe.reg.MoveElement(pe.selected, next); err != nil {
		pe.log.Error("Шаг фигуры %d в %v: %v", pe.selected, next, err)
		pe.repair()
		return false
	}
	pe.pathPos++
	metricSteps.Inc()

	if pe.cb.OnMoveStep != nil {
		pe.cb.OnMoveStep(pe.selected, next)
	}
	pe.publish(EventMoveStep, StepPayload{ID: pe.selected, Cell: next})

	pe.runReveal()

	if e, ok := pe.reg.Get(pe.selected); ok {
		if gate, eligible := pe.gates.EligibleGate(e); eligible {
			pe.commitExit(e, gate)
			return false
		}
	}

	if pe.pathPos >= len(pe.path) {
		pe.finishMove()
		return false
	}
	return true
}

// CancelMove отменяет запланированный маршрут. Отмена определена
// только до первого зафиксированного шага: уже внесённые в GridIndex
// шаги назад не откатываются.
func (pe *PuzzleEngine) CancelMove() bool {
	if pe.state != StateMoving || pe.pathPos > 0 {
		return false
	}
	pe.path = nil
	pe.state = StateSelected
	return true
}

// GetStats возвращает статистику сессии
func (pe *PuzzleEngine) GetStats() string {
	if pe.reg == nil {
		return "PuzzleEngine: карта не загружена"
	}
	return fmt.Sprintf("PuzzleEngine: state=%s moves=%d, %s", pe.state, pe.moves, pe.reg.GetStats())
}

// runReveal выполняет проход продвижения и рассылает события
func (pe *PuzzleEngine) runReveal() {
	for _, revealed := range pe.reveal.Sweep() {
		metricReveals.Inc()
		metricBlocksRemaining.Set(float64(len(pe.reg.MovableBlocks())))
		pe.log.Debug("Элемент %d открыт и продвинут на активный слой", revealed.ID)

		if pe.cb.OnElementRevealed != nil {
			pe.cb.OnElementRevealed(revealed.ID)
		}
		pe.publish(EventRevealed, ElementEventPayload{ID: revealed.ID})
	}
}

// commitExit снимает фигуру с доски, повторяет проход продвижения
// (её клетки могли накрывать погребённые элементы) и проверяет победу
func (pe *PuzzleEngine) commitExit(e *Element, gate *Element) {
	pe.reg.RemoveElement(e.ID)
	metricExits.Inc()
	metricBlocksRemaining.Set(float64(len(pe.reg.MovableBlocks())))
	pe.log.Info("Фигура %d вышла через выход %d (%s)", e.ID, gate.ID, gate.Color)

	if pe.cb.OnElementExited != nil {
		pe.cb.OnElementExited(e.ID)
	}
	pe.publish(EventExited, ElementEventPayload{ID: e.ID})

	pe.runReveal()

	pe.path = nil
	pe.pathPos = 0
	pe.selected = 0

	if pe.gates.IsCompleted() {
		pe.state = StateCompleted
		metricCompleted.Inc()
		pe.log.Info("🏆 Головоломка решена за %d перемещений", pe.moves)

		if pe.cb.OnPuzzleCompleted != nil {
			pe.cb.OnPuzzleCompleted()
		}
		pe.publish(EventCompleted, CompletedPayload{Moves: pe.moves})
		return
	}
	pe.state = StateReady
}

// finishMove возвращает автомат в Ready после исчерпания маршрута
func (pe *PuzzleEngine) finishMove() {
	pe.path = nil
	pe.pathPos = 0
	pe.selected = 0
	pe.state = StateReady
}

// repair перестраивает GridIndex из реестра при рассинхронизации
func (pe *PuzzleEngine) repair() {
	if pe.reg.CheckConsistency() {
		pe.finishMove()
		return
	}
	pe.log.Warn("Обнаружена рассинхронизация индекса, перестраиваем из реестра")
	if err := pe.reg.RebuildIndex(); err != nil {
		pe.log.Error("Перестройка индекса: %v", err)
	}
	pe.finishMove()
}

// publish зеркалирует событие в шину, если она подключена
func (pe *PuzzleEngine) publish(eventType string, payload interface{}) {
	if pe.bus == nil {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		pe.log.Warn("Сериализация события %s: %v", eventType, err)
		return
	}
	env := eventbus.NewEnvelope("engine", eventType, pe.session, data)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := pe.bus.Publish(ctx, env); err != nil {
		pe.log.Warn("Публикация события %s: %v", eventType, err)
	}
}
