package puzzle

import (
	"fmt"
	"sort"

	"github.com/annel0/grid-puzzle/internal/vec"
)

// ElementRegistry — канонический реестр всех элементов сессии.
// Элементы адресуются непрозрачными ID; пространственный индекс
// и хранилище слоёв — отдельные структуры, ссылающиеся на те же ID,
// обратных ссылок элементы не держат.
type ElementRegistry struct {
	size     int
	elements map[ElementID]*Element
	nextID   ElementID
	layers   *LayerStore
	grid     *GridIndex
}

// NewElementRegistry создаёт пустой реестр для доски size×size
func NewElementRegistry(size int) *ElementRegistry {
	return &ElementRegistry{
		size:     size,
		elements: make(map[ElementID]*Element),
		nextID:   1,
		layers:   NewLayerStore(),
		grid:     NewGridIndex(size),
	}
}

// GridSize возвращает размер доски
func (r *ElementRegistry) GridSize() int {
	return r.size
}

// AddElement валидирует footprint и регистрирует элемент.
// Слой 0 попадает в GridIndex, слои выше — только в LayerStore.
// Выход клетки плоскости не занимает: он лежит на краю и проверяется
// GateExitEngine отдельно.
func (r *ElementRegistry) AddElement(e *Element) error {
	if e.ID == 0 {
		e.ID = r.nextID
	}
	if _, exists := r.elements[e.ID]; exists {
		return fmt.Errorf("дубликат id %d: %w", e.ID, ErrInvalidMapData)
	}

	if e.Kind == KindGate {
		if err := r.validateGate(e); err != nil {
			return err
		}
		r.elements[e.ID] = e
		r.bumpNextID(e.ID)
		return nil
	}

	if len(e.Shape.Offsets) == 0 {
		return fmt.Errorf("элемент %d: пустой footprint: %w", e.ID, ErrInvalidMapData)
	}
	for _, cell := range e.Footprint() {
		if !cell.InSquare(r.size) {
			return fmt.Errorf("элемент %d: клетка %v вне доски: %w", e.ID, cell, ErrInvalidMapData)
		}
	}

	if e.Layer == 0 {
		if err := r.grid.Insert(e.ID, e.Footprint()); err != nil {
			return fmt.Errorf("элемент %d: %w", e.ID, err)
		}
	}
	if err := r.layers.Add(e); err != nil {
		if e.Layer == 0 {
			r.grid.Remove(e.Footprint())
		}
		return fmt.Errorf("элемент %d: %w", e.ID, err)
	}

	r.elements[e.ID] = e
	r.bumpNextID(e.ID)
	return nil
}

// RemoveElement убирает элемент и все клетки его footprint из индексов
func (r *ElementRegistry) RemoveElement(id ElementID) {
	e, ok := r.elements[id]
	if !ok {
		return
	}
	if e.Kind != KindGate {
		if e.Layer == 0 {
			r.grid.Remove(e.Footprint())
		}
		r.layers.Remove(e)
	}
	delete(r.elements, id)
}

// MoveElement атомарно переносит элемент активного слоя на новую якорную
// позицию: старый footprint снимается, новый валидируется и вносится.
// При конфликте старое состояние восстанавливается.
func (r *ElementRegistry) MoveElement(id ElementID, newPos vec.Vec2) error {
	e, ok := r.elements[id]
	if !ok {
		return fmt.Errorf("элемент %d не найден: %w", id, ErrStateCorruption)
	}
	if e.Kind != KindBlock || e.Layer != 0 {
		return fmt.Errorf("элемент %d (%s, слой %d) неподвижен: %w", id, e.Kind, e.Layer, ErrStateCorruption)
	}

	oldCells := e.Footprint()
	newCells := e.FootprintAt(newPos)

	r.grid.Remove(oldCells)
	if err := r.grid.Insert(e.ID, newCells); err != nil {
		// Откат: возвращаем старый footprint
		if restoreErr := r.grid.Insert(e.ID, oldCells); restoreErr != nil {
			return fmt.Errorf("откат шага элемента %d не удался: %w", id, ErrStateCorruption)
		}
		return err
	}

	e.Position = newPos
	return nil
}

// Query возвращает элемент, удерживающий клетку активного слоя
func (r *ElementRegistry) Query(cell vec.Vec2) (*Element, bool) {
	id, ok := r.grid.Query(cell)
	if !ok {
		return nil, false
	}
	e, ok := r.elements[id]
	return e, ok
}

// Get возвращает элемент по ID
func (r *ElementRegistry) Get(id ElementID) (*Element, bool) {
	e, ok := r.elements[id]
	return e, ok
}

// Elements возвращает все элементы, отсортированные по ID
func (r *ElementRegistry) Elements() []*Element {
	result := make([]*Element, 0, len(r.elements))
	for _, e := range r.elements {
		result = append(result, e)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

// MovableBlocks возвращает подвижные фигуры активного слоя
func (r *ElementRegistry) MovableBlocks() []*Element {
	var result []*Element
	for _, e := range r.Elements() {
		if e.Kind == KindBlock && e.Layer == 0 && e.Movable {
			result = append(result, e)
		}
	}
	return result
}

// Buried возвращает погребённые элементы в порядке (слой, id)
func (r *ElementRegistry) Buried() []*Element {
	ids := r.layers.BuriedIDs()
	result := make([]*Element, 0, len(ids))
	for _, id := range ids {
		if e, ok := r.elements[id]; ok {
			result = append(result, e)
		}
	}
	return result
}

// Gates возвращает выходы, отсортированные по ID
func (r *ElementRegistry) Gates() []*Element {
	var result []*Element
	for _, e := range r.Elements() {
		if e.Kind == KindGate {
			result = append(result, e)
		}
	}
	return result
}

// promote переводит погребённый элемент на активный слой:
// клетки снимаются с погребённого слоя и вносятся в GridIndex,
// элемент становится подвижным. Переход необратим.
func (r *ElementRegistry) promote(e *Element) error {
	r.layers.Remove(e)
	oldLayer := e.Layer
	e.Layer = 0
	if err := r.grid.Insert(e.ID, e.Footprint()); err != nil {
		e.Layer = oldLayer
		_ = r.layers.Add(e)
		return fmt.Errorf("продвижение элемента %d: %w", e.ID, ErrStateCorruption)
	}
	e.Movable = true
	_ = r.layers.Add(e)
	return nil
}

// CheckConsistency сверяет GridIndex с footprint элементов активного слоя
func (r *ElementRegistry) CheckConsistency() bool {
	claimed := 0
	for _, e := range r.elements {
		if e.Kind == KindGate || e.Layer != 0 {
			continue
		}
		for _, cell := range e.Footprint() {
			holder, ok := r.grid.Query(cell)
			if !ok || holder != e.ID {
				return false
			}
			claimed++
		}
	}
	return claimed == r.grid.Len()
}

// RebuildIndex перестраивает GridIndex из реестра. Вызывается при
// обнаружении рассинхронизации вместо работы на битом состоянии.
func (r *ElementRegistry) RebuildIndex() error {
	r.grid.Clear()
	for _, e := range r.Elements() {
		if e.Kind == KindGate || e.Layer != 0 {
			continue
		}
		if err := r.grid.Insert(e.ID, e.Footprint()); err != nil {
			return fmt.Errorf("перестройка индекса: %w", err)
		}
	}
	return nil
}

// GetStats возвращает статистику реестра
func (r *ElementRegistry) GetStats() string {
	blocks, rocks, gates, buried := 0, 0, 0, 0
	for _, e := range r.elements {
		switch e.Kind {
		case KindBlock:
			blocks++
			if e.Layer > 0 {
				buried++
			}
		case KindRock:
			rocks++
		case KindGate:
			gates++
		}
	}
	return fmt.Sprintf("ElementRegistry: %d фигур (%d погребено), %d камней, %d выходов, %s",
		blocks, buried, rocks, gates, r.grid.GetStats())
}

func (r *ElementRegistry) validateGate(e *Element) error {
	if e.Length < 1 {
		return fmt.Errorf("выход %d: длина %d: %w", e.ID, e.Length, ErrInvalidMapData)
	}
	for _, cell := range e.GateSpan() {
		if !cell.InSquare(r.size) {
			return fmt.Errorf("выход %d: клетка %v вне доски: %w", e.ID, cell, ErrInvalidMapData)
		}
	}
	onEdge := false
	switch e.Direction {
	case DirUp:
		onEdge = e.Position.Y == 0
	case DirDown:
		onEdge = e.Position.Y == r.size-1
	case DirLeft:
		onEdge = e.Position.X == 0
	case DirRight:
		onEdge = e.Position.X == r.size-1
	}
	if !onEdge {
		return fmt.Errorf("выход %d: позиция %v не на краю %s: %w", e.ID, e.Position, e.Direction, ErrInvalidMapData)
	}
	return nil
}

func (r *ElementRegistry) bumpNextID(used ElementID) {
	if used >= r.nextID {
		r.nextID = used + 1
	}
}
