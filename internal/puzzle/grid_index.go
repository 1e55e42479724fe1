package puzzle

import (
	"fmt"

	"github.com/annel0/grid-puzzle/internal/vec"
)

// GridIndex — пространственный индекс активного слоя: клетка -> элемент.
// Покрывает только слой 0; клетки погребённых слоёв ведёт LayerStore.
// Инвариант: каждая клетка принадлежит не более чем одному элементу.
type GridIndex struct {
	size  int
	cells map[vec.Vec2]ElementID
}

// NewGridIndex создаёт индекс для доски size×size
func NewGridIndex(size int) *GridIndex {
	return &GridIndex{
		size:  size,
		cells: make(map[vec.Vec2]ElementID),
	}
}

// Insert вносит клетки элемента в индекс. Все клетки проверяются
// до первой записи: частично применённых вставок не бывает.
func (gi *GridIndex) Insert(id ElementID, cells []vec.Vec2) error {
	for _, cell := range cells {
		if !cell.InSquare(gi.size) {
			return fmt.Errorf("клетка %v вне доски %dx%d: %w", cell, gi.size, gi.size, ErrInvalidMapData)
		}
		if holder, occupied := gi.cells[cell]; occupied && holder != id {
			return fmt.Errorf("клетка %v уже занята элементом %d: %w", cell, holder, ErrInvalidMapData)
		}
	}
	for _, cell := range cells {
		gi.cells[cell] = id
	}
	return nil
}

// Remove убирает клетки из индекса
func (gi *GridIndex) Remove(cells []vec.Vec2) {
	for _, cell := range cells {
		delete(gi.cells, cell)
	}
}

// Query возвращает элемент, удерживающий клетку активного слоя
func (gi *GridIndex) Query(cell vec.Vec2) (ElementID, bool) {
	id, ok := gi.cells[cell]
	return id, ok
}

// Len возвращает число занятых клеток
func (gi *GridIndex) Len() int {
	return len(gi.cells)
}

// Clear сбрасывает индекс (используется при перестройке)
func (gi *GridIndex) Clear() {
	gi.cells = make(map[vec.Vec2]ElementID)
}

// GetStats возвращает статистику индекса
func (gi *GridIndex) GetStats() string {
	return fmt.Sprintf("GridIndex: %d/%d клеток занято", len(gi.cells), gi.size*gi.size)
}
