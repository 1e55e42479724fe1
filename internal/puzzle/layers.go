package puzzle

import (
	"fmt"
	"sort"

	"github.com/annel0/grid-puzzle/internal/vec"
)

// LayerStore ведёт состав слоёв и занятые клетки погребённых слоёв.
// Слой 0 — активная плоскость, её клетки учитывает GridIndex;
// здесь для слоя 0 хранится только список участников.
type LayerStore struct {
	members map[int]map[ElementID]struct{}
	cells   map[int]map[vec.Vec2]ElementID // только слои > 0
}

// NewLayerStore создаёт пустое хранилище слоёв
func NewLayerStore() *LayerStore {
	return &LayerStore{
		members: make(map[int]map[ElementID]struct{}),
		cells:   make(map[int]map[vec.Vec2]ElementID),
	}
}

// Add регистрирует элемент в его слое. Для погребённого элемента
// клетки footprint записываются в послойную карту; перекрытие внутри
// одного слоя — ошибка данных карты.
func (ls *LayerStore) Add(e *Element) error {
	if e.Layer > 0 {
		layerCells := ls.cells[e.Layer]
		if layerCells == nil {
			layerCells = make(map[vec.Vec2]ElementID)
			ls.cells[e.Layer] = layerCells
		}
		for _, cell := range e.Footprint() {
			if holder, occupied := layerCells[cell]; occupied && holder != e.ID {
				return fmt.Errorf("слой %d, клетка %v уже занята элементом %d: %w",
					e.Layer, cell, holder, ErrInvalidMapData)
			}
		}
		for _, cell := range e.Footprint() {
			layerCells[cell] = e.ID
		}
	}

	if ls.members[e.Layer] == nil {
		ls.members[e.Layer] = make(map[ElementID]struct{})
	}
	ls.members[e.Layer][e.ID] = struct{}{}
	return nil
}

// Remove убирает элемент из его слоя
func (ls *LayerStore) Remove(e *Element) {
	if members, ok := ls.members[e.Layer]; ok {
		delete(members, e.ID)
		if len(members) == 0 {
			delete(ls.members, e.Layer)
		}
	}
	if e.Layer > 0 {
		if layerCells, ok := ls.cells[e.Layer]; ok {
			for _, cell := range e.Footprint() {
				if layerCells[cell] == e.ID {
					delete(layerCells, cell)
				}
			}
			if len(layerCells) == 0 {
				delete(ls.cells, e.Layer)
			}
		}
	}
}

// CellOccupied проверяет занятость клетки на погребённом слое
func (ls *LayerStore) CellOccupied(layer int, cell vec.Vec2) bool {
	layerCells, ok := ls.cells[layer]
	if !ok {
		return false
	}
	_, occupied := layerCells[cell]
	return occupied
}

// IDsAt возвращает отсортированный список элементов слоя
func (ls *LayerStore) IDsAt(layer int) []ElementID {
	members, ok := ls.members[layer]
	if !ok {
		return nil
	}
	ids := make([]ElementID, 0, len(members))
	for id := range members {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// BuriedIDs возвращает элементы всех слоёв выше нуля
// в порядке (слой, id) — порядок продвижения детерминирован.
func (ls *LayerStore) BuriedIDs() []ElementID {
	layers := make([]int, 0, len(ls.members))
	for layer := range ls.members {
		if layer > 0 {
			layers = append(layers, layer)
		}
	}
	sort.Ints(layers)

	var ids []ElementID
	for _, layer := range layers {
		ids = append(ids, ls.IDsAt(layer)...)
	}
	return ids
}
