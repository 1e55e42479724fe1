package puzzle

import (
	"github.com/annel0/grid-puzzle/internal/vec"
)

// IsBlocked — чистая таблица правил проходимости по парам видов:
// может ли движущийся элемент вида moving занять клетку, удерживаемую
// элементом вида stationary. Диагональных правил здесь нет — PathPlanner
// сам ограничивает раскрытие четырьмя направлениями.
func IsBlocked(moving, stationary ElementKind) bool {
	switch moving {
	case KindBlock:
		switch stationary {
		case KindBlock:
			return true // фигуры активного слоя непроницаемы друг для друга
		case KindRock:
			return true // камни блокируют всегда
		case KindGate:
			// Геометрически клетки выхода проходимы: допуск по цвету
			// и размеру оценивает GateExitEngine, а не поиск пути.
			return false
		}
	case KindRock, KindGate:
		return true // неподвижные виды не перемещаются вовсе
	}
	return true
}

// CanOccupy проверяет, что весь footprint фигуры с якорем anchor
// помещается в границы доски и не пересекает непроходимые клетки.
// occupant отдаёт элемент, удерживающий клетку активного слоя.
// Проверяется каждая клетка footprint, а не только якорь — этим
// планирование жёсткого многоклеточного тела отличается от
// точечного поиска пути.
func CanOccupy(anchor vec.Vec2, moving *Element, gridSize int, occupant func(vec.Vec2) (*Element, bool)) bool {
	for _, cell := range moving.FootprintAt(anchor) {
		if !cell.InSquare(gridSize) {
			return false
		}
		other, held := occupant(cell)
		if !held {
			continue
		}
		if other.ID == moving.ID {
			continue // собственные клетки фигуры не мешают её же шагу
		}
		if IsBlocked(moving.Kind, other.Kind) {
			return false
		}
	}
	return true
}
