package puzzle

import (
	"github.com/annel0/grid-puzzle/internal/logging"
	"github.com/annel0/grid-puzzle/internal/vec"
)

// DefaultSearchCapFactor задаёт лимит раскрытий BFS по умолчанию:
// factor × число клеток доски. Лимит гарантирует, что одно
// взаимодействие не растянет тик ввода.
const DefaultSearchCapFactor = 3

// PathPlanner строит маршрут жёсткой многоклеточной фигуры
// как последовательность якорных позиций.
type PathPlanner struct {
	gridSize      int
	maxExpansions int
	log           *logging.Logger
}

// NewPathPlanner создаёт планировщик. maxExpansions <= 0 означает
// «вычислить из размера доски».
func NewPathPlanner(gridSize, maxExpansions int) *PathPlanner {
	if maxExpansions <= 0 {
		maxExpansions = DefaultSearchCapFactor * gridSize * gridSize
	}
	return &PathPlanner{
		gridSize:      gridSize,
		maxExpansions: maxExpansions,
		log:           logging.GetPathLogger(),
	}
}

// FindPath ищет маршрут фигуры e к якорной клетке target поиском в ширину
// по якорным позициям. Раскрытие только в 4 ортогональных направлениях:
// шаг всегда на одну строку или один столбец, диагональ жёсткое
// многоклеточное тело срезала бы углом. Каждый кандидат проходит проверку
// всего footprint по границам и CollisionPolicy прежде, чем попасть во
// фронтир.
//
// Пустой результат — хода нет (в том числе target == позиция фигуры).
// Если точная цель недостижима, возвращается маршрут к посещённому узлу
// с минимальным манхэттенским расстоянием до цели: жест игрока даёт
// продвижение всегда, когда хоть какое-то продвижение возможно.
func (pp *PathPlanner) FindPath(reg *ElementRegistry, e *Element, target vec.Vec2) []vec.Vec2 {
	if e == nil || e.Kind != KindBlock || !e.Movable || e.Layer != 0 {
		return nil
	}
	start := e.Position
	if target == start {
		return nil
	}

	occupant := func(cell vec.Vec2) (*Element, bool) {
		return reg.Query(cell)
	}

	visited := map[vec.Vec2]bool{start: true}
	parent := make(map[vec.Vec2]vec.Vec2)
	queue := []vec.Vec2{start}

	best := start
	bestDist := start.ManhattanTo(target)
	expansions := 0

search:
	for len(queue) > 0 && expansions < pp.maxExpansions {
		cur := queue[0]
		queue = queue[1:]
		expansions++

		for _, next := range cur.Neighbors4() {
			if visited[next] {
				continue
			}
			if !CanOccupy(next, e, pp.gridSize, occupant) {
				continue
			}
			visited[next] = true
			parent[next] = cur

			// Кандидат оценивается при постановке во фронтир: якоря,
			// не дождавшиеся раскрытия из-за лимита, тоже участвуют
			// в выборе лучшего.
			if d := next.ManhattanTo(target); d < bestDist {
				best, bestDist = next, d
				if bestDist == 0 {
					break search
				}
			}
			queue = append(queue, next)
		}
	}

	metricPathExpansions.Add(float64(expansions))
	if expansions >= pp.maxExpansions && bestDist > 0 {
		pp.log.Debug("Фигура %d: лимит раскрытий %d исчерпан, лучший якорь %v (до цели %d)",
			e.ID, pp.maxExpansions, best, bestDist)
	}

	if best == start {
		return nil // цель недостижима и приблизиться не к чему
	}
	return reconstruct(parent, start, best)
}

// reconstruct разворачивает цепочку родителей в маршрут от start
// (не включая его) до goal.
func reconstruct(parent map[vec.Vec2]vec.Vec2, start, goal vec.Vec2) []vec.Vec2 {
	var reversed []vec.Vec2
	for cur := goal; cur != start; cur = parent[cur] {
		reversed = append(reversed, cur)
	}

	path := make([]vec.Vec2, len(reversed))
	for i, cell := range reversed {
		path[len(reversed)-1-i] = cell
	}
	return path
}
