package puzzle

import (
	"testing"

	"github.com/annel0/grid-puzzle/internal/vec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// assertValidPath проверяет свойство маршрута: каждый шаг ровно на одну
// клетку по одной оси, и весь footprint свободен в каждой позиции.
func assertValidPath(t *testing.T, reg *ElementRegistry, e *Element, start vec.Vec2, path []vec.Vec2) {
	t.Helper()
	occupant := func(cell vec.Vec2) (*Element, bool) { return reg.Query(cell) }

	prev := start
	for i, anchor := range path {
		assert.Equal(t, 1, prev.ManhattanTo(anchor),
			"Шаг %d: позиции должны отличаться ровно на одну клетку по одной оси", i)
		assert.True(t, CanOccupy(anchor, e, reg.GridSize(), occupant),
			"Шаг %d: footprint в %v должен быть свободен", i, anchor)
		prev = anchor
	}
}

func TestPathPlanner_StraightLine(t *testing.T) {
	reg := NewElementRegistry(8)
	block := newBlock(1, "red", vec.Vec2{X: 1, Y: 1})
	require.NoError(t, reg.AddElement(block))

	pp := NewPathPlanner(8, 0)
	path := pp.FindPath(reg, block, vec.Vec2{X: 1, Y: 4})

	require.Len(t, path, 3, "Прямой маршрут из трёх шагов")
	assert.Equal(t, vec.Vec2{X: 1, Y: 4}, path[len(path)-1], "Маршрут должен заканчиваться в цели")
	assertValidPath(t, reg, block, block.Position, path)
}

func TestPathPlanner_NoOpTarget(t *testing.T) {
	reg := NewElementRegistry(8)
	block := newBlock(1, "red", vec.Vec2{X: 3, Y: 3})
	require.NoError(t, reg.AddElement(block))

	pp := NewPathPlanner(8, 0)
	assert.Empty(t, pp.FindPath(reg, block, vec.Vec2{X: 3, Y: 3}),
		"Цель в текущей позиции — пустой маршрут")
}

func TestPathPlanner_DetourAroundRock(t *testing.T) {
	reg := NewElementRegistry(8)
	block := newBlock(1, "red", vec.Vec2{X: 0, Y: 0})
	require.NoError(t, reg.AddElement(block))
	require.NoError(t, reg.AddElement(newRock(2, vec.Vec2{X: 1, Y: 0})))

	pp := NewPathPlanner(8, 0)
	path := pp.FindPath(reg, block, vec.Vec2{X: 2, Y: 0})

	require.NotEmpty(t, path, "Обходной маршрут должен существовать")
	assert.Equal(t, vec.Vec2{X: 2, Y: 0}, path[len(path)-1])
	assert.Len(t, path, 4, "BFS должен найти кратчайший обход")
	assert.NotContains(t, path, vec.Vec2{X: 1, Y: 0}, "Маршрут не должен проходить сквозь камень")
	assertValidPath(t, reg, block, block.Position, path)
}

func TestPathPlanner_MultiCellBodyRespectsFootprint(t *testing.T) {
	reg := NewElementRegistry(8)
	// Вертикальное домино: якорь + клетка снизу
	piece := newBlock(1, "red", vec.Vec2{X: 0, Y: 0}, vec.Vec2{X: 0, Y: 0}, vec.Vec2{X: 0, Y: 1})
	require.NoError(t, reg.AddElement(piece))
	require.NoError(t, reg.AddElement(newRock(2, vec.Vec2{X: 1, Y: 1})))

	pp := NewPathPlanner(8, 0)
	path := pp.FindPath(reg, piece, vec.Vec2{X: 2, Y: 0})

	require.NotEmpty(t, path, "Маршрут в обход занятой колонки должен существовать")
	assert.Equal(t, vec.Vec2{X: 2, Y: 0}, path[len(path)-1])
	assert.NotContains(t, path, vec.Vec2{X: 1, Y: 0},
		"Якорь (1,0) недопустим: нижняя клетка footprint упирается в камень")
	assertValidPath(t, reg, piece, piece.Position, path)
}

func TestPathPlanner_BoxedInReturnsEmpty(t *testing.T) {
	reg := NewElementRegistry(8)
	block := newBlock(1, "red", vec.Vec2{X: 3, Y: 3})
	require.NoError(t, reg.AddElement(block))
	require.NoError(t, reg.AddElement(newRock(2, vec.Vec2{X: 3, Y: 2})))
	require.NoError(t, reg.AddElement(newRock(3, vec.Vec2{X: 3, Y: 4})))
	require.NoError(t, reg.AddElement(newRock(4, vec.Vec2{X: 2, Y: 3})))
	require.NoError(t, reg.AddElement(newRock(5, vec.Vec2{X: 4, Y: 3})))

	pp := NewPathPlanner(8, 0)
	assert.Empty(t, pp.FindPath(reg, block, vec.Vec2{X: 0, Y: 0}),
		"Запертая со всех четырёх сторон фигура не имеет хода")
}

func TestPathPlanner_BestEffortPartialMove(t *testing.T) {
	reg := NewElementRegistry(8)
	block := newBlock(1, "red", vec.Vec2{X: 0, Y: 0})
	require.NoError(t, reg.AddElement(block))
	// Сплошная стена камней на строке y=2
	for x := 0; x < 8; x++ {
		require.NoError(t, reg.AddElement(newRock(ElementID(10+x), vec.Vec2{X: x, Y: 2})))
	}

	pp := NewPathPlanner(8, 0)
	path := pp.FindPath(reg, block, vec.Vec2{X: 0, Y: 5})

	require.NotEmpty(t, path, "Недостижимая цель должна давать частичное продвижение")
	assert.Equal(t, vec.Vec2{X: 0, Y: 1}, path[len(path)-1],
		"Маршрут заканчивается в посещённой клетке, ближайшей к цели по манхэттену")
	assertValidPath(t, reg, block, block.Position, path)
}

func TestPathPlanner_ImmovablePieceRejected(t *testing.T) {
	reg := NewElementRegistry(8)
	buried := newBlock(1, "red", vec.Vec2{X: 1, Y: 1})
	buried.Layer = 1
	buried.Movable = false
	require.NoError(t, reg.AddElement(buried))

	pp := NewPathPlanner(8, 0)
	assert.Empty(t, pp.FindPath(reg, buried, vec.Vec2{X: 3, Y: 1}),
		"Погребённая фигура не планируется")
	assert.Empty(t, pp.FindPath(reg, nil, vec.Vec2{X: 3, Y: 1}), "nil-фигура не планируется")
}

func TestPathPlanner_ExpansionCap(t *testing.T) {
	reg := NewElementRegistry(8)
	block := newBlock(1, "red", vec.Vec2{X: 0, Y: 0})
	require.NoError(t, reg.AddElement(block))

	// Лимит в два раскрытия: поиск обязан остановиться и вернуть
	// лучшее из уже посещённого
	pp := NewPathPlanner(8, 2)
	path := pp.FindPath(reg, block, vec.Vec2{X: 7, Y: 7})

	assert.NotEmpty(t, path, "Даже с малым лимитом продвижение возможно")
	assert.LessOrEqual(t, len(path), 2, "Глубина маршрута ограничена числом раскрытий")
	assertValidPath(t, reg, block, block.Position, path)
}

func TestPathPlanner_FrontierCountsTowardBestEffort(t *testing.T) {
	reg := NewElementRegistry(8)
	block := newBlock(1, "red", vec.Vec2{X: 0, Y: 0})
	require.NoError(t, reg.AddElement(block))

	// Лимит в одно раскрытие: раскрывается только стартовый якорь.
	// Соседи, поставленные во фронтир, всё равно участвуют в выборе
	// лучшего — иначе маршрут был бы пуст при возможном продвижении.
	pp := NewPathPlanner(8, 1)
	path := pp.FindPath(reg, block, vec.Vec2{X: 3, Y: 0})

	require.Equal(t, []vec.Vec2{{X: 1, Y: 0}}, path,
		"Лучший из поставленных во фронтир якорей должен попасть в маршрут")
	assertValidPath(t, reg, block, block.Position, path)
}

func BenchmarkPathPlanner_FindPath(b *testing.B) {
	reg := NewElementRegistry(16)
	piece := newBlock(1, "red", vec.Vec2{X: 0, Y: 0}, vec.Vec2{X: 0, Y: 0}, vec.Vec2{X: 1, Y: 0})
	if err := reg.AddElement(piece); err != nil {
		b.Fatal(err)
	}
	// Разреженные препятствия по диагонали
	for i := 0; i < 7; i++ {
		if err := reg.AddElement(newRock(ElementID(10+i), vec.Vec2{X: 2 + i*2, Y: 3 + i})); err != nil {
			b.Fatal(err)
		}
	}
	pp := NewPathPlanner(16, 0)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		pp.FindPath(reg, piece, vec.Vec2{X: 14, Y: 14})
	}
}
