package vec

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVec2_Arithmetic(t *testing.T) {
	a := Vec2{X: 2, Y: 3}
	b := Vec2{X: -1, Y: 5}

	assert.Equal(t, Vec2{X: 1, Y: 8}, a.Add(b), "Сумма векторов должна быть покомпонентной")
	assert.Equal(t, Vec2{X: 3, Y: -2}, a.Sub(b), "Разность векторов должна быть покомпонентной")
}

func TestVec2_ManhattanTo(t *testing.T) {
	a := Vec2{X: 1, Y: 1}

	assert.Equal(t, 0, a.ManhattanTo(a), "Расстояние до себя должно быть 0")
	assert.Equal(t, 7, a.ManhattanTo(Vec2{X: 4, Y: 5}), "Манхэттенское расстояние должно суммировать оси")
	assert.Equal(t, 4, a.ManhattanTo(Vec2{X: -1, Y: -1}), "Расстояние должно быть неотрицательным")
}

func TestVec2_InSquare(t *testing.T) {
	assert.True(t, Vec2{X: 0, Y: 0}.InSquare(8), "Начало координат внутри доски")
	assert.True(t, Vec2{X: 7, Y: 7}.InSquare(8), "Последняя клетка внутри доски")
	assert.False(t, Vec2{X: 8, Y: 0}.InSquare(8), "Граница size исключается")
	assert.False(t, Vec2{X: 0, Y: -1}.InSquare(8), "Отрицательные координаты вне доски")
}

func TestVec2_Neighbors4(t *testing.T) {
	neighbors := Vec2{X: 3, Y: 3}.Neighbors4()

	assert.Len(t, neighbors, 4, "Соседей должно быть ровно четыре")
	for _, n := range neighbors {
		assert.Equal(t, 1, n.ManhattanTo(Vec2{X: 3, Y: 3}), "Каждый сосед на расстоянии одного шага")
	}
}
