package vec

// Vec2 представляет целочисленные координаты клетки на доске
type Vec2 struct {
	X, Y int
}

// Add возвращает сумму двух векторов
func (v Vec2) Add(other Vec2) Vec2 {
	return Vec2{X: v.X + other.X, Y: v.Y + other.Y}
}

// Sub возвращает разность двух векторов
func (v Vec2) Sub(other Vec2) Vec2 {
	return Vec2{X: v.X - other.X, Y: v.Y - other.Y}
}

// ManhattanTo вычисляет манхэттенское расстояние до другой клетки
func (v Vec2) ManhattanTo(other Vec2) int {
	return abs(v.X-other.X) + abs(v.Y-other.Y)
}

// InSquare проверяет, что клетка лежит в квадрате [0,size)²
func (v Vec2) InSquare(size int) bool {
	return v.X >= 0 && v.X < size && v.Y >= 0 && v.Y < size
}

// Neighbors4 возвращает четырёх ортогональных соседей клетки.
// Диагональных соседей у клетки нет: движение в движке
// всегда идёт на один шаг по строке или столбцу.
func (v Vec2) Neighbors4() [4]Vec2 {
	return [4]Vec2{
		{X: v.X, Y: v.Y - 1}, // вверх
		{X: v.X, Y: v.Y + 1}, // вниз
		{X: v.X - 1, Y: v.Y}, // влево
		{X: v.X + 1, Y: v.Y}, // вправо
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
