package puzzle

import (
	"fmt"

	"github.com/annel0/grid-puzzle/internal/vec"
)

// ElementID идентификатор элемента доски.
// Реестр выдаёт ID сам, если дескриптор карты его не задал.
type ElementID uint64

// ElementKind определяет вид элемента доски.
// Набор закрыт: CollisionPolicy и RevealEngine обязаны обрабатывать
// каждый вариант.
type ElementKind uint8

const (
	KindBlock ElementKind = iota // подвижная фигура
	KindRock                     // неподвижное препятствие
	KindGate                     // цветной выход на периметре
)

// String возвращает строковое представление вида элемента
func (k ElementKind) String() string {
	switch k {
	case KindBlock:
		return "block"
	case KindRock:
		return "rock"
	case KindGate:
		return "gate"
	default:
		return "unknown"
	}
}

// Direction сторона доски, в которую смотрит выход
type Direction uint8

const (
	DirUp    Direction = iota // верхний край, строка 0
	DirDown                   // нижний край, строка size-1
	DirLeft                   // левый край, столбец 0
	DirRight                  // правый край, столбец size-1
)

// String возвращает строковое представление направления
func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	default:
		return "unknown"
	}
}

// ParseDirection разбирает направление из дескриптора карты
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "up":
		return DirUp, nil
	case "down":
		return DirDown, nil
	case "left":
		return DirLeft, nil
	case "right":
		return DirRight, nil
	default:
		return 0, fmt.Errorf("неизвестное направление выхода: %q", s)
	}
}

// Shape задаёт footprint фигуры как упорядоченный набор смещений
// от якорной клетки
type Shape struct {
	Offsets []vec.Vec2
}

// NewShape создаёт фигуру из списка смещений
func NewShape(offsets ...vec.Vec2) Shape {
	return Shape{Offsets: offsets}
}

// SingleCell возвращает фигуру из одной клетки
func SingleCell() Shape {
	return Shape{Offsets: []vec.Vec2{{X: 0, Y: 0}}}
}

// Cells возвращает клетки footprint для указанной якорной позиции
func (s Shape) Cells(anchor vec.Vec2) []vec.Vec2 {
	cells := make([]vec.Vec2, len(s.Offsets))
	for i, off := range s.Offsets {
		cells[i] = anchor.Add(off)
	}
	return cells
}

// Bounds возвращает относительный bounding box фигуры
func (s Shape) Bounds() (min, max vec.Vec2) {
	if len(s.Offsets) == 0 {
		return vec.Vec2{}, vec.Vec2{}
	}
	min, max = s.Offsets[0], s.Offsets[0]
	for _, off := range s.Offsets[1:] {
		if off.X < min.X {
			min.X = off.X
		}
		if off.Y < min.Y {
			min.Y = off.Y
		}
		if off.X > max.X {
			max.X = off.X
		}
		if off.Y > max.Y {
			max.Y = off.Y
		}
	}
	return min, max
}

// Width возвращает ширину bounding box в клетках
func (s Shape) Width() int {
	min, max := s.Bounds()
	return max.X - min.X + 1
}

// Height возвращает высоту bounding box в клетках
func (s Shape) Height() int {
	min, max := s.Bounds()
	return max.Y - min.Y + 1
}

// Element представляет элемент доски: фигуру, камень или выход.
// Камни и выходы неизменяемы в течение сессии; у фигуры Position
// меняется на каждом зафиксированном шаге, а Layer и Movable —
// один раз при продвижении с погребённого слоя.
type Element struct {
	ID       ElementID
	Kind     ElementKind
	Color    string
	Shape    Shape
	Position vec.Vec2
	Layer    int
	Movable  bool

	// Только для Kind == KindGate
	Direction Direction
	Length    int
}

// Footprint возвращает клетки, занимаемые элементом в его текущей позиции.
// Для выхода это span вдоль края доски.
func (e *Element) Footprint() []vec.Vec2 {
	if e.Kind == KindGate {
		return e.GateSpan()
	}
	return e.Shape.Cells(e.Position)
}

// FootprintAt возвращает клетки footprint для произвольной якорной позиции
func (e *Element) FootprintAt(anchor vec.Vec2) []vec.Vec2 {
	return e.Shape.Cells(anchor)
}

// GateSpan возвращает клетки, которые выход накрывает вдоль края доски
func (e *Element) GateSpan() []vec.Vec2 {
	cells := make([]vec.Vec2, 0, e.Length)
	switch e.Direction {
	case DirUp, DirDown:
		for i := 0; i < e.Length; i++ {
			cells = append(cells, vec.Vec2{X: e.Position.X + i, Y: e.Position.Y})
		}
	case DirLeft, DirRight:
		for i := 0; i < e.Length; i++ {
			cells = append(cells, vec.Vec2{X: e.Position.X, Y: e.Position.Y + i})
		}
	}
	return cells
}

// IsBuried сообщает, погребён ли элемент под другими слоями
func (e *Element) IsBuried() bool {
	return e.Layer > 0
}
