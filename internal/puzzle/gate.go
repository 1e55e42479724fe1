package puzzle

// WinMode определяет форму условия победы.
type WinMode uint8

const (
	// WinModeStrict — каноническая форма: головоломка решена, когда
	// в реестре не осталось ни одной подвижной фигуры.
	WinModeStrict WinMode = iota
	// WinModeParked — необязательный ослабленный режим: все оставшиеся
	// фигуры стоят у подходящих выходов, снятие с доски не требуется.
	WinModeParked
)

// ParseWinMode разбирает режим из конфигурации ("strict" по умолчанию)
func ParseWinMode(s string) WinMode {
	if s == "parked" {
		return WinModeParked
	}
	return WinModeStrict
}

// GateExitEngine сопоставляет прибывшую фигуру с выходом
// и оценивает условие победы.
type GateExitEngine struct {
	reg  *ElementRegistry
	mode WinMode
}

// NewGateExitEngine создаёт движок выходов для реестра
func NewGateExitEngine(reg *ElementRegistry, mode WinMode) *GateExitEngine {
	return &GateExitEngine{reg: reg, mode: mode}
}

// EligibleGate возвращает выход, через который фигура может покинуть
// доску в её текущей позиции.
func (ge *GateExitEngine) EligibleGate(e *Element) (*Element, bool) {
	if e == nil || e.Kind != KindBlock || e.Layer != 0 || !e.Movable {
		return nil, false
	}
	for _, gate := range ge.reg.Gates() {
		if ge.fits(e, gate) {
			return gate, true
		}
	}
	return nil, false
}

// fits проверяет все четыре условия допуска:
// совпадение цвета; габарит фигуры вдоль поперечной оси выхода строго
// меньше его длины; проекция каждой клетки footprint лежит внутри span
// выхода; фигура прижата вплотную к соответствующему краю доски.
func (ge *GateExitEngine) fits(e, gate *Element) bool {
	if e.Color != gate.Color {
		return false
	}

	cells := e.Footprint()
	if len(cells) == 0 {
		return false
	}
	minX, minY := cells[0].X, cells[0].Y
	maxX, maxY := minX, minY
	for _, c := range cells[1:] {
		if c.X < minX {
			minX = c.X
		}
		if c.Y < minY {
			minY = c.Y
		}
		if c.X > maxX {
			maxX = c.X
		}
		if c.Y > maxY {
			maxY = c.Y
		}
	}

	edge := ge.reg.GridSize() - 1
	switch gate.Direction {
	case DirUp, DirDown:
		if maxX-minX+1 >= gate.Length {
			return false
		}
		if gate.Direction == DirUp && minY != 0 {
			return false
		}
		if gate.Direction == DirDown && maxY != edge {
			return false
		}
		for _, c := range cells {
			if c.X < gate.Position.X || c.X >= gate.Position.X+gate.Length {
				return false
			}
		}
	case DirLeft, DirRight:
		if maxY-minY+1 >= gate.Length {
			return false
		}
		if gate.Direction == DirLeft && minX != 0 {
			return false
		}
		if gate.Direction == DirRight && maxX != edge {
			return false
		}
		for _, c := range cells {
			if c.Y < gate.Position.Y || c.Y >= gate.Position.Y+gate.Length {
				return false
			}
		}
	default:
		return false
	}
	return true
}

// IsCompleted оценивает условие победы в текущем режиме
func (ge *GateExitEngine) IsCompleted() bool {
	blocks := ge.reg.MovableBlocks()
	switch ge.mode {
	case WinModeParked:
		if len(ge.reg.Buried()) > 0 {
			return false
		}
		for _, b := range blocks {
			if _, ok := ge.EligibleGate(b); !ok {
				return false
			}
		}
		return true
	default:
		return len(blocks) == 0
	}
}
