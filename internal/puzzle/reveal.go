package puzzle

// RevealEngine продвигает погребённые элементы на активный слой,
// когда их больше ничто не накрывает.
type RevealEngine struct {
	reg *ElementRegistry
}

// NewRevealEngine создаёт движок продвижения для реестра
func NewRevealEngine(reg *ElementRegistry) *RevealEngine {
	return &RevealEngine{reg: reg}
}

// Sweep заново оценивает каждый погребённый элемент и продвигает
// полностью открытые: слой становится 0, элемент — подвижным, его
// footprint попадает в GridIndex. Кандидаты обходятся в порядке
// (слой, id), поэтому результат детерминирован. Повторный запуск без
// изменений состояния новых продвижений не даёт.
func (re *RevealEngine) Sweep() []*Element {
	var promoted []*Element
	for _, e := range re.reg.Buried() {
		if !re.fullyRevealed(e) {
			continue
		}
		if err := re.reg.promote(e); err != nil {
			// Продвигаться некуда — клетку успел занять другой элемент;
			// элемент остаётся погребённым до следующего прохода.
			continue
		}
		promoted = append(promoted, e)
	}
	return promoted
}

// fullyRevealed — элемент полностью открыт, когда ни одна клетка его
// footprint не занята элементом со строго меньшим слоем.
func (re *RevealEngine) fullyRevealed(e *Element) bool {
	for _, cell := range e.Footprint() {
		if _, held := re.reg.Query(cell); held {
			return false // активный слой накрывает клетку
		}
		for layer := 1; layer < e.Layer; layer++ {
			if re.reg.layers.CellOccupied(layer, cell) {
				return false
			}
		}
	}
	return true
}
