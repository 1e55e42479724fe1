package puzzle

import (
	"github.com/annel0/grid-puzzle/internal/vec"
)

// Типы событий, которые движок зеркалирует в шину. Имена совпадают
// с JetStream subject'ами (puzzle.*).
const (
	EventSelected  = "puzzle.select"
	EventMoveStart = "puzzle.move_start"
	EventMoveStep  = "puzzle.step"
	EventRevealed  = "puzzle.reveal"
	EventExited    = "puzzle.exit"
	EventCompleted = "puzzle.completed"
)

// ElementEventPayload — полезная нагрузка событий select/reveal/exit
type ElementEventPayload struct {
	ID ElementID `json:"id"`
}

// MoveStartPayload — полезная нагрузка события начала перемещения
type MoveStartPayload struct {
	ID   ElementID  `json:"id"`
	Path []vec.Vec2 `json:"path"`
}

// StepPayload — полезная нагрузка зафиксированного шага
type StepPayload struct {
	ID   ElementID `json:"id"`
	Cell vec.Vec2  `json:"cell"`
}

// CompletedPayload — полезная нагрузка завершения головоломки
type CompletedPayload struct {
	Moves uint64 `json:"moves"`
}
