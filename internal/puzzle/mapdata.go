package puzzle

import (
	"fmt"
	"os"

	"github.com/annel0/grid-puzzle/internal/vec"
	"gopkg.in/yaml.v3"
)

// MapData — дескриптор карты, который движок принимает при загрузке.
// Дескрипторы производят внешние инструменты авторинга; движок файлов
// не разбирает и принимает структуру напрямую. LoadMapFile — удобство
// для драйвера cmd/server.
type MapData struct {
	GridSize int         `yaml:"grid_size"`
	Gates    []GateData  `yaml:"gates"`
	Blocks   []BlockData `yaml:"blocks"`
	Rocks    []RockData  `yaml:"rocks"`
}

// CellData координаты клетки в дескрипторе
type CellData struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

// Vec преобразует координаты дескриптора во внутренний вектор
func (c CellData) Vec() vec.Vec2 {
	return vec.Vec2{X: c.X, Y: c.Y}
}

// GateData описывает выход на периметре
type GateData struct {
	ID        uint64   `yaml:"id"`
	Color     string   `yaml:"color"`
	Position  CellData `yaml:"position"`
	Direction string   `yaml:"direction"`
	Length    int      `yaml:"length"`
}

// BlockData описывает фигуру. Footprint задаётся либо явным списком
// смещений shape, либо именем архетипа type из библиотеки фигур.
type BlockData struct {
	ID       uint64     `yaml:"id"`
	Color    string     `yaml:"color"`
	Position CellData   `yaml:"position"`
	Shape    []CellData `yaml:"shape"`
	Type     string     `yaml:"type"`
	Layer    int        `yaml:"layer"`
}

// RockData описывает неподвижный камень
type RockData struct {
	ID       uint64   `yaml:"id"`
	Position CellData `yaml:"position"`
}

// Библиотека именованных фигур: архетипы, которыми оперируют
// инструменты авторинга вместо явных списков смещений.
var shapeLibrary = map[string][]vec.Vec2{
	"single":      {{X: 0, Y: 0}},
	"domino_h":    {{X: 0, Y: 0}, {X: 1, Y: 0}},
	"domino_v":    {{X: 0, Y: 0}, {X: 0, Y: 1}},
	"tromino_i_h": {{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}},
	"tromino_i_v": {{X: 0, Y: 0}, {X: 0, Y: 1}, {X: 0, Y: 2}},
	"tromino_l":   {{X: 0, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1}},
	"square2":     {{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1}},
}

// ResolveShape возвращает footprint фигуры из дескриптора:
// явные смещения имеют приоритет над именем архетипа.
func ResolveShape(b BlockData) (Shape, error) {
	if len(b.Shape) > 0 {
		offsets := make([]vec.Vec2, len(b.Shape))
		for i, c := range b.Shape {
			offsets[i] = c.Vec()
		}
		return NewShape(offsets...), nil
	}
	if b.Type != "" {
		offsets, ok := shapeLibrary[b.Type]
		if !ok {
			return Shape{}, fmt.Errorf("фигура %d: неизвестный архетип %q: %w", b.ID, b.Type, ErrInvalidMapData)
		}
		return NewShape(offsets...), nil
	}
	return Shape{}, fmt.Errorf("фигура %d: не задан ни shape, ни type: %w", b.ID, ErrInvalidMapData)
}

// LoadMapFile читает YAML дескриптор карты с диска
func LoadMapFile(path string) (*MapData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("чтение карты %s: %w", path, err)
	}

	var md MapData
	if err := yaml.Unmarshal(data, &md); err != nil {
		return nil, fmt.Errorf("разбор карты %s: %w", path, err)
	}
	return &md, nil
}
