package puzzle

import "errors"

// Ошибки загрузки и целостности. Обычные игровые исходы (нет пути,
// пустой выбор) ошибками не являются: они часты и ожидаемы, поэтому
// возвращаются пустыми результатами или false.
var (
	// ErrInvalidMapData — карта содержит элемент вне границ или
	// с перекрытием клеток; загрузка карты прерывается целиком.
	ErrInvalidMapData = errors.New("invalid map data")

	// ErrStateCorruption — пространственный индекс разошёлся с реестром;
	// индекс перестраивается из реестра вместо работы на
	// несогласованном состоянии.
	ErrStateCorruption = errors.New("grid index out of sync")
)
