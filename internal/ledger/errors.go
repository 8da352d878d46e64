package ledger

import "errors"

// ErrNotFound — поиск по идентификатору ничего не дал. Отличается от пустого
// списка: пустой список — это "нет данных", а не "нулевой баланс".
var ErrNotFound = errors.New("запись не найдена")

// ValidationError — отказ на стороне клиента: запрос не применён.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}
