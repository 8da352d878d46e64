package ledger

import (
	"fmt"
	"strconv"
	"strings"
)

// MonthKey — бюджетный месяц в формате "M-YYYY", например "1-2024" или "11-2024".
// Строковая сортировка здесь не годится ("10-2024" < "2-2024"), поэтому
// сравниваем разобранную пару (год, месяц).
type MonthKey struct {
	Month int
	Year  int
}

func ParseMonthKey(s string) (MonthKey, error) {
	parts := strings.SplitN(s, "-", 2)
	if len(parts) != 2 {
		return MonthKey{}, fmt.Errorf("некорректный бюджетный месяц %q, ожидается формат \"M-YYYY\"", s)
	}
	month, err := strconv.Atoi(parts[0])
	if err != nil || month < 1 || month > 12 {
		return MonthKey{}, fmt.Errorf("некорректный номер месяца в %q", s)
	}
	year, err := strconv.Atoi(parts[1])
	if err != nil || year < 1 {
		return MonthKey{}, fmt.Errorf("некорректный год в %q", s)
	}
	return MonthKey{Month: month, Year: year}, nil
}

func (k MonthKey) String() string {
	return fmt.Sprintf("%d-%d", k.Month, k.Year)
}

func (k MonthKey) Ordinal() int {
	return k.Year*12 + k.Month - 1
}

func (k MonthKey) Before(other MonthKey) bool {
	return k.Ordinal() < other.Ordinal()
}
