package calculations

import "time"

const secondsPerDay = 24 * 60 * 60

// TermDays возвращает разницу в календарных днях между end и start.
// Результат может быть отрицательным.
func TermDays(start, end time.Time) int {
	return int((calendarDay(end).Unix() - calendarDay(start).Unix()) / secondsPerDay)
}

// CheckedTermDays как TermDays, но отклоняет end < start
func CheckedTermDays(start, end time.Time) (int, error) {
	days := TermDays(start, end)
	if days < 0 {
		return 0, &InvalidRangeError{Start: start, End: end}
	}
	return days, nil
}

// calendarDay берет календарную дату t в ее зоне и переносит ее в UTC,
// чтобы переходы на летнее время не давали дробных суток
func calendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
