package calculations

import (
	"fmt"
	"time"
)

// InvalidRangeError дата окончания раньше даты начала
type InvalidRangeError struct {
	Start time.Time
	End   time.Time
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("invalid range: end date %s is before start date %s",
		e.End.Format(time.DateOnly), e.Start.Format(time.DateOnly))
}

// MissingRateError для выбранного режима не задана обязательная ставка
type MissingRateError struct {
	Regime Regime
	Field  string
}

func (e *MissingRateError) Error() string {
	return fmt.Sprintf("missing rate %s for regime %s", e.Field, e.Regime)
}
