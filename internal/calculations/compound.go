package calculations

import "math"

// DaysPerYear календарный год, без учета рабочих дней
const DaysPerYear = 365

// DailyFactor переводит годовую ставку в процентах в дневной множитель
func DailyFactor(annualRatePercent float64) float64 {
	return math.Pow(1.0+annualRatePercent/100.0, 1.0/DaysPerYear)
}

// Compound наращивает principal по дневной капитализации за days дней.
// При days <= 0 возвращает principal без изменений.
func Compound(principal, annualRatePercent float64, days int) float64 {
	if days <= 0 {
		return principal
	}
	return principal * math.Pow(DailyFactor(annualRatePercent), float64(days))
}
