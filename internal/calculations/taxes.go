package calculations

// iofWindowDays после этого срока IOF не взимается
const iofWindowDays = 30

// irBrackets регрессивная шкала IR, верхняя граница включительно
var irBrackets = []struct {
	maxDays int
	rate    float64
}{
	{180, 0.225},
	{360, 0.20},
	{720, 0.175},
}

const irLongTermRate = 0.15

// IRRate возвращает ставку IR (доля) для срока в днях
func IRRate(days int) float64 {
	for _, b := range irBrackets {
		if days <= b.maxDays {
			return b.rate
		}
	}
	return irLongTermRate
}

// IOFRate возвращает ставку IOF (доля): линейное убывание от 1 при 0 днях
// до 0 на 30-й день
func IOFRate(days int) float64 {
	switch {
	case days >= iofWindowDays:
		return 0.0
	case days <= 0:
		return 1.0
	default:
		return float64(iofWindowDays-days) / iofWindowDays
	}
}
