// Package format форматирует суммы и проценты для вывода пользователю.
// Расчеты не зависят от локали: форматирование применяется только на выходе.
package format

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cloud-ru/mcp-fixed-income-go/pkg/utils"
	"github.com/shopspring/decimal"
)

// Locale правила отображения чисел
type Locale struct {
	Name           string
	CurrencySymbol string
	DecimalSep     string
	ThousandsSep   string
}

var (
	PtBR = Locale{Name: "pt-BR", CurrencySymbol: "R$", DecimalSep: ",", ThousandsSep: "."}
	EnUS = Locale{Name: "en-US", CurrencySymbol: "R$", DecimalSep: ".", ThousandsSep: ","}
)

// LookupLocale возвращает локаль по имени из конфигурации
func LookupLocale(name string) (Locale, error) {
	switch strings.ToLower(name) {
	case "pt-br", "pt_br", "":
		return PtBR, nil
	case "en-us", "en_us", "en":
		return EnUS, nil
	default:
		return Locale{}, fmt.Errorf("unsupported locale %q", name)
	}
}

type Formatter struct {
	Locale Locale
}

func New(l Locale) Formatter {
	return Formatter{Locale: l}
}

// Money "R$ 1.234,56" для pt-BR, половина округляется от нуля
func (f Formatter) Money(v float64) string {
	return f.Locale.CurrencySymbol + " " + f.Number(v, 2)
}

// Percent "8,25%"
func (f Formatter) Percent(v float64) string {
	return f.Number(v, 2) + "%"
}

// Number округляет до places знаков и расставляет разделители локали
// NaN и бесконечности выводятся как есть ("NaN", "+Inf")
func (f Formatter) Number(v float64, places int32) string {
	if !utils.IsFinite(v) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	s := decimal.NewFromFloat(v).Round(places).StringFixed(places)

	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	if strings.Trim(s, "0.") == "" {
		sign = ""
	}

	intPart, frac, _ := strings.Cut(s, ".")
	intPart = groupThousands(intPart, f.Locale.ThousandsSep)
	if frac == "" {
		return sign + intPart
	}
	return sign + intPart + f.Locale.DecimalSep + frac
}

func groupThousands(digits, sep string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteString(sep)
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
