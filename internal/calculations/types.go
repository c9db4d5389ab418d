package calculations

import (
	"fmt"
	"strings"
	"time"
)

// Product вид инструмента с фиксированной доходностью
type Product string

const (
	CDB Product = "CDB"
	LCI Product = "LCI"
	LCA Product = "LCA"
)

// ParseProduct разбирает название продукта без учета регистра
func ParseProduct(s string) (Product, error) {
	switch p := Product(strings.ToUpper(strings.TrimSpace(s))); p {
	case CDB, LCI, LCA:
		return p, nil
	default:
		return "", fmt.Errorf("unknown product %q", s)
	}
}

// Taxable сообщает, облагается ли продукт IR и IOF.
// LCI и LCA освобождены от налога всегда.
func (p Product) Taxable() bool {
	return p == CDB
}

// Regime режим начисления ставки
type Regime string

const (
	// Fixed - предфиксированная годовая ставка ("Pré")
	Fixed Regime = "fixed"
	// Indexed - процент от CDI ("Pós")
	Indexed Regime = "indexed"
)

// ParseRegime принимает как английские, так и португальские названия режимов
func ParseRegime(s string) (Regime, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fixed", "pre", "pré", "prefixado":
		return Fixed, nil
	case "indexed", "pos", "pós", "posfixado", "cdi":
		return Indexed, nil
	default:
		return "", fmt.Errorf("unknown regime %q", s)
	}
}

// Float возвращает указатель на значение, для заполнения необязательных ставок
func Float(v float64) *float64 {
	return &v
}

// InvestmentRequest входные данные для расчета одной инвестиции.
// Необязательные ставки задаются указателями: nil означает "не задано",
// явный ноль остается нулем.
type InvestmentRequest struct {
	Start     time.Time
	End       time.Time
	Product   Product
	Regime    Regime
	Principal float64

	// Fixed
	AnnualRate *float64
	// Indexed
	CDIRate    *float64
	CDIPercent *float64

	CustodyRate *float64
}

// InvestmentResult результат расчета одной инвестиции
type InvestmentResult struct {
	Product                Product `json:"product"`
	Regime                 Regime  `json:"regime"`
	InputRate              float64 `json:"input_rate"`
	EffectiveRate          float64 `json:"effective_rate"`
	TermDays               int     `json:"term_days"`
	Principal              float64 `json:"principal"`
	GrossValue             float64 `json:"gross_value"`
	IOF                    float64 `json:"iof"`
	IR                     float64 `json:"ir"`
	CustodyCost            float64 `json:"custody_cost"`
	NetValue               float64 `json:"net_value"`
	NetYieldPercent        float64 `json:"net_yield_pct"`
	AnnualizedYieldPercent float64 `json:"annualized_yield_pct"`
}

// Winner победитель сравнения
type Winner string

const (
	WinnerA Winner = "A"
	WinnerB Winner = "B"
)

// ComparisonResult результат сравнения двух инвестиций
type ComparisonResult struct {
	A      InvestmentResult `json:"a"`
	B      InvestmentResult `json:"b"`
	Winner Winner           `json:"winner"`
}

// Results возвращает обе строки сравнения в порядке A, B
func (c *ComparisonResult) Results() []InvestmentResult {
	return []InvestmentResult{c.A, c.B}
}
