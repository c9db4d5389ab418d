package calculations

import "math"

// Evaluate рассчитывает брутто, налоги, комиссию за хранение и чистую
// доходность одной инвестиции. Функция чистая: один запрос - один новый результат.
func Evaluate(req InvestmentRequest) (*InvestmentResult, error) {
	term := TermDays(req.Start, req.End)

	inputRate, effectiveRate, err := resolveRate(req)
	if err != nil {
		return nil, err
	}

	gross := Compound(req.Principal, effectiveRate, term)
	gain := gross - req.Principal

	var iof, ir float64
	if req.Product.Taxable() {
		if term < iofWindowDays {
			iof = gain * IOFRate(term)
		}
		// IR берется с дохода за вычетом IOF
		ir = (gain - iof) * IRRate(term)
	}

	custody := custodyCost(req.Principal, req.CustodyRate, term)
	net := gross - ir - iof - custody

	var netYield float64
	if req.Principal > 0 {
		netYield = (net/req.Principal - 1.0) * 100
	}

	// при нулевом сроке годовая доходность не определена, отдаем 0
	var annualized float64
	if term > 0 {
		annualized = annualize(netYield, term)
	}

	return &InvestmentResult{
		Product:                req.Product,
		Regime:                 req.Regime,
		InputRate:              inputRate,
		EffectiveRate:          effectiveRate,
		TermDays:               term,
		Principal:              req.Principal,
		GrossValue:             gross,
		IOF:                    iof,
		IR:                     ir,
		CustodyCost:            custody,
		NetValue:               net,
		NetYieldPercent:        netYield,
		AnnualizedYieldPercent: annualized,
	}, nil
}

// annualize переводит доходность за срок в годовую. Если чистая стоимость
// не положительна, вложение потеряно целиком: -100%.
func annualize(netYieldPercent float64, term int) float64 {
	growth := 1.0 + netYieldPercent/100
	if growth <= 0 {
		return -100
	}
	return (math.Pow(growth, float64(DaysPerYear)/float64(term)) - 1.0) * 100
}

// resolveRate возвращает ставку как она введена и эффективную годовую ставку
func resolveRate(req InvestmentRequest) (float64, float64, error) {
	switch req.Regime {
	case Fixed:
		if req.AnnualRate == nil {
			return 0, 0, &MissingRateError{Regime: req.Regime, Field: "annual_rate_percent"}
		}
		return *req.AnnualRate, *req.AnnualRate, nil
	case Indexed:
		if req.CDIPercent == nil {
			return 0, 0, &MissingRateError{Regime: req.Regime, Field: "cdi_percent"}
		}
		if req.CDIRate == nil {
			return 0, 0, &MissingRateError{Regime: req.Regime, Field: "cdi_rate_percent"}
		}
		return *req.CDIPercent, *req.CDIPercent / 100.0 * *req.CDIRate, nil
	default:
		return 0, 0, &MissingRateError{Regime: req.Regime, Field: "regime"}
	}
}

// custodyCost линейно пропорциональна сроку владения
func custodyCost(principal float64, custodyRate *float64, term int) float64 {
	if custodyRate == nil || term <= 0 {
		return 0.0
	}
	return principal * (*custodyRate / 100.0) * (float64(term) / DaysPerYear)
}

// Guard сработавшая защита от деления на ноль или от вырожденного результата
type Guard string

const (
	GuardZeroTerm       Guard = "zero_term"
	GuardNegativeTerm   Guard = "negative_term"
	GuardZeroPrincipal  Guard = "zero_principal"
	GuardNonPositiveNet Guard = "non_positive_net"
)

// Describe поясняет пользователю, какая защита сработала
func (g Guard) Describe() string {
	switch g {
	case GuardZeroTerm:
		return "term is zero, annualized yield not computable"
	case GuardNegativeTerm:
		return "end date is before start date, result equals principal"
	case GuardZeroPrincipal:
		return "principal is zero, net yield not computable"
	case GuardNonPositiveNet:
		return "costs exceed the gross value, annualized yield reported as -100%"
	default:
		return string(g)
	}
}

// Guards перечисляет защиты, повлиявшие на результат
func (r InvestmentResult) Guards() []Guard {
	var guards []Guard
	switch {
	case r.TermDays == 0:
		guards = append(guards, GuardZeroTerm)
	case r.TermDays < 0:
		guards = append(guards, GuardNegativeTerm)
	}
	if r.Principal <= 0 {
		guards = append(guards, GuardZeroPrincipal)
	} else if r.TermDays > 0 && r.NetValue <= 0 {
		guards = append(guards, GuardNonPositiveNet)
	}
	return guards
}
