package validators

import (
	"fmt"
	"time"

	"github.com/cloud-ru/mcp-fixed-income-go/internal/calculations"
	"github.com/cloud-ru/mcp-fixed-income-go/internal/config"
	"github.com/cloud-ru/mcp-fixed-income-go/pkg/utils"
)

// ValidatePositiveNumber проверяет, что число конечно и в допустимом диапазоне
func ValidatePositiveNumber(name string, value float64, minInclusive, maxInclusive float64) error {
	if !utils.IsFinite(value) {
		return fmt.Errorf("%s: значение не является конечным числом", name)
	}
	if value < minInclusive {
		return fmt.Errorf("%s: значение должно быть ≥ %.0f", name, minInclusive)
	}
	if value > maxInclusive {
		return fmt.Errorf("%s: значение слишком велико (>%.0f)", name, maxInclusive)
	}
	return nil
}

// ValidateIntRange проверяет, что целое число в допустимом диапазоне
func ValidateIntRange(name string, value int, minInclusive, maxInclusive int) error {
	if value < minInclusive || value > maxInclusive {
		return fmt.Errorf("%s: значение должно быть в диапазоне [%d; %d]", name, minInclusive, maxInclusive)
	}
	return nil
}

// CheckPrincipal проверяет вложенную сумму, ноль допустим
func CheckPrincipal(cfg *config.Config, principal float64) error {
	return ValidatePositiveNumber("principal", principal, 0.0, cfg.MaxPrincipal)
}

// CheckRate проверяет годовую ставку в процентах
func CheckRate(cfg *config.Config, name string, rate float64) error {
	return ValidatePositiveNumber(name, rate, 0.0, cfg.MaxRate)
}

// CheckCustodyRate проверяет ставку комиссии за хранение
func CheckCustodyRate(cfg *config.Config, rate float64) error {
	return ValidatePositiveNumber("custody_rate_percent", rate, 0.0, cfg.MaxCustodyRate)
}

// CheckDateRange возвращает *calculations.InvalidRangeError, если end раньше start
func CheckDateRange(cfg *config.Config, start, end time.Time) error {
	days, err := calculations.CheckedTermDays(start, end)
	if err != nil {
		return err
	}
	return ValidateIntRange("term_days", days, 0, cfg.MaxTermDays)
}

// CheckRequest проверяет запрос целиком перед вызовом расчета
func CheckRequest(cfg *config.Config, req calculations.InvestmentRequest) error {
	if err := CheckDateRange(cfg, req.Start, req.End); err != nil {
		return err
	}
	if err := CheckPrincipal(cfg, req.Principal); err != nil {
		return err
	}

	switch req.Regime {
	case calculations.Fixed:
		if req.AnnualRate == nil {
			return fmt.Errorf("annual_rate_percent: обязательна для режима %s", req.Regime)
		}
		if err := CheckRate(cfg, "annual_rate_percent", *req.AnnualRate); err != nil {
			return err
		}
	case calculations.Indexed:
		if req.CDIRate == nil || req.CDIPercent == nil {
			return fmt.Errorf("cdi_rate_percent, cdi_percent: обязательны для режима %s", req.Regime)
		}
		if err := CheckRate(cfg, "cdi_rate_percent", *req.CDIRate); err != nil {
			return err
		}
		if err := CheckRate(cfg, "cdi_percent", *req.CDIPercent); err != nil {
			return err
		}
	default:
		return fmt.Errorf("regime: неизвестный режим %q", req.Regime)
	}

	if req.CustodyRate != nil {
		if err := CheckCustodyRate(cfg, *req.CustodyRate); err != nil {
			return err
		}
	}
	return nil
}
