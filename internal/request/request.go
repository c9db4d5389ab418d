// Package request собирает запрос расчета из внешнего описания инвестиции:
// разбирает даты и названия, подставляет CDI и проверяет ограничения.
// Используется и CLI, и обработчиками инструментов.
package request

import (
	"context"
	"fmt"
	"time"

	"github.com/cloud-ru/mcp-fixed-income-go/internal/calculations"
	"github.com/cloud-ru/mcp-fixed-income-go/internal/config"
	"github.com/cloud-ru/mcp-fixed-income-go/internal/ratesource"
	"github.com/cloud-ru/mcp-fixed-income-go/internal/validators"
)

// InvestmentSpec описание инвестиции во флагах, YAML файле или параметрах инструмента
type InvestmentSpec struct {
	StartDate   string   `yaml:"start_date"`
	EndDate     string   `yaml:"end_date"`
	Product     string   `yaml:"product"`
	Regime      string   `yaml:"regime"`
	Principal   float64  `yaml:"principal"`
	AnnualRate  *float64 `yaml:"annual_rate_percent"`
	CDIRate     *float64 `yaml:"cdi_rate_percent"`
	CDIPercent  *float64 `yaml:"cdi_percent"`
	CustodyRate *float64 `yaml:"custody_rate_percent"`
}

// Build переводит описание в запрос расчета; CDI без явного значения
// берется у провайдера или из конфигурации
func (s InvestmentSpec) Build(ctx context.Context, cfg *config.Config, provider ratesource.Provider) (calculations.InvestmentRequest, ratesource.Source, error) {
	var req calculations.InvestmentRequest
	var source ratesource.Source

	start, err := parseDate("start_date", s.StartDate)
	if err != nil {
		return req, source, err
	}
	end, err := parseDate("end_date", s.EndDate)
	if err != nil {
		return req, source, err
	}
	product, err := calculations.ParseProduct(s.Product)
	if err != nil {
		return req, source, err
	}
	regime, err := calculations.ParseRegime(s.Regime)
	if err != nil {
		return req, source, err
	}

	req = calculations.InvestmentRequest{
		Start:       start,
		End:         end,
		Product:     product,
		Regime:      regime,
		Principal:   s.Principal,
		CustodyRate: s.CustodyRate,
	}

	switch regime {
	case calculations.Fixed:
		req.AnnualRate = s.AnnualRate
	case calculations.Indexed:
		req.CDIPercent = s.CDIPercent
		var cdi float64
		cdi, source = ratesource.Resolve(ctx, provider, s.CDIRate, cfg.DefaultCDIRate)
		req.CDIRate = &cdi
	}

	if err := validators.CheckRequest(cfg, req); err != nil {
		return req, source, err
	}
	return req, source, nil
}

func parseDate(name, value string) (time.Time, error) {
	t, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: expected YYYY-MM-DD: %w", name, err)
	}
	return t, nil
}
