package tools

import (
	"context"
	"fmt"

	"github.com/cloud-ru/mcp-fixed-income-go/internal/calculations"
	"github.com/cloud-ru/mcp-fixed-income-go/internal/config"
	"github.com/cloud-ru/mcp-fixed-income-go/internal/metrics"
	"github.com/cloud-ru/mcp-fixed-income-go/internal/ratesource"
	"github.com/cloud-ru/mcp-fixed-income-go/internal/request"
	"github.com/cloud-ru/mcp-fixed-income-go/pkg/utils"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	EvaluateToolName      = "evaluate_fixed_income"
	CompareToolName       = "compare_fixed_income"
	ReferenceRateToolName = "reference_rate"
)

// ToolHandler представляет обработчик инструмента MCP
type ToolHandler func(ctx context.Context, params map[string]interface{}) (interface{}, error)

// EvaluateResponse ответ evaluate_fixed_income
type EvaluateResponse struct {
	Result    calculations.InvestmentResult `json:"result"`
	CDISource ratesource.Source             `json:"cdi_source,omitempty"`
	Notes     []string                      `json:"notes,omitempty"`
}

// CompareResponse ответ compare_fixed_income
type CompareResponse struct {
	calculations.ComparisonResult
	Notes []string `json:"notes,omitempty"`
}

// ReferenceRateResponse ответ reference_rate
type ReferenceRateResponse struct {
	RatePercent float64           `json:"rate_percent"`
	Source      ratesource.Source `json:"source"`
}

// Registry возвращает все инструменты по имени
func Registry(cfg *config.Config, tracer trace.Tracer, provider ratesource.Provider) map[string]ToolHandler {
	return map[string]ToolHandler{
		EvaluateToolName:      EvaluateHandler(cfg, tracer, provider),
		CompareToolName:       CompareHandler(cfg, tracer, provider),
		ReferenceRateToolName: ReferenceRateHandler(cfg, tracer, provider),
	}
}

// EvaluateHandler обрабатывает запрос на расчет одной инвестиции
func EvaluateHandler(cfg *config.Config, tracer trace.Tracer, provider ratesource.Provider) ToolHandler {
	return func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
		toolName := EvaluateToolName

		ctx, span := tracer.Start(ctx, toolName)
		defer span.End()

		metrics.APICalls.WithLabelValues("mcp", toolName, "started").Inc()

		req, source, err := buildRequest(ctx, cfg, provider, params)
		if err != nil {
			return nil, failValidation(span, toolName, err)
		}
		span.SetAttributes(requestAttributes(req)...)

		result, err := calculations.Evaluate(req)
		if err != nil {
			return nil, failCalculation(span, toolName, err)
		}

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Float64("net_value", utils.Round2(result.NetValue)),
			attribute.Float64("annualized_yield_pct", utils.Round2(result.AnnualizedYieldPercent)),
		)
		metrics.ToolCalls.WithLabelValues(toolName, "success").Inc()
		metrics.APICalls.WithLabelValues("mcp", toolName, "success").Inc()

		return &EvaluateResponse{
			Result:    *result,
			CDISource: source,
			Notes:     guardNotes(toolName, "", *result),
		}, nil
	}
}

// CompareHandler обрабатывает запрос на сравнение двух инвестиций: params {"a": {...}, "b": {...}}
func CompareHandler(cfg *config.Config, tracer trace.Tracer, provider ratesource.Provider) ToolHandler {
	return func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
		toolName := CompareToolName

		ctx, span := tracer.Start(ctx, toolName)
		defer span.End()

		metrics.APICalls.WithLabelValues("mcp", toolName, "started").Inc()

		requests := make([]calculations.InvestmentRequest, 0, 2)
		for _, key := range []string{"a", "b"} {
			sub, ok := params[key].(map[string]interface{})
			if !ok {
				return nil, failValidation(span, toolName, fmt.Errorf("invalid parameter: %s", key))
			}
			req, _, err := buildRequest(ctx, cfg, provider, sub)
			if err != nil {
				return nil, failValidation(span, toolName, fmt.Errorf("%s: %w", key, err))
			}
			requests = append(requests, req)
		}

		result, err := calculations.CompareInvestments(requests[0], requests[1])
		if err != nil {
			return nil, failCalculation(span, toolName, err)
		}

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.String("winner", string(result.Winner)),
		)
		metrics.ToolCalls.WithLabelValues(toolName, "success").Inc()
		metrics.APICalls.WithLabelValues("mcp", toolName, "success").Inc()

		notes := append(guardNotes(toolName, "A: ", result.A), guardNotes(toolName, "B: ", result.B)...)
		return &CompareResponse{ComparisonResult: *result, Notes: notes}, nil
	}
}

// ReferenceRateHandler возвращает текущую ставку CDI или значение по умолчанию
func ReferenceRateHandler(cfg *config.Config, tracer trace.Tracer, provider ratesource.Provider) ToolHandler {
	return func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
		toolName := ReferenceRateToolName

		ctx, span := tracer.Start(ctx, toolName)
		defer span.End()

		rate, source := ratesource.Resolve(ctx, provider, nil, cfg.DefaultCDIRate)

		span.SetAttributes(
			attribute.Float64("rate_percent", rate),
			attribute.String("source", string(source)),
		)
		metrics.ToolCalls.WithLabelValues(toolName, "success").Inc()
		metrics.APICalls.WithLabelValues("mcp", toolName, "success").Inc()

		return &ReferenceRateResponse{RatePercent: rate, Source: source}, nil
	}
}

func failValidation(span trace.Span, toolName string, err error) error {
	span.SetAttributes(attribute.String("error", "validation_error"))
	metrics.ToolCalls.WithLabelValues(toolName, "validation_error").Inc()
	metrics.CalculationErrors.WithLabelValues(toolName, "validation").Inc()
	metrics.APICalls.WithLabelValues("mcp", toolName, "error").Inc()
	return fmt.Errorf("неверные параметры: %w", err)
}

func failCalculation(span trace.Span, toolName string, err error) error {
	span.SetAttributes(attribute.String("error", "calculation_error"))
	metrics.ToolCalls.WithLabelValues(toolName, "error").Inc()
	metrics.CalculationErrors.WithLabelValues(toolName, "calculation").Inc()
	metrics.APICalls.WithLabelValues("mcp", toolName, "error").Inc()
	return fmt.Errorf("ошибка при выполнении расчета: %w", err)
}

func guardNotes(toolName, prefix string, r calculations.InvestmentResult) []string {
	var notes []string
	for _, g := range r.Guards() {
		metrics.CalculationGuards.WithLabelValues(toolName, string(g)).Inc()
		notes = append(notes, prefix+g.Describe())
	}
	return notes
}

func requestAttributes(req calculations.InvestmentRequest) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String("product", string(req.Product)),
		attribute.String("regime", string(req.Regime)),
		attribute.Float64("principal", req.Principal),
		attribute.Int("term_days", calculations.TermDays(req.Start, req.End)),
	}
	if req.AnnualRate != nil {
		attrs = append(attrs, attribute.Float64("annual_rate_percent", *req.AnnualRate))
	}
	if req.CDIRate != nil {
		attrs = append(attrs, attribute.Float64("cdi_rate_percent", *req.CDIRate))
	}
	if req.CDIPercent != nil {
		attrs = append(attrs, attribute.Float64("cdi_percent", *req.CDIPercent))
	}
	return attrs
}

// buildRequest переносит параметры инструмента в описание инвестиции
// и собирает из него проверенный запрос
func buildRequest(ctx context.Context, cfg *config.Config, provider ratesource.Provider,
	params map[string]interface{}) (calculations.InvestmentRequest, ratesource.Source, error) {

	var spec request.InvestmentSpec

	fields := []struct {
		key string
		dst *string
	}{
		{"start_date", &spec.StartDate},
		{"end_date", &spec.EndDate},
		{"product", &spec.Product},
		{"regime", &spec.Regime},
	}
	for _, p := range fields {
		v, ok := params[p.key].(string)
		if !ok {
			return calculations.InvestmentRequest{}, "", fmt.Errorf("invalid parameter: %s", p.key)
		}
		*p.dst = v
	}

	principal, ok := params["principal"].(float64)
	if !ok {
		return calculations.InvestmentRequest{}, "", fmt.Errorf("invalid parameter: principal")
	}
	spec.Principal = principal

	rates := []struct {
		key string
		dst **float64
	}{
		{"annual_rate_percent", &spec.AnnualRate},
		{"cdi_rate_percent", &spec.CDIRate},
		{"cdi_percent", &spec.CDIPercent},
		{"custody_rate_percent", &spec.CustodyRate},
	}
	for _, p := range rates {
		v, err := optionalFloat(params, p.key)
		if err != nil {
			return calculations.InvestmentRequest{}, "", err
		}
		*p.dst = v
	}

	return spec.Build(ctx, cfg, provider)
}

// optionalFloat отличает отсутствующий параметр от явного нуля
func optionalFloat(params map[string]interface{}, key string) (*float64, error) {
	raw, present := params[key]
	if !present || raw == nil {
		return nil, nil
	}
	v, ok := raw.(float64)
	if !ok {
		return nil, fmt.Errorf("invalid parameter: %s", key)
	}
	return &v, nil
}
