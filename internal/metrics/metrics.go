package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ToolCalls счетчик вызовов инструментов
	ToolCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tool_calls_total",
			Help: "Общее количество вызовов инструментов",
		},
		[]string{"tool_name", "status"},
	)

	// CalculationErrors счетчик ошибок расчетов
	CalculationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "calculation_errors_total",
			Help: "Количество ошибок расчетов",
		},
		[]string{"tool_name", "error_type"},
	)

	// CalculationGuards срабатывания защит от деления на ноль
	CalculationGuards = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "calculation_guards_total",
			Help: "Расчеты с нулевым сроком или нулевой суммой",
		},
		[]string{"tool_name", "guard"},
	)

	// APICalls счетчик вызовов API
	APICalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_calls_total",
			Help: "Вызовы API инструментов",
		},
		[]string{"service", "endpoint", "status"},
	)

	// ReferenceRateFetches запросы ставки CDI к внешнему источнику
	ReferenceRateFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reference_rate_fetches_total",
			Help: "Запросы ставки CDI: live, cache, unavailable",
		},
		[]string{"source"},
	)
)
