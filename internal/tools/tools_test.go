package tools

import (
	"context"
	"testing"

	"github.com/cloud-ru/mcp-fixed-income-go/internal/calculations"
	"github.com/cloud-ru/mcp-fixed-income-go/internal/config"
	"github.com/cloud-ru/mcp-fixed-income-go/internal/ratesource"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

type stubProvider struct {
	rate float64
	ok   bool
}

func (s stubProvider) FetchReferenceRate(context.Context) (float64, bool) {
	return s.rate, s.ok
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.LoadConfig()
	require.NoError(t, err)
	cfg.DefaultCDIRate = 13.75
	return cfg
}

var tracer = noop.NewTracerProvider().Tracer("test")

func TestEvaluateHandler(t *testing.T) {
	cfg := testConfig(t)

	tests := []struct {
		name      string
		provider  ratesource.Provider
		params    map[string]interface{}
		wantError bool
		check     func(*testing.T, *EvaluateResponse)
	}{
		{
			name: "fixed cdb",
			params: map[string]interface{}{
				"start_date": "2024-01-01", "end_date": "2024-12-31",
				"product": "CDB", "regime": "pre", "principal": 1000.0,
				"annual_rate_percent": 10.0,
			},
			check: func(t *testing.T, r *EvaluateResponse) {
				assert.Equal(t, 365, r.Result.TermDays)
				assert.InDelta(t, 0.175*(r.Result.GrossValue-1000), r.Result.IR, 1e-9)
				assert.Empty(t, r.CDISource)
				assert.Empty(t, r.Notes)
			},
		},
		{
			name:     "indexed uses live cdi",
			provider: stubProvider{rate: 15, ok: true},
			params: map[string]interface{}{
				"start_date": "2024-01-01", "end_date": "2024-07-01",
				"product": "LCI", "regime": "indexed", "principal": 1000.0,
				"cdi_percent": 90.0,
			},
			check: func(t *testing.T, r *EvaluateResponse) {
				assert.Equal(t, ratesource.SourceLive, r.CDISource)
				assert.InDelta(t, 13.5, r.Result.EffectiveRate, 1e-12)
			},
		},
		{
			name:     "indexed falls back to default cdi",
			provider: stubProvider{ok: false},
			params: map[string]interface{}{
				"start_date": "2024-01-01", "end_date": "2024-07-01",
				"product": "LCA", "regime": "pos", "principal": 1000.0,
				"cdi_percent": 100.0,
			},
			check: func(t *testing.T, r *EvaluateResponse) {
				assert.Equal(t, ratesource.SourceDefault, r.CDISource)
				assert.InDelta(t, 13.75, r.Result.EffectiveRate, 1e-12)
			},
		},
		{
			name: "zero term reports guard",
			params: map[string]interface{}{
				"start_date": "2024-01-01", "end_date": "2024-01-01",
				"product": "CDB", "regime": "fixed", "principal": 1000.0,
				"annual_rate_percent": 10.0,
			},
			check: func(t *testing.T, r *EvaluateResponse) {
				assert.Equal(t, 1000.0, r.Result.NetValue)
				assert.Equal(t, []string{calculations.GuardZeroTerm.Describe()}, r.Notes)
			},
		},
		{
			name: "end before start",
			params: map[string]interface{}{
				"start_date": "2024-02-01", "end_date": "2024-01-01",
				"product": "CDB", "regime": "fixed", "principal": 1000.0,
				"annual_rate_percent": 10.0,
			},
			wantError: true,
		},
		{
			name: "missing fixed rate",
			params: map[string]interface{}{
				"start_date": "2024-01-01", "end_date": "2024-02-01",
				"product": "CDB", "regime": "fixed", "principal": 1000.0,
			},
			wantError: true,
		},
		{
			name: "bad product",
			params: map[string]interface{}{
				"start_date": "2024-01-01", "end_date": "2024-02-01",
				"product": "TESOURO", "regime": "fixed", "principal": 1000.0,
				"annual_rate_percent": 10.0,
			},
			wantError: true,
		},
		{
			name: "custody not a number",
			params: map[string]interface{}{
				"start_date": "2024-01-01", "end_date": "2024-02-01",
				"product": "CDB", "regime": "fixed", "principal": 1000.0,
				"annual_rate_percent": 10.0, "custody_rate_percent": "0.5",
			},
			wantError: true,
		},
		{
			name: "custody above gross value",
			params: map[string]interface{}{
				"start_date": "2024-01-01", "end_date": "2044-01-01",
				"product": "LCI", "regime": "fixed", "principal": 1000.0,
				"annual_rate_percent": 0.0, "custody_rate_percent": 10.0,
			},
			check: func(t *testing.T, r *EvaluateResponse) {
				assert.Equal(t, -100.0, r.Result.AnnualizedYieldPercent)
				assert.Equal(t, []string{calculations.GuardNonPositiveNet.Describe()}, r.Notes)
			},
		},
		{
			name: "bad date",
			params: map[string]interface{}{
				"start_date": "01/01/2024", "end_date": "2024-02-01",
				"product": "CDB", "regime": "fixed", "principal": 1000.0,
				"annual_rate_percent": 10.0,
			},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := EvaluateHandler(cfg, tracer, tt.provider)
			out, err := handler(context.Background(), tt.params)
			if tt.wantError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.check(t, out.(*EvaluateResponse))
		})
	}
}

func TestCompareHandler(t *testing.T) {
	cfg := testConfig(t)
	handler := CompareHandler(cfg, tracer, nil)

	leg := func(product string, rate float64) map[string]interface{} {
		return map[string]interface{}{
			"start_date": "2024-01-01", "end_date": "2025-01-01",
			"product": product, "regime": "fixed", "principal": 1000.0,
			"annual_rate_percent": rate,
		}
	}

	out, err := handler(context.Background(), map[string]interface{}{
		"a": leg("CDB", 12),
		"b": leg("LCI", 12),
	})
	require.NoError(t, err)
	resp := out.(*CompareResponse)
	assert.Equal(t, calculations.WinnerB, resp.Winner)
	assert.Greater(t, resp.B.NetValue, resp.A.NetValue)

	out, err = handler(context.Background(), map[string]interface{}{
		"a": leg("LCA", 10),
		"b": leg("LCI", 10),
	})
	require.NoError(t, err)
	assert.Equal(t, calculations.WinnerB, out.(*CompareResponse).Winner, "ties resolve to B")

	_, err = handler(context.Background(), map[string]interface{}{"a": leg("CDB", 12)})
	assert.Error(t, err)
}

func TestReferenceRateHandler(t *testing.T) {
	cfg := testConfig(t)

	out, err := ReferenceRateHandler(cfg, tracer, stubProvider{rate: 14.9, ok: true})(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, &ReferenceRateResponse{RatePercent: 14.9, Source: ratesource.SourceLive}, out)

	out, err = ReferenceRateHandler(cfg, tracer, stubProvider{})(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, &ReferenceRateResponse{RatePercent: 13.75, Source: ratesource.SourceDefault}, out)
}

func TestRegistry(t *testing.T) {
	reg := Registry(testConfig(t), tracer, nil)
	assert.Len(t, reg, 3)
	assert.Contains(t, reg, EvaluateToolName)
	assert.Contains(t, reg, CompareToolName)
	assert.Contains(t, reg, ReferenceRateToolName)
}
