package request

import (
	"context"
	"errors"
	"testing"

	"github.com/cloud-ru/mcp-fixed-income-go/internal/calculations"
	"github.com/cloud-ru/mcp-fixed-income-go/internal/config"
	"github.com/cloud-ru/mcp-fixed-income-go/internal/ratesource"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
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

func TestBuildFixed(t *testing.T) {
	spec := InvestmentSpec{
		StartDate:  "2024-01-01",
		EndDate:    "2024-12-31",
		Product:    "cdb",
		Regime:     "pré",
		Principal:  1000,
		AnnualRate: calculations.Float(10),
		CDIRate:    calculations.Float(99),
	}

	req, source, err := spec.Build(context.Background(), testConfig(t), stubProvider{rate: 15, ok: true})
	require.NoError(t, err)
	assert.Equal(t, calculations.CDB, req.Product)
	assert.Equal(t, calculations.Fixed, req.Regime)
	assert.Equal(t, 10.0, *req.AnnualRate)
	assert.Nil(t, req.CDIRate, "cdi is ignored for fixed regime")
	assert.Empty(t, source)
}

func TestBuildIndexedSources(t *testing.T) {
	base := InvestmentSpec{
		StartDate:  "2024-01-01",
		EndDate:    "2024-07-01",
		Product:    "LCA",
		Regime:     "pos",
		Principal:  1000,
		CDIPercent: calculations.Float(90),
	}

	tests := []struct {
		name       string
		explicit   *float64
		provider   ratesource.Provider
		wantRate   float64
		wantSource ratesource.Source
	}{
		{"explicit zero", calculations.Float(0), stubProvider{rate: 15, ok: true}, 0, ratesource.SourceRequest},
		{"live", nil, stubProvider{rate: 15, ok: true}, 15, ratesource.SourceLive},
		{"default", nil, stubProvider{}, 13.75, ratesource.SourceDefault},
		{"no provider", nil, nil, 13.75, ratesource.SourceDefault},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := base
			spec.CDIRate = tt.explicit

			req, source, err := spec.Build(context.Background(), testConfig(t), tt.provider)
			require.NoError(t, err)
			assert.Equal(t, tt.wantRate, *req.CDIRate)
			assert.Equal(t, tt.wantSource, source)
		})
	}
}

func TestBuildErrors(t *testing.T) {
	valid := InvestmentSpec{
		StartDate:  "2024-01-01",
		EndDate:    "2024-02-01",
		Product:    "CDB",
		Regime:     "fixed",
		Principal:  1000,
		AnnualRate: calculations.Float(10),
	}

	tests := []struct {
		name   string
		modify func(*InvestmentSpec)
	}{
		{"bad start", func(s *InvestmentSpec) { s.StartDate = "01/01/2024" }},
		{"missing end", func(s *InvestmentSpec) { s.EndDate = "" }},
		{"bad product", func(s *InvestmentSpec) { s.Product = "TESOURO" }},
		{"bad regime", func(s *InvestmentSpec) { s.Regime = "hybrid" }},
		{"missing rate", func(s *InvestmentSpec) { s.AnnualRate = nil }},
		{"negative principal", func(s *InvestmentSpec) { s.Principal = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := valid
			tt.modify(&spec)
			_, _, err := spec.Build(context.Background(), testConfig(t), nil)
			assert.Error(t, err)
		})
	}

	spec := valid
	spec.StartDate, spec.EndDate = "2024-02-01", "2024-01-01"
	_, _, err := spec.Build(context.Background(), testConfig(t), nil)
	var rangeErr *calculations.InvalidRangeError
	assert.True(t, errors.As(err, &rangeErr))
}
