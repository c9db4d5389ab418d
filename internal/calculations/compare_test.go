package calculations

import (
	"testing"
)

func TestCompare(t *testing.T) {
	tests := []struct {
		name string
		a, b float64
		want Winner
	}{
		{"a higher", 9.0, 8.0, WinnerA},
		{"b higher", 8.0, 9.0, WinnerB},
		{"tie goes to b", 8.0, 8.0, WinnerB},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := InvestmentResult{AnnualizedYieldPercent: tt.a}
			b := InvestmentResult{AnnualizedYieldPercent: tt.b}
			if got := Compare(a, b); got != tt.want {
				t.Errorf("Compare() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCompareInvestments(t *testing.T) {
	// LCI без налога на 90% CDI против облагаемого CDB на 100% CDI
	start := date(2024, 1, 1)
	end := date(2025, 1, 1)
	lci := InvestmentRequest{
		Start: start, End: end, Product: LCI, Regime: Indexed, Principal: 1000,
		CDIRate: Float(13.75), CDIPercent: Float(90),
	}
	cdb := InvestmentRequest{
		Start: start, End: end, Product: CDB, Regime: Indexed, Principal: 1000,
		CDIRate: Float(13.75), CDIPercent: Float(100),
	}

	result, err := CompareInvestments(cdb, lci)
	if err != nil {
		t.Fatalf("CompareInvestments() error = %v", err)
	}
	if result.Winner != WinnerB {
		t.Errorf("expected tax-exempt LCI to win, got %s (a=%v b=%v)",
			result.Winner, result.A.AnnualizedYieldPercent, result.B.AnnualizedYieldPercent)
	}
	if len(result.Results()) != 2 || result.Results()[0].Product != CDB {
		t.Errorf("Results() must keep A, B order")
	}

	lci.CDIRate = nil
	if _, err := CompareInvestments(cdb, lci); err == nil {
		t.Error("expected error for missing CDI in B")
	}
}

func TestParseProductAndRegime(t *testing.T) {
	if p, err := ParseProduct(" cdb "); err != nil || p != CDB {
		t.Errorf("ParseProduct() = %v, %v", p, err)
	}
	if _, err := ParseProduct("poupanca"); err == nil {
		t.Error("expected error for unknown product")
	}
	if r, err := ParseRegime("Pré"); err != nil || r != Fixed {
		t.Errorf("ParseRegime(Pré) = %v, %v", r, err)
	}
	if r, err := ParseRegime("pos"); err != nil || r != Indexed {
		t.Errorf("ParseRegime(pos) = %v, %v", r, err)
	}
	if _, err := ParseRegime("floating"); err == nil {
		t.Error("expected error for unknown regime")
	}
}
