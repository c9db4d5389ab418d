package calculations

import "fmt"

// Compare выбирает инвестицию с большей годовой чистой доходностью.
// A побеждает только при строгом превосходстве, при равенстве выигрывает B.
func Compare(a, b InvestmentResult) Winner {
	if a.AnnualizedYieldPercent > b.AnnualizedYieldPercent {
		return WinnerA
	}
	return WinnerB
}

// CompareInvestments рассчитывает обе инвестиции и определяет лучшую
func CompareInvestments(a, b InvestmentRequest) (*ComparisonResult, error) {
	resultA, err := Evaluate(a)
	if err != nil {
		return nil, fmt.Errorf("investment A: %w", err)
	}

	resultB, err := Evaluate(b)
	if err != nil {
		return nil, fmt.Errorf("investment B: %w", err)
	}

	return &ComparisonResult{
		A:      *resultA,
		B:      *resultB,
		Winner: Compare(*resultA, *resultB),
	}, nil
}
