package format

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/cloud-ru/mcp-fixed-income-go/internal/calculations"
)

var regimeLabels = map[calculations.Regime]string{
	calculations.Fixed:   "Pré",
	calculations.Indexed: "Pós",
}

// WriteResult печатает результат в виде таблицы "поле - значение"
func (f Formatter) WriteResult(w io.Writer, r calculations.InvestmentResult) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	rows := [][2]string{
		{"Produto", string(r.Product)},
		{"Tipo", regimeLabels[r.Regime]},
		{"Taxa efetiva (a.a.)", f.Percent(r.EffectiveRate)},
		{"Prazo (dias)", fmt.Sprintf("%d", r.TermDays)},
		{"Valor investido", f.Money(r.Principal)},
		{"Valor bruto", f.Money(r.GrossValue)},
		{"IOF", f.Money(r.IOF)},
		{"Imposto IR", f.Money(r.IR)},
		{"Custódia", f.Money(r.CustodyCost)},
		{"Valor líquido", f.Money(r.NetValue)},
		{"Rentabilidade líquida", f.Percent(r.NetYieldPercent)},
		{"Rentabilidade anual", f.Percent(r.AnnualizedYieldPercent)},
	}
	for _, row := range rows {
		if _, err := fmt.Fprintf(tw, "%s:\t%s\n", row[0], row[1]); err != nil {
			return err
		}
	}
	for _, g := range r.Guards() {
		if _, err := fmt.Fprintf(tw, "Aviso:\t%s\n", g.Describe()); err != nil {
			return err
		}
	}

	return tw.Flush()
}

// WriteComparison печатает обе инвестиции и итог сравнения
func (f Formatter) WriteComparison(w io.Writer, c calculations.ComparisonResult) error {
	for i, r := range c.Results() {
		if _, err := fmt.Fprintf(w, "== Investimento %d ==\n", i+1); err != nil {
			return err
		}
		if err := f.WriteResult(w, r); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}

	best := "Investimento 2"
	if c.Winner == calculations.WinnerA {
		best = "Investimento 1"
	}
	_, err := fmt.Fprintf(w, "Melhor investimento segundo rentabilidade anual: %s\n", best)
	return err
}
