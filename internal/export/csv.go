// Package export сериализует результаты расчетов в CSV: одна строка заголовка,
// фиксированный порядок колонок, значения без округления.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/cloud-ru/mcp-fixed-income-go/internal/calculations"
)

// Columns порядок колонок в файле
var Columns = []string{
	"product",
	"regime",
	"effective_rate",
	"term_days",
	"principal",
	"gross_value",
	"iof",
	"ir",
	"custody_cost",
	"net_value",
	"net_yield_pct",
	"annualized_yield_pct",
}

// WriteResults пишет заголовок и по строке на каждый результат
func WriteResults(w io.Writer, results ...calculations.InvestmentResult) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("can't write header: %w", err)
	}
	for i, r := range results {
		if err := cw.Write(record(r)); err != nil {
			return fmt.Errorf("can't write row %d: %w", i+1, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func record(r calculations.InvestmentResult) []string {
	return []string{
		string(r.Product),
		string(r.Regime),
		formatFloat(r.EffectiveRate),
		strconv.Itoa(r.TermDays),
		formatFloat(r.Principal),
		formatFloat(r.GrossValue),
		formatFloat(r.IOF),
		formatFloat(r.IR),
		formatFloat(r.CustodyCost),
		formatFloat(r.NetValue),
		formatFloat(r.NetYieldPercent),
		formatFloat(r.AnnualizedYieldPercent),
	}
}

// formatFloat кратчайшее представление, однозначно восстанавливающее float64
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// ReadResults разбирает файл, записанный WriteResults.
// Колонка input_rate не экспортируется, поэтому InputRate остается нулевым.
func ReadResults(r io.Reader) ([]calculations.InvestmentResult, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(Columns)

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("can't read header: %w", err)
	}
	for i, name := range Columns {
		if header[i] != name {
			return nil, fmt.Errorf("unexpected column %d: %q, want %q", i+1, header[i], name)
		}
	}

	var results []calculations.InvestmentResult
	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		res, err := parseRecord(row)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		results = append(results, res)
	}

	return results, nil
}

func parseRecord(row []string) (calculations.InvestmentResult, error) {
	var res calculations.InvestmentResult

	product, err := calculations.ParseProduct(row[0])
	if err != nil {
		return res, err
	}
	regime, err := calculations.ParseRegime(row[1])
	if err != nil {
		return res, err
	}
	term, err := strconv.Atoi(row[3])
	if err != nil {
		return res, fmt.Errorf("term_days: %w", err)
	}

	floats := []*float64{
		&res.EffectiveRate, nil, &res.Principal, &res.GrossValue, &res.IOF, &res.IR,
		&res.CustodyCost, &res.NetValue, &res.NetYieldPercent, &res.AnnualizedYieldPercent,
	}
	for i, dst := range floats {
		if dst == nil {
			continue
		}
		col := i + 2
		v, err := strconv.ParseFloat(row[col], 64)
		if err != nil {
			return res, fmt.Errorf("%s: %w", Columns[col], err)
		}
		*dst = v
	}

	res.Product = product
	res.Regime = regime
	res.TermDays = term
	return res, nil
}
