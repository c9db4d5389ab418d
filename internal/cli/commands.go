package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/cloud-ru/mcp-fixed-income-go/internal/calculations"
	"github.com/cloud-ru/mcp-fixed-income-go/internal/export"
	"github.com/cloud-ru/mcp-fixed-income-go/internal/ratesource"
	"github.com/cloud-ru/mcp-fixed-income-go/internal/request"
	"github.com/cloud-ru/mcp-fixed-income-go/internal/server"
	"github.com/cloud-ru/mcp-fixed-income-go/internal/tools"
	"github.com/cloud-ru/mcp-fixed-income-go/internal/tracing"
	"github.com/spf13/cobra"
)

type evaluateCmd struct {
	spec    request.InvestmentSpec
	rate    float64
	cdi     float64
	cdiPct  float64
	custody float64
	csvPath string
}

func (cli *CLI) newEvaluateCmd() *cobra.Command {
	ec := &evaluateCmd{}
	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Calculate gross and net return of one investment",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.runEvaluate(cmd, ec)
		},
	}

	// значения по умолчанию как в исходной форме калькулятора
	cmd.Flags().StringVar(&ec.spec.StartDate, "start", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&ec.spec.EndDate, "end", "", "End date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&ec.spec.Product, "product", "CDB", "Product: CDB, LCI or LCA")
	cmd.Flags().StringVar(&ec.spec.Regime, "regime", "fixed", "Rate regime: fixed (pre) or indexed (pos)")
	cmd.Flags().Float64Var(&ec.spec.Principal, "principal", 1000, "Invested amount")
	cmd.Flags().Float64Var(&ec.rate, "rate", 10, "Annual rate, % (fixed regime)")
	cmd.Flags().Float64Var(&ec.cdi, "cdi", 0, "Annual CDI rate, % (indexed regime; fetched when omitted)")
	cmd.Flags().Float64Var(&ec.cdiPct, "cdi-percent", 100, "Percentage of CDI, % (indexed regime)")
	cmd.Flags().Float64Var(&ec.custody, "custody", 0, "Annual custody fee, %")
	cmd.Flags().StringVar(&ec.csvPath, "csv", "", "Write the result as CSV to this file")

	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")

	return cmd
}

func (cli *CLI) runEvaluate(cmd *cobra.Command, ec *evaluateCmd) error {
	spec := ec.spec
	spec.AnnualRate = calculations.Float(ec.rate)
	spec.CDIPercent = calculations.Float(ec.cdiPct)
	if cmd.Flags().Changed("cdi") {
		spec.CDIRate = calculations.Float(ec.cdi)
	}
	if cmd.Flags().Changed("custody") {
		spec.CustodyRate = calculations.Float(ec.custody)
	}

	req, source, err := spec.Build(cmd.Context(), cli.cfg, cli.provider)
	if err != nil {
		return fmt.Errorf("invalid input: %w", err)
	}
	cli.logCDISource(source, req)

	result, err := calculations.Evaluate(req)
	if err != nil {
		return fmt.Errorf("calculation failed: %w", err)
	}

	if err := cli.formatter.WriteResult(cli.out, *result); err != nil {
		return err
	}
	return writeCSV(ec.csvPath, *result)
}

type compareCmd struct {
	file    string
	csvPath string
}

func (cli *CLI) newCompareCmd() *cobra.Command {
	cc := &compareCmd{}
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare two investments by annualized net yield",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.runCompare(cmd, cc)
		},
	}

	cmd.Flags().StringVar(&cc.file, "file", "", "YAML file with investments 'a' and 'b'")
	cmd.Flags().StringVar(&cc.csvPath, "csv", "", "Write both results as CSV to this file")

	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func (cli *CLI) runCompare(cmd *cobra.Command, cc *compareCmd) error {
	f, err := LoadComparisonFile(cc.file)
	if err != nil {
		return err
	}

	reqA, sourceA, err := f.A.Build(cmd.Context(), cli.cfg, cli.provider)
	if err != nil {
		return fmt.Errorf("investment A: %w", err)
	}
	cli.logCDISource(sourceA, reqA)

	reqB, sourceB, err := f.B.Build(cmd.Context(), cli.cfg, cli.provider)
	if err != nil {
		return fmt.Errorf("investment B: %w", err)
	}
	cli.logCDISource(sourceB, reqB)

	result, err := calculations.CompareInvestments(reqA, reqB)
	if err != nil {
		return fmt.Errorf("calculation failed: %w", err)
	}

	if err := cli.formatter.WriteComparison(cli.out, *result); err != nil {
		return err
	}
	return writeCSV(cc.csvPath, result.Results()...)
}

func (cli *CLI) newRateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rate",
		Short: "Show the current CDI rate used for indexed investments",
		RunE: func(cmd *cobra.Command, args []string) error {
			rate, source := ratesource.Resolve(cmd.Context(), cli.provider, nil, cli.cfg.DefaultCDIRate)
			_, err := fmt.Fprintf(cli.out, "CDI: %s (%s)\n", cli.formatter.Percent(rate), source)
			return err
		},
	}
}

func (cli *CLI) newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the calculator tools over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			tracer, shutdown, err := tracing.InitTracing(ctx, cli.cfg.OTELServiceName, cli.cfg.OTELEndpoint, cli.logger)
			if err != nil {
				return err
			}
			defer func() {
				if err := shutdown(context.Background()); err != nil {
					cli.logger.Warnf("%s: can't shutdown tracer provider", err)
				}
			}()

			router := server.NewRouter(tools.Registry(cli.cfg, tracer, cli.provider), cli.logger)
			return server.NewHTTPServer(ctx, cli.cfg.Port, router, cli.logger).Run(ctx)
		},
	}
}

func (cli *CLI) logCDISource(source ratesource.Source, req calculations.InvestmentRequest) {
	if req.Regime != calculations.Indexed {
		return
	}
	if source == ratesource.SourceDefault {
		cli.logger.Warnf("CDI source unavailable, using default %.2f%%", *req.CDIRate)
		return
	}
	cli.logger.Debugf("CDI %.2f%% from %s", *req.CDIRate, source)
}

func writeCSV(path string, results ...calculations.InvestmentResult) error {
	if path == "" {
		return nil
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: can't create csv file", err)
	}
	defer f.Close()

	if err := export.WriteResults(f, results...); err != nil {
		return fmt.Errorf("%w: can't write csv", err)
	}
	return f.Close()
}
