package cli

import (
	"io"
	"os"

	"github.com/cloud-ru/mcp-fixed-income-go/internal/config"
	"github.com/cloud-ru/mcp-fixed-income-go/internal/format"
	"github.com/cloud-ru/mcp-fixed-income-go/internal/logger"
	"github.com/cloud-ru/mcp-fixed-income-go/internal/ratesource"
	"github.com/spf13/cobra"
)

// CLI интерфейс командной строки rendafixa
type CLI struct {
	cfg       *config.Config
	logger    logger.Logger
	provider  ratesource.Provider
	formatter format.Formatter
	out       io.Writer
	rootCmd   *cobra.Command
}

// Options зависимости CLI
type Options struct {
	Config   *config.Config
	Logger   logger.Logger
	Provider ratesource.Provider
	Output   io.Writer
}

func NewCLI(opts Options) (*CLI, error) {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	locale, err := format.LookupLocale(opts.Config.Locale)
	if err != nil {
		return nil, err
	}

	cli := &CLI{
		cfg:       opts.Config,
		logger:    opts.Logger,
		provider:  opts.Provider,
		formatter: format.New(locale),
		out:       opts.Output,
	}

	cli.rootCmd = cli.newRootCmd()
	return cli, nil
}

func (cli *CLI) Execute() error {
	return cli.rootCmd.Execute()
}

// SetArgs подменяет аргументы командной строки, используется в тестах
func (cli *CLI) SetArgs(args []string) {
	cli.rootCmd.SetArgs(args)
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "rendafixa",
		Short:         "Fixed income (CDB/LCI/LCA) net return calculator",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetOut(cli.out)

	cmd.AddCommand(cli.newEvaluateCmd())
	cmd.AddCommand(cli.newCompareCmd())
	cmd.AddCommand(cli.newRateCmd())
	cmd.AddCommand(cli.newServeCmd())

	return cmd
}
