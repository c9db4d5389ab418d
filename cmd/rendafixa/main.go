package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/cloud-ru/mcp-fixed-income-go/internal/cli"
	"github.com/cloud-ru/mcp-fixed-income-go/internal/config"
	"github.com/cloud-ru/mcp-fixed-income-go/internal/logger"
	"github.com/cloud-ru/mcp-fixed-income-go/internal/ratesource"
)

func main() {
	// os.Exit не выполняет defer, поэтому ресурсы закрываются внутри run
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Printf("%s: can't load config", err)
		return 1
	}

	zapLogger, loggerSync, err := logger.NewZapLogger(logger.ParseLevel(cfg.LogLevel))
	if err != nil {
		log.Printf("%s: can't init logger", err)
		return 1
	}
	defer loggerSync()

	provider, closeProvider := ratesource.NewFromConfig(cfg, zapLogger)
	defer func() {
		if err := closeProvider(); err != nil {
			zapLogger.Warnf("%s: can't close rate source", err)
		}
	}()

	c, err := cli.NewCLI(cli.Options{
		Config:   cfg,
		Logger:   zapLogger,
		Provider: provider,
		Output:   stdout,
	})
	if err != nil {
		zapLogger.Errorf("%s: can't init cli", err)
		return 1
	}
	c.SetArgs(args)

	if err := c.Execute(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
