package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/moznion/go-optional"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"

	"github.com/testingview/testingview/internal/backtest"
	"github.com/testingview/testingview/internal/datasource"
	"github.com/testingview/testingview/internal/logger"
	"github.com/testingview/testingview/internal/strategy"
	"github.com/testingview/testingview/internal/types"
	"github.com/testingview/testingview/internal/version"
)

// runAction loads the bar history, builds the requested strategy and runs
// the simulation, printing the report summary when done.
func runAction(ctx context.Context, cmd *cli.Command) error {
	dataPath := cmd.String("data")
	strategyName := cmd.String("strategy")
	configPath := cmd.String("config")
	outputPath := cmd.String("output")

	appLogger, err := logger.NewLogger()
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = appLogger.Sync() }()

	config := backtest.DefaultConfig()

	if configPath != "" {
		raw, err := os.ReadFile(configPath)
		if err != nil {
			return fmt.Errorf("failed to read config %s: %w", configPath, err)
		}

		config, err = backtest.ParseConfig(string(raw))
		if err != nil {
			return err
		}
	}

	registry := strategy.NewDefaultRegistry()

	strat, err := registry.Get(strategyName)
	if err != nil {
		return err
	}

	source, err := datasource.NewDuckDBDataSource(appLogger)
	if err != nil {
		return err
	}
	defer source.Close()

	if err := source.Initialize(dataPath); err != nil {
		return err
	}

	bars, err := source.ReadAll(optional.None[time.Time](), optional.None[time.Time]())
	if err != nil {
		return err
	}

	runner, err := backtest.NewRunner(config, strat, appLogger)
	if err != nil {
		return err
	}

	bar := progressbar.Default(int64(len(bars)))
	bar.Describe(fmt.Sprintf("Running %s on %s", strat.Name(), dataPath))

	runner.SetOnStepCallback(func(step, total int) {
		_ = bar.Add(1)
	})

	report, err := runner.Run(bars)
	if err != nil {
		return err
	}

	_ = bar.Finish()

	fmt.Println()
	fmt.Print(report.String())

	if outputPath != "" {
		if err := types.WriteReport(outputPath, *report); err != nil {
			return err
		}

		fmt.Printf("Report written to %s\n", outputPath)
	}

	return nil
}

// schemaAction prints the JSON schema of the run configuration file.
func schemaAction(ctx context.Context, cmd *cli.Command) error {
	config := &backtest.Config{}

	schema, err := config.GenerateSchemaJSON()
	if err != nil {
		return err
	}

	fmt.Println(schema)

	return nil
}

// strategiesAction lists the built-in strategies.
func strategiesAction(ctx context.Context, cmd *cli.Command) error {
	registry := strategy.NewDefaultRegistry()
	fmt.Println(strings.Join(registry.List(), "\n"))

	return nil
}

func main() {
	cmd := &cli.Command{
		Name:    "backtest",
		Usage:   "Run trading strategies against historical bar data",
		Version: version.GetVersion(),
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Run one strategy over a CSV or parquet bar file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "data",
						Aliases:  []string{"d"},
						Usage:    "Path to the bar data file (.csv or .parquet)",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "strategy",
						Aliases:  []string{"s"},
						Usage:    "Strategy to run",
						Value:    "sma_cross",
						Required: false,
					},
					&cli.StringFlag{
						Name:     "config",
						Aliases:  []string{"c"},
						Usage:    "Path to a YAML run configuration",
						Required: false,
					},
					&cli.StringFlag{
						Name:     "output",
						Aliases:  []string{"o"},
						Usage:    "Path to write the full YAML report to",
						Required: false,
					},
				},
				Action: runAction,
			},
			{
				Name:   "schema",
				Usage:  "Print the JSON schema of the run configuration",
				Action: schemaAction,
			},
			{
				Name:   "strategies",
				Usage:  "List the built-in strategies",
				Action: strategiesAction,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
