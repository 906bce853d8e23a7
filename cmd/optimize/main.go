// Command optimize solves a single production-mix problem read from a CSV file
// and prints the resulting plan.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kingpin/v2"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/eugenenazirov/production-optimizer/internal/config"
	"github.com/eugenenazirov/production-optimizer/internal/logging"
	"github.com/eugenenazirov/production-optimizer/internal/lp"
	"github.com/eugenenazirov/production-optimizer/internal/optimizer"
	"github.com/eugenenazirov/production-optimizer/internal/params"
	"github.com/eugenenazirov/production-optimizer/internal/result"
)

const (
	formatText = "text"
	formatJSON = "json"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	app := kingpin.New("optimize", "Compute the revenue-maximizing production plan for a CSV parameter file")
	app.UsageWriter(stderr)
	app.ErrorWriter(stderr)
	csvPath := app.Arg("csv", "CSV file with one row of production parameters").Required().String()
	configFile := app.Flag("config", "Path to YAML configuration file").String()
	productsStr := app.Flag("products", "Comma-separated product identifiers").String()
	machinesStr := app.Flag("machines", "Comma-separated machine identifiers").String()
	maxIterations := app.Flag("max-iterations", "Simplex iteration cap").Default("0").Int()
	format := app.Flag("format", "Output format").Default(formatText).Enum(formatText, formatJSON)
	logLevel := app.Flag("log-level", "Log level (debug, info, warn, error)").Default("warn").String()

	if _, err := app.Parse(args); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	overrides := &config.CLIOverrides{ConfigFile: *configFile, LogLevel: logLevel}
	if *productsStr != "" {
		overrides.ProductsStr = productsStr
	}
	if *machinesStr != "" {
		overrides.MachinesStr = machinesStr
	}
	if *maxIterations > 0 {
		overrides.MaxIterations = maxIterations
	}

	cfg, err := config.Load(overrides)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	defer func() {
		_ = logger.Sync()
	}()

	res, err := solveFile(context.Background(), cfg, logger, *csvPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	if *format == formatJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		return 0
	}

	printText(stdout, res)
	return 0
}

func solveFile(ctx context.Context, cfg config.Config, logger *zap.Logger, path string) (result.Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return result.Result{}, fmt.Errorf("open parameters: %w", err)
	}
	defer f.Close()

	in, err := params.ReadCSV(f)
	if err != nil {
		return result.Result{}, err
	}

	svc := optimizer.New(
		lp.New(lp.WithMaxIterations(cfg.SolverMaxIterations)),
		logger,
		optimizer.WithSolveTimeout(cfg.SolveTimeout),
	)
	return svc.Optimize(ctx, cfg.Layout, in)
}

func printText(w io.Writer, res result.Result) {
	p := message.NewPrinter(language.English)
	_, _ = p.Fprintf(w, "Optimization status: %s\n", res.Status)
	if !res.Optimal() {
		_, _ = p.Fprintf(w, "Error: %s\n", res.Error)
		return
	}
	for _, v := range res.Variables {
		_, _ = p.Fprintf(w, "%s: %.2f\n", v.Name, *v.Value)
	}
	_, _ = p.Fprintf(w, "Total Revenue: $%.2f\n", *res.ObjectiveValue)
}
