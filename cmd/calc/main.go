// Command calc evaluates arithmetic expressions with the Calculator tool.
//
// Usage:
//
//	calc [flags] [expression ...]
//
// Each argument is evaluated in turn. Without arguments, every non-empty
// line of standard input is evaluated. Results are printed as the tool's
// JSON output, one per line; failures go to standard error and make the
// exit status 1.
//
// Configuration is read from the environment, after loading a .env file:
// STOCKCALC_MAX_DEPTH, STOCKCALC_LOG_LEVEL and STOCKCALC_LOG_FORMAT.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/leofalp/stockcalc/core/cost"
	"github.com/leofalp/stockcalc/core/expr"
	"github.com/leofalp/stockcalc/providers/observability"
	"github.com/leofalp/stockcalc/providers/observability/slogobs"
	"github.com/leofalp/stockcalc/providers/tool"
	"github.com/leofalp/stockcalc/providers/tool/calculator"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("calc", flag.ContinueOnError)
	flags.SetOutput(stderr)
	envFile := flags.String("env", ".env", "dotenv file to load before reading the environment")
	listTools := flags.Bool("tools", false, "print the tool descriptions as JSON and exit")
	if err := flags.Parse(args); err != nil {
		return 2
	}

	cfg, err := loadConfig(*envFile)
	if err != nil {
		fmt.Fprintf(stderr, "calc: %v\n", err)
		return 2
	}

	obs := slogobs.New(
		slogobs.WithLevel(cfg.LogLevel),
		slogobs.WithFormat(cfg.LogFormat),
		slogobs.WithOutput(stderr),
	)
	ctx = observability.ContextWithProvider(ctx, obs)

	catalog := tool.NewCatalog(calculator.NewCalculatorTool(
		calculator.WithEvaluator(expr.New(expr.WithMaxDepth(cfg.MaxDepth))),
	))

	if *listTools {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(catalog.Descriptions()); err != nil {
			fmt.Fprintf(stderr, "calc: %v\n", err)
			return 1
		}
		return 0
	}

	obs.Debug(ctx, "Calculator ready",
		observability.Int(observability.AttrExprMaxDepth, cfg.MaxDepth),
		observability.String("log.format", cfg.LogFormat.String()),
	)

	s := &session{catalog: catalog, summary: cost.NewCostSummary(), stdout: stdout, stderr: stderr}
	if flags.NArg() > 0 {
		for _, expression := range flags.Args() {
			if ctx.Err() != nil {
				break
			}
			s.evaluate(ctx, expression)
		}
	} else if err := s.evaluateLines(ctx, stdin); err != nil {
		fmt.Fprintf(stderr, "calc: reading input: %v\n", err)
		s.failed++
	}

	s.logSummary(ctx, obs)
	if s.failed > 0 {
		return 1
	}
	return 0
}

// session evaluates expressions through the catalog and keeps the run's
// totals.
type session struct {
	catalog *tool.Catalog
	summary *cost.CostSummary
	stdout  io.Writer
	stderr  io.Writer
	failed  int
}

func (s *session) evaluate(ctx context.Context, expression string) {
	input, err := json.Marshal(calculator.Input{Expression: expression})
	if err != nil {
		fmt.Fprintf(s.stderr, "%s: %v\n", expression, err)
		s.failed++
		return
	}

	out, err := s.catalog.Call(ctx, calculator.Name, string(input))
	if t, ok := s.catalog.Get(calculator.Name); ok {
		s.summary.AddToolExecution(calculator.Name, t.GetMetrics())
	}
	if err != nil {
		fmt.Fprintf(s.stderr, "%s: %v\n", expression, err)
		s.failed++
		return
	}
	fmt.Fprintln(s.stdout, out)
}

func (s *session) evaluateLines(ctx context.Context, r io.Reader) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		s.evaluate(ctx, line)
	}
	return scanner.Err()
}

func (s *session) logSummary(ctx context.Context, obs *slogobs.Observer) {
	snap := obs.Snapshot()
	duration := snap.Histograms[observability.MetricToolDuration]
	obs.Debug(ctx, "Run finished",
		observability.String("cost", s.summary.String()),
		observability.Int64("calls", snap.Counters[observability.MetricToolCalls]),
		observability.Int64("errors", snap.Counters[observability.MetricToolErrors]),
		observability.Float64("duration.mean_ms", duration.Mean()),
	)
}
