// Package cli provides the console presentation layer and the
// interactive REPL for driving timed summation runs.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/avezina/sumbench/internal/format"
	"github.com/avezina/sumbench/internal/gauss"
	"github.com/avezina/sumbench/internal/orchestration"
	"github.com/avezina/sumbench/internal/ui"
)

// REPLConfig holds configuration for the REPL session.
type REPLConfig struct {
	// DefaultAlgo is the initial strategy selection ("all" or a factory key).
	DefaultAlgo string
	// Timeout is the maximum duration for each run. Zero means no bound.
	Timeout time.Duration
	// Repeat is the best-of-N measurement count per strategy.
	Repeat int
	// CheckInterval overrides the iterative scan's cancellation check interval.
	CheckInterval uint64
}

// REPL represents an interactive benchmark session.
type REPL struct {
	config      REPLConfig
	factory     gauss.CalculatorFactory
	currentAlgo string
	currentN    uint64
	in          io.Reader
	out         io.Writer
}

// NewREPL creates a new REPL instance.
//
// Parameters:
//   - factory: The strategy factory backing run and compare commands.
//   - config: REPL configuration.
//
// Returns:
//   - *REPL: A new REPL instance.
func NewREPL(factory gauss.CalculatorFactory, config REPLConfig) *REPL {
	currentAlgo := config.DefaultAlgo
	if currentAlgo == "" {
		currentAlgo = "all"
	}

	return &REPL{
		config:      config,
		factory:     factory,
		currentAlgo: currentAlgo,
		in:          os.Stdin,
		out:         os.Stdout,
	}
}

// SetInput sets a custom input reader (useful for testing).
func (r *REPL) SetInput(in io.Reader) {
	r.in = in
}

// SetOutput sets a custom output writer (useful for testing).
func (r *REPL) SetOutput(out io.Writer) {
	r.out = out
}

// Start begins the interactive REPL session.
// It continuously reads user input and processes commands until
// the user exits or EOF is reached.
func (r *REPL) Start() {
	r.printBanner()
	r.printHelp()
	fmt.Fprintln(r.out)

	reader := bufio.NewReader(r.in)

	for {
		fmt.Fprint(r.out, ui.ColorGreen()+"sum> "+ui.ColorReset())

		input, err := reader.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(r.out, "\nGoodbye!")
				return
			}
			fmt.Fprintf(r.out, "%sRead error: %v%s\n", ui.ColorRed(), err, ui.ColorReset())
			continue
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		if !r.processCommand(input) {
			return // Exit command received
		}
	}
}

// printBanner displays the REPL welcome banner.
func (r *REPL) printBanner() {
	fmt.Fprintf(r.out, "\n%s╔══════════════════════════════════════════════════════════╗%s\n", ui.ColorCyan(), ui.ColorReset())
	fmt.Fprintf(r.out, "%s║%s     %sΣ Triangular Sum Benchmark - Interactive Mode%s        %s║%s\n",
		ui.ColorCyan(), ui.ColorReset(), ui.ColorBold(), ui.ColorReset(), ui.ColorCyan(), ui.ColorReset())
	fmt.Fprintf(r.out, "%s╚══════════════════════════════════════════════════════════╝%s\n\n", ui.ColorCyan(), ui.ColorReset())
}

// printHelp displays available commands.
func (r *REPL) printHelp() {
	fmt.Fprintf(r.out, "%sAvailable commands:%s\n", ui.ColorBold(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %sn <value>%s     - Set the input value\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %srun%s           - Time the current strategy selection for T(n)\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %salgo <key>%s    - Change strategy (all, %s)\n", ui.ColorYellow(), ui.ColorReset(), r.getAlgoList())
	fmt.Fprintf(r.out, "  %scompare <n>%s   - Iterative vs closed-form comparison for T(n)\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %slist%s          - List available strategies\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %sstatus%s        - Display current configuration\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %shelp%s          - Display this help\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %sexit%s / %squit%s  - Exit interactive mode\n", ui.ColorYellow(), ui.ColorReset(), ui.ColorYellow(), ui.ColorReset())
}

// getAlgoList returns a comma-separated list of available strategies.
func (r *REPL) getAlgoList() string {
	return strings.Join(r.factory.List(), ", ")
}

// processCommand parses and executes a user command.
// Returns false if the REPL should exit.
func (r *REPL) processCommand(input string) bool {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return true
	}

	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "n":
		r.cmdSetN(args)
	case "run", "r":
		r.cmdRun()
	case "algo", "a":
		r.cmdAlgo(args)
	case "compare", "cmp":
		r.cmdCompare(args)
	case "list", "ls":
		r.cmdList()
	case "status", "st":
		r.cmdStatus()
	case "help", "h", "?":
		r.printHelp()
	case "exit", "quit", "q":
		fmt.Fprintf(r.out, "%sGoodbye!%s\n", ui.ColorGreen(), ui.ColorReset())
		return false
	default:
		// A bare number sets the input and runs immediately
		if n, err := strconv.ParseUint(strings.ReplaceAll(cmd, "_", ""), 10, 64); err == nil && n > 0 {
			r.currentN = n
			r.runSelection(n)
		} else {
			fmt.Fprintf(r.out, "%sUnknown command: %s%s\n", ui.ColorRed(), cmd, ui.ColorReset())
			fmt.Fprintf(r.out, "Type %shelp%s to see available commands.\n", ui.ColorYellow(), ui.ColorReset())
		}
	}

	return true
}

// cmdSetN handles the "n" command.
func (r *REPL) cmdSetN(args []string) {
	if len(args) == 0 {
		fmt.Fprintf(r.out, "%sUsage: n <value>%s\n", ui.ColorRed(), ui.ColorReset())
		return
	}

	n, err := strconv.ParseUint(strings.ReplaceAll(args[0], "_", ""), 10, 64)
	if err != nil {
		fmt.Fprintf(r.out, "%sInvalid value: %s%s\n", ui.ColorRed(), args[0], ui.ColorReset())
		return
	}

	r.currentN = n
	if n == 0 {
		fmt.Fprintln(r.out, "Input cleared.")
		return
	}
	fmt.Fprintf(r.out, "Input set to n = %s%s%s\n",
		ui.ColorMagenta(), format.FormatNumberString(strconv.FormatUint(n, 10)), ui.ColorReset())
}

// cmdRun handles the "run" command.
func (r *REPL) cmdRun() {
	if r.currentN == 0 {
		fmt.Fprintf(r.out, "%sNo input set. Use n <value> first.%s\n", ui.ColorRed(), ui.ColorReset())
		return
	}
	r.runSelection(r.currentN)
}

// runContext returns the run context, bounded by the configured timeout
// when one is set.
func (r *REPL) runContext() (context.Context, context.CancelFunc) {
	if r.config.Timeout > 0 {
		return context.WithTimeout(context.Background(), r.config.Timeout)
	}
	return context.Background(), func() {}
}

// runSelection times the current strategy selection against n. A single
// strategy produces a plain result block, several produce the duel
// analysis with its comparison table.
func (r *REPL) runSelection(n uint64) {
	calculators := orchestration.GetCalculatorsToRun(r.currentAlgo, r.factory)
	if len(calculators) == 0 {
		fmt.Fprintf(r.out, "%sStrategy not found: %s%s\n", ui.ColorRed(), r.currentAlgo, ui.ColorReset())
		return
	}

	ctx, cancel := r.runContext()
	defer cancel()

	fmt.Fprintf(r.out, "Timing T(%s%s%s) with %s%s%s...\n",
		ui.ColorMagenta(), format.FormatNumberString(strconv.FormatUint(n, 10)), ui.ColorReset(),
		ui.ColorCyan(), r.selectionName(calculators), ui.ColorReset())

	results := orchestration.ExecuteStrategies(ctx, calculators, n, r.config.Repeat,
		r.options(), CLIProgressReporter{}, r.out)

	if len(results) > 1 {
		opts := orchestration.PresentationOptions{N: n, ShowValue: true}
		orchestration.AnalyzeComparisonResults(results, opts, CLIResultPresenter{}, CLIResultPresenter{}, r.out)
		fmt.Fprintln(r.out)
		return
	}

	r.displaySingleResult(results[0], n)
}

// selectionName describes the active strategy selection for the run banner.
func (r *REPL) selectionName(calculators []gauss.Calculator) string {
	if len(calculators) > 1 {
		return fmt.Sprintf("%d strategies", len(calculators))
	}
	return calculators[0].Name()
}

// options maps the session configuration onto strategy tuning options.
func (r *REPL) options() gauss.Options {
	return gauss.Options{CheckInterval: r.config.CheckInterval}
}

// displaySingleResult prints the result block for a single-strategy run.
func (r *REPL) displaySingleResult(res orchestration.StrategyResult, n uint64) {
	if res.Err != nil {
		fmt.Fprintf(r.out, "%sError: %v%s\n", ui.ColorRed(), res.Err, ui.ColorReset())
		return
	}

	durationStr := format.FormatExecutionDuration(res.Duration)

	fmt.Fprintf(r.out, "\n%sResult:%s\n", ui.ColorBold(), ui.ColorReset())
	fmt.Fprintf(r.out, "  Time:   %s%s%s\n", ui.ColorGreen(), durationStr, ui.ColorReset())
	fmt.Fprintf(r.out, "  Bits:   %s%d%s\n", ui.ColorCyan(), res.Value.BitLen(), ui.ColorReset())

	resultStr := res.Value.String()
	numDigits := len(resultStr)
	fmt.Fprintf(r.out, "  Digits: %s%d%s\n", ui.ColorCyan(), numDigits, ui.ColorReset())

	if numDigits > TruncationLimit {
		fmt.Fprintf(r.out, "  T(%d) = %s%s...%s%s (truncated)\n",
			n, ui.ColorGreen(), resultStr[:DisplayEdges], resultStr[numDigits-DisplayEdges:], ui.ColorReset())
	} else {
		fmt.Fprintf(r.out, "  T(%d) = %s%s%s\n", n, ui.ColorGreen(), format.FormatNumberString(resultStr), ui.ColorReset())
	}
	fmt.Fprintln(r.out)
}

// cmdAlgo handles the "algo" command.
func (r *REPL) cmdAlgo(args []string) {
	if len(args) == 0 {
		fmt.Fprintf(r.out, "%sUsage: algo <key>%s\n", ui.ColorRed(), ui.ColorReset())
		fmt.Fprintf(r.out, "Available strategies: all, %s\n", r.getAlgoList())
		return
	}

	name := strings.ToLower(args[0])
	if name != "all" {
		if _, err := r.factory.Get(name); err != nil {
			fmt.Fprintf(r.out, "%sUnknown strategy: %s%s\n", ui.ColorRed(), name, ui.ColorReset())
			fmt.Fprintf(r.out, "Available strategies: all, %s\n", r.getAlgoList())
			return
		}
	}

	r.currentAlgo = name
	fmt.Fprintf(r.out, "Strategy changed to: %s%s%s\n", ui.ColorGreen(), r.selectionLabel(name), ui.ColorReset())
}

// selectionLabel names a strategy selection for confirmation messages.
func (r *REPL) selectionLabel(key string) string {
	if key == "all" {
		return "all strategies"
	}
	return r.factory.MustGet(key).Name()
}

// cmdCompare handles the "compare" command: the iterative scan against the
// closed form for a single input, presented as a sweep block.
func (r *REPL) cmdCompare(args []string) {
	n := r.currentN
	if len(args) > 0 {
		parsed, err := strconv.ParseUint(strings.ReplaceAll(args[0], "_", ""), 10, 64)
		if err != nil {
			fmt.Fprintf(r.out, "%sInvalid value: %s%s\n", ui.ColorRed(), args[0], ui.ColorReset())
			return
		}
		n = parsed
	}
	if n == 0 {
		fmt.Fprintf(r.out, "%sUsage: compare <n>%s\n", ui.ColorRed(), ui.ColorReset())
		return
	}

	ctx, cancel := r.runContext()
	defer cancel()

	pair := orchestration.SweepPair(r.factory)
	results := orchestration.ExecuteStrategies(ctx, pair, n, r.config.Repeat,
		r.options(), CLIProgressReporter{}, r.out)
	cmp := orchestration.BuildComparison(n, results)
	CLIResultPresenter{}.PresentComparison(cmp, r.out)
	fmt.Fprintln(r.out)
}

// cmdList handles the "list" command.
func (r *REPL) cmdList() {
	fmt.Fprintf(r.out, "\n%sAvailable strategies:%s\n", ui.ColorBold(), ui.ColorReset())
	for _, key := range r.factory.List() {
		calc, err := r.factory.Get(key)
		if err != nil {
			continue
		}
		marker := "  "
		if key == r.currentAlgo {
			marker = ui.ColorGreen() + "► " + ui.ColorReset()
		}
		fmt.Fprintf(r.out, "%s%s%-10s%s - %s\n", marker, ui.ColorYellow(), key, ui.ColorReset(), calc.Name())
	}
	marker := "  "
	if r.currentAlgo == "all" {
		marker = ui.ColorGreen() + "► " + ui.ColorReset()
	}
	fmt.Fprintf(r.out, "%s%s%-10s%s - every strategy in one duel\n", marker, ui.ColorYellow(), "all", ui.ColorReset())
	fmt.Fprintln(r.out)
}

// cmdStatus displays current REPL configuration.
func (r *REPL) cmdStatus() {
	fmt.Fprintf(r.out, "\n%sCurrent configuration:%s\n", ui.ColorBold(), ui.ColorReset())
	inputStr := "not set"
	if r.currentN > 0 {
		inputStr = format.FormatNumberString(strconv.FormatUint(r.currentN, 10))
	}
	fmt.Fprintf(r.out, "  Input (n): %s%s%s\n", ui.ColorCyan(), inputStr, ui.ColorReset())
	fmt.Fprintf(r.out, "  Strategy:  %s%s%s\n", ui.ColorCyan(), r.currentAlgo, ui.ColorReset())
	timeoutStr := "none"
	if r.config.Timeout > 0 {
		timeoutStr = r.config.Timeout.String()
	}
	fmt.Fprintf(r.out, "  Timeout:   %s%s%s\n", ui.ColorCyan(), timeoutStr, ui.ColorReset())
	fmt.Fprintf(r.out, "  Repeat:    %sbest of %d%s\n", ui.ColorCyan(), r.config.Repeat, ui.ColorReset())
	fmt.Fprintln(r.out)
}
