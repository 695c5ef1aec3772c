package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/talis-fb/RequestTUI/internal/app"
	"github.com/talis-fb/RequestTUI/internal/cli"
	"github.com/talis-fb/RequestTUI/internal/commands"
	"github.com/talis-fb/RequestTUI/internal/config"
	"github.com/talis-fb/RequestTUI/internal/engine"
	"github.com/talis-fb/RequestTUI/internal/executor"
	"github.com/talis-fb/RequestTUI/internal/history"
	"github.com/talis-fb/RequestTUI/internal/importer"
	"github.com/talis-fb/RequestTUI/internal/input"
	"github.com/talis-fb/RequestTUI/internal/keybinds"
	"github.com/talis-fb/RequestTUI/internal/logging"
	"github.com/talis-fb/RequestTUI/internal/storage"
	"github.com/talis-fb/RequestTUI/internal/store"
	"github.com/talis-fb/RequestTUI/internal/stresstest"
	"github.com/talis-fb/RequestTUI/internal/tui"
	updates "github.com/talis-fb/RequestTUI/internal/version"
)

var (
	version = "0.1.0"
)

const (
	actionQueueSize = 16
	rawKeyQueueSize = 64

	updateCheckTimeout = 5 * time.Second
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "requesttui",
	Short: "RequestTUI - HTTP requests from the terminal",
	Long: `RequestTUI keeps a collection of HTTP requests and runs them from a
keyboard-driven terminal interface.

Run without arguments to start the TUI. Keys are vim-like and can be
remapped in keymap.yaml inside the config directory.

Examples:
  requesttui                         # Start interactive TUI
  requesttui run users               # Execute the request named "users"
  requesttui run users -o json       # Print the response as JSON
  requesttui keys                    # Show the effective key bindings
  requesttui history -n 5            # Show the last 5 executions
  requesttui import api.http         # Add requests from a .http file
  requesttui bench users -n 500      # Load test a request`,
	Version:       version,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Initialize(flagConfigDir); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI(cmd.Context())
	},
}

var runCmd = &cobra.Command{
	Use:   "run [name]",
	Short: "Execute a saved request without the TUI",
	Long: `Execute a saved request by id or name and print the response.

Without a name, an interactive picker lists the saved requests.
The exit status is non-zero when the request fails locally or the server
answers with a 4xx or 5xx status.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := ""
		if len(args) > 0 {
			name = args[0]
		}
		return runCLI(cmd.Context(), name)
	},
}

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Print the effective key bindings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runKeys(cmd)
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent request executions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runHistory(cmd)
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Add requests from a .http file or a HAR capture",
	Long: `Append the requests found in a file to the saved collection.

Files ending in .har are read as browser HAR captures; cookies and
credentials are dropped unless --keep-sensitive is given. Any other file is
read as a .http file with requests separated by ### lines.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := importFile(storage.NewAppFile(config.RequestsFile), args[0], importer.HAROptions{
			Filter:        flagURLFilter,
			KeepSensitive: flagKeepSensitive,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Imported %d requests into %s\n", n, config.RequestsFile)
		return nil
	},
}

var benchCmd = &cobra.Command{
	Use:   "bench <name>",
	Short: "Load test a saved request",
	Long: `Send a saved request many times over a pool of concurrent workers and
print latency percentiles and status code counts.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBench(cmd, args[0])
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version, optionally checking for a newer release",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runVersion(cmd)
	},
}

// Flags for root command (inherited by subcommands)
var (
	flagConfigDir string
	flagLogLevel  string
)

// Flags for run
var (
	flagOutput string
	flagSave   string
	flagFull   bool
	flagFilter string
)

// Flags for keys
var flagMarkdown bool

// Flags for history
var (
	flagLimit   int
	flagRequest string
	flagClear   bool
	flagStats   bool
)

// Flags for import
var (
	flagURLFilter     string
	flagKeepSensitive bool
)

// Flags for bench
var (
	flagRequests     int
	flagConcurrency  int
	flagRampUp       time.Duration
	flagDuration     time.Duration
	flagExpectStatus int
)

// Flags for version
var flagCheck bool

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "Configuration directory (default ~/.requesttui)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level (debug/info/warn/error), overrides settings.yaml")

	runCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "Output format (json/yaml/text/body)")
	runCmd.Flags().StringVarP(&flagSave, "save", "s", "", "Save response to file")
	runCmd.Flags().BoolVarP(&flagFull, "full", "f", false, "Show full output (status, headers, body)")
	runCmd.Flags().StringVar(&flagFilter, "filter", "", "JMESPath expression applied to the response body")

	keysCmd.Flags().BoolVar(&flagMarkdown, "markdown", false, "Print the bindings as the markdown help document")

	historyCmd.Flags().IntVarP(&flagLimit, "limit", "n", 20, "Number of entries to show")
	historyCmd.Flags().StringVarP(&flagRequest, "request", "r", "", "Only show executions of this request id")
	historyCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete all history entries")
	historyCmd.Flags().BoolVar(&flagStats, "stats", false, "Show per-request statistics")

	importCmd.Flags().StringVar(&flagURLFilter, "url-filter", "", "Only import HAR entries whose URL contains this text")
	importCmd.Flags().BoolVar(&flagKeepSensitive, "keep-sensitive", false, "Keep cookies and credentials from HAR entries")

	benchCmd.Flags().IntVarP(&flagRequests, "requests", "n", 100, "Total number of requests")
	benchCmd.Flags().IntVarP(&flagConcurrency, "concurrency", "c", 10, "Number of concurrent workers")
	benchCmd.Flags().DurationVar(&flagRampUp, "ramp-up", 0, "Spread request starts over this duration")
	benchCmd.Flags().DurationVarP(&flagDuration, "duration", "d", 0, "Stop after this duration (0 = until all requests are sent)")
	benchCmd.Flags().IntVar(&flagExpectStatus, "expect-status", 0, "Count any other status as unexpected (0 = any status below 400)")

	versionCmd.Flags().BoolVar(&flagCheck, "check", false, "Check for a newer release")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(keysCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(benchCmd)
	rootCmd.AddCommand(versionCmd)
}

// setup loads settings and opens the log file
func setup() (config.Settings, *logging.Logger, error) {
	settings, err := config.LoadSettings(config.SettingsFile)
	if err != nil {
		return settings, nil, fmt.Errorf("failed to load settings: %w", err)
	}
	if flagLogLevel != "" {
		settings.LogLevel = flagLogLevel
	}

	log, err := logging.New(settings.LogLevel, config.LogFile)
	if err != nil {
		return settings, nil, err
	}
	return settings, log, nil
}

// openHistory opens the history database when it is enabled. Failing to
// open it is logged and history is skipped.
func openHistory(settings config.Settings, log *logging.Logger) *history.Manager {
	if !settings.HistoryEnabled {
		return nil
	}
	hist, err := history.NewManager(config.HistoryDB)
	if err != nil {
		log.Error(err, "history disabled", "path", config.HistoryDB)
		return nil
	}
	return hist
}

// runTUI starts the interactive TUI
func runTUI(parent context.Context) error {
	settings, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Close()

	registry, err := keybinds.LoadOrDefault(config.KeymapFile)
	if err != nil {
		return err
	}
	tree, err := registry.Compile()
	if err != nil {
		return fmt.Errorf("failed to compile keymap: %w", err)
	}

	file := storage.NewAppFile(config.RequestsFile)
	reqs, err := storage.LoadRequests(file)
	if err != nil {
		return fmt.Errorf("failed to load requests: %w", err)
	}
	if len(reqs) == 0 {
		reqs = storage.SampleRequests()
	}
	state := app.NewState(store.New(reqs))

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(logging.WithLogger(ctx, log.Logger))
	defer cancel()

	opts := []commands.Option{commands.WithLogger(log.WithName("commands"))}
	if hist := openHistory(settings, log); hist != nil {
		defer hist.Close()
		opts = append(opts, commands.WithRecorder(hist))
	}
	exec := commands.NewExecutor(ctx, executor.New(settings.RequestTimeout), file, opts...)

	lipgloss.SetColorProfile(termenv.Ascii)
	term, err := tui.NewTerminal(tui.NewView(registry))
	if err != nil {
		return err
	}

	actions := input.NewQueue[keybinds.Action](actionQueueSize)
	rawKeys := input.NewQueue[keybinds.Key](rawKeyQueueSize)
	cycle := input.NewCycle(term, keybinds.NewResolver(tree), actions, rawKeys, log.WithName("input"))
	render := engine.NewRenderTask(term, settings.RenderInterval, log.WithName("render"))

	log.Info("starting", "version", version, "requests", len(reqs), "configDir", config.ConfigDir)
	loop := engine.New(engine.Config{
		State:    state,
		Executor: exec,
		Cycle:    cycle,
		Actions:  actions,
		RawKeys:  rawKeys,
		Render:   render,
		Interval: settings.RenderInterval,
		Log:      log.WithName("loop"),
	})
	runErr := loop.Run(ctx)

	// in-flight requests are abandoned on exit
	cancel()
	exec.Wait()
	return runErr
}

// runCLI executes a saved request in CLI mode
func runCLI(parent context.Context, name string) error {
	settings, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Close()

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := cli.RunOptions{
		Name:         name,
		OutputFormat: flagOutput,
		SavePath:     flagSave,
		ShowFull:     flagFull,
		Filter:       flagFilter,
		Interactive:  isTerminal(os.Stdin),
		Requests:     storage.NewAppFile(config.RequestsFile),
		Client:       executor.New(settings.RequestTimeout),
		Log:          log.WithName("cli"),
	}
	if opts.OutputFormat == "" && !isTerminal(os.Stdout) {
		// Output is being piped, just show body
		opts.OutputFormat = "body"
	}
	if hist := openHistory(settings, log); hist != nil {
		defer hist.Close()
		opts.Recorder = hist
	}
	return cli.Run(ctx, opts)
}

// runKeys prints the effective keymap
func runKeys(cmd *cobra.Command) error {
	registry, err := keybinds.LoadOrDefault(config.KeymapFile)
	if err != nil {
		return err
	}
	if _, err := registry.Compile(); err != nil {
		return fmt.Errorf("failed to compile keymap: %w", err)
	}

	out := cmd.OutOrStdout()
	if flagMarkdown {
		fmt.Fprint(out, tui.HelpMarkdown(registry))
		return nil
	}

	if result := keybinds.NewValidator().ValidateRegistry(registry); result.HasWarnings() {
		fmt.Fprintln(cmd.ErrOrStderr(), result.String())
	}
	fmt.Fprintln(out, keysTable(registry))
	return nil
}

// runHistory lists or clears recorded executions
func runHistory(cmd *cobra.Command) error {
	if flagLimit < 1 {
		return fmt.Errorf("--limit: %w, got %d", history.ErrInvalidLimit, flagLimit)
	}
	hist, err := history.NewManager(config.HistoryDB)
	if err != nil {
		return err
	}
	defer hist.Close()

	out := cmd.OutOrStdout()
	if flagClear {
		count, err := hist.GetCount()
		if err != nil {
			return err
		}
		if err := hist.Clear(); err != nil {
			return err
		}
		fmt.Fprintf(out, "Deleted %d entries\n", count)
		return nil
	}

	if flagStats {
		stats, err := hist.Stats()
		if err != nil {
			return err
		}
		if len(stats) == 0 {
			fmt.Fprintln(out, "No history yet")
			return nil
		}
		fmt.Fprintln(out, statsTable(stats))
		return nil
	}

	var entries []history.Entry
	if flagRequest != "" {
		entries, err = hist.ForRequest(flagRequest, flagLimit)
	} else {
		entries, err = hist.Recent(flagLimit)
	}
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(out, "No history yet")
		return nil
	}
	fmt.Fprintln(out, historyTable(entries))
	return nil
}

// runBench load tests one saved request
func runBench(cmd *cobra.Command, name string) error {
	settings, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Close()

	reqs, err := storage.LoadRequests(storage.NewAppFile(config.RequestsFile))
	if err != nil {
		return fmt.Errorf("failed to load requests: %w", err)
	}
	req, err := cli.FindRequest(reqs, name)
	if err != nil {
		return err
	}

	runner, err := stresstest.NewRunner(executor.New(settings.RequestTimeout), stresstest.Config{
		ConcurrentConns: flagConcurrency,
		TotalRequests:   flagRequests,
		RampUp:          flagRampUp,
		Duration:        flagDuration,
		ExpectStatus:    flagExpectStatus,
	}, log.WithName("bench"))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(cmd.ErrOrStderr(), "Sending %d requests to %s %s with %d workers...\n",
		flagRequests, req.Method, req.URL, flagConcurrency)
	stats, runErr := runner.Run(ctx, req)
	fmt.Fprintln(cmd.OutOrStdout(), benchTable(stats))
	return runErr
}

// runVersion prints the version and, with --check, the latest release
func runVersion(cmd *cobra.Command) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "requesttui %s\n", version)
	if !flagCheck {
		return nil
	}

	checker := updates.NewChecker(executor.New(updateCheckTimeout), updates.ReleasesURL)
	release, newer, err := checker.Check(cmd.Context(), version)
	if err != nil {
		return fmt.Errorf("update check failed: %w", err)
	}
	if newer {
		fmt.Fprintf(out, "A newer version is available: %s (%s)\n", release.Version(), release.HTMLURL)
	} else {
		fmt.Fprintln(out, "You are running the latest version")
	}
	return nil
}

// isTerminal reports whether f is a character device
func isTerminal(f *os.File) bool {
	stat, err := f.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) != 0
}
