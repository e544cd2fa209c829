// Package main provides the CLI entrypoint for natodrill.
package main

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"

	"github.com/verte-zerg/natodrill/internal/clock"
	"github.com/verte-zerg/natodrill/internal/config"
	"github.com/verte-zerg/natodrill/internal/drill"
	"github.com/verte-zerg/natodrill/internal/generator"
	"github.com/verte-zerg/natodrill/internal/model"
	"github.com/verte-zerg/natodrill/internal/prompt"
	"github.com/verte-zerg/natodrill/internal/stats"
)

var (
	drillTimeLimit float64
	drillPlain     bool
	verbose        bool

	logger = zap.NewNop()
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:               "natodrill",
		Short:             "NATO phonetic alphabet drill",
		Args:              cobra.NoArgs,
		SilenceUsage:      true,
		SilenceErrors:     false,
		PersistentPreRunE: initLogger,
		PersistentPostRun: syncLogger,
		RunE:              runDrillCmd,
	}

	rootCmd.Flags().Float64Var(&drillTimeLimit, "time-limit", model.DefaultTimeLimit.Seconds(), "seconds per prompt before a correct answer is flagged as slow")
	rootCmd.Flags().BoolVar(&drillPlain, "plain", false, "read answers as plain lines even on a terminal")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "log diagnostics to stderr")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newCodesCmd())

	return rootCmd
}

func initLogger(_ *cobra.Command, _ []string) error {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	built, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger = built
	return nil
}

func syncLogger(_ *cobra.Command, _ []string) {
	// Best-effort flush of stderr diagnostics.
	_ = logger.Sync()
}

func runDrillCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyFloatConfig(cmd, "time-limit", &drillTimeLimit, fileCfg.Drill.TimeLimit)
	applyBoolConfig(cmd, "plain", &drillPlain, fileCfg.Drill.Plain)

	if err := validateTimeLimit(drillTimeLimit); err != nil {
		return err
	}
	cfg := model.Config{
		TimeLimit: secondsToDuration(drillTimeLimit),
		Plain:     drillPlain,
	}
	logger.Debug("config resolved",
		zap.Duration("time_limit", cfg.TimeLimit),
		zap.Bool("plain", cfg.Plain))

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	prompter, closePrompter := newPrompter(cfg, os.Stdin, out)
	defer closePrompter()

	return runDrill(ctx, prompter, out, generator.New().Shuffled())
}

func runDrill(ctx context.Context, prompter drill.Prompter, out io.Writer, queue []string) error {
	session := drill.NewSession(queue, prompter, out, clock.System{}, logger)
	if _, err := session.Run(ctx); err != nil {
		return fmt.Errorf("drill failed: %w", err)
	}
	return nil
}

func newPrompter(cfg model.Config, in *os.File, out io.Writer) (drill.Prompter, func()) {
	if !cfg.Plain && term.IsTerminal(int(in.Fd())) && isTerminal(out) {
		logger.Debug("using interactive prompt")
		width := prompt.InputWidth(generator.Codes())
		return prompt.NewTeaReader(in, out, cfg.TimeLimit, clock.System{}, width), func() {}
	}
	logger.Debug("using line prompt")
	reader := prompt.NewLineReader(in, out, cfg.TimeLimit, clock.System{})
	return reader, func() {
		if err := reader.Close(); err != nil {
			logger.Warn("failed to close prompt reader", zap.Error(err))
		}
	}
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := ensureConfigFile(path); err != nil {
		return err
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	logger.Debug("opening config", zap.String("path", path), zap.String("editor", parts[0]))
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func ensureConfigFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}
	return nil
}

func newCodesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "codes",
		Short: "List the phonetic alphabet",
		Args:  cobra.NoArgs,
		RunE:  runCodesCmd,
	}
}

func runCodesCmd(cmd *cobra.Command, _ []string) error {
	codes := generator.Codes()
	rows := make([][]string, 0, len(codes))
	for _, code := range codes {
		rows = append(rows, []string{generator.Letter(code), code})
	}
	for _, line := range stats.FormatColumns([]string{"Letter", "Code"}, rows) {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# natodrill configuration
# Uncomment a value to enable it. CLI flags override config values.

[drill]
# time-limit = %.1f       # Seconds per prompt before a correct answer is flagged as slow
# plain = false           # Read answers as plain lines even on a terminal
`,
		model.DefaultTimeLimit.Seconds(),
	)
}

// maxTimeLimitSeconds is the first value whose duration overflows int64 nanoseconds.
const maxTimeLimitSeconds = float64(math.MaxInt64) / float64(time.Second)

func validateTimeLimit(seconds float64) error {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds <= 0 {
		return fmt.Errorf("--time-limit must be > 0")
	}
	if seconds >= maxTimeLimitSeconds {
		return fmt.Errorf("--time-limit must be < %.0f", maxTimeLimitSeconds)
	}
	return nil
}

func secondsToDuration(seconds float64) time.Duration {
	nanos := seconds * float64(time.Second)
	if nanos >= float64(math.MaxInt64) {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(nanos)
}
