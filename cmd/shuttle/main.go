// Package main provides the CLI entrypoint for shuttle.
package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/shuttle/internal/config"
	"github.com/verte-zerg/shuttle/internal/drill"
	"github.com/verte-zerg/shuttle/internal/model"
	"github.com/verte-zerg/shuttle/internal/picker"
	"github.com/verte-zerg/shuttle/internal/stats"
	"github.com/verte-zerg/shuttle/internal/statsui"
	"github.com/verte-zerg/shuttle/internal/store"
	"github.com/verte-zerg/shuttle/internal/tui"
)

const (
	defaultSets        = 3
	defaultBirds       = 10
	defaultRecovery    = 1.0
	defaultPreview     = 0.8
	defaultSetBreak    = 30.0
	defaultCorners     = "all"
	defaultCurveWindow = 20
)

var (
	drillSets     int
	drillBirds    int
	drillRecovery float64
	drillPreview  float64
	drillSetBreak float64
	drillCorners  string
	drillSound    bool
	drillSeed     uint64

	statsSince       string
	statsLast        int
	statsCurveWindow int
	statsPlain       bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "shuttle",
		Short:         "TUI footwork drill trainer",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runDrillCmd,
	}

	rootCmd.Flags().IntVar(&drillSets, "sets", defaultSets, "number of sets")
	rootCmd.Flags().IntVar(&drillBirds, "birds", defaultBirds, "birds per set")
	rootCmd.Flags().Float64Var(&drillRecovery, "recovery", defaultRecovery, "seconds between preview end and next pick")
	rootCmd.Flags().Float64Var(&drillPreview, "preview", defaultPreview, "seconds a picked corner stays lit")
	rootCmd.Flags().Float64Var(&drillSetBreak, "break", defaultSetBreak, "rest seconds between sets")
	rootCmd.Flags().StringVar(&drillCorners, "corners", defaultCorners, "enabled corners, e.g. 1,2,5 or all")
	rootCmd.Flags().BoolVar(&drillSound, "sound", true, "ring the terminal bell on each pick")
	rootCmd.Flags().Uint64Var(&drillSeed, "seed", 0, "random seed for reproducible drills (0 = random)")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newStatsCmd())

	return rootCmd
}

func runDrillCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyIntConfig(cmd, "sets", &drillSets, fileCfg.Drill.Sets)
	applyIntConfig(cmd, "birds", &drillBirds, fileCfg.Drill.Birds)
	applyFloatConfig(cmd, "recovery", &drillRecovery, fileCfg.Drill.Recovery)
	applyFloatConfig(cmd, "preview", &drillPreview, fileCfg.Drill.Preview)
	applyFloatConfig(cmd, "break", &drillSetBreak, fileCfg.Drill.SetBreak)
	applyStringConfig(cmd, "corners", &drillCorners, fileCfg.Drill.Corners)
	applyBoolConfig(cmd, "sound", &drillSound, fileCfg.Drill.Sound)

	corners, err := config.ParseCorners(drillCorners)
	if err != nil {
		return fmt.Errorf("invalid --corners: %w", err)
	}
	cfg := model.DrillConfig{
		Sets:         drillSets,
		BirdsPerSet:  drillBirds,
		RecoverySec:  drillRecovery,
		PreviewSec:   drillPreview,
		SetBreakSec:  drillSetBreak,
		Corners:      corners,
		SoundEnabled: drillSound,
	}
	if err := drill.ValidateConfig(cfg); err != nil {
		return err
	}

	storePath := config.DefaultDBPath()
	st, err := store.Open(storePath)
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	var rng picker.RandomSource
	if drillSeed != 0 {
		rng = picker.NewSeededSource(drillSeed)
	}

	m := tui.NewModel(cfg, st, rng)
	program := tea.NewProgram(m, tea.WithAltScreen())
	m.Attach(program)
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
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

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show drill stats",
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N drills")
	cmd.Flags().IntVar(&statsCurveWindow, "curve-window", defaultCurveWindow, "moving average window")
	cmd.Flags().BoolVar(&statsPlain, "plain", false, "print the report to stdout instead of the TUI")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	var sinceTime *time.Time
	if statsSince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", statsSince, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}

	cfg := model.StatsConfig{
		Since:       sinceTime,
		Last:        statsLast,
		CurveWindow: statsCurveWindow,
	}

	storePath := config.DefaultDBPath()
	st, err := store.Open(storePath)
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	if statsPlain {
		return printStatsReport(cmd, st, cfg)
	}

	m := statsui.NewModel(st, cfg)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func printStatsReport(cmd *cobra.Command, st *store.Store, cfg model.StatsConfig) error {
	report, err := stats.BuildReport(cmd.Context(), st, cfg)
	if err != nil {
		return fmt.Errorf("failed to build report: %w", err)
	}
	if err := stats.RenderSummary(os.Stdout, report.Drills); err != nil {
		return err
	}
	if err := stats.RenderCornerTable(os.Stdout, report.CornersAll); err != nil {
		return err
	}
	return stats.RenderPaceCurve(os.Stdout, report.Drills, cfg.CurveWindow, 0, 0)
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
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
	return fmt.Sprintf(`# shuttle configuration
# Uncomment a value to enable it. CLI flags override config values.

[drill]
# sets = %d         # Number of sets
# birds = %d       # Birds per set
# recovery = %.1f   # Seconds between preview end and next pick (%.1f-%.1f)
# preview = %.1f    # Seconds a picked corner stays lit
# break = %.0f      # Rest seconds between sets
# corners = %q    # Enabled corners, e.g. "1,2,5"
# sound = true     # Ring the terminal bell on each pick
`,
		defaultSets,
		defaultBirds,
		defaultRecovery,
		drill.MinRecoverySec,
		drill.MaxRecoverySec,
		defaultPreview,
		defaultSetBreak,
		defaultCorners,
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
