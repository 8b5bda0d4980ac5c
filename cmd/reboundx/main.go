package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"math"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/Gianuzzi/reboundx/internal/analysis"
	"github.com/Gianuzzi/reboundx/internal/config"
	"github.com/Gianuzzi/reboundx/internal/kozai"
	"github.com/Gianuzzi/reboundx/internal/viz"
)

var (
	configFile    string
	preset        string
	steps         int
	intervalYears float64
	maxYears      float64
	output        string
	progressEvery int
	live          bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "reboundx",
		Short: "hierarchical triple simulation with spin/tidal evolution",
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a simulation",
		RunE:  runSimulation,
	}
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	runCmd.Flags().IntVar(&steps, "steps", 0, "macro-step count")
	runCmd.Flags().Float64Var(&intervalYears, "interval", 0, "macro-step size in years")
	runCmd.Flags().Float64Var(&maxYears, "max-years", 0, "stop after this much simulation time")
	runCmd.Flags().StringVar(&output, "output", "", "output file path")
	runCmd.Flags().IntVar(&progressEvery, "progress-every", 0, "progress line cadence in macro-steps")
	runCmd.Flags().BoolVar(&live, "live", false, "show live terminal view")

	plotCmd := &cobra.Command{
		Use:   "plot [file] [column]",
		Short: "plot one column of an output file",
		Args:  cobra.ExactArgs(2),
		RunE:  plotColumn,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [file] [column]",
		Short: "measure the dominant oscillation period of a column",
		Args:  cobra.ExactArgs(2),
		RunE:  analyzeColumn,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range config.ListPresets() {
				fmt.Println(name)
			}
		},
	}

	rootCmd.AddCommand(runCmd, plotCmd, analyzeCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}
	if configFile != "" {
		var err error
		cfg, err = config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	// CLI flags override preset and file.
	if cmd.Flags().Changed("steps") {
		cfg.Run.Steps = steps
	}
	if cmd.Flags().Changed("interval") {
		cfg.Run.IntervalYears = intervalYears
	}
	if cmd.Flags().Changed("max-years") {
		cfg.Run.MaxYears = maxYears
	}
	if cmd.Flags().Changed("output") {
		cfg.Run.Output = output
	}
	if cmd.Flags().Changed("progress-every") {
		cfg.Run.ProgressEvery = progressEvery
	}
	return cfg, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	sys, err := kozai.Build(cfg)
	if err != nil {
		return err
	}

	rec, err := kozai.NewRecorder(cfg.Run.Output)
	if err != nil {
		return err
	}
	defer rec.Close()

	term := kozai.Termination{MaxSteps: cfg.Run.Steps, MaxTime: cfg.Run.MaxTime()}
	driver := kozai.NewDriver(sys, rec, cfg.Run.Interval(), term, log)
	driver.SetProgressEvery(cfg.Run.ProgressEvery)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	start := time.Now()

	if live {
		feed := viz.NewFeed()
		driver.AddObserver(feed)

		errCh := make(chan error, 1)
		go func() {
			errCh <- driver.Run(ctx)
			feed.Finish()
		}()

		p := tea.NewProgram(viz.NewModel(feed))
		if _, err := p.Run(); err != nil {
			return err
		}
		stop() // view closed: stop the driver at the next boundary
		err = <-errCh
	} else {
		err = driver.Run(ctx)
	}

	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	log.Info().
		Str("output", cfg.Run.Output).
		Int("rows", rec.Rows()).
		Dur("elapsed", time.Since(start)).
		Msg("done")
	return nil
}

func readColumn(path, column string) ([]float64, []float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(rows) < 2 {
		return nil, nil, fmt.Errorf("no data rows in %s", path)
	}

	col := -1
	for i, name := range rows[0] {
		if name == column {
			col = i
			break
		}
	}
	if col < 0 {
		return nil, nil, fmt.Errorf("unknown column %q (header: %v)", column, rows[0])
	}

	data := make([]float64, 0, len(rows)-1)
	times := make([]float64, 0, len(rows)-1)
	for _, row := range rows[1:] {
		v, err := strconv.ParseFloat(row[col], 64)
		if err != nil || math.IsNaN(v) {
			continue // NaN sentinels and malformed rows are skipped
		}
		t, err := strconv.ParseFloat(row[0], 64)
		if err != nil {
			continue
		}
		data = append(data, v)
		times = append(times, t)
	}
	if len(data) == 0 {
		return nil, nil, fmt.Errorf("column %q has no finite values", column)
	}
	return data, times, nil
}

func plotColumn(cmd *cobra.Command, args []string) error {
	data, _, err := readColumn(args[0], args[1])
	if err != nil {
		return err
	}

	fmt.Println(asciigraph.Plot(data,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("%s vs step", args[1])),
	))
	return nil
}

func analyzeColumn(cmd *cobra.Command, args []string) error {
	data, times, err := readColumn(args[0], args[1])
	if err != nil {
		return err
	}
	if len(times) < 4 {
		return fmt.Errorf("need at least 4 samples, got %d", len(times))
	}

	// The t column is years at fixed macro-step spacing.
	dt := (times[len(times)-1] - times[0]) / float64(len(times)-1)
	if dt <= 0 {
		return fmt.Errorf("non-increasing time column")
	}

	ps := analysis.PowerSpectrum(data)
	if len(ps) > 1 {
		fmt.Println(asciigraph.Plot(ps[1:],
			asciigraph.Height(15),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("%s power spectrum", args[1])),
		))
	}

	period := analysis.DominantPeriod(data, dt)
	if period == 0 {
		fmt.Printf("%s: no dominant oscillation found\n", args[1])
		return nil
	}
	fmt.Printf("%s: dominant period %.1f yr (%d samples, %.1f yr spacing)\n",
		args[1], period, len(data), dt)
	return nil
}
