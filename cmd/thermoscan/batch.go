package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/thermoscan/internal/automation"
	"github.com/san-kum/thermoscan/internal/experiment"
	"github.com/san-kum/thermoscan/internal/export"
	"github.com/san-kum/thermoscan/internal/game"
	"github.com/san-kum/thermoscan/internal/storage"
	"github.com/san-kum/thermoscan/internal/viz"
)

func runScenario(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return fmt.Errorf("failed to load scenario: %w", err)
	}

	st := storage.New(cfg.DataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("scenario %s: %d games\n", sc.Name, len(sc.Steps))
	runner := automation.NewRunner(experiment.NewRegistry(), workerCount(cfg))
	results, runErr := runner.RunScenario(ctx, sc)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tSIZE\tPOLICY\tACCURACY\tRUN")
	for i, res := range results {
		step := sc.Steps[i]
		runID := ""
		if step.SaveAs != "" {
			runID, err = st.Save(storage.RunMetadata{
				ID:        step.SaveAs,
				Size:      step.Size,
				Influence: step.Influence,
				Gain:      step.Gain,
				Policy:    step.Policy,
				Seed:      step.Seed,
				Accuracy:  res.Accuracy,
				Scored:    res.Scored,
				Metrics:   res.Metrics,
			}, storage.MovesFromSnapshot(res.Snapshot))
			if err != nil {
				return err
			}
		}
		fmt.Fprintf(w, "%d\t%d\t%s\t%s\t%s\n", i+1, step.Size, step.Policy, formatAccuracy(res.Accuracy, res.Scored), runID)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return runErr
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	registry := experiment.NewRegistry()
	if len(policies) == 0 {
		policies = registry.ListPolicies()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := automation.NewRunner(registry, workerCount(cfg))
	results, err := runner.RunSweep(ctx, &automation.Sweep{
		Sizes:     sizesFlag,
		Policies:  policies,
		Influence: cfg.Influence.Name,
		Gain:      cfg.Influence.Gain,
		Seed:      cfg.Autoplay.Seed,
	})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SIZE\tPOLICY\tACCURACY\tPEAK\tMELT_FRACTION")
	for _, r := range results {
		fmt.Fprintf(w, "%d\t%s\t%s\t%.1f\t%.4f\n",
			r.Size, r.Policy, formatAccuracy(r.Accuracy, r.Scored), r.Metrics["peak"], r.Metrics["melt_fraction"])
	}
	return w.Flush()
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := automation.NewRunner(experiment.NewRegistry(), workerCount(cfg))
	results, err := runner.RunMonteCarlo(ctx, &automation.MonteCarloConfig{
		Size:      cfg.Size,
		Influence: cfg.Influence.Name,
		Gain:      cfg.Influence.Gain,
		Trials:    trials,
		Seed:      cfg.Autoplay.Seed,
	})
	if err != nil {
		return err
	}

	stats := automation.MonteCarloStats(results)
	fmt.Printf("random policy on %dx%d, %d games\n\n", cfg.Size, cfg.Size, len(results))
	fmt.Printf("  scored:   %d\n", stats.Count)
	fmt.Printf("  unscored: %d\n", stats.Unscored)
	fmt.Printf("  mean:     %.2f%%\n", stats.Mean)
	fmt.Printf("  stddev:   %.2f\n", stats.StdDev)
	fmt.Printf("  min:      %.2f%%\n", stats.Min)
	fmt.Printf("  median:   %.2f%%\n", stats.Median)
	fmt.Printf("  max:      %.2f%%\n", stats.Max)

	acc := make([]float64, 0, len(results))
	for _, r := range results {
		if r.Scored {
			acc = append(acc, r.Accuracy)
		}
	}
	if len(acc) > 1 {
		fmt.Println()
		fmt.Println(viz.Plot(acc, 80, 8, "accuracy per seed (%)"))
	}
	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	runID := args[0]

	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	st := storage.New(cfg.DataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	moves, err := st.LoadMoves(runID)
	if err != nil {
		return err
	}

	g := meta.Gain
	if g == 0 {
		g = 1
	}
	name := meta.Influence
	if name == "" {
		name = cfg.Influence.Name
	}
	inf, err := experiment.NewRegistry().GetInfluence(name, g)
	if err != nil {
		return err
	}
	eng, err := game.NewEngine(meta.Size, game.WithInfluence(inf), game.WithWorkers(workerCount(cfg)))
	if err != nil {
		return err
	}

	order := make([]int, len(moves))
	expert := make([]float64, len(moves))
	player := make([]float64, len(moves))
	for i, m := range moves {
		order[i] = m.Player
		expert[i] = m.RExpert
		player[i] = m.RPlayer
	}
	s, err := game.Replay(eng, order)
	if err != nil {
		return fmt.Errorf("replay %s: %w", runID, err)
	}

	viz.SetTheme(theme)
	labels := viz.IslandLabels(meta.Size, nil, "")
	svg := export.HeatMapSVG(s.IslandMap(), viz.CurrentTheme, cellSize, labels)

	path := outFile
	if path == "" {
		path = runID + ".svg"
	}
	if err := os.WriteFile(path, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("heat map written to %s\n", path)

	p := eng.Params()
	field := export.CanvasToSVG(viz.FieldCanvas(s.FieldMap(), p.TMelt, p.N), 4)
	fieldPath := strings.TrimSuffix(path, ".svg") + "_field.svg"
	if err := os.WriteFile(fieldPath, []byte(field), 0644); err != nil {
		return err
	}
	fmt.Printf("cells above melt written to %s\n", fieldPath)

	if hist := export.HistoriesToSVG(expert, player, 640, 240); hist != "" {
		histPath := strings.TrimSuffix(path, ".svg") + "_scores.svg"
		if err := os.WriteFile(histPath, []byte(hist), 0644); err != nil {
			return err
		}
		fmt.Printf("score histories written to %s\n", histPath)
	}
	return nil
}

func formatAccuracy(acc float64, scored bool) string {
	if !scored {
		return "undefined"
	}
	return fmt.Sprintf("%.2f%%", acc)
}
