package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strconv"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/thermoscan/internal/config"
	"github.com/san-kum/thermoscan/internal/experiment"
	"github.com/san-kum/thermoscan/internal/game"
	"github.com/san-kum/thermoscan/internal/repl"
	"github.com/san-kum/thermoscan/internal/server"
	"github.com/san-kum/thermoscan/internal/storage"
	"github.com/san-kum/thermoscan/internal/tui"
	"github.com/san-kum/thermoscan/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string
	size       int
	influence  string
	gain       float64
	workers    int
	logLevel   string

	addr      string
	seed      int64
	live      bool
	frameRate int
	outFile   string
	theme     string
	sizesFlag []int
	policies  []string
	trials    int
	cellSize  float64
)

// main registers the commands and runs the root command, which opens the
// game menu when no subcommand is given. It exits with status 1 on error.
func main() {
	rootCmd := &cobra.Command{
		Use:          "thermoscan",
		Short:        "island scan ordering game for powder-bed fusion",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(cmd, true)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", config.DefaultDataDir, "data directory")
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "use preset configuration")
	pf.IntVar(&size, "size", config.DefaultSize, "islands per side (3-10)")
	pf.StringVar(&influence, "influence", config.DefaultInfluence, "heat input model (diffused, block)")
	pf.Float64Var(&gain, "gain", config.DefaultGain, "heat input gain")
	pf.IntVar(&workers, "workers", 0, "goroutines used to build the model (0 = all cpus)")
	pf.StringVar(&logLevel, "log-level", config.DefaultLogLevel, "log level (debug, info, warn, error)")
	pf.StringVar(&theme, "theme", viz.ThemeFurnace.Name, "colour theme")

	playCmd := &cobra.Command{
		Use:   "play",
		Short: "play a game in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(cmd, false)
		},
	}

	replCmd := &cobra.Command{
		Use:   "repl",
		Short: "play a game from a command prompt",
		RunE:  runREPL,
	}

	autoCmd := &cobra.Command{
		Use:   "auto [policy]",
		Short: "play a full game with an autoplay policy and save it",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runAuto,
	}
	autoCmd.Flags().Int64Var(&seed, "seed", 0, "random seed (random policy)")
	autoCmd.Flags().BoolVar(&live, "live", false, "draw the heat map after each move")
	autoCmd.Flags().IntVar(&frameRate, "fps", 10, "frame rate for --live")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "serve the game over HTTP",
		RunE:  runServe,
	}
	serveCmd.Flags().StringVar(&addr, "addr", config.DefaultAddr, "listen address")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved games",
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "plot the score histories of a saved game",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a saved game to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tSIZE\tINFLUENCE\tPOLICY")
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", name, p.Size, p.Influence.Name, p.Autoplay.Policy)
			}
			return w.Flush()
		},
	}

	benchCmd := &cobra.Command{
		Use:   "bench [size]",
		Short: "time model construction and moves",
		Args:  cobra.MaximumNArgs(1),
		RunE:  benchEngine,
	}

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "play every game listed in a yaml scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "compare autoplay policies across sizes",
		RunE:  runSweep,
	}
	sweepCmd.Flags().IntSliceVar(&sizesFlag, "sizes", []int{3, 4, 5}, "sizes to play")
	sweepCmd.Flags().StringSliceVar(&policies, "policies", nil, "policies to play (default all)")

	monteCarloCmd := &cobra.Command{
		Use:   "montecarlo",
		Short: "accuracy statistics of the random policy over many seeds",
		RunE:  runMonteCarlo,
	}
	monteCarloCmd.Flags().IntVar(&trials, "trials", 50, "number of games")
	monteCarloCmd.Flags().Int64Var(&seed, "seed", 1, "first seed")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "replay a saved game and write its final heat map as svg",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default <run_id>.svg)")
	exportSVGCmd.Flags().Float64Var(&cellSize, "cell", 48, "island size in pixels")

	rootCmd.AddCommand(playCmd, replCmd, autoCmd, serveCmd, listCmd, showCmd, exportJSONCmd, presetsCmd, benchCmd,
		scenarioCmd, sweepCmd, monteCarloCmd, exportSVGCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runPlay(cmd *cobra.Command, menu bool) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	opts, err := engineOptions(cfg)
	if err != nil {
		return err
	}
	viz.SetTheme(theme)

	st := storage.New(cfg.DataDir)
	if err := st.Init(); err != nil {
		return err
	}

	gameSize := cfg.Size
	if menu && !cmd.Flags().Changed("size") && preset == "" && configFile == "" {
		gameSize = 0
	}
	return tui.RunGame(tui.Options{
		Size:       gameSize,
		EngineOpts: opts,
		Store:      st,
		Gain:       cfg.Influence.Gain,
	})
}

func runREPL(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	opts, err := engineOptions(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return err
	}

	fmt.Printf("building %dx%d model...\n", cfg.Size, cfg.Size)
	s, err := game.New(cfg.Size, opts...)
	if err != nil {
		return err
	}
	return repl.New(s, os.Stdout).Run(filepath.Join(cfg.DataDir, "history"))
}

func runAuto(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	policy := cfg.Autoplay.Policy
	if len(args) > 0 {
		policy = args[0]
	}

	st := storage.New(cfg.DataDir)
	if err := st.Init(); err != nil {
		return err
	}

	exp := experiment.New(experiment.Config{
		Size:      cfg.Size,
		Influence: cfg.Influence.Name,
		Gain:      cfg.Influence.Gain,
		Policy:    policy,
		Seed:      cfg.Autoplay.Seed,
		Workers:   workerCount(cfg),
	}, experiment.NewRegistry())

	start := time.Now()
	if err := exp.Setup(); err != nil {
		return err
	}
	slog.Debug("[ENGINE] built", "size", cfg.Size, "elapsed", time.Since(start))

	if live {
		r := tui.NewLiveRenderer(os.Stdout, frameRate)
		r.Start()
		defer r.Stop()
		exp.SetObserver(r.OnMove)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("playing %dx%d with %s policy...\n", cfg.Size, cfg.Size, policy)
	result, err := exp.Run(ctx)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	snap := result.Snapshot
	runID, err := st.Save(storage.RunMetadata{
		Size:      cfg.Size,
		Influence: cfg.Influence.Name,
		Gain:      cfg.Influence.Gain,
		Policy:    policy,
		Seed:      cfg.Autoplay.Seed,
		Accuracy:  result.Accuracy,
		Scored:    result.Scored,
		Metrics:   result.Metrics,
	}, storage.MovesFromSnapshot(snap))
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", snap.Step)
	fmt.Printf("accuracy: %s\n", formatAccuracy(result.Accuracy, result.Scored))
	fmt.Println("\nmetrics:")
	for name, val := range result.Metrics {
		fmt.Printf("  %s: %.6f\n", name, val)
	}
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	inf, err := experiment.NewRegistry().GetInfluence(cfg.Influence.Name, cfg.Influence.Gain)
	if err != nil {
		return err
	}

	st := storage.New(cfg.DataDir)
	if err := st.Init(); err != nil {
		return err
	}

	srv := server.New(server.Config{
		DefaultSize: cfg.Size,
		Influence:   inf,
		Gain:        cfg.Influence.Gain,
		Workers:     workerCount(cfg),
		IdleTimeout: cfg.Server.IdleTimeout,
		MaxSessions: cfg.Server.MaxSessions,
	}, st, slog.Default())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return srv.ListenAndServe(ctx, cfg.Server.Addr)
}

func listRuns(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	runs, err := storage.New(cfg.DataDir).List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSIZE\tTIME\tPOLICY\tINFLUENCE\tSTEPS\tACCURACY")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\t%d\t%s\n",
			run.ID,
			run.Size,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Policy,
			run.Influence,
			run.Steps,
			formatAccuracy(run.Accuracy, run.Scored),
		)
	}
	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
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
	if len(moves) == 0 {
		return fmt.Errorf("no moves to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("size: %dx%d  policy: %s  influence: %s\n", meta.Size, meta.Size, meta.Policy, meta.Influence)
	fmt.Printf("moves: %d\n\n", len(moves))

	expert := make([]float64, len(moves))
	player := make([]float64, len(moves))
	accuracy := make([]float64, len(moves))
	order := make([]string, len(moves))
	for i, m := range moves {
		expert[i] = m.RExpert
		player[i] = m.RPlayer
		accuracy[i] = m.Accuracy
		order[i] = strconv.Itoa(m.Player)
	}

	fmt.Println(viz.PlotHistories(expert, player, 80, 10, "deviation: expert (green) vs player (red)"))
	fmt.Println()
	fmt.Println(viz.Plot(accuracy, 80, 8, "running accuracy (%)"))
	fmt.Println()
	fmt.Printf("scan order: %v\n", order)
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	st := storage.New(cfg.DataDir)
	if outFile != "" {
		if err := st.ExportJSONFile(outFile, args[0]); err != nil {
			return err
		}
		fmt.Printf("exported to %s\n", outFile)
		return nil
	}
	return st.ExportJSON(os.Stdout, args[0])
}

func benchEngine(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid size %q", args[0])
		}
		cfg.Size = n
	}
	inf, err := experiment.NewRegistry().GetInfluence(cfg.Influence.Name, cfg.Influence.Gain)
	if err != nil {
		return err
	}

	fmt.Printf("benchmarking %dx%d (%s)\n\n", cfg.Size, cfg.Size, inf.Name())
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "WORKERS\tBUILD\tMOVES\tPLAY\tMOVES/SEC")

	counts := []int{1}
	if n := workerCount(cfg); n > 1 {
		counts = append(counts, n)
	}
	for _, n := range counts {
		start := time.Now()
		eng, err := game.NewEngine(cfg.Size, game.WithInfluence(inf), game.WithWorkers(n))
		if err != nil {
			return err
		}
		build := time.Since(start)

		s := game.NewSession(eng)
		start = time.Now()
		for _, island := range s.UnscannedIslands() {
			if _, err := s.MakeMove(island); err != nil {
				return err
			}
		}
		play := time.Since(start)
		moves := eng.Islands()

		fmt.Fprintf(w, "%d\t%v\t%d\t%v\t%.0f\n",
			n, build.Round(time.Microsecond), moves, play.Round(time.Microsecond), float64(moves)/play.Seconds())
	}
	fmt.Fprintf(w, "\ncpus: %d\n", runtime.NumCPU())
	return w.Flush()
}
