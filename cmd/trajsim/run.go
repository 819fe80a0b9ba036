package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/san-kum/trajsim/internal/scenario"
	"github.com/san-kum/trajsim/internal/sim"
	"github.com/san-kum/trajsim/internal/storage"
	"github.com/spf13/cobra"
)

// launchSpec builds a scenario launch from positional args and launch flags.
func launchSpec(cmd *cobra.Command, args []string) (scenario.Launch, error) {
	l := scenario.Launch{
		Profile:    args[0],
		Projectile: args[1],
		Tint:       v.GetString("tint"),
		Label:      v.GetString("label"),
	}
	var err error
	if l.Wind, err = parseVec(v.GetString("wind")); err != nil {
		return l, fmt.Errorf("--wind: %w", err)
	}
	if l.Origin, err = parseVec(v.GetString("origin")); err != nil {
		return l, fmt.Errorf("--origin: %w", err)
	}
	if cmd.Flags().Lookup("impulse") == nil {
		return l, nil
	}
	if l.Impulse, err = parseVec(v.GetString("impulse")); err != nil {
		return l, fmt.Errorf("--impulse: %w", err)
	}
	offset, err := parseVec(v.GetString("offset"))
	if err != nil {
		return l, fmt.Errorf("--offset: %w", err)
	}
	if offset != nil {
		l.Offset = *offset
	}
	return l, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runLaunch(cmd *cobra.Command, args []string) error {
	l, err := launchSpec(cmd, args)
	if err != nil {
		return err
	}
	sc := &scenario.Scenario{
		Name:     args[0] + "-" + args[1],
		Timeout:  v.GetFloat64("timeout"),
		Launches: []scenario.Launch{l},
	}
	return execute(sc)
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := scenario.LoadScenario(args[0])
	if err != nil {
		return err
	}
	if sc.Name == "" {
		sc.Name = "scenario"
	}
	return execute(sc)
}

func execute(sc *scenario.Scenario) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	fmt.Println(title.Render("running " + sc.Name))
	start := time.Now()
	res, runErr := scenario.RunScenario(ctx, sc, cfg, cat, sim.WithLogger(logger))
	if res == nil {
		return runErr
	}
	elapsed := time.Since(start)

	for _, r := range res.Records {
		fmt.Println(renderRecord(r, res.Metrics[r.ID]))
	}
	fmt.Println(subtle.Render(fmt.Sprintf("%.2fs simulated in %v", res.Elapsed, elapsed.Round(time.Millisecond))))

	if !v.GetBool("no-save") {
		st := storage.New(v.GetString("data"))
		runID, err := st.Save(sc.Name, res.Config, res.Records, res.Metrics)
		if err != nil {
			return err
		}
		fmt.Printf("run id: %s\n", runID)
	}
	return runErr
}

func runSweep(cmd *cobra.Command, args []string) error {
	l, err := launchSpec(cmd, args)
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	sw := scenario.Sweep{
		Launch: l,
		Param:  v.GetString("param"),
		Min:    v.GetFloat64("min"),
		Max:    v.GetFloat64("max"),
		Steps:  v.GetInt("steps"),
	}
	results, err := scenario.RunSweep(ctx, sw, cfg, cat, sim.WithLogger(logger))
	if err != nil {
		return err
	}

	fmt.Printf("sweeping %s for %s / %s\n\n", sw.Param, l.Profile, l.Projectile)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tRANGE\tAPEX\tFLIGHT\tBOUNCES\n", strings.ToUpper(sw.Param))
	for _, r := range results {
		s := r.Summary
		fmt.Fprintf(w, "%.3f\t%.2f m\t%.2f m\t%.2f s\t%d\n", r.Value, s.Range, s.MaxHeight, s.FlightTime, s.Bounces)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if best, ok := scenario.Best(results); ok {
		fmt.Println()
		fmt.Println(row("longest range", fmt.Sprintf("%.2f m at %s=%.3f", best.Summary.Range, sw.Param, best.Value)))
	}
	return nil
}

func runSpread(cmd *cobra.Command, args []string) error {
	l, err := launchSpec(cmd, args)
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	runs := v.GetInt("runs")
	res, err := scenario.RunSpread(ctx, l, runs, cfg.Engine.Seed, cfg, cat, sim.WithLogger(logger))
	if err != nil {
		return err
	}

	ranges := make([]float64, len(res.Summaries))
	for i, s := range res.Summaries {
		ranges[i] = s.Range
	}
	rm, rs := res.RangeStats()
	hm, hs := res.HeightStats()

	lines := []string{
		title.Render(fmt.Sprintf("%s / %s over %d seeds", l.Profile, l.Projectile, runs)),
		row("range", fmt.Sprintf("%.2f ± %.2f m", rm, rs)),
		row("max height", fmt.Sprintf("%.2f ± %.2f m", hm, hs)),
		metricLabel.Render("by seed") + sparkline(ranges, 40),
	}
	fmt.Println(panel.Render(strings.Join(lines, "\n")))
	return nil
}

// parseGrid parses "name=min:max:steps" into evenly spaced values.
func parseGrid(spec string) (string, []float64, error) {
	name, rng, ok := strings.Cut(spec, "=")
	if !ok {
		return "", nil, fmt.Errorf("grid %q: want name=min:max:steps", spec)
	}
	parts := strings.Split(rng, ":")
	if len(parts) != 3 {
		return "", nil, fmt.Errorf("grid %q: want name=min:max:steps", spec)
	}
	lo, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return "", nil, fmt.Errorf("grid %q: %w", spec, err)
	}
	hi, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return "", nil, fmt.Errorf("grid %q: %w", spec, err)
	}
	steps, err := strconv.Atoi(parts[2])
	if err != nil || steps < 1 {
		return "", nil, fmt.Errorf("grid %q: bad step count", spec)
	}
	return name, scenario.Sweep{Min: lo, Max: hi, Steps: steps}.Values(), nil
}

func runOptimize(cmd *cobra.Command, args []string) error {
	l, err := launchSpec(cmd, args)
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	specs, err := cmd.Flags().GetStringArray("grid")
	if err != nil {
		return err
	}
	var names []string
	var ranges [][]float64
	for _, spec := range specs {
		name, vals, err := parseGrid(spec)
		if err != nil {
			return err
		}
		names = append(names, name)
		ranges = append(ranges, vals)
	}
	g, err := scenario.NewGridSearch(names, ranges)
	if err != nil {
		return err
	}

	objective := scenario.MaxRange
	switch v.GetString("objective") {
	case "range":
	case "height":
		objective = scenario.MaxHeight
	default:
		return fmt.Errorf("unknown objective %q", v.GetString("objective"))
	}

	ctx, cancel := signalContext()
	defer cancel()
	fmt.Printf("searching %d points for %s / %s\n", len(g.Points()), l.Profile, l.Projectile)
	best, err := g.Search(ctx, l, cfg, cat, objective, sim.WithLogger(logger))
	if err != nil {
		return err
	}

	lines := []string{title.Render("best " + v.GetString("objective"))}
	for _, name := range sortedKeys(best.Params) {
		lines = append(lines, row(name, fmt.Sprintf("%.3f", best.Params[name])))
	}
	lines = append(lines,
		row("range", fmt.Sprintf("%.2f m", best.Summary.Range)),
		row("max height", fmt.Sprintf("%.2f m", best.Summary.MaxHeight)),
		row("flight time", fmt.Sprintf("%.2f s", best.Summary.FlightTime)),
	)
	fmt.Println(panel.Render(strings.Join(lines, "\n")))
	return nil
}
