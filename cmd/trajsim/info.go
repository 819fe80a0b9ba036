package main

import (
	"fmt"
	"math"
	"os"
	"text/tabwriter"
	"time"

	"github.com/san-kum/trajsim/internal/config"
	"github.com/san-kum/trajsim/internal/integrators"
	"github.com/san-kum/trajsim/internal/scenario"
	"github.com/san-kum/trajsim/internal/sim"
	"github.com/spf13/cobra"
)

func listProfiles(cmd *cobra.Command, args []string) error {
	fmt.Println(title.Render("force profiles"))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tICON\tCURVE\tPEAK\tDURATION\tELEVATION\tSPIN")
	for _, p := range cat.Profiles() {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.0f N\t%.3f s\t%.0f°\t%.0f rad/s\n",
			p.ID, p.Name, p.Icon, p.Curve, p.PeakForce, p.Duration, p.Elevation*180/math.Pi, p.SpinRate)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(title.Render("projectiles"))
	w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tMASS\tRADIUS\tCD\tRESTITUTION")
	for _, d := range cat.Projectiles() {
		fmt.Fprintf(w, "%s\t%s\t%.3f kg\t%.3f m\t%.2f\t%.2f\n",
			d.ID, d.Name, d.Mass, d.Radius, d.DragCoefficient, d.Restitution)
	}
	return w.Flush()
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tWIND\tDENSITY\tTEMP\tGUSTS\tDESCRIPTION")
	for _, name := range config.ListPresets() {
		p := config.Presets[name]
		env := p.Environment
		fmt.Fprintf(w, "%s\t%.1f m/s\t%.3f\t%.1f K\t%t\t%s\n",
			name, env.Wind.Len(), env.AirDensity, env.Temperature, p.Gusts, p.Description)
	}
	return w.Flush()
}

// single runs one launch under cfg and returns its record and metrics.
func single(cfg *config.Config, l scenario.Launch) (*scenario.Result, time.Duration, error) {
	ctx, cancel := signalContext()
	defer cancel()

	sc := &scenario.Scenario{Name: l.Profile + "-" + l.Projectile, Launches: []scenario.Launch{l}}
	start := time.Now()
	res, err := scenario.RunScenario(ctx, sc, cfg, cat, sim.WithLogger(logger))
	return res, time.Since(start), err
}

func compareIntegrators(cmd *cobra.Command, args []string) error {
	names := args[2:]
	if len(names) == 0 {
		names = integrators.Names()
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	l := scenario.Launch{Profile: args[0], Projectile: args[1]}

	fmt.Printf("comparing integrators for %s / %s (step=%.4fs)\n\n", l.Profile, l.Projectile, cfg.Engine.Step)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INTEGRATOR\tRANGE\tAPEX\tFLIGHT\tENERGY LOSS\tTIME")

	for _, name := range names {
		c := *cfg
		c.Integrator = name
		res, elapsed, err := single(&c, l)
		if err != nil {
			fmt.Fprintf(w, "%s\terror: %v\n", name, err)
			continue
		}
		r := res.Records[0]
		fmt.Fprintf(w, "%s\t%.3f m\t%.3f m\t%.3f s\t%.4f\t%.2f ms\n",
			name, r.Summary.Range, r.Summary.MaxHeight, r.Summary.FlightTime,
			res.Metrics[r.ID]["energy_loss"], float64(elapsed.Microseconds())/1000)
	}
	return w.Flush()
}

func bench(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	fmt.Printf("benchmarking %s on %s\n\n", cfg.Integrator, cfg.Engine.Surface)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PROFILE\tPROJECTILE\tSIMULATED\tWALL\tREALTIME")

	var total time.Duration
	for _, p := range cat.ListProfiles() {
		for _, d := range cat.ListProjectiles() {
			res, elapsed, err := single(cfg, scenario.Launch{Profile: p, Projectile: d})
			if err != nil {
				fmt.Fprintf(w, "%s\t%s\terror: %v\n", p, d, err)
				continue
			}
			total += elapsed
			fmt.Fprintf(w, "%s\t%s\t%.2fs\t%v\t%.0fx\n",
				p, d, res.Elapsed, elapsed.Round(time.Microsecond), res.Elapsed/elapsed.Seconds())
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\ntotal wall time: %v\n", total.Round(time.Millisecond))
	return nil
}
