package main

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog"
	"github.com/san-kum/trajsim/internal/catalog"
	"github.com/san-kum/trajsim/internal/config"
	"github.com/san-kum/trajsim/internal/contact"
	"github.com/san-kum/trajsim/internal/scenario"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	v      = newViper()
	logger = zerolog.Nop()
	cat    = catalog.Default()
)

// main registers the commands and executes the root command, exiting with
// status 1 on error.
func main() {
	rootCmd := &cobra.Command{
		Use:           "trajsim",
		Short:         "projectile trajectory simulator",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := v.BindPFlags(cmd.Flags()); err != nil {
				return err
			}
			return setupLogging(v.GetString("log-level"))
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.String("data", ".trajsim", "data directory")
	pf.String("config", "", "config file path (yaml)")
	pf.String("log-level", "warn", "log level (trace, debug, info, warn, error)")
	pf.String("preset", "", "environment preset")
	pf.String("integrator", config.DefaultIntegrator, "integrator")
	pf.String("surface", "", "ground surface (grass, concrete, dirt, ice)")
	pf.String("restitution", "", "restitution policy (static, velocity)")
	pf.Int64("seed", 0, "turbulence seed")
	pf.Bool("gusts", true, "enable wind gusts")
	pf.Float64("time-scale", 1, "simulated seconds per real second")

	launchCmd := &cobra.Command{
		Use:   "launch [profile] [projectile]",
		Short: "launch one projectile and save the run",
		Args:  cobra.ExactArgs(2),
		RunE:  runLaunch,
	}
	launchFlags(launchCmd)
	launchCmd.Flags().String("impulse", "", "manual launch impulse x,y,z in N·s (replaces the profile)")
	launchCmd.Flags().String("offset", "", "impulse application offset x,y,z in m")
	launchCmd.Flags().Float64("timeout", 120, "simulated seconds before giving up")
	launchCmd.Flags().Bool("no-save", false, "do not store the run")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a scripted multi-launch scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}
	scenarioCmd.Flags().Bool("no-save", false, "do not store the run")

	sweepCmd := &cobra.Command{
		Use:   "sweep [profile] [projectile]",
		Short: "sweep one launch parameter and report range and apex",
		Args:  cobra.ExactArgs(2),
		RunE:  runSweep,
	}
	launchFlags(sweepCmd)
	sweepCmd.Flags().String("param", "elevation", "parameter: "+strings.Join(scenario.SweepParams(), ", "))
	sweepCmd.Flags().Float64("min", 10, "first value")
	sweepCmd.Flags().Float64("max", 70, "last value")
	sweepCmd.Flags().Int("steps", 7, "number of values")

	spreadCmd := &cobra.Command{
		Use:   "spread [profile] [projectile]",
		Short: "repeat a launch across turbulence seeds",
		Args:  cobra.ExactArgs(2),
		RunE:  runSpread,
	}
	launchFlags(spreadCmd)
	spreadCmd.Flags().Int("runs", 16, "number of seeds")

	optimizeCmd := &cobra.Command{
		Use:   "optimize [profile] [projectile]",
		Short: "grid search launch parameters for the best range or apex",
		Args:  cobra.ExactArgs(2),
		RunE:  runOptimize,
	}
	launchFlags(optimizeCmd)
	optimizeCmd.Flags().StringArray("grid", []string{"elevation=10:70:13"}, "parameter=min:max:steps, repeatable")
	optimizeCmd.Flags().String("objective", "range", "range or height")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot altitude and speed of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().Int("launch", -1, "plot only this launch id")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run telemetry to CSV on stdout",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringP("out", "o", "", "output file (default stdout)")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "draw run trajectories as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringP("out", "o", "", "output file (default stdout)")
	exportSVGCmd.Flags().Int("width", 800, "image width")
	exportSVGCmd.Flags().Int("height", 400, "image height")

	profilesCmd := &cobra.Command{
		Use:   "profiles",
		Short: "list force profiles and projectiles",
		RunE:  listProfiles,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list environment presets",
		RunE:  listPresets,
	}

	compareCmd := &cobra.Command{
		Use:   "compare [profile] [projectile] [integrator...]",
		Short: "compare integrators on the same launch",
		Args:  cobra.MinimumNArgs(2),
		RunE:  compareIntegrators,
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark every profile/projectile pair",
		RunE:  bench,
	}

	rootCmd.AddCommand(launchCmd, scenarioCmd, sweepCmd, spreadCmd, optimizeCmd, listCmd, plotCmd,
		exportCSVCmd, exportJSONCmd, exportSVGCmd, profilesCmd, presetsCmd, compareCmd, benchCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// newViper reads TRAJSIM_* environment variables; flags are bound per command.
func newViper() *viper.Viper {
	nv := viper.New()
	nv.SetEnvPrefix("TRAJSIM")
	nv.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	nv.AutomaticEnv()
	return nv
}

// launchFlags adds the per-launch overrides shared by launch, sweep and spread.
func launchFlags(cmd *cobra.Command) {
	cmd.Flags().String("wind", "", "wind x,y,z in m/s (overrides the environment)")
	cmd.Flags().String("origin", "", "launch point x,y,z in m")
	cmd.Flags().String("tint", "", "display color")
	cmd.Flags().String("label", "", "free-form launch label")
}

func setupLogging(level string) error {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	zerolog.SetGlobalLevel(lvl)
	logger = zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.Kitchen,
	}).With().Timestamp().Logger()
	return nil
}

// loadConfig reads the config file if given, then applies flags and
// TRAJSIM_* environment variables on top.
func loadConfig() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if path := v.GetString("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if v.IsSet("preset") && v.GetString("preset") != "" {
		if err := cfg.ApplyPreset(v.GetString("preset")); err != nil {
			return nil, fmt.Errorf("%w (available: %v)", err, config.ListPresets())
		}
	}
	if v.IsSet("integrator") {
		cfg.Integrator = v.GetString("integrator")
	}
	if v.IsSet("surface") && v.GetString("surface") != "" {
		st, err := contact.ParseSurface(v.GetString("surface"))
		if err != nil {
			return nil, err
		}
		cfg.Engine.Surface = st
	}
	if v.IsSet("restitution") && v.GetString("restitution") != "" {
		p, err := contact.ParseRestitutionPolicy(v.GetString("restitution"))
		if err != nil {
			return nil, err
		}
		cfg.Engine.Restitution = p
	}
	if v.IsSet("seed") {
		cfg.Engine.Seed = v.GetInt64("seed")
	}
	if v.IsSet("gusts") {
		cfg.Engine.Gusts = v.GetBool("gusts")
	}
	if v.IsSet("time-scale") {
		cfg.Engine.TimeScale = v.GetFloat64("time-scale")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger.Debug().
		Str("integrator", cfg.Integrator).
		Str("preset", cfg.Preset).
		Str("surface", cfg.Engine.Surface.String()).
		Int64("seed", cfg.Engine.Seed).
		Msg("config")
	return cfg, nil
}

// parseVec parses "x,y,z". An empty string yields nil.
func parseVec(s string) (*mgl64.Vec3, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return nil, fmt.Errorf("want x,y,z, got %q", s)
	}
	var out mgl64.Vec3
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("component %d of %q: %w", i, s, err)
		}
		out[i] = f
	}
	return &out, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
