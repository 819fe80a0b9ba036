package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/trajsim/internal/dynamo"
	"github.com/san-kum/trajsim/internal/storage"
	"github.com/spf13/cobra"
)

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(v.GetString("data"))
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTIME\tLAUNCHES\tSETTLED\tINTEG\tSURFACE\tPRESET")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s\t%s\t%s\n",
			run.ID,
			run.Name,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			len(run.Launches),
			run.Settled(),
			run.Integrator,
			run.Surface,
			run.Preset,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	only := dynamo.LaunchID(v.GetInt("launch"))

	st := storage.New(v.GetString("data"))
	meta, records, err := st.LoadRecords(runID)
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("launches: %d\n\n", len(records))

	plotted := 0
	for _, r := range records {
		if only >= 0 && r.ID != only {
			continue
		}
		if len(r.Samples) < 2 {
			continue
		}

		alt := make([]float64, len(r.Samples))
		speed := make([]float64, len(r.Samples))
		for i, s := range r.Samples {
			alt[i] = s.Altitude
			speed[i] = s.Speed
		}
		last := r.Samples[len(r.Samples)-1].Time

		for _, series := range []struct {
			data    []float64
			caption string
		}{
			{alt, fmt.Sprintf("#%d %s/%s altitude (m) over %.1fs", r.ID, r.Labels.Profile, r.Labels.Projectile, last)},
			{speed, fmt.Sprintf("#%d %s/%s speed (m/s) over %.1fs", r.ID, r.Labels.Profile, r.Labels.Projectile, last)},
		} {
			graph := asciigraph.Plot(series.data,
				asciigraph.Height(10),
				asciigraph.Width(80),
				asciigraph.Caption(series.caption),
			)
			fmt.Println(graph)
			fmt.Println()
		}
		plotted++
	}

	if plotted == 0 {
		return fmt.Errorf("no data to plot")
	}
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(v.GetString("data"))
	_, records, err := st.LoadRecords(args[0])
	if err != nil {
		return err
	}
	return storage.WriteTelemetryCSV(os.Stdout, records)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(v.GetString("data"))
	meta, records, err := st.LoadRecords(args[0])
	if err != nil {
		return err
	}
	if out := v.GetString("out"); out != "" {
		return storage.ExportJSON(out, *meta, records)
	}
	return storage.WriteJSON(os.Stdout, *meta, records)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	st := storage.New(v.GetString("data"))
	_, records, err := st.LoadRecords(args[0])
	if err != nil {
		return err
	}
	w, h := v.GetInt("width"), v.GetInt("height")
	out := v.GetString("out")
	if out == "" {
		return storage.WriteSVG(os.Stdout, records, w, h)
	}
	file, err := os.Create(out)
	if err != nil {
		return err
	}
	defer file.Close()
	return storage.WriteSVG(file, records, w, h)
}
