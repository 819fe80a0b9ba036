package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/trajsim/internal/dynamo"
	"github.com/san-kum/trajsim/internal/sim"
)

var telemetryHeader = []string{"launch", "time", "altitude", "speed", "range", "vx", "vy", "vz", "x", "y", "z"}

// WriteTelemetryCSV writes one row per sample, launches in record order.
func WriteTelemetryCSV(w io.Writer, records []*sim.LaunchRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(telemetryHeader); err != nil {
		return err
	}

	f := func(v float64) string { return strconv.FormatFloat(v, 'f', 6, 64) }
	for _, r := range records {
		id := strconv.Itoa(int(r.ID))
		for _, smp := range r.Samples {
			row := []string{
				id,
				f(smp.Time), f(smp.Altitude), f(smp.Speed), f(smp.Range),
				f(smp.Velocity[0]), f(smp.Velocity[1]), f(smp.Velocity[2]),
				f(smp.Position[0]), f(smp.Position[1]), f(smp.Position[2]),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadTelemetryCSV parses the format written by WriteTelemetryCSV.
func ReadTelemetryCSV(r io.Reader) (map[dynamo.LaunchID][]sim.TelemetrySample, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(telemetryHeader)

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	out := make(map[dynamo.LaunchID][]sim.TelemetrySample)
	if len(rows) < 2 {
		return out, nil
	}

	for i, row := range rows[1:] {
		id, err := strconv.Atoi(row[0])
		if err != nil {
			return nil, fmt.Errorf("telemetry row %d: %w", i+1, err)
		}
		var v [10]float64
		for j := range v {
			if v[j], err = strconv.ParseFloat(row[j+1], 64); err != nil {
				return nil, fmt.Errorf("telemetry row %d column %s: %w", i+1, telemetryHeader[j+1], err)
			}
		}
		lid := dynamo.LaunchID(id)
		out[lid] = append(out[lid], sim.TelemetrySample{
			Time:     v[0],
			Altitude: v[1],
			Speed:    v[2],
			Range:    v[3],
			Velocity: mgl64.Vec3{v[4], v[5], v[6]},
			Position: mgl64.Vec3{v[7], v[8], v[9]},
		})
	}
	return out, nil
}

type ExportData struct {
	Run     RunMetadata         `json:"run"`
	Records []*sim.LaunchRecord `json:"records"`
}

// ExportJSON writes a run and its full records to path.
func ExportJSON(path string, meta RunMetadata, records []*sim.LaunchRecord) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return WriteJSON(file, meta, records)
}

func WriteJSON(w io.Writer, meta RunMetadata, records []*sim.LaunchRecord) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(ExportData{Run: meta, Records: records})
}
