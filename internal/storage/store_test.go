package storage

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/trajsim/internal/config"
	"github.com/san-kum/trajsim/internal/contact"
	"github.com/san-kum/trajsim/internal/dynamo"
	"github.com/san-kum/trajsim/internal/sim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRecords() []*sim.LaunchRecord {
	return []*sim.LaunchRecord{
		{
			ID:     0,
			Color:  "#f5f5f5",
			Labels: sim.Labels{Profile: "kick", Projectile: "soccer", Label: "opener"},
			Origin: mgl64.Vec3{0, 0.11, 0},
			Samples: []sim.TelemetrySample{
				{Time: 0, Altitude: 0.11, Position: mgl64.Vec3{0, 0.11, 0}},
				{Time: 0.08, Altitude: 0.9, Speed: 21.5, Range: 1.6, Velocity: mgl64.Vec3{19, 9.5, 0.25}, Position: mgl64.Vec3{1.6, 0.9, 0.02}},
			},
			Summary: &sim.Summary{MaxHeight: 6.2, Range: 31.4, FlightTime: 4.1, ImpactSpeed: 14.2, Bounces: 3},
		},
		{
			ID:     1,
			Color:  "#3a3a3a",
			Labels: sim.Labels{Profile: "cannon", Projectile: "cannonball"},
			Samples: []sim.TelemetrySample{
				{Time: 0, Altitude: 0.05, Position: mgl64.Vec3{0, 0.05, 0}},
			},
		},
	}
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	require.NoError(t, st.Init())

	cfg := config.DefaultConfig()
	cfg.Engine.Seed = 42
	cfg.Engine.Surface = contact.Concrete
	metrics := map[dynamo.LaunchID]map[string]float64{0: {"energy_loss": 0.93}}

	runID, err := st.Save("test run", cfg, testRecords(), metrics)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(runID, "test-run_"), runID)

	meta, err := st.Load(runID)
	require.NoError(t, err)
	assert.Equal(t, runID, meta.ID)
	assert.Equal(t, "test run", meta.Name)
	assert.EqualValues(t, 42, meta.Seed)
	assert.Equal(t, "rk4", meta.Integrator)
	assert.Equal(t, "concrete", meta.Surface)
	assert.Equal(t, 1, meta.Settled())

	require.Len(t, meta.Launches, 2)
	first := meta.Launches[0]
	assert.Equal(t, "opener", first.Labels.Label)
	assert.Equal(t, 2, first.Samples)
	require.NotNil(t, first.Summary)
	assert.Equal(t, 3, first.Summary.Bounces)
	assert.InDelta(t, 0.93, first.Metrics["energy_loss"], 1e-12)
	assert.Nil(t, meta.Launches[1].Summary)
}

func TestStoreLoadRecords(t *testing.T) {
	st := New(t.TempDir())
	want := testRecords()

	runID, err := st.Save("records", config.DefaultConfig(), want, nil)
	require.NoError(t, err)

	_, got, err := st.LoadRecords(runID)
	require.NoError(t, err)
	require.Len(t, got, len(want))

	for i := range want {
		assert.Equal(t, want[i].ID, got[i].ID)
		assert.Equal(t, want[i].Labels, got[i].Labels)
		require.Len(t, got[i].Samples, len(want[i].Samples))
		for j, s := range want[i].Samples {
			g := got[i].Samples[j]
			assert.InDelta(t, s.Time, g.Time, 1e-6)
			assert.InDelta(t, s.Speed, g.Speed, 1e-6)
			assert.InDelta(t, 0, s.Velocity.Sub(g.Velocity).Len(), 1e-5)
			assert.InDelta(t, 0, s.Position.Sub(g.Position).Len(), 1e-5)
		}
	}
	assert.Equal(t, want[0].Summary, got[0].Summary)
}

func TestStoreList(t *testing.T) {
	dir := t.TempDir()
	st := New(dir)

	runs, err := st.List()
	require.NoError(t, err)
	assert.Empty(t, runs)

	a, err := st.Save("same", config.DefaultConfig(), testRecords(), nil)
	require.NoError(t, err)
	b, err := st.Save("same", config.DefaultConfig(), testRecords(), nil)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)

	// Stray files and broken runs are skipped.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "broken"), 0755))

	runs, err = st.List()
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, a, runs[0].ID)
	assert.Equal(t, b, runs[1].ID)
}

func TestStoreLoadMissing(t *testing.T) {
	st := New(t.TempDir())
	_, err := st.Load("nope")
	assert.ErrorIs(t, err, os.ErrNotExist)
	_, err = st.LoadTelemetry("nope")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestTelemetryCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTelemetryCSV(&buf, testRecords()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "launch,time,altitude,speed,range,vx,vy,vz,x,y,z", lines[0])
	assert.True(t, strings.HasPrefix(lines[3], "1,"))

	samples, err := ReadTelemetryCSV(&buf)
	require.NoError(t, err)
	assert.Len(t, samples[0], 2)
	assert.Len(t, samples[1], 1)
}

func TestReadTelemetryCSVRejectsGarbage(t *testing.T) {
	in := strings.Join(telemetryHeader, ",") + "\n0,abc,0,0,0,0,0,0,0,0,0\n"
	_, err := ReadTelemetryCSV(strings.NewReader(in))
	assert.Error(t, err)

	_, err = ReadTelemetryCSV(strings.NewReader("launch,time\n0,1\n"))
	assert.Error(t, err)
}

func TestWriteJSON(t *testing.T) {
	records := testRecords()
	meta := NewMetadata("json", config.DefaultConfig(), records, nil)

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, meta, records))

	var got ExportData
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "json", got.Run.Name)
	require.Len(t, got.Records, 2)
	assert.Equal(t, "soccer", got.Records[0].Labels.Projectile)
	assert.Len(t, got.Records[0].Samples, 2)
	assert.Nil(t, got.Records[1].Summary)

	path := filepath.Join(t.TempDir(), "out.json")
	require.NoError(t, ExportJSON(path, meta, records))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, buf.String(), string(data))
}

func TestWriteSVG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSVG(&buf, testRecords(), 400, 200))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "<?xml"))
	assert.True(t, strings.HasSuffix(strings.TrimSpace(out), "</svg>"))
	// The single-sample record is skipped.
	assert.Equal(t, 1, strings.Count(out, "<path"))
	assert.Contains(t, out, `stroke="#f5f5f5"`)
	assert.Contains(t, out, "#0 kick/soccer")

	assert.Error(t, WriteSVG(&buf, testRecords()[1:], 400, 200))
}
