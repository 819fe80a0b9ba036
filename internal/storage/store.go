package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/trajsim/internal/config"
	"github.com/san-kum/trajsim/internal/dynamo"
	"github.com/san-kum/trajsim/internal/sim"
)

const (
	metadataFile  = "metadata.json"
	telemetryFile = "telemetry.csv"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// LaunchMeta is the per-launch part of a run's metadata. Samples live in
// telemetry.csv.
type LaunchMeta struct {
	ID      dynamo.LaunchID    `json:"id"`
	Color   string             `json:"color"`
	Labels  sim.Labels         `json:"labels"`
	Origin  mgl64.Vec3         `json:"origin"`
	Samples int                `json:"samples"`
	Summary *sim.Summary       `json:"summary,omitempty"`
	Metrics map[string]float64 `json:"metrics,omitempty"`
}

type RunMetadata struct {
	ID          string                  `json:"id"`
	Name        string                  `json:"name"`
	Timestamp   time.Time               `json:"timestamp"`
	Seed        int64                   `json:"seed"`
	Integrator  string                  `json:"integrator"`
	Surface     string                  `json:"surface"`
	Preset      string                  `json:"preset,omitempty"`
	Environment dynamo.EnvironmentState `json:"environment"`
	Launches    []LaunchMeta            `json:"launches"`
}

// Settled counts launches that have a summary.
func (m *RunMetadata) Settled() int {
	n := 0
	for _, l := range m.Launches {
		if l.Summary != nil {
			n++
		}
	}
	return n
}

// NewMetadata describes records produced under cfg. metrics may be nil.
func NewMetadata(name string, cfg *config.Config, records []*sim.LaunchRecord, metrics map[dynamo.LaunchID]map[string]float64) RunMetadata {
	meta := RunMetadata{
		Name:        name,
		Timestamp:   time.Now(),
		Seed:        cfg.Engine.Seed,
		Integrator:  cfg.Integrator,
		Surface:     cfg.Engine.Surface.String(),
		Preset:      cfg.Preset,
		Environment: cfg.Environment,
		Launches:    make([]LaunchMeta, 0, len(records)),
	}
	for _, r := range records {
		meta.Launches = append(meta.Launches, LaunchMeta{
			ID:      r.ID,
			Color:   r.Color,
			Labels:  r.Labels,
			Origin:  r.Origin,
			Samples: len(r.Samples),
			Summary: r.Summary,
			Metrics: metrics[r.ID],
		})
	}
	return meta
}

// Save writes a new run directory holding metadata.json and telemetry.csv
// and returns its id.
func (s *Store) Save(name string, cfg *config.Config, records []*sim.LaunchRecord, metrics map[dynamo.LaunchID]map[string]float64) (string, error) {
	if err := s.Init(); err != nil {
		return "", err
	}
	meta := NewMetadata(name, cfg, records, metrics)

	runID, runDir, err := s.reserve(slug(name), meta.Timestamp)
	if err != nil {
		return "", err
	}
	meta.ID = runID

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, telemetryFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := WriteTelemetryCSV(csvFile, records); err != nil {
		return "", err
	}
	return runID, nil
}

// reserve creates a fresh run directory, suffixing the id when two runs
// share a name and millisecond.
func (s *Store) reserve(name string, ts time.Time) (string, string, error) {
	base := fmt.Sprintf("%s_%d", name, ts.UnixMilli())
	for i := 1; i < 100; i++ {
		id := base
		if i > 1 {
			id = fmt.Sprintf("%s-%d", base, i)
		}
		dir := filepath.Join(s.baseDir, id)
		err := os.Mkdir(dir, 0755)
		if err == nil {
			return id, dir, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return "", "", err
		}
	}
	return "", "", fmt.Errorf("no free run id for %s", base)
}

func slug(name string) string {
	if name == "" {
		return "run"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-':
			return r
		}
		return '-'
	}, name)
}

// List returns every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.SliceStable(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("%s: %w", runID, err)
	}
	return &meta, nil
}

// LoadTelemetry reads the samples of every launch in a run.
func (s *Store) LoadTelemetry(runID string) (map[dynamo.LaunchID][]sim.TelemetrySample, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, telemetryFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return ReadTelemetryCSV(file)
}

// LoadRecords rebuilds the launch records of a run from its two files.
func (s *Store) LoadRecords(runID string) (*RunMetadata, []*sim.LaunchRecord, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	samples, err := s.LoadTelemetry(runID)
	if err != nil {
		return nil, nil, err
	}

	records := make([]*sim.LaunchRecord, 0, len(meta.Launches))
	for _, l := range meta.Launches {
		records = append(records, &sim.LaunchRecord{
			ID:      l.ID,
			Color:   l.Color,
			Labels:  l.Labels,
			Origin:  l.Origin,
			Samples: samples[l.ID],
			Summary: l.Summary,
		})
	}
	return meta, records, nil
}
