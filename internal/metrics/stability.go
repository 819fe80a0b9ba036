package metrics

import (
	"math"

	"github.com/san-kum/trajsim/internal/dynamo"
)

// Stability is the fraction of observed steps whose state was finite and
// whose orientation stayed unit length within threshold.
type Stability struct {
	name       string
	threshold  float64
	violations map[dynamo.LaunchID]int
	samples    map[dynamo.LaunchID]int
}

func NewStability(threshold float64) *Stability {
	return &Stability{
		name:       "stability",
		threshold:  threshold,
		violations: make(map[dynamo.LaunchID]int),
		samples:    make(map[dynamo.LaunchID]int),
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) OnStep(id dynamo.LaunchID, phase dynamo.Phase, st *dynamo.ProjectileState, env dynamo.EnvironmentState, t float64) {
	s.samples[id]++
	if !st.IsValid() || math.Abs(st.Rotation.Len()-1) > s.threshold {
		s.violations[id]++
	}
}

func (s *Stability) Value(id dynamo.LaunchID) float64 {
	n := s.samples[id]
	if n == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations[id])/float64(n)
}

func (s *Stability) Reset() {
	s.violations = make(map[dynamo.LaunchID]int)
	s.samples = make(map[dynamo.LaunchID]int)
}

// All returns a fresh set of the standard metrics.
func All() []dynamo.Metric {
	return []dynamo.Metric{NewEnergy(), NewContactTime(), NewStability(1e-6)}
}
