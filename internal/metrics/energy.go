package metrics

import (
	"github.com/san-kum/trajsim/internal/dynamo"
)

// Mechanical is translational + rotational kinetic energy plus gravitational
// potential energy of the lowest point above y=0.
func Mechanical(s *dynamo.ProjectileState, env dynamo.EnvironmentState) float64 {
	return s.KineticEnergy() + s.RotationalEnergy() + s.Mass*env.Gravity*s.Altitude()
}

type energyTrack struct {
	initial float64
	current float64
	impacts []float64
	seen    bool
}

// Energy tracks mechanical energy per launch, including the energy left
// after every ground collision. Value is the fraction of the initial energy
// dissipated so far.
type Energy struct {
	name   string
	tracks map[dynamo.LaunchID]*energyTrack
}

func NewEnergy() *Energy {
	return &Energy{
		name:   "energy_loss",
		tracks: make(map[dynamo.LaunchID]*energyTrack),
	}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) OnStep(id dynamo.LaunchID, phase dynamo.Phase, s *dynamo.ProjectileState, env dynamo.EnvironmentState, t float64) {
	tr, ok := e.tracks[id]
	if !ok {
		tr = &energyTrack{}
		e.tracks[id] = tr
	}
	energy := Mechanical(s, env)
	if !tr.seen {
		tr.initial = energy
		tr.seen = true
	}
	tr.current = energy
	if phase == dynamo.Colliding {
		tr.impacts = append(tr.impacts, energy)
	}
}

func (e *Energy) Value(id dynamo.LaunchID) float64 {
	tr, ok := e.tracks[id]
	if !ok || tr.initial == 0 {
		return 0
	}
	return (tr.initial - tr.current) / tr.initial
}

// Impacts returns the mechanical energy right after each collision.
func (e *Energy) Impacts(id dynamo.LaunchID) []float64 {
	if tr, ok := e.tracks[id]; ok {
		return append([]float64(nil), tr.impacts...)
	}
	return nil
}

// Dissipative reports whether post-collision energy never increased.
func (e *Energy) Dissipative(id dynamo.LaunchID) bool {
	imp := e.Impacts(id)
	for i := 1; i < len(imp); i++ {
		if imp[i] > imp[i-1]*(1+1e-9) {
			return false
		}
	}
	return true
}

func (e *Energy) Reset() {
	e.tracks = make(map[dynamo.LaunchID]*energyTrack)
}
