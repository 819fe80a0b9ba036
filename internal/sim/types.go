package sim

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/trajsim/internal/catalog"
	"github.com/san-kum/trajsim/internal/dynamo"
)

// ManualLaunchConfig replaces the profile's force curve with a single
// impulse applied at t=0.
type ManualLaunchConfig struct {
	// Impulse in N·s.
	Impulse mgl64.Vec3 `yaml:"impulse" json:"impulse"`
	// Offset of the application point from the center of mass.
	Offset mgl64.Vec3 `yaml:"offset" json:"offset"`
}

// LaunchParameters describes one launch.
type LaunchParameters struct {
	Profile     catalog.ForceProfile
	Projectile  catalog.ProjectileDefinition
	Environment dynamo.EnvironmentState
	// Tint overrides the projectile color when non-empty.
	Tint   string
	Manual *ManualLaunchConfig
	// Origin overrides both the default launch point and the profile's
	// LaunchPosition.
	Origin *mgl64.Vec3
	Label  string
}

// LaunchHandle identifies a launch to the caller.
type LaunchHandle struct {
	ID dynamo.LaunchID
}

// TelemetrySample is one periodic observation of a projectile.
type TelemetrySample struct {
	Time     float64    `json:"time"`
	Altitude float64    `json:"altitude"`
	Speed    float64    `json:"speed"`
	Range    float64    `json:"range"`
	Velocity mgl64.Vec3 `json:"velocity"`
	Position mgl64.Vec3 `json:"position"`
}

// Summary is written once, when the projectile settles.
type Summary struct {
	MaxHeight   float64 `json:"max_height"`
	Range       float64 `json:"range"`
	FlightTime  float64 `json:"flight_time"`
	ImpactSpeed float64 `json:"impact_speed"`
	Bounces     int     `json:"bounces"`
	// Forced is set when the projectile was retired by MaxFlightTime or an
	// invalid state rather than by coming to rest.
	Forced bool `json:"forced"`
}

// Labels are the human-readable names attached to a record.
type Labels struct {
	Profile    string `json:"profile"`
	Projectile string `json:"projectile"`
	Label      string `json:"label,omitempty"`
}

// LaunchRecord is the history of one launch. Samples grow in place while the
// launch is active; Summary is nil until it settles.
type LaunchRecord struct {
	ID      dynamo.LaunchID   `json:"id"`
	Color   string            `json:"color"`
	Labels  Labels            `json:"labels"`
	Origin  mgl64.Vec3        `json:"origin"`
	Samples []TelemetrySample `json:"samples"`
	Summary *Summary          `json:"summary,omitempty"`
}

// Settled reports whether the summary has been written.
func (r *LaunchRecord) Settled() bool {
	return r.Summary != nil
}

// ActiveProjectile is the narrow read view handed to renderers.
type ActiveProjectile struct {
	ID       dynamo.LaunchID
	Position mgl64.Vec3
	Rotation mgl64.Quat
	Color    string
}
