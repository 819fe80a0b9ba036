// Package dynamo provides the core state primitives shared by the projectile
// simulation packages.
//
// The package defines the mutable rigid-body state of one projectile, the
// environment it flies through and the contact phase it is in:
//
//   - [ProjectileState]: position, velocity, spin, orientation and body constants
//   - [EnvironmentState]: gravity, base wind, air density and temperature
//   - [Phase]: Airborne, Grounded, Colliding, Settled
//   - [Observer]: per-step hook used by metrics and tests
//
// # Conventions
//
// Y is up. Every translational force-model output is an acceleration (m/s²),
// torques are raw N·m. Vectors and quaternions come from mgl64.
//
// # Thread Safety
//
// A ProjectileState is owned by exactly one engine. EnvironmentState values
// are copied with [EnvironmentState.Clone] before they are handed to a launch.
package dynamo
