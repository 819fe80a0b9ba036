// Package catalog holds the static launch data: force profiles and projectile
// definitions, each keyed by id.
//
// Force profiles are a closed strategy table. Every profile carries its own
// duration, curve kind, peak force, launch direction and spin, and evaluates
// F(t) as a pure function of time that is zero outside [0, duration].
//
// Projectile definitions are validated when a Catalog is built. A definition
// with non-positive mass, area, radius or inertia, negative drag or spin
// damping, or restitution outside [0, 1] is rejected with an error wrapping
// dynamo.ErrInvalidDefinition, so degenerate bodies never reach the
// integrator.
package catalog
