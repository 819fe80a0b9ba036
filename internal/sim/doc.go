// Package sim is the simulation engine. It owns every in-flight projectile,
// a shared turbulence field and the ground resolver, and advances them with a
// fixed-timestep accumulator.
//
// Each Update clamps the frame delta to MaxFrameDelta, scales it by
// TimeScale, advances the turbulence clock once, then consumes the
// accumulated time in fixed steps of Config.Step. Within one step a
// projectile may subdivide further when it is fast or close to the ground.
// For every sub-step of every active projectile, in launch order:
//
//  1. the launch force (or nothing, for a manual impulse launch) and the
//     profile spin are applied while the force window is open
//  2. local wind is sampled from turbulence plus gusts
//  3. position and velocity are advanced by the integrator
//  4. aerodynamic torque, spin damping and orientation are integrated
//  5. ground and obstacle contact are resolved
//  6. telemetry is sampled at TelemetryInterval
//  7. the projectile settles once it is at rest on the ground
//
// Settled projectiles leave the active set at the end of Update. Their
// LaunchRecord, with its summary, stays in the engine until Reset.
//
// The engine is single-threaded and not safe for concurrent use. Separate
// engines share nothing and may run in parallel, see Ensemble.
package sim
