// Package physics is the projectile force model.
//
// Translational functions return accelerations in m/s² (force already divided
// by mass) so they can be summed and handed straight to an integrator:
//
//   - [Gravity]: constant (0, -g, 0)
//   - [Drag]: quadratic drag with Reynolds-regime Cd
//   - [Magnus]: spin lift, proportional to spin × v_rel
//
// [AerodynamicTorque] is the one exception and returns raw torque in N·m;
// [ApplyTorque] turns it into an angular velocity change using the diagonal
// inertia. Spin decay and orientation updates ([IntegrateSpin],
// [IntegrateRotation]) run outside the RK4 state.
package physics
