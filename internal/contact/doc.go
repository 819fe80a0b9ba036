// Package contact resolves ground and obstacle contact for spherical
// projectiles.
//
// Each sub-step a projectile is classified against the local ground:
//
//	Airborne   clear of the ground by more than the contact tolerance
//	Colliding  touching and moving into the ground faster than CollisionSpeed
//	Grounded   touching with small normal velocity (rolling or sliding)
//
// Collisions use an impulse with restitution and Coulomb-clamped friction,
// both coupled to angular velocity through the contact offset r = -n·radius.
// Grounded bodies receive a fraction of the slip-cancelling friction impulse
// per step, Coulomb rolling resistance and extra damping at creep speeds.
//
// The ground is either flat or a deterministic bumpy surface. Static boxes act
// as simplified walls: push-out plus a partial bounce on the impact axis.
package contact
