package metrics

import "github.com/san-kum/trajsim/internal/dynamo"

// ContactTime accumulates the time each launch spends touching the ground.
type ContactTime struct {
	name  string
	last  map[dynamo.LaunchID]float64
	total map[dynamo.LaunchID]float64
}

func NewContactTime() *ContactTime {
	return &ContactTime{
		name:  "contact_time",
		last:  make(map[dynamo.LaunchID]float64),
		total: make(map[dynamo.LaunchID]float64),
	}
}

func (c *ContactTime) Name() string {
	return c.name
}

func (c *ContactTime) OnStep(id dynamo.LaunchID, phase dynamo.Phase, s *dynamo.ProjectileState, env dynamo.EnvironmentState, t float64) {
	dt := t - c.last[id]
	c.last[id] = t
	if phase == dynamo.Grounded || phase == dynamo.Colliding {
		c.total[id] += dt
	}
}

func (c *ContactTime) Value(id dynamo.LaunchID) float64 {
	return c.total[id]
}

func (c *ContactTime) Reset() {
	c.last = make(map[dynamo.LaunchID]float64)
	c.total = make(map[dynamo.LaunchID]float64)
}
