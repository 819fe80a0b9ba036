package scenario

import (
	"context"
	"testing"

	"github.com/san-kum/trajsim/internal/catalog"
	"github.com/san-kum/trajsim/internal/config"
	"github.com/san-kum/trajsim/internal/sim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSweepValues(t *testing.T) {
	assert.Equal(t, []float64{10, 20, 30}, Sweep{Min: 10, Max: 30, Steps: 3}.Values())
	assert.Equal(t, []float64{5}, Sweep{Min: 5, Max: 30, Steps: 1}.Values())
}

func TestRunSweepElevation(t *testing.T) {
	sw := Sweep{
		Launch: Launch{Profile: "kick", Projectile: "soccer"},
		Param:  ParamElevation,
		Min:    15,
		Max:    75,
		Steps:  3,
	}

	results, err := RunSweep(context.Background(), sw, config.GetPreset("vacuum"), catalog.Default())
	require.NoError(t, err)
	require.Len(t, results, 3)

	for i, want := range []float64{15, 45, 75} {
		assert.InDelta(t, want, results[i].Value, 1e-9)
	}
	// Steeper launches climb higher and stay up longer.
	assert.Less(t, results[0].Summary.MaxHeight, results[1].Summary.MaxHeight)
	assert.Less(t, results[1].Summary.MaxHeight, results[2].Summary.MaxHeight)
}

func TestRunSweepRejects(t *testing.T) {
	cat := catalog.Default()
	base := config.DefaultConfig()

	_, err := RunSweep(context.Background(), Sweep{
		Launch: Launch{Profile: "kick", Projectile: "soccer"},
		Param:  "colour",
		Steps:  2,
	}, base, cat)
	assert.ErrorIs(t, err, ErrInvalidScenario)

	imp := base.Environment.Wind
	_, err = RunSweep(context.Background(), Sweep{
		Launch: Launch{Projectile: "soccer", Impulse: &imp},
		Param:  ParamForce,
		Steps:  2,
	}, base, cat)
	assert.ErrorIs(t, err, ErrInvalidScenario)
}

func TestBest(t *testing.T) {
	_, ok := Best(nil)
	assert.False(t, ok)

	best, ok := Best([]SweepResult{
		{Value: 1, Summary: sim.Summary{Range: 3}},
		{Value: 2, Summary: sim.Summary{Range: 9}},
		{Value: 3, Summary: sim.Summary{Range: 4}},
	})
	require.True(t, ok)
	assert.Equal(t, 2.0, best.Value)
}

func TestRunSpread(t *testing.T) {
	cat := catalog.Default()
	l := Launch{Profile: "kick", Projectile: "soccer"}

	calm, err := RunSpread(context.Background(), l, 3, 10, config.GetPreset("calm"), cat)
	require.NoError(t, err)
	assert.Equal(t, []int64{10, 11, 12}, calm.Seeds)
	_, std := calm.RangeStats()
	assert.Zero(t, std, "turbulence needs wind")

	gusty, err := RunSpread(context.Background(), l, 3, 10, config.GetPreset("gusty"), cat)
	require.NoError(t, err)
	_, std = gusty.RangeStats()
	assert.Greater(t, std, 0.0)
	mean, _ := gusty.HeightStats()
	assert.Greater(t, mean, 0.0)
}

func TestRunSpreadRejectsZeroRuns(t *testing.T) {
	_, err := RunSpread(context.Background(), Launch{Profile: "kick", Projectile: "soccer"}, 0, 0, config.DefaultConfig(), catalog.Default())
	assert.ErrorIs(t, err, ErrInvalidScenario)
}
