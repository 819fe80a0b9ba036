package catalog

import (
	"fmt"
	"sort"

	"github.com/san-kum/trajsim/internal/dynamo"
)

// Catalog is a validated, read-only set of profiles and projectiles.
type Catalog struct {
	profiles    map[string]ForceProfile
	projectiles map[string]ProjectileDefinition
	profileIDs  []string
	projIDs     []string
}

// New validates every entry and returns the catalog, or the first error.
func New(profiles []ForceProfile, projectiles []ProjectileDefinition) (*Catalog, error) {
	c := &Catalog{
		profiles:    make(map[string]ForceProfile, len(profiles)),
		projectiles: make(map[string]ProjectileDefinition, len(projectiles)),
	}
	for _, p := range profiles {
		if err := p.Validate(); err != nil {
			return nil, err
		}
		if _, dup := c.profiles[p.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate id %q", dynamo.ErrInvalidProfile, p.ID)
		}
		c.profiles[p.ID] = p
		c.profileIDs = append(c.profileIDs, p.ID)
	}
	for _, d := range projectiles {
		if err := d.Validate(); err != nil {
			return nil, err
		}
		if _, dup := c.projectiles[d.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate id %q", dynamo.ErrInvalidDefinition, d.ID)
		}
		c.projectiles[d.ID] = d
		c.projIDs = append(c.projIDs, d.ID)
	}
	return c, nil
}

// MustNew is New that panics on an invalid entry.
func MustNew(profiles []ForceProfile, projectiles []ProjectileDefinition) *Catalog {
	c, err := New(profiles, projectiles)
	if err != nil {
		panic(err)
	}
	return c
}

var builtin = MustNew(DefaultProfiles(), DefaultProjectiles())

// Default returns the built-in catalog.
func Default() *Catalog {
	return builtin
}

func (c *Catalog) Profile(id string) (ForceProfile, error) {
	p, ok := c.profiles[id]
	if !ok {
		return ForceProfile{}, fmt.Errorf("%w: %s", dynamo.ErrUnknownProfile, id)
	}
	return p, nil
}

func (c *Catalog) Projectile(id string) (ProjectileDefinition, error) {
	d, ok := c.projectiles[id]
	if !ok {
		return ProjectileDefinition{}, fmt.Errorf("%w: %s", dynamo.ErrUnknownProjectile, id)
	}
	return d, nil
}

// Profiles returns the profiles in registration order.
func (c *Catalog) Profiles() []ForceProfile {
	out := make([]ForceProfile, 0, len(c.profileIDs))
	for _, id := range c.profileIDs {
		out = append(out, c.profiles[id])
	}
	return out
}

// Projectiles returns the projectiles in registration order.
func (c *Catalog) Projectiles() []ProjectileDefinition {
	out := make([]ProjectileDefinition, 0, len(c.projIDs))
	for _, id := range c.projIDs {
		out = append(out, c.projectiles[id])
	}
	return out
}

func (c *Catalog) ListProfiles() []string {
	return sortedCopy(c.profileIDs)
}

func (c *Catalog) ListProjectiles() []string {
	return sortedCopy(c.projIDs)
}

func sortedCopy(ids []string) []string {
	out := append([]string(nil), ids...)
	sort.Strings(out)
	return out
}
