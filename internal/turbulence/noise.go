package turbulence

import (
	"math"
	"math/rand"
)

// valueNoise is seeded 4D value noise over a hashed integer lattice. Lattice
// values are fixed per seed, so sampling is a pure function of (seed, x, y, z, t).
type valueNoise struct {
	perm   [512]int
	values [256]float64
}

func newValueNoise(seed int64) *valueNoise {
	rnd := rand.New(rand.NewSource(seed))
	n := &valueNoise{}
	p := rnd.Perm(256)
	for i := 0; i < 512; i++ {
		n.perm[i] = p[i&255]
	}
	for i := range n.values {
		n.values[i] = rnd.Float64()*2 - 1
	}
	return n
}

func (n *valueNoise) lattice(ix, iy, iz, it int) float64 {
	h := n.perm[ix&255]
	h = n.perm[(h+iy)&255]
	h = n.perm[(h+iz)&255]
	h = n.perm[(h+it)&255]
	return n.values[h]
}

func smoothstep(f float64) float64 {
	return f * f * (3 - 2*f)
}

func lerp(a, b, w float64) float64 {
	return a + (b-a)*w
}

// Sample returns smooth noise in [-1, 1].
func (n *valueNoise) Sample(x, y, z, t float64) float64 {
	fx, fy, fz, ft := math.Floor(x), math.Floor(y), math.Floor(z), math.Floor(t)
	ix, iy, iz, it := int(fx), int(fy), int(fz), int(ft)
	ux, uy, uz, ut := smoothstep(x-fx), smoothstep(y-fy), smoothstep(z-fz), smoothstep(t-ft)

	var cube [2]float64
	for dt := 0; dt < 2; dt++ {
		var planes [2]float64
		for dz := 0; dz < 2; dz++ {
			a := lerp(n.lattice(ix, iy, iz+dz, it+dt), n.lattice(ix+1, iy, iz+dz, it+dt), ux)
			b := lerp(n.lattice(ix, iy+1, iz+dz, it+dt), n.lattice(ix+1, iy+1, iz+dz, it+dt), ux)
			planes[dz] = lerp(a, b, uy)
		}
		cube[dt] = lerp(planes[0], planes[1], uz)
	}
	return lerp(cube[0], cube[1], ut)
}

// fractal sums three octaves with weights 1, 0.5, 0.25 at doubling frequency
// and renormalizes back into [-1, 1].
func (n *valueNoise) fractal(x, y, z, t float64) float64 {
	sum, norm := 0.0, 0.0
	amp, freq := 1.0, 1.0
	for o := 0; o < octaves; o++ {
		sum += amp * n.Sample(x*freq, y*freq, z*freq, t*freq)
		norm += amp
		amp *= 0.5
		freq *= 2
	}
	return sum / norm
}
