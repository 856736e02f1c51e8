package rdme

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// stochasticInitialize converts a continuous, mesh-major concentration
// field into an integer-valued state suitable for a stochastic kernel,
// preserving each species' floored total quantity across the whole
// domain.
//
// Each mesh/species value below 100 is redrawn from a Poisson
// distribution with that value as its mean; at or above 100 it is
// redrawn from a Normal distribution with mean and variance both equal
// to the original value, floored and clamped at 0 (the two agree in
// distribution shape at that scale and Normal sampling is far
// cheaper). The resulting per-species total will not generally match
// the input's floored total exactly, so a correction loop repeatedly
// picks a mesh with probability proportional to its share of the
// original continuous total and removes (or adds) one unit of that
// species until the discrete total matches.
func stochasticInitialize(x []float64, nMeshes, nSpecies int, rng *RNG) []float64 {
	out := make([]float64, len(x))

	species := make([]float64, nMeshes) // scratch: one species' values across every mesh
	cumul := make([]float64, nMeshes)

	totals := make([]float64, nSpecies)
	for s := 0; s < nSpecies; s++ {
		for i := 0; i < nMeshes; i++ {
			species[i] = x[i*nSpecies+s]
		}
		totals[s] = math.Floor(floats.Sum(species))
	}

	for i := 0; i < nMeshes*nSpecies; i++ {
		if x[i] < 100 {
			out[i] = rng.Poisson(x[i])
		} else {
			out[i] = math.Max(0, math.Floor(rng.Normal(x[i], math.Sqrt(x[i]))))
		}
	}

	discreteTotals := make([]float64, nSpecies)
	for s := 0; s < nSpecies; s++ {
		for i := 0; i < nMeshes; i++ {
			species[i] = out[i*nSpecies+s]
		}
		discreteTotals[s] = floats.Sum(species)
	}

	for s := 0; s < nSpecies; s++ {
		delta := int(discreteTotals[s] - totals[s])
		if delta == 0 {
			continue
		}
		removeSpecies := delta > 0
		if delta < 0 {
			delta = -delta
		}

		for i := 0; i < nMeshes; i++ {
			species[i] = x[i*nSpecies+s]
		}
		floats.CumSum(cumul, species)

		removed := 0
		for removed < delta {
			target := rng.Uniform() * totals[s]
			i := 0
			for i < nMeshes-1 && cumul[i] <= target {
				i++
			}
			if removeSpecies {
				// The draw above is proportional to each mesh's share of
				// the original continuous mass, which can point at a
				// mesh whose discrete count already floored to 0 (most
				// visibly when totals[s] itself floors to 0, collapsing
				// every draw to the same index). Walk forward from there
				// to the nearest mesh that still has something to remove
				// instead of spinning on an index that never pays out.
				j := i
				for k := 0; k < nMeshes; k++ {
					idx := (i + k) % nMeshes
					if out[idx*nSpecies+s] > 0 {
						j = idx
						break
					}
				}
				out[j*nSpecies+s]--
				removed++
			} else {
				out[i*nSpecies+s]++
				removed++
			}
		}
	}

	return out
}
