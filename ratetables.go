package rdme

import "math"

// RateTables holds the per-mesh reaction and diffusion rate constants
// derived once at initialization time from a Config's stoichiometry,
// per-environment diffusivities, and the chosen Topology. Every kernel
// -- deterministic or stochastic, grid or graph -- reads from the same
// tables; only the propensity/rate formula built on top of them
// differs by algorithm.
type RateTables struct {
	// KR[i][r] is the volume- and environment-adjusted rate constant
	// for reaction r in mesh i.
	KR [][]float64

	// NeighborMesh[i] is the compacted list of meshes reachable from
	// mesh i -- one entry per graph edge, or one entry per grid
	// direction that isn't blocked by a reflecting boundary.
	NeighborMesh [][]int

	// KDOut[i][s*len(NeighborMesh[i])+n] is the per-molecule rate at
	// which species s leaves mesh i towards NeighborMesh[i][n].
	// KDIn is the matching rate at which it arrives, which differs
	// from KDOut only when the two meshes have different volumes.
	KDOut [][]float64
	KDIn  [][]float64
}

// buildRateTables computes the reaction and diffusion rate constants
// for topo from cfg's stoichiometry and diffusivity matrices, following
// David Bernstein's mesoscopic diffusion-constant construction
// (Bernstein, Phys. Rev. E 71, 041103, 2005): the diffusivity between
// two meshes is the harmonic mean of their per-environment
// diffusivities weighted by each mesh's edge length (cube root of its
// volume), and the rate constant scales it by the contact surface over
// the mesh volume times the center-to-center distance.
func buildRateTables(cfg *Config, topo Topology) *RateTables {
	nMeshes := topo.NMeshes()
	rt := &RateTables{
		KR:           make([][]float64, nMeshes),
		NeighborMesh: make([][]int, nMeshes),
		KDOut:        make([][]float64, nMeshes),
		KDIn:         make([][]float64, nMeshes),
	}

	for i := 0; i < nMeshes; i++ {
		env := cfg.MeshEnv[i]
		vol := topo.Vol(i)

		kr := make([]float64, cfg.NReactions)
		for r := 0; r < cfg.NReactions; r++ {
			q := 0.0
			for s := 0; s < cfg.NSpecies; s++ {
				q += cfg.Sub.At(s, r)
			}
			kr[r] = cfg.K[r] * math.Pow(vol, 1-q) * cfg.REnv.At(r, env)
		}
		rt.KR[i] = kr

		slots := topo.NeighborSlots(i)
		var neighbors []int
		var surfaces, distances []float64
		for n := 0; n < slots; n++ {
			j, ok := topo.Neighbor(i, n)
			if !ok {
				continue
			}
			sfc, dst := topo.EdgeAttrs(i, n)
			neighbors = append(neighbors, j)
			surfaces = append(surfaces, sfc)
			distances = append(distances, dst)
		}
		rt.NeighborMesh[i] = neighbors

		nn := len(neighbors)
		kdOut := make([]float64, cfg.NSpecies*nn)
		kdIn := make([]float64, cfg.NSpecies*nn)
		hi := math.Cbrt(vol)
		for s := 0; s < cfg.NSpecies; s++ {
			Di := cfg.D.At(s, env)
			for n := 0; n < nn; n++ {
				j := neighbors[n]
				volJ := topo.Vol(j)
				hj := math.Cbrt(volJ)
				Dj := cfg.D.At(s, cfg.MeshEnv[j])

				var Dij float64
				if Di != 0 && Dj != 0 {
					Dij = (hi + hj) / (hi/Di + hj/Dj)
				}

				kdOut[s*nn+n] = Dij * surfaces[n] / (vol * distances[n])
				kdIn[s*nn+n] = Dij * surfaces[n] / (volJ * distances[n])
			}
		}
		rt.KDOut[i] = kdOut
		rt.KDIn[i] = kdIn
	}

	return rt
}

// fallingFactorial returns n*(n-1)*...*(n-k+1), or 0 if n<k. It is the
// combinatorial term in a Gillespie/tau-leap propensity for a reaction
// that consumes k copies of a species currently present in quantity n.
func fallingFactorial(n float64, k int) float64 {
	if k == 0 {
		return 1
	}
	if n < float64(k) {
		return 0
	}
	p := 1.0
	for q := 0; q < k; q++ {
		p *= n - float64(q)
	}
	return p
}
