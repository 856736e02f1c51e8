package rdme

import "math"

// eulerKernel deterministically integrates the reaction-diffusion
// system with fixed-step forward Euler, computing an instantaneous
// dxdt vector for every mesh/species and applying it scaled by dt. It
// backs both EulerGridKernel and EulerGraphKernel: nothing in the
// step formula depends on whether the topology is a grid or a graph,
// only the rate tables built for it do.
type eulerKernel struct {
	*engine
	dxdt []float64
}

func newEulerKernel(cfg *Config, topo Topology) (*eulerKernel, error) {
	e, err := newEngine(cfg, topo, false)
	if err != nil {
		return nil, err
	}
	return &eulerKernel{engine: e, dxdt: make([]float64, e.nMeshes*e.nSpecies)}, nil
}

func (k *eulerKernel) computeDxdt() {
	rr := make([]float64, k.nReactions)
	for i := 0; i < k.nMeshes; i++ {
		for r := 0; r < k.nReactions; r++ {
			rr[r] = k.reactionRate(i, r)
		}

		neighbors := k.rt.NeighborMesh[i]
		nn := len(neighbors)
		for s := 0; s < k.nSpecies; s++ {
			idx := i*k.nSpecies + s
			if k.meshChstt[idx] {
				k.dxdt[idx] = 0
				continue
			}

			d := 0.0
			for r := 0; r < k.nReactions; r++ {
				d += k.sto.At(s, r) * rr[r]
			}
			for n := 0; n < nn; n++ {
				d -= k.diffusionRateDifference(i, s, n)
			}
			k.dxdt[idx] = d
		}
	}
}

func (k *eulerKernel) applyDxdt() {
	for i := range k.dxdt {
		k.meshX[i] += k.dxdt[i] * k.dt
	}
}

// reactionRate computes the continuous mass-action rate of reaction r
// in mesh i: the rate constant times the product, over every
// substrate species, of its quantity raised to its stoichiometric
// coefficient.
func (e *engine) reactionRate(mesh, reaction int) float64 {
	rate := e.rt.KR[mesh][reaction]
	for s := 0; s < e.nSpecies; s++ {
		x := e.meshX[mesh*e.nSpecies+s]
		p := e.sub.At(s, reaction)
		if p == 0 {
			continue
		}
		rate *= math.Pow(x, p)
	}
	return rate
}

// diffusionRateDifference is the net continuous outflow of species s
// from mesh i across neighbor slot n: the mesh's own quantity times
// its outbound rate constant, minus the neighbor's quantity times the
// matching inbound rate constant (the two differ only when the two
// meshes have different volumes).
func (e *engine) diffusionRateDifference(mesh, species, n int) float64 {
	nn := len(e.rt.NeighborMesh[mesh])
	j := e.rt.NeighborMesh[mesh][n]
	out := e.meshX[mesh*e.nSpecies+species] * e.rt.KDOut[mesh][species*nn+n]
	in := e.meshX[j*e.nSpecies+species] * e.rt.KDIn[mesh][species*nn+n]
	return out - in
}

// EulerGridKernel deterministically integrates a reaction-diffusion
// system laid out on a regular grid.
type EulerGridKernel struct{ *eulerKernel }

// NewEulerGridKernel builds an EulerGridKernel from cfg. cfg.Grid must
// be set.
func NewEulerGridKernel(cfg *Config) (*EulerGridKernel, error) {
	k, err := newEulerKernel(cfg, NewGridTopology(cfg.Grid))
	if err != nil {
		return nil, err
	}
	return &EulerGridKernel{k}, nil
}

// Iterate implements Kernel.
func (k *EulerGridKernel) Iterate() bool {
	return k.eulerKernel.iterate()
}

// EulerGraphKernel deterministically integrates a reaction-diffusion
// system laid out on an arbitrary graph.
type EulerGraphKernel struct{ *eulerKernel }

// NewEulerGraphKernel builds an EulerGraphKernel from cfg. cfg.Graph
// must be set.
func NewEulerGraphKernel(cfg *Config) (*EulerGraphKernel, error) {
	k, err := newEulerKernel(cfg, NewGraphTopology(cfg.Graph))
	if err != nil {
		return nil, err
	}
	return &EulerGraphKernel{k}, nil
}

// Iterate implements Kernel.
func (k *EulerGraphKernel) Iterate() bool {
	return k.eulerKernel.iterate()
}

func (k *eulerKernel) iterate() bool {
	if k.complete {
		return false
	}
	k.beginIteration()

	k.computeDxdt()
	k.applyDxdt()
	k.t += k.dt
	k.recordTime()

	k.samplingStep()
	k.checkTMax()
	return !k.complete
}
