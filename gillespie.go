package rdme

import "math"

// gillespieKernel implements Gillespie's exact direct method: at every
// step it computes every reaction and diffusion propensity, draws a
// single event proportional to its share of the total propensity a0,
// applies it, and advances time by an exponentially distributed
// interevent time with rate a0.
//
// Both grid and graph share this implementation. The original engine
// this package replaces had two independently maintained copies, and
// its grid copy dropped the chemostat check that its graph copy kept
// -- silently letting chemostatted species react and diffuse on a
// regular grid. Sharing one implementation over the Topology
// abstraction makes that kind of divergence impossible to reintroduce.
type gillespieKernel struct {
	*engine

	ar  [][]float64 // [mesh][reaction] propensities
	ad  [][]float64 // [mesh][species*nNeighbors+n] propensities
	a0r []float64   // per-mesh reaction propensity sum
	a0d []float64   // per-mesh diffusion propensity sum
	a0  float64
}

func newGillespieKernel(cfg *Config, topo Topology) (*gillespieKernel, error) {
	e, err := newEngine(cfg, topo, true)
	if err != nil {
		return nil, err
	}
	k := &gillespieKernel{
		engine: e,
		ar:     make([][]float64, e.nMeshes),
		ad:     make([][]float64, e.nMeshes),
		a0r:    make([]float64, e.nMeshes),
		a0d:    make([]float64, e.nMeshes),
	}
	for i := 0; i < e.nMeshes; i++ {
		k.ar[i] = make([]float64, e.nReactions)
		k.ad[i] = make([]float64, e.nSpecies*len(e.rt.NeighborMesh[i]))
	}
	return k, nil
}

// reactionPropensity is the Gillespie propensity of reaction r in mesh
// i: the rate constant times the product, over every substrate
// species, of the falling factorial of its quantity at the reaction's
// stoichiometric order.
func (e *engine) reactionPropensity(mesh, reaction int) float64 {
	a := e.rt.KR[mesh][reaction]
	for s := 0; s < e.nSpecies; s++ {
		k := int(e.sub.At(s, reaction))
		if k == 0 {
			continue
		}
		x := e.meshX[mesh*e.nSpecies+s]
		ff := fallingFactorial(x, k)
		if ff == 0 {
			return 0
		}
		a *= ff
	}
	return a
}

func (e *engine) diffusionPropensity(mesh, species, n int) float64 {
	nn := len(e.rt.NeighborMesh[mesh])
	return e.meshX[mesh*e.nSpecies+species] * e.rt.KDOut[mesh][species*nn+n]
}

func (k *gillespieKernel) computePropensities() {
	k.a0 = 0
	for i := 0; i < k.nMeshes; i++ {
		k.a0r[i] = 0
		k.a0d[i] = 0

		for r := 0; r < k.nReactions; r++ {
			p := k.reactionPropensity(i, r)
			k.ar[i][r] = p
			k.a0r[i] += p
			k.a0 += p
		}

		nn := len(k.rt.NeighborMesh[i])
		for s := 0; s < k.nSpecies; s++ {
			for n := 0; n < nn; n++ {
				p := k.diffusionPropensity(i, s, n)
				k.ad[i][s*nn+n] = p
				k.a0d[i] += p
				k.a0 += p
			}
		}
	}
}

// applyReaction and applyDiffusion both honor chemostats per species,
// on both ends of a diffusion event -- see the type doc comment.
func (k *gillespieKernel) applyReaction(mesh, reaction int) {
	for s := 0; s < k.nSpecies; s++ {
		if k.meshChstt[mesh*k.nSpecies+s] {
			continue
		}
		k.meshX[mesh*k.nSpecies+s] += k.sto.At(s, reaction)
	}
}

func (k *gillespieKernel) applyDiffusion(mesh, species, n int) {
	j := k.rt.NeighborMesh[mesh][n]
	if !k.meshChstt[mesh*k.nSpecies+species] {
		k.meshX[mesh*k.nSpecies+species]--
	}
	if !k.meshChstt[j*k.nSpecies+species] {
		k.meshX[j*k.nSpecies+species]++
	}
}

// drawAndApplyEvent walks the cumulative sum of every mesh's reaction
// and diffusion propensity blocks, in mesh order, applying the first
// event whose cumulative range contains the draw. Floating-point
// rounding can in principle leave the draw just past the very last
// block's upper bound; when that happens the walk clamps to that last
// event rather than silently applying nothing, and records the
// occurrence so a caller can tell if it's happening often enough to
// worry about.
type gillespieEvent struct {
	isDiffusion bool
	mesh, idx, slot int
}

func (k *gillespieKernel) drawAndApplyEvent() {
	r := k.rng.Uniform() * k.a0
	cumul := 0.0

	var last gillespieEvent
	haveLast := false

	for i := 0; i < k.nMeshes; i++ {
		for j := 0; j < k.nReactions; j++ {
			if k.ar[i][j] == 0 {
				continue
			}
			cumul += k.ar[i][j]
			last, haveLast = gillespieEvent{mesh: i, idx: j}, true
			if r < cumul {
				k.applyReaction(i, j)
				return
			}
		}

		nn := len(k.rt.NeighborMesh[i])
		for s := 0; s < k.nSpecies; s++ {
			for n := 0; n < nn; n++ {
				if k.ad[i][s*nn+n] == 0 {
					continue
				}
				cumul += k.ad[i][s*nn+n]
				last, haveLast = gillespieEvent{isDiffusion: true, mesh: i, idx: s, slot: n}, true
				if r < cumul {
					k.applyDiffusion(i, s, n)
					return
				}
			}
		}
	}

	// Floating-point drift between the running a0 accumulated in
	// computePropensities and this walk's own cumulative sum can in
	// principle leave r just past the last block's upper bound;
	// clamp to the last nonzero event rather than silently applying
	// nothing this iteration.
	k.fallbacks++
	if k.metrics != nil {
		k.metrics.selectionFallbacks.Inc()
	}
	if !haveLast {
		return
	}
	if last.isDiffusion {
		k.applyDiffusion(last.mesh, last.idx, last.slot)
	} else {
		k.applyReaction(last.mesh, last.idx)
	}
}

func (k *gillespieKernel) iterate() bool {
	if k.complete {
		return false
	}
	k.beginIteration()

	k.computePropensities()
	if k.a0 == 0 {
		k.complete = true
	} else {
		k.drawAndApplyEvent()
		k.dt = -math.Log(1-k.rng.Uniform()) / k.a0
		k.t += k.dt
		k.recordTime()

		k.samplingStep()
		k.checkTMax()
	}
	return !k.complete
}

// GillespieGridKernel exactly simulates a reaction-diffusion system
// laid out on a regular grid, using the Gillespie direct method.
type GillespieGridKernel struct{ *gillespieKernel }

// NewGillespieGridKernel builds a GillespieGridKernel from cfg. cfg.Grid
// must be set. The initial state is converted from a continuous
// concentration field to integer counts by the stochastic initializer.
func NewGillespieGridKernel(cfg *Config) (*GillespieGridKernel, error) {
	k, err := newGillespieKernel(cfg, NewGridTopology(cfg.Grid))
	if err != nil {
		return nil, err
	}
	return &GillespieGridKernel{k}, nil
}

// Iterate implements Kernel.
func (k *GillespieGridKernel) Iterate() bool { return k.gillespieKernel.iterate() }

// GillespieGraphKernel exactly simulates a reaction-diffusion system
// laid out on an arbitrary graph, using the Gillespie direct method.
type GillespieGraphKernel struct{ *gillespieKernel }

// NewGillespieGraphKernel builds a GillespieGraphKernel from cfg.
// cfg.Graph must be set.
func NewGillespieGraphKernel(cfg *Config) (*GillespieGraphKernel, error) {
	k, err := newGillespieKernel(cfg, NewGraphTopology(cfg.Graph))
	if err != nil {
		return nil, err
	}
	return &GillespieGraphKernel{k}, nil
}

// Iterate implements Kernel.
func (k *GillespieGraphKernel) Iterate() bool { return k.gillespieKernel.iterate() }
