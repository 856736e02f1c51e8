package rdme

// tauLeapKernel approximates the exact Gillespie process by fixing dt
// and, for each reaction and each diffusion direction, drawing the
// number of times it fires in that interval from a Poisson
// distribution parameterized by its propensity times dt, then applying
// every draw at once. It shares its topology-agnostic step formula
// between the grid and graph variants the same way eulerKernel and
// gillespieKernel do.
type tauLeapKernel struct {
	*engine

	nr [][]float64 // [mesh][reaction] event counts drawn this step
	nd [][]float64 // [mesh][species*nNeighbors+n] event counts drawn this step
}

func newTauLeapKernel(cfg *Config, topo Topology) (*tauLeapKernel, error) {
	e, err := newEngine(cfg, topo, true)
	if err != nil {
		return nil, err
	}
	k := &tauLeapKernel{engine: e, nr: make([][]float64, e.nMeshes), nd: make([][]float64, e.nMeshes)}
	for i := 0; i < e.nMeshes; i++ {
		k.nr[i] = make([]float64, e.nReactions)
		k.nd[i] = make([]float64, e.nSpecies*len(e.rt.NeighborMesh[i]))
	}
	return k, nil
}

func (k *tauLeapKernel) computeEventCounts() {
	for i := 0; i < k.nMeshes; i++ {
		for r := 0; r < k.nReactions; r++ {
			k.nr[i][r] = k.rng.Poisson(k.reactionPropensity(i, r) * k.dt)
		}

		nn := len(k.rt.NeighborMesh[i])
		for s := 0; s < k.nSpecies; s++ {
			for n := 0; n < nn; n++ {
				k.nd[i][s*nn+n] = k.rng.Poisson(k.diffusionPropensity(i, s, n) * k.dt)
			}
		}
	}
}

func (k *tauLeapKernel) applyEventCounts() {
	for i := 0; i < k.nMeshes; i++ {
		for r := 0; r < k.nReactions; r++ {
			n := k.nr[i][r]
			if n == 0 {
				continue
			}
			for s := 0; s < k.nSpecies; s++ {
				if k.meshChstt[i*k.nSpecies+s] {
					continue
				}
				k.meshX[i*k.nSpecies+s] += k.sto.At(s, r) * n
			}
		}

		nn := len(k.rt.NeighborMesh[i])
		for s := 0; s < k.nSpecies; s++ {
			for slot := 0; slot < nn; slot++ {
				n := k.nd[i][s*nn+slot]
				if n == 0 {
					continue
				}
				j := k.rt.NeighborMesh[i][slot]
				if !k.meshChstt[i*k.nSpecies+s] {
					k.meshX[i*k.nSpecies+s] -= n
				}
				if !k.meshChstt[j*k.nSpecies+s] {
					k.meshX[j*k.nSpecies+s] += n
				}
			}
		}
	}
}

func (k *tauLeapKernel) iterate() bool {
	if k.complete {
		return false
	}
	k.beginIteration()

	k.computeEventCounts()
	k.applyEventCounts()
	k.t += k.dt
	k.recordTime()

	k.samplingStep()
	k.checkTMax()
	return !k.complete
}

// TauLeapGridKernel approximates a reaction-diffusion system laid out
// on a regular grid using the tau-leap method.
type TauLeapGridKernel struct{ *tauLeapKernel }

// NewTauLeapGridKernel builds a TauLeapGridKernel from cfg. cfg.Grid
// must be set.
func NewTauLeapGridKernel(cfg *Config) (*TauLeapGridKernel, error) {
	k, err := newTauLeapKernel(cfg, NewGridTopology(cfg.Grid))
	if err != nil {
		return nil, err
	}
	return &TauLeapGridKernel{k}, nil
}

// Iterate implements Kernel.
func (k *TauLeapGridKernel) Iterate() bool { return k.tauLeapKernel.iterate() }

// TauLeapGraphKernel approximates a reaction-diffusion system laid out
// on an arbitrary graph using the tau-leap method.
type TauLeapGraphKernel struct{ *tauLeapKernel }

// NewTauLeapGraphKernel builds a TauLeapGraphKernel from cfg. cfg.Graph
// must be set.
func NewTauLeapGraphKernel(cfg *Config) (*TauLeapGraphKernel, error) {
	k, err := newTauLeapKernel(cfg, NewGraphTopology(cfg.Graph))
	if err != nil {
		return nil, err
	}
	return &TauLeapGraphKernel{k}, nil
}

// Iterate implements Kernel.
func (k *TauLeapGraphKernel) Iterate() bool { return k.tauLeapKernel.iterate() }
