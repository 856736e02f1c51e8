package rdme

import (
	"gonum.org/v1/gonum/mat"

	"github.com/sirupsen/logrus"
)

// Kernel is the operation set every algorithm/topology combination
// implements. A Session drives a Kernel to completion through these
// methods; SelectionFallbacks and Complete are read separately by the
// diagnostics-minded caller and aren't part of the tight iterate loop.
type Kernel interface {
	// Iterate advances the simulation by one step (fixed dt for Euler
	// and tau-leap, a drawn interevent time for Gillespie) and reports
	// whether the simulation should keep going.
	Iterate() bool

	// Sample records the current state into the trajectory if it has
	// not already been recorded this iteration.
	Sample()

	T() float64
	Progress() float64

	// State returns the current state, species-major.
	State() []float64

	// Trajectory returns the recorded sample times and the matching
	// species-major snapshots.
	Trajectory() ([]float64, [][]float64)

	NSamples() int
	Complete() bool

	// SelectionFallbacks reports how many times the Gillespie event
	// selection walk fell through to a floating-point rounding clamp
	// instead of finding its event before exhausting the cumulative
	// sum. Always 0 for the deterministic and tau-leap kernels.
	SelectionFallbacks() int
}

// engine holds everything shared by all six kernel implementations:
// the mesh-major working state, the rate tables, the sampling
// schedule, and the RNG. Individual algorithms embed *engine and
// supply their own Iterate.
type engine struct {
	topo Topology
	rt   *RateTables

	nSpecies, nReactions, nEnv, nMeshes int

	meshX     []float64 // mesh-major: i*nSpecies+s
	meshChstt []bool    // mesh-major
	meshEnv   []int

	sub *mat.Dense
	sto *mat.Dense

	t    float64
	dt   float64
	complete bool

	scheduler *samplingScheduler
	rng       *RNG

	sampledT []float64
	sampledX [][]float64
	sampledThisIteration bool

	fallbacks int

	reporter *Reporter
	metrics  *Metrics
	log      *logrus.Logger
}

func newEngine(cfg *Config, topo Topology, stochastic bool) (*engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	nMeshes := topo.NMeshes()

	meshX := SpeciesMajorToMeshMajor(cfg.MeshState, cfg.NSpecies, nMeshes)
	rng := NewRNG(cfg.Seed)
	if stochastic {
		meshX = stochasticInitialize(meshX, nMeshes, cfg.NSpecies, rng)
	}

	meshChsttInt := intSpeciesMajorToMeshMajor(cfg.MeshChstt, cfg.NSpecies, nMeshes)
	meshChstt := make([]bool, len(meshChsttInt))
	for i, v := range meshChsttInt {
		meshChstt[i] = v != 0
	}

	e := &engine{
		topo:       topo,
		rt:         buildRateTables(cfg, topo),
		nSpecies:   cfg.NSpecies,
		nReactions: cfg.NReactions,
		nEnv:       cfg.NEnv,
		nMeshes:    nMeshes,
		meshX:      meshX,
		meshChstt:  meshChstt,
		meshEnv:    append([]int(nil), cfg.MeshEnv...),
		sub:        cfg.Sub,
		sto:        cfg.Sto,
		dt:         cfg.DT,
		scheduler:  newSamplingScheduler(cfg.SamplingPolicy, cfg.SampleT, cfg.SamplingInterval, cfg.TMax),
		rng:        rng,
	}

	e.samplingStep() // t0 sampling, matching Init's trailing SamplingStep call.
	return e, nil
}

// Sample implements Kernel.Sample; per-iteration dedup mirrors the
// original engine's sampling_done_this_iteration flag, which exists so
// that an explicit Sample() call does not record a second snapshot at
// a time the current iteration (or initialization) has already
// sampled.
func (e *engine) Sample() {
	if e.sampledThisIteration {
		return
	}
	row := MeshMajorToSpeciesMajor(e.meshX, e.nSpecies, e.nMeshes)
	e.sampledX = append(e.sampledX, row)
	e.sampledT = append(e.sampledT, e.t)
	e.sampledThisIteration = true
	if e.reporter != nil {
		e.reporter.Evaluate(e.t, row)
	}
	if e.metrics != nil {
		e.metrics.samplesEmitted.Inc()
	}
}

// beginIteration resets the per-iteration sampling dedup flag; every
// kernel's Iterate calls this first, mirroring the original engine
// clearing sampling_done_this_iteration at the top of Iterate().
func (e *engine) beginIteration() {
	e.sampledThisIteration = false
	if e.metrics != nil {
		e.metrics.iterations.Inc()
	}
}

// samplingStep asks the scheduler whether to record a sample at the
// current time. Only on_t_sample needs a catch-up loop -- a step that
// skips past more than one requested sample point must record all of
// them -- since due() advances its own internal cursor each call. The
// other policies want at most one Sample() per iteration; looping on
// on_iteration's unconditionally-true due() would never terminate.
func (e *engine) samplingStep() {
	if e.scheduler.policy == PolicyOnTSample {
		for e.scheduler.due(e.t) {
			e.sampledThisIteration = false
			e.Sample()
		}
		return
	}
	if e.scheduler.due(e.t) {
		e.Sample()
	}
}

func (e *engine) recordTime() {
	if e.metrics != nil {
		e.metrics.simulatedTime.Set(e.t)
	}
}

func (e *engine) checkTMax() {
	if e.scheduler.complete(e.t) {
		e.complete = true
	}
}

func (e *engine) T() float64 { return e.t }

func (e *engine) Progress() float64 {
	if e.scheduler.tMax > 0 {
		return 100 * e.t / e.scheduler.tMax
	}
	return 0
}

func (e *engine) State() []float64 {
	return MeshMajorToSpeciesMajor(e.meshX, e.nSpecies, e.nMeshes)
}

func (e *engine) Trajectory() ([]float64, [][]float64) {
	return e.sampledT, e.sampledX
}

func (e *engine) NSamples() int { return len(e.sampledT) }

func (e *engine) Complete() bool { return e.complete }

func (e *engine) SelectionFallbacks() int { return e.fallbacks }
