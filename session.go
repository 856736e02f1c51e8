package rdme

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

// Session is the SessionController driving one Kernel through the
// External Interfaces operations: initialize once, iterate to
// completion, and read back state, trajectory, and progress at any
// point in between.
//
// Log, if set, receives one Info-level entry per completed iteration
// carrying the iteration count, current time, and wall-clock elapsed;
// a nil Log is silently skipped, so a caller uninterested in this kind
// of progress narration doesn't have to install a no-op logger.
type Session struct {
	Log logrus.FieldLogger

	kernel     Kernel
	iterations int
	startedAt  time.Time
}

// InitializeGrid builds and attaches a grid-topology kernel for the
// algorithm named in cfg.Algorithm.
func (s *Session) InitializeGrid(cfg *Config) error {
	if cfg.Grid == nil {
		return newStatusError(StatusInvalidOption, "InitializeGrid requires cfg.Grid")
	}
	var k Kernel
	var err error
	switch cfg.Algorithm {
	case AlgorithmEuler:
		k, err = NewEulerGridKernel(cfg)
	case AlgorithmGillespie:
		k, err = NewGillespieGridKernel(cfg)
	case AlgorithmTauLeap:
		k, err = NewTauLeapGridKernel(cfg)
	default:
		return newStatusError(StatusInvalidOption, "unrecognized algorithm %q", cfg.Algorithm)
	}
	if err != nil {
		return err
	}
	s.attach(k)
	return nil
}

// InitializeGraph builds and attaches a graph-topology kernel for the
// algorithm named in cfg.Algorithm.
func (s *Session) InitializeGraph(cfg *Config) error {
	if cfg.Graph == nil {
		return newStatusError(StatusInvalidOption, "InitializeGraph requires cfg.Graph")
	}
	var k Kernel
	var err error
	switch cfg.Algorithm {
	case AlgorithmEuler:
		k, err = NewEulerGraphKernel(cfg)
	case AlgorithmGillespie:
		k, err = NewGillespieGraphKernel(cfg)
	case AlgorithmTauLeap:
		k, err = NewTauLeapGraphKernel(cfg)
	default:
		return newStatusError(StatusInvalidOption, "unrecognized algorithm %q", cfg.Algorithm)
	}
	if err != nil {
		return err
	}
	s.attach(k)
	return nil
}

func (s *Session) attach(k Kernel) {
	s.kernel = k
	s.iterations = 0
	s.startedAt = time.Now()
}

// AttachMetrics registers Prometheus instrumentation for this
// Session's kernel. Must be called after Initialize{Grid,Graph}.
func (s *Session) AttachMetrics(reg prometheus.Registerer) {
	m := NewMetrics(reg)
	if e := s.baseEngine(); e != nil {
		e.metrics = m
	}
}

// AttachReporter installs a Reporter that gets evaluated every time
// the kernel records a trajectory sample. Must be called after
// Initialize{Grid,Graph}.
func (s *Session) AttachReporter(r *Reporter) {
	if e := s.baseEngine(); e != nil {
		e.reporter = r
	}
}

// baseEngine reaches through whichever concrete kernel type is
// attached to get at the shared engine fields AttachMetrics and
// AttachReporter need to set. It's an unexported escape hatch rather
// than a Kernel interface method because those two knobs are session
// wiring, not part of the operation set a caller drives a kernel
// through.
func (s *Session) baseEngine() *engine {
	switch k := s.kernel.(type) {
	case *EulerGridKernel:
		return k.engine
	case *EulerGraphKernel:
		return k.engine
	case *GillespieGridKernel:
		return k.engine
	case *GillespieGraphKernel:
		return k.engine
	case *TauLeapGridKernel:
		return k.engine
	case *TauLeapGraphKernel:
		return k.engine
	default:
		return nil
	}
}

// Iterate advances the simulation by one step. It reports false without
// doing anything if no kernel is attached (before Initialize{Grid,Graph}
// or after Finalize).
func (s *Session) Iterate() bool {
	if s.kernel == nil {
		return false
	}
	unfinished := s.kernel.Iterate()
	s.iterations++
	s.logIteration()
	return unfinished
}

// IterateN advances the simulation by up to n steps, stopping early if
// the simulation completes. It reports false without doing anything if
// no kernel is attached.
func (s *Session) IterateN(n int) bool {
	if s.kernel == nil {
		return false
	}
	unfinished := true
	for i := 0; i < n; i++ {
		unfinished = s.Iterate()
		if !unfinished {
			break
		}
	}
	return unfinished
}

// Run advances the simulation until it completes or breathe elapses,
// whichever comes first, matching the C-ABI's cooperative "breathe"
// budget for embedding this engine in a UI event loop. It reports false
// without doing anything if no kernel is attached.
func (s *Session) Run(breathe time.Duration) bool {
	if s.kernel == nil {
		return false
	}
	unfinished := true
	start := time.Now()
	for {
		unfinished = s.Iterate()
		if !unfinished || time.Since(start) >= breathe {
			break
		}
	}
	return unfinished
}

func (s *Session) logIteration() {
	if s.Log == nil {
		return
	}
	s.Log.WithFields(logrus.Fields{
		"iteration": s.iterations,
		"t":         s.kernel.T(),
		"walltime":  time.Since(s.startedAt).String(),
	}).Info("rdme iteration")
}

// Sample records the current state into the trajectory. A no-op if no
// kernel is attached.
func (s *Session) Sample() {
	if s.kernel == nil {
		return
	}
	s.kernel.Sample()
}

// GetProgress returns 100*t/tMax, or 0 if tMax is not positive or no
// kernel is attached.
func (s *Session) GetProgress() float64 {
	if s.kernel == nil {
		return 0
	}
	return s.kernel.Progress()
}

// GetT returns the current simulated time, or 0 if no kernel is
// attached.
func (s *Session) GetT() float64 {
	if s.kernel == nil {
		return 0
	}
	return s.kernel.T()
}

// GetState returns the current state, species-major, or nil if no
// kernel is attached.
func (s *Session) GetState() []float64 {
	if s.kernel == nil {
		return nil
	}
	return s.kernel.State()
}

// GetOutput returns the recorded trajectory as a species-major,
// time-major flattened array: index n*nMeshes*nSpecies + s*nMeshes + i.
// Returns nil if no kernel is attached.
func (s *Session) GetOutput() []float64 {
	if s.kernel == nil {
		return nil
	}
	_, snapshots := s.kernel.Trajectory()
	if len(snapshots) == 0 {
		return nil
	}
	stride := len(snapshots[0])
	out := make([]float64, len(snapshots)*stride)
	for n, row := range snapshots {
		copy(out[n*stride:(n+1)*stride], row)
	}
	return out
}

// GetTSample returns the recorded sample times, or nil if no kernel is
// attached.
func (s *Session) GetTSample() []float64 {
	if s.kernel == nil {
		return nil
	}
	t, _ := s.kernel.Trajectory()
	return t
}

// GetNSamples returns the number of samples recorded so far, or 0 if
// no kernel is attached.
func (s *Session) GetNSamples() int {
	if s.kernel == nil {
		return 0
	}
	return s.kernel.NSamples()
}

// SelectionFallbacks reports how many times the attached Gillespie
// kernel's event selection fell through to its floating-point
// rounding clamp. Always 0 for the deterministic and tau-leap kernels,
// and for a Session with no kernel attached.
func (s *Session) SelectionFallbacks() int {
	if s.kernel == nil {
		return 0
	}
	return s.kernel.SelectionFallbacks()
}

// Finalize releases the attached kernel. The Session may be
// re-initialized afterwards.
func (s *Session) Finalize() {
	s.kernel = nil
}
