package rdme

import "math"

// samplingScheduler decides, at each iteration, whether the current
// state should be recorded into the trajectory. It implements the
// three time-driven policies plus the no-op "no_sampling" policy.
type samplingScheduler struct {
	policy       SamplingPolicy
	sampleT      []float64
	interval     float64
	tMax         float64
	nextT        int
	lastTsiRatio float64
}

func newSamplingScheduler(policy SamplingPolicy, sampleT []float64, interval, tMax float64) *samplingScheduler {
	return &samplingScheduler{
		policy:   policy,
		sampleT:  sampleT,
		interval: interval,
		tMax:     tMax,
		// initialized to -1, not 0, so that on_interval samples at t=0
		// (floor(0/interval) == 0 > -1).
		lastTsiRatio: -1,
	}
}

// due reports whether the scheduler wants a sample recorded at time t.
// For on_t_sample it may need several calls to catch up if the last
// step skipped past more than one requested sample point; callers
// should keep calling due (each call advances at most one sample) in a
// loop until it returns false.
func (s *samplingScheduler) due(t float64) bool {
	switch s.policy {
	case PolicyOnIteration:
		return true
	case PolicyOnTSample:
		if s.nextT < len(s.sampleT) && t >= s.sampleT[s.nextT] {
			s.nextT++
			return true
		}
		return false
	case PolicyOnInterval:
		ratio := math.Floor(t / s.interval)
		if ratio > s.lastTsiRatio {
			s.lastTsiRatio = ratio
			return true
		}
		return false
	default: // PolicyNoSampling
		return false
	}
}

func (s *samplingScheduler) complete(t float64) bool {
	return s.tMax >= 0 && t > s.tMax
}
