package rdme

import "testing"

func TestSamplingSchedulerOnIntervalSamplesAtZero(t *testing.T) {
	s := newSamplingScheduler(PolicyOnInterval, nil, 1.0, 10)
	if !s.due(0) {
		t.Fatal("on_interval scheduler should be due at t=0")
	}
	if s.due(0) {
		t.Fatal("on_interval scheduler should not fire twice at the same t")
	}
	if !s.due(1.0) {
		t.Fatal("on_interval scheduler should be due at t=1.0")
	}
}

func TestSamplingSchedulerOnTSampleCatchesUp(t *testing.T) {
	s := newSamplingScheduler(PolicyOnTSample, []float64{1, 2, 3}, 0, 10)
	count := 0
	for s.due(2.5) {
		count++
	}
	if count != 2 {
		t.Fatalf("on_t_sample should catch up on 2 skipped points, got %d", count)
	}
	if s.due(2.5) {
		t.Fatal("on_t_sample should not re-fire for the same t after catching up")
	}
}

func TestSamplingSchedulerNoSampling(t *testing.T) {
	s := newSamplingScheduler(PolicyNoSampling, nil, 0, 10)
	if s.due(0) || s.due(5) {
		t.Fatal("no_sampling scheduler should never be due")
	}
}

func TestSamplingSchedulerComplete(t *testing.T) {
	s := newSamplingScheduler(PolicyOnIteration, nil, 0, 5)
	if s.complete(5) {
		t.Fatal("scheduler should not be complete exactly at t_max")
	}
	if !s.complete(5.001) {
		t.Fatal("scheduler should be complete just past t_max")
	}
}
