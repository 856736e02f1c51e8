package rdme

import (
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestTauLeapGridHonorsChemostat(t *testing.T) {
	sub := mat.NewDense(1, 1, []float64{1})
	sto := mat.NewDense(1, 1, []float64{-1})
	rEnv := mat.NewDense(1, 1, []float64{1})
	d := mat.NewDense(1, 1, []float64{0})

	cfg := &Config{
		NSpecies:       1,
		NReactions:     1,
		NEnv:           1,
		MeshState:      []float64{50, 50},
		MeshChstt:      []int{1, 1},
		MeshEnv:        []int{0, 0},
		K:              []float64{10},
		Sub:            sub,
		Sto:            sto,
		REnv:           rEnv,
		D:              d,
		TMax:           1,
		SamplingPolicy: PolicyNoSampling,
		DT:             0.01,
		Seed:           3,
		Algorithm:      AlgorithmTauLeap,
		Grid:           &GridSpec{W: 2, H: 1, D: 1, CellVol: 1, BoundX: BoundaryReflecting, BoundY: BoundaryReflecting, BoundZ: BoundaryReflecting},
	}

	k, err := NewTauLeapGridKernel(cfg)
	if err != nil {
		t.Fatalf("NewTauLeapGridKernel: %v", err)
	}
	before := k.State() // post-initialization integer counts
	for i := 0; i < 50; i++ {
		k.Iterate()
	}

	state := k.State()
	if state[0] != before[0] || state[1] != before[1] {
		t.Fatalf("chemostatted quantities changed: got %v, want %v", state, before)
	}
}

// TestTauLeapGraphHonorsChemostat exercises the tau-leap kernel's
// applyEventCounts chemostat check on a graph topology with unequal
// node volumes, rather than a uniform grid.
func TestTauLeapGraphHonorsChemostat(t *testing.T) {
	sub := mat.NewDense(1, 1, []float64{1})
	sto := mat.NewDense(1, 1, []float64{-1})
	rEnv := mat.NewDense(1, 1, []float64{1})
	d := mat.NewDense(1, 1, []float64{0.5})

	cfg := &Config{
		NSpecies:       1,
		NReactions:     1,
		NEnv:           1,
		MeshState:      []float64{50, 50},
		MeshChstt:      []int{1, 1},
		MeshEnv:        []int{0, 0},
		K:              []float64{10},
		Sub:            sub,
		Sto:            sto,
		REnv:           rEnv,
		D:              d,
		TMax:           1,
		SamplingPolicy: PolicyNoSampling,
		DT:             0.01,
		Seed:           3,
		Algorithm:      AlgorithmTauLeap,
		Graph:          &GraphSpec{
			NNodes: 2,
			Vol:    []float64{1, 8},
			Edges:  []GraphEdge{{I: 0, J: 1, Surface: 1, Distance: 1}},
		},
	}

	k, err := NewTauLeapGraphKernel(cfg)
	if err != nil {
		t.Fatalf("NewTauLeapGraphKernel: %v", err)
	}
	before := k.State() // post-initialization integer counts
	for i := 0; i < 50; i++ {
		k.Iterate()
	}

	state := k.State()
	if state[0] != before[0] || state[1] != before[1] {
		t.Fatalf("chemostatted quantities changed: got %v, want %v", state, before)
	}
}
