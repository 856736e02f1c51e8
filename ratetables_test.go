package rdme

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

// buildTestGridConfig returns a 2x1x1 grid, one species A diffusing with
// coefficient 1 in environment 0, and one reaction A -> nothing with
// rate constant k.
func buildTestGridConfig(k float64) *Config {
	sub := mat.NewDense(1, 1, []float64{1}) // reaction consumes 1 A
	sto := mat.NewDense(1, 1, []float64{-1})
	rEnv := mat.NewDense(1, 1, []float64{1})
	d := mat.NewDense(1, 1, []float64{1})

	return &Config{
		NSpecies:   1,
		NReactions: 1,
		NEnv:       1,
		MeshState:  []float64{10, 20}, // species-major: A in mesh0, A in mesh1
		MeshChstt:  []int{0, 0},
		MeshEnv:    []int{0, 0},
		K:          []float64{k},
		Sub:        sub,
		Sto:        sto,
		REnv:       rEnv,
		D:          d,
		TMax:       1,
		DT:         0.01,
		Algorithm:  AlgorithmEuler,
		Grid:       &GridSpec{W: 2, H: 1, D: 1, CellVol: 1, BoundX: BoundaryReflecting, BoundY: BoundaryReflecting, BoundZ: BoundaryReflecting},
	}
}

func TestBuildRateTablesEqualVolumeSymmetric(t *testing.T) {
	cfg := buildTestGridConfig(0.5)
	topo := NewGridTopology(cfg.Grid)
	rt := buildRateTables(cfg, topo)

	// Reaction: q=1 (one substrate at stoichiometric power 1), vol=1,
	// so kr = k * vol^(1-1) * r_env = k.
	if got := rt.KR[0][0]; math.Abs(got-0.5) > 1e-12 {
		t.Errorf("KR[0][0] = %v, want 0.5", got)
	}

	// Equal-volume grid: kd_out and kd_in must match exactly.
	for i := range rt.KDOut {
		for n := range rt.KDOut[i] {
			if rt.KDOut[i][n] != rt.KDIn[i][n] {
				t.Errorf("mesh %d slot %d: KDOut=%v KDIn=%v, want equal on a uniform grid", i, n, rt.KDOut[i][n], rt.KDIn[i][n])
			}
		}
	}
}

// TestBuildRateTablesGraphAsymmetricVolumes reproduces the two-node
// graph with unequal volumes: kd_out is the rate constant seen by the
// smaller-volume mesh sending mass out, kd_in is the rate constant
// applied to the larger-volume neighbor's quantity flowing back into
// the smaller mesh, and the two differ by the volume ratio.
func TestBuildRateTablesGraphAsymmetricVolumes(t *testing.T) {
	sub := mat.NewDense(1, 1, []float64{1})
	sto := mat.NewDense(1, 1, []float64{-1})
	rEnv := mat.NewDense(1, 1, []float64{1})
	d := mat.NewDense(1, 1, []float64{1})

	cfg := &Config{
		NSpecies:   1,
		NReactions: 1,
		NEnv:       1,
		MeshEnv:    []int{0, 0},
		K:          []float64{1},
		Sub:        sub,
		Sto:        sto,
		REnv:       rEnv,
		D:          d,
	}
	graph := &GraphSpec{
		NNodes: 2,
		Vol:    []float64{1, 8},
		Edges:  []GraphEdge{{I: 0, J: 1, Surface: 1, Distance: 1}},
	}
	topo := NewGraphTopology(graph)
	rt := buildRateTables(cfg, topo)

	if got := rt.KDOut[0][0]; math.Abs(got-1) > 1e-9 {
		t.Errorf("kd_out (mesh 0 -> mesh 1) = %v, want 1", got)
	}
	if got := rt.KDIn[0][0]; math.Abs(got-0.125) > 1e-9 {
		t.Errorf("kd_in (mesh 0 -> mesh 1) = %v, want 0.125", got)
	}
}

func TestBuildRateTablesZeroDiffusivityGivesZeroRate(t *testing.T) {
	cfg := buildTestGridConfig(0.5)
	cfg.D.Set(0, 0, 0)
	topo := NewGridTopology(cfg.Grid)
	rt := buildRateTables(cfg, topo)

	for i := range rt.KDOut {
		for n := range rt.KDOut[i] {
			if rt.KDOut[i][n] != 0 {
				t.Errorf("mesh %d slot %d: KDOut=%v, want 0 with zero diffusivity", i, n, rt.KDOut[i][n])
			}
		}
	}
}
