package rdme

import "testing"

func minimalValidConfig() *Config {
	return &Config{
		NSpecies:       1,
		NReactions:     0,
		NEnv:           1,
		MeshState:      []float64{0, 0},
		MeshChstt:      []int{0, 0},
		MeshEnv:        []int{0, 0},
		SamplingPolicy: PolicyNoSampling,
		Algorithm:      AlgorithmEuler,
		Grid:           &GridSpec{W: 2, H: 1, D: 1, CellVol: 1, BoundX: BoundaryReflecting, BoundY: BoundaryReflecting, BoundZ: BoundaryReflecting},
	}
}

func TestConfigValidateOK(t *testing.T) {
	if err := minimalValidConfig().Validate(); err != nil {
		t.Fatalf("expected a valid config to pass validation, got %v", err)
	}
}

func TestConfigValidateUnrecognizedAlgorithm(t *testing.T) {
	c := minimalValidConfig()
	c.Algorithm = "not-a-real-algorithm"
	err := c.Validate()
	assertStatus(t, err, StatusInvalidOption)
}

func TestConfigValidateUnrecognizedSamplingPolicy(t *testing.T) {
	c := minimalValidConfig()
	c.SamplingPolicy = "not-a-real-policy"
	err := c.Validate()
	assertStatus(t, err, StatusInvalidSamplingPolicy)
}

func TestConfigValidateUnrecognizedBoundaryCondition(t *testing.T) {
	c := minimalValidConfig()
	c.Grid.BoundX = "not-a-real-boundary"
	err := c.Validate()
	assertStatus(t, err, StatusInvalidBoundaryCondition)
}

func TestConfigValidateRequiresExactlyOneTopology(t *testing.T) {
	c := minimalValidConfig()
	c.Grid = nil
	assertStatus(t, c.Validate(), StatusInvalidOption)

	c = minimalValidConfig()
	c.Graph = &GraphSpec{NNodes: 2, Vol: []float64{1, 1}}
	assertStatus(t, c.Validate(), StatusInvalidOption)
}

func TestConfigValidateMeshStateLengthMismatch(t *testing.T) {
	c := minimalValidConfig()
	c.MeshState = []float64{0}
	assertStatus(t, c.Validate(), StatusInvalidOption)
}

func assertStatus(t *testing.T, err error, want int) {
	t.Helper()
	se, ok := err.(*StatusError)
	if !ok {
		t.Fatalf("expected a *StatusError, got %T (%v)", err, err)
	}
	if se.Code() != want {
		t.Fatalf("status code = %d, want %d", se.Code(), want)
	}
}
