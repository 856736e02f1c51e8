package rdme

import "gonum.org/v1/gonum/mat"

// Algorithm selects which of the three simulation methods a Session
// should drive.
type Algorithm string

// Recognized Algorithm values.
const (
	AlgorithmEuler     Algorithm = "euler"
	AlgorithmGillespie Algorithm = "gillespie"
	AlgorithmTauLeap   Algorithm = "tauleap"
)

// BoundaryCondition selects how a GridSpec axis wraps at its edges.
type BoundaryCondition string

// Recognized BoundaryCondition values.
const (
	BoundaryReflecting BoundaryCondition = "reflecting"
	BoundaryPeriodical BoundaryCondition = "periodical"
)

// SamplingPolicy selects when a Kernel records a trajectory snapshot.
type SamplingPolicy string

// Recognized SamplingPolicy values.
const (
	PolicyOnTSample   SamplingPolicy = "on_t_sample"
	PolicyOnIteration SamplingPolicy = "on_iteration"
	PolicyOnInterval  SamplingPolicy = "on_interval"
	PolicyNoSampling  SamplingPolicy = "no_sampling"
)

// GridSpec describes a regular 3D lattice of cubic meshes, all sharing
// one volume, addressed as mesh index i = x + y*w + z*w*h.
type GridSpec struct {
	W, H, D  int
	CellVol  float64
	BoundX   BoundaryCondition
	BoundY   BoundaryCondition
	BoundZ   BoundaryCondition
}

// GraphEdge connects two mesh nodes of a GraphSpec across a shared
// contact surface a fixed distance apart.
type GraphEdge struct {
	I, J           int
	Surface        float64
	Distance       float64
}

// GraphSpec describes an arbitrary weighted adjacency of mesh nodes,
// each with its own volume.
type GraphSpec struct {
	NNodes int
	Vol    []float64
	Edges  []GraphEdge
}

// Config is the initialize-time contract shared by grid and graph
// sessions: the reaction network, per-environment diffusivities,
// initial state, sampling schedule, and integration parameters. Exactly
// one of Grid or Graph must be set.
type Config struct {
	NSpecies   int
	NReactions int
	NEnv       int

	// MeshState and MeshChstt are species-major, matching the external
	// wire layout: index s*nMeshes+i. MeshEnv holds one environment
	// index per mesh: index i.
	MeshState []float64
	MeshChstt []int
	MeshEnv   []int

	K    []float64 // per-reaction rate constant, length NReactions
	Sub  *mat.Dense // NSpecies x NReactions substrate stoichiometry
	Sto  *mat.Dense // NSpecies x NReactions net stoichiometry change
	REnv *mat.Dense // NReactions x NEnv environment rate multiplier
	D    *mat.Dense // NSpecies x NEnv diffusion coefficient

	SampleT          []float64
	SamplingPolicy   SamplingPolicy
	SamplingInterval float64
	TMax             float64

	DT     float64
	Seed   int64
	Algorithm Algorithm

	Grid  *GridSpec
	Graph *GraphSpec
}

func (c *Config) nMeshes() int {
	if c.Grid != nil {
		return c.Grid.W * c.Grid.H * c.Grid.D
	}
	return c.Graph.NNodes
}

// Validate checks a Config for internal consistency, returning a
// StatusError with the matching wire status code on the first problem
// found.
func (c *Config) Validate() error {
	if c.Algorithm != AlgorithmEuler && c.Algorithm != AlgorithmGillespie && c.Algorithm != AlgorithmTauLeap {
		return newStatusError(StatusInvalidOption, "unrecognized algorithm %q", c.Algorithm)
	}
	switch c.SamplingPolicy {
	case PolicyOnTSample, PolicyOnIteration, PolicyOnInterval, PolicyNoSampling:
	default:
		return newStatusError(StatusInvalidSamplingPolicy, "unrecognized sampling policy %q", c.SamplingPolicy)
	}
	if c.Grid == nil && c.Graph == nil {
		return newStatusError(StatusInvalidOption, "one of Grid or Graph must be set")
	}
	if c.Grid != nil && c.Graph != nil {
		return newStatusError(StatusInvalidOption, "only one of Grid or Graph may be set")
	}
	if c.Grid != nil {
		for _, bc := range []BoundaryCondition{c.Grid.BoundX, c.Grid.BoundY, c.Grid.BoundZ} {
			if bc != BoundaryReflecting && bc != BoundaryPeriodical {
				return newStatusError(StatusInvalidBoundaryCondition, "unrecognized boundary condition %q", bc)
			}
		}
	}
	n := c.nMeshes()
	if len(c.MeshState) != n*c.NSpecies {
		return newStatusError(StatusInvalidOption, "mesh state length %d does not match nMeshes*nSpecies=%d", len(c.MeshState), n*c.NSpecies)
	}
	return nil
}
