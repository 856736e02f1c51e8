package main

import (
	"fmt"
	"os"

	"gonum.org/v1/gonum/mat"
	"gopkg.in/yaml.v3"

	"github.com/spatialmodel/rdme"
)

// modelFile is the on-disk description of one simulation run: the
// reaction network, initial state, spatial layout, and integration
// parameters, all in one YAML document a user hand-edits between runs.
type modelFile struct {
	Algorithm string `yaml:"algorithm"`

	Species   []string `yaml:"species"`
	NEnv      int      `yaml:"n_env"`
	Reactions []struct {
		K   float64            `yaml:"k"`
		Sub map[string]float64 `yaml:"sub"`
		Sto map[string]float64 `yaml:"sto"`
		// REnv is the per-environment rate multiplier for this
		// reaction, one entry per environment index. A reaction that
		// omits it gets a multiplier of 1 everywhere.
		REnv []float64 `yaml:"r_env"`
	} `yaml:"reactions"`

	// Diffusion maps a species name to its per-environment diffusion
	// coefficient, one entry per environment index. A species absent
	// from this map does not diffuse.
	Diffusion map[string][]float64 `yaml:"diffusion"`

	Grid *struct {
		W       int     `yaml:"w"`
		H       int     `yaml:"h"`
		D       int     `yaml:"d"`
		CellVol float64 `yaml:"cell_vol"`
		BoundX  string  `yaml:"bound_x"`
		BoundY  string  `yaml:"bound_y"`
		BoundZ  string  `yaml:"bound_z"`
	} `yaml:"grid"`

	Graph *struct {
		Vol   []float64 `yaml:"vol"`
		Edges []struct {
			I        int     `yaml:"i"`
			J        int     `yaml:"j"`
			Surface  float64 `yaml:"surface"`
			Distance float64 `yaml:"distance"`
		} `yaml:"edges"`
	} `yaml:"graph"`

	// MeshEnv assigns an environment index to every mesh, mesh-major.
	// A model that omits it gets environment 0 everywhere.
	MeshEnv []int `yaml:"mesh_env"`

	// State maps a species name to its initial per-mesh quantity,
	// mesh-major. A species absent from this map starts at 0
	// everywhere.
	State map[string][]float64 `yaml:"state"`
	// Chemostat maps a species name to the set of mesh indices where
	// it is held fixed.
	Chemostat map[string][]int `yaml:"chemostat"`

	SamplingPolicy   string    `yaml:"sampling_policy"`
	SampleT          []float64 `yaml:"sample_t"`
	SamplingInterval float64   `yaml:"sampling_interval"`
	TMax             float64   `yaml:"t_max"`
	DT               float64   `yaml:"dt"`
	Seed             int64     `yaml:"seed"`

	Report map[string]string `yaml:"report"`
}

func loadModelFile(path string) (*modelFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading model file: %w", err)
	}
	var m modelFile
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing model file: %w", err)
	}
	return &m, nil
}

func boundaryCondition(s string) rdme.BoundaryCondition {
	if s == "periodical" {
		return rdme.BoundaryPeriodical
	}
	return rdme.BoundaryReflecting
}

// toConfig lowers a modelFile into a rdme.Config, resolving species
// names to matrix indices and filling in the zero-valued defaults the
// YAML form leaves implicit.
func (m *modelFile) toConfig() (*rdme.Config, error) {
	nSpecies := len(m.Species)
	nReactions := len(m.Reactions)
	nEnv := m.NEnv
	if nEnv == 0 {
		nEnv = 1
	}

	speciesIndex := make(map[string]int, nSpecies)
	for i, s := range m.Species {
		speciesIndex[s] = i
	}

	var nMeshes int
	switch {
	case m.Grid != nil:
		nMeshes = m.Grid.W * m.Grid.H * m.Grid.D
	case m.Graph != nil:
		nMeshes = len(m.Graph.Vol)
	default:
		return nil, fmt.Errorf("model file must set exactly one of grid or graph")
	}

	k := make([]float64, nReactions)
	sub := mat.NewDense(nSpecies, nReactions, nil)
	sto := mat.NewDense(nSpecies, nReactions, nil)
	rEnv := mat.NewDense(nReactions, nEnv, nil)
	for r, rx := range m.Reactions {
		k[r] = rx.K
		for name, v := range rx.Sub {
			s, ok := speciesIndex[name]
			if !ok {
				return nil, fmt.Errorf("reaction %d: unknown species %q in sub", r, name)
			}
			sub.Set(s, r, v)
		}
		for name, v := range rx.Sto {
			s, ok := speciesIndex[name]
			if !ok {
				return nil, fmt.Errorf("reaction %d: unknown species %q in sto", r, name)
			}
			sto.Set(s, r, v)
		}
		if len(rx.REnv) == 0 {
			for e := 0; e < nEnv; e++ {
				rEnv.Set(r, e, 1)
			}
		} else {
			for e, v := range rx.REnv {
				rEnv.Set(r, e, v)
			}
		}
	}

	d := mat.NewDense(nSpecies, nEnv, nil)
	for name, coeffs := range m.Diffusion {
		s, ok := speciesIndex[name]
		if !ok {
			return nil, fmt.Errorf("diffusion: unknown species %q", name)
		}
		for e, v := range coeffs {
			d.Set(s, e, v)
		}
	}

	meshEnv := m.MeshEnv
	if len(meshEnv) == 0 {
		meshEnv = make([]int, nMeshes)
	}

	meshState := make([]float64, nSpecies*nMeshes)
	for name, vals := range m.State {
		s, ok := speciesIndex[name]
		if !ok {
			return nil, fmt.Errorf("state: unknown species %q", name)
		}
		copy(meshState[s*nMeshes:(s+1)*nMeshes], vals)
	}

	meshChstt := make([]int, nSpecies*nMeshes)
	for name, meshes := range m.Chemostat {
		s, ok := speciesIndex[name]
		if !ok {
			return nil, fmt.Errorf("chemostat: unknown species %q", name)
		}
		for _, i := range meshes {
			meshChstt[s*nMeshes+i] = 1
		}
	}

	cfg := &rdme.Config{
		NSpecies:         nSpecies,
		NReactions:       nReactions,
		NEnv:             nEnv,
		MeshState:        meshState,
		MeshChstt:        meshChstt,
		MeshEnv:          meshEnv,
		K:                k,
		Sub:              sub,
		Sto:              sto,
		REnv:             rEnv,
		D:                d,
		SampleT:          m.SampleT,
		SamplingPolicy:   rdme.SamplingPolicy(m.SamplingPolicy),
		SamplingInterval: m.SamplingInterval,
		TMax:             m.TMax,
		DT:               m.DT,
		Seed:             m.Seed,
		Algorithm:        rdme.Algorithm(m.Algorithm),
	}

	if m.Grid != nil {
		cfg.Grid = &rdme.GridSpec{
			W: m.Grid.W, H: m.Grid.H, D: m.Grid.D,
			CellVol: m.Grid.CellVol,
			BoundX:  boundaryCondition(m.Grid.BoundX),
			BoundY:  boundaryCondition(m.Grid.BoundY),
			BoundZ:  boundaryCondition(m.Grid.BoundZ),
		}
	} else {
		edges := make([]rdme.GraphEdge, len(m.Graph.Edges))
		for i, e := range m.Graph.Edges {
			edges[i] = rdme.GraphEdge{I: e.I, J: e.J, Surface: e.Surface, Distance: e.Distance}
		}
		cfg.Graph = &rdme.GraphSpec{NNodes: len(m.Graph.Vol), Vol: m.Graph.Vol, Edges: edges}
	}

	return cfg, nil
}
