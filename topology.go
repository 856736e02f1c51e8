package rdme

import "math"

// direction order for GridTopology neighbors: +x, -x, +y, -y, +z, -z.
var gridOpposite = [6]int{1, 0, 3, 2, 5, 4}

// Topology abstracts over the two supported spatial layouts so that
// rate-table construction and the kernels can share code wherever the
// grid/graph formulas coincide.
type Topology interface {
	NMeshes() int
	NeighborSlots(i int) int
	Neighbor(i, n int) (j int, ok bool)
	EdgeAttrs(i, n int) (surface, distance float64)
	Vol(i int) float64
}

// GridTopology is a regular 3D lattice of equal-volume cubic meshes,
// six-connected, with a per-axis reflecting or periodic boundary.
type GridTopology struct {
	W, H, D int
	CellVol float64
	BoundX  BoundaryCondition
	BoundY  BoundaryCondition
	BoundZ  BoundaryCondition
}

// NewGridTopology builds a GridTopology from a GridSpec.
func NewGridTopology(g *GridSpec) *GridTopology {
	return &GridTopology{W: g.W, H: g.H, D: g.D, CellVol: g.CellVol, BoundX: g.BoundX, BoundY: g.BoundY, BoundZ: g.BoundZ}
}

func (g *GridTopology) NMeshes() int { return g.W * g.H * g.D }

func (g *GridTopology) NeighborSlots(i int) int { return 6 }

func (g *GridTopology) coords(i int) (x, y, z int) {
	x = i % g.W
	y = (i / g.W) % g.H
	z = i / (g.W * g.H)
	return
}

func (g *GridTopology) index(x, y, z int) int { return x + y*g.W + z*g.W*g.H }

// Neighbor returns the mesh across direction slot n from mesh i,
// applying the axis boundary condition. ok is false at a reflecting
// boundary with no neighbor to report.
func (g *GridTopology) Neighbor(i, n int) (int, bool) {
	x, y, z := g.coords(i)
	switch n {
	case 0: // +x
		if x+1 < g.W {
			return g.index(x+1, y, z), true
		}
		if g.BoundX == BoundaryPeriodical {
			return g.index(0, y, z), true
		}
	case 1: // -x
		if x-1 >= 0 {
			return g.index(x-1, y, z), true
		}
		if g.BoundX == BoundaryPeriodical {
			return g.index(g.W-1, y, z), true
		}
	case 2: // +y
		if y+1 < g.H {
			return g.index(x, y+1, z), true
		}
		if g.BoundY == BoundaryPeriodical {
			return g.index(x, 0, z), true
		}
	case 3: // -y
		if y-1 >= 0 {
			return g.index(x, y-1, z), true
		}
		if g.BoundY == BoundaryPeriodical {
			return g.index(x, g.H-1, z), true
		}
	case 4: // +z
		if z+1 < g.D {
			return g.index(x, y, z+1), true
		}
		if g.BoundZ == BoundaryPeriodical {
			return g.index(x, y, 0), true
		}
	case 5: // -z
		if z-1 >= 0 {
			return g.index(x, y, z-1), true
		}
		if g.BoundZ == BoundaryPeriodical {
			return g.index(x, y, g.D-1), true
		}
	}
	return -1, false
}

// Opposite returns the direction slot that points back from a
// neighbor to mesh i.
func (g *GridTopology) Opposite(n int) int { return gridOpposite[n] }

func (g *GridTopology) edgeLength() float64 {
	// cubic mesh: edge length is the cube root of the cell volume.
	return math.Cbrt(g.CellVol)
}

// EdgeAttrs returns the shared face area and center-to-center distance
// for direction n, both derived from the common cell edge length.
func (g *GridTopology) EdgeAttrs(i, n int) (surface, distance float64) {
	edge := g.edgeLength()
	return edge * edge, edge
}

func (g *GridTopology) Vol(i int) float64 { return g.CellVol }

// GraphTopology is an arbitrary weighted adjacency of mesh nodes, each
// with its own volume, connected by edges carrying a contact surface
// and a center-to-center distance.
type GraphTopology struct {
	vol         []float64
	adjMesh     [][]int
	adjSurface  [][]float64
	adjDistance [][]float64
}

// NewGraphTopology builds a GraphTopology from a GraphSpec, expanding
// its edge list into a symmetric adjacency (an edge {I,J} contributes a
// neighbor slot to both I's and J's lists).
func NewGraphTopology(g *GraphSpec) *GraphTopology {
	t := &GraphTopology{
		vol:         append([]float64(nil), g.Vol...),
		adjMesh:     make([][]int, g.NNodes),
		adjSurface:  make([][]float64, g.NNodes),
		adjDistance: make([][]float64, g.NNodes),
	}
	for _, e := range g.Edges {
		t.adjMesh[e.I] = append(t.adjMesh[e.I], e.J)
		t.adjSurface[e.I] = append(t.adjSurface[e.I], e.Surface)
		t.adjDistance[e.I] = append(t.adjDistance[e.I], e.Distance)

		t.adjMesh[e.J] = append(t.adjMesh[e.J], e.I)
		t.adjSurface[e.J] = append(t.adjSurface[e.J], e.Surface)
		t.adjDistance[e.J] = append(t.adjDistance[e.J], e.Distance)
	}
	return t
}

func (g *GraphTopology) NMeshes() int { return len(g.vol) }

func (g *GraphTopology) NeighborSlots(i int) int { return len(g.adjMesh[i]) }

func (g *GraphTopology) Neighbor(i, n int) (int, bool) {
	if n < 0 || n >= len(g.adjMesh[i]) {
		return -1, false
	}
	return g.adjMesh[i][n], true
}

func (g *GraphTopology) EdgeAttrs(i, n int) (surface, distance float64) {
	return g.adjSurface[i][n], g.adjDistance[i][n]
}

// Vol implements Topology.
func (g *GraphTopology) Vol(i int) float64 { return g.vol[i] }
