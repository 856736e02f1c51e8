package rdme

import (
	"fmt"
	"math"
)

// GridToGraph lowers a grid topology to an equivalent GraphSpec: one
// edge per pair of grid-adjacent meshes, plus one explicit edge per
// periodic boundary wrap. Every node keeps the grid's uniform cell
// volume.
func GridToGraph(g *GridTopology) *GraphSpec {
	edgeDst := math.Cbrt(g.CellVol)
	edgeSfc := edgeDst * edgeDst

	n := g.NMeshes()
	vol := make([]float64, n)
	for i := range vol {
		vol[i] = g.CellVol
	}

	var edges []GraphEdge
	addEdge := func(i, j int) {
		edges = append(edges, GraphEdge{I: i, J: j, Surface: edgeSfc, Distance: edgeDst})
	}

	for z := 0; z < g.D; z++ {
		for y := 0; y < g.H; y++ {
			for x := 0; x < g.W; x++ {
				i := g.index(x, y, z)
				if x < g.W-1 {
					addEdge(i, g.index(x+1, y, z))
				}
				if y < g.H-1 {
					addEdge(i, g.index(x, y+1, z))
				}
				if z < g.D-1 {
					addEdge(i, g.index(x, y, z+1))
				}
			}
		}
	}
	if g.BoundX == BoundaryPeriodical {
		for z := 0; z < g.D; z++ {
			for y := 0; y < g.H; y++ {
				addEdge(g.index(g.W-1, y, z), g.index(0, y, z))
			}
		}
	}
	if g.BoundY == BoundaryPeriodical {
		for z := 0; z < g.D; z++ {
			for x := 0; x < g.W; x++ {
				addEdge(g.index(x, g.H-1, z), g.index(x, 0, z))
			}
		}
	}
	if g.BoundZ == BoundaryPeriodical {
		for y := 0; y < g.H; y++ {
			for x := 0; x < g.W; x++ {
				addEdge(g.index(x, y, g.D-1), g.index(x, y, 0))
			}
		}
	}

	return &GraphSpec{NNodes: n, Vol: vol, Edges: edges}
}

// checkIndexMap validates a coarse-graining index map against a space
// of size n with the given per-mesh environment index: every value
// must be -1 (drop the mesh) or a non-negative integer, every integer
// between 0 and its max must be used at least once, and no output
// node may receive input meshes from more than one environment.
func checkIndexMap(indexMap []int, n int, meshEnv []int) error {
	if len(indexMap) != n {
		return fmt.Errorf("rdme: coarse-graining index map length %d does not match space size %d", len(indexMap), n)
	}
	max := -1
	for _, v := range indexMap {
		if v < -1 {
			return fmt.Errorf("rdme: coarse-graining index map must not contain values below -1")
		}
		if v > max {
			max = v
		}
	}
	if max < 0 {
		return fmt.Errorf("rdme: coarse-graining to an empty graph is invalid")
	}
	seen := make([]bool, max+1)
	for _, v := range indexMap {
		if v >= 0 {
			seen[v] = true
		}
	}
	for i, ok := range seen {
		if !ok {
			return fmt.Errorf("rdme: coarse-graining index map is missing output index %d", i)
		}
	}
	env := make([]int, max+1)
	for i := range env {
		env[i] = -2
	}
	for i := 0; i < n; i++ {
		if indexMap[i] == -1 {
			continue
		}
		out := indexMap[i]
		if env[out] == -2 {
			env[out] = meshEnv[i]
		} else if env[out] != meshEnv[i] {
			return fmt.Errorf("rdme: coarse-graining output node %d mixes environments %d and %d", out, env[out], meshEnv[i])
		}
	}
	return nil
}

// CoarseGrainGrid merges groups of grid meshes named by indexMap into
// a coarser graph: output node volumes are the sum of their input
// meshes' volumes, output edges are the surface-area sum of every
// input edge crossing between two output nodes, and output edge
// distances are the Euclidean distance between the input meshes'
// centroids averaged per output node. g must use reflecting boundary
// conditions on every axis; a mesh mapped to -1 is dropped from the
// output. meshEnv is the per-mesh environment index (e.g.
// Config.MeshEnv) that indexMap must not mix within a single output
// node.
func CoarseGrainGrid(g *GridTopology, indexMap []int, meshEnv []int) (*GraphSpec, error) {
	if g.BoundX != BoundaryReflecting || g.BoundY != BoundaryReflecting || g.BoundZ != BoundaryReflecting {
		return nil, fmt.Errorf("rdme: coarse-graining a grid with non-reflecting boundary conditions is not supported")
	}

	n := g.NMeshes()
	if err := checkIndexMap(indexMap, n, meshEnv); err != nil {
		return nil, err
	}

	edge := math.Cbrt(g.CellVol)
	pos := make([][3]float64, n)
	for z := 0; z < g.D; z++ {
		for y := 0; y < g.H; y++ {
			for x := 0; x < g.W; x++ {
				pos[g.index(x, y, z)] = [3]float64{float64(x) * edge, float64(y) * edge, float64(z) * edge}
			}
		}
	}

	space := GridToGraph(g)

	nOut := 0
	for _, v := range indexMap {
		if v+1 > nOut {
			nOut = v + 1
		}
	}
	vol := make([]float64, nOut)
	centroid := make([][3]float64, nOut)
	count := make([]int, nOut)
	for i := 0; i < n; i++ {
		out := indexMap[i]
		if out == -1 {
			continue
		}
		vol[out] += space.Vol[i]
		centroid[out][0] += pos[i][0]
		centroid[out][1] += pos[i][1]
		centroid[out][2] += pos[i][2]
		count[out]++
	}
	for i := range centroid {
		if count[i] == 0 {
			continue
		}
		centroid[i][0] /= float64(count[i])
		centroid[i][1] /= float64(count[i])
		centroid[i][2] /= float64(count[i])
	}

	type edgeKey struct{ i, j int }
	surface := make(map[edgeKey]float64)
	var order []edgeKey
	for _, e := range space.Edges {
		i, j := indexMap[e.I], indexMap[e.J]
		if i == -1 || j == -1 || i == j {
			continue
		}
		if i > j {
			i, j = j, i
		}
		k := edgeKey{i, j}
		if _, ok := surface[k]; !ok {
			order = append(order, k)
		}
		surface[k] += e.Surface
	}

	edges := make([]GraphEdge, 0, len(order))
	for _, k := range order {
		dx := centroid[k.i][0] - centroid[k.j][0]
		dy := centroid[k.i][1] - centroid[k.j][1]
		dz := centroid[k.i][2] - centroid[k.j][2]
		dist := math.Sqrt(dx*dx + dy*dy + dz*dz)
		edges = append(edges, GraphEdge{I: k.i, J: k.j, Surface: surface[k], Distance: dist})
	}

	return &GraphSpec{NNodes: nOut, Vol: vol, Edges: edges}, nil
}

// CoarseGrainState aggregates a mesh-major state and chemostat array
// from a grid onto the graph produced by CoarseGrainGrid with the same
// indexMap: quantities sum, and a chemostat flag is set on the output
// mesh/species pair if it was set on any of the input meshes merged
// into it.
func CoarseGrainState(x []float64, chstt []bool, nSpecies, nMeshesIn int, indexMap []int, nMeshesOut int) (outX []float64, outChstt []bool) {
	outX = make([]float64, nMeshesOut*nSpecies)
	outChstt = make([]bool, nMeshesOut*nSpecies)
	for i := 0; i < nMeshesIn; i++ {
		out := indexMap[i]
		if out == -1 {
			continue
		}
		for s := 0; s < nSpecies; s++ {
			outX[out*nSpecies+s] += x[i*nSpecies+s]
			if chstt[i*nSpecies+s] {
				outChstt[out*nSpecies+s] = true
			}
		}
	}
	return outX, outChstt
}
