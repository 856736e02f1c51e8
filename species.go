package rdme

// SpeciesMajorToMeshMajor converts an array laid out species-first
// (index s*nMeshes+i, the external wire layout) to mesh-first (index
// i*nSpecies+s, the layout every kernel computes over).
func SpeciesMajorToMeshMajor(v []float64, nSpecies, nMeshes int) []float64 {
	out := make([]float64, len(v))
	for s := 0; s < nSpecies; s++ {
		for i := 0; i < nMeshes; i++ {
			out[i*nSpecies+s] = v[s*nMeshes+i]
		}
	}
	return out
}

// MeshMajorToSpeciesMajor is the inverse of SpeciesMajorToMeshMajor.
func MeshMajorToSpeciesMajor(v []float64, nSpecies, nMeshes int) []float64 {
	out := make([]float64, len(v))
	for s := 0; s < nSpecies; s++ {
		for i := 0; i < nMeshes; i++ {
			out[s*nMeshes+i] = v[i*nSpecies+s]
		}
	}
	return out
}

func intSpeciesMajorToMeshMajor(v []int, nSpecies, nMeshes int) []int {
	out := make([]int, len(v))
	for s := 0; s < nSpecies; s++ {
		for i := 0; i < nMeshes; i++ {
			out[i*nSpecies+s] = v[s*nMeshes+i]
		}
	}
	return out
}
