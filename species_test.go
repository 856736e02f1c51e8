package rdme

import "testing"

func TestSpeciesMeshRoundTrip(t *testing.T) {
	nSpecies, nMeshes := 3, 4
	speciesMajor := make([]float64, nSpecies*nMeshes)
	for i := range speciesMajor {
		speciesMajor[i] = float64(i) * 1.5
	}

	meshMajor := SpeciesMajorToMeshMajor(speciesMajor, nSpecies, nMeshes)
	back := MeshMajorToSpeciesMajor(meshMajor, nSpecies, nMeshes)

	for i := range speciesMajor {
		if back[i] != speciesMajor[i] {
			t.Fatalf("round trip mismatch at %d: got %v want %v", i, back[i], speciesMajor[i])
		}
	}
}

func TestFallingFactorial(t *testing.T) {
	cases := []struct {
		n    float64
		k    int
		want float64
	}{
		{5, 0, 1},
		{5, 1, 5},
		{5, 2, 20},
		{1, 2, 0},
		{0, 1, 0},
	}
	for _, c := range cases {
		if got := fallingFactorial(c.n, c.k); got != c.want {
			t.Errorf("fallingFactorial(%v, %d) = %v, want %v", c.n, c.k, got, c.want)
		}
	}
}
