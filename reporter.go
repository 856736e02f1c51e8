package rdme

import (
	"fmt"

	"github.com/Knetic/govaluate"
)

// Reporter evaluates a set of named scalar expressions against a
// species-major state snapshot each time one is recorded, storing the
// results alongside the trajectory so a caller doesn't have to
// post-process the whole state buffer to answer questions like "total
// mass of species X" or "combined mass of species X and Y".
//
// Expression variables are species names bound to the sum of that
// species' quantity across every mesh; a "sum" function is also
// available for adding up a chosen subset of those species totals.
// Per-mesh quantities are not bound to any variable.
type Reporter struct {
	species     []string
	expressions map[string]*govaluate.EvaluableExpression
	nMeshes     int

	T       []float64
	Results map[string][]float64
}

// NewReporter compiles named expressions over species (species[i] binds
// to the total quantity of that species across the domain in each
// evaluation).
func NewReporter(species []string, nMeshes int, expressions map[string]string) (*Reporter, error) {
	r := &Reporter{
		species:     species,
		nMeshes:     nMeshes,
		expressions: make(map[string]*govaluate.EvaluableExpression, len(expressions)),
		Results:     make(map[string][]float64, len(expressions)),
	}
	funcs := map[string]govaluate.ExpressionFunction{
		"sum": func(args ...interface{}) (interface{}, error) {
			total := 0.0
			for _, a := range args {
				v, ok := a.(float64)
				if !ok {
					return nil, fmt.Errorf("rdme: sum() arguments must be numeric")
				}
				total += v
			}
			return total, nil
		},
	}
	for name, expr := range expressions {
		compiled, err := govaluate.NewEvaluableExpressionWithFunctions(expr, funcs)
		if err != nil {
			return nil, fmt.Errorf("rdme: reporter expression %q: %w", name, err)
		}
		r.expressions[name] = compiled
	}
	return r, nil
}

// Evaluate runs every compiled expression against a species-major
// state snapshot taken at time t and appends the results.
func (r *Reporter) Evaluate(t float64, speciesMajorState []float64) {
	params := make(map[string]interface{}, len(r.species))
	for s, name := range r.species {
		total := 0.0
		for i := 0; i < r.nMeshes; i++ {
			total += speciesMajorState[s*r.nMeshes+i]
		}
		params[name] = total
	}

	r.T = append(r.T, t)
	for name, expr := range r.expressions {
		v, err := expr.Evaluate(params)
		if err != nil {
			r.Results[name] = append(r.Results[name], 0)
			continue
		}
		f, _ := v.(float64)
		r.Results[name] = append(r.Results[name], f)
	}
}
