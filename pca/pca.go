// Public domain.

// Package pca fits principal component bases to collections of light
// curves or spectra stored as matrix rows.
//
// The course labs use it to compress sets of normalized light curves to
// a handful of coefficients.  Fit wraps the gonum decomposition and
// keeps the column means so projections and reconstructions round-trip.
package pca

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Result is a fitted principal component basis.
type Result struct {
	// Mean holds the per-column data means, subtracted before any
	// projection and added back on reconstruction.
	Mean []float64

	vecs *mat.Dense // columns are component directions, d by c
	vars []float64  // score variances, descending, length c
}

// Fit computes the principal components of the rows of m, samples in
// rows and variables in columns.
func Fit(m *mat.Dense) (*Result, error) {
	n, d := m.Dims()
	if n < 2 {
		return nil, fmt.Errorf("pca: need at least 2 rows, have %d", n)
	}
	var pc stat.PC
	if !pc.PrincipalComponents(m, nil) {
		return nil, errors.New("pca: decomposition failed")
	}
	r := &Result{
		Mean: make([]float64, d),
		vecs: &mat.Dense{},
		vars: pc.VarsTo(nil),
	}
	pc.VectorsTo(r.vecs)
	col := make([]float64, n)
	for j := 0; j < d; j++ {
		mat.Col(col, j, m)
		r.Mean[j] = stat.Mean(col, nil)
	}
	return r, nil
}

// Components returns the number of fitted components.
func (r *Result) Components() int {
	_, c := r.vecs.Dims()
	return c
}

// Component returns the direction vector of component j, a unit vector
// over the data columns.
func (r *Result) Component(j int) []float64 {
	return mat.Col(nil, j, r.vecs)
}

// Variances returns the score variances of the components in
// descending order.  Callers must not modify the slice.
func (r *Result) Variances() []float64 { return r.vars }

// VarianceFraction returns the cumulative fraction of total variance
// explained by the leading components: element k is the fraction
// explained by components 0 through k.
func (r *Result) VarianceFraction() []float64 {
	f := make([]float64, len(r.vars))
	tot := floats.Sum(r.vars)
	if tot == 0 {
		return f
	}
	sum := 0.
	for i, v := range r.vars {
		sum += v
		f[i] = sum / tot
	}
	return f
}

// Project returns the coefficients of the rows of m on the first k
// components, an n by k matrix of scores.
func (r *Result) Project(m *mat.Dense, k int) (*mat.Dense, error) {
	n, d := m.Dims()
	if d != len(r.Mean) {
		return nil, fmt.Errorf("pca: data has %d columns, basis has %d", d, len(r.Mean))
	}
	if k < 1 || k > r.Components() {
		return nil, fmt.Errorf("pca: k = %d out of range [1, %d]", k, r.Components())
	}
	c := mat.NewDense(n, d, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < d; j++ {
			c.Set(i, j, m.At(i, j)-r.Mean[j])
		}
	}
	var s mat.Dense
	s.Mul(c, r.vecs.Slice(0, d, 0, k))
	return &s, nil
}

// Reconstruct maps a matrix of scores back to data space, truncating
// the basis to as many components as scores has columns.
func (r *Result) Reconstruct(scores *mat.Dense) (*mat.Dense, error) {
	n, k := scores.Dims()
	if k < 1 || k > r.Components() {
		return nil, fmt.Errorf("pca: %d score columns for a %d component basis", k, r.Components())
	}
	d := len(r.Mean)
	var x mat.Dense
	x.Mul(scores, r.vecs.Slice(0, d, 0, k).T())
	for i := 0; i < n; i++ {
		for j := 0; j < d; j++ {
			x.Set(i, j, x.At(i, j)+r.Mean[j])
		}
	}
	return &x, nil
}
