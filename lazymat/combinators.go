// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package lazymat

import (
	"github.com/gomlx/gomlx/pkg/core/dtypes"
	"github.com/gomlx/gomlx/pkg/core/graph"
	. "github.com/gomlx/gomlx/pkg/support/exceptions"
)

// sum is the element-wise sum of same-shaped lazy matrices.
type sum struct {
	terms []Matrix
}

// Sum creates the lazy sum of one or more matrices with identical dimensions.
// Nested sums are flattened.
func Sum(terms ...Matrix) Matrix {
	if len(terms) == 0 {
		Panicf("lazymat.Sum requires at least one term")
	}
	if len(terms) == 1 {
		return terms[0]
	}
	rows, cols := terms[0].Dims()
	flat := make([]Matrix, 0, len(terms))
	for ii, term := range terms {
		r, c := term.Dims()
		if r != rows || c != cols {
			Panicf("lazymat.Sum dimensions mismatch: term #%d is %dx%d, term #0 is %dx%d", ii, r, c, rows, cols)
		}
		if term.Graph() != terms[0].Graph() {
			Panicf("lazymat.Sum terms must belong to the same graph")
		}
		if term.DType() != terms[0].DType() {
			Panicf("lazymat.Sum dtype mismatch: term #%d is %s, term #0 is %s", ii, term.DType(), terms[0].DType())
		}
		if inner, ok := term.(*sum); ok {
			flat = append(flat, inner.terms...)
		} else {
			flat = append(flat, term)
		}
	}
	return &sum{terms: flat}
}

func (m *sum) Graph() *graph.Graph { return m.terms[0].Graph() }
func (m *sum) DType() dtypes.DType { return m.terms[0].DType() }

func (m *sum) Dims() (rows, cols int) { return m.terms[0].Dims() }

func (m *sum) MatMul(x *graph.Node) *graph.Node {
	assertOperand(m, x)
	result := m.terms[0].MatMul(x)
	for _, term := range m.terms[1:] {
		result = graph.Add(result, term.MatMul(x))
	}
	return result
}

func (m *sum) Diagonal() *graph.Node {
	assertSquare(m, "Diagonal")
	result := m.terms[0].Diagonal()
	for _, term := range m.terms[1:] {
		result = graph.Add(result, term.Diagonal())
	}
	return result
}

func (m *sum) Dense() *graph.Node {
	result := m.terms[0].Dense()
	for _, term := range m.terms[1:] {
		result = graph.Add(result, term.Dense())
	}
	return result
}

func (m *sum) Transpose() Matrix {
	transposed := make([]Matrix, len(m.terms))
	for ii, term := range m.terms {
		transposed[ii] = term.Transpose()
	}
	return &sum{terms: transposed}
}

// scaled is scale times another lazy matrix, for a scalar node scale.
type scaled struct {
	scale *graph.Node
	m     Matrix
}

// Scale creates scale·m for a scalar node scale.
func Scale(scale *graph.Node, m Matrix) Matrix {
	if scale.Rank() != 0 {
		Panicf("lazymat.Scale requires a scalar scale, got shape %s", scale.Shape())
	}
	if scale.DType() != m.DType() {
		Panicf("lazymat.Scale dtype mismatch: scale is %s, matrix is %s", scale.DType(), m.DType())
	}
	return &scaled{scale: scale, m: m}
}

func (m *scaled) Graph() *graph.Graph { return m.m.Graph() }
func (m *scaled) DType() dtypes.DType { return m.m.DType() }

func (m *scaled) Dims() (rows, cols int) { return m.m.Dims() }

func (m *scaled) MatMul(x *graph.Node) *graph.Node {
	return graph.Mul(m.scale, m.m.MatMul(x))
}

func (m *scaled) Diagonal() *graph.Node {
	return graph.Mul(m.scale, m.m.Diagonal())
}

func (m *scaled) Dense() *graph.Node {
	return graph.Mul(m.scale, m.m.Dense())
}

func (m *scaled) Transpose() Matrix {
	return &scaled{scale: m.scale, m: m.m.Transpose()}
}

// AddJitter adds jitter·I to a square matrix: the usual guard to keep
// near-singular covariances solvable.
func AddJitter(m Matrix, jitter float64) Matrix {
	n := assertSquare(m, "AddJitter")
	return Sum(m, NewScaledIdentity(n, graph.Scalar(m.Graph(), m.DType(), jitter)))
}
