// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package lazymat implements lazily-evaluated structured matrices on top of
// GoMLX computation graphs.
//
// A Matrix is a 2D linear operator represented by its structure (diagonal,
// scaled identity, low-rank, Kronecker product, sums and scalings of those, or
// a plain wrapped dense node) rather than by a materialized array. Operations
// that only need matrix-vector products -- most importantly the
// conjugate-gradient Solve -- never materialize the full matrix, so products of
// structure (a Kronecker of two 1000x1000 factors, say) stay cheap.
//
// All results are regular graph nodes: they are differentiable through the
// host autodiff and execute wherever the graph executes. Usage errors (wrong
// ranks, mismatched dimensions) panic with exceptions.Panicf, following the
// graph package's own convention.
package lazymat

import (
	"github.com/gomlx/gomlx/pkg/core/dtypes"
	"github.com/gomlx/gomlx/pkg/core/graph"
	. "github.com/gomlx/gomlx/pkg/support/exceptions"
)

// Matrix is a lazily-evaluated 2D linear operator.
//
// MatMul takes x shaped [cols] or [cols, k] and returns [rows] or [rows, k].
// Diagonal and Dense materialize the main diagonal and the full matrix
// respectively -- implementations are free to build them on demand.
type Matrix interface {
	// Graph the matrix nodes belong to.
	Graph() *graph.Graph

	// DType of the matrix elements.
	DType() dtypes.DType

	// Dims returns the (rows, cols) dimensions.
	Dims() (rows, cols int)

	// MatMul computes m times x, for x of shape [cols] or [cols, k].
	MatMul(x *graph.Node) *graph.Node

	// Diagonal returns the main diagonal as a vector node. Panics for
	// non-square matrices.
	Diagonal() *graph.Node

	// Dense materializes the matrix as a [rows, cols] node.
	Dense() *graph.Node

	// Transpose returns the transposed matrix, preserving structure.
	Transpose() Matrix
}

// HasRoot is implemented by matrices that know a root decomposition R with
// R·Rᵀ = M. R may be rectangular ([rows, rank]). Prefer the package function
// Root, which also resolves roots of the builtin composite structures.
type HasRoot interface {
	Root() Matrix
}

// HasLogDet is implemented by matrices with a cheap exact log-determinant.
// Prefer the package function LogDet, which also resolves the builtin
// composite structures.
type HasLogDet interface {
	LogDet() *graph.Node
}

// assertSquare panics unless m is square.
func assertSquare(m Matrix, op string) int {
	rows, cols := m.Dims()
	if rows != cols {
		Panicf("lazymat.%s requires a square matrix, got %dx%d", op, rows, cols)
	}
	return rows
}

// assertOperand panics unless x is a valid right operand for m.MatMul.
func assertOperand(m Matrix, x *graph.Node) {
	_, cols := m.Dims()
	if x.Rank() != 1 && x.Rank() != 2 {
		Panicf("lazymat MatMul operand must be rank 1 or 2, got shape %s", x.Shape())
	}
	if x.Shape().Dimensions[0] != cols {
		Panicf("lazymat MatMul dimensions mismatch: matrix has %d columns, operand shape is %s", cols, x.Shape())
	}
	if x.DType() != m.DType() {
		Panicf("lazymat MatMul dtype mismatch: matrix is %s, operand is %s", m.DType(), x.DType())
	}
}

// applyDense multiplies a dense [n, m] node by x of rank 1 or 2, preserving
// the operand's rank.
func applyDense(mat, x *graph.Node) *graph.Node {
	if x.Rank() == 1 {
		return graph.Squeeze(graph.MatMul(mat, graph.InsertAxes(x, -1)), -1)
	}
	return graph.MatMul(mat, x)
}

// Root returns a root decomposition R with R·Rᵀ = m, if one is available from
// m's structure (HasRoot implementations, scaled or Kronecker compositions of
// them). The boolean reports availability.
func Root(m Matrix) (Matrix, bool) {
	if hr, ok := m.(HasRoot); ok {
		return hr.Root(), true
	}
	switch mt := m.(type) {
	case *scaled:
		inner, ok := Root(mt.m)
		if !ok {
			return nil, false
		}
		return Scale(graph.Sqrt(mt.scale), inner), true
	case *kronecker:
		ra, ok := Root(mt.a)
		if !ok {
			return nil, false
		}
		rb, ok := Root(mt.b)
		if !ok {
			return nil, false
		}
		return NewKronecker(ra, rb), true
	}
	return nil, false
}

// LogDet returns the log-determinant of m, if it is exactly computable from
// m's structure. The boolean reports availability.
func LogDet(m Matrix) (*graph.Node, bool) {
	if hl, ok := m.(HasLogDet); ok {
		return hl.LogDet(), true
	}
	switch mt := m.(type) {
	case *scaled:
		inner, ok := LogDet(mt.m)
		if !ok {
			return nil, false
		}
		n := assertSquare(mt, "LogDet")
		return graph.Add(graph.MulScalar(graph.Log(mt.scale), float64(n)), inner), true
	case *kronecker:
		la, ok := LogDet(mt.a)
		if !ok {
			return nil, false
		}
		lb, ok := LogDet(mt.b)
		if !ok {
			return nil, false
		}
		na := assertSquare(mt.a, "LogDet")
		nb := assertSquare(mt.b, "LogDet")
		return graph.Add(graph.MulScalar(la, float64(nb)), graph.MulScalar(lb, float64(na))), true
	}
	return nil, false
}
