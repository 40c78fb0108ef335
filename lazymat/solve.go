// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package lazymat

import (
	"github.com/gomlx/gomlx/pkg/core/graph"
)

// DefaultSolveIterations caps the conjugate-gradient unroll when no explicit
// iteration count is given. In exact arithmetic CG converges in at most n
// steps; in floating point this many is plenty for well-conditioned
// covariances.
const DefaultSolveIterations = 64

// cgDenominatorEpsilon keeps the CG step-size denominators away from zero once
// the residual has converged. Negligible relative to any meaningful dot
// product.
const cgDenominatorEpsilon = 1e-30

// Solve computes m⁻¹·rhs by conjugate gradients, touching m only through
// MatMul, so it works on any lazy structure without materializing it. m must
// be square, symmetric and positive-definite -- that is the caller's contract,
// as usual with CG; use AddJitter for near-singular matrices.
//
// rhs may be a vector [n] or a matrix [n, k] (each column solved
// independently). The result has the shape of rhs and is differentiable
// through the host autodiff.
//
// Diagonal and scaled-identity matrices short-circuit to an exact
// element-wise division.
func Solve(m Matrix, rhs *graph.Node) *graph.Node {
	return SolveWithIterations(m, rhs, 0)
}

// SolveWithIterations is Solve with an explicit number of CG iterations.
// iterations <= 0 selects min(n, DefaultSolveIterations).
func SolveWithIterations(m Matrix, rhs *graph.Node, iterations int) *graph.Node {
	n := assertSquare(m, "Solve")
	assertOperand(m, rhs)

	// Structure-aware exact paths.
	switch mt := m.(type) {
	case *diagonal:
		if rhs.Rank() == 1 {
			return graph.Div(rhs, mt.diag)
		}
		return graph.Div(rhs, graph.InsertAxes(mt.diag, -1))
	case *scaledIdentity:
		return graph.Div(rhs, mt.scale)
	}

	if iterations <= 0 {
		iterations = min(n, DefaultSolveIterations)
	}

	isVector := rhs.Rank() == 1
	b := rhs
	if isVector {
		b = graph.InsertAxes(rhs, -1)
	}

	// Plain CG with zero initial guess, unrolled: the graph is static, and the
	// unrolled op path keeps gradients flowing without host control flow.
	x := graph.ZerosLike(b)
	r := b
	p := b
	rs := columnDots(r, r)
	for it := 0; it < iterations; it++ {
		ap := m.MatMul(p)
		alpha := graph.Div(rs, graph.AddScalar(columnDots(p, ap), cgDenominatorEpsilon))
		x = graph.Add(x, graph.Mul(alpha, p))
		r = graph.Sub(r, graph.Mul(alpha, ap))
		rsNext := columnDots(r, r)
		beta := graph.Div(rsNext, graph.AddScalar(rs, cgDenominatorEpsilon))
		p = graph.Add(r, graph.Mul(beta, p))
		rs = rsNext
	}

	if isVector {
		x = graph.Squeeze(x, -1)
	}
	return x
}

// columnDots returns the per-column dot products of two [n, k] nodes, shaped
// [1, k] so it broadcasts back against [n, k].
func columnDots(a, b *graph.Node) *graph.Node {
	return graph.InsertAxes(graph.ReduceSum(graph.Mul(a, b), 0), 0)
}
