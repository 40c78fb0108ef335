// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package lazymat

import (
	"github.com/gomlx/gomlx/pkg/core/dtypes"
	"github.com/gomlx/gomlx/pkg/core/graph"
	. "github.com/gomlx/gomlx/pkg/support/exceptions"
)

// kronecker is the Kronecker product A⊗B. The product is never materialized by
// MatMul: (A⊗B)·vec(X) = vec(A·X·Bᵀ) only touches the factors.
type kronecker struct {
	a, b Matrix
}

// NewKronecker creates the Kronecker product A⊗B of two lazy matrices, shaped
// [rowsA·rowsB, colsA·colsB].
func NewKronecker(a, b Matrix) Matrix {
	if a.Graph() != b.Graph() {
		Panicf("lazymat.NewKronecker factors must belong to the same graph")
	}
	if a.DType() != b.DType() {
		Panicf("lazymat.NewKronecker factors dtype mismatch: %s and %s", a.DType(), b.DType())
	}
	return &kronecker{a: a, b: b}
}

func (m *kronecker) Graph() *graph.Graph { return m.a.Graph() }
func (m *kronecker) DType() dtypes.DType { return m.a.DType() }

func (m *kronecker) Dims() (rows, cols int) {
	ra, ca := m.a.Dims()
	rb, cb := m.b.Dims()
	return ra * rb, ca * cb
}

func (m *kronecker) MatMul(x *graph.Node) *graph.Node {
	assertOperand(m, x)
	ra, ca := m.a.Dims()
	rb, cb := m.b.Dims()
	aDense, bDense := m.a.Dense(), m.b.Dense()
	if x.Rank() == 1 {
		// y = vec(A · X · Bᵀ), with X = unvec(x).
		xMat := graph.Reshape(x, ca, cb)
		t := graph.MatMul(xMat, graph.Transpose(bDense, 0, 1))
		return graph.Reshape(graph.MatMul(aDense, t), ra*rb)
	}
	// Same per column of x: contract B over the cb axis, then A over the ca axis.
	k := x.Shape().Dimensions[1]
	xCube := graph.Reshape(x, ca, cb, k)
	t := graph.Einsum("ij,ajk->aik", bDense, xCube)  // [ca, rb, k]
	y := graph.Einsum("ij,jbk->ibk", aDense, t)      // [ra, rb, k]
	return graph.Reshape(y, ra*rb, k)
}

func (m *kronecker) Diagonal() *graph.Node {
	assertSquare(m, "Diagonal")
	na := assertSquare(m.a, "Diagonal")
	nb := assertSquare(m.b, "Diagonal")
	outer := graph.Einsum("i,j->ij", m.a.Diagonal(), m.b.Diagonal())
	return graph.Reshape(outer, na*nb)
}

func (m *kronecker) Dense() *graph.Node {
	ra, ca := m.a.Dims()
	rb, cb := m.b.Dims()
	blocks := graph.Einsum("ij,kl->ikjl", m.a.Dense(), m.b.Dense())
	return graph.Reshape(blocks, ra*rb, ca*cb)
}

func (m *kronecker) Transpose() Matrix {
	return &kronecker{a: m.a.Transpose(), b: m.b.Transpose()}
}
