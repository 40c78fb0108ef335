// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package lazymat

import (
	"github.com/gomlx/gomlx/pkg/core/dtypes"
	"github.com/gomlx/gomlx/pkg/core/graph"
	. "github.com/gomlx/gomlx/pkg/support/exceptions"
)

// lowRank represents M = U·Vᵀ with U shaped [rows, rank] and V shaped
// [cols, rank]. Matrix-vector products cost O((rows+cols)·rank) instead of
// O(rows·cols).
type lowRank struct {
	u, v *graph.Node
}

// NewLowRank creates the low-rank Matrix U·Vᵀ. u is [rows, rank] and v is
// [cols, rank].
func NewLowRank(u, v *graph.Node) Matrix {
	checkLowRankFactors(u, v)
	return &lowRank{u: u, v: v}
}

// symmetricLowRank is U·Uᵀ, which additionally has the trivial root U.
type symmetricLowRank struct {
	lowRank
}

// NewSymmetricLowRank creates the positive semi-definite Matrix U·Uᵀ. Unlike
// NewLowRank, the result has a root decomposition ([rows, rank], possibly
// rectangular), so it can be sampled from.
func NewSymmetricLowRank(u *graph.Node) Matrix {
	checkLowRankFactors(u, u)
	return &symmetricLowRank{lowRank{u: u, v: u}}
}

func checkLowRankFactors(u, v *graph.Node) {
	if u.Rank() != 2 || v.Rank() != 2 {
		Panicf("lazymat low-rank factors must be rank-2, got shapes %s and %s", u.Shape(), v.Shape())
	}
	if u.Shape().Dimensions[1] != v.Shape().Dimensions[1] {
		Panicf("lazymat low-rank factors must share the rank dimension, got shapes %s and %s", u.Shape(), v.Shape())
	}
	if u.DType() != v.DType() {
		Panicf("lazymat low-rank factors dtype mismatch: %s and %s", u.DType(), v.DType())
	}
}

func (m *lowRank) Graph() *graph.Graph { return m.u.Graph() }
func (m *lowRank) DType() dtypes.DType { return m.u.DType() }

func (m *lowRank) Dims() (rows, cols int) {
	return m.u.Shape().Dimensions[0], m.v.Shape().Dimensions[0]
}

func (m *lowRank) MatMul(x *graph.Node) *graph.Node {
	assertOperand(m, x)
	vT := graph.Transpose(m.v, 0, 1)
	return applyDense(m.u, applyDense(vT, x))
}

func (m *lowRank) Diagonal() *graph.Node {
	assertSquare(m, "Diagonal")
	return graph.ReduceSum(graph.Mul(m.u, m.v), -1)
}

func (m *lowRank) Dense() *graph.Node {
	return graph.MatMul(m.u, graph.Transpose(m.v, 0, 1))
}

func (m *lowRank) Transpose() Matrix { return &lowRank{u: m.v, v: m.u} }

func (m *symmetricLowRank) Transpose() Matrix { return m }

// Root returns U itself: U·Uᵀ = M by construction.
func (m *symmetricLowRank) Root() Matrix { return FromNode(m.u) }
