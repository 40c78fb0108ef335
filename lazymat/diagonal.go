// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package lazymat

import (
	"github.com/gomlx/gomlx/pkg/core/dtypes"
	"github.com/gomlx/gomlx/pkg/core/graph"
	"github.com/gomlx/gomlx/pkg/core/shapes"
	. "github.com/gomlx/gomlx/pkg/support/exceptions"
)

// diagonal is a matrix with the given main diagonal and zeros elsewhere.
type diagonal struct {
	diag *graph.Node
}

// NewDiagonal creates a diagonal Matrix from a rank-1 node of diagonal values.
func NewDiagonal(diag *graph.Node) Matrix {
	if diag.Rank() != 1 {
		Panicf("lazymat.NewDiagonal requires a rank-1 node of diagonal values, got shape %s", diag.Shape())
	}
	return &diagonal{diag: diag}
}

func (m *diagonal) Graph() *graph.Graph { return m.diag.Graph() }
func (m *diagonal) DType() dtypes.DType { return m.diag.DType() }

func (m *diagonal) Dims() (rows, cols int) {
	n := m.diag.Shape().Dimensions[0]
	return n, n
}

func (m *diagonal) MatMul(x *graph.Node) *graph.Node {
	assertOperand(m, x)
	if x.Rank() == 1 {
		return graph.Mul(m.diag, x)
	}
	return graph.Mul(graph.InsertAxes(m.diag, -1), x)
}

func (m *diagonal) Diagonal() *graph.Node { return m.diag }

func (m *diagonal) Dense() *graph.Node {
	n, _ := m.Dims()
	g := m.Graph()
	mask := graph.Diagonal(g, n)
	columns := graph.BroadcastToDims(graph.InsertAxes(m.diag, -1), n, n)
	return graph.Where(mask, columns, graph.Zeros(g, columns.Shape()))
}

func (m *diagonal) Transpose() Matrix { return m }

// Root returns the element-wise square-root diagonal.
func (m *diagonal) Root() Matrix { return NewDiagonal(graph.Sqrt(m.diag)) }

// LogDet is the sum of the log of the diagonal values.
func (m *diagonal) LogDet() *graph.Node { return graph.ReduceAllSum(graph.Log(m.diag)) }

// scaledIdentity is scale times the identity of the given dimension.
type scaledIdentity struct {
	dim   int
	scale *graph.Node
}

// NewScaledIdentity creates scale·I with the given dimension. scale must be a
// scalar node.
func NewScaledIdentity(dim int, scale *graph.Node) Matrix {
	if scale.Rank() != 0 {
		Panicf("lazymat.NewScaledIdentity requires a scalar scale, got shape %s", scale.Shape())
	}
	if dim <= 0 {
		Panicf("lazymat.NewScaledIdentity requires dim > 0, got %d", dim)
	}
	return &scaledIdentity{dim: dim, scale: scale}
}

// NewIdentity creates the dim x dim identity Matrix.
func NewIdentity(g *graph.Graph, dtype dtypes.DType, dim int) Matrix {
	return NewScaledIdentity(dim, graph.ScalarOne(g, dtype))
}

func (m *scaledIdentity) Graph() *graph.Graph { return m.scale.Graph() }
func (m *scaledIdentity) DType() dtypes.DType { return m.scale.DType() }

func (m *scaledIdentity) Dims() (rows, cols int) { return m.dim, m.dim }

func (m *scaledIdentity) MatMul(x *graph.Node) *graph.Node {
	assertOperand(m, x)
	return graph.Mul(m.scale, x)
}

func (m *scaledIdentity) Diagonal() *graph.Node {
	g := m.Graph()
	return graph.Mul(m.scale, graph.Ones(g, shapes.Make(m.DType(), m.dim)))
}

func (m *scaledIdentity) Dense() *graph.Node {
	return graph.DiagonalWithValue(m.scale, m.dim)
}

func (m *scaledIdentity) Transpose() Matrix { return m }

func (m *scaledIdentity) Root() Matrix {
	return NewScaledIdentity(m.dim, graph.Sqrt(m.scale))
}

func (m *scaledIdentity) LogDet() *graph.Node {
	return graph.MulScalar(graph.Log(m.scale), float64(m.dim))
}
