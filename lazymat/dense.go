// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package lazymat

import (
	"github.com/gomlx/gomlx/pkg/core/dtypes"
	"github.com/gomlx/gomlx/pkg/core/graph"
	. "github.com/gomlx/gomlx/pkg/support/exceptions"
)

// wrapped is a dense node presented through the Matrix interface. It brings no
// structure of its own; it exists so dense results (a materialized kernel
// matrix, say) compose with the lazy combinators.
type wrapped struct {
	node *graph.Node
}

// FromNode wraps a rank-2 node as a Matrix.
func FromNode(node *graph.Node) Matrix {
	if node.Rank() != 2 {
		Panicf("lazymat.FromNode requires a rank-2 node, got shape %s", node.Shape())
	}
	return &wrapped{node: node}
}

func (m *wrapped) Graph() *graph.Graph { return m.node.Graph() }
func (m *wrapped) DType() dtypes.DType { return m.node.DType() }

func (m *wrapped) Dims() (rows, cols int) {
	dims := m.node.Shape().Dimensions
	return dims[0], dims[1]
}

func (m *wrapped) MatMul(x *graph.Node) *graph.Node {
	assertOperand(m, x)
	return applyDense(m.node, x)
}

func (m *wrapped) Diagonal() *graph.Node {
	n := assertSquare(m, "Diagonal")
	g := m.Graph()
	mask := graph.Diagonal(g, n)
	return graph.ReduceSum(graph.Where(mask, m.node, graph.ZerosLike(m.node)), -1)
}

func (m *wrapped) Dense() *graph.Node { return m.node }

func (m *wrapped) Transpose() Matrix {
	return &wrapped{node: graph.Transpose(m.node, 0, 1)}
}
