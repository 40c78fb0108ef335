// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package lazymat

import (
	"math"
	"testing"

	"github.com/gomlx/gomlx/pkg/core/dtypes"
	. "github.com/gomlx/gomlx/pkg/core/graph"
	"github.com/gomlx/gomlx/pkg/core/graph/graphtest"
	"github.com/stretchr/testify/require"
)

const F64 = dtypes.Float64

func TestDense(t *testing.T) {
	graphtest.RunTestGraphFn(t, "dense",
		func(g *Graph) (inputs, outputs []*Node) {
			m := FromNode(Const(g, [][]float64{{1, 2}, {3, 4}}))
			x := Const(g, []float64{1, 1})
			outputs = []*Node{
				m.MatMul(x),
				m.Diagonal(),
				m.Transpose().Dense(),
			}
			return
		}, []any{
			[]float64{3, 7},
			[]float64{1, 4},
			[][]float64{{1, 3}, {2, 4}},
		}, 1e-9)
}

func TestDiagonal(t *testing.T) {
	graphtest.RunTestGraphFn(t, "diagonal",
		func(g *Graph) (inputs, outputs []*Node) {
			m := NewDiagonal(Const(g, []float64{2, 4}))
			root, ok := Root(m)
			require.True(t, ok)
			logDet, ok := LogDet(m)
			require.True(t, ok)
			outputs = []*Node{
				m.Dense(),
				m.MatMul(Const(g, [][]float64{{1, 0}, {0, 1}})),
				Solve(m, Const(g, []float64{2, 8})),
				root.Dense(),
				logDet,
			}
			return
		}, []any{
			[][]float64{{2, 0}, {0, 4}},
			[][]float64{{2, 0}, {0, 4}},
			[]float64{1, 2},
			[][]float64{{math.Sqrt2, 0}, {0, 2}},
			math.Log(2) + math.Log(4),
		}, 1e-9)
}

func TestScaledIdentity(t *testing.T) {
	graphtest.RunTestGraphFn(t, "scaledIdentity",
		func(g *Graph) (inputs, outputs []*Node) {
			m := NewScaledIdentity(3, Scalar(g, F64, 2))
			logDet, ok := LogDet(m)
			require.True(t, ok)
			outputs = []*Node{
				m.Dense(),
				m.Diagonal(),
				Solve(m, Const(g, []float64{2, 4, 6})),
				logDet,
			}
			return
		}, []any{
			[][]float64{{2, 0, 0}, {0, 2, 0}, {0, 0, 2}},
			[]float64{2, 2, 2},
			[]float64{1, 2, 3},
			3 * math.Log(2),
		}, 1e-9)
}

func TestLowRank(t *testing.T) {
	graphtest.RunTestGraphFn(t, "lowRank",
		func(g *Graph) (inputs, outputs []*Node) {
			u := Const(g, [][]float64{{1, 2}, {3, 4}})
			m := NewSymmetricLowRank(u)
			root, ok := Root(m)
			require.True(t, ok)
			cross := NewLowRank(u, Const(g, [][]float64{{1, 0}, {0, 1}, {1, 1}}))
			outputs = []*Node{
				m.Dense(),
				m.Diagonal(),
				root.Dense(),
				cross.Dense(),
				cross.Transpose().Dense(),
			}
			return
		}, []any{
			[][]float64{{5, 11}, {11, 25}},
			[]float64{5, 25},
			[][]float64{{1, 2}, {3, 4}},
			[][]float64{{1, 2, 3}, {3, 4, 7}},
			[][]float64{{1, 3}, {2, 4}, {3, 7}},
		}, 1e-9)
}

func TestKronecker(t *testing.T) {
	graphtest.RunTestGraphFn(t, "kronecker",
		func(g *Graph) (inputs, outputs []*Node) {
			a := FromNode(Const(g, [][]float64{{1, 2}, {3, 4}}))
			b := FromNode(Const(g, [][]float64{{0, 5}, {6, 7}}))
			m := NewKronecker(a, b)
			x := Const(g, []float64{1, 2, 3, 4})
			rhs := Const(g, [][]float64{{1, 0}, {0, 1}, {1, 1}, {0, 0}})
			// The lazy product must agree with the materialized one.
			outputs = []*Node{
				Sub(m.MatMul(x), applyDense(m.Dense(), x)),
				Sub(m.MatMul(rhs), MatMul(m.Dense(), rhs)),
				m.Dense(),
			}
			return
		}, []any{
			[]float64{0, 0, 0, 0},
			[][]float64{{0, 0}, {0, 0}, {0, 0}, {0, 0}},
			[][]float64{
				{0, 5, 0, 10},
				{6, 7, 12, 14},
				{0, 15, 0, 20},
				{18, 21, 24, 28},
			},
		}, 1e-9)
}

func TestKroneckerStructured(t *testing.T) {
	graphtest.RunTestGraphFn(t, "kroneckerStructured",
		func(g *Graph) (inputs, outputs []*Node) {
			a := NewDiagonal(Const(g, []float64{2, 3}))
			b := NewScaledIdentity(2, Scalar(g, F64, 4))
			m := NewKronecker(a, b)
			logDet, ok := LogDet(m)
			require.True(t, ok)
			root, ok := Root(m)
			require.True(t, ok)
			outputs = []*Node{
				m.Diagonal(),
				logDet,
				Sub(MatMul(root.Dense(), Transpose(root.Dense(), 0, 1)), m.Dense()),
			}
			return
		}, []any{
			[]float64{8, 8, 12, 12},
			2*(math.Log(2)+math.Log(3)) + 4*math.Log(4),
			[][]float64{{0, 0, 0, 0}, {0, 0, 0, 0}, {0, 0, 0, 0}, {0, 0, 0, 0}},
		}, 1e-9)
}

func TestSumAndScale(t *testing.T) {
	graphtest.RunTestGraphFn(t, "sumAndScale",
		func(g *Graph) (inputs, outputs []*Node) {
			dense := FromNode(Const(g, [][]float64{{1, 2}, {2, 1}}))
			m := Sum(dense, NewScaledIdentity(2, Scalar(g, F64, 3)))
			scaled := Scale(Scalar(g, F64, 2), dense)
			jittered := AddJitter(dense, 0.5)
			outputs = []*Node{
				m.Dense(),
				m.Diagonal(),
				m.MatMul(Const(g, []float64{1, 1})),
				scaled.Dense(),
				jittered.Diagonal(),
			}
			return
		}, []any{
			[][]float64{{4, 2}, {2, 4}},
			[]float64{4, 4},
			[]float64{6, 6},
			[][]float64{{2, 4}, {4, 2}},
			[]float64{1.5, 1.5},
		}, 1e-9)
}

func TestSolveConjugateGradient(t *testing.T) {
	// 2x2 SPD system solved by CG, checked against the closed form inverse.
	graphtest.RunTestGraphFn(t, "solveCG",
		func(g *Graph) (inputs, outputs []*Node) {
			m := FromNode(Const(g, [][]float64{{4, 1}, {1, 3}}))
			outputs = []*Node{
				Solve(m, Const(g, []float64{1, 2})),
				Solve(m, Const(g, [][]float64{{1, 0}, {2, 1}})),
			}
			return
		}, []any{
			[]float64{1.0 / 11.0, 7.0 / 11.0},
			[][]float64{{1.0 / 11.0, -1.0 / 11.0}, {7.0 / 11.0, 4.0 / 11.0}},
		}, 1e-6)
}

func TestSolveValidation(t *testing.T) {
	backend := graphtest.BuildTestBackend()
	g := NewGraph(backend, "TestSolveValidation")
	m := FromNode(Const(g, [][]float64{{1, 2}, {3, 4}, {5, 6}}))
	require.Panics(t, func() { Solve(m, Const(g, []float64{1, 2, 3})) }, "non-square")
	square := FromNode(Const(g, [][]float64{{1, 0}, {0, 1}}))
	require.Panics(t, func() { Solve(square, Const(g, []float64{1, 2, 3})) }, "dimension mismatch")
	require.Panics(t, func() { Solve(square, Const(g, []float32{1, 2})) }, "dtype mismatch")
}
