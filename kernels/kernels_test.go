// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package kernels

import (
	"math"
	"testing"

	"github.com/gomlx/gomlx/pkg/core/graph/graphtest"
	"github.com/gomlx/gomlx/pkg/core/tensors"
	"github.com/gomlx/gomlx/pkg/ml/context"
	"github.com/stretchr/testify/require"

	. "github.com/gomlx/gomlx/pkg/core/graph"
)

func TestRBF(t *testing.T) {
	backend := graphtest.BuildTestBackend()
	ctx := context.New()
	k := NewRBF(ctx.In("k"))
	outputs := context.MustExecOnceN(backend, ctx, func(ctx *context.Context, g *Graph) []*Node {
		x := Const(g, [][]float64{{0}, {1}})
		cov := Eval(ctx, g, k, x, nil)
		cross := Eval(ctx, g, k, x, Const(g, [][]float64{{2}}))
		return []*Node{cov.Dense(), cov.Diagonal(), cross.Dense()}
	})

	// Unit lengthscale: k(a, b) = exp(-(a-b)^2/2).
	e := math.Exp(-0.5)
	require.InDeltaSlice(t, []float64{1, e, e, 1},
		tensors.MustCopyFlatData[float64](outputs[0]), 1e-9)
	require.InDeltaSlice(t, []float64{1, 1},
		tensors.MustCopyFlatData[float64](outputs[1]), 1e-9)
	require.InDeltaSlice(t, []float64{math.Exp(-2), e},
		tensors.MustCopyFlatData[float64](outputs[2]), 1e-9)
}

func TestRBFLengthscale(t *testing.T) {
	backend := graphtest.BuildTestBackend()
	ctx := context.New()
	k := NewRBF(ctx.In("k"))
	k.Group("lengthscale").Get("log_lengthscale").MustSetValue(tensors.FromScalar(math.Log(2.0)))
	got := context.MustExecOnce(backend, ctx, func(ctx *context.Context, g *Graph) *Node {
		x := Const(g, [][]float64{{0}, {2}})
		return Eval(ctx, g, k, x, nil).Dense()
	})
	// Lengthscale 2: k(0, 2) = exp(-4/(2*4)) = exp(-0.5).
	require.InDelta(t, math.Exp(-0.5), tensors.MustCopyFlatData[float64](got)[1], 1e-9)
}

func TestLinear(t *testing.T) {
	backend := graphtest.BuildTestBackend()
	ctx := context.New()
	k := NewLinear(ctx.In("k"))
	outputs := context.MustExecOnceN(backend, ctx, func(ctx *context.Context, g *Graph) []*Node {
		x := Const(g, [][]float64{{1}, {2}})
		cov := Eval(ctx, g, k, x, nil)
		cross := Eval(ctx, g, k, x, Const(g, [][]float64{{3}}))
		return []*Node{cov.Dense(), cross.Dense()}
	})
	require.InDeltaSlice(t, []float64{1, 2, 2, 4},
		tensors.MustCopyFlatData[float64](outputs[0]), 1e-9)
	require.InDeltaSlice(t, []float64{3, 6},
		tensors.MustCopyFlatData[float64](outputs[1]), 1e-9)
}

func TestPeriodic(t *testing.T) {
	backend := graphtest.BuildTestBackend()
	ctx := context.New()
	k := NewPeriodic(ctx.In("k"))
	got := context.MustExecOnce(backend, ctx, func(ctx *context.Context, g *Graph) *Node {
		// Unit period: points one period apart have covariance 1.
		x := Const(g, [][]float64{{0}, {1}, {0.5}})
		return Eval(ctx, g, k, x, nil).Dense()
	})
	values := tensors.MustCopyFlatData[float64](got)
	require.InDelta(t, 1.0, values[0*3+0], 1e-9)
	require.InDelta(t, 1.0, values[0*3+1], 1e-9)
	// Half a period apart: exp(-2 sin^2(pi/2)) = exp(-2).
	require.InDelta(t, math.Exp(-2), values[0*3+2], 1e-9)
}

func TestCombinators(t *testing.T) {
	backend := graphtest.BuildTestBackend()
	ctx := context.New()
	sum := NewSum(NewRBF(ctx.In("a")), NewLinear(ctx.In("b")))
	product := NewProduct(NewRBF(ctx.In("c")), NewLinear(ctx.In("d")))
	outputs := context.MustExecOnceN(backend, ctx, func(ctx *context.Context, g *Graph) []*Node {
		x := Const(g, [][]float64{{0}, {1}})
		return []*Node{
			Eval(ctx, g, sum, x, nil).Dense(),
			Eval(ctx, g, product, x, nil).Dense(),
		}
	})

	e := math.Exp(-0.5)
	require.InDeltaSlice(t, []float64{1 + 0, e + 0, e + 0, 1 + 1},
		tensors.MustCopyFlatData[float64](outputs[0]), 1e-9)
	require.InDeltaSlice(t, []float64{0, 0, 0, 1},
		tensors.MustCopyFlatData[float64](outputs[1]), 1e-9)

	var names []string
	for name := range sum.NamedParameterGroups() {
		names = append(names, name)
	}
	require.Equal(t, []string{"term_0/lengthscale", "term_1/variance"}, names)
	require.Equal(t, 2, sum.NumParameters())

	require.Panics(t, func() { NewSum() })
	require.Panics(t, func() { NewProduct() })
}

func TestKernelInputValidation(t *testing.T) {
	backend := graphtest.BuildTestBackend()
	ctx := context.New()
	k := NewRBF(ctx.In("k"))
	g := NewGraph(backend, "TestKernelInputValidation")
	x := Const(g, [][]float64{{0}, {1}})

	require.Panics(t, func() { k.Forward(ctx, g) }, "no inputs")
	require.Panics(t, func() { k.Forward(ctx, g, x, x, x) }, "too many inputs")
	require.Panics(t, func() { k.Forward(ctx, g, Const(g, []float64{1})) }, "rank 1 input")
	require.Panics(t, func() {
		k.Forward(ctx, g, x, Const(g, [][]float64{{0, 1}}))
	}, "feature dimension mismatch")
}
