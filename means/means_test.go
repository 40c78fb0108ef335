// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package means

import (
	"testing"

	"github.com/gomlx/gogp"
	"github.com/gomlx/gomlx/pkg/core/graph/graphtest"
	"github.com/gomlx/gomlx/pkg/core/tensors"
	"github.com/gomlx/gomlx/pkg/ml/context"
	"github.com/stretchr/testify/require"

	. "github.com/gomlx/gomlx/pkg/core/graph"
)

func TestZero(t *testing.T) {
	backend := graphtest.BuildTestBackend()
	ctx := context.New()
	m := NewZero()
	got := context.MustExecOnce(backend, ctx, func(ctx *context.Context, g *Graph) *Node {
		x := Const(g, [][]float64{{1}, {2}, {3}})
		return gogp.AsTensor(gogp.Call1(ctx, g, m, x))
	})
	require.Equal(t, []float64{0, 0, 0}, tensors.MustCopyFlatData[float64](got))
	require.Equal(t, 0, m.NumParameters())
}

func TestConstant(t *testing.T) {
	backend := graphtest.BuildTestBackend()
	ctx := context.New()
	m := NewConstant(ctx.In("mean"))
	m.Group("mean").Get("constant").MustSetValue(tensors.FromScalar(1.5))
	got := context.MustExecOnce(backend, ctx, func(ctx *context.Context, g *Graph) *Node {
		x := Const(g, [][]float64{{1}, {2}})
		return gogp.AsTensor(gogp.Call1(ctx, g, m, x))
	})
	require.Equal(t, []float64{1.5, 1.5}, tensors.MustCopyFlatData[float64](got))
	require.Equal(t, 1, m.NumParameters())
}

func TestMeanInputValidation(t *testing.T) {
	backend := graphtest.BuildTestBackend()
	ctx := context.New()
	g := NewGraph(backend, "TestMeanInputValidation")
	m := NewZero()
	x := Const(g, [][]float64{{1}})

	require.Panics(t, func() { m.Forward(ctx, g) }, "no inputs")
	require.Panics(t, func() { m.Forward(ctx, g, x, x) }, "too many inputs")
	require.Panics(t, func() { m.Forward(ctx, g, Const(g, []float64{1})) }, "rank 1 input")
}
