// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package likelihoods

import (
	"math"
	"testing"

	"github.com/gomlx/gogp"
	"github.com/gomlx/gogp/lazymat"
	"github.com/gomlx/gogp/randvars"
	"github.com/gomlx/gomlx/pkg/core/graph/graphtest"
	"github.com/gomlx/gomlx/pkg/core/tensors"
	"github.com/gomlx/gomlx/pkg/ml/context"
	"github.com/stretchr/testify/require"

	. "github.com/gomlx/gomlx/pkg/core/graph"
)

func TestGaussian(t *testing.T) {
	backend := graphtest.BuildTestBackend()
	ctx := context.New()
	l := NewGaussian(ctx.In("likelihood"))
	l.Group("noise").Get("log_noise").MustSetValue(tensors.FromScalar(math.Log(0.25)))
	outputs := context.MustExecOnceN(backend, ctx, func(ctx *context.Context, g *Graph) []*Node {
		latent := randvars.NewNormal(
			Const(g, []float64{1, 2}),
			lazymat.NewDiagonal(Const(g, []float64{1, 4})))
		marginal := gogp.AsRandomVariable(gogp.Call1(ctx, g, l, latent)).(*randvars.Normal)
		return []*Node{marginal.Mean(), marginal.Variance()}
	})

	// The mean is unchanged, the noise variance is added to the diagonal.
	require.Equal(t, []float64{1, 2}, tensors.MustCopyFlatData[float64](outputs[0]))
	require.InDeltaSlice(t, []float64{1.25, 4.25},
		tensors.MustCopyFlatData[float64](outputs[1]), 1e-9)
	require.Equal(t, 1, l.NumParameters())
}

func TestGaussianInputValidation(t *testing.T) {
	backend := graphtest.BuildTestBackend()
	ctx := context.New()
	l := NewGaussian(ctx.In("likelihood"))
	g := NewGraph(backend, "TestGaussianInputValidation")
	x := Const(g, []float64{1, 2})

	require.Panics(t, func() { l.Forward(ctx, g) }, "no inputs")
	// A plain tensor is not a distribution over latent values.
	require.Panics(t, func() { gogp.Call(ctx, g, l, x) })
	// Nor is a non-normal random variable.
	require.Panics(t, func() {
		gogp.Call(ctx, g, l, randvars.NewBernoulli(Const(g, []float64{0.5})))
	})
}
