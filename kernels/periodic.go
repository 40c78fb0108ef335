// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package kernels

import (
	"math"

	"github.com/gomlx/gogp"
	"github.com/gomlx/gogp/lazymat"
	. "github.com/gomlx/gomlx/pkg/core/graph"
	"github.com/gomlx/gomlx/pkg/ml/context"
)

// Periodic is the exponentiated sine-squared kernel:
//
//	k(a, b) = exp(-2 sin^2(pi |a - b|_1 / p) / l^2)
//
// with a learnable period p and lengthscale l, both stored as logs and
// initialized to 1.
type Periodic struct {
	gogp.Base
	params *gogp.ParameterGroup
}

// NewPeriodic creates a periodic kernel with its parameters stored under the
// given context scope.
func NewPeriodic(ctx *context.Context) *Periodic {
	k := &Periodic{
		params: gogp.NewParameterGroup(ctx, "periodic"),
	}
	k.params.VariableWithValue("log_lengthscale", 0.0)
	k.params.VariableWithValue("log_period", 0.0)
	k.Register("periodic", k.params)
	return k
}

// Forward evaluates the kernel on 1 or 2 input batches.
func (k *Periodic) Forward(_ *context.Context, g *Graph, inputs ...gogp.Value) []gogp.Value {
	x1, x2 := kernelInputs(inputs)
	dtype := x1.DType()

	// Pairwise L1 distances: [n, 1, d] against [1, m, d], reduced over d.
	diff := Sub(InsertAxes(x1, 1), InsertAxes(x2, 0))
	dist := ReduceSum(Abs(diff), -1)

	lengthscaleSq := Exp(MulScalar(ConvertDType(k.params.ValueGraph(g, "log_lengthscale"), dtype), 2))
	period := Exp(ConvertDType(k.params.ValueGraph(g, "log_period"), dtype))
	sinSq := Square(Sin(MulScalar(Div(dist, period), math.Pi)))
	cov := Exp(Neg(MulScalar(Div(sinSq, lengthscaleSq), 2)))
	return []gogp.Value{lazymat.FromNode(cov)}
}

var _ gogp.Module = (*Periodic)(nil)
