// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package kernels

import (
	"github.com/gomlx/gogp"
	"github.com/gomlx/gogp/lazymat"
	. "github.com/gomlx/gomlx/pkg/core/graph"
	"github.com/gomlx/gomlx/pkg/ml/context"
)

// RBF is the radial basis function ("squared exponential") kernel:
//
//	k(a, b) = exp(-|a - b|^2 / (2 l^2))
//
// with a learnable lengthscale l, stored as log(l) and initialized to l=1.
type RBF struct {
	gogp.Base
	lengthscale *gogp.ParameterGroup
}

// NewRBF creates an RBF kernel with its lengthscale parameter stored under
// the given context scope.
func NewRBF(ctx *context.Context) *RBF {
	k := &RBF{
		lengthscale: gogp.NewParameterGroup(ctx, "lengthscale"),
	}
	k.lengthscale.VariableWithValue("log_lengthscale", 0.0)
	k.Register("lengthscale", k.lengthscale)
	return k
}

// Forward evaluates the kernel on 1 or 2 input batches.
func (k *RBF) Forward(_ *context.Context, g *Graph, inputs ...gogp.Value) []gogp.Value {
	x1, x2 := kernelInputs(inputs)
	d2 := squaredDistances(x1, x2)
	logLengthscale := ConvertDType(k.lengthscale.ValueGraph(g, "log_lengthscale"), x1.DType())
	lengthscaleSq := Exp(MulScalar(logLengthscale, 2))
	cov := Exp(Neg(Div(d2, MulScalar(lengthscaleSq, 2))))
	return []gogp.Value{lazymat.FromNode(cov)}
}

var _ gogp.Module = (*RBF)(nil)
