// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package kernels

import (
	"github.com/gomlx/gogp"
	"github.com/gomlx/gogp/lazymat"
	. "github.com/gomlx/gomlx/pkg/core/graph"
	"github.com/gomlx/gomlx/pkg/ml/context"
)

// Linear is the dot-product kernel:
//
//	k(a, b) = s^2 <a, b>
//
// with a learnable scale s^2, stored as log(s^2). The covariance it returns
// is a lazy low-rank matrix, so an n x n evaluation over [n, d] inputs costs
// O(n*d) memory instead of O(n^2).
type Linear struct {
	gogp.Base
	variance *gogp.ParameterGroup
}

// NewLinear creates a linear kernel with its scale parameter stored under the
// given context scope.
func NewLinear(ctx *context.Context) *Linear {
	k := &Linear{
		variance: gogp.NewParameterGroup(ctx, "variance"),
	}
	k.variance.VariableWithValue("log_variance", 0.0)
	k.Register("variance", k.variance)
	return k
}

// Forward evaluates the kernel on 1 or 2 input batches. With a single input
// the result is symmetric positive semi-definite and carries a root
// decomposition.
func (k *Linear) Forward(_ *context.Context, g *Graph, inputs ...gogp.Value) []gogp.Value {
	x1, x2 := kernelInputs(inputs)
	scale := Exp(ConvertDType(k.variance.ValueGraph(g, "log_variance"), x1.DType()))
	var cov lazymat.Matrix
	if x1 == x2 {
		cov = lazymat.NewSymmetricLowRank(x1)
	} else {
		cov = lazymat.NewLowRank(x1, x2)
	}
	return []gogp.Value{lazymat.Scale(scale, cov)}
}

var _ gogp.Module = (*Linear)(nil)
