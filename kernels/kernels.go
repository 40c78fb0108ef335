// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package kernels implements covariance functions for Gaussian process models.
//
// A kernel is a gogp.Module mapping one or two input batches to a lazy
// covariance matrix (lazymat.Matrix): with a single input x of shape [n, d]
// it returns the n x n matrix k(x, x); with two inputs x1 [n, d] and x2
// [m, d] it returns the n x m cross-covariance k(x1, x2).
//
// Learnable parameters (lengthscales, variances, periods) are stored as their
// logarithms in gogp.ParameterGroups, so unconstrained gradient steps keep
// them positive. All parameters are created at construction time under the
// given context scope; two kernels sharing a scope would collide, so give
// each its own (e.g. ctx.In("k1"), ctx.In("k2")).
package kernels

import (
	"github.com/gomlx/gogp"
	"github.com/gomlx/gogp/lazymat"
	. "github.com/gomlx/gomlx/pkg/core/graph"
	"github.com/gomlx/gomlx/pkg/ml/context"
	. "github.com/gomlx/gomlx/pkg/support/exceptions"
)

// Eval evaluates kernel k on one or two input batches and returns the
// resulting lazy covariance matrix. It goes through gogp.Call1, so the usual
// input/output validation applies.
func Eval(ctx *context.Context, g *Graph, k gogp.Module, x1, x2 *Node) lazymat.Matrix {
	if x2 == nil || x1 == x2 {
		return gogp.AsMatrix(gogp.Call1(ctx, g, k, x1))
	}
	return gogp.AsMatrix(gogp.Call1(ctx, g, k, x1, x2))
}

// kernelInputs unpacks the 1 or 2 tensor inputs a kernel Forward receives.
// With a single input the kernel is evaluated against itself.
func kernelInputs(inputs []gogp.Value) (x1, x2 *Node) {
	switch len(inputs) {
	case 1:
		x1 = gogp.AsTensor(inputs[0])
		x2 = x1
	case 2:
		x1 = gogp.AsTensor(inputs[0])
		x2 = gogp.AsTensor(inputs[1])
	default:
		Panicf("kernels take 1 or 2 inputs, got %d", len(inputs))
	}
	if x1.Rank() != 2 || x2.Rank() != 2 {
		Panicf("kernels take [batch, features] inputs, got shapes %s and %s", x1.Shape(), x2.Shape())
	}
	if x1.Shape().Dimensions[1] != x2.Shape().Dimensions[1] {
		Panicf("kernel inputs must share the feature dimension, got shapes %s and %s", x1.Shape(), x2.Shape())
	}
	return
}

// squaredDistances returns the [n, m] matrix of pairwise squared euclidean
// distances between the rows of x1 [n, d] and x2 [m, d]. Values are clamped
// at zero: the expansion |a|^2 - 2<a,b> + |b|^2 can go slightly negative in
// floating point.
func squaredDistances(x1, x2 *Node) *Node {
	x1Sq := InsertAxes(ReduceSum(Square(x1), -1), -1)
	x2Sq := InsertAxes(ReduceSum(Square(x2), -1), 0)
	cross := MatMul(x1, Transpose(x2, 0, 1))
	d2 := Sub(Add(x1Sq, x2Sq), MulScalar(cross, 2))
	return Max(d2, ZerosLike(d2))
}
