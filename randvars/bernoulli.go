// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package randvars

import (
	"github.com/gomlx/gomlx/pkg/core/dtypes"
	"github.com/gomlx/gomlx/pkg/core/graph"
	"github.com/gomlx/gomlx/pkg/ml/context"
	. "github.com/gomlx/gomlx/pkg/support/exceptions"
)

// Bernoulli is an element-wise Bernoulli random variable: each element of the
// probs node is the success probability of an independent coin.
type Bernoulli struct {
	probs *graph.Node
}

var _ RandomVariable = (*Bernoulli)(nil)

// NewBernoulli creates a Bernoulli variable from a node of probabilities in
// [0, 1], of any shape and float dtype.
func NewBernoulli(probs *graph.Node) *Bernoulli {
	if !probs.DType().IsFloat() {
		Panicf("randvars.NewBernoulli requires a float probs node, got %s", probs.DType())
	}
	return &Bernoulli{probs: probs}
}

// Graph returns the graph the variable's nodes belong to.
func (b *Bernoulli) Graph() *graph.Graph { return b.probs.Graph() }

// DType of the variable's realizations.
func (b *Bernoulli) DType() dtypes.DType { return b.probs.DType() }

// Probs returns the success probabilities.
func (b *Bernoulli) Probs() *graph.Node { return b.probs }

// Mean is the success probability itself.
func (b *Bernoulli) Mean() *graph.Node { return b.probs }

// Variance is p·(1-p), element-wise.
func (b *Bernoulli) Variance() *graph.Node {
	return graph.Mul(b.probs, graph.OneMinus(b.probs))
}

// Sample draws 0/1 values (in the probs dtype) by thresholding uniforms.
func (b *Bernoulli) Sample(ctx *context.Context) *graph.Node {
	u := ctx.RandomUniform(b.Graph(), b.probs.Shape())
	return graph.ConvertDType(graph.LessThan(u, b.probs), b.DType())
}

// LogProb returns the total log probability of the 0/1 observations y, shaped
// like probs.
func (b *Bernoulli) LogProb(y *graph.Node) *graph.Node {
	if !y.Shape().Equal(b.probs.Shape()) {
		Panicf("randvars.Bernoulli.LogProb: y must be shaped like probs %s, got %s", b.probs.Shape(), y.Shape())
	}
	logP := graph.Mul(y, graph.Log(b.probs))
	logQ := graph.Mul(graph.OneMinus(y), graph.Log(graph.OneMinus(b.probs)))
	return graph.ReduceAllSum(graph.Add(logP, logQ))
}
