// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package randvars

import (
	"github.com/gomlx/gomlx/pkg/core/dtypes"
	"github.com/gomlx/gomlx/pkg/core/graph"
	"github.com/gomlx/gomlx/pkg/ml/context"
	. "github.com/gomlx/gomlx/pkg/support/exceptions"
)

// Categorical is a random variable over integer categories, parametrized by
// unnormalized logits whose last axis enumerates the categories. Leading axes,
// if any, are independent batch dimensions.
type Categorical struct {
	logits *graph.Node
}

var _ RandomVariable = (*Categorical)(nil)

// NewCategorical creates a categorical variable from a logits node of rank >= 1
// and float dtype. The last axis is the category axis.
func NewCategorical(logits *graph.Node) *Categorical {
	if logits.Rank() < 1 {
		Panicf("randvars.NewCategorical requires logits of rank >= 1, got shape %s", logits.Shape())
	}
	if !logits.DType().IsFloat() {
		Panicf("randvars.NewCategorical requires float logits, got %s", logits.DType())
	}
	return &Categorical{logits: logits}
}

// Graph returns the graph the variable's nodes belong to.
func (c *Categorical) Graph() *graph.Graph { return c.logits.Graph() }

// DType of the logits (Mean and Variance are returned in this dtype; samples
// are integer indices).
func (c *Categorical) DType() dtypes.DType { return c.logits.DType() }

// NumCategories returns the size of the category axis.
func (c *Categorical) NumCategories() int {
	return c.logits.Shape().Dimensions[c.logits.Rank()-1]
}

// Logits returns the unnormalized log probabilities.
func (c *Categorical) Logits() *graph.Node { return c.logits }

// Probs returns the normalized probabilities.
func (c *Categorical) Probs() *graph.Node { return graph.Softmax(c.logits) }

// Mean returns the expected category index, E[i] = Σ i·pᵢ.
func (c *Categorical) Mean() *graph.Node {
	indices := graph.Iota(c.Graph(), c.logits.Shape(), c.logits.Rank()-1)
	return graph.ReduceSum(graph.Mul(c.Probs(), indices), -1)
}

// Variance returns Var[i] = E[i²] - E[i]².
func (c *Categorical) Variance() *graph.Node {
	indices := graph.Iota(c.Graph(), c.logits.Shape(), c.logits.Rank()-1)
	probs := c.Probs()
	second := graph.ReduceSum(graph.Mul(probs, graph.Square(indices)), -1)
	mean := graph.ReduceSum(graph.Mul(probs, indices), -1)
	return graph.Sub(second, graph.Square(mean))
}

// Sample draws category indices (one per batch element) with the Gumbel-max
// trick: argmax over logits plus Gumbel noise.
func (c *Categorical) Sample(ctx *context.Context) *graph.Node {
	u := ctx.RandomUniform(c.Graph(), c.logits.Shape())
	gumbel := graph.Neg(graph.Log(graph.Neg(graph.Log(u))))
	return graph.ArgMax(graph.Add(c.logits, gumbel), -1)
}

// LogProb returns the log probability of the observed category indices, an
// integer node shaped like the logits minus the category axis.
func (c *Categorical) LogProb(indices *graph.Node) *graph.Node {
	oneHot := graph.OneHot(indices, c.NumCategories(), c.DType())
	if !oneHot.Shape().Equal(c.logits.Shape()) {
		Panicf("randvars.Categorical.LogProb: indices shape %s is incompatible with logits %s",
			indices.Shape(), c.logits.Shape())
	}
	return graph.ReduceSum(graph.Mul(graph.LogSoftmax(c.logits), oneHot), -1)
}
