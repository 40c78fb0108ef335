// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package randvars defines random variables: distribution-valued nodes of a
// GoMLX computation graph, as opposed to deterministic tensors.
//
// A RandomVariable bundles the graph nodes that parametrize a distribution
// (means, covariances, probabilities) with the operations one expects from it:
// moments, sampling (through the context's RNG-state convention) and log
// probabilities. Everything stays in-graph: a sample is just another node.
//
// The concrete variables are Normal (multivariate, with a lazymat.Matrix
// covariance), Bernoulli and Categorical.
package randvars

import (
	"github.com/gomlx/gomlx/pkg/core/dtypes"
	"github.com/gomlx/gomlx/pkg/core/graph"
	"github.com/gomlx/gomlx/pkg/ml/context"
)

// RandomVariable is a distribution-valued node in the computation graph.
//
// Sample draws one realization using the random state kept by ctx (see
// context.Context.RandomNormal and friends); repeated calls advance the state
// and give independent draws.
type RandomVariable interface {
	// Graph the variable's nodes belong to.
	Graph() *graph.Graph

	// DType of the variable's realizations.
	DType() dtypes.DType

	// Mean of the distribution.
	Mean() *graph.Node

	// Variance of the distribution, element-wise (the diagonal of the
	// covariance for multivariate distributions).
	Variance() *graph.Node

	// Sample draws one realization as a graph node.
	Sample(ctx *context.Context) *graph.Node
}
