// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package randvars

import (
	"math"

	"github.com/gomlx/gogp/lazymat"
	"github.com/gomlx/gomlx/pkg/core/dtypes"
	"github.com/gomlx/gomlx/pkg/core/graph"
	"github.com/gomlx/gomlx/pkg/core/shapes"
	"github.com/gomlx/gomlx/pkg/ml/context"
	. "github.com/gomlx/gomlx/pkg/support/exceptions"
)

// Normal is a multivariate normal random variable with a lazily-evaluated
// covariance. The mean is a vector node [n] and the covariance an n x n
// lazymat.Matrix, so structured covariances (diagonal, low-rank plus jitter,
// Kronecker) never get materialized by the operations that don't need them.
type Normal struct {
	mean *graph.Node
	cov  lazymat.Matrix
}

// Compile-time check.
var _ RandomVariable = (*Normal)(nil)

// NewNormal creates a multivariate normal with the given mean vector [n] and
// n x n covariance.
func NewNormal(mean *graph.Node, cov lazymat.Matrix) *Normal {
	if mean.Rank() != 1 {
		Panicf("randvars.NewNormal requires a rank-1 mean, got shape %s", mean.Shape())
	}
	rows, cols := cov.Dims()
	n := mean.Shape().Dimensions[0]
	if rows != n || cols != n {
		Panicf("randvars.NewNormal covariance must be %dx%d to match the mean, got %dx%d", n, n, rows, cols)
	}
	if mean.DType() != cov.DType() {
		Panicf("randvars.NewNormal dtype mismatch: mean is %s, covariance is %s", mean.DType(), cov.DType())
	}
	return &Normal{mean: mean, cov: cov}
}

// Graph returns the graph the variable's nodes belong to.
func (n *Normal) Graph() *graph.Graph { return n.mean.Graph() }

// DType of the variable's realizations.
func (n *Normal) DType() dtypes.DType { return n.mean.DType() }

// Dim returns the dimension of the event space.
func (n *Normal) Dim() int { return n.mean.Shape().Dimensions[0] }

// Mean of the distribution.
func (n *Normal) Mean() *graph.Node { return n.mean }

// Variance returns the diagonal of the covariance.
func (n *Normal) Variance() *graph.Node { return n.cov.Diagonal() }

// CovarianceMatrix returns the (lazy) covariance.
func (n *Normal) CovarianceMatrix() lazymat.Matrix { return n.cov }

// Sample draws one realization as mean + R·ε, where R is a root decomposition
// of the covariance (R·Rᵀ = Σ) and ε is standard normal. It is a usage error
// if the covariance has no root; wrap it with a rooted structure (see
// lazymat.HasRoot) or add one explicitly.
func (n *Normal) Sample(ctx *context.Context) *graph.Node {
	root, ok := lazymat.Root(n.cov)
	if !ok {
		Panicf("randvars.Normal.Sample: covariance %T has no root decomposition; "+
			"sampling needs a structured covariance (see lazymat.HasRoot)", n.cov)
	}
	g := n.Graph()
	_, rank := root.Dims()
	eps := ctx.RandomNormal(g, shapes.Make(n.DType(), rank))
	return graph.Add(n.mean, root.MatMul(eps))
}

// LogProb returns the log density at y (a vector node shaped like the mean).
// It needs an exact log-determinant of the covariance, so it is a usage error
// for covariances without one (see lazymat.HasLogDet); dense covariances would
// need a stochastic estimator, which this package does not provide.
func (n *Normal) LogProb(y *graph.Node) *graph.Node {
	if !y.Shape().Equal(n.mean.Shape()) {
		Panicf("randvars.Normal.LogProb: y must be shaped like the mean %s, got %s", n.mean.Shape(), y.Shape())
	}
	logDet, ok := lazymat.LogDet(n.cov)
	if !ok {
		Panicf("randvars.Normal.LogProb: covariance %T has no exact log-determinant (see lazymat.HasLogDet)", n.cov)
	}
	diff := graph.Sub(y, n.mean)
	quad := graph.ReduceAllSum(graph.Mul(diff, lazymat.Solve(n.cov, diff)))
	constant := float64(n.Dim()) * math.Log(2*math.Pi)
	return graph.MulScalar(graph.AddScalar(graph.Add(quad, logDet), constant), -0.5)
}
