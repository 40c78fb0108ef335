// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package models assembles means, kernels and likelihoods into Gaussian
// process models.
package models

import (
	"github.com/gomlx/gogp"
	"github.com/gomlx/gogp/kernels"
	"github.com/gomlx/gogp/lazymat"
	"github.com/gomlx/gogp/randvars"
	. "github.com/gomlx/gomlx/pkg/core/graph"
	"github.com/gomlx/gomlx/pkg/ml/context"
	. "github.com/gomlx/gomlx/pkg/support/exceptions"
	"k8s.io/klog/v2"
)

// DefaultJitter is added to the diagonal of prior and posterior covariances
// to keep them numerically positive definite.
const DefaultJitter = 1e-6

// ExactGP is a Gaussian process regression model with exact (conjugate
// gradients based) inference. It composes a mean function, a covariance
// kernel and an observation likelihood, all registered as child modules so
// their parameter groups enumerate recursively.
type ExactGP struct {
	gogp.Base
	mean, kernel, likelihood gogp.Module

	jitter          float64
	solveIterations int
}

// NewExactGP creates an exact GP model from its three components. The
// likelihood is usually a *likelihoods.Gaussian; it must map the latent
// prior to a *randvars.Normal over observations.
func NewExactGP(mean, kernel, likelihood gogp.Module) *ExactGP {
	m := &ExactGP{
		mean:            mean,
		kernel:          kernel,
		likelihood:      likelihood,
		jitter:          DefaultJitter,
		solveIterations: lazymat.DefaultSolveIterations,
	}
	m.Register("mean", mean)
	m.Register("covar", kernel)
	m.Register("likelihood", likelihood)
	return m
}

// WithJitter sets the diagonal jitter and returns the model for chaining.
func (m *ExactGP) WithJitter(jitter float64) *ExactGP {
	if jitter < 0 {
		Panicf("jitter must be non-negative, got %g", jitter)
	}
	m.jitter = jitter
	return m
}

// WithSolveIterations sets the number of conjugate gradient iterations used
// by Posterior and returns the model for chaining.
func (m *ExactGP) WithSolveIterations(iterations int) *ExactGP {
	if iterations <= 0 {
		Panicf("solve iterations must be positive, got %d", iterations)
	}
	m.solveIterations = iterations
	return m
}

// Forward takes one input batch x [n, d] and returns the latent prior at x,
// a *randvars.Normal with the jittered kernel covariance.
func (m *ExactGP) Forward(ctx *context.Context, g *Graph, inputs ...gogp.Value) []gogp.Value {
	if len(inputs) != 1 {
		Panicf("models.ExactGP takes exactly one input, got %d", len(inputs))
	}
	x := gogp.AsTensor(inputs[0])
	mean := gogp.AsTensor(gogp.Call1(ctx, g, m.mean, x))
	cov := kernels.Eval(ctx, g, m.kernel, x, nil)
	return []gogp.Value{randvars.NewNormal(mean, lazymat.AddJitter(cov, m.jitter))}
}

// Prior returns the latent prior distribution at x.
func (m *ExactGP) Prior(ctx *context.Context, g *Graph, x *Node) *randvars.Normal {
	return gogp.Call1(ctx, g, m, x).(*randvars.Normal)
}

// Posterior conditions the model on (trainX, trainY) and returns the latent
// posterior at testX. Solves against the training covariance use conjugate
// gradients, so only matrix-vector products with the (lazy) covariance are
// needed.
//
// TODO: estimate the marginal log-likelihood as well, using stochastic
// Lanczos quadrature for the log-determinant of unstructured covariances.
func (m *ExactGP) Posterior(ctx *context.Context, g *Graph, trainX, trainY, testX *Node) *randvars.Normal {
	if trainY.Rank() != 1 || trainY.Shape().Dimensions[0] != trainX.Shape().Dimensions[0] {
		Panicf("trainY must be a vector with one entry per trainX row, got shapes %s and %s",
			trainY.Shape(), trainX.Shape())
	}

	prior := m.Prior(ctx, g, trainX)
	marginal, ok := gogp.AsRandomVariable(gogp.Call1(ctx, g, m.likelihood, prior)).(*randvars.Normal)
	if !ok {
		Panicf("models.ExactGP requires a likelihood producing a *randvars.Normal, %T produced something else", m.likelihood)
	}
	trainCov := marginal.CovarianceMatrix()

	alpha := lazymat.SolveWithIterations(trainCov, Sub(trainY, marginal.Mean()), m.solveIterations)

	crossCov := kernels.Eval(ctx, g, m.kernel, testX, trainX).Dense()
	testMean := gogp.AsTensor(gogp.Call1(ctx, g, m.mean, testX))
	postMean := Add(testMean, applyDense(crossCov, alpha))

	solved := lazymat.SolveWithIterations(trainCov, Transpose(crossCov, 0, 1), m.solveIterations)
	testCov := kernels.Eval(ctx, g, m.kernel, testX, nil).Dense()
	postCov := Sub(testCov, MatMul(crossCov, solved))

	klog.V(2).Infof("exact GP posterior: %d test points conditioned on %d training points, %d CG iterations",
		testX.Shape().Dimensions[0], trainX.Shape().Dimensions[0], m.solveIterations)
	return randvars.NewNormal(postMean, lazymat.AddJitter(lazymat.FromNode(postCov), m.jitter))
}

// applyDense multiplies a dense [n, m] matrix by a vector [m].
func applyDense(mat, x *Node) *Node {
	return Squeeze(MatMul(mat, InsertAxes(x, -1)), -1)
}

var (
	_ gogp.Module        = (*ExactGP)(nil)
	_ gogp.GroupProvider = (*ExactGP)(nil)
)
