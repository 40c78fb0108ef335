// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package likelihoods implements observation models mapping latent function
// values, given as random variables, to distributions over observed targets.
package likelihoods

import (
	"github.com/gomlx/gogp"
	"github.com/gomlx/gogp/lazymat"
	"github.com/gomlx/gogp/randvars"
	"github.com/gomlx/gomlx/pkg/core/dtypes"
	. "github.com/gomlx/gomlx/pkg/core/graph"
	"github.com/gomlx/gomlx/pkg/ml/context"
	. "github.com/gomlx/gomlx/pkg/support/exceptions"
)

// Gaussian is the homoskedastic gaussian observation model: targets are the
// latent function plus independent noise with a learnable variance, stored as
// its log and initialized to 1.
type Gaussian struct {
	gogp.Base
	noise *gogp.ParameterGroup
}

// NewGaussian creates a gaussian likelihood with its noise parameter stored
// under the given context scope.
func NewGaussian(ctx *context.Context) *Gaussian {
	l := &Gaussian{
		noise: gogp.NewParameterGroup(ctx, "noise"),
	}
	l.noise.VariableWithValue("log_noise", 0.0)
	l.Register("noise", l.noise)
	return l
}

// NoiseVariance returns the current noise variance as a scalar node of the
// given dtype.
func (l *Gaussian) NoiseVariance(g *Graph, dtype dtypes.DType) *Node {
	return Exp(ConvertDType(l.noise.ValueGraph(g, "log_noise"), dtype))
}

// Forward takes a multivariate normal over latent function values and
// returns the marginal distribution over observations, with the noise
// variance added to the covariance diagonal.
func (l *Gaussian) Forward(_ *context.Context, g *Graph, inputs ...gogp.Value) []gogp.Value {
	if len(inputs) != 1 {
		Panicf("likelihoods.Gaussian takes exactly one input, got %d", len(inputs))
	}
	f, ok := gogp.AsRandomVariable(inputs[0]).(*randvars.Normal)
	if !ok {
		Panicf("likelihoods.Gaussian takes a *randvars.Normal input, got %T", inputs[0])
	}
	noise := lazymat.NewScaledIdentity(f.Dim(), l.NoiseVariance(g, f.DType()))
	cov := lazymat.Sum(f.CovarianceMatrix(), noise)
	return []gogp.Value{randvars.NewNormal(f.Mean(), cov)}
}

var (
	_ gogp.Module        = (*Gaussian)(nil)
	_ gogp.GroupProvider = (*Gaussian)(nil)
)
