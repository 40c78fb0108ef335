// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package kernels

import (
	"fmt"

	"github.com/gomlx/gogp"
	"github.com/gomlx/gogp/lazymat"
	. "github.com/gomlx/gomlx/pkg/core/graph"
	"github.com/gomlx/gomlx/pkg/ml/context"
	. "github.com/gomlx/gomlx/pkg/support/exceptions"
)

// Sum is the sum of its term kernels: k(a, b) = sum_i k_i(a, b). Each term
// is registered as a child module, so its parameter groups show up in the
// recursive enumeration under "term_0", "term_1", ...
type Sum struct {
	gogp.Base
	terms []gogp.Module
}

// NewSum creates the sum of the given kernels. At least one term is required.
func NewSum(terms ...gogp.Module) *Sum {
	if len(terms) == 0 {
		Panicf("kernels.NewSum requires at least one term")
	}
	k := &Sum{terms: terms}
	for ii, term := range terms {
		k.Register(fmt.Sprintf("term_%d", ii), term)
	}
	return k
}

// Forward evaluates every term and returns their lazy sum.
func (k *Sum) Forward(ctx *context.Context, g *Graph, inputs ...gogp.Value) []gogp.Value {
	parts := make([]lazymat.Matrix, len(k.terms))
	for ii, term := range k.terms {
		parts[ii] = gogp.AsMatrix(gogp.Call1(ctx, g, term, inputs...))
	}
	return []gogp.Value{lazymat.Sum(parts...)}
}

// Product is the elementwise product of its term kernels:
// k(a, b) = prod_i k_i(a, b). Terms are registered as children like in Sum.
//
// Unlike Sum, the product has no lazy structure to exploit, so the terms are
// materialized and multiplied densely.
type Product struct {
	gogp.Base
	terms []gogp.Module
}

// NewProduct creates the elementwise product of the given kernels. At least
// one term is required.
func NewProduct(terms ...gogp.Module) *Product {
	if len(terms) == 0 {
		Panicf("kernels.NewProduct requires at least one term")
	}
	k := &Product{terms: terms}
	for ii, term := range terms {
		k.Register(fmt.Sprintf("term_%d", ii), term)
	}
	return k
}

// Forward evaluates every term densely and multiplies them elementwise.
func (k *Product) Forward(ctx *context.Context, g *Graph, inputs ...gogp.Value) []gogp.Value {
	var cov *Node
	for _, term := range k.terms {
		dense := gogp.AsMatrix(gogp.Call1(ctx, g, term, inputs...)).Dense()
		if cov == nil {
			cov = dense
		} else {
			cov = Mul(cov, dense)
		}
	}
	return []gogp.Value{lazymat.FromNode(cov)}
}

var (
	_ gogp.Module = (*Sum)(nil)
	_ gogp.Module = (*Product)(nil)
)
