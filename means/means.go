// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package means implements prior mean functions for Gaussian process models.
//
// A mean function is a gogp.Module mapping a batch of inputs x with shape
// [n, d] to a mean vector with shape [n]. Learnable parameters live in
// gogp.ParameterGroups created at construction time, so a mean can be applied
// to any number of input batches within the same graph.
package means

import (
	"github.com/gomlx/gogp"
	. "github.com/gomlx/gomlx/pkg/core/graph"
	"github.com/gomlx/gomlx/pkg/core/shapes"
	"github.com/gomlx/gomlx/pkg/ml/context"
	. "github.com/gomlx/gomlx/pkg/support/exceptions"
)

// batchInput unpacks and checks the single [n, d] input all means take.
func batchInput(inputs []gogp.Value) *Node {
	if len(inputs) != 1 {
		Panicf("mean functions take exactly one input, got %d", len(inputs))
	}
	x := gogp.AsTensor(inputs[0])
	if x.Rank() != 2 {
		Panicf("mean functions take a [batch, features] input, got shape %s", x.Shape())
	}
	return x
}

// Zero is the zero mean function: it maps any input batch to a zero vector.
// It has no parameters.
type Zero struct {
	gogp.Base
}

// NewZero creates a zero mean function.
func NewZero() *Zero {
	return &Zero{}
}

// Forward returns a zero vector with one entry per input row.
func (m *Zero) Forward(_ *context.Context, g *Graph, inputs ...gogp.Value) []gogp.Value {
	x := batchInput(inputs)
	n := x.Shape().Dimensions[0]
	return []gogp.Value{Zeros(g, shapes.Make(x.DType(), n))}
}

// Constant is a mean function with a single learnable scalar, shared across
// all inputs. It starts at zero.
type Constant struct {
	gogp.Base
	mean *gogp.ParameterGroup
}

// NewConstant creates a constant mean function, with its parameter stored
// under the given context scope.
func NewConstant(ctx *context.Context) *Constant {
	m := &Constant{
		mean: gogp.NewParameterGroup(ctx, "mean"),
	}
	m.mean.VariableWithValue("constant", 0.0)
	m.Register("mean", m.mean)
	return m
}

// Forward broadcasts the constant to one entry per input row.
func (m *Constant) Forward(_ *context.Context, g *Graph, inputs ...gogp.Value) []gogp.Value {
	x := batchInput(inputs)
	n := x.Shape().Dimensions[0]
	c := ConvertDType(m.mean.ValueGraph(g, "constant"), x.DType())
	return []gogp.Value{Mul(Ones(g, shapes.Make(x.DType(), n)), c)}
}

// compile-time checks that means satisfy the module interfaces.
var (
	_ gogp.Module        = (*Zero)(nil)
	_ gogp.Module        = (*Constant)(nil)
	_ gogp.GroupProvider = (*Constant)(nil)
)
