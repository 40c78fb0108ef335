// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package gogp

import (
	"github.com/gomlx/gogp/lazymat"
	"github.com/gomlx/gogp/randvars"
	"github.com/gomlx/gomlx/pkg/core/graph"
	. "github.com/gomlx/gomlx/pkg/support/exceptions"
)

// AsTensor returns v as a *graph.Node, panicking with a usage error if v is
// anything else. Use it inside Forward implementations to unpack inputs, and
// on Call results when a tensor is expected.
func AsTensor(v Value) *graph.Node {
	node, ok := v.(*graph.Node)
	if !ok {
		Panicf("expected a tensor (*graph.Node) value, got %T", v)
	}
	return node
}

// AsRandomVariable returns v as a randvars.RandomVariable, panicking with a
// usage error otherwise.
func AsRandomVariable(v Value) randvars.RandomVariable {
	rv, ok := v.(randvars.RandomVariable)
	if !ok {
		Panicf("expected a randvars.RandomVariable value, got %T", v)
	}
	return rv
}

// AsMatrix returns v as a lazymat.Matrix, panicking with a usage error
// otherwise.
func AsMatrix(v Value) lazymat.Matrix {
	m, ok := v.(lazymat.Matrix)
	if !ok {
		Panicf("expected a lazymat.Matrix value, got %T", v)
	}
	return m
}
