// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package gogp extends GoMLX with probabilistic modules: model components whose
// inputs and outputs are typed as tensors (graph nodes), random variables or
// lazily-evaluated matrices, and whose learnable values are organized in named
// parameter groups.
//
// The package does not implement its own execution engine or autodiff -- all
// computation is delegated to GoMLX's computation graph. What it adds is a
// calling convention:
//
//   - A Module is anything with a Forward method taking a context.Context (the
//     variable registry), a *graph.Graph and a list of Values.
//   - Call invokes a Module and validates the types flowing in and out: inputs
//     must be tensors (*graph.Node) or random variables
//     (randvars.RandomVariable); outputs may additionally be lazy matrices
//     (lazymat.Matrix).
//   - Learnable values are never attached to a module directly: they are
//     bundled into named ParameterGroups, registered on the module's embedded
//     Base, and enumerated (recursively over child modules) with
//     Base.NamedParameterGroups.
//
// Sub-packages provide the concrete vocabulary: lazymat (structured lazy
// matrices with conjugate-gradient solves), randvars (distribution-valued
// graph nodes), kernels, means, likelihoods and models (Gaussian process
// components built on top of the former).
package gogp

import (
	"github.com/gomlx/gogp/lazymat"
	"github.com/gomlx/gogp/randvars"
	"github.com/gomlx/gomlx/pkg/core/graph"
)

// Value is an input or output of a Module. It is dynamically typed on purpose:
// the host graph's tensor type (*graph.Node) is a foreign type, so a closed sum
// type cannot be expressed. Call does the type validation at the module
// boundary.
//
// Valid module inputs: *graph.Node, randvars.RandomVariable.
// Valid module outputs: *graph.Node, randvars.RandomVariable, lazymat.Matrix.
type Value = any

// validInput reports whether v is a legal Module input.
func validInput(v Value) bool {
	switch v.(type) {
	case *graph.Node:
		return true
	case randvars.RandomVariable:
		return true
	}
	return false
}

// validOutput reports whether v is a legal Module output.
func validOutput(v Value) bool {
	if validInput(v) {
		return true
	}
	_, ok := v.(lazymat.Matrix)
	return ok
}
