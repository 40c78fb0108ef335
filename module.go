// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package gogp

import (
	"iter"

	"github.com/gomlx/gomlx/pkg/core/graph"
	"github.com/gomlx/gomlx/pkg/ml/context"
	. "github.com/gomlx/gomlx/pkg/support/exceptions"
)

// Module is a model component with typed inputs and outputs. Implementations
// usually embed a Base to hold their parameter groups and child modules.
//
// Forward builds the module's computation into g. It must not be called
// directly by users -- use Call (or Call1), which validates the Value types on
// both sides. The same ctx is threaded through so nested modules find their
// variables.
type Module interface {
	Forward(ctx *context.Context, g *graph.Graph, inputs ...Value) []Value
}

// GroupProvider is implemented by modules that expose named parameter groups.
// Base implements it; Call does not require it, but group enumeration walks
// only children that provide it.
type GroupProvider interface {
	NamedParameterGroups() iter.Seq2[string, *ParameterGroup]
}

// Call invokes m.Forward after checking every input is a tensor (*graph.Node)
// or a randvars.RandomVariable, and checks every output is one of those or a
// lazymat.Matrix. It panics with a descriptive error on any violation -- these
// are usage errors, not runtime conditions.
func Call(ctx *context.Context, g *graph.Graph, m Module, inputs ...Value) []Value {
	for ii, input := range inputs {
		if !validInput(input) {
			Panicf("input #%d to module %T must be a *graph.Node or a randvars.RandomVariable, got %T", ii, m, input)
		}
	}
	outputs := m.Forward(ctx, g, inputs...)
	if len(outputs) == 0 {
		Panicf("module %T returned no outputs", m)
	}
	for ii, output := range outputs {
		if !validOutput(output) {
			Panicf("output #%d of module %T must be a *graph.Node, a randvars.RandomVariable or a lazymat.Matrix, got %T", ii, m, output)
		}
	}
	return outputs
}

// Call1 is Call for modules with exactly one output. It panics if m returns
// more than one.
func Call1(ctx *context.Context, g *graph.Graph, m Module, inputs ...Value) Value {
	outputs := Call(ctx, g, m, inputs...)
	if len(outputs) != 1 {
		Panicf("Call1 expects module %T to return exactly 1 output, got %d", m, len(outputs))
	}
	return outputs[0]
}
