// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package gogp

import (
	"fmt"
	"iter"

	"github.com/gomlx/gomlx/pkg/core/graph"
	"github.com/gomlx/gomlx/pkg/core/shapes"
	"github.com/gomlx/gomlx/pkg/ml/context"
	. "github.com/gomlx/gomlx/pkg/support/exceptions"
)

// ParameterGroup is a named bundle of learnable variables treated as one unit:
// one conceptual parameter of a probabilistic module (a kernel's lengthscale, a
// likelihood's noise), possibly made of several raw variables. The variables
// live in the group's own context scope, so checkpointing and variable
// enumeration of the host context see them as ordinary variables.
//
// Modules never hold raw *context.Variable attributes; they register groups on
// their Base (see Base.Register).
type ParameterGroup struct {
	name  string
	ctx   *context.Context
	names []string
	vars  map[string]*context.Variable
}

// NewParameterGroup creates an empty group. Its variables are created in the
// scope ctx.In(name).
func NewParameterGroup(ctx *context.Context, name string) *ParameterGroup {
	if name == "" {
		Panicf("parameter group name cannot be empty")
	}
	return &ParameterGroup{
		name: name,
		ctx:  ctx.In(context.EscapeScopeName(name)),
		vars: make(map[string]*context.Variable),
	}
}

// Name of the group.
func (pg *ParameterGroup) Name() string { return pg.name }

// Scope in which the group's variables are created.
func (pg *ParameterGroup) Scope() string { return pg.ctx.Scope() }

// String implements fmt.Stringer.
func (pg *ParameterGroup) String() string {
	return fmt.Sprintf("ParameterGroup(%q: %d variables, %d parameters)", pg.name, len(pg.names), pg.NumParameters())
}

func (pg *ParameterGroup) record(name string, v *context.Variable) *context.Variable {
	if _, found := pg.vars[name]; !found {
		pg.names = append(pg.names, name)
	}
	pg.vars[name] = v
	return v
}

// VariableWithShape creates (or reuses, following the context's reuse rules) a
// variable in the group, initialized with the context's initializer.
func (pg *ParameterGroup) VariableWithShape(name string, shape shapes.Shape) *context.Variable {
	return pg.record(name, pg.ctx.VariableWithShape(name, shape))
}

// VariableWithValue creates (or reuses) a variable in the group with the given
// initial value -- any value accepted by tensors.FromAnyValue.
func (pg *ParameterGroup) VariableWithValue(name string, value any) *context.Variable {
	return pg.record(name, pg.ctx.VariableWithValue(name, value))
}

// Get returns the variable with the given name. It panics if the group has no
// such variable.
func (pg *ParameterGroup) Get(name string) *context.Variable {
	v, found := pg.vars[name]
	if !found {
		Panicf("parameter group %q has no variable %q", pg.name, name)
	}
	return v
}

// ValueGraph is shorthand for Get(name).ValueGraph(g).
func (pg *ParameterGroup) ValueGraph(g *graph.Graph, name string) *graph.Node {
	return pg.Get(name).ValueGraph(g)
}

// Variables iterates over the group's variables in creation order.
func (pg *ParameterGroup) Variables() iter.Seq[*context.Variable] {
	return func(yield func(*context.Variable) bool) {
		for _, name := range pg.names {
			if !yield(pg.vars[name]) {
				return
			}
		}
	}
}

// NamedVariables iterates over (name, variable) pairs in creation order.
func (pg *ParameterGroup) NamedVariables() iter.Seq2[string, *context.Variable] {
	return func(yield func(string, *context.Variable) bool) {
		for _, name := range pg.names {
			if !yield(name, pg.vars[name]) {
				return
			}
		}
	}
}

// NumParameters returns the total number of scalar parameters in the group.
func (pg *ParameterGroup) NumParameters() int {
	total := 0
	for v := range pg.Variables() {
		total += v.Shape().Size()
	}
	return total
}

// SetTrainable marks every variable of the group as trainable (or not) and
// returns the group for chaining.
func (pg *ParameterGroup) SetTrainable(trainable bool) *ParameterGroup {
	for v := range pg.Variables() {
		v.SetTrainable(trainable)
	}
	return pg
}
