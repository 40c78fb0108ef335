// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package gogp

import (
	"iter"
	"strings"

	"github.com/gomlx/gomlx/pkg/ml/context"
	. "github.com/gomlx/gomlx/pkg/support/exceptions"
)

// Base is the embeddable core of a Module: a registry of named parameter
// groups and named child modules. The zero value is ready to use.
//
// It replaces attribute interception of dynamic frameworks: where those
// intercept attribute assignment to collect parameters, here modules register
// what they own explicitly in their constructors.
type Base struct {
	groupNames []string
	groups     map[string]*ParameterGroup

	childNames []string
	children   map[string]Module
}

// Register attaches item under the given name. The item must be a
// *ParameterGroup or a Module.
//
// Registering a raw *context.Variable is a usage error: learnable values are
// always bundled in a ParameterGroup so optimizers and consumers can treat
// them as one unit.
func (b *Base) Register(name string, item any) {
	if name == "" {
		Panicf("Base.Register requires a non-empty name")
	}
	switch value := item.(type) {
	case *context.Variable:
		Panicf("modules take ParameterGroups, not raw *context.Variable: bundle variable %q in a ParameterGroup before registering it as %q",
			value.Name(), name)
	case *ParameterGroup:
		if b.groups == nil {
			b.groups = make(map[string]*ParameterGroup)
		}
		if _, found := b.groups[name]; found {
			Panicf("parameter group %q already registered", name)
		}
		b.groupNames = append(b.groupNames, name)
		b.groups[name] = value
	case Module:
		if b.children == nil {
			b.children = make(map[string]Module)
		}
		if _, found := b.children[name]; found {
			Panicf("child module %q already registered", name)
		}
		b.childNames = append(b.childNames, name)
		b.children[name] = value
	default:
		Panicf("Base.Register(%q, ...) takes a *ParameterGroup or a Module, got %T", name, item)
	}
}

// Children iterates over the registered child modules in registration order.
func (b *Base) Children() iter.Seq2[string, Module] {
	return func(yield func(string, Module) bool) {
		for _, name := range b.childNames {
			if !yield(name, b.children[name]) {
				return
			}
		}
	}
}

// NamedParameterGroups iterates over the module's own groups in registration
// order, followed by the groups of each child module (depth first,
// registration order), for children that implement GroupProvider. Groups of
// nested modules are named by their path, e.g. "likelihood/noise".
func (b *Base) NamedParameterGroups() iter.Seq2[string, *ParameterGroup] {
	return func(yield func(string, *ParameterGroup) bool) {
		for _, name := range b.groupNames {
			if !yield(name, b.groups[name]) {
				return
			}
		}
		for _, childName := range b.childNames {
			provider, ok := b.children[childName].(GroupProvider)
			if !ok {
				continue
			}
			for name, group := range provider.NamedParameterGroups() {
				if !yield(childName+"/"+name, group) {
					return
				}
			}
		}
	}
}

// ParameterGroups iterates over the groups of NamedParameterGroups, dropping
// the names.
func (b *Base) ParameterGroups() iter.Seq[*ParameterGroup] {
	return func(yield func(*ParameterGroup) bool) {
		for _, group := range b.NamedParameterGroups() {
			if !yield(group) {
				return
			}
		}
	}
}

// Group returns the first group whose path or final path component matches
// name, searching the module's own groups and then, recursively, its
// children. It panics if no group with that name exists.
func (b *Base) Group(name string) *ParameterGroup {
	for path, group := range b.NamedParameterGroups() {
		if path == name || strings.HasSuffix(path, "/"+name) {
			return group
		}
	}
	Panicf("no parameter group %q registered in module (or its children)", name)
	return nil
}

// NumParameters returns the total number of scalar parameters across all
// groups, including child modules'.
func (b *Base) NumParameters() int {
	total := 0
	for group := range b.ParameterGroups() {
		total += group.NumParameters()
	}
	return total
}
