// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package gogp

import (
	"testing"

	"github.com/gomlx/gomlx/pkg/core/dtypes"
	"github.com/gomlx/gomlx/pkg/core/shapes"
	"github.com/gomlx/gomlx/pkg/ml/context"
	"github.com/stretchr/testify/require"
)

func TestParameterGroup(t *testing.T) {
	ctx := context.New()
	group := NewParameterGroup(ctx.In("kernel"), "lengthscale")
	require.Equal(t, "lengthscale", group.Name())
	require.Equal(t, "/kernel/lengthscale", group.Scope())

	logLengthscale := group.VariableWithValue("log_lengthscale", 0.0)
	weights := group.VariableWithShape("weights", shapes.Make(dtypes.Float64, 3, 2))

	require.Same(t, logLengthscale, group.Get("log_lengthscale"))
	require.Same(t, weights, group.Get("weights"))
	require.Panics(t, func() { group.Get("missing") })

	var names []string
	for name := range group.NamedVariables() {
		names = append(names, name)
	}
	require.Equal(t, []string{"log_lengthscale", "weights"}, names)
	require.Equal(t, 1+3*2, group.NumParameters())

	group.SetTrainable(false)
	for v := range group.Variables() {
		require.False(t, v.Trainable)
	}

	require.Panics(t, func() { NewParameterGroup(ctx, "") })
}
