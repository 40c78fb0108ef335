// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"math"
	"os"
	"sort"

	"github.com/charmbracelet/lipgloss"
	lgtable "github.com/charmbracelet/lipgloss/table"
	mg "github.com/erkkah/margaid"
	"github.com/pkg/errors"
)

// gridResult is one scored hyperparameter candidate.
type gridResult struct {
	logScale, logNoise float64
	mse                float64
}

// bestResult returns the candidate with the lowest held-out error.
func bestResult(results []gridResult) gridResult {
	best := results[0]
	for _, r := range results[1:] {
		if r.mse < best.mse {
			best = r
		}
	}
	return best
}

// renderResults formats the top grid search candidates as a table.
func renderResults(results []gridResult, hasScale bool) string {
	sorted := make([]gridResult, len(results))
	copy(sorted, results)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].mse < sorted[j].mse })
	if len(sorted) > 5 {
		sorted = sorted[:5]
	}

	table := lgtable.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("14"))).
		StyleFunc(func(row, col int) lipgloss.Style {
			return lipgloss.NewStyle().Padding(0, 1)
		})
	if hasScale {
		table.Headers("Kernel scale (log)", "Noise variance", "Held-out MSE")
	} else {
		table.Headers("Noise variance", "Held-out MSE")
	}
	for _, r := range sorted {
		if hasScale {
			table.Row(
				fmt.Sprintf("%.3f", r.logScale),
				fmt.Sprintf("%.5f", math.Exp(r.logNoise)),
				fmt.Sprintf("%.5f", r.mse))
		} else {
			table.Row(
				fmt.Sprintf("%.5f", math.Exp(r.logNoise)),
				fmt.Sprintf("%.5f", r.mse))
		}
	}
	return table.String()
}

// plotFit writes an SVG comparing held-out observations with the posterior
// mean and its 2-sigma band.
func plotFit(path string, test *dataset, mean, variance []float64) error {
	observed := mg.NewSeries(mg.Titled("observed"))
	predicted := mg.NewSeries(mg.Titled("posterior mean"))
	upper := mg.NewSeries(mg.Titled("+2 sigma"))
	lower := mg.NewSeries(mg.Titled("-2 sigma"))
	for ii, x := range test.xs {
		sigma := math.Sqrt(math.Max(variance[ii], 0))
		observed.Add(mg.MakeValue(x, test.ys[ii]))
		predicted.Add(mg.MakeValue(x, mean[ii]))
		upper.Add(mg.MakeValue(x, mean[ii]+2*sigma))
		lower.Add(mg.MakeValue(x, mean[ii]-2*sigma))
	}

	allSeries := []*mg.Series{observed, predicted, upper, lower}
	diagram := mg.New(1024, 400,
		mg.WithAutorange(mg.XAxis, allSeries...),
		mg.WithAutorange(mg.YAxis, allSeries...),
		mg.WithInset(70),
		mg.WithPadding(2),
		mg.WithColorScheme(90),
		mg.WithBackgroundColor("#f8f8f8"),
	)
	diagram.Line(observed, mg.UsingAxes(mg.XAxis, mg.YAxis), mg.UsingMarker("circle"), mg.UsingStrokeWidth(0))
	diagram.Line(predicted, mg.UsingAxes(mg.XAxis, mg.YAxis), mg.UsingStrokeWidth(2))
	diagram.Line(upper, mg.UsingAxes(mg.XAxis, mg.YAxis), mg.UsingStrokeWidth(1))
	diagram.Line(lower, mg.UsingAxes(mg.XAxis, mg.YAxis), mg.UsingStrokeWidth(1))
	diagram.Axis(observed, mg.XAxis, diagram.ValueTicker('f', 2, 10), false, "x")
	diagram.Axis(observed, mg.YAxis, diagram.ValueTicker('f', 2, 10), true, "y")
	diagram.Frame()
	diagram.Title("Gaussian process fit")
	diagram.Legend(mg.BottomLeft)

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "failed to create plot file %q", path)
	}
	defer func() { _ = f.Close() }()
	if err := diagram.Render(f); err != nil {
		return errors.Wrapf(err, "failed to render plot to %q", path)
	}
	return nil
}
