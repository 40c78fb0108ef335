// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// gogp fits a Gaussian process regression model to a 1-dimensional dataset,
// either synthetic or loaded from a CSV file, tuning hyperparameters by grid
// search over held-out error. It demonstrates the module, kernel and lazy
// matrix machinery end to end.
package main

import (
	"flag"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/gomlx/gogp"
	"github.com/gomlx/gogp/kernels"
	"github.com/gomlx/gogp/likelihoods"
	"github.com/gomlx/gogp/means"
	"github.com/gomlx/gogp/models"
	"github.com/gomlx/gomlx/backends"
	. "github.com/gomlx/gomlx/pkg/core/graph"
	"github.com/gomlx/gomlx/pkg/core/tensors"
	"github.com/gomlx/gomlx/pkg/ml/context"
	"github.com/janpfeifer/must"
	"github.com/schollz/progressbar/v3"
	"k8s.io/klog/v2"

	_ "github.com/gomlx/gomlx/backends/default"
)

var (
	flagData    = flag.String("data", "", "CSV file with the dataset. If empty, synthetic data is generated.")
	flagXColumn = flag.String("x_column", "x", "Name of the input column in the CSV file.")
	flagYColumn = flag.String("y_column", "y", "Name of the target column in the CSV file.")

	flagNumPoints = flag.Int("num_points", 200, "Number of synthetic points to generate.")
	flagNoise     = flag.Float64("noise", 0.1, "Noise level of the synthetic data.")

	flagKernel       = flag.String("kernel", "rbf", "Kernel to use: rbf, linear, periodic, rbf+linear.")
	flagTestFraction = flag.Float64("test_fraction", 0.2, "Fraction of points held out for scoring.")
	flagGridSize     = flag.Int("grid", 8, "Number of grid points per hyperparameter in the search.")
	flagCGIterations = flag.Int("cg_iterations", 64, "Conjugate gradient iterations for covariance solves.")
	flagPlot         = flag.String("plot", "", "If set, write an SVG plot of the fit to this file.")
)

// buildKernel creates the kernel selected by name, with parameters under ctx.
func buildKernel(ctx *context.Context, name string) gogp.Module {
	switch name {
	case "rbf":
		return kernels.NewRBF(ctx.In("rbf"))
	case "linear":
		return kernels.NewLinear(ctx.In("linear"))
	case "periodic":
		return kernels.NewPeriodic(ctx.In("periodic"))
	case "rbf+linear":
		return kernels.NewSum(
			kernels.NewRBF(ctx.In("rbf")),
			kernels.NewLinear(ctx.In("linear")))
	default:
		klog.Fatalf("unknown kernel %q, use rbf, linear, periodic or rbf+linear", name)
		return nil
	}
}

// scaleVariable finds the kernel hyperparameter to sweep: the first log
// lengthscale or log variance in the model's parameter groups. It can be nil
// for kernels without one.
func scaleVariable(model *models.ExactGP) *context.Variable {
	for groupName, group := range model.NamedParameterGroups() {
		if groupName == "likelihood/noise" {
			continue
		}
		for name, v := range group.NamedVariables() {
			if name == "log_lengthscale" || name == "log_variance" {
				return v
			}
		}
	}
	return nil
}

// linspace returns n evenly spaced values covering [lo, hi].
func linspace(lo, hi float64, n int) []float64 {
	if n == 1 {
		return []float64{(lo + hi) / 2}
	}
	values := make([]float64, n)
	for ii := range values {
		values[ii] = lo + (hi-lo)*float64(ii)/float64(n-1)
	}
	return values
}

// meanSquaredError between a prediction and the held-out targets.
func meanSquaredError(predicted *tensors.Tensor, target []float64) float64 {
	values := tensors.MustCopyFlatData[float64](predicted)
	var sum float64
	for ii, v := range values {
		diff := v - target[ii]
		sum += diff * diff
	}
	return sum / float64(len(values))
}

func main() {
	klog.InitFlags(nil)
	flag.Parse()
	backend := backends.MustNew()
	fmt.Printf("Backend: %s, %s\n", backend.Name(), backend.Description())

	var ds *dataset
	if *flagData != "" {
		ds = must.M1(loadCSV(*flagData, *flagXColumn, *flagYColumn))
	} else {
		ds = synthesize(backend, *flagNumPoints, *flagNoise)
	}
	ds.sortByX()
	train, test := ds.split(*flagTestFraction)
	fmt.Printf("Dataset: %s training points, %s test points\n",
		humanize.Comma(int64(len(train.xs))), humanize.Comma(int64(len(test.xs))))

	ctx := context.New()
	model := models.NewExactGP(
		means.NewConstant(ctx.In("mean")),
		buildKernel(ctx.In("covar"), *flagKernel),
		likelihoods.NewGaussian(ctx.In("likelihood")),
	).WithSolveIterations(*flagCGIterations)

	fmt.Printf("Model: %s kernel, %s parameters\n", *flagKernel,
		humanize.Comma(int64(model.NumParameters())))
	for name, group := range model.NamedParameterGroups() {
		fmt.Printf("\t%s: %d parameter(s) at scope %q\n", name, group.NumParameters(), group.Scope())
	}

	trainX, trainY := train.tensors()
	testX, _ := test.tensors()
	predict := context.MustNewExec(backend, ctx,
		func(ctx *context.Context, trainX, trainY, testX *Node) (mean, variance *Node) {
			posterior := model.Posterior(ctx, trainX.Graph(), trainX, trainY, testX)
			return posterior.Mean(), posterior.Variance()
		})

	scaleVar := scaleVariable(model)
	noiseVar := model.Group("noise").Get("log_noise")
	scaleGrid := []float64{0}
	if scaleVar != nil {
		scaleGrid = linspace(-2, 1, *flagGridSize)
	}
	noiseGrid := linspace(-5, 0, *flagGridSize)

	bar := progressbar.Default(int64(len(scaleGrid)*len(noiseGrid)), "grid search")
	var results []gridResult
	for _, logScale := range scaleGrid {
		if scaleVar != nil {
			scaleVar.MustSetValue(tensors.FromScalar(logScale))
		}
		for _, logNoise := range noiseGrid {
			noiseVar.MustSetValue(tensors.FromScalar(logNoise))
			mean, _ := predict.MustExec2(trainX, trainY, testX)
			results = append(results, gridResult{
				logScale: logScale,
				logNoise: logNoise,
				mse:      meanSquaredError(mean, test.ys),
			})
			must.M(bar.Add(1))
		}
	}
	must.M(bar.Finish())

	best := bestResult(results)
	fmt.Println()
	fmt.Println(renderResults(results, scaleVar != nil))

	if scaleVar != nil {
		scaleVar.MustSetValue(tensors.FromScalar(best.logScale))
	}
	noiseVar.MustSetValue(tensors.FromScalar(best.logNoise))
	mean, variance := predict.MustExec2(trainX, trainY, testX)
	fmt.Printf("Best fit: held-out MSE %.5f\n", best.mse)

	if *flagPlot != "" {
		must.M(plotFit(*flagPlot, test,
			tensors.MustCopyFlatData[float64](mean),
			tensors.MustCopyFlatData[float64](variance)))
		fmt.Printf("Plot written to %s\n", *flagPlot)
	}
}
