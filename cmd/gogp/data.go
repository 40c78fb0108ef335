// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package main

import (
	"math"
	"os"
	"sort"

	"github.com/go-gota/gota/dataframe"
	"github.com/gomlx/gomlx/backends"
	"github.com/gomlx/gomlx/pkg/core/dtypes"
	. "github.com/gomlx/gomlx/pkg/core/graph"
	"github.com/gomlx/gomlx/pkg/core/shapes"
	"github.com/gomlx/gomlx/pkg/core/tensors"
	"github.com/pkg/errors"
)

// dataset is a 1-dimensional regression problem held on the host.
type dataset struct {
	xs, ys []float64
}

// loadCSV reads a dataset from a CSV file with at least the two named
// columns.
func loadCSV(path, xColumn, yColumn string) (*dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open dataset %q", path)
	}
	defer func() { _ = f.Close() }()
	df := dataframe.ReadCSV(f)
	if df.Error() != nil {
		return nil, errors.Wrapf(df.Error(), "failed to parse dataset %q", path)
	}
	names := df.Names()
	for _, required := range []string{xColumn, yColumn} {
		found := false
		for _, name := range names {
			if name == required {
				found = true
				break
			}
		}
		if !found {
			return nil, errors.Errorf("dataset %q has no column %q (columns: %v)", path, required, names)
		}
	}
	ds := &dataset{
		xs: df.Col(xColumn).Float(),
		ys: df.Col(yColumn).Float(),
	}
	if len(ds.xs) == 0 {
		return nil, errors.Errorf("dataset %q is empty", path)
	}
	return ds, nil
}

// synthesize generates numPoints noisy observations of sin(2*pi*x) over
// x in [-1, 1], on the accelerator.
func synthesize(backend backends.Backend, numPoints int, noise float64) *dataset {
	e := MustNewExec(backend, func(g *Graph) (x, y *Node) {
		rngState := RNGStateForGraph(g)
		rngState, x = RandomUniform(rngState, shapes.Make(dtypes.Float64, numPoints))
		x = AddScalar(MulScalar(x, 2), -1)
		var eps *Node
		_, eps = RandomNormal(rngState, shapes.Make(dtypes.Float64, numPoints))
		y = Add(Sin(MulScalar(x, 2*math.Pi)), MulScalar(eps, noise))
		return
	})
	defer e.Finalize()
	outputs := e.MustExec()
	return &dataset{
		xs: tensors.MustCopyFlatData[float64](outputs[0]),
		ys: tensors.MustCopyFlatData[float64](outputs[1]),
	}
}

// sortByX orders the points by input, which keeps plots readable.
func (ds *dataset) sortByX() {
	indices := make([]int, len(ds.xs))
	for ii := range indices {
		indices[ii] = ii
	}
	sort.Slice(indices, func(i, j int) bool { return ds.xs[indices[i]] < ds.xs[indices[j]] })
	xs := make([]float64, len(ds.xs))
	ys := make([]float64, len(ds.ys))
	for ii, idx := range indices {
		xs[ii] = ds.xs[idx]
		ys[ii] = ds.ys[idx]
	}
	ds.xs, ds.ys = xs, ys
}

// split interleaves points into train and test sets: roughly every
// 1/testFraction-th point is held out, which keeps both sets covering the
// input range.
func (ds *dataset) split(testFraction float64) (train, test *dataset) {
	train, test = &dataset{}, &dataset{}
	stride := int(1 / testFraction)
	if stride < 2 {
		stride = 2
	}
	for ii := range ds.xs {
		if ii%stride == stride-1 {
			test.xs = append(test.xs, ds.xs[ii])
			test.ys = append(test.ys, ds.ys[ii])
		} else {
			train.xs = append(train.xs, ds.xs[ii])
			train.ys = append(train.ys, ds.ys[ii])
		}
	}
	return
}

// tensors converts the dataset to device tensors: inputs with shape [n, 1]
// and targets with shape [n].
func (ds *dataset) tensors() (x, y *tensors.Tensor) {
	x = tensors.FromFlatDataAndDimensions(ds.xs, len(ds.xs), 1)
	y = tensors.FromFlatDataAndDimensions(ds.ys, len(ds.ys))
	return
}
