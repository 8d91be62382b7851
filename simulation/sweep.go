/*
sweep.go - Sensitivity series over a single delta

PURPOSE:
  Answers "how does risk move as I drag one slider?" by running Compute
  for every step of one delta while the other three stay fixed.

USAGE:
  points, err := simulation.Sweep(engine, ctx, deltas, 2026,
      simulation.AttritionField, -10, 10, 1)
*/
package simulation

import (
	"fmt"
	"math"
)

// DeltaField names one of the four adjustments.
type DeltaField string

const (
	InternshipField DeltaField = "internship"
	ConversionField DeltaField = "conversion"
	AttritionField  DeltaField = "attrition"
	GrowthField     DeltaField = "growth"
)

// DeltaFields lists every field in slider order.
var DeltaFields = []DeltaField{InternshipField, ConversionField, AttritionField, GrowthField}

// Get returns the value of the named delta.
func (d DeltaSet) Get(field DeltaField) (float64, error) {
	switch field {
	case InternshipField:
		return d.InternshipDelta, nil
	case ConversionField:
		return d.ConversionDelta, nil
	case AttritionField:
		return d.AttritionDelta, nil
	case GrowthField:
		return d.GrowthDelta, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownDelta, field)
}

// With returns a copy of d with the named delta replaced.
func (d DeltaSet) With(field DeltaField, v float64) (DeltaSet, error) {
	switch field {
	case InternshipField:
		d.InternshipDelta = v
	case ConversionField:
		d.ConversionDelta = v
	case AttritionField:
		d.AttritionDelta = v
	case GrowthField:
		d.GrowthDelta = v
	default:
		return d, fmt.Errorf("%w: %q", ErrUnknownDelta, field)
	}
	return d, nil
}

// SweepPoint is one step of a sweep.
type SweepPoint struct {
	Delta  float64 `json:"delta"`
	Result Result  `json:"result"`
}

// maxSweepPoints caps the number of steps a single sweep may produce.
const maxSweepPoints = 1000

// sweepTolerance absorbs float error in (to-from)/step so an end value
// that is a whole number of steps away is not lost.
const sweepTolerance = 1e-9

// Sweep computes results for field = from, from+step, ... up to and
// including to.
func Sweep(e Engine, ctx Context, base DeltaSet, year int, field DeltaField, from, to, step float64) ([]SweepPoint, error) {
	if _, err := base.Get(field); err != nil {
		return nil, err
	}
	if !isFinite(from) || !isFinite(to) || !isFinite(step) || step <= 0 || to < from {
		return nil, fmt.Errorf("%w: from=%v to=%v step=%v", ErrInvalidSweep, from, to, step)
	}
	span := (to - from) / step
	if !(span+1 <= maxSweepPoints) {
		return nil, fmt.Errorf("%w: %g points exceeds limit of %d", ErrInvalidSweep, math.Floor(span)+1, maxSweepPoints)
	}
	n := int(math.Floor(span+sweepTolerance)) + 1

	points := make([]SweepPoint, 0, n)
	for i := 0; i < n; i++ {
		v := math.Min(from+float64(i)*step, to)
		deltas, _ := base.With(field, v)
		points = append(points, SweepPoint{Delta: v, Result: e.Compute(ctx, deltas, year)})
	}
	return points, nil
}
