// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package score computes applicant priority scores as a weighted sum of
// criteria.
package score

import (
	"github.com/someonegg/schoolmatch"
)

// Criterion evaluates one attribute of an agent to a number.
type Criterion interface {
	Value(agent *schoolmatch.Agent) (float64, error)
}

type Term struct {
	Criterion Criterion
	Weight    float64
}

// Built-in weights of the default formula.
const (
	DefaultGradeWeight            = 10.0
	DefaultComputerLiterateWeight = 5.0
	DefaultPhDWeight              = 15.0
)

type Weights struct {
	Grade            float64
	ComputerLiterate float64
	PhD              float64
}

func DefaultWeights() Weights {
	return Weights{
		Grade:            DefaultGradeWeight,
		ComputerLiterate: DefaultComputerLiterateWeight,
		PhD:              DefaultPhDWeight,
	}
}
