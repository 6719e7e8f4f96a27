// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package score

import (
	"github.com/someonegg/schoolmatch"
)

type weightedScorer struct {
	terms []Term
}

// Weighted sums weight*value over the terms. The first failing criterion
// fails the whole score.
func Weighted(terms ...Term) schoolmatch.Scorer {
	ts := make([]Term, len(terms))
	copy(ts, terms)
	return &weightedScorer{terms: ts}
}

// Default scores grade*10 + computer_literate*5 + has_phd*15.
func Default() schoolmatch.Scorer {
	return DefaultWeights().Scorer()
}

// Scorer builds the default formula with these weights, extra terms are
// appended after the built-in ones.
func (w Weights) Scorer(extra ...Term) schoolmatch.Scorer {
	terms := []Term{
		{Criterion: Grade(), Weight: w.Grade},
		{Criterion: Flag(schoolmatch.FlagComputerLiterate), Weight: w.ComputerLiterate},
		{Criterion: Flag(schoolmatch.FlagPhD), Weight: w.PhD},
	}
	return Weighted(append(terms, extra...)...)
}

func (s *weightedScorer) Score(agent *schoolmatch.Agent) (float64, error) {
	var sum float64
	for _, t := range s.terms {
		v, err := t.Criterion.Value(agent)
		if err != nil {
			return 0, err
		}
		sum += v * t.Weight
	}
	return sum, nil
}
