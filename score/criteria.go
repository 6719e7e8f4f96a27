// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package score

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/someonegg/schoolmatch"
)

var (
	ErrMissing    = errors.New("missing value")
	ErrNotANumber = errors.New("not a number")
)

type gradeCriterion struct{}

// Grade reads the agent's grade. Both '.' and ',' are accepted as the
// decimal point.
func Grade() Criterion {
	return gradeCriterion{}
}

func (gradeCriterion) Value(agent *schoolmatch.Agent) (float64, error) {
	v, err := ParseGrade(agent.Grade)
	if err != nil {
		return 0, &schoolmatch.ValidationError{
			AgentID: agent.ID,
			Field:   "grade",
			Value:   agent.Grade,
			Err:     err,
		}
	}
	return v, nil
}

func ParseGrade(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrMissing
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, ErrNotANumber
	}
	return v, nil
}

type flagCriterion string

// Flag is 1 when the named flag reads "yes" (trimmed, any case), 0 otherwise,
// including when the flag is absent.
func Flag(name string) Criterion {
	return flagCriterion(name)
}

func (f flagCriterion) Value(agent *schoolmatch.Agent) (float64, error) {
	if IsYes(agent.Flags[string(f)]) {
		return 1, nil
	}
	return 0, nil
}

func IsYes(token string) bool {
	return strings.ToLower(strings.TrimSpace(token)) == "yes"
}
