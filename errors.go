// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package schoolmatch

import (
	"errors"
	"fmt"
)

// ErrEmptyCapacity aborts a run: there are no schools to allocate.
var ErrEmptyCapacity = errors.New("empty school capacity dataset")

// ValidationError reports a missing or malformed agent attribute. The agent
// is excluded from scoring and allocation, the run goes on.
type ValidationError struct {
	AgentID string
	Field   string
	Value   string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("agent %s: %s: %v", e.AgentID, e.Field, e.Err)
	}
	return fmt.Sprintf("agent %s: %s %q: %v", e.AgentID, e.Field, e.Value, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// MissingPreferenceError reports an agent without a preference list.
type MissingPreferenceError struct {
	AgentID string
}

func (e *MissingPreferenceError) Error() string {
	return fmt.Sprintf("agent %s: no preference list", e.AgentID)
}

type DuplicateSchoolError struct {
	Key SchoolKey
}

func (e *DuplicateSchoolError) Error() string {
	return fmt.Sprintf("duplicate school %q (region %q, municipality %q)",
		e.Key.Name, e.Key.Region, e.Key.Municipality)
}

type InvalidVacanciesError struct {
	Key       SchoolKey
	Vacancies int
}

func (e *InvalidVacanciesError) Error() string {
	return fmt.Sprintf("school %q (region %q, municipality %q): negative vacancies %d",
		e.Key.Name, e.Key.Region, e.Key.Municipality, e.Vacancies)
}
