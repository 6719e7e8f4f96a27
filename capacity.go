// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package schoolmatch

// CapacityTable holds the remaining vacancies per school. A table is owned
// by one allocation run; Allocate works on its own clone.
type CapacityTable map[SchoolKey]int

// NewCapacityTable builds a table from the initial vacancies. Duplicate keys
// are rejected, negative vacancies are rejected.
func NewCapacityTable(schools []School) (CapacityTable, error) {
	if len(schools) == 0 {
		return nil, ErrEmptyCapacity
	}

	t := make(CapacityTable, len(schools))
	for _, s := range schools {
		if _, ok := t[s.Key]; ok {
			return nil, &DuplicateSchoolError{Key: s.Key}
		}
		if s.Vacancies < 0 {
			return nil, &InvalidVacanciesError{Key: s.Key, Vacancies: s.Vacancies}
		}
		t[s.Key] = s.Vacancies
	}
	return t, nil
}

func (t CapacityTable) Clone() CapacityTable {
	c := make(CapacityTable, len(t))
	for k, v := range t {
		c[k] = v
	}
	return c
}

// Remaining returns the vacancies left, unknown schools have none.
func (t CapacityTable) Remaining(key SchoolKey) int {
	return t[key]
}

// Take consumes one seat if any is left.
func (t CapacityTable) Take(key SchoolKey) bool {
	if t[key] <= 0 {
		return false
	}
	t[key]--
	return true
}

func (t CapacityTable) Total() int {
	n := 0
	for _, v := range t {
		n += v
	}
	return n
}
