// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package schoolmatch provides a priority-ordered greedy allocation of
// applicants to capacity-limited schools.
package schoolmatch

// Well-known flag names used by the default scoring criteria.
const (
	FlagComputerLiterate = "computer_literate"
	FlagPhD              = "has_phd"
)

type Allocator interface {
	Allocate(candidates []Candidate, capacities CapacityTable, agentIDs []string) Allocation
}

type Scorer interface {
	Score(agent *Agent) (float64, error)
}

type SchoolKey struct {
	Region       string
	Municipality string
	Name         string
}

type School struct {
	Key       SchoolKey
	Vacancies int
}

type Agent struct {
	ID         string
	FirstName  string
	SecondName string

	// Grade is kept as raw text, both '.' and ',' are accepted as the
	// decimal point.
	Grade string
	// Flags are free-text yes/no tokens keyed by attribute name.
	Flags map[string]string
}

type ScoredAgent struct {
	Agent *Agent
	Score float64
}

// PreferenceTable maps an agent id to its ranked school keys, most
// preferred first. A missing entry means the agent has no preference list.
type PreferenceTable map[string][]SchoolKey

type Candidate struct {
	AgentID string
	Score   float64
	Rank    int // 1-based
	School  SchoolKey
}

type Assignment struct {
	AgentID string
	School  SchoolKey
	Rank    int
	Score   float64
}

type Allocation struct {
	// Assignments are in the order the allocation pass made them.
	Assignments []Assignment
	Remaining   CapacityTable
	// Perfect is set when every requested agent id got an assignment.
	Perfect bool
}

// Record is the final outcome of one agent. Nil pointers mark an absent
// value: no score when scoring failed, no rank and school when unassigned.
type Record struct {
	AgentID    string
	FirstName  string
	SecondName string

	Score  *float64
	Rank   *int
	School *SchoolKey
}

func (r *Record) Assigned() bool {
	return r.School != nil
}
