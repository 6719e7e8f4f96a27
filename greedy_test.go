// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package schoolmatch

import (
	"testing"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/someonegg/schoolmatch/internal/logging"
)

func school(name string) SchoolKey {
	return SchoolKey{Region: "North", Municipality: "Riverside", Name: name}
}

func makeCandidates(id string, score float64, schools ...SchoolKey) []Candidate {
	cs := make([]Candidate, len(schools))
	for i, s := range schools {
		cs[i] = Candidate{AgentID: id, Score: score, Rank: i + 1, School: s}
	}
	return cs
}

func concat(lists ...[]Candidate) []Candidate {
	var all []Candidate
	for _, l := range lists {
		all = append(all, l...)
	}
	return all
}

func assignedTo(alloc Allocation) map[string]Assignment {
	m := make(map[string]Assignment, len(alloc.Assignments))
	for _, a := range alloc.Assignments {
		m[a.AgentID] = a
	}
	return m
}

func TestGreedyAllocator_Scenarios(t *testing.T) {
	s1, s2 := school("S1"), school("S2")

	t.Run("HigherScoreTakesLastSeat", func(t *testing.T) {
		caps := CapacityTable{s1: 1}
		cands := concat(
			makeCandidates("A", 90, s1),
			makeCandidates("B", 80, s1),
		)

		alloc := GreedyAllocator(logr.Discard()).Allocate(cands, caps, []string{"A", "B"})

		want := []Assignment{{AgentID: "A", School: s1, Rank: 1, Score: 90}}
		if diff := cmp.Diff(want, alloc.Assignments); diff != "" {
			t.Errorf("unexpected assignments (-want +got):\n%s", diff)
		}
		if alloc.Perfect {
			t.Error("B is unassigned, allocation must not be perfect")
		}
	})

	t.Run("TwoHighestScoresFillCapacity", func(t *testing.T) {
		caps := CapacityTable{s1: 2}
		cands := concat(
			makeCandidates("A", 70, s1),
			makeCandidates("B", 95, s1),
			makeCandidates("C", 60, s1),
		)

		alloc := GreedyAllocator(logr.Discard()).Allocate(cands, caps, []string{"A", "B", "C"})

		got := assignedTo(alloc)
		require.Len(t, got, 2)
		assert.Equal(t, s1, got["A"].School)
		assert.Equal(t, s1, got["B"].School)
		assert.NotContains(t, got, "C")
		assert.Equal(t, "B", alloc.Assignments[0].AgentID, "pass order follows score")
		assert.Equal(t, 0, alloc.Remaining.Remaining(s1))
	})

	t.Run("FallsThroughToNextPreference", func(t *testing.T) {
		caps := CapacityTable{s1: 0, s2: 1}
		cands := makeCandidates("A", 50, s1, s2)

		alloc := GreedyAllocator(logr.Discard()).Allocate(cands, caps, []string{"A"})

		want := []Assignment{{AgentID: "A", School: s2, Rank: 2, Score: 50}}
		assert.Equal(t, want, alloc.Assignments)
		assert.True(t, alloc.Perfect)
	})
}

func TestGreedyAllocator_UnknownSchoolHasNoSeats(t *testing.T) {
	s1, ghost := school("S1"), school("Ghost")
	caps := CapacityTable{s1: 1}
	cands := makeCandidates("A", 10, ghost, s1)

	alloc := GreedyAllocator(logr.Discard()).Allocate(cands, caps, []string{"A"})

	require.Len(t, alloc.Assignments, 1)
	assert.Equal(t, s1, alloc.Assignments[0].School)
	assert.Equal(t, 2, alloc.Assignments[0].Rank)
	assert.NotContains(t, alloc.Remaining, ghost, "unknown keys are not added to the table")
}

func TestGreedyAllocator_OneSeatPerAgent(t *testing.T) {
	s1, s2, s3 := school("S1"), school("S2"), school("S3")
	caps := CapacityTable{s1: 5, s2: 5, s3: 5}
	cands := makeCandidates("A", 10, s1, s2, s3)

	alloc := GreedyAllocator(logr.Discard()).Allocate(cands, caps, []string{"A"})

	require.Len(t, alloc.Assignments, 1)
	assert.Equal(t, s1, alloc.Assignments[0].School)
	assert.Equal(t, 4, alloc.Remaining[s1])
	assert.Equal(t, 5, alloc.Remaining[s2])
	assert.Equal(t, 5, alloc.Remaining[s3])
}

func TestGreedyAllocator_HigherScoreTakesFirstChoiceOfLower(t *testing.T) {
	// B outranks A, consumes the last seat of A's first choice.
	s1, s2 := school("S1"), school("S2")
	caps := CapacityTable{s1: 1, s2: 1}
	cands := concat(
		makeCandidates("A", 60, s1, s2),
		makeCandidates("B", 70, s1),
	)

	got := assignedTo(GreedyAllocator(logr.Discard()).Allocate(cands, caps, []string{"A", "B"}))

	assert.Equal(t, s1, got["B"].School)
	assert.Equal(t, s2, got["A"].School)
	assert.Equal(t, 2, got["A"].Rank)
}

func TestGreedyAllocator_RankOrderSurvivesSort(t *testing.T) {
	// Interleave other agents between A's entries with equal and higher
	// scores, A must still try its preferences in rank order.
	s1, s2, s3 := school("S1"), school("S2"), school("S3")
	caps := CapacityTable{s1: 1, s2: 1, s3: 0}
	cands := concat(
		makeCandidates("A", 50, s3, s2, s1),
		makeCandidates("B", 50, s1),
		makeCandidates("C", 80, s2),
	)

	got := assignedTo(GreedyAllocator(logr.Discard()).Allocate(cands, caps, []string{"A", "B", "C"}))

	assert.Equal(t, s2, got["C"].School)
	assert.Equal(t, s1, got["A"].School)
	assert.Equal(t, 3, got["A"].Rank)
	assert.NotContains(t, got, "B", "B ties with A but comes later")
}

func TestGreedyAllocator_TieKeepsEnumerationOrder(t *testing.T) {
	s1 := school("S1")
	caps := CapacityTable{s1: 1}
	alloc := GreedyAllocator(logr.Discard())

	first := alloc.Allocate(concat(
		makeCandidates("A", 75, s1),
		makeCandidates("B", 75, s1),
	), caps, []string{"A", "B"})
	assert.Equal(t, "A", first.Assignments[0].AgentID)

	swapped := alloc.Allocate(concat(
		makeCandidates("B", 75, s1),
		makeCandidates("A", 75, s1),
	), caps, []string{"A", "B"})
	assert.Equal(t, "B", swapped.Assignments[0].AgentID)
}

func TestGreedyAllocator_DoesNotMutateInputs(t *testing.T) {
	s1, s2 := school("S1"), school("S2")
	caps := CapacityTable{s1: 1, s2: 1}
	cands := concat(
		makeCandidates("A", 10, s1),
		makeCandidates("B", 20, s1, s2),
	)
	origCands := append([]Candidate(nil), cands...)

	GreedyAllocator(logr.Discard()).Allocate(cands, caps, []string{"A", "B"})

	assert.Equal(t, CapacityTable{s1: 1, s2: 1}, caps)
	assert.Equal(t, origCands, cands)
}

func TestGreedyAllocator_Empty(t *testing.T) {
	alloc := GreedyAllocator(logr.Discard()).Allocate(nil, CapacityTable{school("S1"): 3}, nil)

	assert.Empty(t, alloc.Assignments)
	assert.True(t, alloc.Perfect)
	assert.Equal(t, 3, alloc.Remaining.Total())
}

func TestGreedyAllocator_DecisionsLoggedAtDebug(t *testing.T) {
	candidates := concat(
		makeCandidates("A", 90, school("s1")),
		makeCandidates("B", 80, school("s1")),
	)
	caps := CapacityTable{school("s1"): 1}

	run := func(verbosity int) []string {
		var lines []string
		logger := funcr.New(func(prefix, args string) {
			lines = append(lines, args)
		}, funcr.Options{Verbosity: verbosity})
		GreedyAllocator(logger).Allocate(candidates, caps, []string{"A", "B"})
		return lines
	}

	assert.Empty(t, run(logging.VERBOSE))

	lines := run(logging.DEBUG)
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], `"seat taken"`)
	assert.Contains(t, lines[1], `"no seat left"`)
}
