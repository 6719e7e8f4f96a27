// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package schoolmatch

import (
	"sort"

	"github.com/go-logr/logr"

	"github.com/someonegg/schoolmatch/internal/logging"
)

type greedyAllocator struct {
	logger logr.Logger
}

// GreedyAllocator returns the serial-dictatorship style allocator: candidates
// are visited by descending score and each agent takes the first of its
// preferences that still has a seat when its entries are reached.
//
// Ties are broken by the order of the candidate sequence. The sort is stable,
// so an agent's own candidates (all carrying the same score) stay in rank
// order, and agents with equal scores keep the order they were flattened in.
func GreedyAllocator(logger logr.Logger) Allocator {
	return greedyAllocator{logger}
}

func (m greedyAllocator) Allocate(candidates []Candidate, capacities CapacityTable, agentIDs []string) Allocation {
	cl := make([]Candidate, len(candidates))
	copy(cl, candidates)

	// Must stay stable, see GreedyAllocator.
	sort.SliceStable(cl, func(i, j int) bool {
		return cl[i].Score > cl[j].Score
	})

	rest := capacities.Clone()
	assigned := make(map[string]struct{}, len(agentIDs))
	assignments := make([]Assignment, 0, len(agentIDs))

	for _, c := range cl {
		if _, ok := assigned[c.AgentID]; ok {
			continue
		}

		if !rest.Take(c.School) {
			m.logger.V(logging.DEBUG).Info("no seat left",
				"agent", c.AgentID, "rank", c.Rank, "school", c.School.Name,
				"region", c.School.Region, "municipality", c.School.Municipality)
			continue
		}

		assignments = append(assignments, Assignment{
			AgentID: c.AgentID,
			School:  c.School,
			Rank:    c.Rank,
			Score:   c.Score,
		})
		assigned[c.AgentID] = struct{}{}

		m.logger.V(logging.DEBUG).Info("seat taken",
			"agent", c.AgentID, "score", c.Score, "rank", c.Rank, "school", c.School.Name,
			"region", c.School.Region, "municipality", c.School.Municipality,
			"left", rest.Remaining(c.School))
	}

	perfect := true
	for _, id := range agentIDs {
		if _, ok := assigned[id]; !ok {
			perfect = false
			break
		}
	}

	return Allocation{
		Assignments: assignments,
		Remaining:   rest,
		Perfect:     perfect,
	}
}
