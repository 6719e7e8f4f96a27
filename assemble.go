// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package schoolmatch

// Assemble produces exactly one record per agent, in the order of agents.
// Agents missing from scores get no score, agents missing from assignments
// get no rank and no school.
func Assemble(agents []Agent, scores map[string]float64, assignments []Assignment) []Record {
	byAgent := make(map[string]*Assignment, len(assignments))
	for i := range assignments {
		byAgent[assignments[i].AgentID] = &assignments[i]
	}

	records := make([]Record, len(agents))
	for i := range agents {
		agent := &agents[i]
		rec := Record{
			AgentID:    agent.ID,
			FirstName:  agent.FirstName,
			SecondName: agent.SecondName,
		}

		if a, ok := byAgent[agent.ID]; ok {
			score, rank, school := a.Score, a.Rank, a.School
			rec.Score, rec.Rank, rec.School = &score, &rank, &school
		} else if score, ok := scores[agent.ID]; ok {
			rec.Score = &score
		}

		records[i] = rec
	}
	return records
}
