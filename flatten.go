// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package schoolmatch

// FlattenOne expands a scored agent's preference list into candidates, in
// list order. ok is false when the table has no entry for the agent.
func FlattenOne(agent ScoredAgent, prefs PreferenceTable) (candidates []Candidate, ok bool) {
	keys, ok := prefs[agent.Agent.ID]
	if !ok {
		return nil, false
	}

	candidates = make([]Candidate, len(keys))
	for i, key := range keys {
		candidates[i] = Candidate{
			AgentID: agent.Agent.ID,
			Score:   agent.Score,
			Rank:    i + 1,
			School:  key,
		}
	}
	return candidates, true
}

// Flatten expands every agent in order. Agents without a preference list
// contribute no candidates and are reported in missing.
func Flatten(agents []ScoredAgent, prefs PreferenceTable) (candidates []Candidate, missing []string) {
	for _, agent := range agents {
		cs, ok := FlattenOne(agent, prefs)
		if !ok {
			missing = append(missing, agent.Agent.ID)
			continue
		}
		candidates = append(candidates, cs...)
	}
	return
}
