// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package score

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/someonegg/schoolmatch"
)

// OverrideRecord pins the score of one agent, e.g. after an appeal.
type OverrideRecord struct {
	AgentID string  `yaml:"agent_id"`
	Score   float64 `yaml:"score"`
}

type overrideScorer struct {
	orig schoolmatch.Scorer
	recs map[string]float64
}

// NewOverrideScorer returns orig's score unless the agent has a record.
// Overridden agents are not validated by orig.
func NewOverrideScorer(orig schoolmatch.Scorer, records []OverrideRecord) schoolmatch.Scorer {
	recs := make(map[string]float64)
	for _, rec := range records {
		recs[rec.AgentID] = rec.Score
	}
	return &overrideScorer{
		orig: orig,
		recs: recs,
	}
}

func (s *overrideScorer) Score(agent *schoolmatch.Agent) (float64, error) {
	if v, ok := s.recs[agent.ID]; ok {
		return v, nil
	}
	return s.orig.Score(agent)
}

// LoadOverrides decodes a YAML list of records.
func LoadOverrides(r io.Reader) ([]OverrideRecord, error) {
	var records []OverrideRecord
	if err := yaml.NewDecoder(r).Decode(&records); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("decode score overrides: %w", err)
	}

	seen := make(map[string]bool, len(records))
	for _, rec := range records {
		if rec.AgentID == "" {
			return nil, errors.New("score override without agent_id")
		}
		if seen[rec.AgentID] {
			return nil, fmt.Errorf("repeated score override for %s", rec.AgentID)
		}
		seen[rec.AgentID] = true
	}
	return records, nil
}
