// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/someonegg/schoolmatch"
	"github.com/someonegg/schoolmatch/internal/config"
	"github.com/someonegg/schoolmatch/internal/logging"
	"github.com/someonegg/schoolmatch/placement"
)

const sampleInput = `{
  "applicants": [
    {"id": "A", "first_name": "Ann", "second_name": "Lee", "grade": 7, "computer_literate": "no", "has_phd": "no"},
    {"id": "B", "first_name": "Ben", "second_name": "Kay", "grade": "9,5", "computer_literate": "no", "has_phd": "no"},
    {"id": "C", "first_name": "Cat", "second_name": "Ray", "grade": 6, "computer_literate": "no", "has_phd": "no"},
    {"id": "X", "first_name": "Xia", "second_name": "Wu", "grade": "", "computer_literate": "yes", "has_phd": "yes"}
  ],
  "preferences": {
    "A": [{"region": "R", "municipality": "M", "school_name": "S1"}],
    "B": [{"region": "R", "municipality": "M", "school_name": "S1"}],
    "C": [{"region": "R", "municipality": "M", "school_name": "S1"}],
    "X": [{"region": "R", "municipality": "M", "school_name": "S1"}]
  },
  "schools": [{"region": "R", "municipality": "M", "school_name": "S1", "vacancies": 2}]
}`

func testConfig(t *testing.T, input string) *config.Config {
	dir := t.TempDir()
	inputFile := filepath.Join(dir, "input.json")
	require.NoError(t, os.WriteFile(inputFile, []byte(input), 0644))

	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Input.JSONFile = inputFile
	cfg.Output.File = filepath.Join(dir, "assignments.json")
	cfg.Output.MetricsFile = filepath.Join(dir, "schoolmatch.prom")
	return cfg
}

func TestDoAssign(t *testing.T) {
	cfg := testConfig(t, sampleInput)
	ctx := logging.NewTestLoggerIntoContext(context.Background())

	require.NoError(t, doAssign(ctx, cfg))

	data, err := os.ReadFile(cfg.Output.File)
	require.NoError(t, err)

	var placements []placement.Placement
	require.NoError(t, json.Unmarshal(data, &placements))
	require.Len(t, placements, 4)

	// Sorted by score for the report, the excluded applicant last.
	ids := make([]string, len(placements))
	for i, p := range placements {
		ids[i] = p.AgentID
	}
	assert.Equal(t, []string{"B", "A", "C", "X"}, ids)

	assert.NotNil(t, placements[0].SchoolName)
	assert.NotNil(t, placements[1].SchoolName)
	assert.Nil(t, placements[2].SchoolName)
	assert.Nil(t, placements[3].Score)

	_, err = os.Stat(cfg.Output.MetricsFile)
	assert.NoError(t, err)
}

func TestDoAssign_NoSchools(t *testing.T) {
	cfg := testConfig(t, `{"applicants": [], "preferences": {}, "schools": []}`)
	ctx := logging.NewTestLoggerIntoContext(context.Background())

	err := doAssign(ctx, cfg)
	assert.ErrorIs(t, err, schoolmatch.ErrEmptyCapacity)

	_, statErr := os.Stat(cfg.Output.File)
	assert.True(t, os.IsNotExist(statErr), "no output on abort")
}

func TestDoAssign_MissingSchoolsWorkbook(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Input.Dir = t.TempDir()
	cfg.Output.File = filepath.Join(cfg.Input.Dir, "assignments.xlsx")

	err = doAssign(logging.NewTestLoggerIntoContext(context.Background()), cfg)
	assert.ErrorIs(t, err, schoolmatch.ErrEmptyCapacity)
}

func TestDoScore(t *testing.T) {
	cfg := testConfig(t, sampleInput)
	assert.NoError(t, doScore(logging.NewTestLoggerIntoContext(context.Background()), cfg))
}
