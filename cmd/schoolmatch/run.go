// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/go-logr/logr"
	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"

	"github.com/someonegg/schoolmatch"
	"github.com/someonegg/schoolmatch/internal/config"
	"github.com/someonegg/schoolmatch/internal/logging"
	"github.com/someonegg/schoolmatch/internal/metrics"
	"github.com/someonegg/schoolmatch/internal/tabular"
	"github.com/someonegg/schoolmatch/placement"
	"github.com/someonegg/schoolmatch/score"
)

// loadConfig merges the config file with the global and input flags and
// puts a logger into the command context.
func loadConfig(ctx *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(ctx.String("config"))
	if err != nil {
		return nil, err
	}

	if ctx.IsSet("v") {
		cfg.Log.Verbosity = ctx.Int("v")
	}
	if ctx.IsSet("dev") {
		cfg.Log.Development = ctx.Bool("dev")
	}
	if ctx.IsSet("dir") {
		cfg.Input.Dir = ctx.String("dir")
	}
	if ctx.IsSet("input") {
		cfg.Input.JSONFile = ctx.String("input")
	}
	if ctx.IsSet("workers") {
		cfg.Allocation.Workers = ctx.Int("workers")
	}

	logger, err := logging.NewLogger(cfg.Log.Verbosity, cfg.Log.Development)
	if err != nil {
		return nil, err
	}
	ctx.Context = logr.NewContext(ctx.Context, logger)

	return cfg, nil
}

type input struct {
	applicants  []*placement.Applicant
	preferences map[string][]placement.Preference
	schools     []*placement.School
}

func loadInput(ctx context.Context, cfg *config.Config, withSchools bool) (*input, error) {
	logger := logr.FromContextOrDiscard(ctx)

	if cfg.Input.JSONFile != "" {
		in, err := tabular.LoadJSON(cfg.Input.JSONFile)
		if err != nil {
			return nil, fmt.Errorf("load input file failed: %w", err)
		}
		return &input{in.Applicants, in.Preferences, in.Schools}, nil
	}

	layout := tabular.Layout{
		Dir:              cfg.Input.Dir,
		PersonPattern:    cfg.Input.PersonPattern,
		PreferenceSuffix: cfg.Input.PreferenceSuffix,
		SchoolsFile:      cfg.Input.SchoolsFile,
	}

	var in input
	var err error

	// Unreadable person and preference files are skipped, not fatal.
	in.applicants, err = layout.LoadApplicants()
	for _, e := range multierr.Errors(err) {
		logger.Error(e, "Skipping person file")
	}
	in.preferences, err = layout.LoadPreferences()
	for _, e := range multierr.Errors(err) {
		logger.Error(e, "Skipping preference file")
	}

	if withSchools {
		in.schools, err = layout.LoadSchools()
		if err != nil {
			logger.Error(err, "Schools data could not be read")
			return nil, fmt.Errorf("%w: %v", schoolmatch.ErrEmptyCapacity, err)
		}
	}
	return &in, nil
}

func newMatcher(cfg *config.Config) (*placement.Matcher, error) {
	m := &placement.Matcher{
		GradeWeight:            &cfg.Scoring.GradeWeight,
		ComputerLiterateWeight: &cfg.Scoring.ComputerLiterateWeight,
		PhDWeight:              &cfg.Scoring.PhDWeight,
		TieBreak:               placement.TieBreak(cfg.Allocation.TieBreak),
		Workers:                &cfg.Allocation.Workers,
	}

	if cfg.Scoring.OverridesFile != "" {
		f, err := os.Open(cfg.Scoring.OverridesFile)
		if err != nil {
			return nil, fmt.Errorf("open score overrides failed: %w", err)
		}
		defer f.Close()

		m.Overrides, err = score.LoadOverrides(f)
		if err != nil {
			return nil, err
		}
	}
	return m, nil
}

func doAssign(ctx context.Context, cfg *config.Config) error {
	logger := logr.FromContextOrDiscard(ctx)
	metrics.Register()

	in, err := loadInput(ctx, cfg, true)
	if err != nil {
		metrics.RecordAbortedRun()
		return writeMetrics(cfg, err)
	}

	matcher, err := newMatcher(cfg)
	if err != nil {
		return err
	}

	placements, summ, err := matcher.Match(ctx, in.applicants, in.preferences, in.schools)
	if err != nil {
		if errors.Is(err, schoolmatch.ErrEmptyCapacity) {
			err = fmt.Errorf("schools data is empty, exiting: %w", err)
		}
		return writeMetrics(cfg, err)
	}

	if summ.AssignedCount == 0 {
		logger.Info("No assignments were made")
	}

	if err := tabular.WritePlacements(cfg.Output.File, placements); err != nil {
		return writeMetrics(cfg, fmt.Errorf("write assignments failed: %w", err))
	}
	logger.Info("Assignments saved", "file", cfg.Output.File)

	if err := printJSON(summ); err != nil {
		return err
	}
	return writeMetrics(cfg, nil)
}

// writeMetrics exports metrics if configured and passes runErr through.
func writeMetrics(cfg *config.Config, runErr error) error {
	if cfg.Output.MetricsFile == "" {
		return runErr
	}
	if err := metrics.WriteTextfile(cfg.Output.MetricsFile); err != nil {
		return multierr.Append(runErr, fmt.Errorf("write metrics failed: %w", err))
	}
	return runErr
}

type scoreLine struct {
	AgentID    string   `json:"agent_id"`
	FirstName  string   `json:"first_name"`
	SecondName string   `json:"second_name"`
	Score      *float64 `json:"score"`
	Error      string   `json:"error,omitempty"`
}

func doScore(ctx context.Context, cfg *config.Config) error {
	in, err := loadInput(ctx, cfg, false)
	if err != nil {
		return err
	}

	matcher, err := newMatcher(cfg)
	if err != nil {
		return err
	}

	scored, failures, err := matcher.Score(ctx, in.applicants)
	if err != nil {
		return err
	}

	byID := make(map[string]scoreLine, len(in.applicants))
	for _, s := range scored {
		v := s.Score
		byID[s.Agent.ID] = scoreLine{Score: &v}
	}
	for _, f := range failures {
		byID[f.AgentID] = scoreLine{Error: f.Error()}
	}

	lines := make([]scoreLine, len(in.applicants))
	for i, a := range in.applicants {
		line := byID[a.ID]
		line.AgentID, line.FirstName, line.SecondName = a.ID, a.FirstName, a.SecondName
		lines[i] = line
	}
	return printJSON(lines)
}

func printJSON(v interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "   ")
	return encoder.Encode(v)
}
