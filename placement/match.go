// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package placement

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sort"

	"github.com/go-logr/logr"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/someonegg/schoolmatch"
	"github.com/someonegg/schoolmatch/internal/logging"
	"github.com/someonegg/schoolmatch/internal/metrics"
	"github.com/someonegg/schoolmatch/score"
)

func (m *Matcher) init() error {
	m.weights = score.DefaultWeights()
	if m.GradeWeight != nil {
		m.weights.Grade = *m.GradeWeight
	}
	if m.ComputerLiterateWeight != nil {
		m.weights.ComputerLiterate = *m.ComputerLiterateWeight
	}
	if m.PhDWeight != nil {
		m.weights.PhD = *m.PhDWeight
	}

	if m.Workers == nil || *m.Workers <= 0 {
		m.workers = runtime.NumCPU()
	} else {
		m.workers = *m.Workers
	}

	switch m.TieBreak {
	case "":
		m.TieBreak = DefaultTieBreak
	case TieBreakEnumeration, TieBreakAgentID:
	default:
		return fmt.Errorf("unknown tie break %q", m.TieBreak)
	}
	return nil
}

func (m *Matcher) scorer() schoolmatch.Scorer {
	s := m.weights.Scorer(m.Extra...)
	if len(m.Overrides) > 0 {
		s = score.NewOverrideScorer(s, m.Overrides)
	}
	return s
}

// Match places the applicants. Applicants are enumerated in the given order,
// which decides between equal scores unless TieBreak is TieBreakAgentID.
// Every applicant gets exactly one placement, in input order.
//
// An empty school list aborts the run with schoolmatch.ErrEmptyCapacity.
// Per-applicant problems are reported as notices in the summary.
func (m *Matcher) Match(ctx context.Context, applicants []*Applicant, prefs map[string][]Preference,
	schools []*School) (placements []*Placement, summary Summary, err error) {

	logger := logr.FromContextOrDiscard(ctx)

	var summ Summary
	summ.RunID = uuid.NewString()
	summ.ApplicantsCount = len(applicants)
	summ.SchoolsCount = len(schools)
	logger = logger.WithValues("run", summ.RunID)

	defer func() {
		if err != nil {
			metrics.RecordAbortedRun()
		}
	}()

	if err = m.init(); err != nil {
		return nil, summ, err
	}

	ss, err := genSchools(schools)
	if err != nil {
		return nil, summ, err
	}
	caps, err := schoolmatch.NewCapacityTable(ss)
	if err != nil {
		if errors.Is(err, schoolmatch.ErrEmptyCapacity) {
			logger.Info("Schools data is empty, nothing to allocate")
		}
		return nil, summ, err
	}
	summ.Seats = caps.Total()

	agents, err := genAgents(applicants)
	if err != nil {
		return nil, summ, err
	}

	logger.V(logging.VERBOSE).Info("Allocation starting",
		"applicants", summ.ApplicantsCount, "schools", summ.SchoolsCount, "seats", summ.Seats)

	scored, failures, err := scoreAgents(ctx, m.scorer(), agents, m.workers)
	if err != nil {
		return nil, summ, err
	}
	for _, f := range failures {
		logger.Info("Applicant excluded", "agent", f.AgentID, "reason", f.Error())
		summ.Notices = append(summ.Notices, Notice{
			AgentID: f.AgentID,
			Kind:    NoticeInvalidAttribute,
			Message: f.Error(),
		})
	}
	summ.ExcludedCount = len(failures)

	if m.TieBreak == TieBreakAgentID {
		sort.SliceStable(scored, func(i, j int) bool {
			return scored[i].Agent.ID < scored[j].Agent.ID
		})
	}

	candidates, missing := schoolmatch.Flatten(scored, genPreferences(prefs))
	for _, id := range missing {
		e := &schoolmatch.MissingPreferenceError{AgentID: id}
		logger.Info("Applicant skipped", "agent", id, "reason", e.Error())
		summ.Notices = append(summ.Notices, Notice{
			AgentID: id,
			Kind:    NoticeMissingPreferences,
			Message: e.Error(),
		})
	}
	summ.MissingPrefsCount = len(missing)

	ids := make([]string, len(scored))
	scores := make(map[string]float64, len(scored))
	for i, s := range scored {
		ids[i] = s.Agent.ID
		scores[s.Agent.ID] = s.Score
		logger.V(logging.VERBOSE).Info("Score calculated", "agent", s.Agent.ID, "score", s.Score)
	}

	alloc := schoolmatch.GreedyAllocator(logger).Allocate(candidates, caps, ids)
	summ.SeatsRemaining = alloc.Remaining.Total()
	summ.Perfect = alloc.Perfect && len(failures) == 0

	records := schoolmatch.Assemble(agents, scores, alloc.Assignments)

	missingSet := make(map[string]bool, len(missing))
	for _, id := range missing {
		missingSet[id] = true
	}

	placements = make([]*Placement, len(records))
	for i := range records {
		rec := &records[i]
		placements[i] = genPlacement(rec)

		if rec.Assigned() {
			summ.AssignedCount++
			logger.V(logging.VERBOSE).Info("Applicant placed",
				"agent", rec.AgentID, "name", rec.FirstName+" "+rec.SecondName,
				"school", rec.School.Name, "region", rec.School.Region,
				"municipality", rec.School.Municipality, "rank", *rec.Rank)
			continue
		}

		summ.UnassignedCount++
		if rec.Score == nil || missingSet[rec.AgentID] {
			continue
		}
		msg := fmt.Sprintf("%s %s could not be assigned to any preferred school due to lack of vacancies",
			rec.FirstName, rec.SecondName)
		logger.V(logging.VERBOSE).Info("Applicant unassigned", "agent", rec.AgentID, "reason", msg)
		summ.Notices = append(summ.Notices, Notice{
			AgentID: rec.AgentID,
			Kind:    NoticeUnassigned,
			Message: msg,
		})
	}

	metrics.RecordRun(summ.AssignedCount, summ.UnassignedCount-summ.ExcludedCount, summ.ExcludedCount,
		summ.Seats, summ.SeatsRemaining)

	logger.Info("Allocation completed",
		"assigned", summ.AssignedCount, "unassigned", summ.UnassignedCount,
		"excluded", summ.ExcludedCount, "seatsRemaining", summ.SeatsRemaining)

	return placements, summ, nil
}

// Score computes every applicant's score without allocating. Failures are
// returned per applicant, in input order.
func (m *Matcher) Score(ctx context.Context, applicants []*Applicant) ([]schoolmatch.ScoredAgent, []*schoolmatch.ValidationError, error) {
	if err := m.init(); err != nil {
		return nil, nil, err
	}
	agents, err := genAgents(applicants)
	if err != nil {
		return nil, nil, err
	}
	return scoreAgents(ctx, m.scorer(), agents, m.workers)
}

func scoreAgents(ctx context.Context, scorer schoolmatch.Scorer, agents []schoolmatch.Agent,
	workers int) ([]schoolmatch.ScoredAgent, []*schoolmatch.ValidationError, error) {

	scores := make([]float64, len(agents))
	errs := make([]error, len(agents))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range agents {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			scores[i], errs[i] = scorer.Score(&agents[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	var (
		scored   = make([]schoolmatch.ScoredAgent, 0, len(agents))
		failures []*schoolmatch.ValidationError
	)
	for i := range agents {
		if errs[i] == nil {
			scored = append(scored, schoolmatch.ScoredAgent{Agent: &agents[i], Score: scores[i]})
			continue
		}
		var verr *schoolmatch.ValidationError
		if !errors.As(errs[i], &verr) {
			verr = &schoolmatch.ValidationError{AgentID: agents[i].ID, Field: "score", Err: errs[i]}
		}
		failures = append(failures, verr)
	}
	return scored, failures, nil
}

func genSchools(schools []*School) ([]schoolmatch.School, error) {
	ss := make([]schoolmatch.School, len(schools))
	for i, school := range schools {
		if school == nil {
			return nil, fmt.Errorf("school #%d is null", i+1)
		}
		ss[i] = schoolmatch.School{
			Key:       schoolmatch.SchoolKey{Region: school.Region, Municipality: school.Municipality, Name: school.School},
			Vacancies: school.Vacancies,
		}
	}
	return ss, nil
}

func genAgents(applicants []*Applicant) ([]schoolmatch.Agent, error) {
	agents := make([]schoolmatch.Agent, len(applicants))
	seen := make(map[string]bool, len(applicants))

	for i, applicant := range applicants {
		if applicant == nil {
			return nil, fmt.Errorf("applicant #%d is null", i+1)
		}
		if applicant.ID == "" {
			return nil, fmt.Errorf("applicant #%d has no id", i+1)
		}
		if seen[applicant.ID] {
			return nil, fmt.Errorf("duplicate applicant %s", applicant.ID)
		}
		seen[applicant.ID] = true

		flags := make(map[string]string, len(applicant.Flags)+2)
		for k, v := range applicant.Flags {
			flags[k] = v
		}
		flags[schoolmatch.FlagComputerLiterate] = applicant.ComputerLiterate
		flags[schoolmatch.FlagPhD] = applicant.PhD

		agents[i] = schoolmatch.Agent{
			ID:         applicant.ID,
			FirstName:  applicant.FirstName,
			SecondName: applicant.SecondName,
			Grade:      string(applicant.Grade),
			Flags:      flags,
		}
	}
	return agents, nil
}

// genPreferences drops null lists, an applicant with one has no preference
// list at all.
func genPreferences(prefs map[string][]Preference) schoolmatch.PreferenceTable {
	table := make(schoolmatch.PreferenceTable, len(prefs))
	for id, list := range prefs {
		if list == nil {
			continue
		}
		keys := make([]schoolmatch.SchoolKey, len(list))
		for i, p := range list {
			keys[i] = schoolmatch.SchoolKey{Region: p.Region, Municipality: p.Municipality, Name: p.School}
		}
		table[id] = keys
	}
	return table
}

func genPlacement(rec *schoolmatch.Record) *Placement {
	p := &Placement{
		AgentID:        rec.AgentID,
		FirstName:      rec.FirstName,
		SecondName:     rec.SecondName,
		Score:          rec.Score,
		PreferenceRank: rec.Rank,
	}
	if rec.School != nil {
		school := *rec.School
		p.SchoolName = &school.Name
		p.Region = &school.Region
		p.Municipality = &school.Municipality
	}
	return p
}
