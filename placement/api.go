// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package placement uses schoolmatch to place applicants in schools.
package placement

import (
	"encoding/json"
	"fmt"

	"github.com/someonegg/schoolmatch/score"
)

type Applicant struct {
	ID               string            `json:"id"`
	FirstName        string            `json:"first_name"`
	SecondName       string            `json:"second_name"`
	Grade            Grade             `json:"grade"`
	ComputerLiterate string            `json:"computer_literate"`
	PhD              string            `json:"has_phd"`
	Flags            map[string]string `json:"flags,omitempty"` // extra yes/no attributes
}

// Grade accepts a JSON number or string.
type Grade string

func (g *Grade) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*g = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*g = Grade(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("grade must be a number or a string: %s", data)
	}
	*g = Grade(n)
	return nil
}

type Preference struct {
	Region       string `json:"region"`
	Municipality string `json:"municipality"`
	School       string `json:"school_name"`
}

type School struct {
	Region       string `json:"region"`
	Municipality string `json:"municipality"`
	School       string `json:"school_name"`
	Vacancies    int    `json:"vacancies"`
}

// Placement is the outcome of one applicant, nil fields are absent values.
type Placement struct {
	AgentID        string   `json:"agent_id"`
	FirstName      string   `json:"first_name"`
	SecondName     string   `json:"second_name"`
	Score          *float64 `json:"score"`
	PreferenceRank *int     `json:"preference_rank"`
	SchoolName     *string  `json:"school_name"`
	Region         *string  `json:"region"`
	Municipality   *string  `json:"municipality"`
}

type TieBreak string

const (
	// TieBreakEnumeration keeps equal scores in input order.
	TieBreakEnumeration TieBreak = "enumeration"
	// TieBreakAgentID orders equal scores by applicant id.
	TieBreakAgentID TieBreak = "agent_id"
)

const (
	DefaultTieBreak = TieBreakEnumeration
)

type Matcher struct {
	GradeWeight            *float64 `json:"grade_weight"`
	ComputerLiterateWeight *float64 `json:"computer_literate_weight"`
	PhDWeight              *float64 `json:"phd_weight"`

	// Extra criteria appended to the built-in ones.
	Extra []score.Term `json:"-"`
	// Overrides pin the score of single applicants.
	Overrides []score.OverrideRecord `json:"-"`

	TieBreak TieBreak `json:"tie_break"`

	// Workers bounds concurrent scoring, defaults to the number of CPUs.
	Workers *int `json:"workers"`

	weights score.Weights
	workers int
}

type NoticeKind string

const (
	NoticeInvalidAttribute   NoticeKind = "invalid_attribute"
	NoticeMissingPreferences NoticeKind = "missing_preferences"
	NoticeUnassigned         NoticeKind = "unassigned"
)

// Notice is a per-applicant diagnostic, never fatal to the run.
type Notice struct {
	AgentID string     `json:"agent_id"`
	Kind    NoticeKind `json:"kind"`
	Message string     `json:"message"`
}

type Summary struct {
	RunID             string   `json:"run_id"`
	ApplicantsCount   int      `json:"applicants"`
	SchoolsCount      int      `json:"schools"`
	Seats             int      `json:"seats"`
	SeatsRemaining    int      `json:"seats_remaining"`
	AssignedCount     int      `json:"assigned"`
	UnassignedCount   int      `json:"unassigned"`
	ExcludedCount     int      `json:"excluded"`
	MissingPrefsCount int      `json:"missing_preferences"`
	Perfect           bool     `json:"perfect"`
	Notices           []Notice `json:"notices,omitempty"`
}
