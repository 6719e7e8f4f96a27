// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package tabular reads applicants, preferences and schools from xlsx
// workbooks and writes placements back.
package tabular

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/multierr"

	"github.com/someonegg/schoolmatch/placement"
)

const (
	DefaultPersonPattern    = "person*.xlsx"
	DefaultPreferenceSuffix = "_schools_preference.xlsx"
	DefaultSchoolsFile      = "schools.xlsx"
)

// Layout locates input workbooks by naming convention: one workbook per
// applicant named after PersonPattern, whose base name is the applicant id,
// one <id><PreferenceSuffix> workbook per applicant and a single schools
// workbook.
type Layout struct {
	Dir              string
	PersonPattern    string
	PreferenceSuffix string
	SchoolsFile      string
}

func DefaultLayout(dir string) Layout {
	return Layout{
		Dir:              dir,
		PersonPattern:    DefaultPersonPattern,
		PreferenceSuffix: DefaultPreferenceSuffix,
		SchoolsFile:      DefaultSchoolsFile,
	}
}

func (l Layout) personFiles() ([]string, error) {
	files, err := filepath.Glob(filepath.Join(l.Dir, l.PersonPattern))
	if err != nil {
		return nil, err
	}

	var persons []string
	for _, f := range files {
		if !strings.HasSuffix(f, l.PreferenceSuffix) {
			persons = append(persons, f)
		}
	}
	sort.Strings(persons)
	return persons, nil
}

func (l Layout) preferenceFiles() ([]string, error) {
	pattern := strings.TrimSuffix(l.PersonPattern, filepath.Ext(l.PersonPattern)) + l.PreferenceSuffix
	files, err := filepath.Glob(filepath.Join(l.Dir, pattern))
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// LoadApplicants reads every person workbook in lexical file order, which
// is the enumeration order of the run. Workbooks that cannot be read are
// skipped, their errors combined into err; the applicants read so far are
// returned either way.
func (l Layout) LoadApplicants() (applicants []*placement.Applicant, err error) {
	files, err := l.personFiles()
	if err != nil {
		return nil, err
	}

	for _, file := range files {
		id := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
		applicant, e := loadApplicant(file, id)
		if e != nil {
			err = multierr.Append(err, fmt.Errorf("person file %s: %w", file, e))
			continue
		}
		applicants = append(applicants, applicant)
	}
	return applicants, err
}

func loadApplicant(file, id string) (*placement.Applicant, error) {
	s, err := readSheet(file)
	if err != nil {
		return nil, err
	}
	if len(s.rows) == 0 {
		return nil, fmt.Errorf("no applicant row")
	}

	// A missing grade column is left to scoring, which excludes the
	// applicant and reports it.
	row := s.rows[0]
	applicant := &placement.Applicant{
		ID:               id,
		FirstName:        row[ColFirstName],
		SecondName:       row[ColSecondName],
		Grade:            placement.Grade(row[ColGrade]),
		ComputerLiterate: row[ColComputerLiterate],
		PhD:              row[ColPhD],
	}
	for k, v := range row {
		switch k {
		case ColFirstName, ColSecondName, ColGrade, ColComputerLiterate, ColPhD:
		default:
			if applicant.Flags == nil {
				applicant.Flags = make(map[string]string)
			}
			applicant.Flags[k] = v
		}
	}
	return applicant, nil
}

// LoadPreferences reads every preference workbook. Rows keep their sheet
// order, the first row is the most preferred school.
func (l Layout) LoadPreferences() (prefs map[string][]placement.Preference, err error) {
	files, err := l.preferenceFiles()
	if err != nil {
		return nil, err
	}

	prefs = make(map[string][]placement.Preference, len(files))
	for _, file := range files {
		id := strings.TrimSuffix(filepath.Base(file), l.PreferenceSuffix)
		list, e := loadPreferences(file)
		if e != nil {
			err = multierr.Append(err, fmt.Errorf("preference file %s: %w", file, e))
			continue
		}
		prefs[id] = list
	}
	return prefs, err
}

func loadPreferences(file string) ([]placement.Preference, error) {
	s, err := readSheet(file)
	if err != nil {
		return nil, err
	}
	if err := s.require(ColRegion, ColMunicipality, ColSchoolName); err != nil {
		return nil, err
	}

	list := make([]placement.Preference, len(s.rows))
	for i, row := range s.rows {
		list[i] = placement.Preference{
			Region:       row[ColRegion],
			Municipality: row[ColMunicipality],
			School:       row[ColSchoolName],
		}
	}
	return list, nil
}

// LoadSchools reads the schools workbook. Unlike person files, any problem
// here fails the whole load.
func (l Layout) LoadSchools() ([]*placement.School, error) {
	file := filepath.Join(l.Dir, l.SchoolsFile)
	s, err := readSheet(file)
	if err != nil {
		return nil, fmt.Errorf("schools file %s: %w", file, err)
	}
	if err := s.require(ColRegion, ColMunicipality, ColSchoolName, ColVacancies); err != nil {
		return nil, fmt.Errorf("schools file %s: %w", file, err)
	}

	schools := make([]*placement.School, len(s.rows))
	for i, row := range s.rows {
		vacancies, err := parseVacancies(row[ColVacancies])
		if err != nil {
			return nil, fmt.Errorf("schools file %s: row %d: %w", file, i+2, err)
		}
		schools[i] = &placement.School{
			Region:       row[ColRegion],
			Municipality: row[ColMunicipality],
			School:       row[ColSchoolName],
			Vacancies:    vacancies,
		}
	}
	return schools, nil
}

func parseVacancies(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil || v < 0 || v != math.Trunc(v) || v > math.MaxInt32 {
		return 0, fmt.Errorf("invalid vacancies %q", s)
	}
	return int(v), nil
}

// Input is the JSON form of a whole run's input.
type Input struct {
	Applicants  []*placement.Applicant            `json:"applicants"`
	Preferences map[string][]placement.Preference `json:"preferences"`
	Schools     []*placement.School               `json:"schools"`
}

func LoadJSON(file string) (*Input, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}

	var input Input

	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&input); err != nil {
		return nil, fmt.Errorf("decode %s: %w", file, err)
	}
	return &input, nil
}
