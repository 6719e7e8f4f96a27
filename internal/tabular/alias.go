// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tabular

import "strings"

// Canonical column names.
const (
	ColFirstName        = "first_name"
	ColSecondName       = "second_name"
	ColGrade            = "grade"
	ColComputerLiterate = "computer_literate"
	ColPhD              = "has_phd"
	ColRegion           = "region"
	ColMunicipality     = "municipality"
	ColSchoolName       = "school_name"
	ColVacancies        = "vacancies"
)

var columnAlias map[string]string

func init() {
	columns := map[string][]string{
		ColFirstName:        {"first name", "firstname", "name"},
		ColSecondName:       {"second name", "secondname", "last_name", "last name", "surname"},
		ColGrade:            {"grade_in_studies", "grade in studies", "grades"},
		ColComputerLiterate: {"computer literate", "computer_literacy"},
		ColPhD:              {"phd", "has phd"},
		ColRegion:           {},
		ColMunicipality:     {},
		ColSchoolName:       {"school's_name", "school's name", "school", "school name"},
		ColVacancies:        {"no_vacant_positions", "vacant_positions", "vacant positions", "positions"},
	}
	columnAlias = make(map[string]string)
	for c, as := range columns {
		for _, a := range as {
			if _, ok := columnAlias[a]; ok {
				panic("repeated column alias")
			}
			if _, ok := columns[a]; ok {
				panic("column alias shadows a column")
			}
			columnAlias[a] = c
		}
	}
}

// UnifyColumn maps a sheet header to its canonical column name. Unknown
// headers are only trimmed and lower-cased.
func UnifyColumn(header string) string {
	h := strings.ToLower(strings.TrimSpace(header))
	if c, ok := columnAlias[h]; ok {
		return c
	}
	return h
}
