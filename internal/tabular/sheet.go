// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tabular

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Row maps canonical column names to trimmed cell values.
type Row map[string]string

type sheet struct {
	columns map[string]bool
	rows    []Row
}

// readSheet reads the raw values of the first worksheet of an xlsx file. The first row holds
// the headers, blank rows are dropped.
func readSheet(path string) (*sheet, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no worksheet")
	}

	// Cell number formats are display only, a grade of 8.5 shown as "9"
	// must still read 8.5.
	cells, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}
	if len(cells) == 0 {
		return nil, fmt.Errorf("no header row")
	}

	headers := make([]string, len(cells[0]))
	s := &sheet{columns: make(map[string]bool, len(headers))}
	for i, h := range cells[0] {
		headers[i] = UnifyColumn(h)
		if headers[i] != "" {
			s.columns[headers[i]] = true
		}
	}

	for _, line := range cells[1:] {
		row := make(Row, len(headers))
		blank := true
		for i, v := range line {
			if i >= len(headers) || headers[i] == "" {
				continue
			}
			v = strings.TrimSpace(v)
			if v != "" {
				blank = false
			}
			row[headers[i]] = v
		}
		if !blank {
			s.rows = append(s.rows, row)
		}
	}
	return s, nil
}

func (s *sheet) require(columns ...string) error {
	for _, c := range columns {
		if !s.columns[c] {
			return fmt.Errorf("column %q not found", c)
		}
	}
	return nil
}

func writeSheet(path string, headers []string, rows [][]interface{}) error {
	f := excelize.NewFile()
	defer f.Close()

	name := f.GetSheetName(0)

	head := make([]interface{}, len(headers))
	for i, h := range headers {
		head[i] = h
	}
	if err := f.SetSheetRow(name, "A1", &head); err != nil {
		return err
	}
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(name, cell, &rows[i]); err != nil {
			return err
		}
	}
	return f.SaveAs(path)
}
