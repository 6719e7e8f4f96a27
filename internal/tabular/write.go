// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tabular

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/someonegg/schoolmatch/placement"
)

var placementHeaders = []string{
	"agent_id", "first_name", "second_name", "score",
	"preference_rank", "school_name", "region", "municipality",
}

// SortForReport orders placements by score, highest first. Applicants
// without a score go last, equal scores keep their order.
func SortForReport(placements []*placement.Placement) []*placement.Placement {
	sorted := make([]*placement.Placement, len(placements))
	copy(sorted, placements)

	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].Score, sorted[j].Score
		if a == nil || b == nil {
			return a != nil && b == nil
		}
		return *a > *b
	})
	return sorted
}

// WritePlacements writes the report sorted by score. Files ending in .json
// are written as JSON, anything else as an xlsx workbook.
func WritePlacements(file string, placements []*placement.Placement) error {
	sorted := SortForReport(placements)

	if strings.EqualFold(filepath.Ext(file), ".json") {
		var buf bytes.Buffer

		encoder := json.NewEncoder(&buf)
		encoder.SetIndent("", "   ")
		if err := encoder.Encode(sorted); err != nil {
			return err
		}
		return os.WriteFile(file, buf.Bytes(), 0644)
	}

	rows := make([][]interface{}, len(sorted))
	for i, p := range sorted {
		rows[i] = []interface{}{
			p.AgentID, p.FirstName, p.SecondName,
			cell(p.Score), cell(p.PreferenceRank), cell(p.SchoolName), cell(p.Region), cell(p.Municipality),
		}
	}
	return writeSheet(file, placementHeaders, rows)
}

// cell leaves absent values as empty cells.
func cell[T any](v *T) interface{} {
	if v == nil {
		return nil
	}
	return *v
}
