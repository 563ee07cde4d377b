// Copyright 2024-2025 NetCracker Technology Corporation
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package utils

import (
	"slices"
	"strconv"
	"strings"
)

// CompressRows renders a set of row numbers as a list of inclusive ranges,
// e.g. [7 1 2 8 3] -> "1-3, 7-8". Duplicates are ignored, the input is not modified.
func CompressRows(rows []int) string {
	if len(rows) == 0 {
		return ""
	}
	sorted := slices.Clone(rows)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	tokens := make([]string, 0, len(sorted))
	start, end := sorted[0], sorted[0]
	for _, row := range sorted[1:] {
		if row == end+1 {
			end = row
			continue
		}
		tokens = append(tokens, rangeToken(start, end))
		start, end = row, row
	}
	tokens = append(tokens, rangeToken(start, end))

	return strings.Join(tokens, ", ")
}

func rangeToken(start, end int) string {
	if start == end {
		return strconv.Itoa(start)
	}
	return strconv.Itoa(start) + "-" + strconv.Itoa(end)
}
