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

package service

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"

	"github.com/Netcracker/qubership-validation-report-service/exception"
	"github.com/Netcracker/qubership-validation-report-service/utils"
	"github.com/Netcracker/qubership-validation-report-service/view"
	log "github.com/sirupsen/logrus"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// IsNonEmpty reports whether an offending value carries data. Empty values are
// "required value missing" errors which the required-value check reports on its own.
func IsNonEmpty(value view.ErrorValue) bool {
	return value != ""
}

// IsPassing is true only for a check with a report whose pass flag is set to true.
func IsPassing(check view.CheckResult) bool {
	return check.Report != nil && check.Report.Pass != nil && *check.Report.Pass
}

// FormatErrors keeps the order of errors. Entries with an empty value are dropped
// unless renderEmpty is set, in which case the value is shown as view.MissingValueLabel.
func FormatErrors(errors []view.ErrorEntry, renderEmpty bool) []view.FormattedError {
	result := make([]view.FormattedError, 0, len(errors))
	for _, entry := range errors {
		value := string(entry.Value)
		if !IsNonEmpty(entry.Value) {
			if !renderEmpty {
				continue
			}
			value = view.MissingValueLabel
		}
		rows := make([]int, 0, len(entry.Records))
		for _, record := range entry.Records {
			rows = append(rows, record.Row)
		}
		result = append(result, view.FormattedError{
			Value: value,
			Rows:  utils.CompressRows(rows),
		})
	}
	return result
}

// AggregateValidation counts passing checks of a variable. Results of a non-success
// status are discarded. Malformed results degrade to zero counts, it never fails.
func AggregateValidation(result view.ValidationResult) view.ValidationAggregate {
	status := view.StatusUnknown
	if result.Status != nil {
		status = *result.Status
	}

	checks := []view.CheckResult{}
	if status == view.StatusSuccess {
		checks = parseCheckResults(result.Results)
	}

	passing := 0
	for _, check := range checks {
		if IsPassing(check) {
			passing++
		}
	}
	return makeAggregate(status, checks, len(checks), passing)
}

func makeAggregate(status string, checks []view.CheckResult, total int, passing int) view.ValidationAggregate {
	rate := PassRate(passing, total)
	return view.ValidationAggregate{
		Status:        status,
		Results:       checks,
		Total:         total,
		Passing:       passing,
		PassRate:      FormatPassRate(rate),
		PassRateValue: rate,
	}
}

// PassRate is passing/total in percent rounded half to even to one decimal, 0 for no checks.
func PassRate(passing int, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.RoundToEven(float64(passing)*1000/float64(total)) / 10
}

// FormatPassRate renders 75 as "75%" and 66.7 as "66.7%".
func FormatPassRate(rate float64) string {
	if rate == math.Trunc(rate) {
		return fmt.Sprintf("%d%%", int64(rate))
	}
	return fmt.Sprintf("%.1f%%", rate)
}

func parseCheckResults(raw json.RawMessage) []view.CheckResult {
	checks := []view.CheckResult{}
	var elements []json.RawMessage
	if err := json.Unmarshal(raw, &elements); err != nil {
		return checks
	}
	for _, element := range elements {
		checks = append(checks, parseCheckResult(element))
	}
	return checks
}

// parseCheckResult reads a check field by field. Anything that is not an object yields
// an empty check, which counts towards the total but never passes.
func parseCheckResult(raw json.RawMessage) view.CheckResult {
	var check view.CheckResult
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return check
	}
	if name, ok := fields["name"]; ok {
		_ = json.Unmarshal(name, &check.Name)
	}
	reportRaw, ok := fields["report"]
	if !ok {
		return check
	}
	var reportFields map[string]json.RawMessage
	if err := json.Unmarshal(reportRaw, &reportFields); err != nil || reportFields == nil {
		return check
	}

	report := &view.CheckReport{}
	if passRaw, ok := reportFields["pass"]; ok {
		var pass bool
		if err := json.Unmarshal(passRaw, &pass); err == nil {
			report.Pass = &pass
		}
	}
	if messageRaw, ok := reportFields["message"]; ok {
		_ = json.Unmarshal(messageRaw, &report.Message)
	}
	if errorsRaw, ok := reportFields["errors"]; ok {
		report.Errors = parseErrorEntries(check.Name, errorsRaw)
	}
	check.Report = report
	return check
}

// parseErrorEntries decodes errors one by one, so a malformed entry costs only itself.
func parseErrorEntries(checkName string, raw json.RawMessage) []view.ErrorEntry {
	var elements []json.RawMessage
	if err := json.Unmarshal(raw, &elements); err != nil {
		log.Warnf("Errors of check '%s' are not a list, ignored: %s", checkName, err.Error())
		return nil
	}
	entries := make([]view.ErrorEntry, 0, len(elements))
	for i, element := range elements {
		var entry view.ErrorEntry
		if err := json.Unmarshal(element, &entry); err != nil {
			log.Warnf("Error entry %d of check '%s' is malformed, skipped: %s", i, checkName, err.Error())
			continue
		}
		entries = append(entries, entry)
	}
	return entries
}

// MergeVariables joins summary statistics with validation results. The summary is the
// authoritative variable list: its order is kept and validation-only names are skipped.
func MergeVariables(summary view.SummaryData, validation map[string]view.ValidationResult) *orderedmap.OrderedMap[string, view.MergedVariable] {
	merged := orderedmap.New[string, view.MergedVariable](summary.Len())
	for _, name := range summary.Names() {
		stats, _ := summary.Get(name)
		var validationResult *view.ValidationResult
		if res, exists := validation[name]; exists {
			validationResult = &res
		}
		merged.Set(name, view.MergedVariable{
			Type:        stats.Type,
			Description: stats.Description,
			Summary:     stats,
			Validation:  validationResult,
		})
	}
	return merged
}

// TotalValues sums the numeric frequencies of the observed values.
func TotalValues(stats view.SummaryStats) int {
	total := 0.0
	for _, freq := range stats.Frequencies() {
		total += freq
	}
	return int(math.Round(total))
}

func NewVariableSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, name := range names {
		set[name] = struct{}{}
	}
	return set
}

// BuildChecklist lists expected variables in the given order. Missingness must cover every
// expected variable: a gap is an upstream bug and fails instead of being defaulted.
func BuildChecklist(expected []string, observed map[string]struct{}, missingness map[string]float64) ([]view.ChecklistItem, error) {
	items := make([]view.ChecklistItem, 0, len(expected))
	for _, name := range expected {
		missingPct, ok := missingness[name]
		if !ok {
			return nil, &exception.CustomError{
				Status:  http.StatusUnprocessableEntity,
				Code:    exception.MissingnessNotFound,
				Message: exception.MissingnessNotFoundMsg,
				Params:  map[string]interface{}{"variable": name},
			}
		}
		_, exists := observed[name]
		items = append(items, view.ChecklistItem{
			Name:       name,
			MissingPct: missingPct,
			Exists:     exists,
		})
	}
	return items, nil
}
