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

package view

const StatusSuccess = "success"
const StatusUnknown = "unknown"

// MissingValueLabel is shown instead of an empty offending value.
const MissingValueLabel = "(Missing)"

type FormattedError struct {
	Value string `json:"value"`
	Rows  string `json:"rows"`
}

type ValidationAggregate struct {
	Status        string        `json:"status"`
	Results       []CheckResult `json:"-"`
	Total         int           `json:"total"`
	Passing       int           `json:"passing"`
	PassRate      string        `json:"passRate"`
	PassRateValue float64       `json:"passRateValue"`
}

type MergedVariable struct {
	Type        *string           `json:"type"`
	Description *string           `json:"description"`
	Summary     SummaryStats      `json:"summary"`
	Validation  *ValidationResult `json:"validation"`
}

type CheckSummary struct {
	Name    string           `json:"name,omitempty"`
	Pass    bool             `json:"pass"`
	Message string           `json:"message,omitempty"`
	Errors  []FormattedError `json:"errors"`
}

type VariableSummary struct {
	Name        string              `json:"name"`
	Type        *string             `json:"type"`
	Description *string             `json:"description"`
	TotalValues int                 `json:"totalValues"`
	Summary     SummaryStats        `json:"summary"`
	Validated   bool                `json:"validated"`
	Validation  ValidationAggregate `json:"validation"`
	Checks      []CheckSummary      `json:"checks"`
}

type ReportSummary struct {
	FileId        string              `json:"fileId,omitempty"`
	DataFileType  string              `json:"dataFileType"`
	VariableCount int                 `json:"variableCount"`
	RecordCount   int                 `json:"recordCount"`
	NetEmptyPct   float64             `json:"netEmptyPct"`
	Validation    ValidationAggregate `json:"validation"`
	Variables     []VariableSummary   `json:"variables"`
	Checklist     []ChecklistItem     `json:"checklist,omitempty"`
}

type ChecklistItem struct {
	Name       string  `json:"name"`
	MissingPct float64 `json:"missingPct"`
	Exists     bool    `json:"exists"`
}

type ChecklistRequest struct {
	ExpectedVariables []string           `json:"expectedVariables"`
	ObservedVariables []string           `json:"observedVariables"`
	Missingness       map[string]float64 `json:"missingness"`
}

type SummaryOptions struct {
	RenderEmpty   bool
	WithChecklist bool
}

type ReportValidatedNotification struct {
	FileId       string `json:"fileId"`
	DataFileType string `json:"dataFileType,omitempty"`
}
