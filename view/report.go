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

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/invopop/jsonschema"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Report is the validation report of a single data file as produced by the upstream validation pipeline.
type Report struct {
	DataFileType  string                      `json:"data_file_type"`
	VariableCount int                         `json:"variable_count"`
	RecordCount   int                         `json:"record_count"`
	NetEmptyPct   float64                     `json:"net_empty_pct"`
	Validation    map[string]ValidationResult `json:"validation"`
	Summary       SummaryData                 `json:"summary"`
	// Missingness is computed upstream for the expected variables of the data file type.
	Missingness map[string]float64 `json:"missingness,omitempty"`
}

type ValidationResult struct {
	Status *string `json:"status,omitempty"`
	// Results is kept raw: malformed results must degrade to empty aggregates instead of failing the whole report.
	Results json.RawMessage `json:"results,omitempty"`
}

type CheckResult struct {
	Name   string       `json:"name,omitempty"`
	Report *CheckReport `json:"report,omitempty"`
}

type CheckReport struct {
	Pass    *bool        `json:"pass,omitempty"`
	Message string       `json:"message,omitempty"`
	Errors  []ErrorEntry `json:"errors,omitempty"`
}

type ErrorEntry struct {
	Value   ErrorValue    `json:"value"`
	Records []ErrorRecord `json:"records"`
}

type ErrorRecord struct {
	Row int `json:"row"`
}

// ErrorValue is the offending data value. Anything but a string is kept as its JSON text, null becomes "".
type ErrorValue string

func (v *ErrorValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*v = ""
		return nil
	}
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*v = ErrorValue(str)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err == nil {
		*v = ErrorValue(num.String())
		return nil
	}
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*v = ErrorValue(fmt.Sprintf("%t", b))
		return nil
	}
	// objects and arrays are shown as their compact JSON text
	var compact bytes.Buffer
	if err := json.Compact(&compact, data); err != nil {
		return err
	}
	*v = ErrorValue(compact.String())
	return nil
}

// SummaryStats holds the statistics of one variable. Fields not listed here are preserved and written back as is.
// Value maps an observed value to its frequency, entries that are not numbers are kept but not counted.
type SummaryStats struct {
	Type        *string                    `json:"type,omitempty"`
	Description *string                    `json:"description,omitempty"`
	Value       map[string]json.RawMessage `json:"value,omitempty"`

	raw json.RawMessage
}

// UnmarshalJSON reads the known fields leniently: a field of an unexpected shape is left empty
// and the statistics are still passed through.
func (s *SummaryStats) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		if !json.Valid(data) {
			return err
		}
		fields = nil
	}
	*s = SummaryStats{raw: slices.Clone(data)}
	if typeRaw, ok := fields["type"]; ok {
		var kind string
		if json.Unmarshal(typeRaw, &kind) == nil {
			s.Type = &kind
		}
	}
	if descriptionRaw, ok := fields["description"]; ok {
		var description string
		if json.Unmarshal(descriptionRaw, &description) == nil {
			s.Description = &description
		}
	}
	if valueRaw, ok := fields["value"]; ok {
		var value map[string]json.RawMessage
		if json.Unmarshal(valueRaw, &value) == nil {
			s.Value = value
		}
	}
	return nil
}

// Frequencies returns the numeric frequencies of Value.
func (s SummaryStats) Frequencies() map[string]float64 {
	result := make(map[string]float64, len(s.Value))
	for value, raw := range s.Value {
		var freq float64
		if json.Unmarshal(raw, &freq) == nil {
			result[value] = freq
		}
	}
	return result
}

func (s SummaryStats) MarshalJSON() ([]byte, error) {
	if len(s.raw) > 0 {
		return s.raw, nil
	}
	type plain SummaryStats
	return json.Marshal(plain(s))
}

// SummaryData maps variable names to their statistics and keeps the order the upstream report lists them in.
type SummaryData struct {
	variables *orderedmap.OrderedMap[string, SummaryStats]
}

func NewSummaryData() *SummaryData {
	return &SummaryData{variables: orderedmap.New[string, SummaryStats]()}
}

func (s *SummaryData) Set(name string, stats SummaryStats) {
	if s.variables == nil {
		s.variables = orderedmap.New[string, SummaryStats]()
	}
	s.variables.Set(name, stats)
}

func (s SummaryData) Get(name string) (SummaryStats, bool) {
	if s.variables == nil {
		return SummaryStats{}, false
	}
	return s.variables.Get(name)
}

func (s SummaryData) Len() int {
	if s.variables == nil {
		return 0
	}
	return s.variables.Len()
}

// Names returns variable names in report order.
func (s SummaryData) Names() []string {
	if s.variables == nil {
		return nil
	}
	names := make([]string, 0, s.variables.Len())
	for pair := s.variables.Oldest(); pair != nil; pair = pair.Next() {
		names = append(names, pair.Key)
	}
	return names
}

func (s *SummaryData) UnmarshalJSON(data []byte) error {
	s.variables = orderedmap.New[string, SummaryStats]()
	if string(bytes.TrimSpace(data)) == "null" {
		return nil
	}
	return json.Unmarshal(data, s.variables)
}

func (s SummaryData) MarshalJSON() ([]byte, error) {
	if s.variables == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(s.variables)
}

func (SummaryData) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:        "object",
		Description: "Variable name to summary statistics, in data file order",
	}
}

// DataDictionary lists the variables expected for a data file type, in canonical schema order.
type DataDictionary struct {
	DataFileType string               `json:"data_file_type"`
	Variables    []DictionaryVariable `json:"variables"`
}

type DictionaryVariable struct {
	Name        string  `json:"name"`
	Type        *string `json:"type,omitempty"`
	Description *string `json:"description,omitempty"`
}

func (d DataDictionary) VariableNames() []string {
	names := make([]string, 0, len(d.Variables))
	for _, v := range d.Variables {
		names = append(names, v.Name)
	}
	return names
}
