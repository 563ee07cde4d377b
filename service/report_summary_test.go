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
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/Netcracker/qubership-validation-report-service/client"
	"github.com/Netcracker/qubership-validation-report-service/exception"
	"github.com/Netcracker/qubership-validation-report-service/view"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testReport = `{
	"data_file_type": "demographics",
	"variable_count": 3,
	"record_count": 10,
	"net_empty_pct": 2.5,
	"validation": {
		"age": {"status": "success", "results": [
			{"name": "type", "report": {"pass": false, "message": "not an integer", "errors": [
				{"value": "abc", "records": [{"row": 7}, {"row": 1}, {"row": 2}, {"row": 8}, {"row": 3}]},
				{"value": "", "records": [{"row": 4}]}
			]}},
			{"name": "range", "report": {"pass": true}}
		]},
		"subject_id": {"status": "success", "results": [{"name": "unique", "report": {"pass": true}}]},
		"orphan": {"status": "success", "results": [{"report": {"pass": false}}]}
	},
	"summary": {
		"subject_id": {"type": "string", "value": {"S-1": 1, "S-2": 1}},
		"age": {"type": "integer", "description": "Age at visit", "value": {"34": 3, "abc": 1}},
		"visit": {}
	},
	"missingness": {"subject_id": 0, "age": 10, "sex": 100}
}`

type mockReportSource struct {
	reports      map[string]string
	dictionaries map[string]*view.DataDictionary
	err          error
	reportCalls  int
}

func (m *mockReportSource) GetReport(ctx context.Context, fileId string) (*view.Report, error) {
	m.reportCalls++
	if m.err != nil {
		return nil, m.err
	}
	data, ok := m.reports[fileId]
	if !ok {
		return nil, nil
	}
	var report view.Report
	if err := json.Unmarshal([]byte(data), &report); err != nil {
		return nil, err
	}
	return &report, nil
}

func (m *mockReportSource) GetDataDictionary(ctx context.Context, dataFileType string) (*view.DataDictionary, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.dictionaries[dataFileType], nil
}

func newMockReportSource() *mockReportSource {
	return &mockReportSource{
		reports: map[string]string{"f-1": testReport},
		dictionaries: map[string]*view.DataDictionary{
			"demographics": {DataFileType: "demographics", Variables: []view.DictionaryVariable{
				{Name: "subject_id"}, {Name: "sex"}, {Name: "age"},
			}},
		},
	}
}

func decodeReport(t *testing.T, data string) view.Report {
	t.Helper()
	var report view.Report
	require.NoError(t, json.Unmarshal([]byte(data), &report))
	return report
}

func requireCustomError(t *testing.T, err error, status int, code string) {
	t.Helper()
	var customErr *exception.CustomError
	require.True(t, errors.As(err, &customErr), "expected CustomError, got %v", err)
	assert.Equal(t, status, customErr.Status)
	assert.Equal(t, code, customErr.Code)
}

func TestReportSummaryService_Summarize(t *testing.T) {
	svc := NewReportSummaryService(nil, nil)

	summary, err := svc.Summarize(context.Background(), decodeReport(t, testReport), view.SummaryOptions{})
	require.NoError(t, err)

	assert.Equal(t, "demographics", summary.DataFileType)
	assert.Equal(t, 3, summary.VariableCount)
	assert.Equal(t, 10, summary.RecordCount)
	assert.Equal(t, 2.5, summary.NetEmptyPct)
	assert.Nil(t, summary.Checklist)

	require.Len(t, summary.Variables, 3)
	assert.Equal(t, "subject_id", summary.Variables[0].Name)
	assert.Equal(t, "age", summary.Variables[1].Name)
	assert.Equal(t, "visit", summary.Variables[2].Name)

	age := summary.Variables[1]
	assert.True(t, age.Validated)
	assert.Equal(t, "Age at visit", *age.Description)
	assert.Equal(t, 4, age.TotalValues)
	assert.Equal(t, 2, age.Validation.Total)
	assert.Equal(t, 1, age.Validation.Passing)
	assert.Equal(t, "50%", age.Validation.PassRate)
	require.Len(t, age.Checks, 2)
	assert.Equal(t, view.CheckSummary{
		Name:    "type",
		Pass:    false,
		Message: "not an integer",
		Errors:  []view.FormattedError{{Value: "abc", Rows: "1-3, 7-8"}},
	}, age.Checks[0])
	assert.Equal(t, view.CheckSummary{Name: "range", Pass: true, Errors: []view.FormattedError{}}, age.Checks[1])

	visit := summary.Variables[2]
	assert.False(t, visit.Validated)
	assert.Nil(t, visit.Type)
	assert.Equal(t, view.StatusUnknown, visit.Validation.Status)
	assert.Equal(t, "0%", visit.Validation.PassRate)
	assert.Empty(t, visit.Checks)

	// orphan validation is not part of the summary and not counted
	assert.Equal(t, view.StatusSuccess, summary.Validation.Status)
	assert.Equal(t, 3, summary.Validation.Total)
	assert.Equal(t, 2, summary.Validation.Passing)
	assert.Equal(t, "66.7%", summary.Validation.PassRate)
}

func TestReportSummaryService_Summarize_RenderEmpty(t *testing.T) {
	svc := NewReportSummaryService(nil, nil)

	summary, err := svc.Summarize(context.Background(), decodeReport(t, testReport), view.SummaryOptions{RenderEmpty: true})
	require.NoError(t, err)
	assert.Equal(t, []view.FormattedError{
		{Value: "abc", Rows: "1-3, 7-8"},
		{Value: view.MissingValueLabel, Rows: "4"},
	}, summary.Variables[1].Checks[0].Errors)
}

func TestReportSummaryService_Summarize_OverallStatus(t *testing.T) {
	svc := NewReportSummaryService(nil, nil)

	report := decodeReport(t, `{
		"validation": {
			"a": {"status": "success", "results": [{"report": {"pass": true}}]},
			"b": {"status": "error", "results": [{"report": {"pass": true}}]},
			"c": {"status": "running"}
		},
		"summary": {"a": {}, "b": {}, "c": {}}
	}`)
	summary, err := svc.Summarize(context.Background(), report, view.SummaryOptions{})
	require.NoError(t, err)
	assert.Equal(t, "error", summary.Validation.Status)
	assert.Equal(t, 1, summary.Validation.Total)
	assert.Equal(t, "100%", summary.Validation.PassRate)

	summary, err = svc.Summarize(context.Background(), decodeReport(t, `{"summary": {"a": {}}}`), view.SummaryOptions{})
	require.NoError(t, err)
	assert.Equal(t, view.StatusUnknown, summary.Validation.Status)
	assert.Equal(t, "0%", summary.Validation.PassRate)
}

func TestReportSummaryService_Summarize_Checklist(t *testing.T) {
	svc := NewReportSummaryService(newMockReportSource(), nil)

	summary, err := svc.Summarize(context.Background(), decodeReport(t, testReport), view.SummaryOptions{WithChecklist: true})
	require.NoError(t, err)
	assert.Equal(t, []view.ChecklistItem{
		{Name: "subject_id", MissingPct: 0, Exists: true},
		{Name: "sex", MissingPct: 100, Exists: false},
		{Name: "age", MissingPct: 10, Exists: true},
	}, summary.Checklist)
}

func TestReportSummaryService_Summarize_ChecklistErrors(t *testing.T) {
	ctx := context.Background()
	opts := view.SummaryOptions{WithChecklist: true}

	_, err := NewReportSummaryService(nil, nil).Summarize(ctx, decodeReport(t, testReport), opts)
	requireCustomError(t, err, http.StatusServiceUnavailable, exception.UpstreamNotConfigured)

	source := newMockReportSource()
	svc := NewReportSummaryService(source, nil)

	_, err = svc.Summarize(ctx, decodeReport(t, `{"data_file_type": "labs"}`), opts)
	requireCustomError(t, err, http.StatusNotFound, exception.DataDictionaryNotFound)

	_, err = svc.Summarize(ctx, decodeReport(t, `{"summary": {}}`), opts)
	requireCustomError(t, err, http.StatusBadRequest, exception.RequiredParamsMissing)

	_, err = svc.Summarize(ctx, decodeReport(t, `{"data_file_type": "demographics", "missingness": {"subject_id": 0}}`), opts)
	requireCustomError(t, err, http.StatusUnprocessableEntity, exception.MissingnessNotFound)

	source.err = fmt.Errorf("wrapped: %w", &client.UpstreamStatusError{StatusCode: http.StatusInternalServerError})
	_, err = svc.Summarize(ctx, decodeReport(t, testReport), opts)
	requireCustomError(t, err, http.StatusBadGateway, exception.UpstreamRequestFailed)
	assert.Contains(t, err.Error(), "500")
}

func TestReportSummaryService_SummarizeRaw(t *testing.T) {
	cache := NewLocalSummaryCache(10, time.Minute)
	svc := NewReportSummaryService(nil, cache)

	first, err := svc.SummarizeRaw(context.Background(), []byte(testReport), view.SummaryOptions{})
	require.NoError(t, err)
	second, err := svc.SummarizeRaw(context.Background(), []byte(testReport), view.SummaryOptions{})
	require.NoError(t, err)
	assert.Same(t, first, second)

	third, err := svc.SummarizeRaw(context.Background(), []byte(testReport), view.SummaryOptions{RenderEmpty: true})
	require.NoError(t, err)
	assert.NotSame(t, first, third)

	_, err = svc.SummarizeRaw(context.Background(), []byte(`{"summary": [`), view.SummaryOptions{})
	requireCustomError(t, err, http.StatusBadRequest, exception.BadRequestBody)
}

func TestReportSummaryService_SummarizeRaw_NonNumericFrequencies(t *testing.T) {
	svc := NewReportSummaryService(nil, nil)

	summary, err := svc.SummarizeRaw(context.Background(),
		[]byte(`{"summary":{"age":{"value":{"mean":"12.3","34":2}}}}`), view.SummaryOptions{})
	require.NoError(t, err)
	require.Len(t, summary.Variables, 1)
	assert.Equal(t, "age", summary.Variables[0].Name)
	assert.Equal(t, 2, summary.Variables[0].TotalValues)

	data, err := json.Marshal(summary.Variables[0].Summary)
	require.NoError(t, err)
	assert.JSONEq(t, `{"value":{"mean":"12.3","34":2}}`, string(data))
}

func TestReportSummaryService_GetFileSummary(t *testing.T) {
	source := newMockReportSource()
	svc := NewReportSummaryService(source, NewLocalSummaryCache(10, time.Minute))
	ctx := context.Background()

	summary, err := svc.GetFileSummary(ctx, "f-1", view.SummaryOptions{})
	require.NoError(t, err)
	assert.Equal(t, "f-1", summary.FileId)
	assert.Len(t, summary.Variables, 3)

	_, err = svc.GetFileSummary(ctx, "f-1", view.SummaryOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, source.reportCalls, "second call must be served from cache")

	svc.InvalidateFile(ctx, "f-1")
	_, err = svc.GetFileSummary(ctx, "f-1", view.SummaryOptions{})
	require.NoError(t, err)
	assert.Equal(t, 2, source.reportCalls)

	_, err = svc.GetFileSummary(ctx, "missing", view.SummaryOptions{})
	requireCustomError(t, err, http.StatusNotFound, exception.EntityNotFound)
}

func TestReportSummaryService_GetFileSummary_NoUpstream(t *testing.T) {
	_, err := NewReportSummaryService(nil, nil).GetFileSummary(context.Background(), "f-1", view.SummaryOptions{})
	requireCustomError(t, err, http.StatusServiceUnavailable, exception.UpstreamNotConfigured)
}
