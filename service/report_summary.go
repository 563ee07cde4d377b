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
	"net/http"
	"strconv"
	"time"

	"github.com/Netcracker/qubership-validation-report-service/client"
	"github.com/Netcracker/qubership-validation-report-service/exception"
	"github.com/Netcracker/qubership-validation-report-service/utils"
	"github.com/Netcracker/qubership-validation-report-service/view"
	log "github.com/sirupsen/logrus"
)

type ReportSummaryService interface {
	Summarize(ctx context.Context, report view.Report, opts view.SummaryOptions) (*view.ReportSummary, error)
	SummarizeRaw(ctx context.Context, body []byte, opts view.SummaryOptions) (*view.ReportSummary, error)
	GetFileSummary(ctx context.Context, fileId string, opts view.SummaryOptions) (*view.ReportSummary, error)
	InvalidateFile(ctx context.Context, fileId string)
}

// NewReportSummaryService creates the service. reportSource may be nil when no upstream
// portal is configured, then only posted reports without a checklist can be summarized.
func NewReportSummaryService(reportSource client.ReportSourceClient, cache SummaryCache) ReportSummaryService {
	if cache == nil {
		cache = NewNoopSummaryCache()
	}
	return &reportSummaryServiceImpl{reportSource: reportSource, cache: cache}
}

type reportSummaryServiceImpl struct {
	reportSource client.ReportSourceClient
	cache        SummaryCache
}

func (s reportSummaryServiceImpl) Summarize(ctx context.Context, report view.Report, opts view.SummaryOptions) (*view.ReportSummary, error) {
	result := &view.ReportSummary{
		DataFileType:  report.DataFileType,
		VariableCount: report.VariableCount,
		RecordCount:   report.RecordCount,
		NetEmptyPct:   report.NetEmptyPct,
		Variables:     make([]view.VariableSummary, 0, report.Summary.Len()),
	}

	merged := MergeVariables(report.Summary, report.Validation)
	for pair := merged.Oldest(); pair != nil; pair = pair.Next() {
		result.Variables = append(result.Variables, summarizeVariable(pair.Key, pair.Value, opts.RenderEmpty))
	}
	result.Validation = aggregateVariables(result.Variables)

	if opts.WithChecklist {
		checklist, err := s.makeChecklist(ctx, report)
		if err != nil {
			return nil, err
		}
		result.Checklist = checklist
	}
	return result, nil
}

func summarizeVariable(name string, merged view.MergedVariable, renderEmpty bool) view.VariableSummary {
	var aggregate view.ValidationAggregate
	if merged.Validation != nil {
		aggregate = AggregateValidation(*merged.Validation)
	} else {
		aggregate = AggregateValidation(view.ValidationResult{})
	}

	checks := make([]view.CheckSummary, 0, len(aggregate.Results))
	for _, check := range aggregate.Results {
		checkSummary := view.CheckSummary{
			Name:   check.Name,
			Pass:   IsPassing(check),
			Errors: []view.FormattedError{},
		}
		if check.Report != nil {
			checkSummary.Message = check.Report.Message
			checkSummary.Errors = FormatErrors(check.Report.Errors, renderEmpty)
		}
		checks = append(checks, checkSummary)
	}

	return view.VariableSummary{
		Name:        name,
		Type:        merged.Type,
		Description: merged.Description,
		TotalValues: TotalValues(merged.Summary),
		Summary:     merged.Summary,
		Validated:   merged.Validation != nil,
		Validation:  aggregate,
		Checks:      checks,
	}
}

// aggregateVariables sums the checks of all variables. The status is success only when every
// validated variable succeeded, otherwise it is the first other status met in report order.
func aggregateVariables(variables []view.VariableSummary) view.ValidationAggregate {
	status := view.StatusUnknown
	checks := []view.CheckResult{}
	passing := 0
	for _, variable := range variables {
		if !variable.Validated {
			continue
		}
		switch {
		case variable.Validation.Status != view.StatusSuccess:
			if status == view.StatusUnknown || status == view.StatusSuccess {
				status = variable.Validation.Status
			}
		case status == view.StatusUnknown:
			status = view.StatusSuccess
		}
		checks = append(checks, variable.Validation.Results...)
		passing += variable.Validation.Passing
	}
	return makeAggregate(status, checks, len(checks), passing)
}

func (s reportSummaryServiceImpl) makeChecklist(ctx context.Context, report view.Report) ([]view.ChecklistItem, error) {
	if s.reportSource == nil {
		return nil, upstreamNotConfiguredError()
	}
	if report.DataFileType == "" {
		return nil, &exception.CustomError{
			Status:  http.StatusBadRequest,
			Code:    exception.RequiredParamsMissing,
			Message: exception.RequiredParamsMissingMsg,
			Params:  map[string]interface{}{"params": "data_file_type"},
		}
	}
	dictionary, err := s.reportSource.GetDataDictionary(ctx, report.DataFileType)
	if err != nil {
		return nil, upstreamError(err)
	}
	if dictionary == nil {
		return nil, &exception.CustomError{
			Status:  http.StatusNotFound,
			Code:    exception.DataDictionaryNotFound,
			Message: exception.DataDictionaryNotFoundMsg,
			Params:  map[string]interface{}{"type": report.DataFileType},
		}
	}
	return BuildChecklist(dictionary.VariableNames(), NewVariableSet(report.Summary.Names()), report.Missingness)
}

func (s reportSummaryServiceImpl) SummarizeRaw(ctx context.Context, body []byte, opts view.SummaryOptions) (*view.ReportSummary, error) {
	key := utils.MakeCacheKey("report", utils.CreateSHA256Hash(body), optionsKey(opts))
	if cached, ok := s.cache.Get(key); ok {
		log.Debugf("Summary cache hit for %s", key)
		return cached, nil
	}

	var report view.Report
	if err := json.Unmarshal(body, &report); err != nil {
		return nil, &exception.CustomError{
			Status:  http.StatusBadRequest,
			Code:    exception.BadRequestBody,
			Message: exception.BadRequestBodyMsg,
			Debug:   err.Error(),
		}
	}

	summary, err := s.Summarize(ctx, report, opts)
	if err != nil {
		return nil, err
	}
	s.cache.Put(key, summary)
	return summary, nil
}

func (s reportSummaryServiceImpl) GetFileSummary(ctx context.Context, fileId string, opts view.SummaryOptions) (*view.ReportSummary, error) {
	key := fileSummaryKey(fileId, opts)
	if cached, ok := s.cache.Get(key); ok {
		log.Debugf("Summary cache hit for %s", key)
		return cached, nil
	}
	if s.reportSource == nil {
		return nil, upstreamNotConfiguredError()
	}

	start := time.Now()
	report, err := s.reportSource.GetReport(ctx, fileId)
	if err != nil {
		return nil, upstreamError(err)
	}
	if report == nil {
		return nil, &exception.CustomError{
			Status:  http.StatusNotFound,
			Code:    exception.EntityNotFound,
			Message: exception.EntityNotFoundMsg,
			Params:  map[string]interface{}{"entity": "Validation report of file", "id": fileId},
		}
	}

	summary, err := s.Summarize(ctx, *report, opts)
	if err != nil {
		return nil, err
	}
	summary.FileId = fileId
	s.cache.Put(key, summary)

	log.Debugf("Summary for file %s calculated in %dms", fileId, time.Since(start).Milliseconds())
	return summary, nil
}

func (s reportSummaryServiceImpl) InvalidateFile(ctx context.Context, fileId string) {
	for _, renderEmpty := range []bool{false, true} {
		for _, withChecklist := range []bool{false, true} {
			s.cache.Delete(fileSummaryKey(fileId, view.SummaryOptions{RenderEmpty: renderEmpty, WithChecklist: withChecklist}))
		}
	}
	log.Debugf("Cached summaries of file %s are invalidated", fileId)
}

func fileSummaryKey(fileId string, opts view.SummaryOptions) string {
	return utils.MakeCacheKey("file", fileId, optionsKey(opts))
}

func optionsKey(opts view.SummaryOptions) string {
	return strconv.FormatBool(opts.RenderEmpty) + "," + strconv.FormatBool(opts.WithChecklist)
}

func upstreamNotConfiguredError() error {
	return &exception.CustomError{
		Status:  http.StatusServiceUnavailable,
		Code:    exception.UpstreamNotConfigured,
		Message: exception.UpstreamNotConfiguredMsg,
	}
}

func upstreamError(err error) error {
	return &exception.CustomError{
		Status:  http.StatusBadGateway,
		Code:    exception.UpstreamRequestFailed,
		Message: exception.UpstreamRequestFailedMsg,
		Params:  map[string]interface{}{"status": upstreamStatus(err)},
		Debug:   err.Error(),
	}
}

func upstreamStatus(err error) string {
	var statusErr *client.UpstreamStatusError
	if errors.As(err, &statusErr) {
		return strconv.Itoa(statusErr.StatusCode)
	}
	return "unavailable"
}
