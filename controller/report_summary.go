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

package controller

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/Netcracker/qubership-validation-report-service/exception"
	"github.com/Netcracker/qubership-validation-report-service/service"
	"github.com/Netcracker/qubership-validation-report-service/view"
	log "github.com/sirupsen/logrus"
)

type ReportSummaryController interface {
	SummarizeReport(w http.ResponseWriter, r *http.Request)
	GetFileSummary(w http.ResponseWriter, r *http.Request)
	InvalidateFileSummary(w http.ResponseWriter, r *http.Request)
	BuildChecklist(w http.ResponseWriter, r *http.Request)
	GetReportSchema(w http.ResponseWriter, r *http.Request)
}

func NewReportSummaryController(reportSummaryService service.ReportSummaryService) ReportSummaryController {
	return &reportSummaryControllerImpl{reportSummaryService: reportSummaryService}
}

type reportSummaryControllerImpl struct {
	reportSummaryService service.ReportSummaryService
}

func (c reportSummaryControllerImpl) SummarizeReport(w http.ResponseWriter, r *http.Request) {
	opts, err := getSummaryOptions(r)
	if err != nil {
		respondWithError(w, "Invalid summary options", err)
		return
	}

	defer r.Body.Close()
	body, err := io.ReadAll(r.Body)
	if err != nil {
		RespondWithCustomError(w, &exception.CustomError{
			Status:  http.StatusBadRequest,
			Code:    exception.BadRequestBody,
			Message: exception.BadRequestBodyMsg,
			Debug:   err.Error(),
		})
		return
	}

	summary, err := c.reportSummaryService.SummarizeRaw(r.Context(), body, opts)
	if err != nil {
		respondWithError(w, "Failed to summarize validation report", err)
		return
	}
	respondWithJson(w, http.StatusOK, summary)
}

func (c reportSummaryControllerImpl) GetFileSummary(w http.ResponseWriter, r *http.Request) {
	fileId, err := getUnescapedStringParam(r, "fileId")
	if err != nil {
		RespondWithCustomError(w, &exception.CustomError{
			Status:  http.StatusBadRequest,
			Code:    exception.InvalidURLEscape,
			Message: exception.InvalidURLEscapeMsg,
			Params:  map[string]interface{}{"param": "fileId"},
			Debug:   err.Error(),
		})
		return
	}
	opts, err := getSummaryOptions(r)
	if err != nil {
		respondWithError(w, "Invalid summary options", err)
		return
	}

	summary, err := c.reportSummaryService.GetFileSummary(r.Context(), fileId, opts)
	if err != nil {
		respondWithError(w, "Failed to get validation report summary", err)
		return
	}
	respondWithJson(w, http.StatusOK, summary)
}

func (c reportSummaryControllerImpl) InvalidateFileSummary(w http.ResponseWriter, r *http.Request) {
	fileId, err := getUnescapedStringParam(r, "fileId")
	if err != nil {
		RespondWithCustomError(w, &exception.CustomError{
			Status:  http.StatusBadRequest,
			Code:    exception.InvalidURLEscape,
			Message: exception.InvalidURLEscapeMsg,
			Params:  map[string]interface{}{"param": "fileId"},
			Debug:   err.Error(),
		})
		return
	}
	c.reportSummaryService.InvalidateFile(r.Context(), fileId)
	log.Debugf("Summary cache invalidated for file %s", fileId)
	w.WriteHeader(http.StatusNoContent)
}

func (c reportSummaryControllerImpl) BuildChecklist(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	var req view.ChecklistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondWithCustomError(w, &exception.CustomError{
			Status:  http.StatusBadRequest,
			Code:    exception.BadRequestBody,
			Message: exception.BadRequestBodyMsg,
			Debug:   err.Error(),
		})
		return
	}
	if req.ExpectedVariables == nil {
		RespondWithCustomError(w, &exception.CustomError{
			Status:  http.StatusBadRequest,
			Code:    exception.RequiredParamsMissing,
			Message: exception.RequiredParamsMissingMsg,
			Params:  map[string]interface{}{"params": "expectedVariables"},
		})
		return
	}

	items, err := service.BuildChecklist(req.ExpectedVariables, service.NewVariableSet(req.ObservedVariables), req.Missingness)
	if err != nil {
		respondWithError(w, "Failed to build variable checklist", err)
		return
	}
	respondWithJson(w, http.StatusOK, items)
}

func (c reportSummaryControllerImpl) GetReportSchema(w http.ResponseWriter, r *http.Request) {
	respondWithJson(w, http.StatusOK, service.ReportSchema())
}

func getSummaryOptions(r *http.Request) (view.SummaryOptions, error) {
	renderEmpty, err := getBoolQueryParam(r, "renderEmpty")
	if err != nil {
		return view.SummaryOptions{}, err
	}
	withChecklist, err := getBoolQueryParam(r, "checklist")
	if err != nil {
		return view.SummaryOptions{}, err
	}
	return view.SummaryOptions{RenderEmpty: renderEmpty, WithChecklist: withChecklist}, nil
}
