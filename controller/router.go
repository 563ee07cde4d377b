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
	"net/http"

	"github.com/gorilla/mux"
)

func MakeRouter(reportSummaryController ReportSummaryController, healthController HealthController) *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/api/v1/reports/summary", Handle(reportSummaryController.SummarizeReport)).Methods(http.MethodPost)
	router.HandleFunc("/api/v1/reports/checklist", Handle(reportSummaryController.BuildChecklist)).Methods(http.MethodPost)
	router.HandleFunc("/api/v1/reports/schema", Handle(reportSummaryController.GetReportSchema)).Methods(http.MethodGet)
	router.HandleFunc("/api/v1/files/{fileId}/summary", Handle(reportSummaryController.GetFileSummary)).Methods(http.MethodGet)
	router.HandleFunc("/api/v1/files/{fileId}/summary", Handle(reportSummaryController.InvalidateFileSummary)).Methods(http.MethodDelete)

	router.HandleFunc("/live", healthController.HandleLiveRequest).Methods(http.MethodGet)
	router.HandleFunc("/ready", healthController.HandleReadyRequest).Methods(http.MethodGet)
	return router
}
