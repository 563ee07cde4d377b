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

package main

import (
	"net/http"
	"runtime/debug"
	"time"

	"github.com/Netcracker/qubership-validation-report-service/client"
	"github.com/Netcracker/qubership-validation-report-service/controller"
	"github.com/Netcracker/qubership-validation-report-service/service"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

func init() {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
}

func main() {
	readyChan := make(chan bool)
	systemInfoService, err := service.NewSystemInfoService()
	if err != nil {
		panic(err)
	}
	setLogLevel(systemInfoService.GetLogLevel())

	var reportSource client.ReportSourceClient
	if upstreamUrl := systemInfoService.GetUpstreamUrl(); upstreamUrl != "" {
		reportSource = client.NewReportSourceClient(upstreamUrl, systemInfoService.GetUpstreamApiKey())
	} else {
		log.Warn("UPSTREAM_URL is not set, file summaries and checklists are disabled")
	}

	var olricProvider client.OlricProvider
	var summaryCache service.SummaryCache
	switch systemInfoService.GetSummaryCacheMode() {
	case service.SummaryCacheOlric:
		olricProvider, err = client.NewOlricProvider(client.OlricConfig{
			DiscoveryMode: systemInfoService.GetOlricDiscoveryMode(),
			ReplicaCount:  systemInfoService.GetOlricReplicaCount(),
			Namespace:     systemInfoService.GetNamespace(),
			Peers:         systemInfoService.GetOlricPeers(),
		})
		if err != nil {
			log.Fatalf("Failed to create olric provider: %s", err.Error())
		}
		summaryCache = service.NewOlricSummaryCache(olricProvider, systemInfoService.GetSummaryCacheTTL())
	case service.SummaryCacheNone:
		summaryCache = service.NewNoopSummaryCache()
	default:
		summaryCache = service.NewLocalSummaryCache(systemInfoService.GetSummaryCacheSize(), systemInfoService.GetSummaryCacheTTL())
	}
	log.Infof("Summary cache mode = %s", systemInfoService.GetSummaryCacheMode())

	reportSummaryService := service.NewReportSummaryService(reportSource, summaryCache)
	if olricProvider != nil && reportSource != nil {
		service.NewReportEventListener(olricProvider, reportSummaryService).Start()
	}

	reportSummaryController := controller.NewReportSummaryController(reportSummaryService)
	healthController := controller.NewHealthController(readyChan)

	router := controller.MakeRouter(reportSummaryController, healthController)
	readyChan <- true
	close(readyChan)

	debug.SetGCPercent(30)

	srv := makeServer(systemInfoService, router)
	log.Fatalf("%v", srv.ListenAndServe())
}

func setLogLevel(logLevel string) {
	level, err := log.ParseLevel(logLevel)
	if err != nil {
		log.Warnf("Unknown log level %s, will use info", logLevel)
		level = log.InfoLevel
	}
	log.SetLevel(level)
}

func makeServer(systemInfoService service.SystemInfoService, r *mux.Router) *http.Server {
	listenAddr := systemInfoService.GetListenAddress()

	log.Infof("Listen addr = %s", listenAddr)

	var corsOptions []handlers.CORSOption

	corsOptions = append(corsOptions, handlers.AllowedHeaders([]string{"Connection", "Accept-Encoding", "Content-Encoding", "X-Requested-With", "Content-Type", controller.RequestIdHeader}))

	allowedOrigin := systemInfoService.GetOriginAllowed()
	if allowedOrigin != "" {
		corsOptions = append(corsOptions, handlers.AllowedOrigins([]string{allowedOrigin}))
	}
	corsOptions = append(corsOptions, handlers.AllowedMethods([]string{"GET", "HEAD", "POST", "DELETE", "OPTIONS"}))

	return &http.Server{
		Handler:      handlers.CompressHandler(handlers.CORS(corsOptions...)(r)),
		Addr:         listenAddr,
		WriteTimeout: 60 * time.Second,
		ReadTimeout:  60 * time.Second,
	}
}
