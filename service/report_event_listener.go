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
	"sync"

	"github.com/Netcracker/qubership-validation-report-service/client"
	"github.com/Netcracker/qubership-validation-report-service/utils"
	"github.com/Netcracker/qubership-validation-report-service/view"
	"github.com/buraksezer/olric"
	log "github.com/sirupsen/logrus"
)

// ReportEventListener refreshes cached summaries when the portal announces a new validation report.
type ReportEventListener interface {
	Start()
	WaitReady()
	listen(message olric.DTopicMessage)
}

func NewReportEventListener(op client.OlricProvider, reportSummaryService ReportSummaryService) ReportEventListener {
	return &reportEventListenerImpl{
		op:                   op,
		reportSummaryService: reportSummaryService,
		isReadyWg:            sync.WaitGroup{},
	}
}

type reportEventListenerImpl struct {
	op                   client.OlricProvider
	reportSummaryService ReportSummaryService
	reportValidatedTopic *olric.DTopic
	isReadyWg            sync.WaitGroup
}

func (p *reportEventListenerImpl) Start() {
	p.isReadyWg.Add(1)
	utils.SafeAsync(func() {
		p.initReportValidatedDTopic()
	})
}

func (p *reportEventListenerImpl) WaitReady() {
	p.isReadyWg.Wait()
}

const ReportValidatedTopicName = "report-validated"

func (p *reportEventListenerImpl) listen(message olric.DTopicMessage) {
	str, ok := message.Message.(string)
	if !ok {
		log.Warnf("ReportEventListener.listen: unexpected event %+v, will not be processed", message.Message)
		return
	}

	var notification view.ReportValidatedNotification
	err := json.Unmarshal([]byte(str), &notification)
	if err != nil {
		log.Errorf("ReportEventListener.listen: error unmarshalling report notification: %v", err)
		return
	}
	if notification.FileId == "" {
		log.Warnf("ReportEventListener.listen: notification without fileId: %s", str)
		return
	}

	ctx := context.Background()
	p.reportSummaryService.InvalidateFile(ctx, notification.FileId)
	_, err = p.reportSummaryService.GetFileSummary(ctx, notification.FileId, view.SummaryOptions{})
	if err != nil {
		log.Errorf("ReportEventListener.listen: failed to summarize report of file %s: %v", notification.FileId, err)
	}
}

func (p *reportEventListenerImpl) initReportValidatedDTopic() {
	defer p.isReadyWg.Done()

	var err error
	p.reportValidatedTopic, err = p.op.Get().NewDTopic(ReportValidatedTopicName, 10000, olric.UnorderedDelivery)
	if err != nil {
		log.Errorf("Failed to create DTopic %s: %s", ReportValidatedTopicName, err.Error())
		return
	}

	_, err = p.reportValidatedTopic.AddListener(p.listen)
	if err != nil {
		log.Errorf("Failed to add listener to DTopic %s: %s", ReportValidatedTopicName, err.Error())
	}
}
