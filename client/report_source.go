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

package client

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/Netcracker/qubership-validation-report-service/view"
	log "github.com/sirupsen/logrus"
	"gopkg.in/resty.v1"
)

// ReportSourceClient reads validation reports and data dictionaries from the submission portal.
type ReportSourceClient interface {
	GetReport(ctx context.Context, fileId string) (*view.Report, error)
	GetDataDictionary(ctx context.Context, dataFileType string) (*view.DataDictionary, error)
}

// UpstreamStatusError is returned when the portal answers with an unexpected status.
type UpstreamStatusError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamStatusError) Error() string {
	return fmt.Sprintf("unexpected status code %d: %s", e.StatusCode, e.Body)
}

func NewReportSourceClient(upstreamUrl, apiKey string) ReportSourceClient {
	parsedUrl, err := url.Parse(upstreamUrl)
	upstreamHost := ""
	if err != nil {
		log.Errorf("Can't parse upstream url: %v", err)
	} else {
		upstreamHost = parsedUrl.Hostname()
	}

	tr := http.Transport{TLSClientConfig: &tls.Config{InsecureSkipVerify: true}}
	cl := http.Client{Transport: &tr, Timeout: time.Second * 60}
	client := resty.NewWithClient(&cl)
	if upstreamHost != "" {
		client.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(upstreamHost))
	}

	return &reportSourceClientImpl{upstreamUrl: upstreamUrl, apiKey: apiKey, client: client}
}

type reportSourceClientImpl struct {
	upstreamUrl string
	apiKey      string
	client      *resty.Client
}

func (r reportSourceClientImpl) GetReport(ctx context.Context, fileId string) (*view.Report, error) {
	resp, err := r.makeRequest(ctx).Get(fmt.Sprintf("%s/api/v1/files/%s/report", r.upstreamUrl, url.PathEscape(fileId)))
	if err != nil {
		return nil, fmt.Errorf("failed to get validation report for file %s: %w", fileId, err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("failed to get validation report for file %s: %w", fileId,
			&UpstreamStatusError{StatusCode: resp.StatusCode(), Body: string(resp.Body())})
	}

	var report view.Report
	if err = json.Unmarshal(resp.Body(), &report); err != nil {
		return nil, fmt.Errorf("failed to decode validation report for file %s: %w", fileId, err)
	}
	return &report, nil
}

func (r reportSourceClientImpl) GetDataDictionary(ctx context.Context, dataFileType string) (*view.DataDictionary, error) {
	resp, err := r.makeRequest(ctx).Get(fmt.Sprintf("%s/api/v1/dictionaries/%s", r.upstreamUrl, url.PathEscape(dataFileType)))
	if err != nil {
		return nil, fmt.Errorf("failed to get data dictionary %s: %w", dataFileType, err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("failed to get data dictionary %s: %w", dataFileType,
			&UpstreamStatusError{StatusCode: resp.StatusCode(), Body: string(resp.Body())})
	}

	var dictionary view.DataDictionary
	if err = json.Unmarshal(resp.Body(), &dictionary); err != nil {
		return nil, fmt.Errorf("failed to decode data dictionary %s: %w", dataFileType, err)
	}
	return &dictionary, nil
}

func (r reportSourceClientImpl) makeRequest(ctx context.Context) *resty.Request {
	req := r.client.R()
	req.SetContext(ctx)
	req.SetHeader("Accept", "application/json")
	if r.apiKey != "" {
		req.SetHeader("api-key", r.apiKey)
	}
	return req
}
