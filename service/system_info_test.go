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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearSystemEnv(t *testing.T) {
	for _, name := range []string{LISTEN_ADDRESS, ORIGIN_ALLOWED, LOG_LEVEL, UPSTREAM_URL, UPSTREAM_API_KEY,
		SUMMARY_CACHE, SUMMARY_CACHE_TTL_SEC, SUMMARY_CACHE_SIZE, OLRIC_DISCOVERY_MODE, OLRIC_REPLICA_COUNT, OLRIC_PEERS, NAMESPACE} {
		t.Setenv(name, "")
	}
}

func TestSystemInfoService_Defaults(t *testing.T) {
	clearSystemEnv(t)

	s, err := NewSystemInfoService()
	require.NoError(t, err)
	assert.Equal(t, ":8080", s.GetListenAddress())
	assert.Equal(t, "", s.GetOriginAllowed())
	assert.Equal(t, "info", s.GetLogLevel())
	assert.Equal(t, "", s.GetUpstreamUrl())
	assert.Equal(t, SummaryCacheLocal, s.GetSummaryCacheMode())
	assert.Equal(t, 10*time.Minute, s.GetSummaryCacheTTL())
	assert.Equal(t, 1000, s.GetSummaryCacheSize())
	assert.Equal(t, 0, s.GetOlricReplicaCount())
	assert.Nil(t, s.GetOlricPeers())
}

func TestSystemInfoService_FromEnv(t *testing.T) {
	clearSystemEnv(t)
	t.Setenv(LISTEN_ADDRESS, ":9090")
	t.Setenv(UPSTREAM_URL, "https://portal.example.com/")
	t.Setenv(UPSTREAM_API_KEY, "key")
	t.Setenv(SUMMARY_CACHE, SummaryCacheOlric)
	t.Setenv(SUMMARY_CACHE_TTL_SEC, "30")
	t.Setenv(OLRIC_DISCOVERY_MODE, "lan")
	t.Setenv(OLRIC_REPLICA_COUNT, "3")
	t.Setenv(OLRIC_PEERS, "10.0.0.1:3320, 10.0.0.2:3320,")
	t.Setenv(NAMESPACE, "portal")

	s, err := NewSystemInfoService()
	require.NoError(t, err)
	assert.Equal(t, ":9090", s.GetListenAddress())
	assert.Equal(t, "https://portal.example.com", s.GetUpstreamUrl())
	assert.Equal(t, "key", s.GetUpstreamApiKey())
	assert.Equal(t, SummaryCacheOlric, s.GetSummaryCacheMode())
	assert.Equal(t, 30*time.Second, s.GetSummaryCacheTTL())
	assert.Equal(t, "lan", s.GetOlricDiscoveryMode())
	assert.Equal(t, 3, s.GetOlricReplicaCount())
	assert.Equal(t, []string{"10.0.0.1:3320", "10.0.0.2:3320"}, s.GetOlricPeers())
	assert.Equal(t, "portal", s.GetNamespace())
}

func TestSystemInfoService_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		env   string
		value string
	}{
		{name: "unknown cache mode", env: SUMMARY_CACHE, value: "redis"},
		{name: "ttl not a number", env: SUMMARY_CACHE_TTL_SEC, value: "ten"},
		{name: "negative size", env: SUMMARY_CACHE_SIZE, value: "-1"},
		{name: "replica count not a number", env: OLRIC_REPLICA_COUNT, value: "x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearSystemEnv(t)
			t.Setenv(tt.env, tt.value)
			_, err := NewSystemInfoService()
			assert.Error(t, err)
		})
	}
}
