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
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

const (
	LISTEN_ADDRESS        = "LISTEN_ADDRESS"
	ORIGIN_ALLOWED        = "ORIGIN_ALLOWED"
	LOG_LEVEL             = "LOG_LEVEL"
	UPSTREAM_URL          = "UPSTREAM_URL"
	UPSTREAM_API_KEY      = "UPSTREAM_API_KEY"
	SUMMARY_CACHE         = "SUMMARY_CACHE"
	SUMMARY_CACHE_TTL_SEC = "SUMMARY_CACHE_TTL_SEC"
	SUMMARY_CACHE_SIZE    = "SUMMARY_CACHE_SIZE"
	OLRIC_DISCOVERY_MODE  = "OLRIC_DISCOVERY_MODE"
	OLRIC_REPLICA_COUNT   = "OLRIC_REPLICA_COUNT"
	OLRIC_PEERS           = "OLRIC_PEERS"
	NAMESPACE             = "NAMESPACE"
)

type SystemInfoService interface {
	Init() error
	GetListenAddress() string
	GetOriginAllowed() string
	GetLogLevel() string
	GetUpstreamUrl() string
	GetUpstreamApiKey() string
	GetSummaryCacheMode() string
	GetSummaryCacheTTL() time.Duration
	GetSummaryCacheSize() int
	GetOlricDiscoveryMode() string
	GetOlricReplicaCount() int
	GetOlricPeers() []string
	GetNamespace() string
}

func NewSystemInfoService() (SystemInfoService, error) {
	s := &systemInfoServiceImpl{
		systemInfoMap: make(map[string]interface{})}
	if err := s.Init(); err != nil {
		log.Error("Failed to read system info: " + err.Error())
		return nil, err
	}
	return s, nil
}

type systemInfoServiceImpl struct {
	systemInfoMap map[string]interface{}
}

func (g systemInfoServiceImpl) Init() error {
	g.setListenAddress()
	g.setOriginAllowed()
	g.setLogLevel()
	g.setUpstream()
	if err := g.setSummaryCache(); err != nil {
		return err
	}
	if err := g.setOlric(); err != nil {
		return err
	}

	return nil
}

func (g systemInfoServiceImpl) setListenAddress() {
	listenAddr := os.Getenv(LISTEN_ADDRESS)
	if listenAddr == "" {
		listenAddr = ":8080"
	}
	g.systemInfoMap[LISTEN_ADDRESS] = listenAddr
}

func (g systemInfoServiceImpl) GetListenAddress() string {
	return g.systemInfoMap[LISTEN_ADDRESS].(string)
}

func (g systemInfoServiceImpl) setOriginAllowed() {
	g.systemInfoMap[ORIGIN_ALLOWED] = os.Getenv(ORIGIN_ALLOWED)
}

func (g systemInfoServiceImpl) GetOriginAllowed() string {
	return g.systemInfoMap[ORIGIN_ALLOWED].(string)
}

func (g systemInfoServiceImpl) setLogLevel() {
	logLevel := os.Getenv(LOG_LEVEL)
	if logLevel == "" {
		logLevel = "info"
	}
	g.systemInfoMap[LOG_LEVEL] = logLevel
}

func (g systemInfoServiceImpl) GetLogLevel() string {
	return g.systemInfoMap[LOG_LEVEL].(string)
}

func (g systemInfoServiceImpl) setUpstream() {
	g.systemInfoMap[UPSTREAM_URL] = strings.TrimRight(os.Getenv(UPSTREAM_URL), "/")
	g.systemInfoMap[UPSTREAM_API_KEY] = os.Getenv(UPSTREAM_API_KEY)
}

func (g systemInfoServiceImpl) GetUpstreamUrl() string {
	return g.systemInfoMap[UPSTREAM_URL].(string)
}

func (g systemInfoServiceImpl) GetUpstreamApiKey() string {
	return g.systemInfoMap[UPSTREAM_API_KEY].(string)
}

func (g systemInfoServiceImpl) setSummaryCache() error {
	mode := os.Getenv(SUMMARY_CACHE)
	switch mode {
	case "":
		mode = SummaryCacheLocal
	case SummaryCacheLocal, SummaryCacheOlric, SummaryCacheNone:
	default:
		return fmt.Errorf("%s: unknown cache mode %q, expected one of %s, %s, %s", SUMMARY_CACHE, mode, SummaryCacheLocal, SummaryCacheOlric, SummaryCacheNone)
	}
	g.systemInfoMap[SUMMARY_CACHE] = mode

	ttlSec, err := getIntEnv(SUMMARY_CACHE_TTL_SEC, 600)
	if err != nil {
		return err
	}
	g.systemInfoMap[SUMMARY_CACHE_TTL_SEC] = time.Duration(ttlSec) * time.Second

	size, err := getIntEnv(SUMMARY_CACHE_SIZE, 1000)
	if err != nil {
		return err
	}
	g.systemInfoMap[SUMMARY_CACHE_SIZE] = size
	return nil
}

func (g systemInfoServiceImpl) GetSummaryCacheMode() string {
	return g.systemInfoMap[SUMMARY_CACHE].(string)
}

func (g systemInfoServiceImpl) GetSummaryCacheTTL() time.Duration {
	return g.systemInfoMap[SUMMARY_CACHE_TTL_SEC].(time.Duration)
}

func (g systemInfoServiceImpl) GetSummaryCacheSize() int {
	return g.systemInfoMap[SUMMARY_CACHE_SIZE].(int)
}

func (g systemInfoServiceImpl) setOlric() error {
	g.systemInfoMap[OLRIC_DISCOVERY_MODE] = os.Getenv(OLRIC_DISCOVERY_MODE)
	g.systemInfoMap[NAMESPACE] = os.Getenv(NAMESPACE)

	replicaCount, err := getIntEnv(OLRIC_REPLICA_COUNT, 0)
	if err != nil {
		return err
	}
	g.systemInfoMap[OLRIC_REPLICA_COUNT] = replicaCount

	var peers []string
	for _, peer := range strings.Split(os.Getenv(OLRIC_PEERS), ",") {
		if peer = strings.TrimSpace(peer); peer != "" {
			peers = append(peers, peer)
		}
	}
	g.systemInfoMap[OLRIC_PEERS] = peers
	return nil
}

func (g systemInfoServiceImpl) GetOlricDiscoveryMode() string {
	return g.systemInfoMap[OLRIC_DISCOVERY_MODE].(string)
}

func (g systemInfoServiceImpl) GetOlricReplicaCount() int {
	return g.systemInfoMap[OLRIC_REPLICA_COUNT].(int)
}

func (g systemInfoServiceImpl) GetOlricPeers() []string {
	return g.systemInfoMap[OLRIC_PEERS].([]string)
}

func (g systemInfoServiceImpl) GetNamespace() string {
	return g.systemInfoMap[NAMESPACE].(string)
}

func getIntEnv(name string, defaultValue int) (int, error) {
	str := os.Getenv(name)
	if str == "" {
		return defaultValue, nil
	}
	value, err := strconv.Atoi(str)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid number %q: %w", name, str, err)
	}
	if value < 0 {
		return 0, fmt.Errorf("%s: negative value %d", name, value)
	}
	return value, nil
}
